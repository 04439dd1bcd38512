// Package auth provides the authentication boundary for Lumen apps.
//
// The framework resolves an identity once per request through the
// configured Authenticator (session-backed by default) and hands it to
// handlers that declare a *auth.Identity parameter:
//
//	func Dashboard(user *auth.Identity) html.Component {
//	    if user == nil {
//	        return LoginPrompt()
//	    }
//	    return DashboardPage(user)
//	}
//
// Login handlers establish the identity on the session:
//
//	func HandleLogin(sess *session.Session, email, password string) (any, error) {
//	    user, err := checkCredentials(email, password)
//	    if err != nil {
//	        return nil, err
//	    }
//	    auth.Login(sess, auth.Identity{Subject: user.ID, Email: email})
//	    return respond.Redirect("/dashboard"), nil
//	}
//
// Routes are guarded with beforeware:
//
//	app.Beforeware(auth.RequireLogin("/login"), "/login", "/static/.*")
//	admin.Beforeware(auth.RequireRole("admin"))
//
// OAuth and external identity providers are out of scope; plug them in
// by implementing Authenticator and calling Login once a provider
// callback succeeds.
package auth
