package auth

import "github.com/lumenkit/lumen/pkg/respond"

// RequireLogin returns a beforeware that sends anonymous visitors to
// loginURL. Register it with skip patterns covering the login route
// itself and any public pages:
//
//	app.Beforeware(auth.RequireLogin("/login"), "/login", "/static/.*")
func RequireLogin(loginURL string) func(*Identity) any {
	return func(id *Identity) any {
		if id == nil {
			return respond.Redirect(loginURL)
		}
		return nil
	}
}

// RequireRole returns a beforeware that admits only identities carrying
// at least one of the roles. Anonymous visitors fail with
// ErrUnauthorized, authenticated ones without the role with
// ErrForbidden.
func RequireRole(roles ...string) func(*Identity) (any, error) {
	return func(id *Identity) (any, error) {
		if id == nil {
			return nil, ErrUnauthorized
		}
		for _, role := range roles {
			if id.HasRole(role) {
				return nil, nil
			}
		}
		return nil, ErrForbidden
	}
}

// Require returns a beforeware applying a custom authorization check.
func Require(check func(*Identity) bool) func(*Identity) (any, error) {
	return func(id *Identity) (any, error) {
		if id == nil {
			return nil, ErrUnauthorized
		}
		if !check(id) {
			return nil, ErrForbidden
		}
		return nil, nil
	}
}
