package auth

import "net/http"

// Authenticator resolves the visitor's identity for a request. Nil with
// a nil error means anonymous; errors are reserved for provider
// failures, never for missing credentials.
type Authenticator interface {
	Authenticate(r *http.Request, sess Session) (*Identity, error)
}

// SessionAuthenticator reads the identity a Login call stored on the
// session. It is the default when no authenticator is configured.
type SessionAuthenticator struct{}

func (SessionAuthenticator) Authenticate(r *http.Request, sess Session) (*Identity, error) {
	return FromSession(sess), nil
}

// AuthenticatorFunc adapts a function to the Authenticator interface.
type AuthenticatorFunc func(r *http.Request, sess Session) (*Identity, error)

func (f AuthenticatorFunc) Authenticate(r *http.Request, sess Session) (*Identity, error) {
	return f(r, sess)
}

// Chain tries authenticators in order and returns the first identity
// found. A provider error stops the chain.
func Chain(authenticators ...Authenticator) Authenticator {
	return AuthenticatorFunc(func(r *http.Request, sess Session) (*Identity, error) {
		for _, a := range authenticators {
			id, err := a.Authenticate(r, sess)
			if err != nil {
				return nil, err
			}
			if id != nil {
				return id, nil
			}
		}
		return nil, nil
	})
}
