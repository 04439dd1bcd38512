package auth

import (
	"errors"
	"net/http"
)

// SessionKey is the session key the identity is stored under.
const SessionKey = "auth"

var (
	// ErrUnauthorized is returned when authentication is required but
	// not present. The dispatcher maps it to a 401 response.
	ErrUnauthorized = errors.New("auth: authentication required")

	// ErrForbidden is returned when authentication is present but
	// insufficient. The dispatcher maps it to a 403 response.
	ErrForbidden = errors.New("auth: insufficient permissions")
)

// Session is the minimal session access this package needs. A
// *session.Session satisfies it; the interface keeps auth free of the
// session package so either can evolve alone.
type Session interface {
	Get(key string) (any, bool)
	Set(key string, value any)
	Delete(key string)
	Unmarshal(key string, dst any) error
}

// Identity is the authenticated visitor. Handlers receive it by
// declaring a *auth.Identity parameter, which is nil for anonymous
// requests.
type Identity struct {
	// Subject is the stable user identifier.
	Subject string `json:"sub"`

	Name  string   `json:"name,omitempty"`
	Email string   `json:"email,omitempty"`
	Roles []string `json:"roles,omitempty"`

	// Attrs carries provider-specific string attributes.
	Attrs map[string]string `json:"attrs,omitempty"`
}

// HasRole reports whether the identity carries the role.
func (id *Identity) HasRole(role string) bool {
	if id == nil {
		return false
	}
	for _, r := range id.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Attr returns a provider attribute, or "" when absent.
func (id *Identity) Attr(key string) string {
	if id == nil {
		return ""
	}
	return id.Attrs[key]
}

// Login stores the identity on the session. Subsequent requests see it
// through their *auth.Identity parameter.
func Login(sess Session, id Identity) {
	if sess == nil {
		return
	}
	sess.Set(SessionKey, id)
}

// Logout removes the identity from the session.
func Logout(sess Session) {
	if sess == nil {
		return
	}
	sess.Delete(SessionKey)
}

// FromSession reads the identity Login stored, or nil when the visitor
// is anonymous. Values restored from a cookie come back as generic
// maps, so this decodes through the session's Unmarshal.
func FromSession(sess Session) *Identity {
	if sess == nil {
		return nil
	}
	if _, ok := sess.Get(SessionKey); !ok {
		return nil
	}
	var id Identity
	if err := sess.Unmarshal(SessionKey, &id); err != nil {
		return nil
	}
	if id.Subject == "" {
		return nil
	}
	return &id
}

// StatusCode maps auth errors to HTTP status codes. It returns
// (code, true) for auth errors and (0, false) for everything else.
func StatusCode(err error) (int, bool) {
	switch {
	case err == nil:
		return 0, false
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, true
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden, true
	default:
		return 0, false
	}
}

// IsAuthError reports whether err is an authentication or authorization
// error.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrForbidden)
}
