package session

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Config configures session handling.
type Config struct {
	// CookieName is the session cookie's name. Default "session_".
	CookieName string

	// MaxAge bounds both the cookie lifetime and token validity.
	// Default 365 days; zero keeps the default, negative disables expiry.
	MaxAge time.Duration

	// Cookie attributes. The cookie is always HTTP-only. SameSite
	// defaults to Lax and Path to "/".
	Path     string
	Domain   string
	Secure   bool
	SameSite http.SameSite

	// Secret signs session cookies. When empty, a key is loaded from
	// (or created at) KeyFile.
	Secret  []byte
	KeyFile string

	// Store moves session values server-side: the cookie then carries
	// only a signed session id. Nil keeps values in the cookie itself.
	Store Store

	// TTL is the server-side expiry for stored sessions. Defaults to
	// MaxAge.
	TTL time.Duration

	// Logger for store failures. Defaults to slog.Default().
	Logger *slog.Logger
}

const defaultMaxAge = 365 * 24 * time.Hour

// Sessions loads and saves visitor sessions for the application. Safe
// for concurrent use; per-request state lives in the Session values it
// hands out.
type Sessions struct {
	cfg   Config
	codec *Codec
	store Store
	log   *slog.Logger
	now   func() time.Time
}

// New builds the session layer, resolving the signing key if needed.
func New(cfg Config) (*Sessions, error) {
	if cfg.CookieName == "" {
		cfg.CookieName = "session_"
	}
	if cfg.MaxAge == 0 {
		cfg.MaxAge = defaultMaxAge
	}
	if cfg.Path == "" {
		cfg.Path = "/"
	}
	if cfg.SameSite == 0 {
		cfg.SameSite = http.SameSiteLaxMode
	}
	if cfg.TTL == 0 {
		cfg.TTL = cfg.MaxAge
	}
	if len(cfg.Secret) == 0 {
		key, err := LoadOrCreateKey(cfg.KeyFile)
		if err != nil {
			return nil, err
		}
		cfg.Secret = key
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Sessions{
		cfg:   cfg,
		codec: NewCodec(cfg.Secret),
		store: cfg.Store,
		log:   log,
		now:   time.Now,
	}, nil
}

// maxAge returns the effective expiry window, zero meaning none.
func (s *Sessions) maxAge() time.Duration {
	if s.cfg.MaxAge < 0 {
		return 0
	}
	return s.cfg.MaxAge
}

// Load restores the visitor's session from the request. It never fails:
// a missing, tampered, or expired cookie yields a fresh empty session.
func (s *Sessions) Load(r *http.Request) *Session {
	cookie, err := r.Cookie(s.cfg.CookieName)
	if err != nil || cookie.Value == "" {
		return newSession(uuid.NewString(), nil, true)
	}

	values, err := s.codec.Decode(cookie.Value, s.maxAge(), s.now())
	if err != nil {
		return newSession(uuid.NewString(), nil, true)
	}

	if s.store == nil {
		id, _ := values["_id"].(string)
		if id == "" {
			id = uuid.NewString()
		}
		delete(values, "_id")
		return newSession(id, values, false)
	}

	// Server-side mode: the cookie holds only the signed id.
	id, _ := values["_id"].(string)
	if id == "" {
		return newSession(uuid.NewString(), nil, true)
	}
	data, err := s.store.Load(r.Context(), id)
	if err != nil {
		s.log.Error("session load failed", "error", err)
		return newSession(uuid.NewString(), nil, true)
	}
	if data == nil {
		return newSession(id, nil, true)
	}
	stored, err := decodeStored(data)
	if err != nil {
		s.log.Error("session decode failed", "error", err)
		return newSession(uuid.NewString(), nil, true)
	}
	if err := s.store.Touch(r.Context(), id, s.now().Add(s.cfg.TTL)); err != nil {
		s.log.Warn("session touch failed", "error", err)
	}
	return newSession(id, stored, false)
}

// Save writes the session back to the client (and store) when needed.
// Untouched sessions write nothing.
func (s *Sessions) Save(w http.ResponseWriter, r *http.Request, sess *Session) error {
	if sess == nil {
		return nil
	}
	if sess.Destroyed() {
		if s.store != nil {
			if err := s.store.Delete(r.Context(), sess.ID()); err != nil {
				s.log.Error("session delete failed", "error", err)
			}
		}
		http.SetCookie(w, s.cookie("", -1))
		return nil
	}
	if !sess.Dirty() {
		return nil
	}

	if s.store == nil {
		values := sess.Values()
		values["_id"] = sess.ID()
		token, err := s.codec.Encode(values, s.now())
		if err != nil {
			return err
		}
		http.SetCookie(w, s.cookie(token, int(s.maxAgeSeconds())))
		return nil
	}

	data, err := encodeStored(sess.Values())
	if err != nil {
		return err
	}
	if err := s.store.Save(r.Context(), sess.ID(), data, s.now().Add(s.cfg.TTL)); err != nil {
		return err
	}
	token, err := s.codec.Encode(map[string]any{"_id": sess.ID()}, s.now())
	if err != nil {
		return err
	}
	http.SetCookie(w, s.cookie(token, int(s.maxAgeSeconds())))
	return nil
}

func (s *Sessions) maxAgeSeconds() int64 {
	if s.cfg.MaxAge < 0 {
		return 0
	}
	return int64(s.cfg.MaxAge / time.Second)
}

func (s *Sessions) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     s.cfg.CookieName,
		Value:    value,
		Path:     s.cfg.Path,
		Domain:   s.cfg.Domain,
		MaxAge:   maxAge,
		Secure:   s.cfg.Secure,
		HttpOnly: true,
		SameSite: s.cfg.SameSite,
	}
}

// Close releases the backing store, if any.
func (s *Sessions) Close() error {
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}
