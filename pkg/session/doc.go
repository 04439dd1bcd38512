// Package session provides cookie-backed visitor sessions for Lumen.
//
// Handlers receive a *Session by declaring a parameter of that type;
// reads and writes go through Get, Set, and friends, and the framework
// saves the session after the handler returns when it changed.
//
// # Storage modes
//
// By default session values travel inside the cookie itself, signed
// with HMAC-SHA256 so clients can read but not forge them. The signing
// key is loaded from a key file (created on first run) unless a secret
// is configured explicitly:
//
//	sessions, err := session.New(session.Config{})
//
// Configuring a Store moves values server-side: the cookie then holds
// only a signed session id. Three stores ship with the package:
//
//	store := session.NewMemoryStore()
//	// or
//	store := session.NewSQLStore(db, session.WithDialect(session.DialectSQLite))
//	// or
//	store := session.NewRedisStore(client)
//
// # Lifetime
//
// Load never fails. A missing, tampered, or expired cookie simply
// yields a fresh empty session, so handlers need no error path for
// session access. Save writes nothing unless the session was modified
// or destroyed.
package session
