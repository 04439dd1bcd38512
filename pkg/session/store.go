package session

import (
	"context"
	"errors"
	"time"
)

// ErrStoreClosed is returned for operations on a closed store.
var ErrStoreClosed = errors.New("session: store closed")

// Store persists session values server-side. When configured, the
// session cookie carries only a signed id and values live in the store.
// Implementations must be safe for concurrent use.
type Store interface {
	// Save writes session data, overwriting any previous value. The
	// session becomes invalid after expiresAt.
	Save(ctx context.Context, id string, data []byte, expiresAt time.Time) error

	// Load returns session data, or (nil, nil) when the session does
	// not exist or has expired.
	Load(ctx context.Context, id string) ([]byte, error)

	// Delete removes a session. Deleting a missing session is not an
	// error.
	Delete(ctx context.Context, id string) error

	// Touch extends a session's expiry without rewriting its data.
	// Touching a missing session is not an error.
	Touch(ctx context.Context, id string, expiresAt time.Time) error

	// Close releases resources held by the store.
	Close() error
}
