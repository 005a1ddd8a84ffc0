package boomerang

import "context"

// Session is a transient key-value store scoped to one client session.
//
// Implementations are expected to keep values for a single round trip.
// Get returns ErrNotFound when the key is absent.
type Session interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Sessions resolves the Session for a session ID.
type Sessions interface {
	Session(id string) Session
}
