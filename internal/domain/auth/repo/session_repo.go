package repo

import "context"

// SessionRepo issues opaque session identifiers for the session login mode.
// Storage and expiry of the session itself belong to the backing store.
type SessionRepo interface {
	CreateSession(ctx context.Context, principal string) (string, error)
}
