package repo

import (
	"context"
	"time"
)

// TokenRepo backs the optional refresh-rotation policy: redeemed refresh
// JTIs are marked revoked until their natural expiry.
type TokenRepo interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error

	IsRevoked(ctx context.Context, jti string) (bool, error)
}
