package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedKeyPrefix = "revoked:"

// RedisTokenRepo marks redeemed refresh JTIs revoked until their natural
// expiry. Used only when the rotation-revocation policy is enabled.
type RedisTokenRepo struct {
	client *redis.Client
}

func NewRedisTokenRepo(client *redis.Client) *RedisTokenRepo {
	return &RedisTokenRepo{client: client}
}

func (r *RedisTokenRepo) Revoke(ctx context.Context, jti string, exp time.Time) error {
	return r.client.Set(ctx, revokedKeyPrefix+jti, 1, safeTTL(exp)).Err()
}

func (r *RedisTokenRepo) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := r.client.Exists(ctx, revokedKeyPrefix+jti).Result()
	if err != nil {
		// unreadable revocation list counts as revoked, error goes up
		return true, err
	}
	return n > 0, nil
}

func safeTTL(exp time.Time) time.Duration {
	ttl := time.Until(exp)
	if ttl <= 0 {
		return time.Minute
	}
	return ttl
}
