package redis

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	customErrors "github.com/krishna-gitAcc/hospital-management-project/internal/domain/auth/errors"
)

const sessionKeyPrefix = "sess:"

// RedisSessionRepo mints opaque session ids and leaves their lifecycle to
// redis key expiry.
type RedisSessionRepo struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessionRepo(client *redis.Client, ttl time.Duration) *RedisSessionRepo {
	return &RedisSessionRepo{client: client, ttl: ttl}
}

func (r *RedisSessionRepo) CreateSession(ctx context.Context, principal string) (string, error) {
	id := uuid.NewString()
	if err := r.client.Set(ctx, sessionKeyPrefix+id, principal, r.ttl).Err(); err != nil {
		return "", customErrors.WrapStoreUnavailable(err, "CreateSession")
	}
	return id, nil
}
