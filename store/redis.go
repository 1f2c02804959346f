package store

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is a Redis-backed Store. Unlike a read-through cache layer it does
// not fail soft: connection errors surface to the caller, because a lost
// increment or a masked lookup failure would break the counting contract.
type Redis struct {
	rdb *redis.Client
}

// NewRedis creates a Redis-backed store.
func NewRedis(addr, password string, db int) *Redis {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &Redis{rdb: rdb}
}

// Incr atomically increments the named counter via INCR.
func (r *Redis) Incr(ctx context.Context, name string) (int64, error) {
	return r.rdb.Incr(ctx, name).Result()
}

// Get retrieves a value by key. Returns (nil, false, nil) only on a genuine
// miss (redis.Nil); any other error is surfaced.
func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := r.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return val, true, nil
}

// SetEx stores a value under key with the given TTL via SETEX.
func (r *Redis) SetEx(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	return r.rdb.SetEx(ctx, key, val, ttl).Err()
}

// Ping checks the Redis connection.
func (r *Redis) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}

// Close closes the underlying Redis client.
func (r *Redis) Close() error {
	return r.rdb.Close()
}
