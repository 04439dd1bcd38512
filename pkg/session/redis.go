package session

import (
	"context"
	"errors"
	"time"
)

// RedisClient is the subset of Redis operations the store needs. The
// method set matches github.com/redis/go-redis/v9, so a *redis.Client
// satisfies it behind a thin adapter (or directly via an interface
// wrapper in the caller).
type RedisClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) RedisStatusCmd
	Get(ctx context.Context, key string) RedisStringCmd
	Del(ctx context.Context, keys ...string) RedisIntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) RedisBoolCmd
	Close() error
}

// RedisStatusCmd is the result of a Redis status reply.
type RedisStatusCmd interface {
	Err() error
}

// RedisStringCmd is the result of a Redis string reply.
type RedisStringCmd interface {
	Bytes() ([]byte, error)
	Err() error
}

// RedisIntCmd is the result of a Redis integer reply.
type RedisIntCmd interface {
	Err() error
}

// RedisBoolCmd is the result of a Redis boolean reply.
type RedisBoolCmd interface {
	Err() error
}

// ErrRedisNil mirrors redis.Nil from go-redis: the reply for a missing
// key. Fake clients in tests return it to signal absence.
var ErrRedisNil = errors.New("redis: nil")

// RedisStore persists sessions in Redis with native TTL expiry. Use it
// when multiple instances must share session state.
type RedisStore struct {
	client RedisClient
	prefix string
	closed bool
}

// RedisStoreOption configures a RedisStore.
type RedisStoreOption func(*redisStoreConfig)

type redisStoreConfig struct {
	prefix string
}

// WithRedisPrefix sets the key prefix. Default "lumen:session:".
func WithRedisPrefix(prefix string) RedisStoreOption {
	return func(c *redisStoreConfig) {
		c.prefix = prefix
	}
}

// NewRedisStore creates a Redis-backed store. The client is borrowed:
// Close does not close it.
func NewRedisStore(client RedisClient, opts ...RedisStoreOption) *RedisStore {
	cfg := &redisStoreConfig{prefix: "lumen:session:"}
	for _, opt := range opts {
		opt(cfg)
	}
	return &RedisStore{client: client, prefix: cfg.prefix}
}

func (r *RedisStore) key(id string) string {
	return r.prefix + id
}

func (r *RedisStore) Save(ctx context.Context, id string, data []byte, expiresAt time.Time) error {
	if r.closed {
		return ErrStoreClosed
	}
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return r.Delete(ctx, id)
	}
	return r.client.Set(ctx, r.key(id), data, ttl).Err()
}

func (r *RedisStore) Load(ctx context.Context, id string) ([]byte, error) {
	if r.closed {
		return nil, ErrStoreClosed
	}
	data, err := r.client.Get(ctx, r.key(id)).Bytes()
	if err != nil {
		// go-redis reports a missing key with its own Nil error, which
		// only matches ours by message.
		if errors.Is(err, ErrRedisNil) || err.Error() == ErrRedisNil.Error() {
			return nil, nil
		}
		return nil, err
	}
	return data, nil
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	if r.closed {
		return ErrStoreClosed
	}
	return r.client.Del(ctx, r.key(id)).Err()
}

func (r *RedisStore) Touch(ctx context.Context, id string, expiresAt time.Time) error {
	if r.closed {
		return ErrStoreClosed
	}
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return r.Delete(ctx, id)
	}
	return r.client.Expire(ctx, r.key(id), ttl).Err()
}

// Close marks the store closed. The Redis client stays open since it
// may be shared with the rest of the application.
func (r *RedisStore) Close() error {
	r.closed = true
	return nil
}
