package storage

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig configures a RedisStore.
type RedisConfig struct {
	Addr     string // default localhost:6379
	Password string
	DB       int
	Prefix   string // prepended to every key, e.g. "roomkit:"

	// ConnectAttempts is how many PINGs are tried before giving up.
	ConnectAttempts int           // default 3
	ConnectDelay    time.Duration // first retry delay, default 200ms
}

// RedisStore keeps values in Redis.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore connects to Redis and verifies the connection with PING,
// retrying with backoff.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	if cfg.Addr == "" {
		cfg.Addr = "localhost:6379"
	}
	if cfg.ConnectAttempts <= 0 {
		cfg.ConnectAttempts = 3
	}
	if cfg.ConnectDelay <= 0 {
		cfg.ConnectDelay = 200 * time.Millisecond
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	err := Retry(ctx, cfg.ConnectAttempts, cfg.ConnectDelay, func() error {
		if err := client.Ping(ctx).Err(); err != nil {
			return &TransientError{Err: err}
		}
		return nil
	})
	if err != nil {
		_ = client.Close()
		return nil, unavailable(err, "connect to redis at %s", cfg.Addr)
	}
	return &RedisStore{client: client, prefix: cfg.Prefix}, nil
}

func (s *RedisStore) key(k string) string { return s.prefix + k }

// Get reads the value for key.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := s.client.Get(ctx, s.key(key)).Bytes()
	if stderrors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, readFailed(err, key)
	}
	return data, true, nil
}

// Set stores data under key without expiry.
func (s *RedisStore) Set(ctx context.Context, key string, data []byte) error {
	if err := s.client.Set(ctx, s.key(key), data, 0).Err(); err != nil {
		return writeFailed(err, key)
	}
	return nil
}

// Delete removes key.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return writeFailed(err, key)
	}
	return nil
}

// Close closes the client.
func (s *RedisStore) Close() error { return s.client.Close() }

var _ Store = (*RedisStore)(nil)
