// Package redis implements domain.RunLock on Redis so that several replicas
// never run the pipeline at the same time.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/davidbz/pricesync/internal/domain"
	"github.com/davidbz/pricesync/internal/observability"
)

// releaseScript deletes the key only while it still holds our token, so an
// expired lock taken over by another replica is left alone.
//
//nolint:gochecknoglobals // Compiled once, shared by all locks
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Lock is a single-holder lock stored under one Redis key.
type Lock struct {
	client redis.UniversalClient
	key    string
	ttl    time.Duration
	token  string
}

// NewClient creates a Redis client from a redis:// URL.
func NewClient(config Config) (*redis.Client, error) {
	if config.URL == "" {
		return nil, fmt.Errorf("%w: REDIS_URL is required", domain.ErrConfiguration)
	}

	opts, err := redis.ParseURL(config.URL)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid REDIS_URL: %w", domain.ErrConfiguration, err)
	}

	return redis.NewClient(opts), nil
}

// NewLock creates a lock. Each Lock has its own token, so one process
// should share a single instance.
func NewLock(client redis.UniversalClient, key string, ttl time.Duration) (*Lock, error) {
	if client == nil {
		return nil, errors.New("redis client cannot be nil")
	}
	if key == "" {
		return nil, errors.New("lock key cannot be empty")
	}
	if ttl <= 0 {
		return nil, errors.New("lock ttl must be positive")
	}

	return &Lock{
		client: client,
		key:    key,
		ttl:    ttl,
		token:  uuid.New().String(),
	}, nil
}

// TryAcquire sets the key if it is absent.
func (l *Lock) TryAcquire(ctx context.Context) (bool, error) {
	acquired, err := l.client.SetNX(ctx, l.key, l.token, l.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire lock %s: %w", l.key, err)
	}

	observability.FromContext(ctx).Debug("run lock attempt",
		observability.String("key", l.key),
		observability.Bool("acquired", acquired))

	return acquired, nil
}

// Release deletes the key if this lock still holds it.
func (l *Lock) Release(ctx context.Context) error {
	deleted, err := releaseScript.Run(ctx, l.client, []string{l.key}, l.token).Int()
	if err != nil {
		return fmt.Errorf("failed to release lock %s: %w", l.key, err)
	}

	if deleted == 0 {
		observability.FromContext(ctx).Warn("run lock expired before release",
			observability.String("key", l.key))
	}

	return nil
}
