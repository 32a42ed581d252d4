// Package dedupe remembers which provider events were already processed so a
// redelivered event does not trigger its notifications twice.
package dedupe

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// KeyPrefix namespaces claimed event IDs in Redis.
const KeyPrefix = "checkouthook:event:"

// Store claims event IDs.
type Store interface {
	// Claim records eventID and reports whether this call was the first to
	// see it within the retention window.
	Claim(ctx context.Context, eventID string) (bool, error)
	Ping(ctx context.Context) error
	Close() error
}

type redisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore connects to redisURL and verifies the connection.
func NewRedisStore(redisURL string, ttl time.Duration) (Store, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	if ttl <= 0 {
		ttl = 72 * time.Hour
	}

	return &redisStore{client: client, ttl: ttl}, nil
}

// Claim uses SET NX so that concurrent deliveries of one event agree on a
// single winner.
func (r *redisStore) Claim(ctx context.Context, eventID string) (bool, error) {
	if eventID == "" {
		return true, nil
	}

	ok, err := r.client.SetNX(ctx, KeyPrefix+eventID, time.Now().UTC().Format(time.RFC3339), r.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("claim event %s: %w", eventID, err)
	}
	return ok, nil
}

func (r *redisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *redisStore) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}

// NoOpStore claims every event (dedupe disabled).
type NoOpStore struct{}

func (NoOpStore) Claim(context.Context, string) (bool, error) {
	return true, nil
}

func (NoOpStore) Ping(context.Context) error {
	return nil
}

func (NoOpStore) Close() error {
	return nil
}
