package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	uuid "github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/arklim/social-platform-accounts/internal/core/port"
)

// AttemptConfig defines configuration for the sliding window attempt store.
type AttemptConfig struct {
	KeyPrefix string
	TTL       time.Duration
}

// AttemptStore persists failed login attempts in Redis sorted sets. The
// window is evaluated at read time against the reference timestamp, so no
// background sweep is needed; the TTL only bounds key lifetime.
type AttemptStore struct {
	client *redis.Client
	cfg    AttemptConfig
}

// NewAttemptStore constructs a store using the provided Redis client and config.
func NewAttemptStore(client *redis.Client, cfg AttemptConfig) *AttemptStore {
	return &AttemptStore{client: client, cfg: cfg}
}

// RecordAttempt stores the provided timestamp and refreshes the key TTL.
// Members carry a random suffix so attempts sharing a timestamp still count
// separately.
func (s *AttemptStore) RecordAttempt(ctx context.Context, identity string, at time.Time) error {
	key := s.key(identity)
	member := redis.Z{
		Score:  float64(at.UnixNano()),
		Member: fmt.Sprintf("%d:%s", at.UnixNano(), uuid.NewString()),
	}

	if err := s.client.ZAdd(ctx, key, member).Err(); err != nil {
		return fmt.Errorf("redis zadd: %w", err)
	}

	if s.cfg.TTL > 0 {
		if err := s.client.Expire(ctx, key, s.cfg.TTL).Err(); err != nil {
			return fmt.Errorf("redis expire: %w", err)
		}
	}

	return nil
}

// CountAttempts returns how many attempts occurred within the window ending
// at the reference time.
func (s *AttemptStore) CountAttempts(ctx context.Context, identity string, window time.Duration, reference time.Time) (int, error) {
	if window <= 0 {
		return 0, errors.New("window must be positive")
	}

	key := s.key(identity)
	min := fmt.Sprintf("%f", float64(reference.Add(-window).UnixNano()))
	max := fmt.Sprintf("%f", float64(reference.UnixNano()))

	count, err := s.client.ZCount(ctx, key, min, max).Result()
	if err != nil {
		return 0, fmt.Errorf("redis zcount: %w", err)
	}

	return int(count), nil
}

// Reset drops all recorded attempts for the identity.
func (s *AttemptStore) Reset(ctx context.Context, identity string) error {
	if err := s.client.Del(ctx, s.key(identity)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (s *AttemptStore) key(identity string) string {
	if s.cfg.KeyPrefix == "" {
		return identity
	}
	return fmt.Sprintf("%s:%s", s.cfg.KeyPrefix, identity)
}

var _ port.AttemptStore = (*AttemptStore)(nil)
