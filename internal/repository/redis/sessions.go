package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	red "github.com/redis/go-redis/v9"

	"github.com/arklim/social-platform-accounts/internal/core/port"
)

const defaultSessionPrefix = "session"

// SessionManager hands out per-session stores backed by Redis hashes. Each
// session id maps to one hash; the TTL refreshes on every write so active
// sessions stay alive.
type SessionManager struct {
	client *red.Client
	prefix string
	ttl    time.Duration
}

// NewSessionManager constructs a manager with the provided key prefix and
// session TTL.
func NewSessionManager(client *red.Client, keyPrefix string, ttl time.Duration) *SessionManager {
	prefix := strings.TrimSpace(keyPrefix)
	if prefix == "" {
		prefix = defaultSessionPrefix
	}

	return &SessionManager{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

// Handle binds a store to the given session id. The id is the caller's
// opaque session identifier, typically a cookie value.
func (m *SessionManager) Handle(sessionID string) port.SessionStore {
	return &sessionStore{
		client: m.client,
		key:    fmt.Sprintf("%s:%s", m.prefix, sessionID),
		ttl:    m.ttl,
	}
}

type sessionStore struct {
	client *red.Client
	key    string
	ttl    time.Duration
}

func (s *sessionStore) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := s.client.HGet(ctx, s.key, key).Result()
	if err == red.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis hget session: %w", err)
	}
	return val, true, nil
}

func (s *sessionStore) Set(ctx context.Context, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}

	fields := make(map[string]any, len(values))
	for key, val := range values {
		fields[key] = val
	}

	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, s.key, fields)
	if s.ttl > 0 {
		pipe.Expire(ctx, s.key, s.ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis set session: %w", err)
	}

	return nil
}

func (s *sessionStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("redis del session: %w", err)
	}
	return nil
}

func (s *sessionStore) Active(ctx context.Context) (bool, error) {
	count, err := s.client.Exists(ctx, s.key).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists session: %w", err)
	}
	return count > 0, nil
}

var _ port.SessionStore = (*sessionStore)(nil)
