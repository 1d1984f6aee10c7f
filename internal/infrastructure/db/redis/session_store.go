package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/taskhive/todo-system/internal/core/domain"
)

const defaultSessionTTL = 24 * time.Hour

// SessionStore maps opaque session tokens to user ids in Redis.
// Key format: session:<token>. Sessions expire after the configured TTL, so
// abandoned logins do not live forever.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionStore creates a SessionStore wrapping the given Redis client.
// If ttl <= 0, defaultSessionTTL is used.
func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &SessionStore{client: client, ttl: ttl}
}

// Create mints a fresh opaque token bound to userID.
func (s *SessionStore) Create(ctx context.Context, userID string) (string, error) {
	token := uuid.NewString()
	if err := s.client.Set(ctx, s.key(token), userID, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	return token, nil
}

// Resolve returns the user id for a token. An absent or expired token is
// reported as ErrUnauthenticated, never as a storage failure.
func (s *SessionStore) Resolve(ctx context.Context, token string) (string, error) {
	userID, err := s.client.Get(ctx, s.key(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", domain.ErrUnauthenticated
		}
		return "", fmt.Errorf("resolve session: %w", err)
	}
	return userID, nil
}

// Invalidate removes the session. Invalidating an unknown token is a no-op.
func (s *SessionStore) Invalidate(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, s.key(token)).Err(); err != nil {
		return fmt.Errorf("invalidate session: %w", err)
	}
	return nil
}

func (s *SessionStore) key(token string) string {
	return "session:" + token
}
