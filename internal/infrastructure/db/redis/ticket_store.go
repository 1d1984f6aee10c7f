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

// TicketStore issues single-use password-reset tickets in Redis.
// Key format: reset:<ticket>. A ticket only exists between a successful
// security-answer verification and the reset that consumes it.
type TicketStore struct {
	client *redis.Client
}

func NewTicketStore(client *redis.Client) *TicketStore {
	return &TicketStore{client: client}
}

// Issue mints a ticket bound to userID that expires after ttl.
func (t *TicketStore) Issue(ctx context.Context, userID string, ttl time.Duration) (string, error) {
	ticket := uuid.NewString()
	if err := t.client.Set(ctx, t.key(ticket), userID, ttl).Err(); err != nil {
		return "", fmt.Errorf("issue reset ticket: %w", err)
	}
	return ticket, nil
}

// Redeem returns the bound user id and deletes the ticket in one GETDEL, so
// a ticket can never authorize two resets.
func (t *TicketStore) Redeem(ctx context.Context, ticket string) (string, error) {
	userID, err := t.client.GetDel(ctx, t.key(ticket)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", domain.ErrResetTicketInvalid
		}
		return "", fmt.Errorf("redeem reset ticket: %w", err)
	}
	return userID, nil
}

func (t *TicketStore) key(ticket string) string {
	return "reset:" + ticket
}
