package ports

import (
	"context"
	"time"
)

// SessionStore maps opaque session tokens to user ids. Sessions are created
// on login, invalidated on logout, and expire after the store's TTL.
type SessionStore interface {
	Create(ctx context.Context, userID string) (token string, err error)
	// Resolve returns the user id for a token, or domain.ErrUnauthenticated
	// when the token is absent or unknown.
	Resolve(ctx context.Context, token string) (userID string, err error)
	Invalidate(ctx context.Context, token string) error
}

// TicketStore issues short-lived single-use password-reset tickets. A ticket
// is handed out by a successful security-answer verification and must be
// presented to reset the password; redeeming consumes it.
type TicketStore interface {
	Issue(ctx context.Context, userID string, ttl time.Duration) (ticket string, err error)
	// Redeem returns the user id bound to the ticket and invalidates it, or
	// domain.ErrResetTicketInvalid when unknown or expired.
	Redeem(ctx context.Context, ticket string) (userID string, err error)
}
