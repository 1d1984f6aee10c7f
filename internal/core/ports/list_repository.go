package ports

import (
	"context"

	"github.com/taskhive/todo-system/internal/core/domain"
)

// ListRepository defines persistence operations for collaborative lists.
//
// Mutating operations take the acting owner's id and embed it in the update
// filter, so the authorization check and the write hit the same persisted
// document — there is no window between classify and mutate. Membership
// updates are read-modify-write against the stored set ($addToSet / $pull),
// never a replacement of a stale in-memory copy.
type ListRepository interface {
	Create(ctx context.Context, list *domain.List) (*domain.List, error)
	FindByID(ctx context.Context, id string) (*domain.List, error)
	// FindForUser returns lists the user owns or is a member of, ascending by
	// creation time.
	FindForUser(ctx context.Context, userID string) ([]*domain.List, error)
	Rename(ctx context.Context, id, ownerID, name string) error
	// Delete removes the list and cascades to all of its tasks.
	Delete(ctx context.Context, id, ownerID string) error
	// AddMember adds memberID to the set. Returns domain.ErrAlreadyMember when
	// the id was already present (set unchanged).
	AddMember(ctx context.Context, id, ownerID, memberID string) error
	// RemoveMember removes memberID from the set. Returns
	// domain.ErrMemberNotFound when the id was not present.
	RemoveMember(ctx context.Context, id, ownerID, memberID string) error
	// RemoveUserEverywhere pulls userID out of every member set it appears in.
	// Used when an account is deleted.
	RemoveUserEverywhere(ctx context.Context, userID string) error
	// DeleteOwnedBy removes every list owned by ownerID, cascading to tasks.
	DeleteOwnedBy(ctx context.Context, ownerID string) error
}
