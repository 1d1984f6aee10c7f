package ports

import (
	"context"

	"github.com/taskhive/todo-system/internal/core/domain"
)

// MemberView is the resolved profile of a list participant.
type MemberView struct {
	ID       string
	Name     string
	Username string
}

// ListDetail is the full list view returned to an authorized requester,
// including the requester's own access level.
type ListDetail struct {
	List   *domain.List
	Access domain.AccessLevel
}

// ListService defines use-case operations over collaborative lists and their
// membership. Governance operations (rename, delete, add/remove member) are
// owner-only; reads are allowed for owner and members.
type ListService interface {
	CreateList(ctx context.Context, ownerID, name string) (*domain.List, error)
	GetList(ctx context.Context, listID, requesterID string) (*ListDetail, error)
	ListsForUser(ctx context.Context, userID string) ([]*domain.List, error)
	RenameList(ctx context.Context, listID, requesterID, name string) (*domain.List, error)
	DeleteList(ctx context.Context, listID, requesterID string) error

	AddMember(ctx context.Context, listID, requesterID, targetUsername string) (*MemberView, error)
	RemoveMember(ctx context.Context, listID, requesterID, memberID string) error
	ListMembers(ctx context.Context, listID, requesterID string) ([]MemberView, error)
}
