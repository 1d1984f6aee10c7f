package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/taskhive/todo-system/internal/core/domain"
	"github.com/taskhive/todo-system/internal/core/ports"
)

// ListService implements collaborative list and membership use cases. Every
// operation classifies the requester first; a nonexistent list surfaces
// ErrListNotFound while an existing but inaccessible one surfaces
// ErrForbidden — the two are deliberately distinguishable.
type ListService struct {
	lists  ports.ListRepository
	users  ports.UserRepository
	logger zerolog.Logger
}

func NewListService(lists ports.ListRepository, users ports.UserRepository, logger zerolog.Logger) *ListService {
	return &ListService{lists: lists, users: users, logger: logger}
}

func (s *ListService) CreateList(ctx context.Context, ownerID, name string) (*domain.List, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}

	list := &domain.List{
		Name:      name,
		OwnerID:   ownerID,
		MemberIDs: []string{},
		CreatedAt: time.Now().UTC(),
	}
	created, err := s.lists.Create(ctx, list)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("list_id", created.ID).Str("owner_id", ownerID).Msg("list created")
	return created, nil
}

func (s *ListService) GetList(ctx context.Context, listID, requesterID string) (*ports.ListDetail, error) {
	list, access, err := s.classify(ctx, listID, requesterID)
	if err != nil {
		return nil, err
	}
	if !access.CanRead() {
		return nil, domain.ErrForbidden
	}
	return &ports.ListDetail{List: list, Access: access}, nil
}

func (s *ListService) ListsForUser(ctx context.Context, userID string) ([]*domain.List, error) {
	return s.lists.FindForUser(ctx, userID)
}

func (s *ListService) RenameList(ctx context.Context, listID, requesterID, name string) (*domain.List, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}

	list, access, err := s.classify(ctx, listID, requesterID)
	if err != nil {
		return nil, err
	}
	if access != domain.AccessOwner {
		return nil, domain.ErrForbidden
	}

	if err := s.lists.Rename(ctx, listID, requesterID, name); err != nil {
		return nil, err
	}
	list.Name = name
	return list, nil
}

// DeleteList removes the list and cascades to all of its tasks. Owner-only.
func (s *ListService) DeleteList(ctx context.Context, listID, requesterID string) error {
	_, access, err := s.classify(ctx, listID, requesterID)
	if err != nil {
		return err
	}
	if access != domain.AccessOwner {
		return domain.ErrForbidden
	}

	if err := s.lists.Delete(ctx, listID, requesterID); err != nil {
		return err
	}
	s.logger.Info().Str("list_id", listID).Str("owner_id", requesterID).Msg("list deleted")
	return nil
}

// AddMember resolves targetUsername and adds it to the member set. Owner-only.
// Adding the owner or an existing member is rejected, not silently accepted.
func (s *ListService) AddMember(ctx context.Context, listID, requesterID, targetUsername string) (*ports.MemberView, error) {
	list, access, err := s.classify(ctx, listID, requesterID)
	if err != nil {
		return nil, err
	}
	if access != domain.AccessOwner {
		return nil, domain.ErrForbidden
	}

	target, err := s.users.FindByUsername(ctx, strings.TrimSpace(targetUsername))
	if err != nil {
		return nil, err
	}
	if target.ID == list.OwnerID {
		return nil, domain.ErrMemberIsOwner
	}
	if list.HasMember(target.ID) {
		return nil, domain.ErrAlreadyMember
	}

	// The repository re-checks set membership inside the atomic update, so a
	// concurrent add of the same user still yields ErrAlreadyMember.
	if err := s.lists.AddMember(ctx, listID, requesterID, target.ID); err != nil {
		return nil, err
	}

	s.logger.Info().Str("list_id", listID).Str("member_id", target.ID).Msg("member added")
	return &ports.MemberView{ID: target.ID, Name: target.Name, Username: target.Username}, nil
}

// RemoveMember drops memberID from the set. Owner-only. Removing an absent
// member is an error both times it is attempted, never a silent no-op.
func (s *ListService) RemoveMember(ctx context.Context, listID, requesterID, memberID string) error {
	list, access, err := s.classify(ctx, listID, requesterID)
	if err != nil {
		return err
	}
	if access != domain.AccessOwner {
		return domain.ErrForbidden
	}
	if !list.HasMember(memberID) {
		return domain.ErrMemberNotFound
	}

	if err := s.lists.RemoveMember(ctx, listID, requesterID, memberID); err != nil {
		return err
	}
	s.logger.Info().Str("list_id", listID).Str("member_id", memberID).Msg("member removed")
	return nil
}

func (s *ListService) ListMembers(ctx context.Context, listID, requesterID string) ([]ports.MemberView, error) {
	list, access, err := s.classify(ctx, listID, requesterID)
	if err != nil {
		return nil, err
	}
	if !access.CanRead() {
		return nil, domain.ErrForbidden
	}

	members := make([]ports.MemberView, 0, len(list.MemberIDs))
	for _, id := range list.MemberIDs {
		user, err := s.users.FindByID(ctx, id)
		if err != nil {
			// A member whose account vanished is skipped rather than failing
			// the whole listing.
			s.logger.Warn().Str("list_id", listID).Str("member_id", id).Msg("member account not found")
			continue
		}
		members = append(members, ports.MemberView{ID: user.ID, Name: user.Name, Username: user.Username})
	}
	return members, nil
}

// classify loads the list and produces the requester's access level. The
// not-found/forbidden distinction starts here.
func (s *ListService) classify(ctx context.Context, listID, requesterID string) (*domain.List, domain.AccessLevel, error) {
	list, err := s.lists.FindByID(ctx, listID)
	if err != nil {
		return nil, domain.AccessDenied, err
	}
	return list, list.ClassifyAccess(requesterID), nil
}
