package ports

import (
	"context"

	"github.com/taskhive/todo-system/internal/core/domain"
)

// CreateTaskInput carries the fields accepted when creating a task. Absent
// optional fields fall back to their defaults (checked=false, priority=Mid,
// date="").
type CreateTaskInput struct {
	Text     string
	Date     string
	Checked  bool
	Priority string
}

// TaskService defines use-case operations over tasks. Every operation first
// classifies the requester against the owning list; a denied requester never
// touches task state.
type TaskService interface {
	List(ctx context.Context, listID, requesterID string) ([]*domain.Task, error)
	Create(ctx context.Context, listID, requesterID string, input CreateTaskInput) (*domain.Task, error)
	Update(ctx context.Context, listID, taskID, requesterID string, patch TaskPatch) (*domain.Task, error)
	Toggle(ctx context.Context, listID, taskID, requesterID string) (*domain.Task, error)
	Delete(ctx context.Context, listID, taskID, requesterID string) error
}
