package ports

import (
	"context"

	"github.com/taskhive/todo-system/internal/core/domain"
)

// TaskPatch is a partial update: only non-nil fields are written, absent
// fields retain their prior value.
type TaskPatch struct {
	Text     *string
	Date     *string
	Checked  *bool
	Priority *string
}

// IsEmpty reports whether the patch carries no fields at all.
func (p TaskPatch) IsEmpty() bool {
	return p.Text == nil && p.Date == nil && p.Checked == nil && p.Priority == nil
}

// TaskRepository defines persistence operations for tasks. Every operation is
// scoped to a list id; a task id from another list resolves to not-found.
type TaskRepository interface {
	Insert(ctx context.Context, task *domain.Task) (*domain.Task, error)
	ListByList(ctx context.Context, listID string) ([]*domain.Task, error)
	// Update applies the patch and returns the resulting task.
	Update(ctx context.Context, listID, taskID string, patch TaskPatch) (*domain.Task, error)
	// Toggle atomically flips the checked flag and returns the resulting task.
	Toggle(ctx context.Context, listID, taskID string) (*domain.Task, error)
	Delete(ctx context.Context, listID, taskID string) error
}
