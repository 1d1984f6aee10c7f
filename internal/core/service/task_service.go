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

// TaskService implements task CRUD scoped to a list. Owner and members share
// the same editing rights over tasks; everyone else is denied before any task
// state is touched.
type TaskService struct {
	tasks  ports.TaskRepository
	lists  ports.ListRepository
	logger zerolog.Logger
}

func NewTaskService(tasks ports.TaskRepository, lists ports.ListRepository, logger zerolog.Logger) *TaskService {
	return &TaskService{tasks: tasks, lists: lists, logger: logger}
}

// List returns the list's tasks ascending by creation time.
func (s *TaskService) List(ctx context.Context, listID, requesterID string) ([]*domain.Task, error) {
	if err := s.authorize(ctx, listID, requesterID); err != nil {
		return nil, err
	}
	return s.tasks.ListByList(ctx, listID)
}

func (s *TaskService) Create(ctx context.Context, listID, requesterID string, input ports.CreateTaskInput) (*domain.Task, error) {
	if err := s.authorize(ctx, listID, requesterID); err != nil {
		return nil, err
	}

	text := strings.TrimSpace(input.Text)
	if text == "" {
		return nil, fmt.Errorf("%w: text is required", domain.ErrValidation)
	}

	task := &domain.Task{
		ListID:    listID,
		Text:      text,
		Date:      input.Date,
		Checked:   input.Checked,
		Priority:  domain.NormalizePriority(input.Priority),
		CreatedAt: time.Now().UTC(),
	}
	created, err := s.tasks.Insert(ctx, task)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("list_id", listID).Str("task_id", created.ID).Msg("task created")
	return created, nil
}

// Update applies a partial update: absent fields keep their prior value.
// Text is trimmed but, unlike Create, an empty override is allowed to persist.
func (s *TaskService) Update(ctx context.Context, listID, taskID, requesterID string, patch ports.TaskPatch) (*domain.Task, error) {
	if err := s.authorize(ctx, listID, requesterID); err != nil {
		return nil, err
	}

	if patch.Text != nil {
		trimmed := strings.TrimSpace(*patch.Text)
		patch.Text = &trimmed
	}
	if patch.Priority != nil {
		normalized := string(domain.NormalizePriority(*patch.Priority))
		patch.Priority = &normalized
	}

	return s.tasks.Update(ctx, listID, taskID, patch)
}

// Toggle flips the task between Open and Done.
func (s *TaskService) Toggle(ctx context.Context, listID, taskID, requesterID string) (*domain.Task, error) {
	if err := s.authorize(ctx, listID, requesterID); err != nil {
		return nil, err
	}
	return s.tasks.Toggle(ctx, listID, taskID)
}

func (s *TaskService) Delete(ctx context.Context, listID, taskID, requesterID string) error {
	if err := s.authorize(ctx, listID, requesterID); err != nil {
		return err
	}
	if err := s.tasks.Delete(ctx, listID, taskID); err != nil {
		return err
	}
	s.logger.Info().Str("list_id", listID).Str("task_id", taskID).Msg("task deleted")
	return nil
}

// authorize short-circuits with ErrListNotFound or ErrForbidden before any
// task operation runs.
func (s *TaskService) authorize(ctx context.Context, listID, requesterID string) error {
	list, err := s.lists.FindByID(ctx, listID)
	if err != nil {
		return err
	}
	if !list.ClassifyAccess(requesterID).CanEditTasks() {
		return domain.ErrForbidden
	}
	return nil
}
