package ports

import (
	"context"

	"github.com/taskhive/todo-system/internal/core/domain"
)

// UserRepository defines persistence operations for user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// FindByCredential matches either username or email (exact match, first
	// match wins).
	FindByCredential(ctx context.Context, credential string) (*domain.User, error)
	UpdateProfile(ctx context.Context, id, name, username string) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	Delete(ctx context.Context, id string) error
}

// SecurityRepository owns the question catalog and per-user answer hashes.
type SecurityRepository interface {
	// SeedQuestions inserts the catalog when the collection is empty; it is a
	// no-op otherwise.
	SeedQuestions(ctx context.Context, questions []domain.SecurityQuestion) error
	Questions(ctx context.Context) ([]domain.SecurityQuestion, error)
	FindQuestion(ctx context.Context, id int) (*domain.SecurityQuestion, error)
	UpsertAnswer(ctx context.Context, answer *domain.SecurityAnswer) error
	// AnswersForUser returns the user's answers ordered by question id, so
	// "the first stored answer" is deterministic.
	AnswersForUser(ctx context.Context, userID string) ([]domain.SecurityAnswer, error)
	FindAnswer(ctx context.Context, userID string, questionID int) (*domain.SecurityAnswer, error)
	DeleteAnswersForUser(ctx context.Context, userID string) error
}
