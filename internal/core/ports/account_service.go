package ports

import (
	"context"

	"github.com/taskhive/todo-system/internal/core/domain"
)

// SecurityAnswerInput is one (question, plaintext answer) pair supplied at
// registration or when updating recovery answers.
type SecurityAnswerInput struct {
	QuestionID int
	Answer     string
}

// RegisterInput carries all data needed to create an account.
type RegisterInput struct {
	Name     string
	Username string
	Email    string // optional; uniqueness enforced only when non-empty
	Password string
	Answers  []SecurityAnswerInput
}

// AuthResult is returned by operations that establish a session.
type AuthResult struct {
	User  *domain.User
	Token string
}

// RecoverResult surfaces exactly one previously-set question for an identity.
type RecoverResult struct {
	Username string
	Question domain.SecurityQuestion
}

// VerifyResult is returned by a successful answer verification; the ticket
// authorizes a single subsequent password reset.
type VerifyResult struct {
	UserID      string
	ResetTicket string
}

// AccountService defines use-case operations over identity and credentials.
type AccountService interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, credential, password string) (*AuthResult, error)
	Logout(ctx context.Context, token string) error
	CurrentUser(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID, name, username string) (*domain.User, error)
	ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error
	DeleteAccount(ctx context.Context, userID, token string) error

	Questions(ctx context.Context) ([]domain.SecurityQuestion, error)
	SetSecurityAnswers(ctx context.Context, userID string, answers []SecurityAnswerInput) error
	RecoverQuestion(ctx context.Context, credential string) (*RecoverResult, error)
	VerifyAnswer(ctx context.Context, username string, questionID int, answer string) (*VerifyResult, error)
	ResetPassword(ctx context.Context, username, ticket, newPassword string) error
}
