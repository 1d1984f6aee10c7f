package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskhive/todo-system/internal/core/domain"
	"github.com/taskhive/todo-system/internal/core/ports"
)

const (
	minPasswordLen = 6
	resetTicketTTL = 10 * time.Minute
)

// AccountService implements registration, login, profile management, and
// question-based identity recovery.
type AccountService struct {
	users    ports.UserRepository
	security ports.SecurityRepository
	lists    ports.ListRepository
	sessions ports.SessionStore
	tickets  ports.TicketStore
	logger   zerolog.Logger
}

func NewAccountService(
	users ports.UserRepository,
	security ports.SecurityRepository,
	lists ports.ListRepository,
	sessions ports.SessionStore,
	tickets ports.TicketStore,
	logger zerolog.Logger,
) *AccountService {
	return &AccountService{
		users:    users,
		security: security,
		lists:    lists,
		sessions: sessions,
		tickets:  tickets,
		logger:   logger,
	}
}

func (s *AccountService) Register(ctx context.Context, input ports.RegisterInput) (*ports.AuthResult, error) {
	name := strings.TrimSpace(input.Name)
	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(input.Email)
	password := strings.TrimSpace(input.Password)

	if name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", domain.ErrValidation)
	}
	if password == "" {
		return nil, fmt.Errorf("%w: password is required", domain.ErrValidation)
	}
	if len(password) < minPasswordLen {
		return nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, minPasswordLen)
	}
	answers, err := s.validAnswers(ctx, input.Answers)
	if err != nil {
		return nil, err
	}
	if len(answers) == 0 {
		return nil, fmt.Errorf("%w: at least one security answer is required", domain.ErrValidation)
	}

	// Username uniqueness is a case-sensitive exact match. Email uniqueness
	// is enforced only when an email is provided.
	if _, err := s.users.FindByUsername(ctx, username); err == nil {
		return nil, domain.ErrUsernameTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}
	if email != "" {
		if _, err := s.users.FindByEmail(ctx, email); err == nil {
			return nil, domain.ErrEmailTaken
		} else if !errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:         name,
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	for _, a := range answers {
		a.UserID = created.ID
		if err := s.security.UpsertAnswer(ctx, &a); err != nil {
			return nil, fmt.Errorf("store security answer: %w", err)
		}
	}

	token, err := s.sessions.Create(ctx, created.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", created.ID).Str("username", created.Username).Msg("user registered")
	return &ports.AuthResult{User: created, Token: token}, nil
}

func (s *AccountService) Login(ctx context.Context, credential, password string) (*ports.AuthResult, error) {
	credential = strings.TrimSpace(credential)
	password = strings.TrimSpace(password)
	if credential == "" || password == "" {
		return nil, fmt.Errorf("%w: missing credentials or password", domain.ErrValidation)
	}

	user, err := s.users.FindByCredential(ctx, credential)
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrIncorrectPassword
	}

	token, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", user.ID).Msg("login")
	return &ports.AuthResult{User: user, Token: token}, nil
}

func (s *AccountService) Logout(ctx context.Context, token string) error {
	return s.sessions.Invalidate(ctx, token)
}

func (s *AccountService) CurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.FindByID(ctx, userID)
}

func (s *AccountService) UpdateProfile(ctx context.Context, userID, name, username string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	username = strings.TrimSpace(username)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", domain.ErrValidation)
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	// A username taken by someone else blocks the change; keeping your own
	// username is always allowed.
	if username != user.Username {
		if _, err := s.users.FindByUsername(ctx, username); err == nil {
			return nil, domain.ErrUsernameTaken
		} else if !errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
	}

	if err := s.users.UpdateProfile(ctx, userID, name, username); err != nil {
		return nil, err
	}
	user.Name = name
	user.Username = username
	return user, nil
}

func (s *AccountService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	oldPassword = strings.TrimSpace(oldPassword)
	newPassword = strings.TrimSpace(newPassword)
	if oldPassword == "" {
		return fmt.Errorf("%w: current password is required", domain.ErrValidation)
	}
	if newPassword == "" {
		return fmt.Errorf("%w: new password is required", domain.ErrValidation)
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)) != nil {
		return domain.ErrIncorrectPassword
	}
	if len(newPassword) < minPasswordLen {
		return fmt.Errorf("%w: new password must be at least %d characters", domain.ErrValidation, minPasswordLen)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, userID, string(hash))
}

// DeleteAccount removes the user and everything hanging off it: owned lists
// (with their tasks), memberships in other users' lists, security answers,
// and the current session.
func (s *AccountService) DeleteAccount(ctx context.Context, userID, token string) error {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return err
	}
	if err := s.lists.DeleteOwnedBy(ctx, userID); err != nil {
		return fmt.Errorf("delete owned lists: %w", err)
	}
	if err := s.lists.RemoveUserEverywhere(ctx, userID); err != nil {
		return fmt.Errorf("remove memberships: %w", err)
	}
	if err := s.security.DeleteAnswersForUser(ctx, userID); err != nil {
		return fmt.Errorf("delete security answers: %w", err)
	}
	if err := s.users.Delete(ctx, userID); err != nil {
		return err
	}
	if err := s.sessions.Invalidate(ctx, token); err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("failed to invalidate session on account deletion")
	}
	s.logger.Info().Str("user_id", userID).Msg("account deleted")
	return nil
}

func (s *AccountService) Questions(ctx context.Context) ([]domain.SecurityQuestion, error) {
	return s.security.Questions(ctx)
}

func (s *AccountService) SetSecurityAnswers(ctx context.Context, userID string, answers []ports.SecurityAnswerInput) error {
	valid, err := s.validAnswers(ctx, answers)
	if err != nil {
		return err
	}
	if len(valid) == 0 {
		return fmt.Errorf("%w: at least one security answer is required", domain.ErrValidation)
	}
	for _, a := range valid {
		a.UserID = userID
		if err := s.security.UpsertAnswer(ctx, &a); err != nil {
			return err
		}
	}
	return nil
}

// RecoverQuestion surfaces exactly one previously-set question for the
// identity: the first stored answer, ordered by question id. Users with
// several answers still recover through a single question.
func (s *AccountService) RecoverQuestion(ctx context.Context, credential string) (*ports.RecoverResult, error) {
	user, err := s.users.FindByCredential(ctx, strings.TrimSpace(credential))
	if err != nil {
		return nil, err
	}

	answers, err := s.security.AnswersForUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if len(answers) == 0 {
		return nil, domain.ErrNoQuestionSet
	}

	question, err := s.security.FindQuestion(ctx, answers[0].QuestionID)
	if err != nil {
		return nil, err
	}
	return &ports.RecoverResult{Username: user.Username, Question: *question}, nil
}

// VerifyAnswer checks the supplied answer and, on success, issues a
// short-lived single-use ticket that authorizes the password reset.
func (s *AccountService) VerifyAnswer(ctx context.Context, username string, questionID int, answer string) (*ports.VerifyResult, error) {
	user, err := s.users.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, err
	}

	stored, err := s.security.FindAnswer(ctx, user.ID, questionID)
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(stored.AnswerHash), []byte(normalizeAnswer(answer))) != nil {
		return nil, domain.ErrIncorrectAnswer
	}

	ticket, err := s.tickets.Issue(ctx, user.ID, resetTicketTTL)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("user_id", user.ID).Msg("security answer verified, reset ticket issued")
	return &ports.VerifyResult{UserID: user.ID, ResetTicket: ticket}, nil
}

// ResetPassword overwrites the password without a session, but only when the
// caller presents a ticket issued by VerifyAnswer for the same user. The new
// password is validated before the ticket is redeemed, so a too-short
// password does not burn the ticket.
func (s *AccountService) ResetPassword(ctx context.Context, username, ticket, newPassword string) error {
	newPassword = strings.TrimSpace(newPassword)
	if len(newPassword) < minPasswordLen {
		return fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, minPasswordLen)
	}

	user, err := s.users.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return err
	}

	ticketUser, err := s.tickets.Redeem(ctx, ticket)
	if err != nil {
		return err
	}
	if ticketUser != user.ID {
		return domain.ErrResetTicketInvalid
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		return err
	}
	s.logger.Info().Str("user_id", user.ID).Msg("password reset via security question")
	return nil
}

// validAnswers filters the input down to answers with a known question id and
// non-empty text, hashing each answer. Unknown question ids are rejected
// outright rather than skipped.
func (s *AccountService) validAnswers(ctx context.Context, answers []ports.SecurityAnswerInput) ([]domain.SecurityAnswer, error) {
	out := make([]domain.SecurityAnswer, 0, len(answers))
	for _, in := range answers {
		text := normalizeAnswer(in.Answer)
		if text == "" {
			continue
		}
		if _, err := s.security.FindQuestion(ctx, in.QuestionID); err != nil {
			return nil, err
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(text), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.SecurityAnswer{
			QuestionID: in.QuestionID,
			AnswerHash: string(hash),
		})
	}
	return out, nil
}

// normalizeAnswer makes answer comparison forgiving about case and
// surrounding whitespace.
func normalizeAnswer(answer string) string {
	return strings.ToLower(strings.TrimSpace(answer))
}
