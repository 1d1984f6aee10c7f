package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskhive/todo-system/internal/core/domain"
	"github.com/taskhive/todo-system/internal/core/ports"
)

type accountFixture struct {
	users    *stubUserRepo
	security *stubSecurityRepo
	lists    *stubListRepo
	sessions *stubSessionStore
	tickets  *stubTicketStore
	svc      *AccountService
}

func newAccountFixture() *accountFixture {
	f := &accountFixture{
		users:    newStubUserRepo(),
		security: newStubSecurityRepo(),
		lists:    newStubListRepo(),
		sessions: newStubSessionStore(),
		tickets:  newStubTicketStore(),
	}
	f.svc = NewAccountService(f.users, f.security, f.lists, f.sessions, f.tickets, zerolog.Nop())
	return f
}

func (f *accountFixture) register(t *testing.T, name, username, email, password string) *ports.AuthResult {
	t.Helper()
	result, err := f.svc.Register(context.Background(), ports.RegisterInput{
		Name:     name,
		Username: username,
		Email:    email,
		Password: password,
		Answers:  []ports.SecurityAnswerInput{{QuestionID: 1, Answer: "Rex"}},
	})
	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	return result
}

func TestAccountService_Register_Success(t *testing.T) {
	f := newAccountFixture()

	result := f.register(t, "Alice", "alice", "alice@example.com", "s3cret1")
	if result.User.ID == "" {
		t.Fatalf("expected user id to be assigned")
	}
	if result.User.PasswordHash == "s3cret1" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(result.User.PasswordHash), []byte("s3cret1")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if result.Token == "" {
		t.Fatalf("expected a session token on registration")
	}
	if userID, err := f.sessions.Resolve(context.Background(), result.Token); err != nil || userID != result.User.ID {
		t.Fatalf("session not created: %v", err)
	}

	answers, _ := f.security.AnswersForUser(context.Background(), result.User.ID)
	if len(answers) != 1 {
		t.Fatalf("expected 1 stored answer, got %d", len(answers))
	}
	if answers[0].AnswerHash == "Rex" {
		t.Fatalf("expected answer to be hashed")
	}
}

func TestAccountService_Register_Validation(t *testing.T) {
	f := newAccountFixture()

	cases := []struct {
		name  string
		input ports.RegisterInput
	}{
		{"missing name", ports.RegisterInput{Username: "a", Password: "secret1", Answers: []ports.SecurityAnswerInput{{QuestionID: 1, Answer: "x"}}}},
		{"missing username", ports.RegisterInput{Name: "A", Password: "secret1", Answers: []ports.SecurityAnswerInput{{QuestionID: 1, Answer: "x"}}}},
		{"missing password", ports.RegisterInput{Name: "A", Username: "a", Answers: []ports.SecurityAnswerInput{{QuestionID: 1, Answer: "x"}}}},
		{"short password", ports.RegisterInput{Name: "A", Username: "a", Password: "abc", Answers: []ports.SecurityAnswerInput{{QuestionID: 1, Answer: "x"}}}},
		{"no answers", ports.RegisterInput{Name: "A", Username: "a", Password: "secret1"}},
		{"blank answer only", ports.RegisterInput{Name: "A", Username: "a", Password: "secret1", Answers: []ports.SecurityAnswerInput{{QuestionID: 1, Answer: "   "}}}},
	}
	for _, tc := range cases {
		if _, err := f.svc.Register(context.Background(), tc.input); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("%s: expected ErrValidation, got %v", tc.name, err)
		}
	}
}

func TestAccountService_Register_UnknownQuestion(t *testing.T) {
	f := newAccountFixture()

	_, err := f.svc.Register(context.Background(), ports.RegisterInput{
		Name: "A", Username: "a", Password: "secret1",
		Answers: []ports.SecurityAnswerInput{{QuestionID: 99, Answer: "x"}},
	})
	if !errors.Is(err, domain.ErrQuestionNotFound) {
		t.Fatalf("expected ErrQuestionNotFound, got %v", err)
	}
}

func TestAccountService_Register_DuplicateUsername(t *testing.T) {
	f := newAccountFixture()
	f.register(t, "Alice", "alice", "", "s3cret1")

	_, err := f.svc.Register(context.Background(), ports.RegisterInput{
		Name: "Other", Username: "alice", Password: "different1",
		Answers: []ports.SecurityAnswerInput{{QuestionID: 1, Answer: "x"}},
	})
	if !errors.Is(err, domain.ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestAccountService_Register_DuplicateEmailOnlyWhenProvided(t *testing.T) {
	f := newAccountFixture()
	f.register(t, "Alice", "alice", "shared@example.com", "s3cret1")

	// Same email again is rejected.
	_, err := f.svc.Register(context.Background(), ports.RegisterInput{
		Name: "Bob", Username: "bob", Email: "shared@example.com", Password: "s3cret1",
		Answers: []ports.SecurityAnswerInput{{QuestionID: 1, Answer: "x"}},
	})
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}

	// Two accounts without email are fine.
	f.register(t, "Carol", "carol", "", "s3cret1")
	f.register(t, "Dave", "dave", "", "s3cret1")
}

func TestAccountService_Login_ByUsernameAndEmail(t *testing.T) {
	f := newAccountFixture()
	f.register(t, "Alice", "alice", "alice@example.com", "s3cret1")

	for _, credential := range []string{"alice", "alice@example.com"} {
		result, err := f.svc.Login(context.Background(), credential, "s3cret1")
		if err != nil {
			t.Fatalf("login with %q: %v", credential, err)
		}
		if result.User.Username != "alice" {
			t.Fatalf("unexpected user: %+v", result.User)
		}
		if result.Token == "" {
			t.Fatalf("expected session token")
		}
	}
}

func TestAccountService_Login_Failures(t *testing.T) {
	f := newAccountFixture()
	f.register(t, "Alice", "alice", "", "s3cret1")

	if _, err := f.svc.Login(context.Background(), "ghost", "whatever"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if _, err := f.svc.Login(context.Background(), "alice", "wrongpass"); !errors.Is(err, domain.ErrIncorrectPassword) {
		t.Fatalf("expected ErrIncorrectPassword, got %v", err)
	}
	if _, err := f.svc.Login(context.Background(), "", ""); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestAccountService_Logout_InvalidatesSession(t *testing.T) {
	f := newAccountFixture()
	result := f.register(t, "Alice", "alice", "", "s3cret1")

	if err := f.svc.Logout(context.Background(), result.Token); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := f.sessions.Resolve(context.Background(), result.Token); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected session to be gone, got %v", err)
	}
}

func TestAccountService_UpdateProfile(t *testing.T) {
	f := newAccountFixture()
	alice := f.register(t, "Alice", "alice", "", "s3cret1").User
	f.register(t, "Bob", "bob", "", "s3cret1")

	// Taking bob's username is rejected; keeping your own is fine.
	if _, err := f.svc.UpdateProfile(context.Background(), alice.ID, "Alice B", "bob"); !errors.Is(err, domain.ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
	updated, err := f.svc.UpdateProfile(context.Background(), alice.ID, "Alice B", "alice")
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if updated.Name != "Alice B" {
		t.Fatalf("name not updated: %+v", updated)
	}

	if _, err := f.svc.UpdateProfile(context.Background(), alice.ID, "", "alice"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for empty name, got %v", err)
	}
}

func TestAccountService_ChangePassword(t *testing.T) {
	f := newAccountFixture()
	alice := f.register(t, "Alice", "alice", "", "s3cret1").User

	if err := f.svc.ChangePassword(context.Background(), alice.ID, "wrong", "newpass1"); !errors.Is(err, domain.ErrIncorrectPassword) {
		t.Fatalf("expected ErrIncorrectPassword, got %v", err)
	}
	if err := f.svc.ChangePassword(context.Background(), alice.ID, "s3cret1", "tiny"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for short password, got %v", err)
	}
	if err := f.svc.ChangePassword(context.Background(), alice.ID, "s3cret1", "newpass1"); err != nil {
		t.Fatalf("change password: %v", err)
	}
	if _, err := f.svc.Login(context.Background(), "alice", "newpass1"); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
	if _, err := f.svc.Login(context.Background(), "alice", "s3cret1"); !errors.Is(err, domain.ErrIncorrectPassword) {
		t.Fatalf("old password should no longer work, got %v", err)
	}
}

func TestAccountService_RecoverQuestion_FirstStoredAnswer(t *testing.T) {
	f := newAccountFixture()
	alice := f.register(t, "Alice", "alice", "alice@example.com", "s3cret1").User

	// Add a second answer with a lower question id; recovery surfaces the
	// first by question id, deterministically.
	if err := f.svc.SetSecurityAnswers(context.Background(), alice.ID, []ports.SecurityAnswerInput{
		{QuestionID: 3, Answer: "Springfield"},
	}); err != nil {
		t.Fatalf("set answers: %v", err)
	}

	result, err := f.svc.RecoverQuestion(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("recover: %v", err)
	}
	if result.Question.ID != 1 {
		t.Fatalf("expected first question (id 1), got %d", result.Question.ID)
	}
	if result.Username != "alice" {
		t.Fatalf("unexpected username: %s", result.Username)
	}
}

func TestAccountService_RecoverQuestion_NoQuestionSet(t *testing.T) {
	f := newAccountFixture()
	alice := f.register(t, "Alice", "alice", "", "s3cret1").User
	_ = f.security.DeleteAnswersForUser(context.Background(), alice.ID)

	if _, err := f.svc.RecoverQuestion(context.Background(), "alice"); !errors.Is(err, domain.ErrNoQuestionSet) {
		t.Fatalf("expected ErrNoQuestionSet, got %v", err)
	}
	if _, err := f.svc.RecoverQuestion(context.Background(), "ghost"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAccountService_VerifyAnswer_And_ResetPassword(t *testing.T) {
	f := newAccountFixture()
	f.register(t, "Alice", "alice", "", "s3cret1")

	if _, err := f.svc.VerifyAnswer(context.Background(), "alice", 1, "nope"); !errors.Is(err, domain.ErrIncorrectAnswer) {
		t.Fatalf("expected ErrIncorrectAnswer, got %v", err)
	}

	// Answer matching is case- and whitespace-insensitive.
	verified, err := f.svc.VerifyAnswer(context.Background(), "alice", 1, "  rex ")
	if err != nil {
		t.Fatalf("verify answer: %v", err)
	}
	if verified.ResetTicket == "" {
		t.Fatalf("expected a reset ticket")
	}

	if err := f.svc.ResetPassword(context.Background(), "alice", verified.ResetTicket, "freshpass1"); err != nil {
		t.Fatalf("reset password: %v", err)
	}
	if _, err := f.svc.Login(context.Background(), "alice", "freshpass1"); err != nil {
		t.Fatalf("login after reset: %v", err)
	}

	// The ticket is single-use.
	if err := f.svc.ResetPassword(context.Background(), "alice", verified.ResetTicket, "another1"); !errors.Is(err, domain.ErrResetTicketInvalid) {
		t.Fatalf("expected ErrResetTicketInvalid on reuse, got %v", err)
	}
}

func TestAccountService_ResetPassword_RequiresMatchingTicket(t *testing.T) {
	f := newAccountFixture()
	f.register(t, "Alice", "alice", "", "s3cret1")
	f.register(t, "Bob", "bob", "", "s3cret1")

	// A ticket verified for bob cannot reset alice's password.
	verified, err := f.svc.VerifyAnswer(context.Background(), "bob", 1, "Rex")
	if err != nil {
		t.Fatalf("verify answer: %v", err)
	}
	if err := f.svc.ResetPassword(context.Background(), "alice", verified.ResetTicket, "freshpass1"); !errors.Is(err, domain.ErrResetTicketInvalid) {
		t.Fatalf("expected ErrResetTicketInvalid, got %v", err)
	}

	// Without any ticket, reset is rejected outright.
	if err := f.svc.ResetPassword(context.Background(), "alice", "bogus", "freshpass1"); !errors.Is(err, domain.ErrResetTicketInvalid) {
		t.Fatalf("expected ErrResetTicketInvalid, got %v", err)
	}
	// A short password does not consume the ticket.
	verified2, _ := f.svc.VerifyAnswer(context.Background(), "bob", 1, "Rex")
	if err := f.svc.ResetPassword(context.Background(), "bob", verified2.ResetTicket, "tiny"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if err := f.svc.ResetPassword(context.Background(), "bob", verified2.ResetTicket, "longenough1"); err != nil {
		t.Fatalf("ticket should survive a validation failure: %v", err)
	}
}

func TestAccountService_DeleteAccount_Cascades(t *testing.T) {
	f := newAccountFixture()
	tasks := newStubTaskRepo()
	f.lists.tasks = tasks

	alice := f.register(t, "Alice", "alice", "", "s3cret1")
	bob := f.register(t, "Bob", "bob", "", "s3cret1")

	// Alice owns a list with a task; she is also a member of bob's list.
	owned, _ := f.lists.Create(context.Background(), &domain.List{Name: "Groceries", OwnerID: alice.User.ID, MemberIDs: []string{}})
	_, _ = tasks.Insert(context.Background(), &domain.Task{ListID: owned.ID, Text: "Milk"})
	bobs, _ := f.lists.Create(context.Background(), &domain.List{Name: "Chores", OwnerID: bob.User.ID, MemberIDs: []string{alice.User.ID}})

	if err := f.svc.DeleteAccount(context.Background(), alice.User.ID, alice.Token); err != nil {
		t.Fatalf("delete account: %v", err)
	}

	if _, err := f.users.FindByID(context.Background(), alice.User.ID); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("user should be gone, got %v", err)
	}
	if _, err := f.lists.FindByID(context.Background(), owned.ID); !errors.Is(err, domain.ErrListNotFound) {
		t.Fatalf("owned list should be gone, got %v", err)
	}
	if remaining, _ := tasks.ListByList(context.Background(), owned.ID); len(remaining) != 0 {
		t.Fatalf("expected owned list's tasks to cascade, got %d", len(remaining))
	}
	refreshed, _ := f.lists.FindByID(context.Background(), bobs.ID)
	if refreshed.HasMember(alice.User.ID) {
		t.Fatalf("expected membership to be removed")
	}
	if answers, _ := f.security.AnswersForUser(context.Background(), alice.User.ID); len(answers) != 0 {
		t.Fatalf("expected security answers to be removed")
	}
	if _, err := f.sessions.Resolve(context.Background(), alice.Token); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected session to be invalidated, got %v", err)
	}
}
