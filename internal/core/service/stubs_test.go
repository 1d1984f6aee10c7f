package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/taskhive/todo-system/internal/core/domain"
	"github.com/taskhive/todo-system/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories and stores, mirroring the Mongo semantics.
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	seq   int
	users map[string]*domain.User // keyed by id
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == user.Username {
			return nil, domain.ErrUsernameTaken
		}
		if user.Email != "" && u.Email == user.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	r.seq++
	created := cloneUser(user)
	created.ID = fmt.Sprintf("u%d", r.seq)
	r.users[created.ID] = cloneUser(created)
	return created, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range r.sorted() {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.sorted() {
		if u.Email != "" && u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByCredential(_ context.Context, credential string) (*domain.User, error) {
	for _, u := range r.sorted() {
		if u.Username == credential || (u.Email != "" && u.Email == credential) {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) UpdateProfile(_ context.Context, id, name, username string) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Name = name
	u.Username = username
	return nil
}

func (r *stubUserRepo) UpdatePassword(_ context.Context, id, passwordHash string) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

// sorted gives deterministic iteration order for "first match wins" checks.
func (r *stubUserRepo) sorted() []*domain.User {
	ids := make([]string, 0, len(r.users))
	for id := range r.users {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]*domain.User, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.users[id])
	}
	return out
}

type answerKey struct {
	userID     string
	questionID int
}

type stubSecurityRepo struct {
	questions map[int]domain.SecurityQuestion
	answers   map[answerKey]string // -> answer hash
}

func newStubSecurityRepo() *stubSecurityRepo {
	r := &stubSecurityRepo{
		questions: make(map[int]domain.SecurityQuestion),
		answers:   make(map[answerKey]string),
	}
	for _, q := range domain.DefaultSecurityQuestions {
		r.questions[q.ID] = q
	}
	return r
}

func (r *stubSecurityRepo) SeedQuestions(_ context.Context, questions []domain.SecurityQuestion) error {
	if len(r.questions) > 0 {
		return nil
	}
	for _, q := range questions {
		r.questions[q.ID] = q
	}
	return nil
}

func (r *stubSecurityRepo) Questions(_ context.Context) ([]domain.SecurityQuestion, error) {
	ids := make([]int, 0, len(r.questions))
	for id := range r.questions {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]domain.SecurityQuestion, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.questions[id])
	}
	return out, nil
}

func (r *stubSecurityRepo) FindQuestion(_ context.Context, id int) (*domain.SecurityQuestion, error) {
	q, ok := r.questions[id]
	if !ok {
		return nil, domain.ErrQuestionNotFound
	}
	return &q, nil
}

func (r *stubSecurityRepo) UpsertAnswer(_ context.Context, answer *domain.SecurityAnswer) error {
	r.answers[answerKey{answer.UserID, answer.QuestionID}] = answer.AnswerHash
	return nil
}

func (r *stubSecurityRepo) AnswersForUser(_ context.Context, userID string) ([]domain.SecurityAnswer, error) {
	var keys []answerKey
	for k := range r.answers {
		if k.userID == userID {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].questionID < keys[j].questionID })
	out := make([]domain.SecurityAnswer, 0, len(keys))
	for _, k := range keys {
		out = append(out, domain.SecurityAnswer{UserID: k.userID, QuestionID: k.questionID, AnswerHash: r.answers[k]})
	}
	return out, nil
}

func (r *stubSecurityRepo) FindAnswer(_ context.Context, userID string, questionID int) (*domain.SecurityAnswer, error) {
	hash, ok := r.answers[answerKey{userID, questionID}]
	if !ok {
		return nil, domain.ErrQuestionNotFound
	}
	return &domain.SecurityAnswer{UserID: userID, QuestionID: questionID, AnswerHash: hash}, nil
}

func (r *stubSecurityRepo) DeleteAnswersForUser(_ context.Context, userID string) error {
	for k := range r.answers {
		if k.userID == userID {
			delete(r.answers, k)
		}
	}
	return nil
}

type stubListRepo struct {
	seq   int
	lists map[string]*domain.List
	tasks *stubTaskRepo // for cascade deletes; may be nil
}

func newStubListRepo() *stubListRepo {
	return &stubListRepo{lists: make(map[string]*domain.List)}
}

func cloneList(l *domain.List) *domain.List {
	clone := *l
	clone.MemberIDs = append([]string{}, l.MemberIDs...)
	return &clone
}

func (r *stubListRepo) Create(_ context.Context, list *domain.List) (*domain.List, error) {
	r.seq++
	created := cloneList(list)
	created.ID = fmt.Sprintf("l%d", r.seq)
	r.lists[created.ID] = cloneList(created)
	return created, nil
}

func (r *stubListRepo) FindByID(_ context.Context, id string) (*domain.List, error) {
	l, ok := r.lists[id]
	if !ok {
		return nil, domain.ErrListNotFound
	}
	return cloneList(l), nil
}

func (r *stubListRepo) FindForUser(_ context.Context, userID string) ([]*domain.List, error) {
	ids := make([]string, 0, len(r.lists))
	for id := range r.lists {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	var out []*domain.List
	for _, id := range ids {
		l := r.lists[id]
		if l.OwnerID == userID || l.HasMember(userID) {
			out = append(out, cloneList(l))
		}
	}
	return out, nil
}

func (r *stubListRepo) Rename(_ context.Context, id, ownerID, name string) error {
	l, ok := r.lists[id]
	if !ok || l.OwnerID != ownerID {
		return domain.ErrListNotFound
	}
	l.Name = name
	return nil
}

func (r *stubListRepo) Delete(ctx context.Context, id, ownerID string) error {
	l, ok := r.lists[id]
	if !ok || l.OwnerID != ownerID {
		return domain.ErrListNotFound
	}
	delete(r.lists, id)
	if r.tasks != nil {
		r.tasks.deleteByList(id)
	}
	return nil
}

func (r *stubListRepo) AddMember(_ context.Context, id, ownerID, memberID string) error {
	l, ok := r.lists[id]
	if !ok || l.OwnerID != ownerID {
		return domain.ErrListNotFound
	}
	if l.HasMember(memberID) {
		return domain.ErrAlreadyMember
	}
	l.MemberIDs = append(l.MemberIDs, memberID)
	return nil
}

func (r *stubListRepo) RemoveMember(_ context.Context, id, ownerID, memberID string) error {
	l, ok := r.lists[id]
	if !ok || l.OwnerID != ownerID {
		return domain.ErrListNotFound
	}
	for i, m := range l.MemberIDs {
		if m == memberID {
			l.MemberIDs = append(l.MemberIDs[:i], l.MemberIDs[i+1:]...)
			return nil
		}
	}
	return domain.ErrMemberNotFound
}

func (r *stubListRepo) RemoveUserEverywhere(_ context.Context, userID string) error {
	for _, l := range r.lists {
		for i, m := range l.MemberIDs {
			if m == userID {
				l.MemberIDs = append(l.MemberIDs[:i], l.MemberIDs[i+1:]...)
				break
			}
		}
	}
	return nil
}

func (r *stubListRepo) DeleteOwnedBy(_ context.Context, ownerID string) error {
	for id, l := range r.lists {
		if l.OwnerID == ownerID {
			delete(r.lists, id)
			if r.tasks != nil {
				r.tasks.deleteByList(id)
			}
		}
	}
	return nil
}

type stubTaskRepo struct {
	seq   int
	tasks map[string]*domain.Task
}

func newStubTaskRepo() *stubTaskRepo {
	return &stubTaskRepo{tasks: make(map[string]*domain.Task)}
}

func (r *stubTaskRepo) Insert(_ context.Context, task *domain.Task) (*domain.Task, error) {
	r.seq++
	clone := *task
	clone.ID = fmt.Sprintf("t%d", r.seq)
	r.tasks[clone.ID] = &clone
	copied := clone
	return &copied, nil
}

func (r *stubTaskRepo) ListByList(_ context.Context, listID string) ([]*domain.Task, error) {
	var out []*domain.Task
	for _, t := range r.tasks {
		if t.ListID == listID {
			clone := *t
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *stubTaskRepo) Update(_ context.Context, listID, taskID string, patch ports.TaskPatch) (*domain.Task, error) {
	t, ok := r.tasks[taskID]
	if !ok || t.ListID != listID {
		return nil, domain.ErrTaskNotFound
	}
	if patch.Text != nil {
		t.Text = *patch.Text
	}
	if patch.Date != nil {
		t.Date = *patch.Date
	}
	if patch.Checked != nil {
		t.Checked = *patch.Checked
	}
	if patch.Priority != nil {
		t.Priority = domain.Priority(*patch.Priority)
	}
	clone := *t
	return &clone, nil
}

func (r *stubTaskRepo) Toggle(_ context.Context, listID, taskID string) (*domain.Task, error) {
	t, ok := r.tasks[taskID]
	if !ok || t.ListID != listID {
		return nil, domain.ErrTaskNotFound
	}
	t.Checked = !t.Checked
	clone := *t
	return &clone, nil
}

func (r *stubTaskRepo) Delete(_ context.Context, listID, taskID string) error {
	t, ok := r.tasks[taskID]
	if !ok || t.ListID != listID {
		return domain.ErrTaskNotFound
	}
	delete(r.tasks, taskID)
	return nil
}

func (r *stubTaskRepo) deleteByList(listID string) {
	for id, t := range r.tasks {
		if t.ListID == listID {
			delete(r.tasks, id)
		}
	}
}

type stubSessionStore struct {
	seq      int
	sessions map[string]string // token -> user id
}

func newStubSessionStore() *stubSessionStore {
	return &stubSessionStore{sessions: make(map[string]string)}
}

func (s *stubSessionStore) Create(_ context.Context, userID string) (string, error) {
	s.seq++
	token := fmt.Sprintf("tok%d", s.seq)
	s.sessions[token] = userID
	return token, nil
}

func (s *stubSessionStore) Resolve(_ context.Context, token string) (string, error) {
	userID, ok := s.sessions[token]
	if !ok {
		return "", domain.ErrUnauthenticated
	}
	return userID, nil
}

func (s *stubSessionStore) Invalidate(_ context.Context, token string) error {
	delete(s.sessions, token)
	return nil
}

type stubTicketStore struct {
	seq     int
	tickets map[string]string // ticket -> user id
}

func newStubTicketStore() *stubTicketStore {
	return &stubTicketStore{tickets: make(map[string]string)}
}

func (s *stubTicketStore) Issue(_ context.Context, userID string, _ time.Duration) (string, error) {
	s.seq++
	ticket := fmt.Sprintf("tic%d", s.seq)
	s.tickets[ticket] = userID
	return ticket, nil
}

func (s *stubTicketStore) Redeem(_ context.Context, ticket string) (string, error) {
	userID, ok := s.tickets[ticket]
	if !ok {
		return "", domain.ErrResetTicketInvalid
	}
	delete(s.tickets, ticket)
	return userID, nil
}
