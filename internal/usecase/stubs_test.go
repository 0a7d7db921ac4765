package usecase

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/arklim/social-platform-accounts/internal/core/domain"
	"github.com/arklim/social-platform-accounts/internal/core/port"
	"github.com/arklim/social-platform-accounts/internal/repository"
)

type stubUserRepo struct {
	users     map[string]*domain.User
	variables map[string]map[string]string
	lastQuery domain.ListUsersQuery
	updateErr error
}

func newStubUserRepo(users ...domain.User) *stubUserRepo {
	repo := &stubUserRepo{
		users:     make(map[string]*domain.User),
		variables: make(map[string]map[string]string),
	}
	for i := range users {
		user := users[i]
		repo.users[user.ID] = &user
	}
	return repo
}

func (r *stubUserRepo) Create(_ context.Context, user domain.User) error {
	for _, existing := range r.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return &repository.DuplicateError{Constraint: "users_email_key"}
		}
		if existing.Username == user.Username {
			return &repository.DuplicateError{Constraint: "users_username_key"}
		}
	}
	copied := user
	r.users[user.ID] = &copied
	return nil
}

func (r *stubUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	if user, ok := r.users[id]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, repository.ErrNotFound
}

func (r *stubUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range r.users {
		if strings.EqualFold(user.Email, email) {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *stubUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *stubUserRepo) Update(_ context.Context, id string, changes domain.UserChanges) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	user, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	if changes.Email != nil {
		user.Email = *changes.Email
	}
	if changes.Username != nil {
		user.Username = *changes.Username
	}
	if changes.PasswordHash != nil {
		user.PasswordHash = *changes.PasswordHash
	}
	return nil
}

func (r *stubUserRepo) SetBanned(_ context.Context, id string, banned bool) error {
	user, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	user.Banned = banned
	return nil
}

func (r *stubUserRepo) TouchLastLogin(_ context.Context, id string, at time.Time) error {
	user, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	user.LastLogin = &at
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.users, id)
	delete(r.variables, id)
	return nil
}

func (r *stubUserRepo) List(_ context.Context, query domain.ListUsersQuery) ([]domain.UserSummary, error) {
	r.lastQuery = query

	summaries := make([]domain.UserSummary, 0, len(r.users))
	for _, user := range r.users {
		summaries = append(summaries, domain.UserSummary{
			ID:        user.ID,
			Email:     user.Email,
			Username:  user.Username,
			Banned:    user.Banned,
			CreatedAt: user.CreatedAt,
		})
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].CreatedAt.Before(summaries[j].CreatedAt)
	})
	return summaries, nil
}

func (r *stubUserRepo) Count(_ context.Context, _ string) (int, error) {
	return len(r.users), nil
}

func (r *stubUserRepo) GetVariables(_ context.Context, userID string) ([]domain.UserVariable, error) {
	vars := make([]domain.UserVariable, 0, len(r.variables[userID]))
	for key, value := range r.variables[userID] {
		vars = append(vars, domain.UserVariable{UserID: userID, Key: key, Value: value})
	}
	return vars, nil
}

func (r *stubUserRepo) SetVariable(_ context.Context, userID, key, value string, _ bool) error {
	if _, ok := r.users[userID]; !ok {
		return repository.ErrNotFound
	}
	if r.variables[userID] == nil {
		r.variables[userID] = make(map[string]string)
	}
	r.variables[userID][key] = value
	return nil
}

func (r *stubUserRepo) HasVariable(_ context.Context, userID, key string) (bool, error) {
	_, ok := r.variables[userID][key]
	return ok, nil
}

func (r *stubUserRepo) DeleteVariable(_ context.Context, userID, key string) error {
	delete(r.variables[userID], key)
	return nil
}

type fakeSession struct {
	values map[string]string
}

func newFakeSession() *fakeSession {
	return &fakeSession{values: make(map[string]string)}
}

func (s *fakeSession) Get(_ context.Context, key string) (string, bool, error) {
	val, ok := s.values[key]
	return val, ok, nil
}

func (s *fakeSession) Set(_ context.Context, values map[string]string) error {
	for key, val := range values {
		s.values[key] = val
	}
	return nil
}

func (s *fakeSession) Clear(_ context.Context) error {
	s.values = make(map[string]string)
	return nil
}

func (s *fakeSession) Active(_ context.Context) (bool, error) {
	return len(s.values) > 0, nil
}

// fakeAttempts mirrors the sliding-window semantics of the Redis store:
// attempts are timestamps, counted against "reference minus window".
type fakeAttempts struct {
	attempts map[string][]time.Time
}

func newFakeAttempts() *fakeAttempts {
	return &fakeAttempts{attempts: make(map[string][]time.Time)}
}

func (a *fakeAttempts) RecordAttempt(_ context.Context, identity string, at time.Time) error {
	a.attempts[identity] = append(a.attempts[identity], at)
	return nil
}

func (a *fakeAttempts) CountAttempts(_ context.Context, identity string, window time.Duration, reference time.Time) (int, error) {
	cutoff := reference.Add(-window)
	count := 0
	for _, at := range a.attempts[identity] {
		if !at.Before(cutoff) && !at.After(reference) {
			count++
		}
	}
	return count, nil
}

func (a *fakeAttempts) Reset(_ context.Context, identity string) error {
	delete(a.attempts, identity)
	return nil
}

type stubTokenRepo struct {
	byHash map[string]domain.LoginToken
}

func newStubTokenRepo() *stubTokenRepo {
	return &stubTokenRepo{byHash: make(map[string]domain.LoginToken)}
}

func (r *stubTokenRepo) Create(_ context.Context, token domain.LoginToken) error {
	r.byHash[token.TokenHash] = token
	return nil
}

func (r *stubTokenRepo) GetByHash(_ context.Context, tokenHash string) (*domain.LoginToken, error) {
	if token, ok := r.byHash[tokenHash]; ok {
		copied := token
		return &copied, nil
	}
	return nil, repository.ErrNotFound
}

func (r *stubTokenRepo) DeleteByUser(_ context.Context, userID string) error {
	for hash, token := range r.byHash {
		if token.UserID == userID {
			delete(r.byHash, hash)
		}
	}
	return nil
}

func (r *stubTokenRepo) DeleteExpired(_ context.Context, reference time.Time) (int, error) {
	deleted := 0
	for hash, token := range r.byHash {
		if reference.After(token.ExpiresAt) {
			delete(r.byHash, hash)
			deleted++
		}
	}
	return deleted, nil
}

type recordingPublisher struct {
	created   []domain.UserCreatedEvent
	updated   []domain.UserUpdatedEvent
	banStates []domain.UserBanStateChangedEvent
	deleted   []domain.UserDeletedEvent
	lockouts  []domain.LoginLockoutEvent
}

func (p *recordingPublisher) PublishUserCreated(_ context.Context, event domain.UserCreatedEvent) error {
	p.created = append(p.created, event)
	return nil
}

func (p *recordingPublisher) PublishUserUpdated(_ context.Context, event domain.UserUpdatedEvent) error {
	p.updated = append(p.updated, event)
	return nil
}

func (p *recordingPublisher) PublishUserBanStateChanged(_ context.Context, event domain.UserBanStateChangedEvent) error {
	p.banStates = append(p.banStates, event)
	return nil
}

func (p *recordingPublisher) PublishUserDeleted(_ context.Context, event domain.UserDeletedEvent) error {
	p.deleted = append(p.deleted, event)
	return nil
}

func (p *recordingPublisher) PublishLoginLockout(_ context.Context, event domain.LoginLockoutEvent) error {
	p.lockouts = append(p.lockouts, event)
	return nil
}

var (
	_ port.UserRepository       = (*stubUserRepo)(nil)
	_ port.SessionStore         = (*fakeSession)(nil)
	_ port.AttemptStore         = (*fakeAttempts)(nil)
	_ port.LoginTokenRepository = (*stubTokenRepo)(nil)
	_ port.EventPublisher       = (*recordingPublisher)(nil)
)
