package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/arklim/social-platform-accounts/internal/core/domain"
	"github.com/arklim/social-platform-accounts/internal/core/port"
	"github.com/arklim/social-platform-accounts/internal/infra/security"
	"github.com/arklim/social-platform-accounts/internal/repository"
)

// UpdateUserInput is a partial update: nil fields are "not provided" and
// stay untouched, which keeps them distinguishable from explicitly supplied
// values.
type UpdateUserInput struct {
	Email    *string
	Password *string
	Username *string
}

func (in UpdateUserInput) empty() bool {
	return in.Email == nil && in.Password == nil && in.Username == nil
}

// UserService handles the account lifecycle: create, read, update, ban,
// delete, list. Operations taking a session resolve an omitted id from the
// caller's session identity.
type UserService struct {
	users  port.UserRepository
	events port.EventPublisher
	policy security.PasswordPolicy
	log    *zap.Logger
	now    func() time.Time
}

// NewUserService constructs UserService.
func NewUserService(users port.UserRepository, events port.EventPublisher, policy security.PasswordPolicy, log *zap.Logger) *UserService {
	if log == nil {
		log = zap.NewNop()
	}
	if policy.MinLength <= 0 {
		policy = security.DefaultPasswordPolicy()
	}

	return &UserService{
		users:  users,
		events: events,
		policy: policy,
		log:    log,
		now:    time.Now,
	}
}

// CreateUser registers a new account. Validation order: email format, email
// uniqueness, password policy, username format, username uniqueness.
func (s *UserService) CreateUser(ctx context.Context, email, password, username string) (*domain.User, Result, error) {
	email = strings.TrimSpace(email)
	username = strings.TrimSpace(username)

	if !security.IsValidEmail(email) {
		return nil, failure(domain.MsgInvalidEmail), nil
	}

	taken, err := s.emailTaken(ctx, email, "")
	if err != nil {
		return nil, Result{}, err
	}
	if taken {
		return nil, failure(domain.MsgExistsAlreadyEmail), nil
	}

	if !s.policy.ValidLength(password) || !s.policy.StrongEnough(password, email, username) {
		return nil, failure(domain.MsgInvalidPassword), nil
	}

	if !security.IsValidUsername(username) {
		return nil, failure(domain.MsgInvalidUsername), nil
	}

	taken, err = s.usernameTaken(ctx, username, "")
	if err != nil {
		return nil, Result{}, err
	}
	if taken {
		return nil, failure(domain.MsgExistsAlreadyUsername), nil
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return nil, Result{}, fmt.Errorf("hash password: %w", err)
	}

	now := s.now().UTC()
	user := domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if key, ok := duplicateKey(err); ok {
			return nil, failure(key), nil
		}
		return nil, Result{}, fmt.Errorf("insert user: %w", err)
	}

	s.publish(ctx, func(pub port.EventPublisher) error {
		return pub.PublishUserCreated(ctx, domain.UserCreatedEvent{
			UserID:    user.ID,
			Email:     user.Email,
			Username:  user.Username,
			CreatedAt: now,
		})
	})

	user.PasswordHash = ""
	return &user, success(domain.MsgInfoCreateSuccess), nil
}

// GetUser fetches a user by id, resolving an empty id from the session.
// withVariables joins the user_variables rows onto the result.
func (s *UserService) GetUser(ctx context.Context, sess port.SessionStore, id string, withVariables bool) (*domain.User, Result, error) {
	id, res, err := s.resolveID(ctx, sess, id)
	if err != nil || !res.OK() {
		return nil, res, err
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, failure(domain.MsgNotFoundUser), nil
		}
		return nil, Result{}, fmt.Errorf("lookup user: %w", err)
	}

	if withVariables {
		variables, err := s.users.GetVariables(ctx, user.ID)
		if err != nil {
			return nil, Result{}, fmt.Errorf("load user variables: %w", err)
		}
		user.Variables = variables
	}

	user.PasswordHash = ""
	return user, success(), nil
}

// GetUserID resolves an identity (email or username) to a user id; an empty
// identity resolves from the session.
func (s *UserService) GetUserID(ctx context.Context, sess port.SessionStore, identity string) (string, Result, error) {
	if identity == "" {
		return s.resolveID(ctx, sess, "")
	}

	var (
		user *domain.User
		err  error
	)
	if strings.Contains(identity, "@") {
		user, err = s.users.GetByEmail(ctx, identity)
	} else {
		user, err = s.users.GetByUsername(ctx, identity)
	}
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", failure(domain.MsgNotFoundUser), nil
		}
		return "", Result{}, fmt.Errorf("lookup user: %w", err)
	}

	return user.ID, success(), nil
}

// UpdateUser applies a partial update. Calling it with no fields set is a
// silent no-op: not ok, but no error key either. Validation short-circuits
// on the first failure; the unique constraints re-verify email and username
// at write time.
func (s *UserService) UpdateUser(ctx context.Context, id string, input UpdateUserInput) (Result, error) {
	if input.empty() {
		return silentNoOp(), nil
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return failure(domain.MsgNotFoundUser), nil
		}
		return Result{}, fmt.Errorf("lookup user: %w", err)
	}

	changes := domain.UserChanges{}
	fields := make([]string, 0, 3)

	if input.Email != nil {
		email := strings.TrimSpace(*input.Email)
		if !security.IsValidEmail(email) {
			return failure(domain.MsgInvalidEmail), nil
		}
		taken, err := s.emailTaken(ctx, email, user.ID)
		if err != nil {
			return Result{}, err
		}
		if taken {
			return failure(domain.MsgExistsAlreadyEmail), nil
		}
		changes.Email = &email
		fields = append(fields, "email")
	}

	if input.Password != nil {
		if !s.policy.ValidLength(*input.Password) {
			return failure(domain.MsgInvalidPassword), nil
		}
		hash, err := security.HashPassword(*input.Password)
		if err != nil {
			return Result{}, fmt.Errorf("hash password: %w", err)
		}
		changes.PasswordHash = &hash
		fields = append(fields, "password")
	}

	if input.Username != nil {
		username := strings.TrimSpace(*input.Username)
		if !security.IsValidUsername(username) {
			return failure(domain.MsgInvalidUsername), nil
		}
		taken, err := s.usernameTaken(ctx, username, user.ID)
		if err != nil {
			return Result{}, err
		}
		if taken {
			return failure(domain.MsgExistsAlreadyUsername), nil
		}
		changes.Username = &username
		fields = append(fields, "username")
	}

	if err := s.users.Update(ctx, user.ID, changes); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return failure(domain.MsgNotFoundUser), nil
		}
		if key, ok := duplicateKey(err); ok {
			return failure(key), nil
		}
		return Result{}, fmt.Errorf("update user: %w", err)
	}

	s.publish(ctx, func(pub port.EventPublisher) error {
		return pub.PublishUserUpdated(ctx, domain.UserUpdatedEvent{
			UserID:    user.ID,
			Fields:    fields,
			UpdatedAt: s.now().UTC(),
		})
	})

	return success(domain.MsgInfoUpdateSuccess), nil
}

// BanUser sets the banned flag; the id resolves from the session when empty
// so a caller can invalidate their own account. Re-banning is a no-op
// success.
func (s *UserService) BanUser(ctx context.Context, sess port.SessionStore, id string) (Result, error) {
	return s.setBanned(ctx, sess, id, true)
}

// UnbanUser clears the banned flag; idempotent like BanUser.
func (s *UserService) UnbanUser(ctx context.Context, sess port.SessionStore, id string) (Result, error) {
	return s.setBanned(ctx, sess, id, false)
}

func (s *UserService) setBanned(ctx context.Context, sess port.SessionStore, id string, banned bool) (Result, error) {
	id, res, err := s.resolveID(ctx, sess, id)
	if err != nil || !res.OK() {
		return res, err
	}

	if err := s.users.SetBanned(ctx, id, banned); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return failure(domain.MsgNotFoundUser), nil
		}
		return Result{}, fmt.Errorf("set banned: %w", err)
	}

	s.publish(ctx, func(pub port.EventPublisher) error {
		return pub.PublishUserBanStateChanged(ctx, domain.UserBanStateChangedEvent{
			UserID:    id,
			Banned:    banned,
			ChangedAt: s.now().UTC(),
		})
	})

	return success(), nil
}

// IsBanned reports the banned flag; the id resolves from the session when
// empty.
func (s *UserService) IsBanned(ctx context.Context, sess port.SessionStore, id string) (bool, Result, error) {
	id, res, err := s.resolveID(ctx, sess, id)
	if err != nil || !res.OK() {
		return false, res, err
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, failure(domain.MsgNotFoundUser), nil
		}
		return false, Result{}, fmt.Errorf("lookup user: %w", err)
	}

	return user.Banned, success(), nil
}

// DeleteUser removes the user together with its variables and login tokens.
// Irreversible; there is no undo.
func (s *UserService) DeleteUser(ctx context.Context, id string) (Result, error) {
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return failure(domain.MsgNotFoundUser), nil
		}
		return Result{}, fmt.Errorf("delete user: %w", err)
	}

	s.publish(ctx, func(pub port.EventPublisher) error {
		return pub.PublishUserDeleted(ctx, domain.UserDeletedEvent{
			UserID:    id,
			DeletedAt: s.now().UTC(),
		})
	})

	return success(), nil
}

// ListUsers returns a page of lightweight user projections. Unset ordering
// falls back to insertion order (created_at ascending).
func (s *UserService) ListUsers(ctx context.Context, query domain.ListUsersQuery) ([]domain.UserSummary, error) {
	users, err := s.users.List(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// CountUsers returns the total matching the filter, for pagination.
func (s *UserService) CountUsers(ctx context.Context, filter string) (int, error) {
	count, err := s.users.Count(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return count, nil
}

// SetUserVariable upserts a per-user key/value attribute.
func (s *UserService) SetUserVariable(ctx context.Context, userID, key, value string, unique bool) (Result, error) {
	if err := s.users.SetVariable(ctx, userID, key, value, unique); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return failure(domain.MsgNotFoundUser), nil
		}
		return Result{}, fmt.Errorf("set user variable: %w", err)
	}
	return success(), nil
}

// DeleteUserVariable removes a per-user attribute; deleting an absent key is
// not an error.
func (s *UserService) DeleteUserVariable(ctx context.Context, userID, key string) error {
	if err := s.users.DeleteVariable(ctx, userID, key); err != nil {
		return fmt.Errorf("delete user variable: %w", err)
	}
	return nil
}

func (s *UserService) resolveID(ctx context.Context, sess port.SessionStore, id string) (string, Result, error) {
	if id != "" {
		return id, success(), nil
	}

	if sess == nil {
		return "", failure(domain.MsgNotFoundUser), nil
	}

	val, present, err := sess.Get(ctx, domain.SessionKeyUserID)
	if err != nil {
		return "", Result{}, fmt.Errorf("read session: %w", err)
	}
	if !present || val == "" {
		return "", failure(domain.MsgNotFoundUser), nil
	}

	return val, success(), nil
}

func (s *UserService) emailTaken(ctx context.Context, email, selfID string) (bool, error) {
	other, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("check email uniqueness: %w", err)
	}
	return other.ID != selfID, nil
}

func (s *UserService) usernameTaken(ctx context.Context, username, selfID string) (bool, error) {
	other, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("check username uniqueness: %w", err)
	}
	return other.ID != selfID, nil
}

func (s *UserService) publish(ctx context.Context, fn func(port.EventPublisher) error) {
	if s.events == nil {
		return
	}
	if err := fn(s.events); err != nil {
		s.log.Warn("publish event failed", zap.Error(err))
	}
}

// duplicateKey maps a unique-violation to the matching message key by
// constraint name.
func duplicateKey(err error) (domain.MessageKey, bool) {
	var dup *repository.DuplicateError
	if !errors.As(err, &dup) {
		return "", false
	}

	if strings.Contains(dup.Constraint, "email") {
		return domain.MsgExistsAlreadyEmail, true
	}
	return domain.MsgExistsAlreadyUsername, true
}
