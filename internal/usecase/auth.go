package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/arklim/social-platform-accounts/internal/core/domain"
	"github.com/arklim/social-platform-accounts/internal/core/port"
	"github.com/arklim/social-platform-accounts/internal/infra/config"
	"github.com/arklim/social-platform-accounts/internal/infra/logger"
	"github.com/arklim/social-platform-accounts/internal/infra/security"
	"github.com/arklim/social-platform-accounts/internal/repository"
)

const rememberTokenBytes = 32

// AuthService coordinates login, logout, and session state. Domain failures
// are reported through Result queues; returned errors are persistence
// failures only.
type AuthService struct {
	cfg      *config.AppConfig
	users    port.UserRepository
	tokens   port.LoginTokenRepository
	attempts port.AttemptStore
	events   port.EventPublisher
	policy   security.PasswordPolicy
	log      *zap.Logger
	now      func() time.Time
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(
	cfg *config.AppConfig,
	users port.UserRepository,
	tokens port.LoginTokenRepository,
	attempts port.AttemptStore,
	events port.EventPublisher,
	log *zap.Logger,
) *AuthService {
	if log == nil {
		log = zap.NewNop()
	}

	policy := security.PasswordPolicy{
		MinLength: cfg.Auth.PasswordMinLength,
		MaxLength: cfg.Auth.PasswordMaxLength,
		MinScore:  cfg.Auth.PasswordMinScore,
	}
	if policy.MinLength <= 0 {
		policy = security.DefaultPasswordPolicy()
	}

	return &AuthService{
		cfg:      cfg,
		users:    users,
		tokens:   tokens,
		attempts: attempts,
		events:   events,
		policy:   policy,
		log:      log,
		now:      time.Now,
	}
}

// WithClock overrides the time source; used by tests to steer the attempt
// window.
func (s *AuthService) WithClock(now func() time.Time) *AuthService {
	if now != nil {
		s.now = now
	}
	return s
}

// Login verifies credentials for the submitted identity and establishes the
// session on success. Checks run in a strict order and the first failing
// check queues exactly one error key:
//
//	identity/password format, attempt lockout, user lookup, ban state,
//	pending verification, password hash comparison.
//
// The attempt counter increments only on a hash mismatch, is keyed by the
// submitted identity string, and resets on success.
func (s *AuthService) Login(ctx context.Context, sess port.SessionStore, identity, password string) (Result, error) {
	if !s.validLoginFormat(identity, password) {
		if s.cfg.Auth.LoginUseUsername {
			return failure(domain.MsgLoginFailedUsername), nil
		}
		return failure(domain.MsgLoginFailedEmail), nil
	}

	reference := s.now().UTC()
	count, err := s.attempts.CountAttempts(ctx, identity, s.attemptWindow(), reference)
	if err != nil {
		return Result{}, fmt.Errorf("count login attempts: %w", err)
	}
	if count >= s.maxAttempts() {
		return failure(domain.MsgLoginAttemptsExceeded), nil
	}

	user, err := s.lookupByIdentity(ctx, identity)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return failure(domain.MsgNotFoundUser), nil
		}
		return Result{}, fmt.Errorf("lookup user: %w", err)
	}

	if user.Banned {
		return failure(domain.MsgInvalidUserBanned), nil
	}

	pending, err := s.users.HasVariable(ctx, user.ID, domain.VariableVerificationCode)
	if err != nil {
		return Result{}, fmt.Errorf("check verification state: %w", err)
	}
	if pending {
		return failure(domain.MsgNotVerified), nil
	}

	ok, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return Result{}, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		if err := s.recordFailedAttempt(ctx, identity, count, reference); err != nil {
			return Result{}, err
		}
		return failure(domain.MsgLoginFailedAll), nil
	}

	if err := s.attempts.Reset(ctx, identity); err != nil {
		return Result{}, fmt.Errorf("reset login attempts: %w", err)
	}

	if err := s.establishSession(ctx, sess, user); err != nil {
		return Result{}, err
	}

	if err := s.users.TouchLastLogin(ctx, user.ID, reference); err != nil {
		// Losing last_login is not worth failing an otherwise valid login.
		s.log.Warn("touch last login failed", zap.Error(err))
	}

	s.log.Info("login succeeded",
		zap.String("user_id", user.ID),
		zap.String("identity", logger.MaskIdentity(identity)),
	)

	return success(domain.MsgInfoLoginSuccess), nil
}

// IsLoggedIn is a pure read of the session's loggedIn flag.
func (s *AuthService) IsLoggedIn(ctx context.Context, sess port.SessionStore) bool {
	if sess == nil {
		return false
	}

	val, present, err := sess.Get(ctx, domain.SessionKeyLoggedIn)
	if err != nil || !present {
		return false
	}

	loggedIn, err := strconv.ParseBool(val)
	return err == nil && loggedIn
}

// Logout clears the session identity. Idempotent; logging out twice is safe.
func (s *AuthService) Logout(ctx context.Context, sess port.SessionStore) error {
	if sess == nil {
		return nil
	}

	if err := sess.Clear(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// IssueRememberToken creates a remember-me token for the user and persists
// its hash with the configured TTL. The raw token is returned exactly once.
func (s *AuthService) IssueRememberToken(ctx context.Context, userID string) (string, error) {
	if s.tokens == nil {
		return "", fmt.Errorf("login token repository not configured")
	}

	raw, err := security.GenerateSecureToken(rememberTokenBytes)
	if err != nil {
		return "", fmt.Errorf("generate remember token: %w", err)
	}

	now := s.now().UTC()
	ttl := s.cfg.Auth.RememberTokenTTL
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}

	record := domain.LoginToken{
		ID:        uuid.NewString(),
		UserID:    userID,
		TokenHash: security.HashToken(raw),
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}

	if err := s.tokens.Create(ctx, record); err != nil {
		return "", fmt.Errorf("store remember token: %w", err)
	}

	return raw, nil
}

// LoginByToken re-establishes a session from a remember-me token. Expired or
// unknown tokens fail with notFoundUser; the ban check still applies.
func (s *AuthService) LoginByToken(ctx context.Context, sess port.SessionStore, raw string) (Result, error) {
	if s.tokens == nil || raw == "" {
		return failure(domain.MsgNotFoundUser), nil
	}

	record, err := s.tokens.GetByHash(ctx, security.HashToken(raw))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return failure(domain.MsgNotFoundUser), nil
		}
		return Result{}, fmt.Errorf("lookup remember token: %w", err)
	}

	if s.now().UTC().After(record.ExpiresAt) {
		if err := s.tokens.DeleteByUser(ctx, record.UserID); err != nil {
			s.log.Warn("failed to purge stale remember tokens",
				zap.String("user_id", record.UserID),
				zap.Error(err),
			)
		}
		return failure(domain.MsgNotFoundUser), nil
	}

	user, err := s.users.GetByID(ctx, record.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return failure(domain.MsgNotFoundUser), nil
		}
		return Result{}, fmt.Errorf("lookup user: %w", err)
	}

	if user.Banned {
		return failure(domain.MsgInvalidUserBanned), nil
	}

	if err := s.establishSession(ctx, sess, user); err != nil {
		return Result{}, err
	}

	return success(domain.MsgInfoLoginSuccess), nil
}

// PurgeExpiredTokens removes remember tokens whose expiry has passed and
// reports how many were deleted.
func (s *AuthService) PurgeExpiredTokens(ctx context.Context) (int, error) {
	if s.tokens == nil {
		return 0, nil
	}
	return s.tokens.DeleteExpired(ctx, s.now().UTC())
}

func (s *AuthService) establishSession(ctx context.Context, sess port.SessionStore, user *domain.User) error {
	if sess == nil {
		return fmt.Errorf("session store is required")
	}

	err := sess.Set(ctx, map[string]string{
		domain.SessionKeyLoggedIn: "true",
		domain.SessionKeyUserID:   user.ID,
		domain.SessionKeyEmail:    user.Email,
		domain.SessionKeyUsername: user.Username,
	})
	if err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

func (s *AuthService) recordFailedAttempt(ctx context.Context, identity string, priorCount int, reference time.Time) error {
	if err := s.attempts.RecordAttempt(ctx, identity, reference); err != nil {
		return fmt.Errorf("record login attempt: %w", err)
	}

	attempts := priorCount + 1
	s.log.Warn("login failed",
		zap.String("identity", logger.MaskIdentity(identity)),
		zap.Int("attempts", attempts),
	)

	if attempts >= s.maxAttempts() && s.events != nil {
		event := domain.LoginLockoutEvent{
			Identity:   identity,
			Attempts:   attempts,
			OccurredAt: reference,
		}
		if err := s.events.PublishLoginLockout(ctx, event); err != nil {
			s.log.Warn("publish lockout event failed", zap.Error(err))
		}
	}

	return nil
}

// validLoginFormat gates the identity shape and the password length bounds.
// A password outside the bounds can never match a stored hash, so it is
// rejected before any counter or repository work.
func (s *AuthService) validLoginFormat(identity, password string) bool {
	if !s.policy.ValidLength(password) {
		return false
	}
	if s.cfg.Auth.LoginUseUsername {
		return security.IsValidUsername(identity)
	}
	return security.IsValidEmail(identity)
}

func (s *AuthService) lookupByIdentity(ctx context.Context, identity string) (*domain.User, error) {
	if s.cfg.Auth.LoginUseUsername {
		return s.users.GetByUsername(ctx, identity)
	}
	return s.users.GetByEmail(ctx, identity)
}

func (s *AuthService) maxAttempts() int {
	if s.cfg.Auth.MaxLoginAttempts > 0 {
		return s.cfg.Auth.MaxLoginAttempts
	}
	return 10
}

func (s *AuthService) attemptWindow() time.Duration {
	if s.cfg.Auth.AttemptWindow > 0 {
		return s.cfg.Auth.AttemptWindow
	}
	return 10 * time.Minute
}
