package port

import (
	"context"
	"time"

	"github.com/arklim/social-platform-accounts/internal/core/domain"
)

// UserRepository exposes persistence behavior for users and their variables.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	// Update applies a partial change set; nil fields are left untouched.
	// Unique violations surface as *repository.DuplicateError.
	Update(ctx context.Context, id string, changes domain.UserChanges) error
	SetBanned(ctx context.Context, id string, banned bool) error
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
	// Delete removes the user together with its variables and login tokens.
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, query domain.ListUsersQuery) ([]domain.UserSummary, error)
	Count(ctx context.Context, filter string) (int, error)

	GetVariables(ctx context.Context, userID string) ([]domain.UserVariable, error)
	// SetVariable upserts the (userID, key) pair. With unique set, a value
	// already held by another user for the same key is rejected as duplicate.
	SetVariable(ctx context.Context, userID, key, value string, unique bool) error
	HasVariable(ctx context.Context, userID, key string) (bool, error)
	DeleteVariable(ctx context.Context, userID, key string) error
}
