package port

import (
	"context"
	"time"

	"github.com/arklim/social-platform-accounts/internal/core/domain"
)

// LoginTokenRepository persists remember-me tokens by hash.
type LoginTokenRepository interface {
	Create(ctx context.Context, token domain.LoginToken) error
	GetByHash(ctx context.Context, tokenHash string) (*domain.LoginToken, error)
	DeleteByUser(ctx context.Context, userID string) error
	DeleteExpired(ctx context.Context, reference time.Time) (int, error)
}
