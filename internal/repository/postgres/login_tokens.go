package postgres

import (
	"context"
	"fmt"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/arklim/social-platform-accounts/internal/core/domain"
	"github.com/arklim/social-platform-accounts/internal/core/port"
	"github.com/arklim/social-platform-accounts/internal/repository"
)

// LoginTokenRepository persists remember-me token hashes. Raw tokens are
// never stored.
type LoginTokenRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewLoginTokenRepository constructs the repository.
func NewLoginTokenRepository(exec pgExecutor) *LoginTokenRepository {
	return &LoginTokenRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a token record.
func (r *LoginTokenRepository) Create(ctx context.Context, token domain.LoginToken) error {
	stmt, args, err := r.builder.Insert("accounts.login_tokens").
		Columns("id", "user_id", "token_hash", "created_at", "expires_at").
		Values(token.ID, token.UserID, token.TokenHash, token.CreatedAt, token.ExpiresAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert login token sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert login token: %w", err)
	}

	return nil
}

// GetByHash looks up a token record by its hash.
func (r *LoginTokenRepository) GetByHash(ctx context.Context, tokenHash string) (*domain.LoginToken, error) {
	stmt, args, err := r.builder.
		Select("id", "user_id", "token_hash", "created_at", "expires_at").
		From("accounts.login_tokens").
		Where(squirrel.Eq{"token_hash": tokenHash}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select login token sql: %w", err)
	}

	var token domain.LoginToken
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(
		&token.ID,
		&token.UserID,
		&token.TokenHash,
		&token.CreatedAt,
		&token.ExpiresAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan login token: %w", err)
	}

	return &token, nil
}

// DeleteByUser removes all tokens for the user, e.g. on password change.
func (r *LoginTokenRepository) DeleteByUser(ctx context.Context, userID string) error {
	stmt, args, err := r.builder.Delete("accounts.login_tokens").
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete login tokens sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("delete login tokens: %w", err)
	}

	return nil
}

// DeleteExpired purges tokens that expired before the reference time and
// reports how many rows were removed.
func (r *LoginTokenRepository) DeleteExpired(ctx context.Context, reference time.Time) (int, error) {
	stmt, args, err := r.builder.Delete("accounts.login_tokens").
		Where(squirrel.Lt{"expires_at": reference}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete expired tokens sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return 0, fmt.Errorf("delete expired tokens: %w", err)
	}

	return int(ct.RowsAffected()), nil
}

var _ port.LoginTokenRepository = (*LoginTokenRepository)(nil)
