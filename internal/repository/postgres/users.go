package postgres

import (
	"context"
	"fmt"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arklim/social-platform-accounts/internal/core/domain"
	"github.com/arklim/social-platform-accounts/internal/core/port"
	"github.com/arklim/social-platform-accounts/internal/repository"
)

var userColumns = []string{
	"id",
	"email",
	"username",
	"password_hash",
	"banned",
	"last_login",
	"created_at",
	"updated_at",
}

// UserRepository implements port.UserRepository backed by PostgreSQL.
// Variable and login-token rows reference users with ON DELETE CASCADE, so
// Delete needs no explicit cleanup.
type UserRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewUserRepository constructs a repository backed by any executor that
// satisfies pgExecutor.
func NewUserRepository(exec pgExecutor) *UserRepository {
	repo := &UserRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
	if pool, ok := exec.(*pgxpool.Pool); ok {
		repo.pool = pool
	}
	return repo
}

// WithTx returns a repository instance operating within the supplied transaction.
func (r *UserRepository) WithTx(tx pgx.Tx) *UserRepository {
	if tx == nil {
		return r
	}
	return &UserRepository{
		pool:    r.pool,
		exec:    tx,
		builder: r.builder,
	}
}

// Create inserts a new user row.
func (r *UserRepository) Create(ctx context.Context, user domain.User) error {
	stmt, args, err := r.builder.Insert("accounts.users").
		Columns(userColumns...).
		Values(
			user.ID,
			user.Email,
			user.Username,
			user.PasswordHash,
			user.Banned,
			user.LastLogin,
			user.CreatedAt,
			user.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert user sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		if translated := translateUniqueViolation(err); translated != err {
			return translated
		}
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by identifier.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetByEmail retrieves a user by email, case-insensitively.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx, squirrel.Expr("lower(email) = lower(?)", email))
}

// GetByUsername retrieves a user by exact username.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.getOne(ctx, squirrel.Eq{"username": username})
}

func (r *UserRepository) getOne(ctx context.Context, pred any) (*domain.User, error) {
	stmt, args, err := r.builder.
		Select(userColumns...).
		From("accounts.users").
		Where(pred).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select user sql: %w", err)
	}

	row := r.exec.QueryRow(ctx, stmt, args...)

	var (
		user      domain.User
		lastLogin *time.Time
	)
	if err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Username,
		&user.PasswordHash,
		&user.Banned,
		&lastLogin,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}

	user.LastLogin = lastLogin
	return &user, nil
}

// Update applies the provided field changes; nil fields stay untouched.
func (r *UserRepository) Update(ctx context.Context, id string, changes domain.UserChanges) error {
	if changes.Empty() {
		return nil
	}

	query := r.builder.Update("accounts.users").
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": id})

	if changes.Email != nil {
		query = query.Set("email", *changes.Email)
	}
	if changes.Username != nil {
		query = query.Set("username", *changes.Username)
	}
	if changes.PasswordHash != nil {
		query = query.Set("password_hash", *changes.PasswordHash)
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build update user sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		if translated := translateUniqueViolation(err); translated != err {
			return translated
		}
		return fmt.Errorf("update user: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// SetBanned flips the banned flag.
func (r *UserRepository) SetBanned(ctx context.Context, id string, banned bool) error {
	stmt, args, err := r.builder.Update("accounts.users").
		Set("banned", banned).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build set banned sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("set banned: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// TouchLastLogin records a successful login timestamp.
func (r *UserRepository) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	stmt, args, err := r.builder.Update("accounts.users").
		Set("last_login", at).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build touch last login sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("touch last login: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Delete removes the user row; dependent rows cascade via foreign keys.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	stmt, args, err := r.builder.Delete("accounts.users").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete user sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// orderColumns whitelists sortable columns so a caller-supplied order can
// never reach the SQL text unchecked.
var orderColumns = map[domain.UserOrder]string{
	domain.UserOrderCreatedAt: "created_at",
	domain.UserOrderUsername:  "username",
	domain.UserOrderEmail:     "email",
	domain.UserOrderID:        "id",
}

// List returns lightweight user projections with filtering and pagination.
func (r *UserRepository) List(ctx context.Context, q domain.ListUsersQuery) ([]domain.UserSummary, error) {
	query := r.builder.Select(
		"id",
		"email",
		"username",
		"banned",
		"created_at",
	).From("accounts.users")

	if q.Filter != "" {
		pattern := "%" + q.Filter + "%"
		query = query.Where(squirrel.Or{
			squirrel.ILike{"username": pattern},
			squirrel.ILike{"email": pattern},
		})
	}

	column, ok := orderColumns[q.OrderBy]
	if !ok {
		column = "created_at"
	}
	direction := "ASC"
	if q.Descending {
		direction = "DESC"
	}
	query = query.OrderBy(column + " " + direction)

	if q.Limit > 0 {
		query = query.Limit(uint64(q.Limit))
	}
	if q.Offset > 0 {
		query = query.Offset(uint64(q.Offset))
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list users sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	users := make([]domain.UserSummary, 0)
	for rows.Next() {
		var summary domain.UserSummary
		if err := rows.Scan(
			&summary.ID,
			&summary.Email,
			&summary.Username,
			&summary.Banned,
			&summary.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan user summary: %w", err)
		}
		users = append(users, summary)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}

	return users, nil
}

// Count returns the total number of users matching the filter.
func (r *UserRepository) Count(ctx context.Context, filter string) (int, error) {
	query := r.builder.Select("COUNT(*)").From("accounts.users")

	if filter != "" {
		pattern := "%" + filter + "%"
		query = query.Where(squirrel.Or{
			squirrel.ILike{"username": pattern},
			squirrel.ILike{"email": pattern},
		})
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count users sql: %w", err)
	}

	var count int64
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("scan users count: %w", err)
	}

	return int(count), nil
}

// GetVariables lists the key/value attributes stored for the user.
func (r *UserRepository) GetVariables(ctx context.Context, userID string) ([]domain.UserVariable, error) {
	stmt, args, err := r.builder.
		Select("user_id", "data_key", "data_value").
		From("accounts.user_variables").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("data_key ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select user variables sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query user variables: %w", err)
	}
	defer rows.Close()

	variables := make([]domain.UserVariable, 0)
	for rows.Next() {
		var variable domain.UserVariable
		if err := rows.Scan(&variable.UserID, &variable.Key, &variable.Value); err != nil {
			return nil, fmt.Errorf("scan user variable: %w", err)
		}
		variables = append(variables, variable)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user variables: %w", err)
	}

	return variables, nil
}

// SetVariable upserts a key/value attribute for the user. With unique set the
// value must not already be held by another user.
func (r *UserRepository) SetVariable(ctx context.Context, userID, key, value string, unique bool) error {
	if unique {
		stmt, args, err := r.builder.Select("COUNT(*)").
			From("accounts.user_variables").
			Where(squirrel.Eq{"data_key": key, "data_value": value}).
			Where(squirrel.NotEq{"user_id": userID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("build variable uniqueness sql: %w", err)
		}

		var count int64
		if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&count); err != nil {
			return fmt.Errorf("scan variable uniqueness count: %w", err)
		}
		if count > 0 {
			return repository.ErrDuplicate
		}
	}

	stmt, args, err := r.builder.Insert("accounts.user_variables").
		Columns("user_id", "data_key", "data_value").
		Values(userID, key, value).
		Suffix("ON CONFLICT (user_id, data_key) DO UPDATE SET data_value = EXCLUDED.data_value").
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert user variable sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("upsert user variable: %w", err)
	}

	return nil
}

// HasVariable reports whether the key exists for the user.
func (r *UserRepository) HasVariable(ctx context.Context, userID, key string) (bool, error) {
	stmt, args, err := r.builder.Select("1").
		From("accounts.user_variables").
		Where(squirrel.Eq{"user_id": userID, "data_key": key}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build has variable sql: %w", err)
	}

	var one int
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&one); err != nil {
		if err == pgx.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("scan has variable: %w", err)
	}

	return true, nil
}

// DeleteVariable removes a key; deleting an absent key is not an error.
func (r *UserRepository) DeleteVariable(ctx context.Context, userID, key string) error {
	stmt, args, err := r.builder.Delete("accounts.user_variables").
		Where(squirrel.Eq{"user_id": userID, "data_key": key}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete user variable sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("delete user variable: %w", err)
	}

	return nil
}

var _ port.UserRepository = (*UserRepository)(nil)
