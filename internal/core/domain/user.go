package domain

import "time"

// User mirrors the persisted representation in the users table.
type User struct {
	ID           string
	Email        string
	Username     string
	PasswordHash string
	Banned       bool
	LastLogin    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Variables is populated only when a lookup explicitly joins the
	// user_variables rows.
	Variables []UserVariable
}

// UserVariable is an arbitrary key/value attribute owned by a user, e.g. a
// pending verification_code marker. Rows are removed together with the user.
type UserVariable struct {
	UserID    string
	Key       string
	Value     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// VariableVerificationCode marks an account as pending verification while an
// unconsumed code exists.
const VariableVerificationCode = "verification_code"

// UserChanges is a partial update: nil fields are left untouched.
type UserChanges struct {
	Email        *string
	Username     *string
	PasswordHash *string
}

// Empty reports whether the change set would modify nothing.
func (c UserChanges) Empty() bool {
	return c.Email == nil && c.Username == nil && c.PasswordHash == nil
}

// UserSummary is the lightweight projection returned by paginated listings.
type UserSummary struct {
	ID        string
	Email     string
	Username  string
	Banned    bool
	CreatedAt time.Time
}

// UserOrder names a whitelisted listing sort field.
type UserOrder string

const (
	UserOrderCreatedAt UserOrder = "created_at"
	UserOrderUsername  UserOrder = "username"
	UserOrderEmail     UserOrder = "email"
	UserOrderID        UserOrder = "id"
)

// ListUsersQuery bounds and orders a user listing. Zero Limit falls back to
// the repository default page size. Descending is ignored unless OrderBy is
// set; the default order is insertion order (created_at ascending).
type ListUsersQuery struct {
	Offset     int
	Limit      int
	Filter     string
	OrderBy    UserOrder
	Descending bool
}

// LoginToken is a persisted remember-me token. Only the SHA-256 hash of the
// raw token ever reaches storage.
type LoginToken struct {
	ID        string
	UserID    string
	TokenHash string
	CreatedAt time.Time
	ExpiresAt time.Time
}
