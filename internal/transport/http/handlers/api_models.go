package handlers

import (
	"time"

	"github.com/arklim/social-platform-accounts/internal/core/domain"
)

// ErrorResponse represents a generic error payload for malformed requests
// and infrastructure failures.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Message pairs a stable message key with its localized text. Clients match
// on the key; the text is presentation only.
type Message struct {
	Key  string `json:"key"`
	Text string `json:"text"`
}

// OperationResponse reports the outcome of an account operation. Errors and
// infos preserve the order in which the checks ran.
type OperationResponse struct {
	OK     bool      `json:"ok"`
	Errors []Message `json:"errors,omitempty"`
	Infos  []Message `json:"infos,omitempty"`
}

// LoginRequest defines the payload for the login endpoint.
type LoginRequest struct {
	Identity string `json:"identity" binding:"required"`
	Password string `json:"password" binding:"required"`
	Remember bool   `json:"remember"`
}

// LoginResponse is returned for login calls. RememberToken is present only
// when the login succeeded and the caller asked for one; it is shown exactly
// once.
type LoginResponse struct {
	OperationResponse
	RememberToken *string `json:"remember_token,omitempty"`
}

// TokenLoginRequest carries a remember-me token issued by a prior login.
type TokenLoginRequest struct {
	Token string `json:"token" binding:"required"`
}

// SessionStateResponse reports whether the caller's session is authenticated.
type SessionStateResponse struct {
	LoggedIn bool `json:"logged_in"`
}

// CreateUserRequest defines the account creation payload.
type CreateUserRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Username string `json:"username" binding:"required"`
}

// UpdateUserRequest carries a partial profile update; absent fields stay
// untouched.
type UpdateUserRequest struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Username *string `json:"username"`
}

// UserPayload is the full user view returned by read endpoints. The password
// hash never leaves the service.
type UserPayload struct {
	ID        string            `json:"id"`
	Email     string            `json:"email"`
	Username  string            `json:"username"`
	Banned    bool              `json:"banned"`
	LastLogin *time.Time        `json:"last_login,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
	Variables map[string]string `json:"variables,omitempty"`
}

func newUserPayload(user *domain.User) UserPayload {
	payload := UserPayload{
		ID:        user.ID,
		Email:     user.Email,
		Username:  user.Username,
		Banned:    user.Banned,
		LastLogin: user.LastLogin,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}

	if len(user.Variables) > 0 {
		payload.Variables = make(map[string]string, len(user.Variables))
		for _, variable := range user.Variables {
			payload.Variables[variable.Key] = variable.Value
		}
	}

	return payload
}

// UserEnvelope wraps a user with the operation outcome.
type UserEnvelope struct {
	OperationResponse
	User *UserPayload `json:"user,omitempty"`
}

// UserIDResponse resolves an identity to its user id.
type UserIDResponse struct {
	OperationResponse
	UserID string `json:"user_id,omitempty"`
}

// BanStateResponse reports a user's banned flag.
type BanStateResponse struct {
	OperationResponse
	Banned bool `json:"banned"`
}

// UserSummaryPayload is the compact projection used by list endpoints.
type UserSummaryPayload struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	Banned    bool      `json:"banned"`
	CreatedAt time.Time `json:"created_at"`
}

// ListUsersResponse pages through user summaries.
type ListUsersResponse struct {
	Users  []UserSummaryPayload `json:"users"`
	Total  int                  `json:"total"`
	Offset int                  `json:"offset"`
	Limit  int                  `json:"limit"`
}

// SetVariableRequest upserts a per-user attribute.
type SetVariableRequest struct {
	Value  string `json:"value" binding:"required"`
	Unique bool   `json:"unique"`
}

// HealthResponse reports liveness.
type HealthResponse struct {
	Status    string    `json:"status"`
	StartedAt time.Time `json:"started_at"`
}

// ReadinessResponse aggregates dependency checks.
type ReadinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}
