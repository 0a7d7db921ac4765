package domain

import "time"

// UserCreatedEvent is emitted after a user row is persisted.
type UserCreatedEvent struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// UserUpdatedEvent is emitted after a partial profile update succeeds.
// Fields lists the column names that changed, never the values.
type UserUpdatedEvent struct {
	UserID    string    `json:"user_id"`
	Fields    []string  `json:"fields"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserBanStateChangedEvent is emitted on ban and unban transitions.
type UserBanStateChangedEvent struct {
	UserID    string    `json:"user_id"`
	Banned    bool      `json:"banned"`
	ChangedAt time.Time `json:"changed_at"`
}

// UserDeletedEvent is emitted once a user and its owned rows are removed.
type UserDeletedEvent struct {
	UserID    string    `json:"user_id"`
	DeletedAt time.Time `json:"deleted_at"`
}

// LoginLockoutEvent is emitted when an identity hits the attempt ceiling.
// Identity is the submitted login string, which may not map to any account.
type LoginLockoutEvent struct {
	Identity   string    `json:"identity"`
	Attempts   int       `json:"attempts"`
	OccurredAt time.Time `json:"occurred_at"`
}
