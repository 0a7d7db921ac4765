package port

import (
	"context"
	"time"
)

// AttemptStore counts failed login attempts per submitted identity inside a
// rolling window. The window is evaluated at read time; no sweeper runs.
// Increments for the same identity must serialize so racing requests cannot
// slip past the lockout ceiling.
type AttemptStore interface {
	RecordAttempt(ctx context.Context, identity string, at time.Time) error
	CountAttempts(ctx context.Context, identity string, window time.Duration, reference time.Time) (int, error)
	Reset(ctx context.Context, identity string) error
}
