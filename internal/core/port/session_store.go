package port

import "context"

// SessionStore is a handle onto one client's session. Implementations are
// bound to a single session identifier; no cross-request locking is needed.
type SessionStore interface {
	// Get returns the attribute value and whether it is present.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set merges the provided attributes into the session.
	Set(ctx context.Context, values map[string]string) error
	// Clear drops every attribute. Clearing an absent session is not an error.
	Clear(ctx context.Context) error
	// Active reports whether the session currently holds any attributes.
	Active(ctx context.Context) (bool, error)
}
