package port

import "github.com/arklim/social-platform-accounts/internal/core/domain"

// MessageCatalog resolves message keys to human-readable text. Only the
// presentation boundary consumes it; the core traffics in keys alone.
type MessageCatalog interface {
	Resolve(key domain.MessageKey) string
}
