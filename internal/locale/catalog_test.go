package locale

import (
	"testing"

	"github.com/arklim/social-platform-accounts/internal/core/domain"
)

func TestResolveKnownKey(t *testing.T) {
	catalog := NewEnglish()

	if got := catalog.Resolve(domain.MsgNotFoundUser); got != "User not found." {
		t.Fatalf("unexpected text: %s", got)
	}
}

func TestResolveUnknownKeyFallsBackToKey(t *testing.T) {
	catalog := NewEnglish()

	if got := catalog.Resolve(domain.MessageKey("noSuchKey")); got != "noSuchKey" {
		t.Fatalf("expected raw key fallback, got %s", got)
	}
}
