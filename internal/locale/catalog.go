// Package locale resolves message keys to human-readable text at the
// presentation boundary. The auth core never imports it.
package locale

import (
	"github.com/arklim/social-platform-accounts/internal/core/domain"
	"github.com/arklim/social-platform-accounts/internal/core/port"
)

// Catalog is an in-memory key to text lookup for a single language.
type Catalog struct {
	messages map[domain.MessageKey]string
}

// NewEnglish returns the built-in English catalog.
func NewEnglish() *Catalog {
	return &Catalog{messages: english}
}

// Resolve returns the text for the key, or the raw key when no translation
// exists so missing entries stay visible instead of rendering blank.
func (c *Catalog) Resolve(key domain.MessageKey) string {
	if text, ok := c.messages[key]; ok {
		return text
	}
	return string(key)
}

var english = map[domain.MessageKey]string{
	domain.MsgLoginFailedEmail:      "Email address and password do not match.",
	domain.MsgLoginFailedUsername:   "Username and password do not match.",
	domain.MsgLoginFailedAll:        "Email address, username or password do not match.",
	domain.MsgLoginAttemptsExceeded: "Too many failed login attempts. Try again later.",
	domain.MsgNotFoundUser:          "User not found.",
	domain.MsgInvalidUserBanned:     "This account has been banned.",
	domain.MsgNotVerified:           "This account is awaiting verification.",
	domain.MsgInvalidEmail:          "Invalid email address.",
	domain.MsgInvalidPassword:       "Invalid password.",
	domain.MsgInvalidUsername:       "Invalid username.",
	domain.MsgExistsAlreadyEmail:    "Email address already in use.",
	domain.MsgExistsAlreadyUsername: "Username already in use.",
	domain.MsgInfoCreateSuccess:     "Account successfully created.",
	domain.MsgInfoUpdateSuccess:     "Account successfully updated.",
	domain.MsgInfoLoginSuccess:      "Successfully logged in.",
	domain.MsgInfoLogoutSuccess:     "Successfully logged out.",
}

var _ port.MessageCatalog = (*Catalog)(nil)
