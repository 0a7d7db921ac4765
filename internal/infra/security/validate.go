package security

import (
	"regexp"
	"strings"

	zxcvbn "github.com/nbutton23/zxcvbn-go"
)

var (
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	// Usernames: letters and digits, optionally separated by . - _ .
	// Notably no '+' and no leading/trailing separator.
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9]+([._-][a-zA-Z0-9]+)*$`)
)

const usernameMinLength = 3

// IsValidEmail reports whether the value looks like an email address.
// Uniqueness is not checked here; the database constraint is the authority.
func IsValidEmail(email string) bool {
	if email == "" || len(email) > 254 {
		return false
	}
	return emailPattern.MatchString(email)
}

// IsValidUsername reports whether the value satisfies the username format.
func IsValidUsername(username string) bool {
	if len(username) < usernameMinLength {
		return false
	}
	return usernamePattern.MatchString(username)
}

// PasswordPolicy bounds password length and optionally enforces a minimum
// zxcvbn strength score (0 disables the strength gate).
type PasswordPolicy struct {
	MinLength int
	MaxLength int
	MinScore  int
}

// DefaultPasswordPolicy mirrors the historical defaults: 8..32 characters,
// no strength gate.
func DefaultPasswordPolicy() PasswordPolicy {
	return PasswordPolicy{MinLength: 8, MaxLength: 32}
}

// ValidLength reports whether the password length falls inside the bounds.
// Length is measured in runes so multibyte passwords are not penalized.
func (p PasswordPolicy) ValidLength(password string) bool {
	n := len([]rune(password))
	if n < p.MinLength {
		return false
	}
	if p.MaxLength > 0 && n > p.MaxLength {
		return false
	}
	return true
}

// StrongEnough applies the zxcvbn score gate. Identity substrings are passed
// as user inputs so passwords derived from them score lower.
func (p PasswordPolicy) StrongEnough(password string, identityHints ...string) bool {
	if p.MinScore <= 0 {
		return true
	}

	minScore := p.MinScore
	if minScore > 4 {
		minScore = 4
	}

	hints := make([]string, 0, len(identityHints))
	for _, hint := range identityHints {
		if hint = strings.TrimSpace(hint); hint != "" {
			hints = append(hints, hint)
		}
	}

	return zxcvbn.PasswordStrength(password, hints).Score >= minScore
}
