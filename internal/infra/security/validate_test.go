package security

import "testing"

func TestIsValidEmail(t *testing.T) {
	valid := []string{
		"admin@example.com",
		"first.last@sub.example.co",
		"user+tag@example.com",
	}
	for _, email := range valid {
		if !IsValidEmail(email) {
			t.Errorf("expected %q to be valid", email)
		}
	}

	invalid := []string{
		"",
		"adminaexample.com",
		"admin@",
		"@example.com",
		"admin@example",
		"two words@example.com",
	}
	for _, email := range invalid {
		if IsValidEmail(email) {
			t.Errorf("expected %q to be invalid", email)
		}
	}
}

func TestIsValidUsername(t *testing.T) {
	valid := []string{"admin", "user1", "first.last", "a-b_c9"}
	for _, username := range valid {
		if !IsValidUsername(username) {
			t.Errorf("expected %q to be valid", username)
		}
	}

	invalid := []string{"", "ab", "user+", "user+tag", ".user", "user.", "us  er"}
	for _, username := range invalid {
		if IsValidUsername(username) {
			t.Errorf("expected %q to be invalid", username)
		}
	}
}

func TestPasswordPolicyValidLength(t *testing.T) {
	policy := DefaultPasswordPolicy()

	if policy.ValidLength("pass") {
		t.Errorf("expected 4 characters to be below minimum")
	}
	if policy.ValidLength("password12345678901011121314151617") {
		t.Errorf("expected 34 characters to be above maximum")
	}
	if !policy.ValidLength("password123456") {
		t.Errorf("expected 14 characters to be accepted")
	}
	if !policy.ValidLength("password") {
		t.Errorf("expected exactly 8 characters to be accepted")
	}
}

func TestPasswordPolicyStrongEnough(t *testing.T) {
	policy := PasswordPolicy{MinLength: 8, MaxLength: 64, MinScore: 3}

	if policy.StrongEnough("password", "admin") {
		t.Errorf("expected dictionary password to fail the strength gate")
	}
	if !policy.StrongEnough("correct-horse-battery-staple-99") {
		t.Errorf("expected long passphrase to pass the strength gate")
	}

	disabled := PasswordPolicy{MinLength: 8, MaxLength: 64}
	if !disabled.StrongEnough("password") {
		t.Errorf("expected zero MinScore to disable the gate")
	}
}
