// Package validation provides input validation for registration and account forms.
package validation

import (
	"fmt"
	"regexp"
)

var (
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	emailRe    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// ValidateUsername checks if a username meets requirements.
func ValidateUsername(username string) error {
	if len(username) < 3 {
		return fmt.Errorf("username must be at least 3 characters long")
	}
	if len(username) > 20 {
		return fmt.Errorf("username must not exceed 20 characters")
	}
	if !usernameRe.MatchString(username) {
		return fmt.Errorf("username can only contain letters, numbers, underscores, and hyphens")
	}
	if username[0] == '_' || username[0] == '-' || username[len(username)-1] == '_' || username[len(username)-1] == '-' {
		return fmt.Errorf("username cannot start or end with underscore or hyphen")
	}
	return nil
}

// ValidateEmail checks that the address is plausibly deliverable.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if len(email) > 120 {
		return fmt.Errorf("email must not exceed 120 characters")
	}
	if !emailRe.MatchString(email) {
		return fmt.Errorf("invalid email address")
	}
	return nil
}

// ValidatePassword checks if a password meets minimum requirements.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters long")
	}
	if len(password) > 128 {
		return fmt.Errorf("password must not exceed 128 characters")
	}
	return nil
}

// ValidatePasswordConfirmation checks that the confirmation matches.
func ValidatePasswordConfirmation(password, confirm string) error {
	if password != confirm {
		return fmt.Errorf("passwords do not match")
	}
	return nil
}
