// Package validation provides input validation utilities
package validation

import (
	"net/mail"
	"strings"
)

const (
	minUsernameLen = 3
	maxUsernameLen = 30
	minPasswordLen = 8
	maxPasswordLen = 50
)

// Registration holds normalized registration input.
type Registration struct {
	Username string
	Email    string
	Password string
}

// NormalizeRegistration trims and lowercases username and email. The
// password is left untouched.
func NormalizeRegistration(username, email, password string) Registration {
	return Registration{
		Username: strings.ToLower(strings.TrimSpace(username)),
		Email:    strings.ToLower(strings.TrimSpace(email)),
		Password: password,
	}
}

// ValidateRegistration checks the normalized input and returns the full
// ordered list of violations. It never stops at the first failure.
func ValidateRegistration(in Registration) []string {
	var errs []string

	if in.Username == "" {
		errs = append(errs, "You must provide a username.")
	} else {
		if !isAlphanumeric(in.Username) {
			errs = append(errs, "Username can only contain letters and numbers.")
		}
		if len(in.Username) < minUsernameLen {
			errs = append(errs, "Username must be at least 3 characters.")
		} else if len(in.Username) > maxUsernameLen {
			errs = append(errs, "Username cannot exceed 30 characters.")
		}
	}

	if !isEmail(in.Email) {
		errs = append(errs, "You must provide a valid email address.")
	}

	if in.Password == "" {
		errs = append(errs, "You must provide a password.")
	} else if len(in.Password) < minPasswordLen {
		errs = append(errs, "Password must be at least 8 characters.")
	} else if len(in.Password) > maxPasswordLen {
		errs = append(errs, "Password cannot exceed 50 characters.")
	}

	return errs
}

func isAlphanumeric(s string) bool {
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return len(s) > 0
}

// isEmail accepts a bare address only, not the "Name <addr>" form that
// net/mail also parses.
func isEmail(s string) bool {
	if s == "" {
		return false
	}
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}
