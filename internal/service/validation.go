package service

import (
	"net/mail"
	"strings"
	"unicode"
)

// ValidationErrors aggregates user-correctable problems so callers can show
// all of them at once instead of failing on the first.
type ValidationErrors []string

func (v ValidationErrors) Error() string {
	return strings.Join(v, "; ")
}

const (
	passwordMinLength = 8
	passwordMaxLength = 64
)

// Messages match the ones the clients already display.
const (
	msgPasswordLength   = "Password must be between 8 to 64 characters long!"
	msgPasswordClasses  = "Password must contain atleast 1 uppercase, 1 lowercase, 1 digit, and 1 special character!"
	msgPasswordMismatch = "Passwords must match!"
)

// validatePasswordStrength checks the length and character-class rules and
// returns every violated rule. Go's RE2 regexp has no lookahead, so the
// classes are counted directly.
func validatePasswordStrength(password string) []string {
	var errs []string

	if len(password) < passwordMinLength || len(password) > passwordMaxLength {
		errs = append(errs, msgPasswordLength)
	}

	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case r == '_':
			// word character on the client side, not a special character
		default:
			special = true
		}
	}

	if !upper || !lower || !digit || !special {
		errs = append(errs, msgPasswordClasses)
	}

	return errs
}

// isValidEmail reports whether the address parses as a bare RFC 5322 address.
func isValidEmail(email string) bool {
	parsed, err := mail.ParseAddress(email)
	return err == nil && parsed.Address == email
}

// isAllowedEmailDomain enforces the institutional domain suffix restriction.
func isAllowedEmailDomain(email string, domains []string) bool {
	lowered := strings.ToLower(email)
	for _, domain := range domains {
		if strings.HasSuffix(lowered, "@"+strings.ToLower(domain)) {
			return true
		}
	}
	return false
}
