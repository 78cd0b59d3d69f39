package domain

import (
	"errors"
	"regexp"
	"unicode"
)

var ErrInvalidEmail = errors.New("invalid email address")
var ErrMissingField = errors.New("required field missing")
var ErrPasswordTooShort = errors.New("password too short")
var ErrWeakPassword = errors.New("password does not meet the strength policy")
var ErrPasswordUnchanged = errors.New("new password must differ from the current one")

// MinPasswordLength applies to privileged account creation.
const MinPasswordLength = 8

// MinNewPasswordLength applies to self-service password rotation, which
// enforces the stricter policy.
const MinNewPasswordLength = 12

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9.!#$%&'*+/=?^_` + "`" + `{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)+$`)

// ValidateEmail checks the syntactic shape of an email address. It runs
// before any credential-store lookup so malformed input never reaches the
// database.
func ValidateEmail(email string) error {
	if email == "" || !emailPattern.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}

// ValidatePasswordLength is the minimal check applied at account creation.
func ValidatePasswordLength(password string) error {
	if len(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	return nil
}

// ValidatePasswordStrength enforces the rotation policy: at least
// MinNewPasswordLength characters with upper case, lower case, digit and
// special character classes all present.
func ValidatePasswordStrength(password string) error {
	if len(password) < MinNewPasswordLength {
		return ErrWeakPassword
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
		default:
			special = true
		}
	}
	if !upper || !lower || !digit || !special {
		return ErrWeakPassword
	}
	return nil
}
