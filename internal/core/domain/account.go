package domain

import (
	"errors"
	"time"
)

var ErrAccountNotFound = errors.New("account not found")
var ErrEmailTaken = errors.New("email already registered")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrRateLimited = errors.New("too many failed login attempts")
var ErrPasswordLoginUnavailable = errors.New("account has no password, use sso")
var ErrConfirmationMismatch = errors.New("confirmation email does not match account email")

// Account is the durable credential-store record for one member.
// PasswordHash is nil for SSO-only accounts; such accounts can never
// authenticate with a password.
type Account struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash *string   `json:"-"`
	Role         Role      `json:"role"`
	GivenName    string    `json:"given_name"`
	FamilyName   string    `json:"family_name"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// HasPassword reports whether password login is possible for this account.
func (a *Account) HasPassword() bool {
	return a.PasswordHash != nil && *a.PasswordHash != ""
}
