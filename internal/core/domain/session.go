package domain

import (
	"errors"
	"time"
)

// AuthMethod records how a session was established.
type AuthMethod string

const (
	AuthMethodPassword AuthMethod = "password"
	AuthMethodSSO      AuthMethod = "sso"
)

var ErrNotAuthenticated = errors.New("not authenticated")
var ErrForbidden = errors.New("insufficient role")
var ErrSessionNotFound = errors.New("session not found")
var ErrSessionInvalid = errors.New("session no longer valid")

// Session is the server-side state of one authenticated client. It is a
// plain value retrieved from and persisted back to a SessionStore; nothing
// in the core holds session state globally.
type Session struct {
	ID           string     `json:"id"`
	AccountID    string     `json:"account_id"`
	Role         Role       `json:"role"`
	Email        string     `json:"email"`
	GivenName    string     `json:"given_name"`
	FamilyName   string     `json:"family_name"`
	AuthMethod   AuthMethod `json:"auth_method"`
	CSRFToken    string     `json:"-"`
	LastActivity time.Time  `json:"last_activity"`
}
