package ports

import (
	"context"

	"github.com/campusverein/member-portal/internal/core/domain"
)

// SSOClaims are identity claims already verified by the SSO gateway. This
// core never talks to the identity provider itself; it trusts the claims
// handed to it.
type SSOClaims struct {
	Email      string
	GivenName  string
	FamilyName string
	Subject    string
}

// LoginResult is the structured outcome of an authentication attempt.
// Denials carry a user-safe German message and are results, not errors;
// only infrastructure failures surface as errors.
type LoginResult struct {
	Success      bool
	Message      string
	Session      *domain.Session
	IsNewAccount bool
}

type AuthService interface {
	Login(ctx context.Context, email, password, clientAddr string) (*LoginResult, error)
	LoginWithSSO(ctx context.Context, claims SSOClaims) (*LoginResult, error)
}
