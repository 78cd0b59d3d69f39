package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/campusverein/member-portal/internal/core/domain"
	"github.com/campusverein/member-portal/internal/core/ports"
)

type authService struct {
	accounts       ports.AccountRepository
	sessions       ports.SessionManager
	limiter        ports.LoginRateLimiter
	audit          ports.AuditSink
	ssoDefaultRole domain.Role
	log            zerolog.Logger
}

// NewAuthService wires the password and SSO login flows. ssoDefaultRole is
// the role granted to auto-provisioned first-time SSO accounts; when it is
// not a valid role, RoleMitglied is used.
func NewAuthService(
	accounts ports.AccountRepository,
	sessions ports.SessionManager,
	limiter ports.LoginRateLimiter,
	audit ports.AuditSink,
	ssoDefaultRole domain.Role,
	log zerolog.Logger,
) ports.AuthService {
	if !ssoDefaultRole.Valid() {
		ssoDefaultRole = domain.RoleMitglied
	}
	return &authService{
		accounts:       accounts,
		sessions:       sessions,
		limiter:        limiter,
		audit:          audit,
		ssoDefaultRole: ssoDefaultRole,
		log:            log,
	}
}

// Login validates an email/password pair. Denials come back as results
// with a user-safe message; only the limiter and audit trail are allowed
// to fail without affecting the outcome.
func (s *authService) Login(ctx context.Context, email, password, clientAddr string) (*ports.LoginResult, error) {
	// 1. Rate-limit gate. A limited address never reaches the credential
	// store, correct password or not. Limiter store errors fail open.
	limited, err := s.limiter.IsLimited(ctx, clientAddr)
	if err != nil {
		s.log.Warn().Err(err).Str("addr", clientAddr).Msg("rate limit check failed, proceeding unlimited")
	} else if limited {
		return &ports.LoginResult{Success: false, Message: domain.MsgRateLimited}, nil
	}

	// 2. Reject malformed email before any lookup.
	if err := domain.ValidateEmail(email); err != nil {
		return &ports.LoginResult{Success: false, Message: domain.MsgInvalidEmail}, nil
	}

	// 3. Fetch account. A miss is indistinguishable from a bad password.
	account, err := s.accounts.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrAccountNotFound) {
		s.recordFailure(ctx, clientAddr)
		return &ports.LoginResult{Success: false, Message: domain.MsgInvalidCredentials}, nil
	}
	if err != nil {
		s.log.Error().Err(err).Msg("credential store lookup failed")
		return &ports.LoginResult{Success: false, Message: domain.MsgDatabaseError}, nil
	}

	// 4. SSO-only accounts get a distinguishing redirect message. Accepted
	// enumeration leak, limited to "no password set".
	if !account.HasPassword() {
		return &ports.LoginResult{Success: false, Message: domain.MsgSSOLoginRequired}, nil
	}

	// 5. Verify password.
	if bcrypt.CompareHashAndPassword([]byte(*account.PasswordHash), []byte(password)) != nil {
		s.recordFailure(ctx, clientAddr)
		s.recordAudit(ctx, account.ID, domain.AuditLoginFailed, domain.AuditTargetAccount, account.ID)
		return &ports.LoginResult{Success: false, Message: domain.MsgInvalidCredentials}, nil
	}

	// 6. Materialize the session. The failure history is intentionally not
	// reset here; entries leave the window by expiry alone.
	sess, err := s.sessions.Create(ctx, account, domain.AuthMethodPassword)
	if err != nil {
		s.log.Error().Err(err).Str("account_id", account.ID).Msg("session creation failed")
		return &ports.LoginResult{Success: false, Message: domain.MsgDatabaseError}, nil
	}

	s.recordAudit(ctx, account.ID, domain.AuditLoginPassword, domain.AuditTargetAccount, account.ID)
	return &ports.LoginResult{Success: true, Message: domain.MsgLoginSuccessful, Session: sess}, nil
}

// LoginWithSSO logs in externally verified identity claims. Unknown
// identities are auto-provisioned as password-less accounts with the
// configured default role.
func (s *authService) LoginWithSSO(ctx context.Context, claims ports.SSOClaims) (*ports.LoginResult, error) {
	if err := domain.ValidateEmail(claims.Email); err != nil {
		return &ports.LoginResult{Success: false, Message: domain.MsgInvalidEmail}, nil
	}

	account, err := s.accounts.FindByEmail(ctx, claims.Email)
	isNew := false
	switch {
	case errors.Is(err, domain.ErrAccountNotFound):
		account, err = s.provision(ctx, claims)
		if err != nil {
			s.log.Error().Err(err).Str("email", claims.Email).Msg("sso auto-provisioning failed")
			return &ports.LoginResult{Success: false, Message: domain.MsgDatabaseError}, nil
		}
		isNew = true
	case err != nil:
		s.log.Error().Err(err).Msg("credential store lookup failed")
		return &ports.LoginResult{Success: false, Message: domain.MsgDatabaseError}, nil
	}

	sess, err := s.sessions.Create(ctx, account, domain.AuthMethodSSO)
	if err != nil {
		s.log.Error().Err(err).Str("account_id", account.ID).Msg("session creation failed")
		return &ports.LoginResult{Success: false, Message: domain.MsgDatabaseError}, nil
	}

	s.recordAudit(ctx, account.ID, domain.AuditLoginSSO, domain.AuditTargetAccount, account.ID)
	return &ports.LoginResult{Success: true, Message: domain.MsgLoginSuccessful, Session: sess, IsNewAccount: isNew}, nil
}

func (s *authService) provision(ctx context.Context, claims ports.SSOClaims) (*domain.Account, error) {
	now := time.Now().UTC()
	account := &domain.Account{
		ID:         uuid.NewString(),
		Email:      claims.Email,
		Role:       s.ssoDefaultRole,
		GivenName:  claims.GivenName,
		FamilyName: claims.FamilyName,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	created, err := s.accounts.Insert(ctx, account)
	if err != nil {
		return nil, err
	}

	s.recordAudit(ctx, created.ID, domain.AuditSSOProvisioned, domain.AuditTargetAccount, created.ID)
	return created, nil
}

func (s *authService) recordFailure(ctx context.Context, addr string) {
	if err := s.limiter.RecordFailure(ctx, addr); err != nil {
		s.log.Warn().Err(err).Str("addr", addr).Msg("failed to record login failure, proceeding")
	}
}

func (s *authService) recordAudit(ctx context.Context, actorID, action, targetType, targetID string) {
	if err := s.audit.Record(ctx, actorID, action, targetType, targetID); err != nil {
		s.log.Warn().Err(err).Str("action", action).Msg("audit write failed")
	}
}
