package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/campusverein/member-portal/internal/core/domain"
	"github.com/campusverein/member-portal/internal/core/ports"
)

type accountService struct {
	accounts ports.AccountRepository
	userdata ports.UserDataRepository
	sessions ports.SessionManager
	store    ports.SessionStore
	audit    ports.AuditSink
	notifier ports.Notifier
	clock    ports.Clock
	log      zerolog.Logger
}

// NewAccountService wires the account lifecycle: privileged creation,
// self-service credential rotation, role management and the GDPR
// export/erasure operations.
func NewAccountService(
	accounts ports.AccountRepository,
	userdata ports.UserDataRepository,
	sessions ports.SessionManager,
	store ports.SessionStore,
	audit ports.AuditSink,
	notifier ports.Notifier,
	clock ports.Clock,
	log zerolog.Logger,
) ports.AccountService {
	return &accountService{
		accounts: accounts,
		userdata: userdata,
		sessions: sessions,
		store:    store,
		audit:    audit,
		notifier: notifier,
		clock:    clock,
		log:      log,
	}
}

// CreateAccount inserts a new member account. The actor must hold at least
// vorstand; the permission gate runs before any validation or store access.
func (s *accountService) CreateAccount(ctx context.Context, actor *domain.Session, email, givenName, familyName, password string) (string, error) {
	ok, err := CheckPermission(actor, domain.RoleVorstand)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", domain.ErrForbidden
	}

	// Validation order is fixed: presence, format, length, uniqueness.
	if email == "" || givenName == "" || familyName == "" || password == "" {
		return "", domain.ErrMissingField
	}
	if err := domain.ValidateEmail(email); err != nil {
		return "", err
	}
	if err := domain.ValidatePasswordLength(password); err != nil {
		return "", err
	}
	if _, err := s.accounts.FindByEmail(ctx, email); err == nil {
		return "", domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrAccountNotFound) {
		return "", fmt.Errorf("uniqueness check: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	now := s.clock.Now()
	hashStr := string(hash)
	account := &domain.Account{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: &hashStr,
		Role:         domain.RoleMitglied,
		GivenName:    givenName,
		FamilyName:   familyName,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.accounts.Insert(ctx, account)
	if err != nil {
		return "", fmt.Errorf("insert account: %w", err)
	}

	s.recordAudit(ctx, actor.AccountID, domain.AuditAccountCreated, domain.AuditTargetAccount, created.ID)
	return created.ID, nil
}

// UpdatePassword rotates an account's password. Any authenticated owner
// may rotate their own password; no role is required.
func (s *accountService) UpdatePassword(ctx context.Context, accountID, currentPassword, newPassword string) error {
	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		return err
	}
	if !account.HasPassword() {
		return domain.ErrPasswordLoginUnavailable
	}
	if bcrypt.CompareHashAndPassword([]byte(*account.PasswordHash), []byte(currentPassword)) != nil {
		return domain.ErrInvalidCredentials
	}
	if err := domain.ValidatePasswordStrength(newPassword); err != nil {
		return err
	}
	// Same-password check runs against the stored hash, not the plaintext.
	if bcrypt.CompareHashAndPassword([]byte(*account.PasswordHash), []byte(newPassword)) == nil {
		return domain.ErrPasswordUnchanged
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.accounts.UpdatePasswordHash(ctx, accountID, string(hash)); err != nil {
		return fmt.Errorf("persist password: %w", err)
	}

	s.recordAudit(ctx, accountID, domain.AuditPasswordChanged, domain.AuditTargetAccount, accountID)
	return nil
}

// UpdateEmail changes the login email after password re-verification. The
// change notification to the new address is best-effort: a failed delivery
// is reported to the caller but never rolls back the change.
func (s *accountService) UpdateEmail(ctx context.Context, accountID, newEmail, currentPassword string) (bool, error) {
	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		return false, err
	}
	if !account.HasPassword() {
		return false, domain.ErrPasswordLoginUnavailable
	}
	if bcrypt.CompareHashAndPassword([]byte(*account.PasswordHash), []byte(currentPassword)) != nil {
		return false, domain.ErrInvalidCredentials
	}
	if err := domain.ValidateEmail(newEmail); err != nil {
		return false, err
	}
	if existing, err := s.accounts.FindByEmail(ctx, newEmail); err == nil {
		if existing.ID != accountID {
			return false, domain.ErrEmailTaken
		}
	} else if !errors.Is(err, domain.ErrAccountNotFound) {
		return false, fmt.Errorf("uniqueness check: %w", err)
	}

	if err := s.accounts.UpdateEmail(ctx, accountID, newEmail); err != nil {
		return false, fmt.Errorf("persist email: %w", err)
	}

	notified := s.notifier.Notify(ctx, newEmail, ports.NotifyEmailChanged, map[string]string{
		"old_email": account.Email,
		"new_email": newEmail,
	})
	if !notified {
		s.log.Warn().Str("account_id", accountID).Msg("email change notification not delivered")
	}

	s.recordAudit(ctx, accountID, domain.AuditEmailChanged, domain.AuditTargetAccount, accountID)
	return notified, nil
}

// UpdateUserRole assigns a new role. When the target is the actor's own
// account the active session is refreshed immediately so the change takes
// effect without waiting for the next reconcile.
func (s *accountService) UpdateUserRole(ctx context.Context, actor *domain.Session, accountID string, newRole domain.Role) error {
	if !newRole.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrUnknownRole, newRole)
	}
	if _, err := s.accounts.FindByID(ctx, accountID); err != nil {
		return err
	}
	if err := s.accounts.UpdateRole(ctx, accountID, newRole); err != nil {
		return fmt.Errorf("persist role: %w", err)
	}

	if actor != nil && actor.AccountID == accountID {
		actor.Role = newRole
		if err := s.store.Put(ctx, actor); err != nil {
			s.log.Warn().Err(err).Str("session_id", actor.ID).Msg("failed to refresh session role")
		}
	}

	actorID := accountID
	if actor != nil {
		actorID = actor.AccountID
	}
	s.recordAudit(ctx, actorID, domain.AuditRoleChanged, domain.AuditTargetAccount, accountID)
	return nil
}

// ExportUserData aggregates everything the portal stores about one member
// into a single payload. Whether the caller is the data subject is
// enforced by the caller; this is a pure read.
func (s *accountService) ExportUserData(ctx context.Context, accountID string) (*domain.UserDataExport, error) {
	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	profile, err := s.userdata.ProfileByAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("export profile: %w", err)
	}
	skills, err := s.userdata.SkillsByAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("export skills: %w", err)
	}
	registrations, err := s.userdata.EventRegistrationsByAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("export event registrations: %w", err)
	}
	subscriptions, err := s.userdata.SubscriptionsByAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("export subscriptions: %w", err)
	}

	s.recordAudit(ctx, accountID, domain.AuditDataExported, domain.AuditTargetAccount, accountID)
	return &domain.UserDataExport{
		GeneratedAt:        s.clock.Now(),
		Account:            *account,
		Profile:            profile,
		Skills:             skills,
		EventRegistrations: registrations,
		Subscriptions:      subscriptions,
	}, nil
}

// DeleteUserAccount erases an account and every dependent record in one
// transaction. confirmEmail is a proof-of-intent check; it must match the
// stored email case-insensitively. On success the active session (if it
// belongs to the deleted account) is destroyed.
func (s *accountService) DeleteUserAccount(ctx context.Context, accountID, confirmEmail string, session *domain.Session) error {
	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		return err
	}
	if !strings.EqualFold(account.Email, confirmEmail) {
		return domain.ErrConfirmationMismatch
	}

	if err := s.accounts.DeleteCascade(ctx, accountID); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}

	s.recordAudit(ctx, accountID, domain.AuditAccountDeleted, domain.AuditTargetAccount, accountID)

	if session != nil && session.AccountID == accountID {
		if err := s.sessions.Destroy(ctx, session.ID); err != nil {
			s.log.Warn().Err(err).Str("session_id", session.ID).Msg("failed to destroy session after account deletion")
		}
	}
	return nil
}

func (s *accountService) recordAudit(ctx context.Context, actorID, action, targetType, targetID string) {
	if err := s.audit.Record(ctx, actorID, action, targetType, targetID); err != nil {
		s.log.Warn().Err(err).Str("action", action).Msg("audit write failed")
	}
}
