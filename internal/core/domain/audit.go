package domain

import "time"

// Audit action names written to the append-only audit trail.
const (
	AuditLoginPassword   = "login_password"
	AuditLoginSSO        = "login_sso"
	AuditLoginFailed     = "login_failed"
	AuditAccountCreated  = "account_created"
	AuditSSOProvisioned  = "sso_account_provisioned"
	AuditPasswordChanged = "password_changed"
	AuditEmailChanged    = "email_changed"
	AuditRoleChanged     = "role_changed"
	AuditDataExported    = "data_exported"
	AuditAccountDeleted  = "account_deleted"
)

// Audit target types.
const (
	AuditTargetAccount = "account"
	AuditTargetSession = "session"
)

// AuditEntry is one append-only record of a security-relevant action.
// Entries are written by the core and never read back or mutated by it.
type AuditEntry struct {
	ActorID    string    `json:"actor_id"`
	Action     string    `json:"action"`
	TargetType string    `json:"target_type"`
	TargetID   string    `json:"target_id"`
	Timestamp  time.Time `json:"timestamp"`
}
