package ports

import "context"

// AuditSink appends one security-relevant action to the audit trail.
// The trail is append-only; the core never reads it back.
type AuditSink interface {
	Record(ctx context.Context, actorID, action, targetType, targetID string) error
}
