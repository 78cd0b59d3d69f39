package ports

import "context"

// Notification template kinds.
const (
	NotifyEmailChanged = "email_changed"
)

// Notifier delivers a best-effort out-of-band notification (rendering and
// transport are external collaborators). A false return means delivery did
// not happen; callers report that but never roll back because of it.
type Notifier interface {
	Notify(ctx context.Context, address, templateKind string, payload map[string]string) bool
}
