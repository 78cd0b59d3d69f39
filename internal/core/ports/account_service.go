package ports

import (
	"context"

	"github.com/campusverein/member-portal/internal/core/domain"
)

// AccountService covers privileged account creation, self-service
// credential rotation and the GDPR lifecycle operations.
type AccountService interface {
	CreateAccount(ctx context.Context, actor *domain.Session, email, givenName, familyName, password string) (string, error)
	UpdatePassword(ctx context.Context, accountID, currentPassword, newPassword string) error
	// UpdateEmail returns whether the best-effort change notification was
	// delivered; a failed notification never rolls back the change.
	UpdateEmail(ctx context.Context, accountID, newEmail, currentPassword string) (notified bool, err error)
	UpdateUserRole(ctx context.Context, actor *domain.Session, accountID string, newRole domain.Role) error
	ExportUserData(ctx context.Context, accountID string) (*domain.UserDataExport, error)
	DeleteUserAccount(ctx context.Context, accountID, confirmEmail string, session *domain.Session) error
}
