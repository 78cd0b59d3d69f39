package ports

import (
	"context"

	"github.com/campusverein/member-portal/internal/core/domain"
)

// AccountRepository is the credential store: the durable record of member
// accounts. All queries are parameterized; implementations must never build
// SQL from string concatenation.
type AccountRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	FindByID(ctx context.Context, id string) (*domain.Account, error)
	Insert(ctx context.Context, account *domain.Account) (*domain.Account, error)
	UpdatePasswordHash(ctx context.Context, id string, hash string) error
	UpdateEmail(ctx context.Context, id string, email string) error
	UpdateRole(ctx context.Context, id string, role domain.Role) error
	// DeleteCascade removes the account row and every dependent record
	// (profile, skills, event registrations, subscriptions) inside a single
	// transaction. Any failure rolls back the whole deletion.
	DeleteCascade(ctx context.Context, id string) error
}
