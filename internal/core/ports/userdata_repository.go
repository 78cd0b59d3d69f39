package ports

import (
	"context"

	"github.com/campusverein/member-portal/internal/core/domain"
)

// UserDataRepository reads the dependent records owned by an account. It
// backs the GDPR export; deletion of the same records happens through
// AccountRepository.DeleteCascade so it stays transactional.
type UserDataRepository interface {
	// ProfileByAccount returns (nil, nil) when the account has no profile.
	ProfileByAccount(ctx context.Context, accountID string) (*domain.Profile, error)
	SkillsByAccount(ctx context.Context, accountID string) ([]domain.Skill, error)
	EventRegistrationsByAccount(ctx context.Context, accountID string) ([]domain.EventRegistration, error)
	SubscriptionsByAccount(ctx context.Context, accountID string) ([]domain.Subscription, error)
}
