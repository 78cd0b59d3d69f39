package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/campusverein/member-portal/internal/core/domain"
)

// UserDataRepository reads the dependent records owned by an account for
// the GDPR export.
type UserDataRepository struct {
	db *sql.DB
}

func NewUserDataRepository(db *sql.DB) *UserDataRepository {
	return &UserDataRepository{db: db}
}

func (r *UserDataRepository) ProfileByAccount(ctx context.Context, accountID string) (*domain.Profile, error) {
	query := `SELECT account_id, biography, company, position, linkedin FROM profiles WHERE account_id = $1`

	var p domain.Profile
	err := r.db.QueryRowContext(ctx, query, accountID).
		Scan(&p.AccountID, &p.Biography, &p.Company, &p.Position, &p.LinkedIn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &p, nil
}

func (r *UserDataRepository) SkillsByAccount(ctx context.Context, accountID string) ([]domain.Skill, error) {
	query := `SELECT name, level FROM skills WHERE account_id = $1 ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var skills []domain.Skill
	for rows.Next() {
		var s domain.Skill
		if err := rows.Scan(&s.Name, &s.Level); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		skills = append(skills, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return skills, nil
}

func (r *UserDataRepository) EventRegistrationsByAccount(ctx context.Context, accountID string) ([]domain.EventRegistration, error) {
	query := `SELECT event_id, event_title, registered_at FROM event_registrations WHERE account_id = $1 ORDER BY registered_at`

	rows, err := r.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var regs []domain.EventRegistration
	for rows.Next() {
		var reg domain.EventRegistration
		if err := rows.Scan(&reg.EventID, &reg.EventTitle, &reg.RegisteredAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		regs = append(regs, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return regs, nil
}

func (r *UserDataRepository) SubscriptionsByAccount(ctx context.Context, accountID string) ([]domain.Subscription, error) {
	query := `SELECT topic, subscribed_at FROM subscriptions WHERE account_id = $1 ORDER BY subscribed_at`

	rows, err := r.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var subs []domain.Subscription
	for rows.Next() {
		var s domain.Subscription
		if err := rows.Scan(&s.Topic, &s.SubscribedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		subs = append(subs, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return subs, nil
}
