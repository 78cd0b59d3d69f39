package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/campusverein/member-portal/internal/core/domain"
)

// AccountRepository is the PostgreSQL credential store. Every statement is
// parameterized; nothing here builds SQL from input.
type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

const accountColumns = `id, email, password_hash, role, given_name, family_name, created_at, updated_at`

func scanAccount(row *sql.Row) (*domain.Account, error) {
	var a domain.Account
	err := row.Scan(&a.ID, &a.Email, &a.PasswordHash, &a.Role, &a.GivenName, &a.FamilyName, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &a, nil
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE lower(email) = lower($1)`
	return scanAccount(r.db.QueryRowContext(ctx, query, email))
}

func (r *AccountRepository) FindByID(ctx context.Context, id string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return scanAccount(r.db.QueryRowContext(ctx, query, id))
}

func (r *AccountRepository) Insert(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	query := `INSERT INTO accounts (id, email, password_hash, role, given_name, family_name, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(ctx, query,
		account.ID, account.Email, account.PasswordHash, account.Role,
		account.GivenName, account.FamilyName, account.CreatedAt, account.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return account, nil
}

func (r *AccountRepository) UpdatePasswordHash(ctx context.Context, id string, hash string) error {
	return r.updateField(ctx, `UPDATE accounts SET password_hash = $2, updated_at = now() WHERE id = $1`, id, hash)
}

func (r *AccountRepository) UpdateEmail(ctx context.Context, id string, email string) error {
	err := r.updateField(ctx, `UPDATE accounts SET email = $2, updated_at = now() WHERE id = $1`, id, email)
	if err != nil && isUniqueViolation(err) {
		return domain.ErrEmailTaken
	}
	return err
}

func (r *AccountRepository) UpdateRole(ctx context.Context, id string, role domain.Role) error {
	return r.updateField(ctx, `UPDATE accounts SET role = $2, updated_at = now() WHERE id = $1`, id, string(role))
}

func (r *AccountRepository) updateField(ctx context.Context, query, id string, value any) error {
	res, err := r.db.ExecContext(ctx, query, id, value)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

// DeleteCascade removes the account and all dependent rows inside one
// transaction. Any failure rolls back the whole deletion, leaving zero
// partial state.
func (r *AccountRepository) DeleteCascade(ctx context.Context, id string) error {
	return withTx(ctx, r.db, func(ctx context.Context, tx DBTX) error {
		dependents := []string{
			`DELETE FROM skills WHERE account_id = $1`,
			`DELETE FROM event_registrations WHERE account_id = $1`,
			`DELETE FROM subscriptions WHERE account_id = $1`,
			`DELETE FROM profiles WHERE account_id = $1`,
		}
		for _, query := range dependents {
			if _, err := tx.ExecContext(ctx, query, id); err != nil {
				return fmt.Errorf("db error: %w", err)
			}
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		if n == 0 {
			return domain.ErrAccountNotFound
		}
		return nil
	})
}

// isUniqueViolation matches the PostgreSQL unique_violation SQLSTATE
// without binding to a driver-specific error type.
func isUniqueViolation(err error) bool {
	type sqlState interface{ SQLState() string }
	var se sqlState
	return errors.As(err, &se) && se.SQLState() == "23505"
}
