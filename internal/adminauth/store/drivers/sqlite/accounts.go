package sqlite

import (
	"context"
	"time"

	"github.com/bastionlabs/adminauth/internal/adminauth/domain"
)

type accountsRepo struct {
	db dbtx
}

const accountColumns = `id, email, name_hash, password_hash, secondary_password_hash,
	account_locked, two_factor_enabled, created_at, updated_at`

func (r *accountsRepo) scanAccount(row interface{ Scan(...any) error }) (domain.Account, error) {
	var a domain.Account
	err := row.Scan(
		&a.ID,
		&a.Email,
		&a.NameHash,
		&a.PasswordHash,
		&a.SecondaryPasswordHash,
		&a.AccountLocked,
		&a.TwoFactorEnabled,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return domain.Account{}, mapNotFound(err)
	}
	return a, nil
}

func (r *accountsRepo) GetAccountByID(ctx context.Context, id string) (domain.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = ?`, id)
	return r.scanAccount(row)
}

func (r *accountsRepo) GetAccountByNameHash(ctx context.Context, nameHash string) (domain.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE name_hash = ?`, nameHash)
	return r.scanAccount(row)
}

func (r *accountsRepo) GetAccountByEmail(ctx context.Context, email string) (domain.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE email = ?`, email)
	return r.scanAccount(row)
}

func (r *accountsRepo) CreateAccount(ctx context.Context, a domain.Account) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO accounts (id, email, name_hash, password_hash, secondary_password_hash,
			account_locked, two_factor_enabled, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Email, a.NameHash, a.PasswordHash, a.SecondaryPasswordHash,
		a.AccountLocked, a.TwoFactorEnabled, now, now)
	return mapConstraint(err)
}

func (r *accountsRepo) SetLocked(ctx context.Context, accountID string, locked bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE accounts SET account_locked = ?, updated_at = ? WHERE id = ?`,
		locked, time.Now().UTC(), accountID)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *accountsRepo) UpdatePasswordHash(ctx context.Context, accountID string, newHash string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE accounts SET password_hash = ?, updated_at = ? WHERE id = ?`,
		newHash, time.Now().UTC(), accountID)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *accountsRepo) SetTwoFactorEnabled(ctx context.Context, accountID string, enabled bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE accounts SET two_factor_enabled = ?, updated_at = ? WHERE id = ?`,
		enabled, time.Now().UTC(), accountID)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *accountsRepo) IsEmpty(ctx context.Context) (bool, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM accounts`).Scan(&count); err != nil {
		return false, err
	}
	return count == 0, nil
}
