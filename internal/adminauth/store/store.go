package store

import (
	"context"
	"errors"

	"github.com/bastionlabs/adminauth/internal/adminauth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite for now)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable, and to stop callers from accidentally nesting transactions.
type Store interface {
	Accounts() Accounts
	Fingerprints() Fingerprints
	Audit() Audit
	Filings() Filings

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Accounts interface {
	// GetAccountByID returns an account by id.
	GetAccountByID(ctx context.Context, id string) (domain.Account, error)

	// GetAccountByNameHash is the login lookup. The name hash is the sha256
	// of the lowercased email, so raw addresses stay out of query logs.
	GetAccountByNameHash(ctx context.Context, nameHash string) (domain.Account, error)

	// GetAccountByEmail fetches by the raw address (admin tooling only).
	GetAccountByEmail(ctx context.Context, email string) (domain.Account, error)

	// CreateAccount inserts a new account (id is provided by app via ULID).
	CreateAccount(ctx context.Context, a domain.Account) error

	// SetLocked flips the account lock flag and bumps updated_at.
	SetLocked(ctx context.Context, accountID string, locked bool) error

	// UpdatePasswordHash sets the password_hash (bcrypt) and bumps updated_at.
	UpdatePasswordHash(ctx context.Context, accountID string, newHash string) error

	// SetTwoFactorEnabled toggles the email second factor for an account.
	SetTwoFactorEnabled(ctx context.Context, accountID string, enabled bool) error

	// IsEmpty returns true if there are no accounts.
	IsEmpty(ctx context.Context) (bool, error)
}

type Fingerprints interface {
	// CreateFingerprint appends a machine identity to the trusted history.
	CreateFingerprint(ctx context.Context, fp domain.TrustedFingerprint) error

	// ListFingerprints returns the full trusted history, oldest first.
	ListFingerprints(ctx context.Context) ([]domain.TrustedFingerprint, error)
}

type Audit interface {
	// RecordEvent appends one event to the audit trail.
	RecordEvent(ctx context.Context, e domain.AuditEvent) error

	// ListEventsByNameHash returns the trail for one identity, newest first.
	ListEventsByNameHash(ctx context.Context, nameHash string, limit int) ([]domain.AuditEvent, error)
}

type Filings interface {
	// UpsertFiling replaces the filing for a fund+quarter pair.
	UpsertFiling(ctx context.Context, f domain.Filing) error

	// GetFiling fetches one filing by fund and quarter.
	GetFiling(ctx context.Context, fundName, quarter string) (domain.Filing, error)

	// CountFilings returns the number of stored filings.
	CountFilings(ctx context.Context) (int, error)
}
