package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bastionlabs/adminauth/internal/adminauth/domain"
)

type filingsRepo struct {
	db dbtx
}

func (r *filingsRepo) UpsertFiling(ctx context.Context, f domain.Filing) error {
	holdings, err := json.Marshal(f.Holdings)
	if err != nil {
		return fmt.Errorf("encode holdings: %w", err)
	}

	refreshedAt := f.RefreshedAt
	if refreshedAt.IsZero() {
		refreshedAt = time.Now().UTC()
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO filings (id, fund_name, quarter, holdings, refreshed_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (fund_name, quarter) DO UPDATE SET
			holdings = excluded.holdings,
			refreshed_at = excluded.refreshed_at`,
		f.ID, f.FundName, f.Quarter, string(holdings), refreshedAt)
	return err
}

func (r *filingsRepo) GetFiling(ctx context.Context, fundName, quarter string) (domain.Filing, error) {
	var (
		f        domain.Filing
		holdings string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, fund_name, quarter, holdings, refreshed_at
		 FROM filings WHERE fund_name = ? AND quarter = ?`,
		fundName, quarter).
		Scan(&f.ID, &f.FundName, &f.Quarter, &holdings, &f.RefreshedAt)
	if err != nil {
		return domain.Filing{}, mapNotFound(err)
	}

	if err := json.Unmarshal([]byte(holdings), &f.Holdings); err != nil {
		return domain.Filing{}, fmt.Errorf("decode holdings: %w", err)
	}
	return f, nil
}

func (r *filingsRepo) CountFilings(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM filings`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
