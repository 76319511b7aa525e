package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bastionlabs/adminauth/internal/adminauth/domain"
	"github.com/bastionlabs/adminauth/pkg/sysinfo"
)

type fingerprintsRepo struct {
	db dbtx
}

func (r *fingerprintsRepo) CreateFingerprint(ctx context.Context, fp domain.TrustedFingerprint) error {
	payload, err := json.Marshal(fp.Fingerprint)
	if err != nil {
		return fmt.Errorf("encode fingerprint: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO trusted_fingerprints (id, fingerprint, created_at) VALUES (?, ?, ?)`,
		fp.ID, string(payload), time.Now().UTC())
	return mapConstraint(err)
}

func (r *fingerprintsRepo) ListFingerprints(ctx context.Context) ([]domain.TrustedFingerprint, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, fingerprint, created_at FROM trusted_fingerprints ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.TrustedFingerprint
	for rows.Next() {
		var (
			fp      domain.TrustedFingerprint
			payload string
		)
		if err := rows.Scan(&fp.ID, &payload, &fp.CreatedAt); err != nil {
			return nil, err
		}

		var decoded sysinfo.Fingerprint
		if err := json.Unmarshal([]byte(payload), &decoded); err != nil {
			return nil, fmt.Errorf("decode fingerprint %s: %w", fp.ID, err)
		}
		fp.Fingerprint = decoded

		out = append(out, fp)
	}
	return out, rows.Err()
}
