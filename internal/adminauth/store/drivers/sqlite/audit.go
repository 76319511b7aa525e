package sqlite

import (
	"context"
	"time"

	"github.com/bastionlabs/adminauth/internal/adminauth/domain"
)

type auditRepo struct {
	db dbtx
}

func (r *auditRepo) RecordEvent(ctx context.Context, e domain.AuditEvent) error {
	createdAt := e.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO audit_log (id, name_hash, action, detail, created_at) VALUES (?, ?, ?, ?, ?)`,
		e.ID, e.NameHash, e.Action, e.Detail, createdAt)
	return mapConstraint(err)
}

func (r *auditRepo) ListEventsByNameHash(ctx context.Context, nameHash string, limit int) ([]domain.AuditEvent, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name_hash, action, detail, created_at
		 FROM audit_log WHERE name_hash = ?
		 ORDER BY created_at DESC LIMIT ?`,
		nameHash, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.AuditEvent
	for rows.Next() {
		var e domain.AuditEvent
		if err := rows.Scan(&e.ID, &e.NameHash, &e.Action, &e.Detail, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
