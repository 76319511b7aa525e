package service

import (
	"context"
	"log/slog"

	"github.com/bastionlabs/adminauth/internal/adminauth/domain"
	"github.com/bastionlabs/adminauth/internal/adminauth/store"
	"github.com/bastionlabs/adminauth/pkg/idx"
)

// AuditService appends events to the security trail. Recording is best-effort
// from the caller's point of view: a failed write is logged and swallowed so
// an audit outage never blocks an authentication decision.
type AuditService struct {
	Store  store.Store
	Logger *slog.Logger
}

func NewAuditService(st store.Store, logger *slog.Logger) *AuditService {
	return &AuditService{Store: st, Logger: logger}
}

// Record appends one event keyed by the identity hash.
func (s *AuditService) Record(ctx context.Context, nameHash, action, detail string) {
	err := s.Store.Audit().RecordEvent(ctx, domain.AuditEvent{
		ID:       idx.New().String(),
		NameHash: nameHash,
		Action:   action,
		Detail:   detail,
	})
	if err != nil {
		s.Logger.Error("audit record failed",
			"action", action,
			"error", err,
		)
	}
}

// Trail returns the most recent events for an identity.
func (s *AuditService) Trail(ctx context.Context, nameHash string, limit int) ([]domain.AuditEvent, error) {
	return s.Store.Audit().ListEventsByNameHash(ctx, nameHash, limit)
}
