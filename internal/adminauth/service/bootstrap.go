package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bastionlabs/adminauth/internal/adminauth/domain"
	"github.com/bastionlabs/adminauth/internal/adminauth/store"
	"github.com/bastionlabs/adminauth/pkg/cryptox"
	"github.com/bastionlabs/adminauth/pkg/idx"
)

// BootstrapService seeds the first admin account and its trusted machine
// fingerprint on an empty database. A no-op once any account exists.
type BootstrapService struct {
	Store     store.Store
	Collector FingerprintCollector
	Logger    *slog.Logger
}

func NewBootstrapService(st store.Store, collector FingerprintCollector, logger *slog.Logger) *BootstrapService {
	return &BootstrapService{Store: st, Collector: collector, Logger: logger}
}

// Bootstrap creates the initial admin if the accounts table is empty. The
// machine running the bootstrap becomes the first trusted fingerprint.
func (s *BootstrapService) Bootstrap(ctx context.Context, data domain.BootstrapData) error {
	empty, err := s.Store.Accounts().IsEmpty(ctx)
	if err != nil {
		return fmt.Errorf("bootstrap check: %w", err)
	}
	if !empty {
		s.Logger.Debug("bootstrap skipped, accounts exist")
		return nil
	}

	if err := domain.ValidateAccountFields(data.Name, data.Email, data.Password, data.SecondaryPassword); err != nil {
		return fmt.Errorf("bootstrap validation: %w", err)
	}

	passwordHash, err := cryptox.HashPassword(data.Password)
	if err != nil {
		return err
	}
	secondaryHash, err := cryptox.HashPassword(data.SecondaryPassword)
	if err != nil {
		return err
	}

	current := s.Collector.Collect(ctx)

	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		err := tx.Accounts().CreateAccount(ctx, domain.Account{
			ID:                    idx.New().String(),
			Email:                 data.Email,
			NameHash:              cryptox.IdentityHash(data.Email),
			PasswordHash:          passwordHash,
			SecondaryPasswordHash: secondaryHash,
			TwoFactorEnabled:      data.TwoFactorEnabled,
		})
		if err != nil {
			return err
		}

		if err := tx.Fingerprints().CreateFingerprint(ctx, domain.TrustedFingerprint{
			ID:          idx.New().String(),
			Fingerprint: current,
		}); err != nil {
			return err
		}

		s.Logger.Info("bootstrap admin created", "email", data.Email)
		return nil
	})
}
