package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bastionlabs/adminauth/internal/adminauth/domain"
	"github.com/bastionlabs/adminauth/internal/adminauth/rate"
	"github.com/bastionlabs/adminauth/internal/adminauth/store"
	"github.com/bastionlabs/adminauth/pkg/cryptox"
	"github.com/bastionlabs/adminauth/pkg/mailx"
	"github.com/bastionlabs/adminauth/pkg/tokenx"
)

// RatePurposeReset keys the password reset attempt counter.
const RatePurposeReset = "reset"

const (
	// ResetConfirmMaxAge is the window for following the emailed link.
	ResetConfirmMaxAge = 10 * time.Minute
	// ResetSubmitMaxAge is the tighter window for submitting the new
	// password once the form is open.
	ResetSubmitMaxAge = 5 * time.Minute
)

// ResetService runs the password reset flow: request a link, confirm the
// token, submit the new password.
type ResetService struct {
	Store   store.Store
	Limiter *rate.Limiter
	Codec   *tokenx.Codec
	Mailer  mailx.Sender
	Audit   *AuditService
	Logger  *slog.Logger
	BaseURL string
}

func NewResetService(st store.Store, limiter *rate.Limiter, codec *tokenx.Codec, mailer mailx.Sender, audit *AuditService, logger *slog.Logger, baseURL string) *ResetService {
	return &ResetService{
		Store:   st,
		Limiter: limiter,
		Codec:   codec,
		Mailer:  mailer,
		Audit:   audit,
		Logger:  logger,
		BaseURL: baseURL,
	}
}

// Request mails a reset link. The response is identical whether or not the
// address belongs to an account, so the endpoint cannot be used to probe.
func (s *ResetService) Request(ctx context.Context, email string) error {
	if err := domain.ValidateEmail(email); err != nil {
		return err
	}

	identity := cryptox.IdentityHash(email)
	if err := s.Limiter.Allow(ctx, RatePurposeReset, identity); err != nil {
		return err
	}

	if _, err := s.Store.Accounts().GetAccountByNameHash(ctx, identity); err != nil {
		// Same outward behavior as the known-address path
		return nil
	}

	token := s.Codec.Issue(email)
	err := s.Mailer.Send(ctx, email,
		"Admin Password Reset",
		fmt.Sprintf("<p>Follow <a href=%q>this link</a> to reset your admin password. The link expires in 10 minutes.</p>",
			s.BaseURL+"/v1/reset/"+token))
	if err != nil {
		s.Logger.Error("reset link delivery failed", "error", err)
		return fmt.Errorf("send reset link: %w", err)
	}
	return nil
}

// Confirm validates the emailed token when the reset form opens. Returns the
// address the token was issued for.
func (s *ResetService) Confirm(ctx context.Context, token string) (string, error) {
	return s.Codec.Verify(token, ResetConfirmMaxAge)
}

// Reset verifies the token under the tighter submit window and stores the
// new password.
func (s *ResetService) Reset(ctx context.Context, token, newPassword string) error {
	email, err := s.Codec.Verify(token, ResetSubmitMaxAge)
	if err != nil {
		return err
	}

	identity := cryptox.IdentityHash(email)

	if err := domain.ValidateNewPassword(newPassword); err != nil {
		s.Audit.Record(ctx, identity, domain.AuditPasswordResetFailed, err.Error())
		return err
	}

	account, err := s.Store.Accounts().GetAccountByNameHash(ctx, identity)
	if err != nil {
		s.Audit.Record(ctx, identity, domain.AuditPasswordResetFailed, "unknown account")
		return tokenx.ErrInvalidToken
	}

	hash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return err
	}

	if err := s.Store.Accounts().UpdatePasswordHash(ctx, account.ID, hash); err != nil {
		s.Audit.Record(ctx, identity, domain.AuditPasswordResetFailed, "store update failed")
		return err
	}

	if err := s.Limiter.Clear(ctx, RatePurposeReset, identity); err != nil {
		s.Logger.Warn("rate counter clear failed", "error", err)
	}
	s.Audit.Record(ctx, identity, domain.AuditPasswordResetOK, "")
	return nil
}
