// Package mailx wraps the SMTP relay used for security notifications,
// token links, and second-factor codes. Delivery is best-effort: callers
// in the authentication path log failures and carry on, because a mail
// outage must never block a lock or reject decision.
package mailx

import (
	"context"
	"fmt"
	"time"

	"github.com/wneessen/go-mail"
)

// DefaultTimeout bounds a single delivery attempt.
const DefaultTimeout = 10 * time.Second

// Sender is the mail capability consumed by the services. Implemented by
// SMTPMailer in production and by spies in tests.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Config carries SMTP relay settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	Timeout  time.Duration
}

// SMTPMailer delivers HTML mail over SMTPS.
type SMTPMailer struct {
	cfg Config
}

// New returns an SMTPMailer for the given relay.
func New(cfg Config) *SMTPMailer {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &SMTPMailer{cfg: cfg}
}

// Send delivers one HTML message. The attempt is bounded by the configured
// timeout regardless of the caller's context.
func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	ctx, cancel := context.WithTimeout(ctx, m.cfg.Timeout)
	defer cancel()

	msg := mail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return fmt.Errorf("mailx: invalid from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("mailx: invalid recipient: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, body)

	client, err := mail.NewClient(m.cfg.Host,
		mail.WithPort(m.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.cfg.Username),
		mail.WithPassword(m.cfg.Password),
		mail.WithSSL(),
		mail.WithTimeout(m.cfg.Timeout),
	)
	if err != nil {
		return fmt.Errorf("mailx: client setup: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("mailx: send to %s: %w", to, err)
	}
	return nil
}
