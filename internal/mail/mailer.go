// Package mail sends transactional email, currently only the password-reset
// message. Delivery mechanics live behind the Mailer interface so handlers
// and tests never talk SMTP.
package mail

import (
	"context"
	"fmt"
	"time"

	"github.com/Sudip2708/poustovnik-english/internal/config"
	"github.com/Sudip2708/poustovnik-english/internal/i18n"

	gomail "github.com/wneessen/go-mail"
)

// Mailer delivers a single plain-text message. A failed send must surface as
// an error, never a panic; callers translate it into a "try again" outcome.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SMTPMailer delivers mail over SMTP with a bounded dial/send timeout.
type SMTPMailer struct {
	client *gomail.Client
	sender string
}

// NewSMTPMailer builds a mailer from the application configuration.
func NewSMTPMailer(cfg *config.Config) (*SMTPMailer, error) {
	opts := []gomail.Option{
		gomail.WithPort(cfg.MailPort),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(10 * time.Second),
	}
	if cfg.MailUsername != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.MailUsername),
			gomail.WithPassword(cfg.MailPassword),
		)
	}

	client, err := gomail.NewClient(cfg.MailHost, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create mail client: %w", err)
	}

	return &SMTPMailer{client: client, sender: cfg.MailSender}, nil
}

// Send delivers one plain-text message.
func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	msg := gomail.NewMsg()
	if err := msg.From(m.sender); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, body)

	return m.client.DialAndSendWithContext(ctx, msg)
}

// BuildResetEmail renders the localized password-reset message around the
// absolute recovery link. The token travels only inside the link.
func BuildResetEmail(locale, resetLink string) (subject, body string) {
	subject = i18n.T(locale, "reset_email_subject")
	body = i18n.T(locale, "reset_email_intro") +
		"\n" + resetLink +
		"\n\n" + i18n.T(locale, "reset_email_outro")
	return subject, body
}

// ResetLink builds the absolute recovery URL embedding the token as a path
// segment.
func ResetLink(baseURL, token string) string {
	return fmt.Sprintf("%s/reset_password/%s", baseURL, token)
}
