// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package newsletter

import (
	"context"
	"errors"
	"fmt"

	"github.com/wneessen/go-mail"

	"github.com/pdiddy/arxiv-digest/pkg/types"
)

// ErrInvalidConfig marks delivery errors that retrying cannot fix.
var ErrInvalidConfig = errors.New("invalid mail config")

// Sender delivers a digest to a list of recipients.
type Sender interface {
	Send(ctx context.Context, records []types.FilteredRecord, recipients []string) error
}

// Credentials authenticate against the SMTP submission server. They are
// resolved by the caller (from the secrets directory) and passed in.
type Credentials struct {
	Username string
	Password string
}

// Mailer sends the newsletter over SMTP with STARTTLS and PLAIN auth.
type Mailer struct {
	cfg   types.MailConfig
	creds Credentials
}

var _ Sender = (*Mailer)(nil)

// NewMailer returns a Mailer for cfg. Zero-valued settings fall back to
// the defaults in types.DefaultPipelineConfig.
func NewMailer(cfg types.MailConfig, creds Credentials) *Mailer {
	def := types.DefaultPipelineConfig().Mail
	if cfg.Host == "" {
		cfg.Host = def.Host
	}
	if cfg.Port == 0 {
		cfg.Port = def.Port
	}
	if cfg.From == "" {
		cfg.From = def.From
	}
	if cfg.Subject == "" {
		cfg.Subject = def.Subject
	}
	return &Mailer{cfg: cfg, creds: creds}
}

// Validate checks credentials and recipients without contacting the server.
func (m *Mailer) Validate(recipients []string) error {
	if m.creds.Username == "" || m.creds.Password == "" {
		return fmt.Errorf("%w: missing SMTP credentials: provide smtp-user and smtp-pass secrets", ErrInvalidConfig)
	}
	return checkRecipients(recipients)
}

func checkRecipients(recipients []string) error {
	if len(recipients) == 0 {
		return fmt.Errorf("%w: no newsletter recipients configured", ErrInvalidConfig)
	}
	return nil
}

// Message builds the newsletter message without sending it.
func (m *Mailer) Message(records []types.FilteredRecord, recipients []string) (*mail.Msg, error) {
	if err := checkRecipients(recipients); err != nil {
		return nil, err
	}

	body, err := Render(records)
	if err != nil {
		return nil, err
	}

	msg := mail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return nil, fmt.Errorf("%w: setting sender %q: %v", ErrInvalidConfig, m.cfg.From, err)
	}
	if err := msg.To(recipients...); err != nil {
		return nil, fmt.Errorf("%w: setting recipients: %v", ErrInvalidConfig, err)
	}
	msg.Subject(m.cfg.Subject)
	msg.SetBodyString(mail.TypeTextHTML, body)
	return msg, nil
}

// Send renders records and submits one message addressed to all recipients.
func (m *Mailer) Send(ctx context.Context, records []types.FilteredRecord, recipients []string) error {
	if err := m.Validate(recipients); err != nil {
		return err
	}

	msg, err := m.Message(records, recipients)
	if err != nil {
		return err
	}

	opts := []mail.Option{
		mail.WithPort(m.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.creds.Username),
		mail.WithPassword(m.creds.Password),
		mail.WithTLSPolicy(mail.TLSMandatory),
	}
	if m.cfg.Timeout > 0 {
		opts = append(opts, mail.WithTimeout(m.cfg.Timeout))
	}

	client, err := mail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("%w: creating SMTP client: %v", ErrInvalidConfig, err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("sending newsletter via %s:%d: %w", m.cfg.Host, m.cfg.Port, err)
	}
	return nil
}
