// Package mail sends the transactional emails of the account lifecycle.
package mail

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"

	"shopfront/internal/config"

	"github.com/rs/zerolog"
	gomail "github.com/wneessen/go-mail"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Sender delivers account emails.
type Sender interface {
	SendConfirmation(ctx context.Context, to, userName, link string) error
	SendPasswordReset(ctx context.Context, to, userName, link string) error
	SendWelcome(ctx context.Context, to, userName string) error
}

// Message is a rendered email.
type Message struct {
	To      string
	Subject string
	HTML    string
	Link    string
}

// transport delivers a rendered message.
type transport interface {
	deliver(ctx context.Context, msg Message) error
}

type mailer struct {
	transport transport
}

// NewSender returns an SMTP sender, or a sender that only logs when no SMTP
// host is configured.
func NewSender(cfg config.SMTPConfig, logger zerolog.Logger) Sender {
	logger = logger.With().Str("component", "mail").Logger()
	if cfg.Host == "" {
		logger.Warn().Msg("SMTP host not configured, emails will be logged")
		return &mailer{transport: &logTransport{logger: logger}}
	}
	return &mailer{transport: &smtpTransport{cfg: cfg, logger: logger}}
}

func (m *mailer) SendConfirmation(ctx context.Context, to, userName, link string) error {
	return m.send(ctx, to, "Confirm your email address", "confirm.html", userName, link)
}

func (m *mailer) SendPasswordReset(ctx context.Context, to, userName, link string) error {
	return m.send(ctx, to, "Reset your password", "reset.html", userName, link)
}

func (m *mailer) SendWelcome(ctx context.Context, to, userName string) error {
	return m.send(ctx, to, "Welcome!", "welcome.html", userName, "")
}

func (m *mailer) send(ctx context.Context, to, subject, tmpl, userName, link string) error {
	var body bytes.Buffer
	data := struct{ UserName, Link string }{UserName: userName, Link: link}
	if err := templates.ExecuteTemplate(&body, tmpl, data); err != nil {
		return fmt.Errorf("failed to render %s: %w", tmpl, err)
	}

	return m.transport.deliver(ctx, Message{
		To:      to,
		Subject: subject,
		HTML:    body.String(),
		Link:    link,
	})
}

type smtpTransport struct {
	cfg    config.SMTPConfig
	logger zerolog.Logger
}

func (t *smtpTransport) deliver(ctx context.Context, msg Message) error {
	m := gomail.NewMsg()
	if err := m.FromFormat(t.cfg.SenderName, t.cfg.SenderEmail); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(gomail.TypeTextHTML, msg.HTML)

	opts := []gomail.Option{
		gomail.WithPort(t.cfg.Port),
		gomail.WithTimeout(t.cfg.Timeout),
	}
	if t.cfg.EnableSSL {
		opts = append(opts, gomail.WithTLSPolicy(gomail.TLSMandatory))
	} else {
		opts = append(opts, gomail.WithTLSPolicy(gomail.NoTLS))
	}
	if t.cfg.UserName != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(t.cfg.UserName),
			gomail.WithPassword(t.cfg.Password),
		)
	}

	client, err := gomail.NewClient(t.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		t.logger.Error().Err(err).Str("to", msg.To).Str("subject", msg.Subject).Msg("failed to send email")
		return fmt.Errorf("failed to send email: %w", err)
	}

	t.logger.Info().Str("to", msg.To).Str("subject", msg.Subject).Msg("email sent")
	return nil
}

type logTransport struct {
	logger zerolog.Logger
}

func (t *logTransport) deliver(_ context.Context, msg Message) error {
	t.logger.Info().
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Str("link", msg.Link).
		Msg("email not sent, SMTP disabled")
	return nil
}
