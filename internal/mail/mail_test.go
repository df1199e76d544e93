package mail

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"shopfront/internal/config"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingTransport struct {
	sent []Message
	err  error
}

func (r *recordingTransport) deliver(_ context.Context, msg Message) error {
	r.sent = append(r.sent, msg)
	return r.err
}

func TestMailer_RendersTemplates(t *testing.T) {
	tests := []struct {
		name        string
		send        func(m *mailer) error
		wantSubject string
		wantBody    []string
	}{
		{
			name: "confirmation",
			send: func(m *mailer) error {
				return m.SendConfirmation(context.Background(), "ada@example.com", "Ada", "http://shop/confirm?token=abc&userId=1")
			},
			wantSubject: "Confirm your email address",
			wantBody:    []string{"Welcome, Ada!", "http://shop/confirm?token=abc&amp;userId=1"},
		},
		{
			name: "password reset",
			send: func(m *mailer) error {
				return m.SendPasswordReset(context.Background(), "ada@example.com", "Ada", "http://shop/reset")
			},
			wantSubject: "Reset your password",
			wantBody:    []string{"Hello Ada", "http://shop/reset"},
		},
		{
			name: "welcome",
			send: func(m *mailer) error {
				return m.SendWelcome(context.Background(), "ada@example.com", "<Ada>")
			},
			wantSubject: "Welcome!",
			wantBody:    []string{"&lt;Ada&gt;"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recordingTransport{}
			m := &mailer{transport: rec}

			require.NoError(t, tt.send(m))
			require.Len(t, rec.sent, 1)
			assert.Equal(t, "ada@example.com", rec.sent[0].To)
			assert.Equal(t, tt.wantSubject, rec.sent[0].Subject)
			for _, fragment := range tt.wantBody {
				assert.Contains(t, rec.sent[0].HTML, fragment)
			}
		})
	}
}

func TestMailer_PropagatesTransportError(t *testing.T) {
	rec := &recordingTransport{err: errors.New("connection refused")}
	m := &mailer{transport: rec}

	err := m.SendWelcome(context.Background(), "ada@example.com", "Ada")
	assert.EqualError(t, err, "connection refused")
}

func TestNewSender_LogsWithoutSMTPHost(t *testing.T) {
	var buf bytes.Buffer
	sender := NewSender(config.SMTPConfig{}, zerolog.New(&buf))

	err := sender.SendConfirmation(context.Background(), "ada@example.com", "Ada", "http://shop/confirm")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "http://shop/confirm")
	assert.Contains(t, buf.String(), "SMTP disabled")
}

func TestNewSender_SMTP(t *testing.T) {
	sender := NewSender(config.SMTPConfig{Host: "smtp.example.com", Port: 587}, zerolog.Nop())
	m, ok := sender.(*mailer)
	require.True(t, ok)
	_, isSMTP := m.transport.(*smtpTransport)
	assert.True(t, isSMTP)
}
