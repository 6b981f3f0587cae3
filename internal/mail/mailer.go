// Package mail sends transactional email over SMTP.
package mail

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/pizza-service/internal/config"
)

// Message is a plain-text email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Mailer delivers messages.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPMailer authenticates with PLAIN auth; net/smtp upgrades to STARTTLS
// whenever the server offers it.
type SMTPMailer struct {
	cfg    config.MailConfig
	logger *zap.Logger
	send   sendFunc
}

// NewSMTPMailer builds a mailer. With incomplete SMTP settings every Send is
// logged and skipped.
func NewSMTPMailer(cfg config.MailConfig, logger *zap.Logger) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, logger: logger, send: smtp.SendMail}
}

// Send delivers msg, honoring ctx cancellation before the dial.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if !m.cfg.Configured() {
		m.logger.Info("smtp not configured, skipping email",
			zap.String("to", msg.To),
			zap.String("subject", msg.Subject))
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	from := m.cfg.Sender()
	addr := net.JoinHostPort(m.cfg.SMTPHost, m.cfg.SMTPPort)
	auth := smtp.PlainAuth("", m.cfg.SMTPUser, m.cfg.SMTPPass, m.cfg.SMTPHost)

	if err := m.send(addr, auth, from, []string{msg.To}, compose(from, msg)); err != nil {
		m.logger.Error("send email", zap.String("to", msg.To), zap.Error(err))
		return fmt.Errorf("mail.Send: %w", err)
	}
	m.logger.Info("email sent", zap.String("to", msg.To), zap.String("subject", msg.Subject))
	return nil
}

func compose(from string, msg Message) []byte {
	return []byte(strings.Join([]string{
		"From: " + from,
		"To: " + msg.To,
		"Subject: " + msg.Subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		msg.Body,
	}, "\r\n"))
}
