package mailer

import (
	"fmt"
	"time"

	"ganak-service/src/config"
	"ganak-service/src/logger"

	"github.com/go-gomail/gomail"
)

// Mailer delivers one-time codes to users.
type Mailer interface {
	SendPasswordResetCode(toEmail, code string, validFor time.Duration) error
}

// New returns an SMTP mailer when SMTP is configured, otherwise one that only logs.
func New(cfg config.SMTPConfig, log *logger.Logger) Mailer {
	if !cfg.Enabled() {
		log.Warn("⚠️ SMTP not configured: password reset codes will not be delivered")
		return &LogMailer{Logger: log}
	}
	return &SMTPMailer{
		from:   cfg.From,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
	}
}

type SMTPMailer struct {
	from   string
	dialer *gomail.Dialer
}

func (m *SMTPMailer) SendPasswordResetCode(toEmail, code string, validFor time.Duration) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", toEmail)
	msg.SetHeader("Subject", "Password Reset Request")
	msg.SetBody("text/plain", resetBody(code, validFor))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send password reset mail: %w", err)
	}
	return nil
}

// LogMailer records that a code would have been sent without revealing it.
type LogMailer struct {
	Logger *logger.Logger
}

func (m *LogMailer) SendPasswordResetCode(toEmail, _ string, _ time.Duration) error {
	m.Logger.Warn("Password reset code for " + toEmail + " not delivered: SMTP disabled")
	return nil
}

func resetBody(code string, validFor time.Duration) string {
	return fmt.Sprintf("Your password reset code is: %s\nThis code is valid for %d minutes.",
		code, int(validFor.Minutes()))
}
