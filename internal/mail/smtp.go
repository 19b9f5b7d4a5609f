package mail

import (
	"fmt"
	"net/smtp"
	"strings"

	"fashion-shop/internal/config"
)

// Sender delivers a rendered email to a single recipient.
type Sender interface {
	Send(to, subject, body string) error
}

// smtpSender sends mail through a plain SMTP relay.
type smtpSender struct {
	addr string
	from string
	auth smtp.Auth
}

// NewSMTPSender builds a sender from SMTP configuration. Auth is only
// used when a username is configured.
func NewSMTPSender(cfg config.SMTPConfig) Sender {
	var auth smtp.Auth
	if cfg.User != "" {
		auth = smtp.PlainAuth("", cfg.User, cfg.Password, cfg.Host)
	}
	return &smtpSender{
		addr: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		from: cfg.From,
		auth: auth,
	}
}

func (s *smtpSender) Send(to, subject, body string) error {
	var msg strings.Builder
	msg.WriteString("From: " + s.from + "\r\n")
	msg.WriteString("To: " + to + "\r\n")
	msg.WriteString("Subject: " + subject + "\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	if err := smtp.SendMail(s.addr, s.auth, s.from, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", to, err)
	}
	return nil
}
