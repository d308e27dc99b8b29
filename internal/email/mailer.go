package email

import (
	"fmt"
	"net/smtp"
	"strings"

	"airwatch/internal/config"
)

// Mailer sends plain-text mail over SMTP with PLAIN auth.
type Mailer struct {
	server   string
	port     int
	username string
	password string
	from     string
}

func NewMailer(cfg config.EmailConfig) (*Mailer, error) {
	if cfg.SMTPServer == "" || cfg.SMTPPort == 0 || cfg.Username == "" || cfg.Password == "" {
		return nil, fmt.Errorf("missing email configuration: SMTPServer, SMTPPort, Username, or Password is empty")
	}
	from := cfg.From
	if from == "" {
		from = cfg.Username
	}
	return &Mailer{
		server:   cfg.SMTPServer,
		port:     cfg.SMTPPort,
		username: cfg.Username,
		password: cfg.Password,
		from:     from,
	}, nil
}

func (m *Mailer) Send(to, subject, body string) error {
	if !strings.Contains(to, "@") {
		return fmt.Errorf("invalid email address: %s", to)
	}

	msg := []byte(fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n", m.from, to, subject, body))
	auth := smtp.PlainAuth("", m.username, m.password, m.server)
	addr := fmt.Sprintf("%s:%d", m.server, m.port)
	if err := smtp.SendMail(addr, auth, m.from, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}
