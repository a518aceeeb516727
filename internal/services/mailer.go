package services

import (
	"fmt"
	"log"
	"net/smtp"
	"os"
)

// Mailer delivers out-of-band notifications. Dispatch is best-effort: it
// runs after the relevant state is committed and a failure never rolls the
// workflow back.
type Mailer interface {
	Send(to, subject, body string) error
}

// SMTPMailer sends mail through a plain SMTP endpoint.
type SMTPMailer struct {
	host     string
	port     string
	from     string
	username string
	password string
}

// NewSMTPMailer builds a mailer from SMTP_* environment variables.
func NewSMTPMailer() (*SMTPMailer, error) {
	host := os.Getenv("SMTP_HOST")
	from := os.Getenv("SMTP_FROM")
	if host == "" || from == "" {
		return nil, fmt.Errorf("missing SMTP configuration in environment variables")
	}
	port := os.Getenv("SMTP_PORT")
	if port == "" {
		port = "587"
	}
	return &SMTPMailer{
		host:     host,
		port:     port,
		from:     from,
		username: os.Getenv("SMTP_USERNAME"),
		password: os.Getenv("SMTP_PASSWORD"),
	}, nil
}

func (m *SMTPMailer) Send(to, subject, body string) error {
	msg := []byte(fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n", m.from, to, subject, body))

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}
	if err := smtp.SendMail(m.host+":"+m.port, auth, m.from, []string{to}, msg); err != nil {
		log.Printf("❌ Failed to send email to %s: %v", to, err)
		return err
	}
	log.Printf("✅ Email sent to %s: %s", to, subject)
	return nil
}

// LogMailer writes mail to the process log instead of sending it. Used when
// SMTP is not configured and in tests.
type LogMailer struct{}

func (LogMailer) Send(to, subject, body string) error {
	log.Printf("📧 [dry-run] to=%s subject=%q body=%q", to, subject, body)
	return nil
}
