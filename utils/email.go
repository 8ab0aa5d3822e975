package utils

import (
	"crypto/tls"
	"fmt"
	"log"
	"net/smtp"
	"net/url"
	"time"

	"github.com/sharath018/event-management-backend/config"
)

// Mailer sends the account and invitation emails.
type Mailer interface {
	SendResetLink(toEmail, resetToken string) error
	SendInvitation(toEmail, eventTitle string, start time.Time) error
}

// ======================
// SMTP Configuration
// ======================

type SMTPMailer struct {
	host      string
	port      string
	username  string
	password  string
	fromName  string
	fromEmail string
	resetURL  string
}

func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	from := cfg.SMTPFromEmail
	if from == "" {
		from = cfg.SMTPUsername
	}
	return &SMTPMailer{
		host:      cfg.SMTPHost,
		port:      cfg.SMTPPort,
		username:  cfg.SMTPUsername,
		password:  cfg.SMTPPassword,
		fromName:  cfg.SMTPFromName,
		fromEmail: from,
		resetURL:  cfg.ResetURLBase,
	}
}

func (m *SMTPMailer) configured() bool {
	return m.host != "" && m.username != "" && m.password != ""
}

func (m *SMTPMailer) send(to, subject, body string) error {
	if !m.configured() {
		log.Printf("⚠️ SMTP not configured. Email %q to %s not sent.", subject, to)
		return nil
	}

	client, err := smtp.Dial(fmt.Sprintf("%s:%s", m.host, m.port))
	if err != nil {
		return fmt.Errorf("failed to dial SMTP server: %w", err)
	}
	defer client.Close()

	if err = client.StartTLS(&tls.Config{ServerName: m.host}); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}
	if err := client.Auth(smtp.PlainAuth("", m.username, m.password, m.host)); err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}
	if err := client.Mail(m.fromEmail); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}

	from := m.fromEmail
	if m.fromName != "" {
		from = fmt.Sprintf("%s <%s>", m.fromName, m.fromEmail)
	}
	msg := fmt.Sprintf("From: %s\r\n"+
		"To: %s\r\n"+
		"Subject: %s\r\n"+
		"MIME-Version: 1.0\r\n"+
		"Content-Type: text/plain; charset=UTF-8\r\n"+
		"\r\n%s", from, to, subject, body)

	if _, err = w.Write([]byte(msg)); err != nil {
		w.Close()
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("failed to close writer: %w", err)
	}
	if err := client.Quit(); err != nil {
		log.Printf("⚠️ QUIT command error (non-critical): %v", err)
	}

	log.Printf("✅ Email %q sent to %s", subject, to)
	return nil
}

// ======================
// Password Reset
// ======================

func (m *SMTPMailer) SendResetLink(toEmail, resetToken string) error {
	link := fmt.Sprintf("%s?token=%s", m.resetURL, url.QueryEscape(resetToken))
	body := fmt.Sprintf("Click here to reset your password: %s\n\nIf you did not request this password reset, please ignore this email.", link)
	return m.send(toEmail, "Reset your password", body)
}

// ======================
// Invitations
// ======================

func (m *SMTPMailer) SendInvitation(toEmail, eventTitle string, start time.Time) error {
	subject := fmt.Sprintf("You're invited: %s", eventTitle)
	body := fmt.Sprintf("You have been invited to \"%s\" starting %s.\n\nOpen the app to update your RSVP.",
		eventTitle, start.UTC().Format(time.RFC1123))
	return m.send(toEmail, subject, body)
}
