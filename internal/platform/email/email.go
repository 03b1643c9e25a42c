package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"

	"orbithr/internal/domain/notifications"
	"orbithr/internal/platform/config"
)

const dialTimeout = 10 * time.Second

type dropMailer struct{}

func (dropMailer) Deliver(context.Context, notifications.Email) error { return nil }

type smtpMailer struct {
	host     string
	port     int
	user     string
	password string
	useTLS   bool
	from     string
}

// New returns the SMTP mailer, or a mailer that drops everything when email
// delivery is disabled or unconfigured.
func New(cfg config.Config) notifications.Mailer {
	if !cfg.EmailEnabled || cfg.SMTPHost == "" {
		return dropMailer{}
	}
	from := cfg.EmailFrom
	if from == "" {
		from = "no-reply@orbithr.local"
	}
	return &smtpMailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		useTLS:   cfg.SMTPUseTLS,
		from:     from,
	}
}

func (m *smtpMailer) Deliver(ctx context.Context, msg notifications.Email) error {
	if strings.TrimSpace(msg.To) == "" {
		return nil
	}

	client, err := m.connect(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.Mail(m.from); err != nil {
		return err
	}
	if err := client.Rcpt(msg.To); err != nil {
		return err
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(m.render(msg)); err != nil {
		_ = w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}

func (m *smtpMailer) connect(ctx context.Context) (*smtp.Client, error) {
	dialer := net.Dialer{Timeout: dialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", fmt.Sprintf("%s:%d", m.host, m.port))
	if err != nil {
		return nil, err
	}
	client, err := smtp.NewClient(conn, m.host)
	if err != nil {
		conn.Close()
		return nil, err
	}
	if m.useTLS {
		if err := client.StartTLS(&tls.Config{ServerName: m.host}); err != nil {
			client.Close()
			return nil, err
		}
	}
	if m.user != "" {
		auth := smtp.PlainAuth("", m.user, m.password, m.host)
		if err := client.Auth(auth); err != nil {
			client.Close()
			return nil, err
		}
	}
	return client, nil
}

// render produces the RFC 5322 payload. The notification kind rides along as
// a header so downstream filters can route digests separately.
func (m *smtpMailer) render(msg notifications.Email) []byte {
	var b strings.Builder
	writeHeader := func(name, value string) {
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(value)
		b.WriteString("\r\n")
	}
	writeHeader("From", m.from)
	writeHeader("To", msg.To)
	writeHeader("Subject", msg.Subject)
	if msg.Kind != "" {
		writeHeader("X-OrbitHR-Notification", msg.Kind)
	}
	writeHeader("MIME-Version", "1.0")
	writeHeader("Content-Type", `text/plain; charset="UTF-8"`)
	b.WriteString("\r\n")
	b.WriteString(msg.Body)
	return []byte(b.String())
}
