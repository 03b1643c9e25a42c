package email

import (
	"context"
	"strings"
	"testing"

	"orbithr/internal/domain/notifications"
	"orbithr/internal/platform/config"
)

func TestNewReturnsDropMailerWhenDisabled(t *testing.T) {
	m := New(config.Config{EmailEnabled: false, SMTPHost: "smtp.example.com"})
	if _, ok := m.(dropMailer); !ok {
		t.Fatalf("expected drop mailer, got %T", m)
	}
	if err := m.Deliver(context.Background(), notifications.Email{To: "x@example.com"}); err != nil {
		t.Fatalf("drop mailer must not fail: %v", err)
	}
}

func TestNewDefaultsFromAddress(t *testing.T) {
	m := New(config.Config{EmailEnabled: true, SMTPHost: "smtp.example.com", SMTPPort: 587})
	sender, ok := m.(*smtpMailer)
	if !ok {
		t.Fatalf("expected smtp mailer, got %T", m)
	}
	if sender.from != "no-reply@orbithr.local" {
		t.Fatalf("from = %q", sender.from)
	}
}

func TestRenderCarriesNotificationKind(t *testing.T) {
	m := &smtpMailer{from: "hr@acme.test"}
	raw := string(m.render(notifications.Email{
		To:      "dev@acme.test",
		Subject: "Leave approved",
		Body:    "Your leave request was approved.",
		Kind:    notifications.TypeLeaveApproved,
	}))
	for _, want := range []string{
		"From: hr@acme.test\r\n",
		"To: dev@acme.test\r\n",
		"Subject: Leave approved\r\n",
		"X-OrbitHR-Notification: leave_approved\r\n",
		"\r\n\r\nYour leave request was approved.",
	} {
		if !strings.Contains(raw, want) {
			t.Fatalf("rendered message missing %q:\n%s", want, raw)
		}
	}
}

func TestRenderOmitsKindHeaderWhenEmpty(t *testing.T) {
	m := &smtpMailer{from: "hr@acme.test"}
	raw := string(m.render(notifications.Email{To: "dev@acme.test", Subject: "Hi", Body: "b"}))
	if strings.Contains(raw, "X-OrbitHR-Notification") {
		t.Fatalf("unexpected kind header:\n%s", raw)
	}
}
