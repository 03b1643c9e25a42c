package crypto

import (
	"bytes"
	"strings"
	"testing"
)

const testKey = "0123456789abcdef0123456789abcdef"

func TestMFASecretRoundTrip(t *testing.T) {
	c, err := New(testKey)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	sealed, err := c.SealMFASecret("JBSWY3DPEHPK3PXP")
	if err != nil {
		t.Fatalf("seal: %v", err)
	}
	if bytes.Contains(sealed, []byte("JBSWY3DPEHPK3PXP")) {
		t.Fatal("sealed secret leaks plaintext")
	}
	secret, err := c.OpenMFASecret(sealed)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if secret != "JBSWY3DPEHPK3PXP" {
		t.Fatalf("secret = %q", secret)
	}
}

func TestPayslipRoundTrip(t *testing.T) {
	c, err := New(testKey)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	pdf := []byte("%PDF-1.4 payslip body")
	sealed, err := c.SealPayslip(pdf)
	if err != nil {
		t.Fatalf("seal: %v", err)
	}
	opened, err := c.OpenPayslip(sealed)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if !bytes.Equal(opened, pdf) {
		t.Fatalf("opened = %q", opened)
	}
}

func TestUnconfiguredPassthrough(t *testing.T) {
	c, err := New("")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if c.Configured() {
		t.Fatal("empty key must not configure the cipher")
	}
	sealed, err := c.SealPayslip([]byte("plain"))
	if err != nil {
		t.Fatalf("seal: %v", err)
	}
	if string(sealed) != "plain" {
		t.Fatalf("passthrough got %q", sealed)
	}
}

func TestRejectsShortKey(t *testing.T) {
	if _, err := New("too-short"); err == nil || !strings.Contains(err.Error(), "32 bytes") {
		t.Fatalf("expected key length error, got %v", err)
	}
}

func TestOpenRejectsTruncatedPayload(t *testing.T) {
	c, err := New(testKey)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, err := c.OpenPayslip([]byte{0x01, 0x02}); err == nil {
		t.Fatal("expected error for truncated payload")
	}
}
