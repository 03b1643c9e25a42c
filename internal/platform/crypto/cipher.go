package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
)

// Cipher seals the secrets OrbitHR keeps at rest: TOTP secrets on user rows
// and generated payslip PDFs. Without DATA_ENCRYPTION_KEY it degrades to
// passthrough so local setups run without a key, and MFA enrollment is the
// one path that refuses to proceed unconfigured.
type Cipher struct {
	aead cipher.AEAD
}

func New(key string) (*Cipher, error) {
	if key == "" {
		return &Cipher{}, nil
	}
	material := keyMaterial(key)
	if len(material) != 32 {
		return nil, fmt.Errorf("DATA_ENCRYPTION_KEY must be 32 bytes after decoding, got %d", len(material))
	}
	block, err := aes.NewCipher(material)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &Cipher{aead: aead}, nil
}

func (c *Cipher) Configured() bool {
	return c != nil && c.aead != nil
}

// SealMFASecret encrypts a TOTP secret for storage on the user row.
func (c *Cipher) SealMFASecret(secret string) ([]byte, error) {
	if secret == "" {
		return nil, nil
	}
	return c.seal([]byte(secret))
}

func (c *Cipher) OpenMFASecret(sealed []byte) (string, error) {
	plain, err := c.open(sealed)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}

// SealPayslip encrypts a rendered payslip PDF before it is written to disk.
func (c *Cipher) SealPayslip(pdf []byte) ([]byte, error) {
	return c.seal(pdf)
}

func (c *Cipher) OpenPayslip(sealed []byte) ([]byte, error) {
	return c.open(sealed)
}

func (c *Cipher) seal(plain []byte) ([]byte, error) {
	if len(plain) == 0 {
		return nil, nil
	}
	if !c.Configured() {
		return plain, nil
	}
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return c.aead.Seal(nonce, nonce, plain, nil), nil
}

func (c *Cipher) open(sealed []byte) ([]byte, error) {
	if len(sealed) == 0 {
		return nil, nil
	}
	if !c.Configured() {
		return sealed, nil
	}
	size := c.aead.NonceSize()
	if len(sealed) < size {
		return nil, errors.New("sealed payload shorter than nonce")
	}
	return c.aead.Open(nil, sealed[:size], sealed[size:], nil)
}

// keyMaterial accepts the key as hex, base64 or raw bytes. Length is
// validated by the caller, not here.
func keyMaterial(raw string) []byte {
	if len(raw) == 64 {
		if decoded, err := hex.DecodeString(raw); err == nil {
			return decoded
		}
	}
	for _, enc := range []*base64.Encoding{base64.StdEncoding, base64.RawStdEncoding} {
		if decoded, err := enc.DecodeString(raw); err == nil {
			return decoded
		}
	}
	return []byte(raw)
}
