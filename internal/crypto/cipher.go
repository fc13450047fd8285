// Package crypto encrypts transaction names at rest with AES-256-GCM.
// The storage layer treats the output as an opaque string; the scheduling
// core never sees ciphertext.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/scrypt"
)

const (
	keyLength   = 32
	nonceLength = 12
	tagLength   = 16
	// saltLabel is fixed so the same ENCRYPTION_KEY always derives the
	// same AES key; stored ciphertexts stay readable across restarts.
	saltLabel = "fintrack.name"
)

// NameCipher encodes and decodes sensitive display names.
type NameCipher interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(stored string) string
}

// AESCipher is an AES-256-GCM NameCipher with an scrypt-derived key.
type AESCipher struct {
	aead cipher.AEAD
}

// NewAESCipher derives a key from the configured secret and returns a
// ready-to-use cipher.
func NewAESCipher(secret string) (*AESCipher, error) {
	key, err := scrypt.Key([]byte(secret), []byte(saltLabel), 1<<15, 8, 1, keyLength)
	if err != nil {
		return nil, fmt.Errorf("failed to derive encryption key: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &AESCipher{aead: aead}, nil
}

// Encrypt returns "nonce:tag:ciphertext" with each part base64-encoded.
// Empty strings pass through unchanged.
func (c *AESCipher) Encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return plaintext, nil
	}

	nonce := make([]byte, nonceLength)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := c.aead.Seal(nil, nonce, []byte(plaintext), nil)
	ciphertext := sealed[:len(sealed)-tagLength]
	tag := sealed[len(sealed)-tagLength:]

	return base64.StdEncoding.EncodeToString(nonce) + ":" +
		base64.StdEncoding.EncodeToString(tag) + ":" +
		base64.StdEncoding.EncodeToString(ciphertext), nil
}

// Decrypt reverses Encrypt. Values that do not look encrypted (no colon
// separators) are returned as-is, so legacy plaintext rows keep working.
// Tampered or undecryptable values come back as a fixed marker rather
// than an error; a single bad row must not break a whole listing.
func (c *AESCipher) Decrypt(stored string) string {
	if stored == "" || !strings.Contains(stored, ":") {
		return stored
	}

	parts := strings.SplitN(stored, ":", 3)
	if len(parts) != 3 {
		return stored
	}

	nonce, err := base64.StdEncoding.DecodeString(parts[0])
	if err != nil || len(nonce) != nonceLength {
		return stored
	}
	tag, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return stored
	}
	ciphertext, err := base64.StdEncoding.DecodeString(parts[2])
	if err != nil {
		return stored
	}

	plaintext, err := c.aead.Open(nil, nonce, append(ciphertext, tag...), nil)
	if err != nil {
		return "***DECRYPTION FAILED***"
	}
	return string(plaintext)
}
