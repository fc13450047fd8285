package crypto

import (
	"strings"
	"testing"
)

func newTestCipher(t *testing.T) *AESCipher {
	t.Helper()
	c, err := NewAESCipher("test-secret")
	if err != nil {
		t.Fatalf("failed to create cipher: %v", err)
	}
	return c
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	c := newTestCipher(t)

	names := []string{
		"Netflix",
		"Rent payment",
		"Coffee at Joe's: 2x latte",
		"émigré café ☕",
	}
	for _, name := range names {
		encrypted, err := c.Encrypt(name)
		if err != nil {
			t.Fatalf("failed to encrypt %q: %v", name, err)
		}
		if encrypted == name {
			t.Errorf("expected %q to be transformed", name)
		}
		if got := c.Decrypt(encrypted); got != name {
			t.Errorf("round trip of %q: got %q", name, got)
		}
	}
}

func TestEncryptOutputFormat(t *testing.T) {
	c := newTestCipher(t)

	encrypted, err := c.Encrypt("Spotify")
	if err != nil {
		t.Fatalf("failed to encrypt: %v", err)
	}
	parts := strings.Split(encrypted, ":")
	if len(parts) != 3 {
		t.Fatalf("expected nonce:tag:ciphertext, got %d parts", len(parts))
	}
	for i, p := range parts {
		if p == "" {
			t.Errorf("part %d is empty", i)
		}
	}
}

func TestEncryptIsNonDeterministic(t *testing.T) {
	c := newTestCipher(t)

	first, err := c.Encrypt("Gym membership")
	if err != nil {
		t.Fatalf("failed to encrypt: %v", err)
	}
	second, err := c.Encrypt("Gym membership")
	if err != nil {
		t.Fatalf("failed to encrypt: %v", err)
	}
	if first == second {
		t.Error("expected a fresh nonce per encryption")
	}
}

func TestEncryptEmptyPassthrough(t *testing.T) {
	c := newTestCipher(t)

	encrypted, err := c.Encrypt("")
	if err != nil {
		t.Fatalf("failed to encrypt: %v", err)
	}
	if encrypted != "" {
		t.Errorf("expected empty string to pass through, got %q", encrypted)
	}
	if got := c.Decrypt(""); got != "" {
		t.Errorf("expected empty string to pass through, got %q", got)
	}
}

func TestDecryptLegacyPlaintextPassthrough(t *testing.T) {
	c := newTestCipher(t)

	// Rows written before encryption was introduced have no separators.
	if got := c.Decrypt("Old plaintext name"); got != "Old plaintext name" {
		t.Errorf("expected passthrough, got %q", got)
	}
}

func TestDecryptTamperedValue(t *testing.T) {
	c := newTestCipher(t)

	encrypted, err := c.Encrypt("Salary")
	if err != nil {
		t.Fatalf("failed to encrypt: %v", err)
	}

	parts := strings.SplitN(encrypted, ":", 3)
	tampered := parts[0] + ":" + parts[1] + ":" + "QUFBQQ=="
	if got := c.Decrypt(tampered); got != "***DECRYPTION FAILED***" {
		t.Errorf("expected failure marker for tampered value, got %q", got)
	}
}

func TestDecryptMalformedEncoding(t *testing.T) {
	c := newTestCipher(t)

	// Not valid base64; the value is returned untouched rather than erroring.
	stored := "not!base64:also!bad:nope"
	if got := c.Decrypt(stored); got != stored {
		t.Errorf("expected malformed value to pass through, got %q", got)
	}
}

func TestKeyDerivationIsStable(t *testing.T) {
	first := newTestCipher(t)
	encrypted, err := first.Encrypt("Electricity bill")
	if err != nil {
		t.Fatalf("failed to encrypt: %v", err)
	}

	// A cipher rebuilt from the same secret must read existing rows.
	second, err := NewAESCipher("test-secret")
	if err != nil {
		t.Fatalf("failed to create cipher: %v", err)
	}
	if got := second.Decrypt(encrypted); got != "Electricity bill" {
		t.Errorf("expected stable key derivation, got %q", got)
	}
}

func TestWrongSecretCannotDecrypt(t *testing.T) {
	c := newTestCipher(t)
	encrypted, err := c.Encrypt("Mortgage")
	if err != nil {
		t.Fatalf("failed to encrypt: %v", err)
	}

	other, err := NewAESCipher("another-secret")
	if err != nil {
		t.Fatalf("failed to create cipher: %v", err)
	}
	if got := other.Decrypt(encrypted); got != "***DECRYPTION FAILED***" {
		t.Errorf("expected failure marker under the wrong key, got %q", got)
	}
}
