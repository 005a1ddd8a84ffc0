package boomerang

import (
	"bytes"
	"errors"
	"testing"
)

func TestAES_RoundTrip(t *testing.T) {
	key := []byte("32-byte-key-for-aes-256-encrypt!")
	enc, err := AES(key)
	if err != nil {
		t.Fatalf("AES() error: %v", err)
	}

	plaintext := []byte("hello, world!")
	ciphertext, err := enc.Encrypt(plaintext)
	if err != nil {
		t.Fatalf("Encrypt() error: %v", err)
	}

	if bytes.Equal(plaintext, ciphertext) {
		t.Error("ciphertext should differ from plaintext")
	}

	decrypted, err := enc.Decrypt(ciphertext)
	if err != nil {
		t.Fatalf("Decrypt() error: %v", err)
	}

	if !bytes.Equal(plaintext, decrypted) {
		t.Errorf("round-trip failed: got %q, want %q", decrypted, plaintext)
	}
}

func TestAES_InvalidKeySize(t *testing.T) {
	_, err := AES([]byte("short"))
	if err == nil {
		t.Error("expected error for invalid key size")
	}
}

func TestAES_DifferentNonce(t *testing.T) {
	key := []byte("32-byte-key-for-aes-256-encrypt!")
	enc, _ := AES(key)

	plaintext := []byte("hello")
	c1, _ := enc.Encrypt(plaintext)
	c2, _ := enc.Encrypt(plaintext)

	if bytes.Equal(c1, c2) {
		t.Error("same plaintext should produce different ciphertext (random nonce)")
	}
}

func TestAES_ShortCiphertext(t *testing.T) {
	enc, _ := AES([]byte("32-byte-key-for-aes-256-encrypt!"))

	_, err := enc.Decrypt([]byte("x"))
	if !errors.Is(err, ErrCiphertextShort) {
		t.Errorf("expected ErrCiphertextShort, got %v", err)
	}
}

func TestDeriveKey(t *testing.T) {
	k1, err := DeriveKey([]byte("secret"), "cookie")
	if err != nil {
		t.Fatalf("DeriveKey() error: %v", err)
	}
	if len(k1) != 32 {
		t.Fatalf("expected 32-byte key, got %d", len(k1))
	}

	k2, _ := DeriveKey([]byte("secret"), "cookie")
	if !bytes.Equal(k1, k2) {
		t.Error("same secret and purpose should derive the same key")
	}

	k3, _ := DeriveKey([]byte("secret"), "other")
	if bytes.Equal(k1, k3) {
		t.Error("different purposes should derive different keys")
	}

	if _, err := AES(k1); err != nil {
		t.Errorf("derived key rejected by AES: %v", err)
	}
}

func TestDeriveKey_EmptySecret(t *testing.T) {
	_, err := DeriveKey(nil, "cookie")
	if !errors.Is(err, ErrInvalidKeySize) {
		t.Errorf("expected ErrInvalidKeySize, got %v", err)
	}
}
