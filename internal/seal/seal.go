// Package seal encrypts small string values before they are written to
// persistent storage. Keys are derived from a passphrase with HKDF-SHA256
// and values are sealed with XChaCha20-Poly1305.
package seal

import (
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"

	apperrors "github.com/foodieshq/foodies-client/internal/errors"
)

const keyContext = "foodies-session-seal"

type Sealer struct {
	aead cipher.AEAD
}

// New derives a sealing key from the passphrase using HKDF-SHA256.
func New(passphrase string) (*Sealer, error) {
	if passphrase == "" {
		return nil, fmt.Errorf("seal passphrase is required")
	}

	key := make([]byte, chacha20poly1305.KeySize)
	kdf := hkdf.New(sha256.New, []byte(passphrase), nil, []byte(keyContext))
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, fmt.Errorf("derive sealing key: %w", err)
	}

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("create AEAD: %w", err)
	}
	return &Sealer{aead: aead}, nil
}

// Seal encrypts plain and returns a base64 string of nonce||ciphertext.
func (s *Sealer) Seal(plain string) (string, error) {
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}
	sealed := s.aead.Seal(nonce, nonce, []byte(plain), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Open reverses Seal. A value that does not decode or authenticate yields
// ErrSealedValue or ErrWrongPassphrase respectively.
func (s *Sealer) Open(sealed string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return "", apperrors.ErrSealedValue
	}
	if len(raw) < s.aead.NonceSize() {
		return "", apperrors.ErrSealedValue
	}
	nonce, ciphertext := raw[:s.aead.NonceSize()], raw[s.aead.NonceSize():]
	plain, err := s.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", apperrors.ErrWrongPassphrase
	}
	return string(plain), nil
}
