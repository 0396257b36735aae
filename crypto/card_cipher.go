// Package crypto protects card numbers at rest with AES-GCM and produces
// the display mask shown everywhere else.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

const gcmNonceLength = 12

var (
	// ErrCryptoFailure signals a malformed blob or a failed authentication
	// tag. It is a data-integrity problem and must never be reported as a
	// missing record.
	ErrCryptoFailure = errors.New("card number decryption failed")

	// ErrInvalidCardNumber signals an input with fewer than 4 digits.
	ErrInvalidCardNumber = errors.New("card number is too short to mask")
)

// CardCipher holds the single symmetric key for the process lifetime.
// The key is derived once from the operator secret and never rotated.
type CardCipher struct {
	aead cipher.AEAD
}

// NewCardCipher derives a 256-bit AES key from the operator secret by
// hashing it with SHA-256. An empty secret is a configuration error and
// must abort startup.
func NewCardCipher(secret string) (*CardCipher, error) {
	if secret == "" {
		return nil, errors.New("encryption secret key is not configured")
	}

	key := sha256.Sum256([]byte(secret))
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &CardCipher{aead: aead}, nil
}

// Encrypt seals the plaintext under a fresh random 96-bit nonce and returns
// base64(nonce || ciphertext || tag).
func (c *CardCipher) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, gcmNonceLength)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := c.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt. Any malformed blob, truncated nonce or tag
// verification failure comes back as ErrCryptoFailure.
func (c *CardCipher) Decrypt(blob string) (string, error) {
	decoded, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCryptoFailure, err)
	}
	if len(decoded) < gcmNonceLength {
		return "", fmt.Errorf("%w: blob shorter than nonce", ErrCryptoFailure)
	}

	nonce, ciphertext := decoded[:gcmNonceLength], decoded[gcmNonceLength:]
	plaintext, err := c.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCryptoFailure, err)
	}
	return string(plaintext), nil
}

// Mask reduces a card number to its display form "**** **** **** NNNN".
// Non-digit characters are ignored; at least 4 digits are required.
func Mask(cardNumber string) (string, error) {
	var digits strings.Builder
	for _, r := range cardNumber {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}

	d := digits.String()
	if len(d) < 4 {
		return "", ErrInvalidCardNumber
	}
	return "**** **** **** " + d[len(d)-4:], nil
}
