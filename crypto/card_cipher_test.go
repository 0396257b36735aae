package crypto

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestCipher(t *testing.T) *CardCipher {
	c, err := NewCardCipher("unit-test-secret")
	assert.NoError(t, err)
	return c
}

func TestNewCardCipher_EmptySecret(t *testing.T) {
	_, err := NewCardCipher("")
	assert.Error(t, err)
}

func TestCardCipher_RoundTrip(t *testing.T) {
	cipher := newTestCipher(t)

	pan := "1234567890123456"
	blob, err := cipher.Encrypt(pan)
	assert.NoError(t, err)
	assert.NotEmpty(t, blob)
	assert.NotContains(t, blob, pan, "ciphertext must not contain the plaintext")

	decrypted, err := cipher.Decrypt(blob)
	assert.NoError(t, err)
	assert.Equal(t, pan, decrypted)
}

func TestCardCipher_FreshNoncePerCall(t *testing.T) {
	cipher := newTestCipher(t)

	first, err := cipher.Encrypt("4000123412341234")
	assert.NoError(t, err)
	second, err := cipher.Encrypt("4000123412341234")
	assert.NoError(t, err)

	assert.NotEqual(t, first, second, "same plaintext must never produce the same blob")
}

func TestCardCipher_TamperDetection(t *testing.T) {
	cipher := newTestCipher(t)

	blob, err := cipher.Encrypt("1234567890123456")
	assert.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(blob)
	assert.NoError(t, err)

	// Flip a byte in the nonce, in the ciphertext body and in the tag.
	for _, pos := range []int{0, len(raw) / 2, len(raw) - 1} {
		t.Run("flip byte", func(t *testing.T) {
			tampered := make([]byte, len(raw))
			copy(tampered, raw)
			tampered[pos] ^= 0x01

			_, err := cipher.Decrypt(base64.StdEncoding.EncodeToString(tampered))
			assert.ErrorIs(t, err, ErrCryptoFailure)
		})
	}
}

func TestCardCipher_MalformedBlob(t *testing.T) {
	cipher := newTestCipher(t)

	t.Run("not base64", func(t *testing.T) {
		_, err := cipher.Decrypt("not-base64!!!")
		assert.ErrorIs(t, err, ErrCryptoFailure)
	})

	t.Run("shorter than nonce", func(t *testing.T) {
		_, err := cipher.Decrypt(base64.StdEncoding.EncodeToString([]byte("short")))
		assert.ErrorIs(t, err, ErrCryptoFailure)
	})

	t.Run("wrong key", func(t *testing.T) {
		other, err := NewCardCipher("a-different-secret")
		assert.NoError(t, err)

		blob, err := other.Encrypt("1234567890123456")
		assert.NoError(t, err)

		_, err = cipher.Decrypt(blob)
		assert.ErrorIs(t, err, ErrCryptoFailure)
	})
}

func TestMask(t *testing.T) {
	t.Run("sixteen digits", func(t *testing.T) {
		masked, err := Mask("1234567890123456")
		assert.NoError(t, err)
		assert.Equal(t, "**** **** **** 3456", masked)
	})

	t.Run("ignores separators", func(t *testing.T) {
		masked, err := Mask("1234 5678 9012-3456")
		assert.NoError(t, err)
		assert.Equal(t, "**** **** **** 3456", masked)
	})

	t.Run("deterministic", func(t *testing.T) {
		first, err := Mask("9999888877776666")
		assert.NoError(t, err)
		second, err := Mask("9999888877776666")
		assert.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("too few digits", func(t *testing.T) {
		_, err := Mask("12x3")
		assert.ErrorIs(t, err, ErrInvalidCardNumber)
	})
}
