package cryptox

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/mediakeeper/internal/common"
)

func testSalt(b byte) []byte {
	s := make([]byte, SaltSize)
	for i := range s {
		s[i] = b
	}
	return s
}

func TestDeriveKey_Deterministic(t *testing.T) {
	password := []byte("secret-password")
	salt := testSalt(0x01)

	key1, err := DeriveKey(password, salt)
	require.NoError(t, err)
	key2, err := DeriveKey(password, salt)
	require.NoError(t, err)

	assert.Equal(t, key1, key2)
	assert.Len(t, key1, KeySize)
}

func TestDeriveKey_DifferentInputs(t *testing.T) {
	key1, err := DeriveKey([]byte("secret-password"), testSalt(0x01))
	require.NoError(t, err)
	key2, err := DeriveKey([]byte("secret-password"), testSalt(0x02))
	require.NoError(t, err)
	key3, err := DeriveKey([]byte("other-password"), testSalt(0x01))
	require.NoError(t, err)

	assert.NotEqual(t, key1, key2)
	assert.NotEqual(t, key1, key3)
}

func TestDeriveKey_BadSalt(t *testing.T) {
	tests := []struct {
		name string
		salt []byte
	}{
		{"nil", nil},
		{"short", make([]byte, 8)},
		{"long", make([]byte, 32)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DeriveKey([]byte("pw"), tt.salt)
			assert.ErrorIs(t, err, common.ErrDecoding)
		})
	}
}

func TestMakeVerifier(t *testing.T) {
	key1, err := DeriveKey([]byte("password-one"), testSalt(0x01))
	require.NoError(t, err)
	key2, err := DeriveKey([]byte("password-two"), testSalt(0x01))
	require.NoError(t, err)

	assert.Equal(t, MakeVerifier(key1), MakeVerifier(key1))
	assert.NotEqual(t, MakeVerifier(key1), MakeVerifier(key2))
	// The verifier must not leak the key itself.
	assert.NotEqual(t, key1, MakeVerifier(key1))
}

func TestEncryptString_RoundTrip(t *testing.T) {
	key := common.GenerateRandByteArray(KeySize)

	tests := []string{"", "api-key-12345", "многобайтовый текст", `{"json":"payload"}`}
	for _, plaintext := range tests {
		blob, err := EncryptString(plaintext, key)
		require.NoError(t, err)

		got, err := DecryptString(blob, key)
		require.NoError(t, err)
		assert.Equal(t, plaintext, got)
	}
}

func TestEncryptString_FreshNonce(t *testing.T) {
	key := common.GenerateRandByteArray(KeySize)

	blob1, err := EncryptString("same plaintext", key)
	require.NoError(t, err)
	blob2, err := EncryptString("same plaintext", key)
	require.NoError(t, err)

	assert.NotEqual(t, blob1.IV, blob2.IV)
	assert.NotEqual(t, blob1.Ciphertext, blob2.Ciphertext)
}

func TestDecryptString_WrongKey(t *testing.T) {
	key := common.GenerateRandByteArray(KeySize)
	other := common.GenerateRandByteArray(KeySize)

	blob, err := EncryptString("secret", key)
	require.NoError(t, err)

	_, err = DecryptString(blob, other)
	assert.ErrorIs(t, err, common.ErrDecryption)
}

func TestDecryptString_TamperDetection(t *testing.T) {
	key := common.GenerateRandByteArray(KeySize)
	blob, err := EncryptString("secret", key)
	require.NoError(t, err)

	flip := func(b64 string, bit int) string {
		raw, err := base64.StdEncoding.DecodeString(b64)
		require.NoError(t, err)
		raw[bit/8] ^= 1 << (bit % 8)
		return base64.StdEncoding.EncodeToString(raw)
	}

	t.Run("ciphertext bit", func(t *testing.T) {
		tampered := blob
		tampered.Ciphertext = flip(blob.Ciphertext, 3)
		_, err := DecryptString(tampered, key)
		assert.ErrorIs(t, err, common.ErrDecryption)
	})

	t.Run("iv bit", func(t *testing.T) {
		tampered := blob
		tampered.IV = flip(blob.IV, 0)
		_, err := DecryptString(tampered, key)
		assert.ErrorIs(t, err, common.ErrDecryption)
	})
}

func TestDecryptString_MalformedBlob(t *testing.T) {
	key := common.GenerateRandByteArray(KeySize)

	_, err := DecryptString(Blob{IV: "%%%", Ciphertext: "AAAA"}, key)
	assert.ErrorIs(t, err, common.ErrDecoding)

	_, err = DecryptString(Blob{IV: "AAAA", Ciphertext: "%%%"}, key)
	assert.ErrorIs(t, err, common.ErrDecoding)

	// Valid base64 but wrong nonce length.
	_, err = DecryptString(Blob{IV: base64.StdEncoding.EncodeToString([]byte("short")), Ciphertext: "AAAA"}, key)
	assert.ErrorIs(t, err, common.ErrDecoding)
}
