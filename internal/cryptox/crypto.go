// Package cryptox implements the vault's key derivation, login verifier and
// the encrypted blob codec. A session key is derived from the password and a
// per-user random salt; only a one-way fingerprint of that key (the verifier)
// is ever persisted, so the stored user record reveals nothing an offline
// brute-force attacker could not already attempt given the salt.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/pbkdf2"

	"github.com/dmitrijs2005/mediakeeper/internal/common"
)

const (
	// SaltSize is the exact salt length accepted by DeriveKey.
	SaltSize = 16
	// KeySize is the derived session key length (AES-256).
	KeySize = 32
	// NonceSize is the AES-GCM nonce length.
	NonceSize = 12

	// pbkdf2Iterations is deliberately high to slow down offline guessing.
	pbkdf2Iterations = 100_000
)

// DeriveKey derives a 256-bit session key from a password and salt using
// PBKDF2-SHA256. It is deterministic: the login flow re-derives the key from
// the stored salt and compares verifiers.
//
// The salt must be exactly SaltSize bytes; anything else returns
// common.ErrDecoding rather than being padded or truncated.
func DeriveKey(password []byte, salt []byte) ([]byte, error) {
	if len(salt) != SaltSize {
		return nil, fmt.Errorf("%w: salt must be %d bytes, got %d", common.ErrDecoding, SaltSize, len(salt))
	}
	return pbkdf2.Key(password, salt, pbkdf2Iterations, KeySize, sha256.New), nil
}

// MakeVerifier returns the one-way fingerprint of a session key that is safe
// to persist for later login comparison.
func MakeVerifier(key []byte) []byte {
	hash := sha256.Sum256(key)
	return hash[:]
}

// Blob is the transport-safe form of an encrypted secret. Both fields are
// standard base64. This exact shape round-trips through the settings store.
type Blob struct {
	IV         string `json:"iv"`
	Ciphertext string `json:"ciphertext"`
}

// EncryptString encrypts plaintext under key with AES-256-GCM. A fresh
// random 12-byte nonce is generated on every call; nonces are never reused
// with the same key.
func EncryptString(plaintext string, key []byte) (Blob, error) {
	nonce := make([]byte, NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return Blob{}, err
	}

	aesgcm, err := newGCM(key)
	if err != nil {
		return Blob{}, err
	}

	ciphertext := aesgcm.Seal(nil, nonce, []byte(plaintext), nil)

	return Blob{
		IV:         base64.StdEncoding.EncodeToString(nonce),
		Ciphertext: base64.StdEncoding.EncodeToString(ciphertext),
	}, nil
}

// DecryptString reverses EncryptString. Malformed base64 yields
// common.ErrDecoding; an authentication failure (wrong key, or a flipped bit
// anywhere in the nonce or ciphertext) yields common.ErrDecryption. A wrong
// plaintext is never returned silently.
func DecryptString(b Blob, key []byte) (string, error) {
	nonce, err := base64.StdEncoding.DecodeString(b.IV)
	if err != nil {
		return "", fmt.Errorf("%w: bad iv: %v", common.ErrDecoding, err)
	}
	if len(nonce) != NonceSize {
		return "", fmt.Errorf("%w: iv must be %d bytes, got %d", common.ErrDecoding, NonceSize, len(nonce))
	}
	ciphertext, err := base64.StdEncoding.DecodeString(b.Ciphertext)
	if err != nil {
		return "", fmt.Errorf("%w: bad ciphertext: %v", common.ErrDecoding, err)
	}

	aesgcm, err := newGCM(key)
	if err != nil {
		return "", err
	}

	plaintext, err := aesgcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrDecryption, err)
	}
	return string(plaintext), nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
