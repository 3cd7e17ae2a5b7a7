// Package common defines shared constants and sentinel errors used across
// MediaKeeper components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Auth errors.
	ErrDuplicateUser      = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Crypto errors. ErrDecoding covers malformed salts and blobs,
	// ErrDecryption covers AEAD tag failures (wrong key or corrupted data).
	ErrDecoding   = errors.New("decoding error")
	ErrDecryption = errors.New("decryption error")

	// Proxy errors. ErrAllProxiesFailed is terminal for a fetch; the
	// diagnostic sentinels are produced by connection tests only.
	ErrAllProxiesFailed   = errors.New("all proxies failed")
	ErrProxyUnauthorized  = errors.New("proxy rejected the key")
	ErrProxyServerFailure = errors.New("proxy worker failure")
	ErrProxyUnreachable   = errors.New("proxy unreachable")

	// Fetcher errors.
	ErrCredentialMissing = errors.New("credential missing")
)
