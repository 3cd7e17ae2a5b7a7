package settings

import "context"

// Repository is a key/value store for the singleton settings record.
// Encrypted secret blobs and plaintext configuration share the same table;
// writes touch a single key at a time so unrelated fields are never clobbered.
type Repository interface {
	// Get returns the value stored under key, or common.ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Set upserts a single key, leaving all other keys untouched.
	Set(ctx context.Context, key string, value string) error

	// Delete removes a key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// List returns all stored keys and values.
	List(ctx context.Context) (map[string]string, error)
}
