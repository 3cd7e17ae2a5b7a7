// Package secrets bridges the persisted encrypted credential blobs to the
// in-memory plaintext slots consumed by platform fetchers and the proxy
// chain. Plaintexts live only for the process lifetime and are pushed into
// consumers via explicit setters, never via a shared global lookup.
package secrets

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/mediakeeper/internal/cryptox"
	"github.com/dmitrijs2005/mediakeeper/internal/logging"
	"github.com/dmitrijs2005/mediakeeper/internal/repositories/settings"
)

// Slot names one stored credential. The settings record keys secret blobs
// by slot name, prefixed so they never collide with plaintext settings.
type Slot string

const (
	SlotYouTubeAPIKey    Slot = "youtube_api_key"
	SlotVimeoToken       Slot = "vimeo_token"
	SlotDailymotionToken Slot = "dailymotion_token"
	SlotProxyWorkerKey   Slot = "proxy_worker_key"
	SlotAssistantAPIKey  Slot = "assistant_api_key"
)

// Slots lists every recognized secret slot in load order.
var Slots = []Slot{
	SlotYouTubeAPIKey,
	SlotVimeoToken,
	SlotDailymotionToken,
	SlotProxyWorkerKey,
	SlotAssistantAPIKey,
}

const slotKeyPrefix = "secret."

// Store decrypts persisted blobs into volatile memory on session start and
// encrypts new values on save. One unreadable blob never blocks the rest.
type Store struct {
	repo   settings.Repository
	logger logging.Logger
	values map[Slot]string
}

// NewStore returns an empty Store over the given settings repository.
func NewStore(repo settings.Repository, logger logging.Logger) *Store {
	return &Store{repo: repo, logger: logger, values: make(map[Slot]string)}
}

// Load decrypts every stored slot with the session key. A slot whose blob
// is missing stays empty; a slot that fails to decode or decrypt (wrong
// key, corrupted record) is logged as a warning and skipped, so one bad
// credential cannot lock the user out of the whole session.
func (s *Store) Load(ctx context.Context, key []byte) {
	for _, slot := range Slots {
		raw, err := s.repo.Get(ctx, slotKeyPrefix+string(slot))
		if err != nil {
			continue
		}

		var blob cryptox.Blob
		if err := json.Unmarshal([]byte(raw), &blob); err != nil {
			s.logger.Warn(ctx, "secret blob unreadable, leaving slot empty", "slot", slot, "error", err)
			continue
		}

		plaintext, err := cryptox.DecryptString(blob, key)
		if err != nil {
			s.logger.Warn(ctx, "secret undecryptable with current key, leaving slot empty", "slot", slot, "error", err)
			continue
		}
		s.values[slot] = plaintext
	}
}

// Save encrypts plaintext under the session key and upserts only that
// slot's key in the settings record, leaving unrelated fields untouched.
// The new value becomes visible via Get immediately.
func (s *Store) Save(ctx context.Context, key []byte, slot Slot, plaintext string) error {
	blob, err := cryptox.EncryptString(plaintext, key)
	if err != nil {
		return fmt.Errorf("failed to encrypt secret[%s]: %w", slot, err)
	}

	raw, err := json.Marshal(blob)
	if err != nil {
		return fmt.Errorf("failed to encode secret[%s]: %w", slot, err)
	}

	if err := s.repo.Set(ctx, slotKeyPrefix+string(slot), string(raw)); err != nil {
		return err
	}
	s.values[slot] = plaintext
	return nil
}

// Get returns the decrypted plaintext for slot and whether it is set.
func (s *Store) Get(slot Slot) (string, bool) {
	v, ok := s.values[slot]
	return v, ok
}

// Clear drops every in-memory plaintext. Called on logout.
func (s *Store) Clear() {
	s.values = make(map[Slot]string)
}
