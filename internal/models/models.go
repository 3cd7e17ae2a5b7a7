// Package models defines the data types shared by the vault, fetchers and
// cache layers of MediaKeeper.
package models

import "time"

// Platform tags the service a source belongs to. Fetcher dispatch is a
// lookup on this tag, not inheritance.
type Platform string

const (
	PlatformYouTube     Platform = "youtube"
	PlatformVimeo       Platform = "vimeo"
	PlatformDailymotion Platform = "dailymotion"
)

// SourceKind classifies what a bookmarked source points at. Only aggregate
// kinds (channel, playlist) go through the feed cache; a single video has
// nothing to page through.
type SourceKind string

const (
	SourceKindChannel  SourceKind = "channel"
	SourceKindPlaylist SourceKind = "playlist"
	SourceKindVideo    SourceKind = "video"
)

// Source is a bookmarked channel, playlist or single video.
type Source struct {
	// ID is a locally generated unique identifier.
	ID string

	// Platform selects the fetcher implementation.
	Platform Platform

	// Kind is the source kind (channel/playlist/video).
	Kind SourceKind

	// Ref is the platform-native identifier (channel id, playlist id,
	// video id or user name, depending on Platform and Kind).
	Ref string

	// Title is a user-facing label.
	Title string
}

// Cacheable reports whether item lists for this source are feed-cached.
func (s Source) Cacheable() bool {
	return s.Kind == SourceKindChannel || s.Kind == SourceKindPlaylist
}

// VideoRecord is the uniform item shape every platform fetcher produces.
// Fallback paths (e.g. RSS instead of the data API) fill what they can and
// leave the rest zero; callers must tolerate reduced fidelity.
type VideoRecord struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Link        string    `json:"link"`
	PublishedAt time.Time `json:"published_at"`
	Thumbnail   string    `json:"thumbnail"`
	Author      string    `json:"author"`
	Description string    `json:"description"`
	Platform    Platform  `json:"platform"`
	// ViewCount is only available from API responses, never from RSS.
	ViewCount int64 `json:"view_count,omitempty"`
}

// UserCredential is the persisted login record: the salt is public, the
// verifier is a one-way fingerprint of the derived key. The record is
// created once at registration and is immutable thereafter.
type UserCredential struct {
	Username string
	Salt     []byte
	Verifier []byte
}

// CachedFeed is a stored item list for one source along with the moment it
// was fetched. It is overwritten whole on every successful refresh.
type CachedFeed struct {
	SourceID  string
	FetchedAt time.Time
	Videos    []VideoRecord
}

// Age returns how old the cached entry is at the given instant.
func (c CachedFeed) Age(now time.Time) time.Duration {
	return now.Sub(c.FetchedAt)
}
