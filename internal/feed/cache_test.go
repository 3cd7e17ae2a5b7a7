package feed

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/dmitrijs2005/mediakeeper/internal/common"
	"github.com/dmitrijs2005/mediakeeper/internal/logging"
	"github.com/dmitrijs2005/mediakeeper/internal/models"
	"github.com/dmitrijs2005/mediakeeper/internal/repositories/feedcache"
)

func setupRepo(t *testing.T) feedcache.Repository {
	t.Helper()
	db, err := sql.Open("sqlite", "file:feedtest?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS feed_cache (
  source_id  TEXT PRIMARY KEY,
  fetched_at INTEGER NOT NULL,
  videos     TEXT NOT NULL
)`)
	require.NoError(t, err)
	_, err = db.Exec(`DELETE FROM feed_cache`)
	require.NoError(t, err)

	return feedcache.NewSQLiteRepository(db)
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// fakeFetcher counts calls and returns a configurable result.
type fakeFetcher struct {
	calls  int
	videos []models.VideoRecord
	err    error
}

func (f *fakeFetcher) FetchItems(ctx context.Context, src models.Source) ([]models.VideoRecord, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.videos, nil
}

func channelSource() models.Source {
	return models.Source{
		ID:       "src-1",
		Platform: models.PlatformYouTube,
		Kind:     models.SourceKindChannel,
		Ref:      "UCabc",
	}
}

func someVideos(title string) []models.VideoRecord {
	return []models.VideoRecord{{
		ID:       "v1",
		Title:    title,
		Link:     "https://www.youtube.com/watch?v=v1",
		Platform: models.PlatformYouTube,
	}}
}

func TestGetItems_ServesFromCacheInsideTTL(t *testing.T) {
	ctx := context.Background()
	fetcher := &fakeFetcher{videos: someVideos("first")}
	c := NewCache(setupRepo(t), fetcher, testLogger())

	now := time.Now()
	c.now = func() time.Time { return now }

	first, err := c.GetItems(ctx, channelSource(), false)
	require.NoError(t, err)
	require.Equal(t, 1, fetcher.calls)

	// Second read an hour later: still fresh, no new network call.
	now = now.Add(time.Hour)
	second, err := c.GetItems(ctx, channelSource(), false)
	require.NoError(t, err)
	assert.Equal(t, 1, fetcher.calls)
	assert.Equal(t, first, second)
}

func TestGetItems_RefetchesAfterTTLExpiry(t *testing.T) {
	ctx := context.Background()
	fetcher := &fakeFetcher{videos: someVideos("first")}
	c := NewCache(setupRepo(t), fetcher, testLogger())

	now := time.Now()
	c.now = func() time.Time { return now }

	_, err := c.GetItems(ctx, channelSource(), false)
	require.NoError(t, err)

	now = now.Add(DefaultTTL + time.Minute)
	fetcher.videos = someVideos("second")

	videos, err := c.GetItems(ctx, channelSource(), false)
	require.NoError(t, err)
	assert.Equal(t, 2, fetcher.calls)
	assert.Equal(t, "second", videos[0].Title)
}

func TestGetItems_ForceBypassesCache(t *testing.T) {
	ctx := context.Background()
	fetcher := &fakeFetcher{videos: someVideos("first")}
	c := NewCache(setupRepo(t), fetcher, testLogger())

	_, err := c.GetItems(ctx, channelSource(), false)
	require.NoError(t, err)

	fetcher.videos = someVideos("second")
	videos, err := c.GetItems(ctx, channelSource(), true)
	require.NoError(t, err)
	assert.Equal(t, 2, fetcher.calls)
	assert.Equal(t, "second", videos[0].Title)
}

func TestGetItems_FailedRefreshKeepsCachedEntry(t *testing.T) {
	ctx := context.Background()
	repo := setupRepo(t)
	fetcher := &fakeFetcher{videos: someVideos("good")}
	c := NewCache(repo, fetcher, testLogger())

	now := time.Now()
	c.now = func() time.Time { return now }

	_, err := c.GetItems(ctx, channelSource(), false)
	require.NoError(t, err)

	before, err := repo.Get(ctx, "src-1")
	require.NoError(t, err)

	// Expire the entry and make the refresh fail.
	now = now.Add(DefaultTTL + time.Minute)
	fetcher.err = errors.New("network down")

	_, err = c.GetItems(ctx, channelSource(), false)
	assert.Error(t, err)

	after, err := repo.Get(ctx, "src-1")
	require.NoError(t, err)
	assert.Equal(t, before.FetchedAt, after.FetchedAt, "failed refresh must not touch the cache")
	assert.Equal(t, before.Videos, after.Videos)
}

func TestGetItems_VideoKindIsNeverCached(t *testing.T) {
	ctx := context.Background()
	repo := setupRepo(t)
	fetcher := &fakeFetcher{videos: someVideos("clip")}
	c := NewCache(repo, fetcher, testLogger())

	src := models.Source{ID: "src-v", Platform: models.PlatformYouTube, Kind: models.SourceKindVideo, Ref: "v1"}

	_, err := c.GetItems(ctx, src, false)
	require.NoError(t, err)
	_, err = c.GetItems(ctx, src, false)
	require.NoError(t, err)

	assert.Equal(t, 2, fetcher.calls, "single items always fetch live")
	_, err = repo.Get(ctx, "src-v")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestSetTTL(t *testing.T) {
	c := NewCache(setupRepo(t), &fakeFetcher{}, testLogger())

	c.SetTTL(24 * time.Hour)
	assert.Equal(t, 24*time.Hour, c.TTL())

	// Unsupported values are ignored.
	c.SetTTL(3 * time.Minute)
	assert.Equal(t, 24*time.Hour, c.TTL())
}
