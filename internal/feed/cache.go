// Package feed wraps the platform fetchers with a time-boxed cache so
// browsing a channel or playlist does not re-issue network/API calls on
// every visit.
package feed

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/mediakeeper/internal/common"
	"github.com/dmitrijs2005/mediakeeper/internal/logging"
	"github.com/dmitrijs2005/mediakeeper/internal/models"
	"github.com/dmitrijs2005/mediakeeper/internal/repositories/feedcache"
)

// DefaultTTL is the cache lifetime applied until the user adjusts it.
const DefaultTTL = 8 * time.Hour

// AllowedTTLs are the user-selectable cache lifetimes.
var AllowedTTLs = []time.Duration{8 * time.Hour, 24 * time.Hour, 48 * time.Hour, 7 * 24 * time.Hour}

// ItemFetcher is the upstream the cache delegates live fetches to;
// platform.Registry satisfies it.
type ItemFetcher interface {
	FetchItems(ctx context.Context, src models.Source) ([]models.VideoRecord, error)
}

// Cache serves item lists from storage while they are fresh and refreshes
// them through the fetcher otherwise. A failed refresh never destroys the
// previously cached entry: stale-but-present data is preferred for
// continuity.
type Cache struct {
	repo    feedcache.Repository
	fetcher ItemFetcher
	logger  logging.Logger
	ttl     time.Duration

	// now is a test seam for clock control.
	now func() time.Time
}

// NewCache returns a Cache with DefaultTTL.
func NewCache(repo feedcache.Repository, fetcher ItemFetcher, logger logging.Logger) *Cache {
	return &Cache{
		repo:    repo,
		fetcher: fetcher,
		logger:  logger,
		ttl:     DefaultTTL,
		now:     time.Now,
	}
}

// SetTTL adjusts the cache lifetime. Values outside AllowedTTLs are ignored.
func (c *Cache) SetTTL(ttl time.Duration) {
	for _, allowed := range AllowedTTLs {
		if ttl == allowed {
			c.ttl = ttl
			return
		}
	}
	c.logger.Warn(context.Background(), "ignoring unsupported cache ttl", "ttl", ttl)
}

// TTL returns the current cache lifetime.
func (c *Cache) TTL() time.Duration {
	return c.ttl
}

// GetItems returns the source's item list. Channel and playlist sources are
// served from cache while the entry is younger than the TTL unless force is
// set; single-video sources always fetch live. A successful fetch
// overwrites the cache entry; a failed one surfaces the error and leaves
// any cached entry untouched.
func (c *Cache) GetItems(ctx context.Context, src models.Source, force bool) ([]models.VideoRecord, error) {
	cacheable := src.Cacheable()

	if cacheable && !force {
		cached, err := c.repo.Get(ctx, src.ID)
		if err == nil && cached.Age(c.now()) < c.ttl {
			return cached.Videos, nil
		}
		if err != nil && !errors.Is(err, common.ErrNotFound) {
			c.logger.Warn(ctx, "cache lookup failed, fetching live", "source", src.ID, "error", err)
		}
	}

	videos, err := c.fetcher.FetchItems(ctx, src)
	if err != nil {
		return nil, err
	}

	if cacheable {
		entry := &models.CachedFeed{SourceID: src.ID, FetchedAt: c.now(), Videos: videos}
		if err := c.repo.Put(ctx, entry); err != nil {
			c.logger.Warn(ctx, "failed to store cache entry", "source", src.ID, "error", err)
		}
	}
	return videos, nil
}
