package feedcache

import (
	"context"

	"github.com/dmitrijs2005/mediakeeper/internal/models"
)

// Repository persists cached feed item lists, one row per source.
type Repository interface {
	// Get returns the cached feed for sourceID, or common.ErrNotFound.
	Get(ctx context.Context, sourceID string) (*models.CachedFeed, error)

	// Put overwrites the cached feed for its source id.
	Put(ctx context.Context, feed *models.CachedFeed) error

	// Delete removes a cache entry. Deleting an absent entry is not an error.
	Delete(ctx context.Context, sourceID string) error
}
