package sources

import (
	"context"

	"github.com/dmitrijs2005/mediakeeper/internal/models"
)

// Repository persists bookmarked sources (channels, playlists, videos).
type Repository interface {
	// Create inserts a new source.
	Create(ctx context.Context, src *models.Source) error

	// GetByID returns a source by id, or common.ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.Source, error)

	// GetAll lists every bookmarked source.
	GetAll(ctx context.Context) ([]models.Source, error)

	// DeleteByID removes a source. It expects exactly one row to be affected.
	DeleteByID(ctx context.Context, id string) error
}
