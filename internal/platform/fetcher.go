// Package platform implements the per-platform item fetchers behind a
// uniform capability interface. Selection is a tag dispatch on the source's
// Platform field, not inheritance; credentials are pushed into fetchers via
// explicit setters so they stay agnostic of where secrets are stored.
package platform

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/mediakeeper/internal/models"
	"github.com/dmitrijs2005/mediakeeper/internal/proxy"
)

// Fetcher retrieves the current item list for a source.
type Fetcher interface {
	FetchItems(ctx context.Context, src models.Source) ([]models.VideoRecord, error)
}

// TextProxy is the slice of the proxy chain the fetchers need for
// relay-assisted fetches (RSS fallback paths).
type TextProxy interface {
	FetchText(ctx context.Context, target string) (string, proxy.Tier, error)
}

// Registry maps platform tags to their fetcher implementations.
type Registry struct {
	fetchers map[models.Platform]Fetcher
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{fetchers: make(map[models.Platform]Fetcher)}
}

// Register binds a fetcher to a platform tag, replacing any previous one.
func (r *Registry) Register(p models.Platform, f Fetcher) {
	r.fetchers[p] = f
}

// FetchItems dispatches to the fetcher registered for the source's platform.
func (r *Registry) FetchItems(ctx context.Context, src models.Source) ([]models.VideoRecord, error) {
	f, ok := r.fetchers[src.Platform]
	if !ok {
		return nil, fmt.Errorf("no fetcher registered for platform %q", src.Platform)
	}
	return f.FetchItems(ctx, src)
}
