package feedcache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/mediakeeper/internal/common"
	"github.com/dmitrijs2005/mediakeeper/internal/dbx"
	"github.com/dmitrijs2005/mediakeeper/internal/models"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
// The item list is stored as a JSON array, the fetch time as epoch millis.
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Get(ctx context.Context, sourceID string) (*models.CachedFeed, error) {
	var (
		fetchedAt int64
		videos    string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT fetched_at, videos FROM feed_cache WHERE source_id = ?`, sourceID).
		Scan(&fetchedAt, &videos)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cached feed[%s]: %w", sourceID, err)
	}

	feed := &models.CachedFeed{
		SourceID:  sourceID,
		FetchedAt: time.UnixMilli(fetchedAt),
	}
	if err := json.Unmarshal([]byte(videos), &feed.Videos); err != nil {
		return nil, fmt.Errorf("%w: corrupted cache entry[%s]: %v", common.ErrDecoding, sourceID, err)
	}
	return feed, nil
}

func (r *SQLiteRepository) Put(ctx context.Context, feed *models.CachedFeed) error {
	videos, err := json.Marshal(feed.Videos)
	if err != nil {
		return fmt.Errorf("failed to encode cached feed[%s]: %w", feed.SourceID, err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO feed_cache (source_id, fetched_at, videos) VALUES (?, ?, ?)
		ON CONFLICT(source_id) DO UPDATE SET fetched_at = excluded.fetched_at, videos = excluded.videos
	`, feed.SourceID, feed.FetchedAt.UnixMilli(), string(videos))
	if err != nil {
		return fmt.Errorf("failed to put cached feed[%s]: %w", feed.SourceID, err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, sourceID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM feed_cache WHERE source_id = ?`, sourceID)
	if err != nil {
		return fmt.Errorf("failed to delete cached feed[%s]: %w", sourceID, err)
	}
	return nil
}
