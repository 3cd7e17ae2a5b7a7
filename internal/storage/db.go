// Package storage opens the local vault database and wires up the
// repositories. The vault is a single sqlite file; the single-user-per-
// database assumption means there is no tenant scoping inside it.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/dmitrijs2005/mediakeeper/internal/migrations"
	"github.com/dmitrijs2005/mediakeeper/internal/repositories/feedcache"
	"github.com/dmitrijs2005/mediakeeper/internal/repositories/settings"
	"github.com/dmitrijs2005/mediakeeper/internal/repositories/sources"
	"github.com/dmitrijs2005/mediakeeper/internal/repositories/users"
)

// Repositories bundles all vault repositories plus the underlying handle
// for transactional flows.
type Repositories struct {
	Users     users.Repository
	Settings  settings.Repository
	Sources   sources.Repository
	FeedCache feedcache.Repository
	DB        *sql.DB
}

// RunMigrations applies the embedded goose migrations.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens (creating if needed) the vault database at dsn,
// migrates it and returns the repository set.
func InitDatabase(ctx context.Context, dsn string) (*Repositories, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Repositories{
		Users:     users.NewSQLiteRepository(db),
		Settings:  settings.NewSQLiteRepository(db),
		Sources:   sources.NewSQLiteRepository(db),
		FeedCache: feedcache.NewSQLiteRepository(db),
		DB:        db,
	}, nil
}
