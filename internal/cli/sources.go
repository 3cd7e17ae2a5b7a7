package cli

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/mediakeeper/internal/dbx"
	"github.com/dmitrijs2005/mediakeeper/internal/models"
	"github.com/dmitrijs2005/mediakeeper/internal/repositories/feedcache"
	"github.com/dmitrijs2005/mediakeeper/internal/repositories/sources"
)

func (a *App) addSource(ctx context.Context) {
	if !a.requireLogin() {
		return
	}

	platformTag, err := getSimpleText(a.reader, "Platform (youtube/vimeo/dailymotion)", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}
	switch models.Platform(platformTag) {
	case models.PlatformYouTube, models.PlatformVimeo, models.PlatformDailymotion:
	default:
		fmt.Println("Unknown platform:", platformTag)
		return
	}

	kind, err := getSimpleText(a.reader, "Kind (channel/playlist/video)", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}
	switch models.SourceKind(kind) {
	case models.SourceKindChannel, models.SourceKindPlaylist, models.SourceKindVideo:
	default:
		fmt.Println("Unknown kind:", kind)
		return
	}

	ref, err := getSimpleText(a.reader, "Platform id (channel/playlist/video id)", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}
	title, err := getSimpleText(a.reader, "Title", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	src := &models.Source{
		ID:       uuid.NewString(),
		Platform: models.Platform(platformTag),
		Kind:     models.SourceKind(kind),
		Ref:      ref,
		Title:    title,
	}
	if err := a.repos.Sources.Create(ctx, src); err != nil {
		log.Printf("error: %v", err)
		return
	}
	fmt.Println("Added", src.ID)
}

func (a *App) listSources(ctx context.Context) {
	if !a.requireLogin() {
		return
	}

	srcs, err := a.repos.Sources.GetAll(ctx)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}
	if len(srcs) == 0 {
		fmt.Println("No sources yet; use 'addsource'")
		return
	}
	for _, s := range srcs {
		fmt.Printf("%s  [%s/%s] %s\n", s.ID, s.Platform, s.Kind, s.Title)
	}
}

// removeSource deletes a source together with its cached feed in one
// transaction, so a crash cannot leave an orphaned cache entry behind.
func (a *App) removeSource(ctx context.Context, args []string) {
	if !a.requireLogin() {
		return
	}
	if len(args) == 0 {
		fmt.Println("Usage: rmsource <source-id>")
		return
	}
	id := args[0]

	err := dbx.WithTx(ctx, a.repos.DB, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := sources.NewSQLiteRepository(tx).DeleteByID(ctx, id); err != nil {
			return err
		}
		return feedcache.NewSQLiteRepository(tx).Delete(ctx, id)
	})
	if err != nil {
		log.Printf("error: %v", err)
		return
	}
	fmt.Println("Removed", id)
}

func (a *App) showItems(ctx context.Context, args []string) {
	if !a.requireLogin() {
		return
	}
	if len(args) == 0 {
		fmt.Println("Usage: items <source-id> [force]")
		return
	}
	force := len(args) > 1 && args[1] == "force"

	src, err := a.repos.Sources.GetByID(ctx, args[0])
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	videos, err := a.cache.GetItems(ctx, *src, force)
	if err != nil {
		fmt.Println(friendlyError(err))
		return
	}
	for _, v := range videos {
		fmt.Printf("%s  %s  (%s)\n", v.PublishedAt.Format("2006-01-02"), v.Title, v.Link)
	}
}
