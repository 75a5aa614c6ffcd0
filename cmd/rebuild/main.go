package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/publishing-content-api/internal/config"
	"github.com/publishing-content-api/internal/database"
	"github.com/publishing-content-api/internal/repository"
	"github.com/publishing-content-api/internal/service"
	"github.com/publishing-content-api/internal/staticpage"
	"github.com/publishing-content-api/internal/storage"
	"github.com/publishing-content-api/pkg/logger"
)

// The rebuild tool regenerates every static page from the database. It is
// the recovery path after filesystem failures or manual edits left pages out
// of sync, and with -delete-unpublished it also removes pages of content
// that is no longer published.
func main() {
	deleteUnpublished := flag.Bool("delete-unpublished", false, "also delete pages of unpublished content")
	flag.Parse()

	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	repos := repository.New(db)
	pages := staticpage.New(cfg.Site.GeneratedPagesRoot, log)
	uploader := storage.NewS3Gateway(&cfg.Storage, log)
	services := service.NewServices(repos, pages, uploader, cfg, log)

	ctx := context.Background()

	rebuilt, deleted, err := services.Article.RebuildPages(ctx, *deleteUnpublished)
	if err != nil {
		log.Error().Err(err).Msg("Article rebuild failed")
		os.Exit(1)
	}

	projectsRebuilt, projectsDeleted, err := services.Project.RebuildPages(ctx, *deleteUnpublished)
	if err != nil {
		log.Error().Err(err).Msg("Project rebuild failed")
		os.Exit(1)
	}

	fmt.Printf("Rebuilt: %d, deleted: %d\n", rebuilt+projectsRebuilt, deleted+projectsDeleted)
}
