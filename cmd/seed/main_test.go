package main

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/easyq-blog/internal/config"
	"github.com/easyq-blog/internal/constants"
	"github.com/easyq-blog/internal/models"
	"github.com/easyq-blog/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func TestImportPostsCopiesAndSkipsExisting(t *testing.T) {
	ctx := context.Background()
	source, err := repository.NewFilePostRepository(filepath.Join(t.TempDir(), "posts"))
	if err != nil {
		t.Fatalf("create source repo failed: %v", err)
	}
	created := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	for i, slug := range []string{"alpha", "beta"} {
		post := &models.Post{
			Slug:      slug,
			Title:     slug,
			Excerpt:   "e",
			Content:   "# " + slug,
			CreatedAt: created.Add(time.Duration(i) * time.Hour),
		}
		if err := source.Create(ctx, post); err != nil {
			t.Fatalf("seed source failed: %v", err)
		}
	}

	dsn := fmt.Sprintf("file:seed_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	target := repository.NewGormPostRepository(db)
	if err := target.Create(ctx, &models.Post{Slug: "alpha", Title: "existing", Excerpt: "e", Content: "c"}); err != nil {
		t.Fatalf("seed target failed: %v", err)
	}

	stats, err := importPosts(ctx, source, target)
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if stats.Created != 1 || stats.Skipped != 1 || stats.Failed != 0 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	beta, err := target.GetBySlug(ctx, "beta")
	if err != nil || beta == nil {
		t.Fatalf("beta should be imported, err=%v", err)
	}
	if !beta.CreatedAt.Equal(created.Add(time.Hour)) {
		t.Fatalf("creation time should be preserved, got %v", beta.CreatedAt)
	}
	alpha, _ := target.GetBySlug(ctx, "alpha")
	if alpha.Title != "existing" {
		t.Fatalf("existing post should be left untouched")
	}
}

func TestRunImportsIntoConfiguredStore(t *testing.T) {
	ctx := context.Background()
	sourceDir := filepath.Join(t.TempDir(), "source")
	source, err := repository.NewFilePostRepository(sourceDir)
	if err != nil {
		t.Fatalf("create source repo failed: %v", err)
	}
	if err := source.Create(ctx, &models.Post{Slug: "gamma", Title: "Gamma", Excerpt: "e", Content: "c"}); err != nil {
		t.Fatalf("seed source failed: %v", err)
	}

	cfg := &config.Config{}
	cfg.Storage.Backend = constants.StorageBackendFilesystem
	cfg.Storage.Filesystem.Dir = filepath.Join(t.TempDir(), "target")

	stats, err := run(ctx, cfg, sourceDir)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if stats.Created != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	target, err := repository.NewFilePostRepository(cfg.Storage.Filesystem.Dir)
	if err != nil {
		t.Fatalf("open target failed: %v", err)
	}
	if got, _ := target.GetBySlug(ctx, "gamma"); got == nil {
		t.Fatalf("gamma should be imported")
	}
}

func TestRunReturnsStorageError(t *testing.T) {
	cfg := &config.Config{}
	cfg.Storage.Backend = "firestore"
	if _, err := run(context.Background(), cfg, t.TempDir()); err == nil {
		t.Fatalf("unknown backend should fail")
	}
}
