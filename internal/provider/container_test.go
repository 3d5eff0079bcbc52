package provider

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/easyq-blog/internal/config"
	"github.com/easyq-blog/internal/constants"
	"github.com/easyq-blog/internal/repository"
	"github.com/easyq-blog/internal/service"
)

func TestNewContainerFilesystemBackend(t *testing.T) {
	cfg := &config.Config{}
	cfg.Storage.Backend = constants.StorageBackendFilesystem
	cfg.Storage.Filesystem.Dir = filepath.Join(t.TempDir(), "posts")

	c, err := NewContainer(cfg)
	if err != nil {
		t.Fatalf("new container failed: %v", err)
	}
	defer c.Close()

	if _, ok := c.PostRepo.(*repository.FilePostRepository); !ok {
		t.Fatalf("filesystem backend should use FilePostRepository, got %T", c.PostRepo)
	}
	if c.DB != nil {
		t.Fatalf("filesystem backend should not open a database")
	}
	if c.PostService == nil || c.AuthService == nil || c.RevalidationService == nil || c.Renderer == nil {
		t.Fatalf("services should be initialized")
	}
	if c.QueueClient.Enabled() {
		t.Fatalf("queue should stay disabled")
	}
}

func TestNewContainerDatabaseBackend(t *testing.T) {
	cfg := &config.Config{}
	cfg.Storage.Backend = constants.StorageBackendDatabase
	cfg.Storage.Database.Driver = "sqlite"
	cfg.Storage.Database.DSN = fmt.Sprintf("file:provider_test_%d?mode=memory&cache=shared", time.Now().UnixNano())

	c, err := NewContainer(cfg)
	if err != nil {
		t.Fatalf("new container failed: %v", err)
	}
	defer c.Close()

	if c.DB == nil {
		t.Fatalf("database backend should keep the gorm handle")
	}
	if _, ok := c.PostRepo.(*repository.GormPostRepository); !ok {
		t.Fatalf("database backend should use GormPostRepository, got %T", c.PostRepo)
	}

	ctx := context.Background()
	if _, err := c.PostService.CreatePost(ctx, service.PostInput{Title: "Wired", Content: "body"}); err != nil {
		t.Fatalf("create through container failed: %v", err)
	}
	if got := c.PostService.ListPosts(ctx); len(got) != 1 || got[0].Slug != "wired" {
		t.Fatalf("unexpected posts: %+v", got)
	}
}

func TestNewContainerRejectsUnknownBackend(t *testing.T) {
	cfg := &config.Config{}
	cfg.Storage.Backend = "firestore"
	if _, err := NewContainer(cfg); err == nil {
		t.Fatalf("unknown backend should fail")
	}
}

func TestNewContainerNilConfig(t *testing.T) {
	if _, err := NewContainer(nil); err == nil {
		t.Fatalf("nil config should fail")
	}
}
