package provider

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/easyq-blog/internal/cache"
	"github.com/easyq-blog/internal/config"
	"github.com/easyq-blog/internal/constants"
	"github.com/easyq-blog/internal/logger"
	"github.com/easyq-blog/internal/markdown"
	"github.com/easyq-blog/internal/models"
	"github.com/easyq-blog/internal/queue"
	"github.com/easyq-blog/internal/repository"
	"github.com/easyq-blog/internal/service"

	"gorm.io/gorm"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client
	DB          *gorm.DB

	// Repositories
	PostRepo repository.PostRepository

	// Services
	Renderer            markdown.Renderer
	RevalidationService *service.RevalidationService
	PostService         *service.PostService
	AuthService         *service.AuthService
}

// NewContainer 初始化容器，按 storage.backend 选择存储实现
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	var db *gorm.DB
	var repo repository.PostRepository
	switch cfg.Storage.Backend {
	case constants.StorageBackendDatabase:
		opened, err := openDatabase(cfg)
		if err != nil {
			return nil, err
		}
		db = opened
		repo = repository.NewGormPostRepository(db)
	case constants.StorageBackendFilesystem, "":
		fileRepo, err := repository.NewFilePostRepository(cfg.Storage.Filesystem.Dir)
		if err != nil {
			return nil, fmt.Errorf("init filesystem storage: %w", err)
		}
		repo = fileRepo
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", cfg.Storage.Backend)
	}
	logger.Infow("provider_storage_ready", "backend", cfg.Storage.Backend)

	c := NewContainerWithRepository(cfg, repo)
	c.DB = db
	return c, nil
}

// NewContainerWithRepository 使用给定的文章仓库组装服务
func NewContainerWithRepository(cfg *config.Config, repo repository.PostRepository) *Container {
	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
		PostRepo:    repo,
	}
	c.initServices()
	return c
}

func (c *Container) initServices() {
	c.Renderer = markdown.New(markdown.Options{Sanitize: c.Config.Markdown.Sanitize})
	c.RevalidationService = service.NewRevalidationService(c.Config.Revalidate, c.QueueClient)
	c.PostService = service.NewPostService(c.PostRepo, c.Renderer, c.RevalidationService)
	c.AuthService = service.NewAuthService(c.Config.Admin, c.Config.JWT)
}

// Close 释放容器持有的连接
func (c *Container) Close() error {
	var errs []error
	if err := c.QueueClient.Close(); err != nil {
		errs = append(errs, err)
	}
	if c.DB != nil {
		if sqlDB, err := c.DB.DB(); err == nil {
			errs = append(errs, sqlDB.Close())
		}
	}
	errs = append(errs, cache.Close())
	return errors.Join(errs...)
}

func openDatabase(cfg *config.Config) (*gorm.DB, error) {
	dbCfg := cfg.Storage.Database
	if isSQLiteDriver(dbCfg.Driver) {
		if err := ensureSQLiteDir(dbCfg.DSN); err != nil {
			return nil, err
		}
	}
	db, err := models.OpenDB(dbCfg.Driver, dbCfg.DSN, models.DBPoolConfig{
		MaxOpenConns:           dbCfg.Pool.MaxOpenConns,
		MaxIdleConns:           dbCfg.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: dbCfg.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: dbCfg.Pool.ConnMaxIdleTimeSeconds,
	}, cfg.Server.Mode == "debug")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return db, nil
}

func isSQLiteDriver(driver string) bool {
	driver = strings.ToLower(strings.TrimSpace(driver))
	return driver == "" || driver == "sqlite"
}

func ensureSQLiteDir(dsn string) error {
	path := strings.TrimPrefix(dsn, "file:")
	if idx := strings.Index(path, "?"); idx >= 0 {
		path = path[:idx]
	}
	if path == "" || path == ":memory:" || strings.Contains(dsn, "mode=memory") {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
