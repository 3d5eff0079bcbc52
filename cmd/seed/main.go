package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"

	"github.com/easyq-blog/internal/config"
	"github.com/easyq-blog/internal/logger"
	"github.com/easyq-blog/internal/provider"
	"github.com/easyq-blog/internal/repository"

	"github.com/joho/godotenv"
)

// 将目录下的 Markdown 文章导入当前配置的存储，已存在的 slug 跳过
func main() {
	var sourceDir string
	var configPath string
	flag.StringVar(&sourceDir, "dir", "./posts", "Markdown 文章目录")
	flag.StringVar(&configPath, "config", "", "配置文件路径（默认按 ./, ../, ./etc 查找 config.yml）")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		os.Stderr.WriteString("load .env failed: " + err.Error() + "\n")
	}

	var cfg *config.Config
	if configPath != "" {
		cfg = config.LoadFile(configPath)
	} else {
		cfg = config.Load()
	}
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()

	stats, err := run(context.Background(), cfg, sourceDir)
	logger.Sync()
	if err != nil {
		stdLog.Fatalf("Seed failed: %v", err)
	}
	stdLog.Printf("Import finished: created=%d skipped=%d failed=%d", stats.Created, stats.Skipped, stats.Failed)
}

// run 打开源目录与目标存储并执行导入，返回前释放容器资源
func run(ctx context.Context, cfg *config.Config, sourceDir string) (stats importStats, err error) {
	source, err := repository.NewFilePostRepository(sourceDir)
	if err != nil {
		return stats, fmt.Errorf("open source dir: %w", err)
	}
	container, err := provider.NewContainer(cfg)
	if err != nil {
		return stats, fmt.Errorf("init storage: %w", err)
	}
	defer func() {
		if closeErr := container.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close storage: %w", closeErr)
		}
	}()

	stats, err = importPosts(ctx, source, container.PostRepo)
	if err != nil {
		return stats, fmt.Errorf("import: %w", err)
	}
	return stats, nil
}

type importStats struct {
	Created int
	Skipped int
	Failed  int
}

func importPosts(ctx context.Context, source, target repository.PostRepository) (importStats, error) {
	var stats importStats
	posts, err := source.List(ctx)
	if err != nil {
		return stats, err
	}
	for i := range posts {
		post := posts[i]
		post.UpdatedAt = nil
		err := target.Create(ctx, &post)
		switch {
		case err == nil:
			stats.Created++
			logger.Infow("seed_post_created", "slug", post.Slug)
		case errors.Is(err, repository.ErrPostExists):
			stats.Skipped++
			logger.Debugw("seed_post_exists", "slug", post.Slug)
		default:
			stats.Failed++
			logger.Warnw("seed_post_failed", "slug", post.Slug, "error", err)
		}
	}
	return stats, nil
}
