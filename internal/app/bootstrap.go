package app

import (
	"errors"

	"github.com/easyq-blog/internal/config"
	"github.com/easyq-blog/internal/provider"
	"github.com/easyq-blog/internal/router"
	"github.com/easyq-blog/internal/worker"
)

// BuildRunner 构建服务运行器
func BuildRunner(cfg *config.Config, mode string) (*Runner, *provider.Container, error) {
	if cfg == nil {
		return nil, nil, errors.New("config is nil")
	}
	if !isValidMode(mode) {
		return nil, nil, errors.New("unknown mode: " + mode)
	}

	container, err := provider.NewContainer(cfg)
	if err != nil {
		return nil, nil, err
	}

	var services []Service

	// HTTP 服务
	if mode == ModeAll || mode == ModeAPI {
		engine := router.SetupRouter(cfg, container)
		services = append(services, NewHTTPService(listenAddr(cfg), engine))
	}

	// Worker 服务，all 模式下队列未启用时由后台 goroutine 兜底刷新
	if mode == ModeWorker || (mode == ModeAll && cfg.Queue.Enabled) {
		workerService, err := worker.NewService(&cfg.Queue, worker.NewConsumer(container))
		if err != nil {
			_ = container.Close()
			return nil, nil, err
		}
		services = append(services, workerService)
	}

	if len(services) == 0 {
		_ = container.Close()
		return nil, nil, errors.New("no services initialized (check mode and config)")
	}

	return NewRunner(services...), container, nil
}

// Run 应用启动入口
func Run(opts Options) error {
	opts = normalizeOptions(opts)
	if opts.Config == nil {
		return errors.New("config is nil")
	}

	runner, container, err := BuildRunner(opts.Config, opts.Mode)
	if err != nil {
		return err
	}
	defer func() {
		if err := container.Close(); err != nil {
			opts.Logger.Warnw("app_close_container_failed", "error", err)
		}
	}()

	opts.Logger.Infow("app_start",
		"addr", listenAddr(opts.Config),
		"mode", opts.Mode,
		"storage_backend", opts.Config.Storage.Backend,
		"queue_enabled", opts.Config.Queue.Enabled,
		"redis_enabled", opts.Config.Redis.Enabled,
	)
	return RunWithOptions(runner, opts)
}

func listenAddr(cfg *config.Config) string {
	return cfg.Server.Host + ":" + cfg.Server.Port
}

func isValidMode(mode string) bool {
	switch mode {
	case ModeAll, ModeAPI, ModeWorker:
		return true
	default:
		return false
	}
}
