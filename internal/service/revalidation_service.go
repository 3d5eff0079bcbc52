package service

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/easyq-blog/internal/config"
	"github.com/easyq-blog/internal/logger"
	"github.com/easyq-blog/internal/queue"
)

const defaultRevalidateTimeout = 5 * time.Second

// RevalidationNotifier 页面刷新通知，调用方不会被阻塞也不会收到错误
type RevalidationNotifier interface {
	Notify(slug string)
}

// NopNotifier 不做任何事的通知器
type NopNotifier struct{}

// Notify 空实现
func (NopNotifier) Notify(string) {}

// RevalidationService 通过 /revalidate 接口刷新首页、博客列表与文章页
type RevalidationService struct {
	cfg        config.RevalidateConfig
	queue      *queue.Client
	httpClient *http.Client
}

// NewRevalidationService 创建刷新通知服务，queueClient 可为空
func NewRevalidationService(cfg config.RevalidateConfig, queueClient *queue.Client) *RevalidationService {
	return &RevalidationService{
		cfg:        cfg,
		queue:      queueClient,
		httpClient: &http.Client{Timeout: resolveRevalidateTimeout(cfg.TimeoutMS)},
	}
}

// Enabled 未配置 secret 时整体跳过
func (s *RevalidationService) Enabled() bool {
	return s != nil && strings.TrimSpace(s.cfg.Secret) != ""
}

// Notify 投递刷新任务，队列不可用时退化为后台 goroutine
func (s *RevalidationService) Notify(slug string) {
	if !s.Enabled() {
		logger.Debugw("revalidate_skip_no_secret", "slug", slug)
		return
	}
	if s.queue != nil && s.queue.Enabled() {
		err := s.queue.EnqueueRevalidatePages(queue.RevalidatePagesPayload{Slug: slug})
		if err == nil {
			return
		}
		logger.Warnw("revalidate_enqueue_failed", "slug", slug, "error", err)
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.httpClient.Timeout*2)
		defer cancel()
		_ = s.Execute(ctx, slug)
	}()
}

// Execute 同步执行刷新请求：先刷新首页与列表，有 slug 时再刷新文章页
func (s *RevalidationService) Execute(ctx context.Context, slug string) error {
	if !s.Enabled() {
		return nil
	}
	if err := s.call(ctx, ""); err != nil {
		logger.Warnw("revalidate_failed", "slug", "", "error", err)
		return err
	}
	if strings.TrimSpace(slug) == "" {
		return nil
	}
	if err := s.call(ctx, slug); err != nil {
		logger.Warnw("revalidate_failed", "slug", slug, "error", err)
		return err
	}
	logger.Debugw("revalidate_done", "slug", slug)
	return nil
}

func (s *RevalidationService) call(ctx context.Context, slug string) error {
	target := s.buildURL(slug)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return err
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("revalidate returned status %d", resp.StatusCode)
	}
	return nil
}

func (s *RevalidationService) buildURL(slug string) string {
	base := strings.TrimRight(strings.TrimSpace(s.cfg.BaseURL), "/")
	query := url.Values{}
	query.Set("secret", s.cfg.Secret)
	if slug = strings.TrimSpace(slug); slug != "" {
		query.Set("slug", slug)
	}
	return base + "/revalidate?" + query.Encode()
}

func resolveRevalidateTimeout(ms int) time.Duration {
	if ms <= 0 {
		return defaultRevalidateTimeout
	}
	return time.Duration(ms) * time.Millisecond
}
