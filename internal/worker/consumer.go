package worker

import (
	"context"

	"github.com/easyq-blog/internal/logger"
	"github.com/easyq-blog/internal/provider"
	"github.com/easyq-blog/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskRevalidatePages, c.handleRevalidatePages)
}

// handleRevalidatePages 失败时返回错误交由 asynq 按 MaxRetry 重试
func (c *Consumer) handleRevalidatePages(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_revalidate_pages_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := queue.ParseRevalidatePagesPayload(task)
	if err != nil {
		logger.Warnw("worker_revalidate_pages_unmarshal_failed", "error", err)
		return asynq.SkipRetry
	}
	if c.Container == nil || c.RevalidationService == nil {
		logger.Warnw("worker_revalidate_pages_skip_service_nil", "slug", payload.Slug)
		return nil
	}
	if !c.RevalidationService.Enabled() {
		logger.Debugw("worker_revalidate_pages_skip_disabled", "slug", payload.Slug)
		return nil
	}
	if err := c.RevalidationService.Execute(ctx, payload.Slug); err != nil {
		logger.Warnw("worker_revalidate_pages_failed", "slug", payload.Slug, "error", err)
		return err
	}
	return nil
}
