package queue

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/easyq-blog/internal/config"
	"github.com/easyq-blog/internal/constants"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

// DefaultQueue 默认队列名称
const DefaultQueue = constants.QueueDefault

const (
	defaultConcurrency = 4
	defaultRedisHost   = "127.0.0.1"
	defaultRedisPort   = 6379
	pingTimeout        = 3 * time.Second
)

// Client 队列客户端封装，未启用时所有投递都是空操作
type Client struct {
	client       *asynq.Client
	defaultQueue string
}

// NewClient 创建队列客户端并检查 Redis 连通性
func NewClient(cfg *config.QueueConfig) (*Client, error) {
	if cfg == nil || !cfg.Enabled {
		return &Client{defaultQueue: DefaultQueue}, nil
	}
	opt := buildRedisOpt(cfg)
	if err := pingRedis(opt); err != nil {
		return nil, fmt.Errorf("queue redis unreachable: %w", err)
	}
	return &Client{client: asynq.NewClient(opt), defaultQueue: DefaultQueue}, nil
}

// Enabled 判断是否启用
func (c *Client) Enabled() bool {
	return c != nil && c.client != nil
}

// Close 关闭客户端
func (c *Client) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}

// EnqueueRevalidatePages 推送页面刷新任务
func (c *Client) EnqueueRevalidatePages(payload RevalidatePagesPayload, opts ...asynq.Option) error {
	if !c.Enabled() {
		return nil
	}
	task, err := NewRevalidatePagesTask(payload)
	if err != nil {
		return err
	}
	options := append([]asynq.Option{asynq.Queue(c.defaultQueue), asynq.MaxRetry(revalidateMaxRetry)}, opts...)
	_, err = c.client.Enqueue(task, options...)
	return err
}

// BuildServerConfig 生成队列服务配置
func BuildServerConfig(cfg *config.QueueConfig) (asynq.RedisClientOpt, asynq.Config) {
	serverCfg := asynq.Config{
		Concurrency: defaultConcurrency,
		Queues:      map[string]int{DefaultQueue: 1},
	}
	if cfg != nil {
		if cfg.Concurrency > 0 {
			serverCfg.Concurrency = cfg.Concurrency
		}
		if len(cfg.Queues) > 0 {
			serverCfg.Queues = cfg.Queues
		}
	}
	return buildRedisOpt(cfg), serverCfg
}

func buildRedisOpt(cfg *config.QueueConfig) asynq.RedisClientOpt {
	opt := asynq.RedisClientOpt{Addr: fmt.Sprintf("%s:%d", defaultRedisHost, defaultRedisPort)}
	if cfg == nil {
		return opt
	}
	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		host = defaultRedisHost
	}
	port := cfg.Port
	if port <= 0 {
		port = defaultRedisPort
	}
	opt.Addr = fmt.Sprintf("%s:%d", host, port)
	opt.Password = cfg.Password
	opt.DB = cfg.DB
	return opt
}

func pingRedis(opt asynq.RedisClientOpt) error {
	client := redis.NewClient(&redis.Options{Addr: opt.Addr, Password: opt.Password, DB: opt.DB})
	defer client.Close()
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return client.Ping(ctx).Err()
}
