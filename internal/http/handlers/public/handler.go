package public

import (
	"time"

	"github.com/easyq-blog/internal/provider"
)

// Handler 公开接口处理器入口
type Handler struct {
	*provider.Container
}

// New 创建公开处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}

func (h *Handler) pageCacheTTL() time.Duration {
	if h.Config == nil {
		return 0
	}
	return time.Duration(h.Config.PageCache.TTLSeconds) * time.Second
}
