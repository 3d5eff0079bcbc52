package admin

import "github.com/easyq-blog/internal/provider"

// Handler 后台管理接口处理器入口
// 说明：写操作路由必须挂在管理员鉴权中间件之后。
type Handler struct {
	*provider.Container
}

// New 创建后台处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
