package public

import (
	"crypto/subtle"
	"strings"

	"github.com/easyq-blog/internal/cache"
	handlershared "github.com/easyq-blog/internal/http/handlers/shared"
	"github.com/easyq-blog/internal/http/response"

	"github.com/gin-gonic/gin"
)

// Revalidate 失效首页、博客列表以及指定文章页的缓存
func (h *Handler) Revalidate(c *gin.Context) {
	expected := strings.TrimSpace(h.Config.Revalidate.Secret)
	secret := c.Query("secret")
	if expected == "" || subtle.ConstantTimeCompare([]byte(secret), []byte(expected)) != 1 {
		response.Unauthorized(c, "Invalid token")
		return
	}
	slug := strings.TrimSpace(c.Query("slug"))
	paths := cache.RevalidatePaths(slug)
	if err := cache.InvalidatePages(c.Request.Context(), paths...); err != nil {
		handlershared.RespondError(c, response.CodeInternal, "Error revalidating", err)
		return
	}
	handlershared.RequestLog(c).Infow("revalidate_pages", "slug", slug, "paths", paths)
	response.Success(c, gin.H{"revalidated": true, "paths": paths})
}

// Healthz 存活检查
func (h *Handler) Healthz(c *gin.Context) {
	response.Success(c, gin.H{
		"status":  "ok",
		"storage": h.Config.Storage.Backend,
		"cache":   cache.Enabled(),
	})
}
