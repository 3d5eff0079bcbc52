package public

import (
	"strings"

	"github.com/easyq-blog/internal/cache"
	"github.com/easyq-blog/internal/constants"
	handlershared "github.com/easyq-blog/internal/http/handlers/shared"
	"github.com/easyq-blog/internal/http/response"
	"github.com/easyq-blog/internal/models"

	"github.com/gin-gonic/gin"
)

// ListPosts 文章列表
func (h *Handler) ListPosts(c *gin.Context) {
	ctx := c.Request.Context()
	var posts []models.PostView
	if hit, err := cache.GetPage(ctx, constants.PageBlogIndex, &posts); err == nil && hit {
		response.Success(c, posts)
		return
	} else if err != nil {
		handlershared.RequestLog(c).Warnw("page_cache_get_failed", "path", constants.PageBlogIndex, "error", err)
	}
	posts = h.PostService.ListPosts(ctx)
	h.storePage(c, constants.PageBlogIndex, posts)
	response.Success(c, posts)
}

// GetPost 文章详情（含渲染后的 HTML）
func (h *Handler) GetPost(c *gin.Context) {
	ctx := c.Request.Context()
	slug := strings.TrimSpace(c.Param("slug"))
	path := cache.PagePostKey(slug)
	var cached models.PostView
	if hit, err := cache.GetPage(ctx, path, &cached); err == nil && hit {
		response.Success(c, cached)
		return
	} else if err != nil {
		handlershared.RequestLog(c).Warnw("page_cache_get_failed", "path", path, "error", err)
	}
	post := h.PostService.GetPost(ctx, slug)
	if post == nil {
		response.NotFound(c, "Post not found")
		return
	}
	h.storePage(c, path, post)
	response.Success(c, post)
}

// Home 首页数据：最新的几篇文章
func (h *Handler) Home(c *gin.Context) {
	ctx := c.Request.Context()
	var data gin.H
	if hit, err := cache.GetPage(ctx, constants.PageHome, &data); err == nil && hit {
		response.Success(c, data)
		return
	} else if err != nil {
		handlershared.RequestLog(c).Warnw("page_cache_get_failed", "path", constants.PageHome, "error", err)
	}
	data = gin.H{"latest_posts": h.PostService.LatestPosts(ctx, constants.HomeLatestPostCount)}
	h.storePage(c, constants.PageHome, data)
	response.Success(c, data)
}

func (h *Handler) storePage(c *gin.Context, path string, value interface{}) {
	if err := cache.SetPage(c.Request.Context(), path, value, h.pageCacheTTL()); err != nil {
		handlershared.RequestLog(c).Warnw("page_cache_set_failed", "path", path, "error", err)
	}
}
