package admin

import (
	"github.com/easyq-blog/internal/cache"
	"github.com/easyq-blog/internal/http/response"
	"github.com/easyq-blog/internal/service"

	"github.com/gin-gonic/gin"
)

// PostRequest 创建/更新文章请求，更新时需提交完整字段
type PostRequest struct {
	Slug     string   `json:"slug"`
	Title    string   `json:"title"`
	Excerpt  string   `json:"excerpt"`
	Content  string   `json:"content"`
	Category string   `json:"category"`
	Author   string   `json:"author"`
	Tags     []string `json:"tags"`
	Image    *string  `json:"image"`
}

// DeletePostRequest 删除文章请求
type DeletePostRequest struct {
	Slug string `json:"slug"`
}

func (r PostRequest) toInput() service.PostInput {
	return service.PostInput{
		Slug:     r.Slug,
		Title:    r.Title,
		Excerpt:  r.Excerpt,
		Content:  r.Content,
		Category: r.Category,
		Author:   r.Author,
		Tags:     r.Tags,
		Image:    r.Image,
	}
}

// CreatePost 创建文章
func (h *Handler) CreatePost(c *gin.Context) {
	var req PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "Invalid request body", nil)
		return
	}
	descriptor, err := h.PostService.CreatePost(c.Request.Context(), req.toInput())
	if err != nil {
		respondServiceError(c, err, "Internal server error")
		return
	}
	invalidatePages(c, descriptor.Slug)
	response.Created(c, "Post created successfully", descriptor)
}

// UpdatePost 全量更新文章
func (h *Handler) UpdatePost(c *gin.Context) {
	var req PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "Invalid request body", nil)
		return
	}
	descriptor, err := h.PostService.UpdatePost(c.Request.Context(), req.Slug, req.toInput())
	if err != nil {
		respondServiceError(c, err, "Internal server error")
		return
	}
	invalidatePages(c, descriptor.Slug)
	response.SuccessWithMsg(c, "Post updated successfully", descriptor)
}

// DeletePost 删除文章
func (h *Handler) DeletePost(c *gin.Context) {
	var req DeletePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "Slug is required for deletion", nil)
		return
	}
	result, err := h.PostService.DeletePost(c.Request.Context(), req.Slug)
	if err != nil {
		respondServiceError(c, err, "Internal server error")
		return
	}
	invalidatePages(c, result.Slug)
	response.SuccessWithMsg(c, "Post deleted successfully", result)
}

// invalidatePages 写操作成功后同步清理受影响的页面缓存，站点刷新通知仍异步进行
func invalidatePages(c *gin.Context, slug string) {
	if err := cache.InvalidatePages(c.Request.Context(), cache.RevalidatePaths(slug)...); err != nil {
		requestLog(c).Warnw("page_cache_invalidate_failed", "slug", slug, "error", err)
	}
}
