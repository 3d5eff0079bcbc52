package cache

import (
	"context"
	"strings"
	"time"

	"github.com/easyq-blog/internal/constants"
)

// PagePostKey 文章详情页路径
func PagePostKey(slug string) string {
	return constants.PageBlogPost + strings.TrimSpace(slug)
}

func pageCacheKey(path string) string {
	return "page:" + path
}

// GetPage 读取页面缓存
func GetPage(ctx context.Context, path string, dest interface{}) (bool, error) {
	return GetJSON(ctx, pageCacheKey(path), dest)
}

// SetPage 写入页面缓存
func SetPage(ctx context.Context, path string, value interface{}, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return SetJSON(ctx, pageCacheKey(path), value, ttl)
}

// RevalidatePaths 返回一次刷新需要失效的页面：首页、博客列表，以及指定文章页
func RevalidatePaths(slug string) []string {
	paths := []string{constants.PageHome, constants.PageBlogIndex}
	if slug = strings.TrimSpace(slug); slug != "" {
		paths = append(paths, PagePostKey(slug))
	}
	return paths
}

// InvalidatePages 删除页面缓存
func InvalidatePages(ctx context.Context, paths ...string) error {
	keys := make([]string, 0, len(paths))
	for _, path := range paths {
		keys = append(keys, pageCacheKey(path))
	}
	return Del(ctx, keys...)
}
