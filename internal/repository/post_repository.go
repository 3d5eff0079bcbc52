package repository

import (
	"context"
	"errors"
	"regexp"

	"github.com/easyq-blog/internal/models"
)

var (
	// ErrPostNotFound 文章不存在
	ErrPostNotFound = errors.New("post not found")
	// ErrPostExists slug 已被占用
	ErrPostExists = errors.New("post already exists")
	// ErrInvalidSlug slug 不能作为存储键
	ErrInvalidSlug = errors.New("invalid slug")
)

var storageKeyPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)

// PostRepository 文章存储接口，文件与数据库两种实现二选一
type PostRepository interface {
	// List 按创建时间倒序返回全部文章
	List(ctx context.Context) ([]models.Post, error)
	// GetBySlug 未找到时返回 (nil, nil)
	GetBySlug(ctx context.Context, slug string) (*models.Post, error)
	Create(ctx context.Context, post *models.Post) error
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, slug string) error
}

// IsValidStorageKey 判断 slug 是否可以安全地作为存储键
func IsValidStorageKey(slug string) bool {
	return len(slug) <= 191 && storageKeyPattern.MatchString(slug)
}
