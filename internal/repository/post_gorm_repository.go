package repository

import (
	"context"
	"errors"
	"time"

	"github.com/easyq-blog/internal/models"

	"gorm.io/gorm"
)

// GormPostRepository 数据库存储实现
type GormPostRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGormPostRepository 创建数据库文章仓库
func NewGormPostRepository(db *gorm.DB) *GormPostRepository {
	return &GormPostRepository{db: db, now: time.Now}
}

// List 文章列表
func (r *GormPostRepository) List(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	if err := r.db.WithContext(ctx).Order("created_at DESC").Order("slug ASC").Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// GetBySlug 根据 slug 获取文章
func (r *GormPostRepository) GetBySlug(ctx context.Context, slug string) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// Create 创建文章，创建时间由服务端写入
func (r *GormPostRepository) Create(ctx context.Context, post *models.Post) error {
	if !IsValidStorageKey(post.Slug) {
		return ErrInvalidSlug
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Post{}).Where("slug = ?", post.Slug).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrPostExists
		}
		if post.CreatedAt.IsZero() {
			post.CreatedAt = r.now().UTC()
		}
		if post.Tags == nil {
			post.Tags = models.StringArray{}
		}
		return tx.Omit("UpdatedAt").Create(post).Error
	})
}

// Update 全量覆盖可编辑字段
func (r *GormPostRepository) Update(ctx context.Context, post *models.Post) error {
	now := r.now().UTC()
	tags := post.Tags
	if tags == nil {
		tags = models.StringArray{}
	}
	result := r.db.WithContext(ctx).Model(&models.Post{}).Where("slug = ?", post.Slug).Updates(map[string]interface{}{
		"title":      post.Title,
		"excerpt":    post.Excerpt,
		"content":    post.Content,
		"category":   post.Category,
		"author":     post.Author,
		"tags":       tags,
		"image":      post.Image,
		"updated_at": now,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPostNotFound
	}
	post.UpdatedAt = &now
	return nil
}

// Delete 永久删除文章
func (r *GormPostRepository) Delete(ctx context.Context, slug string) error {
	result := r.db.WithContext(ctx).Where("slug = ?", slug).Delete(&models.Post{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPostNotFound
	}
	return nil
}
