package models

import (
	"strings"
	"time"

	"github.com/easyq-blog/internal/constants"
)

// Post 博客文章表，slug 即主键
type Post struct {
	Slug      string      `gorm:"primaryKey;size:191" json:"slug"` // 唯一标识
	Title     string      `gorm:"not null" json:"title"`           // 标题
	Excerpt   string      `gorm:"type:text" json:"excerpt"`        // 摘要
	Content   string      `gorm:"type:text" json:"content"`        // Markdown 原文
	Category  string      `gorm:"index" json:"category"`           // 分类
	Author    string      `json:"author"`                          // 作者
	Tags      StringArray `gorm:"type:json" json:"tags"`           // 标签
	Image     *string     `json:"image"`                           // 封面图
	CreatedAt time.Time   `gorm:"index" json:"created_at"`         // 创建时间
	UpdatedAt *time.Time  `json:"updated_at"`                      // 更新时间
}

// TableName 指定表名
func (Post) TableName() string {
	return "blog_posts"
}

// PostView 文章输出结构
type PostView struct {
	ID          string   `json:"id"`
	Slug        string   `json:"slug"`
	Title       string   `json:"title"`
	Excerpt     string   `json:"excerpt"`
	Content     string   `json:"content"`
	ContentHTML string   `json:"contentHtml,omitempty"`
	Category    string   `json:"category"`
	Author      string   `json:"author"`
	Tags        []string `json:"tags"`
	Image       *string  `json:"image"`
	Date        string   `json:"date"`
	UpdatedAt   *string  `json:"updatedAt"`
}

// PostDescriptor 创建/更新结果
type PostDescriptor struct {
	ID      string `json:"id"`
	Slug    string `json:"slug"`
	Success bool   `json:"success"`
}

// PostDeleteResult 删除结果
type PostDeleteResult struct {
	Slug    string `json:"slug"`
	Deleted bool   `json:"deleted"`
	Success bool   `json:"success"`
}

// ToView 转换为输出结构并补齐读取默认值
func (p *Post) ToView() PostView {
	view := PostView{
		ID:       p.Slug,
		Slug:     p.Slug,
		Title:    p.Title,
		Excerpt:  p.Excerpt,
		Content:  p.Content,
		Category: p.Category,
		Author:   p.Author,
		Tags:     []string(p.Tags),
		Image:    p.Image,
		Date:     p.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
	if strings.TrimSpace(view.Title) == "" {
		view.Title = constants.DefaultPostTitle
	}
	if view.Category == "" {
		view.Category = constants.DefaultPostCategory
	}
	if view.Author == "" {
		view.Author = constants.DefaultPostAuthor
	}
	if view.Tags == nil {
		view.Tags = []string{}
	}
	if view.Image != nil && *view.Image == "" {
		view.Image = nil
	}
	if p.UpdatedAt != nil {
		updated := p.UpdatedAt.UTC().Format(time.RFC3339Nano)
		view.UpdatedAt = &updated
	}
	return view
}
