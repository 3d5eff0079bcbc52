package repository

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/easyq-blog/internal/logger"
	"github.com/easyq-blog/internal/models"

	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"
)

const (
	postFileExt        = ".md"
	frontMatterDivider = "---\n"
)

var frontMatterTimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"January 2, 2006",
}

// postFrontMatter 文件头部元数据
type postFrontMatter struct {
	Title     string      `yaml:"title"`
	Excerpt   string      `yaml:"excerpt"`
	Category  string      `yaml:"category"`
	Author    string      `yaml:"author"`
	Tags      []string    `yaml:"tags"`
	Image     *string     `yaml:"image"`
	Date      interface{} `yaml:"date"`
	UpdatedAt interface{} `yaml:"updatedAt"`
}

// postFrontMatterOut 写入文件时使用的元数据，时间统一为 RFC3339 字符串
type postFrontMatterOut struct {
	Title     string   `yaml:"title"`
	Excerpt   string   `yaml:"excerpt"`
	Category  string   `yaml:"category"`
	Author    string   `yaml:"author"`
	Tags      []string `yaml:"tags"`
	Image     *string  `yaml:"image,omitempty"`
	Date      string   `yaml:"date"`
	UpdatedAt string   `yaml:"updatedAt,omitempty"`
}

// FilePostRepository Markdown 文件存储实现，每篇文章一个 {slug}.md 文件
type FilePostRepository struct {
	dir string
	now func() time.Time
	// mu 串行化写操作，保证存在性检查与写入之间不被并发打断
	mu sync.Mutex
}

// NewFilePostRepository 创建文件文章仓库，目录不存在时自动创建
func NewFilePostRepository(dir string) (*FilePostRepository, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, errors.New("posts dir is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create posts dir failed: %w", err)
	}
	return &FilePostRepository{dir: dir, now: time.Now}, nil
}

// Dir 返回文章目录
func (r *FilePostRepository) Dir() string {
	return r.dir
}

// List 读取目录下全部文章，解析失败的文件会被跳过
func (r *FilePostRepository) List(ctx context.Context) ([]models.Post, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return nil, err
	}
	posts := make([]models.Post, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != postFileExt {
			continue
		}
		slug := strings.TrimSuffix(name, postFileExt)
		if !IsValidStorageKey(slug) {
			continue
		}
		post, err := r.readPost(slug)
		if err != nil {
			logger.Warnw("post_file_parse_failed", "file", name, "error", err)
			continue
		}
		posts = append(posts, *post)
	}
	SortPostsNewestFirst(posts)
	return posts, nil
}

// GetBySlug 根据 slug 读取文章
func (r *FilePostRepository) GetBySlug(_ context.Context, slug string) (*models.Post, error) {
	if !IsValidStorageKey(slug) {
		return nil, nil
	}
	post, err := r.readPost(slug)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	return post, nil
}

// Create 写入新文章，已存在的 slug 会被拒绝
func (r *FilePostRepository) Create(_ context.Context, post *models.Post) error {
	if !IsValidStorageKey(post.Slug) {
		return ErrInvalidSlug
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	exists, err := r.exists(post.Slug)
	if err != nil {
		return err
	}
	if exists {
		return ErrPostExists
	}
	if post.CreatedAt.IsZero() {
		post.CreatedAt = r.now().UTC()
	}
	post.UpdatedAt = nil
	return r.writePost(post)
}

// Update 覆盖已有文章，保留原创建时间
func (r *FilePostRepository) Update(_ context.Context, post *models.Post) error {
	if !IsValidStorageKey(post.Slug) {
		return ErrPostNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	current, err := r.readPost(post.Slug)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrPostNotFound
		}
		return err
	}
	now := r.now().UTC()
	post.CreatedAt = current.CreatedAt
	post.UpdatedAt = &now
	return r.writePost(post)
}

// Delete 删除文章文件
func (r *FilePostRepository) Delete(_ context.Context, slug string) error {
	if !IsValidStorageKey(slug) {
		return ErrPostNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := os.Remove(r.path(slug)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrPostNotFound
		}
		return err
	}
	return nil
}

func (r *FilePostRepository) path(slug string) string {
	return filepath.Join(r.dir, slug+postFileExt)
}

func (r *FilePostRepository) exists(slug string) (bool, error) {
	_, err := os.Stat(r.path(slug))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

func (r *FilePostRepository) readPost(slug string) (*models.Post, error) {
	path := r.path(slug)
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var meta postFrontMatter
	body, err := frontmatter.Parse(bytes.NewReader(raw), &meta)
	if err != nil {
		return nil, fmt.Errorf("parse front matter failed: %w", err)
	}

	createdAt, ok := parseFrontMatterTime(meta.Date)
	if !ok {
		info, statErr := os.Stat(path)
		if statErr != nil {
			return nil, statErr
		}
		createdAt = info.ModTime().UTC()
	}
	post := &models.Post{
		Slug:      slug,
		Title:     meta.Title,
		Excerpt:   meta.Excerpt,
		Content:   string(body),
		Category:  meta.Category,
		Author:    meta.Author,
		Tags:      models.StringArray(meta.Tags),
		Image:     meta.Image,
		CreatedAt: createdAt,
	}
	if updatedAt, ok := parseFrontMatterTime(meta.UpdatedAt); ok {
		post.UpdatedAt = &updatedAt
	}
	return post, nil
}

func (r *FilePostRepository) writePost(post *models.Post) error {
	meta := postFrontMatterOut{
		Title:    post.Title,
		Excerpt:  post.Excerpt,
		Category: post.Category,
		Author:   post.Author,
		Tags:     []string(post.Tags),
		Image:    post.Image,
		Date:     post.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
	if meta.Tags == nil {
		meta.Tags = []string{}
	}
	if post.UpdatedAt != nil {
		meta.UpdatedAt = post.UpdatedAt.UTC().Format(time.RFC3339Nano)
	}
	header, err := yaml.Marshal(meta)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	buf.WriteString(frontMatterDivider)
	buf.Write(header)
	buf.WriteString(frontMatterDivider)
	buf.WriteString(post.Content)
	return writeFileAtomic(r.path(post.Slug), buf.Bytes())
}

// writeFileAtomic 先写临时文件再重命名，读者只会看到完整文件
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	cleanup := func() {
		_ = os.Remove(tmpName)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		cleanup()
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return err
	}
	return nil
}

func parseFrontMatterTime(value interface{}) (time.Time, bool) {
	switch v := value.(type) {
	case time.Time:
		return v.UTC(), !v.IsZero()
	case string:
		text := strings.TrimSpace(v)
		if text == "" {
			return time.Time{}, false
		}
		for _, layout := range frontMatterTimeLayouts {
			if parsed, err := time.Parse(layout, text); err == nil {
				return parsed.UTC(), true
			}
		}
	}
	return time.Time{}, false
}

// SortPostsNewestFirst 按创建时间倒序排序，时间相同按 slug 升序
func SortPostsNewestFirst(posts []models.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		if !posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].CreatedAt.After(posts[j].CreatedAt)
		}
		return posts[i].Slug < posts[j].Slug
	})
}
