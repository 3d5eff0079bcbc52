package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/easyq-blog/internal/constants"
	"github.com/easyq-blog/internal/logger"
	"github.com/easyq-blog/internal/markdown"
	"github.com/easyq-blog/internal/models"
	"github.com/easyq-blog/internal/repository"

	"github.com/google/uuid"
)

var (
	slugStripPattern     = regexp.MustCompile(`[^a-z0-9\s\p{Zs}-]+`)
	slugSeparatorPattern = regexp.MustCompile(`[\s\p{Zs}-]+`)
)

// PostService 文章业务服务
type PostService struct {
	repo     repository.PostRepository
	renderer markdown.Renderer
	notifier RevalidationNotifier
}

// NewPostService 创建文章服务
func NewPostService(repo repository.PostRepository, renderer markdown.Renderer, notifier RevalidationNotifier) *PostService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &PostService{
		repo:     repo,
		renderer: renderer,
		notifier: notifier,
	}
}

// PostInput 创建/更新文章输入，更新为全量覆盖
type PostInput struct {
	Slug     string
	Title    string
	Excerpt  string
	Content  string
	Category string
	Author   string
	Tags     []string
	Image    *string
}

// GenerateSlug 根据标题生成 slug
func GenerateSlug(title string) string {
	slug := strings.ToLower(title)
	slug = slugStripPattern.ReplaceAllString(slug, "")
	slug = slugSeparatorPattern.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// ListPosts 文章列表（不含 contentHtml），存储异常时返回空列表
func (s *PostService) ListPosts(ctx context.Context) []models.PostView {
	posts, err := s.repo.List(ctx)
	if err != nil {
		logger.Errorw("post_list_failed", "error", err)
		return []models.PostView{}
	}
	views := make([]models.PostView, 0, len(posts))
	for i := range posts {
		views = append(views, posts[i].ToView())
	}
	return views
}

// LatestPosts 最新的 n 篇文章
func (s *PostService) LatestPosts(ctx context.Context, n int) []models.PostView {
	views := s.ListPosts(ctx)
	if n >= 0 && len(views) > n {
		views = views[:n]
	}
	return views
}

// GetPost 获取文章详情并渲染 Markdown，不存在或存储异常时返回 nil
func (s *PostService) GetPost(ctx context.Context, slug string) *models.PostView {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil
	}
	post, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		logger.Errorw("post_get_failed", "slug", slug, "error", err)
		return nil
	}
	if post == nil {
		return nil
	}
	view := post.ToView()
	if s.renderer != nil {
		view.ContentHTML = s.renderer.Render(post.Content)
	}
	return &view
}

// CreatePost 创建文章
func (s *PostService) CreatePost(ctx context.Context, input PostInput) (*models.PostDescriptor, error) {
	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Excerpt) == "" || strings.TrimSpace(input.Content) == "" {
		return nil, fmt.Errorf("%w: title, excerpt, and content are required", ErrValidation)
	}
	slug := strings.TrimSpace(input.Slug)
	if slug == "" {
		slug = GenerateSlug(input.Title)
	}
	if slug == "" {
		slug = "post-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	}
	if !repository.IsValidStorageKey(slug) {
		return nil, fmt.Errorf("%w: slug %q is not a valid key", ErrValidation, slug)
	}

	post := buildPost(slug, input)
	if err := s.repo.Create(ctx, post); err != nil {
		switch {
		case errors.Is(err, repository.ErrPostExists):
			return nil, ErrSlugExists
		case errors.Is(err, repository.ErrInvalidSlug):
			return nil, fmt.Errorf("%w: slug %q is not a valid key", ErrValidation, slug)
		default:
			return nil, fmt.Errorf("%w: %v", ErrStore, err)
		}
	}
	logger.Infow("post_created", "slug", slug)
	s.notifier.Notify(slug)
	return &models.PostDescriptor{ID: slug, Slug: slug, Success: true}, nil
}

// UpdatePost 全量更新文章
func (s *PostService) UpdatePost(ctx context.Context, slug string, input PostInput) (*models.PostDescriptor, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, fmt.Errorf("%w: slug is required for updates", ErrValidation)
	}
	if !repository.IsValidStorageKey(slug) {
		return nil, ErrNotFound
	}
	post := buildPost(slug, input)
	if err := s.repo.Update(ctx, post); err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}
	logger.Infow("post_updated", "slug", slug)
	s.notifier.Notify(slug)
	return &models.PostDescriptor{ID: slug, Slug: slug, Success: true}, nil
}

// DeletePost 永久删除文章
func (s *PostService) DeletePost(ctx context.Context, slug string) (*models.PostDeleteResult, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, fmt.Errorf("%w: slug is required for deletion", ErrValidation)
	}
	if !repository.IsValidStorageKey(slug) {
		return nil, ErrNotFound
	}
	if err := s.repo.Delete(ctx, slug); err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}
	logger.Infow("post_deleted", "slug", slug)
	s.notifier.Notify("")
	return &models.PostDeleteResult{Slug: slug, Deleted: true, Success: true}, nil
}

func buildPost(slug string, input PostInput) *models.Post {
	category := strings.TrimSpace(input.Category)
	if category == "" {
		category = constants.DefaultPostCategory
	}
	author := strings.TrimSpace(input.Author)
	if author == "" {
		author = constants.DefaultPostAuthor
	}
	tags := make(models.StringArray, 0, len(input.Tags))
	for _, tag := range input.Tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	var image *string
	if input.Image != nil && strings.TrimSpace(*input.Image) != "" {
		value := strings.TrimSpace(*input.Image)
		image = &value
	}
	return &models.Post{
		Slug:     slug,
		Title:    input.Title,
		Excerpt:  input.Excerpt,
		Content:  input.Content,
		Category: category,
		Author:   author,
		Tags:     tags,
		Image:    image,
	}
}
