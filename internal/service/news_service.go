package service

import (
	"context"
	"strings"
	"time"

	"github.com/clubhouse/club-cms/internal/domain"
	"github.com/clubhouse/club-cms/internal/events"
	"github.com/clubhouse/club-cms/internal/media"
	"github.com/clubhouse/club-cms/internal/repository"
)

// NewsInput describes a new article.
type NewsInput struct {
	Title       string
	Content     string
	PublishedAt *time.Time
	Image       *media.File
}

// NewsService manages news articles.
type NewsService struct {
	repo     repository.NewsRepository
	uploader media.Uploader
	folder   string
	events   publisher
}

// NewNewsService builds the service.
func NewNewsService(repo repository.NewsRepository, deps ContentDependencies) *NewsService {
	return &NewsService{repo: repo, uploader: deps.Uploader, folder: deps.Folders.News, events: newPublisher(deps)}
}

// List returns articles newest first.
func (s *NewsService) List(ctx context.Context) ([]domain.NewsArticle, error) {
	return s.repo.List(ctx)
}

// Get returns one article.
func (s *NewsService) Get(ctx context.Context, id string) (*domain.NewsArticle, error) {
	article, err := s.repo.GetByID(ctx, id)
	return article, storeError(err, "news")
}

// Create validates input, uploads the optional image and stores the article.
func (s *NewsService) Create(ctx context.Context, in NewsInput) (*domain.NewsArticle, error) {
	article := &domain.NewsArticle{
		Title:   strings.TrimSpace(in.Title),
		Content: in.Content,
	}
	if in.PublishedAt != nil {
		article.PublishedAt = in.PublishedAt.UTC()
	}

	errs := fieldErrors{}
	if article.Title == "" {
		errs.add("title", "required")
	}
	if strings.TrimSpace(article.Content) == "" {
		errs.add("content", "required")
	}
	if err := errs.err(); err != nil {
		return nil, err
	}

	url, err := upload(ctx, s.uploader, in.Image, s.folder)
	if err != nil {
		return nil, err
	}
	article.Image = url

	if err := s.repo.Create(ctx, article); err != nil {
		s.events.orphaned(ctx, events.ResourceNews, "", "create failed", url)
		return nil, storeError(err, "news")
	}
	s.events.publish(ctx, events.EventResourceCreated, events.ResourceNews, article.ID.Hex(), nil)
	return article, nil
}

// Update applies patch and an optional replacement image.
func (s *NewsService) Update(ctx context.Context, id string, patch domain.NewsPatch, image *media.File) (*domain.NewsArticle, error) {
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		patch.Title = &title
	}
	errs := fieldErrors{}
	if patch.Title != nil && *patch.Title == "" {
		errs.add("title", "must not be empty")
	}
	if patch.Content != nil && strings.TrimSpace(*patch.Content) == "" {
		errs.add("content", "must not be empty")
	}
	if err := errs.err(); err != nil {
		return nil, err
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "news")
	}

	url, err := upload(ctx, s.uploader, image, s.folder)
	if err != nil {
		return nil, err
	}
	if image != nil {
		patch.Image = &url
	}
	if patch.IsEmpty() {
		return current, nil
	}

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		s.events.orphaned(ctx, events.ResourceNews, id, "update failed", url)
		return nil, storeError(err, "news")
	}
	if image != nil && current.Image != url {
		s.events.orphaned(ctx, events.ResourceNews, id, "replaced", current.Image)
	}
	s.events.publish(ctx, events.EventResourceUpdated, events.ResourceNews, id, nil)
	return updated, nil
}

// Delete removes the article and releases its image.
func (s *NewsService) Delete(ctx context.Context, id string) error {
	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return storeError(err, "news")
	}
	s.events.publish(ctx, events.EventResourceDeleted, events.ResourceNews, id, nil)
	s.events.orphaned(ctx, events.ResourceNews, id, "deleted", removed.Image)
	return nil
}
