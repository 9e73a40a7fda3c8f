package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/clubhouse/club-cms/internal/domain"
	"github.com/clubhouse/club-cms/internal/persistence"
)

// NewsRepository persists news articles.
type NewsRepository interface {
	Create(ctx context.Context, article *domain.NewsArticle) error
	List(ctx context.Context) ([]domain.NewsArticle, error)
	GetByID(ctx context.Context, id string) (*domain.NewsArticle, error)
	Update(ctx context.Context, id string, patch domain.NewsPatch) (*domain.NewsArticle, error)
	Delete(ctx context.Context, id string) (*domain.NewsArticle, error)
}

type newsRepository struct {
	collection[domain.NewsArticle]
}

// NewNewsRepository returns a MongoDB-backed implementation. Listing is
// newest first.
func NewNewsRepository(db *mongo.Database) NewsRepository {
	return &newsRepository{newCollection[domain.NewsArticle](db, persistence.CollectionNews,
		bson.D{{Key: "publishedAt", Value: -1}, {Key: "_id", Value: -1}})}
}

func (r *newsRepository) Create(ctx context.Context, article *domain.NewsArticle) error {
	now := r.now().UTC()
	if article.ID.IsZero() {
		article.ID = primitive.NewObjectID()
	}
	if article.PublishedAt.IsZero() {
		article.PublishedAt = now
	}
	article.CreatedAt = now
	article.UpdatedAt = now
	return r.insert(ctx, article)
}

func (r *newsRepository) List(ctx context.Context) ([]domain.NewsArticle, error) {
	return r.list(ctx, nil)
}

func (r *newsRepository) GetByID(ctx context.Context, id string) (*domain.NewsArticle, error) {
	return r.get(ctx, id)
}

func (r *newsRepository) Update(ctx context.Context, id string, patch domain.NewsPatch) (*domain.NewsArticle, error) {
	return r.update(ctx, id, newsUpdate(patch, r.now().UTC()))
}

func (r *newsRepository) Delete(ctx context.Context, id string) (*domain.NewsArticle, error) {
	return r.remove(ctx, id)
}

func newsUpdate(patch domain.NewsPatch, now time.Time) bson.M {
	set := bson.M{"updatedAt": now}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Content != nil {
		set["content"] = *patch.Content
	}
	if patch.Image != nil {
		set["image"] = *patch.Image
	}
	if patch.PublishedAt != nil {
		set["publishedAt"] = *patch.PublishedAt
	}
	return bson.M{"$set": set}
}
