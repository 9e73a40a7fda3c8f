package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NewsArticle is a published club news item.
type NewsArticle struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id"`
	Title       string             `json:"title" bson:"title"`
	Content     string             `json:"content" bson:"content"`
	Image       string             `json:"image" bson:"image"`
	PublishedAt time.Time          `json:"publishedAt" bson:"publishedAt"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// NewsPatch lists the mutable fields of a NewsArticle. Nil means unchanged.
type NewsPatch struct {
	Title       *string
	Content     *string
	Image       *string
	PublishedAt *time.Time
}

// IsEmpty reports whether the patch changes nothing.
func (p NewsPatch) IsEmpty() bool {
	return p.Title == nil && p.Content == nil && p.Image == nil && p.PublishedAt == nil
}
