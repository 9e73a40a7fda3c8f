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

// MatchRepository persists fixtures.
type MatchRepository interface {
	Create(ctx context.Context, match *domain.Match) error
	List(ctx context.Context) ([]domain.Match, error)
	GetByID(ctx context.Context, id string) (*domain.Match, error)
	Update(ctx context.Context, id string, patch domain.MatchPatch) (*domain.Match, error)
	Delete(ctx context.Context, id string) (*domain.Match, error)
}

type matchRepository struct {
	collection[domain.Match]
}

// NewMatchRepository returns a MongoDB-backed implementation ordered by kick-off.
func NewMatchRepository(db *mongo.Database) MatchRepository {
	return &matchRepository{newCollection[domain.Match](db, persistence.CollectionMatches,
		bson.D{{Key: "date", Value: 1}, {Key: "time", Value: 1}})}
}

func (r *matchRepository) Create(ctx context.Context, match *domain.Match) error {
	now := r.now().UTC()
	if match.ID.IsZero() {
		match.ID = primitive.NewObjectID()
	}
	match.CreatedAt = now
	match.UpdatedAt = now
	return r.insert(ctx, match)
}

func (r *matchRepository) List(ctx context.Context) ([]domain.Match, error) {
	return r.list(ctx, nil)
}

func (r *matchRepository) GetByID(ctx context.Context, id string) (*domain.Match, error) {
	return r.get(ctx, id)
}

func (r *matchRepository) Update(ctx context.Context, id string, patch domain.MatchPatch) (*domain.Match, error) {
	return r.update(ctx, id, matchUpdate(patch, r.now().UTC()))
}

func (r *matchRepository) Delete(ctx context.Context, id string) (*domain.Match, error) {
	return r.remove(ctx, id)
}

// matchUpdate sets nested fields by dotted path so unrelated siblings
// (opponent logo, the other score) survive.
func matchUpdate(patch domain.MatchPatch, now time.Time) bson.M {
	set := bson.M{"updatedAt": now}
	if patch.Date != nil {
		set["date"] = *patch.Date
	}
	if patch.Time != nil {
		set["time"] = *patch.Time
	}
	if patch.Stadium != nil {
		set["stadium"] = *patch.Stadium
	}
	if patch.Competition != nil {
		set["competition"] = *patch.Competition
	}
	if patch.HomeOrAway != nil {
		set["homeOrAway"] = *patch.HomeOrAway
	}
	if patch.OpponentName != nil {
		set["opponent.name"] = *patch.OpponentName
	}
	if patch.OpponentLogoURL != nil {
		set["opponent.logoUrl"] = *patch.OpponentLogoURL
	}
	if patch.HomeScore != nil {
		set["score.home"] = scoreValue(patch.HomeScore)
	}
	if patch.AwayScore != nil {
		set["score.away"] = scoreValue(patch.AwayScore)
	}
	if patch.Status != nil {
		set["status"] = *patch.Status
	}
	return bson.M{"$set": set}
}

func scoreValue(change *domain.ScoreChange) any {
	if change.Value == nil {
		return nil
	}
	return *change.Value
}
