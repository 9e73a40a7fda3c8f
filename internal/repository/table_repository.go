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

// TableRepository persists league table rows.
type TableRepository interface {
	Create(ctx context.Context, entry *domain.TableEntry) error
	List(ctx context.Context) ([]domain.TableEntry, error)
	ListMini(ctx context.Context) ([]domain.TableMiniEntry, error)
	GetByID(ctx context.Context, id string) (*domain.TableEntry, error)
	Update(ctx context.Context, id string, patch domain.TableEntryPatch) (*domain.TableEntry, error)
	Delete(ctx context.Context, id string) (*domain.TableEntry, error)
}

var tableOrder = bson.D{
	{Key: "points", Value: -1},
	{Key: "goalDifference", Value: -1},
	{Key: "goalsFor", Value: -1},
	{Key: "team", Value: 1},
}

type tableRepository struct {
	collection[domain.TableEntry]
	mini collection[domain.TableMiniEntry]
}

// NewTableRepository returns a MongoDB-backed implementation ordered by standing.
func NewTableRepository(db *mongo.Database) TableRepository {
	return &tableRepository{
		collection: newCollection[domain.TableEntry](db, persistence.CollectionTeams, tableOrder),
		mini:       newCollection[domain.TableMiniEntry](db, persistence.CollectionTeams, tableOrder),
	}
}

func (r *tableRepository) Create(ctx context.Context, entry *domain.TableEntry) error {
	now := r.now().UTC()
	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	entry.Recompute()
	entry.CreatedAt = now
	entry.UpdatedAt = now
	return r.insert(ctx, entry)
}

func (r *tableRepository) List(ctx context.Context) ([]domain.TableEntry, error) {
	return r.list(ctx, nil)
}

func (r *tableRepository) ListMini(ctx context.Context) ([]domain.TableMiniEntry, error) {
	return r.mini.list(ctx, bson.D{{Key: "team", Value: 1}, {Key: "points", Value: 1}})
}

func (r *tableRepository) GetByID(ctx context.Context, id string) (*domain.TableEntry, error) {
	return r.get(ctx, id)
}

func (r *tableRepository) Update(ctx context.Context, id string, patch domain.TableEntryPatch) (*domain.TableEntry, error) {
	return r.update(ctx, id, tableUpdate(patch, r.now().UTC()))
}

func (r *tableRepository) Delete(ctx context.Context, id string) (*domain.TableEntry, error) {
	return r.remove(ctx, id)
}

// tableUpdate builds a two-stage pipeline: assign the patched fields, then
// derive goalDifference from the stored goal counts in the same write.
func tableUpdate(patch domain.TableEntryPatch, now time.Time) mongo.Pipeline {
	set := bson.D{}
	add := func(key string, value any) {
		set = append(set, bson.E{Key: key, Value: bson.D{{Key: "$literal", Value: value}}})
	}
	if patch.Team != nil {
		add("team", *patch.Team)
	}
	if patch.Points != nil {
		add("points", *patch.Points)
	}
	if patch.GamesPlayed != nil {
		add("gamesPlayed", *patch.GamesPlayed)
	}
	if patch.Wins != nil {
		add("wins", *patch.Wins)
	}
	if patch.Draws != nil {
		add("draws", *patch.Draws)
	}
	if patch.Losses != nil {
		add("losses", *patch.Losses)
	}
	if patch.GoalsFor != nil {
		add("goalsFor", *patch.GoalsFor)
	}
	if patch.GoalsAgainst != nil {
		add("goalsAgainst", *patch.GoalsAgainst)
	}
	add("updatedAt", now)

	return mongo.Pipeline{
		{{Key: "$set", Value: set}},
		{{Key: "$set", Value: bson.D{{Key: "goalDifference", Value: bson.D{
			{Key: "$subtract", Value: bson.A{"$goalsFor", "$goalsAgainst"}},
		}}}}},
	}
}

