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

// PlayerRepository persists squad members.
type PlayerRepository interface {
	Create(ctx context.Context, player *domain.Player) error
	List(ctx context.Context) ([]domain.Player, error)
	GetByID(ctx context.Context, id string) (*domain.Player, error)
	Update(ctx context.Context, id string, patch domain.PlayerPatch) (*domain.Player, error)
	Delete(ctx context.Context, id string) (*domain.Player, error)
}

type playerRepository struct {
	collection[domain.Player]
}

// NewPlayerRepository returns a MongoDB-backed implementation ordered by name.
func NewPlayerRepository(db *mongo.Database) PlayerRepository {
	return &playerRepository{newCollection[domain.Player](db, persistence.CollectionPlayers,
		bson.D{{Key: "name", Value: 1}})}
}

func (r *playerRepository) Create(ctx context.Context, player *domain.Player) error {
	now := r.now().UTC()
	if player.ID.IsZero() {
		player.ID = primitive.NewObjectID()
	}
	player.CreatedAt = now
	player.UpdatedAt = now
	return r.insert(ctx, player)
}

func (r *playerRepository) List(ctx context.Context) ([]domain.Player, error) {
	return r.list(ctx, nil)
}

func (r *playerRepository) GetByID(ctx context.Context, id string) (*domain.Player, error) {
	return r.get(ctx, id)
}

func (r *playerRepository) Update(ctx context.Context, id string, patch domain.PlayerPatch) (*domain.Player, error) {
	return r.update(ctx, id, playerUpdate(patch, r.now().UTC()))
}

func (r *playerRepository) Delete(ctx context.Context, id string) (*domain.Player, error) {
	return r.remove(ctx, id)
}

func playerUpdate(patch domain.PlayerPatch, now time.Time) bson.M {
	set := bson.M{"updatedAt": now}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Position != nil {
		set["position"] = *patch.Position
	}
	if patch.Age != nil {
		set["age"] = *patch.Age
	}
	if patch.Nationality != nil {
		set["nationality"] = *patch.Nationality
	}
	if patch.Image != nil {
		set["image"] = *patch.Image
	}
	return bson.M{"$set": set}
}
