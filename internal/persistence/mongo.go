package persistence

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/clubhouse/club-cms/internal/config"
)

// Collection names are shared with the existing data set.
const (
	CollectionUsers   = "users"
	CollectionNews    = "news"
	CollectionMatches = "matches"
	CollectionPlayers = "players"
	CollectionTeams   = "teams"
)

// Mongo wraps the document store client and the selected database.
type Mongo struct {
	Client *mongo.Client
	DB     *mongo.Database
}

// NewMongo connects and pings the document store.
func NewMongo(ctx context.Context, cfg config.MongoConfig, logger *zap.Logger) (*Mongo, error) {
	if cfg.URI == "" {
		return nil, errors.New("MONGO_URI is required")
	}

	connectCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout())
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().
		ApplyURI(cfg.URI).
		SetServerSelectionTimeout(cfg.ConnectTimeout()))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	logger.Info("connected to mongo", zap.String("database", cfg.Database))
	return &Mongo{Client: client, DB: client.Database(cfg.Database)}, nil
}

// Close disconnects the client.
func (m *Mongo) Close(ctx context.Context) {
	if m != nil && m.Client != nil {
		_ = m.Client.Disconnect(ctx)
	}
}

// Ping verifies connectivity.
func (m *Mongo) Ping(ctx context.Context) error {
	if m == nil || m.Client == nil {
		return errors.New("mongo client not configured")
	}
	return m.Client.Ping(ctx, nil)
}

// IndexSpecs lists the indexes each collection needs. Unique indexes back the
// email and team-name uniqueness rules.
func IndexSpecs() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		CollectionUsers: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		CollectionNews: {
			{Keys: bson.D{{Key: "publishedAt", Value: -1}, {Key: "_id", Value: -1}}},
		},
		CollectionMatches: {
			{Keys: bson.D{{Key: "date", Value: 1}, {Key: "time", Value: 1}}},
		},
		CollectionPlayers: {
			{Keys: bson.D{{Key: "name", Value: 1}}},
		},
		CollectionTeams: {
			{Keys: bson.D{{Key: "team", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "points", Value: -1}}},
		},
	}
}

// EnsureIndexes creates missing indexes. Failures are logged per collection so
// that legacy data violating a unique rule does not keep the API down.
func (m *Mongo) EnsureIndexes(ctx context.Context, logger *zap.Logger) {
	for name, models := range IndexSpecs() {
		if _, err := m.DB.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			logger.Error("failed to ensure indexes", zap.String("collection", name), zap.Error(err))
			continue
		}
		logger.Debug("indexes ensured", zap.String("collection", name), zap.Int("count", len(models)))
	}
}
