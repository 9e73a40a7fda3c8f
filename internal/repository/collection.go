package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// collection holds the CRUD plumbing shared by the document repositories.
type collection[T any] struct {
	col  *mongo.Collection
	sort bson.D
	now  func() time.Time
}

func newCollection[T any](db *mongo.Database, name string, sort bson.D) collection[T] {
	return collection[T]{col: db.Collection(name), sort: sort, now: time.Now}
}

// objectID parses a hex id. Malformed ids cannot match any record.
func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrNotFound
	}
	return oid, nil
}

func (c collection[T]) insert(ctx context.Context, doc any) error {
	_, err := c.col.InsertOne(ctx, doc)
	return translate(err)
}

func (c collection[T]) list(ctx context.Context, projection bson.D) ([]T, error) {
	opts := options.Find().SetSort(c.sort)
	if projection != nil {
		opts.SetProjection(projection)
	}
	cur, err := c.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	docs := make([]T, 0)
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func (c collection[T]) get(ctx context.Context, id string) (*T, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var doc T
	if err := c.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	return &doc, nil
}

// update applies an update document or pipeline and returns the stored result.
func (c collection[T]) update(ctx context.Context, id string, update any) (*T, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc T
	if err := c.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	return &doc, nil
}

// remove deletes the record and returns it as it was.
func (c collection[T]) remove(ctx context.Context, id string) (*T, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var doc T
	if err := c.col.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	return &doc, nil
}
