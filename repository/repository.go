package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNoDocuments is returned by FindOne when no document matches the filter.
var ErrNoDocuments = mongo.ErrNoDocuments

// Collection is the document-store capability handed to services at
// construction. FindOneAndUpsert is the single atomic primitive backing
// add-or-increment: conditional insert when absent, in-place update when
// present, returning the post-update document.
type Collection interface {
	FindOne(ctx context.Context, filter bson.M, out interface{}) error
	Find(ctx context.Context, filter bson.M, skip, limit int64, out interface{}) error
	InsertOne(ctx context.Context, doc interface{}) (interface{}, error)
	UpdateOne(ctx context.Context, filter, update bson.M) (matched, modified int64, err error)
	DeleteOne(ctx context.Context, filter bson.M) (int64, error)
	DeleteMany(ctx context.Context, filter bson.M) (int64, error)
	Count(ctx context.Context, filter bson.M) (int64, error)
	FindOneAndUpsert(ctx context.Context, filter, update bson.M, out interface{}) error
}

// MongoCollection adapts a *mongo.Collection to the Collection interface.
type MongoCollection struct {
	Coll *mongo.Collection
}

// NewMongo returns a Collection backed by the named collection of db.
func NewMongo(db *mongo.Database, name string) *MongoCollection {
	return &MongoCollection{Coll: db.Collection(name)}
}

func (m *MongoCollection) FindOne(ctx context.Context, filter bson.M, out interface{}) error {
	return m.Coll.FindOne(ctx, filter).Decode(out)
}

func (m *MongoCollection) Find(ctx context.Context, filter bson.M, skip, limit int64, out interface{}) error {
	opts := options.Find()
	if skip > 0 {
		opts.SetSkip(skip)
	}
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cursor, err := m.Coll.Find(ctx, filter, opts)
	if err != nil {
		return err
	}
	return cursor.All(ctx, out)
}

func (m *MongoCollection) InsertOne(ctx context.Context, doc interface{}) (interface{}, error) {
	res, err := m.Coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, err
	}
	return res.InsertedID, nil
}

func (m *MongoCollection) UpdateOne(ctx context.Context, filter, update bson.M) (int64, int64, error) {
	res, err := m.Coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return 0, 0, err
	}
	return res.MatchedCount, res.ModifiedCount, nil
}

func (m *MongoCollection) DeleteOne(ctx context.Context, filter bson.M) (int64, error) {
	res, err := m.Coll.DeleteOne(ctx, filter)
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (m *MongoCollection) DeleteMany(ctx context.Context, filter bson.M) (int64, error) {
	res, err := m.Coll.DeleteMany(ctx, filter)
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (m *MongoCollection) Count(ctx context.Context, filter bson.M) (int64, error) {
	return m.Coll.CountDocuments(ctx, filter)
}

func (m *MongoCollection) FindOneAndUpsert(ctx context.Context, filter, update bson.M, out interface{}) error {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)
	return upsertWithRetry(func() error {
		return m.Coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(out)
	})
}

// upsertWithRetry reruns fn once when it fails with a duplicate-key
// error. Two concurrent upserts of the same absent key both take the
// insert path on the server; the unique index fails one of them, and
// its retry lands on the update path. Nothing was applied by the
// failed attempt, so the retry is exactly-once.
func upsertWithRetry(fn func() error) error {
	err := fn()
	if mongo.IsDuplicateKeyError(err) {
		err = fn()
	}
	return err
}
