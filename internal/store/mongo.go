// CineScope - Movie Cataloging and Social Watchlists
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescope

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/tomtom215/cinescope/internal/logging"
)

// mongoDocument is the stored shape. Version is the optimistic
// concurrency token checked by Mutate.
type mongoDocument struct {
	ID      string   `bson:"_id"`
	Unique  []string `bson:"unique"`
	Refs    []string `bson:"refs"`
	Body    string   `bson:"body"`
	Version int64    `bson:"version"`
}

// MongoConfig configures the MongoDB backend.
type MongoConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// MongoBackend stores documents in MongoDB, one collection per record type.
type MongoBackend struct {
	client *mongo.Client
	db     *mongo.Database
}

var _ Backend = (*MongoBackend)(nil)

// OpenMongo connects, verifies the connection and ensures indexes for
// every application collection.
func OpenMongo(ctx context.Context, cfg MongoConfig) (*MongoBackend, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetServerSelectionTimeout(cfg.Timeout).
		SetConnectTimeout(cfg.Timeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect to MongoDB: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping MongoDB: %w", err)
	}

	b := &MongoBackend{client: client, db: client.Database(cfg.Database)}
	if err := b.EnsureIndexes(ctx, Collections...); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	logging.Info().Str("database", cfg.Database).Msg("Document store connected to MongoDB")
	return b, nil
}

// EnsureIndexes creates the unique-key and reference indexes on colls.
func (b *MongoBackend) EnsureIndexes(ctx context.Context, colls ...string) error {
	for _, name := range colls {
		models := []mongo.IndexModel{
			{
				Keys: bson.D{{Key: "unique", Value: 1}},
				// Documents without unique keys are left out of the index so
				// that empty arrays do not collide with each other.
				Options: options.Index().
					SetName("unique_keys").
					SetUnique(true).
					SetPartialFilterExpression(bson.M{"unique.0": bson.M{"$exists": true}}),
			},
			{
				Keys:    bson.D{{Key: "refs", Value: 1}},
				Options: options.Index().SetName("refs"),
			},
		}
		if _, err := b.db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
	}
	return nil
}

// Insert implements Backend.
func (b *MongoBackend) Insert(ctx context.Context, coll string, doc Document) error {
	_, err := b.db.Collection(coll).InsertOne(ctx, mongoDocument{
		ID:      doc.ID,
		Unique:  nonNil(doc.Unique),
		Refs:    nonNil(doc.Refs),
		Body:    string(doc.Body),
		Version: 1,
	})
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	}
	if err != nil {
		return fmt.Errorf("insert into %s: %w", coll, err)
	}
	return nil
}

// Get implements Backend.
func (b *MongoBackend) Get(ctx context.Context, coll, id string) ([]byte, error) {
	doc, err := b.findOne(ctx, coll, bson.M{"_id": id})
	if err != nil {
		return nil, err
	}
	return []byte(doc.Body), nil
}

// GetByUnique implements Backend.
func (b *MongoBackend) GetByUnique(ctx context.Context, coll, key string) ([]byte, error) {
	doc, err := b.findOne(ctx, coll, bson.M{"unique": key})
	if err != nil {
		return nil, err
	}
	return []byte(doc.Body), nil
}

// Find implements Backend.
func (b *MongoBackend) Find(ctx context.Context, coll, ref string) ([][]byte, error) {
	filter := bson.M{}
	if ref != "" {
		filter = bson.M{"refs": ref}
	}
	cur, err := b.db.Collection(coll).Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", coll, err)
	}
	defer func() { _ = cur.Close(ctx) }()

	var bodies [][]byte
	for cur.Next(ctx) {
		var doc mongoDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode %s: %w", coll, err)
		}
		bodies = append(bodies, []byte(doc.Body))
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", coll, err)
	}
	return bodies, nil
}

// Mutate implements Backend with compare-and-swap on the version field.
func (b *MongoBackend) Mutate(ctx context.Context, coll, id string, fn MutateFunc) error {
	c := b.db.Collection(coll)
	for attempt := 0; attempt < maxMutateAttempts; attempt++ {
		current, err := b.findOne(ctx, coll, bson.M{"_id": id})
		if err != nil {
			return err
		}

		next, err := fn([]byte(current.Body))
		if err != nil {
			return err
		}
		if next.ID != "" && next.ID != id {
			return fmt.Errorf("mutate %s/%s: document id cannot change", coll, id)
		}

		res, err := c.UpdateOne(ctx,
			bson.M{"_id": id, "version": current.Version},
			bson.M{
				"$set": bson.M{
					"unique": nonNil(next.Unique),
					"refs":   nonNil(next.Refs),
					"body":   string(next.Body),
				},
				"$inc": bson.M{"version": 1},
			},
		)
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %v", ErrDuplicate, err)
		}
		if err != nil {
			return fmt.Errorf("update %s/%s: %w", coll, id, err)
		}
		if res.MatchedCount == 1 {
			return nil
		}
	}
	return ErrConflict
}

// Delete implements Backend.
func (b *MongoBackend) Delete(ctx context.Context, coll, id string) error {
	res, err := b.db.Collection(coll).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", coll, id, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Ping implements Backend.
func (b *MongoBackend) Ping(ctx context.Context) error {
	return b.client.Ping(ctx, readpref.Primary())
}

// Close implements Backend.
func (b *MongoBackend) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return b.client.Disconnect(ctx)
}

func (b *MongoBackend) findOne(ctx context.Context, coll string, filter bson.M) (*mongoDocument, error) {
	var doc mongoDocument
	err := b.db.Collection(coll).FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find one in %s: %w", coll, err)
	}
	return &doc, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
