// Package mongo es el backend documental principal (MongoDB / Cosmos DB con API de Mongo).
package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"livestock-records/internal/store"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	DefaultDatabase = "pan-goats-db"

	countersCollection = "counters"
	sequenceField      = "sequence_value"
)

type Options struct {
	URI      string
	Database string
}

type Store struct {
	client  *mongo.Client
	db      *mongo.Database
	indexes *store.UniqueIndexes
}

var _ store.Store = (*Store)(nil)

func Open(ctx context.Context, opts Options) (*Store, error) {
	if strings.TrimSpace(opts.URI) == "" {
		return nil, errors.New("mongo uri required")
	}
	if opts.Database == "" {
		opts.Database = DefaultDatabase
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(opts.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	return &Store{
		client:  client,
		db:      client.Database(opts.Database),
		indexes: store.NewUniqueIndexes(),
	}, nil
}

// Database expone la base para tests (drop) y tareas administrativas.
func (s *Store) Database() *mongo.Database { return s.db }

func (s *Store) Collection(name string) store.Collection {
	return &collection{c: s.db.Collection(name)}
}

func (s *Store) EnsureUniqueIndex(ctx context.Context, collection, field string) error {
	if err := s.indexes.Register(collection, field); err != nil {
		return err
	}
	_, err := s.db.Collection(collection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: field, Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("unique index %s.%s: %w", collection, field, store.ErrDuplicateKey)
		}
		return fmt.Errorf("create index %s.%s: %w", collection, field, err)
	}
	return nil
}

// NextSequence es el getNextSequence clásico: $inc con upsert sobre counters y devuelve el valor nuevo.
func (s *Store) NextSequence(ctx context.Context, name string) (int64, error) {
	if name == "" {
		return 0, errors.New("sequence name required")
	}

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var out struct {
		SequenceValue int64 `bson:"sequence_value"`
	}

	var err error
	// Dos upserts concurrentes del primer valor pueden chocar en _id; el segundo intento ya encuentra el doc.
	for attempt := 0; attempt < 2; attempt++ {
		err = s.db.Collection(countersCollection).FindOneAndUpdate(ctx,
			bson.M{"_id": name},
			bson.M{"$inc": bson.M{sequenceField: 1}},
			opts,
		).Decode(&out)
		if err == nil || !mongo.IsDuplicateKeyError(err) {
			break
		}
	}
	if err != nil {
		return 0, fmt.Errorf("next sequence %s: %w", name, err)
	}
	return out.SequenceValue, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

type collection struct {
	c *mongo.Collection
}

func (c *collection) InsertOne(ctx context.Context, doc store.Document) (string, error) {
	res, err := c.c.InsertOne(ctx, bson.M(doc.WithoutID()))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", store.ErrDuplicateKey
		}
		return "", err
	}
	return idString(res.InsertedID), nil
}

func (c *collection) Find(ctx context.Context) ([]store.Document, error) {
	cur, err := c.c.Find(ctx, bson.D{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = cur.Close(ctx) }()

	out := make([]store.Document, 0)
	for cur.Next(ctx) {
		var m bson.M
		if err := cur.Decode(&m); err != nil {
			return nil, err
		}
		out = append(out, fromBSON(m))
	}
	return out, cur.Err()
}

func (c *collection) FindOne(ctx context.Context, field string, value any) (store.Document, error) {
	var m bson.M
	err := c.c.FindOne(ctx, bson.M{field: value}).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return fromBSON(m), nil
}

func (c *collection) UpdateByID(ctx context.Context, id string, set store.Document) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}

	fields := set.WithoutID()
	if len(fields) == 0 {
		// $set vacío es inválido en Mongo: sólo se informa si el documento existe.
		n, err := c.c.CountDocuments(ctx, bson.M{"_id": oid})
		return n > 0, err
	}

	res, err := c.c.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M(fields)})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, store.ErrDuplicateKey
		}
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (c *collection) DeleteByID(ctx context.Context, id string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}
	res, err := c.c.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func fromBSON(m bson.M) store.Document {
	doc := store.Document(m)
	if raw, ok := doc[store.IDField]; ok {
		doc[store.IDField] = idString(raw)
	}
	return doc
}

func idString(v any) string {
	if oid, ok := v.(primitive.ObjectID); ok {
		return oid.Hex()
	}
	return fmt.Sprint(v)
}
