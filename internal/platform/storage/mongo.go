package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

const mongoCollection = "portal_sessions"

type mongoSession struct {
	ID        string            `bson:"_id"`
	Values    map[string]string `bson:"values"`
	UpdatedAt time.Time         `bson:"updatedAt"`
}

// Mongo stores one document per browser session, with values as a sub-document.
type Mongo struct {
	client *mongo.Client
	coll   *mongo.Collection
	now    func() time.Time
}

func OpenMongo(ctx context.Context, uri, database string) (*Mongo, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	coll := client.Database(database).Collection(mongoCollection)
	if _, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: bson.D{{Key: "updatedAt", Value: 1}}}); err != nil {
		slog.Warn("mongo session index create failed", "err", err)
	}
	slog.Info("connected to mongodb", "database", database)

	return &Mongo{client: client, coll: coll, now: time.Now}, nil
}

func (m *Mongo) Get(ctx context.Context, sessionID, key string) (string, error) {
	var doc mongoSession
	err := m.coll.FindOne(ctx, bson.D{{Key: "_id", Value: sessionID}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	value, ok := doc.Values[key]
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

func (m *Mongo) Set(ctx context.Context, sessionID, key, value string) error {
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "values." + key, Value: value},
		{Key: "updatedAt", Value: m.now().UTC()},
	}}}
	_, err := m.coll.UpdateOne(ctx, bson.D{{Key: "_id", Value: sessionID}}, update, options.UpdateOne().SetUpsert(true))
	return err
}

func (m *Mongo) Delete(ctx context.Context, sessionID string, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	unset := bson.D{}
	for _, key := range keys {
		unset = append(unset, bson.E{Key: "values." + key, Value: ""})
	}
	update := bson.D{
		{Key: "$unset", Value: unset},
		{Key: "$set", Value: bson.D{{Key: "updatedAt", Value: m.now().UTC()}}},
	}
	_, err := m.coll.UpdateOne(ctx, bson.D{{Key: "_id", Value: sessionID}}, update)
	return err
}

func (m *Mongo) Touch(ctx context.Context, sessionID string) error {
	update := bson.D{{Key: "$set", Value: bson.D{{Key: "updatedAt", Value: m.now().UTC()}}}}
	_, err := m.coll.UpdateOne(ctx, bson.D{{Key: "_id", Value: sessionID}}, update)
	return err
}

func (m *Mongo) Sweep(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := m.coll.DeleteMany(ctx, bson.D{{Key: "updatedAt", Value: bson.D{{Key: "$lt", Value: cutoff.UTC()}}}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
