package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Alen-Aazim/noble-voting/logging"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const timeout = 10 * time.Second

// collectionDocument holds a whole collection: {_id: name, records: [...]}.
type collectionDocument struct {
	Name    string        `bson:"_id"`
	Records bson.RawValue `bson:"records"`
}

// Connect dials uri and verifies the primary is reachable.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	logging.Logger.WithFields(logrus.Fields{"module": "database", "method": "Connect"}).Info("beginning database connection")

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	logging.Logger.WithFields(logrus.Fields{"module": "database", "method": "Connect"}).Info("connected to mongodb")

	return client, nil
}

// MongoBackend keeps one document per collection inside the "collections"
// collection of a database.
type MongoBackend struct {
	client *mongo.Client
	coll   *mongo.Collection
}

var _ Backend = (*MongoBackend)(nil)

func NewMongoBackend(client *mongo.Client, database string) *MongoBackend {
	return &MongoBackend{
		client: client,
		coll:   client.Database(database).Collection("collections"),
	}
}

func (m *MongoBackend) Read(ctx context.Context, name string, dest interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var doc collectionDocument
	err := m.coll.FindOne(ctx, bson.M{"_id": name}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNoDocument
	}
	if err != nil {
		return err
	}

	if doc.Records.Type == bsontype.Null || doc.Records.Type == 0 {
		return nil
	}
	if err := doc.Records.Unmarshal(dest); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrCorrupt, name, err)
	}
	return nil
}

func (m *MongoBackend) Write(ctx context.Context, name string, records interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if records == nil {
		records = bson.A{}
	}
	_, err := m.coll.ReplaceOne(ctx,
		bson.M{"_id": name},
		bson.M{"_id": name, "records": records},
		options.Replace().SetUpsert(true),
	)
	return err
}

func (m *MongoBackend) Remove(ctx context.Context, name string) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	_, err := m.coll.DeleteOne(ctx, bson.M{"_id": name})
	return err
}

func (m *MongoBackend) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	return m.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client the backend was built with.
func (m *MongoBackend) Close(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := m.client.Disconnect(ctx); err != nil {
		return err
	}

	logging.Logger.WithFields(logrus.Fields{"module": "database", "method": "Disconnect"}).Info("disconnected from database")
	return nil
}
