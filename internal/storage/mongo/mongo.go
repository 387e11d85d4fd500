// Package mongo implements core.Store on MongoDB.
//
// Withdrawals run in a multi-document transaction, which needs a replica
// set or sharded cluster. A standalone server accepts deposits and reads
// but fails every checked append.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/JonMunkholm/BloodBank/internal/config"
	"github.com/JonMunkholm/BloodBank/internal/core"
)

// Collection names.
const (
	usersCollection   = "users"
	recordsCollection = "inventories"
	guardsCollection  = "stock_guards"
)

// Store is a core.Store backed by one MongoDB database.
type Store struct {
	client  *mongo.Client
	users   *mongo.Collection
	records *mongo.Collection
	guards  *mongo.Collection
}

// Verify interface compliance
var _ core.Store = (*Store)(nil)

// Connect opens a client and pings the primary within cfg.ConnectTimeout.
func Connect(ctx context.Context, cfg config.MongoConfig) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping MongoDB: %w", err)
	}
	return client, nil
}

// New binds a store to database on client.
func New(client *mongo.Client, database string) *Store {
	db := client.Database(database)
	return &Store{
		client:  client,
		users:   db.Collection(usersCollection),
		records: db.Collection(recordsCollection),
		guards:  db.Collection(guardsCollection),
	}
}

// EnsureIndexes creates the unique email index and the ledger query indexes.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := s.users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "role", Value: 1}, {Key: "createdAt", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("create user indexes: %w", err)
	}

	_, err = s.records.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "organisation", Value: 1}, {Key: "bloodGroup", Value: 1}, {Key: "inventoryType", Value: 1}}},
		{Keys: bson.D{{Key: "bloodGroup", Value: 1}, {Key: "inventoryType", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "donar", Value: 1}}, Options: options.Index().SetSparse(true)},
		{Keys: bson.D{{Key: "hospital", Value: 1}}, Options: options.Index().SetSparse(true)},
	})
	if err != nil {
		return fmt.Errorf("create inventory indexes: %w", err)
	}
	return nil
}
