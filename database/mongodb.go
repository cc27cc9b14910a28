package database

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// shared connection (private to members of this package)
var client *mongo.Client

// since there are no joins in MongoDB, look-ups to texts that describe values (selection options)
// are integrated into the client's "core"
var lookups []LookupType

// OpenConnection to the database
func OpenConnection() error {
	var err error

	conStr := fmt.Sprintf("mongodb://%s:%s@%s:%s",
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASS"),
		os.Getenv("DB_HOST"),
		os.Getenv("DB_PORT"))

	client, err = mongo.NewClient(options.Client().ApplyURI(conStr))
	if err != nil {
		return err
	}

	// every caller will create its own context
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err = client.Connect(ctx)
	if err != nil {
		return err
	}

	// make sure a connection has actually been made
	err = client.Ping(ctx, readpref.Primary())
	if err != nil {
		return err
	}

	// the models rely on these indexes (eg. the find-or-create race of the
	// default collections is settled by the unique name index)
	err = ensureIndexes(ctx)
	if err != nil {
		return err
	}

	// load look-up map (singleton)
	if lookups == nil {
		lookups, err = getLookupMap()
		if err != nil {
			return err
		}
	}

	return nil
}

// storeIndexes declares the indexes required by the models, per collection
func storeIndexes() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		// one collection name per owner (case-sensitive, as MongoDB compares)
		"collections": {
			{
				Keys: bson.D{
					{Key: "ownerID", Value: 1},
					{Key: "name", Value: 1},
				},
				Options: options.Index().SetUnique(true),
			},
		},
		// one meal-plan entry per owner, day and slot
		"mealPlans": {
			{
				Keys: bson.D{
					{Key: "ownerID", Value: 1},
					{Key: "day", Value: 1},
					{Key: "slotCD", Value: 1},
				},
				Options: options.Index().SetUnique(true),
			},
		},
	}
}

// ensureIndexes creates the declared indexes (no-op when they already exist)
func ensureIndexes(ctx context.Context) error {
	db := client.Database(os.Getenv("DB_NAME"))

	for name, indexes := range storeIndexes() {
		_, err := db.Collection(name).Indexes().CreateMany(ctx, indexes)
		if err != nil {
			return err
		}
	}

	return nil
}

// CloseConnection closes the connection to the DB (when client is shut-down)
func CloseConnection() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return client.Disconnect(ctx)
}

// GetConnection returns a reference to the shared connection
func GetConnection() *mongo.Client {
	return client
}

// GetLookups returns a reference to the map of code definitions
func GetLookups() ([]LookupType, error) {
	if lookups == nil {
		return nil, errors.New("look-up not available")
	}

	return lookups, nil
}
