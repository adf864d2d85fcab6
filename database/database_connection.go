package database

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

var (
	dbClient    *mongo.Client
	connectOnce sync.Once
)

func Connect() *mongo.Client {
	connectOnce.Do(func() {
		serverAPI := options.ServerAPI(options.ServerAPIVersion1)
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found, using system environment variables")
		}
		uri := os.Getenv("MONGODB_URI")
		opts := options.Client().ApplyURI(uri).SetServerAPIOptions(serverAPI)
		client, err := mongo.Connect(opts)
		if err != nil {
			panic(err)
		}
		// Send a ping to confirm a successful connection
		if err := client.Ping(context.TODO(), readpref.Primary()); err != nil {
			panic(err)
		}
		fmt.Println("Pinged your deployment. You successfully connected to MongoDB!")
		dbClient = client
	})
	return dbClient
}

func OpenCollection(collectionName string) *mongo.Collection {
	client := Connect()
	databaseName := os.Getenv("DATABASE_NAME")
	return client.Database(databaseName).Collection(collectionName)
}

// EnsureIndexes creates the unique indexes the handlers rely on. The
// purchases index is partial so only completed purchases are constrained to
// one per (user, resource); pending/failed rows may repeat.
func EnsureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)

	if _, err := OpenCollection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: unique,
	}); err != nil {
		return fmt.Errorf("users email index: %w", err)
	}

	catModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "title", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
	if _, err := OpenCollection("categories").Indexes().CreateMany(ctx, catModels); err != nil {
		return fmt.Errorf("categories indexes: %w", err)
	}

	if _, err := OpenCollection("documentation").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "slug", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("documentation slug index: %w", err)
	}

	if _, err := OpenCollection("courses").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "slug", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("courses slug index: %w", err)
	}

	if _, err := OpenCollection("purchases").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "resourceId", Value: 1}},
		Options: options.Index().
			SetUnique(true).
			SetPartialFilterExpression(bson.M{"status": "completed"}),
	}); err != nil {
		return fmt.Errorf("purchases pair index: %w", err)
	}

	return nil
}
