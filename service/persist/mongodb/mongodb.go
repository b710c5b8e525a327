package mongodb

import (
	"context"
	"time"

	"github.com/evonft/go-evonft/env"
	"github.com/evonft/go-evonft/service/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// NewMongoClient connects to the mongo deployment configured by MONGO_URL and
// pings it before returning
func NewMongoClient(ctx context.Context) *mongo.Client {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	mOpts := options.Client().ApplyURI(env.GetString("MONGO_URL"))

	client, err := mongo.Connect(ctx, mOpts)
	if err != nil {
		panic(err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		panic(err)
	}

	logger.For(ctx).Info("mongo connected")

	return client
}

// SetupIndexes creates the unique indexes the user collection relies on
func SetupIndexes(ctx context.Context, db *mongo.Database) error {
	unique := true
	sparse := true

	users := db.Collection(usersCollName)
	for _, key := range []string{"username_idempotent", "email"} {
		_, err := users.Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys: bson.M{key: 1},
			Options: &options.IndexOptions{
				Unique: &unique,
				Sparse: &sparse,
			},
		})
		if err != nil {
			return err
		}
	}

	return nil
}
