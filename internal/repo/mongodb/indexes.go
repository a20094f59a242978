package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/purechef/purechef/internal/recency"
)

// EnsureIndexes creates the schema-level guarantees the repos rely on.
// The recent-views collection carries two: a unique compound index so at
// most one record exists per (user, recipe title) even under concurrent
// upserts, and a TTL index on viewedAt as a backstop behind the inline
// window eviction.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("recent_recipes").Indexes().CreateMany(ctx, recentIndexModels())
	return err
}

func recentIndexModels() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "recipe.title", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "viewedAt", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(int32(recency.Window.Seconds())),
		},
	}
}
