package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/purechef/purechef/internal/domain/recent"
	"github.com/purechef/purechef/internal/domain/recipe"
)

type recentDoc struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	UserID   string             `bson:"userId"`
	Recipe   recipe.Generated   `bson:"recipe"`
	ViewedAt time.Time          `bson:"viewedAt"`
}

func (d recentDoc) toDomain() recent.View {
	return recent.View{
		ID:       d.ID.Hex(),
		UserID:   d.UserID,
		Recipe:   d.Recipe,
		ViewedAt: d.ViewedAt,
	}
}

// RecentViewsRepo is the persistence side of the recency manager. The
// retention policy itself (window, cap, page size) lives in the recency
// package; this repo only provides the primitive operations.
type RecentViewsRepo struct {
	col     *mongo.Collection
	metrics Metrics
}

func NewRecentViewsRepo(db *mongo.Database, metrics Metrics) *RecentViewsRepo {
	return &RecentViewsRepo{col: db.Collection("recent_recipes"), metrics: metrics}
}

// Upsert overwrites the snapshot and timestamp for (user, title), inserting
// when no record exists yet.
func (r *RecentViewsRepo) Upsert(ctx context.Context, userID string, snap recipe.Generated, at time.Time) (recent.View, error) {
	start := time.Now()

	filter := bson.M{"userId": userID, "recipe.title": snap.Title}
	update := bson.M{"$set": bson.M{"recipe": snap, "viewedAt": at}}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var doc recentDoc
	err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)

	// Two concurrent first views of the same title race their inserts; the
	// unique (userId, recipe.title) index rejects the loser, which then
	// matches the winner's document on retry.
	if mongo.IsDuplicateKeyError(err) {
		err = r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	}
	observe(r.metrics, "recent_upsert", err, start)

	if err != nil {
		return recent.View{}, err
	}

	return doc.toDomain(), nil
}

func (r *RecentViewsRepo) DeleteOlderThan(ctx context.Context, userID string, cutoff time.Time) error {
	start := time.Now()

	_, err := r.col.DeleteMany(ctx, bson.M{
		"userId":   userID,
		"viewedAt": bson.M{"$lt": cutoff},
	})
	observe(r.metrics, "recent_delete_window", err, start)
	return err
}

func (r *RecentViewsRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	start := time.Now()

	n, err := r.col.CountDocuments(ctx, bson.M{"userId": userID})
	observe(r.metrics, "recent_count", err, start)
	return int(n), err
}

// DeleteOldest removes the n records with the smallest viewedAt for the user.
func (r *RecentViewsRepo) DeleteOldest(ctx context.Context, userID string, n int) error {
	if n <= 0 {
		return nil
	}

	start := time.Now()

	opts := options.Find().
		SetSort(bson.D{{Key: "viewedAt", Value: 1}}).
		SetLimit(int64(n)).
		SetProjection(bson.M{"_id": 1})

	cur, err := r.col.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		observe(r.metrics, "recent_delete_oldest", err, start)
		return err
	}
	defer cur.Close(ctx)

	var oldest []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cur.All(ctx, &oldest); err != nil {
		observe(r.metrics, "recent_delete_oldest", err, start)
		return err
	}

	if len(oldest) == 0 {
		observe(r.metrics, "recent_delete_oldest", nil, start)
		return nil
	}

	ids := make([]primitive.ObjectID, 0, len(oldest))
	for _, d := range oldest {
		ids = append(ids, d.ID)
	}

	_, err = r.col.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	observe(r.metrics, "recent_delete_oldest", err, start)
	return err
}

func (r *RecentViewsRepo) ListSince(ctx context.Context, userID string, cutoff time.Time, limit int) ([]recent.View, error) {
	start := time.Now()

	opts := options.Find().
		SetSort(bson.D{{Key: "viewedAt", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := r.col.Find(ctx, bson.M{
		"userId":   userID,
		"viewedAt": bson.M{"$gte": cutoff},
	}, opts)
	if err != nil {
		observe(r.metrics, "recent_list", err, start)
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []recentDoc
	if err := cur.All(ctx, &docs); err != nil {
		observe(r.metrics, "recent_list", err, start)
		return nil, err
	}
	observe(r.metrics, "recent_list", nil, start)

	views := make([]recent.View, 0, len(docs))
	for _, d := range docs {
		views = append(views, d.toDomain())
	}
	return views, nil
}
