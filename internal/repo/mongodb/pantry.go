// Package mongodb implements the document-store repositories (pantry,
// cookbook, recent views). Every read and write is scoped by the owning
// user id; cross-tenant access is indistinguishable from a missing record.
package mongodb

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/purechef/purechef/internal/domain/pantry"
)

// ErrNotFound covers both a genuinely missing record and a record owned by
// another user.
var ErrNotFound = errors.New("record not found")

type pantryDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    string             `bson:"userId"`
	Name      string             `bson:"name"`
	CreatedAt time.Time          `bson:"createdAt"`
}

func (d pantryDoc) toDomain() pantry.Item {
	return pantry.Item{
		ID:        d.ID.Hex(),
		UserID:    d.UserID,
		Name:      d.Name,
		CreatedAt: d.CreatedAt,
	}
}

type PantryRepo struct {
	col     *mongo.Collection
	metrics Metrics
}

func NewPantryRepo(db *mongo.Database, metrics Metrics) *PantryRepo {
	return &PantryRepo{col: db.Collection("pantry_items"), metrics: metrics}
}

func (r *PantryRepo) ListByUser(ctx context.Context, userID string) ([]pantry.Item, error) {
	start := time.Now()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cur, err := r.col.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		observe(r.metrics, "pantry_list", err, start)
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []pantryDoc
	if err := cur.All(ctx, &docs); err != nil {
		observe(r.metrics, "pantry_list", err, start)
		return nil, err
	}
	observe(r.metrics, "pantry_list", nil, start)

	items := make([]pantry.Item, 0, len(docs))
	for _, d := range docs {
		items = append(items, d.toDomain())
	}
	return items, nil
}

// ExistsByName matches the name case-insensitively but exactly; "Tomato"
// and "Tomatoes" are distinct on purpose.
func (r *PantryRepo) ExistsByName(ctx context.Context, userID, name string) (bool, error) {
	start := time.Now()

	pattern := "^" + regexp.QuoteMeta(name) + "$"

	count, err := r.col.CountDocuments(ctx, bson.M{
		"userId": userID,
		"name":   primitive.Regex{Pattern: pattern, Options: "i"},
	})
	observe(r.metrics, "pantry_exists", err, start)

	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *PantryRepo) Create(ctx context.Context, userID, name string) (pantry.Item, error) {
	doc := pantryDoc{
		UserID:    userID,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}

	start := time.Now()

	res, err := r.col.InsertOne(ctx, doc)
	observe(r.metrics, "pantry_create", err, start)

	if err != nil {
		return pantry.Item{}, err
	}

	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *PantryRepo) Delete(ctx context.Context, userID, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		// Malformed id can never match an owned record.
		return ErrNotFound
	}

	start := time.Now()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid, "userId": userID})
	observe(r.metrics, "pantry_delete", err, start)

	if err != nil {
		return err
	}

	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
