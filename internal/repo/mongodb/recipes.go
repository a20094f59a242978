package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/purechef/purechef/internal/domain/recipe"
)

type recipeDoc struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty"`
	UserID       string              `bson:"userId"`
	Title        string              `bson:"title"`
	Description  string              `bson:"description"`
	Time         string              `bson:"time"`
	Calories     string              `bson:"calories"`
	Protein      string              `bson:"protein"`
	Carbs        string              `bson:"carbs"`
	ImageURL     string              `bson:"imageUrl,omitempty"`
	Ingredients  []recipe.Ingredient `bson:"ingredients"`
	Instructions []string            `bson:"instructions"`
	CreatedAt    time.Time           `bson:"createdAt"`
}

func (d recipeDoc) toDomain() recipe.Recipe {
	return recipe.Recipe{
		ID:           d.ID.Hex(),
		UserID:       d.UserID,
		Title:        d.Title,
		Description:  d.Description,
		Time:         d.Time,
		Calories:     d.Calories,
		Protein:      d.Protein,
		Carbs:        d.Carbs,
		ImageURL:     d.ImageURL,
		Ingredients:  d.Ingredients,
		Instructions: d.Instructions,
		CreatedAt:    d.CreatedAt,
	}
}

type RecipesRepo struct {
	col     *mongo.Collection
	metrics Metrics
}

func NewRecipesRepo(db *mongo.Database, metrics Metrics) *RecipesRepo {
	return &RecipesRepo{col: db.Collection("recipes"), metrics: metrics}
}

func (r *RecipesRepo) Create(ctx context.Context, userID string, req recipe.SaveRecipeRequest) (recipe.Recipe, error) {
	doc := recipeDoc{
		UserID:       userID,
		Title:        req.Title,
		Description:  req.Description,
		Time:         req.Time,
		Calories:     req.Calories,
		Protein:      req.Protein,
		Carbs:        req.Carbs,
		ImageURL:     req.ImageURL,
		Ingredients:  req.Ingredients,
		Instructions: req.Instructions,
		CreatedAt:    time.Now().UTC(),
	}

	if doc.Ingredients == nil {
		doc.Ingredients = []recipe.Ingredient{}
	}
	if doc.Instructions == nil {
		doc.Instructions = []string{}
	}

	start := time.Now()

	res, err := r.col.InsertOne(ctx, doc)
	observe(r.metrics, "recipes_create", err, start)

	if err != nil {
		return recipe.Recipe{}, err
	}

	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *RecipesRepo) ListByUser(ctx context.Context, userID string) ([]recipe.Recipe, error) {
	start := time.Now()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cur, err := r.col.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		observe(r.metrics, "recipes_list", err, start)
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []recipeDoc
	if err := cur.All(ctx, &docs); err != nil {
		observe(r.metrics, "recipes_list", err, start)
		return nil, err
	}
	observe(r.metrics, "recipes_list", nil, start)

	recipes := make([]recipe.Recipe, 0, len(docs))
	for _, d := range docs {
		recipes = append(recipes, d.toDomain())
	}
	return recipes, nil
}

func (r *RecipesRepo) Delete(ctx context.Context, userID, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	start := time.Now()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid, "userId": userID})
	observe(r.metrics, "recipes_delete", err, start)

	if err != nil {
		return err
	}

	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
