package recipe

import "time"

// Ingredient is a single name+amount pair inside a recipe.
type Ingredient struct {
	Name   string `json:"name" bson:"name"`
	Amount string `json:"amount" bson:"amount"`
}

// Generated is the shape the model is instructed to return for each of the
// three recommended dishes. The same shape is embedded in recent-view
// snapshots, so every field besides the title is optional.
type Generated struct {
	Title        string       `json:"title" bson:"title"`
	Description  string       `json:"description" bson:"description"`
	Time         string       `json:"time" bson:"time"`
	Calories     string       `json:"calories" bson:"calories"`
	Protein      string       `json:"protein" bson:"protein"`
	Carbs        string       `json:"carbs" bson:"carbs"`
	Match        string       `json:"match,omitempty" bson:"match,omitempty"`
	ImageURL     string       `json:"imageUrl,omitempty" bson:"imageUrl,omitempty"`
	Ingredients  []Ingredient `json:"ingredients" bson:"ingredients"`
	Instructions []string     `json:"instructions" bson:"instructions"`
}

// Recipe is a cookbook entry owned by a user.
type Recipe struct {
	ID           string       `json:"id" bson:"_id,omitempty"`
	UserID       string       `json:"-" bson:"userId"`
	Title        string       `json:"title" bson:"title"`
	Description  string       `json:"description" bson:"description"`
	Time         string       `json:"time" bson:"time"`
	Calories     string       `json:"calories" bson:"calories"`
	Protein      string       `json:"protein" bson:"protein"`
	Carbs        string       `json:"carbs" bson:"carbs"`
	ImageURL     string       `json:"imageUrl,omitempty" bson:"imageUrl,omitempty"`
	Ingredients  []Ingredient `json:"ingredients" bson:"ingredients"`
	Instructions []string     `json:"instructions" bson:"instructions"`
	CreatedAt    time.Time    `json:"createdAt" bson:"createdAt"`
}

type SaveRecipeRequest struct {
	Title        string       `json:"title" binding:"required"`
	Description  string       `json:"description"`
	Time         string       `json:"time"`
	Calories     string       `json:"calories"`
	Protein      string       `json:"protein"`
	Carbs        string       `json:"carbs"`
	ImageURL     string       `json:"imageUrl"`
	Ingredients  []Ingredient `json:"ingredients"`
	Instructions []string     `json:"instructions"`
}
