package recent

import (
	"time"

	"github.com/purechef/purechef/internal/domain/recipe"
)

// View is one recently-viewed-recipe record. At most one exists per
// (user, recipe title); a later view of the same title overwrites the
// snapshot and timestamp in place.
type View struct {
	ID       string           `json:"id" bson:"_id,omitempty"`
	UserID   string           `json:"-" bson:"userId"`
	Recipe   recipe.Generated `json:"recipe" bson:"recipe"`
	ViewedAt time.Time        `json:"viewedAt" bson:"viewedAt"`
}
