package pantry

import "time"

// Item is a single pantry ingredient owned by a user. Names are unique per
// user under case-insensitive comparison.
type Item struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	UserID    string    `json:"-" bson:"userId"`
	Name      string    `json:"name" bson:"name"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}
