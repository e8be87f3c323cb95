package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Declaration is a consent/liability document the user must acknowledge
// before booking any of the adventures it covers.
type Declaration struct {
	ID         primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Title      string               `bson:"title" json:"title"`
	Version    string               `bson:"version" json:"version"`
	Content    string               `bson:"content" json:"content"`
	Adventures []primitive.ObjectID `bson:"adventures" json:"adventures"`
	CreatedAt  time.Time            `bson:"created_at" json:"createdAt"`
	UpdatedAt  time.Time            `bson:"updated_at" json:"updatedAt"`
}

// Covers reports whether the declaration applies to the given adventure.
func (d *Declaration) Covers(adventureID primitive.ObjectID) bool {
	for _, id := range d.Adventures {
		if id == adventureID {
			return true
		}
	}
	return false
}
