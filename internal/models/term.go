package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Term is a versioned terms-and-conditions document. Only live terms are
// served to clients; superseded versions stay in the collection.
type Term struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title     string             `bson:"title" json:"title"`
	Version   string             `bson:"version" json:"version"`
	Content   string             `bson:"content" json:"content"`
	Live      bool               `bson:"live" json:"live"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updatedAt"`
}
