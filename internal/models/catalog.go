package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Adventure is a bookable activity. Instructors advertise sessions against it.
type Adventure struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Location    string             `bson:"location,omitempty" json:"location,omitempty"`
	Medias      []string           `bson:"medias,omitempty" json:"medias,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
}

// Session is an instructor-led slot for an adventure. Its price is the
// authoritative instructor fee for booking aggregation.
type Session struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	InstructorID primitive.ObjectID `bson:"instructor_id" json:"instructorId"`
	AdventureID  primitive.ObjectID `bson:"adventure_id" json:"adventureId"`
	Price        float64            `bson:"price" json:"price"`
	Date         time.Time          `bson:"date" json:"date"`
	CreatedAt    time.Time          `bson:"created_at" json:"createdAt"`
}

type Hotel struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name          string             `bson:"name" json:"name"`
	Location      string             `bson:"location,omitempty" json:"location,omitempty"`
	PricePerNight float64            `bson:"price_per_night" json:"pricePerNight"`
	Rating        float64            `bson:"rating,omitempty" json:"rating,omitempty"`
	Medias        []string           `bson:"medias,omitempty" json:"medias,omitempty"`
	CreatedAt     time.Time          `bson:"created_at" json:"createdAt"`
}

// Item is gear that can be bought outright or rented for a date range.
type Item struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Price     float64            `bson:"price" json:"price"`
	Rentable  bool               `bson:"rentable" json:"rentable"`
	Images    []string           `bson:"images,omitempty" json:"images,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
}
