package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Instructor is the profile document created once during instructor
// registration. The owning user stores a back-reference in User.Instructor.
type Instructor struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Description     string             `bson:"description" json:"description"`
	Adventure       string             `bson:"adventure" json:"adventure"`
	Location        string             `bson:"location" json:"location"`
	PortfolioMedias []string           `bson:"portfolio_medias,omitempty" json:"portfolioMedias,omitempty"`
	Certificate     string             `bson:"certificate,omitempty" json:"certificate,omitempty"`
	GovernmentID    string             `bson:"government_id,omitempty" json:"governmentId,omitempty"`
	CreatedAt       time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"updatedAt"`
}

type InstructorProfileRequest struct {
	Description string `json:"description" validate:"required"`
	Adventure   string `json:"adventure" validate:"required"`
	Location    string `json:"location" validate:"required"`
}
