package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/saquibjawedbit/Booking-Web/internal/apperr"
	"github.com/saquibjawedbit/Booking-Web/internal/models"
)

type InstructorRepository interface {
	Create(ctx context.Context, ins *models.Instructor) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Instructor, error)
}

type mongoInstructorRepo struct {
	col *mongo.Collection
}

func NewMongoInstructorRepo(db *mongo.Database) InstructorRepository {
	return &mongoInstructorRepo{col: db.Collection("instructors")}
}

func (r *mongoInstructorRepo) Create(ctx context.Context, ins *models.Instructor) error {
	now := time.Now().UTC()
	ins.CreatedAt = now
	ins.UpdatedAt = now
	res, err := r.col.InsertOne(ctx, ins)
	if err != nil {
		return fmt.Errorf("insert instructor: %w", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		ins.ID = id
	}
	return nil
}

func (r *mongoInstructorRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Instructor, error) {
	var ins models.Instructor
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&ins)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("instructor %w", apperr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find instructor: %w", err)
	}
	return &ins, nil
}
