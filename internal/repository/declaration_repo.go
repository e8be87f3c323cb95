package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/saquibjawedbit/Booking-Web/internal/apperr"
	"github.com/saquibjawedbit/Booking-Web/internal/models"
)

type DeclarationRepository interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Declaration, error)
	FindByAdventure(ctx context.Context, adventureID primitive.ObjectID) ([]models.Declaration, error)
}

type mongoDeclarationRepo struct {
	col *mongo.Collection
}

func NewMongoDeclarationRepo(db *mongo.Database) DeclarationRepository {
	return &mongoDeclarationRepo{col: db.Collection("declarations")}
}

func (r *mongoDeclarationRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Declaration, error) {
	var d models.Declaration
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("declaration %w", apperr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find declaration: %w", err)
	}
	return &d, nil
}

func (r *mongoDeclarationRepo) FindByAdventure(ctx context.Context, adventureID primitive.ObjectID) ([]models.Declaration, error) {
	cur, err := r.col.Find(ctx, bson.M{"adventures": adventureID})
	if err != nil {
		return nil, fmt.Errorf("find declarations by adventure: %w", err)
	}
	defer cur.Close(ctx)

	var out []models.Declaration
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode declarations: %w", err)
	}
	return out, nil
}
