package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/saquibjawedbit/Booking-Web/internal/models"
)

type TermsRepository interface {
	// ListLive returns every currently published terms document,
	// newest first.
	ListLive(ctx context.Context) ([]models.Term, error)
}

type mongoTermsRepo struct {
	col *mongo.Collection
}

func NewMongoTermsRepo(db *mongo.Database) TermsRepository {
	return &mongoTermsRepo{col: db.Collection("terms")}
}

func (r *mongoTermsRepo) ListLive(ctx context.Context) ([]models.Term, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"live": true}, opts)
	if err != nil {
		return nil, fmt.Errorf("find live terms: %w", err)
	}
	defer cur.Close(ctx)

	var out []models.Term
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode terms: %w", err)
	}
	return out, nil
}
