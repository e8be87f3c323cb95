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

// CatalogRepository serves the read side of the marketplace: the adventures,
// sessions, hotels and items that booking requests reference. Its prices are
// the authoritative inputs to server-side total recomputation.
type CatalogRepository interface {
	FindSession(ctx context.Context, id primitive.ObjectID) (*models.Session, error)
	FindItem(ctx context.Context, id primitive.ObjectID) (*models.Item, error)
	FindHotel(ctx context.Context, id primitive.ObjectID) (*models.Hotel, error)
	FindAdventure(ctx context.Context, id primitive.ObjectID) (*models.Adventure, error)
	ListAdventures(ctx context.Context) ([]models.Adventure, error)
	ListHotels(ctx context.Context) ([]models.Hotel, error)
	ListItems(ctx context.Context) ([]models.Item, error)
}

type mongoCatalogRepo struct {
	db *mongo.Database
}

func NewMongoCatalogRepo(db *mongo.Database) CatalogRepository {
	return &mongoCatalogRepo{db: db}
}

func (r *mongoCatalogRepo) FindSession(ctx context.Context, id primitive.ObjectID) (*models.Session, error) {
	var s models.Session
	if err := r.findOne(ctx, "sessions", id, &s, "session"); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *mongoCatalogRepo) FindItem(ctx context.Context, id primitive.ObjectID) (*models.Item, error) {
	var it models.Item
	if err := r.findOne(ctx, "items", id, &it, "item"); err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *mongoCatalogRepo) FindHotel(ctx context.Context, id primitive.ObjectID) (*models.Hotel, error) {
	var h models.Hotel
	if err := r.findOne(ctx, "hotels", id, &h, "hotel"); err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *mongoCatalogRepo) FindAdventure(ctx context.Context, id primitive.ObjectID) (*models.Adventure, error) {
	var a models.Adventure
	if err := r.findOne(ctx, "adventures", id, &a, "adventure"); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *mongoCatalogRepo) ListAdventures(ctx context.Context) ([]models.Adventure, error) {
	var out []models.Adventure
	if err := r.list(ctx, "adventures", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *mongoCatalogRepo) ListHotels(ctx context.Context) ([]models.Hotel, error) {
	var out []models.Hotel
	if err := r.list(ctx, "hotels", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *mongoCatalogRepo) ListItems(ctx context.Context) ([]models.Item, error) {
	var out []models.Item
	if err := r.list(ctx, "items", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *mongoCatalogRepo) findOne(ctx context.Context, collection string, id primitive.ObjectID, dest interface{}, kind string) error {
	err := r.db.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Decode(dest)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("%s %w", kind, apperr.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("find %s: %w", kind, err)
	}
	return nil
}

func (r *mongoCatalogRepo) list(ctx context.Context, collection string, dest interface{}) error {
	cur, err := r.db.Collection(collection).Find(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("list %s: %w", collection, err)
	}
	defer cur.Close(ctx)
	if err := cur.All(ctx, dest); err != nil {
		return fmt.Errorf("decode %s: %w", collection, err)
	}
	return nil
}
