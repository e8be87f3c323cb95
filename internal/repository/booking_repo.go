package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/saquibjawedbit/Booking-Web/internal/models"
)

// BookingRepository persists the per-domain records an aggregate checkout
// decomposes into.
type BookingRepository interface {
	CreateSessionBooking(ctx context.Context, b *models.SessionBooking) error
	CreateItemBooking(ctx context.Context, b *models.ItemBooking) error
	CreateHotelBooking(ctx context.Context, b *models.HotelBooking) error
}

type mongoBookingRepo struct {
	db *mongo.Database
}

func NewMongoBookingRepo(db *mongo.Database) BookingRepository {
	return &mongoBookingRepo{db: db}
}

func (r *mongoBookingRepo) CreateSessionBooking(ctx context.Context, b *models.SessionBooking) error {
	b.CreatedAt = time.Now().UTC()
	res, err := r.db.Collection("session_bookings").InsertOne(ctx, b)
	if err != nil {
		return fmt.Errorf("insert session booking: %w", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		b.ID = id
	}
	return nil
}

func (r *mongoBookingRepo) CreateItemBooking(ctx context.Context, b *models.ItemBooking) error {
	b.CreatedAt = time.Now().UTC()
	res, err := r.db.Collection("item_bookings").InsertOne(ctx, b)
	if err != nil {
		return fmt.Errorf("insert item booking: %w", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		b.ID = id
	}
	return nil
}

func (r *mongoBookingRepo) CreateHotelBooking(ctx context.Context, b *models.HotelBooking) error {
	b.CreatedAt = time.Now().UTC()
	res, err := r.db.Collection("hotel_bookings").InsertOne(ctx, b)
	if err != nil {
		return fmt.Errorf("insert hotel booking: %w", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		b.ID = id
	}
	return nil
}
