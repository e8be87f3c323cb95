package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/saquibjawedbit/Booking-Web/internal/apperr"
	"github.com/saquibjawedbit/Booking-Web/internal/models"
)

type UserRepository interface {
	Create(ctx context.Context, u *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	Update(ctx context.Context, u *models.User) error
	SetRefreshToken(ctx context.Context, id primitive.ObjectID, token string) error
}

type mongoUserRepo struct {
	col *mongo.Collection
}

// NewMongoUserRepo ensures the unique email index before handing out the
// repo. A failed bootstrap is fatal: without the index, duplicate
// registration is only guarded by the racy find-then-create check.
func NewMongoUserRepo(db *mongo.Database) (UserRepository, error) {
	col := db.Collection("users")
	_, err := col.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true).SetSparse(true)},
	})
	if err != nil {
		return nil, fmt.Errorf("ensure user indexes: %w", err)
	}
	return &mongoUserRepo{col: col}, nil
}

func (r *mongoUserRepo) Create(ctx context.Context, u *models.User) error {
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	res, err := r.col.InsertOne(ctx, u)
	if err != nil {
		if isDuplicateKey(err) {
			return fmt.Errorf("user with this email %w", apperr.ErrConflict)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		u.ID = id
	}
	return nil
}

func (r *mongoUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("user %w", apperr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &u, nil
}

func (r *mongoUserRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("user %w", apperr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return &u, nil
}

func (r *mongoUserRepo) Update(ctx context.Context, u *models.User) error {
	u.UpdatedAt = time.Now().UTC()
	_, err := r.col.UpdateByID(ctx, u.ID, bson.M{"$set": u})
	if err != nil {
		if isDuplicateKey(err) {
			return fmt.Errorf("user with this email %w", apperr.ErrConflict)
		}
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

// SetRefreshToken overwrites the single stored refresh token. Two concurrent
// logins race here and the loser's session is silently invalidated; this
// matches the last-write-wins semantics of the rest of the auth flow.
func (r *mongoUserRepo) SetRefreshToken(ctx context.Context, id primitive.ObjectID, token string) error {
	update := bson.M{"$set": bson.M{"refresh_token": token, "updated_at": time.Now().UTC()}}
	if token == "" {
		update = bson.M{
			"$unset": bson.M{"refresh_token": ""},
			"$set":   bson.M{"updated_at": time.Now().UTC()},
		}
	}
	_, err := r.col.UpdateByID(ctx, id, update)
	if err != nil {
		return fmt.Errorf("set refresh token: %w", err)
	}
	return nil
}

func isDuplicateKey(err error) bool {
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 {
				return true
			}
		}
	}
	return false
}
