package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Role string

const (
	RoleUser       Role = "user"
	RoleInstructor Role = "instructor"
)

// User is the account document. Social-only accounts carry no password hash.
// Email is the natural key across password and social sign-in; it is stored
// lowercased and indexed unique.
type User struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Email          string              `bson:"email" json:"email"`
	Name           string              `bson:"name,omitempty" json:"name,omitempty"`
	PasswordHash   string              `bson:"password_hash,omitempty" json:"-"`
	Role           Role                `bson:"role" json:"role"`
	Verified       bool                `bson:"verified" json:"verified"`
	RefreshToken   string              `bson:"refresh_token,omitempty" json:"-"`
	ProfilePicture string              `bson:"profile_picture,omitempty" json:"profilePicture,omitempty"`
	Instructor     *primitive.ObjectID `bson:"instructor,omitempty" json:"instructor,omitempty"`
	CreatedAt      time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time           `bson:"updated_at" json:"updated_at"`
}

// HasPassword reports whether the account can log in with email/password.
func (u *User) HasPassword() bool {
	return u.PasswordHash != ""
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     Role   `json:"role" validate:"omitempty,oneof=user instructor"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResult carries the outcome of any session-establishing operation.
type AuthResult struct {
	User         *User  `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"-"`
}
