package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OtpPurpose scopes a code to the flow that issued it. The original design
// disambiguated only by endpoint; codes here carry their purpose so a signup
// code cannot reset a password.
type OtpPurpose string

const (
	PurposeSignup        OtpPurpose = "signup"
	PurposePasswordReset OtpPurpose = "password_reset"
	PurposeEmailChange   OtpPurpose = "email_change"
)

// Otp is a one-time code tied to a user. At most one active code per user is
// intended: issuing deletes prior codes before inserting the new one.
type Otp struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"userId"`
	Code      int                `bson:"code" json:"-"`
	Purpose   OtpPurpose         `bson:"purpose" json:"purpose"`
	Verified  bool               `bson:"verified" json:"verified"`
	ExpiresAt time.Time          `bson:"expires_at" json:"expiresAt"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
}

// Expired reports whether the code is past its expiry at the given instant.
func (o *Otp) Expired(now time.Time) bool {
	return now.After(o.ExpiresAt)
}

type VerifyOtpRequest struct {
	Email string `json:"email" validate:"required,email"`
	Otp   string `json:"otp" validate:"required,len=6,numeric"`
}

type ResendOtpRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Otp         string `json:"otp" validate:"required,len=6,numeric"`
	NewPassword string `json:"newPassword" validate:"required,min=8"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8"`
}

type VerifyNewEmailRequest struct {
	NewEmail string `json:"newEmail" validate:"required,email"`
}

type UpdateEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
	Otp   string `json:"otp" validate:"required,len=6,numeric"`
}

type SocialSignInRequest struct {
	// Token for Google (an ID token), Code for LinkedIn/Facebook
	// (an authorization code). Exactly one is expected per provider.
	Token string `json:"token"`
	Code  string `json:"code"`
}
