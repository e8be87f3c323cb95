package services

import (
	"context"

	"github.com/saquibjawedbit/Booking-Web/internal/media"
	"github.com/saquibjawedbit/Booking-Web/internal/models"
)

// AuthService owns the identity and session workflow: registration, the
// purpose-scoped OTP state machine, password login, social sign-in, token
// refresh and the password/email change flows.
type AuthService interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.User, error)
	VerifyOtp(ctx context.Context, email, code string) (*models.AuthResult, error)
	ResendOtp(ctx context.Context, email string) error
	Login(ctx context.Context, email, password string) (*models.AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (*models.AuthResult, error)
	Logout(ctx context.Context, userID string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, email, code, newPassword string) error
	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error
	RequestEmailChange(ctx context.Context, userID, newEmail string) error
	ConfirmEmailChange(ctx context.Context, userID, newEmail, code string) (*models.AuthResult, error)
	SocialSignIn(ctx context.Context, provider, artifact string) (*models.AuthResult, error)
	RegisterInstructor(ctx context.Context, userID string, req models.InstructorProfileRequest, files InstructorFiles) (*models.Instructor, *models.User, error)
}

// InstructorFiles carries the optional uploads of an instructor registration.
type InstructorFiles struct {
	ProfileImage    *media.File
	PortfolioMedias []media.File
	Certificate     *media.File
	GovernmentID    *media.File
}

// BookingService owns the aggregate checkout: consent gate, server-side
// price recomputation, decomposition into sub-bookings and the payment
// redirect.
type BookingService interface {
	CreateAggregate(ctx context.Context, userID string, req models.AggregateBookingRequest) (*models.BookingResult, error)
}

// OtpLimiter caps OTP issuance per recipient. Returns apperr.ErrRateLimited
// when the cap is hit.
type OtpLimiter interface {
	Allow(ctx context.Context, email string) error
}
