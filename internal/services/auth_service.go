package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/saquibjawedbit/Booking-Web/internal/apperr"
	"github.com/saquibjawedbit/Booking-Web/internal/events"
	"github.com/saquibjawedbit/Booking-Web/internal/mailer"
	"github.com/saquibjawedbit/Booking-Web/internal/media"
	"github.com/saquibjawedbit/Booking-Web/internal/models"
	"github.com/saquibjawedbit/Booking-Web/internal/oauth"
	"github.com/saquibjawedbit/Booking-Web/internal/repository"
	"github.com/saquibjawedbit/Booking-Web/internal/utils"
)

// AuthConfig is the token and OTP tuning for the auth service.
type AuthConfig struct {
	JWTSecret        string
	AccessTTLMinutes int
	RefreshTTLDays   int
	OtpTTLMinutes    int
}

type authService struct {
	users       repository.UserRepository
	otps        repository.OtpRepository
	instructors repository.InstructorRepository
	mail        mailer.Mailer
	providers   map[string]oauth.Provider
	uploader    media.Uploader
	limiter     OtpLimiter
	pub         events.Publisher
	cfg         AuthConfig
	logger      *zap.Logger
}

func NewAuthService(
	users repository.UserRepository,
	otps repository.OtpRepository,
	instructors repository.InstructorRepository,
	mail mailer.Mailer,
	providers map[string]oauth.Provider,
	uploader media.Uploader,
	limiter OtpLimiter,
	pub events.Publisher,
	cfg AuthConfig,
	logger *zap.Logger,
) AuthService {
	return &authService{
		users:       users,
		otps:        otps,
		instructors: instructors,
		mail:        mail,
		providers:   providers,
		uploader:    uploader,
		limiter:     limiter,
		pub:         pub,
		cfg:         cfg,
		logger:      logger,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an unverified account and issues the signup OTP.
func (s *authService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	req.Email = normalizeEmail(req.Email)
	if req.Role == "" {
		req.Role = models.RoleUser
	}

	if _, err := s.users.FindByEmail(ctx, req.Email); err == nil {
		return nil, fmt.Errorf("user with this email %w", apperr.ErrConflict)
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: string(hash),
		Role:         req.Role,
		Verified:     false,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	if err := s.issueOtp(ctx, user, models.PurposeSignup, user.Email); err != nil {
		return nil, err
	}

	s.pub.Publish(ctx, events.UserRegistered, map[string]interface{}{
		"userId": user.ID.Hex(),
		"email":  user.Email,
		"role":   user.Role,
	})

	return user, nil
}

// VerifyOtp consumes a signup code and establishes the first session.
func (s *authService) VerifyOtp(ctx context.Context, email, code string) (*models.AuthResult, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}

	otp, err := s.checkOtp(ctx, user.ID, code, models.PurposeSignup)
	if err != nil {
		return nil, err
	}

	if err := s.otps.MarkVerified(ctx, otp.ID); err != nil {
		return nil, err
	}
	user.Verified = true
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	res, err := s.establishSession(ctx, user)
	if err != nil {
		return nil, err
	}

	s.pub.Publish(ctx, events.UserVerified, map[string]interface{}{
		"userId": user.ID.Hex(),
		"email":  user.Email,
	})

	return res, nil
}

// ResendOtp replaces any outstanding signup code with a fresh one. The old
// code is gone before the new mail is sent, so it can never verify.
func (s *authService) ResendOtp(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return err
	}
	return s.issueOtp(ctx, user, models.PurposeSignup, user.Email)
}

func (s *authService) Login(ctx context.Context, email, password string) (*models.AuthResult, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if !user.HasPassword() {
		return nil, fmt.Errorf("account registered via social sign-in: %w", apperr.ErrAuth)
	}
	if !user.Verified {
		return nil, fmt.Errorf("account not verified: %w", apperr.ErrForbidden)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, fmt.Errorf("invalid password: %w", apperr.ErrAuth)
	}
	return s.establishSession(ctx, user)
}

// Refresh rotates the token pair after checking the presented refresh token
// against the single stored one.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*models.AuthResult, error) {
	claims, err := utils.ParseJWT(refreshToken, s.cfg.JWTSecret)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", apperr.ErrAuth)
	}
	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token subject: %w", apperr.ErrAuth)
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.RefreshToken == "" || user.RefreshToken != refreshToken {
		return nil, fmt.Errorf("refresh token superseded: %w", apperr.ErrAuth)
	}
	return s.establishSession(ctx, user)
}

func (s *authService) Logout(ctx context.Context, userID string) error {
	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return fmt.Errorf("invalid user id: %w", apperr.ErrValidation)
	}
	return s.users.SetRefreshToken(ctx, id, "")
}

func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return err
	}
	return s.issueOtp(ctx, user, models.PurposePasswordReset, user.Email)
}

// ResetPassword consumes a password_reset code and overwrites the hash.
func (s *authService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return err
	}

	if _, err := s.checkOtp(ctx, user.ID, code, models.PurposePasswordReset); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = string(hash)
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	return s.otps.DeleteByUser(ctx, user.ID)
}

func (s *authService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return fmt.Errorf("invalid user id: %w", apperr.ErrValidation)
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !user.HasPassword() {
		return fmt.Errorf("account has no password: %w", apperr.ErrAuth)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return fmt.Errorf("current password is incorrect: %w", apperr.ErrAuth)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = string(hash)
	return s.users.Update(ctx, user)
}

// RequestEmailChange sends an email_change code to the address the user
// wants to move to.
func (s *authService) RequestEmailChange(ctx context.Context, userID, newEmail string) error {
	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return fmt.Errorf("invalid user id: %w", apperr.ErrValidation)
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}

	newEmail = normalizeEmail(newEmail)
	if _, err := s.users.FindByEmail(ctx, newEmail); err == nil {
		return fmt.Errorf("user with this email %w", apperr.ErrConflict)
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return err
	}

	return s.issueOtp(ctx, user, models.PurposeEmailChange, newEmail)
}

// ConfirmEmailChange consumes the email_change code, overwrites the email
// and re-issues the session with fresh tokens.
func (s *authService) ConfirmEmailChange(ctx context.Context, userID, newEmail, code string) (*models.AuthResult, error) {
	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id: %w", apperr.ErrValidation)
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	otp, err := s.checkOtp(ctx, user.ID, code, models.PurposeEmailChange)
	if err != nil {
		return nil, err
	}

	newEmail = normalizeEmail(newEmail)
	if other, err := s.users.FindByEmail(ctx, newEmail); err == nil && other.ID != user.ID {
		return nil, fmt.Errorf("user with this email %w", apperr.ErrConflict)
	} else if err != nil && !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}

	if err := s.otps.MarkVerified(ctx, otp.ID); err != nil {
		return nil, err
	}
	user.Email = newEmail
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	return s.establishSession(ctx, user)
}

// SocialSignIn resolves the provider artifact to a profile, then finds or
// creates the account keyed by email. Created accounts are verified and
// carry no password; a user who mixes password and social sign-in collapses
// to one account.
func (s *authService) SocialSignIn(ctx context.Context, provider, artifact string) (*models.AuthResult, error) {
	p, ok := s.providers[provider]
	if !ok {
		return nil, fmt.Errorf("unknown sign-in provider %q: %w", provider, apperr.ErrValidation)
	}

	profile, err := p.Exchange(ctx, artifact)
	if err != nil {
		return nil, err
	}

	email := normalizeEmail(profile.Email)
	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, apperr.ErrNotFound) {
		user = &models.User{
			Email:    email,
			Name:     profile.Name,
			Role:     models.RoleUser,
			Verified: true,
		}
		if err := s.users.Create(ctx, user); err != nil {
			return nil, err
		}
		s.pub.Publish(ctx, events.UserRegistered, map[string]interface{}{
			"userId":   user.ID.Hex(),
			"email":    user.Email,
			"provider": provider,
		})
	} else if err != nil {
		return nil, err
	}

	return s.establishSession(ctx, user)
}

// RegisterInstructor uploads the profile media, creates the instructor
// document and links it back on the user. Each step hands its output to the
// next explicitly; nothing rides on request-scoped state.
func (s *authService) RegisterInstructor(ctx context.Context, userID string, req models.InstructorProfileRequest, files InstructorFiles) (*models.Instructor, *models.User, error) {
	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid user id: %w", apperr.ErrValidation)
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if user.Role != models.RoleInstructor {
		return nil, nil, fmt.Errorf("account is not an instructor: %w", apperr.ErrForbidden)
	}
	if user.Instructor != nil {
		return nil, nil, fmt.Errorf("instructor profile %w", apperr.ErrConflict)
	}

	upload := func(kind string, f *media.File) (string, error) {
		if f == nil {
			return "", nil
		}
		url, err := s.uploader.Upload(ctx, kind, *f)
		if err != nil {
			return "", fmt.Errorf("media upload failed (%v): %w", err, apperr.ErrUpstream)
		}
		return url, nil
	}

	profileURL, err := upload("profile", files.ProfileImage)
	if err != nil {
		return nil, nil, err
	}
	certificateURL, err := upload("certificate", files.Certificate)
	if err != nil {
		return nil, nil, err
	}
	governmentURL, err := upload("government-id", files.GovernmentID)
	if err != nil {
		return nil, nil, err
	}
	var portfolio []string
	for i := range files.PortfolioMedias {
		url, err := upload("portfolio", &files.PortfolioMedias[i])
		if err != nil {
			return nil, nil, err
		}
		portfolio = append(portfolio, url)
	}

	ins := &models.Instructor{
		Description:     req.Description,
		Adventure:       req.Adventure,
		Location:        req.Location,
		PortfolioMedias: portfolio,
		Certificate:     certificateURL,
		GovernmentID:    governmentURL,
	}
	if err := s.instructors.Create(ctx, ins); err != nil {
		return nil, nil, err
	}

	user.Instructor = &ins.ID
	if profileURL != "" {
		user.ProfilePicture = profileURL
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, nil, err
	}

	return ins, user, nil
}

// issueOtp replaces any outstanding code for the user and mails the new one.
// Delivery is fire-and-forget: the workflow reports success once the code is
// stored, whether or not the mail goes out.
func (s *authService) issueOtp(ctx context.Context, user *models.User, purpose models.OtpPurpose, recipient string) error {
	if err := s.limiter.Allow(ctx, recipient); err != nil {
		return err
	}

	code, err := utils.GenerateOTP()
	if err != nil {
		return err
	}

	otp := &models.Otp{
		UserID:    user.ID,
		Code:      code,
		Purpose:   purpose,
		ExpiresAt: time.Now().UTC().Add(time.Duration(s.cfg.OtpTTLMinutes) * time.Minute),
	}
	if err := s.otps.Replace(ctx, otp); err != nil {
		return err
	}

	var subject, html string
	if purpose == models.PurposePasswordReset {
		subject, html = mailer.ResetPasswordEmail(recipient, code)
	} else {
		subject, html = mailer.OtpEmail(recipient, code)
	}

	go func() {
		sendCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.mail.Send(sendCtx, recipient, subject, html); err != nil {
			s.logger.Warn("otp email delivery failed",
				zap.String("email", recipient),
				zap.String("purpose", string(purpose)),
				zap.Error(err),
			)
		}
	}()

	return nil
}

// checkOtp validates the outstanding code against purpose, expiry and value.
func (s *authService) checkOtp(ctx context.Context, userID primitive.ObjectID, code string, purpose models.OtpPurpose) (*models.Otp, error) {
	otp, err := s.otps.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if otp.Purpose != purpose {
		return nil, fmt.Errorf("code was issued for a different flow: %w", apperr.ErrAuth)
	}
	if otp.Expired(time.Now().UTC()) {
		return nil, fmt.Errorf("otp expired: %w", apperr.ErrAuth)
	}
	n, err := strconv.Atoi(strings.TrimSpace(code))
	if err != nil || n != otp.Code {
		return nil, fmt.Errorf("invalid otp: %w", apperr.ErrAuth)
	}
	return otp, nil
}

// establishSession issues the token pair and persists the refresh token.
// The stored token is overwritten, not appended: a concurrent login on the
// same account silently invalidates the other caller's refresh token.
func (s *authService) establishSession(ctx context.Context, user *models.User) (*models.AuthResult, error) {
	access, _, err := utils.GenerateAccessToken(user.ID.Hex(), string(user.Role), s.cfg.JWTSecret, s.cfg.AccessTTLMinutes)
	if err != nil {
		return nil, err
	}
	refresh, _, err := utils.GenerateRefreshToken(user.ID.Hex(), string(user.Role), s.cfg.JWTSecret, s.cfg.RefreshTTLDays)
	if err != nil {
		return nil, err
	}

	if err := s.users.SetRefreshToken(ctx, user.ID, refresh); err != nil {
		return nil, err
	}
	user.RefreshToken = refresh

	return &models.AuthResult{
		User:         user,
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}
