package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/saquibjawedbit/Booking-Web/internal/apperr"
	"github.com/saquibjawedbit/Booking-Web/internal/media"
	"github.com/saquibjawedbit/Booking-Web/internal/models"
	"github.com/saquibjawedbit/Booking-Web/internal/oauth"
)

type authHarness struct {
	svc         AuthService
	users       *fakeUserRepo
	otps        *fakeOtpRepo
	instructors *fakeInstructorRepo
	mailer      *fakeMailer
	uploader    *fakeUploader
}

func newAuthHarness(t *testing.T, opts ...func(*authHarness)) *authHarness {
	t.Helper()
	h := &authHarness{
		users:       newFakeUserRepo(),
		otps:        newFakeOtpRepo(),
		instructors: newFakeInstructorRepo(),
		mailer:      &fakeMailer{},
		uploader:    &fakeUploader{},
	}
	for _, opt := range opts {
		opt(h)
	}
	providers := map[string]oauth.Provider{
		oauth.ProviderGoogle: fakeProvider{profile: oauth.Profile{Email: "social@example.com", Name: "Social User"}},
	}
	h.svc = NewAuthService(
		h.users, h.otps, h.instructors, h.mailer, providers, h.uploader,
		AllowAll{}, nopPublisher{},
		AuthConfig{JWTSecret: "test-secret", AccessTTLMinutes: 15, RefreshTTLDays: 7, OtpTTLMinutes: 10},
		zap.NewNop(),
	)
	return h
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, string, interface{}) {}
func (nopPublisher) Close() error                                 { return nil }

// currentCode reads the outstanding code for the account straight from the
// store; email delivery is asynchronous and never asserted on.
func (h *authHarness) currentCode(t *testing.T, email string) (int, *models.Otp) {
	t.Helper()
	user, err := h.users.FindByEmail(context.Background(), email)
	if err != nil {
		t.Fatalf("user %s not found: %v", email, err)
	}
	otp, err := h.otps.FindByUser(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("no otp for %s: %v", email, err)
	}
	return otp.Code, otp
}

func (h *authHarness) register(t *testing.T, email, password string, role models.Role) *models.User {
	t.Helper()
	user, err := h.svc.Register(context.Background(), models.RegisterRequest{
		Name: "Test User", Email: email, Password: password, Role: role,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	return user
}

func (h *authHarness) registerVerified(t *testing.T, email, password string, role models.Role) *models.AuthResult {
	t.Helper()
	h.register(t, email, password, role)
	code, _ := h.currentCode(t, email)
	res, err := h.svc.VerifyOtp(context.Background(), email, fmt.Sprintf("%06d", code))
	if err != nil {
		t.Fatalf("verify otp: %v", err)
	}
	return res
}

func TestRegisterVerifyLogin(t *testing.T) {
	h := newAuthHarness(t)
	ctx := context.Background()

	user := h.register(t, "alice@example.com", "password123", "")
	if user.Verified {
		t.Fatal("freshly registered user must not be verified")
	}
	if user.Role != models.RoleUser {
		t.Fatalf("default role = %q, want %q", user.Role, models.RoleUser)
	}

	if _, err := h.svc.Login(ctx, "alice@example.com", "password123"); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("login before verification: err = %v, want ErrForbidden", err)
	}

	code, _ := h.currentCode(t, "alice@example.com")
	res, err := h.svc.VerifyOtp(ctx, "alice@example.com", fmt.Sprintf("%06d", code))
	if err != nil {
		t.Fatalf("verify otp: %v", err)
	}
	if res.AccessToken == "" || res.RefreshToken == "" {
		t.Fatal("verification must establish a session")
	}
	if !res.User.Verified {
		t.Fatal("user must be verified after otp verification")
	}

	if _, err := h.svc.Login(ctx, "alice@example.com", "password123"); err != nil {
		t.Fatalf("login after verification: %v", err)
	}
	if _, err := h.svc.Login(ctx, "alice@example.com", "password123"); err != nil {
		t.Fatalf("second login must also succeed: %v", err)
	}
}

func TestRegisterNormalizesEmail(t *testing.T) {
	h := newAuthHarness(t)
	user := h.register(t, "  Alice@Example.COM ", "password123", "")
	if user.Email != "alice@example.com" {
		t.Fatalf("email = %q, want lowercased trimmed", user.Email)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	h := newAuthHarness(t)
	h.register(t, "alice@example.com", "password123", "")
	_, err := h.svc.Register(context.Background(), models.RegisterRequest{
		Email: "ALICE@example.com", Password: "different456",
	})
	if !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("duplicate register: err = %v, want ErrConflict", err)
	}
}

func TestVerifyOtpWrongCode(t *testing.T) {
	h := newAuthHarness(t)
	h.register(t, "alice@example.com", "password123", "")
	code, _ := h.currentCode(t, "alice@example.com")
	wrong := code + 1
	if wrong > 999999 {
		wrong = 100000
	}
	_, err := h.svc.VerifyOtp(context.Background(), "alice@example.com", fmt.Sprintf("%06d", wrong))
	if !errors.Is(err, apperr.ErrAuth) {
		t.Fatalf("wrong code: err = %v, want ErrAuth", err)
	}
}

func TestVerifyOtpExpired(t *testing.T) {
	h := newAuthHarness(t)
	h.register(t, "alice@example.com", "password123", "")

	user, _ := h.users.FindByEmail(context.Background(), "alice@example.com")
	h.otps.mu.Lock()
	otp := h.otps.otps[user.ID]
	otp.ExpiresAt = otp.ExpiresAt.Add(-24 * time.Hour)
	code := otp.Code
	h.otps.mu.Unlock()

	_, err := h.svc.VerifyOtp(context.Background(), "alice@example.com", fmt.Sprintf("%06d", code))
	if !errors.Is(err, apperr.ErrAuth) {
		t.Fatalf("expired code: err = %v, want ErrAuth", err)
	}
}

func TestResendReplacesCode(t *testing.T) {
	h := newAuthHarness(t)
	ctx := context.Background()
	h.register(t, "alice@example.com", "password123", "")
	oldCode, _ := h.currentCode(t, "alice@example.com")

	if err := h.svc.ResendOtp(ctx, "alice@example.com"); err != nil {
		t.Fatalf("resend: %v", err)
	}
	newCode, _ := h.currentCode(t, "alice@example.com")

	if oldCode != newCode {
		if _, err := h.svc.VerifyOtp(ctx, "alice@example.com", fmt.Sprintf("%06d", oldCode)); !errors.Is(err, apperr.ErrAuth) {
			t.Fatalf("superseded code: err = %v, want ErrAuth", err)
		}
	}
	if _, err := h.svc.VerifyOtp(ctx, "alice@example.com", fmt.Sprintf("%06d", newCode)); err != nil {
		t.Fatalf("latest code must verify: %v", err)
	}
}

func TestOtpRateLimited(t *testing.T) {
	h := newAuthHarness(t)
	h.svc = NewAuthService(
		h.users, h.otps, h.instructors, h.mailer,
		map[string]oauth.Provider{}, h.uploader,
		denyAllLimiter{}, nopPublisher{},
		AuthConfig{JWTSecret: "test-secret", AccessTTLMinutes: 15, RefreshTTLDays: 7, OtpTTLMinutes: 10},
		zap.NewNop(),
	)
	_, err := h.svc.Register(context.Background(), models.RegisterRequest{
		Email: "alice@example.com", Password: "password123",
	})
	if !errors.Is(err, apperr.ErrRateLimited) {
		t.Fatalf("register over limit: err = %v, want ErrRateLimited", err)
	}
}

func TestLoginFailures(t *testing.T) {
	h := newAuthHarness(t)
	ctx := context.Background()
	h.registerVerified(t, "alice@example.com", "password123", "")

	if _, err := h.svc.Login(ctx, "alice@example.com", "wrongpassword"); !errors.Is(err, apperr.ErrAuth) {
		t.Fatalf("wrong password: err = %v, want ErrAuth", err)
	}
	if _, err := h.svc.Login(ctx, "nobody@example.com", "password123"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("unknown email: err = %v, want ErrNotFound", err)
	}
}

func TestRefreshRotatesToken(t *testing.T) {
	h := newAuthHarness(t)
	ctx := context.Background()
	res := h.registerVerified(t, "alice@example.com", "password123", "")

	rotated, err := h.svc.Refresh(ctx, res.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if rotated.RefreshToken == res.RefreshToken {
		t.Fatal("refresh must rotate the refresh token")
	}

	if _, err := h.svc.Refresh(ctx, res.RefreshToken); !errors.Is(err, apperr.ErrAuth) {
		t.Fatalf("stale refresh token: err = %v, want ErrAuth", err)
	}
}

func TestLogoutInvalidatesRefresh(t *testing.T) {
	h := newAuthHarness(t)
	ctx := context.Background()
	res := h.registerVerified(t, "alice@example.com", "password123", "")

	if err := h.svc.Logout(ctx, res.User.ID.Hex()); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := h.svc.Refresh(ctx, res.RefreshToken); !errors.Is(err, apperr.ErrAuth) {
		t.Fatalf("refresh after logout: err = %v, want ErrAuth", err)
	}
}

func TestPasswordResetFlow(t *testing.T) {
	h := newAuthHarness(t)
	ctx := context.Background()
	h.registerVerified(t, "alice@example.com", "password123", "")

	if err := h.svc.ForgotPassword(ctx, "alice@example.com"); err != nil {
		t.Fatalf("forgot password: %v", err)
	}
	code, otp := h.currentCode(t, "alice@example.com")
	if otp.Purpose != models.PurposePasswordReset {
		t.Fatalf("otp purpose = %q, want %q", otp.Purpose, models.PurposePasswordReset)
	}

	// A reset code must not pass signup verification.
	if _, err := h.svc.VerifyOtp(ctx, "alice@example.com", fmt.Sprintf("%06d", code)); !errors.Is(err, apperr.ErrAuth) {
		t.Fatalf("reset code in signup flow: err = %v, want ErrAuth", err)
	}

	if err := h.svc.ResetPassword(ctx, "alice@example.com", fmt.Sprintf("%06d", code), "newpassword456"); err != nil {
		t.Fatalf("reset password: %v", err)
	}
	if _, err := h.svc.Login(ctx, "alice@example.com", "password123"); !errors.Is(err, apperr.ErrAuth) {
		t.Fatalf("old password after reset: err = %v, want ErrAuth", err)
	}
	if _, err := h.svc.Login(ctx, "alice@example.com", "newpassword456"); err != nil {
		t.Fatalf("new password after reset: %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	h := newAuthHarness(t)
	ctx := context.Background()
	res := h.registerVerified(t, "alice@example.com", "password123", "")
	userID := res.User.ID.Hex()

	if err := h.svc.ChangePassword(ctx, userID, "wrongcurrent", "newpassword456"); !errors.Is(err, apperr.ErrAuth) {
		t.Fatalf("wrong current password: err = %v, want ErrAuth", err)
	}
	if err := h.svc.ChangePassword(ctx, userID, "password123", "newpassword456"); err != nil {
		t.Fatalf("change password: %v", err)
	}
	if _, err := h.svc.Login(ctx, "alice@example.com", "newpassword456"); err != nil {
		t.Fatalf("login with changed password: %v", err)
	}
}

func TestEmailChangeFlow(t *testing.T) {
	h := newAuthHarness(t)
	ctx := context.Background()
	res := h.registerVerified(t, "alice@example.com", "password123", "")
	userID := res.User.ID.Hex()

	if err := h.svc.RequestEmailChange(ctx, userID, "alice.new@example.com"); err != nil {
		t.Fatalf("request email change: %v", err)
	}
	code, otp := h.currentCode(t, "alice@example.com")
	if otp.Purpose != models.PurposeEmailChange {
		t.Fatalf("otp purpose = %q, want %q", otp.Purpose, models.PurposeEmailChange)
	}

	changed, err := h.svc.ConfirmEmailChange(ctx, userID, "alice.new@example.com", fmt.Sprintf("%06d", code))
	if err != nil {
		t.Fatalf("confirm email change: %v", err)
	}
	if changed.User.Email != "alice.new@example.com" {
		t.Fatalf("email = %q after change", changed.User.Email)
	}
	if _, err := h.svc.Login(ctx, "alice.new@example.com", "password123"); err != nil {
		t.Fatalf("login with new email: %v", err)
	}
}

func TestEmailChangeToTakenAddress(t *testing.T) {
	h := newAuthHarness(t)
	ctx := context.Background()
	h.registerVerified(t, "bob@example.com", "password123", "")
	res := h.registerVerified(t, "alice@example.com", "password123", "")

	err := h.svc.RequestEmailChange(ctx, res.User.ID.Hex(), "bob@example.com")
	if !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("change to taken email: err = %v, want ErrConflict", err)
	}
}

func TestSocialSignIn(t *testing.T) {
	h := newAuthHarness(t)
	ctx := context.Background()

	first, err := h.svc.SocialSignIn(ctx, oauth.ProviderGoogle, "id-token")
	if err != nil {
		t.Fatalf("first social sign-in: %v", err)
	}
	if !first.User.Verified {
		t.Fatal("social accounts are created verified")
	}
	if first.User.HasPassword() {
		t.Fatal("social accounts carry no password")
	}

	second, err := h.svc.SocialSignIn(ctx, oauth.ProviderGoogle, "id-token")
	if err != nil {
		t.Fatalf("second social sign-in: %v", err)
	}
	if second.User.ID != first.User.ID {
		t.Fatal("repeated social sign-in must resolve to the same account")
	}

	if _, err := h.svc.Login(ctx, "social@example.com", "anything123"); !errors.Is(err, apperr.ErrAuth) {
		t.Fatalf("password login on social account: err = %v, want ErrAuth", err)
	}

	if _, err := h.svc.SocialSignIn(ctx, "myspace", "code"); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("unknown provider: err = %v, want ErrValidation", err)
	}
}

func TestSocialSignInMergesWithPasswordAccount(t *testing.T) {
	h := newAuthHarness(t)
	ctx := context.Background()
	res := h.registerVerified(t, "social@example.com", "password123", "")

	social, err := h.svc.SocialSignIn(ctx, oauth.ProviderGoogle, "id-token")
	if err != nil {
		t.Fatalf("social sign-in: %v", err)
	}
	if social.User.ID != res.User.ID {
		t.Fatal("social sign-in must attach to the existing account by email")
	}
	if _, err := h.svc.Login(ctx, "social@example.com", "password123"); err != nil {
		t.Fatalf("password login must survive social sign-in: %v", err)
	}
}

func TestRegisterInstructor(t *testing.T) {
	h := newAuthHarness(t)
	ctx := context.Background()
	res := h.registerVerified(t, "guide@example.com", "password123", models.RoleInstructor)

	req := models.InstructorProfileRequest{
		Description: "Certified alpine guide",
		Adventure:   "climbing",
		Location:    "Chamonix",
	}
	files := InstructorFiles{
		ProfileImage:    fileOf("me.png"),
		PortfolioMedias: []media.File{*fileOf("summit1.png"), *fileOf("summit2.png")},
		Certificate:     fileOf("uiagm.pdf"),
		GovernmentID:    fileOf("passport.png"),
	}

	ins, user, err := h.svc.RegisterInstructor(ctx, res.User.ID.Hex(), req, files)
	if err != nil {
		t.Fatalf("register instructor: %v", err)
	}
	if user.Instructor == nil || *user.Instructor != ins.ID {
		t.Fatal("user must link the created instructor profile")
	}
	if len(ins.PortfolioMedias) != 2 {
		t.Fatalf("portfolio urls = %d, want 2", len(ins.PortfolioMedias))
	}
	if user.ProfilePicture == "" {
		t.Fatal("profile picture url must be set from the upload")
	}
	if len(h.uploader.uploaded) != 5 {
		t.Fatalf("uploads = %d, want 5", len(h.uploader.uploaded))
	}

	if _, _, err := h.svc.RegisterInstructor(ctx, res.User.ID.Hex(), req, files); !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("second registration: err = %v, want ErrConflict", err)
	}
}

func TestRegisterInstructorRoleGate(t *testing.T) {
	h := newAuthHarness(t)
	res := h.registerVerified(t, "alice@example.com", "password123", "")

	_, _, err := h.svc.RegisterInstructor(context.Background(), res.User.ID.Hex(), models.InstructorProfileRequest{
		Description: "d", Adventure: "a", Location: "l",
	}, InstructorFiles{})
	if !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("non-instructor registration: err = %v, want ErrForbidden", err)
	}
}

func TestRegisterInstructorUploadFailure(t *testing.T) {
	h := newAuthHarness(t, func(h *authHarness) { h.uploader.fail = true })
	res := h.registerVerified(t, "guide@example.com", "password123", models.RoleInstructor)

	_, _, err := h.svc.RegisterInstructor(context.Background(), res.User.ID.Hex(), models.InstructorProfileRequest{
		Description: "d", Adventure: "a", Location: "l",
	}, InstructorFiles{ProfileImage: fileOf("me.png")})
	if !errors.Is(err, apperr.ErrUpstream) {
		t.Fatalf("upload failure: err = %v, want ErrUpstream", err)
	}
}
