package handlers

import (
	"fmt"
	"mime/multipart"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/saquibjawedbit/Booking-Web/internal/apperr"
	"github.com/saquibjawedbit/Booking-Web/internal/media"
	"github.com/saquibjawedbit/Booking-Web/internal/middleware"
	"github.com/saquibjawedbit/Booking-Web/internal/models"
	"github.com/saquibjawedbit/Booking-Web/internal/oauth"
	"github.com/saquibjawedbit/Booking-Web/internal/services"
	"github.com/saquibjawedbit/Booking-Web/internal/utils"
)

type AuthHandler struct {
	svc              services.AuthService
	accessTTLMinutes int
	refreshTTLDays   int
}

func NewAuthHandler(svc services.AuthService, accessTTLMinutes, refreshTTLDays int) *AuthHandler {
	return &AuthHandler{svc: svc, accessTTLMinutes: accessTTLMinutes, refreshTTLDays: refreshTTLDays}
}

// setAuthCookies writes the token pair as HTTP-only cookies. SameSite=None
// because the SPA is served from a different origin.
func (h *AuthHandler) setAuthCookies(c *fiber.Ctx, res *models.AuthResult) {
	c.Cookie(&fiber.Cookie{
		Name:     "accessToken",
		Value:    res.AccessToken,
		Expires:  time.Now().Add(time.Duration(h.accessTTLMinutes) * time.Minute),
		HTTPOnly: true,
		Secure:   true,
		SameSite: fiber.CookieSameSiteNoneMode,
	})
	c.Cookie(&fiber.Cookie{
		Name:     "refreshToken",
		Value:    res.RefreshToken,
		Expires:  time.Now().Add(time.Duration(h.refreshTTLDays) * 24 * time.Hour),
		HTTPOnly: true,
		Secure:   true,
		SameSite: fiber.CookieSameSiteNoneMode,
	})
}

func clearAuthCookies(c *fiber.Ctx) {
	expired := time.Now().Add(-time.Hour)
	for _, name := range []string{"accessToken", "refreshToken"} {
		c.Cookie(&fiber.Cookie{
			Name:     name,
			Value:    "",
			Expires:  expired,
			HTTPOnly: true,
			Secure:   true,
			SameSite: fiber.CookieSameSiteNoneMode,
		})
	}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req models.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fmt.Errorf("invalid body: %w", apperr.ErrValidation)
	}
	if err := utils.ValidateStruct(req); err != nil {
		return fmt.Errorf("%v: %w", err, apperr.ErrValidation)
	}
	user, err := h.svc.Register(c.Context(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "otp_sent",
		"user":    user,
	})
}

func (h *AuthHandler) VerifyOtp(c *fiber.Ctx) error {
	var req models.VerifyOtpRequest
	if err := c.BodyParser(&req); err != nil {
		return fmt.Errorf("invalid body: %w", apperr.ErrValidation)
	}
	if err := utils.ValidateStruct(req); err != nil {
		return fmt.Errorf("%v: %w", err, apperr.ErrValidation)
	}
	res, err := h.svc.VerifyOtp(c.Context(), req.Email, req.Otp)
	if err != nil {
		return err
	}
	h.setAuthCookies(c, res)
	return c.JSON(res)
}

func (h *AuthHandler) ResendOtp(c *fiber.Ctx) error {
	var req models.ResendOtpRequest
	if err := c.BodyParser(&req); err != nil {
		return fmt.Errorf("invalid body: %w", apperr.ErrValidation)
	}
	if err := utils.ValidateStruct(req); err != nil {
		return fmt.Errorf("%v: %w", err, apperr.ErrValidation)
	}
	if err := h.svc.ResendOtp(c.Context(), req.Email); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "otp_sent"})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fmt.Errorf("invalid body: %w", apperr.ErrValidation)
	}
	if err := utils.ValidateStruct(req); err != nil {
		return fmt.Errorf("%v: %w", err, apperr.ErrValidation)
	}
	res, err := h.svc.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	h.setAuthCookies(c, res)
	return c.JSON(res)
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	token := c.Cookies("refreshToken")
	if token == "" {
		return fmt.Errorf("missing refresh token: %w", apperr.ErrAuth)
	}
	res, err := h.svc.Refresh(c.Context(), token)
	if err != nil {
		clearAuthCookies(c)
		return err
	}
	h.setAuthCookies(c, res)
	return c.JSON(res)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.svc.Logout(c.Context(), middleware.UserID(c)); err != nil {
		return err
	}
	clearAuthCookies(c)
	return c.JSON(fiber.Map{"message": "logged_out"})
}

func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var req models.ForgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fmt.Errorf("invalid body: %w", apperr.ErrValidation)
	}
	if err := utils.ValidateStruct(req); err != nil {
		return fmt.Errorf("%v: %w", err, apperr.ErrValidation)
	}
	if err := h.svc.ForgotPassword(c.Context(), req.Email); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "otp_sent"})
}

func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req models.ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fmt.Errorf("invalid body: %w", apperr.ErrValidation)
	}
	if err := utils.ValidateStruct(req); err != nil {
		return fmt.Errorf("%v: %w", err, apperr.ErrValidation)
	}
	if err := h.svc.ResetPassword(c.Context(), req.Email, req.Otp, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "password_reset"})
}

func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	var req models.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fmt.Errorf("invalid body: %w", apperr.ErrValidation)
	}
	if err := utils.ValidateStruct(req); err != nil {
		return fmt.Errorf("%v: %w", err, apperr.ErrValidation)
	}
	if err := h.svc.ChangePassword(c.Context(), middleware.UserID(c), req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "password_changed"})
}

// VerifyNewEmail starts an email change by sending a code to the new address.
func (h *AuthHandler) VerifyNewEmail(c *fiber.Ctx) error {
	var req models.VerifyNewEmailRequest
	if err := c.BodyParser(&req); err != nil {
		return fmt.Errorf("invalid body: %w", apperr.ErrValidation)
	}
	if err := utils.ValidateStruct(req); err != nil {
		return fmt.Errorf("%v: %w", err, apperr.ErrValidation)
	}
	if err := h.svc.RequestEmailChange(c.Context(), middleware.UserID(c), req.NewEmail); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "otp_sent"})
}

// UpdateEmail confirms the change with the code sent to the new address.
func (h *AuthHandler) UpdateEmail(c *fiber.Ctx) error {
	var req models.UpdateEmailRequest
	if err := c.BodyParser(&req); err != nil {
		return fmt.Errorf("invalid body: %w", apperr.ErrValidation)
	}
	if err := utils.ValidateStruct(req); err != nil {
		return fmt.Errorf("%v: %w", err, apperr.ErrValidation)
	}
	res, err := h.svc.ConfirmEmailChange(c.Context(), middleware.UserID(c), req.Email, req.Otp)
	if err != nil {
		return err
	}
	h.setAuthCookies(c, res)
	return c.JSON(res)
}

// SocialSignIn handles /auth/:provider. Google sends an ID token; LinkedIn
// and Facebook send an authorization code.
func (h *AuthHandler) SocialSignIn(c *fiber.Ctx) error {
	provider := c.Params("provider")

	var req models.SocialSignInRequest
	if err := c.BodyParser(&req); err != nil {
		return fmt.Errorf("invalid body: %w", apperr.ErrValidation)
	}
	artifact := req.Token
	if provider != oauth.ProviderGoogle {
		artifact = req.Code
	}
	if artifact == "" {
		return fmt.Errorf("missing sign-in credential: %w", apperr.ErrValidation)
	}

	res, err := h.svc.SocialSignIn(c.Context(), provider, artifact)
	if err != nil {
		return err
	}
	h.setAuthCookies(c, res)
	return c.JSON(res)
}

// RegisterInstructor takes a multipart form: text fields plus profileImage,
// certificate, governmentID and repeated portfolioMedias files.
func (h *AuthHandler) RegisterInstructor(c *fiber.Ctx) error {
	req := models.InstructorProfileRequest{
		Description: c.FormValue("description"),
		Adventure:   c.FormValue("adventure"),
		Location:    c.FormValue("location"),
	}
	if err := utils.ValidateStruct(req); err != nil {
		return fmt.Errorf("%v: %w", err, apperr.ErrValidation)
	}

	form, err := c.MultipartForm()
	if err != nil {
		return fmt.Errorf("multipart form required: %w", apperr.ErrValidation)
	}

	var files services.InstructorFiles
	var opened []multipart.File
	defer func() {
		for _, f := range opened {
			f.Close()
		}
	}()

	open := func(field string) (*media.File, error) {
		headers := form.File[field]
		if len(headers) == 0 {
			return nil, nil
		}
		fh := headers[0]
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("unreadable upload %s: %w", field, apperr.ErrValidation)
		}
		opened = append(opened, f)
		return &media.File{
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Content:     f,
		}, nil
	}

	if files.ProfileImage, err = open("profileImage"); err != nil {
		return err
	}
	if files.Certificate, err = open("certificate"); err != nil {
		return err
	}
	if files.GovernmentID, err = open("governmentID"); err != nil {
		return err
	}
	for _, fh := range form.File["portfolioMedias"] {
		f, err := fh.Open()
		if err != nil {
			return fmt.Errorf("unreadable upload portfolioMedias: %w", apperr.ErrValidation)
		}
		opened = append(opened, f)
		files.PortfolioMedias = append(files.PortfolioMedias, media.File{
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Content:     f,
		})
	}

	ins, user, err := h.svc.RegisterInstructor(c.Context(), middleware.UserID(c), req, files)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"instructor": ins,
		"user":       user,
	})
}
