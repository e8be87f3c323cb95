package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/saquibjawedbit/Booking-Web/internal/handlers"
	"github.com/saquibjawedbit/Booking-Web/internal/middleware"
)

// Handlers bundles everything Setup mounts.
type Handlers struct {
	Auth        *handlers.AuthHandler
	Booking     *handlers.BookingHandler
	Catalog     *handlers.CatalogHandler
	Declaration *handlers.DeclarationHandler
	Terms       *handlers.TermsHandler
}

func Setup(app *fiber.App, h Handlers, jwtSecret string, authLimiter *middleware.RateLimiter) {
	requireAuth := middleware.RequireAuth(jwtSecret)
	limit := authLimiter.ByIP()

	api := app.Group("/api/v1")

	auth := api.Group("/auth")
	auth.Post("/register", limit, h.Auth.Register)
	auth.Post("/verify-otp", limit, h.Auth.VerifyOtp)
	auth.Post("/resend-otp", limit, h.Auth.ResendOtp)
	auth.Post("/login", limit, h.Auth.Login)
	auth.Post("/refresh", h.Auth.Refresh)
	auth.Post("/forgot-password", limit, h.Auth.ForgotPassword)
	auth.Post("/reset-password", limit, h.Auth.ResetPassword)

	auth.Post("/logout", requireAuth, h.Auth.Logout)
	auth.Post("/change-password", requireAuth, h.Auth.ChangePassword)
	auth.Post("/verify-new-email", requireAuth, h.Auth.VerifyNewEmail)
	auth.Put("/update-email", requireAuth, h.Auth.UpdateEmail)

	// Registered last: matches in order, so the named auth routes above win.
	auth.Post("/:provider", limit, h.Auth.SocialSignIn) // google | linkedin | facebook

	api.Post("/instructors/register", requireAuth, h.Auth.RegisterInstructor)

	api.Get("/adventures", h.Catalog.ListAdventures)
	api.Get("/adventures/:id", h.Catalog.GetAdventure)
	api.Get("/hotels", h.Catalog.ListHotels)
	api.Get("/hotels/:id", h.Catalog.GetHotel)
	api.Get("/items", h.Catalog.ListItems)
	api.Get("/items/:id", h.Catalog.GetItem)
	api.Get("/sessions/:id", h.Catalog.GetSession)

	api.Get("/terms/live", h.Terms.ListLive)

	api.Get("/declarations/adventure/:adventureId", h.Declaration.ListByAdventure)
	api.Get("/declarations/:id", h.Declaration.Get)

	api.Post("/bookings/aggregate", requireAuth, h.Booking.CreateAggregate)
}
