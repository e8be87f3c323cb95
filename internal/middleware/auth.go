package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/saquibjawedbit/Booking-Web/internal/apperr"
	"github.com/saquibjawedbit/Booking-Web/internal/utils"
)

// RequireAuth authenticates the request from the accessToken cookie, falling
// back to a Bearer header for non-browser clients. Claims land in Locals as
// "userID" and "role".
func RequireAuth(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies("accessToken")
		if token == "" {
			auth := c.Get("Authorization")
			if parts := strings.SplitN(auth, " ", 2); len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
				token = parts[1]
			}
		}
		if token == "" {
			return apperr.ErrAuth
		}

		claims, err := utils.ParseJWT(token, jwtSecret)
		if err != nil {
			return apperr.ErrAuth
		}

		c.Locals("userID", claims.UserID)
		c.Locals("role", claims.Role)
		return c.Next()
	}
}

// UserID reads the authenticated user id set by RequireAuth.
func UserID(c *fiber.Ctx) string {
	if id, ok := c.Locals("userID").(string); ok {
		return id
	}
	return ""
}
