package middleware

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/saquibjawedbit/Booking-Web/internal/apperr"
)

// RateLimiter throttles requests per key in a fixed Redis window.
type RateLimiter struct {
	rdb    *redis.Client
	prefix string
	limit  int
	window time.Duration
}

func NewRateLimiter(rdb *redis.Client, prefix string, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{rdb: rdb, prefix: prefix, limit: limit, window: window}
}

// ByIP limits by client address; used on the unauthenticated auth endpoints.
func (r *RateLimiter) ByIP() fiber.Handler {
	return r.byKey(func(c *fiber.Ctx) string { return c.IP() })
}

func (r *RateLimiter) byKey(keyFunc func(c *fiber.Ctx) string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if r.rdb == nil {
			return c.Next()
		}
		key := fmt.Sprintf("%s:%s", r.prefix, keyFunc(c))
		count, err := r.rdb.Incr(c.Context(), key).Result()
		if err != nil {
			// Redis being down must not take auth down with it.
			return c.Next()
		}
		if count == 1 {
			r.rdb.Expire(c.Context(), key, r.window)
		}
		if count > int64(r.limit) {
			return apperr.ErrRateLimited
		}
		return c.Next()
	}
}
