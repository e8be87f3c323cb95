package services

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/saquibjawedbit/Booking-Web/internal/apperr"
)

const otpRateLimitPrefix = "otp_rate_limit:"

type redisOtpLimiter struct {
	rdb    *redis.Client
	limit  int
	window time.Duration
}

// NewRedisOtpLimiter caps OTP issuance per email within a sliding hour.
func NewRedisOtpLimiter(rdb *redis.Client, limitPerHour int) OtpLimiter {
	return &redisOtpLimiter{rdb: rdb, limit: limitPerHour, window: time.Hour}
}

func (l *redisOtpLimiter) Allow(ctx context.Context, email string) error {
	key := otpRateLimitPrefix + email
	count, err := l.rdb.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("otp rate limit check failed: %w", err)
	}
	if count == 1 {
		if err := l.rdb.Expire(ctx, key, l.window).Err(); err != nil {
			return fmt.Errorf("otp rate limit expiry failed: %w", err)
		}
	}
	if count > int64(l.limit) {
		l.rdb.Decr(ctx, key)
		return fmt.Errorf("too many OTP requests: %w", apperr.ErrRateLimited)
	}
	return nil
}

// AllowAll is the no-limit limiter for environments without Redis and tests.
type AllowAll struct{}

func (AllowAll) Allow(context.Context, string) error { return nil }
