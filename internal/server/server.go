package server

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/saquibjawedbit/Booking-Web/internal/apperr"
	"github.com/saquibjawedbit/Booking-Web/internal/config"
	"github.com/saquibjawedbit/Booking-Web/internal/middleware"
	"github.com/saquibjawedbit/Booking-Web/internal/routes"
)

// New initializes the Fiber application with config, middlewares, and routes.
func New(cfg *config.Config, h routes.Handlers, authLimiter *middleware.RateLimiter, logger *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.App.ReadTimeout,
		WriteTimeout: cfg.App.WriteTimeout,
		IdleTimeout:  cfg.App.IdleTimeout,
		ErrorHandler: errorHandler(logger),
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowCredentials: true,
		AllowOriginsFunc: func(string) bool { return true },
	}))
	app.Use(zapLoggerMiddleware(logger))

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	routes.Setup(app, h, cfg.App.JWT.Secret, authLimiter)

	return app
}

// errorHandler maps taxonomy errors to status codes. Everything outside the
// taxonomy is logged and answered with a bare 500.
func errorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
		}

		status := apperr.Status(err)
		if status == fiber.StatusInternalServerError {
			logger.Error("unhandled error",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Error(err),
			)
			return c.Status(status).JSON(fiber.Map{"error": "internal error"})
		}
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}
}

// zapLoggerMiddleware logs incoming HTTP requests using Zap.
func zapLoggerMiddleware(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		latency := time.Since(start)

		fields := []zap.Field{
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("ip", c.IP()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("latency", latency),
		}

		if err != nil {
			logger.Warn("request failed", append(fields, zap.Error(err))...)
			return err
		}
		logger.Info("request", fields...)
		return nil
	}
}
