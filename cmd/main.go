package main

import (
	"context"
	"fmt"
	"log" // standard log for errors before zap is set up
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/saquibjawedbit/Booking-Web/internal/config"
	"github.com/saquibjawedbit/Booking-Web/internal/database"
	"github.com/saquibjawedbit/Booking-Web/internal/events"
	"github.com/saquibjawedbit/Booking-Web/internal/handlers"
	"github.com/saquibjawedbit/Booking-Web/internal/mailer"
	"github.com/saquibjawedbit/Booking-Web/internal/media"
	"github.com/saquibjawedbit/Booking-Web/internal/middleware"
	"github.com/saquibjawedbit/Booking-Web/internal/oauth"
	"github.com/saquibjawedbit/Booking-Web/internal/payment"
	"github.com/saquibjawedbit/Booking-Web/internal/repository"
	"github.com/saquibjawedbit/Booking-Web/internal/routes"
	"github.com/saquibjawedbit/Booking-Web/internal/server"
	"github.com/saquibjawedbit/Booking-Web/internal/services"
)

func main() {
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	var logger *zap.Logger
	if cfg.App.Env == "development" {
		logger, _ = zap.NewDevelopment()
	} else {
		logger, _ = zap.NewProduction()
	}
	defer func() {
		_ = logger.Sync()
	}()
	sugar := logger.Sugar()
	sugar.Infof("Starting booking-web in %s environment on port %d", cfg.App.Env, cfg.App.Port)

	db, mongoClient, err := database.ConnectMongo(cfg.Mongo.URI, cfg.Mongo.Database, sugar)
	if err != nil {
		sugar.Fatal(err)
	}

	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb, err = database.ConnectRedis(cfg.Redis, sugar)
		if err != nil {
			sugar.Fatal(err)
		}
	} else {
		sugar.Warn("Redis not configured; rate limiting is disabled")
	}

	brevo := mailer.NewClient(cfg.Brevo.APIKey, cfg.Brevo.FromEmail, cfg.Brevo.FromName)
	if !brevo.IsConfigured() {
		sugar.Warn("Brevo client not fully configured. OTP emails will be skipped.")
	}

	providers := map[string]oauth.Provider{
		oauth.ProviderGoogle:   oauth.NewGoogleProvider(cfg.OAuth.Google.ClientID),
		oauth.ProviderLinkedIn: oauth.NewLinkedInProvider(cfg.OAuth.LinkedIn.ClientID, cfg.OAuth.LinkedIn.ClientSecret, cfg.OAuth.LinkedIn.RedirectURI),
		oauth.ProviderFacebook: oauth.NewFacebookProvider(cfg.OAuth.Facebook.AppID, cfg.OAuth.Facebook.AppSecret, cfg.OAuth.Facebook.RedirectURI),
	}

	payClient := payment.NewClient(cfg.Payment.BaseURL, cfg.Payment.APIKey)

	var uploader media.Uploader = media.NopUploader{}
	if cfg.S3.Bucket != "" {
		uploader, err = media.NewS3Uploader(context.Background(), cfg.S3.Region, cfg.S3.Bucket)
		if err != nil {
			sugar.Fatalf("S3 uploader init failed: %v", err)
		}
	} else {
		sugar.Warn("S3 not configured; instructor media uploads will fail")
	}

	var publisher events.Publisher = events.Nop{}
	if len(cfg.Kafka.Brokers) > 0 {
		publisher = events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger)
	}

	var otpLimiter services.OtpLimiter = services.AllowAll{}
	if rdb != nil {
		otpLimiter = services.NewRedisOtpLimiter(rdb, cfg.Security.OtpRateLimitPerEmailPerHour)
	}

	userRepo, err := repository.NewMongoUserRepo(db)
	if err != nil {
		sugar.Fatalf("user repository bootstrap failed: %v", err)
	}
	otpRepo := repository.NewMongoOtpRepo(db)
	instructorRepo := repository.NewMongoInstructorRepo(db)
	declarationRepo := repository.NewMongoDeclarationRepo(db)
	catalogRepo := repository.NewMongoCatalogRepo(db)
	bookingRepo := repository.NewMongoBookingRepo(db)
	termsRepo := repository.NewMongoTermsRepo(db)

	authSvc := services.NewAuthService(
		userRepo, otpRepo, instructorRepo, brevo, providers, uploader, otpLimiter, publisher,
		services.AuthConfig{
			JWTSecret:        cfg.App.JWT.Secret,
			AccessTTLMinutes: cfg.App.JWT.AccessTTLMinutes,
			RefreshTTLDays:   cfg.App.JWT.RefreshTTLDays,
			OtpTTLMinutes:    cfg.Security.OtpTTLMinutes,
		},
		logger,
	)
	bookingSvc := services.NewBookingService(
		userRepo, catalogRepo, declarationRepo, bookingRepo, payClient, publisher,
		cfg.Payment.Currency, logger,
	)

	h := routes.Handlers{
		Auth:        handlers.NewAuthHandler(authSvc, cfg.App.JWT.AccessTTLMinutes, cfg.App.JWT.RefreshTTLDays),
		Booking:     handlers.NewBookingHandler(bookingSvc),
		Catalog:     handlers.NewCatalogHandler(catalogRepo),
		Declaration: handlers.NewDeclarationHandler(declarationRepo),
		Terms:       handlers.NewTermsHandler(termsRepo),
	}

	authLimiter := middleware.NewRateLimiter(rdb, "auth_rl", cfg.Security.AuthRequestsPerMinute, time.Minute)
	app := server.New(cfg, h, authLimiter, logger)

	go func() {
		listenAddr := fmt.Sprintf(":%d", cfg.App.Port)
		sugar.Infof("Server listening on %s", listenAddr)
		if err := app.Listen(listenAddr); err != nil {
			sugar.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	sugar.Info("Shutting down server...")

	ctxShut, cancelShut := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShut()

	if err := app.ShutdownWithContext(ctxShut); err != nil {
		sugar.Errorf("Fiber app shutdown error: %v", err)
	}
	if err := publisher.Close(); err != nil {
		sugar.Errorf("Kafka publisher close error: %v", err)
	}
	if err := mongoClient.Disconnect(ctxShut); err != nil {
		sugar.Errorf("MongoDB disconnect error: %v", err)
	}
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			sugar.Errorf("Redis client close error: %v", err)
		}
	}

	sugar.Info("Graceful shutdown complete.")
}
