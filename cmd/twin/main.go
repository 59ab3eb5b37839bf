package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mx70/internal/api/v1/router"
	"mx70/internal/auth"
	"mx70/internal/config"
	"mx70/internal/logger"
	"mx70/internal/payments"
	"mx70/internal/pubsub"
	"mx70/internal/repository"
	"mx70/internal/secrets"
	"mx70/internal/service"
	"mx70/internal/storage"
	"mx70/internal/upload"

	"github.com/joho/godotenv"
)

func main() {
	logger := logger.New()

	// 1. Load configuration
	if err := godotenv.Load(); err != nil {
		logger.Warn().Msg("Warning: no .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Msgf("Error loading config: %v", err)
	}

	// 2. Resolve the signing key
	if cfg.JWTSecretName != "" {
		sm, err := secrets.NewSecretManager(context.Background(), cfg.GCPProjectID, cfg.SecretManagerURL)
		if err != nil {
			logger.Fatal().Msgf("Failed to create Secret Manager client: %v", err)
		}
		cfg.JWTSecret, err = secrets.Resolve(context.Background(), sm, cfg.JWTSecretName, cfg.JWTSecret)
		sm.Close()
		if err != nil {
			logger.Fatal().Msgf("Failed to load signing key: %v", err)
		}
		logger.Info().Str("secret", cfg.JWTSecretName).Msg("Signing key loaded from Secret Manager")
	}

	// 3. Seed the store and pick blob storage
	store, err := repository.NewDefaultStore()
	if err != nil {
		logger.Fatal().Msgf("Failed to seed store: %v", err)
	}

	var blobs storage.BlobStore = storage.NewMemory(storage.MockBaseURL)
	if cfg.UsesS3() {
		blobs, err = storage.NewS3(context.Background(), storage.S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3URL,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			PublicURL: cfg.S3PublicURL,
		}, logger)
		if err != nil {
			logger.Fatal().Msgf("Failed to create S3 client: %v", err)
		}
		logger.Info().Str("bucket", cfg.S3Bucket).Msg("Uploads stored in S3")
	}

	var events pubsub.Publisher
	if cfg.PublishesEvents() {
		pub, err := pubsub.NewPublisher(context.Background(), cfg.GCPProjectID, cfg.PubSubTopicPrefix)
		if err != nil {
			logger.Fatal().Msgf("Failed to create Pub/Sub publisher: %v", err)
		}
		defer pub.Close()
		events = pub
		logger.Info().Str("project", cfg.GCPProjectID).Msg("Publishing events to Pub/Sub")
	}

	var payer payments.Payer = payments.NewMock(nil)
	if cfg.UsesStripe() {
		payer = payments.NewStripe(cfg.StripeSecretKey, cfg.StripeAPIURL, logger)
		logger.Info().Str("api_url", cfg.StripeAPIURL).Msg("Payouts sent through Stripe")
	}

	svc := service.New(service.Deps{
		Store:  store,
		Tokens: auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL, nil),
		Blobs:  blobs,
		Policy: upload.Policy{MaxBytes: cfg.MaxUploadBytes},
		Payer:  payer,
		Events: events,
		Logger: logger,
	})

	// 4. Build router
	r := router.New(cfg, svc, store.Reset, logger)

	// 5. Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 6. Start server in a goroutine
	go func() {
		logger.Info().Msgf("Twin backend starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Msgf("Listen: %s", err)
		}
	}()

	// 7. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("Shutdown signal received, exiting...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal().Msgf("Server forced to shutdown: %v", err)
	}
	logger.Info().Msg("Server shut down gracefully")
}
