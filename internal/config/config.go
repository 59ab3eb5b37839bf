package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"mx70/internal/validation"

	"github.com/kelseyhightower/envconfig"
)

const (
	ModeMock = "mock"
	ModeHTTP = "http"
)

type Config struct {
	Environment string `envconfig:"ENV" default:"development"`

	// Data access
	APIMode    string        `envconfig:"API_MODE" default:"mock" validate:"oneof=mock http"`
	APIBaseURL string        `envconfig:"API_BASE_URL" default:"http://localhost:8005" validate:"required,http_url"`
	APITimeout time.Duration `envconfig:"API_TIMEOUT" default:"30s" validate:"gt=0"`
	TokenFile  string        `envconfig:"TOKEN_FILE"`

	// Simulation
	SimLatency       time.Duration `envconfig:"SIM_LATENCY" default:"500ms" validate:"gte=0"`
	SimUploadLatency time.Duration `envconfig:"SIM_UPLOAD_LATENCY" default:"1s" validate:"gte=0"`
	JWTSecret        string        `envconfig:"JWT_SECRET" default:"mx70-development-secret" validate:"required"`
	JWTSecretName    string        `envconfig:"JWT_SECRET_NAME"` // loads JWTSecret from Secret Manager when set
	TokenTTL         time.Duration `envconfig:"TOKEN_TTL" default:"30m" validate:"gt=0"`
	MaxUploadBytes   int64         `envconfig:"MAX_UPLOAD_BYTES" default:"52428800" validate:"gt=0"`

	// Twin server
	Port        string `envconfig:"PORT" default:"8005"`
	S3URL       string `envconfig:"S3_URL"`
	S3Bucket    string `envconfig:"S3_BUCKET"`
	S3Region    string `envconfig:"S3_REGION" default:"us-east-1"`
	S3AccessKey string `envconfig:"S3_ACCESS_KEY"`
	S3SecretKey string `envconfig:"S3_SECRET_KEY"`
	S3PublicURL string `envconfig:"S3_PUBLIC_URL"`

	// Payouts
	StripeSecretKey string `envconfig:"STRIPE_SECRET_KEY"`
	StripeAPIURL    string `envconfig:"STRIPE_API_URL" validate:"omitempty,http_url"`

	// Google Cloud
	GCPProjectID      string `envconfig:"GCP_PROJECT_ID"`
	PubSubTopicPrefix string `envconfig:"PUBSUB_TOPIC_PREFIX" default:"mx70-"`
	SecretManagerURL  string `envconfig:"SECRET_MANAGER_ENDPOINT"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := validation.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %s", validation.Describe(err))
	}
	if cfg.TokenFile == "" {
		path, err := DefaultTokenFile()
		if err != nil {
			return nil, err
		}
		cfg.TokenFile = path
	}
	return &cfg, nil
}

// DefaultTokenFile is where the bearer token lives unless TOKEN_FILE says otherwise.
func DefaultTokenFile() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate config dir: %w", err)
	}
	return filepath.Join(dir, "mx70", "token"), nil
}

// PublishesEvents reports whether the twin announces events on Pub/Sub.
func (c *Config) PublishesEvents() bool {
	return c.GCPProjectID != ""
}

// UsesStripe reports whether payouts are sent through Stripe instead of settled in memory.
func (c *Config) UsesStripe() bool {
	return c.StripeSecretKey != ""
}

// UsesS3 reports whether uploads go to a bucket instead of memory.
func (c *Config) UsesS3() bool {
	return c.S3Bucket != ""
}
