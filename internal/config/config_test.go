package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TOKEN_FILE", filepath.Join(t.TempDir(), "token"))
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.APIMode != ModeMock || cfg.APIBaseURL != "http://localhost:8005" {
		t.Errorf("mode=%s base=%s", cfg.APIMode, cfg.APIBaseURL)
	}
	if cfg.SimLatency != 500*time.Millisecond || cfg.SimUploadLatency != time.Second {
		t.Errorf("latency = %v / %v", cfg.SimLatency, cfg.SimUploadLatency)
	}
	if cfg.MaxUploadBytes != 50*1024*1024 {
		t.Errorf("max upload = %d", cfg.MaxUploadBytes)
	}
	if cfg.UsesS3() {
		t.Error("S3 enabled without a bucket")
	}
}

func TestLoadRejectsUnknownMode(t *testing.T) {
	t.Setenv("TOKEN_FILE", filepath.Join(t.TempDir(), "token"))
	t.Setenv("API_MODE", "grpc")
	if _, err := Load(); err == nil {
		t.Fatal("expected invalid API_MODE to fail")
	}
}

func TestLoadHTTPMode(t *testing.T) {
	t.Setenv("TOKEN_FILE", filepath.Join(t.TempDir(), "token"))
	t.Setenv("API_MODE", "http")
	t.Setenv("API_BASE_URL", "https://api.mx70.test")
	t.Setenv("API_TIMEOUT", "5s")
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.APIMode != ModeHTTP || cfg.APITimeout != 5*time.Second {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestDefaultTokenFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	path, err := DefaultTokenFile()
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(path) != "token" || filepath.Base(filepath.Dir(path)) != "mx70" {
		t.Errorf("path = %s", path)
	}
}

func TestLoadStripe(t *testing.T) {
	t.Setenv("TOKEN_FILE", filepath.Join(t.TempDir(), "token"))
	t.Setenv("STRIPE_SECRET_KEY", "sk_test_123")
	t.Setenv("STRIPE_API_URL", "http://localhost:12111")
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.UsesStripe() || cfg.StripeAPIURL != "http://localhost:12111" {
		t.Errorf("stripe = %v %q", cfg.UsesStripe(), cfg.StripeAPIURL)
	}

	t.Setenv("STRIPE_API_URL", "localhost:12111")
	if _, err := Load(); err == nil {
		t.Error("expected a malformed STRIPE_API_URL to fail")
	}
}
