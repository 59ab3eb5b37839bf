// mx70 is the marketplace client for businesses and clippers.
//
// Usage:
//
//	mx70                      Start the interactive shell
//	mx70 <command> [args]     Run one shell command and exit
//
// Commands: login, signup, logout, whoami, gigs, my-gigs, post-gig,
// claim <gig id>, submit <gig id>, metrics <submission id>, lessons,
// lesson <id>, quiz <id>, certifications, dashboard, analytics [7d|30d|90d],
// self-promo, upload <video|raw-footage> <path>.
//
// API_MODE=mock (the default) runs against the built-in simulation;
// API_MODE=http talks to API_BASE_URL.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"mx70/internal/client"
	"mx70/internal/config"
	"mx70/internal/logger"
	"mx70/internal/session"
	"mx70/internal/ui"
	"mx70/internal/upload"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

func main() {
	// 1. Load configuration
	_ = godotenv.Load()
	logger := logger.New()
	// Keep the terminal for the shell unless asked for more.
	if os.Getenv("LOG_LEVEL") == "" {
		logger = logger.Level(zerolog.WarnLevel)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Msgf("Error loading config: %v", err)
	}

	// 2. Build the data access layer and the session
	api, err := client.New(cfg, logger)
	if err != nil {
		logger.Fatal().Msgf("Failed to build API client: %v", err)
	}
	sess := session.NewStore(session.NewFileBackend(cfg.TokenFile), logger)
	sess.Watch(api)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sh := ui.NewShell(api, sess, upload.Policy{MaxBytes: cfg.MaxUploadBytes}, os.Stdin, os.Stdout)

	// 3. One-shot command
	if args := os.Args[1:]; len(args) > 0 && args[0] != "shell" {
		if args[0] == "-h" || args[0] == "--help" {
			args = []string{"help"}
		}
		sess.Restore(ctx, api)
		sh.Exec(ctx, strings.Join(args, " "))
		return
	}

	// 4. Interactive shell
	fmt.Fprintf(os.Stdout, "mx70 (%s mode). Type `help` for commands.\n", cfg.APIMode)
	if err := sh.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Error().Err(err).Msg("Shell stopped")
		os.Exit(1)
	}
}
