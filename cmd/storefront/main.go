package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"shopfront/internal/client"
	"shopfront/internal/config"
	"shopfront/internal/server"
	"shopfront/internal/web"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadStorefront()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := config.NewLogger(cfg.Logger, "storefront")
	logger.Info().Str("api", cfg.API.BaseURL).Msg("starting shopfront storefront")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	api, err := client.New(cfg.API.BaseURL, cfg.API.Timeout)
	if err != nil {
		return fmt.Errorf("failed to create api client: %w", err)
	}

	app, err := web.New(api, web.NewSessions(cfg.Session), cfg.API.BaseURL, logger)
	if err != nil {
		return fmt.Errorf("failed to load storefront templates: %w", err)
	}

	return server.Run(ctx, server.New(cfg.Server.Address(), app.Routes()), logger)
}
