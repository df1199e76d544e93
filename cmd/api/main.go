package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"shopfront/internal/auth"
	"shopfront/internal/config"
	"shopfront/internal/database"
	"shopfront/internal/handler"
	"shopfront/internal/mail"
	"shopfront/internal/repository"
	"shopfront/internal/router"
	"shopfront/internal/server"
	"shopfront/internal/service"
	"shopfront/internal/storage"

	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger, "api")
	logger.Info().Msg("starting shopfront API server")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	if err := database.RunMigrations(ctx, pool); err != nil {
		return err
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(pool, logger)
	categoryRepo := repository.NewCategoryRepository(pool, logger)
	productRepo := repository.NewProductRepository(pool, logger)
	couponRepo := repository.NewCouponRepository(pool, logger)
	cartRepo := repository.NewCartRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)

	images, err := newImageStore(ctx, cfg.Storage, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize image storage: %w", err)
	}

	tokens := auth.NewTokens(auth.Config{
		Secret:     []byte(cfg.JWT.Secret),
		Issuer:     cfg.JWT.Issuer,
		Audience:   cfg.JWT.Audience,
		Expiration: cfg.JWT.Expiration,
	})
	sender := mail.NewSender(cfg.SMTP, logger)

	// Initialize services
	authService := service.NewAuthService(userRepo, tokens, sender, cfg.PublicURL, logger)
	categoryService := service.NewCategoryService(categoryRepo, logger)
	productService := service.NewProductService(productRepo, images, logger)
	couponService := service.NewCouponService(couponRepo, logger)
	cartService := service.NewCartService(cartRepo, productRepo, couponRepo, logger)
	orderService := service.NewOrderService(orderRepo, cartRepo, productRepo, couponRepo, logger)

	// Initialize HTTP handlers and router
	mux := router.New(router.Handlers{
		Auth:     handler.NewAuthHandler(authService, logger),
		Category: handler.NewCategoryHandler(categoryService, logger),
		Product:  handler.NewProductHandler(productService, images, logger),
		Coupon:   handler.NewCouponHandler(couponService, logger),
		Cart:     handler.NewCartHandler(cartService, logger),
		Order:    handler.NewOrderHandler(orderService, logger),
	}, router.Options{
		Tokens:      tokens,
		CORSOrigins: cfg.CORS.Origins,
		Health:      pool,
	}, logger)

	return server.Run(ctx, server.New(cfg.Server.Address(), mux), logger)
}

// newImageStore returns the local disk store, fronted by S3 when enabled.
// An S3 client that cannot be created degrades to disk only.
func newImageStore(ctx context.Context, cfg config.StorageConfig, logger zerolog.Logger) (storage.ImageStore, error) {
	disk, err := storage.NewDiskStore(cfg.Root, logger)
	if err != nil {
		return nil, err
	}

	if !cfg.S3.Enabled {
		logger.Info().Str("root", cfg.Root).Msg("using local file system for product images (S3 disabled)")
		return disk, nil
	}

	s3Store, err := storage.NewS3Store(ctx, cfg.S3.Bucket, cfg.S3.Region, cfg.S3.Prefix, logger)
	if err != nil {
		logger.Warn().
			Err(err).
			Msg("failed to initialise S3 image store, falling back to local file system only")
		return disk, nil
	}
	return storage.NewFallbackStore(s3Store, disk, logger), nil
}
