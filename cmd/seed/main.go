package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"shopfront/internal/config"
	"shopfront/internal/database"
	"shopfront/internal/repository"
	"shopfront/internal/seed"

	"github.com/rs/zerolog"
)

// fileList collects a repeatable, comma-separated flag.
type fileList []string

func (l *fileList) String() string { return strings.Join(*l, ",") }

func (l *fileList) Set(v string) error {
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			*l = append(*l, part)
		}
	}
	return nil
}

type options struct {
	files         seed.Files
	adminEmail    string
	adminPassword string
	adminName     string
}

func main() {
	var (
		opts       options
		coupons    fileList
		categories fileList
	)
	flag.Var(&coupons, "coupons", "gzip CSV coupon file (code,discount,minimum); local path or s3://bucket/key, repeatable")
	flag.Var(&categories, "categories", "gzip CSV category file (name,description); local path or s3://bucket/key, repeatable")
	flag.StringVar(&opts.adminEmail, "admin-email", "", "create or promote this account to Admin")
	flag.StringVar(&opts.adminPassword, "admin-password", os.Getenv("SEED_ADMIN_PASSWORD"), "password for a newly created admin (or SEED_ADMIN_PASSWORD env)")
	flag.StringVar(&opts.adminName, "admin-name", "", "user name for a newly created admin (defaults to the email's local part)")
	flag.Parse()

	opts.files = seed.Files{Coupons: coupons, Categories: categories}

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	if len(opts.files.Coupons) == 0 && len(opts.files.Categories) == 0 && opts.adminEmail == "" {
		return fmt.Errorf("nothing to do: pass -coupons, -categories or -admin-email")
	}

	cfg, err := config.LoadSeed()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := config.NewLogger(cfg.Logger, "seed")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	if err := database.RunMigrations(ctx, pool); err != nil {
		return err
	}

	source, err := newSource(ctx, opts.files, cfg.S3Region, logger)
	if err != nil {
		return err
	}

	seeder := seed.New(
		source,
		repository.NewCouponRepository(pool, logger),
		repository.NewCategoryRepository(pool, logger),
		repository.NewUserRepository(pool, logger),
		logger,
	)

	res, err := seeder.Import(ctx, opts.files)
	if err != nil {
		return fmt.Errorf("seed import failed: %w", err)
	}
	logger.Info().
		Int("coupons", res.Coupons).
		Int("categories", res.Categories).
		Msg("seed import completed")

	if opts.adminEmail != "" {
		if _, err := seeder.EnsureAdmin(ctx, opts.adminEmail, opts.adminPassword, opts.adminName); err != nil {
			return fmt.Errorf("failed to bootstrap admin: %w", err)
		}
	}
	return nil
}

// newSource only creates the S3 client when a file lives in S3.
func newSource(ctx context.Context, files seed.Files, region string, logger zerolog.Logger) (seed.Source, error) {
	local := seed.NewFileSource(logger)

	for _, location := range append(append([]string{}, files.Coupons...), files.Categories...) {
		if !seed.IsS3Location(location) {
			continue
		}
		s3Source, err := seed.NewS3Source(ctx, region, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialise S3 seed source: %w", err)
		}
		return seed.NewRoutedSource(local, s3Source), nil
	}
	return seed.NewRoutedSource(local, nil), nil
}
