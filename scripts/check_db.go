//go:build ignore

// Checks that the configured database is reachable and prints row counts:
//
//	DB_PASSWORD=... go run scripts/check_db.go
package main

import (
	"context"
	"fmt"
	"os"

	"shopfront/internal/config"
	"shopfront/internal/database"
)

func main() {
	cfg, err := config.LoadSeed()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := database.NewPool(ctx, cfg.Database, config.NewLogger(cfg.Logger, "check-db"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	var dbName string
	if err := pool.QueryRow(ctx, "SELECT current_database()").Scan(&dbName); err != nil {
		fmt.Fprintf(os.Stderr, "QueryRow failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Successfully connected to database: %s\n\n", dbName)

	for _, table := range []string{"users", "categories", "products", "coupons", "cart_headers", "order_headers"} {
		var n int64
		if err := pool.QueryRow(ctx, "SELECT count(*) FROM "+table).Scan(&n); err != nil {
			fmt.Printf("  %-14s unavailable (%v)\n", table, err)
			continue
		}
		fmt.Printf("  %-14s %d\n", table, n)
	}
}
