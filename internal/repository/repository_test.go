package repository

import (
	"context"
	"testing"
	"time"

	"shopfront/internal/database"
	"shopfront/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupTestDB starts a PostgreSQL container with the application schema.
func setupTestDB(t *testing.T) (*pgxpool.Pool, func()) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container-backed test in short mode")
	}

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	poolConfig, err := pgxpool.ParseConfig(connStr)
	require.NoError(t, err)
	poolConfig.AfterConnect = database.RegisterTypes

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	require.NoError(t, err)

	require.NoError(t, database.RunMigrations(ctx, pool))

	cleanup := func() {
		pool.Close()
		_ = pgContainer.Terminate(ctx)
	}

	return pool, cleanup
}

func seedUser(t *testing.T, pool *pgxpool.Pool, email string, roles ...string) *model.User {
	t.Helper()
	user := &model.User{
		ID:            uuid.New(),
		Email:         email,
		UserName:      email,
		PasswordHash:  "hash",
		SecurityStamp: uuid.New(),
		Roles:         roles,
		CreatedAt:     time.Now().UTC(),
	}
	require.NoError(t, NewUserRepository(pool, nopLogger).Create(context.Background(), user))
	return user
}

func seedCategory(t *testing.T, pool *pgxpool.Pool, name string) *model.Category {
	t.Helper()
	category := &model.Category{ID: uuid.New(), Name: name, CreatedAt: time.Now().UTC()}
	require.NoError(t, NewCategoryRepository(pool, nopLogger).Create(context.Background(), category))
	return category
}

func seedProduct(t *testing.T, pool *pgxpool.Pool, categoryID uuid.UUID, name, price string) *model.Product {
	t.Helper()
	product := &model.Product{
		ID:         uuid.New(),
		Name:       name,
		Price:      decimal.RequireFromString(price),
		ImageURL:   "/images/products/" + name + ".png",
		CategoryID: categoryID,
		CreatedAt:  time.Now().UTC(),
	}
	require.NoError(t, NewProductRepository(pool, nopLogger).Create(context.Background(), product))
	return product
}
