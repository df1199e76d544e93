// Package integration runs the API, the storefront and the seed tool
// against a PostgreSQL container.
package integration

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"shopfront/internal/auth"
	"shopfront/internal/database"
	"shopfront/internal/handler"
	"shopfront/internal/repository"
	"shopfront/internal/router"
	"shopfront/internal/service"
	"shopfront/internal/storage"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container with the schema applied.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		t.Fatalf("failed to parse connection string: %v", err)
	}
	poolConfig.AfterConnect = database.RegisterTypes

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	if err := database.RunMigrations(ctx, pool); err != nil {
		t.Fatalf("failed to apply schema: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// Mail is one captured email.
type Mail struct {
	Kind string
	To   string
	Link string
}

// RecordingSender captures outgoing mail so tests can follow emailed links.
type RecordingSender struct {
	mu   sync.Mutex
	sent []Mail
}

func (s *RecordingSender) SendConfirmation(_ context.Context, to, _, link string) error {
	s.record(Mail{Kind: "confirm", To: to, Link: link})
	return nil
}

func (s *RecordingSender) SendPasswordReset(_ context.Context, to, _, link string) error {
	s.record(Mail{Kind: "reset", To: to, Link: link})
	return nil
}

func (s *RecordingSender) SendWelcome(_ context.Context, to, _ string) error {
	s.record(Mail{Kind: "welcome", To: to})
	return nil
}

func (s *RecordingSender) record(m Mail) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, m)
}

// Last returns the most recent mail of kind sent to to.
func (s *RecordingSender) Last(kind, to string) (Mail, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.sent) - 1; i >= 0; i-- {
		if s.sent[i].Kind == kind && s.sent[i].To == to {
			return s.sent[i], true
		}
	}
	return Mail{}, false
}

// LinkParams returns the userId and token query parameters of an emailed link.
func LinkParams(t *testing.T, link string) (userID, token string) {
	t.Helper()
	u, err := url.Parse(link)
	if err != nil {
		t.Fatalf("failed to parse link %q: %v", link, err)
	}
	return u.Query().Get("userId"), u.Query().Get("token")
}

// APIServer starts the full API stack on an httptest server.
func APIServer(t *testing.T, pool *pgxpool.Pool, sender *RecordingSender) *httptest.Server {
	t.Helper()

	logger := zerolog.Nop()

	userRepo := repository.NewUserRepository(pool, logger)
	categoryRepo := repository.NewCategoryRepository(pool, logger)
	productRepo := repository.NewProductRepository(pool, logger)
	couponRepo := repository.NewCouponRepository(pool, logger)
	cartRepo := repository.NewCartRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)

	images, err := storage.NewDiskStore(t.TempDir(), logger)
	if err != nil {
		t.Fatalf("failed to create image store: %v", err)
	}

	tokens := auth.NewTokens(auth.Config{
		Secret:     []byte("integration-secret-0123456789abcdef"),
		Issuer:     "Formation-Ecommerce-API",
		Audience:   "Formation-Ecommerce-Client",
		Expiration: time.Hour,
	})

	authService := service.NewAuthService(userRepo, tokens, sender, "http://storefront.test", logger)
	categoryService := service.NewCategoryService(categoryRepo, logger)
	productService := service.NewProductService(productRepo, images, logger)
	couponService := service.NewCouponService(couponRepo, logger)
	cartService := service.NewCartService(cartRepo, productRepo, couponRepo, logger)
	orderService := service.NewOrderService(orderRepo, cartRepo, productRepo, couponRepo, logger)

	h := router.New(router.Handlers{
		Auth:     handler.NewAuthHandler(authService, logger),
		Category: handler.NewCategoryHandler(categoryService, logger),
		Product:  handler.NewProductHandler(productService, images, logger),
		Coupon:   handler.NewCouponHandler(couponService, logger),
		Cart:     handler.NewCartHandler(cartService, logger),
		Order:    handler.NewOrderHandler(orderService, logger),
	}, router.Options{
		Tokens:      tokens,
		CORSOrigins: []string{"*"},
		Health:      pool,
	}, logger)

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

// NoRedirectClient keeps cookies and returns redirects instead of following them.
func NoRedirectClient(t *testing.T, jar http.CookieJar) *http.Client {
	t.Helper()
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}
