package router

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"shopfront/internal/auth"
	"shopfront/internal/handler"
	"shopfront/internal/middleware"
	"shopfront/internal/model"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handlers groups the API handlers the router dispatches to.
type Handlers struct {
	Auth     *handler.AuthHandler
	Category *handler.CategoryHandler
	Product  *handler.ProductHandler
	Coupon   *handler.CouponHandler
	Cart     *handler.CartHandler
	Order    *handler.OrderHandler
}

// Options configures cross-cutting router behaviour.
type Options struct {
	Tokens      *auth.Tokens
	CORSOrigins []string
	Health      Pinger
}

// New creates a new HTTP router with all routes and middleware configured.
func New(h Handlers, opts Options, logger zerolog.Logger) http.Handler {
	mux := http.NewServeMux()

	user := func(fn http.HandlerFunc) http.Handler {
		return middleware.RequireAuth(opts.Tokens, logger)(fn)
	}
	admin := func(fn http.HandlerFunc) http.Handler {
		return middleware.Chain(fn, middleware.RequireAuth(opts.Tokens, logger), middleware.RequireRole(model.RoleAdmin))
	}

	// Health check endpoint (no authentication required)
	mux.HandleFunc("GET /health", health(opts.Health))

	// Auth
	mux.HandleFunc("POST /api/auth/register", h.Auth.Register)
	mux.HandleFunc("POST /api/auth/login", h.Auth.Login)
	mux.HandleFunc("GET /api/auth/confirm-email", h.Auth.ConfirmEmail)
	mux.HandleFunc("POST /api/auth/forgot-password", h.Auth.ForgotPassword)
	mux.HandleFunc("POST /api/auth/reset-password", h.Auth.ResetPassword)
	mux.Handle("POST /api/auth/assign-role", admin(h.Auth.AssignRole))

	// Catalog reads are public, writes are admin-only.
	mux.HandleFunc("GET /api/categories", h.Category.GetAll)
	mux.HandleFunc("GET /api/categories/{id}", h.Category.GetByID)
	mux.Handle("POST /api/categories", admin(h.Category.Create))
	mux.Handle("PUT /api/categories/{id}", admin(h.Category.Update))
	mux.Handle("DELETE /api/categories/{id}", admin(h.Category.Delete))

	mux.HandleFunc("GET /api/products", h.Product.GetAll)
	mux.HandleFunc("GET /api/products/{id}", h.Product.GetByID)
	mux.Handle("POST /api/products", admin(h.Product.Create))
	mux.Handle("PUT /api/products/{id}", admin(h.Product.Update))
	mux.Handle("DELETE /api/products/{id}", admin(h.Product.Delete))
	mux.HandleFunc("GET /images/products/{name}", h.Product.Image)

	mux.Handle("GET /api/coupons", admin(h.Coupon.GetAll))
	mux.Handle("GET /api/coupons/{id}", admin(h.Coupon.GetByID))
	mux.Handle("GET /api/coupons/validate/{code}", user(h.Coupon.Validate))
	mux.Handle("POST /api/coupons", admin(h.Coupon.Create))
	mux.Handle("PUT /api/coupons/{id}", admin(h.Coupon.Update))
	mux.Handle("DELETE /api/coupons/{id}", admin(h.Coupon.Delete))

	// Cart
	mux.Handle("GET /api/cart", user(h.Cart.Get))
	mux.Handle("POST /api/cart", user(h.Cart.Upsert))
	mux.Handle("DELETE /api/cart", user(h.Cart.Clear))
	mux.Handle("PUT /api/cart/items/{id}", user(h.Cart.UpdateItem))
	mux.Handle("DELETE /api/cart/items/{id}", user(h.Cart.RemoveItem))
	mux.Handle("POST /api/cart/apply-coupon", user(h.Cart.ApplyCoupon))
	mux.Handle("POST /api/cart/remove-coupon", user(h.Cart.RemoveCoupon))

	// Orders
	mux.Handle("GET /api/orders/OrderIndex", user(h.Order.Index))
	mux.Handle("GET /api/orders/GetAll", user(h.Order.GetAll))
	mux.Handle("GET /api/orders/OrderDetail/{id}", user(h.Order.Detail))
	mux.Handle("POST /api/orders/Create", user(h.Order.Create))
	mux.Handle("POST /api/orders/ApproveOrder", admin(h.Order.Approve))
	mux.Handle("POST /api/orders/OrderReadyForPickup", admin(h.Order.ReadyForPickup))
	mux.Handle("POST /api/orders/CompleteOrder", admin(h.Order.Complete))
	mux.Handle("POST /api/orders/CancelOrder", user(h.Order.Cancel))

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, model.Response[any]{Success: false, Message: "resource not found"})
	})

	// Apply middleware in order: Recovery -> RequestID -> Logging -> CORS
	handler := middleware.Chain(mux,
		middleware.Recovery(logger),
		middleware.RequestID,
		middleware.Logging(logger),
		middleware.CORS(opts.CORSOrigins),
	)

	return otelhttp.NewHandler(handler, "shopfront-api")
}

func health(p Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if p != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := p.Ping(ctx); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
