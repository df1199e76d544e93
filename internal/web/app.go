// Package web is the server-rendered storefront. Every page is built from
// calls to the API through the client package.
package web

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"shopfront/internal/client"
	"shopfront/internal/middleware"
	"shopfront/internal/model"

	"github.com/alexedwards/scs/v2"
	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// API is the part of the API client the storefront uses.
type API interface {
	Products(ctx context.Context, category string) ([]model.Product, error)
	Product(ctx context.Context, id uuid.UUID) (*model.Product, error)
	Categories(ctx context.Context) ([]model.Category, error)

	Register(ctx context.Context, req *model.RegisterRequest) (string, error)
	Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error)
	ConfirmEmail(ctx context.Context, userID, token string) (string, error)
	ForgotPassword(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, req *model.ResetPasswordRequest) (string, error)

	Cart(ctx context.Context, token string) (*model.Cart, error)
	AddToCart(ctx context.Context, token string, productID uuid.UUID, count int) (*model.Cart, error)
	UpdateCartItem(ctx context.Context, token string, detailID uuid.UUID, count int) (*model.Cart, error)
	RemoveCartItem(ctx context.Context, token string, detailID uuid.UUID) error
	ApplyCoupon(ctx context.Context, token, code string) (*model.Cart, error)
	RemoveCoupon(ctx context.Context, token string) (*model.Cart, error)
	ClearCart(ctx context.Context, token string) error

	CreateOrder(ctx context.Context, token string, req *model.CreateOrderRequest) (*model.OrderHeader, error)
	Orders(ctx context.Context, token, status string) ([]model.OrderHeader, error)
	AllOrders(ctx context.Context, token, status string) ([]model.OrderHeader, error)
	Order(ctx context.Context, token string, id uuid.UUID) (*model.OrderHeader, error)
	OrderAction(ctx context.Context, token, action string, id uuid.UUID) (*model.OrderHeader, error)

	Category(ctx context.Context, id uuid.UUID) (*model.Category, error)
	CreateCategory(ctx context.Context, token string, req *model.CategoryRequest) (*model.Category, error)
	UpdateCategory(ctx context.Context, token string, id uuid.UUID, req *model.CategoryRequest) (*model.Category, error)
	DeleteCategory(ctx context.Context, token string, id uuid.UUID) error
	Coupons(ctx context.Context, token string) ([]model.Coupon, error)
	Coupon(ctx context.Context, token string, id uuid.UUID) (*model.Coupon, error)
	CreateCoupon(ctx context.Context, token string, req *model.CouponRequest) (*model.Coupon, error)
	UpdateCoupon(ctx context.Context, token string, id uuid.UUID, req *model.CouponRequest) (*model.Coupon, error)
	DeleteCoupon(ctx context.Context, token string, id uuid.UUID) error
	CreateProduct(ctx context.Context, token string, in *model.ProductInput, image *model.ImageUpload) (*model.Product, error)
	UpdateProduct(ctx context.Context, token string, id uuid.UUID, in *model.ProductInput, image *model.ImageUpload) (*model.Product, error)
	DeleteProduct(ctx context.Context, token string, id uuid.UUID) error
}

// App serves the storefront pages.
type App struct {
	api       API
	sessions  *scs.SessionManager
	views     *views
	imageBase string
	logger    zerolog.Logger
	now       func() time.Time
}

// New creates the storefront and parses its templates. Product images are
// linked from imageBase, the API's public base URL.
func New(api API, sessions *scs.SessionManager, imageBase string, logger zerolog.Logger) (*App, error) {
	v, err := parseViews()
	if err != nil {
		return nil, err
	}
	return &App{
		api:       api,
		sessions:  sessions,
		views:     v,
		imageBase: strings.TrimRight(imageBase, "/"),
		logger:    logger.With().Str("handler", "storefront").Logger(),
		now:       time.Now,
	}, nil
}

// Routes returns the storefront handler with sessions and logging applied.
func (a *App) Routes() http.Handler {
	mux := http.NewServeMux()

	page := a.apiUnavailable
	user := func(h appHandler) http.Handler { return a.requireLogin(a.apiUnavailable(h)) }
	admin := func(h appHandler) http.Handler { return a.requireLogin(a.requireAdmin(a.apiUnavailable(h))) }

	mux.Handle("GET /{$}", page(a.home))
	mux.Handle("GET /products/{id}", page(a.productDetail))
	mux.HandleFunc("GET /error", a.errorPage)

	mux.HandleFunc("GET /auth/login", a.loginForm)
	mux.Handle("POST /auth/login", page(a.login))
	mux.HandleFunc("GET /auth/register", a.registerForm)
	mux.Handle("POST /auth/register", page(a.register))
	mux.Handle("POST /auth/logout", page(a.logout))
	mux.Handle("GET /auth/confirm-email", page(a.confirmEmail))
	mux.HandleFunc("GET /auth/forgot-password", a.forgotPasswordForm)
	mux.Handle("POST /auth/forgot-password", page(a.forgotPassword))
	mux.HandleFunc("GET /auth/reset-password", a.resetPasswordForm)
	mux.Handle("POST /auth/reset-password", page(a.resetPassword))

	mux.Handle("GET /cart", user(a.cart))
	mux.Handle("POST /cart/add", user(a.addToCart))
	mux.Handle("POST /cart/remove/{id}", user(a.removeCartItem))
	mux.Handle("POST /cart/update/{id}", user(a.updateCartItem))
	mux.Handle("POST /cart/apply-coupon", user(a.applyCoupon))
	mux.Handle("POST /cart/remove-coupon", user(a.removeCoupon))
	mux.Handle("POST /cart/clear", user(a.clearCart))
	mux.Handle("POST /cart/checkout", user(a.checkout))

	mux.Handle("GET /orders", user(a.orders))
	mux.Handle("GET /orders/all", admin(a.allOrders))
	mux.Handle("GET /orders/{id}", user(a.orderDetail))
	mux.Handle("POST /orders/{id}/approve", admin(a.orderAction(client.ActionApprove, "Order approved.")))
	mux.Handle("POST /orders/{id}/ready", admin(a.orderAction(client.ActionReady, "Order is ready for pickup.")))
	mux.Handle("POST /orders/{id}/complete", admin(a.orderAction(client.ActionComplete, "Order completed.")))
	mux.Handle("POST /orders/{id}/cancel", user(a.orderAction(client.ActionCancel, "Order cancelled.")))

	mux.Handle("GET /admin/categories", admin(a.adminCategories))
	mux.Handle("POST /admin/categories", admin(a.createCategory))
	mux.Handle("GET /admin/categories/{id}/edit", admin(a.editCategory))
	mux.Handle("POST /admin/categories/{id}", admin(a.updateCategory))
	mux.Handle("POST /admin/categories/{id}/delete", admin(a.deleteCategory))

	mux.Handle("GET /admin/coupons", admin(a.adminCoupons))
	mux.Handle("POST /admin/coupons", admin(a.createCoupon))
	mux.Handle("GET /admin/coupons/{id}/edit", admin(a.editCoupon))
	mux.Handle("POST /admin/coupons/{id}", admin(a.updateCoupon))
	mux.Handle("POST /admin/coupons/{id}/delete", admin(a.deleteCoupon))

	mux.Handle("GET /admin/products", admin(a.adminProducts))
	mux.Handle("GET /admin/products/new", admin(a.newProduct))
	mux.Handle("POST /admin/products", admin(a.createProduct))
	mux.Handle("GET /admin/products/{id}/edit", admin(a.editProduct))
	mux.Handle("POST /admin/products/{id}", admin(a.updateProduct))
	mux.Handle("POST /admin/products/{id}/delete", admin(a.deleteProduct))

	handler := middleware.Chain(mux,
		middleware.Recovery(a.logger),
		middleware.RequestID,
		middleware.Logging(a.logger),
		a.sessions.LoadAndSave,
		a.loadIdentity,
	)
	return otelhttp.NewHandler(handler, "shopfront-storefront")
}

// appHandler is a page handler whose API failures are handled centrally.
type appHandler func(w http.ResponseWriter, r *http.Request) error

// apiUnavailable turns errors left over by a page into redirects. An
// unreachable API goes to the error page and a rejected token signs the
// visitor out.
func (a *App) apiUnavailable(h appHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := h(w, r)
		if err == nil {
			return
		}

		switch {
		case errors.Is(err, client.ErrUnavailable):
			a.logger.Warn().
				Err(err).
				Str("path", r.URL.Path).
				Str("request_id", middleware.GetRequestID(r.Context())).
				Msg("api unavailable")
			redirectError(w, r, "The shop is temporarily unavailable. Please try again later.")

		case client.IsStatus(err, http.StatusUnauthorized):
			if destroyErr := a.sessions.Destroy(r.Context()); destroyErr != nil {
				a.logger.Error().Err(destroyErr).Msg("failed to destroy session")
			}
			redirectLogin(w, r)

		default:
			a.logger.Error().
				Err(err).
				Str("path", r.URL.Path).
				Str("request_id", middleware.GetRequestID(r.Context())).
				Msg("page failed")
			redirectError(w, r, "Something went wrong.")
		}
	}
}

// loadIdentity parses the session token once per request.
func (a *App) loadIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := a.sessions.GetString(r.Context(), SessionToken)
		if token != "" {
			identity, err := IdentityFromToken(token)
			if err == nil {
				r = r.WithContext(withIdentity(r.Context(), identity))
			} else {
				a.logger.Debug().Err(err).Msg("discarding unreadable session token")
				a.sessions.Remove(r.Context(), SessionToken)
			}
		}
		next.ServeHTTP(w, r)
	})
}

// requireLogin sends visitors without a live token to the login page.
func (a *App) requireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFrom(r.Context())
		if !ok || identity.Expired(a.now()) {
			a.sessions.Remove(r.Context(), SessionToken)
			redirectLogin(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (a *App) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, _ := IdentityFrom(r.Context())
		if !identity.IsAdmin() {
			a.flashError(r, "You are not allowed to access this page.")
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (a *App) token(r *http.Request) string {
	return a.sessions.GetString(r.Context(), SessionToken)
}

func (a *App) flashSuccess(r *http.Request, msg string) {
	a.sessions.Put(r.Context(), FlashSuccess, msg)
}

func (a *App) flashError(r *http.Request, msg string) {
	a.sessions.Put(r.Context(), FlashError, msg)
}

// rejected flashes an API rejection and redirects to target. Errors that
// are not a rejection, or that need the central handling, are returned.
func (a *App) rejected(w http.ResponseWriter, r *http.Request, err error, target string) error {
	msg, ok := rejection(err)
	if !ok {
		return err
	}
	a.flashError(r, msg)
	http.Redirect(w, r, target, http.StatusSeeOther)
	return nil
}

// rejection returns the user-facing message of a 4xx API error other than 401.
func rejection(err error) (string, bool) {
	var apiErr *client.APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode >= 500 {
		return "", false
	}
	if len(apiErr.Errors) > 0 {
		return strings.Join(apiErr.Errors, " "), true
	}
	if apiErr.Message != "" {
		return apiErr.Message, true
	}
	return http.StatusText(apiErr.StatusCode), true
}

func redirectLogin(w http.ResponseWriter, r *http.Request) {
	target := r.URL.RequestURI()
	if r.Method != http.MethodGet {
		target = r.Referer()
		if u, err := url.Parse(target); err == nil {
			target = u.RequestURI()
		}
	}
	http.Redirect(w, r, "/auth/login?returnUrl="+url.QueryEscape(safeReturn(target)), http.StatusSeeOther)
}

func redirectError(w http.ResponseWriter, r *http.Request, msg string) {
	http.Redirect(w, r, "/error?message="+url.QueryEscape(msg), http.StatusSeeOther)
}

// safeReturn keeps only local absolute paths.
func safeReturn(target string) string {
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return "/"
	}
	return target
}
