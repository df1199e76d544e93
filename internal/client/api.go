package client

import (
	"context"
	"net/http"
	"net/url"

	"shopfront/internal/model"

	"github.com/google/uuid"
)

func statusQuery(status string) url.Values {
	if status == "" {
		return nil
	}
	return url.Values{"status": {status}}
}

// Products lists the catalogue, optionally filtered by category name.
func (c *Client) Products(ctx context.Context, category string) ([]model.Product, error) {
	var q url.Values
	if category != "" {
		q = url.Values{"category": {category}}
	}
	products, _, err := call[[]model.Product](ctx, c, request{method: http.MethodGet, path: "/api/products", query: q})
	return products, err
}

func (c *Client) Product(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	product, _, err := call[*model.Product](ctx, c, request{method: http.MethodGet, path: "/api/products/" + id.String()})
	return product, err
}

func (c *Client) Categories(ctx context.Context) ([]model.Category, error) {
	categories, _, err := call[[]model.Category](ctx, c, request{method: http.MethodGet, path: "/api/categories"})
	return categories, err
}

// Register creates an account and returns the API's confirmation message.
func (c *Client) Register(ctx context.Context, req *model.RegisterRequest) (string, error) {
	_, msg, err := call[none](ctx, c, request{method: http.MethodPost, path: "/api/auth/register", body: req})
	return msg, err
}

func (c *Client) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	resp, _, err := call[*model.LoginResponse](ctx, c, request{method: http.MethodPost, path: "/api/auth/login", body: req})
	return resp, err
}

func (c *Client) ConfirmEmail(ctx context.Context, userID, token string) (string, error) {
	q := url.Values{"userId": {userID}, "token": {token}}
	_, msg, err := call[none](ctx, c, request{method: http.MethodGet, path: "/api/auth/confirm-email", query: q})
	return msg, err
}

func (c *Client) ForgotPassword(ctx context.Context, email string) (string, error) {
	_, msg, err := call[none](ctx, c, request{
		method: http.MethodPost,
		path:   "/api/auth/forgot-password",
		body:   model.ForgotPasswordRequest{Email: email},
	})
	return msg, err
}

func (c *Client) ResetPassword(ctx context.Context, req *model.ResetPasswordRequest) (string, error) {
	_, msg, err := call[none](ctx, c, request{method: http.MethodPost, path: "/api/auth/reset-password", body: req})
	return msg, err
}

// Cart returns the caller's cart. A caller without a cart gets a 404 APIError.
func (c *Client) Cart(ctx context.Context, token string) (*model.Cart, error) {
	cart, _, err := call[*model.Cart](ctx, c, request{method: http.MethodGet, path: "/api/cart", token: token})
	return cart, err
}

func (c *Client) AddToCart(ctx context.Context, token string, productID uuid.UUID, count int) (*model.Cart, error) {
	cart, _, err := call[*model.Cart](ctx, c, request{
		method: http.MethodPost,
		path:   "/api/cart",
		token:  token,
		body:   model.UpsertCartRequest{ProductID: productID, Count: count},
	})
	return cart, err
}

func (c *Client) UpdateCartItem(ctx context.Context, token string, detailID uuid.UUID, count int) (*model.Cart, error) {
	cart, _, err := call[*model.Cart](ctx, c, request{
		method: http.MethodPut,
		path:   "/api/cart/items/" + detailID.String(),
		token:  token,
		body:   model.UpdateCartItemRequest{Count: count},
	})
	return cart, err
}

func (c *Client) RemoveCartItem(ctx context.Context, token string, detailID uuid.UUID) error {
	_, _, err := call[none](ctx, c, request{method: http.MethodDelete, path: "/api/cart/items/" + detailID.String(), token: token})
	return err
}

func (c *Client) ApplyCoupon(ctx context.Context, token, code string) (*model.Cart, error) {
	cart, _, err := call[*model.Cart](ctx, c, request{
		method: http.MethodPost,
		path:   "/api/cart/apply-coupon",
		token:  token,
		body:   model.ApplyCouponRequest{CouponCode: code},
	})
	return cart, err
}

func (c *Client) RemoveCoupon(ctx context.Context, token string) (*model.Cart, error) {
	cart, _, err := call[*model.Cart](ctx, c, request{method: http.MethodPost, path: "/api/cart/remove-coupon", token: token})
	return cart, err
}

func (c *Client) ClearCart(ctx context.Context, token string) error {
	_, _, err := call[none](ctx, c, request{method: http.MethodDelete, path: "/api/cart", token: token})
	return err
}

// CreateOrder checks out the caller's cart.
func (c *Client) CreateOrder(ctx context.Context, token string, req *model.CreateOrderRequest) (*model.OrderHeader, error) {
	order, _, err := call[*model.OrderHeader](ctx, c, request{method: http.MethodPost, path: "/api/orders/Create", token: token, body: req})
	return order, err
}

// Orders lists the caller's own orders in a status bucket.
func (c *Client) Orders(ctx context.Context, token, status string) ([]model.OrderHeader, error) {
	orders, _, err := call[[]model.OrderHeader](ctx, c, request{
		method: http.MethodGet,
		path:   "/api/orders/OrderIndex",
		query:  statusQuery(status),
		token:  token,
	})
	return orders, err
}

// AllOrders lists every order when the caller is an admin.
func (c *Client) AllOrders(ctx context.Context, token, status string) ([]model.OrderHeader, error) {
	orders, _, err := call[[]model.OrderHeader](ctx, c, request{
		method: http.MethodGet,
		path:   "/api/orders/GetAll",
		query:  statusQuery(status),
		token:  token,
	})
	return orders, err
}

func (c *Client) Order(ctx context.Context, token string, id uuid.UUID) (*model.OrderHeader, error) {
	order, _, err := call[*model.OrderHeader](ctx, c, request{
		method: http.MethodGet,
		path:   "/api/orders/OrderDetail/" + id.String(),
		token:  token,
	})
	return order, err
}

// Order actions, as named by the API routes.
const (
	ActionApprove  = "ApproveOrder"
	ActionReady    = "OrderReadyForPickup"
	ActionComplete = "CompleteOrder"
	ActionCancel   = "CancelOrder"
)

// OrderAction applies one of the Action* status changes to an order.
func (c *Client) OrderAction(ctx context.Context, token, action string, id uuid.UUID) (*model.OrderHeader, error) {
	order, _, err := call[*model.OrderHeader](ctx, c, request{
		method: http.MethodPost,
		path:   "/api/orders/" + action,
		token:  token,
		body:   model.OrderActionRequest{OrderID: id},
	})
	return order, err
}
