package service

import (
	"context"

	"shopfront/internal/model"

	"github.com/google/uuid"
)

// AuthService defines account and token operations.
type AuthService interface {
	// Register creates a Customer account and sends the confirmation email.
	Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error)

	// Login exchanges credentials for an access token.
	Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error)

	ConfirmEmail(ctx context.Context, userID uuid.UUID, token string) error

	// ForgotPassword sends a reset link when the account exists and is
	// silent otherwise.
	ForgotPassword(ctx context.Context, email string) error

	ResetPassword(ctx context.Context, req *model.ResetPasswordRequest) error
	AssignRole(ctx context.Context, req *model.AssignRoleRequest) error
}

// CategoryService defines category management.
type CategoryService interface {
	GetAll(ctx context.Context) ([]model.Category, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Category, error)
	Create(ctx context.Context, req *model.CategoryRequest) (*model.Category, error)
	Update(ctx context.Context, id uuid.UUID, req *model.CategoryRequest) (*model.Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ProductService defines operations for product management.
type ProductService interface {
	// GetAll lists products, filtered by category name when category is set.
	GetAll(ctx context.Context, category string) ([]model.Product, error)

	GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error)

	// Create stores the product and its optional image.
	Create(ctx context.Context, in *model.ProductInput, image *model.ImageUpload) (*model.Product, error)

	// Update replaces the product fields. A new image replaces the old one.
	Update(ctx context.Context, id uuid.UUID, in *model.ProductInput, image *model.ImageUpload) (*model.Product, error)

	Delete(ctx context.Context, id uuid.UUID) error
}

// CouponService defines coupon management and lookup.
type CouponService interface {
	GetAll(ctx context.Context) ([]model.Coupon, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Coupon, error)

	// GetByCode is case-insensitive and returns not-found for unknown codes.
	GetByCode(ctx context.Context, code string) (*model.Coupon, error)

	Create(ctx context.Context, req *model.CouponRequest) (*model.Coupon, error)
	Update(ctx context.Context, id uuid.UUID, req *model.CouponRequest) (*model.Coupon, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CartService defines operations on the caller's cart.
type CartService interface {
	// GetCart returns the priced cart or model.ErrCartNotFound.
	GetCart(ctx context.Context, userID uuid.UUID) (*model.Cart, error)

	// AddItem adds count units of a product, merging with an existing line.
	AddItem(ctx context.Context, userID uuid.UUID, req *model.UpsertCartRequest) (*model.Cart, error)

	UpdateItemQuantity(ctx context.Context, userID, detailID uuid.UUID, count int) (*model.Cart, error)

	// RemoveItem reports false when the line is not in the user's cart.
	RemoveItem(ctx context.Context, userID, detailID uuid.UUID) (bool, error)

	// ApplyCoupon attaches code to the cart; an empty code clears it.
	ApplyCoupon(ctx context.Context, userID uuid.UUID, code string) (*model.Cart, error)
	RemoveCoupon(ctx context.Context, userID uuid.UUID) (*model.Cart, error)

	// ClearCart reports false when the user had no cart.
	ClearCart(ctx context.Context, userID uuid.UUID) (bool, error)
}

// OrderService defines operations for order management.
type OrderService interface {
	// Create checks out the caller's cart into a Pending order.
	Create(ctx context.Context, caller model.Caller, req *model.CreateOrderRequest) (*model.OrderHeader, error)

	// ListMine returns the caller's orders in the status bucket.
	ListMine(ctx context.Context, caller model.Caller, status string) ([]model.OrderHeader, error)

	// ListAll returns every order for admins and the caller's own otherwise.
	ListAll(ctx context.Context, caller model.Caller, status string) ([]model.OrderHeader, error)

	Detail(ctx context.Context, caller model.Caller, id uuid.UUID) (*model.OrderHeader, error)

	Approve(ctx context.Context, caller model.Caller, id uuid.UUID) (*model.OrderHeader, error)
	ReadyForPickup(ctx context.Context, caller model.Caller, id uuid.UUID) (*model.OrderHeader, error)
	Complete(ctx context.Context, caller model.Caller, id uuid.UUID) (*model.OrderHeader, error)

	// Cancel is allowed for the order owner and admins.
	Cancel(ctx context.Context, caller model.Caller, id uuid.UUID) (*model.OrderHeader, error)
}
