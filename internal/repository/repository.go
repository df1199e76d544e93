package repository

import (
	"context"

	"shopfront/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// UserRepository defines data access for accounts and their roles.
type UserRepository interface {
	// Create inserts a user together with its roles.
	Create(ctx context.Context, user *model.User) error

	// GetByID returns nil, nil when the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)

	// GetByEmail looks the user up case-insensitively.
	GetByEmail(ctx context.Context, email string) (*model.User, error)

	ConfirmEmail(ctx context.Context, id uuid.UUID) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string, stamp uuid.UUID) error

	// AddRole is a no-op when the user already holds the role.
	AddRole(ctx context.Context, id uuid.UUID, role string) error
}

// CategoryRepository defines data access for categories.
type CategoryRepository interface {
	GetAll(ctx context.Context) ([]model.Category, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Category, error)
	Create(ctx context.Context, category *model.Category) error

	// Update reports false when the category does not exist.
	Update(ctx context.Context, category *model.Category) (bool, error)

	// Delete reports false when the category does not exist. A category that
	// still has products yields model.ErrCategoryInUse.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)

	// UpsertByName creates the category or refreshes its description.
	UpsertByName(ctx context.Context, category *model.Category) error
}

// ProductRepository defines data access for products.
type ProductRepository interface {
	GetAll(ctx context.Context) ([]model.Product, error)

	// GetByCategoryName matches the category name case-insensitively.
	GetByCategoryName(ctx context.Context, name string) ([]model.Product, error)

	GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error)

	// GetByIDs returns the products that exist; missing ids are skipped.
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Product, error)

	Create(ctx context.Context, product *model.Product) error
	Update(ctx context.Context, product *model.Product) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

// CouponRepository defines data access for coupons.
type CouponRepository interface {
	GetAll(ctx context.Context) ([]model.Coupon, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Coupon, error)

	// GetByCode looks the coupon up case-insensitively.
	GetByCode(ctx context.Context, code string) (*model.Coupon, error)

	Create(ctx context.Context, coupon *model.Coupon) error
	Update(ctx context.Context, coupon *model.Coupon) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)

	// Upsert creates the coupon or replaces the amounts of an existing code.
	Upsert(ctx context.Context, coupon *model.Coupon) error
}

// CartRepository defines data access for the per-user cart.
type CartRepository interface {
	// GetByUserID returns nil header when the user has no cart.
	GetByUserID(ctx context.Context, userID uuid.UUID) (*model.CartHeader, []model.CartDetails, error)

	// AddItem creates the cart if needed and adds count to the line for the
	// product, creating the line if it does not exist.
	AddItem(ctx context.Context, userID, productID uuid.UUID, count int) error

	// SetItemCount reports false when the line is not in the user's cart.
	SetItemCount(ctx context.Context, userID, detailID uuid.UUID, count int) (bool, error)

	// RemoveItem reports false when the line is not in the user's cart. The
	// cart itself is removed with its last line.
	RemoveItem(ctx context.Context, userID, detailID uuid.UUID) (bool, error)

	// SetCoupon stores code, or clears it when code is empty. It reports false
	// when the user has no cart.
	SetCoupon(ctx context.Context, userID uuid.UUID, code string) (bool, error)

	// Clear deletes the cart and its lines, reporting false when there was none.
	Clear(ctx context.Context, userID uuid.UUID) (bool, error)

	// GetForUpdate reads and locks the user's cart within tx.
	GetForUpdate(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (*model.CartHeader, []model.CartDetails, error)

	// DeleteTx deletes a cart within tx.
	DeleteTx(ctx context.Context, tx pgx.Tx, headerID uuid.UUID) error
}

// OrderRepository defines data access for orders.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateOrder inserts a new order header within the provided transaction.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.OrderHeader) error

	// CreateOrderDetails inserts order lines within the provided transaction.
	CreateOrderDetails(ctx context.Context, tx pgx.Tx, details []model.OrderDetails) error

	// GetByID retrieves an order with its lines, or nil, nil when missing.
	GetByID(ctx context.Context, id uuid.UUID) (*model.OrderHeader, error)

	// List returns orders newest first. A nil userID lists every user's
	// orders; empty statuses disables status filtering.
	List(ctx context.Context, userID *uuid.UUID, statuses []model.OrderStatus) ([]model.OrderHeader, error)

	// UpdateStatus moves the order from one status to another, reporting
	// false when the order is no longer in status from.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.OrderStatus) (bool, error)
}
