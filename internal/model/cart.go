package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cart is a user's priced shopping cart.
type Cart struct {
	Header  CartHeader    `json:"cartHeader"`
	Details []CartDetails `json:"cartDetails"`
}

// CartHeader is the per-user cart row plus computed totals.
type CartHeader struct {
	ID         uuid.UUID       `json:"id" db:"id"`
	UserID     uuid.UUID       `json:"userId" db:"user_id"`
	CouponCode string          `json:"couponCode" db:"coupon_code"`
	SubTotal   decimal.Decimal `json:"subTotal"`
	Discount   decimal.Decimal `json:"discount"`
	CartTotal  decimal.Decimal `json:"cartTotal"`
	CreatedAt  time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt  *time.Time      `json:"updatedAt,omitempty" db:"updated_at"`
}

// CartDetails is one product line in a cart. Product and LinePrice are
// filled from the live catalogue when the cart is read.
type CartDetails struct {
	ID           uuid.UUID       `json:"id" db:"id"`
	CartHeaderID uuid.UUID       `json:"cartHeaderId" db:"cart_header_id"`
	ProductID    uuid.UUID       `json:"productId" db:"product_id"`
	Count        int             `json:"count" db:"count"`
	Product      *Product        `json:"product,omitempty"`
	LinePrice    decimal.Decimal `json:"linePrice"`
}

// Quantity bounds for a cart line.
const (
	MinCartQuantity = 1
	MaxCartQuantity = 100
)

// UpsertCartRequest adds a product to the caller's cart.
type UpsertCartRequest struct {
	ProductID uuid.UUID `json:"productId" validate:"required"`
	Count     int       `json:"count" validate:"min=1,max=100"`
}

// UpdateCartItemRequest sets a cart line's quantity.
type UpdateCartItemRequest struct {
	Count int `json:"count" validate:"min=1,max=100"`
}

// ApplyCouponRequest attaches a coupon code. An empty code clears it.
type ApplyCouponRequest struct {
	CouponCode string `json:"couponCode" validate:"max=50"`
}
