package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Coupon is a flat discount gated by a minimum cart subtotal.
type Coupon struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	Code           string          `json:"couponCode" db:"code"`
	DiscountAmount decimal.Decimal `json:"discountAmount" db:"discount_amount"`
	MinimumAmount  decimal.Decimal `json:"minimumAmount" db:"minimum_amount"`
	CreatedAt      time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt      *time.Time      `json:"updatedAt,omitempty" db:"updated_at"`
}

// IsEligible reports whether a cart subtotal qualifies for the discount.
func (c Coupon) IsEligible(subtotal decimal.Decimal) bool {
	return subtotal.GreaterThanOrEqual(c.MinimumAmount)
}

// CouponRequest is the payload for creating or updating a coupon.
type CouponRequest struct {
	Code           string          `json:"couponCode" validate:"required,max=50"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	MinimumAmount  decimal.Decimal `json:"minimumAmount"`
}
