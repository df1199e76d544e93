package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusPending        OrderStatus = "Pending"
	StatusApproved       OrderStatus = "Approved"
	StatusReadyForPickup OrderStatus = "ReadyForPickup"
	StatusCompleted      OrderStatus = "Completed"
	StatusRefunded       OrderStatus = "Refunded"
	StatusCancelled      OrderStatus = "Cancelled"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:        {StatusApproved, StatusCancelled},
	StatusApproved:       {StatusReadyForPickup, StatusCancelled, StatusRefunded},
	StatusReadyForPickup: {StatusCompleted, StatusCancelled, StatusRefunded},
	StatusCompleted:      {StatusRefunded},
}

// CanTransitionTo reports whether an order may move from s to next.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusReadyForPickup, StatusCompleted, StatusRefunded, StatusCancelled:
		return true
	}
	return false
}

// StatusFilter maps the coarse status query parameter to the statuses it
// selects. An unknown or empty filter selects everything and returns nil.
func StatusFilter(filter string) []OrderStatus {
	switch strings.ToLower(strings.TrimSpace(filter)) {
	case "approved":
		return []OrderStatus{StatusApproved}
	case "readyforpickup":
		return []OrderStatus{StatusReadyForPickup}
	case "cancelled":
		return []OrderStatus{StatusCancelled, StatusRefunded}
	default:
		return nil
	}
}

// OrderHeader is a placed order. Details are only populated on detail reads.
type OrderHeader struct {
	ID         uuid.UUID       `json:"id" db:"id"`
	UserID     uuid.UUID       `json:"userId" db:"user_id"`
	Name       string          `json:"name" db:"name"`
	Phone      string          `json:"phone" db:"phone"`
	Email      string          `json:"email" db:"email"`
	CouponCode string          `json:"couponCode" db:"coupon_code"`
	Discount   decimal.Decimal `json:"discount" db:"discount"`
	OrderTotal decimal.Decimal `json:"orderTotal" db:"order_total"`
	OrderTime  time.Time       `json:"orderTime" db:"order_time"`
	Status     OrderStatus     `json:"status" db:"status"`
	CreatedAt  time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt  *time.Time      `json:"updatedAt,omitempty" db:"updated_at"`
	Details    []OrderDetails  `json:"orderDetails,omitempty"`
}

// OrderDetails is a frozen snapshot of a product at checkout.
type OrderDetails struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	OrderHeaderID   uuid.UUID       `json:"orderHeaderId" db:"order_header_id"`
	ProductID       uuid.UUID       `json:"productId" db:"product_id"`
	ProductName     string          `json:"productName" db:"product_name"`
	ProductImageURL string          `json:"productImageUrl" db:"product_image_url"`
	Price           decimal.Decimal `json:"price" db:"price"`
	Count           int             `json:"count" db:"count"`
}

// CreateOrderRequest carries the buyer contact details for checkout.
type CreateOrderRequest struct {
	Name  string `json:"name" validate:"required,max=256"`
	Phone string `json:"phone" validate:"max=32"`
	Email string `json:"email" validate:"required,email,max=256"`
}

// OrderActionRequest identifies the order a status change applies to.
type OrderActionRequest struct {
	OrderID uuid.UUID `json:"orderId" validate:"required"`
}
