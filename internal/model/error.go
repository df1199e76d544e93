package model

import "strings"

// Standard error codes. Each maps to one HTTP status in the handler layer.
const (
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeValidation       = "VALIDATION"
	ErrCodeInvalidOperation = "INVALID_OPERATION"
	ErrCodeUnauthorised     = "UNAUTHORIZED"
	ErrCodeForbidden        = "FORBIDDEN"
	ErrCodeInternalError    = "INTERNAL_ERROR"
)

// DomainError is a business error raised by the service layer.
type DomainError struct {
	Code    string
	Message string
	Details []string
}

func (e *DomainError) Error() string {
	if len(e.Details) == 0 {
		return e.Message
	}
	return e.Message + ": " + strings.Join(e.Details, "; ")
}

// Is reports whether target is a DomainError of the same code. A target with
// an empty message matches any error of that code.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return t.Code == e.Code && (t.Message == "" || t.Message == e.Message)
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewValidationError reports one or more invalid request fields.
func NewValidationError(details ...string) *DomainError {
	return &DomainError{
		Code:    ErrCodeValidation,
		Message: "validation failed",
		Details: details,
	}
}

// NewInvalidOperation creates an invalid-operation error with a custom message.
func NewInvalidOperation(message string) *DomainError {
	return NewDomainError(ErrCodeInvalidOperation, message)
}

// Error kinds, for errors.Is checks against any error of that code.
var (
	ErrNotFound         = &DomainError{Code: ErrCodeNotFound}
	ErrValidation       = &DomainError{Code: ErrCodeValidation}
	ErrInvalidOperation = &DomainError{Code: ErrCodeInvalidOperation}
	ErrUnauthorised     = &DomainError{Code: ErrCodeUnauthorised}
	ErrForbidden        = &DomainError{Code: ErrCodeForbidden}
)

// Common domain errors
var (
	ErrUserNotFound     = NewDomainError(ErrCodeNotFound, "user not found")
	ErrCategoryNotFound = NewDomainError(ErrCodeNotFound, "category not found")
	ErrProductNotFound  = NewDomainError(ErrCodeNotFound, "product not found")
	ErrCouponNotFound   = NewDomainError(ErrCodeNotFound, "coupon not found")
	ErrCartNotFound     = NewDomainError(ErrCodeNotFound, "cart not found")
	ErrCartItemNotFound = NewDomainError(ErrCodeNotFound, "cart item not found")
	ErrOrderNotFound    = NewDomainError(ErrCodeNotFound, "order not found")

	ErrInvalidQuantity = NewDomainError(ErrCodeValidation, "quantity must be between 1 and 100")
	ErrInvalidToken    = NewDomainError(ErrCodeValidation, "invalid or expired token")
	ErrInvalidPrice    = NewDomainError(ErrCodeValidation, "price must be greater than zero")
	ErrInvalidAmounts  = NewDomainError(ErrCodeValidation, "coupon amounts are out of range")

	ErrInvalidCoupon    = NewDomainError(ErrCodeInvalidOperation, "coupon code is not valid")
	ErrDuplicateCoupon  = NewDomainError(ErrCodeInvalidOperation, "coupon code already exists")
	ErrEmptyCart        = NewDomainError(ErrCodeInvalidOperation, "cart is empty")
	ErrEmailTaken       = NewDomainError(ErrCodeInvalidOperation, "email is already registered")
	ErrCategoryInUse    = NewDomainError(ErrCodeInvalidOperation, "category still has products")
	ErrUnknownCategory  = NewDomainError(ErrCodeInvalidOperation, "category does not exist")
	ErrUnknownProduct   = NewDomainError(ErrCodeInvalidOperation, "product does not exist")
	ErrStaleOrderStatus = NewDomainError(ErrCodeInvalidOperation, "order status changed concurrently")

	ErrInvalidCredentials = NewDomainError(ErrCodeUnauthorised, "invalid credentials")
	ErrEmailNotConfirmed  = NewDomainError(ErrCodeUnauthorised, "email not confirmed")
	ErrMissingToken       = NewDomainError(ErrCodeUnauthorised, "authentication required")

	ErrAccessDenied = NewDomainError(ErrCodeForbidden, "you are not allowed to access this resource")
)
