package handler

import (
	"net/http"

	"shopfront/internal/model"
	"shopfront/internal/service"

	"github.com/rs/zerolog"
)

// CartHandler handles the caller's cart.
type CartHandler struct {
	service service.CartService
	logger  zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(service service.CartService, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		service: service,
		logger:  logger.With().Str("handler", "cart").Logger(),
	}
}

// Get handles GET /api/cart.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	cart, err := h.service.GetCart(r.Context(), caller.UserID)
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}
	respond(w, http.StatusOK, "", cart)
}

// Upsert handles POST /api/cart.
func (h *CartHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	var req model.UpsertCartRequest
	if err := decode(w, r, &req); err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	cart, err := h.service.AddItem(r.Context(), caller.UserID, &req)
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}
	respond(w, http.StatusOK, "Item added to cart", cart)
}

// UpdateItem handles PUT /api/cart/items/{id}.
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}
	detailID, err := pathID(r, "id")
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	var req model.UpdateCartItemRequest
	if err := decode(w, r, &req); err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	cart, err := h.service.UpdateItemQuantity(r.Context(), caller.UserID, detailID, req.Count)
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}
	respond(w, http.StatusOK, "Cart updated", cart)
}

// RemoveItem handles DELETE /api/cart/items/{id}.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}
	detailID, err := pathID(r, "id")
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	removed, err := h.service.RemoveItem(r.Context(), caller.UserID, detailID)
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}
	if !removed {
		writeError(w, http.StatusBadRequest, "unable to remove item", nil)
		return
	}
	respond[any](w, http.StatusOK, "Item removed from cart", nil)
}

// ApplyCoupon handles POST /api/cart/apply-coupon.
func (h *CartHandler) ApplyCoupon(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	var req model.ApplyCouponRequest
	if err := decode(w, r, &req); err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	cart, err := h.service.ApplyCoupon(r.Context(), caller.UserID, req.CouponCode)
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}
	respond(w, http.StatusOK, "Coupon applied", cart)
}

// RemoveCoupon handles POST /api/cart/remove-coupon.
func (h *CartHandler) RemoveCoupon(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	cart, err := h.service.RemoveCoupon(r.Context(), caller.UserID)
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}
	respond(w, http.StatusOK, "Coupon removed", cart)
}

// Clear handles DELETE /api/cart.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	cleared, err := h.service.ClearCart(r.Context(), caller.UserID)
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}
	if !cleared {
		handleError(w, r, model.ErrCartNotFound, h.logger)
		return
	}
	respond[any](w, http.StatusOK, "Cart cleared", nil)
}
