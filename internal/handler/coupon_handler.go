package handler

import (
	"net/http"

	"shopfront/internal/model"
	"shopfront/internal/service"

	"github.com/rs/zerolog"
)

// CouponHandler handles coupon HTTP requests.
type CouponHandler struct {
	service service.CouponService
	logger  zerolog.Logger
}

// NewCouponHandler creates a new coupon handler.
func NewCouponHandler(service service.CouponService, logger zerolog.Logger) *CouponHandler {
	return &CouponHandler{
		service: service,
		logger:  logger.With().Str("handler", "coupon").Logger(),
	}
}

func (h *CouponHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	coupons, err := h.service.GetAll(r.Context())
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}
	respond(w, http.StatusOK, "", coupons)
}

func (h *CouponHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	coupon, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}
	respond(w, http.StatusOK, "", coupon)
}

// Validate handles GET /api/coupons/validate/{code}.
func (h *CouponHandler) Validate(w http.ResponseWriter, r *http.Request) {
	coupon, err := h.service.GetByCode(r.Context(), r.PathValue("code"))
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}
	respond(w, http.StatusOK, "Coupon is valid", coupon)
}

func (h *CouponHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CouponRequest
	if err := decode(w, r, &req); err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	coupon, err := h.service.Create(r.Context(), &req)
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}
	respond(w, http.StatusCreated, "Coupon created successfully", coupon)
}

func (h *CouponHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	var req model.CouponRequest
	if err := decode(w, r, &req); err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	coupon, err := h.service.Update(r.Context(), id, &req)
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}
	respond(w, http.StatusOK, "Coupon updated successfully", coupon)
}

func (h *CouponHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		handleError(w, r, err, h.logger)
		return
	}
	respond[any](w, http.StatusOK, "Coupon deleted successfully", nil)
}
