package handler

import (
	"context"
	"net/http"

	"shopfront/internal/model"
	"shopfront/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// OrderHandler handles order-related HTTP requests.
type OrderHandler struct {
	service service.OrderService
	logger  zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(service service.OrderService, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger.With().Str("handler", "order").Logger(),
	}
}

// Create handles POST /api/orders/Create. The caller's cart becomes the order.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	var req model.CreateOrderRequest
	if err := decode(w, r, &req); err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	order, err := h.service.Create(r.Context(), caller, &req)
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	h.logger.Info().
		Str("order_id", order.ID.String()).
		Str("user_id", caller.UserID.String()).
		Msg("order placed")

	respond(w, http.StatusCreated, "Order created successfully", order)
}

// Index handles GET /api/orders/OrderIndex, the caller's own orders.
func (h *OrderHandler) Index(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.service.ListMine)
}

// GetAll handles GET /api/orders/GetAll. Admins see every order.
func (h *OrderHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.service.ListAll)
}

func (h *OrderHandler) list(w http.ResponseWriter, r *http.Request, fetch func(context.Context, model.Caller, string) ([]model.OrderHeader, error)) {
	caller, err := callerFrom(r)
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	orders, err := fetch(r.Context(), caller, r.URL.Query().Get("status"))
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}
	respond(w, http.StatusOK, "", orders)
}

// Detail handles GET /api/orders/OrderDetail/{id}.
func (h *OrderHandler) Detail(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	order, err := h.service.Detail(r.Context(), caller, id)
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}
	respond(w, http.StatusOK, "", order)
}

func (h *OrderHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Approve, "Order approved")
}

func (h *OrderHandler) ReadyForPickup(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.ReadyForPickup, "Order is ready for pickup")
}

func (h *OrderHandler) Complete(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Complete, "Order completed")
}

func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Cancel, "Order cancelled")
}

type transitionFunc func(context.Context, model.Caller, uuid.UUID) (*model.OrderHeader, error)

func (h *OrderHandler) transition(w http.ResponseWriter, r *http.Request, apply transitionFunc, message string) {
	caller, err := callerFrom(r)
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	var req model.OrderActionRequest
	if err := decode(w, r, &req); err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	order, err := apply(r.Context(), caller, req.OrderID)
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	h.logger.Info().
		Str("order_id", order.ID.String()).
		Str("status", string(order.Status)).
		Str("by", caller.UserID.String()).
		Msg("order status changed")

	respond(w, http.StatusOK, message, order)
}
