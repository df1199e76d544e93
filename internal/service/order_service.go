package service

import (
	"context"
	"fmt"
	"time"

	"shopfront/internal/model"
	"shopfront/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// orderService implements OrderService.
type orderService struct {
	orderRepo   repository.OrderRepository
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	couponRepo  repository.CouponRepository
	logger      zerolog.Logger
	now         func() time.Time
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	couponRepo repository.CouponRepository,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		couponRepo:  couponRepo,
		logger:      logger.With().Str("service", "order").Logger(),
		now:         time.Now,
	}
}

// Create converts the caller's cart into a Pending order. The cart is read
// with a row lock and deleted in the same transaction, so one cart can only
// be checked out once.
func (s *orderService) Create(ctx context.Context, caller model.Caller, req *model.CreateOrderRequest) (_ *model.OrderHeader, err error) {
	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	// Ensure transaction is rolled back on error
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	header, details, err := s.cartRepo.GetForUpdate(ctx, tx, caller.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if header == nil || len(details) == 0 {
		return nil, model.ErrEmptyCart
	}

	products, err := s.productRepo.GetByIDs(ctx, productIDs(details))
	if err != nil {
		return nil, fmt.Errorf("failed to load cart products: %w", err)
	}

	var coupon *model.Coupon
	if header.CouponCode != "" {
		if coupon, err = s.couponRepo.GetByCode(ctx, header.CouponCode); err != nil {
			return nil, fmt.Errorf("failed to load coupon: %w", err)
		}
	}

	cart := priceCart(*header, details, products, coupon)
	if len(cart.Details) == 0 {
		return nil, model.ErrEmptyCart
	}

	now := s.now().UTC()
	order := &model.OrderHeader{
		ID:         uuid.New(),
		UserID:     caller.UserID,
		Name:       req.Name,
		Phone:      req.Phone,
		Email:      req.Email,
		Discount:   cart.Header.Discount,
		OrderTotal: cart.Header.CartTotal,
		OrderTime:  now,
		Status:     model.StatusPending,
		CreatedAt:  now,
	}
	if !cart.Header.Discount.IsZero() {
		order.CouponCode = cart.Header.CouponCode
	}

	order.Details = make([]model.OrderDetails, len(cart.Details))
	for i, line := range cart.Details {
		order.Details[i] = model.OrderDetails{
			ID:              uuid.New(),
			OrderHeaderID:   order.ID,
			ProductID:       line.ProductID,
			ProductName:     line.Product.Name,
			ProductImageURL: line.Product.ImageURL,
			Price:           line.Product.Price,
			Count:           line.Count,
		}
	}

	if err = s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to create order")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	if err = s.orderRepo.CreateOrderDetails(ctx, tx, order.Details); err != nil {
		s.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Int("item_count", len(order.Details)).
			Msg("failed to create order details")
		return nil, fmt.Errorf("failed to create order details: %w", err)
	}

	if err = s.cartRepo.DeleteTx(ctx, tx, header.ID); err != nil {
		return nil, fmt.Errorf("failed to delete cart: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("user_id", caller.UserID.String()).
		Int("item_count", len(order.Details)).
		Str("total", order.OrderTotal.StringFixed(2)).
		Msg("order created successfully")

	return order, nil
}

// ListMine returns the caller's orders.
func (s *orderService) ListMine(ctx context.Context, caller model.Caller, status string) ([]model.OrderHeader, error) {
	return s.list(ctx, &caller.UserID, status)
}

// ListAll returns every order for admins.
func (s *orderService) ListAll(ctx context.Context, caller model.Caller, status string) ([]model.OrderHeader, error) {
	if caller.IsAdmin() {
		return s.list(ctx, nil, status)
	}
	return s.list(ctx, &caller.UserID, status)
}

func (s *orderService) list(ctx context.Context, userID *uuid.UUID, status string) ([]model.OrderHeader, error) {
	orders, err := s.orderRepo.List(ctx, userID, model.StatusFilter(status))
	if err != nil {
		s.logger.Error().Err(err).Str("status", status).Msg("failed to list orders")
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// Detail returns the order with its lines when the caller may see it.
func (s *orderService) Detail(ctx context.Context, caller model.Caller, id uuid.UUID) (*model.OrderHeader, error) {
	order, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.CanAccess(order.UserID) {
		s.logger.Warn().
			Str("order_id", id.String()).
			Str("user_id", caller.UserID.String()).
			Msg("order access denied")
		return nil, model.ErrAccessDenied
	}
	return order, nil
}

func (s *orderService) Approve(ctx context.Context, caller model.Caller, id uuid.UUID) (*model.OrderHeader, error) {
	return s.transition(ctx, caller, id, model.StatusApproved, adminOnly)
}

func (s *orderService) ReadyForPickup(ctx context.Context, caller model.Caller, id uuid.UUID) (*model.OrderHeader, error) {
	return s.transition(ctx, caller, id, model.StatusReadyForPickup, adminOnly)
}

func (s *orderService) Complete(ctx context.Context, caller model.Caller, id uuid.UUID) (*model.OrderHeader, error) {
	return s.transition(ctx, caller, id, model.StatusCompleted, adminOnly)
}

func (s *orderService) Cancel(ctx context.Context, caller model.Caller, id uuid.UUID) (*model.OrderHeader, error) {
	return s.transition(ctx, caller, id, model.StatusCancelled, ownerOrAdmin)
}

func adminOnly(caller model.Caller, _ *model.OrderHeader) bool {
	return caller.IsAdmin()
}

func ownerOrAdmin(caller model.Caller, order *model.OrderHeader) bool {
	return caller.CanAccess(order.UserID)
}

// transition moves an order to status to. The update only applies if the
// order is still in the status it was read in.
func (s *orderService) transition(
	ctx context.Context,
	caller model.Caller,
	id uuid.UUID,
	to model.OrderStatus,
	allowed func(model.Caller, *model.OrderHeader) bool,
) (*model.OrderHeader, error) {
	order, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !allowed(caller, order) {
		return nil, model.ErrAccessDenied
	}

	from := order.Status
	if !from.CanTransitionTo(to) {
		s.logger.Warn().
			Str("order_id", id.String()).
			Str("from", string(from)).
			Str("to", string(to)).
			Msg("illegal order transition")
		return nil, model.NewInvalidOperation(fmt.Sprintf("cannot change order status from %s to %s", from, to))
	}

	ok, err := s.orderRepo.UpdateStatus(ctx, id, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	if !ok {
		return nil, model.ErrStaleOrderStatus
	}

	s.logger.Info().
		Str("order_id", id.String()).
		Str("from", string(from)).
		Str("to", string(to)).
		Str("by", caller.UserID.String()).
		Msg("order status changed")

	order.Status = to
	return order, nil
}

func (s *orderService) get(ctx context.Context, id uuid.UUID) (*model.OrderHeader, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}
	return order, nil
}
