package service

import (
	"context"
	"fmt"
	"strings"

	"shopfront/internal/model"
	"shopfront/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// cartService implements CartService.
type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	couponRepo  repository.CouponRepository
	logger      zerolog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	couponRepo repository.CouponRepository,
	logger zerolog.Logger,
) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		couponRepo:  couponRepo,
		logger:      logger.With().Str("service", "cart").Logger(),
	}
}

// GetCart returns the cart priced at current product prices.
func (s *cartService) GetCart(ctx context.Context, userID uuid.UUID) (*model.Cart, error) {
	header, details, err := s.cartRepo.GetByUserID(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to get cart")
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	if header == nil {
		return nil, model.ErrCartNotFound
	}
	return s.price(ctx, *header, details)
}

func (s *cartService) price(ctx context.Context, header model.CartHeader, details []model.CartDetails) (*model.Cart, error) {
	products, err := s.productRepo.GetByIDs(ctx, productIDs(details))
	if err != nil {
		s.logger.Error().Err(err).Str("cart_id", header.ID.String()).Msg("failed to load cart products")
		return nil, fmt.Errorf("failed to load cart products: %w", err)
	}

	var coupon *model.Coupon
	if header.CouponCode != "" {
		// A coupon deleted since it was applied simply stops discounting.
		coupon, err = s.couponRepo.GetByCode(ctx, header.CouponCode)
		if err != nil {
			s.logger.Error().Err(err).Str("coupon_code", header.CouponCode).Msg("failed to load cart coupon")
			return nil, fmt.Errorf("failed to load coupon: %w", err)
		}
	}

	return priceCart(header, details, products, coupon), nil
}

// AddItem adds count units of a product to the user's cart.
func (s *cartService) AddItem(ctx context.Context, userID uuid.UUID, req *model.UpsertCartRequest) (*model.Cart, error) {
	if req.Count < model.MinCartQuantity || req.Count > model.MaxCartQuantity {
		return nil, model.ErrInvalidQuantity
	}

	if err := s.cartRepo.AddItem(ctx, userID, req.ProductID, req.Count); err != nil {
		s.logger.Warn().
			Err(err).
			Str("user_id", userID.String()).
			Str("product_id", req.ProductID.String()).
			Msg("failed to add item to cart")
		return nil, err
	}

	s.logger.Debug().
		Str("user_id", userID.String()).
		Str("product_id", req.ProductID.String()).
		Int("count", req.Count).
		Msg("item added to cart")

	return s.GetCart(ctx, userID)
}

// UpdateItemQuantity sets the quantity of one line.
func (s *cartService) UpdateItemQuantity(ctx context.Context, userID, detailID uuid.UUID, count int) (*model.Cart, error) {
	if count < model.MinCartQuantity || count > model.MaxCartQuantity {
		return nil, model.ErrInvalidQuantity
	}

	ok, err := s.cartRepo.SetItemCount(ctx, userID, detailID, count)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, model.ErrCartItemNotFound
	}
	return s.GetCart(ctx, userID)
}

// RemoveItem deletes one line from the user's cart.
func (s *cartService) RemoveItem(ctx context.Context, userID, detailID uuid.UUID) (bool, error) {
	removed, err := s.cartRepo.RemoveItem(ctx, userID, detailID)
	if err != nil {
		s.logger.Error().Err(err).Str("detail_id", detailID.String()).Msg("failed to remove cart item")
		return false, fmt.Errorf("failed to remove cart item: %w", err)
	}
	return removed, nil
}

// ApplyCoupon attaches a coupon to the cart. The stored code is the
// coupon's canonical upper-case code.
func (s *cartService) ApplyCoupon(ctx context.Context, userID uuid.UUID, code string) (*model.Cart, error) {
	code = strings.TrimSpace(code)
	if code != "" {
		coupon, err := s.couponRepo.GetByCode(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("failed to look up coupon: %w", err)
		}
		if coupon == nil {
			s.logger.Debug().Str("coupon_code", code).Msg("unknown coupon code")
			return nil, model.ErrInvalidCoupon
		}
		code = coupon.Code
	}

	ok, err := s.cartRepo.SetCoupon(ctx, userID, code)
	if err != nil {
		return nil, fmt.Errorf("failed to apply coupon: %w", err)
	}
	if !ok {
		return nil, model.ErrCartNotFound
	}
	return s.GetCart(ctx, userID)
}

// RemoveCoupon clears the cart's coupon.
func (s *cartService) RemoveCoupon(ctx context.Context, userID uuid.UUID) (*model.Cart, error) {
	return s.ApplyCoupon(ctx, userID, "")
}

// ClearCart deletes the cart and all its lines.
func (s *cartService) ClearCart(ctx context.Context, userID uuid.UUID) (bool, error) {
	cleared, err := s.cartRepo.Clear(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("failed to clear cart: %w", err)
	}
	if cleared {
		s.logger.Info().Str("user_id", userID.String()).Msg("cart cleared")
	}
	return cleared, nil
}
