package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"shopfront/internal/model"
	"shopfront/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type couponService struct {
	repo   repository.CouponRepository
	logger zerolog.Logger
}

// NewCouponService creates a new coupon service.
func NewCouponService(repo repository.CouponRepository, logger zerolog.Logger) CouponService {
	return &couponService{
		repo:   repo,
		logger: logger.With().Str("service", "coupon").Logger(),
	}
}

// ValidateCoupon normalises a coupon request and checks it. Amounts are
// rounded to cents first. The discount may not exceed the minimum so an
// eligible cart never goes below zero.
func ValidateCoupon(req *model.CouponRequest) error {
	req.Code = strings.ToUpper(strings.TrimSpace(req.Code))
	req.DiscountAmount = req.DiscountAmount.Round(2)
	req.MinimumAmount = req.MinimumAmount.Round(2)

	var details []string
	if req.Code == "" {
		details = append(details, "couponCode is required")
	}
	if !req.DiscountAmount.IsPositive() {
		details = append(details, "discountAmount must be greater than zero")
	}
	if req.MinimumAmount.IsNegative() {
		details = append(details, "minimumAmount must not be negative")
	}
	if req.DiscountAmount.GreaterThan(req.MinimumAmount) {
		details = append(details, "discountAmount must not exceed minimumAmount")
	}
	if len(details) > 0 {
		return model.NewValidationError(details...)
	}
	return nil
}

func (s *couponService) GetAll(ctx context.Context) ([]model.Coupon, error) {
	coupons, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get coupons: %w", err)
	}
	return coupons, nil
}

func (s *couponService) GetByID(ctx context.Context, id uuid.UUID) (*model.Coupon, error) {
	coupon, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get coupon: %w", err)
	}
	if coupon == nil {
		return nil, model.ErrCouponNotFound
	}
	return coupon, nil
}

func (s *couponService) GetByCode(ctx context.Context, code string) (*model.Coupon, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, model.ErrCouponNotFound
	}

	coupon, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to get coupon: %w", err)
	}
	if coupon == nil {
		s.logger.Debug().Str("coupon_code", code).Msg("coupon not found")
		return nil, model.ErrCouponNotFound
	}
	return coupon, nil
}

func (s *couponService) Create(ctx context.Context, req *model.CouponRequest) (*model.Coupon, error) {
	if err := ValidateCoupon(req); err != nil {
		return nil, err
	}

	coupon := &model.Coupon{
		ID:             uuid.New(),
		Code:           req.Code,
		DiscountAmount: req.DiscountAmount,
		MinimumAmount:  req.MinimumAmount,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, coupon); err != nil {
		return nil, err
	}

	s.logger.Info().Str("coupon_code", coupon.Code).Msg("coupon created")
	return coupon, nil
}

func (s *couponService) Update(ctx context.Context, id uuid.UUID, req *model.CouponRequest) (*model.Coupon, error) {
	if err := ValidateCoupon(req); err != nil {
		return nil, err
	}

	coupon, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	coupon.Code = req.Code
	coupon.DiscountAmount = req.DiscountAmount
	coupon.MinimumAmount = req.MinimumAmount

	ok, err := s.repo.Update(ctx, coupon)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, model.ErrCouponNotFound
	}
	return coupon, nil
}

func (s *couponService) Delete(ctx context.Context, id uuid.UUID) error {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete coupon: %w", err)
	}
	if !ok {
		return model.ErrCouponNotFound
	}
	s.logger.Info().Str("coupon_id", id.String()).Msg("coupon deleted")
	return nil
}
