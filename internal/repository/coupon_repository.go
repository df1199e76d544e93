package repository

import (
	"context"
	"errors"
	"fmt"

	"shopfront/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const selectCouponSQL = `
	SELECT id, code, discount_amount, minimum_amount, created_at, updated_at
	FROM coupons
`

// couponRepository implements the CouponRepository interface using PostgreSQL.
type couponRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCouponRepository creates a new PostgreSQL-backed coupon repository.
func NewCouponRepository(pool *pgxpool.Pool, logger zerolog.Logger) CouponRepository {
	return &couponRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "coupon").Logger(),
	}
}

func scanCoupon(row pgx.Row) (model.Coupon, error) {
	var c model.Coupon
	err := row.Scan(&c.ID, &c.Code, &c.DiscountAmount, &c.MinimumAmount, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (r *couponRepository) GetAll(ctx context.Context) ([]model.Coupon, error) {
	rows, err := r.pool.Query(ctx, selectCouponSQL+` ORDER BY code`)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query coupons")
		return nil, fmt.Errorf("failed to query coupons: %w", err)
	}

	coupons, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Coupon, error) {
		return scanCoupon(row)
	})
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to scan coupons")
		return nil, fmt.Errorf("failed to scan coupons: %w", err)
	}
	return coupons, nil
}

func (r *couponRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Coupon, error) {
	return r.getOne(ctx, selectCouponSQL+` WHERE id = $1`, id)
}

func (r *couponRepository) GetByCode(ctx context.Context, code string) (*model.Coupon, error) {
	return r.getOne(ctx, selectCouponSQL+` WHERE UPPER(code) = UPPER($1)`, code)
}

func (r *couponRepository) getOne(ctx context.Context, query string, arg any) (*model.Coupon, error) {
	c, err := scanCoupon(r.pool.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Msg("failed to query coupon")
		return nil, fmt.Errorf("failed to query coupon: %w", err)
	}
	return &c, nil
}

func (r *couponRepository) Create(ctx context.Context, coupon *model.Coupon) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO coupons (id, code, discount_amount, minimum_amount, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, coupon.ID, coupon.Code, coupon.DiscountAmount, coupon.MinimumAmount, coupon.CreatedAt)
	if err != nil {
		switch pgErrorCode(err) {
		case pgUniqueViolation:
			return model.ErrDuplicateCoupon
		case pgCheckViolation:
			return model.ErrInvalidAmounts
		}
		r.logger.Error().Err(err).Str("code", coupon.Code).Msg("failed to create coupon")
		return fmt.Errorf("failed to create coupon: %w", err)
	}
	return nil
}

func (r *couponRepository) Update(ctx context.Context, coupon *model.Coupon) (bool, error) {
	err := r.pool.QueryRow(ctx, `
		UPDATE coupons SET code = $2, discount_amount = $3, minimum_amount = $4, updated_at = now()
		WHERE id = $1
		RETURNING created_at, updated_at
	`, coupon.ID, coupon.Code, coupon.DiscountAmount, coupon.MinimumAmount).
		Scan(&coupon.CreatedAt, &coupon.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		switch pgErrorCode(err) {
		case pgUniqueViolation:
			return false, model.ErrDuplicateCoupon
		case pgCheckViolation:
			return false, model.ErrInvalidAmounts
		}
		r.logger.Error().Err(err).Str("coupon_id", coupon.ID.String()).Msg("failed to update coupon")
		return false, fmt.Errorf("failed to update coupon: %w", err)
	}
	return true, nil
}

func (r *couponRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM coupons WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Str("coupon_id", id.String()).Msg("failed to delete coupon")
		return false, fmt.Errorf("failed to delete coupon: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *couponRepository) Upsert(ctx context.Context, coupon *model.Coupon) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO coupons (id, code, discount_amount, minimum_amount, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (UPPER(code)) DO UPDATE
		SET discount_amount = EXCLUDED.discount_amount,
			minimum_amount = EXCLUDED.minimum_amount,
			updated_at = now()
		RETURNING id
	`, coupon.ID, coupon.Code, coupon.DiscountAmount, coupon.MinimumAmount, coupon.CreatedAt).Scan(&coupon.ID)
	if err != nil {
		if pgErrorCode(err) == pgCheckViolation {
			return model.ErrInvalidAmounts
		}
		r.logger.Error().Err(err).Str("code", coupon.Code).Msg("failed to upsert coupon")
		return fmt.Errorf("failed to upsert coupon: %w", err)
	}
	return nil
}
