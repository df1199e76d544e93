package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shopfront/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// cartRepository implements the CartRepository interface using PostgreSQL.
type cartRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCartRepository creates a new PostgreSQL-backed cart repository.
func NewCartRepository(pool *pgxpool.Pool, logger zerolog.Logger) CartRepository {
	return &cartRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "cart").Logger(),
	}
}

func (r *cartRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.CartHeader, []model.CartDetails, error) {
	return r.load(ctx, r.pool, userID, false)
}

func (r *cartRepository) GetForUpdate(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (*model.CartHeader, []model.CartDetails, error) {
	return r.load(ctx, tx, userID, true)
}

func (r *cartRepository) load(ctx context.Context, q querier, userID uuid.UUID, lock bool) (*model.CartHeader, []model.CartDetails, error) {
	headerQuery := `
		SELECT id, user_id, coupon_code, created_at, updated_at
		FROM cart_headers
		WHERE user_id = $1
	`
	if lock {
		headerQuery += ` FOR UPDATE`
	}

	var (
		header     model.CartHeader
		couponCode *string
	)
	err := q.QueryRow(ctx, headerQuery, userID).Scan(
		&header.ID,
		&header.UserID,
		&couponCode,
		&header.CreatedAt,
		&header.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, nil
		}
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to query cart header")
		return nil, nil, fmt.Errorf("failed to query cart header: %w", err)
	}
	if couponCode != nil {
		header.CouponCode = *couponCode
	}

	rows, err := q.Query(ctx, `
		SELECT id, cart_header_id, product_id, count
		FROM cart_details
		WHERE cart_header_id = $1
		ORDER BY created_at, id
	`, header.ID)
	if err != nil {
		r.logger.Error().Err(err).Str("cart_id", header.ID.String()).Msg("failed to query cart details")
		return nil, nil, fmt.Errorf("failed to query cart details: %w", err)
	}

	details, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.CartDetails, error) {
		var d model.CartDetails
		err := row.Scan(&d.ID, &d.CartHeaderID, &d.ProductID, &d.Count)
		return d, err
	})
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to scan cart details")
		return nil, nil, fmt.Errorf("failed to scan cart details: %w", err)
	}

	return &header, details, nil
}

// AddItem upserts the header and the line in one transaction. The line
// increment happens inside the INSERT so concurrent adds cannot lose updates.
func (r *cartRepository) AddItem(ctx context.Context, userID, productID uuid.UUID, count int) error {
	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		var headerID uuid.UUID
		err := tx.QueryRow(ctx, `
			INSERT INTO cart_headers (id, user_id, created_at)
			VALUES ($1, $2, $3)
			ON CONFLICT (user_id) DO UPDATE SET updated_at = now()
			RETURNING id
		`, uuid.New(), userID, time.Now().UTC()).Scan(&headerID)
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO cart_details (id, cart_header_id, product_id, count, created_at)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (cart_header_id, product_id) DO UPDATE
			SET count = cart_details.count + EXCLUDED.count, updated_at = now()
		`, uuid.New(), headerID, productID, count, time.Now().UTC())
		return err
	})
	if err != nil {
		switch pgErrorCode(err) {
		case pgCheckViolation:
			return model.ErrInvalidQuantity
		case pgForeignKeyViolation:
			return model.ErrUnknownProduct
		}
		r.logger.Error().
			Err(err).
			Str("user_id", userID.String()).
			Str("product_id", productID.String()).
			Msg("failed to add cart item")
		return fmt.Errorf("failed to add cart item: %w", err)
	}
	return nil
}

func (r *cartRepository) SetItemCount(ctx context.Context, userID, detailID uuid.UUID, count int) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE cart_details d SET count = $3, updated_at = now()
		FROM cart_headers h
		WHERE d.id = $1 AND d.cart_header_id = h.id AND h.user_id = $2
	`, detailID, userID, count)
	if err != nil {
		if pgErrorCode(err) == pgCheckViolation {
			return false, model.ErrInvalidQuantity
		}
		r.logger.Error().Err(err).Str("detail_id", detailID.String()).Msg("failed to update cart item")
		return false, fmt.Errorf("failed to update cart item: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *cartRepository) RemoveItem(ctx context.Context, userID, detailID uuid.UUID) (bool, error) {
	removed := false
	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		var headerID uuid.UUID
		err := tx.QueryRow(ctx, `
			DELETE FROM cart_details d
			USING cart_headers h
			WHERE d.id = $1 AND d.cart_header_id = h.id AND h.user_id = $2
			RETURNING d.cart_header_id
		`, detailID, userID).Scan(&headerID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil
			}
			return err
		}
		removed = true

		_, err = tx.Exec(ctx, `
			DELETE FROM cart_headers h
			WHERE h.id = $1 AND NOT EXISTS (SELECT 1 FROM cart_details d WHERE d.cart_header_id = h.id)
		`, headerID)
		return err
	})
	if err != nil {
		r.logger.Error().Err(err).Str("detail_id", detailID.String()).Msg("failed to remove cart item")
		return false, fmt.Errorf("failed to remove cart item: %w", err)
	}
	return removed, nil
}

func (r *cartRepository) SetCoupon(ctx context.Context, userID uuid.UUID, code string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE cart_headers SET coupon_code = $2, updated_at = now()
		WHERE user_id = $1
	`, userID, nullableString(code))
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to set cart coupon")
		return false, fmt.Errorf("failed to set cart coupon: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *cartRepository) Clear(ctx context.Context, userID uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM cart_headers WHERE user_id = $1`, userID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to clear cart")
		return false, fmt.Errorf("failed to clear cart: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *cartRepository) DeleteTx(ctx context.Context, tx pgx.Tx, headerID uuid.UUID) error {
	if _, err := tx.Exec(ctx, `DELETE FROM cart_headers WHERE id = $1`, headerID); err != nil {
		r.logger.Error().Err(err).Str("cart_id", headerID.String()).Msg("failed to delete cart")
		return fmt.Errorf("failed to delete cart: %w", err)
	}
	return nil
}
