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

const selectOrderSQL = `
	SELECT id, user_id, name, phone, email, coupon_code, discount, order_total,
		order_time, status, created_at, updated_at
	FROM order_headers
`

// orderRepository implements the OrderRepository interface using PostgreSQL.
type orderRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool *pgxpool.Pool, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *orderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// CreateOrder inserts a new order header within the provided transaction.
func (r *orderRepository) CreateOrder(ctx context.Context, tx pgx.Tx, order *model.OrderHeader) error {
	query := `
		INSERT INTO order_headers (id, user_id, name, phone, email, coupon_code, discount,
			order_total, order_time, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := tx.Exec(ctx, query,
		order.ID,
		order.UserID,
		order.Name,
		order.Phone,
		order.Email,
		order.CouponCode,
		order.Discount,
		order.OrderTotal,
		order.OrderTime,
		string(order.Status),
		order.CreatedAt,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Msg("failed to create order")
		return fmt.Errorf("failed to create order: %w", err)
	}

	r.logger.Debug().
		Str("order_id", order.ID.String()).
		Msg("order created successfully")

	return nil
}

// CreateOrderDetails inserts order lines within the provided transaction.
func (r *orderRepository) CreateOrderDetails(ctx context.Context, tx pgx.Tx, details []model.OrderDetails) error {
	if len(details) == 0 {
		return nil
	}

	query := `
		INSERT INTO order_details (id, order_header_id, product_id, product_name,
			product_image_url, price, count)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	batch := &pgx.Batch{}
	for _, d := range details {
		batch.Queue(query, d.ID, d.OrderHeaderID, d.ProductID, d.ProductName, d.ProductImageURL, d.Price, d.Count)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(details); i++ {
		if _, err := results.Exec(); err != nil {
			r.logger.Error().
				Err(err).
				Str("order_id", details[i].OrderHeaderID.String()).
				Str("product_id", details[i].ProductID.String()).
				Msg("failed to create order detail")
			return fmt.Errorf("failed to create order detail: %w", err)
		}
	}

	r.logger.Debug().
		Int("count", len(details)).
		Msg("order details created successfully")

	return nil
}

func scanOrder(row pgx.Row) (model.OrderHeader, error) {
	var (
		o      model.OrderHeader
		status string
	)
	err := row.Scan(
		&o.ID,
		&o.UserID,
		&o.Name,
		&o.Phone,
		&o.Email,
		&o.CouponCode,
		&o.Discount,
		&o.OrderTotal,
		&o.OrderTime,
		&status,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	o.Status = model.OrderStatus(status)
	return o, err
}

// GetByID retrieves an order by its ID along with its lines.
func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.OrderHeader, error) {
	order, err := scanOrder(r.pool.QueryRow(ctx, selectOrderSQL+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("order_id", id.String()).Msg("order not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to query order")
		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, order_header_id, product_id, product_name, product_image_url, price, count
		FROM order_details
		WHERE order_header_id = $1
		ORDER BY created_at, id
	`, id)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", id.String()).
			Msg("failed to query order details")
		return nil, fmt.Errorf("failed to query order details: %w", err)
	}

	order.Details, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.OrderDetails, error) {
		var d model.OrderDetails
		err := row.Scan(&d.ID, &d.OrderHeaderID, &d.ProductID, &d.ProductName, &d.ProductImageURL, &d.Price, &d.Count)
		return d, err
	})
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to scan order details")
		return nil, fmt.Errorf("failed to scan order details: %w", err)
	}

	return &order, nil
}

// List returns order headers newest first.
func (r *orderRepository) List(ctx context.Context, userID *uuid.UUID, statuses []model.OrderStatus) ([]model.OrderHeader, error) {
	filter := make([]string, 0, len(statuses))
	for _, s := range statuses {
		filter = append(filter, string(s))
	}

	rows, err := r.pool.Query(ctx, selectOrderSQL+`
		WHERE ($1::uuid IS NULL OR user_id = $1)
		  AND (cardinality($2::text[]) = 0 OR status = ANY($2))
		ORDER BY order_time DESC, id DESC
	`, userID, filter)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query orders")
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}

	orders, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.OrderHeader, error) {
		return scanOrder(row)
	})
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to scan orders")
		return nil, fmt.Errorf("failed to scan orders: %w", err)
	}
	return orders, nil
}

// UpdateStatus performs a compare-and-set on the order status.
func (r *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.OrderStatus) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE order_headers SET status = $3, updated_at = now()
		WHERE id = $1 AND status = $2
	`, id, string(from), string(to))
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", id.String()).
			Str("to", string(to)).
			Msg("failed to update order status")
		return false, fmt.Errorf("failed to update order status: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
