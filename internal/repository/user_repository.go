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

const selectUserSQL = `
	SELECT u.id, u.email, u.user_name, u.password_hash, u.phone_number, u.postal_code,
		u.address, u.email_confirmed, u.security_stamp, u.created_at, u.updated_at,
		COALESCE(array_agg(r.role ORDER BY r.role) FILTER (WHERE r.role IS NOT NULL), '{}')
	FROM users u
	LEFT JOIN user_roles r ON r.user_id = u.id
`

// userRepository implements the UserRepository interface using PostgreSQL.
type userRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewUserRepository creates a new PostgreSQL-backed user repository.
func NewUserRepository(pool *pgxpool.Pool, logger zerolog.Logger) UserRepository {
	return &userRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "user").Logger(),
	}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO users (id, email, user_name, password_hash, phone_number, postal_code,
				address, email_confirmed, security_stamp, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`, user.ID, user.Email, user.UserName, user.PasswordHash, user.PhoneNumber, user.PostalCode,
			user.Address, user.EmailConfirmed, user.SecurityStamp, user.CreatedAt)
		if err != nil {
			return err
		}

		for _, role := range user.Roles {
			if _, err := tx.Exec(ctx,
				`INSERT INTO user_roles (user_id, role) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
				user.ID, role,
			); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if pgErrorCode(err) == pgUniqueViolation {
			return model.ErrEmailTaken
		}
		r.logger.Error().Err(err).Str("email", user.Email).Msg("failed to create user")
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return r.getOne(ctx, selectUserSQL+` WHERE u.id = $1 GROUP BY u.id`, id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getOne(ctx, selectUserSQL+` WHERE UPPER(u.email) = UPPER($1) GROUP BY u.id`, email)
}

func (r *userRepository) getOne(ctx context.Context, query string, arg any) (*model.User, error) {
	var user model.User
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Email,
		&user.UserName,
		&user.PasswordHash,
		&user.PhoneNumber,
		&user.PostalCode,
		&user.Address,
		&user.EmailConfirmed,
		&user.SecurityStamp,
		&user.CreatedAt,
		&user.UpdatedAt,
		&user.Roles,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Msg("failed to query user")
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return &user, nil
}

func (r *userRepository) ConfirmEmail(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE users SET email_confirmed = TRUE, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", id.String()).Msg("failed to confirm email")
		return fmt.Errorf("failed to confirm email: %w", err)
	}
	return nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string, stamp uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE users SET password_hash = $2, security_stamp = $3, updated_at = now() WHERE id = $1`,
		id, passwordHash, stamp)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", id.String()).Msg("failed to update password")
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

func (r *userRepository) AddRole(ctx context.Context, id uuid.UUID, role string) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO user_roles (user_id, role) VALUES ($1, $2) ON CONFLICT DO NOTHING`, id, role)
	if err != nil {
		if pgErrorCode(err) == pgForeignKeyViolation {
			return model.ErrUserNotFound
		}
		r.logger.Error().Err(err).Str("user_id", id.String()).Str("role", role).Msg("failed to add role")
		return fmt.Errorf("failed to add role: %w", err)
	}
	return nil
}
