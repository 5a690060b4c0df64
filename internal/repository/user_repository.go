package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/tradeacademy/tradeacademy-api/internal/models"
	apperrors "github.com/tradeacademy/tradeacademy-api/pkg/errors"
	"github.com/tradeacademy/tradeacademy-api/pkg/logger"
	"github.com/tradeacademy/tradeacademy-api/pkg/metrics"
)

// UserRepository persists user accounts in PostgreSQL
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a user repository backed by the given pool
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// GetAll fetches all user accounts for the admin listing
func (r *UserRepository) GetAll(ctx context.Context) ([]*models.User, error) {
	start := time.Now()
	operation := "getAllUsers"

	query := `
		SELECT id, email, COALESCE(name, ''), is_admin, created_at, updated_at
		FROM users
		ORDER BY created_at ASC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		duration := metrics.MeasureDuration(start)
		recordMetrics(operation, "error", duration)
		logger.LogAPICall(ctx, "postgres", operation, "error", duration, zap.Error(err))
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := make([]*models.User, 0)
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.IsAdmin, &u.CreatedAt, &u.UpdatedAt); err != nil {
			duration := metrics.MeasureDuration(start)
			recordMetrics(operation, "error", duration)
			logger.LogAPICall(ctx, "postgres", operation, "error", duration, zap.Error(err))
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, &u)
	}

	if err := rows.Err(); err != nil {
		duration := metrics.MeasureDuration(start)
		recordMetrics(operation, "error", duration)
		logger.LogAPICall(ctx, "postgres", operation, "error", duration, zap.Error(err))
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}

	duration := metrics.MeasureDuration(start)
	recordMetrics(operation, "success", duration)
	logger.LogAPICall(ctx, "postgres", operation, "success", duration, zap.Int("count", len(users)))

	return users, nil
}

// GetByEmail fetches a user with its password hash for login verification
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.UserCredentials, error) {
	start := time.Now()
	operation := "getUserByEmail"

	query := `
		SELECT id, email, COALESCE(name, ''), is_admin, password_hash, created_at, updated_at
		FROM users
		WHERE lower(email) = lower($1)
	`

	var creds models.UserCredentials
	err := r.pool.QueryRow(ctx, query, email).Scan(
		&creds.ID, &creds.Email, &creds.Name, &creds.IsAdmin,
		&creds.PasswordHash, &creds.CreatedAt, &creds.UpdatedAt,
	)
	duration := metrics.MeasureDuration(start)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			recordMetrics(operation, "not_found", duration)
			return nil, apperrors.NotFoundError("user")
		}
		recordMetrics(operation, "error", duration)
		logger.LogAPICall(ctx, "postgres", operation, "error", duration, zap.Error(err))
		return nil, fmt.Errorf("failed to fetch user by email: %w", err)
	}

	recordMetrics(operation, "success", duration)
	return &creds, nil
}

// SetAdmin flips the admin flag on a user and returns the updated row
func (r *UserRepository) SetAdmin(ctx context.Context, id int64, isAdmin bool) (*models.User, error) {
	start := time.Now()
	operation := "setUserAdmin"

	query := `
		UPDATE users SET is_admin = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING id, email, COALESCE(name, ''), is_admin, created_at, updated_at
	`

	var u models.User
	err := r.pool.QueryRow(ctx, query, id, isAdmin).Scan(
		&u.ID, &u.Email, &u.Name, &u.IsAdmin, &u.CreatedAt, &u.UpdatedAt,
	)
	duration := metrics.MeasureDuration(start)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			recordMetrics(operation, "not_found", duration)
			return nil, apperrors.NotFoundError("user")
		}
		recordMetrics(operation, "error", duration)
		logger.LogAPICall(ctx, "postgres", operation, "error", duration, zap.Error(err))
		return nil, fmt.Errorf("failed to update admin flag for user %d: %w", id, err)
	}

	recordMetrics(operation, "success", duration)
	logger.LogAPICall(ctx, "postgres", operation, "success", duration,
		zap.Int64("user_id", id), zap.Bool("is_admin", isAdmin))

	return &u, nil
}
