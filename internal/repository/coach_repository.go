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

const coachColumns = `
	id, name, email, COALESCE(bio, ''), COALESCE(expertise, ''),
	COALESCE(specializations, '{}'), COALESCE(image_url, ''),
	bookings_count, created_at, updated_at
`

// CoachRepository persists coaches and their availability in PostgreSQL
type CoachRepository struct {
	pool *pgxpool.Pool
}

// NewCoachRepository creates a coach repository backed by the given pool
func NewCoachRepository(pool *pgxpool.Pool) *CoachRepository {
	return &CoachRepository{pool: pool}
}

func scanCoach(row pgx.Row) (*models.Coach, error) {
	var c models.Coach
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Bio, &c.Expertise,
		&c.Specializations, &c.ImageURL, &c.BookingsCount, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	c.Slots = make([]*models.AvailabilitySlot, 0)
	return &c, nil
}

// GetAll fetches all coaches with their availability slots
func (r *CoachRepository) GetAll(ctx context.Context) ([]*models.Coach, error) {
	start := time.Now()
	operation := "getAllCoaches"

	query := fmt.Sprintf(`SELECT %s FROM coaches ORDER BY name ASC`, coachColumns)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		duration := metrics.MeasureDuration(start)
		recordMetrics(operation, "error", duration)
		logger.LogAPICall(ctx, "postgres", operation, "error", duration, zap.Error(err))
		return nil, fmt.Errorf("failed to query coaches: %w", err)
	}
	defer rows.Close()

	coaches := make([]*models.Coach, 0)
	byID := make(map[int64]*models.Coach)
	for rows.Next() {
		coach, err := scanCoach(rows)
		if err != nil {
			duration := metrics.MeasureDuration(start)
			recordMetrics(operation, "error", duration)
			logger.LogAPICall(ctx, "postgres", operation, "error", duration, zap.Error(err))
			return nil, fmt.Errorf("failed to scan coach row: %w", err)
		}
		coaches = append(coaches, coach)
		byID[coach.ID] = coach
	}
	if err := rows.Err(); err != nil {
		duration := metrics.MeasureDuration(start)
		recordMetrics(operation, "error", duration)
		logger.LogAPICall(ctx, "postgres", operation, "error", duration, zap.Error(err))
		return nil, fmt.Errorf("error iterating coach rows: %w", err)
	}

	if err := r.attachSlots(ctx, byID); err != nil {
		duration := metrics.MeasureDuration(start)
		recordMetrics(operation, "error", duration)
		logger.LogAPICall(ctx, "postgres", operation, "error", duration, zap.Error(err))
		return nil, err
	}

	duration := metrics.MeasureDuration(start)
	recordMetrics(operation, "success", duration)
	logger.LogAPICall(ctx, "postgres", operation, "success", duration, zap.Int("count", len(coaches)))

	return coaches, nil
}

// attachSlots loads availability slots for the given coaches in one query
func (r *CoachRepository) attachSlots(ctx context.Context, byID map[int64]*models.Coach) error {
	if len(byID) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}

	query := `
		SELECT id, coach_id, day, start_time, end_time, is_booked, created_at
		FROM availability_slots
		WHERE coach_id = ANY($1)
		ORDER BY coach_id, day, start_time
	`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("failed to query availability slots: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s models.AvailabilitySlot
		if err := rows.Scan(&s.ID, &s.CoachID, &s.Day, &s.StartTime, &s.EndTime, &s.IsBooked, &s.CreatedAt); err != nil {
			return fmt.Errorf("failed to scan slot row: %w", err)
		}
		if coach, ok := byID[s.CoachID]; ok {
			coach.Slots = append(coach.Slots, &s)
		}
	}
	return rows.Err()
}

// GetByID fetches one coach with availability
func (r *CoachRepository) GetByID(ctx context.Context, id int64) (*models.Coach, error) {
	start := time.Now()
	operation := "getCoachByID"

	query := fmt.Sprintf(`SELECT %s FROM coaches WHERE id = $1`, coachColumns)

	coach, err := scanCoach(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		duration := metrics.MeasureDuration(start)
		if errors.Is(err, pgx.ErrNoRows) {
			recordMetrics(operation, "not_found", duration)
			return nil, apperrors.NotFoundError("coach")
		}
		recordMetrics(operation, "error", duration)
		logger.LogAPICall(ctx, "postgres", operation, "error", duration, zap.Error(err))
		return nil, fmt.Errorf("failed to fetch coach %d: %w", id, err)
	}

	if err := r.attachSlots(ctx, map[int64]*models.Coach{coach.ID: coach}); err != nil {
		duration := metrics.MeasureDuration(start)
		recordMetrics(operation, "error", duration)
		logger.LogAPICall(ctx, "postgres", operation, "error", duration, zap.Error(err))
		return nil, err
	}

	duration := metrics.MeasureDuration(start)
	recordMetrics(operation, "success", duration)
	return coach, nil
}

// Create inserts a coach
func (r *CoachRepository) Create(ctx context.Context, input *models.CoachInput) (*models.Coach, error) {
	start := time.Now()
	operation := "createCoach"

	query := fmt.Sprintf(`
		INSERT INTO coaches (name, email, bio, expertise, specializations)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5)
		RETURNING %s
	`, coachColumns)

	coach, err := scanCoach(r.pool.QueryRow(ctx, query,
		input.Name, input.Email, input.Bio, input.Expertise, input.Specializations))
	duration := metrics.MeasureDuration(start)
	if err != nil {
		recordMetrics(operation, "error", duration)
		logger.LogAPICall(ctx, "postgres", operation, "error", duration, zap.Error(err))
		return nil, fmt.Errorf("failed to create coach: %w", err)
	}

	recordMetrics(operation, "success", duration)
	logger.LogAPICall(ctx, "postgres", operation, "success", duration, zap.Int64("coach_id", coach.ID))

	return coach, nil
}

// Update rewrites a coach's profile fields
func (r *CoachRepository) Update(ctx context.Context, id int64, input *models.CoachInput) (*models.Coach, error) {
	start := time.Now()
	operation := "updateCoach"

	query := fmt.Sprintf(`
		UPDATE coaches SET
			name = $2, email = $3, bio = NULLIF($4, ''),
			expertise = NULLIF($5, ''), specializations = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING %s
	`, coachColumns)

	coach, err := scanCoach(r.pool.QueryRow(ctx, query,
		id, input.Name, input.Email, input.Bio, input.Expertise, input.Specializations))
	duration := metrics.MeasureDuration(start)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			recordMetrics(operation, "not_found", duration)
			return nil, apperrors.NotFoundError("coach")
		}
		recordMetrics(operation, "error", duration)
		logger.LogAPICall(ctx, "postgres", operation, "error", duration, zap.Error(err))
		return nil, fmt.Errorf("failed to update coach %d: %w", id, err)
	}

	recordMetrics(operation, "success", duration)
	logger.LogAPICall(ctx, "postgres", operation, "success", duration, zap.Int64("coach_id", id))

	return coach, nil
}

// Delete removes a coach. Slots cascade at the database level.
func (r *CoachRepository) Delete(ctx context.Context, id int64) error {
	start := time.Now()
	operation := "deleteCoach"

	tag, err := r.pool.Exec(ctx, `DELETE FROM coaches WHERE id = $1`, id)
	duration := metrics.MeasureDuration(start)
	if err != nil {
		recordMetrics(operation, "error", duration)
		logger.LogAPICall(ctx, "postgres", operation, "error", duration, zap.Error(err))
		return fmt.Errorf("failed to delete coach %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		recordMetrics(operation, "not_found", duration)
		return apperrors.NotFoundError("coach")
	}

	recordMetrics(operation, "success", duration)
	logger.LogAPICall(ctx, "postgres", operation, "success", duration, zap.Int64("coach_id", id))

	return nil
}

// AddSlot inserts a weekly availability window for a coach
func (r *CoachRepository) AddSlot(ctx context.Context, coachID int64, input *models.SlotInput) (*models.AvailabilitySlot, error) {
	start := time.Now()
	operation := "addCoachSlot"

	query := `
		INSERT INTO availability_slots (coach_id, day, start_time, end_time)
		VALUES ($1, $2, $3, $4)
		RETURNING id, coach_id, day, start_time, end_time, is_booked, created_at
	`

	var s models.AvailabilitySlot
	err := r.pool.QueryRow(ctx, query, coachID, input.Day, input.StartTime, input.EndTime).
		Scan(&s.ID, &s.CoachID, &s.Day, &s.StartTime, &s.EndTime, &s.IsBooked, &s.CreatedAt)
	duration := metrics.MeasureDuration(start)
	if err != nil {
		recordMetrics(operation, "error", duration)
		logger.LogAPICall(ctx, "postgres", operation, "error", duration, zap.Error(err))
		return nil, fmt.Errorf("failed to add slot for coach %d: %w", coachID, err)
	}

	recordMetrics(operation, "success", duration)
	logger.LogAPICall(ctx, "postgres", operation, "success", duration,
		zap.Int64("coach_id", coachID), zap.Int64("slot_id", s.ID))

	return &s, nil
}

// DeleteSlot removes one availability window, scoped to its coach
func (r *CoachRepository) DeleteSlot(ctx context.Context, coachID, slotID int64) error {
	start := time.Now()
	operation := "deleteCoachSlot"

	tag, err := r.pool.Exec(ctx,
		`DELETE FROM availability_slots WHERE id = $1 AND coach_id = $2`, slotID, coachID)
	duration := metrics.MeasureDuration(start)
	if err != nil {
		recordMetrics(operation, "error", duration)
		logger.LogAPICall(ctx, "postgres", operation, "error", duration, zap.Error(err))
		return fmt.Errorf("failed to delete slot %d: %w", slotID, err)
	}
	if tag.RowsAffected() == 0 {
		recordMetrics(operation, "not_found", duration)
		return apperrors.NotFoundError("availability slot")
	}

	recordMetrics(operation, "success", duration)
	return nil
}
