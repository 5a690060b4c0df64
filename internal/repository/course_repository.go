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

const courseColumns = `
	c.id, c.title, c.description, c.thumbnail_url,
	(SELECT COUNT(*) FROM videos v WHERE v.course_id = c.id) AS lecture_count,
	c.created_at, c.updated_at
`

// CourseRepository persists courses in PostgreSQL
type CourseRepository struct {
	pool *pgxpool.Pool
}

// NewCourseRepository creates a course repository backed by the given pool
func NewCourseRepository(pool *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{pool: pool}
}

func scanCourse(row pgx.Row) (*models.Course, error) {
	var c models.Course
	var description, thumbnail *string

	err := row.Scan(&c.ID, &c.Title, &description, &thumbnail, &c.LectureCount, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if description != nil {
		c.Description = *description
	}
	if thumbnail != nil {
		c.ThumbnailURL = *thumbnail
	}
	return &c, nil
}

// GetAll fetches all courses ordered by creation time
func (r *CourseRepository) GetAll(ctx context.Context) ([]*models.Course, error) {
	start := time.Now()
	operation := "getAllCourses"

	query := fmt.Sprintf(`SELECT %s FROM courses c ORDER BY c.created_at DESC`, courseColumns)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		duration := metrics.MeasureDuration(start)
		recordMetrics(operation, "error", duration)
		logger.LogAPICall(ctx, "postgres", operation, "error", duration, zap.Error(err))
		return nil, fmt.Errorf("failed to query courses: %w", err)
	}
	defer rows.Close()

	courses := make([]*models.Course, 0)
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			duration := metrics.MeasureDuration(start)
			recordMetrics(operation, "error", duration)
			logger.LogAPICall(ctx, "postgres", operation, "error", duration, zap.Error(err))
			return nil, fmt.Errorf("failed to scan course row: %w", err)
		}
		courses = append(courses, course)
	}

	if err := rows.Err(); err != nil {
		duration := metrics.MeasureDuration(start)
		recordMetrics(operation, "error", duration)
		logger.LogAPICall(ctx, "postgres", operation, "error", duration, zap.Error(err))
		return nil, fmt.Errorf("error iterating course rows: %w", err)
	}

	duration := metrics.MeasureDuration(start)
	recordMetrics(operation, "success", duration)
	logger.LogAPICall(ctx, "postgres", operation, "success", duration, zap.Int("count", len(courses)))

	return courses, nil
}

// GetByID fetches a single course
func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	start := time.Now()
	operation := "getCourseByID"

	query := fmt.Sprintf(`SELECT %s FROM courses c WHERE c.id = $1`, courseColumns)

	course, err := scanCourse(r.pool.QueryRow(ctx, query, id))
	duration := metrics.MeasureDuration(start)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			recordMetrics(operation, "not_found", duration)
			return nil, apperrors.NotFoundError("course")
		}
		recordMetrics(operation, "error", duration)
		logger.LogAPICall(ctx, "postgres", operation, "error", duration, zap.Error(err))
		return nil, fmt.Errorf("failed to fetch course %d: %w", id, err)
	}

	recordMetrics(operation, "success", duration)
	return course, nil
}

// Create inserts a new course
func (r *CourseRepository) Create(ctx context.Context, input *models.CourseInput) (*models.Course, error) {
	start := time.Now()
	operation := "createCourse"

	query := `
		INSERT INTO courses (title, description, thumbnail_url)
		VALUES ($1, NULLIF($2, ''), NULLIF($3, ''))
		RETURNING id, title, COALESCE(description, ''), COALESCE(thumbnail_url, ''),
			0 AS lecture_count, created_at, updated_at
	`

	var c models.Course
	err := r.pool.QueryRow(ctx, query, input.Title, input.Description, input.ThumbnailURL).
		Scan(&c.ID, &c.Title, &c.Description, &c.ThumbnailURL, &c.LectureCount, &c.CreatedAt, &c.UpdatedAt)
	duration := metrics.MeasureDuration(start)
	if err != nil {
		recordMetrics(operation, "error", duration)
		logger.LogAPICall(ctx, "postgres", operation, "error", duration, zap.Error(err))
		return nil, fmt.Errorf("failed to create course: %w", err)
	}

	recordMetrics(operation, "success", duration)
	logger.LogAPICall(ctx, "postgres", operation, "success", duration, zap.Int64("course_id", c.ID))

	return &c, nil
}

// Update rewrites a course's mutable fields. Empty ThumbnailURL keeps the
// stored value.
func (r *CourseRepository) Update(ctx context.Context, id int64, input *models.CourseInput) (*models.Course, error) {
	start := time.Now()
	operation := "updateCourse"

	query := `
		UPDATE courses SET
			title = $2,
			description = NULLIF($3, ''),
			thumbnail_url = COALESCE(NULLIF($4, ''), thumbnail_url),
			updated_at = NOW()
		WHERE id = $1
		RETURNING id, title, COALESCE(description, ''), COALESCE(thumbnail_url, ''),
			(SELECT COUNT(*) FROM videos v WHERE v.course_id = courses.id),
			created_at, updated_at
	`

	var c models.Course
	err := r.pool.QueryRow(ctx, query, id, input.Title, input.Description, input.ThumbnailURL).
		Scan(&c.ID, &c.Title, &c.Description, &c.ThumbnailURL, &c.LectureCount, &c.CreatedAt, &c.UpdatedAt)
	duration := metrics.MeasureDuration(start)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			recordMetrics(operation, "not_found", duration)
			return nil, apperrors.NotFoundError("course")
		}
		recordMetrics(operation, "error", duration)
		logger.LogAPICall(ctx, "postgres", operation, "error", duration, zap.Error(err))
		return nil, fmt.Errorf("failed to update course %d: %w", id, err)
	}

	recordMetrics(operation, "success", duration)
	logger.LogAPICall(ctx, "postgres", operation, "success", duration, zap.Int64("course_id", id))

	return &c, nil
}

// Delete removes a course. Lecture rows cascade at the database level.
func (r *CourseRepository) Delete(ctx context.Context, id int64) error {
	start := time.Now()
	operation := "deleteCourse"

	tag, err := r.pool.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
	duration := metrics.MeasureDuration(start)
	if err != nil {
		recordMetrics(operation, "error", duration)
		logger.LogAPICall(ctx, "postgres", operation, "error", duration, zap.Error(err))
		return fmt.Errorf("failed to delete course %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		recordMetrics(operation, "not_found", duration)
		return apperrors.NotFoundError("course")
	}

	recordMetrics(operation, "success", duration)
	logger.LogAPICall(ctx, "postgres", operation, "success", duration, zap.Int64("course_id", id))

	return nil
}
