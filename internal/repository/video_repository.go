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

const videoColumns = `
	id, course_id, title, COALESCE(description, ''), COALESCE(stream_url, ''),
	COALESCE(thumbnail_url, ''), file_size, created_at, updated_at
`

// VideoRepository persists lecture videos in PostgreSQL
type VideoRepository struct {
	pool *pgxpool.Pool
}

// NewVideoRepository creates a video repository backed by the given pool
func NewVideoRepository(pool *pgxpool.Pool) *VideoRepository {
	return &VideoRepository{pool: pool}
}

func scanVideo(row pgx.Row) (*models.Video, error) {
	var v models.Video
	err := row.Scan(&v.ID, &v.CourseID, &v.Title, &v.Description, &v.StreamURL,
		&v.ThumbnailURL, &v.FileSize, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// GetByCourse fetches all lectures of one course in upload order
func (r *VideoRepository) GetByCourse(ctx context.Context, courseID int64) ([]*models.Video, error) {
	start := time.Now()
	operation := "getVideosByCourse"

	query := fmt.Sprintf(`SELECT %s FROM videos WHERE course_id = $1 ORDER BY created_at ASC`, videoColumns)

	rows, err := r.pool.Query(ctx, query, courseID)
	if err != nil {
		duration := metrics.MeasureDuration(start)
		recordMetrics(operation, "error", duration)
		logger.LogAPICall(ctx, "postgres", operation, "error", duration, zap.Error(err))
		return nil, fmt.Errorf("failed to query videos: %w", err)
	}
	defer rows.Close()

	videos := make([]*models.Video, 0)
	for rows.Next() {
		video, err := scanVideo(rows)
		if err != nil {
			duration := metrics.MeasureDuration(start)
			recordMetrics(operation, "error", duration)
			logger.LogAPICall(ctx, "postgres", operation, "error", duration, zap.Error(err))
			return nil, fmt.Errorf("failed to scan video row: %w", err)
		}
		videos = append(videos, video)
	}

	if err := rows.Err(); err != nil {
		duration := metrics.MeasureDuration(start)
		recordMetrics(operation, "error", duration)
		logger.LogAPICall(ctx, "postgres", operation, "error", duration, zap.Error(err))
		return nil, fmt.Errorf("error iterating video rows: %w", err)
	}

	duration := metrics.MeasureDuration(start)
	recordMetrics(operation, "success", duration)
	logger.LogAPICall(ctx, "postgres", operation, "success", duration,
		zap.Int64("course_id", courseID), zap.Int("count", len(videos)))

	return videos, nil
}

// GetByID fetches a single lecture
func (r *VideoRepository) GetByID(ctx context.Context, id int64) (*models.Video, error) {
	start := time.Now()
	operation := "getVideoByID"

	query := fmt.Sprintf(`SELECT %s FROM videos WHERE id = $1`, videoColumns)

	video, err := scanVideo(r.pool.QueryRow(ctx, query, id))
	duration := metrics.MeasureDuration(start)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			recordMetrics(operation, "not_found", duration)
			return nil, apperrors.NotFoundError("video")
		}
		recordMetrics(operation, "error", duration)
		logger.LogAPICall(ctx, "postgres", operation, "error", duration, zap.Error(err))
		return nil, fmt.Errorf("failed to fetch video %d: %w", id, err)
	}

	recordMetrics(operation, "success", duration)
	return video, nil
}

// Create inserts a lecture under a course
func (r *VideoRepository) Create(ctx context.Context, courseID int64, input *models.VideoInput) (*models.Video, error) {
	start := time.Now()
	operation := "createVideo"

	query := fmt.Sprintf(`
		INSERT INTO videos (course_id, title, description, stream_url, thumbnail_url, file_size)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''), $6)
		RETURNING %s
	`, videoColumns)

	video, err := scanVideo(r.pool.QueryRow(ctx, query,
		courseID, input.Title, input.Description, input.StreamURL, input.ThumbnailURL, input.FileSize))
	duration := metrics.MeasureDuration(start)
	if err != nil {
		recordMetrics(operation, "error", duration)
		logger.LogAPICall(ctx, "postgres", operation, "error", duration, zap.Error(err))
		return nil, fmt.Errorf("failed to create video: %w", err)
	}

	recordMetrics(operation, "success", duration)
	logger.LogAPICall(ctx, "postgres", operation, "success", duration,
		zap.Int64("course_id", courseID), zap.Int64("video_id", video.ID))

	return video, nil
}

// Update rewrites a lecture's fields. Empty object URLs keep the stored
// values, matching the edit flow where file inputs are optional.
func (r *VideoRepository) Update(ctx context.Context, id int64, input *models.VideoInput) (*models.Video, error) {
	start := time.Now()
	operation := "updateVideo"

	query := fmt.Sprintf(`
		UPDATE videos SET
			title = $2,
			description = NULLIF($3, ''),
			stream_url = COALESCE(NULLIF($4, ''), stream_url),
			thumbnail_url = COALESCE(NULLIF($5, ''), thumbnail_url),
			file_size = CASE WHEN $6 > 0 THEN $6 ELSE file_size END,
			updated_at = NOW()
		WHERE id = $1
		RETURNING %s
	`, videoColumns)

	video, err := scanVideo(r.pool.QueryRow(ctx, query,
		id, input.Title, input.Description, input.StreamURL, input.ThumbnailURL, input.FileSize))
	duration := metrics.MeasureDuration(start)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			recordMetrics(operation, "not_found", duration)
			return nil, apperrors.NotFoundError("video")
		}
		recordMetrics(operation, "error", duration)
		logger.LogAPICall(ctx, "postgres", operation, "error", duration, zap.Error(err))
		return nil, fmt.Errorf("failed to update video %d: %w", id, err)
	}

	recordMetrics(operation, "success", duration)
	logger.LogAPICall(ctx, "postgres", operation, "success", duration, zap.Int64("video_id", id))

	return video, nil
}

// Delete removes a lecture row
func (r *VideoRepository) Delete(ctx context.Context, id int64) error {
	start := time.Now()
	operation := "deleteVideo"

	tag, err := r.pool.Exec(ctx, `DELETE FROM videos WHERE id = $1`, id)
	duration := metrics.MeasureDuration(start)
	if err != nil {
		recordMetrics(operation, "error", duration)
		logger.LogAPICall(ctx, "postgres", operation, "error", duration, zap.Error(err))
		return fmt.Errorf("failed to delete video %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		recordMetrics(operation, "not_found", duration)
		return apperrors.NotFoundError("video")
	}

	recordMetrics(operation, "success", duration)
	logger.LogAPICall(ctx, "postgres", operation, "success", duration, zap.Int64("video_id", id))

	return nil
}
