package services

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tradeacademy/tradeacademy-api/config"
	"github.com/tradeacademy/tradeacademy-api/internal/cache"
	"github.com/tradeacademy/tradeacademy-api/internal/models"
	"github.com/tradeacademy/tradeacademy-api/internal/repository"
	"github.com/tradeacademy/tradeacademy-api/pkg/httpclient"
	"github.com/tradeacademy/tradeacademy-api/pkg/logger"
	"github.com/tradeacademy/tradeacademy-api/pkg/metrics"
	"github.com/tradeacademy/tradeacademy-api/pkg/slug"
	"github.com/tradeacademy/tradeacademy-api/pkg/trigger"
)

// CourseService orchestrates course mutations: object storage first, then
// the database row, then cache invalidation for exactly the views the
// mutation staled, then the async event trigger.
type CourseService struct {
	courses    repository.CourseStore
	videos     repository.VideoStore
	storage    ObjectStorage
	catalog    *cache.Catalog
	config     *config.Config
	httpClient httpclient.Client
}

// NewCourseService creates the course service
func NewCourseService(
	courses repository.CourseStore,
	videos repository.VideoStore,
	objectStorage ObjectStorage,
	catalog *cache.Catalog,
	cfg *config.Config,
	httpClient httpclient.Client,
) *CourseService {
	return &CourseService{
		courses:    courses,
		videos:     videos,
		storage:    objectStorage,
		catalog:    catalog,
		config:     cfg,
		httpClient: httpClient,
	}
}

// objectKey builds a storage key like "thumbnails/options-trading-1a2b3c4d.png"
func objectKey(prefix, title, filename string) string {
	return fmt.Sprintf("%s/%s-%s%s", prefix, slug.Make(title), uuid.NewString()[:8], filepath.Ext(filename))
}

// ListCourses returns the catalog, cache-aside
func (s *CourseService) ListCourses(ctx context.Context) ([]*models.Course, error) {
	if courses, found := s.catalog.GetCourses(); found {
		return courses, nil
	}

	courses, err := s.courses.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	s.catalog.SetCourses(courses)
	return courses, nil
}

// GetCourse returns one course, cache-aside
func (s *CourseService) GetCourse(ctx context.Context, id int64) (*models.Course, error) {
	if course, found := s.catalog.GetCourse(id); found {
		return course, nil
	}

	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.catalog.SetCourse(course)
	return course, nil
}

// CreateCourse uploads the optional thumbnail, inserts the course and
// invalidates the course list.
func (s *CourseService) CreateCourse(ctx context.Context, input *models.CourseInput, thumbnail *FileUpload) (*models.Course, error) {
	if thumbnail != nil {
		url, err := s.storage.Upload(ctx, objectKey("thumbnails", input.Title, thumbnail.Name),
			thumbnail.ContentType, thumbnail.Body, thumbnail.Size)
		if err != nil {
			metrics.CourseMutations.WithLabelValues("create", "error").Inc()
			return nil, fmt.Errorf("failed to upload thumbnail: %w", err)
		}
		input.ThumbnailURL = url
	}

	course, err := s.courses.Create(ctx, input)
	if err != nil {
		metrics.CourseMutations.WithLabelValues("create", "error").Inc()
		return nil, err
	}

	s.catalog.InvalidateCourseList()
	metrics.CourseMutations.WithLabelValues("create", "success").Inc()
	logger.Info("Course created", zap.Int64("course_id", course.ID), zap.String("title", course.Title))

	if s.config.EventTriggers.CourseCreatedTriggerURL != "" {
		trigger.CallAsyncWithPayload(s.config.EventTriggers.CourseCreatedTriggerURL, map[string]interface{}{
			"type":      "course_created",
			"course_id": course.ID,
			"title":     course.Title,
		}, s.httpClient)
	}

	return course, nil
}

// UpdateCourse replaces the thumbnail when a new one is staged, updates the
// row and invalidates both the list view and the course's detail view.
func (s *CourseService) UpdateCourse(ctx context.Context, id int64, input *models.CourseInput, thumbnail *FileUpload) (*models.Course, error) {
	existing, err := s.courses.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if thumbnail != nil {
		url, err := s.storage.Upload(ctx, objectKey("thumbnails", input.Title, thumbnail.Name),
			thumbnail.ContentType, thumbnail.Body, thumbnail.Size)
		if err != nil {
			metrics.CourseMutations.WithLabelValues("update", "error").Inc()
			return nil, fmt.Errorf("failed to upload thumbnail: %w", err)
		}
		input.ThumbnailURL = url
	}

	course, err := s.courses.Update(ctx, id, input)
	if err != nil {
		metrics.CourseMutations.WithLabelValues("update", "error").Inc()
		return nil, err
	}

	// old thumbnail object is orphaned once the row points at the new one
	if thumbnail != nil && existing.ThumbnailURL != "" && existing.ThumbnailURL != course.ThumbnailURL {
		if err := s.storage.Delete(ctx, s.storage.KeyFromURL(existing.ThumbnailURL)); err != nil {
			logger.Warn("Failed to delete replaced thumbnail",
				zap.Int64("course_id", id), zap.Error(err))
		}
	}

	s.catalog.InvalidateCourseList()
	s.catalog.InvalidateCourse(id)
	metrics.CourseMutations.WithLabelValues("update", "success").Inc()
	logger.Info("Course updated", zap.Int64("course_id", id))

	return course, nil
}

// DeleteCourse removes the course row with its lectures and their stored
// objects, then invalidates every view the course appeared in.
func (s *CourseService) DeleteCourse(ctx context.Context, id int64) error {
	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		return err
	}

	videos, err := s.videos.GetByCourse(ctx, id)
	if err != nil {
		return err
	}

	if err := s.courses.Delete(ctx, id); err != nil {
		metrics.CourseMutations.WithLabelValues("delete", "error").Inc()
		return err
	}

	// storage cleanup is best effort; the rows are already gone
	if course.ThumbnailURL != "" {
		if err := s.storage.Delete(ctx, s.storage.KeyFromURL(course.ThumbnailURL)); err != nil {
			logger.Warn("Failed to delete course thumbnail", zap.Int64("course_id", id), zap.Error(err))
		}
	}
	for _, video := range videos {
		s.deleteVideoObjects(ctx, video)
	}

	s.catalog.InvalidateCourseList()
	s.catalog.InvalidateCourse(id)
	s.catalog.InvalidateCourseVideos(id)
	metrics.CourseMutations.WithLabelValues("delete", "success").Inc()
	logger.Info("Course deleted", zap.Int64("course_id", id), zap.Int("lectures_removed", len(videos)))

	if s.config.EventTriggers.CourseDeletedTriggerURL != "" {
		trigger.CallAsyncWithPayload(s.config.EventTriggers.CourseDeletedTriggerURL, map[string]interface{}{
			"type":      "course_deleted",
			"course_id": id,
			"title":     course.Title,
		}, s.httpClient)
	}

	return nil
}

// deleteVideoObjects removes a lecture's stored objects. A lecture with no
// stored object (metadata-only row) is skipped without error.
func (s *CourseService) deleteVideoObjects(ctx context.Context, video *models.Video) {
	if video.StreamURL != "" {
		if err := s.storage.Delete(ctx, s.storage.KeyFromURL(video.StreamURL)); err != nil {
			logger.Warn("Failed to delete video object", zap.Int64("video_id", video.ID), zap.Error(err))
		}
	}
	if video.ThumbnailURL != "" {
		if err := s.storage.Delete(ctx, s.storage.KeyFromURL(video.ThumbnailURL)); err != nil {
			logger.Warn("Failed to delete video thumbnail", zap.Int64("video_id", video.ID), zap.Error(err))
		}
	}
}
