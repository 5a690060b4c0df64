package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/tradeacademy/tradeacademy-api/config"
	"github.com/tradeacademy/tradeacademy-api/internal/cache"
	"github.com/tradeacademy/tradeacademy-api/internal/models"
	"github.com/tradeacademy/tradeacademy-api/internal/repository"
	"github.com/tradeacademy/tradeacademy-api/pkg/httpclient"
	"github.com/tradeacademy/tradeacademy-api/pkg/logger"
	"github.com/tradeacademy/tradeacademy-api/pkg/metrics"
	"github.com/tradeacademy/tradeacademy-api/pkg/storage"
	"github.com/tradeacademy/tradeacademy-api/pkg/trigger"
)

// LectureService handles lecture videos under courses. Mutations here stale
// the course views too: lecture counts live on the course rows.
type LectureService struct {
	videos     repository.VideoStore
	courses    repository.CourseStore
	storage    ObjectStorage
	catalog    *cache.Catalog
	config     *config.Config
	httpClient httpclient.Client
}

// NewLectureService creates the lecture service
func NewLectureService(
	videos repository.VideoStore,
	courses repository.CourseStore,
	objectStorage ObjectStorage,
	catalog *cache.Catalog,
	cfg *config.Config,
	httpClient httpclient.Client,
) *LectureService {
	return &LectureService{
		videos:     videos,
		courses:    courses,
		storage:    objectStorage,
		catalog:    catalog,
		config:     cfg,
		httpClient: httpClient,
	}
}

// ListLectures returns the lectures of one course, cache-aside. The course
// must exist, so an empty list is distinguishable from a bad course ID.
func (s *LectureService) ListLectures(ctx context.Context, courseID int64) ([]*models.Video, error) {
	if _, err := s.courses.GetByID(ctx, courseID); err != nil {
		return nil, err
	}

	if videos, found := s.catalog.GetCourseVideos(courseID); found {
		return videos, nil
	}

	videos, err := s.videos.GetByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	s.catalog.SetCourseVideos(courseID, videos)
	return videos, nil
}

// AddLecture uploads the staged video and thumbnail, inserts the lecture row
// and invalidates the course's lecture list plus the course views whose
// lecture counts changed.
func (s *LectureService) AddLecture(ctx context.Context, courseID int64, input *models.VideoInput, video, thumbnail *FileUpload) (*models.Video, error) {
	if _, err := s.courses.GetByID(ctx, courseID); err != nil {
		return nil, err
	}

	videoURL, err := s.storage.Upload(ctx, objectKey("videos", input.Title, video.Name),
		video.ContentType, video.Body, video.Size)
	if err != nil {
		metrics.LectureUploads.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to upload video: %w", err)
	}

	thumbURL, err := s.storage.Upload(ctx, objectKey("thumbnails", input.Title, thumbnail.Name),
		thumbnail.ContentType, thumbnail.Body, thumbnail.Size)
	if err != nil {
		// roll back the already stored video object
		if delErr := s.storage.Delete(ctx, s.storage.KeyFromURL(videoURL)); delErr != nil {
			logger.Warn("Failed to remove video after thumbnail upload failure", zap.Error(delErr))
		}
		metrics.LectureUploads.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to upload thumbnail: %w", err)
	}

	input.StreamURL = videoURL
	input.ThumbnailURL = thumbURL
	input.FileSize = video.Size

	lecture, err := s.videos.Create(ctx, courseID, input)
	if err != nil {
		metrics.LectureUploads.WithLabelValues("error").Inc()
		return nil, err
	}

	s.catalog.InvalidateCourseVideos(courseID)
	s.catalog.InvalidateCourse(courseID)
	s.catalog.InvalidateCourseList()
	metrics.LectureUploads.WithLabelValues("success").Inc()
	logger.Info("Lecture uploaded",
		zap.Int64("course_id", courseID),
		zap.Int64("video_id", lecture.ID),
		zap.Int64("file_size", video.Size))

	if s.config.EventTriggers.LectureUploadedTriggerURL != "" {
		trigger.CallAsyncWithPayload(s.config.EventTriggers.LectureUploadedTriggerURL, map[string]interface{}{
			"type":      "lecture_uploaded",
			"course_id": courseID,
			"video_id":  lecture.ID,
			"title":     lecture.Title,
		}, s.httpClient)
	}

	return lecture, nil
}

// UpdateLecture rewrites a lecture's metadata and replaces whichever files
// were staged. Absent files keep the stored objects.
func (s *LectureService) UpdateLecture(ctx context.Context, id int64, input *models.VideoInput, video, thumbnail *FileUpload) (*models.Video, error) {
	existing, err := s.videos.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if video != nil {
		url, err := s.storage.Upload(ctx, objectKey("videos", input.Title, video.Name),
			video.ContentType, video.Body, video.Size)
		if err != nil {
			return nil, fmt.Errorf("failed to upload video: %w", err)
		}
		input.StreamURL = url
		input.FileSize = video.Size
	}
	if thumbnail != nil {
		url, err := s.storage.Upload(ctx, objectKey("thumbnails", input.Title, thumbnail.Name),
			thumbnail.ContentType, thumbnail.Body, thumbnail.Size)
		if err != nil {
			return nil, fmt.Errorf("failed to upload thumbnail: %w", err)
		}
		input.ThumbnailURL = url
	}

	lecture, err := s.videos.Update(ctx, id, input)
	if err != nil {
		return nil, err
	}

	if video != nil && existing.StreamURL != "" && existing.StreamURL != lecture.StreamURL {
		if err := s.storage.Delete(ctx, s.storage.KeyFromURL(existing.StreamURL)); err != nil {
			logger.Warn("Failed to delete replaced video object", zap.Int64("video_id", id), zap.Error(err))
		}
	}
	if thumbnail != nil && existing.ThumbnailURL != "" && existing.ThumbnailURL != lecture.ThumbnailURL {
		if err := s.storage.Delete(ctx, s.storage.KeyFromURL(existing.ThumbnailURL)); err != nil {
			logger.Warn("Failed to delete replaced video thumbnail", zap.Int64("video_id", id), zap.Error(err))
		}
	}

	s.catalog.InvalidateCourseVideos(existing.CourseID)
	logger.Info("Lecture updated", zap.Int64("video_id", id))

	return lecture, nil
}

// DeleteLecture removes the lecture row and its stored objects. A lecture
// without a stored video object deletes cleanly; the storage step is
// skipped, not failed.
func (s *LectureService) DeleteLecture(ctx context.Context, id int64) error {
	existing, err := s.videos.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.videos.Delete(ctx, id); err != nil {
		return err
	}

	if existing.StreamURL != "" {
		if err := s.storage.Delete(ctx, s.storage.KeyFromURL(existing.StreamURL)); err != nil {
			logger.Warn("Failed to delete video object", zap.Int64("video_id", id), zap.Error(err))
		}
	}
	if existing.ThumbnailURL != "" {
		if err := s.storage.Delete(ctx, s.storage.KeyFromURL(existing.ThumbnailURL)); err != nil {
			logger.Warn("Failed to delete video thumbnail", zap.Int64("video_id", id), zap.Error(err))
		}
	}

	s.catalog.InvalidateCourseVideos(existing.CourseID)
	s.catalog.InvalidateCourse(existing.CourseID)
	s.catalog.InvalidateCourseList()
	logger.Info("Lecture deleted", zap.Int64("video_id", id), zap.Int64("course_id", existing.CourseID))

	return nil
}

// StreamLecture opens the stored video object for streaming to the client
func (s *LectureService) StreamLecture(ctx context.Context, id int64) (*models.Video, *storage.Object, error) {
	video, err := s.videos.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if video.StreamURL == "" {
		return nil, nil, fmt.Errorf("video %d has no stored object", id)
	}

	obj, err := s.storage.Download(ctx, s.storage.KeyFromURL(video.StreamURL))
	if err != nil {
		return nil, nil, err
	}
	return video, obj, nil
}
