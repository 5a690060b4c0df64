package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tradeacademy/tradeacademy-api/config"
	"github.com/tradeacademy/tradeacademy-api/internal/models"
	"github.com/tradeacademy/tradeacademy-api/internal/services"
	"github.com/tradeacademy/tradeacademy-api/internal/validation"
)

// LectureHandler manages lecture videos under courses. Uploads arrive as
// multipart forms with two staged files: the video and its thumbnail.
type LectureHandler struct {
	service *services.LectureService
	config  *config.Config
}

// NewLectureHandler creates the lecture handler
func NewLectureHandler(service *services.LectureService, cfg *config.Config) *LectureHandler {
	return &LectureHandler{service: service, config: cfg}
}

// ListLectures handles GET /api/v1/admin/courses/:id/videos
func (h *LectureHandler) ListLectures(c *gin.Context) {
	courseID, ok := parseID(c, "id")
	if !ok {
		return
	}

	videos, err := h.service.ListLectures(c.Request.Context(), courseID)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch videos")
		return
	}
	c.JSON(http.StatusOK, models.VideoListResponse{Videos: videos})
}

// AddLecture handles POST /api/v1/admin/courses/:id/videos
func (h *LectureHandler) AddLecture(c *gin.Context) {
	courseID, ok := parseID(c, "id")
	if !ok {
		return
	}

	videoHeader, videoMeta, err := formFile(c, "file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Malformed multipart form", err)
		return
	}
	thumbHeader, thumbMeta, err := formFile(c, "thumbnail")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Malformed multipart form", err)
		return
	}

	result := validation.AddLectureSchema.Validate(validation.FormData{
		"courseId":    c.Param("id"),
		"title":       c.PostForm("title"),
		"description": c.PostForm("description"),
		"file":        videoMeta,
		"thumbnail":   thumbMeta,
	})
	if !result.Success {
		respondValidationErrors(c, result.Errors)
		return
	}

	stagedVideo, err := stageFile(h.config.Upload.StagingDir, videoHeader, videoMeta,
		validation.MaxVideoSize, validation.AllowedVideoTypes)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error(), err)
		return
	}
	defer stagedVideo.Close()

	stagedThumb, err := stageFile(h.config.Upload.StagingDir, thumbHeader, thumbMeta,
		validation.MaxImageSize, validation.AllowedImageTypes)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error(), err)
		return
	}
	defer stagedThumb.Close()

	videoUpload, closeVideo, err := openStaged(stagedVideo)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to read upload", err)
		return
	}
	defer closeVideo()

	thumbUpload, closeThumb, err := openStaged(stagedThumb)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to read upload", err)
		return
	}
	defer closeThumb()

	input := &models.VideoInput{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
	}

	lecture, err := h.service.AddLecture(c.Request.Context(), courseID, input, videoUpload, thumbUpload)
	if err != nil {
		respondServiceError(c, err, "Failed to add video")
		return
	}
	c.JSON(http.StatusCreated, lecture)
}

// UpdateLecture handles PUT /api/v1/admin/videos/:id. Both files are
// optional; absent files keep the stored objects.
func (h *LectureHandler) UpdateLecture(c *gin.Context) {
	videoID, ok := parseID(c, "id")
	if !ok {
		return
	}

	videoHeader, videoMeta, err := formFile(c, "file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Malformed multipart form", err)
		return
	}
	thumbHeader, thumbMeta, err := formFile(c, "thumbnail")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Malformed multipart form", err)
		return
	}

	result := validation.UpdateLectureSchema.Validate(validation.FormData{
		"videoId":     c.Param("id"),
		"title":       c.PostForm("title"),
		"description": c.PostForm("description"),
		"file":        videoMeta,
		"thumbnail":   thumbMeta,
	})
	if !result.Success {
		respondValidationErrors(c, result.Errors)
		return
	}

	var videoUpload, thumbUpload *services.FileUpload

	if videoHeader != nil {
		staged, err := stageFile(h.config.Upload.StagingDir, videoHeader, videoMeta,
			validation.MaxVideoSize, validation.AllowedVideoTypes)
		if err != nil {
			respondError(c, http.StatusBadRequest, err.Error(), err)
			return
		}
		defer staged.Close()

		var closeBody func()
		videoUpload, closeBody, err = openStaged(staged)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "Failed to read upload", err)
			return
		}
		defer closeBody()
	}

	if thumbHeader != nil {
		staged, err := stageFile(h.config.Upload.StagingDir, thumbHeader, thumbMeta,
			validation.MaxImageSize, validation.AllowedImageTypes)
		if err != nil {
			respondError(c, http.StatusBadRequest, err.Error(), err)
			return
		}
		defer staged.Close()

		var closeBody func()
		thumbUpload, closeBody, err = openStaged(staged)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "Failed to read upload", err)
			return
		}
		defer closeBody()
	}

	input := &models.VideoInput{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
	}

	lecture, err := h.service.UpdateLecture(c.Request.Context(), videoID, input, videoUpload, thumbUpload)
	if err != nil {
		respondServiceError(c, err, "Failed to update video")
		return
	}
	c.JSON(http.StatusOK, lecture)
}

// DeleteLecture handles DELETE /api/v1/admin/videos/:id
func (h *LectureHandler) DeleteLecture(c *gin.Context) {
	videoID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteLecture(c.Request.Context(), videoID); err != nil {
		respondServiceError(c, err, "Failed to delete video")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Video deleted"})
}

// StreamLecture handles GET /api/v1/admin/videos/:id/stream and proxies the
// stored object to the client.
func (h *LectureHandler) StreamLecture(c *gin.Context) {
	videoID, ok := parseID(c, "id")
	if !ok {
		return
	}

	video, obj, err := h.service.StreamLecture(c.Request.Context(), videoID)
	if err != nil {
		respondServiceError(c, err, "Failed to stream video")
		return
	}
	defer obj.Body.Close()

	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", video.Title))
	c.DataFromReader(http.StatusOK, obj.ContentLength, obj.ContentType, obj.Body, nil)
}
