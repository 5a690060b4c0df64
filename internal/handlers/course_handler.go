package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tradeacademy/tradeacademy-api/config"
	"github.com/tradeacademy/tradeacademy-api/internal/models"
	"github.com/tradeacademy/tradeacademy-api/internal/services"
	"github.com/tradeacademy/tradeacademy-api/internal/validation"
)

// CourseHandler exposes the course catalog and its admin mutations.
// Mutating endpoints accept multipart form data: text fields plus the staged
// thumbnail file, validated together by the form schema before anything is
// spooled or persisted.
type CourseHandler struct {
	service *services.CourseService
	config  *config.Config
}

// NewCourseHandler creates the course handler
func NewCourseHandler(service *services.CourseService, cfg *config.Config) *CourseHandler {
	return &CourseHandler{service: service, config: cfg}
}

func parseID(c *gin.Context, param string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "Invalid ID", err)
		return 0, false
	}
	return id, true
}

// ListCourses handles GET /api/v1/courses
func (h *CourseHandler) ListCourses(c *gin.Context) {
	courses, err := h.service.ListCourses(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to fetch courses")
		return
	}
	c.JSON(http.StatusOK, models.CourseListResponse{Courses: courses})
}

// GetCourse handles GET /api/v1/admin/courses/:id
func (h *CourseHandler) GetCourse(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	course, err := h.service.GetCourse(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch course")
		return
	}
	c.JSON(http.StatusOK, course)
}

// CreateCourse handles POST /api/v1/admin/courses
func (h *CourseHandler) CreateCourse(c *gin.Context) {
	header, meta, err := formFile(c, "thumbnail")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Malformed multipart form", err)
		return
	}

	result := validation.CreateCourseSchema.Validate(validation.FormData{
		"title":       c.PostForm("title"),
		"description": c.PostForm("description"),
		"thumbnail":   meta,
	})
	if !result.Success {
		respondValidationErrors(c, result.Errors)
		return
	}

	input := &models.CourseInput{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
	}

	var thumb *services.FileUpload
	if header != nil {
		staged, err := stageFile(h.config.Upload.StagingDir, header, meta,
			validation.MaxImageSize, validation.AllowedImageTypes)
		if err != nil {
			respondError(c, http.StatusBadRequest, err.Error(), err)
			return
		}
		defer staged.Close()

		upload, closeBody, err := openStaged(staged)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "Failed to read upload", err)
			return
		}
		defer closeBody()
		thumb = upload
	}

	course, err := h.service.CreateCourse(c.Request.Context(), input, thumb)
	if err != nil {
		respondServiceError(c, err, "Failed to create course")
		return
	}
	c.JSON(http.StatusCreated, course)
}

// UpdateCourse handles PUT /api/v1/admin/courses/:id. Unlike create, the
// thumbnail is required here: the edit form always resubmits the file.
func (h *CourseHandler) UpdateCourse(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	header, meta, err := formFile(c, "thumbnail")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Malformed multipart form", err)
		return
	}

	result := validation.UpdateCourseSchema.Validate(validation.FormData{
		"courseId":    c.Param("id"),
		"title":       c.PostForm("title"),
		"description": c.PostForm("description"),
		"thumbnail":   meta,
	})
	if !result.Success {
		respondValidationErrors(c, result.Errors)
		return
	}

	staged, err := stageFile(h.config.Upload.StagingDir, header, meta,
		validation.MaxImageSize, validation.AllowedImageTypes)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error(), err)
		return
	}
	defer staged.Close()

	thumb, closeBody, err := openStaged(staged)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to read upload", err)
		return
	}
	defer closeBody()

	input := &models.CourseInput{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
	}

	course, err := h.service.UpdateCourse(c.Request.Context(), id, input, thumb)
	if err != nil {
		respondServiceError(c, err, "Failed to update course")
		return
	}
	c.JSON(http.StatusOK, course)
}

// DeleteCourse handles DELETE /api/v1/admin/courses/:id
func (h *CourseHandler) DeleteCourse(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteCourse(c.Request.Context(), id); err != nil {
		respondServiceError(c, err, "Failed to delete course")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Course deleted"})
}
