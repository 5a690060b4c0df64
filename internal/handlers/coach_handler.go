package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tradeacademy/tradeacademy-api/internal/models"
	"github.com/tradeacademy/tradeacademy-api/internal/services"
	"github.com/tradeacademy/tradeacademy-api/internal/validation"
)

// CoachHandler manages trading coaches and their weekly availability
type CoachHandler struct {
	service *services.CoachService
}

// NewCoachHandler creates the coach handler
func NewCoachHandler(service *services.CoachService) *CoachHandler {
	return &CoachHandler{service: service}
}

// ListCoaches handles GET /api/v1/admin/coaches
func (h *CoachHandler) ListCoaches(c *gin.Context) {
	coaches, err := h.service.ListCoaches(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to fetch coaches")
		return
	}
	c.JSON(http.StatusOK, models.CoachListResponse{Coaches: coaches})
}

// GetCoach handles GET /api/v1/admin/coaches/:id
func (h *CoachHandler) GetCoach(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	coach, err := h.service.GetCoach(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch coach")
		return
	}
	c.JSON(http.StatusOK, coach)
}

func coachFormData(input *models.CoachInput) validation.FormData {
	return validation.FormData{
		"name":      input.Name,
		"email":     input.Email,
		"bio":       input.Bio,
		"expertise": input.Expertise,
	}
}

// CreateCoach handles POST /api/v1/admin/coaches
func (h *CoachHandler) CreateCoach(c *gin.Context) {
	var input models.CoachInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	result := validation.CreateCoachSchema.Validate(coachFormData(&input))
	if !result.Success {
		respondValidationErrors(c, result.Errors)
		return
	}

	coach, err := h.service.CreateCoach(c.Request.Context(), &input)
	if err != nil {
		respondServiceError(c, err, "Failed to create coach")
		return
	}
	c.JSON(http.StatusCreated, coach)
}

// UpdateCoach handles PUT /api/v1/admin/coaches/:id
func (h *CoachHandler) UpdateCoach(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var input models.CoachInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	data := coachFormData(&input)
	data["coachId"] = c.Param("id")
	result := validation.UpdateCoachSchema.Validate(data)
	if !result.Success {
		respondValidationErrors(c, result.Errors)
		return
	}

	coach, err := h.service.UpdateCoach(c.Request.Context(), id, &input)
	if err != nil {
		respondServiceError(c, err, "Failed to update coach")
		return
	}
	c.JSON(http.StatusOK, coach)
}

// DeleteCoach handles DELETE /api/v1/admin/coaches/:id
func (h *CoachHandler) DeleteCoach(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteCoach(c.Request.Context(), id); err != nil {
		respondServiceError(c, err, "Failed to delete coach")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Coach deleted"})
}

// AddSlot handles POST /api/v1/admin/coaches/:id/slots
func (h *CoachHandler) AddSlot(c *gin.Context) {
	coachID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var input models.SlotInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": ParseValidationErrors(err),
		})
		return
	}

	result := validation.AddSlotSchema.Validate(validation.FormData{
		"day":        input.Day,
		"start_time": input.StartTime,
		"end_time":   input.EndTime,
	})
	if !result.Success {
		respondValidationErrors(c, result.Errors)
		return
	}

	slot, err := h.service.AddSlot(c.Request.Context(), coachID, &input)
	if err != nil {
		respondServiceError(c, err, "Failed to add slot")
		return
	}
	c.JSON(http.StatusCreated, slot)
}

// DeleteSlot handles DELETE /api/v1/admin/coaches/:id/slots/:slotId
func (h *CoachHandler) DeleteSlot(c *gin.Context) {
	coachID, ok := parseID(c, "id")
	if !ok {
		return
	}
	slotID, ok := parseID(c, "slotId")
	if !ok {
		return
	}

	if err := h.service.DeleteSlot(c.Request.Context(), coachID, slotID); err != nil {
		respondServiceError(c, err, "Failed to delete slot")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Slot deleted"})
}
