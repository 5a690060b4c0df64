package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tradeacademy/tradeacademy-api/internal/models"
	"github.com/tradeacademy/tradeacademy-api/internal/services"
)

// UserHandler exposes the admin user management endpoints
type UserHandler struct {
	service *services.UserService
}

// NewUserHandler creates the user handler
func NewUserHandler(service *services.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// ListUsers handles GET /api/v1/admin/users
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.service.ListUsers(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to fetch users")
		return
	}
	c.JSON(http.StatusOK, models.UserListResponse{Users: users})
}

// SetAdmin handles PUT /api/v1/admin/users/:id/admin
func (h *UserHandler) SetAdmin(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req models.SetAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": ParseValidationErrors(err),
		})
		return
	}

	user, err := h.service.SetAdmin(c.Request.Context(), id, *req.IsAdmin)
	if err != nil {
		respondServiceError(c, err, "Failed to update user")
		return
	}
	c.JSON(http.StatusOK, user)
}
