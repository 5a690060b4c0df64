package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tradeacademy/tradeacademy-api/internal/models"
	"github.com/tradeacademy/tradeacademy-api/internal/services"
	"github.com/tradeacademy/tradeacademy-api/internal/validation"
)

// AuthHandler exposes the login endpoint. It sits outside the bearer guard:
// an expired session must still be able to log in again.
type AuthHandler struct {
	service *services.AuthService
}

// NewAuthHandler creates the auth handler
func NewAuthHandler(service *services.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	result := validation.LoginSchema.Validate(validation.FormData{
		"email":    req.Email,
		"password": req.Password,
	})
	if !result.Success {
		respondValidationErrors(c, result.Errors)
		return
	}

	resp, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			respondError(c, http.StatusUnauthorized, "Invalid email or password", err)
			return
		}
		respondServiceError(c, err, "Failed to log in")
		return
	}

	c.JSON(http.StatusOK, resp)
}
