package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/tradeacademy/tradeacademy-api/pkg/errors"
	"github.com/tradeacademy/tradeacademy-api/pkg/logger"
	"go.uber.org/zap"
)

// attachError attaches err to the gin context so the observability middleware
// can include the reason in the request log. c.Error() returns *gin.Error (not
// the error interface), so we suppress errcheck here intentionally.
func attachError(c *gin.Context, err error) {
	if err != nil {
		_ = c.Error(err) //nolint:errcheck
	}
}

// respondError sends an error JSON response and attaches the error to the gin
// context so the observability middleware can include the reason in the log.
// Server faults also get logged here with the underlying error, since the
// response body only carries the sanitized message.
func respondError(c *gin.Context, status int, message string, err error) {
	attachError(c, err)
	if status >= http.StatusInternalServerError {
		logger.LogError(err, message, zap.String("path", c.FullPath()))
	}
	c.JSON(status, gin.H{"error": message})
}

// respondValidationErrors sends the per-field error map produced by schema
// validation. The client renders these messages next to the form controls.
func respondValidationErrors(c *gin.Context, errors map[string]string) {
	c.JSON(http.StatusBadRequest, gin.H{"errors": errors})
}

// respondServiceError maps domain errors to HTTP statuses
func respondServiceError(c *gin.Context, err error, fallback string) {
	switch {
	case apperrors.Is(err, apperrors.ErrNotFound):
		respondError(c, http.StatusNotFound, err.Error(), err)
	case apperrors.Is(err, apperrors.ErrInvalidInput):
		respondError(c, http.StatusBadRequest, err.Error(), err)
	case apperrors.Is(err, apperrors.ErrConflict):
		respondError(c, http.StatusConflict, err.Error(), err)
	case apperrors.Is(err, apperrors.ErrAccessDenied):
		respondError(c, http.StatusForbidden, err.Error(), err)
	case apperrors.Is(err, apperrors.ErrUnauthorized):
		respondError(c, http.StatusUnauthorized, err.Error(), err)
	default:
		respondError(c, http.StatusInternalServerError, fallback, err)
	}
}
