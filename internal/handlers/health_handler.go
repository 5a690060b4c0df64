package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports service readiness. The database ping gates the
// status: without it every admin view is down anyway. The catalog cache
// count rides along for operators watching warm-up after a deploy.
type HealthHandler struct {
	pingDB     func(ctx context.Context) error
	cacheItems func() int
}

// NewHealthHandler creates the health handler
func NewHealthHandler(pingDB func(ctx context.Context) error, cacheItems func() int) *HealthHandler {
	return &HealthHandler{pingDB: pingDB, cacheItems: cacheItems}
}

// Healthcheck handles GET /api/healthcheck
func (h *HealthHandler) Healthcheck(c *gin.Context) {
	c.Header("Cache-Control", "no-cache, no-store, max-age=0, must-revalidate")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.pingDB(ctx); err != nil {
		attachError(c, err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unavailable",
			"reason": "database unreachable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":       "ok",
		"cached_items": h.cacheItems(),
	})
}
