package handler

import (
	"net/http"

	"unitfinder/internal/repository"

	"github.com/gin-gonic/gin"
)

// RegistryHandler exposes registry snapshot information
type RegistryHandler struct {
	registry *repository.PostgresRegistry
}

// NewRegistryHandler creates a new registry handler
func NewRegistryHandler(registry *repository.PostgresRegistry) *RegistryHandler {
	return &RegistryHandler{registry: registry}
}

// Stats handles GET /api/v1/registry/stats
func (h *RegistryHandler) Stats(c *gin.Context) {
	stats, err := h.registry.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Registry unavailable: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}
