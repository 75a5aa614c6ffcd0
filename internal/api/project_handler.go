package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/publishing-content-api/internal/service"
)

// ProjectHandler serves the public portfolio endpoints
type ProjectHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(services *service.Services, log zerolog.Logger) *ProjectHandler {
	return &ProjectHandler{
		services: services,
		log:      log.With().Str("handler", "project").Logger(),
	}
}

// Categories returns all portfolio categories.
// GET /api/projects/categories
func (h *ProjectHandler) Categories(c *gin.Context) {
	categories, err := h.services.Project.ListCategories(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list categories")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, categories)
}

// ListByCategory returns a page of projects in one category.
// GET /api/projects/:slug?page=1&limit=10
func (h *ProjectHandler) ListByCategory(c *gin.Context) {
	slug := c.Param("slug")
	page := parsePage(c.Query("page"))
	limit := sanitizeLimit(c.Query("limit"))

	result, err := h.services.Project.ListByCategory(c.Request.Context(), slug, page, limit)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
			return
		}
		h.log.Error().Err(err).Str("category", slug).Msg("Failed to list projects")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// Detail returns the ordered content blocks of one project.
// GET /api/projects/detail/:slug
func (h *ProjectHandler) Detail(c *gin.Context) {
	slug := c.Param("slug")

	blocks, err := h.services.Project.GetDetailBlocks(c.Request.Context(), slug)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
			return
		}
		h.log.Error().Err(err).Str("slug", slug).Msg("Failed to get project")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, blocks)
}
