package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/publishing-content-api/internal/service"
)

// ArticleHandler serves the public article endpoints
type ArticleHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewArticleHandler creates a new article handler
func NewArticleHandler(services *service.Services, log zerolog.Logger) *ArticleHandler {
	return &ArticleHandler{
		services: services,
		log:      log.With().Str("handler", "article").Logger(),
	}
}

// List returns a page of published articles, newest first.
// GET /api/articles?page=1&limit=10
func (h *ArticleHandler) List(c *gin.Context) {
	page := parsePage(c.Query("page"))
	limit := sanitizeLimit(c.Query("limit"))

	result, err := h.services.Article.ListPublished(c.Request.Context(), page, limit)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list articles")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// Detail returns the full render context of one published article.
// GET /api/articles/:slug
func (h *ArticleHandler) Detail(c *gin.Context) {
	slug := c.Param("slug")

	result, err := h.services.Article.GetDetail(c.Request.Context(), slug)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
			return
		}
		h.log.Error().Err(err).Str("slug", slug).Msg("Failed to get article")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// parsePage reads a 1-based page number, defaulting to 1 on absent or
// malformed input. Out-of-range values are clamped by the service.
func parsePage(raw string) int {
	page, err := strconv.Atoi(raw)
	if err != nil {
		return 1
	}
	return page
}

// sanitizeLimit reads a page size, defaulting to 10 and clamping to [1, 100]
func sanitizeLimit(raw string) int {
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return service.DefaultLimit
	}
	if limit < 1 {
		return 1
	}
	if limit > service.MaxLimit {
		return service.MaxLimit
	}
	return limit
}
