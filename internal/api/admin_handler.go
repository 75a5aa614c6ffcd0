package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/publishing-content-api/internal/models"
	"github.com/publishing-content-api/internal/service"
	"github.com/publishing-content-api/internal/storage"
	"github.com/publishing-content-api/internal/validation"
)

// maxUploadSize limits media uploads to 50 MB
const maxUploadSize = 50 << 20

// AdminHandler serves the content mutation endpoints
type AdminHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(services *service.Services, log zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		services: services,
		log:      log.With().Str("handler", "admin").Logger(),
	}
}

// CreateArticle handles POST /admin/articles
func (h *AdminHandler) CreateArticle(c *gin.Context) {
	var article models.Article
	if err := c.ShouldBindJSON(&article); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	created, err := h.services.Article.CreateArticle(c.Request.Context(), &article)
	if err != nil {
		h.respondServiceError(c, err, "Failed to create article")
		return
	}

	c.JSON(http.StatusCreated, created)
}

// UpdateArticle handles PUT /admin/articles/:id
func (h *AdminHandler) UpdateArticle(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var article models.Article
	if err := c.ShouldBindJSON(&article); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	updated, err := h.services.Article.UpdateArticle(c.Request.Context(), id, &article)
	if err != nil {
		h.respondServiceError(c, err, "Failed to update article")
		return
	}

	c.JSON(http.StatusOK, updated)
}

// DeleteArticle handles DELETE /admin/articles/:id
func (h *AdminHandler) DeleteArticle(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.services.Article.DeleteArticle(c.Request.Context(), id); err != nil {
		h.respondServiceError(c, err, "Failed to delete article")
		return
	}

	c.Status(http.StatusNoContent)
}

// CreateArticleBlock handles POST /admin/article-blocks
func (h *AdminHandler) CreateArticleBlock(c *gin.Context) {
	var block models.ArticleBlock
	if err := c.ShouldBindJSON(&block); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	created, err := h.services.Article.CreateBlock(c.Request.Context(), &block)
	if err != nil {
		h.respondServiceError(c, err, "Failed to create article block")
		return
	}

	c.JSON(http.StatusCreated, created)
}

// UpdateArticleBlock handles PUT /admin/article-blocks/:id
func (h *AdminHandler) UpdateArticleBlock(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var block models.ArticleBlock
	if err := c.ShouldBindJSON(&block); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	updated, err := h.services.Article.UpdateBlock(c.Request.Context(), id, &block)
	if err != nil {
		h.respondServiceError(c, err, "Failed to update article block")
		return
	}

	c.JSON(http.StatusOK, updated)
}

// DeleteArticleBlock handles DELETE /admin/article-blocks/:id
func (h *AdminHandler) DeleteArticleBlock(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.services.Article.DeleteBlock(c.Request.Context(), id); err != nil {
		h.respondServiceError(c, err, "Failed to delete article block")
		return
	}

	c.Status(http.StatusNoContent)
}

// CreateCategory handles POST /admin/categories
func (h *AdminHandler) CreateCategory(c *gin.Context) {
	var category models.ProjectCategory
	if err := c.ShouldBindJSON(&category); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	created, err := h.services.Project.CreateCategory(c.Request.Context(), &category)
	if err != nil {
		h.respondServiceError(c, err, "Failed to create category")
		return
	}

	c.JSON(http.StatusCreated, created)
}

// CreateProject handles POST /admin/projects
func (h *AdminHandler) CreateProject(c *gin.Context) {
	var project models.Project
	if err := c.ShouldBindJSON(&project); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	created, err := h.services.Project.CreateProject(c.Request.Context(), &project)
	if err != nil {
		h.respondServiceError(c, err, "Failed to create project")
		return
	}

	c.JSON(http.StatusCreated, created)
}

// UpdateProject handles PUT /admin/projects/:id
func (h *AdminHandler) UpdateProject(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var project models.Project
	if err := c.ShouldBindJSON(&project); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	updated, err := h.services.Project.UpdateProject(c.Request.Context(), id, &project)
	if err != nil {
		h.respondServiceError(c, err, "Failed to update project")
		return
	}

	c.JSON(http.StatusOK, updated)
}

// DeleteProject handles DELETE /admin/projects/:id
func (h *AdminHandler) DeleteProject(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.services.Project.DeleteProject(c.Request.Context(), id); err != nil {
		h.respondServiceError(c, err, "Failed to delete project")
		return
	}

	c.Status(http.StatusNoContent)
}

// CreateProjectBlock handles POST /admin/project-blocks
func (h *AdminHandler) CreateProjectBlock(c *gin.Context) {
	var block models.ProjectBlock
	if err := c.ShouldBindJSON(&block); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	created, err := h.services.Project.CreateBlock(c.Request.Context(), &block)
	if err != nil {
		h.respondServiceError(c, err, "Failed to create project block")
		return
	}

	c.JSON(http.StatusCreated, created)
}

// UpdateProjectBlock handles PUT /admin/project-blocks/:id
func (h *AdminHandler) UpdateProjectBlock(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var block models.ProjectBlock
	if err := c.ShouldBindJSON(&block); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	updated, err := h.services.Project.UpdateBlock(c.Request.Context(), id, &block)
	if err != nil {
		h.respondServiceError(c, err, "Failed to update project block")
		return
	}

	c.JSON(http.StatusOK, updated)
}

// DeleteProjectBlock handles DELETE /admin/project-blocks/:id
func (h *AdminHandler) DeleteProjectBlock(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.services.Project.DeleteBlock(c.Request.Context(), id); err != nil {
		h.respondServiceError(c, err, "Failed to delete project block")
		return
	}

	c.Status(http.StatusNoContent)
}

// UploadMedia handles POST /admin/media. It accepts a multipart form with a
// "file" field and an optional "folder" field, and returns the public URL of
// the stored object.
func (h *AdminHandler) UploadMedia(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A file field is required"})
		return
	}
	defer file.Close()

	folder := c.PostForm("folder")
	if folder == "" {
		folder = storage.DefaultFolder
	}

	url, err := h.services.Media.Upload(c.Request.Context(), header.Filename, file, folder)
	if err != nil {
		if errors.Is(err, storage.ErrUploadFailed) {
			h.log.Error().Err(err).Str("filename", header.Filename).Msg("Media upload failed")
			c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to upload media"})
			return
		}
		h.respondServiceError(c, err, "Failed to upload media")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"url": url})
}

// respondServiceError maps service errors to HTTP responses
func (h *AdminHandler) respondServiceError(c *gin.Context, err error, msg string) {
	if verr, ok := validation.AsError(err); ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "Validation failed",
			"fields": verr.Fields,
		})
		return
	}
	if errors.Is(err, service.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}

	h.log.Error().Err(err).Msg(msg)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}

// parseID reads a numeric path parameter, writing a 400 response on failure
func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return 0, false
	}
	return id, true
}
