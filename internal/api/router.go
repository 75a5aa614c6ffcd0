package api

import (
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/publishing-content-api/internal/config"
	"github.com/publishing-content-api/internal/service"
)

// localhostOriginRegex matches development origins on any port
var localhostOriginRegex = regexp.MustCompile(`^http://(?:localhost|127\.0\.0\.1)(?::\d+)?$`)

// NewRouter creates and configures the Gin router
func NewRouter(services *service.Services, cfg *config.Config, log zerolog.Logger) *gin.Engine {
	// Set Gin mode
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Middleware
	router.Use(recoveryMiddleware(log))
	router.Use(loggingMiddleware(log))
	router.Use(corsMiddleware(cfg.CORS.AllowedOrigins))

	// Handlers
	articleHandler := NewArticleHandler(services, log)
	projectHandler := NewProjectHandler(services, log)
	adminHandler := NewAdminHandler(services, log)

	// Health check
	router.GET("/health", healthCheck)

	// Public read API
	apiGroup := router.Group("/api")
	{
		apiGroup.GET("/articles", articleHandler.List)
		apiGroup.GET("/articles/:slug", articleHandler.Detail)

		apiGroup.GET("/projects/categories", projectHandler.Categories)
		apiGroup.GET("/projects/:slug", projectHandler.ListByCategory)
		apiGroup.GET("/projects/detail/:slug", projectHandler.Detail)
	}

	// Admin API: content mutation and media upload. Authentication is left to
	// the deployment's reverse proxy.
	admin := router.Group("/admin")
	{
		admin.POST("/articles", adminHandler.CreateArticle)
		admin.PUT("/articles/:id", adminHandler.UpdateArticle)
		admin.DELETE("/articles/:id", adminHandler.DeleteArticle)

		admin.POST("/article-blocks", adminHandler.CreateArticleBlock)
		admin.PUT("/article-blocks/:id", adminHandler.UpdateArticleBlock)
		admin.DELETE("/article-blocks/:id", adminHandler.DeleteArticleBlock)

		admin.POST("/categories", adminHandler.CreateCategory)

		admin.POST("/projects", adminHandler.CreateProject)
		admin.PUT("/projects/:id", adminHandler.UpdateProject)
		admin.DELETE("/projects/:id", adminHandler.DeleteProject)

		admin.POST("/project-blocks", adminHandler.CreateProjectBlock)
		admin.PUT("/project-blocks/:id", adminHandler.UpdateProjectBlock)
		admin.DELETE("/project-blocks/:id", adminHandler.DeleteProjectBlock)

		admin.POST("/media", adminHandler.UploadMedia)
	}

	return router
}

// healthCheck returns the health status
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"service":   "publishing-content-api",
	})
}

// recoveryMiddleware handles panics
func recoveryMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().Interface("error", err).Msg("Panic recovered")
				c.JSON(http.StatusInternalServerError, gin.H{
					"error": "Internal server error",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// loggingMiddleware logs requests
func loggingMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		event := log.Info()
		if statusCode >= 400 {
			event = log.Warn()
		}
		if statusCode >= 500 {
			event = log.Error()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", statusCode).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Msg("Request completed")
	}
}

// corsMiddleware adds CORS headers for /api paths. Allowed origins are the
// configured production origins plus localhost/127.0.0.1 on any port; other
// origins get no CORS headers at all.
func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = true
	}

	return func(c *gin.Context) {
		if !strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.Next()
			return
		}

		origin := c.GetHeader("Origin")
		if origin != "" && (allowed[origin] || localhostOriginRegex.MatchString(origin)) {
			c.Header("Access-Control-Allow-Origin", origin)
			appendVary(c.Writer.Header(), "Origin")

			if c.Request.Method == http.MethodOptions {
				c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
				requestHeaders := c.GetHeader("Access-Control-Request-Headers")
				if requestHeaders == "" {
					requestHeaders = "Content-Type"
				}
				c.Header("Access-Control-Allow-Headers", requestHeaders)
				c.Header("Access-Control-Max-Age", "86400")
			}
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}

		c.Next()
	}
}

// appendVary adds a Vary header value without duplicating it
func appendVary(header http.Header, value string) {
	for _, existing := range header.Values("Vary") {
		for _, part := range strings.Split(existing, ",") {
			if strings.EqualFold(strings.TrimSpace(part), value) {
				return
			}
		}
	}
	header.Add("Vary", value)
}
