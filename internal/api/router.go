package api

import (
	"context"
	"net/http"
	"time"

	"github.com/card-builder/internal/config"
	"github.com/card-builder/internal/form"
	"github.com/card-builder/internal/models"
	"github.com/card-builder/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const requestIDHeader = "X-Request-ID"

// NewRouter creates and configures the Gin router
func NewRouter(services *service.Services, cfg *config.Config, log zerolog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	// employee codes may contain an escaped "/"; match on the raw path and unescape params
	router.UseRawPath = true
	router.UnescapePathValues = true

	router.Use(recoveryMiddleware(log))
	router.Use(requestIDMiddleware())
	router.Use(loggingMiddleware(log))
	router.Use(corsMiddleware())

	cardHandler := NewCardHandler(services, log)
	shareHandler := NewShareHandler(services, cfg, log)

	router.GET("/health", healthCheck(services, log))
	router.GET("/metrics", metricsHandler(services))

	// public locator for a saved card
	router.GET("/view/:employee_code", shareHandler.ViewCard)

	v1 := router.Group("/v1")
	{
		v1.GET("/themes", listThemes)

		drafts := v1.Group("/drafts")
		{
			drafts.GET("/new", newDraft)
			drafts.POST("/preview", shareHandler.PreviewDraft)
		}

		cards := v1.Group("/cards")
		{
			cards.GET("", cardHandler.ListCards)
			cards.POST("", cardHandler.SaveCard)
			cards.GET("/:employee_code", cardHandler.GetCard)
			cards.PATCH("/:employee_code", cardHandler.EditCard)
			cards.DELETE("/:employee_code", cardHandler.DeleteCard)
			cards.PUT("/:employee_code/images/:slot", cardHandler.UploadImage)
			cards.DELETE("/:employee_code/images/:slot", cardHandler.RemoveImage)
			cards.GET("/:employee_code/vcard", shareHandler.DownloadVCard)
			cards.GET("/:employee_code/qr", shareHandler.DownloadQR)
		}

		v1.POST("/vcard", shareHandler.DraftVCard)
		v1.POST("/qr", shareHandler.DraftQR)
	}

	return router
}

// healthCheck returns the health status, pinging the storage backend when it supports it
func healthCheck(services *service.Services, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		status, code := "healthy", http.StatusOK
		if services.Health != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := services.Health.HealthCheck(ctx); err != nil {
				log.Error().Err(err).Msg("Storage health check failed")
				status, code = "unhealthy", http.StatusServiceUnavailable
			}
		}

		c.JSON(code, gin.H{
			"status":    status,
			"timestamp": time.Now().Format(time.RFC3339),
			"service":   "card-builder",
			"backend":   services.Backend,
		})
	}
}

// metricsHandler returns the stored card count
func metricsHandler(services *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		count := 0
		collection, err := services.Cards.Load(c.Request.Context())
		if err == nil {
			count = collection.Len()
		}

		c.JSON(http.StatusOK, gin.H{
			"storage": gin.H{
				"backend":   services.Backend,
				"cards":     count,
				"available": err == nil,
			},
			"timestamp": time.Now().Format(time.RFC3339),
		})
	}
}

// listThemes returns the theme catalog
func listThemes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"themes":  models.Themes(),
		"default": models.DefaultTheme,
	})
}

// newDraft returns an empty draft card
func newDraft(c *gin.Context) {
	c.JSON(http.StatusOK, form.Reset())
}

// recoveryMiddleware handles panics
func recoveryMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().Interface("error", err).Str("path", c.Request.URL.Path).Msg("Panic recovered")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": "Internal server error",
				})
			}
		}()
		c.Next()
	}
}

// requestIDMiddleware propagates or assigns a request id
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Writer.Header().Set(requestIDHeader, id)
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
			Str("request_id", c.GetString("request_id")).
			Msg("Request completed")
	}
}

// corsMiddleware handles CORS
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+requestIDHeader)
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Disposition, "+requestIDHeader)

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
