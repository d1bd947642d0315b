package http

import (
	"github.com/chemsearch/backend/config"
	"github.com/chemsearch/backend/internal/observability"
	"github.com/gin-gonic/gin"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, logger *observability.Logger) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if logger == nil {
		logger = observability.Nop()
	}

	router := gin.New()

	// Global middleware
	router.Use(RequestIDMiddleware())
	router.Use(RecoveryMiddleware(logger))
	router.Use(LoggerMiddleware(logger))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	router.GET("/health", handler.HealthCheck)

	v1 := router.Group("/api/v1")
	v1.Use(RateLimitMiddleware(cfg.RateLimit.PerIP))
	{
		products := v1.Group("/products")
		{
			products.POST("/build", handler.BuildProducts)
			products.POST("/snapshots", handler.CreateSnapshot)
			products.POST("/snapshots/:id/build", handler.BuildSnapshot)
		}

		currency := v1.Group("/currency")
		{
			currency.GET("/rate", handler.CurrencyRate)
		}
	}

	return router
}
