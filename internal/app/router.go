package app

import (
	"readiness_backend/internal/config"
	"readiness_backend/internal/middleware"
	"readiness_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	router.GET("/metrics", monitoring.PrometheusHandler())

	api := router.Group("/api")
	{
		api.GET("/health", c.health.HealthCheck)

		assessment := api.Group("/assessment")
		{
			assessment.POST("/submit", c.assessment.Submit)
			assessment.GET("/:id", c.assessment.Get)
			assessment.PATCH("/:id/claim", middleware.AuthMiddleware(cfg), c.assessment.Claim)
		}

		api.POST("/webhooks/mailgun", c.webhook.Mailgun)
	}
}
