// Package httpserver exposes the ranking pipeline as a single callable tool
// over HTTP.
package httpserver

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/homescout/homescout/internal/middleware"
	"github.com/homescout/homescout/internal/monitoring"
)

// New builds the gin engine with the tool endpoint and operational routes.
func New(handler *RankHandler, metrics *monitoring.Collector, development bool) *gin.Engine {
	if !development {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.Logging(nil))
	router.Use(middleware.ErrorHandler())
	router.Use(otelgin.Middleware("homescout"))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST"},
		AllowHeaders:     []string{"Content-Type", "X-Correlation-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Correlation-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/metrics", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"metrics": metrics.Snapshot()})
	})

	v1 := router.Group("/v1")
	{
		v1.POST("/rank", handler.Rank)
	}

	return router
}
