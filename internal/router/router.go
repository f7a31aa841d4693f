package router

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"glrfill/internal/handler"
	"glrfill/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	logger *slog.Logger,
	allowedOrigins []string,
	fillH *handler.FillHandler,
	exportH *handler.ExportHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(allowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	// Upload page
	r.GET("/", handler.Index)

	v1 := r.Group("/api/v1")

	fill := v1.Group("/fill")
	fill.POST("", fillH.Fill)
	fill.POST("/download", fillH.Download)

	v1.POST("/fields/export", exportH.Export)

	return r
}
