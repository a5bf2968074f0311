package api

import (
	"github.com/gin-gonic/gin"
	"github.com/timmy/clipforge/internal/api/handler"
	"github.com/timmy/clipforge/internal/api/middleware"
	"github.com/timmy/clipforge/internal/logger"
	"github.com/timmy/clipforge/internal/service"
)

// RouterConfig holds router configuration.
type RouterConfig struct {
	Mode string
	CORS middleware.CORSConfig
}

// SetupRouter configures the Gin router with all routes.
// Parameters:
//   - jobs: job lifecycle service.
//   - artifacts: artifact service.
//   - log: base logger for the request middleware.
//   - cfg: router configuration.
// Returns:
//   - *gin.Engine: configured router.
func SetupRouter(
	jobs *service.JobService,
	artifacts *service.ArtifactService,
	log *logger.Logger,
	cfg *RouterConfig,
) *gin.Engine {
	// Set Gin mode
	switch cfg.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()

	// Add middleware
	r.Use(gin.Recovery())
	r.Use(middleware.LoggerMiddleware(log))
	r.Use(middleware.CORS(cfg.CORS))

	// Create handlers
	healthHandler := handler.NewHealthHandler()
	jobHandler := handler.NewJobHandler(jobs, artifacts)
	clipHandler := handler.NewClipHandler(artifacts)

	// Health check
	r.GET("/health", healthHandler.Health)

	// Direct artifact downloads
	r.GET("/clips/:filename", clipHandler.Serve)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		// Jobs
		v1.POST("/jobs", jobHandler.Submit)
		v1.GET("/jobs/:id", jobHandler.Get)

		// Clip artifacts
		v1.GET("/clips", clipHandler.List)
		v1.DELETE("/clips/:filename", clipHandler.Delete)
	}

	return r
}
