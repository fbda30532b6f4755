package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"jobprospect/internal/aggregator"
	"jobprospect/internal/api/handlers"
	"jobprospect/internal/api/middleware"
	"jobprospect/internal/background"
	"jobprospect/internal/config"
	"jobprospect/internal/exporter"
	"jobprospect/internal/providers/francetravail"
	"jobprospect/internal/search"
)

// SetupRoutes configures all API routes
func SetupRoutes(
	e *echo.Echo,
	cfg *config.Config,
	jobs *francetravail.Client,
	orchestrator *search.Orchestrator,
	agg *aggregator.Aggregator,
	exp *exporter.Exporter,
	taskManager background.TaskManager,
) {
	// Global middleware
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(middleware.CORSConfig())
	e.Use(middleware.TimeoutConfig(cfg.Server.ReadTimeout))

	// Health check routes
	health := e.Group("/health")
	{
		health.GET("", handlers.HealthHandler)
		health.GET("/ready", handlers.ReadinessHandler(taskManager))
		health.GET("/live", handlers.LivenessHandler)
	}

	// Status route
	e.GET("/status", handlers.StatusHandler(cfg, orchestrator, jobs.HasToken))

	// API v1 routes
	v1 := e.Group("/api/v1")
	{
		v1.POST("/auth/token", handlers.TokenHandler(cfg, jobs))

		// Search lifecycle
		v1.POST("/search", handlers.StartSearchHandler(orchestrator))
		v1.GET("/search/:id", handlers.SearchStatusHandler(orchestrator))
		v1.POST("/search/:id/stop", handlers.StopSearchHandler(orchestrator))

		// Accumulated results
		v1.GET("/results", handlers.ResultsHandler(agg))
		v1.DELETE("/results", handlers.ClearResultsHandler(agg))

		// Exports
		export := v1.Group("/export")
		{
			export.GET("/csv", handlers.ExportCSVHandler(cfg, agg, exp))
			export.GET("/json", handlers.ExportJSONHandler(cfg, agg, exp))
		}

		// Geographic lookups
		v1.GET("/regions", handlers.RegionsHandler)
		v1.GET("/regions/:region/departments", handlers.RegionDepartmentsHandler)
		v1.GET("/departments", handlers.DepartmentsHandler)
	}

	// Root route
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"service": "JobProspect",
			"version": "1.0.0",
			"status":  "running",
		})
	})
}
