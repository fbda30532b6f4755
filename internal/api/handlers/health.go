package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"jobprospect/internal/background"
	"jobprospect/internal/config"
	"jobprospect/internal/logging"
	"jobprospect/internal/search"
	"jobprospect/pkg/models"
	"jobprospect/pkg/utils"
)

var startTime = time.Now()

const serviceVersion = "1.0.0"

// HealthHandler handles health check requests
func HealthHandler(c echo.Context) error {
	requestID := utils.GenerateRequestID()
	logger := logging.GetGlobalLogger()

	logger.Debug("Health check requested", map[string]interface{}{"request_id": requestID})

	response := models.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   serviceVersion,
		Uptime:    time.Since(startTime),
		Checks: map[string]string{
			"api": "ok",
		},
	}

	return c.JSON(http.StatusOK, response)
}

// ReadinessHandler handles readiness probe requests
func ReadinessHandler(taskManager background.TaskManager) echo.HandlerFunc {
	return func(c echo.Context) error {
		checks := map[string]string{
			"api":   "ok",
			"tasks": "ok",
		}
		status := "ready"
		code := http.StatusOK
		if !taskManager.IsHealthy() {
			checks["tasks"] = "unavailable"
			status = "not_ready"
			code = http.StatusServiceUnavailable
		}

		return c.JSON(code, models.HealthResponse{
			Status:    status,
			Timestamp: time.Now(),
			Version:   serviceVersion,
			Uptime:    time.Since(startTime),
			Checks:    checks,
		})
	}
}

// LivenessHandler handles liveness probe requests
func LivenessHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, models.HealthResponse{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   serviceVersion,
		Uptime:    time.Since(startTime),
	})
}

// StatusHandler provides detailed service status: provider readiness and
// the currently running search, if any.
func StatusHandler(cfg *config.Config, orchestrator *search.Orchestrator, jobsReady func() bool) echo.HandlerFunc {
	return func(c echo.Context) error {
		providers := map[string]interface{}{
			"francetravail": map[string]interface{}{
				"credentials": cfg.HasFranceTravailCredentials(),
				"token":       jobsReady(),
			},
			"sirene": map[string]interface{}{
				"api_key": cfg.HasSireneAPIKey(),
			},
			"pappers": map[string]interface{}{
				"api_token": cfg.HasPappersAPIToken(),
			},
		}

		status := map[string]interface{}{
			"service":   "jobprospect",
			"version":   serviceVersion,
			"uptime":    time.Since(startTime).String(),
			"providers": providers,
		}
		if processID, running := orchestrator.Running(); running {
			status["active_search"] = processID
		}

		return c.JSON(http.StatusOK, status)
	}
}
