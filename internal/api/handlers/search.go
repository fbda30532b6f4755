package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"jobprospect/internal/background"
	"jobprospect/internal/logging"
	"jobprospect/internal/providers"
	"jobprospect/internal/search"
	"jobprospect/pkg/models"
	"jobprospect/pkg/utils"
)

// StartSearchHandler accepts a search request and runs it in the
// background, answering immediately with the process ID to poll.
func StartSearchHandler(orchestrator *search.Orchestrator) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := utils.GenerateRequestID()
		logger := logging.GetGlobalLogger()

		var req models.SearchRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:     "invalid_request",
				Message:   "Invalid request format",
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		if err := validate.Struct(&req); err != nil {
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:     "validation_failed",
				Message:   err.Error(),
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		processID, err := orchestrator.Start(c.Request().Context(), req)
		if err != nil {
			switch {
			case errors.Is(err, search.ErrSearchInProgress):
				return c.JSON(http.StatusConflict, models.ErrorResponse{
					Error:     "search_in_progress",
					Message:   "A search is already running; stop it or wait for it to finish",
					RequestID: requestID,
					Timestamp: time.Now(),
				})
			case isConfigurationError(err):
				return c.JSON(http.StatusBadRequest, models.ErrorResponse{
					Error:     "configuration_error",
					Message:   err.Error(),
					RequestID: requestID,
					Timestamp: time.Now(),
				})
			default:
				logger.Error("Failed to start search", map[string]interface{}{
					"request_id": requestID,
					"error":      err.Error(),
				})
				return c.JSON(http.StatusInternalServerError, models.ErrorResponse{
					Error:     "search_start_failed",
					Message:   err.Error(),
					RequestID: requestID,
					Timestamp: time.Now(),
				})
			}
		}

		return c.JSON(http.StatusAccepted, models.SearchAcceptedResponse{
			ProcessID: processID,
			Status:    models.SearchStatusAccepted,
			Message:   "Search accepted for background processing",
			Timestamp: time.Now(),
		})
	}
}

// SearchStatusHandler reports the state and progress of a search.
func SearchStatusHandler(orchestrator *search.Orchestrator) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := utils.GenerateRequestID()
		processID := c.Param("id")

		status, err := orchestrator.Status(c.Request().Context(), processID)
		if err != nil {
			if errors.Is(err, background.ErrTaskNotFound) {
				return c.JSON(http.StatusNotFound, models.ErrorResponse{
					Error:     "not_found",
					Message:   "No search with this process ID",
					RequestID: requestID,
					Timestamp: time.Now(),
				})
			}
			return c.JSON(http.StatusInternalServerError, models.ErrorResponse{
				Error:     "status_lookup_failed",
				Message:   err.Error(),
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		return c.JSON(http.StatusOK, status)
	}
}

// StopSearchHandler requests cooperative cancellation of a running search.
func StopSearchHandler(orchestrator *search.Orchestrator) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := utils.GenerateRequestID()
		processID := c.Param("id")

		if err := orchestrator.Stop(processID); err != nil {
			if errors.Is(err, background.ErrTaskNotFound) {
				return c.JSON(http.StatusNotFound, models.ErrorResponse{
					Error:     "not_found",
					Message:   "No running search with this process ID",
					RequestID: requestID,
					Timestamp: time.Now(),
				})
			}
			return c.JSON(http.StatusInternalServerError, models.ErrorResponse{
				Error:     "stop_failed",
				Message:   err.Error(),
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		return c.JSON(http.StatusAccepted, map[string]interface{}{
			"processId": processID,
			"message":   "Cancellation requested; the search stops at the next batch boundary",
			"timestamp": time.Now(),
		})
	}
}

func isConfigurationError(err error) bool {
	var cfgErr *providers.ConfigurationError
	return errors.As(err, &cfgErr)
}
