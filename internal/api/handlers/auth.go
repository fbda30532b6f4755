package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"jobprospect/internal/config"
	"jobprospect/internal/logging"
	"jobprospect/internal/providers"
	"jobprospect/internal/providers/francetravail"
	"jobprospect/pkg/models"
	"jobprospect/pkg/utils"
)

var validate = validator.New()

// TokenHandler exchanges France Travail client credentials for an access
// token. The token stays in process memory; the response only confirms the
// exchange.
func TokenHandler(cfg *config.Config, jobs *francetravail.Client) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := utils.GenerateRequestID()
		logger := logging.GetGlobalLogger()

		var req models.TokenRequest
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

		if err := jobs.Authenticate(c.Request().Context(), req.ClientID, req.ClientSecret); err != nil {
			var authErr *providers.AuthenticationError
			if errors.As(err, &authErr) {
				logger.Warn("Token exchange rejected", map[string]interface{}{
					"request_id":  requestID,
					"status_code": authErr.StatusCode,
				})
				return c.JSON(http.StatusUnauthorized, models.ErrorResponse{
					Error:     "authentication_failed",
					Message:   "France Travail rejected the credentials",
					RequestID: requestID,
					Timestamp: time.Now(),
				})
			}
			logger.Error("Token exchange failed", map[string]interface{}{
				"request_id": requestID,
				"error":      err.Error(),
			})
			return c.JSON(http.StatusBadGateway, models.ErrorResponse{
				Error:     "token_exchange_failed",
				Message:   err.Error(),
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		return c.JSON(http.StatusOK, models.TokenResponse{
			Authenticated: true,
			Scope:         cfg.FranceTravail.Scope,
			Timestamp:     time.Now(),
		})
	}
}
