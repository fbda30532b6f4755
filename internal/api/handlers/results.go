package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"jobprospect/internal/aggregator"
	"jobprospect/internal/logging"
	"jobprospect/pkg/models"
)

// ResultsHandler returns the accumulated result set of the latest search.
func ResultsHandler(agg *aggregator.Aggregator) echo.HandlerFunc {
	return func(c echo.Context) error {
		jobOffers := agg.JobOffers()
		companies := agg.Companies()

		return c.JSON(http.StatusOK, models.ResultsResponse{
			JobOffers: jobOffers,
			Companies: companies,
			Total:     len(jobOffers) + len(companies),
		})
	}
}

// ClearResultsHandler drops the accumulated result set.
func ClearResultsHandler(agg *aggregator.Aggregator) echo.HandlerFunc {
	return func(c echo.Context) error {
		jobOffers, companies := agg.Counts()
		agg.Clear()

		logging.GetGlobalLogger().Info("Result set cleared", map[string]interface{}{
			"job_offers": jobOffers,
			"companies":  companies,
		})
		return c.NoContent(http.StatusNoContent)
	}
}
