package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"jobprospect/internal/aggregator"
	"jobprospect/internal/config"
	"jobprospect/internal/exporter"
	"jobprospect/pkg/models"
	"jobprospect/pkg/utils"
)

// Export kinds accepted via the "type" query parameter.
const (
	exportKindCompanies = "companies"
	exportKindJobs      = "jobs"
)

// ExportCSVHandler streams the result set as a CSV attachment. The "type"
// query parameter picks companies (default) or job offers.
func ExportCSVHandler(cfg *config.Config, agg *aggregator.Aggregator, exp *exporter.Exporter) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := utils.GenerateRequestID()

		kind := c.QueryParam("type")
		if kind == "" {
			kind = exportKindCompanies
		}

		var (
			data []byte
			err  error
		)
		switch kind {
		case exportKindCompanies:
			data, err = exp.CompaniesCSV(agg.Companies())
		case exportKindJobs:
			data, err = exp.JobOffersCSV(agg.JobOffers())
		default:
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:     "invalid_request",
				Message:   "type must be companies or jobs",
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}
		if err != nil {
			return exportError(c, requestID, err)
		}

		c.Response().Header().Set(echo.HeaderContentDisposition,
			`attachment; filename="`+cfg.Export.DefaultCSVName+`"`)
		return c.Blob(http.StatusOK, "text/csv; charset=utf-8", data)
	}
}

// ExportJSONHandler streams the result set as a pretty-printed JSON
// attachment.
func ExportJSONHandler(cfg *config.Config, agg *aggregator.Aggregator, exp *exporter.Exporter) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := utils.GenerateRequestID()

		kind := c.QueryParam("type")
		if kind == "" {
			kind = exportKindCompanies
		}

		var (
			data []byte
			err  error
		)
		switch kind {
		case exportKindCompanies:
			data, err = exp.CompaniesJSON(agg.Companies())
		case exportKindJobs:
			data, err = exp.JobOffersJSON(agg.JobOffers())
		default:
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:     "invalid_request",
				Message:   "type must be companies or jobs",
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}
		if err != nil {
			return exportError(c, requestID, err)
		}

		c.Response().Header().Set(echo.HeaderContentDisposition,
			`attachment; filename="`+cfg.Export.DefaultJSONName+`"`)
		return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, data)
	}
}

func exportError(c echo.Context, requestID string, err error) error {
	if errors.Is(err, exporter.ErrNothingToExport) {
		return c.JSON(http.StatusConflict, models.ErrorResponse{
			Error:     "nothing_to_export",
			Message:   "No records collected yet; run a search first",
			RequestID: requestID,
			Timestamp: time.Now(),
		})
	}
	return c.JSON(http.StatusInternalServerError, models.ErrorResponse{
		Error:     "export_failed",
		Message:   err.Error(),
		RequestID: requestID,
		Timestamp: time.Now(),
	})
}
