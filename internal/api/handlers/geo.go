package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"jobprospect/internal/geo"
	"jobprospect/pkg/models"
	"jobprospect/pkg/utils"
)

// RegionsHandler lists all known region names.
func RegionsHandler(c echo.Context) error {
	regions := geo.AllRegions()
	return c.JSON(http.StatusOK, models.RegionsResponse{
		Regions: regions,
		Count:   len(regions),
	})
}

// RegionDepartmentsHandler lists the department codes of one region.
func RegionDepartmentsHandler(c echo.Context) error {
	region := c.Param("region")

	departments := geo.DepartmentsOf(region)
	if len(departments) == 0 {
		return c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:     "not_found",
			Message:   "Unknown region",
			RequestID: utils.GenerateRequestID(),
			Timestamp: time.Now(),
		})
	}

	return c.JSON(http.StatusOK, models.DepartmentsResponse{
		Region:      region,
		Departments: departments,
		Count:       len(departments),
	})
}

// DepartmentsHandler lists every department code, metropolitan and overseas.
func DepartmentsHandler(c echo.Context) error {
	departments := geo.AllDepartments()
	return c.JSON(http.StatusOK, models.DepartmentsResponse{
		Departments: departments,
		Count:       len(departments),
	})
}
