package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobprospect/internal/aggregator"
	"jobprospect/internal/background"
	"jobprospect/internal/config"
	"jobprospect/internal/exporter"
	"jobprospect/internal/providers/francetravail"
	"jobprospect/internal/providers/pappers"
	"jobprospect/internal/providers/sirene"
	"jobprospect/internal/search"
	"jobprospect/pkg/models"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.LoadConfig("")
	require.NoError(t, err)
	return cfg
}

func testOrchestrator(t *testing.T, cfg *config.Config) (*search.Orchestrator, *aggregator.Aggregator) {
	t.Helper()
	agg := aggregator.New()
	tasks := background.NewTaskManager(cfg)
	orchestrator := search.NewOrchestrator(cfg,
		francetravail.NewClient(cfg), sirene.NewClient(cfg), pappers.NewClient(cfg), agg, tasks)
	return orchestrator, agg
}

func doRequest(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHealthHandler(t *testing.T) {
	e := echo.New()
	e.GET("/health", HealthHandler)

	rec := doRequest(e, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp models.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
}

func TestRegionsHandler(t *testing.T) {
	e := echo.New()
	e.GET("/regions", RegionsHandler)

	rec := doRequest(e, http.MethodGet, "/regions", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp models.RegionsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 18, resp.Count)
	assert.Contains(t, resp.Regions, "Bretagne")
}

func TestRegionDepartmentsHandler(t *testing.T) {
	e := echo.New()
	e.GET("/regions/:region/departments", RegionDepartmentsHandler)

	rec := doRequest(e, http.MethodGet, "/regions/Corse/departments", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp models.DepartmentsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.ElementsMatch(t, []string{"2A", "2B"}, resp.Departments)

	rec = doRequest(e, http.MethodGet, "/regions/Atlantide/departments", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestResultsHandlerRoundTrip(t *testing.T) {
	agg := aggregator.New()
	agg.AddJobOffer(models.JobOffer{ID: "1", Title: "Dev"})
	agg.AddCompany(models.Company{Siren: "552032534", Name: "ACME"})

	e := echo.New()
	e.GET("/results", ResultsHandler(agg))
	e.DELETE("/results", ClearResultsHandler(agg))

	rec := doRequest(e, http.MethodGet, "/results", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp models.ResultsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Total)
	require.Len(t, resp.JobOffers, 1)
	require.Len(t, resp.Companies, 1)

	rec = doRequest(e, http.MethodDelete, "/results", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	jobOffers, companies := agg.Counts()
	assert.Zero(t, jobOffers)
	assert.Zero(t, companies)
}

func TestExportCSVEmptyConflict(t *testing.T) {
	cfg := testConfig(t)
	agg := aggregator.New()
	exp := exporter.New(cfg.Export.CSVSeparator)

	e := echo.New()
	e.GET("/export/csv", ExportCSVHandler(cfg, agg, exp))

	rec := doRequest(e, http.MethodGet, "/export/csv", "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "nothing_to_export", resp.Error)
}

func TestExportCSVCompaniesAttachment(t *testing.T) {
	cfg := testConfig(t)
	agg := aggregator.New()
	agg.AddCompany(models.Company{Siren: "552032534", Name: "ACME"})
	exp := exporter.New(cfg.Export.CSVSeparator)

	e := echo.New()
	e.GET("/export/csv", ExportCSVHandler(cfg, agg, exp))

	rec := doRequest(e, http.MethodGet, "/export/csv", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "resultats_entreprises.csv")
	assert.True(t, strings.HasPrefix(rec.Body.String(), "Nom entreprise;"))
	assert.Contains(t, rec.Body.String(), "ACME")
}

func TestExportJSONJobs(t *testing.T) {
	cfg := testConfig(t)
	agg := aggregator.New()
	agg.AddJobOffer(models.JobOffer{ID: "1", Title: "Dev"})
	exp := exporter.New(cfg.Export.CSVSeparator)

	e := echo.New()
	e.GET("/export/json", ExportJSONHandler(cfg, agg, exp))

	rec := doRequest(e, http.MethodGet, "/export/json?type=jobs", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	var offers []models.JobOffer
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &offers))
	require.Len(t, offers, 1)
	assert.Equal(t, "Dev", offers[0].Title)
}

func TestExportInvalidKind(t *testing.T) {
	cfg := testConfig(t)
	agg := aggregator.New()
	exp := exporter.New(cfg.Export.CSVSeparator)

	e := echo.New()
	e.GET("/export/csv", ExportCSVHandler(cfg, agg, exp))

	rec := doRequest(e, http.MethodGet, "/export/csv?type=bogus", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStartSearchValidation(t *testing.T) {
	cfg := testConfig(t)
	orchestrator, _ := testOrchestrator(t, cfg)

	e := echo.New()
	e.POST("/search", StartSearchHandler(orchestrator))

	tests := []struct {
		name string
		body string
	}{
		{"missing type", `{"scope":"metropolitan"}`},
		{"bad type", `{"type":"bogus","scope":"metropolitan"}`},
		{"bad scope", `{"type":"jobs","scope":"galaxy"}`},
		{"region scope without region", `{"type":"jobs","scope":"region"}`},
		{"malformed json", `{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(e, http.MethodPost, "/search", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestSearchStatusNotFound(t *testing.T) {
	cfg := testConfig(t)
	orchestrator, _ := testOrchestrator(t, cfg)

	e := echo.New()
	e.GET("/search/:id", SearchStatusHandler(orchestrator))

	rec := doRequest(e, http.MethodGet, "/search/unknown-id", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStopSearchNotFound(t *testing.T) {
	cfg := testConfig(t)
	orchestrator, _ := testOrchestrator(t, cfg)

	e := echo.New()
	e.POST("/search/:id/stop", StopSearchHandler(orchestrator))

	rec := doRequest(e, http.MethodPost, "/search/unknown-id/stop", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTokenHandler(t *testing.T) {
	tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if r.PostForm.Get("client_id") == "good-id" {
			fmt.Fprint(w, `{"access_token":"tok","scope":"api_offresdemploiv2"}`)
			return
		}
		http.Error(w, `{"error":"invalid_client"}`, http.StatusBadRequest)
	}))
	defer tokenServer.Close()

	cfg := testConfig(t)
	cfg.FranceTravail.TokenURL = tokenServer.URL
	jobs := francetravail.NewClient(cfg)

	e := echo.New()
	e.POST("/auth/token", TokenHandler(cfg, jobs))

	rec := doRequest(e, http.MethodPost, "/auth/token", `{"client_id":"good-id","client_secret":"s"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp models.TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Authenticated)
	assert.True(t, jobs.HasToken())

	rec = doRequest(e, http.MethodPost, "/auth/token", `{"client_id":"bad-id","client_secret":"s"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(e, http.MethodPost, "/auth/token", `{"client_id":"only-id"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
