package pappers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobprospect/internal/config"
	"jobprospect/internal/providers"
	"jobprospect/pkg/models"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.LoadConfig("")
	require.NoError(t, err)
	cfg.Pappers.APIToken = "test-token"
	return cfg
}

func intPtr(v int) *int { return &v }

func TestSearchCompaniesRequiresToken(t *testing.T) {
	cfg := testConfig(t)
	cfg.Pappers.APIToken = ""
	client := NewClient(cfg)

	_, err := client.SearchCompanies(context.Background(), models.NewEnrichmentCriteria())

	var cfgErr *providers.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
}

func TestBuildSearchQuery(t *testing.T) {
	cfg := testConfig(t)
	client := NewClient(cfg)

	criteria := models.NewEnrichmentCriteria()
	criteria.Query = "conseil"
	criteria.Department = "75"
	criteria.NAFCode = "62.01Z"
	criteria.RevenueMin = intPtr(500_000)
	criteria.NetResultMin = intPtr(0)
	criteria.CreatedAfter = intPtr(2015)
	criteria.HeadcountMin = intPtr(10)
	criteria.SortBy = "chiffre_affaires"

	params, err := url.ParseQuery(client.buildSearchQuery(criteria))
	require.NoError(t, err)

	assert.Equal(t, "test-token", params.Get("api_token"))
	assert.Equal(t, "conseil", params.Get("q"))
	assert.Equal(t, "75", params.Get("departement"))
	assert.Equal(t, "62.01Z", params.Get("code_naf"))
	assert.Equal(t, "500000", params.Get("chiffre_affaires_min"))
	assert.Equal(t, "0", params.Get("resultat_min"))
	assert.Equal(t, "2015-01-01", params.Get("date_creation_min"))
	assert.Equal(t, "10", params.Get("effectif_min"))
	assert.Equal(t, "false", params.Get("entreprise_cessee"))
	assert.Contains(t, params.Get("categorie_juridique"), "5710")
	assert.Equal(t, "20", params.Get("par_page"))
	assert.Equal(t, "1", params.Get("page"))
	assert.Equal(t, "chiffre_affaires", params.Get("tri"))
}

func TestBuildSearchQueryOmitsUnsetFilters(t *testing.T) {
	cfg := testConfig(t)
	client := NewClient(cfg)

	criteria := models.EnrichmentCriteria{Page: 1, PageSize: 50}
	params, err := url.ParseQuery(client.buildSearchQuery(criteria))
	require.NoError(t, err)

	assert.False(t, params.Has("q"))
	assert.False(t, params.Has("chiffre_affaires_min"))
	assert.False(t, params.Has("entreprise_cessee"))
	assert.False(t, params.Has("categorie_juridique"))
	assert.Equal(t, "50", params.Get("par_page"))
}

func TestSearchCompaniesMapsResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-token", r.URL.Query().Get("api_token"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"total": 1,
			"page": 1,
			"resultats": [{
				"siren": "552032534",
				"nom_entreprise": "ACME Conseil",
				"nom_commercial": "ACME",
				"site_internet": "https://acme.example",
				"telephone": "+33 1 23 45 67 89",
				"email": "contact@acme.example",
				"date_creation": "2012-04-01",
				"code_naf": "62.02A",
				"libelle_code_naf": "Conseil en systèmes et logiciels informatiques",
				"forme_juridique": "SAS",
				"siege": {
					"siret": "55203253400646",
					"adresse_ligne_1": "1 RUE DE LA PAIX",
					"code_postal": "69002",
					"ville": "LYON"
				},
				"finances": [{"chiffre_affaires": 1500000, "resultat": 200000}],
				"tranche_effectif_salarie": "12",
				"nombre_etablissements": 3
			}]
		}`)
	}))
	defer server.Close()

	cfg := testConfig(t)
	cfg.Pappers.BaseURL = server.URL
	client := NewClient(cfg)

	companies, err := client.SearchCompanies(context.Background(), models.NewEnrichmentCriteria())
	require.NoError(t, err)
	require.Len(t, companies, 1)

	company := companies[0]
	assert.Equal(t, "552032534", company.Siren)
	assert.Equal(t, "55203253400646", company.Siret)
	assert.Equal(t, "ACME Conseil", company.Name)
	assert.Equal(t, "ACME", company.TradeName)
	assert.Equal(t, "LYON", company.City)
	assert.Equal(t, "69", company.Department)
	assert.Equal(t, "Auvergne-Rhône-Alpes", company.Region)
	assert.Equal(t, "SAS", company.Category)
	assert.Equal(t, "1.5 M€ (bénéfice: 200 k€)", company.Revenue)
	assert.Equal(t, "12", company.HeadcountRange)
	assert.Equal(t, "20-49 salariés", company.HeadcountLabel())
	assert.Equal(t, "Conseil en systèmes et logiciels informatiques (3 établissements)", company.Sector)
	assert.Equal(t, "API Pappers", company.Source)
}

func TestMapCompanyWithoutRevenue(t *testing.T) {
	netResult := 200_000
	company := mapCompany(companyPayload{
		Siren:    "552032534",
		Name:     "ACME Conseil",
		Finances: []financeEntry{{Revenue: nil, NetResult: &netResult}},
	})

	// No revenue figure means no bénéfice suffix either.
	assert.Empty(t, company.Revenue)
}

func TestSearchCompaniesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"erreur":"Jeton invalide"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	cfg := testConfig(t)
	cfg.Pappers.BaseURL = server.URL
	client := NewClient(cfg)

	_, err := client.SearchCompanies(context.Background(), models.NewEnrichmentCriteria())

	var apiErr *providers.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Pappers", apiErr.Provider)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}

func TestGetBySiren(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/entreprise", r.URL.Path)
		assert.Equal(t, "552032534", r.URL.Query().Get("siren"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"siren":"552032534","nom_entreprise":"ACME Conseil"}`)
	}))
	defer server.Close()

	cfg := testConfig(t)
	cfg.Pappers.BaseURL = server.URL
	client := NewClient(cfg)

	company, err := client.GetBySiren(context.Background(), "552032534")
	require.NoError(t, err)
	assert.Equal(t, "ACME Conseil", company.Name)
}

func TestFormatRevenue(t *testing.T) {
	tests := []struct {
		amount int
		want   string
	}{
		{2_000_000_000, "2.0 Md€"},
		{1_500_000, "1.5 M€"},
		{500_000, "500 k€"},
		{500, "500 €"},
		{0, "0 €"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatRevenue(tt.amount))
	}
}
