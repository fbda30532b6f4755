package sirene

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobprospect/internal/config"
	"jobprospect/internal/providers"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.LoadConfig("")
	require.NoError(t, err)
	return cfg
}

func TestBuildQuery(t *testing.T) {
	cfg := testConfig(t)
	client := NewClient(cfg)

	tests := []struct {
		name        string
		departments []string
		want        string
	}{
		{
			name:        "no departments",
			departments: nil,
			want:        "activitePrincipaleUniteLegale:62.01Z",
		},
		{
			name:        "single department without parentheses",
			departments: []string{"75"},
			want:        "activitePrincipaleUniteLegale:62.01Z AND codeCommuneEtablissement:75*",
		},
		{
			name:        "several departments OR-grouped",
			departments: []string{"75", "92", "93"},
			want:        "activitePrincipaleUniteLegale:62.01Z AND (codeCommuneEtablissement:75* OR codeCommuneEtablissement:92* OR codeCommuneEtablissement:93*)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, client.buildQuery("62.01Z", tt.departments))
		})
	}
}

func TestBuildQueryCapsDepartments(t *testing.T) {
	cfg := testConfig(t)
	client := NewClient(cfg)

	departments := make([]string, 14)
	for i := range departments {
		departments[i] = fmt.Sprintf("%02d", i+1)
	}

	query := client.buildQuery("62.01Z", departments)
	assert.Contains(t, query, "codeCommuneEtablissement:10*")
	assert.NotContains(t, query, "codeCommuneEtablissement:11*")
}

func TestSearchByNAFMapsEstablishments(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret-key", r.Header.Get("Authorization"))
		assert.Contains(t, r.URL.Query().Get("q"), "activitePrincipaleUniteLegale:62.01Z")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"etablissements": [
				{
					"siret": "55203253400646",
					"uniteLegale": {"denominationUniteLegale": "ACME SAS"},
					"adresseEtablissement": {
						"libelleCommuneEtablissement": "PARIS 8",
						"codeCommuneEtablissement": "75108"
					}
				},
				{"siret": "11111111100001"}
			]
		}`)
	}))
	defer server.Close()

	cfg := testConfig(t)
	cfg.Sirene.BaseURL = server.URL
	cfg.Sirene.APIKey = "secret-key"
	client := NewClient(cfg)

	companies, err := client.SearchByNAF(context.Background(), "62.01Z", []string{"75"})
	require.NoError(t, err)
	require.Len(t, companies, 2)

	first := companies[0]
	assert.Equal(t, "ACME SAS", first.Name)
	assert.Equal(t, "55203253400646", first.Siret)
	assert.Equal(t, "552032534", first.Siren)
	assert.Equal(t, "PARIS 8", first.City)
	assert.Equal(t, "75", first.Department)
	assert.Equal(t, "Île-de-France", first.Region)
	assert.Equal(t, "Programmation informatique", first.Sector)
	assert.Equal(t, "API SIRENE", first.Source)

	second := companies[1]
	assert.Empty(t, second.Name)
	assert.Equal(t, "111111111", second.Siren)
}

func TestSearchByNAFUnauthorizedDegrades(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	cfg := testConfig(t)
	cfg.Sirene.BaseURL = server.URL
	client := NewClient(cfg)

	companies, err := client.SearchByNAF(context.Background(), "62.01Z", []string{"75"})
	require.NoError(t, err)
	assert.Empty(t, companies)
}

func TestSearchByNAFServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer server.Close()

	cfg := testConfig(t)
	cfg.Sirene.BaseURL = server.URL
	client := NewClient(cfg)

	_, err := client.SearchByNAF(context.Background(), "62.01Z", nil)

	var apiErr *providers.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "SIRENE", apiErr.Provider)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
}

func TestSearchCompaniesIsolatesCodeFailures(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"etablissements":[{"siret":"22222222200002"}]}`)
	}))
	defer server.Close()

	cfg := testConfig(t)
	cfg.Sirene.BaseURL = server.URL
	client := NewClient(cfg)

	companies, err := client.SearchCompanies(context.Background(),
		[]string{"62.01Z", "62.02A"}, []string{"75"})
	require.NoError(t, err)

	assert.Equal(t, 2, calls)
	assert.Len(t, companies, 1)
}

func TestNAFDescription(t *testing.T) {
	assert.Equal(t, "Programmation informatique", NAFDescription("62.01Z"))
	assert.Equal(t, "Portails Internet", NAFDescription("63.12Z"))
	assert.Equal(t, "Informatique", NAFDescription("99.99Z"))
}
