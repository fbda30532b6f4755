package pappers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"jobprospect/internal/config"
	"jobprospect/internal/logging"
	"jobprospect/internal/providers"
	"jobprospect/pkg/models"
)

const maxErrorBody = 4 << 10

// Client queries the Pappers company database for enriched records: legal
// form, financials, headcount and head-office coordinates.
type Client struct {
	cfg        *config.Config
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     logging.Logger
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.HTTP.ConnectTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(cfg.Pappers.RateLimit), 1),
		logger:  logging.GetGlobalLogger(),
	}
}

// SearchCompanies runs one filtered search and returns the matching page of
// enriched company records.
func (c *Client) SearchCompanies(ctx context.Context, criteria models.EnrichmentCriteria) ([]models.Company, error) {
	if !c.cfg.HasPappersAPIToken() {
		return nil, providers.NewConfigurationError("Pappers API token not configured")
	}

	endpoint := fmt.Sprintf("%s/recherche?%s",
		strings.TrimRight(c.cfg.Pappers.BaseURL, "/"),
		c.buildSearchQuery(criteria))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building enrichment request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("enrichment request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &providers.APIError{
			Provider:   "Pappers",
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decoding enrichment response: %w", err)
	}

	companies := make([]models.Company, 0, len(parsed.Results))
	for _, payload := range parsed.Results {
		companies = append(companies, mapCompany(payload))
	}

	c.logger.Debug("Pappers search completed", map[string]interface{}{
		"criteria":  criteria.Summary(),
		"companies": len(companies),
		"duration":  time.Since(start).String(),
	})
	return companies, nil
}

// GetBySiren fetches the full record of a single company.
func (c *Client) GetBySiren(ctx context.Context, siren string) (*models.Company, error) {
	if !c.cfg.HasPappersAPIToken() {
		return nil, providers.NewConfigurationError("Pappers API token not configured")
	}

	params := url.Values{}
	params.Set("api_token", c.cfg.Pappers.APIToken)
	params.Set("siren", siren)
	endpoint := fmt.Sprintf("%s/entreprise?%s",
		strings.TrimRight(c.cfg.Pappers.BaseURL, "/"), params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building company request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("company request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &providers.APIError{
			Provider:   "Pappers",
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}

	var payload companyPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding company response: %w", err)
	}
	company := mapCompany(payload)
	return &company, nil
}

func (c *Client) buildSearchQuery(criteria models.EnrichmentCriteria) string {
	params := url.Values{}
	params.Set("api_token", c.cfg.Pappers.APIToken)

	if criteria.Query != "" {
		params.Set("q", criteria.Query)
	}
	if criteria.Department != "" {
		params.Set("departement", criteria.Department)
	}
	if criteria.Region != "" {
		params.Set("region", criteria.Region)
	}
	if criteria.NAFCode != "" {
		params.Set("code_naf", criteria.NAFCode)
	}
	if criteria.RevenueMin != nil {
		params.Set("chiffre_affaires_min", strconv.Itoa(*criteria.RevenueMin))
	}
	if criteria.RevenueMax != nil {
		params.Set("chiffre_affaires_max", strconv.Itoa(*criteria.RevenueMax))
	}
	if criteria.NetResultMin != nil {
		params.Set("resultat_min", strconv.Itoa(*criteria.NetResultMin))
	}
	if criteria.CreatedAfter != nil {
		params.Set("date_creation_min", fmt.Sprintf("%d-01-01", *criteria.CreatedAfter))
	}
	if criteria.CreatedBefore != nil {
		params.Set("date_creation_max", fmt.Sprintf("%d-12-31", *criteria.CreatedBefore))
	}
	if criteria.HeadcountMin != nil {
		params.Set("effectif_min", strconv.Itoa(*criteria.HeadcountMin))
	}
	if criteria.HeadcountMax != nil {
		params.Set("effectif_max", strconv.Itoa(*criteria.HeadcountMax))
	}
	if criteria.ExcludeInactive {
		params.Set("entreprise_cessee", "false")
	}
	if criteria.ExcludeSoleProprietors && len(c.cfg.Pappers.CommercialLegalForms) > 0 {
		params.Set("categorie_juridique", strings.Join(c.cfg.Pappers.CommercialLegalForms, ","))
	}

	pageSize := criteria.PageSize
	if pageSize <= 0 {
		pageSize = c.cfg.Pappers.PageSize
	}
	params.Set("par_page", strconv.Itoa(pageSize))

	page := criteria.Page
	if page <= 0 {
		page = 1
	}
	params.Set("page", strconv.Itoa(page))

	if criteria.SortBy != "" {
		params.Set("tri", criteria.SortBy)
	}
	return params.Encode()
}
