package sirene

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"jobprospect/internal/config"
	"jobprospect/internal/geo"
	"jobprospect/internal/logging"
	"jobprospect/internal/providers"
	"jobprospect/pkg/models"
)

const (
	companySource = "API SIRENE"
	maxErrorBody  = 4 << 10
)

type searchResponse struct {
	Establishments []establishment `json:"etablissements"`
}

type establishment struct {
	Siret     string `json:"siret"`
	LegalUnit *struct {
		Name string `json:"denominationUniteLegale"`
	} `json:"uniteLegale"`
	Address *struct {
		CommuneLabel string `json:"libelleCommuneEtablissement"`
		CommuneCode  string `json:"codeCommuneEtablissement"`
	} `json:"adresseEtablissement"`
}

// Client queries the INSEE SIRENE establishment registry. The API key is
// optional; without it the public quota applies and some deployments answer
// 401, which is reported as a warning rather than a failure.
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
		limiter: rate.NewLimiter(rate.Limit(cfg.Sirene.RateLimit), 1),
		logger:  logging.GetGlobalLogger(),
	}
}

// SearchCompanies looks up establishments for every NAF activity code, one
// request per code. Failures on a single code are logged and skipped. The
// context is checked between codes so a cancelled search stops promptly.
func (c *Client) SearchCompanies(ctx context.Context, nafCodes, departments []string) ([]models.Company, error) {
	if len(nafCodes) == 0 {
		nafCodes = c.cfg.Sirene.NAFCodes
	}

	var companies []models.Company
	for _, nafCode := range nafCodes {
		if err := ctx.Err(); err != nil {
			return companies, err
		}
		batch, err := c.SearchByNAF(ctx, nafCode, departments)
		if err != nil {
			c.logger.Warn("SIRENE search failed for activity code", map[string]interface{}{
				"naf_code": nafCode,
				"error":    err.Error(),
			})
			continue
		}
		companies = append(companies, batch...)
	}
	return companies, nil
}

// SearchByNAF performs a single registry query for one activity code.
func (c *Client) SearchByNAF(ctx context.Context, nafCode string, departments []string) ([]models.Company, error) {
	params := url.Values{}
	params.Set("q", c.buildQuery(nafCode, departments))
	params.Set("nombre", fmt.Sprintf("%d", c.cfg.Sirene.MaxResults))

	endpoint := fmt.Sprintf("%s/siret?%s", strings.TrimRight(c.cfg.Sirene.BaseURL, "/"), params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building registry request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.cfg.HasSireneAPIKey() {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Sirene.APIKey)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("registry request failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// fall through to decode
	case http.StatusUnauthorized:
		// Missing or rejected API key. The registry is an enrichment source,
		// so this degrades to zero results instead of failing the search.
		c.logger.Warn("SIRENE registry requires an API key, skipping", map[string]interface{}{
			"naf_code": nafCode,
		})
		return nil, nil
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &providers.APIError{
			Provider:   "SIRENE",
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decoding registry response: %w", err)
	}

	companies := make([]models.Company, 0, len(parsed.Establishments))
	for _, etab := range parsed.Establishments {
		companies = append(companies, mapEstablishment(etab, nafCode))
	}

	c.logger.Debug("SIRENE query completed", map[string]interface{}{
		"naf_code":  nafCode,
		"companies": len(companies),
		"duration":  time.Since(start).String(),
	})
	return companies, nil
}

// buildQuery assembles the Lucene-style q parameter: the activity code ANDed
// with an OR-group of commune-code prefixes, one per department. The registry
// rejects overly long OR-groups, so at most DepartmentsPerRequest codes are
// kept and the rest are dropped.
func (c *Client) buildQuery(nafCode string, departments []string) string {
	var b strings.Builder
	b.WriteString("activitePrincipaleUniteLegale:")
	b.WriteString(nafCode)

	limit := c.cfg.Sirene.DepartmentsPerRequest
	if len(departments) > limit {
		c.logger.Warn("too many departments for one registry query, truncating", map[string]interface{}{
			"requested": len(departments),
			"kept":      limit,
		})
		departments = departments[:limit]
	}

	switch len(departments) {
	case 0:
	case 1:
		b.WriteString(" AND codeCommuneEtablissement:")
		b.WriteString(departments[0])
		b.WriteString("*")
	default:
		b.WriteString(" AND (")
		for i, dept := range departments {
			if i > 0 {
				b.WriteString(" OR ")
			}
			b.WriteString("codeCommuneEtablissement:")
			b.WriteString(dept)
			b.WriteString("*")
		}
		b.WriteString(")")
	}
	return b.String()
}

func mapEstablishment(etab establishment, nafCode string) models.Company {
	company := models.Company{
		Siret:    etab.Siret,
		NAFCode:  nafCode,
		NAFLabel: NAFDescription(nafCode),
		Sector:   NAFDescription(nafCode),
		Source:   companySource,
	}
	if len(etab.Siret) >= 9 {
		company.Siren = etab.Siret[:9]
	}
	if etab.LegalUnit != nil {
		company.Name = etab.LegalUnit.Name
	}
	if etab.Address != nil {
		company.City = etab.Address.CommuneLabel
		if len(etab.Address.CommuneCode) >= 2 {
			company.Department = etab.Address.CommuneCode[:2]
			if region := geo.RegionOf(company.Department); region != geo.UnknownRegion {
				company.Region = region
			}
		}
	}
	return company
}
