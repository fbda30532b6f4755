package francetravail

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"jobprospect/internal/config"
	"jobprospect/internal/logging"
	"jobprospect/internal/providers"
	"jobprospect/pkg/models"
	"jobprospect/pkg/utils"
)

const maxErrorBody = 4 << 10

// Client talks to the France Travail offres d'emploi API. It holds the
// OAuth2 access token obtained via Authenticate; all search calls require
// a prior successful authentication.
type Client struct {
	cfg        *config.Config
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     logging.Logger

	mu    sync.RWMutex
	token string
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.HTTP.ConnectTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(cfg.FranceTravail.RateLimit), 1),
		logger:  logging.GetGlobalLogger(),
	}
}

// Authenticate performs the client-credentials exchange and caches the
// resulting access token in memory. Credentials are remembered in the
// runtime configuration so later searches can report whether the provider
// is usable.
func (c *Client) Authenticate(ctx context.Context, clientID, clientSecret string) error {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", clientID)
	form.Set("client_secret", clientSecret)
	form.Set("scope", c.cfg.FranceTravail.Scope)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.FranceTravail.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("building token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &providers.AuthenticationError{
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}

	var tok tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return fmt.Errorf("decoding token response: %w", err)
	}
	if tok.AccessToken == "" {
		return &providers.AuthenticationError{
			StatusCode: resp.StatusCode,
			Body:       "empty access_token in response",
		}
	}

	c.mu.Lock()
	c.token = tok.AccessToken
	c.mu.Unlock()

	c.cfg.SetFranceTravailCredentials(clientID, clientSecret)
	c.logger.Info("France Travail authentication succeeded", map[string]interface{}{
		"scope":      tok.Scope,
		"expires_in": tok.ExpiresIn,
	})
	return nil
}

// HasToken reports whether an access token is currently cached.
func (c *Client) HasToken() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token != ""
}

func (c *Client) bearerToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// DepartmentGroups partitions department codes into request-sized groups,
// preserving order. The API rejects more than a handful of codes per call.
func (c *Client) DepartmentGroups(departments []string) [][]string {
	return utils.BatchStrings(departments, c.cfg.FranceTravail.DepartmentsPerRequest)
}

// SearchJobs queries job postings for the given keywords across all the
// department codes, one request per group. A failing group is logged and
// skipped; the remaining groups are still queried. The context is checked
// between groups so a cancelled search stops promptly.
func (c *Client) SearchJobs(ctx context.Context, keywords string, departments []string) ([]models.JobOffer, error) {
	if !c.HasToken() {
		return nil, providers.NewConfigurationError("France Travail access token missing, authenticate first")
	}

	var offers []models.JobOffer
	for _, group := range c.DepartmentGroups(departments) {
		if err := ctx.Err(); err != nil {
			return offers, err
		}
		batch, err := c.SearchGroup(ctx, keywords, group)
		if err != nil {
			c.logger.Warn("France Travail group search failed", map[string]interface{}{
				"departments": strings.Join(group, ","),
				"error":       err.Error(),
			})
			continue
		}
		offers = append(offers, batch...)
	}
	return offers, nil
}

// SearchGroup performs a single search request for one department group.
func (c *Client) SearchGroup(ctx context.Context, keywords string, group []string) ([]models.JobOffer, error) {
	if !c.HasToken() {
		return nil, providers.NewConfigurationError("France Travail access token missing, authenticate first")
	}

	endpoint := fmt.Sprintf("%s/offresdemploi/v2/offres/search?%s",
		strings.TrimRight(c.cfg.FranceTravail.BaseURL, "/"),
		c.buildSearchQuery(keywords, group))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building search request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.bearerToken())

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusPartialContent:
		// fall through to decode
	case http.StatusNoContent:
		c.logger.Debug("France Travail returned no content for group", map[string]interface{}{
			"departments": strings.Join(group, ","),
		})
		return nil, nil
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &providers.APIError{
			Provider:   "France Travail",
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decoding search response: %w", err)
	}

	offers := make([]models.JobOffer, 0, len(parsed.Results))
	for _, payload := range parsed.Results {
		offers = append(offers, mapOffer(payload))
	}

	c.logger.Debug("France Travail group search completed", map[string]interface{}{
		"departments": strings.Join(group, ","),
		"offers":      len(offers),
		"duration":    time.Since(start).String(),
	})
	return offers, nil
}

func (c *Client) buildSearchQuery(keywords string, group []string) string {
	params := url.Values{}
	params.Set("motsCles", keywords)
	if len(group) > 0 {
		params.Set("departement", strings.Join(group, ","))
	}
	params.Set("range", fmt.Sprintf("0-%d", c.cfg.FranceTravail.MaxResults-1))
	return params.Encode()
}
