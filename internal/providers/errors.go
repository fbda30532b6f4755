// Package providers holds the error taxonomy shared by the upstream API
// clients. Errors from one batch, sector code or page never abort sibling
// iterations; only a ConfigurationError raised before any network call aborts
// a whole search.
package providers

import "fmt"

// ConfigurationError signals a missing credential or API key, detected before
// any network call is made.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Reason
}

// NewConfigurationError creates a ConfigurationError with the given reason.
func NewConfigurationError(reason string) *ConfigurationError {
	return &ConfigurationError{Reason: reason}
}

// AuthenticationError signals a failed token exchange. There is no automatic
// retry; the caller re-triggers authentication.
type AuthenticationError struct {
	StatusCode int
	Body       string
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("authentication failed: status %d: %s", e.StatusCode, e.Body)
}

// APIError carries the status code and raw body of an unexpected upstream
// response. HTTP 204 (empty) and 206 (partial) are never APIErrors.
type APIError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s API error: status %d: %s", e.Provider, e.StatusCode, e.Body)
}
