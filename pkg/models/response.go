package models

import "time"

// SearchStatus represents the lifecycle of a background search
type SearchStatus string

const (
	SearchStatusAccepted   SearchStatus = "ACCEPTED"
	SearchStatusProcessing SearchStatus = "PROCESSING"
	SearchStatusSuccess    SearchStatus = "SUCCESS"
	SearchStatusFailure    SearchStatus = "FAILURE"
	SearchStatusStopped    SearchStatus = "STOPPED"
)

// SearchAcceptedResponse is the immediate response from the search endpoint
type SearchAcceptedResponse struct {
	ProcessID string       `json:"processId"`
	Status    SearchStatus `json:"status"`
	Message   string       `json:"message"`
	Timestamp time.Time    `json:"timestamp"`
}

// SearchStatusResponse represents the response for search status queries
type SearchStatusResponse struct {
	ProcessID      string                 `json:"processId"`
	Status         SearchStatus           `json:"status"`
	Progress       *SearchProgress        `json:"progress,omitempty"`
	Error          string                 `json:"error,omitempty"`
	Warnings       []string               `json:"warnings,omitempty"`
	CreatedAt      time.Time              `json:"createdAt"`
	CompletedAt    *time.Time             `json:"completedAt,omitempty"`
	ProcessingTime time.Duration          `json:"processingTime,omitempty"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
}

// SearchProgress reports incremental progress of a running search
type SearchProgress struct {
	BatchesDone  int `json:"batches_done"`
	BatchesTotal int `json:"batches_total"`
	JobOffers    int `json:"job_offers"`
	Companies    int `json:"companies"`
}

// ResultsResponse represents the accumulated in-memory result set
type ResultsResponse struct {
	JobOffers []JobOffer `json:"job_offers"`
	Companies []Company  `json:"companies"`
	Total     int        `json:"total"`
}

// TokenResponse is returned after a successful token exchange. The token
// itself stays in process memory; only its shape is reported.
type TokenResponse struct {
	Authenticated bool      `json:"authenticated"`
	Scope         string    `json:"scope,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// RegionsResponse lists region names for the geo lookup endpoints
type RegionsResponse struct {
	Regions []string `json:"regions"`
	Count   int      `json:"count"`
}

// DepartmentsResponse lists department codes for the geo lookup endpoints
type DepartmentsResponse struct {
	Region      string   `json:"region,omitempty"`
	Departments []string `json:"departments"`
	Count       int      `json:"count"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version"`
	Uptime    time.Duration     `json:"uptime"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	RequestID string    `json:"request_id"`
	Timestamp time.Time `json:"timestamp"`
}
