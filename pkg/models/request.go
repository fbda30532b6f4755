package models

// Search types accepted by the search endpoint.
const (
	SearchTypeJobs       = "jobs"
	SearchTypeCompanies  = "companies"
	SearchTypeCombined   = "combined"
	SearchTypeEnrichment = "enrichment"
)

// Location scopes accepted by the search endpoint.
const (
	ScopeMetropolitan = "metropolitan" // all metropolitan departments
	ScopeFrance       = "france"       // metropolitan + overseas
	ScopeRegion       = "region"       // one named region
	ScopeDepartment   = "department"   // one department code
)

// TokenRequest represents the payload for the France Travail token exchange
type TokenRequest struct {
	ClientID     string `json:"client_id" validate:"required"`
	ClientSecret string `json:"client_secret" validate:"required"`
}

// SearchRequest represents the payload for starting a search
type SearchRequest struct {
	Type     string `json:"type" validate:"required,oneof=jobs companies combined enrichment"`
	Keywords string `json:"keywords,omitempty"`

	// Location filter; region/department are required by their matching scope
	Scope      string `json:"scope" validate:"required,oneof=metropolitan france region department"`
	Region     string `json:"region,omitempty" validate:"required_if=Scope region"`
	Department string `json:"department,omitempty" validate:"required_if=Scope department"`

	// Enrichment-only filters
	NAFCode                string `json:"naf_code,omitempty"`
	RevenueMin             *int   `json:"revenue_min,omitempty"`
	RevenueMax             *int   `json:"revenue_max,omitempty"`
	NetResultMin           *int   `json:"net_result_min,omitempty"`
	CreatedAfter           *int   `json:"created_after,omitempty"`
	CreatedBefore          *int   `json:"created_before,omitempty"`
	HeadcountMin           *int   `json:"headcount_min,omitempty"`
	HeadcountMax           *int   `json:"headcount_max,omitempty"`
	IncludeInactive        bool   `json:"include_inactive,omitempty"`
	IncludeSoleProprietors bool   `json:"include_sole_proprietors,omitempty"`
	Page                   int    `json:"page,omitempty" validate:"omitempty,min=1"`
	PageSize               int    `json:"page_size,omitempty" validate:"omitempty,min=1,max=100"`
	SortBy                 string `json:"sort_by,omitempty" validate:"omitempty,oneof=pertinence chiffre_affaires date_creation"`
}
