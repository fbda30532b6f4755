package models

import (
	"fmt"
	"strings"
)

// EnrichmentCriteria is a single-use filter spec for the Pappers company
// search. Pointer fields are omitted from the request when nil. Constructed
// fresh per search; never mutated after submission.
type EnrichmentCriteria struct {
	Query string

	// Location: at most one of Region / Department is set; both empty means
	// whole-country search.
	Country    string
	Department string
	Region     string

	NAFCode string

	// Financials, in euros
	RevenueMin   *int
	RevenueMax   *int
	NetResultMin *int

	// Creation year bounds
	CreatedAfter  *int
	CreatedBefore *int

	// Headcount bounds
	HeadcountMin *int
	HeadcountMax *int

	// Exclusions
	ExcludeInactive        bool
	ExcludeSoleProprietors bool

	// Pagination and ordering
	Page     int
	PageSize int
	SortBy   string // pertinence, chiffre_affaires, date_creation
}

// NewEnrichmentCriteria returns criteria with the defaults: France, active
// commercial companies only, first page of 20.
func NewEnrichmentCriteria() EnrichmentCriteria {
	return EnrichmentCriteria{
		Country:                "FR",
		ExcludeInactive:        true,
		ExcludeSoleProprietors: true,
		Page:                   1,
		PageSize:               20,
	}
}

// Summary renders the criteria as a one-line description for status display.
func (c EnrichmentCriteria) Summary() string {
	var parts []string

	if c.Query != "" {
		parts = append(parts, fmt.Sprintf("Recherche: %q", c.Query))
	}

	if c.Region != "" {
		parts = append(parts, "Région: "+c.Region)
	} else if c.Department != "" {
		parts = append(parts, "Dép: "+c.Department)
	}

	if c.RevenueMin != nil || c.RevenueMax != nil {
		var b strings.Builder
		b.WriteString("CA: ")
		if c.RevenueMin != nil {
			b.WriteString("≥" + formatAmount(*c.RevenueMin))
		}
		if c.RevenueMin != nil && c.RevenueMax != nil {
			b.WriteString(" - ")
		}
		if c.RevenueMax != nil {
			b.WriteString("≤" + formatAmount(*c.RevenueMax))
		}
		parts = append(parts, b.String())
	}

	if c.CreatedAfter != nil {
		parts = append(parts, fmt.Sprintf("Créées depuis: %d", *c.CreatedAfter))
	}

	if c.HeadcountMin != nil || c.HeadcountMax != nil {
		var b strings.Builder
		b.WriteString("Effectif: ")
		if c.HeadcountMin != nil {
			b.WriteString(fmt.Sprintf("≥%d", *c.HeadcountMin))
		}
		if c.HeadcountMin != nil && c.HeadcountMax != nil {
			b.WriteString(" - ")
		}
		if c.HeadcountMax != nil {
			b.WriteString(fmt.Sprintf("≤%d", *c.HeadcountMax))
		}
		parts = append(parts, b.String())
	}

	if c.ExcludeInactive {
		parts = append(parts, "En activité")
	}
	if c.ExcludeSoleProprietors {
		parts = append(parts, "Sociétés uniquement")
	}

	if len(parts) == 0 {
		return "Toutes entreprises"
	}
	return strings.Join(parts, " | ")
}

func formatAmount(amount int) string {
	if amount >= 1_000_000 {
		return fmt.Sprintf("%dM€", amount/1_000_000)
	}
	if amount >= 1_000 {
		return fmt.Sprintf("%dk€", amount/1_000)
	}
	return fmt.Sprintf("%d€", amount)
}
