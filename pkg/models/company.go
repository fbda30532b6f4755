package models

import (
	"fmt"
	"strings"
	"time"
)

// Company represents a French company as flattened from the SIRENE registry
// or the Pappers enrichment API.
type Company struct {
	// Identity
	Siret     string `json:"siret,omitempty"`
	Siren     string `json:"siren,omitempty"`
	Name      string `json:"name,omitempty"`
	TradeName string `json:"trade_name,omitempty"`

	// Contact
	Email   string `json:"email,omitempty"`
	HREmail string `json:"hr_email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Website string `json:"website,omitempty"`

	// Location
	Address    string `json:"address,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	City       string `json:"city,omitempty"`
	Department string `json:"department,omitempty"`
	Region     string `json:"region,omitempty"`

	// Activity
	NAFCode  string `json:"naf_code,omitempty"`
	NAFLabel string `json:"naf_label,omitempty"`
	Sector   string `json:"sector,omitempty"`

	// Size and financials
	HeadcountRange string `json:"headcount_range,omitempty"`
	HeadcountMin   *int   `json:"headcount_min,omitempty"`
	HeadcountMax   *int   `json:"headcount_max,omitempty"`
	Category       string `json:"category,omitempty"` // legal form or PME/ETI/GE
	Revenue        string `json:"revenue,omitempty"`

	// Lifecycle
	CreationDate   string `json:"creation_date,omitempty"`
	LastUpdateDate string `json:"last_update_date,omitempty"`

	// Provenance
	Source string `json:"source,omitempty"`
}

// headcountRanges maps the INSEE tranche codes to (min, max) employee counts.
// A nil bound means open-ended; an unrecognized code maps to (nil, nil).
var headcountRanges = map[string][2]*int{
	"NN": {nil, nil},
	"00": {intPtr(0), intPtr(0)},
	"01": {intPtr(1), intPtr(2)},
	"02": {intPtr(3), intPtr(5)},
	"03": {intPtr(6), intPtr(9)},
	"11": {intPtr(10), intPtr(19)},
	"12": {intPtr(20), intPtr(49)},
	"21": {intPtr(50), intPtr(99)},
	"22": {intPtr(100), intPtr(199)},
	"31": {intPtr(200), intPtr(249)},
	"32": {intPtr(250), intPtr(499)},
	"41": {intPtr(500), intPtr(999)},
	"42": {intPtr(1000), intPtr(1999)},
	"51": {intPtr(2000), intPtr(4999)},
	"52": {intPtr(5000), intPtr(9999)},
	"53": {intPtr(10000), nil},
}

func intPtr(v int) *int { return &v }

// SetHeadcountRange records the tranche code and derives the min/max bounds
// from the INSEE code table.
func (c *Company) SetHeadcountRange(code string) {
	c.HeadcountRange = code
	bounds, ok := headcountRanges[code]
	if !ok {
		c.HeadcountMin = nil
		c.HeadcountMax = nil
		return
	}
	c.HeadcountMin = bounds[0]
	c.HeadcountMax = bounds[1]
}

// HeadcountLabel renders the derived bounds as a human-readable size label.
func (c *Company) HeadcountLabel() string {
	if c.HeadcountMin == nil {
		return "Non renseigné"
	}
	if c.HeadcountMax == nil {
		return fmt.Sprintf("%d+ salariés", *c.HeadcountMin)
	}
	if *c.HeadcountMin == *c.HeadcountMax {
		plural := ""
		if *c.HeadcountMin > 1 {
			plural = "s"
		}
		return fmt.Sprintf("%d salarié%s", *c.HeadcountMin, plural)
	}
	return fmt.Sprintf("%d-%d salariés", *c.HeadcountMin, *c.HeadcountMax)
}

// UniqueKey derives the deduplication key: the SIREN when present, else a
// lowercase (name, city) composite. The timestamp fallback is never stable
// across runs and only exists so a record without any identity still gets a
// slot in the dedup map.
func (c *Company) UniqueKey() string {
	if c.Siren != "" {
		return "SIREN_" + c.Siren
	}
	if c.Name != "" && c.City != "" {
		return "NAME_" + strings.ToLower(c.Name) + "_" + strings.ToLower(c.City)
	}
	return fmt.Sprintf("UNKNOWN_%d", time.Now().UnixNano())
}
