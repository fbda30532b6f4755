package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewEnrichmentCriteriaDefaults(t *testing.T) {
	c := NewEnrichmentCriteria()
	assert.Equal(t, "FR", c.Country)
	assert.True(t, c.ExcludeInactive)
	assert.True(t, c.ExcludeSoleProprietors)
	assert.Equal(t, 1, c.Page)
	assert.Equal(t, 20, c.PageSize)
}

func TestCriteriaSummary(t *testing.T) {
	c := NewEnrichmentCriteria()
	c.Query = "conseil"
	c.Region = "Bretagne"
	c.RevenueMin = intPtr(500_000)
	c.RevenueMax = intPtr(2_000_000)
	c.CreatedAfter = intPtr(2015)
	c.HeadcountMin = intPtr(10)

	assert.Equal(t,
		`Recherche: "conseil" | Région: Bretagne | CA: ≥500k€ - ≤2M€ | Créées depuis: 2015 | Effectif: ≥10 | En activité | Sociétés uniquement`,
		c.Summary())
}

func TestCriteriaSummaryEmpty(t *testing.T) {
	c := EnrichmentCriteria{}
	assert.Equal(t, "Toutes entreprises", c.Summary())
}

func TestCriteriaSummaryDepartmentOnly(t *testing.T) {
	c := EnrichmentCriteria{Department: "35"}
	assert.Equal(t, "Dép: 35", c.Summary())
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "3M€", formatAmount(3_500_000))
	assert.Equal(t, "750k€", formatAmount(750_000))
	assert.Equal(t, "900€", formatAmount(900))
}
