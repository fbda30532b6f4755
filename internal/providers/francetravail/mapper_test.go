package francetravail

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"jobprospect/pkg/models"
)

func TestMapOfferFullPayload(t *testing.T) {
	lat, lng := 48.8566, 2.3522
	payload := offerPayload{
		ID:          "189XYZW",
		Title:       "Développeur Java (H/F)",
		Description: "Conception et développement.",
		CreatedAt:   "2026-08-01T09:30:00.000Z",
		UpdatedAt:   "2026-08-15T14:00:00.000Z",
		Company: &companyInfo{
			Name: "ACME Conseil",
			URL:  "https://acme.example",
		},
		Contact: &contactInfo{
			Email:          "rh@acme.example",
			Name:           "Mme Martin",
			ApplicationURL: "https://acme.example/postuler",
		},
		Workplace: &workplaceInfo{
			Label:      "Paris - 75",
			PostalCode: "75001",
			Latitude:   &lat,
			Longitude:  &lng,
		},
		ContractType:      "CDI",
		ContractTypeLabel: "Contrat à durée indéterminée",
		ExperienceLabel:   "2 ans",
		ExperienceReq:     "E",
		Salary:            &salaryInfo{Label: "Annuel de 42000 €"},
		Skills: []skillInfo{
			{Label: "Java"}, {Label: "Spring"}, {Label: "SQL"},
		},
		Origin: &originInfo{
			OriginURL: "https://candidat.francetravail.fr/offres/189XYZW",
			Partners:  []partnerInfo{{URL: "https://partner.example/189XYZW"}},
		},
	}

	offer := mapOffer(payload)

	assert.Equal(t, "189XYZW", offer.ID)
	assert.Equal(t, "Développeur Java (H/F)", offer.Title)
	assert.Equal(t, "ACME Conseil", offer.CompanyName)
	assert.Equal(t, "rh@acme.example", offer.ContactEmail)
	assert.Equal(t, "Paris - 75", offer.Workplace)
	assert.Equal(t, "Paris", offer.City)
	assert.Equal(t, "75", offer.Department)
	assert.Equal(t, "Île-de-France", offer.Region)
	assert.Equal(t, "Annuel de 42000 €", offer.Salary)
	assert.Equal(t, "Java, Spring, SQL", offer.Skills)
	assert.Equal(t, "https://candidat.francetravail.fr/offres/189XYZW", offer.OriginURL)
	assert.Equal(t, "https://partner.example/189XYZW", offer.ApplicationURL)
	assert.Equal(t, "Offre d'emploi", offer.Source)
	assert.Equal(t, "API France Travail", offer.SourceType)
}

func TestMapOfferWorkplaceParsing(t *testing.T) {
	tests := []struct {
		name       string
		label      string
		commune    string
		city       string
		department string
		region     string
	}{
		{
			name:       "standard label",
			label:      "Lyon - 69",
			city:       "Lyon",
			department: "69",
			region:     "Auvergne-Rhône-Alpes",
		},
		{
			name:       "corsican department keeps letter suffix",
			label:      "Ajaccio - 2A",
			city:       "Ajaccio",
			department: "2A",
			region:     "Corse",
		},
		{
			name:       "noisy department text is stripped",
			label:      "Bordeaux - 33 (Gironde)",
			city:       "Bordeaux",
			department: "33",
			region:     "Nouvelle-Aquitaine",
		},
		{
			name:       "no separator leaves location unknown",
			label:      "Télétravail",
			city:       models.NotAvailable,
			department: models.NotAvailable,
			region:     models.NotAvailable,
		},
		{
			name:       "commune fallback fills the city",
			label:      "",
			commune:    "Nantes",
			city:       "Nantes",
			department: models.NotAvailable,
			region:     models.NotAvailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offer := mapOffer(offerPayload{
				Workplace: &workplaceInfo{Label: tt.label, Commune: tt.commune},
			})
			assert.Equal(t, tt.city, offer.City)
			assert.Equal(t, tt.department, offer.Department)
			assert.Equal(t, tt.region, offer.Region)
		})
	}
}

func TestMapOfferMinimalPayload(t *testing.T) {
	offer := mapOffer(offerPayload{ID: "1"})

	assert.Equal(t, "1", offer.ID)
	assert.Equal(t, models.NotAvailable, offer.City)
	assert.Equal(t, models.NotAvailable, offer.Department)
	assert.Equal(t, models.NotAvailable, offer.Region)
	assert.Empty(t, offer.Skills)
	assert.Nil(t, offer.Latitude)
}
