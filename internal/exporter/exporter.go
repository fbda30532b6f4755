package exporter

import (
	"encoding/json"
	"errors"
	"sort"
	"strconv"
	"strings"

	"jobprospect/pkg/models"
)

// ErrNothingToExport is returned when an export is requested before any
// search has produced records. Nothing is written in that case.
var ErrNothingToExport = errors.New("nothing to export")

var companyCSVHeaders = []string{
	"Nom entreprise",
	"Nom commercial",
	"SIREN",
	"SIRET",
	"Taille (effectif)",
	"Catégorie",
	"Chiffre d'affaires",
	"Site web",
	"Email général",
	"Email RH",
	"Téléphone",
	"Adresse",
	"Code postal",
	"Ville",
	"Département",
	"Région",
	"Code NAF",
	"Secteur activité",
	"Date création",
	"Source",
}

var jobOfferCSVHeaders = []string{
	"ID Offre",
	"Intitulé",
	"Description",
	"Date Création",
	"Date MAJ",
	"Entreprise Nom",
	"Entreprise Description",
	"Entreprise URL",
	"Contact Email",
	"Contact Nom",
	"Contact Téléphone",
	"Contact URL",
	"Ville",
	"Code Postal",
	"Département",
	"Région",
	"Latitude",
	"Longitude",
	"Type Contrat",
	"Nature Contrat",
	"Expérience",
	"Salaire",
	"Durée Travail",
	"Compétences",
	"URL Offre",
	"URL Postulation",
	"Source",
}

// Exporter renders collected records as CSV or pretty-printed JSON. The
// field separator is configurable because French spreadsheet locales expect
// a semicolon.
type Exporter struct {
	separator string
}

func New(separator string) *Exporter {
	if separator == "" {
		separator = ";"
	}
	return &Exporter{separator: separator}
}

// CompaniesCSV renders companies as a CSV document, sorted by company name
// case-insensitively.
func (e *Exporter) CompaniesCSV(companies []models.Company) ([]byte, error) {
	if len(companies) == 0 {
		return nil, ErrNothingToExport
	}

	sorted := make([]models.Company, len(companies))
	copy(sorted, companies)
	sort.SliceStable(sorted, func(i, j int) bool {
		return strings.ToLower(sorted[i].Name) < strings.ToLower(sorted[j].Name)
	})

	var b strings.Builder
	e.writeLine(&b, companyCSVHeaders)
	for i := range sorted {
		e.writeLine(&b, e.companyFields(&sorted[i]))
	}
	return []byte(b.String()), nil
}

// JobOffersCSV renders job offers as a CSV document in collection order.
func (e *Exporter) JobOffersCSV(offers []models.JobOffer) ([]byte, error) {
	if len(offers) == 0 {
		return nil, ErrNothingToExport
	}

	var b strings.Builder
	e.writeLine(&b, jobOfferCSVHeaders)
	for i := range offers {
		e.writeLine(&b, e.jobOfferFields(&offers[i]))
	}
	return []byte(b.String()), nil
}

// CompaniesJSON renders companies as a pretty-printed JSON array.
func (e *Exporter) CompaniesJSON(companies []models.Company) ([]byte, error) {
	if len(companies) == 0 {
		return nil, ErrNothingToExport
	}
	return json.MarshalIndent(companies, "", "  ")
}

// JobOffersJSON renders job offers as a pretty-printed JSON array.
func (e *Exporter) JobOffersJSON(offers []models.JobOffer) ([]byte, error) {
	if len(offers) == 0 {
		return nil, ErrNothingToExport
	}
	return json.MarshalIndent(offers, "", "  ")
}

func (e *Exporter) writeLine(b *strings.Builder, fields []string) {
	for i, field := range fields {
		if i > 0 {
			b.WriteString(e.separator)
		}
		b.WriteString(e.escape(field))
	}
	b.WriteString("\n")
}

// escape wraps a value in double quotes, doubling any embedded quote, when
// it contains the separator, a quote or a newline. Other values pass
// through untouched.
func (e *Exporter) escape(value string) string {
	if strings.Contains(value, e.separator) ||
		strings.Contains(value, `"`) ||
		strings.Contains(value, "\n") {
		return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
	}
	return value
}

func (e *Exporter) companyFields(c *models.Company) []string {
	return []string{
		c.Name,
		c.TradeName,
		c.Siren,
		c.Siret,
		c.HeadcountLabel(),
		c.Category,
		c.Revenue,
		c.Website,
		c.Email,
		c.HREmail,
		c.Phone,
		c.Address,
		c.PostalCode,
		c.City,
		c.Department,
		c.Region,
		c.NAFCode,
		c.NAFLabel,
		c.CreationDate,
		c.Source,
	}
}

func (e *Exporter) jobOfferFields(o *models.JobOffer) []string {
	return []string{
		o.ID,
		o.Title,
		o.Description,
		o.CreatedAt,
		o.UpdatedAt,
		o.CompanyName,
		o.CompanyDescription,
		o.CompanyURL,
		o.ContactEmail,
		o.ContactName,
		o.ContactPhone,
		o.ContactURL,
		o.City,
		o.PostalCode,
		o.Department,
		o.Region,
		formatCoordinate(o.Latitude),
		formatCoordinate(o.Longitude),
		o.ContractTypeLabel,
		o.ContractNature,
		o.ExperienceLabel,
		o.Salary,
		o.WorkingHoursLabel,
		o.Skills,
		o.OriginURL,
		o.ApplicationURL,
		o.Source,
	}
}

func formatCoordinate(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
