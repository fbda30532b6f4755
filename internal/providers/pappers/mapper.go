package pappers

import (
	"fmt"

	"jobprospect/internal/geo"
	"jobprospect/pkg/models"
)

const companySource = "API Pappers"

func mapCompany(payload companyPayload) models.Company {
	company := models.Company{
		Siren:        payload.Siren,
		Name:         payload.Name,
		TradeName:    payload.TradeName,
		Website:      payload.Website,
		Phone:        payload.Phone,
		Email:        payload.Email,
		CreationDate: payload.CreationDate,
		NAFCode:      payload.NAFCode,
		NAFLabel:     payload.NAFLabel,
		Category:     payload.LegalForm,
		Source:       companySource,
	}

	if office := payload.HeadOffice; office != nil {
		company.Siret = office.Siret
		company.Address = office.AddressLine
		company.City = office.City
		company.PostalCode = office.PostalCode
		if len(office.PostalCode) >= 2 {
			company.Department = office.PostalCode[:2]
			if region := geo.RegionOf(company.Department); region != geo.UnknownRegion {
				company.Region = region
			}
		}
	}

	// The first finances entry is the latest closed fiscal year. The bénéfice
	// suffix only makes sense attached to a revenue figure.
	if len(payload.Finances) > 0 {
		latest := payload.Finances[0]
		if latest.Revenue != nil {
			company.Revenue = FormatRevenue(*latest.Revenue)
			if latest.NetResult != nil && *latest.NetResult > 0 {
				company.Revenue += fmt.Sprintf(" (bénéfice: %s)", FormatRevenue(*latest.NetResult))
			}
		}
	}

	if payload.HeadcountCode != "" {
		company.SetHeadcountRange(payload.HeadcountCode)
	}

	company.Sector = payload.NAFLabel
	if payload.Establishments > 1 {
		company.Sector = fmt.Sprintf("%s (%d établissements)", payload.NAFLabel, payload.Establishments)
	}

	return company
}

// FormatRevenue renders an amount in euros with the usual French magnitude
// suffixes: "2.0 Md€", "1.5 M€", "500 k€".
func FormatRevenue(amount int) string {
	switch {
	case amount >= 1_000_000_000:
		return fmt.Sprintf("%.1f Md€", float64(amount)/1_000_000_000)
	case amount >= 1_000_000:
		return fmt.Sprintf("%.1f M€", float64(amount)/1_000_000)
	case amount >= 1_000:
		return fmt.Sprintf("%d k€", amount/1_000)
	default:
		return fmt.Sprintf("%d €", amount)
	}
}
