package francetravail

import (
	"strings"

	"jobprospect/internal/geo"
	"jobprospect/pkg/models"
)

const (
	offerSource     = "Offre d'emploi"
	offerSourceType = "API France Travail"
)

func mapOffer(payload offerPayload) models.JobOffer {
	offer := models.JobOffer{
		ID:                 payload.ID,
		Title:              payload.Title,
		Description:        payload.Description,
		CreatedAt:          payload.CreatedAt,
		UpdatedAt:          payload.UpdatedAt,
		ContractType:       payload.ContractType,
		ContractTypeLabel:  payload.ContractTypeLabel,
		ContractNature:     payload.ContractNature,
		ExperienceLabel:    payload.ExperienceLabel,
		ExperienceRequired: payload.ExperienceReq,
		WorkingHoursLabel:  payload.WorkingHoursLabel,
		City:               models.NotAvailable,
		Department:         models.NotAvailable,
		Region:             models.NotAvailable,
		Source:             offerSource,
		SourceType:         offerSourceType,
	}

	if payload.Company != nil {
		offer.CompanyName = payload.Company.Name
		offer.CompanyDescription = payload.Company.Description
		offer.CompanyURL = payload.Company.URL
		offer.CompanyLogoURL = payload.Company.Logo
	}

	if payload.Contact != nil {
		offer.ContactEmail = payload.Contact.Email
		offer.ContactName = payload.Contact.Name
		offer.ContactPhone = payload.Contact.Phone
		offer.ContactURL = payload.Contact.ApplicationURL
	}

	if payload.Workplace != nil {
		applyWorkplace(&offer, payload.Workplace)
	}

	if payload.Salary != nil {
		offer.Salary = payload.Salary.Label
	}

	if len(payload.Skills) > 0 {
		labels := make([]string, 0, len(payload.Skills))
		for _, skill := range payload.Skills {
			if skill.Label != "" {
				labels = append(labels, skill.Label)
			}
		}
		offer.Skills = strings.Join(labels, ", ")
	}

	if payload.Origin != nil {
		offer.OriginURL = payload.Origin.OriginURL
		if len(payload.Origin.Partners) > 0 {
			offer.ApplicationURL = payload.Origin.Partners[0].URL
		}
	}

	return offer
}

// applyWorkplace derives city, department and region from the workplace
// block. Labels come as "<city> - <department>", so the department part is
// cleaned of anything that is not a digit or the Corsican A/B suffix before
// the region lookup.
func applyWorkplace(offer *models.JobOffer, wp *workplaceInfo) {
	offer.PostalCode = wp.PostalCode
	offer.Latitude = wp.Latitude
	offer.Longitude = wp.Longitude

	if wp.Label != "" {
		offer.Workplace = wp.Label
		parts := strings.SplitN(wp.Label, " - ", 2)
		if len(parts) == 2 {
			if city := strings.TrimSpace(parts[0]); city != "" {
				offer.City = city
			}
			if dept := cleanDepartmentCode(parts[1]); dept != "" {
				offer.Department = dept
				if region := geo.RegionOf(dept); region != geo.UnknownRegion {
					offer.Region = region
				}
			}
		}
	}

	if wp.Commune != "" && offer.City == models.NotAvailable {
		offer.City = wp.Commune
	}
}

func cleanDepartmentCode(raw string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(raw) {
		if (r >= '0' && r <= '9') || r == 'A' || r == 'B' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
