package francetravail

// Wire types for the offres d'emploi v2 API. Every field is optional in
// practice; pointers distinguish "absent" from zero values where it matters.

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	Scope       string `json:"scope"`
}

type searchResponse struct {
	Results []offerPayload `json:"resultats"`
}

type offerPayload struct {
	ID                string         `json:"id"`
	Title             string         `json:"intitule"`
	Description       string         `json:"description"`
	CreatedAt         string         `json:"dateCreation"`
	UpdatedAt         string         `json:"dateActualisation"`
	Company           *companyInfo   `json:"entreprise"`
	Contact           *contactInfo   `json:"contact"`
	Workplace         *workplaceInfo `json:"lieuTravail"`
	ContractType      string         `json:"typeContrat"`
	ContractTypeLabel string         `json:"typeContratLibelle"`
	ContractNature    string         `json:"natureContrat"`
	ExperienceLabel   string         `json:"experienceLibelle"`
	ExperienceReq     string         `json:"experienceExige"`
	Salary            *salaryInfo    `json:"salaire"`
	WorkingHoursLabel string         `json:"dureeTravailLibelle"`
	Skills            []skillInfo    `json:"competences"`
	Origin            *originInfo    `json:"origineOffre"`
}

type companyInfo struct {
	Name        string `json:"nom"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Logo        string `json:"logo"`
}

type contactInfo struct {
	Email          string `json:"courriel"`
	Name           string `json:"nom"`
	Phone          string `json:"telephone"`
	ApplicationURL string `json:"urlPostulation"`
}

type workplaceInfo struct {
	Label      string   `json:"libelle"`
	PostalCode string   `json:"codePostal"`
	Commune    string   `json:"commune"`
	Latitude   *float64 `json:"latitude"`
	Longitude  *float64 `json:"longitude"`
}

type salaryInfo struct {
	Label string `json:"libelle"`
}

type skillInfo struct {
	Label string `json:"libelle"`
}

type originInfo struct {
	OriginURL string        `json:"urlOrigine"`
	Partners  []partnerInfo `json:"partenaires"`
}

type partnerInfo struct {
	URL string `json:"url"`
}
