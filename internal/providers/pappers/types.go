package pappers

// Wire types for the Pappers v2 API.

type searchResponse struct {
	Results []companyPayload `json:"resultats"`
	Total   int              `json:"total"`
	Page    int              `json:"page"`
}

type companyPayload struct {
	Siren          string         `json:"siren"`
	Name           string         `json:"nom_entreprise"`
	TradeName      string         `json:"nom_commercial"`
	Website        string         `json:"site_internet"`
	Phone          string         `json:"telephone"`
	Email          string         `json:"email"`
	CreationDate   string         `json:"date_creation"`
	NAFCode        string         `json:"code_naf"`
	NAFLabel       string         `json:"libelle_code_naf"`
	LegalForm      string         `json:"forme_juridique"`
	HeadOffice     *officePayload `json:"siege"`
	Finances       []financeEntry `json:"finances"`
	HeadcountCode  string         `json:"tranche_effectif_salarie"`
	Establishments int            `json:"nombre_etablissements"`
}

type officePayload struct {
	Siret       string `json:"siret"`
	AddressLine string `json:"adresse_ligne_1"`
	PostalCode  string `json:"code_postal"`
	City        string `json:"ville"`
}

type financeEntry struct {
	Revenue   *int `json:"chiffre_affaires"`
	NetResult *int `json:"resultat"`
}
