package models

// NotAvailable is the sentinel for location fields that could not be derived
// from the posting's free-text workplace label.
const NotAvailable = "N/A"

// JobOffer represents a job posting as flattened from the France Travail
// offers API. Date fields keep the API's string form; they are display and
// export data, never computed with.
type JobOffer struct {
	// Posting
	ID          string `json:"id,omitempty"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
	UpdatedAt   string `json:"updated_at,omitempty"`

	// Employer
	CompanyName        string `json:"company_name,omitempty"`
	CompanyDescription string `json:"company_description,omitempty"`
	CompanyURL         string `json:"company_url,omitempty"`
	CompanyLogoURL     string `json:"company_logo_url,omitempty"`

	// Recruiter contact, preferred over the generic employer contact
	ContactEmail string `json:"contact_email,omitempty"`
	ContactName  string `json:"contact_name,omitempty"`
	ContactPhone string `json:"contact_phone,omitempty"`
	ContactURL   string `json:"contact_url,omitempty"`

	// Workplace
	Workplace  string   `json:"workplace,omitempty"`
	City       string   `json:"city,omitempty"`
	PostalCode string   `json:"postal_code,omitempty"`
	Department string   `json:"department,omitempty"`
	Region     string   `json:"region,omitempty"`
	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`

	// Contract terms
	ContractType       string `json:"contract_type,omitempty"`
	ContractTypeLabel  string `json:"contract_type_label,omitempty"`
	ContractNature     string `json:"contract_nature,omitempty"`
	ExperienceRequired string `json:"experience_required,omitempty"`
	ExperienceLabel    string `json:"experience_label,omitempty"`
	Salary             string `json:"salary,omitempty"`
	WorkingHoursLabel  string `json:"working_hours_label,omitempty"`

	// Skills, comma-joined
	Skills string `json:"skills,omitempty"`

	// Origin
	OriginURL      string `json:"origin_url,omitempty"`
	ApplicationURL string `json:"application_url,omitempty"`

	// Provenance
	Source     string `json:"source,omitempty"`
	SourceType string `json:"source_type,omitempty"`
}
