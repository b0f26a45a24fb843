// internal/models/enriched.go
package models

import "time"

// Default values substituted during enrichment when the source record is silent.
const (
	NoAISummaryText   = "No AI summary available"
	NoDescriptionText = "No description available"
	NotSpecified      = "Not specified"
	UnknownPosition   = "Unknown Position"
	UnknownCompany    = "Unknown Company"
)

// EnrichedProfile is the denormalized candidate view the aggregation engine
// produces: the raw profile joined with its AI summary plus derived fields.
// Rebuilt wholesale on every snapshot refresh, never mutated in place.
type EnrichedProfile struct {
	UUID        string `json:"uuid"`
	ID          string `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`

	ExperienceYears  float64 `json:"experience_years"`
	ExperienceMonths float64 `json:"experience_months"`

	AISummary     string                 `json:"ai_summary"`
	FitPercentage float64                `json:"fit_percentage"`
	AIAnalysis    map[string]interface{} `json:"ai_analysis"`

	Skills      []string `json:"skills"`
	SkillsCount int      `json:"skills_count"`

	Location ProfileLocation `json:"location"`

	CurrentRole    string `json:"current_role,omitempty"`
	Industry       string `json:"industry,omitempty"`
	Seniority      string `json:"seniority,omitempty"`
	FunctionalArea string `json:"functional_area,omitempty"`

	CurrentCompany Company `json:"current_company"`

	Contact ContactInfo `json:"contact"`

	Education      []Education     `json:"education"`
	Certifications []Certification `json:"certifications"`
	WorkExperience []Experience    `json:"work_experience"`

	Languages    []string      `json:"languages"`
	Awards       []string      `json:"awards"`
	Publications []Publication `json:"publications"`
	Patents      []string      `json:"patents"`
	Memberships  []string      `json:"memberships"`

	CreatedAt   time.Time `json:"created_at,omitempty"`
	UpdatedAt   time.Time `json:"updated_at,omitempty"`
	ContentHash string    `json:"content_hash,omitempty"`
}

// ProfileLocation is the structured location derived from the raw fields.
// Country is the trailing comma-separated token of the raw string; it stays
// empty (omitted from JSON) when the raw string has no comma.
type ProfileLocation struct {
	Name    string `json:"name,omitempty"`
	Code    string `json:"code,omitempty"`
	Raw     string `json:"raw,omitempty"`
	Country string `json:"country,omitempty"`
}

// ContactInfo combines every contact channel of a profile. Emails is work
// emails followed by personal emails, order preserved.
type ContactInfo struct {
	Emails   []string `json:"emails"`
	Phones   []string `json:"phones"`
	Linkedin string   `json:"linkedin,omitempty"`
	Social   []string `json:"social"`
}

// EnrichedJob is a job posting with every synonym group in the attributes bag
// resolved to a single canonical field.
type EnrichedJob struct {
	ID         string                 `json:"id"`
	UUID       string                 `json:"uuid"`
	JobFlowID  string                 `json:"job_flow_id,omitempty"`
	Attributes map[string]interface{} `json:"attributes"`
	CreatedAt  time.Time              `json:"created_at,omitempty"`
	UpdatedAt  time.Time              `json:"updated_at,omitempty"`

	Title           string   `json:"title"`
	Company         string   `json:"company"`
	Skills          []string `json:"skills"`
	ExperienceLevel string   `json:"experience_level"`
	Requirements    []string `json:"requirements"`
	Location        string   `json:"location"`
	Industry        string   `json:"industry"`
	EmploymentType  string   `json:"employment_type"`
	SalaryRange     string   `json:"salary_range"`
	RemotePolicy    string   `json:"remote_policy"`
	Description     string   `json:"description"`
	Benefits        []string `json:"benefits"`
	CompanySize     string   `json:"company_size"`
	CompanyIndustry string   `json:"company_industry"`
}
