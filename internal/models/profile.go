// internal/models/profile.go
package models

import "time"

// RawProfile is a candidate record exactly as the record store holds it.
// Owned by the record store; the aggregation engine treats it as read-only.
type RawProfile struct {
	UUID               string          `json:"uuid"`
	FirstName          string          `json:"first_name,omitempty"`
	LastName           string          `json:"last_name,omitempty"`
	FullName           string          `json:"full_name,omitempty"`
	LocationName       string          `json:"location_name,omitempty"`
	LocationCode       string          `json:"location_code,omitempty"`
	LocationRaw        string          `json:"location_raw,omitempty"`
	Gender             string          `json:"gender,omitempty"`
	JobTitle           string          `json:"job_title,omitempty"`
	CurrentTitle       string          `json:"current_title,omitempty"`
	Summary            string          `json:"summary,omitempty"`
	LinkedinURL        string          `json:"linkedin_url,omitempty"`
	LinkedinPublicID   string          `json:"linkedin_public_id,omitempty"`
	PictureURL         string          `json:"picture_url,omitempty"`
	YearsOfExperience  float64         `json:"years_of_experience,omitempty"`
	MonthsOfExperience float64         `json:"months_of_experience,omitempty"`
	Skills             []string        `json:"skills,omitempty"`
	Experiences        []Experience    `json:"experiences,omitempty"`
	Education          []Education     `json:"education,omitempty"`
	Languages          []string        `json:"languages,omitempty"`
	WorkEmails         []string        `json:"work_emails,omitempty"`
	PersonalEmails     []string        `json:"personal_emails,omitempty"`
	Phones             []string        `json:"phones,omitempty"`
	SocialLinks        []string        `json:"social_links,omitempty"`
	Nationality        string          `json:"nationality,omitempty"`
	CurrentIndustry    string          `json:"current_industry,omitempty"`
	SeniorityLevel     string          `json:"seniority_level,omitempty"`
	FunctionalArea     string          `json:"functional_area,omitempty"`
	Awards             []string        `json:"awards,omitempty"`
	Publications       []Publication   `json:"publications,omitempty"`
	Certifications     []Certification `json:"certifications,omitempty"`
	Patents            []string        `json:"patents,omitempty"`
	Memberships        []string        `json:"memberships,omitempty"`
	CurrentCompany     Company         `json:"current_company,omitempty"`
	GradYear           int             `json:"grad_year,omitempty"`
	ContentHash        string          `json:"content_hash,omitempty"`
	CreatedAt          time.Time       `json:"created_at,omitempty"`
	UpdatedAt          time.Time       `json:"updated_at,omitempty"`
}

// Experience is one entry in a candidate's work history.
type Experience struct {
	Title              string     `json:"title,omitempty"`
	Description        string     `json:"description,omitempty"`
	EmploymentType     string     `json:"employment_type,omitempty"`
	CompanyName        string     `json:"company_name,omitempty"`
	CompanyLinkedinURL string     `json:"company_linkedin_url,omitempty"`
	Location           string     `json:"location,omitempty"`
	StartDate          *time.Time `json:"start_date,omitempty"`
	EndDate            *time.Time `json:"end_date,omitempty"`
	Current            bool       `json:"current,omitempty"`
}

// Education is one entry in a candidate's education history.
type Education struct {
	SchoolName   string `json:"school_name,omitempty"`
	DegreeName   string `json:"degree_name,omitempty"`
	FieldOfStudy string `json:"field_of_study,omitempty"`
	StartYear    int    `json:"start_year,omitempty"`
	EndYear      int    `json:"end_year,omitempty"`
}

// Certification is one certification entry on a profile.
type Certification struct {
	Title       string     `json:"title,omitempty"`
	Reference   string     `json:"reference,omitempty"`
	Date        string     `json:"date,omitempty"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	Description string     `json:"description,omitempty"`
}

// Publication is one publication entry on a profile.
type Publication struct {
	Title       string `json:"title,omitempty"`
	Date        string `json:"date,omitempty"`
	Issue       string `json:"issue,omitempty"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url,omitempty"`
}

// Company describes a candidate's current employer.
type Company struct {
	Name        string          `json:"name,omitempty"`
	Description string          `json:"description,omitempty"`
	Industry    string          `json:"industry,omitempty"`
	Size        string          `json:"size,omitempty"`
	Location    CompanyLocation `json:"location,omitempty"`
}

// CompanyLocation is the employer's raw location fields.
type CompanyLocation struct {
	Code string `json:"code,omitempty"`
	Raw  string `json:"raw,omitempty"`
}
