// internal/dataloader/enrich.go
package dataloader

import (
	"strings"

	"recruitment-chat/internal/models"
)

// jobStringFields maps each canonical string attribute to its synonym keys in
// priority order plus the default used when every synonym is absent. The key
// order is a compatibility contract: reordering changes resolved output.
var jobStringFields = []struct {
	assign   func(*models.EnrichedJob, string)
	keys     []string
	fallback string
}{
	{func(j *models.EnrichedJob, v string) { j.Title = v }, []string{"title", "job_title"}, models.UnknownPosition},
	{func(j *models.EnrichedJob, v string) { j.Company = v }, []string{"company", "company_name"}, models.UnknownCompany},
	{func(j *models.EnrichedJob, v string) { j.ExperienceLevel = v }, []string{"experience_level", "seniority"}, models.NotSpecified},
	{func(j *models.EnrichedJob, v string) { j.Location = v }, []string{"location", "job_location"}, models.NotSpecified},
	{func(j *models.EnrichedJob, v string) { j.Industry = v }, []string{"industry", "sector"}, models.NotSpecified},
	{func(j *models.EnrichedJob, v string) { j.EmploymentType = v }, []string{"employment_type", "type"}, models.NotSpecified},
	{func(j *models.EnrichedJob, v string) { j.SalaryRange = v }, []string{"salary_range", "compensation"}, models.NotSpecified},
	{func(j *models.EnrichedJob, v string) { j.RemotePolicy = v }, []string{"remote_policy", "work_model"}, models.NotSpecified},
	{func(j *models.EnrichedJob, v string) { j.Description = v }, []string{"description", "summary"}, models.NoDescriptionText},
	{func(j *models.EnrichedJob, v string) { j.CompanySize = v }, []string{"company_size"}, models.NotSpecified},
	{func(j *models.EnrichedJob, v string) { j.CompanyIndustry = v }, []string{"company_industry", "sector"}, models.NotSpecified},
}

var jobListFields = []struct {
	assign func(*models.EnrichedJob, []string)
	keys   []string
}{
	{func(j *models.EnrichedJob, v []string) { j.Skills = v }, []string{"skills", "required_skills"}},
	{func(j *models.EnrichedJob, v []string) { j.Requirements = v }, []string{"requirements", "qualifications"}},
	{func(j *models.EnrichedJob, v []string) { j.Benefits = v }, []string{"benefits", "perks"}},
}

// enrichProfiles left-joins every profile with at most one AI summary by uuid.
// Profiles without a summary get the default fit of 0 and the sentinel summary
// text; summaries without a profile are ignored.
func enrichProfiles(profiles []models.RawProfile, summaries []models.RawAISummary) []models.EnrichedProfile {
	byUUID := make(map[string]*models.RawAISummary, len(summaries))
	for i := range summaries {
		if _, seen := byUUID[summaries[i].UUID]; !seen {
			byUUID[summaries[i].UUID] = &summaries[i]
		}
	}

	enriched := make([]models.EnrichedProfile, 0, len(profiles))
	for i := range profiles {
		enriched = append(enriched, enrichProfile(&profiles[i], byUUID[profiles[i].UUID]))
	}
	return enriched
}

func enrichProfile(p *models.RawProfile, summary *models.RawAISummary) models.EnrichedProfile {
	name := p.FullName
	if name == "" {
		name = strings.TrimSpace(p.FirstName + " " + p.LastName)
	}

	aiSummary := models.NoAISummaryText
	fit := 0.0
	analysis := map[string]interface{}{}
	if summary != nil {
		fit = summary.FitPercentage
		if narrative, ok := summary.NarrativeSummary(); ok {
			aiSummary = narrative
		}
		if summary.Matched != nil {
			analysis = summary.Matched
		}
	}

	role := p.JobTitle
	if role == "" {
		role = p.CurrentTitle
	}

	return models.EnrichedProfile{
		UUID:        p.UUID,
		ID:          p.UUID,
		Name:        name,
		DisplayName: name,

		ExperienceYears:  experienceYears(p),
		ExperienceMonths: p.MonthsOfExperience,

		AISummary:     aiSummary,
		FitPercentage: fit,
		AIAnalysis:    analysis,

		Skills:      emptyIfNil(p.Skills),
		SkillsCount: len(p.Skills),

		Location: models.ProfileLocation{
			Name:    p.LocationName,
			Code:    p.LocationCode,
			Raw:     p.LocationRaw,
			Country: countryFromRaw(p.LocationRaw),
		},

		CurrentRole:    role,
		Industry:       p.CurrentIndustry,
		Seniority:      p.SeniorityLevel,
		FunctionalArea: p.FunctionalArea,

		CurrentCompany: p.CurrentCompany,

		Contact: models.ContactInfo{
			Emails:   combineEmails(p.WorkEmails, p.PersonalEmails),
			Phones:   emptyIfNil(p.Phones),
			Linkedin: p.LinkedinURL,
			Social:   emptyIfNil(p.SocialLinks),
		},

		Education:      p.Education,
		Certifications: p.Certifications,
		WorkExperience: p.Experiences,

		Languages:    emptyIfNil(p.Languages),
		Awards:       emptyIfNil(p.Awards),
		Publications: p.Publications,
		Patents:      emptyIfNil(p.Patents),
		Memberships:  emptyIfNil(p.Memberships),

		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		ContentHash: p.ContentHash,
	}
}

// experienceYears prefers the explicit years field, falls back to months/12,
// then 0. Never negative.
func experienceYears(p *models.RawProfile) float64 {
	years := p.YearsOfExperience
	if years == 0 {
		years = p.MonthsOfExperience / 12
	}
	if years < 0 {
		return 0
	}
	return years
}

// countryFromRaw extracts the trailing comma-separated token of the raw
// location string. No comma means no derivable country.
func countryFromRaw(raw string) string {
	idx := strings.LastIndex(raw, ",")
	if idx < 0 {
		return ""
	}
	return strings.TrimSpace(raw[idx+1:])
}

func combineEmails(work, personal []string) []string {
	emails := make([]string, 0, len(work)+len(personal))
	emails = append(emails, work...)
	emails = append(emails, personal...)
	return emails
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// enrichJobs resolves every synonym group of the job attribute bag into one
// canonical field per job.
func enrichJobs(jobs []models.RawJob) []models.EnrichedJob {
	enriched := make([]models.EnrichedJob, 0, len(jobs))
	for i := range jobs {
		enriched = append(enriched, enrichJob(&jobs[i]))
	}
	return enriched
}

func enrichJob(j *models.RawJob) models.EnrichedJob {
	attrs := j.Attributes
	if attrs == nil {
		attrs = map[string]interface{}{}
	}

	uuid := j.UUID
	if uuid == "" {
		uuid = j.Identifier()
	}

	enriched := models.EnrichedJob{
		ID:         j.Identifier(),
		UUID:       uuid,
		JobFlowID:  j.JobFlowID,
		Attributes: attrs,
		CreatedAt:  j.CreatedAt,
		UpdatedAt:  j.UpdatedAt,
	}

	for _, field := range jobStringFields {
		field.assign(&enriched, resolveString(attrs, field.keys, field.fallback))
	}
	for _, field := range jobListFields {
		field.assign(&enriched, resolveStringList(attrs, field.keys))
	}
	return enriched
}

// resolveString returns the first non-empty string among the synonym keys,
// else the fallback.
func resolveString(attrs map[string]interface{}, keys []string, fallback string) string {
	for _, key := range keys {
		if v, ok := attrs[key].(string); ok && v != "" {
			return v
		}
	}
	return fallback
}

// resolveStringList returns the first non-empty list among the synonym keys,
// else an empty list. Non-string elements are skipped.
func resolveStringList(attrs map[string]interface{}, keys []string) []string {
	for _, key := range keys {
		switch v := attrs[key].(type) {
		case []string:
			if len(v) > 0 {
				return v
			}
		case []interface{}:
			if len(v) == 0 {
				continue
			}
			out := make([]string, 0, len(v))
			for _, item := range v {
				if s, ok := item.(string); ok {
					out = append(out, s)
				}
			}
			if len(out) > 0 {
				return out
			}
		}
	}
	return []string{}
}

// buildSearchableData collects the distinct facet values across both enriched
// collections, in first-seen order.
func buildSearchableData(profiles []models.EnrichedProfile, jobs []models.EnrichedJob) models.SearchableData {
	var (
		skills           orderedSet
		locations        orderedSet
		industries       orderedSet
		companies        orderedSet
		jobTitles        orderedSet
		seniorityLevels  orderedSet
		functionalAreas  orderedSet
		certifications   orderedSet
		languages        orderedSet
		educationDegrees orderedSet
		educationFields  orderedSet
		jobSkills        orderedSet
		jobLocations     orderedSet
		jobIndustries    orderedSet
		jobCompanies     orderedSet
		employmentTypes  orderedSet
	)

	for i := range profiles {
		p := &profiles[i]
		skills.addAll(p.Skills)
		locations.add(p.Location.Name)
		industries.add(p.Industry)
		companies.add(p.CurrentCompany.Name)
		jobTitles.add(p.CurrentRole)
		seniorityLevels.add(p.Seniority)
		functionalAreas.add(p.FunctionalArea)
		languages.addAll(p.Languages)
		for _, cert := range p.Certifications {
			certifications.add(cert.Title)
		}
		for _, edu := range p.Education {
			educationDegrees.add(edu.DegreeName)
			educationFields.add(edu.FieldOfStudy)
		}
	}

	for i := range jobs {
		j := &jobs[i]
		jobSkills.addAll(j.Skills)
		jobLocations.add(j.Location)
		jobIndustries.add(j.Industry)
		jobCompanies.add(j.Company)
		employmentTypes.add(j.EmploymentType)
	}

	return models.SearchableData{
		Skills:           skills.values(),
		Locations:        locations.values(),
		Industries:       industries.values(),
		Companies:        companies.values(),
		JobTitles:        jobTitles.values(),
		SeniorityLevels:  seniorityLevels.values(),
		FunctionalAreas:  functionalAreas.values(),
		Certifications:   certifications.values(),
		Languages:        languages.values(),
		EducationDegrees: educationDegrees.values(),
		EducationFields:  educationFields.values(),
		JobSkills:        jobSkills.values(),
		JobLocations:     jobLocations.values(),
		JobIndustries:    jobIndustries.values(),
		JobCompanies:     jobCompanies.values(),
		EmploymentTypes:  employmentTypes.values(),
	}
}

// orderedSet keeps distinct non-empty strings in first-seen order.
type orderedSet struct {
	seen  map[string]struct{}
	items []string
}

func (s *orderedSet) add(value string) {
	if value == "" {
		return
	}
	if s.seen == nil {
		s.seen = map[string]struct{}{}
	}
	if _, ok := s.seen[value]; ok {
		return
	}
	s.seen[value] = struct{}{}
	s.items = append(s.items, value)
}

func (s *orderedSet) addAll(values []string) {
	for _, v := range values {
		s.add(v)
	}
}

func (s *orderedSet) values() []string {
	if s.items == nil {
		return []string{}
	}
	return s.items
}
