// internal/models/snapshot.go
package models

import "time"

// SnapshotVersion labels the enriched data layout; bumped on breaking shape changes.
const SnapshotVersion = "2.0"

// Snapshot is the aggregate root produced by a full rebuild: enriched
// collections, derived statistics and the searchable index, stamped with the
// rebuild time. Immutable once published; the cache replaces it wholesale.
type Snapshot struct {
	Profiles      []EnrichedProfile `json:"profiles"`
	ProfilesCount int               `json:"profiles_count"`

	Jobs      []EnrichedJob `json:"jobs"`
	JobsCount int           `json:"jobs_count"`

	AISummaries      []RawAISummary `json:"ai_summaries"`
	AISummariesCount int            `json:"ai_summaries_count"`

	Statistics     Statistics     `json:"statistics"`
	SearchableData SearchableData `json:"searchable_data"`

	LastUpdated time.Time `json:"last_updated"`
	DataVersion string    `json:"data_version"`
}

// Age reports how long ago the snapshot was built.
func (s *Snapshot) Age(now time.Time) time.Duration {
	return now.Sub(s.LastUpdated)
}

// Overview is the condensed snapshot view served by the data overview endpoint.
type Overview struct {
	ProfilesCount    int        `json:"profiles_count"`
	JobsCount        int        `json:"jobs_count"`
	AISummariesCount int        `json:"ai_summaries_count"`
	Statistics       Statistics `json:"statistics"`
	LastUpdated      time.Time  `json:"last_updated"`
}

// SearchableData holds the distinct values of every facet the UI and the LLM
// context builder can filter on, in first-seen order.
type SearchableData struct {
	Skills           []string `json:"skills"`
	Locations        []string `json:"locations"`
	Industries       []string `json:"industries"`
	Companies        []string `json:"companies"`
	JobTitles        []string `json:"job_titles"`
	SeniorityLevels  []string `json:"seniority_levels"`
	FunctionalAreas  []string `json:"functional_areas"`
	Certifications   []string `json:"certifications"`
	Languages        []string `json:"languages"`
	EducationDegrees []string `json:"education_degrees"`
	EducationFields  []string `json:"education_fields"`
	JobSkills        []string `json:"job_skills"`
	JobLocations     []string `json:"job_locations"`
	JobIndustries    []string `json:"job_industries"`
	JobCompanies     []string `json:"job_companies"`
	EmploymentTypes  []string `json:"employment_types"`
}
