// internal/models/statistics.go
package models

// Statistics is the derived analytics block recomputed wholesale on every
// snapshot rebuild.
type Statistics struct {
	TotalCandidates   int     `json:"total_candidates"`
	TotalJobs         int     `json:"total_jobs"`
	AverageExperience float64 `json:"average_experience"`

	SkillsDistribution     []SkillCount                 `json:"skills_distribution"`
	LocationDistribution   []LocationCount              `json:"location_distribution"`
	SeniorityDistribution  []SeniorityCount             `json:"seniority_distribution"`
	IndustryDistribution   []IndustryCount              `json:"industry_distribution"`
	CompanyDistribution    []CompanyCount               `json:"company_distribution"`
	ExperienceDistribution []ExperienceRangeCount       `json:"experience_distribution"`
	TopCandidates          []TopCandidate               `json:"top_candidates"`
	SkillDemandAnalysis    []SkillDemand                `json:"skill_demand_analysis"`
	LocationInsights       map[string]*LocationInsight  `json:"location_insights"`

	AISummariesCount int `json:"ai_summaries_count"`
}

// SkillCount is one row of a skill occurrence ranking.
type SkillCount struct {
	Skill string `json:"skill"`
	Count int    `json:"count"`
}

// LocationCount is one row of the location distribution.
type LocationCount struct {
	Location string `json:"location"`
	Count    int    `json:"count"`
}

// SeniorityCount is one row of the seniority distribution.
type SeniorityCount struct {
	Seniority string `json:"seniority"`
	Count     int    `json:"count"`
}

// IndustryCount is one row of the industry distribution.
type IndustryCount struct {
	Industry string `json:"industry"`
	Count    int    `json:"count"`
}

// CompanyCount is one row of the company distribution.
type CompanyCount struct {
	Company string `json:"company"`
	Count   int    `json:"count"`
}

// ExperienceRangeCount is one fixed experience band and the number of
// candidates falling into it.
type ExperienceRangeCount struct {
	Range string `json:"range"`
	Count int    `json:"count"`
}

// TopCandidate is the reduced projection used in the top-candidates ranking.
type TopCandidate struct {
	UUID            string   `json:"uuid"`
	Name            string   `json:"name"`
	FitPercentage   float64  `json:"fit_percentage"`
	CurrentRole     string   `json:"current_role,omitempty"`
	ExperienceYears float64  `json:"experience_years"`
	Skills          []string `json:"skills"`
	Location        string   `json:"location,omitempty"`
	Industry        string   `json:"industry,omitempty"`
	Company         string   `json:"company,omitempty"`
}

// SkillDemand compares job demand against candidate supply for one skill.
// Ratio is demand over supply with supply floored at 1, so skills nobody on
// the bench has still get a finite ranking value.
type SkillDemand struct {
	Skill  string  `json:"skill"`
	Demand int     `json:"demand"`
	Supply int     `json:"supply"`
	Ratio  float64 `json:"ratio"`
}

// LocationInsight aggregates the candidate pool of a single location.
type LocationInsight struct {
	Count         int             `json:"count"`
	AvgExperience float64         `json:"avg_experience"`
	TopSkills     []SkillCount    `json:"top_skills"`
	Industries    []IndustryCount `json:"industries"`
	Companies     []CompanyCount  `json:"companies"`
}
