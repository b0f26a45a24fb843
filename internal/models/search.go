// internal/models/search.go
package models

// SearchFilters are the structured constraints of a profile search. All
// fields are optional; present fields combine with logical AND. Experience
// bounds are inclusive and use pointers so that zero is a real bound.
type SearchFilters struct {
	Skills        []string `json:"skills,omitempty"`
	ExperienceMin *float64 `json:"experience_min,omitempty"`
	ExperienceMax *float64 `json:"experience_max,omitempty"`
	Location      string   `json:"location,omitempty"`
	Industry      string   `json:"industry,omitempty"`
	Seniority     string   `json:"seniority,omitempty"`
}

// Empty reports whether no filter is set.
func (f SearchFilters) Empty() bool {
	return len(f.Skills) == 0 &&
		f.ExperienceMin == nil && f.ExperienceMax == nil &&
		f.Location == "" && f.Industry == "" && f.Seniority == ""
}

// SearchResult is the outcome of a profile search, ordered by fit percentage
// descending.
type SearchResult struct {
	Results []EnrichedProfile `json:"results"`
	Total   int               `json:"total"`
	Query   string            `json:"query"`
	Filters SearchFilters     `json:"filters"`
}
