// internal/dataloader/search.go
package dataloader

import (
	"sort"
	"strings"

	"recruitment-chat/internal/models"
)

// searchProfiles applies the free-text query and the structured filters over
// an immutable snapshot's profiles. The query matches as a single
// case-insensitive substring against name, current role, industry, location
// name and each skill; filters combine with AND. Results are always ordered
// by fit percentage descending, insertion order breaking ties.
func searchProfiles(snapshot *models.Snapshot, query string, filters models.SearchFilters) models.SearchResult {
	results := make([]models.EnrichedProfile, 0, len(snapshot.Profiles))

	queryLower := strings.ToLower(query)
	for i := range snapshot.Profiles {
		p := &snapshot.Profiles[i]
		if queryLower != "" && !matchesQuery(p, queryLower) {
			continue
		}
		if !matchesFilters(p, filters) {
			continue
		}
		results = append(results, *p)
	}

	sort.SliceStable(results, func(a, b int) bool {
		return results[a].FitPercentage > results[b].FitPercentage
	})

	return models.SearchResult{
		Results: results,
		Total:   len(results),
		Query:   query,
		Filters: filters,
	}
}

func matchesQuery(p *models.EnrichedProfile, queryLower string) bool {
	if containsFold(p.Name, queryLower) ||
		containsFold(p.CurrentRole, queryLower) ||
		containsFold(p.Industry, queryLower) ||
		containsFold(p.Location.Name, queryLower) {
		return true
	}
	for _, skill := range p.Skills {
		if containsFold(skill, queryLower) {
			return true
		}
	}
	return false
}

func matchesFilters(p *models.EnrichedProfile, filters models.SearchFilters) bool {
	if len(filters.Skills) > 0 && !matchesSkillFilter(p.Skills, filters.Skills) {
		return false
	}
	if filters.ExperienceMin != nil && p.ExperienceYears < *filters.ExperienceMin {
		return false
	}
	if filters.ExperienceMax != nil && p.ExperienceYears > *filters.ExperienceMax {
		return false
	}
	if filters.Location != "" {
		locationLower := strings.ToLower(filters.Location)
		if !containsFold(p.Location.Name, locationLower) &&
			!containsFold(p.Location.Country, locationLower) {
			return false
		}
	}
	if filters.Industry != "" && !containsFold(p.Industry, strings.ToLower(filters.Industry)) {
		return false
	}
	if filters.Seniority != "" && !containsFold(p.Seniority, strings.ToLower(filters.Seniority)) {
		return false
	}
	return true
}

// matchesSkillFilter is a bidirectional substring check: a filter term
// matches a profile skill if either contains the other, case-insensitive.
func matchesSkillFilter(skills, filterSkills []string) bool {
	for _, want := range filterSkills {
		wantLower := strings.ToLower(want)
		for _, skill := range skills {
			skillLower := strings.ToLower(skill)
			if strings.Contains(skillLower, wantLower) || strings.Contains(wantLower, skillLower) {
				return true
			}
		}
	}
	return false
}

// containsFold reports whether value contains needleLower ignoring case.
// needleLower must already be lowercased.
func containsFold(value, needleLower string) bool {
	return value != "" && strings.Contains(strings.ToLower(value), needleLower)
}
