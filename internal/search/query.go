// internal/search/query.go
package search

import "recruitment-chat/internal/models"

// buildProfileQuery translates a free-text query plus structured filters into
// a bool query. Free text scores across the enriched text fields; filters go
// into the filter context so they constrain without affecting relevance.
func buildProfileQuery(query string, filters models.SearchFilters) map[string]interface{} {
	mustClauses := []interface{}{}
	filterClauses := []interface{}{}

	if query != "" {
		mustClauses = append(mustClauses, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  query,
				"fields": []string{"name^3", "current_role^2", "ai_summary^2", "skills", "industry", "location.name"},
				"type":   "best_fields",
			},
		})
	}

	for _, skill := range filters.Skills {
		if skill == "" {
			continue
		}
		filterClauses = append(filterClauses, map[string]interface{}{
			"match": map[string]interface{}{
				"skills": map[string]interface{}{
					"query":    skill,
					"operator": "and",
				},
			},
		})
	}

	if filters.ExperienceMin != nil || filters.ExperienceMax != nil {
		bounds := map[string]interface{}{}
		if filters.ExperienceMin != nil {
			bounds["gte"] = *filters.ExperienceMin
		}
		if filters.ExperienceMax != nil {
			bounds["lte"] = *filters.ExperienceMax
		}
		filterClauses = append(filterClauses, map[string]interface{}{
			"range": map[string]interface{}{"experience_years": bounds},
		})
	}

	if filters.Location != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  filters.Location,
				"fields": []string{"location.name", "location.country"},
			},
		})
	}
	if filters.Industry != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"match": map[string]interface{}{"industry": filters.Industry},
		})
	}
	if filters.Seniority != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"match": map[string]interface{}{"seniority": filters.Seniority},
		})
	}

	boolQuery := map[string]interface{}{}
	if len(mustClauses) > 0 {
		boolQuery["must"] = mustClauses
	}
	if len(filterClauses) > 0 {
		boolQuery["filter"] = filterClauses
	}
	if len(boolQuery) == 0 {
		return map[string]interface{}{
			"query": map[string]interface{}{"match_all": map[string]interface{}{}},
			"sort":  []interface{}{map[string]interface{}{"fit_percentage": "desc"}},
		}
	}

	return map[string]interface{}{
		"query": map[string]interface{}{"bool": boolQuery},
	}
}
