// internal/dataloader/search_test.go
package dataloader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recruitment-chat/internal/models"
)

func float64Ptr(v float64) *float64 { return &v }

func searchFixture() *models.Snapshot {
	return &models.Snapshot{
		Profiles: []models.EnrichedProfile{
			{
				UUID:            "a1",
				Name:            "Jane Smith",
				CurrentRole:     "Backend Engineer",
				Industry:        "Fintech",
				Seniority:       "Senior",
				Skills:          []string{"Python", "PostgreSQL"},
				ExperienceYears: 7,
				FitPercentage:   62,
				Location:        models.ProfileLocation{Name: "Austin", Country: "USA"},
			},
			{
				UUID:            "a2",
				Name:            "Omar Haddad",
				CurrentRole:     "Data Scientist",
				Industry:        "Healthcare",
				Skills:          []string{"Python", "Scala"},
				ExperienceYears: 3,
				FitPercentage:   90,
				Location:        models.ProfileLocation{Name: "Berlin", Country: "Germany"},
			},
			{
				UUID:            "a3",
				Name:            "Chen Wei",
				CurrentRole:     "Frontend Engineer",
				Skills:          []string{"TypeScript"},
				ExperienceYears: 5,
				FitPercentage:   75,
				Location:        models.ProfileLocation{Name: "Singapore"},
			},
		},
	}
}

// ==========================
// Text Search Tests
// ==========================

func TestSearchProfiles_EmptyQueryReturnsAllSortedByFit(t *testing.T) {
	snapshot := searchFixture()

	result := searchProfiles(snapshot, "", models.SearchFilters{})

	assert.Equal(t, len(snapshot.Profiles), result.Total)
	require.Len(t, result.Results, 3)
	assert.Equal(t, "a2", result.Results[0].UUID)
	assert.Equal(t, "a3", result.Results[1].UUID)
	assert.Equal(t, "a1", result.Results[2].UUID)
}

func TestSearchProfiles_QueryMatchesAnyField(t *testing.T) {
	snapshot := searchFixture()

	tests := []struct {
		name     string
		query    string
		expected []string
	}{
		{"matches name", "jane", []string{"a1"}},
		{"matches role", "engineer", []string{"a3", "a1"}},
		{"matches skill substring", "python", []string{"a2", "a1"}},
		{"matches industry", "health", []string{"a2"}},
		{"matches location name", "singapore", []string{"a3"}},
		{"no match", "golang", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := searchProfiles(snapshot, tt.query, models.SearchFilters{})
			uuids := make([]string, 0, len(result.Results))
			for _, p := range result.Results {
				uuids = append(uuids, p.UUID)
			}
			if tt.expected == nil {
				assert.Empty(t, uuids)
			} else {
				assert.Equal(t, tt.expected, uuids)
			}
		})
	}
}

// ==========================
// Structured Filter Tests
// ==========================

func TestSearchProfiles_ExperienceBoundsAreInclusive(t *testing.T) {
	snapshot := searchFixture()

	result := searchProfiles(snapshot, "", models.SearchFilters{
		ExperienceMin: float64Ptr(5),
		ExperienceMax: float64Ptr(7),
	})

	uuids := make([]string, 0, len(result.Results))
	for _, p := range result.Results {
		uuids = append(uuids, p.UUID)
	}
	assert.ElementsMatch(t, []string{"a1", "a3"}, uuids)
}

func TestSearchProfiles_QueryAndFilterCombineWithAnd(t *testing.T) {
	snapshot := searchFixture()

	// a2 has Python but only 3 years.
	result := searchProfiles(snapshot, "python", models.SearchFilters{
		ExperienceMin: float64Ptr(5),
	})

	require.Len(t, result.Results, 1)
	assert.Equal(t, "a1", result.Results[0].UUID)
}

func TestSearchProfiles_SkillFilterBidirectionalSubstring(t *testing.T) {
	snapshot := searchFixture()

	// Filter term longer than the stored skill still matches.
	result := searchProfiles(snapshot, "", models.SearchFilters{
		Skills: []string{"python 3"},
	})
	assert.Equal(t, 2, result.Total)

	// Filter term substring of the stored skill.
	result = searchProfiles(snapshot, "", models.SearchFilters{
		Skills: []string{"postgre"},
	})
	require.Len(t, result.Results, 1)
	assert.Equal(t, "a1", result.Results[0].UUID)

	// The stored-skill-inside-term direction matches per skill, not per
	// profile: "scala 3" reaches a2 through Scala alone.
	result = searchProfiles(snapshot, "", models.SearchFilters{
		Skills: []string{"scala 3"},
	})
	require.Len(t, result.Results, 1)
	assert.Equal(t, "a2", result.Results[0].UUID)
}

func TestSearchProfiles_LocationFilterMatchesNameOrCountry(t *testing.T) {
	snapshot := searchFixture()

	byName := searchProfiles(snapshot, "", models.SearchFilters{Location: "berlin"})
	require.Len(t, byName.Results, 1)
	assert.Equal(t, "a2", byName.Results[0].UUID)

	byCountry := searchProfiles(snapshot, "", models.SearchFilters{Location: "usa"})
	require.Len(t, byCountry.Results, 1)
	assert.Equal(t, "a1", byCountry.Results[0].UUID)
}

func TestSearchProfiles_IndustryAndSeniorityFilters(t *testing.T) {
	snapshot := searchFixture()

	result := searchProfiles(snapshot, "", models.SearchFilters{Industry: "fin"})
	require.Len(t, result.Results, 1)
	assert.Equal(t, "a1", result.Results[0].UUID)

	result = searchProfiles(snapshot, "", models.SearchFilters{Seniority: "senior"})
	require.Len(t, result.Results, 1)
	assert.Equal(t, "a1", result.Results[0].UUID)
}

func TestSearchProfiles_EchoesQueryAndFilters(t *testing.T) {
	snapshot := searchFixture()
	filters := models.SearchFilters{Industry: "Fintech"}

	result := searchProfiles(snapshot, "jane", filters)
	assert.Equal(t, "jane", result.Query)
	assert.Equal(t, filters, result.Filters)
	assert.Equal(t, 1, result.Total)
}
