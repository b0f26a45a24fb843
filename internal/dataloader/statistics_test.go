// internal/dataloader/statistics_test.go
package dataloader

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recruitment-chat/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

func candidate(uuid string, fit float64, years float64, skills ...string) models.EnrichedProfile {
	return models.EnrichedProfile{
		UUID:            uuid,
		Name:            "Candidate " + uuid,
		FitPercentage:   fit,
		ExperienceYears: years,
		Skills:          skills,
	}
}

func jobWithSkills(id string, skills ...string) models.EnrichedJob {
	return models.EnrichedJob{ID: id, Skills: skills}
}

// ==========================
// Distribution Tests
// ==========================

func TestSkillsDistribution_RanksByCount(t *testing.T) {
	profiles := []models.EnrichedProfile{
		candidate("a1", 0, 0, "Go", "SQL"),
		candidate("a2", 0, 0, "Go", "Python"),
		candidate("a3", 0, 0, "Go"),
	}

	rows := skillsDistribution(profiles)
	require.Len(t, rows, 3)
	assert.Equal(t, models.SkillCount{Skill: "Go", Count: 3}, rows[0])
	// SQL and Python tie at 1; first-seen order breaks the tie.
	assert.Equal(t, models.SkillCount{Skill: "SQL", Count: 1}, rows[1])
	assert.Equal(t, models.SkillCount{Skill: "Python", Count: 1}, rows[2])
}

func TestSkillsDistribution_NoDeduplicationWithinProfile(t *testing.T) {
	profiles := []models.EnrichedProfile{
		candidate("a1", 0, 0, "Go", "Go"),
	}

	rows := skillsDistribution(profiles)
	require.Len(t, rows, 1)
	assert.Equal(t, 2, rows[0].Count)
}

func TestSkillsDistribution_TruncatesToTop20(t *testing.T) {
	var profiles []models.EnrichedProfile
	for i := 0; i < 25; i++ {
		profiles = append(profiles, candidate(fmt.Sprintf("a%d", i), 0, 0, fmt.Sprintf("skill-%d", i)))
	}

	rows := skillsDistribution(profiles)
	assert.Len(t, rows, topSkillsLimit)
}

func TestLocationDistribution_FallbackChain(t *testing.T) {
	profiles := []models.EnrichedProfile{
		{UUID: "a1", Location: models.ProfileLocation{Name: "Berlin"}},
		{UUID: "a2", Location: models.ProfileLocation{Country: "Germany"}},
		{UUID: "a3"},
	}

	rows := locationDistribution(profiles)
	require.Len(t, rows, 3)
	labels := []string{rows[0].Location, rows[1].Location, rows[2].Location}
	assert.ElementsMatch(t, []string{"Berlin", "Germany", "Unknown"}, labels)
}

func TestSeniorityDistribution_UnboundedFirstSeenOrder(t *testing.T) {
	profiles := []models.EnrichedProfile{
		{UUID: "a1", Seniority: "Senior"},
		{UUID: "a2"},
		{UUID: "a3", Seniority: "Junior"},
		{UUID: "a4", Seniority: "Senior"},
	}

	rows := seniorityDistribution(profiles)
	require.Len(t, rows, 3)
	assert.Equal(t, models.SeniorityCount{Seniority: "Senior", Count: 2}, rows[0])
	assert.Equal(t, models.SeniorityCount{Seniority: models.NotSpecified, Count: 1}, rows[1])
	assert.Equal(t, models.SeniorityCount{Seniority: "Junior", Count: 1}, rows[2])
}

func TestExperienceDistribution_BandsCoverEveryProfile(t *testing.T) {
	profiles := []models.EnrichedProfile{
		{UUID: "a1", ExperienceYears: 0},
		{UUID: "a2", ExperienceYears: 2},
		{UUID: "a3", ExperienceYears: 2.5},
		{UUID: "a4", ExperienceYears: 5},
		{UUID: "a5", ExperienceYears: 10},
		{UUID: "a6", ExperienceYears: 15},
		{UUID: "a7", ExperienceYears: 16},
		{UUID: "a8", ExperienceYears: 40},
	}

	rows := experienceDistribution(profiles)
	require.Len(t, rows, 5)

	byRange := map[string]int{}
	total := 0
	for _, row := range rows {
		byRange[row.Range] = row.Count
		total += row.Count
	}

	assert.Equal(t, len(profiles), total)
	assert.Equal(t, 2, byRange["0-2 years"])
	assert.Equal(t, 2, byRange["3-5 years"])
	assert.Equal(t, 1, byRange["6-10 years"])
	assert.Equal(t, 1, byRange["11-15 years"])
	assert.Equal(t, 2, byRange["16+ years"])
}

func TestExperienceDistribution_EmptyInputKeepsAllBands(t *testing.T) {
	rows := experienceDistribution(nil)
	require.Len(t, rows, 5)
	for _, row := range rows {
		assert.Equal(t, 0, row.Count)
	}
}

// ==========================
// Ranking Tests
// ==========================

func TestTopCandidates_FiltersSortsAndProjects(t *testing.T) {
	profiles := []models.EnrichedProfile{
		candidate("a1", 0, 3, "Go"),
		candidate("a2", 91, 8, "Go", "SQL", "Python", "Rust", "Java", "C", "C++", "Scala", "Kotlin"),
		candidate("a3", 55, 2, "SQL"),
	}

	rows := topCandidates(profiles, 20)
	require.Len(t, rows, 2)

	assert.Equal(t, "a2", rows[0].UUID)
	assert.Equal(t, "a3", rows[1].UUID)
	assert.Len(t, rows[0].Skills, topCandidateSkillsCap)
}

func TestTopCandidates_RespectsLimit(t *testing.T) {
	var profiles []models.EnrichedProfile
	for i := 1; i <= 30; i++ {
		profiles = append(profiles, candidate(fmt.Sprintf("a%d", i), float64(i), 0))
	}

	rows := topCandidates(profiles, 20)
	require.Len(t, rows, 20)
	assert.Equal(t, 30.0, rows[0].FitPercentage)
}

func TestSkillDemandAnalysis_RatioAndOrdering(t *testing.T) {
	jobs := []models.EnrichedJob{
		jobWithSkills("j1", "Python"),
		jobWithSkills("j2", "Python", "Go"),
	}
	profiles := []models.EnrichedProfile{
		candidate("a1", 0, 0, "Python"),
	}

	rows := skillDemandAnalysis(profiles, jobs)
	require.Len(t, rows, 2)

	// Go: demand 1, supply 0, ratio 1/max(0,1)=1 vs Python: demand 2, supply 1, ratio 2.
	assert.Equal(t, models.SkillDemand{Skill: "Python", Demand: 2, Supply: 1, Ratio: 2}, rows[0])
	assert.Equal(t, models.SkillDemand{Skill: "Go", Demand: 1, Supply: 0, Ratio: 1}, rows[1])
}

func TestSkillDemandAnalysis_ExcludesZeroDemandSkills(t *testing.T) {
	profiles := []models.EnrichedProfile{candidate("a1", 0, 0, "Cobol")}
	jobs := []models.EnrichedJob{jobWithSkills("j1", "Go")}

	rows := skillDemandAnalysis(profiles, jobs)
	require.Len(t, rows, 1)
	assert.Equal(t, "Go", rows[0].Skill)
}

// ==========================
// Location Insight Tests
// ==========================

func TestLocationInsights_GroupAggregates(t *testing.T) {
	profiles := []models.EnrichedProfile{
		{UUID: "a1", Location: models.ProfileLocation{Name: "Berlin"}, ExperienceYears: 4, Skills: []string{"Go", "SQL"}, Industry: "Tech", CurrentCompany: models.Company{Name: "Acme"}},
		{UUID: "a2", Location: models.ProfileLocation{Name: "Berlin"}, ExperienceYears: 8, Skills: []string{"Go"}, Industry: "Tech"},
		{UUID: "a3", ExperienceYears: 1},
	}

	insights := locationInsights(profiles)
	require.Len(t, insights, 2)

	berlin := insights["Berlin"]
	require.NotNil(t, berlin)
	assert.Equal(t, 2, berlin.Count)
	assert.Equal(t, 6.0, berlin.AvgExperience)
	require.NotEmpty(t, berlin.TopSkills)
	assert.Equal(t, models.SkillCount{Skill: "Go", Count: 2}, berlin.TopSkills[0])
	assert.Equal(t, []models.IndustryCount{{Industry: "Tech", Count: 2}}, berlin.Industries)
	assert.Equal(t, []models.CompanyCount{{Company: "Acme", Count: 1}}, berlin.Companies)

	unknown := insights["Unknown"]
	require.NotNil(t, unknown)
	assert.Equal(t, 1, unknown.Count)
	assert.Equal(t, 1.0, unknown.AvgExperience)
}

// ==========================
// Full Statistics Tests
// ==========================

func TestBuildStatistics_Totals(t *testing.T) {
	profiles := []models.EnrichedProfile{
		candidate("a1", 80, 4, "Go"),
		candidate("a2", 0, 6, "SQL"),
	}
	jobs := []models.EnrichedJob{jobWithSkills("j1", "Go")}

	stats := buildStatistics(profiles, jobs, 1)

	assert.Equal(t, 2, stats.TotalCandidates)
	assert.Equal(t, 1, stats.TotalJobs)
	assert.Equal(t, 5.0, stats.AverageExperience)
	assert.Equal(t, 1, stats.AISummariesCount)
	require.Len(t, stats.TopCandidates, 1)
	assert.Equal(t, "a1", stats.TopCandidates[0].UUID)
}

func TestBuildStatistics_EmptyInput(t *testing.T) {
	stats := buildStatistics(nil, nil, 0)

	assert.Equal(t, 0, stats.TotalCandidates)
	assert.Equal(t, 0.0, stats.AverageExperience)
	assert.Empty(t, stats.SkillsDistribution)
	assert.Len(t, stats.ExperienceDistribution, 5)
}
