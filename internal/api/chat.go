// internal/api/chat.go
package api

import (
	"github.com/gin-gonic/gin"

	"recruitment-chat/internal/common/logger"
	"recruitment-chat/internal/models"
)

// quickInsightsQuery is the canned prompt behind the insights endpoint.
const quickInsightsQuery = "Give me a quick overview of the top candidates and their key strengths for this role"

var chatSuggestions = []string{
	"Hi!",
	"Show me top candidates",
	"What jobs are available?",
	"Analyze our data",
	"Find Python developers",
	"Compare candidates",
	"Skills overview",
	"How are you?",
}

// chatHandler serves the chat toolbox: canned suggestions for the UI and
// snapshot digests that do not belong to any one session.
type chatHandler struct {
	data   DataProvider
	ai     Analyzer
	logger logger.Logger
}

func (h *chatHandler) Suggestions(c *gin.Context) {
	c.JSON(200, gin.H{"suggestions": chatSuggestions})
}

func (h *chatHandler) Insights(c *gin.Context) {
	snapshot, err := h.data.GetSnapshot(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	analysis := h.ai.AnalyzeQuery(c.Request.Context(), quickInsightsQuery, snapshot)

	c.JSON(200, gin.H{
		"success":  true,
		"insights": analysis.Response,
		"data_summary": gin.H{
			"total_candidates":   snapshot.ProfilesCount,
			"total_jobs":         snapshot.JobsCount,
			"average_experience": snapshot.Statistics.AverageExperience,
		},
	})
}

// chatSummary keys mirror the frontend contract, hence the casing.
type chatSummary struct {
	TotalCandidates   int                    `json:"totalCandidates"`
	TotalJobs         int                    `json:"totalJobs"`
	TopFit            float64                `json:"topFit"`
	AverageFit        float64                `json:"averageFit"`
	AverageExperience float64                `json:"averageExperience"`
	TopSkills         []models.SkillCount    `json:"topSkills"`
	TopLocations      []models.LocationCount `json:"topLocations"`
	TopIndustries     []models.IndustryCount `json:"topIndustries"`
}

func (h *chatHandler) Summary(c *gin.Context) {
	snapshot, err := h.data.GetSnapshot(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	summary := chatSummary{
		TotalCandidates:   snapshot.ProfilesCount,
		TotalJobs:         snapshot.JobsCount,
		AverageExperience: snapshot.Statistics.AverageExperience,
		TopSkills:         firstSkills(snapshot.Statistics.SkillsDistribution, 5),
		TopLocations:      firstLocations(snapshot.Statistics.LocationDistribution, 5),
		TopIndustries:     firstIndustries(snapshot.Statistics.IndustryDistribution, 5),
	}

	var fitSum float64
	var fitCount int
	for _, p := range snapshot.Profiles {
		if p.FitPercentage <= 0 {
			continue
		}
		fitSum += p.FitPercentage
		fitCount++
		if p.FitPercentage > summary.TopFit {
			summary.TopFit = p.FitPercentage
		}
	}
	if fitCount > 0 {
		summary.AverageFit = fitSum / float64(fitCount)
	}

	respondData(c, summary)
}

func firstSkills(rows []models.SkillCount, n int) []models.SkillCount {
	if len(rows) > n {
		return rows[:n]
	}
	return rows
}

func firstLocations(rows []models.LocationCount, n int) []models.LocationCount {
	if len(rows) > n {
		return rows[:n]
	}
	return rows
}

func firstIndustries(rows []models.IndustryCount, n int) []models.IndustryCount {
	if len(rows) > n {
		return rows[:n]
	}
	return rows
}
