// internal/services/aiservice/context.go
package aiservice

import (
	"fmt"
	"strings"

	"recruitment-chat/internal/models"
)

const systemPrompt = `You are an expert recruitment AI assistant specializing in matching candidate profiles to job requirements.

Your role is to:
1. Analyze candidate profiles against job requirements.
2. Provide insights on skills matches and experience levels.
3. Recommend top candidates with clear reasoning.
4. Answer questions about recruitment data in a helpful, professional manner.

Always respond in markdown format with:
- Clear explanations for recommendations.
- Tables for candidate comparisons (name, fit %, skills, experience).
- Actionable insights for recruiters.

Be concise but thorough.`

const contextCandidateLimit = 10

// buildContext renders the snapshot fields the assistant is allowed to reason
// over: job postings, pool statistics and the top candidates. Field names are
// kept stable; downstream prompts depend on them.
func buildContext(snapshot *models.Snapshot) string {
	if snapshot == nil {
		return "No context provided"
	}

	var b strings.Builder

	for i := range snapshot.Jobs {
		job := &snapshot.Jobs[i]
		b.WriteString("\n\nJOB INFORMATION:\n")
		fmt.Fprintf(&b, "Title: %s\n", job.Title)
		fmt.Fprintf(&b, "Company: %s\n", job.Company)
		fmt.Fprintf(&b, "Required Skills: %s\n", strings.Join(job.Skills, ", "))
		fmt.Fprintf(&b, "Experience Level: %s\n", job.ExperienceLevel)
		fmt.Fprintf(&b, "Requirements: %s\n", strings.Join(job.Requirements, ", "))
	}

	stats := snapshot.Statistics
	b.WriteString("\n\nTALENT POOL STATISTICS:\n")
	fmt.Fprintf(&b, "Total Candidates: %d\n", stats.TotalCandidates)
	fmt.Fprintf(&b, "Total Jobs: %d\n", stats.TotalJobs)
	fmt.Fprintf(&b, "Average Experience: %.1f years\n", stats.AverageExperience)
	if len(stats.SkillsDistribution) > 0 {
		skills := make([]string, 0, len(stats.SkillsDistribution))
		for _, row := range stats.SkillsDistribution {
			skills = append(skills, fmt.Sprintf("%s (%d)", row.Skill, row.Count))
		}
		fmt.Fprintf(&b, "Top Skills: %s\n", strings.Join(skills, ", "))
	}

	candidates := stats.TopCandidates
	if len(candidates) > contextCandidateLimit {
		candidates = candidates[:contextCandidateLimit]
	}
	if len(candidates) > 0 {
		fmt.Fprintf(&b, "\n\nCANDIDATE PROFILES (Top %d):\n", len(candidates))
		for i, c := range candidates {
			fmt.Fprintf(&b, "\n%d. %s (%.0f%% fit)\n", i+1, c.Name, c.FitPercentage)
			fmt.Fprintf(&b, "   Skills: %s\n", strings.Join(c.Skills, ", "))
			fmt.Fprintf(&b, "   Experience: %.1f years\n", c.ExperienceYears)
			if c.CurrentRole != "" {
				fmt.Fprintf(&b, "   Current Role: %s\n", c.CurrentRole)
			}
			if c.Location != "" {
				fmt.Fprintf(&b, "   Location: %s\n", c.Location)
			}
		}
	}

	return b.String()
}

func buildUserPrompt(query string, context string) string {
	return fmt.Sprintf(`User Query: %s

%s

Please provide a comprehensive response addressing the user's query. Use markdown tables for candidate comparisons.`, query, context)
}

// extractReasoning pulls an explicit "Reasoning:" line out of the response
// when the model provided one.
func extractReasoning(response string) string {
	for _, line := range strings.Split(response, "\n") {
		trimmed := strings.TrimSpace(line)
		lower := strings.ToLower(trimmed)
		if strings.HasPrefix(lower, "reasoning:") {
			reason := strings.TrimSpace(trimmed[len("reasoning:"):])
			if reason != "" {
				return reason
			}
		}
	}
	return "Reasoning not explicitly provided"
}
