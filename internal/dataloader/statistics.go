// internal/dataloader/statistics.go
package dataloader

import (
	"sort"

	"recruitment-chat/internal/models"
)

const (
	topSkillsLimit         = 20
	topLocationsLimit      = 15
	topIndustriesLimit     = 15
	topCompaniesLimit      = 15
	topCandidatesLimit     = 20
	topSkillDemandLimit    = 20
	insightSkillsLimit     = 5
	insightIndustriesLimit = 3
	insightCompaniesLimit  = 3
	topCandidateSkillsCap  = 8
)

// experienceBands are the fixed inclusive buckets of the experience
// distribution. Every profile falls into exactly one band.
var experienceBands = []struct {
	label string
	max   float64
}{
	{"0-2 years", 2},
	{"3-5 years", 5},
	{"6-10 years", 10},
	{"11-15 years", 15},
	{"16+ years", -1},
}

// buildStatistics recomputes the full analytics block from the enriched
// collections. Pure over its inputs.
func buildStatistics(profiles []models.EnrichedProfile, jobs []models.EnrichedJob, summariesCount int) models.Statistics {
	return models.Statistics{
		TotalCandidates:   len(profiles),
		TotalJobs:         len(jobs),
		AverageExperience: averageExperience(profiles),

		SkillsDistribution:     skillsDistribution(profiles),
		LocationDistribution:   locationDistribution(profiles),
		SeniorityDistribution:  seniorityDistribution(profiles),
		IndustryDistribution:   industryDistribution(profiles),
		CompanyDistribution:    companyDistribution(profiles),
		ExperienceDistribution: experienceDistribution(profiles),
		TopCandidates:          topCandidates(profiles, topCandidatesLimit),
		SkillDemandAnalysis:    skillDemandAnalysis(profiles, jobs),
		LocationInsights:       locationInsights(profiles),

		AISummariesCount: summariesCount,
	}
}

func averageExperience(profiles []models.EnrichedProfile) float64 {
	if len(profiles) == 0 {
		return 0
	}
	sum := 0.0
	for i := range profiles {
		sum += profiles[i].ExperienceYears
	}
	return sum / float64(len(profiles))
}

func skillsDistribution(profiles []models.EnrichedProfile) []models.SkillCount {
	var counter orderedCounter
	for i := range profiles {
		for _, skill := range profiles[i].Skills {
			counter.add(skill)
		}
	}
	ranked := counter.top(topSkillsLimit)
	rows := make([]models.SkillCount, len(ranked))
	for i, entry := range ranked {
		rows[i] = models.SkillCount{Skill: entry.key, Count: entry.count}
	}
	return rows
}

func locationDistribution(profiles []models.EnrichedProfile) []models.LocationCount {
	var counter orderedCounter
	for i := range profiles {
		location := profiles[i].Location.Name
		if location == "" {
			location = profiles[i].Location.Country
		}
		if location == "" {
			location = "Unknown"
		}
		counter.add(location)
	}
	ranked := counter.top(topLocationsLimit)
	rows := make([]models.LocationCount, len(ranked))
	for i, entry := range ranked {
		rows[i] = models.LocationCount{Location: entry.key, Count: entry.count}
	}
	return rows
}

// seniorityDistribution is unbounded and keeps first-seen order rather than
// ranking by count.
func seniorityDistribution(profiles []models.EnrichedProfile) []models.SeniorityCount {
	var counter orderedCounter
	for i := range profiles {
		seniority := profiles[i].Seniority
		if seniority == "" {
			seniority = models.NotSpecified
		}
		counter.add(seniority)
	}
	rows := make([]models.SeniorityCount, len(counter.entries))
	for i, entry := range counter.entries {
		rows[i] = models.SeniorityCount{Seniority: entry.key, Count: entry.count}
	}
	return rows
}

func industryDistribution(profiles []models.EnrichedProfile) []models.IndustryCount {
	var counter orderedCounter
	for i := range profiles {
		industry := profiles[i].Industry
		if industry == "" {
			industry = models.NotSpecified
		}
		counter.add(industry)
	}
	ranked := counter.top(topIndustriesLimit)
	rows := make([]models.IndustryCount, len(ranked))
	for i, entry := range ranked {
		rows[i] = models.IndustryCount{Industry: entry.key, Count: entry.count}
	}
	return rows
}

func companyDistribution(profiles []models.EnrichedProfile) []models.CompanyCount {
	var counter orderedCounter
	for i := range profiles {
		company := profiles[i].CurrentCompany.Name
		if company == "" {
			company = models.NotSpecified
		}
		counter.add(company)
	}
	ranked := counter.top(topCompaniesLimit)
	rows := make([]models.CompanyCount, len(ranked))
	for i, entry := range ranked {
		rows[i] = models.CompanyCount{Company: entry.key, Count: entry.count}
	}
	return rows
}

func experienceDistribution(profiles []models.EnrichedProfile) []models.ExperienceRangeCount {
	counts := make([]int, len(experienceBands))
	for i := range profiles {
		years := profiles[i].ExperienceYears
		for b, band := range experienceBands {
			if band.max < 0 || years <= band.max {
				counts[b]++
				break
			}
		}
	}
	rows := make([]models.ExperienceRangeCount, len(experienceBands))
	for b, band := range experienceBands {
		rows[b] = models.ExperienceRangeCount{Range: band.label, Count: counts[b]}
	}
	return rows
}

// topCandidates ranks profiles with a positive fit percentage and projects the
// reduced field set, capping skills at the first eight.
func topCandidates(profiles []models.EnrichedProfile, limit int) []models.TopCandidate {
	ranked := make([]*models.EnrichedProfile, 0, len(profiles))
	for i := range profiles {
		if profiles[i].FitPercentage > 0 {
			ranked = append(ranked, &profiles[i])
		}
	}
	sort.SliceStable(ranked, func(a, b int) bool {
		return ranked[a].FitPercentage > ranked[b].FitPercentage
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	rows := make([]models.TopCandidate, len(ranked))
	for i, p := range ranked {
		skills := p.Skills
		if len(skills) > topCandidateSkillsCap {
			skills = skills[:topCandidateSkillsCap]
		}
		rows[i] = models.TopCandidate{
			UUID:            p.UUID,
			Name:            p.Name,
			FitPercentage:   p.FitPercentage,
			CurrentRole:     p.CurrentRole,
			ExperienceYears: p.ExperienceYears,
			Skills:          skills,
			Location:        p.Location.Name,
			Industry:        p.Industry,
			Company:         p.CurrentCompany.Name,
		}
	}
	return rows
}

// skillDemandAnalysis compares job skill demand against candidate supply.
// Only skills with demand > 0 appear; ratio floors supply at 1.
func skillDemandAnalysis(profiles []models.EnrichedProfile, jobs []models.EnrichedJob) []models.SkillDemand {
	var demand orderedCounter
	for i := range jobs {
		for _, skill := range jobs[i].Skills {
			demand.add(skill)
		}
	}

	supply := map[string]int{}
	for i := range profiles {
		for _, skill := range profiles[i].Skills {
			supply[skill]++
		}
	}

	rows := make([]models.SkillDemand, 0, len(demand.entries))
	for _, entry := range demand.entries {
		supplied := supply[entry.key]
		divisor := supplied
		if divisor == 0 {
			divisor = 1
		}
		rows = append(rows, models.SkillDemand{
			Skill:  entry.key,
			Demand: entry.count,
			Supply: supplied,
			Ratio:  float64(entry.count) / float64(divisor),
		})
	}

	sort.SliceStable(rows, func(a, b int) bool {
		return rows[a].Ratio > rows[b].Ratio
	})
	if len(rows) > topSkillDemandLimit {
		rows = rows[:topSkillDemandLimit]
	}
	return rows
}

func locationInsights(profiles []models.EnrichedProfile) map[string]*models.LocationInsight {
	type accumulator struct {
		count      int
		experience float64
		skills     orderedCounter
		industries orderedCounter
		companies  orderedCounter
	}

	groups := map[string]*accumulator{}
	for i := range profiles {
		p := &profiles[i]
		location := p.Location.Name
		if location == "" {
			location = "Unknown"
		}
		acc := groups[location]
		if acc == nil {
			acc = &accumulator{}
			groups[location] = acc
		}
		acc.count++
		acc.experience += p.ExperienceYears
		for _, skill := range p.Skills {
			acc.skills.add(skill)
		}
		if p.Industry != "" {
			acc.industries.add(p.Industry)
		}
		if p.CurrentCompany.Name != "" {
			acc.companies.add(p.CurrentCompany.Name)
		}
	}

	insights := make(map[string]*models.LocationInsight, len(groups))
	for location, acc := range groups {
		topSkills := acc.skills.top(insightSkillsLimit)
		skillRows := make([]models.SkillCount, len(topSkills))
		for i, entry := range topSkills {
			skillRows[i] = models.SkillCount{Skill: entry.key, Count: entry.count}
		}

		topIndustries := acc.industries.top(insightIndustriesLimit)
		industryRows := make([]models.IndustryCount, len(topIndustries))
		for i, entry := range topIndustries {
			industryRows[i] = models.IndustryCount{Industry: entry.key, Count: entry.count}
		}

		topCompanies := acc.companies.top(insightCompaniesLimit)
		companyRows := make([]models.CompanyCount, len(topCompanies))
		for i, entry := range topCompanies {
			companyRows[i] = models.CompanyCount{Company: entry.key, Count: entry.count}
		}

		insights[location] = &models.LocationInsight{
			Count:         acc.count,
			AvgExperience: acc.experience / float64(acc.count),
			TopSkills:     skillRows,
			Industries:    industryRows,
			Companies:     companyRows,
		}
	}
	return insights
}

// orderedCounter counts string occurrences while remembering first-seen
// order, so that equal counts rank deterministically.
type orderedCounter struct {
	index   map[string]int
	entries []counterEntry
}

type counterEntry struct {
	key   string
	count int
}

func (c *orderedCounter) add(key string) {
	if c.index == nil {
		c.index = map[string]int{}
	}
	if i, ok := c.index[key]; ok {
		c.entries[i].count++
		return
	}
	c.index[key] = len(c.entries)
	c.entries = append(c.entries, counterEntry{key: key, count: 1})
}

// top returns the entries sorted by count descending, first-seen order
// breaking ties, truncated to limit.
func (c *orderedCounter) top(limit int) []counterEntry {
	ranked := make([]counterEntry, len(c.entries))
	copy(ranked, c.entries)
	sort.SliceStable(ranked, func(a, b int) bool {
		return ranked[a].count > ranked[b].count
	})
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
