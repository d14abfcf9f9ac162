package ranking

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jonathan/candidate-ranker/internal/types"
)

// maxInsightSkills caps how many missing skills are reported in pool insights
const maxInsightSkills = 3

// Justify produces the one-line explanation attached to every entry.
func Justify(e *types.RankingEntry) string {
	return fmt.Sprintf("Score: %.1f/100. Skills: %.1f%% mandatory, %.1f%% optional. Experience: %s.",
		e.MatchScore.TotalScore,
		e.SkillMatch.Mandatory.CoveragePercent,
		e.SkillMatch.GoodToHave.CoveragePercent,
		e.ExperienceMatch.Alignment,
	)
}

// Flags lists the concerns and strengths of an entry. Both slices are non-nil.
func Flags(e *types.RankingEntry) (red, green []string) {
	red = make([]string, 0)
	green = make([]string, 0)

	mandatory := e.SkillMatch.Mandatory
	if len(mandatory.Missing) > 0 {
		red = append(red, "Missing mandatory skills: "+strings.Join(mandatory.Missing, ", "))
	} else if len(mandatory.Matched) > 0 {
		green = append(green, "All mandatory skills present")
	}
	if matched := e.SkillMatch.GoodToHave.Matched; len(matched) > 0 {
		green = append(green, "Good-to-have skills: "+strings.Join(matched, ", "))
	}

	exp := e.ExperienceMatch
	switch exp.Alignment {
	case AlignmentPerfectFit:
		green = append(green, fmt.Sprintf("Experience within %d-%d year range", exp.RequiredMin, exp.RequiredMax))
	case AlignmentSlightlyUnderqualified, AlignmentUnderqualified:
		red = append(red, fmt.Sprintf("%s: %.1f years against %d year minimum", exp.Alignment, exp.CandidateYears, exp.RequiredMin))
	}

	switch e.LocationMatch.Compatibility {
	case LocationExactMatch, LocationRemotePossible:
		green = append(green, "Location: "+e.LocationMatch.Compatibility)
	case LocationMismatch:
		red = append(red, "Location mismatch and not willing to relocate")
	}

	switch {
	case e.SalaryMatch.Alignment == SalaryWithinRange || e.SalaryMatch.Alignment == SalaryBelowRange:
		green = append(green, "Salary expectation "+strings.ToLower(e.SalaryMatch.Alignment))
	case e.SalaryMatch.Alignment == SalarySignificantlyAbove:
		red = append(red, "Salary expectation more than 10% above budget")
	}

	return red, green
}

// Summarize describes the tier counts of a non-empty ranking.
func Summarize(total, top, acceptable, notRecommended, excluded int) string {
	summary := fmt.Sprintf("%d candidates evaluated. %d highly recommended, %d acceptable, %d not recommended.",
		total, top, acceptable, notRecommended)
	if excluded > 0 {
		summary += fmt.Sprintf(" %d excluded due to incomplete records.", excluded)
	}
	return summary
}

// SummarizeNoMatch describes a ranking in which no candidate matched the title.
func SummarizeNoMatch(requisitionTitle string, unmatchedTitles []string) string {
	available := "none"
	if len(unmatchedTitles) > 0 {
		available = strings.Join(unmatchedTitles, ", ")
	}
	return fmt.Sprintf("No candidates matched the job title: %s. Available candidate titles: %s",
		requisitionTitle, available)
}

// SummarizeAllExcluded describes a ranking whose pool was emptied because
// every candidate record was rejected while loading.
func SummarizeAllExcluded(excluded int) string {
	return fmt.Sprintf("No candidates could be evaluated: all %d candidate records were excluded due to incomplete records.",
		excluded)
}

// Insights reports pool-wide patterns: the most frequently missing mandatory
// skills and how many candidates have a location mismatch. Output order is
// deterministic. Returns nil when there is nothing to report.
func Insights(entries []types.RankingEntry) []string {
	if len(entries) == 0 {
		return nil
	}

	missingCounts := make(map[string]int)
	mismatches := 0
	underqualified := 0
	for _, e := range entries {
		for _, skill := range e.SkillMatch.Mandatory.Missing {
			missingCounts[skill]++
		}
		if e.LocationMatch.Compatibility == LocationMismatch {
			mismatches++
		}
		if e.ExperienceMatch.Alignment == AlignmentUnderqualified {
			underqualified++
		}
	}

	type skillCount struct {
		skill string
		count int
	}
	counts := make([]skillCount, 0, len(missingCounts))
	for skill, n := range missingCounts {
		counts = append(counts, skillCount{skill, n})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].count != counts[j].count {
			return counts[i].count > counts[j].count
		}
		return counts[i].skill < counts[j].skill
	})
	if len(counts) > maxInsightSkills {
		counts = counts[:maxInsightSkills]
	}

	var insights []string
	total := len(entries)
	for _, c := range counts {
		insights = append(insights, fmt.Sprintf("%d of %d candidates lack %s", c.count, total, c.skill))
	}
	if mismatches > 0 {
		insights = append(insights, fmt.Sprintf("%d of %d candidates have a location mismatch", mismatches, total))
	}
	if underqualified > 0 {
		insights = append(insights, fmt.Sprintf("%d of %d candidates are significantly underqualified", underqualified, total))
	}
	return insights
}
