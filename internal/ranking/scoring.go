// Package ranking scores candidate profiles against a job requirement and
// orders them into recommendation tiers.
package ranking

import (
	"fmt"
	"math"
	"strings"

	"github.com/jonathan/candidate-ranker/internal/skills"
	"github.com/jonathan/candidate-ranker/internal/types"
)

// Experience alignment categories
const (
	AlignmentPerfectFit             = "Perfect Fit"
	AlignmentSlightlyUnderqualified = "Slightly Underqualified"
	AlignmentUnderqualified         = "Underqualified"
	AlignmentSlightlyOverqualified  = "Slightly Overqualified"
	AlignmentOverqualified          = "Overqualified"
)

// Location compatibility categories
const (
	LocationExactMatch      = "Exact Match"
	LocationRemotePossible  = "Remote Possible"
	LocationWillingRelocate = "Willing to Relocate"
	LocationMismatch        = "Location Mismatch"
)

// Salary alignment categories
const (
	SalaryWithinRange        = "Within Range"
	SalaryBelowRange         = "Below Range"
	SalarySlightlyAbove      = "Slightly Above"
	SalarySignificantlyAbove = "Significantly Above"
	SalaryUnknown            = "Unknown"
)

// Score ceilings per component
const (
	maxExperienceScore      = 25
	underqualifiedCeiling   = 17.5
	overqualifiedFloor      = 15
	maxOverqualifiedPenalty = 10
	maxLocationScore        = 10
	relocationScore         = 8
	maxSalaryScore          = 5
	unknownSalaryScore      = 3
)

// ScoreSkills computes coverage of the required skills by the candidate's skills.
// Matched and missing are disjoint, sorted, and together equal the normalized
// required set. Coverage is 100 when nothing is required.
func ScoreSkills(candidateSkills, required []string) types.SkillMatchBreakdown {
	have := skills.NewSet(candidateSkills)
	want := skills.NewSet(required)

	matched := make([]string, 0, len(want))
	missing := make([]string, 0, len(want))
	for _, token := range want.Sorted() {
		if _, ok := have[token]; ok {
			matched = append(matched, token)
		} else {
			missing = append(missing, token)
		}
	}

	coverage := 100.0
	if len(want) > 0 {
		coverage = round1(float64(len(matched)) / float64(len(want)) * 100)
	}

	return types.SkillMatchBreakdown{
		Matched:         matched,
		Missing:         missing,
		CoveragePercent: coverage,
	}
}

// ScoreExperience scores years of experience against the required [min, max] range.
// Underqualification is capped at 70% of the maximum; overqualification never
// falls below 60% of it.
func ScoreExperience(years float64, minYears, maxYears int) types.ExperienceMatch {
	match := types.ExperienceMatch{
		CandidateYears: years,
		RequiredMin:    minYears,
		RequiredMax:    maxYears,
	}

	switch {
	case years >= float64(minYears) && years <= float64(maxYears):
		match.Score = maxExperienceScore
		match.Alignment = AlignmentPerfectFit
		match.Notes = fmt.Sprintf("%s years matches %d-%d year requirement", formatYears(years), minYears, maxYears)

	case years < float64(minYears):
		ratio := years / float64(minYears)
		match.Score = int(math.Floor(ratio * underqualifiedCeiling))
		if ratio >= 0.8 {
			match.Alignment = AlignmentSlightlyUnderqualified
			match.Notes = fmt.Sprintf("%s years, slightly below %d year minimum", formatYears(years), minYears)
		} else {
			match.Alignment = AlignmentUnderqualified
			match.Notes = fmt.Sprintf("%s years, significantly below %d year minimum", formatYears(years), minYears)
		}

	default:
		overage := years - float64(maxYears)
		penalty := min(int(math.Floor(overage*2)), maxOverqualifiedPenalty)
		match.Score = max(maxExperienceScore-penalty, overqualifiedFloor)
		if overage <= 2 {
			match.Alignment = AlignmentSlightlyOverqualified
			match.Notes = fmt.Sprintf("%s years, slightly above %d year maximum", formatYears(years), maxYears)
		} else {
			match.Alignment = AlignmentOverqualified
			match.Notes = fmt.Sprintf("%s years, significantly above %d year maximum", formatYears(years), maxYears)
		}
	}

	return match
}

// ScoreLocation classifies location compatibility. Rules apply in order:
// containment either way, remote requisition, relocation willingness, mismatch.
// An empty location is contained in any other, so it counts as an exact match.
func ScoreLocation(candidateLocation, requisitionLocation string, relocationWilling bool) types.LocationMatch {
	match := types.LocationMatch{
		CandidateLocation:   candidateLocation,
		RequisitionLocation: requisitionLocation,
		RelocationWilling:   relocationWilling,
	}

	cand := strings.ToLower(strings.TrimSpace(candidateLocation))
	job := strings.ToLower(strings.TrimSpace(requisitionLocation))

	switch {
	case strings.Contains(cand, job) || strings.Contains(job, cand):
		match.IsMatch = true
		match.Compatibility = LocationExactMatch
		match.Score = maxLocationScore
	case strings.Contains(job, "remote") || strings.Contains(job, "anywhere"):
		match.IsMatch = true
		match.Compatibility = LocationRemotePossible
		match.Score = maxLocationScore
	case relocationWilling:
		match.Compatibility = LocationWillingRelocate
		match.Score = relocationScore
	default:
		match.Compatibility = LocationMismatch
	}

	return match
}

// ScoreSalary classifies expected salary against the budget band. Missing or
// non-positive values on any side yield the neutral Unknown score.
func ScoreSalary(expected, budgetMin, budgetMax *int64) types.SalaryMatch {
	match := types.SalaryMatch{
		CandidateExpected: expected,
		BudgetMin:         budgetMin,
		BudgetMax:         budgetMax,
	}

	if !positive(expected) || !positive(budgetMin) || !positive(budgetMax) {
		match.Alignment = SalaryUnknown
		match.Score = unknownSalaryScore
		match.Notes = "Salary information not available"
		return match
	}

	exp, lo, hi := *expected, *budgetMin, *budgetMax
	switch {
	case exp >= lo && exp <= hi:
		match.Alignment = SalaryWithinRange
		match.Score = maxSalaryScore
		match.Notes = fmt.Sprintf("Expected %d within %d-%d range", exp, lo, hi)
	case exp < lo:
		match.Alignment = SalaryBelowRange
		match.Score = maxSalaryScore
		match.Notes = fmt.Sprintf("Expected %d below budget", exp)
	default:
		overpay := float64(exp-hi) * 100 / float64(hi)
		switch {
		case overpay <= 10:
			match.Alignment = SalarySlightlyAbove
			match.Score = 4
		case overpay <= 20:
			match.Alignment = SalarySignificantlyAbove
			match.Score = 2
		default:
			match.Alignment = SalarySignificantlyAbove
			match.Score = 0
		}
		match.Notes = fmt.Sprintf("Expected %d is %.1f%% above max", exp, overpay)
	}

	return match
}

func containsEitherWay(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

func positive(v *int64) bool {
	return v != nil && *v > 0
}

// round1 rounds to one decimal place, half away from zero.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func formatYears(years float64) string {
	return fmt.Sprintf("%.1f", years)
}
