package ranking

import (
	"sort"

	"github.com/jonathan/candidate-ranker/internal/types"
)

// Component weights for skill coverage
const (
	mandatorySkillsWeight  = 40.0
	goodToHaveSkillsWeight = 20.0
)

// Tier thresholds on the total score
const (
	topTierThreshold        = 70.0
	acceptableTierThreshold = 50.0
)

// Recommendation labels per tier
const (
	RecommendationHigh = "Highly Recommended"
	RecommendationMid  = "Recommended"
	RecommendationNone = "Not Recommended"
)

// EvaluateCandidate runs the four scorers for one candidate and combines them
// into an unranked entry. It is a pure function of its two inputs.
func EvaluateCandidate(req *types.JobRequirement, cand *types.CandidateProfile) types.RankingEntry {
	candidateSkills := cand.Skills.All()

	skillMatch := types.SkillMatch{
		Mandatory:  ScoreSkills(candidateSkills, req.MandatorySkills),
		GoodToHave: ScoreSkills(candidateSkills, req.GoodToHaveSkills),
	}
	experience := ScoreExperience(cand.Years(), req.ExperienceMin, req.ExperienceMax)
	location := ScoreLocation(cand.CurrentLocation, req.Location, cand.WillingToRelocate())
	salary := ScoreSalary(cand.ExpectedSalary, req.SalaryMin, req.SalaryMax)

	score := CombineScores(skillMatch, experience, location, salary)
	tier := TierFor(score.TotalScore)

	entry := types.RankingEntry{
		CandidateID:           cand.ID,
		CandidateName:         cand.Name,
		CandidateEmail:        cand.Email,
		ResumeEvaluationScore: cand.ResumeEvaluationScore,
		MatchScore:            score,
		SkillMatch:            skillMatch,
		ExperienceMatch:       experience,
		LocationMatch:         location,
		SalaryMatch:           salary,
		Recommendation:        RecommendationFor(tier),
		Tier:                  tier,
	}
	entry.Justification = Justify(&entry)
	entry.RedFlags, entry.GreenFlags = Flags(&entry)
	return entry
}

// CombineScores weights the skill coverages and sums all five components.
func CombineScores(skillMatch types.SkillMatch, exp types.ExperienceMatch, loc types.LocationMatch, sal types.SalaryMatch) types.MatchScore {
	score := types.MatchScore{
		MandatorySkillsScore:  round1(skillMatch.Mandatory.CoveragePercent / 100 * mandatorySkillsWeight),
		GoodToHaveSkillsScore: round1(skillMatch.GoodToHave.CoveragePercent / 100 * goodToHaveSkillsWeight),
		ExperienceScore:       exp.Score,
		LocationScore:         loc.Score,
		SalaryScore:           sal.Score,
	}
	score.TotalScore = round1(score.MandatorySkillsScore +
		score.GoodToHaveSkillsScore +
		float64(score.ExperienceScore) +
		float64(score.LocationScore) +
		float64(score.SalaryScore))
	return score
}

// TierFor maps a total score onto its recommendation tier.
func TierFor(total float64) string {
	switch {
	case total >= topTierThreshold:
		return types.TierTop
	case total >= acceptableTierThreshold:
		return types.TierAcceptable
	default:
		return types.TierNotRecommended
	}
}

// RecommendationFor returns the label shown for a tier.
func RecommendationFor(tier string) string {
	switch tier {
	case types.TierTop:
		return RecommendationHigh
	case types.TierAcceptable:
		return RecommendationMid
	default:
		return RecommendationNone
	}
}

// SortAndRank orders entries by total score descending, breaking ties on
// candidate id ascending, and assigns 1-based ranks in that order.
func SortAndRank(entries []types.RankingEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i].MatchScore.TotalScore, entries[j].MatchScore.TotalScore
		if a != b {
			return a > b
		}
		return entries[i].CandidateID < entries[j].CandidateID
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
}

// Categorize splits ranked entries into the three tier id lists, each in rank order.
// The lists are never nil.
func Categorize(entries []types.RankingEntry) (top, acceptable, notRecommended []string) {
	top = make([]string, 0)
	acceptable = make([]string, 0)
	notRecommended = make([]string, 0)

	for _, e := range entries {
		switch e.Tier {
		case types.TierTop:
			top = append(top, e.CandidateID)
		case types.TierAcceptable:
			acceptable = append(acceptable, e.CandidateID)
		default:
			notRecommended = append(notRecommended, e.CandidateID)
		}
	}
	return top, acceptable, notRecommended
}
