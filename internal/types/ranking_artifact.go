// Package types provides type definitions for structured data used throughout the candidate-ranker system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "time"

// Tier names used when categorizing ranked candidates
const (
	TierTop            = "top"
	TierAcceptable     = "acceptable"
	TierNotRecommended = "not_recommended"
)

// SkillMatchBreakdown describes coverage of one required skill set
type SkillMatchBreakdown struct {
	Matched         []string `json:"matched"`
	Missing         []string `json:"missing"`
	CoveragePercent float64  `json:"coverage_percent"`
}

// SkillMatch holds the mandatory and good-to-have breakdowns for one candidate
type SkillMatch struct {
	Mandatory  SkillMatchBreakdown `json:"mandatory"`
	GoodToHave SkillMatchBreakdown `json:"good_to_have"`
}

// ExperienceMatch describes how a candidate's experience fits the required range
type ExperienceMatch struct {
	CandidateYears float64 `json:"candidate_years"`
	RequiredMin    int     `json:"required_min"`
	RequiredMax    int     `json:"required_max"`
	Alignment      string  `json:"alignment"`
	Score          int     `json:"score"`
	Notes          string  `json:"notes"`
}

// LocationMatch describes location compatibility
type LocationMatch struct {
	CandidateLocation   string `json:"candidate_location"`
	RequisitionLocation string `json:"requisition_location"`
	IsMatch             bool   `json:"is_match"`
	RelocationWilling   bool   `json:"relocation_willing"`
	Compatibility       string `json:"compatibility"`
	Score               int    `json:"score"`
}

// SalaryMatch describes expected compensation against the budget band
type SalaryMatch struct {
	CandidateExpected *int64 `json:"candidate_expected,omitempty"`
	BudgetMin         *int64 `json:"budget_min,omitempty"`
	BudgetMax         *int64 `json:"budget_max,omitempty"`
	Alignment         string `json:"alignment"`
	Score             int    `json:"score"`
	Notes             string `json:"notes"`
}

// MatchScore holds the five weighted components and their total.
// TotalScore always equals the sum of the components.
type MatchScore struct {
	MandatorySkillsScore  float64 `json:"mandatory_skills_score"`
	GoodToHaveSkillsScore float64 `json:"good_to_have_skills_score"`
	ExperienceScore       int     `json:"experience_score"`
	LocationScore         int     `json:"location_score"`
	SalaryScore           int     `json:"salary_score"`
	TotalScore            float64 `json:"total_score"`
}

// RankingEntry is one ranked candidate
type RankingEntry struct {
	Rank                  int             `json:"rank"`
	CandidateID           string          `json:"candidate_id"`
	CandidateName         string          `json:"candidate_name"`
	CandidateEmail        string          `json:"candidate_email"`
	ResumeEvaluationScore *int            `json:"resume_evaluation_score,omitempty"`
	MatchScore            MatchScore      `json:"match_score"`
	SkillMatch            SkillMatch      `json:"skill_match"`
	ExperienceMatch       ExperienceMatch `json:"experience_match"`
	LocationMatch         LocationMatch   `json:"location_match"`
	SalaryMatch           SalaryMatch     `json:"salary_match"`
	Recommendation        string          `json:"recommendation"`
	Tier                  string          `json:"tier"`
	Justification         string          `json:"justification"`
	RedFlags              []string        `json:"red_flags"`
	GreenFlags            []string        `json:"green_flags"`
}

// CandidateIssue records a candidate that could not be scored
type CandidateIssue struct {
	CandidateID string `json:"candidate_id"`
	Source      string `json:"source,omitempty"`
	Reason      string `json:"reason"`
}

// RankingArtifact is the immutable result of one ranking run
type RankingArtifact struct {
	ArtifactID          string           `json:"artifact_id"`
	RequisitionID       string           `json:"requisition_id"`
	RequisitionTitle    string           `json:"requisition_title"`
	RequisitionLocation string           `json:"requisition_location"`
	Strategy            string           `json:"strategy"`
	CreatedAt           time.Time        `json:"created_at"`
	TotalEvaluated      int              `json:"total_evaluated"`
	Entries             []RankingEntry   `json:"entries"`
	TopTier             []string         `json:"top_tier"`
	AcceptableTier      []string         `json:"acceptable_tier"`
	NotRecommendedTier  []string         `json:"not_recommended_tier"`
	Summary             string           `json:"summary"`
	Insights            []string         `json:"insights,omitempty"`
	Diagnostics         []CandidateIssue `json:"diagnostics,omitempty"`
}

// ArtifactSummary is the listing view of an artifact
type ArtifactSummary struct {
	ArtifactID       string    `json:"artifact_id"`
	RequisitionID    string    `json:"requisition_id"`
	RequisitionTitle string    `json:"requisition_title"`
	CreatedAt        time.Time `json:"created_at"`
	TotalEvaluated   int       `json:"total_evaluated"`
	TopCount         int       `json:"top_count"`
}

// Summarize returns the listing view of the artifact
func (a *RankingArtifact) Summarize() ArtifactSummary {
	return ArtifactSummary{
		ArtifactID:       a.ArtifactID,
		RequisitionID:    a.RequisitionID,
		RequisitionTitle: a.RequisitionTitle,
		CreatedAt:        a.CreatedAt,
		TotalEvaluated:   a.TotalEvaluated,
		TopCount:         len(a.TopTier),
	}
}

// Age returns how long ago the artifact was created relative to now, truncated to the second
func (a *RankingArtifact) Age(now time.Time) time.Duration {
	age := now.Sub(a.CreatedAt).Truncate(time.Second)
	if age < 0 {
		return 0
	}
	return age
}
