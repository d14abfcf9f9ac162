package ranking

import (
	"time"

	"github.com/jonathan/candidate-ranker/internal/types"
)

// Run carries the state of a single ranking request from loading through
// aggregation. It is owned by one call and never shared between requests.
type Run struct {
	Requirement *types.JobRequirement
	Pool        []types.CandidateProfile

	// Matched holds the pool members that passed the title filter, in pool order.
	Matched []types.CandidateProfile
	// UnmatchedTitles lists distinct target titles of filtered-out candidates.
	UnmatchedTitles []string

	Entries []types.RankingEntry
	Issues  []types.CandidateIssue
}

// NewRun starts a run for one requirement over a candidate pool. Issues raised
// while loading the pool are carried into the run's diagnostics.
func NewRun(req *types.JobRequirement, pool []types.CandidateProfile, loadIssues []types.CandidateIssue) *Run {
	issues := make([]types.CandidateIssue, 0, len(loadIssues))
	issues = append(issues, loadIssues...)
	return &Run{
		Requirement: req,
		Pool:        pool,
		Issues:      issues,
	}
}

// NoTitleMatch reports whether the title filter left nothing to rank.
func (r *Run) NoTitleMatch() bool {
	return len(r.Matched) == 0
}

// Artifact assembles the immutable ranking artifact from the finished run.
// Entries must already be sorted and ranked.
func (r *Run) Artifact(artifactID, strategy string, createdAt time.Time) *types.RankingArtifact {
	entries := r.Entries
	if entries == nil {
		entries = make([]types.RankingEntry, 0)
	}
	top, acceptable, notRecommended := Categorize(entries)

	var summary string
	switch {
	case len(r.Pool) == 0 && len(r.Issues) > 0:
		summary = SummarizeAllExcluded(len(r.Issues))
	case r.NoTitleMatch():
		summary = SummarizeNoMatch(r.Requirement.RoleTitle, r.UnmatchedTitles)
	default:
		summary = Summarize(len(entries), len(top), len(acceptable), len(notRecommended), len(r.Issues))
	}

	var diagnostics []types.CandidateIssue
	if len(r.Issues) > 0 {
		diagnostics = r.Issues
	}

	return &types.RankingArtifact{
		ArtifactID:          artifactID,
		RequisitionID:       r.Requirement.ID,
		RequisitionTitle:    r.Requirement.RoleTitle,
		RequisitionLocation: r.Requirement.Location,
		Strategy:            strategy,
		CreatedAt:           createdAt.UTC().Truncate(time.Second),
		TotalEvaluated:      len(entries),
		Entries:             entries,
		TopTier:             top,
		AcceptableTier:      acceptable,
		NotRecommendedTier:  notRecommended,
		Summary:             summary,
		Insights:            Insights(entries),
		Diagnostics:         diagnostics,
	}
}
