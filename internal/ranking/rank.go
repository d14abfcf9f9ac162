package ranking

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/candidate-ranker/internal/types"
)

// Deterministic is the rule-based strategy: title filter, four scorers,
// weighted sum, tiering. Candidates are scored on a bounded worker pool;
// the result is identical to scoring them sequentially.
type Deterministic struct {
	workers int
}

// NewDeterministic creates the rule-based strategy with the given worker count.
// Non-positive counts fall back to DefaultWorkers.
func NewDeterministic(workers int) *Deterministic {
	if workers <= 0 {
		workers = DefaultWorkers()
	}
	return &Deterministic{workers: workers}
}

// Name implements Strategy
func (d *Deterministic) Name() string {
	return StrategyDeterministic
}

// candidateOutcome holds either a scored entry or the reason a candidate was skipped
type candidateOutcome struct {
	entry *types.RankingEntry
	issue *types.CandidateIssue
}

// Evaluate implements Strategy
func (d *Deterministic) Evaluate(ctx context.Context, run *Run) error {
	if run.Requirement == nil {
		return fmt.Errorf("run has no requirement")
	}

	run.Matched, run.UnmatchedTitles = FilterByTitle(run.Requirement.RoleTitle, run.Pool)
	if run.NoTitleMatch() {
		run.Entries = make([]types.RankingEntry, 0)
		return nil
	}

	outcomes := make([]candidateOutcome, len(run.Matched))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(d.workers)

	for i := range run.Matched {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			outcomes[i] = scoreOne(run.Requirement, &run.Matched[i])
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("candidate scoring interrupted: %w", err)
	}

	entries := make([]types.RankingEntry, 0, len(outcomes))
	for _, o := range outcomes {
		if o.issue != nil {
			run.Issues = append(run.Issues, *o.issue)
			continue
		}
		entries = append(entries, *o.entry)
	}

	SortAndRank(entries)
	run.Entries = entries
	return nil
}

// scoreOne isolates a single candidate: an invalid record becomes an issue
// rather than failing the run.
func scoreOne(req *types.JobRequirement, cand *types.CandidateProfile) candidateOutcome {
	if err := cand.Validate(); err != nil {
		return candidateOutcome{issue: &types.CandidateIssue{
			CandidateID: cand.ID,
			Source:      "scoring",
			Reason:      err.Error(),
		}}
	}
	entry := EvaluateCandidate(req, cand)
	return candidateOutcome{entry: &entry}
}
