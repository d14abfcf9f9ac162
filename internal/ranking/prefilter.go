package ranking

import (
	"strings"

	"github.com/jonathan/candidate-ranker/internal/types"
)

// TitleMatches reports whether a candidate's target title plausibly matches the
// requisition title: both non-empty after trimming and one contains the other,
// ignoring case.
func TitleMatches(requisitionTitle, candidateTitle string) bool {
	return containsEitherWay(
		strings.ToLower(strings.TrimSpace(requisitionTitle)),
		strings.ToLower(strings.TrimSpace(candidateTitle)),
	)
}

// FilterByTitle keeps the candidates whose target title matches the requisition
// title, preserving input order. It also returns the distinct target titles of
// the candidates that were dropped, in first-seen order; an empty title is
// reported as "N/A".
func FilterByTitle(requisitionTitle string, candidates []types.CandidateProfile) ([]types.CandidateProfile, []string) {
	matched := make([]types.CandidateProfile, 0, len(candidates))
	unmatched := make([]string, 0)
	seen := make(map[string]bool)

	for _, c := range candidates {
		if TitleMatches(requisitionTitle, c.TargetJobTitle) {
			matched = append(matched, c)
			continue
		}

		title := strings.TrimSpace(c.TargetJobTitle)
		if title == "" {
			title = "N/A"
		}
		if !seen[title] {
			seen[title] = true
			unmatched = append(unmatched, title)
		}
	}

	return matched, unmatched
}
