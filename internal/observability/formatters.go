// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/candidate-ranker/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintStep outputs a single progress line
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintStep(step, message string) {
	fmt.Fprintf(p.out, "[%s] %s\n", step, message)
}

// PrintArtifact outputs a human-readable summary of a ranking with its top entries.
func (p *Printer) PrintArtifact(artifact *types.RankingArtifact, reused bool) {
	if artifact == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("ID:       %s\n", artifact.ArtifactID))
	sb.WriteString(fmt.Sprintf("Role:     %s (%s)\n", artifact.RequisitionTitle, artifact.RequisitionID))
	sb.WriteString(fmt.Sprintf("Created:  %s", artifact.CreatedAt.UTC().Format("2006-01-02 15:04:05")))
	if reused {
		sb.WriteString(" (reused)")
	}
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Tiers:    %d top, %d acceptable, %d not recommended\n",
		len(artifact.TopTier), len(artifact.AcceptableTier), len(artifact.NotRecommendedTier)))

	if len(artifact.Entries) > 0 {
		sb.WriteString("\n")
		count := min(len(artifact.Entries), maxItemsToShow)
		for i := 0; i < count; i++ {
			e := artifact.Entries[i]
			sb.WriteString(fmt.Sprintf("#%d  %s  %.1f  %s\n", e.Rank, e.CandidateID, e.MatchScore.TotalScore, e.Recommendation))
			if missing := e.SkillMatch.Mandatory.Missing; len(missing) > 0 {
				skills := strings.Join(missing, ", ")
				if len(skills) > 40 {
					skills = skills[:37] + "..."
				}
				sb.WriteString(fmt.Sprintf("    Missing: %s\n", skills))
			}
		}
		if len(artifact.Entries) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("... and %d more candidates\n", len(artifact.Entries)-maxItemsToShow))
		}
	}

	if len(artifact.Diagnostics) > 0 {
		sb.WriteString(fmt.Sprintf("\nExcluded: %d records\n", len(artifact.Diagnostics)))
	}

	p.printBox("CANDIDATE RANKING", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSummaries outputs a listing of stored rankings, newest first.
func (p *Printer) PrintSummaries(summaries []types.ArtifactSummary) {
	if len(summaries) == 0 {
		p.printBox("RANKINGS", "No rankings found")
		return
	}

	var sb strings.Builder
	for _, s := range summaries {
		sb.WriteString(fmt.Sprintf("%s\n", s.ArtifactID))
		sb.WriteString(fmt.Sprintf("    %s  %d evaluated, %d top\n",
			s.CreatedAt.UTC().Format("2006-01-02 15:04:05"), s.TotalEvaluated, s.TopCount))
	}

	p.printBox(fmt.Sprintf("RANKINGS (%d)", len(summaries)), strings.TrimSuffix(sb.String(), "\n"))
}
