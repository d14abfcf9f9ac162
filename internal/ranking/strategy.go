package ranking

import (
	"context"
	"fmt"
	"runtime"
)

// StrategyDeterministic is the configuration name of the rule-based strategy
const StrategyDeterministic = "deterministic"

// Strategy scores and orders the candidates of a run. Implementations fill
// run.Matched, run.UnmatchedTitles and run.Entries and append per-candidate
// problems to run.Issues. Entries must be sorted and ranked on return.
type Strategy interface {
	Name() string
	Evaluate(ctx context.Context, run *Run) error
}

// NewStrategy returns the strategy registered under name. Unknown names are an
// error; there is no fallback.
func NewStrategy(name string, workers int) (Strategy, error) {
	switch name {
	case StrategyDeterministic:
		return NewDeterministic(workers), nil
	default:
		return nil, fmt.Errorf("unknown ranking strategy %q", name)
	}
}

// DefaultWorkers is the worker count used when none is configured
func DefaultWorkers() int {
	return runtime.GOMAXPROCS(0)
}
