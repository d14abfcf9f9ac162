// Package records loads the structured job requirement and candidate profile
// records produced by the extraction service.
package records

import (
	"context"
	"errors"

	"github.com/jonathan/candidate-ranker/internal/types"
)

// ErrRequirementNotFound is returned when no requirement record exists for an id
var ErrRequirementNotFound = errors.New("requirement not found")

// RequirementSource reads one requisition's requirement record
type RequirementSource interface {
	GetRequirement(ctx context.Context, requisitionID string) (*types.JobRequirement, error)
}

// CandidateSource reads every available candidate record
type CandidateSource interface {
	ListCandidates(ctx context.Context) (*Pool, error)
}

// Pool is the result of loading candidates. Rejected holds records that exist
// but could not be decoded; they are reported, not ranked.
type Pool struct {
	Candidates []types.CandidateProfile
	Rejected   []types.CandidateIssue
}

// Size returns the number of records found, decodable or not
func (p *Pool) Size() int {
	return len(p.Candidates) + len(p.Rejected)
}
