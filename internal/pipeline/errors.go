package pipeline

import (
	"errors"
	"fmt"
)

// Error kinds. A *RankError wraps exactly one of these, so callers can branch
// with errors.Is.
var (
	ErrRequirementNotFound = errors.New("requirement not found")
	ErrEmptyCandidatePool  = errors.New("no candidate records available")
	ErrInvalidRequirement  = errors.New("invalid requirement")
	ErrStoreWrite          = errors.New("failed to store ranking")
	ErrArtifactNotFound    = errors.New("ranking not found")
)

// RankError is the fatal failure of a ranking call
type RankError struct {
	Kind          error
	RequisitionID string
	Cause         error
}

func (e *RankError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("requisition %s: %v: %v", e.RequisitionID, e.Kind, e.Cause)
	}
	return fmt.Sprintf("requisition %s: %v", e.RequisitionID, e.Kind)
}

func (e *RankError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

func newRankError(kind error, requisitionID string, cause error) *RankError {
	return &RankError{Kind: kind, RequisitionID: requisitionID, Cause: cause}
}
