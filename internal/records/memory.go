package records

import (
	"context"
	"fmt"
	"sync"

	"github.com/jonathan/candidate-ranker/internal/types"
)

// MemorySource holds records in memory. It implements both sources and is
// safe for concurrent use.
type MemorySource struct {
	mu           sync.RWMutex
	requirements map[string]types.JobRequirement
	candidates   []types.CandidateProfile
	rejected     []types.CandidateIssue
}

// NewMemorySource creates an empty in-memory source
func NewMemorySource() *MemorySource {
	return &MemorySource{requirements: make(map[string]types.JobRequirement)}
}

// PutRequirement stores or replaces a requirement record
func (m *MemorySource) PutRequirement(req types.JobRequirement) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requirements[req.ID] = req
}

// AddCandidates appends candidate records to the pool
func (m *MemorySource) AddCandidates(cands ...types.CandidateProfile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.candidates = append(m.candidates, cands...)
}

// AddRejected records a candidate that failed to decode upstream
func (m *MemorySource) AddRejected(issue types.CandidateIssue) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rejected = append(m.rejected, issue)
}

// GetRequirement implements RequirementSource
func (m *MemorySource) GetRequirement(_ context.Context, requisitionID string) (*types.JobRequirement, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	req, ok := m.requirements[requisitionID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRequirementNotFound, requisitionID)
	}
	return &req, nil
}

// ListCandidates implements CandidateSource
func (m *MemorySource) ListCandidates(_ context.Context) (*Pool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	pool := &Pool{Candidates: make([]types.CandidateProfile, len(m.candidates))}
	copy(pool.Candidates, m.candidates)
	if len(m.rejected) > 0 {
		pool.Rejected = append([]types.CandidateIssue(nil), m.rejected...)
	}
	return pool, nil
}
