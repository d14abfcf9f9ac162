package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/jonathan/candidate-ranker/internal/types"
)

// latestEntry is the per-requisition pointer to the newest artifact
type latestEntry struct {
	ArtifactID string `json:"artifact_id"`
	CreatedAt  int64  `json:"created_at"`
}

// advances reports whether an artifact created at unix second t should replace the pointer
func (l *latestEntry) advances(t int64) bool {
	return l == nil || t >= l.CreatedAt
}

// Memory is an in-process ArtifactStore. Artifacts are kept serialized so
// callers never share mutable state with the store.
type Memory struct {
	mu        sync.RWMutex
	artifacts map[string][]byte
	summaries map[string]types.ArtifactSummary
	latest    map[string]*latestEntry
}

// NewMemory creates an empty in-memory store
func NewMemory() *Memory {
	return &Memory{
		artifacts: make(map[string][]byte),
		summaries: make(map[string]types.ArtifactSummary),
		latest:    make(map[string]*latestEntry),
	}
}

// Create implements ArtifactStore
func (m *Memory) Create(_ context.Context, artifact *types.RankingArtifact) error {
	if err := ValidateID(artifact.ArtifactID); err != nil {
		return fmt.Errorf("invalid artifact: %w", err)
	}
	data, err := json.Marshal(artifact)
	if err != nil {
		return fmt.Errorf("failed to marshal artifact: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.artifacts[artifact.ArtifactID]; ok {
		return fmt.Errorf("%w: %s", ErrArtifactExists, artifact.ArtifactID)
	}
	m.artifacts[artifact.ArtifactID] = data
	m.summaries[artifact.ArtifactID] = artifact.Summarize()

	created := artifact.CreatedAt.Unix()
	if cur := m.latest[artifact.RequisitionID]; cur.advances(created) {
		m.latest[artifact.RequisitionID] = &latestEntry{ArtifactID: artifact.ArtifactID, CreatedAt: created}
	}
	return nil
}

// Get implements ArtifactStore
func (m *Memory) Get(_ context.Context, artifactID string) (*types.RankingArtifact, error) {
	m.mu.RLock()
	data, ok := m.artifacts[artifactID]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, artifactID)
	}

	var artifact types.RankingArtifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("failed to unmarshal artifact %s: %w", artifactID, err)
	}
	return &artifact, nil
}

// GetLatest implements ArtifactStore
func (m *Memory) GetLatest(ctx context.Context, requisitionID string) (*types.RankingArtifact, error) {
	m.mu.RLock()
	entry := m.latest[requisitionID]
	m.mu.RUnlock()
	if entry == nil {
		return nil, fmt.Errorf("%w: no ranking for requisition %s", ErrNotFound, requisitionID)
	}
	return m.Get(ctx, entry.ArtifactID)
}

// List implements ArtifactStore
func (m *Memory) List(_ context.Context, requisitionID string) ([]types.ArtifactSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]types.ArtifactSummary, 0, len(m.summaries))
	for _, s := range m.summaries {
		if requisitionID == "" || s.RequisitionID == requisitionID {
			out = append(out, s)
		}
	}
	SortSummaries(out)
	return out, nil
}
