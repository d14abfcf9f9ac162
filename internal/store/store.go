// Package store persists ranking artifacts. Artifacts are create-only; each
// backend keeps an explicit per-requisition pointer to the latest artifact.
package store

import (
	"context"
	"errors"
	"sort"

	"github.com/jonathan/candidate-ranker/internal/types"
)

var (
	// ErrNotFound is returned when an artifact or latest pointer does not exist
	ErrNotFound = errors.New("artifact not found")
	// ErrArtifactExists is returned by Create when the artifact id is taken
	ErrArtifactExists = errors.New("artifact already exists")
)

// ArtifactStore is the persistence contract for ranking artifacts
type ArtifactStore interface {
	// Create writes a new artifact and advances the requisition's latest pointer
	// when the artifact is at least as new as the current one.
	Create(ctx context.Context, artifact *types.RankingArtifact) error
	// Get returns the artifact with the given id
	Get(ctx context.Context, artifactID string) (*types.RankingArtifact, error)
	// GetLatest returns the most recently created artifact for a requisition
	GetLatest(ctx context.Context, requisitionID string) (*types.RankingArtifact, error)
	// List returns artifact summaries, newest first. An empty requisition id lists all.
	List(ctx context.Context, requisitionID string) ([]types.ArtifactSummary, error)
}

// SortSummaries orders summaries newest first, then by artifact id descending
func SortSummaries(summaries []types.ArtifactSummary) {
	sort.Slice(summaries, func(i, j int) bool {
		if !summaries[i].CreatedAt.Equal(summaries[j].CreatedAt) {
			return summaries[i].CreatedAt.After(summaries[j].CreatedAt)
		}
		return summaries[i].ArtifactID > summaries[j].ArtifactID
	})
}
