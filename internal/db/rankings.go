package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jonathan/candidate-ranker/internal/schemas"
	"github.com/jonathan/candidate-ranker/internal/store"
	"github.com/jonathan/candidate-ranker/internal/types"
)

// RankingStore is a store.ArtifactStore backed by the ranking_artifacts and
// ranking_latest tables
type RankingStore struct {
	db *DB
}

// Rankings returns the artifact store for this database
func (db *DB) Rankings() *RankingStore {
	return &RankingStore{db: db}
}

// Create implements store.ArtifactStore. The artifact row and the latest
// pointer are written in one transaction; the pointer only moves forward.
func (s *RankingStore) Create(ctx context.Context, artifact *types.RankingArtifact) error {
	if err := store.ValidateID(artifact.ArtifactID); err != nil {
		return fmt.Errorf("invalid artifact: %w", err)
	}

	content, err := json.Marshal(artifact)
	if err != nil {
		return fmt.Errorf("failed to marshal artifact: %w", err)
	}
	if err := schemas.ValidateArtifact(content); err != nil {
		return fmt.Errorf("artifact %s failed schema validation: %w", artifact.ArtifactID, err)
	}

	tx, err := s.db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx,
		`INSERT INTO ranking_artifacts (artifact_id, requisition_id, requisition_title,
		                                created_at, total_evaluated, top_count, content)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		artifact.ArtifactID, artifact.RequisitionID, artifact.RequisitionTitle,
		artifact.CreatedAt, artifact.TotalEvaluated, len(artifact.TopTier), content,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", store.ErrArtifactExists, artifact.ArtifactID)
		}
		return fmt.Errorf("failed to insert artifact: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO ranking_latest (requisition_id, artifact_id, created_at)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (requisition_id) DO UPDATE SET
		     artifact_id = excluded.artifact_id,
		     created_at = excluded.created_at
		 WHERE excluded.created_at >= ranking_latest.created_at`,
		artifact.RequisitionID, artifact.ArtifactID, artifact.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update latest pointer: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit artifact: %w", err)
	}
	return nil
}

// Get implements store.ArtifactStore
func (s *RankingStore) Get(ctx context.Context, artifactID string) (*types.RankingArtifact, error) {
	var content []byte
	err := s.db.pool.QueryRow(ctx,
		`SELECT content FROM ranking_artifacts WHERE artifact_id = $1`,
		artifactID,
	).Scan(&content)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", store.ErrNotFound, artifactID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get artifact %s: %w", artifactID, err)
	}
	return decodeArtifact(artifactID, content)
}

// GetLatest implements store.ArtifactStore
func (s *RankingStore) GetLatest(ctx context.Context, requisitionID string) (*types.RankingArtifact, error) {
	var artifactID string
	var content []byte
	err := s.db.pool.QueryRow(ctx,
		`SELECT a.artifact_id, a.content
		 FROM ranking_latest l
		 JOIN ranking_artifacts a ON a.artifact_id = l.artifact_id
		 WHERE l.requisition_id = $1`,
		requisitionID,
	).Scan(&artifactID, &content)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: no ranking for requisition %s", store.ErrNotFound, requisitionID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest artifact: %w", err)
	}
	return decodeArtifact(artifactID, content)
}

// List implements store.ArtifactStore
func (s *RankingStore) List(ctx context.Context, requisitionID string) ([]types.ArtifactSummary, error) {
	rows, err := s.db.pool.Query(ctx,
		`SELECT artifact_id, requisition_id, requisition_title, created_at, total_evaluated, top_count
		 FROM ranking_artifacts
		 WHERE $1 = '' OR requisition_id = $1
		 ORDER BY created_at DESC, artifact_id DESC`,
		requisitionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list artifacts: %w", err)
	}
	defer rows.Close()

	out := []types.ArtifactSummary{}
	for rows.Next() {
		var sum types.ArtifactSummary
		if err := rows.Scan(&sum.ArtifactID, &sum.RequisitionID, &sum.RequisitionTitle,
			&sum.CreatedAt, &sum.TotalEvaluated, &sum.TopCount); err != nil {
			return nil, fmt.Errorf("failed to scan artifact summary: %w", err)
		}
		sum.CreatedAt = sum.CreatedAt.UTC()
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list artifacts: %w", err)
	}
	return out, nil
}

func decodeArtifact(artifactID string, content []byte) (*types.RankingArtifact, error) {
	var artifact types.RankingArtifact
	if err := json.Unmarshal(content, &artifact); err != nil {
		return nil, fmt.Errorf("failed to unmarshal artifact %s: %w", artifactID, err)
	}
	return &artifact, nil
}
