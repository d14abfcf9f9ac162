package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jonathan/candidate-ranker/internal/records"
	"github.com/jonathan/candidate-ranker/internal/types"
)

// RecordSource reads requirement and candidate records from the
// job_requirements and candidate_profiles tables. Records are stored as JSON
// documents in the shape the extraction service produces.
type RecordSource struct {
	db *DB
}

// Records returns the record source for this database
func (db *DB) Records() *RecordSource {
	return &RecordSource{db: db}
}

// GetRequirement implements records.RequirementSource
func (s *RecordSource) GetRequirement(ctx context.Context, requisitionID string) (*types.JobRequirement, error) {
	var content []byte
	err := s.db.pool.QueryRow(ctx,
		`SELECT content FROM job_requirements WHERE requisition_id = $1`,
		requisitionID,
	).Scan(&content)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", records.ErrRequirementNotFound, requisitionID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get requirement %s: %w", requisitionID, err)
	}

	var req types.JobRequirement
	if err := json.Unmarshal(content, &req); err != nil {
		return nil, &records.LoadError{Message: fmt.Sprintf("failed to unmarshal requirement %s", requisitionID), Cause: err}
	}
	if req.ID == "" {
		req.ID = requisitionID
	}
	return &req, nil
}

// ListCandidates implements records.CandidateSource. Rows whose content does
// not decode are returned as rejected records.
func (s *RecordSource) ListCandidates(ctx context.Context) (*records.Pool, error) {
	rows, err := s.db.pool.Query(ctx,
		`SELECT candidate_id, content FROM candidate_profiles ORDER BY candidate_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	defer rows.Close()

	pool := &records.Pool{Candidates: []types.CandidateProfile{}}
	for rows.Next() {
		var id string
		var content []byte
		if err := rows.Scan(&id, &content); err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}

		var cand types.CandidateProfile
		if err := json.Unmarshal(content, &cand); err != nil {
			pool.Rejected = append(pool.Rejected, types.CandidateIssue{
				CandidateID: id,
				Source:      "loader",
				Reason:      fmt.Sprintf("failed to unmarshal candidate: %v", err),
			})
			continue
		}
		if cand.ID == "" {
			cand.ID = id
		}
		pool.Candidates = append(pool.Candidates, cand)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	return pool, nil
}

// PutRequirement inserts or replaces a requirement record
func (s *RecordSource) PutRequirement(ctx context.Context, req *types.JobRequirement) error {
	content, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal requirement: %w", err)
	}
	_, err = s.db.pool.Exec(ctx,
		`INSERT INTO job_requirements (requisition_id, content)
		 VALUES ($1, $2)
		 ON CONFLICT (requisition_id) DO UPDATE SET content = $2, updated_at = NOW()`,
		req.ID, content,
	)
	if err != nil {
		return fmt.Errorf("failed to save requirement %s: %w", req.ID, err)
	}
	return nil
}

// PutCandidate inserts or replaces a candidate record
func (s *RecordSource) PutCandidate(ctx context.Context, cand *types.CandidateProfile) error {
	content, err := json.Marshal(cand)
	if err != nil {
		return fmt.Errorf("failed to marshal candidate: %w", err)
	}
	_, err = s.db.pool.Exec(ctx,
		`INSERT INTO candidate_profiles (candidate_id, content)
		 VALUES ($1, $2)
		 ON CONFLICT (candidate_id) DO UPDATE SET content = $2, updated_at = NOW()`,
		cand.ID, content,
	)
	if err != nil {
		return fmt.Errorf("failed to save candidate %s: %w", cand.ID, err)
	}
	return nil
}
