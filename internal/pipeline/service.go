// Package pipeline orchestrates a ranking request: reuse check, record
// loading, scoring and artifact persistence.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/candidate-ranker/internal/logger"
	"github.com/jonathan/candidate-ranker/internal/ranking"
	"github.com/jonathan/candidate-ranker/internal/records"
	"github.com/jonathan/candidate-ranker/internal/store"
	"github.com/jonathan/candidate-ranker/internal/types"
)

// maxIDAttempts bounds the suffixes tried when two runs land on the same second
const maxIDAttempts = 10

// Pipeline steps reported through ProgressCallback
const (
	StepCheckExisting   = "check_existing"
	StepLoadRequirement = "load_requirement"
	StepLoadCandidates  = "load_candidates"
	StepScore           = "score"
	StepPersist         = "persist"
)

// ProgressEvent represents a progress update during a ranking run
type ProgressEvent struct {
	Step          string `json:"step"`
	RequisitionID string `json:"requisition_id"`
	Message       string `json:"message"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

// Options holds the collaborators of a Service. Requirements, Candidates,
// Store and Strategy are required.
type Options struct {
	Requirements records.RequirementSource
	Candidates   records.CandidateSource
	Store        store.ArtifactStore
	Strategy     ranking.Strategy
	Logger       *zap.Logger
	OnProgress   ProgressCallback
	// Now defaults to time.Now
	Now func() time.Time
}

// Service runs rankings and serves stored artifacts
type Service struct {
	requirements records.RequirementSource
	candidates   records.CandidateSource
	store        store.ArtifactStore
	strategy     ranking.Strategy
	logger       *zap.Logger
	onProgress   ProgressCallback
	now          func() time.Time
}

// Result is the outcome of Rank. Reused is set when an existing artifact was
// returned; Age is then its age at the time of the call.
type Result struct {
	Artifact *types.RankingArtifact `json:"artifact"`
	Reused   bool                   `json:"reused"`
	Age      time.Duration          `json:"-"`
	Message  string                 `json:"message"`
}

// NewService creates a ranking service
func NewService(opts Options) (*Service, error) {
	switch {
	case opts.Requirements == nil:
		return nil, fmt.Errorf("requirement source is required")
	case opts.Candidates == nil:
		return nil, fmt.Errorf("candidate source is required")
	case opts.Store == nil:
		return nil, fmt.Errorf("artifact store is required")
	case opts.Strategy == nil:
		return nil, fmt.Errorf("ranking strategy is required")
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		requirements: opts.Requirements,
		candidates:   opts.Candidates,
		store:        opts.Store,
		strategy:     opts.Strategy,
		logger:       logger.OrNop(opts.Logger),
		onProgress:   opts.OnProgress,
		now:          now,
	}, nil
}

func (s *Service) emit(step, requisitionID, message string) {
	if s.onProgress != nil {
		s.onProgress(ProgressEvent{Step: step, RequisitionID: requisitionID, Message: message})
	}
}

// Rank returns a ranking for the requisition. Unless force is set, the latest
// stored artifact is returned unchanged when one exists. Otherwise the
// candidate pool is scored and a new artifact is persisted.
func (s *Service) Rank(ctx context.Context, requisitionID string, force bool) (*Result, error) {
	log := s.logger.With(zap.String(logger.FieldRequisitionID, requisitionID))

	if !force {
		s.emit(StepCheckExisting, requisitionID, "Checking for an existing ranking")
		existing, err := s.store.GetLatest(ctx, requisitionID)
		switch {
		case err == nil:
			age := existing.Age(s.now())
			log.Info("returning existing ranking",
				zap.String(logger.FieldArtifactID, existing.ArtifactID),
				zap.Duration("age", age))
			return &Result{
				Artifact: existing,
				Reused:   true,
				Age:      age,
				Message:  fmt.Sprintf("Returned existing ranking (created %ds ago)", int64(age/time.Second)),
			}, nil
		case errors.Is(err, store.ErrNotFound):
		default:
			// The reuse check is an optimization; recompute rather than fail.
			log.Warn("existing ranking lookup failed, recomputing", zap.Error(err))
		}
	}

	s.emit(StepLoadRequirement, requisitionID, "Loading job requirement")
	req, err := s.loadRequirement(ctx, requisitionID)
	if err != nil {
		return nil, err
	}

	s.emit(StepLoadCandidates, requisitionID, "Loading candidate pool")
	pool, err := s.candidates.ListCandidates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load candidates: %w", err)
	}
	if pool.Size() == 0 {
		return nil, newRankError(ErrEmptyCandidatePool, requisitionID, nil)
	}

	s.emit(StepScore, requisitionID, fmt.Sprintf("Scoring %d candidates", len(pool.Candidates)))
	run := ranking.NewRun(req, pool.Candidates, pool.Rejected)
	if err := s.strategy.Evaluate(ctx, run); err != nil {
		return nil, fmt.Errorf("ranking failed: %w", err)
	}
	log.Info("candidates scored",
		zap.Int("pool_size", pool.Size()),
		zap.Int("title_matched", len(run.Matched)),
		zap.Int("ranked", len(run.Entries)),
		zap.Int("excluded", len(run.Issues)))
	if run.NoTitleMatch() {
		log.Info("no candidates matched the job title", zap.Strings("candidate_titles", run.UnmatchedTitles))
	}

	s.emit(StepPersist, requisitionID, "Saving ranking")
	artifact, err := s.persist(ctx, run)
	if err != nil {
		return nil, newRankError(ErrStoreWrite, requisitionID, err)
	}
	log.Info("ranking completed", zap.String(logger.FieldArtifactID, artifact.ArtifactID))

	return &Result{
		Artifact: artifact,
		Message:  fmt.Sprintf("Ranking completed. Ranking ID: %s", artifact.ArtifactID),
	}, nil
}

func (s *Service) loadRequirement(ctx context.Context, requisitionID string) (*types.JobRequirement, error) {
	req, err := s.requirements.GetRequirement(ctx, requisitionID)
	if err != nil {
		var loadErr *records.LoadError
		switch {
		case errors.Is(err, records.ErrRequirementNotFound):
			return nil, newRankError(ErrRequirementNotFound, requisitionID, err)
		case errors.As(err, &loadErr):
			return nil, newRankError(ErrInvalidRequirement, requisitionID, err)
		default:
			return nil, fmt.Errorf("failed to load requirement %s: %w", requisitionID, err)
		}
	}

	if req.ID != requisitionID {
		return nil, newRankError(ErrInvalidRequirement, requisitionID,
			fmt.Errorf("record id %q does not match requisition", req.ID))
	}
	if err := req.Validate(); err != nil {
		return nil, newRankError(ErrInvalidRequirement, requisitionID, err)
	}
	return req, nil
}

// persist stores the run's artifact. Two runs in the same second derive the
// same id; later ones get a numeric suffix.
func (s *Service) persist(ctx context.Context, run *ranking.Run) (*types.RankingArtifact, error) {
	createdAt := s.now().UTC().Truncate(time.Second)
	baseID := store.NewArtifactID(run.Requirement.ID, createdAt)

	var err error
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id := baseID
		if attempt > 0 {
			id = store.WithSuffix(baseID, attempt)
		}
		artifact := run.Artifact(id, s.strategy.Name(), createdAt)
		err = s.store.Create(ctx, artifact)
		if err == nil {
			return artifact, nil
		}
		if !errors.Is(err, store.ErrArtifactExists) {
			return nil, err
		}
	}
	return nil, err
}

// GetArtifact returns a stored artifact by id
func (s *Service) GetArtifact(ctx context.Context, artifactID string) (*types.RankingArtifact, error) {
	artifact, err := s.store.Get(ctx, artifactID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrArtifactNotFound, artifactID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ranking %s: %w", artifactID, err)
	}
	return artifact, nil
}

// LatestArtifact returns the newest artifact for a requisition without computing one
func (s *Service) LatestArtifact(ctx context.Context, requisitionID string) (*types.RankingArtifact, error) {
	artifact, err := s.store.GetLatest(ctx, requisitionID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: no ranking for requisition %s", ErrArtifactNotFound, requisitionID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest ranking for %s: %w", requisitionID, err)
	}
	return artifact, nil
}

// ListArtifacts returns artifact summaries newest first. An empty requisition
// id lists every requisition.
func (s *Service) ListArtifacts(ctx context.Context, requisitionID string) ([]types.ArtifactSummary, error) {
	summaries, err := s.store.List(ctx, requisitionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list rankings: %w", err)
	}
	return summaries, nil
}
