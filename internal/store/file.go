package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gofrs/flock"

	"github.com/jonathan/candidate-ranker/internal/schemas"
	"github.com/jonathan/candidate-ranker/internal/types"
)

// Layout under the store root
const (
	artifactsDir = "artifacts"
	latestDir    = "latest"
	lockFile     = ".lock"
)

// File stores artifacts as JSON documents on disk:
//
//	<root>/artifacts/<artifact-id>.json
//	<root>/latest/<requisition-id>.json   pointer to the newest artifact
//
// Artifact files are created exclusively and never rewritten. Pointer updates
// are serialized with a mutex in-process and a file lock across processes;
// a Flock handle does not exclude goroutines sharing it.
type File struct {
	root string
	mu   sync.Mutex
	lock *flock.Flock
}

// NewFile opens (creating if needed) a file store rooted at dir
func NewFile(dir string) (*File, error) {
	for _, sub := range []string{artifactsDir, latestDir} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0755); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}
	return &File{
		root: dir,
		lock: flock.New(filepath.Join(dir, lockFile)),
	}, nil
}

func (f *File) artifactPath(id string) string {
	return filepath.Join(f.root, artifactsDir, id+".json")
}

func (f *File) latestPath(requisitionID string) string {
	return filepath.Join(f.root, latestDir, requisitionID+".json")
}

// Create implements ArtifactStore
func (f *File) Create(ctx context.Context, artifact *types.RankingArtifact) error {
	if err := ValidateID(artifact.ArtifactID); err != nil {
		return fmt.Errorf("invalid artifact: %w", err)
	}
	if err := ValidateID(artifact.RequisitionID); err != nil {
		return fmt.Errorf("invalid requisition: %w", err)
	}

	data, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal artifact: %w", err)
	}
	if err := schemas.ValidateArtifact(data); err != nil {
		return fmt.Errorf("artifact %s failed schema validation: %w", artifact.ArtifactID, err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.lock.Lock(); err != nil {
		return fmt.Errorf("failed to acquire store lock: %w", err)
	}
	defer func() { _ = f.lock.Unlock() }()

	if err := writeExclusive(f.artifactPath(artifact.ArtifactID), data); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%w: %s", ErrArtifactExists, artifact.ArtifactID)
		}
		return fmt.Errorf("failed to write artifact: %w", err)
	}

	if err := f.advanceLatest(artifact); err != nil {
		// A failed create leaves nothing behind.
		if rmErr := os.Remove(f.artifactPath(artifact.ArtifactID)); rmErr != nil {
			return errors.Join(err, fmt.Errorf("failed to remove artifact %s: %w", artifact.ArtifactID, rmErr))
		}
		return err
	}
	return nil
}

// advanceLatest moves the requisition pointer to artifact unless the current
// pointer is newer. Callers hold the store lock.
func (f *File) advanceLatest(artifact *types.RankingArtifact) error {
	created := artifact.CreatedAt.Unix()
	cur, err := f.readLatest(artifact.RequisitionID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	if !cur.advances(created) {
		return nil
	}
	return f.writeLatest(artifact.RequisitionID, &latestEntry{ArtifactID: artifact.ArtifactID, CreatedAt: created})
}

// Get implements ArtifactStore
func (f *File) Get(_ context.Context, artifactID string) (*types.RankingArtifact, error) {
	if err := ValidateID(artifactID); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, artifactID)
	}

	data, err := os.ReadFile(f.artifactPath(artifactID))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, artifactID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact %s: %w", artifactID, err)
	}

	var artifact types.RankingArtifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("failed to unmarshal artifact %s: %w", artifactID, err)
	}
	return &artifact, nil
}

// GetLatest implements ArtifactStore
func (f *File) GetLatest(ctx context.Context, requisitionID string) (*types.RankingArtifact, error) {
	if err := ValidateID(requisitionID); err != nil {
		return nil, fmt.Errorf("%w: no ranking for requisition %s", ErrNotFound, requisitionID)
	}
	entry, err := f.readLatest(requisitionID)
	if err != nil {
		return nil, err
	}
	return f.Get(ctx, entry.ArtifactID)
}

// List implements ArtifactStore. It reads every artifact file, so it is
// meant for listing, not for the latest lookup.
func (f *File) List(ctx context.Context, requisitionID string) ([]types.ArtifactSummary, error) {
	dirEntries, err := os.ReadDir(filepath.Join(f.root, artifactsDir))
	if err != nil {
		return nil, fmt.Errorf("failed to read artifacts directory: %w", err)
	}

	out := make([]types.ArtifactSummary, 0, len(dirEntries))
	for _, de := range dirEntries {
		name := de.Name()
		if de.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		artifact, err := f.Get(ctx, strings.TrimSuffix(name, ".json"))
		if err != nil {
			return nil, err
		}
		if requisitionID == "" || artifact.RequisitionID == requisitionID {
			out = append(out, artifact.Summarize())
		}
	}
	SortSummaries(out)
	return out, nil
}

func (f *File) readLatest(requisitionID string) (*latestEntry, error) {
	data, err := os.ReadFile(f.latestPath(requisitionID))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: no ranking for requisition %s", ErrNotFound, requisitionID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read latest pointer: %w", err)
	}
	var entry latestEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal latest pointer: %w", err)
	}
	return &entry, nil
}

// writeLatest replaces the pointer atomically via rename
func (f *File) writeLatest(requisitionID string, entry *latestEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal latest pointer: %w", err)
	}
	tmp := f.latestPath(requisitionID) + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write latest pointer: %w", err)
	}
	if err := os.Rename(tmp, f.latestPath(requisitionID)); err != nil {
		return fmt.Errorf("failed to replace latest pointer: %w", err)
	}
	return nil
}

func writeExclusive(path string, data []byte) error {
	fh, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return err
	}
	if _, err := fh.Write(data); err != nil {
		_ = fh.Close()
		_ = os.Remove(path)
		return err
	}
	return fh.Close()
}
