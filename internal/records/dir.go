package records

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jonathan/candidate-ranker/internal/types"
)

// Subdirectories of a records root
const (
	RequirementsDir = "requirements"
	CandidatesDir   = "candidates"
)

// recordExtensions are tried in order when resolving a requirement file
var recordExtensions = []string{".json", ".yaml", ".yml"}

// DirSource reads records from a directory tree:
//
//	<root>/requirements/<requisition-id>.{json,yaml,yml}
//	<root>/candidates/*.{json,yaml,yml}
type DirSource struct {
	root string
}

// NewDirSource creates a source rooted at dir
func NewDirSource(dir string) *DirSource {
	return &DirSource{root: dir}
}

// GetRequirement implements RequirementSource
func (s *DirSource) GetRequirement(_ context.Context, requisitionID string) (*types.JobRequirement, error) {
	if requisitionID == "" || strings.ContainsAny(requisitionID, `/\`) || requisitionID == "." || requisitionID == ".." {
		return nil, fmt.Errorf("%w: %q", ErrRequirementNotFound, requisitionID)
	}

	for _, ext := range recordExtensions {
		path := filepath.Join(s.root, RequirementsDir, requisitionID+ext)
		content, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, &LoadError{Message: fmt.Sprintf("failed to read file %s", path), Cause: err}
		}

		var req types.JobRequirement
		if err := decode(path, content, &req); err != nil {
			return nil, err
		}
		if req.ID == "" {
			req.ID = requisitionID
		}
		return &req, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrRequirementNotFound, requisitionID)
}

// ListCandidates implements CandidateSource. Files are read in name order;
// a file that cannot be decoded becomes a rejected record. A missing
// candidates directory is an empty pool.
func (s *DirSource) ListCandidates(_ context.Context) (*Pool, error) {
	dir := filepath.Join(s.root, CandidatesDir)
	dirEntries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return &Pool{Candidates: []types.CandidateProfile{}}, nil
	}
	if err != nil {
		return nil, &LoadError{Message: fmt.Sprintf("failed to read directory %s", dir), Cause: err}
	}

	names := make([]string, 0, len(dirEntries))
	for _, de := range dirEntries {
		if de.IsDir() || !isRecordFile(de.Name()) {
			continue
		}
		names = append(names, de.Name())
	}
	sort.Strings(names)

	pool := &Pool{Candidates: make([]types.CandidateProfile, 0, len(names))}
	for _, name := range names {
		path := filepath.Join(dir, name)
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, &LoadError{Message: fmt.Sprintf("failed to read file %s", path), Cause: err}
		}

		var cand types.CandidateProfile
		if err := decode(path, content, &cand); err != nil {
			pool.Rejected = append(pool.Rejected, types.CandidateIssue{
				CandidateID: name,
				Source:      "loader",
				Reason:      err.Error(),
			})
			continue
		}
		if cand.ID == "" {
			cand.ID = strings.TrimSuffix(name, filepath.Ext(name))
		}
		pool.Candidates = append(pool.Candidates, cand)
	}

	return pool, nil
}

// RequirementIDs lists the requisition ids that have a requirement file, sorted.
func (s *DirSource) RequirementIDs() ([]string, error) {
	dir := filepath.Join(s.root, RequirementsDir)
	dirEntries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, &LoadError{Message: fmt.Sprintf("failed to read directory %s", dir), Cause: err}
	}

	seen := make(map[string]bool, len(dirEntries))
	ids := make([]string, 0, len(dirEntries))
	for _, de := range dirEntries {
		if de.IsDir() || !isRecordFile(de.Name()) {
			continue
		}
		id := strings.TrimSuffix(de.Name(), filepath.Ext(de.Name()))
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// WriteRecord writes v into the subdirectory as <id>.json, creating it as needed.
func (s *DirSource) WriteRecord(subdir, id string, v any) error {
	dir := filepath.Join(s.root, subdir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	content, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal record %s: %w", id, err)
	}
	path := filepath.Join(dir, id+".json")
	if err := os.WriteFile(path, content, 0644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", path, err)
	}
	return nil
}

func decode(path string, content []byte, v any) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(content, v); err != nil {
			return &LoadError{Message: fmt.Sprintf("failed to unmarshal YAML %s", filepath.Base(path)), Cause: err}
		}
	default:
		if err := json.Unmarshal(content, v); err != nil {
			return &LoadError{Message: fmt.Sprintf("failed to unmarshal JSON %s", filepath.Base(path)), Cause: err}
		}
	}
	return nil
}

func isRecordFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range recordExtensions {
		if ext == e {
			return true
		}
	}
	return false
}
