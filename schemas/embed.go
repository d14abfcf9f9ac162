// Package schemas holds the JSON Schemas for the records the ranker reads and
// the artifacts it writes.
package schemas

import "embed"

// Files contains every *.schema.json in this directory
//
//go:embed *.schema.json
var Files embed.FS

// Schema file names
const (
	RankingArtifact  = "ranking_artifact.schema.json"
	JobRequirement   = "job_requirement.schema.json"
	CandidateProfile = "candidate_profile.schema.json"
)

// Load returns the content of an embedded schema
func Load(name string) (string, error) {
	b, err := Files.ReadFile(name)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
