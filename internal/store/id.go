package store

import (
	"fmt"
	"strings"
	"time"
)

// ArtifactIDPrefix starts every ranking artifact id
const ArtifactIDPrefix = "RANK-"

// NewArtifactID derives the id of an artifact from its requisition and creation instant
func NewArtifactID(requisitionID string, createdAt time.Time) string {
	return fmt.Sprintf("%s%s-%d", ArtifactIDPrefix, requisitionID, createdAt.Unix())
}

// WithSuffix disambiguates an id that collided with an existing artifact
func WithSuffix(artifactID string, n int) string {
	return fmt.Sprintf("%s-%d", artifactID, n)
}

// ValidateID rejects ids that cannot be used as a storage key
func ValidateID(id string) error {
	if id == "" {
		return fmt.Errorf("empty id")
	}
	if strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return fmt.Errorf("invalid id %q", id)
	}
	return nil
}
