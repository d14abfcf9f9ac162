// Package types provides type definitions for structured data used throughout the candidate-ranker system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"fmt"
)

// JobRequirement represents the structured requirements of a single job requisition.
// Records are produced by the extraction collaborator and treated as immutable input.
type JobRequirement struct {
	ID                string   `json:"job_id" yaml:"job_id" validate:"required,excludesall=/\\"`
	RoleTitle         string   `json:"role_title" yaml:"role_title" validate:"required"`
	MandatorySkills   []string `json:"mandatory_skills" yaml:"mandatory_skills"`
	GoodToHaveSkills  []string `json:"good_to_have_skills" yaml:"good_to_have_skills"`
	ExperienceMin     int      `json:"experience_min" yaml:"experience_min" validate:"min=0"`
	ExperienceMax     int      `json:"experience_max" yaml:"experience_max" validate:"gtefield=ExperienceMin"`
	Location          string   `json:"location" yaml:"location"`
	RelocationAllowed bool     `json:"relocation_allowed,omitempty" yaml:"relocation_allowed,omitempty"`
	SalaryMin         *int64   `json:"salary_min,omitempty" yaml:"salary_min,omitempty" validate:"omitempty,min=0"`
	SalaryMax         *int64   `json:"salary_max,omitempty" yaml:"salary_max,omitempty" validate:"omitempty,min=0"`
}

// Validate checks the structural invariants of the requirement record.
func (r *JobRequirement) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("invalid job requirement %q: %s", r.ID, describeValidation(err))
	}
	if r.SalaryMin != nil && r.SalaryMax != nil && *r.SalaryMin > *r.SalaryMax {
		return fmt.Errorf("invalid job requirement %q: salary_min %d exceeds salary_max %d", r.ID, *r.SalaryMin, *r.SalaryMax)
	}
	return nil
}
