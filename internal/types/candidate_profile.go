// Package types provides type definitions for structured data used throughout the candidate-ranker system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "fmt"

// CandidateProfile represents one structured candidate record.
type CandidateProfile struct {
	ID                    string          `json:"candidate_id" yaml:"candidate_id" validate:"required"`
	Name                  string          `json:"name" yaml:"name"`
	Email                 string          `json:"email" yaml:"email"`
	TargetJobTitle        string          `json:"target_job_title" yaml:"target_job_title"`
	Skills                TechnicalSkills `json:"technical_skills" yaml:"technical_skills"`
	TotalExperienceYears  *float64        `json:"total_experience_years" yaml:"total_experience_years" validate:"required,min=0"`
	CurrentLocation       string          `json:"current_location" yaml:"current_location"`
	ExpectedSalary        *int64          `json:"expected_salary,omitempty" yaml:"expected_salary,omitempty"`
	RelocationWilling     *bool           `json:"relocation_willing,omitempty" yaml:"relocation_willing,omitempty"`
	ResumeEvaluationScore *int            `json:"resume_evaluation_score,omitempty" yaml:"resume_evaluation_score,omitempty"`
}

// TechnicalSkills groups a candidate's skills by category.
type TechnicalSkills struct {
	ProgrammingLanguages []string `json:"programming_languages,omitempty" yaml:"programming_languages,omitempty"`
	Frameworks           []string `json:"frameworks,omitempty" yaml:"frameworks,omitempty"`
	Databases            []string `json:"databases,omitempty" yaml:"databases,omitempty"`
	CloudPlatforms       []string `json:"cloud_platforms,omitempty" yaml:"cloud_platforms,omitempty"`
	DevOpsTools          []string `json:"devops_tools,omitempty" yaml:"devops_tools,omitempty"`
	Tools                []string `json:"tools,omitempty" yaml:"tools,omitempty"`
	Methodologies        []string `json:"methodologies,omitempty" yaml:"methodologies,omitempty"`
	Other                []string `json:"other,omitempty" yaml:"other,omitempty"`
}

// All flattens every category into a single list, in category order.
// Duplicates are kept; callers normalize into a set.
func (s TechnicalSkills) All() []string {
	groups := [][]string{
		s.ProgrammingLanguages,
		s.Frameworks,
		s.Databases,
		s.CloudPlatforms,
		s.DevOpsTools,
		s.Tools,
		s.Methodologies,
		s.Other,
	}

	total := 0
	for _, g := range groups {
		total += len(g)
	}

	all := make([]string, 0, total)
	for _, g := range groups {
		all = append(all, g...)
	}
	return all
}

// Years returns the declared years of experience, or zero when absent.
func (c *CandidateProfile) Years() float64 {
	if c.TotalExperienceYears == nil {
		return 0
	}
	return *c.TotalExperienceYears
}

// WillingToRelocate reports the relocation flag, treating an absent flag as false.
func (c *CandidateProfile) WillingToRelocate() bool {
	return c.RelocationWilling != nil && *c.RelocationWilling
}

// Validate checks that the record carries every field the scorers need.
func (c *CandidateProfile) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%s", describeValidation(err))
	}
	return nil
}
