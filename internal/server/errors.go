// Package server provides the HTTP REST API for the candidate ranker.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/candidate-ranker/internal/pipeline"
)

// ErrInvalidCredentials indicates an unknown client id or a wrong secret
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid client id or secret"
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var invalidCreds *ErrInvalidCredentials
	var validation *ErrValidation

	switch {
	case err == nil:
		return http.StatusInternalServerError
	case errors.As(err, &invalidCreds):
		return http.StatusUnauthorized
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.Is(err, pipeline.ErrRequirementNotFound), errors.Is(err, pipeline.ErrArtifactNotFound):
		return http.StatusNotFound
	case errors.Is(err, pipeline.ErrEmptyCandidatePool), errors.Is(err, pipeline.ErrInvalidRequirement):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
