package server

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/jonathan/candidate-ranker/internal/export"
	"github.com/jonathan/candidate-ranker/internal/logger"
	"github.com/jonathan/candidate-ranker/internal/server/middleware"
	"github.com/jonathan/candidate-ranker/internal/types"
)

// ListRankingsResponse represents the response for ranking listings
type ListRankingsResponse struct {
	Rankings []types.ArtifactSummary `json:"rankings"`
	Count    int                     `json:"count"`
}

// handleRank runs (or reuses) a ranking for a requisition
func (s *Server) handleRank(w http.ResponseWriter, r *http.Request) {
	requisitionID := r.PathValue("requisition_id")

	force := false
	if raw := r.URL.Query().Get("force"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			s.writeError(w, r, &ErrValidation{Field: "force", Message: "must be true or false"})
			return
		}
		force = parsed
	}

	result, err := s.service.Rank(r.Context(), requisitionID, force)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	status := http.StatusCreated
	if result.Reused {
		status = http.StatusOK
	}
	s.jsonResponse(w, status, result)
}

// handleListRankings lists every ranking, optionally filtered by ?requisition=
func (s *Server) handleListRankings(w http.ResponseWriter, r *http.Request) {
	s.listRankings(w, r, r.URL.Query().Get("requisition"))
}

// handleListRequisitionRankings lists the rankings of one requisition
func (s *Server) handleListRequisitionRankings(w http.ResponseWriter, r *http.Request) {
	s.listRankings(w, r, r.PathValue("requisition_id"))
}

func (s *Server) listRankings(w http.ResponseWriter, r *http.Request, requisitionID string) {
	summaries, err := s.service.ListArtifacts(r.Context(), requisitionID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, ListRankingsResponse{Rankings: summaries, Count: len(summaries)})
}

// handleGetRanking returns one ranking artifact
func (s *Server) handleGetRanking(w http.ResponseWriter, r *http.Request) {
	artifact, err := s.service.GetArtifact(r.Context(), r.PathValue("artifact_id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, artifact)
}

// handleLatestRanking returns the newest ranking of a requisition
func (s *Server) handleLatestRanking(w http.ResponseWriter, r *http.Request) {
	artifact, err := s.service.LatestArtifact(r.Context(), r.PathValue("requisition_id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, artifact)
}

// handleExportRanking streams a ranking as an Excel workbook
func (s *Server) handleExportRanking(w http.ResponseWriter, r *http.Request) {
	artifact, err := s.service.GetArtifact(r.Context(), r.PathValue("artifact_id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	// Buffer so a failed export still gets a JSON error instead of a truncated file
	var buf bytes.Buffer
	if err := export.Write(&buf, artifact); err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", artifact.ArtifactID+".xlsx"))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		s.logger.Error("failed to write export", zap.Error(err))
	}
}

// writeError maps err to a status code; server faults are logged and masked
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String("path", r.URL.Path),
			zap.String(logger.FieldRequestID, middleware.GetRequestID(r)),
			zap.Error(err),
		)
		s.errorResponse(w, status, "internal server error")
		return
	}
	s.errorResponse(w, status, err.Error())
}
