package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jonathan/candidate-ranker/internal/config"
	"github.com/jonathan/candidate-ranker/internal/pipeline"
	"github.com/jonathan/candidate-ranker/internal/server/middleware"
	"github.com/jonathan/candidate-ranker/internal/types"
)

// fakeService serves canned artifacts keyed by id
type fakeService struct {
	artifacts map[string]*types.RankingArtifact
	latest    map[string]string
	rankErr   error
	reuse     bool
	lastForce bool
}

func newFakeService() *fakeService {
	a := &types.RankingArtifact{
		ArtifactID:         "RANK-JD-001-1700000000",
		RequisitionID:      "JD-001",
		RequisitionTitle:   "Backend Developer",
		Strategy:           "deterministic",
		CreatedAt:          time.Unix(1700000000, 0).UTC(),
		TotalEvaluated:     1,
		Entries:            []types.RankingEntry{{Rank: 1, CandidateID: "CAND-1", CandidateName: "Asha", Tier: types.TierTop, RedFlags: []string{}, GreenFlags: []string{}}},
		TopTier:            []string{"CAND-1"},
		AcceptableTier:     []string{},
		NotRecommendedTier: []string{},
		Insights:           []string{},
	}
	return &fakeService{
		artifacts: map[string]*types.RankingArtifact{a.ArtifactID: a},
		latest:    map[string]string{"JD-001": a.ArtifactID},
	}
}

func (f *fakeService) Rank(_ context.Context, requisitionID string, force bool) (*pipeline.Result, error) {
	f.lastForce = force
	if f.rankErr != nil {
		return nil, f.rankErr
	}
	id, ok := f.latest[requisitionID]
	if !ok {
		return nil, &pipeline.RankError{Kind: pipeline.ErrRequirementNotFound, RequisitionID: requisitionID}
	}
	if f.reuse && !force {
		return &pipeline.Result{Artifact: f.artifacts[id], Reused: true, Message: "Returned existing ranking (created 5s ago)"}, nil
	}
	return &pipeline.Result{Artifact: f.artifacts[id], Message: "Ranking completed. Ranking ID: " + id}, nil
}

func (f *fakeService) GetArtifact(_ context.Context, artifactID string) (*types.RankingArtifact, error) {
	a, ok := f.artifacts[artifactID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", pipeline.ErrArtifactNotFound, artifactID)
	}
	return a, nil
}

func (f *fakeService) LatestArtifact(ctx context.Context, requisitionID string) (*types.RankingArtifact, error) {
	id, ok := f.latest[requisitionID]
	if !ok {
		return nil, fmt.Errorf("%w: no ranking for requisition %s", pipeline.ErrArtifactNotFound, requisitionID)
	}
	return f.GetArtifact(ctx, id)
}

func (f *fakeService) ListArtifacts(_ context.Context, requisitionID string) ([]types.ArtifactSummary, error) {
	out := []types.ArtifactSummary{}
	for _, a := range f.artifacts {
		if requisitionID == "" || a.RequisitionID == requisitionID {
			out = append(out, a.Summarize())
		}
	}
	return out, nil
}

func newTestServer(t *testing.T, cfg Config) (*Server, *fakeService) {
	t.Helper()
	svc := newFakeService()
	s, err := New(cfg, svc, nil)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s, svc
}

func do(t *testing.T, h http.Handler, method, target string, body []byte, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	s, _ := newTestServer(t, Config{})

	w := do(t, s.Handler(), http.MethodGet, "/health", nil, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
}

func TestNew_RequiresService(t *testing.T) {
	_, err := New(Config{}, nil, nil)
	assert.Error(t, err)

	jwtCfg, err := config.NewJWTConfig("secret", 1)
	require.NoError(t, err)
	_, err = New(Config{JWT: jwtCfg}, newFakeService(), nil)
	assert.Error(t, err)
}

func TestRankEndpoint_Created(t *testing.T) {
	s, svc := newTestServer(t, Config{})

	w := do(t, s.Handler(), http.MethodPost, "/rankings/JD-001", nil, nil)

	require.Equal(t, http.StatusCreated, w.Code)
	var result pipeline.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.False(t, result.Reused)
	assert.Equal(t, "RANK-JD-001-1700000000", result.Artifact.ArtifactID)
	assert.Equal(t, "Ranking completed. Ranking ID: RANK-JD-001-1700000000", result.Message)
	assert.False(t, svc.lastForce)
}

func TestRankEndpoint_Reused(t *testing.T) {
	s, svc := newTestServer(t, Config{})
	svc.reuse = true

	w := do(t, s.Handler(), http.MethodPost, "/rankings/JD-001", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Returned existing ranking")

	w = do(t, s.Handler(), http.MethodPost, "/rankings/JD-001?force=true", nil, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, svc.lastForce)
}

func TestRankEndpoint_InvalidForce(t *testing.T) {
	s, _ := newTestServer(t, Config{})

	w := do(t, s.Handler(), http.MethodPost, "/rankings/JD-001?force=maybe", nil, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "force")
}

func TestRankEndpoint_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		rankErr    error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "requirement not found",
			rankErr:    &pipeline.RankError{Kind: pipeline.ErrRequirementNotFound, RequisitionID: "JD-404"},
			wantStatus: http.StatusNotFound,
			wantBody:   "requisition JD-404",
		},
		{
			name:       "empty pool",
			rankErr:    &pipeline.RankError{Kind: pipeline.ErrEmptyCandidatePool, RequisitionID: "JD-001"},
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   "no candidate records available",
		},
		{
			name:       "store write is masked",
			rankErr:    &pipeline.RankError{Kind: pipeline.ErrStoreWrite, RequisitionID: "JD-001", Cause: fmt.Errorf("disk full")},
			wantStatus: http.StatusInternalServerError,
			wantBody:   "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, svc := newTestServer(t, Config{})
			svc.rankErr = tt.rankErr

			w := do(t, s.Handler(), http.MethodPost, "/rankings/JD-001", nil, nil)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
			assert.NotContains(t, w.Body.String(), "disk full")
		})
	}
}

func TestGetRankingEndpoint(t *testing.T) {
	s, _ := newTestServer(t, Config{})

	w := do(t, s.Handler(), http.MethodGet, "/rankings/RANK-JD-001-1700000000", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var artifact types.RankingArtifact
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &artifact))
	assert.Equal(t, "JD-001", artifact.RequisitionID)

	w = do(t, s.Handler(), http.MethodGet, "/rankings/RANK-NOPE-1", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "ranking not found")
}

func TestListRankingsEndpoints(t *testing.T) {
	s, _ := newTestServer(t, Config{})

	var resp ListRankingsResponse
	w := do(t, s.Handler(), http.MethodGet, "/rankings", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Count)

	w = do(t, s.Handler(), http.MethodGet, "/requisitions/JD-001/rankings", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Rankings, 1)
	assert.Equal(t, "RANK-JD-001-1700000000", resp.Rankings[0].ArtifactID)

	w = do(t, s.Handler(), http.MethodGet, "/rankings?requisition=JD-999", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Count)
	assert.NotNil(t, resp.Rankings)
}

func TestLatestRankingEndpoint(t *testing.T) {
	s, _ := newTestServer(t, Config{})

	w := do(t, s.Handler(), http.MethodGet, "/requisitions/JD-001/rankings/latest", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "RANK-JD-001-1700000000")

	w = do(t, s.Handler(), http.MethodGet, "/requisitions/JD-404/rankings/latest", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestExportRankingEndpoint(t *testing.T) {
	s, _ := newTestServer(t, Config{})

	w := do(t, s.Handler(), http.MethodGet, "/rankings/RANK-JD-001-1700000000/export.xlsx", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "RANK-JD-001-1700000000.xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	assert.Contains(t, f.GetSheetList(), "Ranked Candidates")

	w = do(t, s.Handler(), http.MethodGet, "/rankings/RANK-NOPE-1/export.xlsx", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCORSMiddleware(t *testing.T) {
	s, _ := newTestServer(t, Config{})

	w := do(t, s.Handler(), http.MethodGet, "/health", nil, nil)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Authorization")
}

func TestCORSMiddleware_OPTIONS(t *testing.T) {
	s, _ := newTestServer(t, Config{})

	w := do(t, s.Handler(), http.MethodOptions, "/rankings/JD-001", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestRequestID_Propagated(t *testing.T) {
	s, _ := newTestServer(t, Config{})

	w := do(t, s.Handler(), http.MethodGet, "/health", nil, map[string]string{middleware.RequestIDHeader: "req-123"})
	assert.Equal(t, "req-123", w.Header().Get(middleware.RequestIDHeader))
}

func TestRateLimit(t *testing.T) {
	s, _ := newTestServer(t, Config{RateLimit: 2, RateWindow: time.Minute})

	for i := 0; i < 2; i++ {
		w := do(t, s.Handler(), http.MethodGet, "/rankings", nil, nil)
		require.Equal(t, http.StatusOK, w.Code, "request %d", i+1)
		assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	}

	w := do(t, s.Handler(), http.MethodGet, "/rankings", nil, nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "rate_limit_exceeded")
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func authConfig(t *testing.T) Config {
	t.Helper()
	jwtCfg, err := config.NewJWTConfig("test-secret-key-for-jwt-signing-minimum-32-bytes", 1)
	require.NoError(t, err)
	pwCfg, err := config.NewPasswordConfig(10, "")
	require.NoError(t, err)
	hash, err := pwCfg.HashSecret("portal-secret")
	require.NoError(t, err)
	return Config{
		JWT:      jwtCfg,
		Password: pwCfg,
		Clients:  map[string]string{"recruiting-portal": hash},
	}
}

func TestAuth_TokenFlow(t *testing.T) {
	s, _ := newTestServer(t, authConfig(t))
	h := s.Handler()

	// Ranking routes need a token
	w := do(t, h, http.MethodGet, "/rankings", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Health stays open
	w = do(t, h, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	body := []byte(`{"client_id":"recruiting-portal","client_secret":"portal-secret"}`)
	w = do(t, h, http.MethodPost, "/auth/token", body, map[string]string{"Content-Type": "application/json"})
	require.Equal(t, http.StatusOK, w.Code)

	var token types.TokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &token))
	assert.Equal(t, "Bearer", token.TokenType)
	assert.Equal(t, 3600, token.ExpiresIn)
	require.NotEmpty(t, token.AccessToken)

	w = do(t, h, http.MethodGet, "/rankings", nil, map[string]string{"Authorization": "Bearer " + token.AccessToken})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuth_TokenRejected(t *testing.T) {
	s, _ := newTestServer(t, authConfig(t))

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{name: "wrong secret", body: `{"client_id":"recruiting-portal","client_secret":"wrong-secret"}`, wantStatus: http.StatusUnauthorized},
		{name: "unknown client", body: `{"client_id":"someone-else","client_secret":"portal-secret"}`, wantStatus: http.StatusUnauthorized},
		{name: "missing secret", body: `{"client_id":"recruiting-portal"}`, wantStatus: http.StatusBadRequest},
		{name: "invalid json", body: `{`, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, s.Handler(), http.MethodPost, "/auth/token", []byte(tt.body), nil)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.False(t, strings.Contains(w.Body.String(), "access_token"))
		})
	}
}

func TestAuth_DisabledHasNoTokenRoute(t *testing.T) {
	s, _ := newTestServer(t, Config{})

	w := do(t, s.Handler(), http.MethodPost, "/auth/token", []byte(`{}`), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStart_StopsOnCancel(t *testing.T) {
	s, _ := newTestServer(t, Config{Port: 0, ShutdownTimeout: time.Second})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
