package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creditvision/creditvision-cli/internal/explain"
	"github.com/creditvision/creditvision-cli/internal/model"
	"github.com/creditvision/creditvision-cli/internal/recommend"
	"github.com/creditvision/creditvision-cli/internal/scoring"
	"github.com/creditvision/creditvision-cli/internal/simulator"
)

func testAPIServer(t *testing.T) *apiServer {
	t.Helper()

	engine, err := scoring.NewEngine(scoring.DefaultScoringConfig(), scoring.DefaultTiers())
	require.NoError(t, err)

	provider := simulator.Fixed{Features: model.AltDataFeatures{
		LocationStability:   0.8,
		MobileUsageScore:    90,
		UPITransactionCount: 40,
	}}

	env := &pipelineEnv{
		Engine:      engine,
		Recommender: recommend.New(provider, engine, explain.Fallback{}, nil),
	}
	return &apiServer{env: env}
}

func TestHandleHealth(t *testing.T) {
	srv := testAPIServer(t)

	rec := httptest.NewRecorder()
	srv.handleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestHandleRecommend(t *testing.T) {
	srv := testAPIServer(t)

	body := `{"income": 50000, "occupation": "salaried"}`
	rec := httptest.NewRecorder()
	srv.handleRecommend(rec, httptest.NewRequest(http.MethodPost, "/api/recommend", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Result *model.RecommendationResult `json:"result"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Result)
	assert.Equal(t, model.CivilScore(750), resp.Result.Score)
	assert.Equal(t, "preferred", resp.Result.Offer.LenderTier)
	assert.Equal(t, "fallback", resp.Result.RationaleSource)
	assert.NotEmpty(t, resp.Result.Rationale)
}

func TestHandleRecommendBadInput(t *testing.T) {
	srv := testAPIServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"income":`},
		{"unknown occupation", `{"income": 50000, "occupation": "astronaut"}`},
		{"zero income", `{"income": 0, "occupation": "salaried"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			srv.handleRecommend(rec, httptest.NewRequest(http.MethodPost, "/api/recommend", strings.NewReader(tt.body)))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestHandleListWithoutStore(t *testing.T) {
	srv := testAPIServer(t)

	rec := httptest.NewRecorder()
	srv.handleListRecommendations(rec, httptest.NewRequest(http.MethodGet, "/api/recommendations", nil))
	assert.Equal(t, http.StatusNotImplemented, rec.Code)
}

func TestHandleWebhookMessage(t *testing.T) {
	srv := testAPIServer(t)

	body := `{"from": "+911234567890", "text": "I earn 50000 per month and I am salaried"}`
	rec := httptest.NewRecorder()
	srv.handleWebhookMessage(rec, httptest.NewRequest(http.MethodPost, "/webhook/message", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp["reply"], "750")
	assert.Contains(t, resp["reply"], "preferred")
}

func TestHandleWebhookMessageUnparseable(t *testing.T) {
	srv := testAPIServer(t)

	body := `{"from": "+911234567890", "text": "hello there"}`
	rec := httptest.NewRecorder()
	srv.handleWebhookMessage(rec, httptest.NewRequest(http.MethodPost, "/webhook/message", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp["reply"], "monthly income")
}

func TestRateLimitMiddleware(t *testing.T) {
	mw := rateLimitMiddleware(1, 2)
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	var codes []int
	for i := 0; i < 4; i++ {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	// Burst of 2 passes, then the bucket is empty.
	assert.Equal(t, http.StatusOK, codes[0])
	assert.Equal(t, http.StatusOK, codes[1])
	assert.Equal(t, http.StatusTooManyRequests, codes[2])
	assert.Equal(t, http.StatusTooManyRequests, codes[3])

	// A different client has its own bucket.
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
