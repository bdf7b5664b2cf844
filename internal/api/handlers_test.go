package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/ppiankov/aletheia/internal/api"
	"github.com/ppiankov/aletheia/internal/cache"
	"github.com/ppiankov/aletheia/internal/llm"
	"github.com/ppiankov/aletheia/internal/logger"
	"github.com/ppiankov/aletheia/internal/model"
	"github.com/ppiankov/aletheia/internal/verify"
)

type mockVerifier struct {
	verifyFunc func(claim model.Claim) (*verify.Result, error)
	calls      int
	lastClaim  model.Claim
}

func (m *mockVerifier) Verify(_ context.Context, claim model.Claim) (*verify.Result, error) {
	m.calls++
	m.lastClaim = claim
	if m.verifyFunc != nil {
		return m.verifyFunc(claim)
	}
	return &verify.Result{
		Verdict: &model.Verdict{
			Status:         model.StatusNotFound,
			Probability:    model.Float64(0.3),
			Explanation:    "No supporting news coverage was found.",
			MatchedSources: []model.NewsItem{},
		},
	}, nil
}

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

type stubProvider struct {
	name string
}

func (p *stubProvider) Name() string { return p.name }

func (p *stubProvider) Complete(context.Context, llm.CompletionRequest) (*llm.CompletionResponse, error) {
	return &llm.CompletionResponse{}, nil
}

func (p *stubProvider) IsAvailable(context.Context) bool { return true }

func setupTestRouter(t *testing.T, handler *api.Handler) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)

	router := gin.New()
	handler.Register(router)

	return router
}

func postVerify(t *testing.T, router *gin.Engine, body map[string]any) *httptest.ResponseRecorder {
	t.Helper()

	bodyJSON, marshalErr := json.Marshal(body)
	if marshalErr != nil {
		t.Fatalf("failed to marshal body: %v", marshalErr)
	}

	w := httptest.NewRecorder()

	req, reqErr := http.NewRequestWithContext(context.Background(), http.MethodPost, "/api/v1/verify", bytes.NewBuffer(bodyJSON))
	if reqErr != nil {
		t.Fatalf("failed to create request: %v", reqErr)
	}

	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	return w
}

func TestVerifyHandler_Success(t *testing.T) {
	svc := &mockVerifier{
		verifyFunc: func(model.Claim) (*verify.Result, error) {
			return &verify.Result{
				Verdict: &model.Verdict{
					Status:      model.StatusConfirmed,
					Probability: model.Float64(0.9),
					Explanation: "Corroborated by news sources.",
					MatchedSources: []model.NewsItem{
						{Title: "Company X launches product Y", SourceName: "Reuters"},
					},
				},
			}, nil
		},
	}
	handler := api.NewHandler(svc, nil, nil, logger.NewNop())
	router := setupTestRouter(t, handler)

	w := postVerify(t, router, map[string]any{"text": "Company X launched product Y"})

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d, body: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var resp map[string]any
	if decodeErr := json.NewDecoder(w.Body).Decode(&resp); decodeErr != nil {
		t.Fatalf("failed to decode response: %v", decodeErr)
	}

	if resp["claim"] != "Company X launched product Y" {
		t.Errorf("claim = %v, want the request text echoed", resp["claim"])
	}
	if resp["style"] != "simple" {
		t.Errorf("style = %v, want simple default", resp["style"])
	}
	if resp["cached"] != false {
		t.Errorf("cached = %v, want false", resp["cached"])
	}

	analysis, ok := resp["analysis"].(map[string]any)
	if !ok {
		t.Fatalf("analysis missing from response: %v", resp)
	}
	if analysis["status"] != "confirmed" {
		t.Errorf("analysis.status = %v, want confirmed", analysis["status"])
	}
	if prob, probOK := analysis["probability"].(float64); !probOK || prob != 0.9 {
		t.Errorf("analysis.probability = %v, want 0.9", analysis["probability"])
	}
}

func TestVerifyHandler_MissingText(t *testing.T) {
	svc := &mockVerifier{}
	handler := api.NewHandler(svc, nil, nil, logger.NewNop())
	router := setupTestRouter(t, handler)

	w := postVerify(t, router, map[string]any{"style": "simple"})

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	if svc.calls != 0 {
		t.Errorf("verifier called %d times for invalid input", svc.calls)
	}
}

func TestVerifyHandler_ShortClaim(t *testing.T) {
	svc := &mockVerifier{}
	handler := api.NewHandler(svc, nil, nil, logger.NewNop())
	router := setupTestRouter(t, handler)

	w := postVerify(t, router, map[string]any{"text": "ok  \t "})

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	if svc.calls != 0 {
		t.Errorf("verifier called %d times for too-short claim", svc.calls)
	}
}

func TestVerifyHandler_UnknownStyle(t *testing.T) {
	svc := &mockVerifier{}
	handler := api.NewHandler(svc, nil, nil, logger.NewNop())
	router := setupTestRouter(t, handler)

	w := postVerify(t, router, map[string]any{"text": "The sky was green last night", "style": "verbose"})

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	if svc.calls != 0 {
		t.Errorf("verifier called %d times for unknown style", svc.calls)
	}
}

func TestVerifyHandler_StylePassedThrough(t *testing.T) {
	svc := &mockVerifier{}
	handler := api.NewHandler(svc, nil, nil, logger.NewNop())
	router := setupTestRouter(t, handler)

	w := postVerify(t, router, map[string]any{"text": "The sky was green last night", "style": "formal"})

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d, body: %s", w.Code, http.StatusOK, w.Body.String())
	}
	if svc.lastClaim.Style != model.StyleFormal {
		t.Errorf("verifier got style %q, want formal", svc.lastClaim.Style)
	}
	if svc.lastClaim.Text != "The sky was green last night" {
		t.Errorf("verifier got text %q", svc.lastClaim.Text)
	}
}

func TestVerifyHandler_StoreFailure(t *testing.T) {
	svc := &mockVerifier{
		verifyFunc: func(model.Claim) (*verify.Result, error) {
			return nil, fmt.Errorf("store verdict: %w", cache.ErrStore)
		},
	}
	handler := api.NewHandler(svc, nil, nil, logger.NewNop())
	router := setupTestRouter(t, handler)

	w := postVerify(t, router, map[string]any{"text": "Company X launched product Y"})

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", w.Code, http.StatusInternalServerError)
	}
}

func getHealth(t *testing.T, router *gin.Engine) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	w := httptest.NewRecorder()

	req, reqErr := http.NewRequestWithContext(context.Background(), http.MethodGet, "/healthz", nil)
	if reqErr != nil {
		t.Fatalf("failed to create request: %v", reqErr)
	}
	router.ServeHTTP(w, req)

	var resp map[string]any
	if decodeErr := json.NewDecoder(w.Body).Decode(&resp); decodeErr != nil {
		t.Fatalf("failed to decode response: %v", decodeErr)
	}

	return w, resp
}

func TestHealthHandler_AllComponentsUp(t *testing.T) {
	pinger := pingerFunc(func(context.Context) error { return nil })
	handler := api.NewHandler(&mockVerifier{}, pinger, &stubProvider{name: "openai"}, logger.NewNop())
	router := setupTestRouter(t, handler)

	w, resp := getHealth(t, router)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if resp["status"] != "ok" {
		t.Errorf("status = %v, want ok", resp["status"])
	}
	if resp["cache"] != "ok" {
		t.Errorf("cache = %v, want ok", resp["cache"])
	}
	if resp["provider"] != "openai" {
		t.Errorf("provider = %v, want openai", resp["provider"])
	}
}

func TestHealthHandler_CacheDown(t *testing.T) {
	pinger := pingerFunc(func(context.Context) error { return errors.New("connection refused") })
	handler := api.NewHandler(&mockVerifier{}, pinger, nil, logger.NewNop())
	router := setupTestRouter(t, handler)

	w, resp := getHealth(t, router)

	// Liveness stays 200; degradation is reported in the body.
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if resp["status"] != "degraded" {
		t.Errorf("status = %v, want degraded", resp["status"])
	}
	if resp["cache"] != "unreachable" {
		t.Errorf("cache = %v, want unreachable", resp["cache"])
	}
}

func TestHealthHandler_NoOptionalComponents(t *testing.T) {
	handler := api.NewHandler(&mockVerifier{}, nil, nil, logger.NewNop())
	router := setupTestRouter(t, handler)

	w, resp := getHealth(t, router)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if resp["status"] != "ok" {
		t.Errorf("status = %v, want ok", resp["status"])
	}
	if resp["provider"] != "disabled" {
		t.Errorf("provider = %v, want disabled", resp["provider"])
	}
}
