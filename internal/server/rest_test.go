package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asemenov/chatground/internal/ai"
	"github.com/asemenov/chatground/internal/config"
	"github.com/asemenov/chatground/internal/history"
	"github.com/asemenov/chatground/internal/ratelimit"
)

type stubProvider struct{}

func (stubProvider) Name() string { return "stub" }

func (stubProvider) GenerateResponse(ctx context.Context, userMessage string, hist []ai.Message, systemPrompt string) (string, error) {
	return "ok", nil
}

func newTestHandler(limit int) (http.HandlerFunc, *history.MemoryStore) {
	store := history.NewMemoryStore(10)
	services := Services{
		Store:    store,
		Provider: stubProvider{},
		Limiter:  ratelimit.NewLimiter(limit, time.Minute),
	}
	cfg := config.Config{AdminAPIKey: "secret"}
	return CreateRESTHandler(services, cfg), store
}

func TestChatValidation(t *testing.T) {
	handler, _ := newTestHandler(5)

	cases := []struct {
		name string
		body string
		code int
	}{
		{"invalid json", "{", http.StatusBadRequest},
		{"missing user", `{"message": "hi"}`, http.StatusBadRequest},
		{"missing message", `{"user_id": "u"}`, http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(tc.body))
			handler(rec, req)
			assert.Equal(t, tc.code, rec.Code)
		})
	}
}

func TestChatMethodNotAllowed(t *testing.T) {
	handler, _ := newTestHandler(5)

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/api/chat", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestChatRateLimited(t *testing.T) {
	// Zero budget: the very first message is rejected before generation.
	handler, _ := newTestHandler(0)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"user_id": "u", "message": "привет"}`))
	handler(rec, req)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestHistoryClear(t *testing.T) {
	handler, store := newTestHandler(5)

	require.NoError(t, store.Append(context.Background(), "default", "u", ai.Message{Role: "user", Content: "x"}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/history/clear", strings.NewReader(`{"user_id": "u"}`))
	handler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	hist, err := store.GetHistory(context.Background(), "default", "u")
	require.NoError(t, err)
	assert.Empty(t, hist)
}

func TestStatsRequiresAPIKey(t *testing.T) {
	handler, _ := newTestHandler(5)

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/api/stats", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	req.Header.Set("X-API-Key", "secret")
	handler(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	var stats history.Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
}

func TestHealth(t *testing.T) {
	handler, _ := newTestHandler(5)

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "stub", body["provider"])
}

func TestCORSPreflight(t *testing.T) {
	handler, _ := newTestHandler(5)

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodOptions, "/api/chat", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestUnknownPath(t *testing.T) {
	handler, _ := newTestHandler(5)

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/api/unknown", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
