package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/asemenov/chatground/internal/ai"
	"github.com/asemenov/chatground/internal/config"
	"github.com/asemenov/chatground/internal/core"
	"github.com/asemenov/chatground/internal/history"
	"github.com/asemenov/chatground/internal/ratelimit"
)

// Services groups all service dependencies for REST handlers
type Services struct {
	Core     *core.AssistantCore
	Store    history.Store
	Provider ai.Provider
	Limiter  *ratelimit.Limiter
}

// CreateRESTHandler creates REST API endpoints
func CreateRESTHandler(services Services, cfg config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-API-Key, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		switch r.URL.Path {
		case "/api/chat":
			handleChat(w, r, services.Core, services.Limiter)
		case "/api/search":
			handleSearch(w, r, services.Core)
		case "/api/history/clear":
			handleHistoryClear(w, r, services.Store)
		case "/api/stats":
			handleStats(w, r, services.Store, cfg.AdminAPIKey)
		case "/api/health":
			handleHealth(w, r, services.Provider)
		default:
			http.NotFound(w, r)
		}
	}
}

type chatRequest struct {
	ChannelID string `json:"channel_id"`
	UserID    string `json:"user_id"`
	Message   string `json:"message"`
}

func handleChat(w http.ResponseWriter, r *http.Request, assistant *core.AssistantCore, limiter *ratelimit.Limiter) {
	if r.Method != http.MethodPost {
		http.Error(w, `{"error": "method not allowed"}`, http.StatusMethodNotAllowed)
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error": "invalid json body"}`, http.StatusBadRequest)
		return
	}
	if req.UserID == "" || req.Message == "" {
		http.Error(w, `{"error": "user_id and message are required"}`, http.StatusBadRequest)
		return
	}
	if req.ChannelID == "" {
		req.ChannelID = "default"
	}

	if allowed, retryAfter := limiter.Allow(req.UserID); !allowed {
		w.Header().Set("Retry-After", strconv.Itoa(int(retryAfter.Seconds())+1))
		http.Error(w, `{"error": "rate limit exceeded"}`, http.StatusTooManyRequests)
		return
	}

	response, err := assistant.Chat(r.Context(), req.ChannelID, req.UserID, req.Message)
	if err != nil {
		log.Printf("[REST] Chat failed: %v", err)
		http.Error(w, `{"error": "generation failed"}`, http.StatusBadGateway)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"response": response})
}

type searchRequest struct {
	Query string `json:"query"`
}

func handleSearch(w http.ResponseWriter, r *http.Request, assistant *core.AssistantCore) {
	if r.Method != http.MethodPost {
		http.Error(w, `{"error": "method not allowed"}`, http.StatusMethodNotAllowed)
		return
	}

	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error": "invalid json body"}`, http.StatusBadRequest)
		return
	}
	if req.Query == "" {
		http.Error(w, `{"error": "query is required"}`, http.StatusBadRequest)
		return
	}

	summary, err := assistant.SearchAndSummarize(r.Context(), req.Query)
	if err != nil {
		log.Printf("[REST] Search failed: %v", err)
		http.Error(w, `{"error": "search failed"}`, http.StatusBadGateway)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"summary": summary})
}

type clearRequest struct {
	ChannelID string `json:"channel_id"`
	UserID    string `json:"user_id"`
}

func handleHistoryClear(w http.ResponseWriter, r *http.Request, store history.Store) {
	if r.Method != http.MethodPost {
		http.Error(w, `{"error": "method not allowed"}`, http.StatusMethodNotAllowed)
		return
	}

	var req clearRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error": "invalid json body"}`, http.StatusBadRequest)
		return
	}
	if req.UserID == "" {
		http.Error(w, `{"error": "user_id is required"}`, http.StatusBadRequest)
		return
	}
	if req.ChannelID == "" {
		req.ChannelID = "default"
	}

	if err := store.Clear(r.Context(), req.ChannelID, req.UserID); err != nil {
		log.Printf("[REST] History clear failed: %v", err)
		http.Error(w, `{"error": "failed to clear history"}`, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

func handleStats(w http.ResponseWriter, r *http.Request, store history.Store, adminAPIKey string) {
	if adminAPIKey == "" {
		http.Error(w, `{"error": "ADMIN_API_KEY not configured on server"}`, http.StatusServiceUnavailable)
		return
	}
	if r.Header.Get("X-API-Key") != adminAPIKey {
		http.Error(w, `{"error": "unauthorized - invalid or missing X-API-Key header"}`, http.StatusUnauthorized)
		return
	}

	stats, err := store.Stats(r.Context())
	if err != nil {
		log.Printf("[REST] Stats failed: %v", err)
		http.Error(w, `{"error": "failed to read stats"}`, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

func handleHealth(w http.ResponseWriter, r *http.Request, provider ai.Provider) {
	status := map[string]string{"status": "ok", "provider": provider.Name()}

	if checker, ok := provider.(ai.ConnectionChecker); ok {
		if err := checker.CheckConnection(r.Context()); err != nil {
			status["status"] = "degraded"
			status["provider_error"] = fmt.Sprintf("%v", err)
		}
	}

	writeJSON(w, http.StatusOK, status)
}

func writeJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("[REST] Failed to encode response: %v", err)
	}
}
