package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/fortuna/standings/internal/cache"
	"github.com/fortuna/standings/internal/standings"
	"github.com/fortuna/standings/internal/store"
	"github.com/fortuna/standings/internal/store/repository"
	"github.com/gorilla/mux"
)

const maxDocumentBytes = 4 << 20

// StandingsCache reads the latest cached standings for a league
type StandingsCache interface {
	GetStandings(ctx context.Context, leagueKey string) ([]standings.Message, error)
}

// StandingsHistory reads stored standings runs
type StandingsHistory interface {
	Latest(ctx context.Context, leagueKey string) (*store.StandingsRun, error)
	History(ctx context.Context, leagueKey string, limit int) ([]*store.StandingsRun, error)
}

// Scheduler triggers on-demand ingestion and reports polling state
type Scheduler interface {
	TriggerLeague(ctx context.Context, leagueKey string) ([]standings.Message, error)
	GetStatus() map[string]interface{}
}

// Renderer renders a raw feed document without side effects
type Renderer interface {
	Render(content string, style standings.Style) ([]standings.Message, error)
}

// HealthCheck reports the health of one backing service
type HealthCheck func(ctx context.Context) error

// Handler contains dependencies for HTTP handlers. Any of them may be nil.
type Handler struct {
	Cache     StandingsCache
	History   StandingsHistory
	Scheduler Scheduler
	Renderer  Renderer
	Checks    map[string]HealthCheck
	Version   string
}

// HealthCheck handles health check requests
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	checks := make(map[string]string, len(h.Checks))
	for name, check := range h.Checks {
		if err := check(r.Context()); err != nil {
			checks[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}

	overall := "healthy"
	if status != http.StatusOK {
		overall = "degraded"
	}

	respondJSON(w, status, map[string]interface{}{
		"status":  overall,
		"service": "standings",
		"version": h.Version,
		"checks":  checks,
	})
}

// GetStandings returns the latest standings for a league, from cache first
// and the stored history otherwise
func (h *Handler) GetStandings(w http.ResponseWriter, r *http.Request) {
	leagueKey := mux.Vars(r)["leagueKey"]

	if h.Cache != nil {
		messages, err := h.Cache.GetStandings(r.Context(), leagueKey)
		if err == nil {
			respondJSON(w, http.StatusOK, standingsResponse(leagueKey, "cache", messages))
			return
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			respondError(w, http.StatusInternalServerError, "Failed to read cached standings", err)
			return
		}
	}

	if h.History == nil {
		respondError(w, http.StatusNotFound, "Standings not found", nil)
		return
	}

	run, err := h.History.Latest(r.Context(), leagueKey)
	if errors.Is(err, repository.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Standings not found", err)
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch standings", err)
		return
	}

	resp := standingsResponse(leagueKey, "history", run.Messages)
	resp["run_id"] = run.RunID
	resp["created_at"] = run.CreatedAt
	respondJSON(w, http.StatusOK, resp)
}

// GetHistory returns recent standings runs for a league
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	if h.History == nil {
		respondError(w, http.StatusServiceUnavailable, "History store not configured", nil)
		return
	}

	limit := 10 // default
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}

	runs, err := h.History.History(r.Context(), mux.Vars(r)["leagueKey"], limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch history", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"runs":  runs,
		"count": len(runs),
	})
}

// RefreshStandings runs an ingestion for the league now
func (h *Handler) RefreshStandings(w http.ResponseWriter, r *http.Request) {
	if h.Scheduler == nil {
		respondError(w, http.StatusServiceUnavailable, "Scheduler not configured", nil)
		return
	}

	leagueKey := mux.Vars(r)["leagueKey"]
	messages, err := h.Scheduler.TriggerLeague(r.Context(), leagueKey)
	if err != nil {
		respondError(w, http.StatusBadGateway, "Failed to refresh standings", err)
		return
	}

	respondJSON(w, http.StatusOK, standingsResponse(leagueKey, "feed", messages))
}

// RenderStandings renders a posted feed document; ?style=plain|html
func (h *Handler) RenderStandings(w http.ResponseWriter, r *http.Request) {
	if h.Renderer == nil {
		respondError(w, http.StatusServiceUnavailable, "Renderer not configured", nil)
		return
	}

	style, err := standings.ParseStyle(r.URL.Query().Get("style"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid style", err)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxDocumentBytes))
	if err != nil {
		respondError(w, http.StatusRequestEntityTooLarge, "Failed to read document", err)
		return
	}
	if len(body) == 0 {
		respondError(w, http.StatusBadRequest, "Empty document", nil)
		return
	}

	messages, err := h.Renderer.Render(string(body), style)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Failed to parse document", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"style":    style.String(),
		"messages": messages,
		"count":    len(messages),
	})
}

// SchedulerStatus returns the polling status
func (h *Handler) SchedulerStatus(w http.ResponseWriter, r *http.Request) {
	if h.Scheduler == nil {
		respondError(w, http.StatusServiceUnavailable, "Scheduler not configured", nil)
		return
	}
	respondJSON(w, http.StatusOK, h.Scheduler.GetStatus())
}

func standingsResponse(leagueKey, source string, messages []standings.Message) map[string]interface{} {
	return map[string]interface{}{
		"league_key": leagueKey,
		"source":     source,
		"messages":   messages,
		"count":      len(messages),
	}
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError writes an error response
func respondError(w http.ResponseWriter, status int, message string, err error) {
	response := map[string]interface{}{
		"error":  message,
		"status": status,
	}
	if err != nil {
		response["details"] = err.Error()
	}

	respondJSON(w, status, response)
}
