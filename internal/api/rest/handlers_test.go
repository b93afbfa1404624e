package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fortuna/standings/internal/cache"
	"github.com/fortuna/standings/internal/ingest"
	"github.com/fortuna/standings/internal/standings"
	"github.com/fortuna/standings/internal/store"
	"github.com/fortuna/standings/internal/store/repository"
)

type stubCache struct {
	messages map[string][]standings.Message
	err      error
}

func (c *stubCache) GetStandings(ctx context.Context, leagueKey string) ([]standings.Message, error) {
	if c.err != nil {
		return nil, c.err
	}
	msgs, ok := c.messages[leagueKey]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return msgs, nil
}

type stubHistory struct {
	runs map[string]*store.StandingsRun
}

func (h *stubHistory) Latest(ctx context.Context, leagueKey string) (*store.StandingsRun, error) {
	run, ok := h.runs[leagueKey]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return run, nil
}

func (h *stubHistory) History(ctx context.Context, leagueKey string, limit int) ([]*store.StandingsRun, error) {
	var out []*store.StandingsRun
	if run, ok := h.runs[leagueKey]; ok && limit > 0 {
		out = append(out, run)
	}
	return out, nil
}

type stubScheduler struct {
	err error
}

func (s *stubScheduler) TriggerLeague(ctx context.Context, leagueKey string) ([]standings.Message, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []standings.Message{standings.NewStandingsMessage("1 Fresh Team")}, nil
}

func (s *stubScheduler) GetStatus() map[string]interface{} {
	return map[string]interface{}{"polling_enabled": true}
}

func newTestRouter(h *Handler) http.Handler {
	return NewRouter(h, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("# metrics"))
	}))
}

func doRequest(t *testing.T, router http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var decoded map[string]interface{}
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &decoded); err != nil {
			t.Fatalf("decode response: %v (%s)", err, rec.Body.String())
		}
	}
	return rec, decoded
}

func TestGetStandingsFromCache(t *testing.T) {
	router := newTestRouter(&Handler{
		Cache: &stubCache{messages: map[string][]standings.Message{
			"nfl.l.1": {standings.NewStandingsMessage("1 Team Alpha (Bob)")},
		}},
	})

	rec, body := doRequest(t, router, "GET", "/api/v1/leagues/nfl.l.1/standings", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body["source"] != "cache" || body["count"].(float64) != 1 {
		t.Errorf("unexpected body %v", body)
	}
}

func TestGetStandingsFallsBackToHistory(t *testing.T) {
	router := newTestRouter(&Handler{
		Cache: &stubCache{},
		History: &stubHistory{runs: map[string]*store.StandingsRun{
			"nfl.l.1": {
				RunID:     7,
				LeagueKey: "nfl.l.1",
				CreatedAt: time.Now(),
				Messages:  []standings.Message{standings.NewStandingsMessage("a"), standings.NewStandingsMessage("b")},
			},
		}},
	})

	rec, body := doRequest(t, router, "GET", "/api/v1/leagues/nfl.l.1/standings", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body["source"] != "history" || body["run_id"].(float64) != 7 || body["count"].(float64) != 2 {
		t.Errorf("unexpected body %v", body)
	}

	rec, _ = doRequest(t, router, "GET", "/api/v1/leagues/nfl.l.404/standings", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown league, got %d", rec.Code)
	}
}

func TestGetStandingsCacheError(t *testing.T) {
	router := newTestRouter(&Handler{Cache: &stubCache{err: errors.New("redis down")}})

	rec, body := doRequest(t, router, "GET", "/api/v1/leagues/nfl.l.1/standings", "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if body["details"] != "redis down" {
		t.Errorf("expected error details, got %v", body)
	}
}

func TestRefreshStandings(t *testing.T) {
	router := newTestRouter(&Handler{Scheduler: &stubScheduler{}})
	rec, body := doRequest(t, router, "POST", "/api/v1/leagues/nfl.l.1/standings/refresh", "")
	if rec.Code != http.StatusOK || body["source"] != "feed" {
		t.Fatalf("unexpected response %d %v", rec.Code, body)
	}

	router = newTestRouter(&Handler{Scheduler: &stubScheduler{err: errors.New("401")}})
	rec, _ = doRequest(t, router, "POST", "/api/v1/leagues/nfl.l.1/standings/refresh", "")
	if rec.Code != http.StatusBadGateway {
		t.Errorf("expected 502, got %d", rec.Code)
	}

	router = newTestRouter(&Handler{})
	rec, _ = doRequest(t, router, "POST", "/api/v1/leagues/nfl.l.1/standings/refresh", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 without scheduler, got %d", rec.Code)
	}
}

func TestRenderStandings(t *testing.T) {
	router := newTestRouter(&Handler{Renderer: ingest.NewStandingsIngester(nil, ingest.Options{})})

	doc := `<fantasy_content><team>
<name>Team Alpha</name>
<clinched_playoffs>1</clinched_playoffs>
<managers><manager><nickname>Bob</nickname></manager></managers>
<team_standings><rank>1</rank>
<outcome_totals><wins>9</wins><losses>3</losses><ties>0</ties><percentage>0.75</percentage></outcome_totals>
<points_for>10</points_for><points_against>5</points_against>
</team_standings>
</team></fantasy_content>`

	rec, body := doRequest(t, router, "POST", "/api/v1/standings/render?style=html", doc)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	messages := body["messages"].([]interface{})
	if len(messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(messages))
	}
	msg := messages[0].(map[string]interface{})
	if msg["kind"] != "standings" {
		t.Errorf("expected standings kind, got %v", msg["kind"])
	}
	if !strings.HasSuffix(msg["text"].(string), "> Clinched?: <b>Yes</b>") {
		t.Errorf("unexpected text %q", msg["text"])
	}

	rec, _ = doRequest(t, router, "POST", "/api/v1/standings/render?style=markdown", doc)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown style, got %d", rec.Code)
	}

	rec, _ = doRequest(t, router, "POST", "/api/v1/standings/render", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for empty body, got %d", rec.Code)
	}
}

func TestHealthCheck(t *testing.T) {
	router := newTestRouter(&Handler{
		Version: "test",
		Checks: map[string]HealthCheck{
			"redis":    func(ctx context.Context) error { return nil },
			"postgres": func(ctx context.Context) error { return errors.New("connection refused") },
		},
	})

	rec, body := doRequest(t, router, "GET", "/health", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	checks := body["checks"].(map[string]interface{})
	if checks["redis"] != "ok" || checks["postgres"] != "connection refused" {
		t.Errorf("unexpected checks %v", checks)
	}
}

func TestHistoryAndStatusRoutes(t *testing.T) {
	router := newTestRouter(&Handler{
		History:   &stubHistory{runs: map[string]*store.StandingsRun{"nfl.l.1": {RunID: 1}}},
		Scheduler: &stubScheduler{},
	})

	rec, body := doRequest(t, router, "GET", "/api/v1/leagues/nfl.l.1/history?limit=5", "")
	if rec.Code != http.StatusOK || body["count"].(float64) != 1 {
		t.Errorf("unexpected history response %d %v", rec.Code, body)
	}

	rec, body = doRequest(t, router, "GET", "/api/v1/scheduler/status", "")
	if rec.Code != http.StatusOK || body["polling_enabled"] != true {
		t.Errorf("unexpected status response %d %v", rec.Code, body)
	}

	rec, _ = doRequest(t, router, "GET", "/metrics", "")
	if rec.Body.String() != "# metrics" {
		t.Errorf("expected metrics handler to be mounted, got %q", rec.Body.String())
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	h := RecoveryMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
}
