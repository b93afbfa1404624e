package yahoo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestNewClientDefaults(t *testing.T) {
	client := New("", "token")

	if client.baseURL != BaseURL {
		t.Errorf("Expected baseURL to be '%s', got '%s'", BaseURL, client.baseURL)
	}
	if client.interval != MinRequestInterval {
		t.Errorf("Expected interval %v, got %v", MinRequestInterval, client.interval)
	}
}

func TestFetchStandings(t *testing.T) {
	var gotPath, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/xml")
		w.Write([]byte(`<fantasy_content><team><name>A</name></team></fantasy_content>`))
	}))
	defer srv.Close()

	client := New(srv.URL+"/", "secret").WithInterval(0)

	body, err := client.FetchStandings(context.Background(), "nfl.l.12345")
	if err != nil {
		t.Fatalf("FetchStandings: %v", err)
	}

	if gotPath != "/league/nfl.l.12345/standings" {
		t.Errorf("unexpected path %q", gotPath)
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("unexpected Authorization header %q", gotAuth)
	}
	if !strings.Contains(body, "<team>") {
		t.Errorf("unexpected body %q", body)
	}
}

func TestFetchStandingsErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "empty") {
			return
		}
		http.Error(w, "token expired", http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := New(srv.URL, "").WithInterval(0)

	if _, err := client.FetchStandings(context.Background(), ""); err == nil {
		t.Error("expected error for empty league key")
	}

	_, err := client.FetchStandings(context.Background(), "nfl.l.1")
	if err == nil || !strings.Contains(err.Error(), "status 401") {
		t.Errorf("expected status error, got %v", err)
	}

	if _, err := client.FetchStandings(context.Background(), "empty"); err == nil {
		t.Error("expected error for empty body")
	}
}

func TestFetchStandingsRateLimitHonorsContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<team/>`))
	}))
	defer srv.Close()

	client := New(srv.URL, "").WithInterval(time.Hour)
	if _, err := client.FetchStandings(context.Background(), "nfl.l.1"); err != nil {
		t.Fatalf("first fetch: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := client.FetchStandings(ctx, "nfl.l.1"); err != context.DeadlineExceeded {
		t.Errorf("expected deadline exceeded while rate limited, got %v", err)
	}
}
