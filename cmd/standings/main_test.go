package main

import (
	"testing"
	"time"

	"github.com/fortuna/standings/internal/standings"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{"POLL_INTERVAL", "STANDINGS_TTL", "MESSAGE_STYLE", "LEAGUE_KEYS", "ENABLE_POLLING", "AMQP_URL"} {
		t.Setenv(key, "")
	}

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.PollInterval != time.Hour || cfg.StandingsTTL != 24*time.Hour {
		t.Errorf("unexpected durations %v / %v", cfg.PollInterval, cfg.StandingsTTL)
	}
	if cfg.Style != standings.StylePlain || !cfg.EnablePolling {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if len(cfg.LeagueKeys) != 0 {
		t.Errorf("expected no leagues, got %v", cfg.LeagueKeys)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("POLL_INTERVAL", "15m")
	t.Setenv("MESSAGE_STYLE", "html")
	t.Setenv("LEAGUE_KEYS", "nfl.l.1, nfl.l.2,,")
	t.Setenv("ENABLE_POLLING", "false")

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.PollInterval != 15*time.Minute {
		t.Errorf("expected 15m, got %v", cfg.PollInterval)
	}
	if cfg.Style != standings.StyleHTML {
		t.Errorf("expected html style")
	}
	if len(cfg.LeagueKeys) != 2 || cfg.LeagueKeys[1] != "nfl.l.2" {
		t.Errorf("unexpected leagues %v", cfg.LeagueKeys)
	}
	if cfg.EnablePolling {
		t.Error("expected polling disabled")
	}
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	t.Setenv("POLL_INTERVAL", "often")
	if _, err := loadConfig(); err == nil {
		t.Error("expected error for bad interval")
	}

	t.Setenv("POLL_INTERVAL", "1h")
	t.Setenv("MESSAGE_STYLE", "markdown")
	if _, err := loadConfig(); err == nil {
		t.Error("expected error for bad style")
	}
}
