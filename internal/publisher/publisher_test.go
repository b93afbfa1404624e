package publisher

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/fortuna/standings/internal/standings"
)

func TestNames(t *testing.T) {
	if got := StreamName("nfl.l.1"); got != "standings.nfl.l.1" {
		t.Errorf("unexpected stream name %q", got)
	}
	if got := RoutingKey("nfl.l.1"); got != "standings.nfl.l.1" {
		t.Errorf("unexpected routing key %q", got)
	}
}

func TestEnvelope(t *testing.T) {
	before := time.Now().Unix()
	env := NewEnvelope("nfl.l.1", standings.NewStandingsMessage("1 Team Alpha (Bob)"))

	if env.Kind != "standings" || env.LeagueKey != "nfl.l.1" || env.Text != "1 Team Alpha (Bob)" {
		t.Errorf("unexpected envelope %+v", env)
	}
	if env.Timestamp < before {
		t.Errorf("expected a current timestamp, got %d", env.Timestamp)
	}

	data, err := json.Marshal(env)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]interface{}
	json.Unmarshal(data, &decoded)
	for _, key := range []string{"league_key", "kind", "text", "timestamp"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("expected %q in envelope JSON", key)
		}
	}
}
