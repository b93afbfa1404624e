package store

import (
	"time"

	"github.com/fortuna/standings/internal/standings"
)

// StandingsRun is one rendered snapshot of a league's standings
type StandingsRun struct {
	RunID     int64     `json:"run_id" db:"run_id"`
	LeagueKey string    `json:"league_key" db:"league_key"`
	TeamCount int       `json:"team_count" db:"team_count"`
	Style     string    `json:"style" db:"style"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	Messages []standings.Message `json:"messages,omitempty"`
}
