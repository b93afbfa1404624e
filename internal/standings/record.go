package standings

import (
	"math"
	"strconv"
	"strings"
)

// Record is one team's standings entry after normalization.
// Optional values are nil (or empty, for DivisionID) when the feed omits them.
type Record struct {
	Name           string
	Manager        string
	DivisionID     string
	WaiverPriority *int
	FAAB           *int
	Clinched       bool

	Rank          int
	Wins          string
	Losses        string
	Ties          string
	Percentage    *float64
	Streak        *Streak
	PointsFor     string
	PointsAgainst string
}

// Streak is a consecutive run of wins or losses
type Streak struct {
	Marker    string // "W" or "L"
	Magnitude int
}

// fieldRule binds one feed path (relative to a team element) to the
// normalization that stores it on a Record. node is nil when the path is missing.
type fieldRule struct {
	path  []string
	apply func(r *Record, node Node)
}

var fieldRules = []fieldRule{
	{path: []string{"name"}, apply: func(r *Record, n Node) { r.Name = textOf(n) }},
	{path: []string{"managers", "manager", "nickname"}, apply: func(r *Record, n Node) { r.Manager = textOf(n) }},
	{path: []string{"division_id"}, apply: func(r *Record, n Node) { r.DivisionID = textOf(n) }},
	{path: []string{"waiver_priority"}, apply: func(r *Record, n Node) { r.WaiverPriority = optionalInt(textOf(n)) }},
	{path: []string{"faab_balance"}, apply: func(r *Record, n Node) { r.FAAB = optionalInt(textOf(n)) }},
	{path: []string{"clinched_playoffs"}, apply: func(r *Record, n Node) { r.Clinched = clinched(textOf(n)) }},
	{path: []string{"team_standings", "rank"}, apply: func(r *Record, n Node) { r.Rank = rank(textOf(n)) }},
	{path: []string{"team_standings", "outcome_totals", "wins"}, apply: func(r *Record, n Node) { r.Wins = textOf(n) }},
	{path: []string{"team_standings", "outcome_totals", "losses"}, apply: func(r *Record, n Node) { r.Losses = textOf(n) }},
	{path: []string{"team_standings", "outcome_totals", "ties"}, apply: func(r *Record, n Node) { r.Ties = textOf(n) }},
	{path: []string{"team_standings", "outcome_totals", "percentage"}, apply: func(r *Record, n Node) { r.Percentage = percentage(textOf(n)) }},
	{path: []string{"team_standings", "streak"}, apply: func(r *Record, n Node) { r.Streak = streak(n) }},
	{path: []string{"team_standings", "points_for"}, apply: func(r *Record, n Node) { r.PointsFor = textOf(n) }},
	{path: []string{"team_standings", "points_against"}, apply: func(r *Record, n Node) { r.PointsAgainst = textOf(n) }},
}

// Parse extracts a Record from a team element. It never fails: missing or
// malformed fields fall back to their defaults.
func Parse(team Node) Record {
	var r Record
	for _, rule := range fieldRules {
		rule.apply(&r, lookup(team, rule.path...))
	}
	return r
}

func optionalInt(raw string) *int {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return nil
	}
	return &v
}

func clinched(raw string) bool {
	return raw != "" && raw != "0"
}

func rank(raw string) int {
	if raw == "" || raw == "0" {
		return 0
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return v
}

func percentage(raw string) *float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func streak(n Node) *Streak {
	if n == nil {
		return nil
	}

	marker := "L"
	if textOf(lookup(n, "type")) == "win" {
		marker = "W"
	}

	magnitude := 0
	if v := optionalInt(textOf(lookup(n, "value"))); v != nil {
		magnitude = *v
	}

	return &Streak{Marker: marker, Magnitude: magnitude}
}

// FormatPercentage rounds half-up to two fractional digits and drops
// trailing zeros: 0.6667 -> "0.67", 1.0 -> "1", 0.5 -> "0.5".
func FormatPercentage(v float64) string {
	rounded := math.Floor(v*100+0.5) / 100
	if rounded == 0 {
		rounded = 0 // normalize -0
	}
	return strconv.FormatFloat(rounded, 'f', -1, 64)
}

// DisplayName joins the team and manager as "<name> (<manager>)". The manager
// is left out when the team name already contains it (case-insensitive) or
// when the manager is an anonymized "hidden" placeholder.
func DisplayName(name, manager string) string {
	if !showManager(name, manager) {
		return name
	}
	return name + " (" + manager + ")"
}

func showManager(name, manager string) bool {
	return !strings.Contains(strings.ToLower(name), strings.ToLower(manager)) &&
		!strings.Contains(manager, "hidden")
}
