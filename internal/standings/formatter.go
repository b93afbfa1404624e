package standings

import (
	"fmt"
	"iter"
	"strconv"
	"strings"
)

// Line produces one message line from a record. ok is false when the line
// has nothing to show and must be left out.
type Line func(r Record, st Style) (line string, ok bool)

// DefaultLines is the standings message template, in output order
var DefaultLines = []Line{
	TeamLine,
	RecordLine,
	PercentageLine,
	StreakLine,
	PointsLine,
	DivisionLine,
	BudgetLine,
	ClinchedLine,
}

// TeamLine renders "<rank> <display name>"
func TeamLine(r Record, st Style) (string, bool) {
	name := st.bold(r.Name)
	if showManager(r.Name, r.Manager) {
		name += " (" + st.escape(r.Manager) + ")"
	}
	return fmt.Sprintf("%d %s", r.Rank, name), true
}

// RecordLine renders "Record: <wins>-<losses>-<ties>"
func RecordLine(r Record, st Style) (string, bool) {
	return "Record: " + st.bold(r.Wins+"-"+r.Losses+"-"+r.Ties), true
}

// PercentageLine renders "Win %: <pct>" when the feed carried a parsable percentage
func PercentageLine(r Record, st Style) (string, bool) {
	if r.Percentage == nil {
		return "", false
	}
	return "Win %: " + st.bold(FormatPercentage(*r.Percentage)), true
}

// StreakLine renders "Streak: <n><W|L>" for runs longer than one game
func StreakLine(r Record, st Style) (string, bool) {
	if r.Streak == nil || r.Streak.Magnitude <= 1 {
		return "", false
	}
	return "Streak: " + st.bold(strconv.Itoa(r.Streak.Magnitude)+r.Streak.Marker), true
}

// PointsLine renders "Points For: <pf>, Against: <pa>"
func PointsLine(r Record, st Style) (string, bool) {
	return "Points For: " + st.bold(r.PointsFor) + ", Against: " + st.bold(r.PointsAgainst), true
}

// DivisionLine renders "Division ID: <id>" when the team has a division
func DivisionLine(r Record, st Style) (string, bool) {
	if r.DivisionID == "" {
		return "", false
	}
	return "Division ID: " + st.bold(r.DivisionID), true
}

// BudgetLine renders the FAAB balance, or the waiver priority when the
// league does not use FAAB.
func BudgetLine(r Record, st Style) (string, bool) {
	switch {
	case r.FAAB != nil:
		return "FAAB: " + st.bold(strconv.Itoa(*r.FAAB)), true
	case r.WaiverPriority != nil:
		return "Waiver Priority: " + st.bold(strconv.Itoa(*r.WaiverPriority)), true
	default:
		return "", false
	}
}

// ClinchedLine renders "Clinched?: Yes" once a team has clinched a playoff spot
func ClinchedLine(r Record, st Style) (string, bool) {
	if !r.Clinched {
		return "", false
	}
	return "Clinched?: " + st.bold("Yes"), true
}

// Formatter renders team elements into standings messages
type Formatter struct {
	Style Style
	Lines []Line
}

// NewFormatter creates a formatter using the default template
func NewFormatter(style Style) *Formatter {
	return &Formatter{Style: style, Lines: DefaultLines}
}

// Render assembles the message text for a record
func (f *Formatter) Render(r Record) string {
	lines := f.Lines
	if lines == nil {
		lines = DefaultLines
	}

	out := make([]string, 0, len(lines))
	for _, produce := range lines {
		if line, ok := produce(r, f.Style); ok {
			out = append(out, f.Style.quote(line))
		}
	}
	return strings.Join(out, "\n")
}

// Format renders one team element into a message
func (f *Formatter) Format(team Node) Message {
	return NewStandingsMessage(f.Render(Parse(team)))
}

// FormatStandings lazily maps every team element to exactly one message,
// preserving order.
func (f *Formatter) FormatStandings(teams iter.Seq[Node]) iter.Seq[Message] {
	return func(yield func(Message) bool) {
		for team := range teams {
			if !yield(f.Format(team)) {
				return
			}
		}
	}
}

var plainFormatter = NewFormatter(StylePlain)

// Format renders one team element with the plain template
func Format(team Node) Message {
	return plainFormatter.Format(team)
}

// FormatStandings lazily renders team elements with the plain template
func FormatStandings(teams iter.Seq[Node]) iter.Seq[Message] {
	return plainFormatter.FormatStandings(teams)
}
