package standings

import (
	"fmt"
	"html"
	"strings"
)

// Kind tags the variant of a chat message
type Kind string

// KindStandings is the only variant produced by this package
const KindStandings Kind = "standings"

// Message is a rendered chat message ready for delivery
type Message struct {
	Kind Kind   `json:"kind"`
	Text string `json:"text"`
}

// NewStandingsMessage builds a standings-tagged message
func NewStandingsMessage(text string) Message {
	return Message{Kind: KindStandings, Text: text}
}

// Style selects the markup used when rendering message lines
type Style int

const (
	// StylePlain renders bare text lines
	StylePlain Style = iota
	// StyleHTML quotes each line with "> " and bolds values for HTML chat clients
	StyleHTML
)

// ParseStyle converts a config value ("plain", "html") into a Style
func ParseStyle(value string) (Style, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "plain", "text":
		return StylePlain, nil
	case "html":
		return StyleHTML, nil
	default:
		return StylePlain, fmt.Errorf("unknown message style %q", value)
	}
}

func (s Style) String() string {
	if s == StyleHTML {
		return "html"
	}
	return "plain"
}

func (s Style) bold(v string) string {
	if s == StyleHTML {
		return "<b>" + html.EscapeString(v) + "</b>"
	}
	return v
}

func (s Style) escape(v string) string {
	if s == StyleHTML {
		return html.EscapeString(v)
	}
	return v
}

func (s Style) quote(line string) string {
	if s == StyleHTML {
		return "> " + line
	}
	return line
}
