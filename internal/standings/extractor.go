package standings

import (
	"iter"
	"slices"
)

// TeamTag is the element name of a team record in the standings feed
const TeamTag = "team"

// Teams lazily yields every team element in doc, in document order.
// Each range over the result re-runs the selection; a document without
// teams yields nothing.
func Teams(doc Node) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		if doc == nil {
			return
		}
		for _, team := range doc.Find(TeamTag) {
			if !yield(team) {
				return
			}
		}
	}
}

// ExtractTeams flattens a stream of documents into a stream of team elements
func ExtractTeams(docs iter.Seq[Node]) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		for doc := range docs {
			for team := range Teams(doc) {
				if !yield(team) {
					return
				}
			}
		}
	}
}

// RenderDocument renders every team in doc into a slice of messages
func (f *Formatter) RenderDocument(doc Node) []Message {
	messages := slices.Collect(f.FormatStandings(Teams(doc)))
	if messages == nil {
		return []Message{}
	}
	return messages
}
