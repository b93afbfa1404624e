package standings

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Node is the read-only view of a parsed feed element: select descendants by
// tag name and read the element's text content.
type Node interface {
	Find(tag string) []Node
	Text() string
}

// selectionNode adapts a goquery selection to Node
type selectionNode struct {
	sel *goquery.Selection
}

// FromSelection wraps a goquery selection (or document) as a Node
func FromSelection(sel *goquery.Selection) Node {
	return selectionNode{sel: sel}
}

// FromDocument wraps a parsed goquery document as a Node
func FromDocument(doc *goquery.Document) Node {
	return selectionNode{sel: doc.Selection}
}

// Find returns every descendant element with the given tag, in document order
func (n selectionNode) Find(tag string) []Node {
	matches := n.sel.Find(tag)
	nodes := make([]Node, 0, matches.Length())
	matches.Each(func(_ int, s *goquery.Selection) {
		nodes = append(nodes, selectionNode{sel: s})
	})
	return nodes
}

// Text returns the combined, trimmed text of the element
func (n selectionNode) Text() string {
	return strings.TrimSpace(n.sel.Text())
}

// selfClosingTag matches empty XML elements such as <division_id/>.
// goquery uses an HTML parser, which would otherwise treat them as open tags
// and nest every following sibling inside.
var selfClosingTag = regexp.MustCompile(`<([A-Za-z_][\w.:-]*)(\s[^<>]*?)?\s*/>`)

// ParseDocument parses a raw feed document into a Node
func ParseDocument(r io.Reader) (Node, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}

	expanded := selfClosingTag.ReplaceAllString(string(raw), "<$1$2></$1>")

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(expanded))
	if err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	return FromDocument(doc), nil
}

// lookup walks path from n, taking the first match at every step.
// Returns nil as soon as a step has no match.
func lookup(n Node, path ...string) Node {
	for _, tag := range path {
		if n == nil {
			return nil
		}
		matches := n.Find(tag)
		if len(matches) == 0 {
			return nil
		}
		n = matches[0]
	}
	return n
}

// textOf returns the text of n, or "" when n is missing
func textOf(n Node) string {
	if n == nil {
		return ""
	}
	return n.Text()
}
