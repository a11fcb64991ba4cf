// Package filing locates the "Item 2. Properties" disclosure inside a 10-K
// and extracts property locations from its wildly inconsistent table
// layouts. Section location walks the markup tree directly because the
// content of interest lives inside tables that a plain-text search cannot
// bound.
package filing

import (
	"errors"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// ErrSectionNotFound is returned when the filing has no recognizable
// "Item 2 ... Properties" heading. Fatal for the run: without the section
// there is no location data to score.
var ErrSectionNotFound = errors.New("properties section not found in filing")

var (
	sectionRe = regexp.MustCompile(`(?is)\bITEM[\s\x{00A0}]*2\b.*\bPROPERTIES\b`)
	endRe     = regexp.MustCompile(`(?i)\bITEM[\s\x{00A0}]*3\b|\bPART[\s\x{00A0}]*II\b|\bSIGNATURES\b`)
)

// SectionSpan is the located subrange of the filing markup. HTML holds the
// serialized content containers (tables and lists) between the section
// heading and the next major section boundary. Complete is false when no
// end boundary was found and the span ran to the end of the document.
type SectionSpan struct {
	Heading  string
	HTML     string
	Complete bool
}

// Locate finds the Item 2 Properties span in raw filing markup. The start
// boundary is the first text node matching "Item 2 ... Properties"
// (case-insensitive, tolerant of non-breaking whitespace); the end boundary
// is the next text node matching "Item 3", "Part II" or "Signatures".
func Locate(markup string) (*SectionSpan, error) {
	root, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, err
	}

	var heading *html.Node
	for n := root; n != nil; n = nextNode(n) {
		if n.Type == html.TextNode && sectionRe.MatchString(n.Data) {
			heading = n
			break
		}
	}
	if heading == nil {
		return nil, ErrSectionNotFound
	}

	span := &SectionSpan{Heading: CleanCell(heading.Data)}

	var buf strings.Builder
	n := nextNode(heading)
	for n != nil {
		if n.Type == html.TextNode && endRe.MatchString(n.Data) {
			span.Complete = true
			break
		}
		// Collect whole content containers and skip their subtrees so a
		// "Part II" column header inside a collected table cannot end the
		// section early.
		if n.Type == html.ElementNode && isContentContainer(n.Data) {
			if err := html.Render(&buf, n); err != nil {
				return nil, err
			}
			n = nextSibling(n)
			continue
		}
		n = nextNode(n)
	}

	span.HTML = buf.String()
	return span, nil
}

func isContentContainer(tag string) bool {
	switch tag {
	case "table", "ul", "ol":
		return true
	}
	return false
}

// nextNode is the pre-order document successor.
func nextNode(n *html.Node) *html.Node {
	if n.FirstChild != nil {
		return n.FirstChild
	}
	return nextSibling(n)
}

// nextSibling is the pre-order successor that skips n's subtree.
func nextSibling(n *html.Node) *html.Node {
	for n != nil {
		if n.NextSibling != nil {
			return n.NextSibling
		}
		n = n.Parent
	}
	return nil
}
