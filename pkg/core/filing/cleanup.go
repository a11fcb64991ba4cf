package filing

import (
	"regexp"
	"strings"
)

var (
	footnoteRe   = regexp.MustCompile(`\(\d+\)`)
	whitespaceRe = regexp.MustCompile(`\s+`)

	// Non-breaking and narrow space variants common in EDGAR HTML.
	nbspReplacer = strings.NewReplacer("\u00a0", " ", "\u2007", " ", "\u202f", " ")
)

// CleanCell normalizes a table cell or list item: non-breaking and repeated
// whitespace collapse to single ASCII spaces, bracketed footnote markers
// like "(1)" are stripped.
func CleanCell(s string) string {
	s = nbspReplacer.Replace(s)
	s = footnoteRe.ReplaceAllString(s, "")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// titleCase lowercases a region banner and capitalizes each word start
// ("NEW YORK" -> "New York").
func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
