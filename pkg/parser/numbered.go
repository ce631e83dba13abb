// Package parser turns free-form LLM output into requirement and question lists.
// Nothing here returns an error: unparseable output simply yields empty results.
package parser

import (
	"regexp"
	"strconv"
	"strings"
)

var numberedLineRe = regexp.MustCompile(`^(?:([-*])\s*)?(\d+)([.)])(\s*)(.*?)\s*$`)

// NumberedLine is one "<n>." or "<n>)" line.
type NumberedLine struct {
	Number int
	Text   string
	// Bulleted is set when the number was preceded by "-" or "*".
	Bulleted bool
	// Spaced is set when whitespace follows the delimiter.
	Spaced bool
}

// TokenizeLine recognises a numbered line. The input is trimmed first.
func TokenizeLine(raw string) (NumberedLine, bool) {
	m := numberedLineRe.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return NumberedLine{}, false
	}
	n, err := strconv.Atoi(m[2])
	if err != nil {
		return NumberedLine{}, false
	}
	return NumberedLine{
		Number:   n,
		Text:     strings.TrimSpace(m[5]),
		Bulleted: m[1] != "",
		Spaced:   m[4] != "",
	}, true
}

// Tokenize returns the numbered lines of text in order. Other lines are skipped.
func Tokenize(text string) []NumberedLine {
	var out []NumberedLine
	for _, raw := range splitLines(text) {
		if nl, ok := TokenizeLine(raw); ok {
			out = append(out, nl)
		}
	}
	return out
}

func splitLines(text string) []string {
	return strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
}
