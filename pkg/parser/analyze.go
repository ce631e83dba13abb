package parser

import (
	"regexp"
	"strings"
)

var (
	commentsHeaderRe  = regexp.MustCompile(`(?im)^[ \t]*COMENTARIOS[ \t]*:[ \t]*$`)
	questionsHeaderRe = regexp.MustCompile(`(?im)^[ \t]*PREGUNTAS[ \t]*:[ \t]*$`)
)

const noneMarker = "(ninguno)"

// ParseAnalysis splits an analysis answer into free-text comments and the
// numbered questions that follow the PREGUNTAS: header. Without that header,
// or when it yields no questions, the first numbered line anywhere in the text
// starts the questions and the plain lines before it become the comments.
func ParseAnalysis(text string) (string, []string) {
	t := strings.TrimSpace(strings.ReplaceAll(text, "\r\n", "\n"))

	var comments, questions []string
	if q := questionsHeaderRe.FindStringIndex(t); q != nil {
		if c := commentsHeaderRe.FindStringIndex(t); c != nil && c[1] < q[1] {
			comments = numberedTexts(t[c[1]:q[0]])
		}
		questions = numberedTexts(t[q[1]:])
	}

	if len(questions) == 0 {
		var pre []string
		pre, questions = fromFirstNumbered(t)
		if len(comments) == 0 {
			comments = pre
		}
	}

	return strings.TrimSpace(strings.Join(comments, "\n")), questions
}

// numberedTexts accepts any "<n>. text" line regardless of sequence.
func numberedTexts(block string) []string {
	var out []string
	for _, nl := range Tokenize(block) {
		if !nl.Spaced || nl.Text == "" || isNone(nl.Text) {
			continue
		}
		out = append(out, nl.Text)
	}
	return out
}

func fromFirstNumbered(text string) ([]string, []string) {
	lines := splitLines(text)
	for i, raw := range lines {
		if nl, ok := TokenizeLine(raw); ok && nl.Spaced && nl.Text != "" {
			var pre []string
			for _, l := range lines[:i] {
				l = strings.TrimSpace(l)
				if l == "" || isNone(l) || isSectionHeader(l) {
					continue
				}
				pre = append(pre, l)
			}
			return pre, numberedTexts(strings.Join(lines[i:], "\n"))
		}
	}
	return nil, nil
}

func isNone(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), noneMarker)
}

func isSectionHeader(line string) bool {
	return commentsHeaderRe.MatchString(line) || questionsHeaderRe.MatchString(line)
}
