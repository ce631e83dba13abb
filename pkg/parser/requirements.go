package parser

import (
	"regexp"
	"strings"
)

const (
	StatusDraft  = "draft"
	PriorityMust = "must"
)

// Categories in the order they are rendered and parsed.
var Categories = []string{"functional", "performance", "usability", "security", "technical"}

var categoryHeaderRe = regexp.MustCompile(`(?i)^(\w+):\s*$`)

// ParsedRequirement is one requirement read from a category block.
type ParsedRequirement struct {
	Description string
	Category    string
	Status      string
	Priority    string
	Number      int
}

// IsCategory reports whether name is one of the fixed categories (lowercase).
func IsCategory(name string) bool {
	for _, c := range Categories {
		if c == name {
			return true
		}
	}
	return false
}

// ParseRequirements reads "CATEGORY:" headers followed by "1. text" lines.
// Within a section only the line carrying the next expected number is taken;
// the expected number restarts at 1 on every header.
func ParseRequirements(text string) []ParsedRequirement {
	var (
		items   []ParsedRequirement
		current string
		next    = 1
	)

	for _, raw := range splitLines(text) {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if m := categoryHeaderRe.FindStringSubmatch(line); m != nil {
			if c := strings.ToLower(m[1]); IsCategory(c) {
				current = c
				next = 1
				continue
			}
		}
		if current == "" {
			continue
		}
		nl, ok := TokenizeLine(line)
		if !ok || nl.Bulleted || nl.Number != next {
			continue
		}
		items = append(items, ParsedRequirement{
			Description: nl.Text,
			Category:    current,
			Status:      StatusDraft,
			Priority:    PriorityMust,
			Number:      next,
		})
		next++
	}
	return items
}

// FilterCategory keeps only items tagged with category.
func FilterCategory(items []ParsedRequirement, category string) []ParsedRequirement {
	out := make([]ParsedRequirement, 0, len(items))
	for _, it := range items {
		if it.Category == category {
			out = append(out, it)
		}
	}
	return out
}
