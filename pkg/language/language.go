// Package language decides which language a project conversation runs in.
package language

import "strings"

const Default = "es"

// Resolve returns explicit when it has non-blank content, otherwise the
// language carried by the previous snapshot, otherwise fallback (or Default
// when fallback is blank).
func Resolve(explicit, previous, fallback string) string {
	if v := strings.TrimSpace(explicit); v != "" {
		return v
	}
	if previous != "" {
		return previous
	}
	if v := strings.TrimSpace(fallback); v != "" {
		return v
	}
	return Default
}

// IsSpanish reports whether lang selects the Spanish catalog.
func IsSpanish(lang string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(lang)), "es")
}
