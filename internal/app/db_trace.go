package app

import "strings"

const maxTracedQueryLength = 512

// formatDBQueryForTrace collapses a SQL statement onto one line and caps
// its length so span attributes stay readable.
func formatDBQueryForTrace(query string) string {
	normalized := strings.Join(strings.Fields(query), " ")
	if len(normalized) <= maxTracedQueryLength {
		return normalized
	}

	return normalized[:maxTracedQueryLength] + "..."
}
