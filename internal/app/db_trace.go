package app

import "strings"

// Span attribute budget for SQL text. Big IN lists and seeded inserts
// otherwise bloat every trace.
const tracedQueryLimit = 512

// formatDBQueryForTrace is the otelsql query formatter. It folds
// multi-line SQL onto one line and truncates past the budget.
func formatDBQueryForTrace(query string) string {
	flat := strings.Join(strings.Fields(query), " ")
	if len(flat) > tracedQueryLimit {
		flat = flat[:tracedQueryLimit] + "..."
	}
	return flat
}
