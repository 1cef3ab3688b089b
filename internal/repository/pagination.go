package repository

import "fmt"

// appendRange adds LIMIT/OFFSET placeholders for a bounded range.
func appendRange(query string, args []any, rng Range) (string, []any) {
	if rng.Unbounded() {
		return query, args
	}
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	return query, append(args, rng.Limit, rng.Offset)
}
