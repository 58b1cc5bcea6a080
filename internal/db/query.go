package db

import "github.com/kailas-cloud/recipeshare/internal/domain/filter"

// SortKey orders query results by a single field.
type SortKey struct {
	Field      string
	Descending bool
}

// FindQuery is the input for Finder.Find.
type FindQuery struct {
	Collection string
	// IDs restricts the result to the listed documents when non-nil.
	// A non-nil empty slice matches nothing.
	IDs    []string
	Filter filter.Expression
	// Sort keys are applied in order: the first key is primary.
	Sort []SortKey
	// Limit caps the result size; zero means the driver maximum.
	Limit int
}

// RestrictsIDs reports whether the query is limited to an explicit id set.
func (q *FindQuery) RestrictsIDs() bool {
	return q.IDs != nil
}
