package models

import "time"

// RecordFilters defines the query options for listing stored records.
// Decoded from URL query parameters with gorilla/schema.
type RecordFilters struct {
	From   string `schema:"from" json:"from,omitempty"`
	To     string `schema:"to" json:"to,omitempty"`
	Days   int    `schema:"days" json:"days,omitempty"`
	Limit  int    `schema:"limit" json:"limit,omitempty"`
	Offset int    `schema:"offset" json:"offset,omitempty"`
}

// TimeRange represents a resolved, inclusive time range filter
type TimeRange struct {
	Start *time.Time `json:"start,omitempty"`
	End   *time.Time `json:"end,omitempty"`
}

// Paging bounds for list endpoints.
const (
	DefaultListLimit = 100
	MaxListLimit     = 1000
)

// ListQuery is the repository-facing form of RecordFilters.
type ListQuery struct {
	Range  TimeRange
	Limit  int
	Offset int
}

// Normalize applies paging defaults and bounds.
func (q ListQuery) Normalize() ListQuery {
	if q.Limit <= 0 {
		q.Limit = DefaultListLimit
	}
	if q.Limit > MaxListLimit {
		q.Limit = MaxListLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	return q
}
