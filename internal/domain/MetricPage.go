package domain

// MaxBreakdownsPerRequest is the most breakdown dimensions the source API
// accepts in a single page call. Requests above it are rejected before any
// network call is made.
const MaxBreakdownsPerRequest = 2

// MetricPageRequest asks the source for one page of metric rows.
// Cursor is empty on the first page; later pages pass the continuation
// cursor returned with the previous page.
type MetricPageRequest struct {
	AccountID  string
	ExternalID string
	Level      Level
	Range      DateRange
	Breakdowns []string
	PageSize   int
	Cursor     string
}

// MetricPage is one page of normalized records plus the continuation cursor.
// An empty NextCursor signals end of data.
type MetricPage struct {
	Records    []*MetricRecord
	NextCursor string
}
