package domain

import "time"

// SyncPartition is one independently-fetched slice of a sync: a date range at
// a level with a fixed breakdown selection. Pages within a partition are
// strictly sequential; partitions run concurrently.
type SyncPartition struct {
	Range      DateRange `json:"range"`
	Level      Level     `json:"level"`
	Breakdowns []string  `json:"breakdowns,omitempty"`
}

// PartitionFailure records a partition that did not complete. Fatal failures
// aborted the partition immediately; transient ones exhausted the retry
// budget. Pages committed before the failure stand.
type PartitionFailure struct {
	Partition SyncPartition `json:"partition"`
	Reason    string        `json:"reason"`
	Fatal     bool          `json:"fatal"`
}

// SyncResult is the manifest of one sync run. Partial failures are reported
// per partition rather than failing the whole run.
type SyncResult struct {
	RunID          string             `json:"run_id"`
	AccountID      string             `json:"account_id"`
	Partitions     int                `json:"partitions"`
	PagesFetched   int                `json:"pages_fetched"`
	RecordsWritten int                `json:"records_written"`
	Failures       []PartitionFailure `json:"failures,omitempty"`
	StartedAt      time.Time          `json:"started_at"`
	CompletedAt    time.Time          `json:"completed_at"`
}

// Succeeded reports whether every partition committed without failure.
func (s *SyncResult) Succeeded() bool {
	return len(s.Failures) == 0
}
