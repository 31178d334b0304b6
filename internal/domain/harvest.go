package domain

import "time"

// Outcome describes how a harvest invocation ended.
type Outcome string

const (
	OutcomeCoolingDown Outcome = "cooling_down"
	OutcomeUpToDate    Outcome = "up_to_date"
	OutcomePaused      Outcome = "paused"
	OutcomeCompleted   Outcome = "completed"
	OutcomeDeletedAll  Outcome = "deleted_all"
	OutcomeFailed      Outcome = "failed"
)

// BatchStats holds the per record counts of a single batch.
type BatchStats struct {
	Added     int
	Deleted   int
	Unchanged int
	Skipped   int
}

func (b *BatchStats) add(o BatchStats) {
	b.Added += o.Added
	b.Deleted += o.Deleted
	b.Unchanged += o.Unchanged
	b.Skipped += o.Skipped
}

// HarvestStats holds statistics about a harvest invocation.
type HarvestStats struct {
	RunID    string
	Outcome  Outcome
	Batches  int
	Swept    int
	Duration time.Duration
	BatchStats
}

// AddBatch folds the counts of one batch into the totals.
func (s *HarvestStats) AddBatch(b BatchStats) {
	s.Batches++
	s.BatchStats.add(b)
}
