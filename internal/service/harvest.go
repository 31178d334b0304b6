package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"harvester/internal/config"
	"harvester/internal/domain"
	"harvester/internal/fingerprint"
	"harvester/internal/journal"
	"harvester/internal/state"
)

// SystemClock is the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Harvester runs one harvest invocation at a time against a single state directory.
// It is not safe for concurrent use.
type Harvester struct {
	source    Source
	converter Converter
	sink      Sink
	journal   Journal
	states    StateStore
	clock     Clock
	logger    *slog.Logger
	config    config.HarvestConfig

	wait func(ctx context.Context, d time.Duration) error
}

func NewHarvester(
	source Source,
	converter Converter,
	sink Sink,
	journal Journal,
	states StateStore,
	clock Clock,
	logger *slog.Logger,
	cfg config.HarvestConfig,
) *Harvester {
	if clock == nil {
		clock = SystemClock{}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Harvester{
		source:    source,
		converter: converter,
		sink:      sink,
		journal:   journal,
		states:    states,
		clock:     clock,
		logger:    logger.With("source", source.Name()),
		config:    cfg,
		wait:      waitWithContext,
	}
}

// recordError ties a failure to the record being processed.
type recordError struct {
	record domain.Record
	err    error
}

func (e *recordError) Error() string { return e.err.Error() }
func (e *recordError) Unwrap() error { return e.err }

// Harvest performs one invocation: it honours the error cooldown and the refresh
// interval, pages through the source, and deletes records that disappeared once
// the source is exhausted. Any collaborator failure marks the state in error and
// is returned.
func (h *Harvester) Harvest(ctx context.Context) (*domain.HarvestStats, error) {
	start := h.clock.Now()
	stats := &domain.HarvestStats{RunID: uuid.New().String()}
	logger := h.logger.With("run_id", stats.RunID)
	defer func() {
		if err := h.journal.Close(); err != nil {
			logger.Warn("failed to close journal", "error", err)
		}
		stats.Duration = h.clock.Now().Sub(start)
	}()

	st, err := h.states.Load()
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}

	proceed, err := h.waitAfterError(ctx, logger, st)
	if err != nil {
		return stats, err
	}
	if !proceed {
		stats.Outcome = domain.OutcomeCoolingDown
		return stats, nil
	}

	if h.config.DeleteAll {
		if err := h.deleteAll(ctx, logger, st, stats); err != nil {
			stats.Outcome = domain.OutcomeFailed
			return stats, h.fail(logger, st, err)
		}
		stats.Outcome = domain.OutcomeDeletedAll
		return stats, nil
	}

	if st.HarvestingReady {
		// A previous run may have stopped between exhausting the source and finishing the sweep.
		if err := h.reconcile(ctx, logger, st, stats); err != nil {
			stats.Outcome = domain.OutcomeFailed
			return stats, h.fail(logger, st, err)
		}
		if st.InError {
			st.InError = false
			if err := h.states.Save(st); err != nil {
				return stats, fmt.Errorf("save state: %w", err)
			}
		}
		if elapsed, ok := st.Since(h.clock.Now()); ok && elapsed < h.config.RefreshInterval {
			logger.Info("harvesting ready",
				"since", st.Timestamp,
				"refresh_interval", h.config.RefreshInterval,
			)
			stats.Outcome = domain.OutcomeUpToDate
			return stats, nil
		}
		// Persist the cleared state before the new pass journals anything, so a
		// crash early in the pass is never mistaken for a finished one.
		st.Clear()
		if err := h.saveState(st); err != nil {
			stats.Outcome = domain.OutcomeFailed
			return stats, h.fail(logger, st, fmt.Errorf("save state: %w", err))
		}
	}

	outcome, err := h.harvestPass(ctx, logger, st, stats)
	if err != nil {
		stats.Outcome = domain.OutcomeFailed
		return stats, h.fail(logger, st, err)
	}
	stats.Outcome = outcome

	logger.Info("harvest finished",
		"outcome", stats.Outcome,
		"batches", stats.Batches,
		"added", stats.Added,
		"deleted", stats.Deleted,
		"unchanged", stats.Unchanged,
		"skipped", stats.Skipped,
		"swept", stats.Swept,
	)
	return stats, nil
}

// Reset forgets all harvest history so the next invocation starts a full resync.
func (h *Harvester) Reset() error {
	if err := h.journal.Reset(); err != nil {
		return fmt.Errorf("reset journal: %w", err)
	}
	if err := h.states.Reset(); err != nil {
		return fmt.Errorf("reset state: %w", err)
	}
	h.logger.Info("harvest state reset")
	return nil
}

func (h *Harvester) harvestPass(ctx context.Context, logger *slog.Logger, st *state.RunState, stats *domain.HarvestStats) (domain.Outcome, error) {
	if err := h.journal.MarkHarvestStart(); err != nil {
		return "", fmt.Errorf("start pass: %w", err)
	}
	logger.Info("harvesting", "resuming", !st.ResumptionCursor.IsEmpty())

	for !st.HarvestingReady {
		batch, err := h.source.FetchBatch(ctx, st.ResumptionCursor)
		if err != nil {
			return "", fmt.Errorf("fetch batch: %w", err)
		}
		if batch == nil {
			return "", errors.New("fetch batch: source returned no batch")
		}

		bs, err := h.processBatch(ctx, logger, batch)
		if err != nil {
			return "", err
		}
		stats.AddBatch(bs)
		logger.Info("batch processed",
			"added", bs.Added,
			"deleted", bs.Deleted,
			"unchanged", bs.Unchanged,
			"skipped", bs.Skipped,
		)

		st.ResumptionCursor = batch.NextCursor
		st.HarvestingReady = batch.Done
		st.InError = false
		if err := h.saveState(st); err != nil {
			return "", fmt.Errorf("save state: %w", err)
		}

		if batch.PauseRequested {
			logger.Info("source requested a pause, pass stays open")
			return domain.OutcomePaused, nil
		}
	}

	if err := h.reconcile(ctx, logger, st, stats); err != nil {
		return "", err
	}
	return domain.OutcomeCompleted, nil
}

func (h *Harvester) processBatch(ctx context.Context, logger *slog.Logger, batch *domain.Batch) (domain.BatchStats, error) {
	var bs domain.BatchStats
	for _, record := range batch.Records {
		if err := h.processRecord(ctx, logger, record, &bs); err != nil {
			return bs, &recordError{record: record, err: err}
		}
	}
	return bs, nil
}

// processRecord applies one record to the sink and journals it. The delete check comes first.
func (h *Harvester) processRecord(ctx context.Context, logger *slog.Logger, record domain.Record, bs *domain.BatchStats) error {
	id := record.Identifier()
	if !journal.ValidIdentifier(id) {
		bs.Skipped++
		logger.Warn("skipping record with invalid identifier", "identifier", id)
		return nil
	}

	switch {
	case record.MustDelete():
		if h.journal.AlreadyDeleted(id) {
			bs.Unchanged++
		} else {
			if err := h.sink.Delete(ctx, id); err != nil {
				return fmt.Errorf("delete %s: %w", id, err)
			}
			bs.Deleted++
		}
		return h.journal.MarkDeleted(id)

	case record.MustAdd():
		payload, err := h.converter.Convert(ctx, record)
		if errors.Is(err, domain.ErrSkipRecord) {
			bs.Skipped++
			logger.Info("skipping record", "identifier", id, "reason", err)
			return nil
		}
		if err != nil {
			return fmt.Errorf("convert %s: %w", id, err)
		}

		fp := fingerprint.Of(payload)
		if h.journal.AlreadyAdded(id, fp) {
			bs.Unchanged++
		} else {
			if err := h.sink.Upload(ctx, id, payload); err != nil {
				return fmt.Errorf("upload %s: %w", id, err)
			}
			bs.Added++
		}
		// Journal unchanged records too, otherwise the sweep would delete them.
		return h.journal.MarkAdded(id, fp)

	default:
		bs.Skipped++
		logger.Info("skipping record", "identifier", id)
		return nil
	}
}

// reconcile deletes records of the previous pass the source no longer serves and
// seals the pass. Sealing stamps the state with the completion time, which the
// refresh interval is measured from. It is a no-op when no pass is pending.
func (h *Harvester) reconcile(ctx context.Context, logger *slog.Logger, st *state.RunState, stats *domain.HarvestStats) error {
	pending, err := h.journal.HasPendingPass()
	if err != nil {
		return err
	}
	if !pending {
		return nil
	}
	if err := h.journal.MarkHarvestStart(); err != nil {
		return fmt.Errorf("resume pass: %w", err)
	}

	ids, err := h.journal.ToBeDeleted()
	if err != nil {
		return fmt.Errorf("compute deletions: %w", err)
	}
	for id := range ids {
		if err := h.sink.Delete(ctx, id); err != nil {
			return fmt.Errorf("delete %s: %w", id, err)
		}
		if err := h.journal.MarkDeleted(id); err != nil {
			return err
		}
		stats.Swept++
		logger.Debug("deleted record no longer served", "identifier", id)
	}

	if err := h.journal.MarkHarvestReady(); err != nil {
		return fmt.Errorf("seal pass: %w", err)
	}
	st.InError = false
	if err := h.saveState(st); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	if err := h.states.ClearError(); err != nil {
		return err
	}
	logger.Info("finished harvesting", "swept", stats.Swept)
	return nil
}

func (h *Harvester) deleteAll(ctx context.Context, logger *slog.Logger, st *state.RunState, stats *domain.HarvestStats) error {
	logger.Info("deleting all records")
	if err := h.journal.MarkHarvestStart(); err != nil {
		return fmt.Errorf("start pass: %w", err)
	}

	ids, err := h.journal.RemainingAdds()
	if err != nil {
		return fmt.Errorf("compute remaining adds: %w", err)
	}
	for id := range ids {
		if err := h.sink.Delete(ctx, id); err != nil {
			return fmt.Errorf("delete %s: %w", id, err)
		}
		if err := h.journal.MarkDeleted(id); err != nil {
			return err
		}
		stats.Deleted++
	}

	if err := h.journal.MarkHarvestReady(); err != nil {
		return fmt.Errorf("seal pass: %w", err)
	}
	st.Clear()
	if err := h.saveState(st); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	if err := h.states.ClearError(); err != nil {
		return err
	}
	logger.Info("deleted all records", "deleted", stats.Deleted)
	return nil
}

// waitAfterError reports whether the invocation may proceed. Inside the cooldown
// it either returns false or, with WaitOnError, blocks for the remainder.
func (h *Harvester) waitAfterError(ctx context.Context, logger *slog.Logger, st *state.RunState) (bool, error) {
	if !st.InError {
		return true, nil
	}

	detail, err := h.states.LastError()
	if err != nil {
		logger.Warn("failed to read last error", "error", err)
	}
	logger.Warn("harvesting in error state",
		"since", st.Timestamp,
		"last_error", detail,
		"error_interval", h.config.ErrorInterval,
	)

	elapsed, ok := st.Since(h.clock.Now())
	if !ok {
		return true, nil
	}
	remaining := h.config.ErrorInterval - elapsed
	if remaining <= 0 {
		return true, nil
	}
	if !h.config.WaitOnError {
		logger.Info("error interval not passed yet", "remaining", remaining)
		return false, nil
	}

	logger.Info("waiting for error interval to pass", "remaining", remaining)
	if err := h.wait(ctx, remaining); err != nil {
		return false, err
	}
	return true, nil
}

func (h *Harvester) saveState(st *state.RunState) error {
	now := h.clock.Now()
	st.Timestamp = &now
	return h.states.Save(st)
}

// fail marks the state in error and keeps the failure detail for operators.
func (h *Harvester) fail(logger *slog.Logger, st *state.RunState, err error) error {
	var record string
	var recErr *recordError
	if errors.As(err, &recErr) {
		record = recErr.record.String()
	}

	logger.Error("harvest failed", "error", err)

	st.InError = true
	if saveErr := h.saveState(st); saveErr != nil {
		return errors.Join(err, fmt.Errorf("save error state: %w", saveErr))
	}
	detail := fmt.Sprintf("%s %v", st.Timestamp.UTC().Format(time.RFC3339), err)
	if saveErr := h.states.SaveError(detail, record); saveErr != nil {
		return errors.Join(err, fmt.Errorf("save error detail: %w", saveErr))
	}
	return err
}

func waitWithContext(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
