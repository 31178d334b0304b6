package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"harvester/internal/domain"
)

type countingHarvester struct {
	calls atomic.Int32
	err   error
}

func (h *countingHarvester) Harvest(ctx context.Context) (*domain.HarvestStats, error) {
	h.calls.Add(1)
	if _, ok := ctx.Deadline(); !ok {
		return nil, errors.New("missing deadline")
	}
	if h.err != nil {
		return nil, h.err
	}
	return &domain.HarvestStats{Outcome: domain.OutcomeUpToDate}, nil
}

func TestScheduler_RunsImmediatelyAndOnTick(t *testing.T) {
	h := &countingHarvester{}
	s := NewScheduler(h, 10*time.Millisecond, time.Second, slog.New(slog.DiscardHandler))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	require.Eventually(t, func() bool { return h.calls.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}

func TestScheduler_KeepsRunningAfterFailure(t *testing.T) {
	h := &countingHarvester{err: errors.New("boom")}
	s := NewScheduler(h, 10*time.Millisecond, time.Second, slog.New(slog.DiscardHandler))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = s.Start(ctx) }()

	require.Eventually(t, func() bool { return h.calls.Load() >= 2 }, 2*time.Second, 5*time.Millisecond)
}
