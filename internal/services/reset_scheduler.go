package services

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"chorebucks/internal/amqp"
	"chorebucks/internal/core"
	"chorebucks/internal/log"
	"chorebucks/internal/metrics"
)

// ResetScheduler reverts completed chores to incomplete on their recurrence
// schedule. It sweeps once eagerly at startup, then once per day at local
// midnight. Resets touch only the completion flag; balances and the
// transaction ledger are never affected.
type ResetScheduler struct {
	store  core.TxStore
	events *amqp.Client // nil disables event publishing
	logger *log.Logger
	now    func() time.Time

	started  atomic.Bool
	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// SweepResult summarizes one scheduler pass.
type SweepResult struct {
	Checked int `json:"checked"`
	Reset   int `json:"reset"`
	Failed  int `json:"failed"`
}

// NewResetScheduler creates the scheduler. The clock is injectable for
// tests; pass nil to use the wall clock.
func NewResetScheduler(store core.TxStore, events *amqp.Client, logger *log.Logger, now func() time.Time) *ResetScheduler {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = log.New(log.Config{Component: log.ComponentScheduler})
	}
	return &ResetScheduler{
		store:  store,
		events: events,
		logger: logger.WithComponent(log.ComponentScheduler),
		now:    now,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Start launches the sweep loop in a goroutine. The loop runs one sweep
// immediately to catch resets missed while the process was down, then fires
// at each local midnight until Stop is called or ctx is cancelled. Calling
// Start more than once is a no-op.
func (s *ResetScheduler) Start(ctx context.Context) {
	if !s.started.CompareAndSwap(false, true) {
		return
	}
	go s.run(ctx)
}

// Stop signals the loop and waits for any in-flight sweep to finish. It
// returns immediately when Start was never called.
func (s *ResetScheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
	if !s.started.Load() {
		return
	}
	<-s.done
}

func (s *ResetScheduler) run(ctx context.Context) {
	defer close(s.done)

	s.logger.Info("Running startup reset sweep")
	s.sweepAndLog(ctx)

	for {
		wait := untilNextMidnight(s.now())
		timer := time.NewTimer(wait)
		s.logger.Info("Next reset sweep scheduled", "in", wait.Round(time.Second).String())

		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-s.stop:
			timer.Stop()
			return
		case <-timer.C:
			s.sweepAndLog(ctx)
		}
	}
}

func (s *ResetScheduler) sweepAndLog(ctx context.Context) {
	result, err := s.RunSweep(ctx, s.now())
	if err != nil {
		// Sweep-level failures are retried on the next scheduled tick, never
		// within the same tick, and are never fatal to the host process.
		s.logger.ErrorContext(ctx, "Reset sweep failed", log.FieldError, err)
		return
	}
	s.logger.InfoContext(ctx, "Reset sweep complete",
		"checked", result.Checked,
		"reset", result.Reset,
		"failed", result.Failed)
}

// RunSweepNow runs one sweep at the scheduler's clock time. It backs the
// manual reset-check endpoint and the out-of-process worker.
func (s *ResetScheduler) RunSweepNow(ctx context.Context) (SweepResult, error) {
	return s.RunSweep(ctx, s.now())
}

// RunSweep evaluates every completed chore against the recurrence policy and
// resets the due ones. Chores are processed independently: one chore's store
// failure is logged and counted, and the scan moves on.
func (s *ResetScheduler) RunSweep(ctx context.Context, now time.Time) (SweepResult, error) {
	metrics.ResetSweeps.Inc()

	chores, err := s.store.ListCompletedChores(ctx)
	if err != nil {
		return SweepResult{}, fmt.Errorf("list completed chores: %w", err)
	}

	result := SweepResult{Checked: len(chores)}
	for _, chore := range chores {
		if !ShouldReset(chore.Frequency, chore.LastCompletedAt, now) {
			continue
		}

		reset, err := s.resetChore(ctx, chore.ID, now)
		if err != nil {
			result.Failed++
			metrics.ResetSweepErrors.Inc()
			s.logger.ErrorContext(ctx, "Failed to reset chore",
				log.FieldChoreID, chore.ID,
				log.FieldFrequency, string(chore.Frequency),
				log.FieldError, err)
			continue
		}
		if !reset {
			continue
		}

		result.Reset++
		metrics.ChoresReset.Inc()
		s.logger.InfoContext(ctx, "Chore reset",
			log.FieldChoreID, chore.ID,
			log.FieldFrequency, string(chore.Frequency))

		if s.events != nil {
			event := &amqp.LedgerEvent{
				Kind:      amqp.EventChoreReset,
				ChoreID:   chore.ID,
				Timestamp: now.UTC(),
			}
			if err := s.events.PublishLedgerEvent(ctx, event); err != nil {
				s.logger.ErrorContext(ctx, "Failed to publish reset event",
					log.FieldChoreID, chore.ID,
					log.FieldError, err)
			}
		}
	}

	return result, nil
}

// resetChore flips one chore back to incomplete inside its own transaction.
// The completion flag and policy are re-checked under the transaction so an
// interactive uncomplete racing the sweep cannot double-apply.
func (s *ResetScheduler) resetChore(ctx context.Context, choreID int64, now time.Time) (bool, error) {
	var reset bool
	err := s.store.InTransaction(ctx, func(tx core.Store) error {
		chore, err := tx.GetChore(ctx, choreID)
		if err != nil {
			return err
		}
		if !chore.Completed {
			return nil
		}
		if !ShouldReset(chore.Frequency, chore.LastCompletedAt, now) {
			return nil
		}
		// last_completed_at stays as recorded; only the flag reverts.
		if err := tx.SetChoreCompletion(ctx, chore.ID, false, nil); err != nil {
			return err
		}
		reset = true
		return nil
	})
	return reset, err
}

// untilNextMidnight returns the wait until 00:00 local time after now.
func untilNextMidnight(now time.Time) time.Duration {
	next := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
	return next.Sub(now)
}
