package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"chorebucks/internal/core"
	"chorebucks/internal/memstore"
)

// failingTxStore makes SetChoreCompletion fail for one chore, to prove the
// sweep isolates per-chore failures.
type failingTxStore struct {
	core.TxStore
	failChoreID int64
}

func (f *failingTxStore) InTransaction(ctx context.Context, fn func(core.Store) error) error {
	return f.TxStore.InTransaction(ctx, func(tx core.Store) error {
		return fn(&failingStore{Store: tx, failChoreID: f.failChoreID})
	})
}

type failingStore struct {
	core.Store
	failChoreID int64
}

func (f *failingStore) SetChoreCompletion(ctx context.Context, id int64, completed bool, completedAt *time.Time) error {
	if id == f.failChoreID {
		return errors.New("disk full")
	}
	return f.Store.SetChoreCompletion(ctx, id, completed, completedAt)
}

func completeAt(t *testing.T, store *memstore.Memory, choreID int64, at time.Time) {
	t.Helper()
	if err := store.SetChoreCompletion(context.Background(), choreID, true, &at); err != nil {
		t.Fatalf("SetChoreCompletion() error = %v", err)
	}
}

func TestResetScheduler_RunSweep(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	kid := seedKid(t, store, "Mia")

	daily := seedChore(t, store, kid.ID, 5)
	weekly, err := store.CreateChore(ctx, core.Chore{
		Title: "Mow the lawn", AssignedTo: kid.ID, Reward: 10, Frequency: core.Weekly,
	})
	if err != nil {
		t.Fatalf("CreateChore() error = %v", err)
	}
	incomplete := seedChore(t, store, kid.ID, 3)

	completed := time.Date(2024, 1, 1, 18, 0, 0, 0, time.UTC)
	completeAt(t, store, daily.ID, completed)
	completeAt(t, store, weekly.ID, completed)

	// Tuesday: the daily chore is due, the weekly one is not.
	now := time.Date(2024, 1, 2, 0, 10, 0, 0, time.UTC)
	scheduler := NewResetScheduler(store, nil, nil, func() time.Time { return now })

	result, err := scheduler.RunSweep(ctx, now)
	if err != nil {
		t.Fatalf("RunSweep() error = %v", err)
	}

	if result.Checked != 2 {
		t.Errorf("Checked = %d, want 2", result.Checked)
	}
	if result.Reset != 1 {
		t.Errorf("Reset = %d, want 1", result.Reset)
	}
	if result.Failed != 0 {
		t.Errorf("Failed = %d, want 0", result.Failed)
	}

	got, _ := store.GetChore(ctx, daily.ID)
	if got.Completed {
		t.Error("daily chore should have been reset")
	}
	if got.LastCompletedAt == nil || !got.LastCompletedAt.Equal(completed) {
		t.Errorf("LastCompletedAt = %v, want %v kept through reset", got.LastCompletedAt, completed)
	}

	got, _ = store.GetChore(ctx, weekly.ID)
	if !got.Completed {
		t.Error("weekly chore should still be completed on a tuesday")
	}

	got, _ = store.GetChore(ctx, incomplete.ID)
	if got.Completed {
		t.Error("incomplete chore must stay incomplete")
	}
}

func TestResetScheduler_RunSweep_FailureIsolation(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	kid := seedKid(t, store, "Mia")

	first := seedChore(t, store, kid.ID, 1)
	broken := seedChore(t, store, kid.ID, 2)
	third := seedChore(t, store, kid.ID, 3)

	completed := time.Date(2024, 1, 1, 18, 0, 0, 0, time.UTC)
	for _, id := range []int64{first.ID, broken.ID, third.ID} {
		completeAt(t, store, id, completed)
	}

	now := time.Date(2024, 1, 2, 0, 10, 0, 0, time.UTC)
	failing := &failingTxStore{TxStore: store, failChoreID: broken.ID}
	scheduler := NewResetScheduler(failing, nil, nil, func() time.Time { return now })

	result, err := scheduler.RunSweep(ctx, now)
	if err != nil {
		t.Fatalf("RunSweep() error = %v", err)
	}

	if result.Reset != 2 {
		t.Errorf("Reset = %d, want 2", result.Reset)
	}
	if result.Failed != 1 {
		t.Errorf("Failed = %d, want 1", result.Failed)
	}

	for _, id := range []int64{first.ID, third.ID} {
		got, _ := store.GetChore(ctx, id)
		if got.Completed {
			t.Errorf("chore %d should have been reset despite the failing one", id)
		}
	}
	got, _ := store.GetChore(ctx, broken.ID)
	if !got.Completed {
		t.Error("failing chore must keep its state")
	}
}

func TestResetScheduler_ResetLeavesLedgerAlone(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	kid := seedKid(t, store, "Mia")
	chore := seedChore(t, store, kid.ID, 5)

	ledger := NewLedger(store, nil, nil, func() time.Time {
		return time.Date(2024, 1, 1, 18, 0, 0, 0, time.UTC)
	})
	if _, err := ledger.CompleteChore(ctx, chore.ID); err != nil {
		t.Fatalf("CompleteChore() error = %v", err)
	}

	now := time.Date(2024, 1, 2, 0, 10, 0, 0, time.UTC)
	scheduler := NewResetScheduler(store, nil, nil, func() time.Time { return now })
	if _, err := scheduler.RunSweep(ctx, now); err != nil {
		t.Fatalf("RunSweep() error = %v", err)
	}

	// The reward and its transaction survive the reset.
	if got := balanceOf(t, store, kid.ID); got != 5 {
		t.Errorf("balance = %d, want 5", got)
	}
	transactions, _ := store.ListTransactionsByPerson(ctx, kid.ID)
	if len(transactions) != 1 {
		t.Errorf("transactions = %d, want 1", len(transactions))
	}

	got, _ := store.GetChore(ctx, chore.ID)
	if got.Completed {
		t.Error("chore should be reset to incomplete")
	}
}

func TestResetScheduler_StartStop(t *testing.T) {
	store := memstore.New()
	scheduler := NewResetScheduler(store, nil, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	scheduler.Start(ctx)
	scheduler.Stop() // must not hang waiting for the midnight timer
}

func TestResetScheduler_StopWithoutStart(t *testing.T) {
	store := memstore.New()
	scheduler := NewResetScheduler(store, nil, nil, nil)

	scheduler.Stop() // must return, not wait for a loop that never ran
}

func TestResetScheduler_RunSweepNow(t *testing.T) {
	store := memstore.New()
	ctx := context.Background()
	kid := seedKid(t, store, "Mia")
	chore := seedChore(t, store, kid.ID, 5)
	completeAt(t, store, chore.ID, testClock.AddDate(0, 0, -1))

	scheduler := NewResetScheduler(store, nil, nil, fixedClock)
	result, err := scheduler.RunSweepNow(ctx)
	if err != nil {
		t.Fatalf("RunSweepNow() error = %v", err)
	}
	if result.Checked != 1 || result.Reset != 1 {
		t.Errorf("result = %+v, want checked 1 / reset 1", result)
	}
}

func TestUntilNextMidnight(t *testing.T) {
	now := time.Date(2024, 1, 1, 23, 0, 0, 0, time.UTC)
	if got := untilNextMidnight(now); got != time.Hour {
		t.Errorf("untilNextMidnight() = %v, want 1h", got)
	}
}
