package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"chorebucks/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository() error = %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func createKid(t *testing.T, repo *SQLiteRepository, name string) core.Person {
	t.Helper()
	kid, err := repo.CreatePerson(context.Background(), core.Person{
		Name: name, Role: core.RoleKid, Avatar: "🦊", Color: "#ff8800",
	})
	if err != nil {
		t.Fatalf("CreatePerson() error = %v", err)
	}
	return kid
}

func createChore(t *testing.T, repo *SQLiteRepository, assignee int64) core.Chore {
	t.Helper()
	chore, err := repo.CreateChore(context.Background(), core.Chore{
		Title: "Feed the cat", AssignedTo: assignee, Reward: 3, Frequency: core.Daily,
	})
	if err != nil {
		t.Fatalf("CreateChore() error = %v", err)
	}
	return chore
}

func TestCreatePerson(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	kid := createKid(t, repo, "Mia")
	if kid.FunBucks == nil || *kid.FunBucks != 0 {
		t.Errorf("kid FunBucks = %v, want 0", kid.FunBucks)
	}

	parent, err := repo.CreatePerson(ctx, core.Person{Name: "Dana", Role: core.RoleParent})
	if err != nil {
		t.Fatalf("CreatePerson() error = %v", err)
	}
	if parent.FunBucks != nil {
		t.Errorf("parent FunBucks = %v, want nil", *parent.FunBucks)
	}

	got, err := repo.GetPerson(ctx, kid.ID)
	if err != nil {
		t.Fatalf("GetPerson() error = %v", err)
	}
	if got.Name != "Mia" || got.Role != core.RoleKid || got.Avatar != "🦊" {
		t.Errorf("GetPerson() = %+v", got)
	}

	people, err := repo.ListPeople(ctx)
	if err != nil {
		t.Fatalf("ListPeople() error = %v", err)
	}
	if len(people) != 2 {
		t.Errorf("ListPeople() = %d people, want 2", len(people))
	}
}

func TestGetPerson_NotFound(t *testing.T) {
	repo := newTestRepo(t)
	_, err := repo.GetPerson(context.Background(), 999)
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestCreateChore_UnknownAssignee(t *testing.T) {
	repo := newTestRepo(t)
	_, err := repo.CreateChore(context.Background(), core.Chore{
		Title: "Feed the cat", AssignedTo: 42, Reward: 3, Frequency: core.Daily,
	})
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestChoreCompletionRoundtrip(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	kid := createKid(t, repo, "Mia")
	chore := createChore(t, repo, kid.ID)

	completedAt := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	if err := repo.SetChoreCompletion(ctx, chore.ID, true, &completedAt); err != nil {
		t.Fatalf("SetChoreCompletion() error = %v", err)
	}

	got, err := repo.GetChore(ctx, chore.ID)
	if err != nil {
		t.Fatalf("GetChore() error = %v", err)
	}
	if !got.Completed {
		t.Error("chore should be completed")
	}
	if got.LastCompletedAt == nil || !got.LastCompletedAt.Equal(completedAt) {
		t.Errorf("LastCompletedAt = %v, want %v", got.LastCompletedAt, completedAt)
	}

	completed, err := repo.ListCompletedChores(ctx)
	if err != nil {
		t.Fatalf("ListCompletedChores() error = %v", err)
	}
	if len(completed) != 1 || completed[0].ID != chore.ID {
		t.Errorf("ListCompletedChores() = %+v", completed)
	}

	// Flipping the flag back keeps the timestamp.
	if err := repo.SetChoreCompletion(ctx, chore.ID, false, nil); err != nil {
		t.Fatalf("SetChoreCompletion() error = %v", err)
	}
	got, _ = repo.GetChore(ctx, chore.ID)
	if got.Completed {
		t.Error("chore should be incomplete")
	}
	if got.LastCompletedAt == nil {
		t.Error("LastCompletedAt should survive the reset")
	}
}

func TestUpdatePersonBalance(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	kid := createKid(t, repo, "Mia")

	if err := repo.UpdatePersonBalance(ctx, kid.ID, 7); err != nil {
		t.Fatalf("UpdatePersonBalance() error = %v", err)
	}
	if err := repo.UpdatePersonBalance(ctx, kid.ID, -10); err != nil {
		t.Fatalf("UpdatePersonBalance() error = %v", err)
	}

	got, _ := repo.GetPerson(ctx, kid.ID)
	if got.Balance() != -3 {
		t.Errorf("balance = %d, want -3", got.Balance())
	}

	if err := repo.UpdatePersonBalance(ctx, 999, 1); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestTransactions(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	kid := createKid(t, repo, "Mia")
	chore := createChore(t, repo, kid.ID)

	choreRef := chore.ID
	inserted, err := repo.InsertTransaction(ctx, core.Transaction{
		PersonID:    kid.ID,
		Kind:        core.KindEarned,
		Amount:      3,
		Description: "Completed: Feed the cat",
		ChoreID:     &choreRef,
	})
	if err != nil {
		t.Fatalf("InsertTransaction() error = %v", err)
	}
	if inserted.ID == 0 {
		t.Error("inserted transaction should get an id")
	}

	transactions, err := repo.ListTransactionsByPerson(ctx, kid.ID)
	if err != nil {
		t.Fatalf("ListTransactionsByPerson() error = %v", err)
	}
	if len(transactions) != 1 {
		t.Fatalf("transactions = %d, want 1", len(transactions))
	}
	got := transactions[0]
	if got.PersonName != "Mia" {
		t.Errorf("PersonName = %q, want %q", got.PersonName, "Mia")
	}
	if got.ChoreTitle != "Feed the cat" {
		t.Errorf("ChoreTitle = %q", got.ChoreTitle)
	}

	removed, err := repo.DeleteTransactions(ctx, chore.ID, kid.ID, core.KindEarned)
	if err != nil {
		t.Fatalf("DeleteTransactions() error = %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	transactions, _ = repo.ListTransactionsByPerson(ctx, kid.ID)
	if len(transactions) != 0 {
		t.Errorf("transactions = %d, want 0", len(transactions))
	}
}

func TestDeleteChoreKeepsLedger(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	kid := createKid(t, repo, "Mia")
	chore := createChore(t, repo, kid.ID)

	choreRef := chore.ID
	if _, err := repo.InsertTransaction(ctx, core.Transaction{
		PersonID: kid.ID, Kind: core.KindEarned, Amount: 3,
		Description: "Completed: Feed the cat", ChoreID: &choreRef,
	}); err != nil {
		t.Fatalf("InsertTransaction() error = %v", err)
	}

	if err := repo.DeleteChore(ctx, chore.ID); err != nil {
		t.Fatalf("DeleteChore() error = %v", err)
	}

	// The ledger row stays, unlinked from the deleted chore.
	transactions, err := repo.ListTransactionsByPerson(ctx, kid.ID)
	if err != nil {
		t.Fatalf("ListTransactionsByPerson() error = %v", err)
	}
	if len(transactions) != 1 {
		t.Fatalf("transactions = %d, want 1", len(transactions))
	}
	if transactions[0].ChoreID != nil {
		t.Errorf("ChoreID = %v, want nil after chore deletion", *transactions[0].ChoreID)
	}
}

func TestDeletePerson_RefusedWhileReferenced(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	kid := createKid(t, repo, "Mia")
	chore := createChore(t, repo, kid.ID)

	if err := repo.DeletePerson(ctx, kid.ID); !errors.Is(err, core.ErrInvalidState) {
		t.Fatalf("error = %v, want ErrInvalidState while a chore is assigned", err)
	}

	if err := repo.DeleteChore(ctx, chore.ID); err != nil {
		t.Fatalf("DeleteChore() error = %v", err)
	}
	if _, err := repo.InsertTransaction(ctx, core.Transaction{
		PersonID: kid.ID, Kind: core.KindEarned, Amount: 3, Description: "Completed: Feed the cat",
	}); err != nil {
		t.Fatalf("InsertTransaction() error = %v", err)
	}
	if err := repo.DeletePerson(ctx, kid.ID); !errors.Is(err, core.ErrInvalidState) {
		t.Fatalf("error = %v, want ErrInvalidState while ledger rows exist", err)
	}

	if _, err := repo.GetPerson(ctx, kid.ID); err != nil {
		t.Fatalf("person should survive the refused deletes, got %v", err)
	}
}

func TestForeignKeysOnEveryConnection(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	kid := createKid(t, repo, "Mia")
	chore := createChore(t, repo, kid.ID)

	choreRef := chore.ID
	if _, err := repo.InsertTransaction(ctx, core.Transaction{
		PersonID: kid.ID, Kind: core.KindEarned, Amount: 3,
		Description: "Completed: Feed the cat", ChoreID: &choreRef,
	}); err != nil {
		t.Fatalf("InsertTransaction() error = %v", err)
	}

	// Pin one pooled connection so the statements below run on a fresh one.
	// The pragma travels in the DSN, so every connection must enforce it.
	conn, err := repo.db.Conn(ctx)
	if err != nil {
		t.Fatalf("Conn() error = %v", err)
	}
	defer conn.Close()

	if _, err := repo.db.ExecContext(ctx,
		"INSERT INTO chores (title, assigned_to, reward, frequency, completed, created_at) VALUES (?, ?, ?, ?, 0, ?)",
		"Orphan", int64(999), int64(1), "daily", time.Now().UTC().Format(time.RFC3339Nano),
	); err == nil {
		t.Fatal("insert referencing an unknown person succeeded, foreign keys are off")
	}

	if err := repo.DeleteChore(ctx, chore.ID); err != nil {
		t.Fatalf("DeleteChore() error = %v", err)
	}
	transactions, err := repo.ListTransactionsByPerson(ctx, kid.ID)
	if err != nil {
		t.Fatalf("ListTransactionsByPerson() error = %v", err)
	}
	if len(transactions) != 1 || transactions[0].ChoreID != nil {
		t.Fatalf("transactions = %+v, want one row with ChoreID cleared", transactions)
	}
}

func TestUpdatePerson_RoleChange(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	kid := createKid(t, repo, "Mia")
	if err := repo.UpdatePersonBalance(ctx, kid.ID, 10); err != nil {
		t.Fatalf("UpdatePersonBalance() error = %v", err)
	}

	parent := core.RoleParent
	updated, err := repo.UpdatePerson(ctx, kid.ID, core.PersonPatch{Role: &parent})
	if err != nil {
		t.Fatalf("UpdatePerson() error = %v", err)
	}
	if updated.FunBucks != nil {
		t.Errorf("FunBucks = %v, want nil after switch to parent", *updated.FunBucks)
	}

	back := core.RoleKid
	updated, err = repo.UpdatePerson(ctx, kid.ID, core.PersonPatch{Role: &back})
	if err != nil {
		t.Fatalf("UpdatePerson() error = %v", err)
	}
	if updated.FunBucks == nil || *updated.FunBucks != 0 {
		t.Errorf("FunBucks = %v, want fresh 0 after switch back to kid", updated.FunBucks)
	}
}

func TestUpdateChore(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	kid := createKid(t, repo, "Mia")
	chore := createChore(t, repo, kid.ID)

	title := "Feed the dog"
	reward := int64(4)
	weekly := core.Weekly
	updated, err := repo.UpdateChore(ctx, chore.ID, core.ChorePatch{
		Title: &title, Reward: &reward, Frequency: &weekly,
	})
	if err != nil {
		t.Fatalf("UpdateChore() error = %v", err)
	}
	if updated.Title != title || updated.Reward != 4 || updated.Frequency != core.Weekly {
		t.Errorf("UpdateChore() = %+v", updated)
	}

	missing := int64(999)
	if _, err := repo.UpdateChore(ctx, chore.ID, core.ChorePatch{AssignedTo: &missing}); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound for unknown assignee", err)
	}
}

func TestPrizes(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	expensive, err := repo.CreatePrize(ctx, core.Prize{Name: "Theme park", Cost: 100, Emoji: "🎢"})
	if err != nil {
		t.Fatalf("CreatePrize() error = %v", err)
	}
	cheap, err := repo.CreatePrize(ctx, core.Prize{Name: "Sticker", Cost: 2, Emoji: "⭐"})
	if err != nil {
		t.Fatalf("CreatePrize() error = %v", err)
	}

	prizes, err := repo.ListPrizes(ctx)
	if err != nil {
		t.Fatalf("ListPrizes() error = %v", err)
	}
	if len(prizes) != 2 || prizes[0].ID != cheap.ID {
		t.Errorf("ListPrizes() should order by cost, got %+v", prizes)
	}

	cost := int64(90)
	updated, err := repo.UpdatePrize(ctx, expensive.ID, core.PrizePatch{Cost: &cost})
	if err != nil {
		t.Fatalf("UpdatePrize() error = %v", err)
	}
	if updated.Cost != 90 {
		t.Errorf("Cost = %d, want 90", updated.Cost)
	}

	if err := repo.DeletePrize(ctx, cheap.ID); err != nil {
		t.Fatalf("DeletePrize() error = %v", err)
	}
	if _, err := repo.GetPrize(ctx, cheap.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound after delete", err)
	}
}

func TestGetChoreWithAssignee(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	kid := createKid(t, repo, "Mia")
	chore := createChore(t, repo, kid.ID)

	got, err := repo.GetChoreWithAssignee(ctx, chore.ID)
	if err != nil {
		t.Fatalf("GetChoreWithAssignee() error = %v", err)
	}
	if got.AssignedName != "Mia" || got.AssignedAvatar != "🦊" || got.AssignedColor != "#ff8800" {
		t.Errorf("GetChoreWithAssignee() = %+v", got)
	}
	if got.AssignedFunBucks == nil || *got.AssignedFunBucks != 0 {
		t.Errorf("AssignedFunBucks = %v, want 0", got.AssignedFunBucks)
	}
}

func TestInTransaction_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	kid := createKid(t, repo, "Mia")

	sentinel := errors.New("abort")
	err := repo.InTransaction(ctx, func(tx core.Store) error {
		if err := tx.UpdatePersonBalance(ctx, kid.ID, 50); err != nil {
			return err
		}
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("InTransaction() error = %v, want sentinel", err)
	}

	got, _ := repo.GetPerson(ctx, kid.ID)
	if got.Balance() != 0 {
		t.Errorf("balance = %d, want 0 after rollback", got.Balance())
	}
}
