package core

import (
	"context"
	"time"
)

// Store is the capability set the reward engine and the reset scheduler
// operate on. Implementations report NotFoundError for unresolved ids and
// StoreError for persistence failures.
type Store interface {
	GetPerson(ctx context.Context, id int64) (Person, error)
	GetChore(ctx context.Context, id int64) (Chore, error)
	GetPrize(ctx context.Context, id int64) (Prize, error)

	// UpdatePersonBalance atomically applies delta to a person's Fun Bucks.
	UpdatePersonBalance(ctx context.Context, id int64, delta int64) error

	// SetChoreCompletion flips the completion flag. A nil timestamp leaves
	// last_completed_at untouched.
	SetChoreCompletion(ctx context.Context, id int64, completed bool, completedAt *time.Time) error

	InsertTransaction(ctx context.Context, t Transaction) (Transaction, error)

	// DeleteTransactions removes every ledger row matching (chore, person,
	// kind) and returns how many were removed.
	DeleteTransactions(ctx context.Context, choreID, personID int64, kind TransactionKind) (int64, error)

	ListCompletedChores(ctx context.Context) ([]Chore, error)
}

// TxStore serializes a read-modify-write sequence against the store. The
// callback's mutations commit together or not at all.
type TxStore interface {
	Store

	InTransaction(ctx context.Context, fn func(Store) error) error
}

// Repository is the full persistence contract: the engine capability set
// plus the CRUD surface consumed by the HTTP layer.
type Repository interface {
	TxStore

	CreatePerson(ctx context.Context, p Person) (Person, error)
	ListPeople(ctx context.Context) ([]Person, error)
	UpdatePerson(ctx context.Context, id int64, patch PersonPatch) (Person, error)
	DeletePerson(ctx context.Context, id int64) error

	CreateChore(ctx context.Context, c Chore) (Chore, error)
	ListChores(ctx context.Context) ([]ChoreWithAssignee, error)
	GetChoreWithAssignee(ctx context.Context, id int64) (ChoreWithAssignee, error)
	UpdateChore(ctx context.Context, id int64, patch ChorePatch) (Chore, error)
	DeleteChore(ctx context.Context, id int64) error

	CreatePrize(ctx context.Context, p Prize) (Prize, error)
	ListPrizes(ctx context.Context) ([]Prize, error)
	UpdatePrize(ctx context.Context, id int64, patch PrizePatch) (Prize, error)
	DeletePrize(ctx context.Context, id int64) error

	ListTransactions(ctx context.Context) ([]TransactionWithRefs, error)
	ListTransactionsByPerson(ctx context.Context, personID int64) ([]TransactionWithRefs, error)
}
