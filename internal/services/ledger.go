package services

import (
	"context"
	"fmt"
	"time"

	"chorebucks/internal/amqp"
	"chorebucks/internal/core"
	"chorebucks/internal/log"
	"chorebucks/internal/metrics"
)

// Ledger is the reward ledger engine. Each operation runs its full
// read-modify-write sequence inside one store transaction, so a failed
// precondition or a store error leaves no partial mutation behind.
type Ledger struct {
	store  core.TxStore
	events *amqp.Client // nil disables event publishing
	logger *log.Logger
	now    func() time.Time
}

// RedeemResult is the redeem endpoint's response shape.
type RedeemResult struct {
	Prize      core.Prize  `json:"prize"`
	Person     core.Person `json:"person"`
	NewBalance int64       `json:"new_balance"`
}

// NewLedger creates the engine. The clock is injectable for tests; pass nil
// to use the wall clock.
func NewLedger(store core.TxStore, events *amqp.Client, logger *log.Logger, now func() time.Time) *Ledger {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = log.New(log.Config{Component: log.ComponentLedger})
	}
	return &Ledger{
		store:  store,
		events: events,
		logger: logger.WithComponent(log.ComponentLedger),
		now:    now,
	}
}

// CompleteChore marks a chore done, stamps last_completed_at, and for kid
// assignees awards the reward and appends the matching earned transaction.
func (l *Ledger) CompleteChore(ctx context.Context, choreID int64) (core.ChoreWithAssignee, error) {
	var view core.ChoreWithAssignee

	err := l.store.InTransaction(ctx, func(tx core.Store) error {
		chore, err := tx.GetChore(ctx, choreID)
		if err != nil {
			return err
		}
		if chore.Completed {
			return core.NewInvalidState("chore is already completed")
		}

		person, err := tx.GetPerson(ctx, chore.AssignedTo)
		if err != nil {
			return err
		}

		completedAt := l.now().UTC()
		if err := tx.SetChoreCompletion(ctx, chore.ID, true, &completedAt); err != nil {
			return err
		}
		chore.Completed = true
		chore.LastCompletedAt = &completedAt

		if person.IsKid() {
			if err := tx.UpdatePersonBalance(ctx, person.ID, chore.Reward); err != nil {
				return err
			}
			choreRef := chore.ID
			_, err := tx.InsertTransaction(ctx, core.Transaction{
				PersonID:    person.ID,
				Kind:        core.KindEarned,
				Amount:      chore.Reward,
				Description: fmt.Sprintf("Completed: %s", chore.Title),
				ChoreID:     &choreRef,
				CreatedAt:   completedAt,
			})
			if err != nil {
				return err
			}
			balance := person.Balance() + chore.Reward
			person.FunBucks = &balance
		}

		view = mergeAssignee(chore, person)
		return nil
	})
	if err != nil {
		return core.ChoreWithAssignee{}, err
	}

	metrics.ChoresCompleted.Inc()
	if view.AssignedFunBucks != nil {
		metrics.FunBucksEarned.Add(float64(view.Reward))
	}
	l.logger.InfoContext(ctx, "Chore completed",
		log.FieldChoreID, view.ID,
		log.FieldPersonID, view.AssignedTo,
		log.FieldAmount, view.Reward)

	l.publish(ctx, &amqp.LedgerEvent{
		Kind:      amqp.EventChoreCompleted,
		PersonID:  view.AssignedTo,
		ChoreID:   view.ID,
		Amount:    view.Reward,
		Timestamp: l.now().UTC(),
	})

	return view, nil
}

// UncompleteChore reverses a completion: flag off, balance decremented for
// kids, and every matching earned transaction removed. last_completed_at is
// deliberately left untouched.
func (l *Ledger) UncompleteChore(ctx context.Context, choreID int64) (core.ChoreWithAssignee, error) {
	var view core.ChoreWithAssignee

	err := l.store.InTransaction(ctx, func(tx core.Store) error {
		chore, err := tx.GetChore(ctx, choreID)
		if err != nil {
			return err
		}
		if !chore.Completed {
			return core.NewInvalidState("chore is already incomplete")
		}

		person, err := tx.GetPerson(ctx, chore.AssignedTo)
		if err != nil {
			return err
		}

		if err := tx.SetChoreCompletion(ctx, chore.ID, false, nil); err != nil {
			return err
		}
		chore.Completed = false

		if person.IsKid() {
			// No floor: cycling complete/uncomplete around a reward edit can
			// drive the balance negative, matching the ledger's arithmetic.
			if err := tx.UpdatePersonBalance(ctx, person.ID, -chore.Reward); err != nil {
				return err
			}
			if _, err := tx.DeleteTransactions(ctx, chore.ID, person.ID, core.KindEarned); err != nil {
				return err
			}
			balance := person.Balance() - chore.Reward
			person.FunBucks = &balance
		}

		view = mergeAssignee(chore, person)
		return nil
	})
	if err != nil {
		return core.ChoreWithAssignee{}, err
	}

	metrics.ChoresUncompleted.Inc()
	l.logger.InfoContext(ctx, "Chore completion reversed",
		log.FieldChoreID, view.ID,
		log.FieldPersonID, view.AssignedTo,
		log.FieldAmount, view.Reward)

	l.publish(ctx, &amqp.LedgerEvent{
		Kind:      amqp.EventChoreUncompleted,
		PersonID:  view.AssignedTo,
		ChoreID:   view.ID,
		Amount:    view.Reward,
		Timestamp: l.now().UTC(),
	})

	return view, nil
}

// RedeemPrize exchanges Fun Bucks for a prize and appends the spent
// transaction. Only kids hold balances, so only kids can redeem.
func (l *Ledger) RedeemPrize(ctx context.Context, prizeID, personID int64) (RedeemResult, error) {
	var result RedeemResult

	err := l.store.InTransaction(ctx, func(tx core.Store) error {
		prize, err := tx.GetPrize(ctx, prizeID)
		if err != nil {
			return err
		}

		person, err := tx.GetPerson(ctx, personID)
		if err != nil {
			return err
		}
		if !person.IsKid() {
			return core.NewValidation("only kids can redeem prizes")
		}
		if person.Balance() < prize.Cost {
			return core.NewInsufficientFunds(prize.Cost, person.Balance())
		}

		if err := tx.UpdatePersonBalance(ctx, person.ID, -prize.Cost); err != nil {
			return err
		}
		prizeRef := prize.ID
		_, err = tx.InsertTransaction(ctx, core.Transaction{
			PersonID:    person.ID,
			Kind:        core.KindSpent,
			Amount:      prize.Cost,
			Description: fmt.Sprintf("Redeemed: %s", prize.Name),
			PrizeID:     &prizeRef,
			CreatedAt:   l.now().UTC(),
		})
		if err != nil {
			return err
		}

		balance := person.Balance() - prize.Cost
		person.FunBucks = &balance
		result = RedeemResult{Prize: prize, Person: person, NewBalance: balance}
		return nil
	})
	if err != nil {
		return RedeemResult{}, err
	}

	metrics.PrizesRedeemed.Inc()
	metrics.FunBucksSpent.Add(float64(result.Prize.Cost))
	l.logger.InfoContext(ctx, "Prize redeemed",
		log.FieldPrizeID, result.Prize.ID,
		log.FieldPersonID, result.Person.ID,
		log.FieldAmount, result.Prize.Cost,
		log.FieldBalance, result.NewBalance)

	l.publish(ctx, &amqp.LedgerEvent{
		Kind:      amqp.EventPrizeRedeemed,
		PersonID:  result.Person.ID,
		PrizeID:   result.Prize.ID,
		Amount:    result.Prize.Cost,
		Timestamp: l.now().UTC(),
	})

	return result, nil
}

// publish sends a ledger event when AMQP is configured. Failures are logged
// and swallowed: the store is the source of truth, events are advisory.
func (l *Ledger) publish(ctx context.Context, event *amqp.LedgerEvent) {
	if l.events == nil {
		return
	}
	if err := l.events.PublishLedgerEvent(ctx, event); err != nil {
		l.logger.ErrorContext(ctx, "Failed to publish ledger event",
			"kind", event.Kind,
			log.FieldError, err)
	}
}

func mergeAssignee(chore core.Chore, person core.Person) core.ChoreWithAssignee {
	return core.ChoreWithAssignee{
		Chore:            chore,
		AssignedName:     person.Name,
		AssignedAvatar:   person.Avatar,
		AssignedColor:    person.Color,
		AssignedFunBucks: person.FunBucks,
	}
}
