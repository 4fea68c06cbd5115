// Package memstore is an in-memory implementation of the ledger store. It
// backs tests and the "memory" data backend for running without a database
// file. A single mutex serializes transactions; fn operates on a deep copy
// of the state which replaces the live state only when fn succeeds, so a
// failed operation leaves nothing behind.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"chorebucks/internal/core"
)

type state struct {
	people       map[int64]core.Person
	chores       map[int64]core.Chore
	prizes       map[int64]core.Prize
	transactions map[int64]core.Transaction
	nextID       int64
}

func newState() *state {
	return &state{
		people:       make(map[int64]core.Person),
		chores:       make(map[int64]core.Chore),
		prizes:       make(map[int64]core.Prize),
		transactions: make(map[int64]core.Transaction),
		nextID:       1,
	}
}

func (s *state) clone() *state {
	c := newState()
	c.nextID = s.nextID
	for id, p := range s.people {
		c.people[id] = copyPerson(p)
	}
	for id, ch := range s.chores {
		c.chores[id] = copyChore(ch)
	}
	for id, p := range s.prizes {
		c.prizes[id] = p
	}
	for id, t := range s.transactions {
		c.transactions[id] = copyTransaction(t)
	}
	return c
}

func copyPerson(p core.Person) core.Person {
	if p.FunBucks != nil {
		v := *p.FunBucks
		p.FunBucks = &v
	}
	return p
}

func copyChore(c core.Chore) core.Chore {
	if c.LastCompletedAt != nil {
		t := *c.LastCompletedAt
		c.LastCompletedAt = &t
	}
	return c
}

func copyTransaction(t core.Transaction) core.Transaction {
	if t.ChoreID != nil {
		v := *t.ChoreID
		t.ChoreID = &v
	}
	if t.PrizeID != nil {
		v := *t.PrizeID
		t.PrizeID = &v
	}
	return t
}

// Memory implements core.Repository.
type Memory struct {
	mu    sync.Mutex
	state *state
}

var _ core.Repository = (*Memory)(nil)

func New() *Memory {
	return &Memory{state: newState()}
}

// view implements core.Store over one state snapshot.
type view struct {
	st *state
}

func (m *Memory) InTransaction(ctx context.Context, fn func(core.Store) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := m.state.clone()
	if err := fn(&view{st: next}); err != nil {
		return err
	}
	m.state = next
	return nil
}

// withLock runs fn under the mutex against the live state.
func (m *Memory) withLock(fn func(*view) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(&view{st: m.state})
}


func (v *view) GetPerson(ctx context.Context, id int64) (core.Person, error) {
	p, ok := v.st.people[id]
	if !ok {
		return core.Person{}, core.NewNotFound("person", id)
	}
	return copyPerson(p), nil
}

func (v *view) GetChore(ctx context.Context, id int64) (core.Chore, error) {
	c, ok := v.st.chores[id]
	if !ok {
		return core.Chore{}, core.NewNotFound("chore", id)
	}
	return copyChore(c), nil
}

func (v *view) GetPrize(ctx context.Context, id int64) (core.Prize, error) {
	p, ok := v.st.prizes[id]
	if !ok {
		return core.Prize{}, core.NewNotFound("prize", id)
	}
	return p, nil
}

func (v *view) UpdatePersonBalance(ctx context.Context, id int64, delta int64) error {
	p, ok := v.st.people[id]
	if !ok {
		return core.NewNotFound("person", id)
	}
	balance := p.Balance() + delta
	p.FunBucks = &balance
	v.st.people[id] = p
	return nil
}

func (v *view) SetChoreCompletion(ctx context.Context, id int64, completed bool, completedAt *time.Time) error {
	c, ok := v.st.chores[id]
	if !ok {
		return core.NewNotFound("chore", id)
	}
	c.Completed = completed
	if completedAt != nil {
		t := *completedAt
		c.LastCompletedAt = &t
	}
	v.st.chores[id] = c
	return nil
}

func (v *view) InsertTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if _, ok := v.st.people[t.PersonID]; !ok {
		return core.Transaction{}, core.NewNotFound("person", t.PersonID)
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	t.ID = v.st.nextID
	v.st.nextID++
	v.st.transactions[t.ID] = copyTransaction(t)
	return t, nil
}

func (v *view) DeleteTransactions(ctx context.Context, choreID, personID int64, kind core.TransactionKind) (int64, error) {
	var removed int64
	for id, t := range v.st.transactions {
		if t.ChoreID != nil && *t.ChoreID == choreID && t.PersonID == personID && t.Kind == kind {
			delete(v.st.transactions, id)
			removed++
		}
	}
	return removed, nil
}

func (v *view) ListCompletedChores(ctx context.Context) ([]core.Chore, error) {
	var chores []core.Chore
	for _, c := range v.st.chores {
		if c.Completed {
			chores = append(chores, copyChore(c))
		}
	}
	sort.Slice(chores, func(i, j int) bool { return chores[i].ID < chores[j].ID })
	return chores, nil
}

// Direct (non-transactional) Store methods on Memory.

func (m *Memory) GetPerson(ctx context.Context, id int64) (core.Person, error) {
	var p core.Person
	err := m.withLock(func(v *view) error {
		var err error
		p, err = v.GetPerson(ctx, id)
		return err
	})
	return p, err
}

func (m *Memory) GetChore(ctx context.Context, id int64) (core.Chore, error) {
	var c core.Chore
	err := m.withLock(func(v *view) error {
		var err error
		c, err = v.GetChore(ctx, id)
		return err
	})
	return c, err
}

func (m *Memory) GetPrize(ctx context.Context, id int64) (core.Prize, error) {
	var p core.Prize
	err := m.withLock(func(v *view) error {
		var err error
		p, err = v.GetPrize(ctx, id)
		return err
	})
	return p, err
}

func (m *Memory) UpdatePersonBalance(ctx context.Context, id int64, delta int64) error {
	return m.withLock(func(v *view) error {
		return v.UpdatePersonBalance(ctx, id, delta)
	})
}

func (m *Memory) SetChoreCompletion(ctx context.Context, id int64, completed bool, completedAt *time.Time) error {
	return m.withLock(func(v *view) error {
		return v.SetChoreCompletion(ctx, id, completed, completedAt)
	})
}

func (m *Memory) InsertTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	var inserted core.Transaction
	err := m.withLock(func(v *view) error {
		var err error
		inserted, err = v.InsertTransaction(ctx, t)
		return err
	})
	return inserted, err
}

func (m *Memory) DeleteTransactions(ctx context.Context, choreID, personID int64, kind core.TransactionKind) (int64, error) {
	var removed int64
	err := m.withLock(func(v *view) error {
		var err error
		removed, err = v.DeleteTransactions(ctx, choreID, personID, kind)
		return err
	})
	return removed, err
}

func (m *Memory) ListCompletedChores(ctx context.Context) ([]core.Chore, error) {
	var chores []core.Chore
	err := m.withLock(func(v *view) error {
		var err error
		chores, err = v.ListCompletedChores(ctx)
		return err
	})
	return chores, err
}


func (m *Memory) CreatePerson(ctx context.Context, p core.Person) (core.Person, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p.ID = m.state.nextID
	m.state.nextID++
	p.CreatedAt = time.Now().UTC()
	if p.IsKid() {
		zero := int64(0)
		p.FunBucks = &zero
	} else {
		p.FunBucks = nil
	}
	m.state.people[p.ID] = copyPerson(p)
	return p, nil
}

func (m *Memory) ListPeople(ctx context.Context) ([]core.Person, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var people []core.Person
	for _, p := range m.state.people {
		people = append(people, copyPerson(p))
	}
	sort.Slice(people, func(i, j int) bool { return people[i].ID < people[j].ID })
	return people, nil
}

func (m *Memory) UpdatePerson(ctx context.Context, id int64, patch core.PersonPatch) (core.Person, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.state.people[id]
	if !ok {
		return core.Person{}, core.NewNotFound("person", id)
	}
	p = copyPerson(p)
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Role != nil && *patch.Role != p.Role {
		p.Role = *patch.Role
		if p.Role == core.RoleKid {
			if p.FunBucks == nil {
				zero := int64(0)
				p.FunBucks = &zero
			}
		} else {
			p.FunBucks = nil
		}
	}
	if patch.Avatar != nil {
		p.Avatar = *patch.Avatar
	}
	if patch.Color != nil {
		p.Color = *patch.Color
	}
	m.state.people[id] = copyPerson(p)
	return p, nil
}

// DeletePerson refuses while chores or ledger rows still reference the
// person, matching the SQLite backend's restricting foreign keys.
func (m *Memory) DeletePerson(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.state.people[id]; !ok {
		return core.NewNotFound("person", id)
	}
	for _, c := range m.state.chores {
		if c.AssignedTo == id {
			return core.NewInvalidState(fmt.Sprintf("person %d still has assigned chores", id))
		}
	}
	for _, t := range m.state.transactions {
		if t.PersonID == id {
			return core.NewInvalidState(fmt.Sprintf("person %d is referenced by the ledger", id))
		}
	}
	delete(m.state.people, id)
	return nil
}


func (m *Memory) CreateChore(ctx context.Context, c core.Chore) (core.Chore, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.state.people[c.AssignedTo]; !ok {
		return core.Chore{}, core.NewNotFound("person", c.AssignedTo)
	}
	c.ID = m.state.nextID
	m.state.nextID++
	c.CreatedAt = time.Now().UTC()
	c.Completed = false
	c.LastCompletedAt = nil
	m.state.chores[c.ID] = copyChore(c)
	return c, nil
}

func (m *Memory) ListChores(ctx context.Context) ([]core.ChoreWithAssignee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var chores []core.ChoreWithAssignee
	for _, c := range m.state.chores {
		chores = append(chores, m.joinAssignee(copyChore(c)))
	}
	sort.Slice(chores, func(i, j int) bool { return chores[i].ID > chores[j].ID })
	return chores, nil
}

func (m *Memory) GetChoreWithAssignee(ctx context.Context, id int64) (core.ChoreWithAssignee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.state.chores[id]
	if !ok {
		return core.ChoreWithAssignee{}, core.NewNotFound("chore", id)
	}
	return m.joinAssignee(copyChore(c)), nil
}

func (m *Memory) joinAssignee(c core.Chore) core.ChoreWithAssignee {
	joined := core.ChoreWithAssignee{Chore: c}
	if p, ok := m.state.people[c.AssignedTo]; ok {
		p = copyPerson(p)
		joined.AssignedName = p.Name
		joined.AssignedAvatar = p.Avatar
		joined.AssignedColor = p.Color
		joined.AssignedFunBucks = p.FunBucks
	}
	return joined
}

func (m *Memory) UpdateChore(ctx context.Context, id int64, patch core.ChorePatch) (core.Chore, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.state.chores[id]
	if !ok {
		return core.Chore{}, core.NewNotFound("chore", id)
	}
	if patch.AssignedTo != nil {
		if _, ok := m.state.people[*patch.AssignedTo]; !ok {
			return core.Chore{}, core.NewNotFound("person", *patch.AssignedTo)
		}
	}
	c = copyChore(c)
	if patch.Title != nil {
		c.Title = *patch.Title
	}
	if patch.AssignedTo != nil {
		c.AssignedTo = *patch.AssignedTo
	}
	if patch.Reward != nil {
		c.Reward = *patch.Reward
	}
	if patch.Frequency != nil {
		c.Frequency = *patch.Frequency
	}
	m.state.chores[id] = copyChore(c)
	return c, nil
}

func (m *Memory) DeleteChore(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.state.chores[id]; !ok {
		return core.NewNotFound("chore", id)
	}
	delete(m.state.chores, id)
	for tid, t := range m.state.transactions {
		if t.ChoreID != nil && *t.ChoreID == id {
			t.ChoreID = nil
			m.state.transactions[tid] = t
		}
	}
	return nil
}


func (m *Memory) CreatePrize(ctx context.Context, p core.Prize) (core.Prize, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p.ID = m.state.nextID
	m.state.nextID++
	p.CreatedAt = time.Now().UTC()
	m.state.prizes[p.ID] = p
	return p, nil
}

func (m *Memory) ListPrizes(ctx context.Context) ([]core.Prize, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var prizes []core.Prize
	for _, p := range m.state.prizes {
		prizes = append(prizes, p)
	}
	sort.Slice(prizes, func(i, j int) bool {
		if prizes[i].Cost != prizes[j].Cost {
			return prizes[i].Cost < prizes[j].Cost
		}
		return prizes[i].ID < prizes[j].ID
	})
	return prizes, nil
}

func (m *Memory) UpdatePrize(ctx context.Context, id int64, patch core.PrizePatch) (core.Prize, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.state.prizes[id]
	if !ok {
		return core.Prize{}, core.NewNotFound("prize", id)
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Cost != nil {
		p.Cost = *patch.Cost
	}
	if patch.Emoji != nil {
		p.Emoji = *patch.Emoji
	}
	m.state.prizes[id] = p
	return p, nil
}

func (m *Memory) DeletePrize(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.state.prizes[id]; !ok {
		return core.NewNotFound("prize", id)
	}
	delete(m.state.prizes, id)
	for tid, t := range m.state.transactions {
		if t.PrizeID != nil && *t.PrizeID == id {
			t.PrizeID = nil
			m.state.transactions[tid] = t
		}
	}
	return nil
}


func (m *Memory) ListTransactions(ctx context.Context) ([]core.TransactionWithRefs, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listTransactions(func(core.Transaction) bool { return true }), nil
}

func (m *Memory) ListTransactionsByPerson(ctx context.Context, personID int64) ([]core.TransactionWithRefs, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listTransactions(func(t core.Transaction) bool { return t.PersonID == personID }), nil
}

func (m *Memory) listTransactions(match func(core.Transaction) bool) []core.TransactionWithRefs {
	var transactions []core.TransactionWithRefs
	for _, t := range m.state.transactions {
		if !match(t) {
			continue
		}
		joined := core.TransactionWithRefs{Transaction: copyTransaction(t)}
		if p, ok := m.state.people[t.PersonID]; ok {
			joined.PersonName = p.Name
			joined.PersonAvatar = p.Avatar
		}
		if t.ChoreID != nil {
			if c, ok := m.state.chores[*t.ChoreID]; ok {
				joined.ChoreTitle = c.Title
			}
		}
		if t.PrizeID != nil {
			if p, ok := m.state.prizes[*t.PrizeID]; ok {
				joined.PrizeName = p.Name
			}
		}
		transactions = append(transactions, joined)
	}
	sort.Slice(transactions, func(i, j int) bool { return transactions[i].ID > transactions[j].ID })
	return transactions
}
