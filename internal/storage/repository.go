// Package storage implements the ledger store on SQLite.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"chorebucks/internal/core"

	_ "modernc.org/sqlite"
)

// dbtx is satisfied by both *sql.DB and *sql.Tx, so every query runs the
// same whether or not it is inside a transaction.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// store implements the engine capability set over one dbtx.
type store struct {
	q dbtx
}

// SQLiteRepository implements core.Repository. Engine operations wrap their
// read-modify-write sequences in InTransaction; SQLite's single-writer
// locking serializes them.
type SQLiteRepository struct {
	store
	db *sql.DB
}

var _ core.Repository = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	// foreign_keys is a per-connection pragma. database/sql pools
	// connections, so it has to go in the DSN to reach every one of them.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{store: store{q: db}, db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// InTransaction runs fn against a transactional view of the store. The
// callback's mutations commit together or roll back together.
func (r *SQLiteRepository) InTransaction(ctx context.Context, fn func(core.Store) error) error {
	return r.inTx(ctx, func(s *store) error { return fn(s) })
}

func (r *SQLiteRepository) inTx(ctx context.Context, fn func(*store) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.NewStoreError("begin transaction", err)
	}

	if err := fn(&store{q: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return core.NewStoreError("rollback transaction", rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return core.NewStoreError("commit transaction", err)
	}
	return nil
}

const personColumns = "id, name, role, avatar, color, fun_bucks, created_at"

func (s *store) GetPerson(ctx context.Context, id int64) (core.Person, error) {
	row := s.q.QueryRowContext(ctx,
		"SELECT "+personColumns+" FROM people WHERE id = ?", id)
	p, err := scanPerson(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Person{}, core.NewNotFound("person", id)
	}
	if err != nil {
		return core.Person{}, core.NewStoreError("get person", err)
	}
	return p, nil
}

const choreColumns = "id, title, assigned_to, reward, frequency, completed, last_completed_at, created_at"

func (s *store) GetChore(ctx context.Context, id int64) (core.Chore, error) {
	row := s.q.QueryRowContext(ctx,
		"SELECT "+choreColumns+" FROM chores WHERE id = ?", id)
	c, err := scanChore(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Chore{}, core.NewNotFound("chore", id)
	}
	if err != nil {
		return core.Chore{}, core.NewStoreError("get chore", err)
	}
	return c, nil
}

const prizeColumns = "id, name, cost, emoji, created_at"

func (s *store) GetPrize(ctx context.Context, id int64) (core.Prize, error) {
	row := s.q.QueryRowContext(ctx,
		"SELECT "+prizeColumns+" FROM prizes WHERE id = ?", id)
	p, err := scanPrize(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Prize{}, core.NewNotFound("prize", id)
	}
	if err != nil {
		return core.Prize{}, core.NewStoreError("get prize", err)
	}
	return p, nil
}

func (s *store) UpdatePersonBalance(ctx context.Context, id int64, delta int64) error {
	res, err := s.q.ExecContext(ctx,
		"UPDATE people SET fun_bucks = COALESCE(fun_bucks, 0) + ? WHERE id = ?", delta, id)
	if err != nil {
		return core.NewStoreError("update person balance", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return core.NewStoreError("update person balance", err)
	}
	if affected == 0 {
		return core.NewNotFound("person", id)
	}
	return nil
}

func (s *store) SetChoreCompletion(ctx context.Context, id int64, completed bool, completedAt *time.Time) error {
	var (
		res sql.Result
		err error
	)
	if completedAt != nil {
		res, err = s.q.ExecContext(ctx,
			"UPDATE chores SET completed = ?, last_completed_at = ? WHERE id = ?",
			boolToInt(completed), formatTime(*completedAt), id)
	} else {
		res, err = s.q.ExecContext(ctx,
			"UPDATE chores SET completed = ? WHERE id = ?", boolToInt(completed), id)
	}
	if err != nil {
		return core.NewStoreError("set chore completion", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return core.NewStoreError("set chore completion", err)
	}
	if affected == 0 {
		return core.NewNotFound("chore", id)
	}
	return nil
}

func (s *store) InsertTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	res, err := s.q.ExecContext(ctx, `
		INSERT INTO transactions (person_id, kind, amount, description, chore_id, prize_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.PersonID, string(t.Kind), t.Amount, t.Description,
		nullableID(t.ChoreID), nullableID(t.PrizeID), formatTime(t.CreatedAt))
	if err != nil {
		return core.Transaction{}, core.NewStoreError("insert transaction", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Transaction{}, core.NewStoreError("insert transaction", err)
	}
	t.ID = id
	return t, nil
}

func (s *store) DeleteTransactions(ctx context.Context, choreID, personID int64, kind core.TransactionKind) (int64, error) {
	res, err := s.q.ExecContext(ctx,
		"DELETE FROM transactions WHERE chore_id = ? AND person_id = ? AND kind = ?",
		choreID, personID, string(kind))
	if err != nil {
		return 0, core.NewStoreError("delete transactions", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, core.NewStoreError("delete transactions", err)
	}
	return affected, nil
}

func (s *store) ListCompletedChores(ctx context.Context) ([]core.Chore, error) {
	rows, err := s.q.QueryContext(ctx,
		"SELECT "+choreColumns+" FROM chores WHERE completed = 1 ORDER BY id")
	if err != nil {
		return nil, core.NewStoreError("list completed chores", err)
	}
	defer rows.Close()

	var chores []core.Chore
	for rows.Next() {
		c, err := scanChore(rows)
		if err != nil {
			return nil, core.NewStoreError("scan completed chore", err)
		}
		chores = append(chores, c)
	}
	if err := rows.Err(); err != nil {
		return nil, core.NewStoreError("list completed chores", err)
	}
	return chores, nil
}

func (r *SQLiteRepository) CreatePerson(ctx context.Context, p core.Person) (core.Person, error) {
	p.CreatedAt = time.Now().UTC()

	// Kids start with a zero balance; parents carry none.
	var funBucks sql.NullInt64
	if p.IsKid() {
		funBucks = sql.NullInt64{Int64: 0, Valid: true}
		zero := int64(0)
		p.FunBucks = &zero
	} else {
		p.FunBucks = nil
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO people (name, role, avatar, color, fun_bucks, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		p.Name, string(p.Role), p.Avatar, p.Color, funBucks, formatTime(p.CreatedAt))
	if err != nil {
		return core.Person{}, core.NewStoreError("create person", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Person{}, core.NewStoreError("create person", err)
	}
	p.ID = id
	return p, nil
}

func (r *SQLiteRepository) ListPeople(ctx context.Context) ([]core.Person, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+personColumns+" FROM people ORDER BY id")
	if err != nil {
		return nil, core.NewStoreError("list people", err)
	}
	defer rows.Close()

	var people []core.Person
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, core.NewStoreError("scan person", err)
		}
		people = append(people, p)
	}
	if err := rows.Err(); err != nil {
		return nil, core.NewStoreError("list people", err)
	}
	return people, nil
}

func (r *SQLiteRepository) UpdatePerson(ctx context.Context, id int64, patch core.PersonPatch) (core.Person, error) {
	var updated core.Person
	err := r.inTx(ctx, func(tx *store) error {
		p, err := tx.GetPerson(ctx, id)
		if err != nil {
			return err
		}
		applyPersonPatch(&p, patch)

		var funBucks sql.NullInt64
		if p.FunBucks != nil {
			funBucks = sql.NullInt64{Int64: *p.FunBucks, Valid: true}
		}
		_, err = tx.q.ExecContext(ctx, `
			UPDATE people SET name = ?, role = ?, avatar = ?, color = ?, fun_bucks = ?
			WHERE id = ?`,
			p.Name, string(p.Role), p.Avatar, p.Color, funBucks, id)
		if err != nil {
			return core.NewStoreError("update person", err)
		}
		updated = p
		return nil
	})
	if err != nil {
		return core.Person{}, err
	}
	return updated, nil
}

// DeletePerson refuses while chores or ledger rows still reference the
// person, matching the schema's restricting foreign keys.
func (r *SQLiteRepository) DeletePerson(ctx context.Context, id int64) error {
	if _, err := r.GetPerson(ctx, id); err != nil {
		return err
	}

	var chores, ledger int64
	err := r.db.QueryRowContext(ctx,
		`SELECT
			(SELECT COUNT(*) FROM chores WHERE assigned_to = ?),
			(SELECT COUNT(*) FROM transactions WHERE person_id = ?)`,
		id, id).Scan(&chores, &ledger)
	if err != nil {
		return core.NewStoreError("count person references", err)
	}
	if chores > 0 {
		return core.NewInvalidState(fmt.Sprintf("person %d still has assigned chores", id))
	}
	if ledger > 0 {
		return core.NewInvalidState(fmt.Sprintf("person %d is referenced by the ledger", id))
	}

	if _, err := r.db.ExecContext(ctx, "DELETE FROM people WHERE id = ?", id); err != nil {
		return core.NewStoreError("delete person", err)
	}
	return nil
}

func (r *SQLiteRepository) CreateChore(ctx context.Context, c core.Chore) (core.Chore, error) {
	// Referential integrity is checked at write time.
	if _, err := r.GetPerson(ctx, c.AssignedTo); err != nil {
		return core.Chore{}, err
	}

	c.CreatedAt = time.Now().UTC()
	c.Completed = false
	c.LastCompletedAt = nil

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO chores (title, assigned_to, reward, frequency, completed, created_at)
		VALUES (?, ?, ?, ?, 0, ?)`,
		c.Title, c.AssignedTo, c.Reward, string(c.Frequency), formatTime(c.CreatedAt))
	if err != nil {
		return core.Chore{}, core.NewStoreError("create chore", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Chore{}, core.NewStoreError("create chore", err)
	}
	c.ID = id
	return c, nil
}

const choreJoinQuery = `
	SELECT c.id, c.title, c.assigned_to, c.reward, c.frequency, c.completed,
	       c.last_completed_at, c.created_at,
	       p.name, p.avatar, p.color, p.fun_bucks
	FROM chores c
	LEFT JOIN people p ON c.assigned_to = p.id`

func (r *SQLiteRepository) ListChores(ctx context.Context) ([]core.ChoreWithAssignee, error) {
	rows, err := r.db.QueryContext(ctx, choreJoinQuery+" ORDER BY c.id DESC")
	if err != nil {
		return nil, core.NewStoreError("list chores", err)
	}
	defer rows.Close()

	var chores []core.ChoreWithAssignee
	for rows.Next() {
		c, err := scanChoreWithAssignee(rows)
		if err != nil {
			return nil, core.NewStoreError("scan chore", err)
		}
		chores = append(chores, c)
	}
	if err := rows.Err(); err != nil {
		return nil, core.NewStoreError("list chores", err)
	}
	return chores, nil
}

func (r *SQLiteRepository) GetChoreWithAssignee(ctx context.Context, id int64) (core.ChoreWithAssignee, error) {
	row := r.db.QueryRowContext(ctx, choreJoinQuery+" WHERE c.id = ?", id)
	c, err := scanChoreWithAssignee(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.ChoreWithAssignee{}, core.NewNotFound("chore", id)
	}
	if err != nil {
		return core.ChoreWithAssignee{}, core.NewStoreError("get chore", err)
	}
	return c, nil
}

func (r *SQLiteRepository) UpdateChore(ctx context.Context, id int64, patch core.ChorePatch) (core.Chore, error) {
	var updated core.Chore
	err := r.inTx(ctx, func(tx *store) error {
		c, err := tx.GetChore(ctx, id)
		if err != nil {
			return err
		}
		if patch.AssignedTo != nil {
			if _, err := tx.GetPerson(ctx, *patch.AssignedTo); err != nil {
				return err
			}
		}
		applyChorePatch(&c, patch)

		_, err = tx.q.ExecContext(ctx, `
			UPDATE chores SET title = ?, assigned_to = ?, reward = ?, frequency = ?
			WHERE id = ?`,
			c.Title, c.AssignedTo, c.Reward, string(c.Frequency), id)
		if err != nil {
			return core.NewStoreError("update chore", err)
		}
		updated = c
		return nil
	})
	if err != nil {
		return core.Chore{}, err
	}
	return updated, nil
}

func (r *SQLiteRepository) DeleteChore(ctx context.Context, id int64) error {
	if _, err := r.GetChore(ctx, id); err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, "DELETE FROM chores WHERE id = ?", id); err != nil {
		return core.NewStoreError("delete chore", err)
	}
	return nil
}

func (r *SQLiteRepository) CreatePrize(ctx context.Context, p core.Prize) (core.Prize, error) {
	p.CreatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO prizes (name, cost, emoji, created_at)
		VALUES (?, ?, ?, ?)`,
		p.Name, p.Cost, p.Emoji, formatTime(p.CreatedAt))
	if err != nil {
		return core.Prize{}, core.NewStoreError("create prize", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Prize{}, core.NewStoreError("create prize", err)
	}
	p.ID = id
	return p, nil
}

func (r *SQLiteRepository) ListPrizes(ctx context.Context) ([]core.Prize, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+prizeColumns+" FROM prizes ORDER BY cost ASC, id")
	if err != nil {
		return nil, core.NewStoreError("list prizes", err)
	}
	defer rows.Close()

	var prizes []core.Prize
	for rows.Next() {
		p, err := scanPrize(rows)
		if err != nil {
			return nil, core.NewStoreError("scan prize", err)
		}
		prizes = append(prizes, p)
	}
	if err := rows.Err(); err != nil {
		return nil, core.NewStoreError("list prizes", err)
	}
	return prizes, nil
}

func (r *SQLiteRepository) UpdatePrize(ctx context.Context, id int64, patch core.PrizePatch) (core.Prize, error) {
	var updated core.Prize
	err := r.inTx(ctx, func(tx *store) error {
		p, err := tx.GetPrize(ctx, id)
		if err != nil {
			return err
		}
		applyPrizePatch(&p, patch)

		_, err = tx.q.ExecContext(ctx,
			"UPDATE prizes SET name = ?, cost = ?, emoji = ? WHERE id = ?",
			p.Name, p.Cost, p.Emoji, id)
		if err != nil {
			return core.NewStoreError("update prize", err)
		}
		updated = p
		return nil
	})
	if err != nil {
		return core.Prize{}, err
	}
	return updated, nil
}

func (r *SQLiteRepository) DeletePrize(ctx context.Context, id int64) error {
	if _, err := r.GetPrize(ctx, id); err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, "DELETE FROM prizes WHERE id = ?", id); err != nil {
		return core.NewStoreError("delete prize", err)
	}
	return nil
}

const transactionJoinQuery = `
	SELECT t.id, t.person_id, t.kind, t.amount, t.description, t.chore_id,
	       t.prize_id, t.created_at,
	       p.name, p.avatar, c.title, z.name
	FROM transactions t
	LEFT JOIN people p ON t.person_id = p.id
	LEFT JOIN chores c ON t.chore_id = c.id
	LEFT JOIN prizes z ON t.prize_id = z.id`

func (r *SQLiteRepository) ListTransactions(ctx context.Context) ([]core.TransactionWithRefs, error) {
	return r.queryTransactions(ctx, transactionJoinQuery+" ORDER BY t.id DESC")
}

func (r *SQLiteRepository) ListTransactionsByPerson(ctx context.Context, personID int64) ([]core.TransactionWithRefs, error) {
	return r.queryTransactions(ctx,
		transactionJoinQuery+" WHERE t.person_id = ? ORDER BY t.id DESC", personID)
}

func (r *SQLiteRepository) queryTransactions(ctx context.Context, query string, args ...any) ([]core.TransactionWithRefs, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, core.NewStoreError("list transactions", err)
	}
	defer rows.Close()

	var transactions []core.TransactionWithRefs
	for rows.Next() {
		t, err := scanTransactionWithRefs(rows)
		if err != nil {
			return nil, core.NewStoreError("scan transaction", err)
		}
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, core.NewStoreError("list transactions", err)
	}
	return transactions, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPerson(row scanner) (core.Person, error) {
	var (
		p         core.Person
		role      string
		funBucks  sql.NullInt64
		createdAt string
	)
	if err := row.Scan(&p.ID, &p.Name, &role, &p.Avatar, &p.Color, &funBucks, &createdAt); err != nil {
		return core.Person{}, err
	}
	p.Role = core.Role(role)
	if funBucks.Valid {
		v := funBucks.Int64
		p.FunBucks = &v
	}
	var err error
	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return core.Person{}, err
	}
	return p, nil
}

func scanChore(row scanner) (core.Chore, error) {
	var (
		c             core.Chore
		frequency     string
		completed     int64
		lastCompleted sql.NullString
		createdAt     string
	)
	if err := row.Scan(&c.ID, &c.Title, &c.AssignedTo, &c.Reward, &frequency,
		&completed, &lastCompleted, &createdAt); err != nil {
		return core.Chore{}, err
	}
	c.Frequency = core.Frequency(frequency)
	c.Completed = completed != 0
	if lastCompleted.Valid {
		t, err := parseTime(lastCompleted.String)
		if err != nil {
			return core.Chore{}, err
		}
		c.LastCompletedAt = &t
	}
	var err error
	if c.CreatedAt, err = parseTime(createdAt); err != nil {
		return core.Chore{}, err
	}
	return c, nil
}

func scanChoreWithAssignee(row scanner) (core.ChoreWithAssignee, error) {
	var (
		c             core.ChoreWithAssignee
		frequency     string
		completed     int64
		lastCompleted sql.NullString
		createdAt     string
		name          sql.NullString
		avatar        sql.NullString
		color         sql.NullString
		funBucks      sql.NullInt64
	)
	if err := row.Scan(&c.ID, &c.Title, &c.AssignedTo, &c.Reward, &frequency,
		&completed, &lastCompleted, &createdAt,
		&name, &avatar, &color, &funBucks); err != nil {
		return core.ChoreWithAssignee{}, err
	}
	c.Frequency = core.Frequency(frequency)
	c.Completed = completed != 0
	if lastCompleted.Valid {
		t, err := parseTime(lastCompleted.String)
		if err != nil {
			return core.ChoreWithAssignee{}, err
		}
		c.LastCompletedAt = &t
	}
	var err error
	if c.CreatedAt, err = parseTime(createdAt); err != nil {
		return core.ChoreWithAssignee{}, err
	}
	c.AssignedName = name.String
	c.AssignedAvatar = avatar.String
	c.AssignedColor = color.String
	if funBucks.Valid {
		v := funBucks.Int64
		c.AssignedFunBucks = &v
	}
	return c, nil
}

func scanPrize(row scanner) (core.Prize, error) {
	var (
		p         core.Prize
		createdAt string
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Cost, &p.Emoji, &createdAt); err != nil {
		return core.Prize{}, err
	}
	var err error
	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return core.Prize{}, err
	}
	return p, nil
}

func scanTransactionWithRefs(row scanner) (core.TransactionWithRefs, error) {
	var (
		t          core.TransactionWithRefs
		kind       string
		choreID    sql.NullInt64
		prizeID    sql.NullInt64
		createdAt  string
		personName sql.NullString
		avatar     sql.NullString
		choreTitle sql.NullString
		prizeName  sql.NullString
	)
	if err := row.Scan(&t.ID, &t.PersonID, &kind, &t.Amount, &t.Description,
		&choreID, &prizeID, &createdAt,
		&personName, &avatar, &choreTitle, &prizeName); err != nil {
		return core.TransactionWithRefs{}, err
	}
	t.Kind = core.TransactionKind(kind)
	if choreID.Valid {
		v := choreID.Int64
		t.ChoreID = &v
	}
	if prizeID.Valid {
		v := prizeID.Int64
		t.PrizeID = &v
	}
	var err error
	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return core.TransactionWithRefs{}, err
	}
	t.PersonName = personName.String
	t.PersonAvatar = avatar.String
	t.ChoreTitle = choreTitle.String
	t.PrizeName = prizeName.String
	return t, nil
}

func applyPersonPatch(p *core.Person, patch core.PersonPatch) {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Role != nil && *patch.Role != p.Role {
		p.Role = *patch.Role
		// A person promoted to kid starts tracking a balance; a parent
		// carries none.
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
}

func applyChorePatch(c *core.Chore, patch core.ChorePatch) {
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
}

func applyPrizePatch(p *core.Prize, patch core.PrizePatch) {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Cost != nil {
		p.Cost = *patch.Cost
	}
	if patch.Emoji != nil {
		p.Emoji = *patch.Emoji
	}
}

// Timestamps are stored as RFC 3339 UTC strings and written by Go, never by
// SQLite defaults, so parsing stays deterministic.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func nullableID(id *int64) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *id, Valid: true}
}
