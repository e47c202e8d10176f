// Package storage is the ledger store: a SQLite-backed system of record
// for users, categories, transactions, budgets, and goals.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"fintrack/internal/core"

	_ "modernc.org/sqlite"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
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

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// CreateUser inserts a new user. A duplicate email surfaces as
// core.ErrEmailTaken.
func (r *Repository) CreateUser(ctx context.Context, u core.User) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (name, email, password) VALUES (?, ?, ?)`,
		u.Name, u.Email, u.Password)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, core.ErrEmailTaken
		}
		return 0, fmt.Errorf("insert user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("user insert id: %w", err)
	}

	slog.InfoContext(ctx, "User created", "id", id, "email", u.Email)
	return id, nil
}

// UserByCredentials looks up a user by email and credential secret.
// Returns core.ErrNotFound when no row matches.
func (r *Repository) UserByCredentials(ctx context.Context, email, password string) (core.User, error) {
	var u core.User
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, email, password FROM users WHERE email = ? AND password = ?`,
		email, password).Scan(&u.ID, &u.Name, &u.Email, &u.Password)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, core.ErrNotFound
	}
	if err != nil {
		return core.User{}, fmt.Errorf("select user by credentials: %w", err)
	}
	return u, nil
}

// Categories returns the global reference list, alphabetically.
func (r *Repository) Categories(ctx context.Context) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("select categories: %w", err)
	}
	defer rows.Close()

	var cats []core.Category
	for rows.Next() {
		var c core.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		cats = append(cats, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return cats, nil
}

func (r *Repository) CreateTransaction(ctx context.Context, tx core.Transaction) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (user_id, category_id, type, amount_cents, date, description)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		tx.UserID, tx.CategoryID, string(tx.Type), tx.Amount.Cents, tx.Date.String(), tx.Description)
	if err != nil {
		return 0, fmt.Errorf("insert transaction: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("transaction insert id: %w", err)
	}

	slog.InfoContext(ctx, "Transaction created",
		"id", id,
		"user_id", tx.UserID,
		"type", string(tx.Type),
		"amount_cents", tx.Amount.Cents,
		"date", tx.Date.String())
	return id, nil
}

// UpdateTransaction rewrites the mutable fields of a transaction and
// returns the owning user. Returns core.ErrNotFound for an unknown id.
func (r *Repository) UpdateTransaction(ctx context.Context, tx core.Transaction) (int64, error) {
	var userID int64
	err := r.db.QueryRowContext(ctx,
		`UPDATE transactions
		 SET category_id = ?, type = ?, amount_cents = ?, date = ?, description = ?
		 WHERE id = ?
		 RETURNING user_id`,
		tx.CategoryID, string(tx.Type), tx.Amount.Cents, tx.Date.String(), tx.Description, tx.ID).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, core.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("update transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction updated", "id", tx.ID, "user_id", userID)
	return userID, nil
}

// DeleteTransaction hard-deletes a transaction and returns the owning
// user. Returns core.ErrNotFound for an unknown id.
func (r *Repository) DeleteTransaction(ctx context.Context, id int64) (int64, error) {
	var userID int64
	err := r.db.QueryRowContext(ctx,
		`DELETE FROM transactions WHERE id = ? RETURNING user_id`, id).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, core.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("delete transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction deleted", "id", id, "user_id", userID)
	return userID, nil
}

// TransactionsByUser returns all of a user's transactions joined with
// category names, most recent date first, ties by insertion order.
func (r *Repository) TransactionsByUser(ctx context.Context, userID int64) ([]core.TransactionWithCategory, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT t.id, t.user_id, t.category_id, t.type, t.amount_cents, t.date, t.description,
		        COALESCE(c.name, '')
		 FROM transactions t
		 LEFT JOIN categories c ON t.category_id = c.id
		 WHERE t.user_id = ?
		 ORDER BY t.date DESC, t.id ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("select transactions: %w", err)
	}
	defer rows.Close()

	return scanTransactionRows(rows)
}

func (r *Repository) CreateBudget(ctx context.Context, b core.Budget) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO budgets (user_id, category_id, monthly_limit_cents) VALUES (?, ?, ?)`,
		b.UserID, b.CategoryID, b.MonthlyLimit.Cents)
	if err != nil {
		return 0, fmt.Errorf("insert budget: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("budget insert id: %w", err)
	}

	slog.InfoContext(ctx, "Budget created",
		"id", id,
		"user_id", b.UserID,
		"category_id", b.CategoryID,
		"monthly_limit_cents", b.MonthlyLimit.Cents)
	return id, nil
}

// UpdateBudgetLimit replaces the monthly limit of a budget and returns
// the owning user. Returns core.ErrNotFound for an unknown id.
func (r *Repository) UpdateBudgetLimit(ctx context.Context, id int64, limit core.Money) (int64, error) {
	var userID int64
	err := r.db.QueryRowContext(ctx,
		`UPDATE budgets SET monthly_limit_cents = ? WHERE id = ? RETURNING user_id`,
		limit.Cents, id).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, core.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("update budget: %w", err)
	}

	slog.InfoContext(ctx, "Budget updated", "id", id, "user_id", userID, "monthly_limit_cents", limit.Cents)
	return userID, nil
}

func (r *Repository) DeleteBudget(ctx context.Context, id int64) (int64, error) {
	var userID int64
	err := r.db.QueryRowContext(ctx,
		`DELETE FROM budgets WHERE id = ? RETURNING user_id`, id).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, core.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("delete budget: %w", err)
	}

	slog.InfoContext(ctx, "Budget deleted", "id", id, "user_id", userID)
	return userID, nil
}

func (r *Repository) CreateGoal(ctx context.Context, g core.Goal) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO goals (user_id, name, target_cents, saved_cents, deadline)
		 VALUES (?, ?, ?, 0, ?)`,
		g.UserID, g.Name, g.Target.Cents, g.Deadline.String())
	if err != nil {
		return 0, fmt.Errorf("insert goal: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("goal insert id: %w", err)
	}

	slog.InfoContext(ctx, "Goal created",
		"id", id,
		"user_id", g.UserID,
		"name", g.Name,
		"target_cents", g.Target.Cents)
	return id, nil
}

// AddSavings increments a goal's saved amount in the store. The increment
// is a single atomic update, never a read-modify-write, so concurrent
// additions cannot lose each other. Returns the owning user, or
// core.ErrNotFound for an unknown id.
func (r *Repository) AddSavings(ctx context.Context, goalID int64, amount core.Money) (int64, error) {
	var userID int64
	err := r.db.QueryRowContext(ctx,
		`UPDATE goals SET saved_cents = saved_cents + ? WHERE id = ? RETURNING user_id`,
		amount.Cents, goalID).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, core.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("add savings: %w", err)
	}

	slog.InfoContext(ctx, "Savings added", "goal_id", goalID, "user_id", userID, "amount_cents", amount.Cents)
	return userID, nil
}

func (r *Repository) DeleteGoal(ctx context.Context, id int64) (int64, error) {
	var userID int64
	err := r.db.QueryRowContext(ctx,
		`DELETE FROM goals WHERE id = ? RETURNING user_id`, id).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, core.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("delete goal: %w", err)
	}

	slog.InfoContext(ctx, "Goal deleted", "id", id, "user_id", userID)
	return userID, nil
}

func (r *Repository) GoalsByUser(ctx context.Context, userID int64) ([]core.Goal, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, name, target_cents, saved_cents, deadline
		 FROM goals WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("select goals: %w", err)
	}
	defer rows.Close()

	var goals []core.Goal
	for rows.Next() {
		var (
			g        core.Goal
			deadline string
		)
		if err := rows.Scan(&g.ID, &g.UserID, &g.Name, &g.Target.Cents, &g.Saved.Cents, &deadline); err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		if g.Deadline, err = core.ParseDate(deadline); err != nil {
			return nil, fmt.Errorf("parse goal deadline %q: %w", deadline, err)
		}
		goals = append(goals, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate goals: %w", err)
	}
	return goals, nil
}

// InsertAuditEntry records one consumed ledger event. Replays of the same
// event id are ignored, keeping the consumer idempotent under requeues.
func (r *Repository) InsertAuditEntry(ctx context.Context, e core.AuditEntry) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO audit_log (event_id, entity, action, entity_id, user_id, occurred_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (event_id) DO NOTHING`,
		e.EventID, e.Entity, e.Action, e.EntityID, e.UserID, e.OccurredAt)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

// AuditEntriesByUser returns the recorded mutations for a user, newest
// first.
func (r *Repository) AuditEntriesByUser(ctx context.Context, userID int64) ([]core.AuditEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT event_id, entity, action, entity_id, user_id, occurred_at
		 FROM audit_log WHERE user_id = ? ORDER BY id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("select audit entries: %w", err)
	}
	defer rows.Close()

	var entries []core.AuditEntry
	for rows.Next() {
		var e core.AuditEntry
		if err := rows.Scan(&e.EventID, &e.Entity, &e.Action, &e.EntityID, &e.UserID, &e.OccurredAt); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit entries: %w", err)
	}
	return entries, nil
}

func scanTransactionRows(rows *sql.Rows) ([]core.TransactionWithCategory, error) {
	var txs []core.TransactionWithCategory
	for rows.Next() {
		var (
			t       core.TransactionWithCategory
			txType  string
			dateStr string
		)
		err := rows.Scan(&t.ID, &t.UserID, &t.CategoryID, &txType, &t.Amount.Cents,
			&dateStr, &t.Description, &t.CategoryName)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		t.Type = core.TransactionType(txType)
		if t.Date, err = core.ParseDate(dateStr); err != nil {
			return nil, fmt.Errorf("parse transaction date %q: %w", dateStr, err)
		}
		txs = append(txs, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return txs, nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
