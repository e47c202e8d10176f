// Package metrics is the aggregation engine: it derives dashboard and
// insights figures from ledger store rows on demand. Every operation is
// read-only and stateless; a call recomputes from current rows, so there
// is no cache to maintain or invalidate.
package metrics

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"fintrack/internal/core"
)

const defaultLimit = 5

// Store is the read surface the engine needs from the ledger store.
type Store interface {
	IncomeExpenseTotals(ctx context.Context, userID int64) (income, expense core.Money, err error)
	TotalSavedAmount(ctx context.Context, userID int64) (core.Money, error)
	RecentTransactions(ctx context.Context, userID int64, limit int) ([]core.TransactionWithCategory, error)
	GoalsByUser(ctx context.Context, userID int64) ([]core.Goal, error)
	BudgetsWithSpend(ctx context.Context, userID int64) ([]core.BudgetSpend, error)
	MonthlyTotals(ctx context.Context, userID int64) ([]core.MonthlyTotals, error)
	ExpenseByCategory(ctx context.Context, userID int64, limit int) ([]core.CategoryTotal, error)
}

type Engine struct {
	store Store
}

func NewEngine(store Store) *Engine {
	return &Engine{store: store}
}

// Response shapes. Amounts become plain JSON numbers here; all sums were
// computed exactly upstream.
type (
	TransactionRow struct {
		ID           int64   `json:"transaction_id"`
		Date         string  `json:"date"`
		Amount       float64 `json:"amount"`
		Type         string  `json:"type"`
		Description  string  `json:"description"`
		CategoryName string  `json:"category_name"`
	}

	GoalProgress struct {
		ID       int64   `json:"goal_id"`
		Name     string  `json:"name"`
		Target   float64 `json:"target"`
		Saved    float64 `json:"saved"`
		Deadline string  `json:"deadline"`
		Progress float64 `json:"progress"`
	}

	BudgetStatus struct {
		ID           int64   `json:"budget_id"`
		CategoryName string  `json:"category_name"`
		MonthlyLimit float64 `json:"monthly_limit"`
		Spent        float64 `json:"spent"`
		Remaining    float64 `json:"remaining"`
		Progress     float64 `json:"progress"`
	}

	MonthlyFlow struct {
		Month   string  `json:"month"`
		Income  float64 `json:"income"`
		Expense float64 `json:"expense"`
	}

	MonthlySavings struct {
		Month   string  `json:"month"`
		Savings float64 `json:"savings"`
	}

	CategoryAmount struct {
		Category string  `json:"category"`
		Amount   float64 `json:"amount"`
	}

	DashboardMetrics struct {
		TotalBalance       float64          `json:"totalBalance"`
		Income             float64          `json:"income"`
		Expense            float64          `json:"expense"`
		TotalSavings       float64          `json:"totalSavings"`
		RecentTransactions []TransactionRow `json:"recentTransactions"`
		SavingGoals        []GoalProgress   `json:"savingGoals"`
	}
)

// TotalBalance is income minus expense over all of the user's
// transactions. It can be negative and is never clamped.
func (e *Engine) TotalBalance(ctx context.Context, userID int64) (core.Money, error) {
	income, expense, err := e.store.IncomeExpenseTotals(ctx, userID)
	if err != nil {
		return core.Money{}, fmt.Errorf("total balance: %w", err)
	}
	return income.Sub(expense), nil
}

// IncomeExpenseTotals returns the all-time income and expense sums.
// Both are zero for a user with no transactions.
func (e *Engine) IncomeExpenseTotals(ctx context.Context, userID int64) (income, expense core.Money, err error) {
	income, expense, err = e.store.IncomeExpenseTotals(ctx, userID)
	if err != nil {
		return core.Money{}, core.Money{}, fmt.Errorf("income/expense totals: %w", err)
	}
	return income, expense, nil
}

// TotalSavings sums saved amounts across all of the user's goals.
func (e *Engine) TotalSavings(ctx context.Context, userID int64) (core.Money, error) {
	savings, err := e.store.TotalSavedAmount(ctx, userID)
	if err != nil {
		return core.Money{}, fmt.Errorf("total savings: %w", err)
	}
	return savings, nil
}

// RecentTransactions returns the limit most recent transactions shaped
// for a response. A non-positive limit falls back to the default of 5.
func (e *Engine) RecentTransactions(ctx context.Context, userID int64, limit int) ([]TransactionRow, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	txs, err := e.store.RecentTransactions(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("recent transactions: %w", err)
	}
	return shapeTransactions(txs), nil
}

// SavingGoalsSnapshot returns all of the user's goals with progress
// derived as saved/target, clamped to [0, 100] and 0 when target is not
// positive.
func (e *Engine) SavingGoalsSnapshot(ctx context.Context, userID int64) ([]GoalProgress, error) {
	goals, err := e.store.GoalsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("saving goals: %w", err)
	}

	out := make([]GoalProgress, 0, len(goals))
	for _, g := range goals {
		out = append(out, GoalProgress{
			ID:       g.ID,
			Name:     g.Name,
			Target:   g.Target.Float64(),
			Saved:    g.Saved.Float64(),
			Deadline: g.Deadline.String(),
			Progress: core.Percent(g.Saved, g.Target),
		})
	}
	return out, nil
}

// BudgetsWithSpend returns each budget row with derived spend, remaining
// (which goes negative when over budget) and clamped progress.
func (e *Engine) BudgetsWithSpend(ctx context.Context, userID int64) ([]BudgetStatus, error) {
	budgets, err := e.store.BudgetsWithSpend(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("budgets with spend: %w", err)
	}

	out := make([]BudgetStatus, 0, len(budgets))
	for _, b := range budgets {
		out = append(out, BudgetStatus{
			ID:           b.ID,
			CategoryName: b.CategoryName,
			MonthlyLimit: b.MonthlyLimit.Float64(),
			Spent:        b.Spent.Float64(),
			Remaining:    b.MonthlyLimit.Sub(b.Spent).Float64(),
			Progress:     core.Percent(b.Spent, b.MonthlyLimit),
		})
	}
	return out, nil
}

// IncomeExpenseByMonth returns one row per calendar month that has at
// least one transaction, chronologically ascending.
func (e *Engine) IncomeExpenseByMonth(ctx context.Context, userID int64) ([]MonthlyFlow, error) {
	months, err := e.store.MonthlyTotals(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("income/expense by month: %w", err)
	}

	out := make([]MonthlyFlow, 0, len(months))
	for _, m := range months {
		out = append(out, MonthlyFlow{
			Month:   monthLabel(m.Year, m.Month),
			Income:  m.Income.Float64(),
			Expense: m.Expense.Float64(),
		})
	}
	return out, nil
}

// SavingsTrendByMonth is the per-month income minus expense series.
func (e *Engine) SavingsTrendByMonth(ctx context.Context, userID int64) ([]MonthlySavings, error) {
	months, err := e.store.MonthlyTotals(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("savings trend: %w", err)
	}

	out := make([]MonthlySavings, 0, len(months))
	for _, m := range months {
		out = append(out, MonthlySavings{
			Month:   monthLabel(m.Year, m.Month),
			Savings: m.Income.Sub(m.Expense).Float64(),
		})
	}
	return out, nil
}

// CategorySpending groups expense transactions by category, descending
// by amount.
func (e *Engine) CategorySpending(ctx context.Context, userID int64) ([]CategoryAmount, error) {
	totals, err := e.store.ExpenseByCategory(ctx, userID, 0)
	if err != nil {
		return nil, fmt.Errorf("category spending: %w", err)
	}
	return shapeCategoryTotals(totals), nil
}

// TopCategories is CategorySpending truncated to the top limit rows, so
// it is always a prefix of the full ordering.
func (e *Engine) TopCategories(ctx context.Context, userID int64, limit int) ([]CategoryAmount, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	totals, err := e.store.ExpenseByCategory(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("top categories: %w", err)
	}
	return shapeCategoryTotals(totals), nil
}

// Dashboard composes the dashboard figures. The four underlying reads
// are independent, so they fan out concurrently; any failing read fails
// the whole call rather than surfacing partial numbers.
func (e *Engine) Dashboard(ctx context.Context, userID int64) (DashboardMetrics, error) {
	var (
		income, expense core.Money
		savings         core.Money
		recent          []core.TransactionWithCategory
		goals           []GoalProgress
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		income, expense, err = e.store.IncomeExpenseTotals(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		savings, err = e.store.TotalSavedAmount(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		recent, err = e.store.RecentTransactions(gctx, userID, defaultLimit)
		return err
	})
	g.Go(func() error {
		var err error
		goals, err = e.SavingGoalsSnapshot(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return DashboardMetrics{}, fmt.Errorf("dashboard: %w", err)
	}

	return DashboardMetrics{
		TotalBalance:       income.Sub(expense).Float64(),
		Income:             income.Float64(),
		Expense:            expense.Float64(),
		TotalSavings:       savings.Float64(),
		RecentTransactions: shapeTransactions(recent),
		SavingGoals:        goals,
	}, nil
}

// monthLabel renders a (year, month) grouping key as "January 2025".
func monthLabel(year, month int) string {
	return fmt.Sprintf("%s %d", time.Month(month).String(), year)
}

func shapeTransactions(txs []core.TransactionWithCategory) []TransactionRow {
	out := make([]TransactionRow, 0, len(txs))
	for _, t := range txs {
		out = append(out, TransactionRow{
			ID:           t.ID,
			Date:         t.Date.String(),
			Amount:       t.Amount.Float64(),
			Type:         string(t.Type),
			Description:  t.Description,
			CategoryName: t.CategoryName,
		})
	}
	return out
}

func shapeCategoryTotals(totals []core.CategoryTotal) []CategoryAmount {
	out := make([]CategoryAmount, 0, len(totals))
	for _, ct := range totals {
		out = append(out, CategoryAmount{Category: ct.Name, Amount: ct.Amount.Float64()})
	}
	return out
}
