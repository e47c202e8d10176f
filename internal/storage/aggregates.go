package storage

import (
	"context"
	"fmt"

	"fintrack/internal/core"
)

// Aggregation queries backing the metrics engine. All of them are
// read-only and recompute from current rows on every call; sums run on
// integer cents so no rounding drift can accumulate.

// IncomeExpenseTotals sums all-time income and expense amounts for a
// user. A user with no transactions gets zero for both.
func (r *Repository) IncomeExpenseTotals(ctx context.Context, userID int64) (income, expense core.Money, err error) {
	err = r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(CASE WHEN type = 'income' THEN amount_cents ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN type = 'expense' THEN amount_cents ELSE 0 END), 0)
		 FROM transactions
		 WHERE user_id = ?`, userID).Scan(&income.Cents, &expense.Cents)
	if err != nil {
		return core.Money{}, core.Money{}, fmt.Errorf("sum income/expense: %w", err)
	}
	return income, expense, nil
}

// TotalSavedAmount sums saved amounts across all of a user's goals.
func (r *Repository) TotalSavedAmount(ctx context.Context, userID int64) (core.Money, error) {
	var total core.Money
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(saved_cents), 0) FROM goals WHERE user_id = ?`,
		userID).Scan(&total.Cents)
	if err != nil {
		return core.Money{}, fmt.Errorf("sum goal savings: %w", err)
	}
	return total, nil
}

// RecentTransactions returns the limit most recent transactions by date,
// ties broken by insertion order, joined with category names.
func (r *Repository) RecentTransactions(ctx context.Context, userID int64, limit int) ([]core.TransactionWithCategory, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT t.id, t.user_id, t.category_id, t.type, t.amount_cents, t.date, t.description,
		        COALESCE(c.name, '')
		 FROM transactions t
		 LEFT JOIN categories c ON t.category_id = c.id
		 WHERE t.user_id = ?
		 ORDER BY t.date DESC, t.id ASC
		 LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("select recent transactions: %w", err)
	}
	defer rows.Close()

	return scanTransactionRows(rows)
}

// BudgetsWithSpend returns every budget row for the user together with
// the derived spend: the all-time sum of the user's transaction amounts
// in that budget's category. Duplicate budgets on a category each carry
// the same spend.
func (r *Repository) BudgetsWithSpend(ctx context.Context, userID int64) ([]core.BudgetSpend, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT b.id, b.user_id, b.category_id, b.monthly_limit_cents, COALESCE(c.name, ''),
		        COALESCE((SELECT SUM(t.amount_cents)
		                  FROM transactions t
		                  WHERE t.user_id = b.user_id AND t.category_id = b.category_id), 0)
		 FROM budgets b
		 LEFT JOIN categories c ON b.category_id = c.id
		 WHERE b.user_id = ?
		 ORDER BY b.id`, userID)
	if err != nil {
		return nil, fmt.Errorf("select budgets with spend: %w", err)
	}
	defer rows.Close()

	var budgets []core.BudgetSpend
	for rows.Next() {
		var b core.BudgetSpend
		err := rows.Scan(&b.ID, &b.UserID, &b.CategoryID, &b.MonthlyLimit.Cents,
			&b.CategoryName, &b.Spent.Cents)
		if err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		budgets = append(budgets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate budgets: %w", err)
	}
	return budgets, nil
}

// MonthlyTotals groups a user's transactions by calendar month and sums
// income and expense per group, chronologically ascending. Months with
// no transactions produce no row.
func (r *Repository) MonthlyTotals(ctx context.Context, userID int64) ([]core.MonthlyTotals, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT CAST(strftime('%Y', date) AS INTEGER) AS year,
		        CAST(strftime('%m', date) AS INTEGER) AS month,
		        SUM(CASE WHEN type = 'income' THEN amount_cents ELSE 0 END),
		        SUM(CASE WHEN type = 'expense' THEN amount_cents ELSE 0 END)
		 FROM transactions
		 WHERE user_id = ?
		 GROUP BY year, month
		 ORDER BY year, month`, userID)
	if err != nil {
		return nil, fmt.Errorf("select monthly totals: %w", err)
	}
	defer rows.Close()

	var months []core.MonthlyTotals
	for rows.Next() {
		var m core.MonthlyTotals
		if err := rows.Scan(&m.Year, &m.Month, &m.Income.Cents, &m.Expense.Cents); err != nil {
			return nil, fmt.Errorf("scan monthly totals: %w", err)
		}
		months = append(months, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate monthly totals: %w", err)
	}
	return months, nil
}

// ExpenseByCategory sums expense-classified transactions per category,
// ordered by amount descending. A non-positive limit returns all rows.
func (r *Repository) ExpenseByCategory(ctx context.Context, userID int64, limit int) ([]core.CategoryTotal, error) {
	if limit <= 0 {
		limit = -1 // no limit in SQLite
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT t.category_id, COALESCE(c.name, ''), SUM(t.amount_cents) AS total
		 FROM transactions t
		 LEFT JOIN categories c ON t.category_id = c.id
		 WHERE t.user_id = ? AND t.type = 'expense'
		 GROUP BY t.category_id
		 ORDER BY total DESC
		 LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("select category spending: %w", err)
	}
	defer rows.Close()

	var totals []core.CategoryTotal
	for rows.Next() {
		var ct core.CategoryTotal
		if err := rows.Scan(&ct.CategoryID, &ct.Name, &ct.Amount.Cents); err != nil {
			return nil, fmt.Errorf("scan category total: %w", err)
		}
		totals = append(totals, ct)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category totals: %w", err)
	}
	return totals, nil
}
