package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"fintrack/internal/core"
	"fintrack/internal/metrics"
)

// fakeLedger backs the handlers with an in-memory map of entities.
type fakeLedger struct {
	nextID       int64
	users        map[string]core.User
	transactions map[int64]core.Transaction
	budgets      map[int64]core.Budget
	goals        map[int64]core.Goal
	err          error
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		users:        make(map[string]core.User),
		transactions: make(map[int64]core.Transaction),
		budgets:      make(map[int64]core.Budget),
		goals:        make(map[int64]core.Goal),
	}
}

func (f *fakeLedger) nextIdentifier() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeLedger) Register(ctx context.Context, name, email, password string) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	if _, ok := f.users[email]; ok {
		return 0, core.ErrEmailTaken
	}
	id := f.nextIdentifier()
	f.users[email] = core.User{ID: id, Name: name, Email: email, Password: password}
	return id, nil
}

func (f *fakeLedger) Login(ctx context.Context, email, password string) (core.User, error) {
	u, ok := f.users[email]
	if !ok || u.Password != password {
		return core.User{}, core.ErrNotFound
	}
	return u, nil
}

func (f *fakeLedger) Categories(ctx context.Context) ([]core.Category, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []core.Category{{ID: 1, Name: "Groceries"}, {ID: 2, Name: "Rent"}}, nil
}

func (f *fakeLedger) Transactions(ctx context.Context, userID int64) ([]core.TransactionWithCategory, error) {
	var out []core.TransactionWithCategory
	for _, tx := range f.transactions {
		if tx.UserID == userID {
			out = append(out, core.TransactionWithCategory{Transaction: tx, CategoryName: "Groceries"})
		}
	}
	return out, nil
}

func (f *fakeLedger) CreateTransaction(ctx context.Context, tx core.Transaction) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	tx.ID = f.nextIdentifier()
	f.transactions[tx.ID] = tx
	return tx.ID, nil
}

func (f *fakeLedger) UpdateTransaction(ctx context.Context, tx core.Transaction) error {
	if _, ok := f.transactions[tx.ID]; !ok {
		return core.ErrNotFound
	}
	f.transactions[tx.ID] = tx
	return nil
}

func (f *fakeLedger) DeleteTransaction(ctx context.Context, id int64) error {
	if _, ok := f.transactions[id]; !ok {
		return core.ErrNotFound
	}
	delete(f.transactions, id)
	return nil
}

func (f *fakeLedger) CreateBudget(ctx context.Context, b core.Budget) (int64, error) {
	b.ID = f.nextIdentifier()
	f.budgets[b.ID] = b
	return b.ID, nil
}

func (f *fakeLedger) UpdateBudgetLimit(ctx context.Context, id int64, limit core.Money) error {
	b, ok := f.budgets[id]
	if !ok {
		return core.ErrNotFound
	}
	b.MonthlyLimit = limit
	f.budgets[id] = b
	return nil
}

func (f *fakeLedger) DeleteBudget(ctx context.Context, id int64) error {
	if _, ok := f.budgets[id]; !ok {
		return core.ErrNotFound
	}
	delete(f.budgets, id)
	return nil
}

func (f *fakeLedger) CreateGoal(ctx context.Context, g core.Goal) (int64, error) {
	g.ID = f.nextIdentifier()
	f.goals[g.ID] = g
	return g.ID, nil
}

func (f *fakeLedger) AddSavings(ctx context.Context, goalID int64, amount core.Money) error {
	g, ok := f.goals[goalID]
	if !ok {
		return core.ErrNotFound
	}
	g.Saved = g.Saved.Add(amount)
	f.goals[goalID] = g
	return nil
}

func (f *fakeLedger) DeleteGoal(ctx context.Context, id int64) error {
	if _, ok := f.goals[id]; !ok {
		return core.ErrNotFound
	}
	delete(f.goals, id)
	return nil
}

// fakeInsights returns canned metric payloads.
type fakeInsights struct {
	dashboard metrics.DashboardMetrics
	budgets   []metrics.BudgetStatus
	goals     []metrics.GoalProgress
	months    []metrics.MonthlyFlow
	trend     []metrics.MonthlySavings
	byCat     []metrics.CategoryAmount
	err       error
}

func (f *fakeInsights) Dashboard(ctx context.Context, userID int64) (metrics.DashboardMetrics, error) {
	return f.dashboard, f.err
}

func (f *fakeInsights) BudgetsWithSpend(ctx context.Context, userID int64) ([]metrics.BudgetStatus, error) {
	return f.budgets, f.err
}

func (f *fakeInsights) SavingGoalsSnapshot(ctx context.Context, userID int64) ([]metrics.GoalProgress, error) {
	return f.goals, f.err
}

func (f *fakeInsights) IncomeExpenseByMonth(ctx context.Context, userID int64) ([]metrics.MonthlyFlow, error) {
	return f.months, f.err
}

func (f *fakeInsights) SavingsTrendByMonth(ctx context.Context, userID int64) ([]metrics.MonthlySavings, error) {
	return f.trend, f.err
}

func (f *fakeInsights) CategorySpending(ctx context.Context, userID int64) ([]metrics.CategoryAmount, error) {
	return f.byCat, f.err
}

func (f *fakeInsights) TopCategories(ctx context.Context, userID int64, limit int) ([]metrics.CategoryAmount, error) {
	if f.err != nil {
		return nil, f.err
	}
	if limit > 0 && limit < len(f.byCat) {
		return f.byCat[:limit], nil
	}
	return f.byCat, nil
}

func newTestServer(t *testing.T, ledger Ledger, insights Insights) *Server {
	t.Helper()

	s := NewServer(":0", ledger, insights)
	t.Cleanup(func() { s.Shutdown(context.Background()) })
	return s
}

func doRequest(s *Server, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t, newFakeLedger(), &fakeInsights{})

	for _, path := range []string{"/healthz", "/readyz"} {
		rec := doRequest(s, http.MethodGet, path, "")
		if rec.Code != http.StatusOK {
			t.Errorf("%s status = %d, want 200", path, rec.Code)
		}
	}
}

func TestRegister(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{
			name:       "valid",
			body:       `{"name":"Alice","email":"alice@example.com","password":"secret"}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "missing name",
			body:       `{"email":"alice@example.com","password":"secret"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "email without at sign",
			body:       `{"name":"Alice","email":"not-an-email","password":"secret"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing password",
			body:       `{"name":"Alice","email":"alice@example.com"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed body",
			body:       `{"name":`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, newFakeLedger(), &fakeInsights{})
			rec := doRequest(s, http.MethodPost, "/api/register", tt.body)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
		})
	}
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	s := newTestServer(t, newFakeLedger(), &fakeInsights{})
	body := `{"name":"Alice","email":"alice@example.com","password":"secret"}`

	if rec := doRequest(s, http.MethodPost, "/api/register", body); rec.Code != http.StatusCreated {
		t.Fatalf("first register status = %d, want 201", rec.Code)
	}
	rec := doRequest(s, http.MethodPost, "/api/register", body)
	if rec.Code != http.StatusConflict {
		t.Fatalf("second register status = %d, want 409", rec.Code)
	}
	got := decodeBody[map[string]string](t, rec)
	if got["error"] != "email already exists" {
		t.Errorf("error body = %q", got["error"])
	}
}

func TestLogin(t *testing.T) {
	ledger := newFakeLedger()
	s := newTestServer(t, ledger, &fakeInsights{})

	doRequest(s, http.MethodPost, "/api/register", `{"name":"Alice","email":"alice@example.com","password":"secret"}`)

	rec := doRequest(s, http.MethodPost, "/api/login", `{"email":"alice@example.com","password":"secret"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	resp := decodeBody[struct {
		Message string `json:"message"`
		User    struct {
			ID    int64  `json:"user_id"`
			Name  string `json:"name"`
			Email string `json:"email"`
		} `json:"user"`
	}](t, rec)
	if resp.User.Email != "alice@example.com" || resp.User.ID <= 0 {
		t.Errorf("login user = %+v", resp.User)
	}
	if strings.Contains(rec.Body.String(), "secret") {
		t.Error("login response leaks the credential secret")
	}

	// Bad credentials are unauthorized, not missing.
	rec = doRequest(s, http.MethodPost, "/api/login", `{"email":"alice@example.com","password":"wrong"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("bad credentials status = %d, want 401", rec.Code)
	}
}

func TestUserIDParamRequired(t *testing.T) {
	s := newTestServer(t, newFakeLedger(), &fakeInsights{})

	paths := []string{
		"/api/transactions",
		"/api/budgets",
		"/api/goals",
		"/api/dashboard",
		"/api/insights/income-expense",
		"/api/insights/category-spending",
		"/api/insights/savings-trend",
		"/api/insights/top-categories",
	}
	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			rec := doRequest(s, http.MethodGet, path, "")
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status without userId = %d, want 400", rec.Code)
			}

			rec = doRequest(s, http.MethodGet, path+"?userId=abc", "")
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status with bad userId = %d, want 400", rec.Code)
			}
		})
	}
}

func TestTransactionEndpoints(t *testing.T) {
	ledger := newFakeLedger()
	s := newTestServer(t, ledger, &fakeInsights{})

	body := `{"userId":1,"category":1,"type":"expense","amount":45.50,"date":"2025-01-15","description":"weekly shop"}`
	rec := doRequest(s, http.MethodPost, "/api/transactions", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, want 201 (body %s)", rec.Code, rec.Body.String())
	}
	created := decodeBody[struct {
		ID int64 `json:"id"`
	}](t, rec)
	if created.ID <= 0 {
		t.Fatalf("created id = %d", created.ID)
	}
	if got := ledger.transactions[created.ID]; got.Amount.Cents != 4550 {
		t.Errorf("stored amount = %d cents, want 4550", got.Amount.Cents)
	}

	rec = doRequest(s, http.MethodGet, "/api/transactions?userId=1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d, want 200", rec.Code)
	}
	rows := decodeBody[[]map[string]any](t, rec)
	if len(rows) != 1 {
		t.Fatalf("listed rows = %d, want 1", len(rows))
	}
	if rows[0]["amount"] != 45.5 || rows[0]["date"] != "2025-01-15" {
		t.Errorf("listed row = %+v", rows[0])
	}

	update := `{"userId":1,"category":1,"type":"expense","amount":50.00,"date":"2025-01-15","description":"updated"}`
	rec = doRequest(s, http.MethodPut, fmt.Sprintf("/api/transactions/%d", created.ID), update)
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	if got := ledger.transactions[created.ID]; got.Amount.Cents != 5000 || got.Description != "updated" {
		t.Errorf("updated transaction = %+v", got)
	}

	rec = doRequest(s, http.MethodDelete, fmt.Sprintf("/api/transactions/%d", created.ID), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d, want 200", rec.Code)
	}
	rec = doRequest(s, http.MethodDelete, fmt.Sprintf("/api/transactions/%d", created.ID), "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", rec.Code)
	}
}

func TestCreateTransactionValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "missing user", body: `{"category":1,"type":"expense","amount":10,"date":"2025-01-15"}`},
		{name: "missing category", body: `{"userId":1,"type":"expense","amount":10,"date":"2025-01-15"}`},
		{name: "bad type", body: `{"userId":1,"category":1,"type":"transfer","amount":10,"date":"2025-01-15"}`},
		{name: "zero amount", body: `{"userId":1,"category":1,"type":"expense","amount":0,"date":"2025-01-15"}`},
		{name: "negative amount", body: `{"userId":1,"category":1,"type":"expense","amount":-5,"date":"2025-01-15"}`},
		{name: "bad date", body: `{"userId":1,"category":1,"type":"expense","amount":10,"date":"15/01/2025"}`},
		{name: "missing date", body: `{"userId":1,"category":1,"type":"expense","amount":10}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger := newFakeLedger()
			s := newTestServer(t, ledger, &fakeInsights{})
			rec := doRequest(s, http.MethodPost, "/api/transactions", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400 (body %s)", rec.Code, rec.Body.String())
			}
			if len(ledger.transactions) != 0 {
				t.Error("invalid request reached the ledger")
			}
		})
	}
}

func TestBudgetEndpoints(t *testing.T) {
	ledger := newFakeLedger()
	insights := &fakeInsights{budgets: []metrics.BudgetStatus{
		{ID: 1, CategoryName: "Groceries", MonthlyLimit: 400, Spent: 205, Remaining: 195, Progress: 51.25},
	}}
	s := newTestServer(t, ledger, insights)

	rec := doRequest(s, http.MethodPost, "/api/budgets", `{"userId":1,"category_id":1,"monthly_limit":400}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, want 201 (body %s)", rec.Code, rec.Body.String())
	}
	created := decodeBody[struct {
		ID int64 `json:"id"`
	}](t, rec)

	rec = doRequest(s, http.MethodGet, "/api/budgets?userId=1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d, want 200", rec.Code)
	}
	rows := decodeBody[[]map[string]any](t, rec)
	if len(rows) != 1 || rows[0]["category_name"] != "Groceries" {
		t.Errorf("budget list = %+v", rows)
	}

	rec = doRequest(s, http.MethodPut, fmt.Sprintf("/api/budgets/%d", created.ID), `{"monthly_limit":500}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d, want 200", rec.Code)
	}
	if got := ledger.budgets[created.ID]; got.MonthlyLimit.Cents != 50000 {
		t.Errorf("updated limit = %d cents, want 50000", got.MonthlyLimit.Cents)
	}

	rec = doRequest(s, http.MethodPut, "/api/budgets/999", `{"monthly_limit":500}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("update missing status = %d, want 404", rec.Code)
	}

	rec = doRequest(s, http.MethodDelete, fmt.Sprintf("/api/budgets/%d", created.ID), "")
	if rec.Code != http.StatusOK {
		t.Errorf("delete status = %d, want 200", rec.Code)
	}
}

func TestGoalEndpoints(t *testing.T) {
	ledger := newFakeLedger()
	s := newTestServer(t, ledger, &fakeInsights{})

	rec := doRequest(s, http.MethodPost, "/api/goals", `{"userId":1,"name":"Vacation","target":5000,"deadline":"2026-06-01"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, want 201 (body %s)", rec.Code, rec.Body.String())
	}
	created := decodeBody[struct {
		ID int64 `json:"id"`
	}](t, rec)

	// Savings increments accumulate.
	for range 2 {
		rec = doRequest(s, http.MethodPut, fmt.Sprintf("/api/goals/%d/savings", created.ID), `{"amount":125}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("add savings status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
		}
	}
	if got := ledger.goals[created.ID]; got.Saved.Cents != 25000 {
		t.Errorf("saved = %d cents, want 25000", got.Saved.Cents)
	}

	rec = doRequest(s, http.MethodPut, fmt.Sprintf("/api/goals/%d/savings", created.ID), `{"amount":-10}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("negative savings status = %d, want 400", rec.Code)
	}

	rec = doRequest(s, http.MethodPut, "/api/goals/999/savings", `{"amount":10}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("savings for missing goal status = %d, want 404", rec.Code)
	}

	rec = doRequest(s, http.MethodDelete, fmt.Sprintf("/api/goals/%d", created.ID), "")
	if rec.Code != http.StatusOK {
		t.Errorf("delete status = %d, want 200", rec.Code)
	}
}

func TestDashboardEndpoint(t *testing.T) {
	insights := &fakeInsights{dashboard: metrics.DashboardMetrics{
		TotalBalance:       650,
		Income:             1000,
		Expense:            350,
		TotalSavings:       1250,
		RecentTransactions: []metrics.TransactionRow{},
		SavingGoals:        []metrics.GoalProgress{},
	}}
	s := newTestServer(t, newFakeLedger(), insights)

	rec := doRequest(s, http.MethodGet, "/api/dashboard?userId=1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("dashboard status = %d, want 200", rec.Code)
	}

	got := decodeBody[map[string]any](t, rec)
	if got["totalBalance"] != 650.0 || got["income"] != 1000.0 || got["expense"] != 350.0 {
		t.Errorf("dashboard figures = %+v", got)
	}
	// Empty collections render as [], never null.
	if _, ok := got["recentTransactions"].([]any); !ok {
		t.Errorf("recentTransactions = %v, want array", got["recentTransactions"])
	}
	if _, ok := got["savingGoals"].([]any); !ok {
		t.Errorf("savingGoals = %v, want array", got["savingGoals"])
	}
}

func TestInsightEndpoints(t *testing.T) {
	insights := &fakeInsights{
		months: []metrics.MonthlyFlow{{Month: "January 2025", Income: 1000, Expense: 200}},
		trend:  []metrics.MonthlySavings{{Month: "January 2025", Savings: 800}},
		byCat: []metrics.CategoryAmount{
			{Category: "Rent", Amount: 900},
			{Category: "Groceries", Amount: 80},
		},
	}
	s := newTestServer(t, newFakeLedger(), insights)

	rec := doRequest(s, http.MethodGet, "/api/insights/income-expense?userId=1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("income-expense status = %d", rec.Code)
	}
	months := decodeBody[[]map[string]any](t, rec)
	if len(months) != 1 || months[0]["month"] != "January 2025" {
		t.Errorf("income-expense = %+v", months)
	}

	rec = doRequest(s, http.MethodGet, "/api/insights/savings-trend?userId=1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("savings-trend status = %d", rec.Code)
	}

	rec = doRequest(s, http.MethodGet, "/api/insights/category-spending?userId=1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("category-spending status = %d", rec.Code)
	}
	cats := decodeBody[[]map[string]any](t, rec)
	if len(cats) != 2 || cats[0]["category"] != "Rent" {
		t.Errorf("category-spending = %+v", cats)
	}

	rec = doRequest(s, http.MethodGet, "/api/insights/top-categories?userId=1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("top-categories status = %d", rec.Code)
	}
}

func TestCategoriesEndpoint(t *testing.T) {
	s := newTestServer(t, newFakeLedger(), &fakeInsights{})

	rec := doRequest(s, http.MethodGet, "/api/categories", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("categories status = %d, want 200", rec.Code)
	}
	cats := decodeBody[[]map[string]any](t, rec)
	if len(cats) != 2 || cats[0]["category_name"] != "Groceries" {
		t.Errorf("categories = %+v", cats)
	}
}

func TestInternalErrorsAreOpaque(t *testing.T) {
	ledger := newFakeLedger()
	ledger.err = errors.New("disk full: /data/fintrack.db")
	s := newTestServer(t, ledger, &fakeInsights{err: errors.New("disk full: /data/fintrack.db")})

	rec := doRequest(s, http.MethodGet, "/api/dashboard?userId=1", "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "disk full") {
		t.Error("internal error detail leaked to the client")
	}
	got := decodeBody[map[string]string](t, rec)
	if got["error"] != "internal server error" {
		t.Errorf("error body = %q", got["error"])
	}
}

func TestSecurityHeaders(t *testing.T) {
	s := newTestServer(t, newFakeLedger(), &fakeInsights{})

	rec := doRequest(s, http.MethodGet, "/api/categories", "")
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}
	if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q", got)
	}
}

func TestRateLimitOnWrites(t *testing.T) {
	s := newTestServer(t, newFakeLedger(), &fakeInsights{})

	body := `{"userId":1,"category":1,"type":"expense","amount":10,"date":"2025-01-15"}`
	var limited bool
	for i := 0; i < 70; i++ {
		rec := doRequest(s, http.MethodPost, "/api/transactions", body)
		if rec.Code == http.StatusTooManyRequests {
			limited = true
			if got := rec.Header().Get("Retry-After"); got != "60" {
				t.Errorf("Retry-After = %q, want 60", got)
			}
			break
		}
	}
	if !limited {
		t.Error("write requests never rate limited")
	}

	// Reads are never limited.
	for i := 0; i < 70; i++ {
		rec := doRequest(s, http.MethodGet, "/api/categories", "")
		if rec.Code == http.StatusTooManyRequests {
			t.Fatal("read request rate limited")
		}
	}
}

func TestPathIDValidation(t *testing.T) {
	s := newTestServer(t, newFakeLedger(), &fakeInsights{})

	for _, target := range []string{"/api/transactions/abc", "/api/transactions/0", "/api/transactions/-1"} {
		rec := doRequest(s, http.MethodDelete, target, "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s status = %d, want 400", target, rec.Code)
		}
	}
}

func TestRequestID(t *testing.T) {
	if got := RequestID(context.Background()); got != "" {
		t.Errorf("RequestID outside a request = %q, want empty", got)
	}

	ctx := withRequestID(context.Background(), "req-1")
	if got := RequestID(ctx); got != "req-1" {
		t.Errorf("RequestID = %q, want req-1", got)
	}
}
