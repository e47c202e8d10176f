package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

type (
	// TransactionType classifies a transaction as money in or money out.
	TransactionType string

	Date struct {
		time.Time
	}

	// Money is an exact amount in cents. SQL sums stay on integers; the
	// decimal boundary lives in money.go.
	Money struct {
		Cents int64
	}

	User struct {
		ID       int64
		Name     string
		Email    string
		Password string
	}

	Category struct {
		ID   int64
		Name string
	}

	Transaction struct {
		ID          int64
		UserID      int64
		CategoryID  int64
		Type        TransactionType
		Amount      Money
		Date        Date
		Description string
	}

	// TransactionWithCategory is a transaction joined with its category name
	// for list views. CategoryName is empty when the category is gone.
	TransactionWithCategory struct {
		Transaction
		CategoryName string
	}

	// Budget is a per-category monthly ceiling. Duplicate (user, category)
	// rows are allowed and act as independent ceilings.
	Budget struct {
		ID           int64
		UserID       int64
		CategoryID   int64
		MonthlyLimit Money
	}

	// BudgetSpend is a budget row with its derived all-time spend for the
	// owning user and category.
	BudgetSpend struct {
		Budget
		CategoryName string
		Spent        Money
	}

	Goal struct {
		ID       int64
		UserID   int64
		Name     string
		Target   Money
		Saved    Money
		Deadline Date
	}

	// MonthlyTotals carries income and expense sums for one calendar month.
	MonthlyTotals struct {
		Year    int
		Month   int
		Income  Money
		Expense Money
	}

	// CategoryTotal is the summed expense amount for one category.
	CategoryTotal struct {
		CategoryID int64
		Name       string
		Amount     Money
	}

	// AuditEntry records one applied ledger mutation.
	AuditEntry struct {
		EventID    string
		Entity     string
		Action     string
		EntityID   int64
		UserID     int64
		OccurredAt time.Time
	}
)

var (
	ErrNotFound      = errors.New("not found")
	ErrEmailTaken    = errors.New("email already registered")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidType   = errors.New("invalid transaction type")
	ErrInvalidDate   = errors.New("invalid date")
)

// ValidationError reports which input field was rejected and why. It is
// always surfaced before any store access happens.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}

// Invalid builds a ValidationError for the given field.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err classifies as a caller input error.
func IsValidation(err error) bool {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return true
	}
	return errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrInvalidType) ||
		errors.Is(err, ErrInvalidDate)
}

// NewDate creates a Date from year, month, day in UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// String renders the date in YYYY-MM-DD, the form it is stored in.
func (d Date) String() string {
	return d.Format("2006-01-02")
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (t TransactionType) Validate() error {
	switch t {
	case Income, Expense:
		return nil
	}
	return ErrInvalidType
}

func (tx Transaction) Validate() error {
	if tx.UserID <= 0 {
		return Invalid("userId", "must be a positive identifier")
	}
	if tx.CategoryID <= 0 {
		return Invalid("category", "must reference a category")
	}
	if err := tx.Type.Validate(); err != nil {
		return Invalid("type", "must be income or expense")
	}
	if tx.Amount.Cents <= 0 {
		return Invalid("amount", "must be positive")
	}
	if err := tx.Date.Validate(); err != nil {
		return Invalid("date", "must be a valid date")
	}
	if len(tx.Description) > 200 {
		return Invalid("description", "too long (max 200 characters)")
	}
	return nil
}

func (b Budget) Validate() error {
	if b.UserID <= 0 {
		return Invalid("userId", "must be a positive identifier")
	}
	if b.CategoryID <= 0 {
		return Invalid("category_id", "must reference a category")
	}
	if b.MonthlyLimit.Cents <= 0 {
		return Invalid("monthly_limit", "must be positive")
	}
	return nil
}

func (g Goal) Validate() error {
	if g.UserID <= 0 {
		return Invalid("userId", "must be a positive identifier")
	}
	if strings.TrimSpace(g.Name) == "" {
		return Invalid("name", "must not be empty")
	}
	if g.Target.Cents <= 0 {
		return Invalid("target", "must be positive")
	}
	if err := g.Deadline.Validate(); err != nil {
		return Invalid("deadline", "must be a valid date")
	}
	return nil
}
