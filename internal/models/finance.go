package models

import "time"

// TransactionType is either income or expense.
type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

// Valid reports whether t is one of the two known transaction types.
func (t TransactionType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// User represents a user account.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Transaction represents a single income or expense record.
type Transaction struct {
	ID          int64           `json:"id"`
	UserID      int64           `json:"user_id"`
	Type        TransactionType `json:"type"`
	Category    string          `json:"category"`
	Amount      float64         `json:"amount"`
	Description string          `json:"description"`
	Date        time.Time       `json:"date"`
}

// Budget is a per-category spending ceiling for one month of one year.
type Budget struct {
	ID       int64   `json:"id"`
	UserID   int64   `json:"user_id"`
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
	Month    int     `json:"month"`
	Year     int     `json:"year"`
}

// BudgetStatus compares a budget against actual spend in its month.
type BudgetStatus struct {
	Category   string
	Budget     float64
	Spent      float64
	Percentage float64
	Exceeded   bool
}

// CategoryAmount is a category's expense total within a reporting period.
type CategoryAmount struct {
	Category string
	Amount   float64
}

// MonthlySummary holds the aggregates behind a monthly report.
type MonthlySummary struct {
	TotalIncome   float64
	TotalExpenses float64
	ByCategory    []CategoryAmount
}

// MonthTotals is one month's slice of a yearly report. Month is 1-indexed.
type MonthTotals struct {
	Month    int
	Income   float64
	Expenses float64
}

// YearlySummary holds the aggregates behind a yearly report. Months only
// contains months that have at least one transaction, ascending.
type YearlySummary struct {
	TotalIncome   float64
	TotalExpenses float64
	Months        []MonthTotals
}

// CategoryStats describes a category's expense transactions over a period.
type CategoryStats struct {
	Category string
	Count    int
	Total    float64
	Average  float64
	Min      float64
	Max      float64
}
