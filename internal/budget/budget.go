// Package budget manages per-category monthly spending ceilings and their
// status against actual spend.
package budget

import (
	"fmt"
	"time"

	"fintrack/internal/models"
	"fintrack/internal/reports"
)

// Store is the persistence surface the budget service needs.
type Store interface {
	UpsertBudget(userID int64, category string, amount float64, month, year int) error
	ListBudgets(userID int64, month, year int) ([]models.Budget, error)
	BudgetStatus(userID int64, month, year int) ([]models.BudgetStatus, error)
}

// Service manages a user's budgets.
type Service struct {
	store Store
}

// NewService creates a budget service.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Set creates or replaces the budget for (userID, category, month, year).
// An existing budget has its amount replaced; no duplicate row is created.
func (s *Service) Set(userID int64, category string, amount float64, month, year int) error {
	if err := s.store.UpsertBudget(userID, category, amount, month, year); err != nil {
		return fmt.Errorf("set budget: %w", err)
	}
	return nil
}

// List retrieves a user's budgets; month/year of 0 leave that dimension
// unfiltered.
func (s *Service) List(userID int64, month, year int) ([]models.Budget, error) {
	return s.store.ListBudgets(userID, month, year)
}

// Status compares each budget against the expense total in its category for
// the month. Month/year of 0 default to the current calendar date. Spending
// exactly the budget amount is still within budget.
func (s *Service) Status(userID int64, month, year int) ([]models.BudgetStatus, error) {
	now := time.Now()
	if month == 0 {
		month = int(now.Month())
	}
	if year == 0 {
		year = now.Year()
	}
	return s.store.BudgetStatus(userID, month, year)
}

// FormatList renders budgets as a display table.
func FormatList(budgets []models.Budget) string {
	rows := make([][]string, 0, len(budgets))
	for _, b := range budgets {
		rows = append(rows, []string{
			b.Category,
			fmt.Sprintf("%.2f", b.Amount),
			fmt.Sprintf("%d", b.Month),
			fmt.Sprintf("%d", b.Year),
		})
	}
	return reports.Grid([]string{"Category", "Budget Amount", "Month", "Year"}, rows)
}

// FormatStatus renders budget status rows as a display table.
func FormatStatus(status []models.BudgetStatus) string {
	rows := make([][]string, 0, len(status))
	for _, st := range status {
		state := "Within budget"
		if st.Exceeded {
			state = "EXCEEDED!"
		}
		rows = append(rows, []string{
			st.Category,
			fmt.Sprintf("%.2f", st.Budget),
			fmt.Sprintf("%.2f", st.Spent),
			fmt.Sprintf("%.1f%%", st.Percentage),
			state,
		})
	}
	return reports.Grid([]string{"Category", "Budget", "Spent", "Used %", "Status"}, rows)
}
