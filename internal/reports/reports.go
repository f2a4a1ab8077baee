// Package reports produces formatted text reports over a user's
// transactions.
package reports

import (
	"fmt"
	"strings"
	"time"

	"fintrack/internal/models"
)

// NoDataMessage is returned by CategoryAnalysis when the user has no
// matching expense transactions.
const NoDataMessage = "No transaction data available for analysis."

// Store is the persistence surface the report generator needs.
type Store interface {
	MonthlySummary(userID int64, month, year int) (*models.MonthlySummary, error)
	YearlySummary(userID int64, year int) (*models.YearlySummary, error)
	CategoryAnalysis(userID int64, start, end time.Time) ([]models.CategoryStats, error)
}

// Generator builds text reports from a Store.
type Generator struct {
	store Store
}

// NewGenerator creates a report generator.
func NewGenerator(store Store) *Generator {
	return &Generator{store: store}
}

// Monthly generates a monthly financial report. Month/year of 0 default to
// the current calendar date.
func (g *Generator) Monthly(userID int64, month, year int) (string, error) {
	now := time.Now()
	if month == 0 {
		month = int(now.Month())
	}
	if year == 0 {
		year = now.Year()
	}

	s, err := g.store.MonthlySummary(userID, month, year)
	if err != nil {
		return "", fmt.Errorf("monthly report: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\nMonthly Financial Report - %d/%d\n", month, year)
	b.WriteString(strings.Repeat("=", 40) + "\n\n")
	fmt.Fprintf(&b, "Total Income: $%.2f\n", s.TotalIncome)
	fmt.Fprintf(&b, "Total Expenses: $%.2f\n", s.TotalExpenses)
	fmt.Fprintf(&b, "Net Savings: $%.2f\n\n", s.TotalIncome-s.TotalExpenses)

	if len(s.ByCategory) > 0 {
		rows := make([][]string, 0, len(s.ByCategory))
		for _, c := range s.ByCategory {
			pct := "0%"
			if s.TotalExpenses > 0 {
				pct = fmt.Sprintf("%.1f%%", c.Amount/s.TotalExpenses*100)
			}
			rows = append(rows, []string{c.Category, fmt.Sprintf("$%.2f", c.Amount), pct})
		}
		b.WriteString("Expenses Breakdown:\n")
		b.WriteString(Grid([]string{"Category", "Amount", "Percentage"}, rows))
	}

	return b.String(), nil
}

// Yearly generates a yearly financial report. Year 0 defaults to the current
// year. The monthly breakdown only lists months with transactions, in
// calendar order.
func (g *Generator) Yearly(userID int64, year int) (string, error) {
	if year == 0 {
		year = time.Now().Year()
	}

	s, err := g.store.YearlySummary(userID, year)
	if err != nil {
		return "", fmt.Errorf("yearly report: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\nYearly Financial Report - %d\n", year)
	b.WriteString(strings.Repeat("=", 40) + "\n\n")
	fmt.Fprintf(&b, "Total Income: $%.2f\n", s.TotalIncome)
	fmt.Fprintf(&b, "Total Expenses: $%.2f\n", s.TotalExpenses)
	fmt.Fprintf(&b, "Net Savings: $%.2f\n\n", s.TotalIncome-s.TotalExpenses)

	if len(s.Months) > 0 {
		rows := make([][]string, 0, len(s.Months))
		for _, m := range s.Months {
			rows = append(rows, []string{
				time.Month(m.Month).String(),
				fmt.Sprintf("$%.2f", m.Income),
				fmt.Sprintf("$%.2f", m.Expenses),
				fmt.Sprintf("$%.2f", m.Income-m.Expenses),
			})
		}
		b.WriteString("Monthly Breakdown:\n")
		b.WriteString(Grid([]string{"Month", "Income", "Expenses", "Savings"}, rows))
	}

	return b.String(), nil
}

// CategoryAnalysis generates a per-category breakdown of expense
// transactions, largest total first. Zero start/end leave the date range
// open on that side; set bounds are inclusive.
func (g *Generator) CategoryAnalysis(userID int64, start, end time.Time) (string, error) {
	stats, err := g.store.CategoryAnalysis(userID, start, end)
	if err != nil {
		return "", fmt.Errorf("category analysis: %w", err)
	}

	if len(stats) == 0 {
		return NoDataMessage, nil
	}

	rows := make([][]string, 0, len(stats))
	for _, c := range stats {
		rows = append(rows, []string{
			c.Category,
			fmt.Sprintf("%d", c.Count),
			fmt.Sprintf("$%.2f", c.Total),
			fmt.Sprintf("$%.2f", c.Average),
			fmt.Sprintf("$%.2f", c.Min),
			fmt.Sprintf("$%.2f", c.Max),
		})
	}
	return Grid([]string{"Category", "Count", "Total", "Average", "Minimum", "Maximum"}, rows), nil
}

// FormatTransactions renders transactions as a display table, in the order
// given.
func FormatTransactions(transactions []models.Transaction) string {
	rows := make([][]string, 0, len(transactions))
	for _, t := range transactions {
		rows = append(rows, []string{
			fmt.Sprintf("%d", t.ID),
			string(t.Type),
			t.Category,
			fmt.Sprintf("$%.2f", t.Amount),
			t.Description,
			t.Date.UTC().Format("2006-01-02 15:04"),
		})
	}
	return Grid([]string{"ID", "Type", "Category", "Amount", "Description", "Date"}, rows)
}
