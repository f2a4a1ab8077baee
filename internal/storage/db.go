package storage

import (
	"database/sql"
	"strings"
	"time"

	"fintrack/internal/models"

	// Import sqlite driver
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection to the finance store.
type DB struct {
	conn *sql.DB
}

// Open opens the store at path and runs schema migrations.
func Open(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// sqlite allows a single writer; one pooled connection also keeps
	// :memory: stores on one connection.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, err
	}

	if err := runMigrations(conn); err != nil {
		conn.Close()
		return nil, err
	}

	return &DB{conn: conn}, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// IsUniqueConstraint reports whether err is a sqlite unique constraint
// violation.
func IsUniqueConstraint(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// monthRange returns the half-open UTC interval covering the given calendar
// month.
func monthRange(month, year int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// CreateUser inserts a new user row and returns it.
func (db *DB) CreateUser(username, passwordHash string) (*models.User, error) {
	result, err := db.conn.Exec(
		"INSERT INTO users (username, password_hash) VALUES (?, ?)",
		username, passwordHash,
	)
	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return db.GetUserByID(id)
}

// GetUserByID retrieves a user by ID.
func (db *DB) GetUserByID(id int64) (*models.User, error) {
	row := db.conn.QueryRow(
		"SELECT id, username, password_hash, created_at FROM users WHERE id = ?",
		id,
	)

	var u models.User
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserByUsername retrieves a user by username.
func (db *DB) GetUserByUsername(username string) (*models.User, error) {
	row := db.conn.QueryRow(
		"SELECT id, username, password_hash, created_at FROM users WHERE username = ?",
		username,
	)

	var u models.User
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateTransaction inserts a new transaction row. A zero date means now.
// Dates are normalized to UTC so that range filters compare consistently.
func (db *DB) CreateTransaction(t *models.Transaction) (int64, error) {
	date := t.Date
	if date.IsZero() {
		date = time.Now()
	}
	result, err := db.conn.Exec(
		"INSERT INTO transactions (user_id, type, category, amount, description, date) VALUES (?, ?, ?, ?, ?, ?)",
		t.UserID, string(t.Type), t.Category, t.Amount, t.Description, date.UTC(),
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// GetTransaction retrieves a single transaction owned by userID.
func (db *DB) GetTransaction(id, userID int64) (*models.Transaction, error) {
	row := db.conn.QueryRow(
		"SELECT id, user_id, type, category, amount, description, date FROM transactions WHERE id = ? AND user_id = ?",
		id, userID,
	)
	return scanTransaction(row)
}

// UpdateTransaction rewrites the mutable fields of a transaction. It reports
// whether a row owned by (t.ID, t.UserID) was actually updated.
func (db *DB) UpdateTransaction(t *models.Transaction) (bool, error) {
	result, err := db.conn.Exec(
		"UPDATE transactions SET type = ?, category = ?, amount = ?, description = ? WHERE id = ? AND user_id = ?",
		string(t.Type), t.Category, t.Amount, t.Description, t.ID, t.UserID,
	)
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// DeleteTransaction deletes the transaction only if it is owned by userID.
// It reports whether a row was deleted.
func (db *DB) DeleteTransaction(id, userID int64) (bool, error) {
	result, err := db.conn.Exec(
		"DELETE FROM transactions WHERE id = ? AND user_id = ?",
		id, userID,
	)
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// TransactionFilter narrows ListTransactions. Zero values leave a dimension
// unconstrained; all set filters apply together.
type TransactionFilter struct {
	StartDate time.Time
	EndDate   time.Time
	Type      models.TransactionType
	Category  string
}

// ListTransactions retrieves a user's transactions, most recent first.
func (db *DB) ListTransactions(userID int64, f TransactionFilter) ([]models.Transaction, error) {
	query := "SELECT id, user_id, type, category, amount, description, date FROM transactions WHERE user_id = ?"
	args := []any{userID}

	if !f.StartDate.IsZero() {
		query += " AND date >= ?"
		args = append(args, f.StartDate.UTC())
	}
	if !f.EndDate.IsZero() {
		query += " AND date <= ?"
		args = append(args, f.EndDate.UTC())
	}
	if f.Type != "" {
		query += " AND type = ?"
		args = append(args, string(f.Type))
	}
	if f.Category != "" {
		query += " AND category = ?"
		args = append(args, f.Category)
	}

	query += " ORDER BY date DESC"

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []models.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, *t)
	}

	return transactions, rows.Err()
}

// Balance returns all-time income minus all-time expenses for a user.
func (db *DB) Balance(userID int64) (float64, error) {
	var income, expenses float64
	err := db.conn.QueryRow(
		"SELECT COALESCE(SUM(amount), 0) FROM transactions WHERE user_id = ? AND type = 'income'",
		userID,
	).Scan(&income)
	if err != nil {
		return 0, err
	}
	err = db.conn.QueryRow(
		"SELECT COALESCE(SUM(amount), 0) FROM transactions WHERE user_id = ? AND type = 'expense'",
		userID,
	).Scan(&expenses)
	if err != nil {
		return 0, err
	}
	return income - expenses, nil
}

// UpsertBudget inserts or replaces the budget amount for
// (userID, category, month, year).
func (db *DB) UpsertBudget(userID int64, category string, amount float64, month, year int) error {
	_, err := db.conn.Exec(`
		INSERT INTO budgets (user_id, category, amount, month, year)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (user_id, category, month, year) DO UPDATE SET amount = excluded.amount
	`, userID, category, amount, month, year)
	return err
}

// ListBudgets retrieves a user's budgets. Zero month/year leave that
// dimension unfiltered.
func (db *DB) ListBudgets(userID int64, month, year int) ([]models.Budget, error) {
	query := "SELECT id, user_id, category, amount, month, year FROM budgets WHERE user_id = ?"
	args := []any{userID}

	if month != 0 {
		query += " AND month = ?"
		args = append(args, month)
	}
	if year != 0 {
		query += " AND year = ?"
		args = append(args, year)
	}

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var budgets []models.Budget
	for rows.Next() {
		var b models.Budget
		if err := rows.Scan(&b.ID, &b.UserID, &b.Category, &b.Amount, &b.Month, &b.Year); err != nil {
			return nil, err
		}
		budgets = append(budgets, b)
	}

	return budgets, rows.Err()
}

// BudgetStatus compares each budget for (userID, month, year) against the
// expense total in its category for that month. The budget and spend queries
// run inside one read transaction so a concurrent writer cannot skew a single
// status report.
func (db *DB) BudgetStatus(userID int64, month, year int) ([]models.BudgetStatus, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	rows, err := tx.Query(
		"SELECT category, amount FROM budgets WHERE user_id = ? AND month = ? AND year = ?",
		userID, month, year,
	)
	if err != nil {
		return nil, err
	}

	type budgetRow struct {
		category string
		amount   float64
	}
	var budgets []budgetRow
	for rows.Next() {
		var b budgetRow
		if err := rows.Scan(&b.category, &b.amount); err != nil {
			rows.Close()
			return nil, err
		}
		budgets = append(budgets, b)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	start, end := monthRange(month, year)

	var status []models.BudgetStatus
	for _, b := range budgets {
		var spent float64
		err := tx.QueryRow(`
			SELECT COALESCE(SUM(amount), 0) FROM transactions
			WHERE user_id = ? AND category = ? AND type = 'expense' AND date >= ? AND date < ?
		`, userID, b.category, start, end).Scan(&spent)
		if err != nil {
			return nil, err
		}

		percentage := 0.0
		if b.amount > 0 {
			percentage = spent / b.amount * 100
		}
		status = append(status, models.BudgetStatus{
			Category:   b.category,
			Budget:     b.amount,
			Spent:      spent,
			Percentage: percentage,
			Exceeded:   spent > b.amount,
		})
	}

	return status, tx.Commit()
}

// MonthlySummary aggregates a user's income, expenses and per-category
// expense totals for one calendar month, inside one read transaction.
func (db *DB) MonthlySummary(userID int64, month, year int) (*models.MonthlySummary, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	start, end := monthRange(month, year)
	var s models.MonthlySummary

	err = tx.QueryRow(`
		SELECT COALESCE(SUM(amount), 0) FROM transactions
		WHERE user_id = ? AND type = 'income' AND date >= ? AND date < ?
	`, userID, start, end).Scan(&s.TotalIncome)
	if err != nil {
		return nil, err
	}

	err = tx.QueryRow(`
		SELECT COALESCE(SUM(amount), 0) FROM transactions
		WHERE user_id = ? AND type = 'expense' AND date >= ? AND date < ?
	`, userID, start, end).Scan(&s.TotalExpenses)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(`
		SELECT category, SUM(amount) FROM transactions
		WHERE user_id = ? AND type = 'expense' AND date >= ? AND date < ?
		GROUP BY category
	`, userID, start, end)
	if err != nil {
		return nil, err
	}

	for rows.Next() {
		var c models.CategoryAmount
		if err := rows.Scan(&c.Category, &c.Amount); err != nil {
			rows.Close()
			return nil, err
		}
		s.ByCategory = append(s.ByCategory, c)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	return &s, tx.Commit()
}

// YearlySummary aggregates a user's transactions for one calendar year into
// per-month and yearly totals. Months without transactions are omitted.
func (db *DB) YearlySummary(userID int64, year int) (*models.YearlySummary, error) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)

	rows, err := db.conn.Query(`
		SELECT type, amount, date FROM transactions
		WHERE user_id = ? AND date >= ? AND date < ?
		ORDER BY date
	`, userID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var s models.YearlySummary
	byMonth := make(map[int]*models.MonthTotals)

	for rows.Next() {
		var (
			typ    string
			amount float64
			date   time.Time
		)
		if err := rows.Scan(&typ, &amount, &date); err != nil {
			return nil, err
		}

		month := int(date.UTC().Month())
		mt, ok := byMonth[month]
		if !ok {
			mt = &models.MonthTotals{Month: month}
			byMonth[month] = mt
		}

		switch models.TransactionType(typ) {
		case models.TypeIncome:
			mt.Income += amount
			s.TotalIncome += amount
		case models.TypeExpense:
			mt.Expenses += amount
			s.TotalExpenses += amount
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for month := 1; month <= 12; month++ {
		if mt, ok := byMonth[month]; ok {
			s.Months = append(s.Months, *mt)
		}
	}

	return &s, nil
}

// CategoryAnalysis aggregates a user's expense transactions per category,
// ordered by total descending. Zero start/end leave the range open.
func (db *DB) CategoryAnalysis(userID int64, start, end time.Time) ([]models.CategoryStats, error) {
	query := `
		SELECT category, COUNT(*), SUM(amount), AVG(amount), MIN(amount), MAX(amount)
		FROM transactions
		WHERE user_id = ? AND type = 'expense'`
	args := []any{userID}

	if !start.IsZero() {
		query += " AND date >= ?"
		args = append(args, start.UTC())
	}
	if !end.IsZero() {
		query += " AND date <= ?"
		args = append(args, end.UTC())
	}

	query += " GROUP BY category ORDER BY SUM(amount) DESC"

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []models.CategoryStats
	for rows.Next() {
		var c models.CategoryStats
		if err := rows.Scan(&c.Category, &c.Count, &c.Total, &c.Average, &c.Min, &c.Max); err != nil {
			return nil, err
		}
		stats = append(stats, c)
	}

	return stats, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (*models.Transaction, error) {
	var (
		t           models.Transaction
		typ         string
		description sql.NullString
	)
	if err := row.Scan(&t.ID, &t.UserID, &typ, &t.Category, &t.Amount, &description, &t.Date); err != nil {
		return nil, err
	}
	t.Type = models.TransactionType(typ)
	t.Description = description.String
	return &t, nil
}
