package storage

import (
	"path/filepath"
	"testing"
	"time"

	"fintrack/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// DBTestSuite provides a test suite for database operations
type DBTestSuite struct {
	suite.Suite
	db     *DB
	userID int64
}

// SetupTest runs before each test
func (suite *DBTestSuite) SetupTest() {
	db, err := Open(":memory:")
	require.NoError(suite.T(), err, "failed to create test database")
	suite.db = db

	user, err := db.CreateUser("testuser", "not-a-real-hash")
	require.NoError(suite.T(), err, "failed to create test user")
	suite.userID = user.ID
}

// TearDownTest runs after each test
func (suite *DBTestSuite) TearDownTest() {
	if suite.db != nil {
		suite.db.Close()
	}
}

func (suite *DBTestSuite) addTransaction(typ models.TransactionType, category string, amount float64, date time.Time) int64 {
	id, err := suite.db.CreateTransaction(&models.Transaction{
		UserID:   suite.userID,
		Type:     typ,
		Category: category,
		Amount:   amount,
		Date:     date,
	})
	require.NoError(suite.T(), err, "failed to create transaction")
	return id
}

func (suite *DBTestSuite) TestCreateUserDuplicateUsername() {
	_, err := suite.db.CreateUser("testuser", "other-hash")
	require.Error(suite.T(), err)
	assert.True(suite.T(), IsUniqueConstraint(err))

	// First row untouched
	user, err := suite.db.GetUserByUsername("testuser")
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), suite.userID, user.ID)
	assert.Equal(suite.T(), "not-a-real-hash", user.PasswordHash)
}

func (suite *DBTestSuite) TestCreateTransactionDefaultsDate() {
	id, err := suite.db.CreateTransaction(&models.Transaction{
		UserID:   suite.userID,
		Type:     models.TypeExpense,
		Category: "food",
		Amount:   12.50,
	})
	require.NoError(suite.T(), err)

	tx, err := suite.db.GetTransaction(id, suite.userID)
	require.NoError(suite.T(), err)
	assert.WithinDuration(suite.T(), time.Now(), tx.Date, 5*time.Second)
	assert.Equal(suite.T(), models.TypeExpense, tx.Type)
	assert.Equal(suite.T(), 12.50, tx.Amount)
}

func (suite *DBTestSuite) TestUpdateTransactionScopedToOwner() {
	id := suite.addTransaction(models.TypeExpense, "food", 10, time.Now())

	other, err := suite.db.CreateUser("other", "hash")
	require.NoError(suite.T(), err)

	updated, err := suite.db.UpdateTransaction(&models.Transaction{
		ID: id, UserID: other.ID, Type: models.TypeExpense, Category: "food", Amount: 999,
	})
	require.NoError(suite.T(), err)
	assert.False(suite.T(), updated, "update by non-owner should not match")

	tx, err := suite.db.GetTransaction(id, suite.userID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 10.0, tx.Amount)
}

func (suite *DBTestSuite) TestDeleteTransactionWrongUser() {
	id := suite.addTransaction(models.TypeExpense, "food", 10, time.Now())

	other, err := suite.db.CreateUser("other", "hash")
	require.NoError(suite.T(), err)

	deleted, err := suite.db.DeleteTransaction(id, other.ID)
	require.NoError(suite.T(), err)
	assert.False(suite.T(), deleted, "delete should fail for a different user's id")

	deleted, err = suite.db.DeleteTransaction(id, suite.userID)
	require.NoError(suite.T(), err)
	assert.True(suite.T(), deleted)
}

func (suite *DBTestSuite) TestListTransactionsOrderAndFilters() {
	base := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	suite.addTransaction(models.TypeIncome, "Salary", 5000, base)
	suite.addTransaction(models.TypeExpense, "Food", 100, base.Add(time.Hour))
	suite.addTransaction(models.TypeExpense, "Entertainment", 150, base.Add(2*time.Hour))

	all, err := suite.db.ListTransactions(suite.userID, TransactionFilter{})
	require.NoError(suite.T(), err)
	require.Len(suite.T(), all, 3)
	assert.Equal(suite.T(), "Entertainment", all[0].Category, "most recent first")
	assert.Equal(suite.T(), "Salary", all[2].Category)

	// Filters are conjunctive
	filtered, err := suite.db.ListTransactions(suite.userID, TransactionFilter{
		Type:      models.TypeExpense,
		Category:  "Food",
		StartDate: base,
		EndDate:   base.Add(3 * time.Hour),
	})
	require.NoError(suite.T(), err)
	require.Len(suite.T(), filtered, 1)
	assert.Equal(suite.T(), 100.0, filtered[0].Amount)
}

func (suite *DBTestSuite) TestBalance() {
	now := time.Now()
	suite.addTransaction(models.TypeIncome, "Salary", 5000, now)
	suite.addTransaction(models.TypeExpense, "Food", 100, now)
	suite.addTransaction(models.TypeExpense, "Entertainment", 150, now)

	balance, err := suite.db.Balance(suite.userID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 4750.0, balance)
}

func (suite *DBTestSuite) TestBalanceNoTransactions() {
	balance, err := suite.db.Balance(suite.userID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 0.0, balance)
}

func (suite *DBTestSuite) TestUpsertBudgetReplacesAmount() {
	require.NoError(suite.T(), suite.db.UpsertBudget(suite.userID, "Food", 300, 3, 2025))
	require.NoError(suite.T(), suite.db.UpsertBudget(suite.userID, "Food", 450, 3, 2025))

	budgets, err := suite.db.ListBudgets(suite.userID, 3, 2025)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), budgets, 1, "upsert must not duplicate the row")
	assert.Equal(suite.T(), 450.0, budgets[0].Amount)
}

func (suite *DBTestSuite) TestBudgetStatusExceededIsStrict() {
	require.NoError(suite.T(), suite.db.UpsertBudget(suite.userID, "Food", 100, 3, 2025))
	require.NoError(suite.T(), suite.db.UpsertBudget(suite.userID, "Fun", 100, 3, 2025))

	date := time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC)
	suite.addTransaction(models.TypeExpense, "Food", 100, date)
	suite.addTransaction(models.TypeExpense, "Fun", 100.01, date)

	status, err := suite.db.BudgetStatus(suite.userID, 3, 2025)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), status, 2)

	byCategory := map[string]models.BudgetStatus{}
	for _, st := range status {
		byCategory[st.Category] = st
	}
	assert.False(suite.T(), byCategory["Food"].Exceeded, "spent == budget is within budget")
	assert.True(suite.T(), byCategory["Fun"].Exceeded, "spent > budget is exceeded")
	assert.InDelta(suite.T(), 100.0, byCategory["Food"].Percentage, 0.001)
}

func (suite *DBTestSuite) TestBudgetStatusZeroBudget() {
	require.NoError(suite.T(), suite.db.UpsertBudget(suite.userID, "Food", 0, 3, 2025))
	suite.addTransaction(models.TypeExpense, "Food", 50, time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC))

	status, err := suite.db.BudgetStatus(suite.userID, 3, 2025)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), status, 1)
	assert.Equal(suite.T(), 0.0, status[0].Percentage, "zero budget must not divide")
	assert.True(suite.T(), status[0].Exceeded)
}

func (suite *DBTestSuite) TestBudgetStatusIgnoresOtherMonths() {
	require.NoError(suite.T(), suite.db.UpsertBudget(suite.userID, "Food", 100, 3, 2025))
	suite.addTransaction(models.TypeExpense, "Food", 40, time.Date(2025, time.February, 28, 23, 0, 0, 0, time.UTC))
	suite.addTransaction(models.TypeExpense, "Food", 60, time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC))
	suite.addTransaction(models.TypeExpense, "Food", 70, time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC))

	status, err := suite.db.BudgetStatus(suite.userID, 3, 2025)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), status, 1)
	assert.Equal(suite.T(), 60.0, status[0].Spent)
}

func (suite *DBTestSuite) TestMonthlySummary() {
	date := time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC)
	suite.addTransaction(models.TypeIncome, "Salary", 5000, date)
	suite.addTransaction(models.TypeExpense, "Food", 100, date)
	suite.addTransaction(models.TypeExpense, "Entertainment", 150, date)
	// Outside the month
	suite.addTransaction(models.TypeExpense, "Food", 999, date.AddDate(0, 1, 0))

	s, err := suite.db.MonthlySummary(suite.userID, 3, 2025)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 5000.0, s.TotalIncome)
	assert.Equal(suite.T(), 250.0, s.TotalExpenses)
	assert.Len(suite.T(), s.ByCategory, 2)
}

func (suite *DBTestSuite) TestMonthlySummaryEmpty() {
	s, err := suite.db.MonthlySummary(suite.userID, 3, 2025)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 0.0, s.TotalIncome)
	assert.Equal(suite.T(), 0.0, s.TotalExpenses)
	assert.Empty(suite.T(), s.ByCategory)
}

func (suite *DBTestSuite) TestYearlySummarySkipsEmptyMonthsAndSorts() {
	// Inserted out of order on purpose
	suite.addTransaction(models.TypeExpense, "Food", 200, time.Date(2025, time.November, 5, 0, 0, 0, 0, time.UTC))
	suite.addTransaction(models.TypeIncome, "Salary", 1000, time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC))
	suite.addTransaction(models.TypeExpense, "Food", 50, time.Date(2025, time.February, 20, 0, 0, 0, 0, time.UTC))

	s, err := suite.db.YearlySummary(suite.userID, 2025)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), s.Months, 2, "months without transactions are omitted")
	assert.Equal(suite.T(), 2, s.Months[0].Month)
	assert.Equal(suite.T(), 11, s.Months[1].Month)
	assert.Equal(suite.T(), 1000.0, s.Months[0].Income)
	assert.Equal(suite.T(), 50.0, s.Months[0].Expenses)
	assert.Equal(suite.T(), 1000.0, s.TotalIncome)
	assert.Equal(suite.T(), 250.0, s.TotalExpenses)
}

func (suite *DBTestSuite) TestCategoryAnalysis() {
	date := time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC)
	suite.addTransaction(models.TypeExpense, "Food", 10, date)
	suite.addTransaction(models.TypeExpense, "Food", 30, date)
	suite.addTransaction(models.TypeExpense, "Rent", 900, date)
	suite.addTransaction(models.TypeIncome, "Salary", 5000, date)

	stats, err := suite.db.CategoryAnalysis(suite.userID, time.Time{}, time.Time{})
	require.NoError(suite.T(), err)
	require.Len(suite.T(), stats, 2, "income is excluded")

	assert.Equal(suite.T(), "Rent", stats[0].Category, "ordered by total descending")
	assert.Equal(suite.T(), "Food", stats[1].Category)
	assert.Equal(suite.T(), 2, stats[1].Count)
	assert.Equal(suite.T(), 40.0, stats[1].Total)
	assert.Equal(suite.T(), 20.0, stats[1].Average)
	assert.Equal(suite.T(), 10.0, stats[1].Min)
	assert.Equal(suite.T(), 30.0, stats[1].Max)
}

func (suite *DBTestSuite) TestCategoryAnalysisDateRange() {
	suite.addTransaction(models.TypeExpense, "Food", 10, time.Date(2025, time.January, 5, 0, 0, 0, 0, time.UTC))
	suite.addTransaction(models.TypeExpense, "Food", 20, time.Date(2025, time.June, 5, 0, 0, 0, 0, time.UTC))

	stats, err := suite.db.CategoryAnalysis(suite.userID,
		time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(suite.T(), err)
	require.Len(suite.T(), stats, 1)
	assert.Equal(suite.T(), 20.0, stats[0].Total)
}

func TestDBSuite(t *testing.T) {
	suite.Run(t, new(DBTestSuite))
}

func TestOpenTwiceMigrationsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "finance.db")

	db, err := Open(path)
	require.NoError(t, err)
	_, err = db.CreateUser("alice", "hash")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	// Reopening must replay no migrations and keep the data.
	db, err = Open(path)
	require.NoError(t, err)
	defer db.Close()

	user, err := db.GetUserByUsername("alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
}
