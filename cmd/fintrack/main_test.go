package main

import (
	"bytes"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs one CLI command against dbPath with piped stdio.
func execute(t *testing.T, dbPath string, stdin string, args ...string) (string, error) {
	t.Helper()
	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	full := append(args, "-db", dbPath)
	err := run(full, bytes.NewBufferString(stdin), stdout, stderr)
	return stdout.String(), err
}

func registerUser(t *testing.T, dbPath, user, password string) {
	t.Helper()
	out, err := execute(t, dbPath, "", "register", "-user", user, "-password", password)
	require.NoError(t, err)
	require.Contains(t, out, "Registration successful!")
}

func TestRegisterAndDuplicate(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "finance.db")

	registerUser(t, dbPath, "alice", "s3cret")

	out, err := execute(t, dbPath, "", "register", "-user", "alice", "-password", "other")
	require.NoError(t, err)
	assert.Contains(t, out, "Username already exists!")
}

func TestRegisterInteractivePassword(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "finance.db")

	out, err := execute(t, dbPath, "interactive_secret\n", "register", "-user", "alice")
	require.NoError(t, err)
	assert.Contains(t, out, "Password: ")
	assert.Contains(t, out, "Registration successful!")
}

func TestRegisterMissingUser(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "finance.db")

	_, err := execute(t, dbPath, "", "register")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required flags: user")
}

func TestLogin(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "finance.db")
	registerUser(t, dbPath, "alice", "s3cret")

	out, err := execute(t, dbPath, "", "login", "-user", "alice", "-password", "s3cret")
	require.NoError(t, err)
	assert.Contains(t, out, "Login successful!")

	out, err = execute(t, dbPath, "", "login", "-user", "alice", "-password", "wrong")
	require.NoError(t, err)
	assert.Contains(t, out, "Invalid credentials!")

	out, err = execute(t, dbPath, "", "login", "-user", "nobody", "-password", "s3cret")
	require.NoError(t, err)
	assert.Contains(t, out, "Invalid credentials!")
}

func TestAddTransactionAndBalance(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "finance.db")
	registerUser(t, dbPath, "alice", "s3cret")

	auth := []string{"-user", "alice", "-password", "s3cret"}

	out, err := execute(t, dbPath, "", append([]string{"add-transaction", "-type", "income", "-category", "Salary", "-amount", "5000"}, auth...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Transaction added successfully!")

	for _, tx := range [][]string{
		{"add-transaction", "-type", "expense", "-category", "Food", "-amount", "100"},
		{"add-transaction", "-type", "expense", "-category", "Entertainment", "-amount", "150"},
	} {
		out, err := execute(t, dbPath, "", append(tx, auth...)...)
		require.NoError(t, err)
		require.Contains(t, out, "Transaction added successfully!")
	}

	out, err = execute(t, dbPath, "", append([]string{"balance"}, auth...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Current Balance: $4750.00")
}

func TestAddTransactionInvalidType(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "finance.db")
	registerUser(t, dbPath, "alice", "s3cret")

	_, err := execute(t, dbPath, "",
		"add-transaction", "-type", "transfer", "-category", "Misc", "-amount", "10",
		"-user", "alice", "-password", "s3cret")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "income or expense")
}

func TestAddTransactionAuthenticationFailed(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "finance.db")
	registerUser(t, dbPath, "alice", "s3cret")

	out, err := execute(t, dbPath, "",
		"add-transaction", "-type", "expense", "-category", "Food", "-amount", "10",
		"-user", "alice", "-password", "wrong")
	require.NoError(t, err)
	assert.Contains(t, out, "Authentication failed!")
}

func TestBudgetFlow(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "finance.db")
	registerUser(t, dbPath, "alice", "s3cret")

	now := time.Now()
	month := fmt.Sprintf("%d", int(now.Month()))
	year := fmt.Sprintf("%d", now.Year())
	auth := []string{"-user", "alice", "-password", "s3cret"}

	out, err := execute(t, dbPath, "", append([]string{"set-budget", "-category", "Food", "-amount", "200", "-month", month, "-year", year}, auth...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Budget set successfully!")

	out, err = execute(t, dbPath, "", append([]string{"add-transaction", "-type", "expense", "-category", "Food", "-amount", "80"}, auth...)...)
	require.NoError(t, err)
	require.Contains(t, out, "Transaction added successfully!")

	out, err = execute(t, dbPath, "", append([]string{"check-budget"}, auth...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Within budget")
	assert.Contains(t, out, "80.00")

	out, err = execute(t, dbPath, "", append([]string{"list-budgets"}, auth...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "| Food")
}

func TestMonthlyReportCommand(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "finance.db")
	registerUser(t, dbPath, "alice", "s3cret")

	auth := []string{"-user", "alice", "-password", "s3cret"}
	out, err := execute(t, dbPath, "", append([]string{"add-transaction", "-type", "income", "-category", "Salary", "-amount", "5000"}, auth...)...)
	require.NoError(t, err)
	require.Contains(t, out, "Transaction added successfully!")

	out, err = execute(t, dbPath, "", append([]string{"monthly-report"}, auth...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Monthly Financial Report")
	assert.Contains(t, out, "Total Income: $5000.00")
}

func TestCategoryAnalysisNoData(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "finance.db")
	registerUser(t, dbPath, "alice", "s3cret")

	out, err := execute(t, dbPath, "", "category-analysis", "-user", "alice", "-password", "s3cret")
	require.NoError(t, err)
	assert.Contains(t, out, "No transaction data available for analysis.")
}

func TestUnknownCommand(t *testing.T) {
	stdout := new(bytes.Buffer)
	err := run([]string{"frobnicate"}, new(bytes.Buffer), stdout, new(bytes.Buffer))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown command")
	assert.Contains(t, stdout.String(), "Usage:")
}

func TestMissingCommand(t *testing.T) {
	stdout := new(bytes.Buffer)
	err := run(nil, new(bytes.Buffer), stdout, new(bytes.Buffer))
	require.Error(t, err)
	assert.Contains(t, stdout.String(), "Usage:")
}
