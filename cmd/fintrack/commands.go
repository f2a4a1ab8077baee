package main

import (
	"errors"
	"flag"
	"fmt"
	"time"

	"fintrack/internal/account"
	"fintrack/internal/budget"
	"fintrack/internal/models"
	"fintrack/internal/reports"
	"fintrack/internal/storage"
	"fintrack/internal/transactions"
)

// authFlags registers the credential flags shared by every authenticated
// command.
func authFlags(fs *flag.FlagSet) (user, password *string) {
	user = fs.String("user", "", "Username")
	password = fs.String("password", "", "Password (optional, will prompt if omitted)")
	return user, password
}

// openAuthenticated opens the store and verifies the credentials. On a
// credential mismatch it prints the failure message and returns a nil app
// with a nil error; the command should then simply stop.
func openAuthenticated(io cmdIO, user, password string) (*app, int64, error) {
	username, pw, err := credentials(user, password, io.stdin, io.stdout)
	if err != nil {
		return nil, 0, err
	}

	a, err := newApp(*io.dbPath)
	if err != nil {
		return nil, 0, err
	}

	userID, ok := a.accounts.Authenticate(username, pw)
	if !ok {
		a.Close()
		fmt.Fprintln(io.stdout, "Authentication failed!")
		return nil, 0, nil
	}
	return a, userID, nil
}

func cmdRegister(fs *flag.FlagSet, args []string, io cmdIO) error {
	user, password := authFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	username, pw, err := credentials(*user, *password, io.stdin, io.stdout)
	if err != nil {
		return err
	}

	a, err := newApp(*io.dbPath)
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := a.accounts.Register(username, pw); err != nil {
		if errors.Is(err, account.ErrUsernameTaken) {
			fmt.Fprintln(io.stdout, "Username already exists!")
			return nil
		}
		return err
	}
	fmt.Fprintln(io.stdout, "Registration successful!")
	return nil
}

func cmdLogin(fs *flag.FlagSet, args []string, io cmdIO) error {
	user, password := authFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	username, pw, err := credentials(*user, *password, io.stdin, io.stdout)
	if err != nil {
		return err
	}

	a, err := newApp(*io.dbPath)
	if err != nil {
		return err
	}
	defer a.Close()

	if _, ok := a.accounts.Authenticate(username, pw); !ok {
		fmt.Fprintln(io.stdout, "Invalid credentials!")
		return nil
	}
	fmt.Fprintln(io.stdout, "Login successful!")
	return nil
}

func cmdAddTransaction(fs *flag.FlagSet, args []string, io cmdIO) error {
	user, password := authFlags(fs)
	typ := fs.String("type", "", "Transaction type: income or expense")
	category := fs.String("category", "", "Category label")
	amount := fs.Float64("amount", 0, "Amount")
	description := fs.String("description", "", "Optional description")
	if err := fs.Parse(args); err != nil {
		return err
	}

	a, userID, err := openAuthenticated(io, *user, *password)
	if err != nil || a == nil {
		return err
	}
	defer a.Close()

	if _, err := a.transactions.Add(userID, models.TransactionType(*typ), *category, *amount, *description); err != nil {
		if errors.Is(err, transactions.ErrInvalidType) {
			return err
		}
		fmt.Fprintln(io.stdout, "Failed to add transaction!")
		return nil
	}
	fmt.Fprintln(io.stdout, "Transaction added successfully!")
	return nil
}

func cmdListTransactions(fs *flag.FlagSet, args []string, io cmdIO) error {
	user, password := authFlags(fs)
	start := fs.String("start", "", "Start date (YYYY-MM-DD)")
	end := fs.String("end", "", "End date (YYYY-MM-DD)")
	typ := fs.String("type", "", "Filter by type: income or expense")
	category := fs.String("category", "", "Filter by category")
	if err := fs.Parse(args); err != nil {
		return err
	}

	filter := storage.TransactionFilter{
		Type:     models.TransactionType(*typ),
		Category: *category,
	}
	var err error
	if filter.StartDate, err = parseDate(*start); err != nil {
		return err
	}
	if filter.EndDate, err = parseDate(*end); err != nil {
		return err
	}

	a, userID, err := openAuthenticated(io, *user, *password)
	if err != nil || a == nil {
		return err
	}
	defer a.Close()

	list, err := a.transactions.List(userID, filter)
	if err != nil {
		return err
	}
	fmt.Fprintln(io.stdout, reports.FormatTransactions(list))
	return nil
}

func cmdUpdateTransaction(fs *flag.FlagSet, args []string, io cmdIO) error {
	user, password := authFlags(fs)
	id := fs.Int64("id", 0, "Transaction ID")
	typ := fs.String("type", "", "New type (unchanged if omitted)")
	category := fs.String("category", "", "New category (unchanged if omitted)")
	amount := fs.Float64("amount", 0, "New amount (unchanged if omitted)")
	description := fs.String("description", "", "New description (unchanged if omitted)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	a, userID, err := openAuthenticated(io, *user, *password)
	if err != nil || a == nil {
		return err
	}
	defer a.Close()

	err = a.transactions.Update(*id, userID, transactions.Changes{
		Type:        models.TransactionType(*typ),
		Category:    *category,
		Amount:      *amount,
		Description: *description,
	})
	if err != nil {
		fmt.Fprintln(io.stdout, "Failed to update transaction!")
		return nil
	}
	fmt.Fprintln(io.stdout, "Transaction updated successfully!")
	return nil
}

func cmdDeleteTransaction(fs *flag.FlagSet, args []string, io cmdIO) error {
	user, password := authFlags(fs)
	id := fs.Int64("id", 0, "Transaction ID")
	if err := fs.Parse(args); err != nil {
		return err
	}

	a, userID, err := openAuthenticated(io, *user, *password)
	if err != nil || a == nil {
		return err
	}
	defer a.Close()

	if err := a.transactions.Delete(*id, userID); err != nil {
		fmt.Fprintln(io.stdout, "Failed to delete transaction!")
		return nil
	}
	fmt.Fprintln(io.stdout, "Transaction deleted successfully!")
	return nil
}

func cmdBalance(fs *flag.FlagSet, args []string, io cmdIO) error {
	user, password := authFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	a, userID, err := openAuthenticated(io, *user, *password)
	if err != nil || a == nil {
		return err
	}
	defer a.Close()

	balance, err := a.transactions.Balance(userID)
	if err != nil {
		return err
	}
	fmt.Fprintf(io.stdout, "Current Balance: $%.2f\n", balance)
	return nil
}

func cmdSetBudget(fs *flag.FlagSet, args []string, io cmdIO) error {
	user, password := authFlags(fs)
	category := fs.String("category", "", "Category label")
	amount := fs.Float64("amount", 0, "Budget amount")
	month := fs.Int("month", 0, "Month (1-12)")
	year := fs.Int("year", 0, "Year")
	if err := fs.Parse(args); err != nil {
		return err
	}

	a, userID, err := openAuthenticated(io, *user, *password)
	if err != nil || a == nil {
		return err
	}
	defer a.Close()

	if err := a.budgets.Set(userID, *category, *amount, *month, *year); err != nil {
		fmt.Fprintln(io.stdout, "Failed to set budget!")
		return nil
	}
	fmt.Fprintln(io.stdout, "Budget set successfully!")
	return nil
}

func cmdListBudgets(fs *flag.FlagSet, args []string, io cmdIO) error {
	user, password := authFlags(fs)
	month := fs.Int("month", 0, "Filter by month (1-12)")
	year := fs.Int("year", 0, "Filter by year")
	if err := fs.Parse(args); err != nil {
		return err
	}

	a, userID, err := openAuthenticated(io, *user, *password)
	if err != nil || a == nil {
		return err
	}
	defer a.Close()

	budgets, err := a.budgets.List(userID, *month, *year)
	if err != nil {
		return err
	}
	fmt.Fprintln(io.stdout, budget.FormatList(budgets))
	return nil
}

func cmdCheckBudget(fs *flag.FlagSet, args []string, io cmdIO) error {
	user, password := authFlags(fs)
	month := fs.Int("month", 0, "Month (defaults to current)")
	year := fs.Int("year", 0, "Year (defaults to current)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	a, userID, err := openAuthenticated(io, *user, *password)
	if err != nil || a == nil {
		return err
	}
	defer a.Close()

	status, err := a.budgets.Status(userID, *month, *year)
	if err != nil {
		fmt.Fprintln(io.stdout, "Failed to check budget status!")
		return nil
	}
	fmt.Fprintln(io.stdout, budget.FormatStatus(status))
	return nil
}

func cmdMonthlyReport(fs *flag.FlagSet, args []string, io cmdIO) error {
	user, password := authFlags(fs)
	month := fs.Int("month", 0, "Month (defaults to current)")
	year := fs.Int("year", 0, "Year (defaults to current)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	a, userID, err := openAuthenticated(io, *user, *password)
	if err != nil || a == nil {
		return err
	}
	defer a.Close()

	report, err := a.reports.Monthly(userID, *month, *year)
	if err != nil {
		fmt.Fprintln(io.stdout, "Failed to generate report!")
		return nil
	}
	fmt.Fprintln(io.stdout, report)
	return nil
}

func cmdYearlyReport(fs *flag.FlagSet, args []string, io cmdIO) error {
	user, password := authFlags(fs)
	year := fs.Int("year", 0, "Year (defaults to current)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	a, userID, err := openAuthenticated(io, *user, *password)
	if err != nil || a == nil {
		return err
	}
	defer a.Close()

	report, err := a.reports.Yearly(userID, *year)
	if err != nil {
		fmt.Fprintln(io.stdout, "Failed to generate report!")
		return nil
	}
	fmt.Fprintln(io.stdout, report)
	return nil
}

func cmdCategoryAnalysis(fs *flag.FlagSet, args []string, io cmdIO) error {
	user, password := authFlags(fs)
	start := fs.String("start", "", "Start date (YYYY-MM-DD)")
	end := fs.String("end", "", "End date (YYYY-MM-DD)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	startDate, err := parseDate(*start)
	if err != nil {
		return err
	}
	endDate, err := parseDate(*end)
	if err != nil {
		return err
	}

	a, userID, err := openAuthenticated(io, *user, *password)
	if err != nil || a == nil {
		return err
	}
	defer a.Close()

	report, err := a.reports.CategoryAnalysis(userID, startDate, endDate)
	if err != nil {
		fmt.Fprintln(io.stdout, "Failed to generate report!")
		return nil
	}
	fmt.Fprintln(io.stdout, report)
	return nil
}

// parseDate parses a YYYY-MM-DD flag value; empty input stays a zero time.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
	}
	return t, nil
}
