// Command fintrack is the command-line front end of the personal finance
// tracker. Every command authenticates independently; no session state is
// kept between invocations.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"fintrack/internal/account"
	"fintrack/internal/budget"
	"fintrack/internal/config"
	"fintrack/internal/reports"
	"fintrack/internal/storage"
	"fintrack/internal/transactions"

	"golang.org/x/term"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}

// app wires the services a command needs around one open store.
type app struct {
	db           *storage.DB
	accounts     *account.Service
	transactions *transactions.Service
	budgets      *budget.Service
	reports      *reports.Generator
}

func newApp(dbPath string) (*app, error) {
	db, err := storage.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return &app{
		db:           db,
		accounts:     account.NewService(db),
		transactions: transactions.NewService(db),
		budgets:      budget.NewService(db),
		reports:      reports.NewGenerator(db),
	}, nil
}

func (a *app) Close() error {
	return a.db.Close()
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		printUsage(stdout)
		return fmt.Errorf("missing command")
	}

	name, rest := args[0], args[1:]
	cmd, ok := commands[name]
	if !ok {
		printUsage(stdout)
		return fmt.Errorf("unknown command: %s", name)
	}

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	dbPath := fs.String("db", config.Load().DBPath, "Path to database file")

	return cmd(fs, rest, cmdIO{stdin: stdin, stdout: stdout, dbPath: dbPath})
}

// cmdIO carries the streams and shared flags into a command.
type cmdIO struct {
	stdin  io.Reader
	stdout io.Writer
	dbPath *string
}

type commandFunc func(fs *flag.FlagSet, args []string, io cmdIO) error

var commands = map[string]commandFunc{
	"register":           cmdRegister,
	"login":              cmdLogin,
	"add-transaction":    cmdAddTransaction,
	"list-transactions":  cmdListTransactions,
	"update-transaction": cmdUpdateTransaction,
	"delete-transaction": cmdDeleteTransaction,
	"balance":            cmdBalance,
	"set-budget":         cmdSetBudget,
	"list-budgets":       cmdListBudgets,
	"check-budget":       cmdCheckBudget,
	"monthly-report":     cmdMonthlyReport,
	"yearly-report":      cmdYearlyReport,
	"category-analysis":  cmdCategoryAnalysis,
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: fintrack <command> [flags]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	for _, name := range []string{
		"register", "login",
		"add-transaction", "list-transactions", "update-transaction", "delete-transaction", "balance",
		"set-budget", "list-budgets", "check-budget",
		"monthly-report", "yearly-report", "category-analysis",
	} {
		fmt.Fprintf(w, "  %s\n", name)
	}
}

// credentials reads -user/-password flag values, prompting for the password
// on stdin (hidden when stdin is a terminal) when the flag is omitted.
func credentials(username, password string, stdin io.Reader, stdout io.Writer) (string, string, error) {
	if username == "" {
		return "", "", fmt.Errorf("missing required flags: user")
	}
	if password == "" {
		fmt.Fprint(stdout, "Password: ")
		var err error
		password, err = readPassword(stdin)
		if err != nil {
			return "", "", fmt.Errorf("failed to read password: %w", err)
		}
		fmt.Fprintln(stdout) // Print newline after password input
	}
	if strings.TrimSpace(password) == "" {
		return "", "", fmt.Errorf("password cannot be empty")
	}
	return username, password, nil
}

func readPassword(stdin io.Reader) (string, error) {
	// Check if stdin is a terminal
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		bytePassword, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(bytePassword), nil
	}

	// Fallback for non-terminal (e.g. tests, pipes)
	scanner := bufio.NewScanner(stdin)
	if scanner.Scan() {
		return scanner.Text(), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}
