package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"fintrack/internal/account"
	"fintrack/internal/budget"
	"fintrack/internal/models"
	"fintrack/internal/reports"
	"fintrack/internal/storage"
	"fintrack/internal/transactions"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// Page names are only used in code, never shown to the user.
const (
	pageLogin = "login"
	pageMain  = "main"
)

// UI is the terminal form application. The logged-in user id lives here for
// the lifetime of the process only.
type UI struct {
	app   *tview.Application
	pages *tview.Pages

	accounts     *account.Service
	transactions *transactions.Service
	budgets      *budget.Service
	reports      *reports.Generator

	userID int64

	loginForm   *tview.Form
	loginStatus *tview.TextView

	txForm     *tview.Form
	budgetForm *tview.Form
	reportView *tview.TextView
	mainStatus *tview.TextView
}

func newUI(db *storage.DB) *UI {
	ui := &UI{
		app:          tview.NewApplication(),
		pages:        tview.NewPages(),
		accounts:     account.NewService(db),
		transactions: transactions.NewService(db),
		budgets:      budget.NewService(db),
		reports:      reports.NewGenerator(db),
	}

	ui.pages.AddPage(pageLogin, ui.buildLoginPage(), true, true)
	ui.pages.AddPage(pageMain, ui.buildMainPage(), true, false)

	ui.app.SetRoot(ui.pages, true)
	return ui
}

// Run blocks until the application exits.
func (ui *UI) Run() error {
	return ui.app.Run()
}

func (ui *UI) buildLoginPage() tview.Primitive {
	ui.loginStatus = tview.NewTextView().SetTextAlign(tview.AlignCenter)

	ui.loginForm = tview.NewForm().
		AddInputField("Username", "", 30, nil, nil).
		AddPasswordField("Password", "", 30, '*', nil).
		AddButton("Login", ui.login).
		AddButton("Register", ui.register)
	ui.loginForm.SetBorder(true).SetTitle(" Personal Finance Manager ")

	return tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(nil, 0, 1, false).
		AddItem(ui.loginForm, 11, 0, true).
		AddItem(ui.loginStatus, 1, 0, false).
		AddItem(nil, 0, 1, false)
}

func (ui *UI) loginInput() (username, password string) {
	username = strings.TrimSpace(ui.loginForm.GetFormItemByLabel("Username").(*tview.InputField).GetText())
	password = ui.loginForm.GetFormItemByLabel("Password").(*tview.InputField).GetText()
	return username, password
}

func (ui *UI) login() {
	username, password := ui.loginInput()
	if username == "" || password == "" {
		ui.loginStatus.SetText("Username and password are required")
		return
	}

	userID, ok := ui.accounts.Authenticate(username, password)
	if !ok {
		ui.loginStatus.SetText("Invalid credentials!")
		return
	}

	ui.userID = userID
	ui.loginStatus.SetText("")
	ui.mainStatus.SetText("")
	ui.reportView.SetText("")
	ui.pages.SwitchToPage(pageMain)
}

func (ui *UI) register() {
	username, password := ui.loginInput()
	if username == "" || password == "" {
		ui.loginStatus.SetText("Username and password are required")
		return
	}

	if _, err := ui.accounts.Register(username, password); err != nil {
		if errors.Is(err, account.ErrUsernameTaken) {
			ui.loginStatus.SetText("Username already exists!")
		} else {
			ui.loginStatus.SetText("Registration failed")
		}
		return
	}
	ui.loginStatus.SetText("Registration successful! You can log in now.")
}

func (ui *UI) buildMainPage() tview.Primitive {
	ui.mainStatus = tview.NewTextView()

	ui.txForm = tview.NewForm().
		AddDropDown("Type", []string{string(models.TypeIncome), string(models.TypeExpense)}, 0, nil).
		AddInputField("Category", "", 20, nil, nil).
		AddInputField("Amount", "", 20, nil, nil).
		AddInputField("Description", "", 20, nil, nil).
		AddButton("Add Transaction", ui.addTransaction)
	ui.txForm.SetBorder(true).SetTitle(" Add Transaction ")

	ui.budgetForm = tview.NewForm().
		AddInputField("Category", "", 20, nil, nil).
		AddInputField("Amount", "", 20, nil, nil).
		AddInputField("Month", "", 20, nil, nil).
		AddInputField("Year", "", 20, nil, nil).
		AddButton("Set Budget", ui.setBudget)
	ui.budgetForm.SetBorder(true).SetTitle(" Set Budget ")

	reportButtons := tview.NewForm().
		AddButton("Monthly Report", ui.showMonthlyReport).
		AddButton("Yearly Report", ui.showYearlyReport).
		AddButton("Budget Status", ui.showBudgetStatus).
		AddButton("Logout", ui.logout)
	reportButtons.SetBorder(true).SetTitle(" Reports ")

	ui.reportView = tview.NewTextView().SetScrollable(true)
	ui.reportView.SetBorder(true)

	forms := tview.NewFlex().
		AddItem(ui.txForm, 0, 1, true).
		AddItem(ui.budgetForm, 0, 1, false)

	page := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(forms, 13, 0, true).
		AddItem(reportButtons, 5, 0, false).
		AddItem(ui.reportView, 0, 1, false).
		AddItem(ui.mainStatus, 1, 0, false)

	// Esc returns focus to the transaction form from the report view.
	ui.reportView.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEscape {
			ui.app.SetFocus(ui.txForm)
			return nil
		}
		return event
	})

	return page
}

func formText(form *tview.Form, label string) string {
	return strings.TrimSpace(form.GetFormItemByLabel(label).(*tview.InputField).GetText())
}

func (ui *UI) addTransaction() {
	_, typ := ui.txForm.GetFormItemByLabel("Type").(*tview.DropDown).GetCurrentOption()
	category := formText(ui.txForm, "Category")
	description := formText(ui.txForm, "Description")

	amount, err := strconv.ParseFloat(formText(ui.txForm, "Amount"), 64)
	if err != nil {
		ui.mainStatus.SetText("Amount must be a number")
		return
	}

	if _, err := ui.transactions.Add(ui.userID, models.TransactionType(typ), category, amount, description); err != nil {
		ui.mainStatus.SetText("Failed to add transaction!")
		return
	}
	ui.mainStatus.SetText("Transaction added successfully!")
}

func (ui *UI) setBudget() {
	category := formText(ui.budgetForm, "Category")

	amount, err := strconv.ParseFloat(formText(ui.budgetForm, "Amount"), 64)
	if err != nil {
		ui.mainStatus.SetText("Amount must be a number")
		return
	}
	month, err := strconv.Atoi(formText(ui.budgetForm, "Month"))
	if err != nil {
		ui.mainStatus.SetText("Month must be a number")
		return
	}
	year, err := strconv.Atoi(formText(ui.budgetForm, "Year"))
	if err != nil {
		ui.mainStatus.SetText("Year must be a number")
		return
	}

	if err := ui.budgets.Set(ui.userID, category, amount, month, year); err != nil {
		ui.mainStatus.SetText("Failed to set budget!")
		return
	}
	ui.mainStatus.SetText("Budget set successfully!")
}

func (ui *UI) showMonthlyReport() {
	report, err := ui.reports.Monthly(ui.userID, 0, 0)
	ui.showReport(report, err)
}

func (ui *UI) showYearlyReport() {
	report, err := ui.reports.Yearly(ui.userID, 0)
	ui.showReport(report, err)
}

func (ui *UI) showBudgetStatus() {
	status, err := ui.budgets.Status(ui.userID, 0, 0)
	if err != nil {
		ui.showReport("", err)
		return
	}
	ui.showReport(budget.FormatStatus(status), nil)
}

func (ui *UI) showReport(report string, err error) {
	if err != nil {
		ui.mainStatus.SetText(fmt.Sprintf("Failed to generate report: %v", err))
		return
	}
	ui.mainStatus.SetText("")
	ui.reportView.SetText(report)
	ui.app.SetFocus(ui.reportView)
}

func (ui *UI) logout() {
	ui.userID = 0
	ui.pages.SwitchToPage(pageLogin)
	ui.app.SetFocus(ui.loginForm)
}
