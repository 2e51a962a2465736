package view

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/caixa/internal/matching"
	"github.com/MrJamesThe3rd/caixa/internal/settings"
	"github.com/MrJamesThe3rd/caixa/internal/transaction"
)

type txState int

const (
	txStateMonth txState = iota
	txStateList
	txStateEditing
)

// txItem wraps a transaction to implement list.Item.
type txItem struct {
	tx       *transaction.Transaction
	category string
}

func (i txItem) Title() string {
	return fmt.Sprintf("%s  %10s  %s", i.tx.Date, FormatSigned(i.tx.Amount, i.tx.Type), i.tx.Description)
}

func (i txItem) Description() string {
	if i.tx.Recurring != nil {
		return fmt.Sprintf("%s · %s", i.category, *i.tx.Recurring)
	}

	return i.category
}

func (i txItem) FilterValue() string {
	return i.tx.Description
}

type TransactionsModel struct {
	CommonModel
	txService       *transaction.Service
	matchingService *matching.Service
	settingsService *settings.Service

	state       txState
	monthPicker MonthPicker
	list        list.Model
	form        *huh.Form
	txs         []*transaction.Transaction
	settings    settings.AppSettings
	selectedTx  *transaction.Transaction

	month   string
	loading bool
	status  string

	// fields is shared by every copy of the model so the form's bindings survive Update.
	fields *txFields
}

type txFields struct {
	date     string
	desc     string
	amount   string
	typ      transaction.Type
	category string
}

func NewTransactionsModel(txSvc *transaction.Service, matchSvc *matching.Service, stSvc *settings.Service) TransactionsModel {
	l := list.New([]list.Item{}, txItemDelegate{}, 0, 0)
	l.Title = "Transactions"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(true)

	return TransactionsModel{
		txService:       txSvc,
		matchingService: matchSvc,
		settingsService: stSvc,
		monthPicker:     NewMonthPicker(time.Now(), nil, true),
		list:            l,
	}
}

func (m TransactionsModel) Title() string { return "Transactions" }

func (m TransactionsModel) ShortHelp() string {
	switch m.state {
	case txStateMonth:
		return "Esc: back | Enter: select"
	case txStateList:
		return "Esc: back | Enter: edit | n: new | x: delete | /: filter"
	case txStateEditing:
		return "Esc: cancel | Enter/Tab: navigate form"
	}

	return ""
}

type monthsLoadedMsg struct {
	months []string
}

func (m TransactionsModel) Init() tea.Cmd {
	svc := m.txService

	return func() tea.Msg {
		ctx, cancel := StoreCtx()
		defer cancel()

		months, _ := svc.Months(ctx)

		return monthsLoadedMsg{months: months}
	}
}

func (m TransactionsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case monthsLoadedMsg:
		m.monthPicker = NewMonthPicker(time.Now(), msg.months, true)
		return m, nil

	case MonthSelectedMsg:
		m.month = msg.Month
		m.loading = true
		m.state = txStateList

		return m, m.loadTxsCmd()

	case loadTxsMsg:
		m.loading = false
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		m.txs = msg.txs
		m.settings = msg.settings
		m.refreshListItems()

		m.status = ""
		if len(msg.txs) == 0 {
			m.status = "No transactions found."
		}

		return m, nil

	case saveTxResultMsg:
		m.state = txStateList
		m.form = nil

		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving: %v", msg.err)
			return m, nil
		}

		m.status = msg.status

		return m, m.loadTxsCmd()

	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width-4, msg.Height-8)
		return m, nil
	}

	switch m.state {
	case txStateMonth:
		return m.updateMonth(msg)
	case txStateList:
		return m.updateList(msg)
	case txStateEditing:
		return m.updateEditing(msg)
	}

	return m, nil
}

func (m TransactionsModel) updateMonth(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc && m.monthPicker.IsSelecting() {
			return m, Back
		}
	}

	var cmd tea.Cmd
	m.monthPicker, cmd = m.monthPicker.Update(msg)

	return m, cmd
}

func (m TransactionsModel) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		switch keyMsg.String() {
		case "esc":
			m.state = txStateMonth
			return m, nil
		case "enter":
			return m.startEditing(false)
		case "n":
			return m.startEditing(true)
		case "x":
			return m, m.deleteTxCmd()
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)

	return m, cmd
}

func (m TransactionsModel) startEditing(create bool) (tea.Model, tea.Cmd) {
	m.selectedTx = nil
	f := &txFields{date: time.Now().Format(time.DateOnly), typ: transaction.TypeExpense}

	if !create {
		selected, ok := m.list.SelectedItem().(txItem)
		if !ok {
			return m, nil
		}

		tx := selected.tx
		m.selectedTx = tx
		f.date = tx.Date
		f.desc = tx.Description
		f.amount = FormatAmount(tx.Amount)
		f.typ = tx.Type
		f.category = tx.CategoryID
	}

	m.fields = f

	categories := make([]huh.Option[string], 0, len(m.settings.Categories)+1)
	categories = append(categories, huh.NewOption("(none)", ""))

	for _, c := range m.settings.Categories {
		categories = append(categories, huh.NewOption(c.Name, c.ID))
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("date").
				Title("Date").
				Placeholder("YYYY-MM-DD").
				Value(&f.date).
				Validate(func(s string) error {
					if _, err := time.Parse(time.DateOnly, s); err != nil {
						return fmt.Errorf("date must be YYYY-MM-DD")
					}
					return nil
				}),

			huh.NewInput().
				Key("description").
				Title("Description").
				Value(&f.desc),

			huh.NewInput().
				Key("amount").
				Title("Amount").
				Value(&f.amount).
				Validate(func(s string) error {
					v, err := ParseAmount(s)
					if err != nil || v <= 0 {
						return fmt.Errorf("amount must be a positive number")
					}
					return nil
				}),

			huh.NewSelect[transaction.Type]().
				Key("type").
				Title("Type").
				Options(
					huh.NewOption("Expense", transaction.TypeExpense),
					huh.NewOption("Income", transaction.TypeIncome),
				).
				Value(&f.typ),

			huh.NewSelect[string]().
				Key("category").
				Title("Category").
				Options(categories...).
				Value(&f.category),
		),
	).WithWidth(50).WithShowHelp(false)

	m.state = txStateEditing

	return m, m.form.Init()
}

func (m TransactionsModel) updateEditing(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = txStateList
			m.form = nil

			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.saveTxCmd()
}

func (m TransactionsModel) View() string {
	switch m.state {
	case txStateMonth:
		return lipgloss.NewStyle().Padding(1).Render(m.monthPicker.View())

	case txStateList:
		if m.loading {
			return lipgloss.NewStyle().Padding(2).Render("Loading transactions...")
		}

		statusLine := ""
		if m.status != "" {
			statusLine = faintStyle.Render(m.status) + "\n"
		}

		return lipgloss.NewStyle().Padding(1).Render(statusLine + m.list.View())

	case txStateEditing:
		if m.form == nil {
			return ""
		}

		title := "New transaction"
		if m.selectedTx != nil {
			title = "Edit transaction " + m.selectedTx.ID
		}

		return lipgloss.NewStyle().Padding(1).Render(faintStyle.Render(title) + "\n\n" + m.form.View())
	}

	return ""
}

func (m *TransactionsModel) refreshListItems() {
	items := make([]list.Item, len(m.txs))
	for i, tx := range m.txs {
		items[i] = txItem{tx: tx, category: m.settings.CategoryName(tx.CategoryID)}
	}

	m.list.Title = "Transactions · " + monthLabel(m.month)
	m.list.SetItems(items)
}

func monthLabel(month string) string {
	if month == "" {
		return "all months"
	}

	return month
}

// Messages

type loadTxsMsg struct {
	txs      []*transaction.Transaction
	settings settings.AppSettings
	err      error
}

func (m TransactionsModel) loadTxsCmd() tea.Cmd {
	month := m.month
	txSvc := m.txService
	stSvc := m.settingsService

	return func() tea.Msg {
		ctx, cancel := StoreCtx()
		defer cancel()

		st, err := stSvc.Get(ctx)
		if err != nil {
			return loadTxsMsg{err: err}
		}

		txs, err := txSvc.List(ctx, month)

		return loadTxsMsg{txs: txs, settings: st, err: err}
	}
}

type saveTxResultMsg struct {
	status string
	err    error
}

func (m TransactionsModel) saveTxCmd() tea.Cmd {
	tx := m.selectedTx
	date := m.fields.date
	desc := strings.TrimSpace(m.fields.desc)
	typ := m.fields.typ
	category := m.fields.category
	matchSvc := m.matchingService
	txSvc := m.txService

	amount, err := ParseAmount(m.fields.amount)
	if err != nil {
		return func() tea.Msg { return saveTxResultMsg{err: err} }
	}

	return func() tea.Msg {
		ctx, cancel := StoreCtx()
		defer cancel()

		if tx == nil {
			if _, err := txSvc.Add(ctx, transaction.CreateParams{
				Date:        date,
				Description: desc,
				Amount:      amount,
				Type:        typ,
				CategoryID:  category,
			}); err != nil {
				return saveTxResultMsg{err: err}
			}

			return saveTxResultMsg{status: "Added."}
		}

		// Recategorising teaches the importer to do the same next time.
		if category != "" && category != tx.CategoryID && desc != "" {
			_ = matchSvc.Learn(ctx, desc, category)
		}

		if _, err := txSvc.Update(ctx, tx.ID, transaction.Patch{
			Date:        &date,
			Description: &desc,
			Amount:      &amount,
			Type:        &typ,
			CategoryID:  &category,
		}); err != nil {
			return saveTxResultMsg{err: err}
		}

		return saveTxResultMsg{status: "Saved."}
	}
}

func (m TransactionsModel) deleteTxCmd() tea.Cmd {
	selected, ok := m.list.SelectedItem().(txItem)
	if !ok {
		return nil
	}

	id := selected.tx.ID
	txSvc := m.txService

	return func() tea.Msg {
		ctx, cancel := StoreCtx()
		defer cancel()

		if _, err := txSvc.Delete(ctx, id); err != nil {
			return saveTxResultMsg{err: err}
		}

		return saveTxResultMsg{status: "Deleted."}
	}
}

// txItemDelegate renders items in the list.
type txItemDelegate struct{}

func (d txItemDelegate) Height() int                             { return 2 }
func (d txItemDelegate) Spacing() int                            { return 0 }
func (d txItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d txItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	i, ok := item.(txItem)
	if !ok {
		return
	}

	title := i.Title()
	if index == m.Index() {
		title = pickStyle.Render("> " + title)
	}

	fmt.Fprintf(w, "  %s\n", title)
	fmt.Fprintf(w, "    %s\n", faintStyle.Render(i.Description()))
}
