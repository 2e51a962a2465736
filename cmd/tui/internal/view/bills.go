package view

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/caixa/internal/bill"
	"github.com/MrJamesThe3rd/caixa/internal/paid"
)

// BillsModel lists the projected occurrences of fixed bills and installments
// and toggles their paid markers.
type BillsModel struct {
	CommonModel
	billService *bill.Service
	paidService *paid.Service
	horizon     int

	table      table.Model
	items      []bill.Occurrence
	paid       map[string]bool
	projection []bill.MonthProjection

	loading bool
	status  string
}

func NewBillsModel(billSvc *bill.Service, paidSvc *paid.Service, horizon int) BillsModel {
	columns := []table.Column{
		{Title: "Due", Width: 12},
		{Title: "Paid", Width: 6},
		{Title: "Amount", Width: 12},
		{Title: "Name", Width: 30},
		{Title: "Part", Width: 8},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return BillsModel{
		billService: billSvc,
		paidService: paidSvc,
		horizon:     horizon,
		table:       t,
		loading:     true,
	}
}

func (m BillsModel) Title() string { return "Upcoming Bills" }

func (m BillsModel) ShortHelp() string {
	return "Esc: back | Space: toggle paid | r: reload"
}

func (m BillsModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m BillsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case billsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		m.items = msg.items
		m.projection = msg.projection
		m.paid = make(map[string]bool, len(msg.paid))

		for _, id := range msg.paid {
			m.paid[id] = true
		}

		m.refreshRows()

		return m, nil

	case paidToggledMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		m.status = ""

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(max(msg.Height-12, 5))
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case " ":
			return m, m.toggleCmd()
		case "r":
			m.loading = true
			return m, m.loadCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m *BillsModel) refreshRows() {
	rows := make([]table.Row, len(m.items))

	for i, it := range m.items {
		mark := ""
		if m.paid[it.ID] {
			mark = "✓"
		}

		rows[i] = table.Row{it.Date, mark, FormatAmount(it.Amount), it.Name, it.Label}
	}

	m.table.SetRows(rows)
}

func (m BillsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading bills...")
	}

	header := ""
	if len(m.projection) > 0 {
		p := m.projection[0]
		header = fmt.Sprintf("%s  income %s  open bills %s  balance %s\n\n",
			p.Month, FormatAmount(p.Income), FormatAmount(p.Expense), FormatAmount(p.Balance))
	}

	statusLine := ""
	if m.status != "" {
		statusLine = "\n" + errStyle.Render(m.status)
	}

	return lipgloss.NewStyle().Padding(1).Render(header + m.table.View() + statusLine)
}

// Messages

type billsLoadedMsg struct {
	items      []bill.Occurrence
	paid       []string
	projection []bill.MonthProjection
	err        error
}

type paidToggledMsg struct {
	err error
}

func (m BillsModel) loadCmd() tea.Cmd {
	billSvc := m.billService
	paidSvc := m.paidService
	horizon := m.horizon

	return func() tea.Msg {
		ctx, cancel := StoreCtx()
		defer cancel()

		fixed, err := billSvc.FixedBills(ctx)
		if err != nil {
			return billsLoadedMsg{err: err}
		}

		debts, err := billSvc.InstallmentDebts(ctx)
		if err != nil {
			return billsLoadedMsg{err: err}
		}

		marked, err := paidSvc.List(ctx)
		if err != nil {
			return billsLoadedMsg{err: err}
		}

		start := bill.CurrentMonth(time.Now())

		items, err := bill.Upcoming(fixed, debts, start, horizon)
		if err != nil {
			return billsLoadedMsg{err: err}
		}

		projection, err := bill.MonthlyProjection(fixed, debts, marked, start, 1)
		if err != nil {
			return billsLoadedMsg{err: err}
		}

		return billsLoadedMsg{items: items, paid: marked, projection: projection}
	}
}

func (m BillsModel) toggleCmd() tea.Cmd {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.items) {
		return nil
	}

	id := m.items[idx].ID
	paidSvc := m.paidService

	return func() tea.Msg {
		ctx, cancel := StoreCtx()
		defer cancel()

		_, err := paidSvc.Toggle(ctx, id)

		return paidToggledMsg{err: err}
	}
}
