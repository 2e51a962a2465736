package view

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/caixa/internal/importer"
	"github.com/MrJamesThe3rd/caixa/internal/settings"
	"github.com/MrJamesThe3rd/caixa/internal/transaction"
)

const importTimeout = 2 * time.Minute

type importStep int

const (
	importStepSource importStep = iota
	importStepFile
	importStepBusy
	importStepReview
	importStepCategory
	importStepDone
)

// reviewRow is one parsed statement line; only kept rows are imported.
type reviewRow struct {
	params transaction.CreateParams
	keep   bool
}

type ImportModel struct {
	CommonModel
	importService   *importer.Service
	settingsService *settings.Service

	step     importStep
	form     *huh.Form
	bank     *importer.Bank
	category *string
	picker   filepicker.Model
	spinner  spinner.Model
	busy     string

	settings settings.AppSettings
	rows     []reviewRow
	table    table.Model

	result string
	err    error
}

func NewImportModel(impSvc *importer.Service, stSvc *settings.Service) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv", ".CSV"}
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = pickStyle

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "", Width: 3},
			{Title: "Date", Width: 10},
			{Title: "Amount", Width: 12},
			{Title: "Description", Width: 36},
			{Title: "Category", Width: 16},
		}),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	m := ImportModel{
		importService:   impSvc,
		settingsService: stSvc,
		picker:          fp,
		spinner:         sp,
		table:           t,
		settings:        settings.Defaults(),
	}
	m.form, m.bank = newSourceForm()

	return m
}

func (m ImportModel) Title() string { return "Import Statement" }

func (m ImportModel) ShortHelp() string {
	switch m.step {
	case importStepReview:
		return "Space: keep/skip | a: keep all/none | c: category | Enter: import kept | Esc: start over"
	case importStepDone:
		return "Esc: back to menu"
	case importStepBusy:
		return "Working..."
	}

	return "Esc: back | Enter: select"
}

type importSettingsMsg struct {
	settings settings.AppSettings
}

func (m ImportModel) Init() tea.Cmd {
	svc := m.settingsService

	return tea.Batch(m.form.Init(), func() tea.Msg {
		ctx, cancel := StoreCtx()
		defer cancel()

		st, err := svc.Get(ctx)
		if err != nil {
			return nil
		}

		return importSettingsMsg{settings: st}
	})
}

func newSourceForm() (*huh.Form, *importer.Bank) {
	bank := importer.BankAuto

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[importer.Bank]().
				Key("bank").
				Title("Statement from").
				Options(
					huh.NewOption("Detect automatically", importer.BankAuto),
					huh.NewOption("Caixa Geral de Depósitos", importer.BankCGD),
					huh.NewOption("Banco Inter", importer.BankInter),
					huh.NewOption("Nubank", importer.BankNubank),
				).
				Value(&bank),
		),
	).WithWidth(50).WithShowHelp(false)

	return form, &bank
}

func (m ImportModel) restart() (tea.Model, tea.Cmd) {
	m.step = importStepSource
	m.rows = nil
	m.err = nil
	m.result = ""
	m.form, m.bank = newSourceForm()

	return m, m.form.Init()
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case importSettingsMsg:
		m.settings = msg.settings
		return m, nil

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.table.SetHeight(max(msg.Height-12, 5))
		m.picker.SetHeight(max(msg.Height-10, 5))

		return m, nil

	case parsedMsg:
		if msg.err != nil {
			m.step = importStepDone
			m.err = msg.err
			m.result = fmt.Sprintf("Could not read the statement: %v", msg.err)

			return m, nil
		}

		m.rows = make([]reviewRow, len(msg.params))
		for i, p := range msg.params {
			m.rows[i] = reviewRow{params: p, keep: true}
		}

		m.refreshTable()
		m.table.GotoTop()
		m.step = importStepReview

		return m, nil

	case savedMsg:
		m.step = importStepDone
		m.err = msg.err
		m.result = fmt.Sprintf("Imported %d of %d transactions.", msg.count, msg.wanted)

		if msg.err != nil {
			m.result += fmt.Sprintf("\nStopped at: %v", msg.err)
		}

		return m, nil
	}

	switch m.step {
	case importStepSource:
		return m.updateSource(msg)
	case importStepFile:
		return m.updateFile(msg)
	case importStepBusy:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	case importStepReview:
		return m.updateReview(msg)
	case importStepCategory:
		return m.updateCategory(msg)
	case importStepDone:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
			return m, Back
		}
	}

	return m, nil
}

func (m ImportModel) updateSource(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return m, Back
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.step = importStepFile

	return m, m.picker.Init()
}

func (m ImportModel) updateFile(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return m.restart()
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	if ok, path := m.picker.DidSelectFile(msg); ok {
		m.step = importStepBusy
		m.busy = "Reading " + path

		return m, tea.Batch(m.spinner.Tick, m.parseCmd(*m.bank, path))
	}

	return m, cmd
}

func (m ImportModel) updateReview(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	idx := m.table.Cursor()

	switch keyMsg.String() {
	case "esc":
		return m.restart()
	case " ":
		if idx < len(m.rows) {
			m.rows[idx].keep = !m.rows[idx].keep
			m.refreshTable()
		}

		return m, nil
	case "a":
		keep := m.keptCount() < len(m.rows)
		for i := range m.rows {
			m.rows[i].keep = keep
		}

		m.refreshTable()

		return m, nil
	case "c":
		if idx >= len(m.rows) {
			return m, nil
		}

		return m.startCategory(idx)
	case "enter":
		kept := m.kept()
		if len(kept) == 0 {
			return m, nil
		}

		m.step = importStepBusy
		m.busy = fmt.Sprintf("Importing %d transactions", len(kept))

		return m, tea.Batch(m.spinner.Tick, m.saveCmd(kept))
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m ImportModel) startCategory(idx int) (tea.Model, tea.Cmd) {
	current := m.rows[idx].params.CategoryID
	m.category = &current

	options := []huh.Option[string]{huh.NewOption("(uncategorised)", "")}
	for _, c := range m.settings.Categories {
		options = append(options, huh.NewOption(c.Name, c.ID))
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("category").
				Title(m.rows[idx].params.Description).
				Options(options...).
				Value(m.category),
		),
	).WithWidth(50).WithShowHelp(false)
	m.step = importStepCategory

	return m, m.form.Init()
}

func (m ImportModel) updateCategory(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.step = importStepReview
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	if idx := m.table.Cursor(); idx < len(m.rows) {
		m.rows[idx].params.CategoryID = *m.category
	}

	m.refreshTable()
	m.step = importStepReview

	return m, nil
}

func (m *ImportModel) refreshTable() {
	rows := make([]table.Row, len(m.rows))

	for i, r := range m.rows {
		mark := " "
		if r.keep {
			mark = "✓"
		}

		category := "-"
		if r.params.CategoryID != "" {
			category = m.settings.CategoryName(r.params.CategoryID)
		}

		rows[i] = table.Row{mark, r.params.Date, FormatSigned(r.params.Amount, r.params.Type), r.params.Description, category}
	}

	m.table.SetRows(rows)
}

func (m ImportModel) keptCount() int {
	n := 0

	for _, r := range m.rows {
		if r.keep {
			n++
		}
	}

	return n
}

func (m ImportModel) kept() []transaction.CreateParams {
	out := make([]transaction.CreateParams, 0, len(m.rows))

	for _, r := range m.rows {
		if r.keep {
			out = append(out, r.params)
		}
	}

	return out
}

// net is the signed sum of the kept rows.
func (m ImportModel) net() decimal.Decimal {
	total := decimal.Zero

	for _, r := range m.rows {
		if !r.keep {
			continue
		}

		amount := decimal.NewFromFloat(r.params.Amount)
		if r.params.Type == transaction.TypeExpense {
			amount = amount.Neg()
		}

		total = total.Add(amount)
	}

	return total
}

func (m ImportModel) View() string {
	pad := lipgloss.NewStyle().Padding(1)

	switch m.step {
	case importStepSource, importStepCategory:
		return pad.Render(m.form.View())
	case importStepFile:
		return pad.Render(fmt.Sprintf("Statement file (%s):\n\n%s", *m.bank, m.picker.View()))
	case importStepBusy:
		return pad.Render(m.spinner.View() + " " + m.busy + "...")
	case importStepReview:
		if len(m.rows) == 0 {
			return pad.Render("The statement has no transactions.\n\n" + faintStyle.Render("(Esc to start over)"))
		}

		header := fmt.Sprintf("%d of %d rows kept, net %s\n\n", m.keptCount(), len(m.rows), m.net().StringFixed(2))

		return pad.Render(header + m.table.View())
	case importStepDone:
		style := okStyle
		if m.err != nil {
			style = errStyle
		}

		return pad.Render(style.Render(m.result))
	}

	return ""
}

type parsedMsg struct {
	params []transaction.CreateParams
	err    error
}

type savedMsg struct {
	count  int
	wanted int
	err    error
}

func (m ImportModel) parseCmd(bank importer.Bank, path string) tea.Cmd {
	svc := m.importService

	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return parsedMsg{err: err}
		}
		defer f.Close()

		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		params, err := svc.Preview(ctx, bank, f)

		return parsedMsg{params: params, err: err}
	}
}

func (m ImportModel) saveCmd(params []transaction.CreateParams) tea.Cmd {
	svc := m.importService

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		txs, err := svc.Confirm(ctx, params)

		return savedMsg{count: len(txs), wanted: len(params), err: err}
	}
}
