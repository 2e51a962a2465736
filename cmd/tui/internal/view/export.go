package view

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/caixa/internal/bill"
	"github.com/MrJamesThe3rd/caixa/internal/export"
	"github.com/MrJamesThe3rd/caixa/internal/transaction"
)

const exportTimeout = 2 * time.Minute

// allMonths stands for every month in the month select; the export service takes "" for it.
const allMonths = "all"

// exportChoices is bound to the export form; shared by pointer across model copies.
type exportChoices struct {
	month       string
	dir         string
	withSummary bool
}

type exportDone struct {
	files  []string
	totals export.Totals
	err    error
}

type ExportModel struct {
	CommonModel
	exportService *export.Service
	txService     *transaction.Service

	form    *huh.Form
	choices *exportChoices
	spinner spinner.Model
	running bool
	done    *exportDone
}

func NewExportModel(svc *export.Service, txSvc *transaction.Service) ExportModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return ExportModel{
		exportService: svc,
		txService:     txSvc,
		spinner:       sp,
	}
}

func (m ExportModel) Title() string { return "Export Transactions" }

func (m ExportModel) ShortHelp() string {
	if m.done != nil {
		return "Esc: back to menu | r: export again"
	}

	if m.running {
		return "Exporting..."
	}

	return "Esc: back | Enter: confirm"
}

type exportMonthsMsg struct {
	months []string
}

func (m ExportModel) Init() tea.Cmd {
	svc := m.txService

	return func() tea.Msg {
		ctx, cancel := StoreCtx()
		defer cancel()

		months, _ := svc.Months(ctx)

		return exportMonthsMsg{months: months}
	}
}

func (m ExportModel) buildForm(months []string) (*huh.Form, *exportChoices) {
	c := &exportChoices{
		month:       bill.CurrentMonth(time.Now()),
		dir:         "./exports",
		withSummary: true,
	}

	options := []huh.Option[string]{huh.NewOption("This month ("+c.month+")", c.month)}
	for _, month := range months {
		if month != c.month {
			options = append(options, huh.NewOption(month, month))
		}
	}

	options = append(options, huh.NewOption("All months", allMonths))

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("month").
				Title("Month").
				Options(options...).
				Value(&c.month),
			huh.NewInput().
				Key("dir").
				Title("Output directory").
				Description("Created if it does not exist").
				Value(&c.dir),
			huh.NewConfirm().
				Key("summary").
				Title("Also write summary.txt?").
				Affirmative("Yes").
				Negative("No").
				Value(&c.withSummary),
		),
	).WithWidth(50).WithShowHelp(false)

	return form, c
}

func (m ExportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case exportMonthsMsg:
		m.form, m.choices = m.buildForm(msg.months)
		return m, m.form.Init()

	case exportDone:
		m.running = false
		m.done = &msg

		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc && !m.running {
			return m, Back
		}

		if m.done != nil {
			if msg.String() == "r" {
				m.done = nil
				return m, m.Init()
			}

			return m, nil
		}
	}

	if m.running {
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	}

	if m.form == nil || m.done != nil {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.running = true

	return m, tea.Batch(m.spinner.Tick, m.exportCmd(*m.choices))
}

func (m ExportModel) View() string {
	pad := lipgloss.NewStyle().Padding(1)

	switch {
	case m.done != nil:
		return pad.Render(m.viewDone())
	case m.running:
		return pad.Render(m.spinner.View() + " Writing files...")
	case m.form != nil:
		return pad.Render(m.form.View())
	}

	return pad.Render(faintStyle.Render("Loading months..."))
}

func (m ExportModel) viewDone() string {
	d := m.done
	if d.err != nil {
		return errStyle.Render(fmt.Sprintf("Export failed: %v", d.err))
	}

	var sb strings.Builder

	sb.WriteString(okStyle.Bold(true).Render("Export complete") + "\n\n")

	for _, f := range d.files {
		sb.WriteString("  " + f + "\n")
	}

	fmt.Fprintf(&sb, "\nIncome   %12s\n", d.totals.Income.StringFixed(2))
	fmt.Fprintf(&sb, "Expense  %12s\n", d.totals.Expense.StringFixed(2))
	fmt.Fprintf(&sb, "Balance  %12s\n", d.totals.Balance().StringFixed(2))

	return sb.String()
}

func (m ExportModel) exportCmd(c exportChoices) tea.Cmd {
	svc := m.exportService

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
		defer cancel()

		month, label := c.month, c.month
		if month == allMonths {
			month = ""
		}

		if err := os.MkdirAll(c.dir, 0o755); err != nil {
			return exportDone{err: err}
		}

		rows, err := svc.Rows(ctx, month)
		if err != nil {
			return exportDone{err: err}
		}

		csvPath := filepath.Join(c.dir, "transactions_"+label+".csv")
		if err := writeExportFile(csvPath, func(f *os.File) error { return svc.WriteCSV(ctx, f, month) }); err != nil {
			return exportDone{err: err}
		}

		done := exportDone{files: []string{csvPath}, totals: export.Total(rows)}

		if c.withSummary {
			summaryPath := filepath.Join(c.dir, "summary_"+label+".txt")
			if err := os.WriteFile(summaryPath, []byte(svc.Summary(rows)), 0o644); err != nil {
				return exportDone{err: err}
			}

			done.files = append(done.files, summaryPath)
		}

		return done
	}
}

func writeExportFile(path string, write func(f *os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := write(f); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}
