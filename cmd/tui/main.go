package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/caixa/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/caixa/internal/app"
	"github.com/MrJamesThe3rd/caixa/internal/config"
	"github.com/MrJamesThe3rd/caixa/internal/log"
)

type model struct {
	app *app.App

	width  int
	height int

	// current is nil while the menu is shown.
	current view.View
}

func initialModel(a *app.App) model {
	return model{app: a}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) open(v view.View) (tea.Model, tea.Cmd) {
	m.current = v

	cmds := []tea.Cmd{v.Init()}
	if m.width > 0 {
		size := tea.WindowSizeMsg{Width: m.width, Height: m.height}
		cmds = append(cmds, func() tea.Msg { return size })
	}

	return m, tea.Batch(cmds...)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height

	case view.BackMsg:
		m.current = nil
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.current == nil {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "1":
				return m.open(view.NewTransactionsModel(m.app.Transactions, m.app.Matching, m.app.Settings))
			case "2":
				return m.open(view.NewImportModel(m.app.Importer, m.app.Settings))
			case "3":
				return m.open(view.NewBillsModel(m.app.Bills, m.app.Paid, m.app.ProjectionMonths()))
			case "4":
				return m.open(view.NewGoalsModel(m.app.Goals, m.app.Settings))
			case "5":
				return m.open(view.NewExportModel(m.app.Export, m.app.Transactions))
			}

			return m, nil
		}
	}

	if m.current == nil {
		return m, nil
	}

	next, cmd := m.current.Update(msg)
	if v, ok := next.(view.View); ok {
		m.current = v
	}

	return m, cmd
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	helpStyle  = lipgloss.NewStyle().Faint(true)
)

func (m model) View() string {
	if m.current == nil {
		return lipgloss.NewStyle().Padding(2).Render(
			titleStyle.Render("Caixa") + "\n\n" +
				"1. Transactions\n" +
				"2. Import Statement\n" +
				"3. Upcoming Bills\n" +
				"4. Goals\n" +
				"5. Export Transactions\n\n" +
				"q. Quit",
		)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Padding(1, 1, 0).Render(titleStyle.Render(m.current.Title())),
		m.current.View(),
		lipgloss.NewStyle().Padding(0, 1).Render(helpStyle.Render(m.current.ShortHelp())),
	)
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// The terminal belongs to the UI, so logs go to a file beside the data root.
	root, err := cfg.DataDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(root, 0o755); err != nil {
		return fmt.Errorf("creating data root: %w", err)
	}

	logFile, err := os.OpenFile(filepath.Join(root, "tui.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer logFile.Close()

	logger := log.New(cfg.App.LogLevel, logFile)
	slog.SetDefault(logger)

	a, err := app.Open(context.Background(), cfg, root, logger)
	if err != nil {
		return fmt.Errorf("failed to open data root: %w", err)
	}

	p := tea.NewProgram(initialModel(a), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}

	return nil
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
