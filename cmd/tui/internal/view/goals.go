package view

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/caixa/internal/goal"
	"github.com/MrJamesThe3rd/caixa/internal/settings"
)

type goalsState int

const (
	goalsStateList goalsState = iota
	goalsStateDeposit
	goalsStatePaid
)

type GoalsModel struct {
	CommonModel
	goalService     *goal.Service
	settingsService *settings.Service

	state    goalsState
	goals    []*goal.Goal
	settings settings.AppSettings
	cursor   int
	bar      progress.Model
	form     *huh.Form
	fields   *goalFields

	status string
}

type goalFields struct {
	amount     string
	withTx     bool
	categoryID string
}

func NewGoalsModel(goalSvc *goal.Service, stSvc *settings.Service) GoalsModel {
	return GoalsModel{
		goalService:     goalSvc,
		settingsService: stSvc,
		bar:             progress.New(progress.WithDefaultGradient(), progress.WithWidth(30)),
	}
}

func (m GoalsModel) Title() string { return "Goals" }

func (m GoalsModel) ShortHelp() string {
	if m.state == goalsStateList {
		return "Esc: back | Enter: deposit | p: mark as paid"
	}

	return "Esc: cancel | Enter/Tab: navigate form"
}

func (m GoalsModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m GoalsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case goalsLoadedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		m.goals = msg.goals
		m.settings = msg.settings
		m.cursor = min(m.cursor, max(len(m.goals)-1, 0))

		return m, nil

	case goalSavedMsg:
		m.state = goalsStateList
		m.form = nil
		m.status = msg.status

		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		}

		return m, m.loadCmd()
	}

	switch m.state {
	case goalsStateList:
		return m.updateList(msg)
	case goalsStateDeposit, goalsStatePaid:
		return m.updateForm(msg)
	}

	return m, nil
}

func (m GoalsModel) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "esc":
		return m, Back
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.goals)-1 {
			m.cursor++
		}
	case "enter":
		if len(m.goals) == 0 {
			return m, nil
		}

		return m.startForm(goalsStateDeposit)
	case "p":
		if len(m.goals) == 0 || m.goals[m.cursor].Completed() {
			return m, nil
		}

		return m.startForm(goalsStatePaid)
	}

	return m, nil
}

func (m GoalsModel) startForm(state goalsState) (tea.Model, tea.Cmd) {
	f := &goalFields{}
	m.fields = f

	categories := make([]huh.Option[string], 0, len(m.settings.Categories))
	for _, c := range m.settings.Categories {
		categories = append(categories, huh.NewOption(c.Name, c.ID))
	}

	if len(categories) > 0 {
		f.categoryID = m.settings.Categories[0].ID
	}

	var fields []huh.Field

	if state == goalsStateDeposit {
		fields = append(fields, huh.NewInput().
			Key("amount").
			Title("Deposit amount").
			Value(&f.amount).
			Validate(func(s string) error {
				v, err := ParseAmount(s)
				if err != nil || v <= 0 {
					return errors.New("amount must be a positive number")
				}
				return nil
			}))
	}

	fields = append(fields,
		huh.NewConfirm().
			Key("with_tx").
			Title("Record it as an expense transaction?").
			Affirmative("Yes").
			Negative("No").
			Value(&f.withTx),
		huh.NewSelect[string]().
			Key("category").
			Title("Category").
			Options(categories...).
			Value(&f.categoryID),
	)

	m.form = huh.NewForm(huh.NewGroup(fields...)).WithWidth(50).WithShowHelp(false)
	m.state = state

	return m, m.form.Init()
}

func (m GoalsModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = goalsStateList
		m.form = nil

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.saveCmd()
}

func (m GoalsModel) View() string {
	var sb strings.Builder

	switch m.state {
	case goalsStateList:
		if len(m.goals) == 0 {
			sb.WriteString("No goals yet.\n")
		}

		for i, g := range m.goals {
			cursor := "  "
			name := g.Name

			if i == m.cursor {
				cursor = "> "
				name = pickStyle.Render(name)
			}

			done := ""
			if g.Completed() {
				done = okStyle.Render(" ✓ paid")
			}

			fmt.Fprintf(&sb, "%s%s%s\n   %s  %s / %s\n\n", cursor, name, done,
				m.bar.ViewAs(g.Progress()), FormatAmount(g.CurrentAmount), FormatAmount(g.TargetAmount))
		}

	case goalsStateDeposit, goalsStatePaid:
		g := m.goals[m.cursor]

		title := "Deposit into " + g.Name
		if m.state == goalsStatePaid {
			title = fmt.Sprintf("Mark %s as paid (%s)", g.Name, FormatAmount(g.CurrentAmount))
		}

		sb.WriteString(faintStyle.Render(title) + "\n\n" + m.form.View())
	}

	if m.status != "" {
		sb.WriteString("\n" + faintStyle.Render(m.status))
	}

	return lipgloss.NewStyle().Padding(1).Render(sb.String())
}

// Messages

type goalsLoadedMsg struct {
	goals    []*goal.Goal
	settings settings.AppSettings
	err      error
}

type goalSavedMsg struct {
	status string
	err    error
}

func (m GoalsModel) loadCmd() tea.Cmd {
	goalSvc := m.goalService
	stSvc := m.settingsService

	return func() tea.Msg {
		ctx, cancel := StoreCtx()
		defer cancel()

		st, err := stSvc.Get(ctx)
		if err != nil {
			return goalsLoadedMsg{err: err}
		}

		goals, err := goalSvc.List(ctx)

		return goalsLoadedMsg{goals: goals, settings: st, err: err}
	}
}

func (m GoalsModel) saveCmd() tea.Cmd {
	id := m.goals[m.cursor].ID
	state := m.state
	f := *m.fields
	goalSvc := m.goalService

	return func() tea.Msg {
		ctx, cancel := StoreCtx()
		defer cancel()

		var (
			res *goal.Result
			err error
		)

		if state == goalsStateDeposit {
			amount, perr := ParseAmount(f.amount)
			if perr != nil {
				return goalSavedMsg{err: perr}
			}

			res, err = goalSvc.Deposit(ctx, id, amount, goal.DepositOptions{
				CreateExpenseTransaction: f.withTx,
				ExpenseCategoryID:        f.categoryID,
			})
		} else {
			res, err = goalSvc.MarkAsPaid(ctx, id, goal.PaidOptions{
				CreateInvestmentTransaction: f.withTx,
				InvestmentCategoryID:        f.categoryID,
			})
		}

		if errors.Is(err, goal.ErrLinkPending) {
			return goalSavedMsg{status: "Saved, but the transaction could not be linked: " + err.Error()}
		}

		if err != nil {
			return goalSavedMsg{err: err}
		}

		return goalSavedMsg{status: fmt.Sprintf("Saved (transaction link: %s).", res.Link)}
	}
}
