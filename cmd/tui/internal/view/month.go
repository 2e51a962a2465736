package view

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/caixa/internal/bill"
)

// MonthSelectedMsg is emitted when the user has picked a month. Month is empty for all months.
type MonthSelectedMsg struct {
	Month string
}

type monthOption struct {
	label string
	month string
	typed bool
}

type monthPickerState int

const (
	monthPickerSelect monthPickerState = iota
	monthPickerCustom
)

// MonthPicker is a reusable component for choosing a month shard.
type MonthPicker struct {
	state   monthPickerState
	options []monthOption
	cursor  int
	input   textinput.Model
	err     error
}

// NewMonthPicker offers the current and previous months, the stored months,
// all months when allowAll is set, and a typed YYYY-MM.
func NewMonthPicker(now time.Time, stored []string, allowAll bool) MonthPicker {
	current := bill.CurrentMonth(now)
	previous, _ := bill.AddMonths(current, -1)

	options := []monthOption{
		{label: "This Month (" + current + ")", month: current},
		{label: "Last Month (" + previous + ")", month: previous},
	}

	for _, m := range stored {
		if m == current || m == previous {
			continue
		}

		options = append(options, monthOption{label: m, month: m})
	}

	if allowAll {
		options = append(options, monthOption{label: "All Months"})
	}

	options = append(options, monthOption{label: "Other...", typed: true})

	ti := textinput.New()
	ti.Placeholder = "YYYY-MM"
	ti.CharLimit = 7
	ti.Width = 10
	ti.Prompt = "Month: "

	return MonthPicker{options: options, input: ti}
}

func (m MonthPicker) Init() tea.Cmd {
	return nil
}

func (m MonthPicker) Update(msg tea.Msg) (MonthPicker, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)

	if m.state == monthPickerCustom {
		if ok {
			switch keyMsg.String() {
			case "enter":
				return m.submitTyped()
			case "esc":
				m.state = monthPickerSelect
				m.err = nil

				return m, nil
			}
		}

		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)

		return m, cmd
	}

	if !ok {
		return m, nil
	}

	switch keyMsg.Type {
	case tea.KeyUp:
		if m.cursor > 0 {
			m.cursor--
		}
	case tea.KeyDown:
		if m.cursor < len(m.options)-1 {
			m.cursor++
		}
	case tea.KeyEnter:
		opt := m.options[m.cursor]
		if opt.typed {
			m.state = monthPickerCustom
			m.input.Focus()

			return m, textinput.Blink
		}

		return m, selectMonth(opt.month)
	}

	return m, nil
}

func (m MonthPicker) submitTyped() (MonthPicker, tea.Cmd) {
	month := m.input.Value()
	if _, err := time.Parse("2006-01", month); err != nil {
		m.err = fmt.Errorf("invalid month (YYYY-MM)")
		return m, nil
	}

	m.err = nil

	return m, selectMonth(month)
}

func selectMonth(month string) tea.Cmd {
	return func() tea.Msg {
		return MonthSelectedMsg{Month: month}
	}
}

func (m MonthPicker) View() string {
	errStr := ""
	if m.err != nil {
		errStr = errStyle.Render(fmt.Sprintf("\n\nError: %v", m.err))
	}

	if m.state == monthPickerCustom {
		return fmt.Sprintf("Enter Month:\n\n%s\n\n(Enter to confirm, Esc to back)%s", m.input.View(), errStr)
	}

	s := "Select Month:\n\n"
	for i, opt := range m.options {
		cursor := " "
		if i == m.cursor {
			cursor = ">"
		}

		s += fmt.Sprintf("%s %s\n", cursor, opt.label)
	}

	s += "\n(Enter to select, Esc to back)"

	return lipgloss.JoinVertical(lipgloss.Left, s+errStr)
}

// IsSelecting returns true if the picker is in the selection state (not typed input).
func (m MonthPicker) IsSelecting() bool {
	return m.state == monthPickerSelect
}
