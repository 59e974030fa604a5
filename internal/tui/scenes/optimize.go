package scenes

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/hfp/internal/breakeven"
	"github.com/rgehrsitz/hfp/internal/tui/tuimsg"
	"github.com/rgehrsitz/hfp/internal/tui/tuistyles"
)

var keyGoal = key.NewBinding(key.WithKeys("tab"))

// OptimizeMode represents the step of the break-even search the scene is in
type OptimizeMode int

const (
	ModeSelectTarget OptimizeMode = iota
	ModeSetAmount
	ModeShowResults
)

var optimizeTargets = []struct {
	target breakeven.OptimizationTarget
	label  string
}{
	{breakeven.OptimizeRetirementAge, "Earliest retirement age"},
	{breakeven.OptimizeLivingExpenseRatio, "Highest living expense ratio"},
	{breakeven.OptimizeInitialSavings, "Lowest starting savings"},
	{breakeven.OptimizeAll, "All of the above"},
}

// OptimizeModel runs the break-even solver on the parameters being worked on.
type OptimizeModel struct {
	source      string
	selected    int
	goal        breakeven.OptimizationGoal
	mode        OptimizeMode
	amountInput textinput.Model
	optimizing  bool
	result      *breakeven.OptimizationResult
	multi       *breakeven.MultiDimensionalResult
	status      string
	offset      int
	width       int
	height      int
}

// NewOptimizeModel creates a new optimize scene model
func NewOptimizeModel() *OptimizeModel {
	ti := textinput.New()
	ti.Placeholder = "e.g. 3000000"
	ti.CharLimit = 14
	ti.Width = 20

	return &OptimizeModel{goal: breakeven.GoalSustain, amountInput: ti}
}

// SetSource names the parameters the search will start from.
func (m *OptimizeModel) SetSource(source string) {
	m.source = source
}

// SetSize updates the model dimensions
func (m *OptimizeModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SetOptimizing marks a search as running.
func (m *OptimizeModel) SetOptimizing(optimizing bool) {
	m.optimizing = optimizing
}

// Editing reports whether the amount input has focus.
func (m *OptimizeModel) Editing() bool {
	return m.mode == ModeSetAmount
}

// Goal returns the selected goal.
func (m *OptimizeModel) Goal() breakeven.OptimizationGoal {
	return m.goal
}

// SetResult shows a finished search. Exactly one of result and multi is set.
func (m *OptimizeModel) SetResult(result *breakeven.OptimizationResult, multi *breakeven.MultiDimensionalResult) {
	m.result = result
	m.multi = multi
	m.optimizing = false
	m.offset = 0
	m.mode = ModeShowResults
}

// Update handles messages for the optimize scene
func (m *OptimizeModel) Update(msg tea.Msg) (*OptimizeModel, tea.Cmd) {
	switch m.mode {
	case ModeSetAmount:
		return m.updateAmountInput(msg)
	case ModeShowResults:
		return m.updateResults(msg)
	}
	return m.updateTargetSelection(msg)
}

func (m *OptimizeModel) updateTargetSelection(msg tea.Msg) (*OptimizeModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || m.optimizing {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, keyUp):
		if m.selected > 0 {
			m.selected--
		}
	case key.Matches(keyMsg, keyDown):
		if m.selected < len(optimizeTargets)-1 {
			m.selected++
		}
	case key.Matches(keyMsg, keyGoal):
		if m.goal == breakeven.GoalSustain {
			m.goal = breakeven.GoalTargetAssets
		} else {
			m.goal = breakeven.GoalSustain
		}
	case key.Matches(keyMsg, keyEnter):
		if m.goal == breakeven.GoalTargetAssets {
			m.mode = ModeSetAmount
			m.status = ""
			return m, m.amountInput.Focus()
		}
		return m, m.requestCmd(nil)
	}
	return m, nil
}

func (m *OptimizeModel) updateAmountInput(msg tea.Msg) (*OptimizeModel, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, keyCancel):
			m.mode = ModeSelectTarget
			m.amountInput.Blur()
			return m, nil
		case key.Matches(keyMsg, keyEnter):
			amount, err := decimal.NewFromString(strings.TrimSpace(m.amountInput.Value()))
			if err != nil || !amount.IsPositive() {
				m.status = "Enter a positive amount or press esc"
				return m, nil
			}
			m.mode = ModeSelectTarget
			m.amountInput.Blur()
			return m, m.requestCmd(&amount)
		}
	}

	var cmd tea.Cmd
	m.amountInput, cmd = m.amountInput.Update(msg)
	return m, cmd
}

func (m *OptimizeModel) updateResults(msg tea.Msg) (*OptimizeModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, keyNew), key.Matches(keyMsg, keyBack):
		m.mode = ModeSelectTarget
		m.result = nil
		m.multi = nil
	case key.Matches(keyMsg, keyDown):
		m.offset++
	case key.Matches(keyMsg, keyUp):
		m.offset = max(m.offset-1, 0)
	}
	return m, nil
}

func (m *OptimizeModel) requestCmd(amount *decimal.Decimal) tea.Cmd {
	req := tuimsg.OptimizeRequestMsg{
		Target:       optimizeTargets[m.selected].target,
		Goal:         m.goal,
		TargetAssets: amount,
	}
	return func() tea.Msg { return req }
}

// View renders the optimize scene
func (m *OptimizeModel) View() string {
	if m.optimizing {
		return tuistyles.BorderStyle.Render(
			tuistyles.TitleStyle.Render("Break-Even Search") + "\n\n⠋ Running break-even analysis...")
	}

	switch m.mode {
	case ModeSetAmount:
		return m.renderAmountInput()
	case ModeShowResults:
		return m.renderResults()
	}
	return m.renderTargetSelection()
}

func (m *OptimizeModel) renderTargetSelection() string {
	var content strings.Builder
	subtle := lipgloss.NewStyle().Foreground(tuistyles.ColorMuted)

	content.WriteString(tuistyles.TitleStyle.Render("Break-Even Search"))
	content.WriteString("\n\n")
	if m.source == "" {
		content.WriteString(subtle.Render("Choose a preset (press 's') first; the search starts from its parameters."))
		return tuistyles.BorderStyle.Render(content.String())
	}
	content.WriteString(subtle.Render("Starting from: "))
	content.WriteString(m.source)
	content.WriteString("\n\n")

	for i, t := range optimizeTargets {
		if i == m.selected {
			content.WriteString(lipgloss.NewStyle().Foreground(tuistyles.ColorPrimary).Bold(true).Render("❯ " + t.label))
		} else {
			content.WriteString("  " + t.label)
		}
		content.WriteString("\n")
	}

	goal := "savings never run out"
	if m.goal == breakeven.GoalTargetAssets {
		goal = "final total assets reach a target"
	}
	content.WriteString("\n")
	content.WriteString(subtle.Render("Goal: "))
	content.WriteString(goal)
	content.WriteString("\n\n")
	content.WriteString(tuistyles.HelpDescStyle.Render("↑/↓ choose • Tab switch goal • Enter search • ESC back"))

	return tuistyles.BorderStyle.Render(content.String())
}

func (m *OptimizeModel) renderAmountInput() string {
	var content strings.Builder
	subtle := lipgloss.NewStyle().Foreground(tuistyles.ColorMuted)

	content.WriteString(tuistyles.TitleStyle.Render("Set Target Final Assets"))
	content.WriteString("\n\n")
	content.WriteString(subtle.Render("Search: "))
	content.WriteString(optimizeTargets[m.selected].label)
	content.WriteString("\n\n")

	inputStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(tuistyles.ColorPrimary).
		Padding(0, 1)
	content.WriteString(inputStyle.Render("¥ " + m.amountInput.View()))
	content.WriteString("\n\n")
	if m.status != "" {
		content.WriteString(tuistyles.InfoStyle.Render(m.status))
		content.WriteString("\n\n")
	}
	content.WriteString(tuistyles.HelpDescStyle.Render("Enter search • ESC back"))

	return tuistyles.BorderStyle.Render(content.String())
}

func (m *OptimizeModel) renderResults() string {
	tf := &breakeven.TableFormatter{}
	var text string
	switch {
	case m.multi != nil:
		text = tf.FormatMultiDimensional(m.multi)
	case m.result != nil:
		text = tf.Format(m.result)
	default:
		return "No results available"
	}

	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	page := max(m.height-4, 10)
	offset := min(m.offset, max(len(lines)-page, 0))
	end := min(offset+page, len(lines))

	return strings.Join(lines[offset:end], "\n") + "\n\n" +
		tuistyles.HelpDescStyle.Render("↑/↓ scroll • n/Backspace new search • ESC back")
}
