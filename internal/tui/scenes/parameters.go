package scenes

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/hfp/internal/config"
	"github.com/rgehrsitz/hfp/internal/domain"
	"github.com/rgehrsitz/hfp/internal/tui/components"
	"github.com/rgehrsitz/hfp/internal/tui/tuimsg"
	"github.com/rgehrsitz/hfp/internal/tui/tuistyles"
)

var (
	keyLeft     = key.NewBinding(key.WithKeys("left"))
	keyRight    = key.NewBinding(key.WithKeys("right"))
	keyBigLeft  = key.NewBinding(key.WithKeys("shift+left"))
	keyBigRight = key.NewBinding(key.WithKeys("shift+right"))
	keyNext     = key.NewBinding(key.WithKeys("tab"))
	keyPrev     = key.NewBinding(key.WithKeys("shift+tab"))
	keyReset    = key.NewBinding(key.WithKeys("ctrl+r"))
)

// ParametersModel edits the current parameters with one slider per field.
type ParametersModel struct {
	source       string
	original     domain.Params
	params       domain.Params
	loaded       bool
	sliders      []*components.ParameterSlider
	focusedIndex int
	modified     bool
	err          error
	width        int
	height       int
}

// NewParametersModel creates a new parameters scene model
func NewParametersModel() *ParametersModel {
	return &ParametersModel{}
}

// SetParams loads a parameter set for editing and clears modifications.
func (m *ParametersModel) SetParams(source string, p domain.Params) {
	m.source = source
	m.original = p
	m.params = p
	m.loaded = true
	m.modified = false
	m.err = nil
	m.buildSliders()
}

func (m *ParametersModel) buildSliders() {
	m.sliders = make([]*components.ParameterSlider, 0, len(domain.ParamFields))
	for _, f := range domain.ParamFields {
		m.sliders = append(m.sliders, components.NewParameterSlider(f, m.params))
	}
	m.focusedIndex = min(m.focusedIndex, len(m.sliders)-1)
	m.syncFocus()
}

func (m *ParametersModel) syncFocus() {
	for i, s := range m.sliders {
		s.SetFocused(i == m.focusedIndex)
	}
}

// Params returns the edited parameters.
func (m *ParametersModel) Params() domain.Params {
	return m.params
}

// Modified reports whether any slider moved since the last load.
func (m *ParametersModel) Modified() bool {
	return m.modified
}

// SetSize updates the scene dimensions
func (m *ParametersModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles messages for the parameters scene
func (m *ParametersModel) Update(msg tea.Msg) (*ParametersModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || !m.loaded {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, keyUp), key.Matches(keyMsg, keyPrev):
		if m.focusedIndex > 0 {
			m.focusedIndex--
		}
		m.syncFocus()
	case key.Matches(keyMsg, keyDown), key.Matches(keyMsg, keyNext):
		if m.focusedIndex < len(m.sliders)-1 {
			m.focusedIndex++
		}
		m.syncFocus()
	case key.Matches(keyMsg, keyRight):
		m.adjust(1)
	case key.Matches(keyMsg, keyLeft):
		m.adjust(-1)
	case key.Matches(keyMsg, keyBigRight):
		m.adjust(10)
	case key.Matches(keyMsg, keyBigLeft):
		m.adjust(-10)
	case key.Matches(keyMsg, keyReset):
		m.SetParams(m.source, m.original)
	case key.Matches(keyMsg, keyEnter):
		return m, m.calculate()
	}

	return m, nil
}

func (m *ParametersModel) adjust(steps int) {
	s := m.sliders[m.focusedIndex]
	for range abs(steps) {
		if steps > 0 {
			s.Increment()
		} else {
			s.Decrement()
		}
	}
	s.Apply(&m.params)
	m.modified = true
	m.err = config.ValidateParams(m.params)
}

// calculate validates the edited parameters before asking for a projection.
func (m *ParametersModel) calculate() tea.Cmd {
	if err := config.ValidateParams(m.params); err != nil {
		m.err = err
		return nil
	}
	params := m.params
	return func() tea.Msg { return tuimsg.CalculateRequestMsg{Params: params} }
}

// View renders the parameters scene
func (m *ParametersModel) View() string {
	if !m.loaded {
		return `No parameters loaded.

Choose a preset on the Presets screen (press 's').

Press ESC to return to home.`
	}

	title := tuistyles.TitleStyle.Render("Edit Parameters") + "  " +
		tuistyles.SubtitleStyle.Render("from "+m.source)

	rows := make([]string, 0, len(m.sliders))
	for _, s := range m.sliders {
		rows = append(rows, s.RenderCompact())
	}
	list := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(tuistyles.ColorBorder).
		Padding(1, 2).
		Render(strings.Join(rows, "\n"))

	detail := tuistyles.ActiveBorderStyle.Width(44).Render(m.sliders[m.focusedIndex].WithWidth(30).Render())

	body := lipgloss.JoinHorizontal(lipgloss.Top, list, "  ", detail)

	parts := []string{title, "", body, ""}
	if status := m.renderStatus(); status != "" {
		parts = append(parts, status, "")
	}
	parts = append(parts, tuistyles.HelpDescStyle.Render(
		"↑/↓ navigate • ←/→ adjust • Shift+←/→ ×10 • Enter calculate • Ctrl+R reset • ESC back"))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *ParametersModel) renderStatus() string {
	if m.err != nil {
		return tuistyles.MetricNegativeStyle.Render("✗ " + m.err.Error())
	}
	if m.modified {
		return lipgloss.NewStyle().Foreground(tuistyles.ColorInfo).Bold(true).
			Render("⚠ Modified - press Enter to calculate or Ctrl+R to reset")
	}
	return ""
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
