package scenes

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/hfp/internal/domain"
	"github.com/rgehrsitz/hfp/internal/tui/components"
	"github.com/rgehrsitz/hfp/internal/tui/tuimsg"
	"github.com/rgehrsitz/hfp/internal/tui/tuistyles"
	"github.com/rgehrsitz/hfp/pkg/money"
)

var (
	keyUp     = key.NewBinding(key.WithKeys("up", "k"))
	keyDown   = key.NewBinding(key.WithKeys("down", "j"))
	keyEnter  = key.NewBinding(key.WithKeys("enter"))
	keyTop    = key.NewBinding(key.WithKeys("g"))
	keyBottom = key.NewBinding(key.WithKeys("G"))
	keyNew    = key.NewBinding(key.WithKeys("n"))
	keyDelete = key.NewBinding(key.WithKeys("d"))
	keyCancel = key.NewBinding(key.WithKeys("esc"))
)

// PresetsModel lists presets, loads one on enter and saves the current
// parameters under a new name.
type PresetsModel struct {
	presets       []domain.Preset
	cards         []*components.PresetCard
	selectedIndex int
	input         textinput.Model
	editing       bool
	status        string
	width         int
	height        int
}

// NewPresetsModel creates a new presets scene model
func NewPresetsModel() *PresetsModel {
	ti := textinput.New()
	ti.Placeholder = "preset name"
	ti.CharLimit = 64
	ti.Width = 30
	return &PresetsModel{input: ti}
}

// SetPresets updates the preset list, keeping the cursor in range.
func (m *PresetsModel) SetPresets(presets []domain.Preset) {
	m.presets = presets
	m.cards = make([]*components.PresetCard, 0, len(presets))
	for _, p := range presets {
		m.cards = append(m.cards, components.NewPresetCard(p))
	}
	if m.selectedIndex >= len(presets) {
		m.selectedIndex = max(len(presets)-1, 0)
	}
}

// SetStatus shows a one-line message under the list.
func (m *PresetsModel) SetStatus(status string) {
	m.status = status
}

// SetSize updates the scene dimensions
func (m *PresetsModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Editing reports whether the name input has focus. Global keys are
// suspended while it does.
func (m *PresetsModel) Editing() bool {
	return m.editing
}

// Selected returns the preset under the cursor.
func (m *PresetsModel) Selected() (domain.Preset, bool) {
	if m.selectedIndex >= 0 && m.selectedIndex < len(m.presets) {
		return m.presets[m.selectedIndex], true
	}
	return domain.Preset{}, false
}

// Update handles messages for the presets scene
func (m *PresetsModel) Update(msg tea.Msg) (*PresetsModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if m.editing {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	if m.editing {
		return m.handleInput(keyMsg)
	}

	switch {
	case key.Matches(keyMsg, keyUp):
		if m.selectedIndex > 0 {
			m.selectedIndex--
		}
	case key.Matches(keyMsg, keyDown):
		if m.selectedIndex < len(m.presets)-1 {
			m.selectedIndex++
		}
	case key.Matches(keyMsg, keyTop):
		m.selectedIndex = 0
	case key.Matches(keyMsg, keyBottom):
		m.selectedIndex = max(len(m.presets)-1, 0)
	case key.Matches(keyMsg, keyEnter):
		if p, ok := m.Selected(); ok {
			return m, func() tea.Msg { return tuimsg.PresetSelectedMsg{Preset: p} }
		}
	case key.Matches(keyMsg, keyNew):
		m.editing = true
		m.status = ""
		m.input.SetValue("")
		return m, m.input.Focus()
	case key.Matches(keyMsg, keyDelete):
		p, ok := m.Selected()
		if !ok {
			return m, nil
		}
		if p.BuiltIn {
			m.status = "Built-in presets cannot be deleted"
			return m, nil
		}
		return m, func() tea.Msg { return tuimsg.DeletePresetMsg{Name: p.Name} }
	}

	return m, nil
}

func (m *PresetsModel) handleInput(msg tea.KeyMsg) (*PresetsModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keyCancel):
		m.editing = false
		m.input.Blur()
		return m, nil
	case key.Matches(msg, keyEnter):
		name := strings.TrimSpace(m.input.Value())
		if name == "" {
			m.status = "Enter a name or press esc"
			return m, nil
		}
		m.editing = false
		m.input.Blur()
		return m, func() tea.Msg { return tuimsg.SavePresetMsg{Name: name} }
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the presets scene
func (m *PresetsModel) View() string {
	if len(m.presets) == 0 {
		return tuistyles.InfoStyle.Render("No presets loaded.\n\nPress ESC to return to home.")
	}

	for i, card := range m.cards {
		card.SetSelected(i == m.selectedIndex)
	}

	listPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(tuistyles.ColorBorder).
		Padding(1, 2).
		Width(36).
		Render(tuistyles.TitleStyle.MarginBottom(1).Render("Presets") + "\n" +
			components.PresetListCompact(m.cards, m.selectedIndex))

	content := lipgloss.JoinHorizontal(lipgloss.Top, listPane, "  ", m.renderDetails())

	if m.editing {
		content += "\n\n" + tuistyles.ParameterLabelStyle.Render("Save current parameters as: ") + m.input.View()
	}
	if m.status != "" {
		content += "\n\n" + tuistyles.InfoStyle.Render(m.status)
	}

	content += "\n\n" + tuistyles.HelpDescStyle.Render(m.helpLine())
	return content
}

func (m *PresetsModel) renderDetails() string {
	p, _ := m.Selected()
	card := m.cards[m.selectedIndex].WithWidth(52).Render()

	params := p.Params
	extra := []string{
		"Initial housing fund " + money.FormatWan(params.InitialHousingFund),
		"Replacement ratio " + params.PensionReplacementRatio.StringFixed(2),
		"Contribution ratio " + params.ContributionRatio.StringFixed(2),
		"Inflation " + money.Percent(params.InflationRate, 1),
	}
	if !p.CreatedAt.IsZero() {
		extra = append(extra, "Saved "+p.CreatedAt.Format("2006-01-02 15:04"))
	}

	return card + "\n" +
		lipgloss.NewStyle().Foreground(tuistyles.ColorMuted).PaddingLeft(2).Render(strings.Join(extra, "\n")) + "\n\n" +
		tuistyles.InfoStyle.PaddingLeft(2).Render("Press Enter to calculate this preset")
}

func (m *PresetsModel) helpLine() string {
	if m.editing {
		return "Enter save • ESC cancel"
	}
	return "↑/k up • ↓/j down • Enter calculate • n save current as • d delete • ESC back"
}
