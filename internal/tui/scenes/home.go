package scenes

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/hfp/internal/domain"
	"github.com/rgehrsitz/hfp/internal/tui/tuistyles"
	"github.com/rgehrsitz/hfp/pkg/money"
)

// HomeModel represents the home dashboard scene
type HomeModel struct {
	presets []domain.Preset
	source  string
	params  *domain.Params
	summary *domain.ScenarioSummary
	horizon int
	width   int
	height  int
}

// NewHomeModel creates a new home scene model
func NewHomeModel(horizon int) *HomeModel {
	return &HomeModel{horizon: horizon}
}

// SetPresets updates the preset overview.
func (m *HomeModel) SetPresets(presets []domain.Preset) {
	m.presets = presets
}

// SetCurrent records the parameters being worked on and their last result.
func (m *HomeModel) SetCurrent(source string, params domain.Params, summary *domain.ScenarioSummary) {
	m.source = source
	m.params = &params
	m.summary = summary
}

// SetSize updates the model dimensions
func (m *HomeModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles messages for the home scene
func (m *HomeModel) Update(msg tea.Msg) (*HomeModel, tea.Cmd) {
	// Home scene is passive; navigation is handled by the parent
	return m, nil
}

// View renders the home dashboard
func (m *HomeModel) View() string {
	var content strings.Builder

	content.WriteString(tuistyles.TitleStyle.MarginBottom(1).Render("HFP - Household Financial Projection"))
	content.WriteString("\n\n")

	if m.presets == nil {
		content.WriteString(tuistyles.SubtitleStyle.Render("Loading presets..."))
		return tuistyles.BorderStyle.Render(content.String())
	}

	content.WriteString(m.renderCurrent())
	content.WriteString("\n\n")
	content.WriteString(m.renderPresetsOverview())
	content.WriteString("\n\n")
	content.WriteString(m.renderQuickActions())

	return tuistyles.BorderStyle.Render(content.String())
}

func section(title string) string {
	return lipgloss.NewStyle().Bold(true).Foreground(tuistyles.ColorSecondary).Render(title)
}

func (m *HomeModel) renderCurrent() string {
	var content strings.Builder
	content.WriteString(section("Current Parameters"))
	content.WriteString("\n")

	labelStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorMuted)
	if m.params == nil {
		content.WriteString(labelStyle.Render("  None yet. Pick a preset with s."))
		return content.String()
	}

	p := m.params
	rows := [][2]string{
		{"Source", m.source},
		{"Age / retirement", fmt.Sprintf("%d / %d", p.CurrentAge, p.RetirementAge)},
		{"Monthly salary", money.FormatWhole(p.InitialMonthlySalary)},
		{"Savings", money.FormatWan(p.InitialSavings)},
		{"Horizon", fmt.Sprintf("%d years", m.horizon)},
	}
	if m.summary != nil {
		rows = append(rows, [2]string{"Final total assets", money.FormatWan(m.summary.FinalTotalAssets)})
	}
	for _, r := range rows {
		content.WriteString(labelStyle.Render(fmt.Sprintf("  %-20s", r[0])))
		content.WriteString(r[1])
		content.WriteString("\n")
	}
	return strings.TrimRight(content.String(), "\n")
}

func (m *HomeModel) renderPresetsOverview() string {
	var content strings.Builder
	content.WriteString(section(fmt.Sprintf("Presets (%d)", len(m.presets))))
	content.WriteString("\n")

	for _, p := range m.presets {
		kind := "saved"
		if p.BuiltIn {
			kind = "built-in"
		}
		content.WriteString(fmt.Sprintf("  • %s %s\n", p.Name, tuistyles.SubtitleStyle.Render("("+kind+")")))
	}
	return strings.TrimRight(content.String(), "\n")
}

func (m *HomeModel) renderQuickActions() string {
	actions := [][2]string{
		{"s", "Presets - choose, save or delete parameter sets"},
		{"p", "Parameters - adjust and recalculate"},
		{"r", "Results - yearly projection and chart"},
		{"c", "Compare - all presets side by side"},
		{"?", "Help"},
		{"q", "Quit"},
	}

	var content strings.Builder
	content.WriteString(section("Quick Actions"))
	content.WriteString("\n")
	for _, a := range actions {
		content.WriteString("  ")
		content.WriteString(tuistyles.HelpKeyStyle.Render(a[0]))
		content.WriteString("  ")
		content.WriteString(tuistyles.HelpDescStyle.Render(a[1]))
		content.WriteString("\n")
	}
	return strings.TrimRight(content.String(), "\n")
}
