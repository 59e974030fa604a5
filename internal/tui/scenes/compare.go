package scenes

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/hfp/internal/domain"
	"github.com/rgehrsitz/hfp/internal/output"
	"github.com/rgehrsitz/hfp/internal/tui/components"
	"github.com/rgehrsitz/hfp/internal/tui/tuimsg"
	"github.com/rgehrsitz/hfp/internal/tui/tuistyles"
	"github.com/rgehrsitz/hfp/pkg/money"
)

var (
	keySelect    = key.NewBinding(key.WithKeys(" ", "x"))
	keySelectAll = key.NewBinding(key.WithKeys("a"))
	keyBack      = key.NewBinding(key.WithKeys("backspace"))
)

// CompareModel selects presets and charts their total assets side by side.
type CompareModel struct {
	names       []string
	selected    map[string]bool
	cursorIndex int
	results     []*domain.ScenarioSummary
	comparing   bool
	width       int
	height      int
}

// NewCompareModel creates a new compare scene model
func NewCompareModel() *CompareModel {
	return &CompareModel{selected: map[string]bool{}, width: 100, height: 30}
}

// SetPresets offers the given presets for comparison. The current parameters
// are listed first when hasCurrent is set. Every preset starts selected.
func (m *CompareModel) SetPresets(presets []domain.Preset, hasCurrent bool) {
	m.names = m.names[:0]
	if hasCurrent {
		m.names = append(m.names, tuimsg.CurrentName)
	}
	for _, p := range presets {
		m.names = append(m.names, p.Name)
	}

	selected := make(map[string]bool, len(m.names))
	for _, name := range m.names {
		if was, seen := m.selected[name]; seen {
			selected[name] = was
		} else {
			selected[name] = true
		}
	}
	m.selected = selected
	m.cursorIndex = min(m.cursorIndex, max(len(m.names)-1, 0))
}

// SetResults stores comparison results
func (m *CompareModel) SetResults(results []*domain.ScenarioSummary) {
	m.results = results
	m.comparing = false
}

// SetComparing marks a comparison as running.
func (m *CompareModel) SetComparing(comparing bool) {
	m.comparing = comparing
}

// SetSize updates the model dimensions
func (m *CompareModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Selected returns the chosen names in list order.
func (m *CompareModel) Selected() []string {
	var out []string
	for _, name := range m.names {
		if m.selected[name] {
			out = append(out, name)
		}
	}
	return out
}

// Update handles messages for the compare scene
func (m *CompareModel) Update(msg tea.Msg) (*CompareModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || m.comparing {
		return m, nil
	}

	if m.results != nil {
		if key.Matches(keyMsg, keyBack) {
			m.results = nil
		}
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, keyUp):
		if m.cursorIndex > 0 {
			m.cursorIndex--
		}
	case key.Matches(keyMsg, keyDown):
		if m.cursorIndex < len(m.names)-1 {
			m.cursorIndex++
		}
	case key.Matches(keyMsg, keySelect):
		if m.cursorIndex < len(m.names) {
			name := m.names[m.cursorIndex]
			m.selected[name] = !m.selected[name]
		}
	case key.Matches(keyMsg, keySelectAll):
		all := len(m.Selected()) < len(m.names)
		for _, name := range m.names {
			m.selected[name] = all
		}
	case key.Matches(keyMsg, keyEnter):
		names := m.Selected()
		if len(names) < 2 {
			return m, nil
		}
		m.comparing = true
		return m, func() tea.Msg { return tuimsg.CompareRequestMsg{Names: names} }
	}

	return m, nil
}

// View renders the compare scene
func (m *CompareModel) View() string {
	switch {
	case m.comparing:
		return tuistyles.InfoStyle.Render(fmt.Sprintf("Projecting %d scenarios...", len(m.Selected())))
	case m.results != nil:
		return m.renderComparison()
	default:
		return m.renderSelection()
	}
}

func (m *CompareModel) renderSelection() string {
	if len(m.names) == 0 {
		return "No presets loaded.\n\nPress ESC to return to home."
	}

	var list strings.Builder
	for i, name := range m.names {
		box := "[ ]"
		if m.selected[name] {
			box = "[x]"
		}
		line := fmt.Sprintf("%s %s", box, name)
		if i == m.cursorIndex {
			list.WriteString(tuistyles.SelectedItemStyle.Render("▸ " + line))
		} else {
			list.WriteString(tuistyles.UnselectedItemStyle.Render("  " + line))
		}
		list.WriteString("\n")
	}

	count := len(m.Selected())
	status := fmt.Sprintf("%d selected", count)
	if count < 2 {
		status += " - choose at least two"
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		tuistyles.TitleStyle.Render("Compare Scenarios"),
		"",
		tuistyles.BorderStyle.Render(strings.TrimRight(list.String(), "\n")),
		"",
		tuistyles.SubtitleStyle.Render(status),
		"",
		tuistyles.HelpDescStyle.Render("↑/↓ move • Space toggle • a all/none • Enter compare • ESC back"),
	)
}

func (m *CompareModel) renderComparison() string {
	chart := components.NewASCIIChart("Total assets by scenario").
		WithSize(min(m.width-4, 100), max(m.height/3, 8))

	var labels []string
	for i, s := range m.results {
		points := make([]float64, len(s.Projection))
		for j, r := range s.Projection {
			points[j] = r.TotalAssets.InexactFloat64()
		}
		if len(s.Projection) > len(labels) {
			labels = labels[:0]
			for _, r := range s.Projection {
				labels = append(labels, fmt.Sprint(r.Year))
			}
		}
		chart.AddSeries(s.Name, points, tuistyles.ChartColors[i%len(tuistyles.ChartColors)])
	}
	chart.WithLabels(labels)

	parts := []string{
		tuistyles.TitleStyle.Render("Comparison Results"),
		"",
		chart.Render(),
		"",
		renderComparisonTable(m.results),
	}

	rec := output.AnalyzeScenarios(&output.Report{Scenarios: m.results})
	if rec.Name != "" {
		parts = append(parts, "", tuistyles.TableHighlightStyle.Render("Most assets: "+rec.Name+" ("+rec.Reason+")"))
	}
	parts = append(parts, "", tuistyles.HelpDescStyle.Render("Backspace change selection • ESC back"))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func renderComparisonTable(results []*domain.ScenarioSummary) string {
	const rowFormat = "%-20s %-12s %16s %-12s %16s %16s %10s"

	var b strings.Builder
	b.WriteString(tuistyles.TableHeaderStyle.Render(fmt.Sprintf(rowFormat,
		"Scenario", "Retires", "At retirement", "Pension", "Peak", "Final", "Depleted")))
	b.WriteString("\n")

	for _, s := range results {
		retires, atRetirement, pension := "-", "-", "-"
		if s.HasRetirement() {
			retires = fmt.Sprintf("%d (%d)", s.RetirementYear, s.RetirementAge)
			atRetirement = money.FormatWan(s.TotalAssetsAtRetirement)
		}
		if s.HasPensionStart() {
			pension = fmt.Sprintf("%d (%d)", s.PensionStartYear, s.PensionStartAge)
		}
		depleted := "never"
		if s.SavingsDepletedAge != nil {
			depleted = fmt.Sprintf("age %d", *s.SavingsDepletedAge)
		}

		row := fmt.Sprintf(rowFormat, truncate(s.Name, 20), retires, atRetirement, pension,
			money.FormatWan(s.PeakTotalAssets), money.FormatWan(s.FinalTotalAssets), depleted)
		if s.FinalTotalAssets.IsNegative() {
			row = tuistyles.MetricNegativeStyle.Render(row)
		}
		b.WriteString(row)
		b.WriteString("\n")
	}

	return tuistyles.BorderStyle.Padding(0, 1).Render(strings.TrimRight(b.String(), "\n"))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
