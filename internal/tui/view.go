package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View renders the current state of the application
func (m Model) View() string {
	if m.loading {
		return m.renderApp(BorderStyle.Render("⠋ " + m.loadingMessage))
	}

	if m.err != nil {
		return m.renderApp(ErrorStyle.Render(
			fmt.Sprintf("Error: %s\n\nPress any key to continue...", m.err)))
	}

	var content string
	switch m.currentScene {
	case SceneHome:
		content = m.homeModel.View()
	case ScenePresets:
		content = m.presetsModel.View()
	case SceneParameters:
		content = m.parametersModel.View()
	case SceneResults:
		content = m.resultsModel.View()
	case SceneCompare:
		content = m.compareModel.View()
	case SceneOptimize:
		content = m.optimizeModel.View()
	case SceneHelp:
		content = renderHelp()
	default:
		content = "Unknown scene"
	}

	return m.renderApp(content)
}

// renderApp wraps content with title bar and status bar
func (m Model) renderApp(content string) string {
	contentHeight := max(m.height-4, 0) // title (2) + status (1) + padding (1)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderTitleBar(),
		lipgloss.NewStyle().Height(contentHeight).Render(content),
		m.renderStatusBar(),
	)
}

func (m Model) renderTitleBar() string {
	breadcrumb := m.currentScene.String()
	if m.source != "" {
		breadcrumb += " / " + m.source
	}
	return lipgloss.JoinVertical(
		lipgloss.Left,
		TitleStyle.Render("HFP - Household Financial Projection"),
		SubtitleStyle.Render(breadcrumb),
	)
}

func (m Model) renderStatusBar() string {
	shortcuts := []string{
		formatShortcut("h", "home"),
		formatShortcut("s", "presets"),
		formatShortcut("p", "parameters"),
		formatShortcut("r", "results"),
		formatShortcut("c", "compare"),
		formatShortcut("o", "optimize"),
		formatShortcut("?", "help"),
		formatShortcut("q", "quit"),
	}
	statusText := strings.Join(shortcuts, " • ")

	right := SubtitleStyle.Render(fmt.Sprintf("%d presets • %d-year horizon", len(m.presets), m.horizon))
	spacer := strings.Repeat(" ", max(0, m.width-lipgloss.Width(statusText)-lipgloss.Width(right)-2))

	return StatusBarStyle.Width(m.width).Render(statusText + spacer + right)
}

func formatShortcut(key, desc string) string {
	return StatusKeyStyle.Render(key) + " " + desc
}

func renderHelp() string {
	helpText := `
HFP - Household Financial Projection

KEYBOARD SHORTCUTS:
  h          Home
  s          Presets
  p          Parameters
  r          Results
  c          Compare
  o          Break-even search
  ?          This help
  ESC        Go back
  q/Ctrl+C   Quit

PRESETS:
  Enter      Calculate the selected preset
  n          Save the current parameters under a new name
  d          Delete the selected saved preset

PARAMETERS:
  ↑/↓        Move between fields
  ←/→        Adjust by one step (Shift for ten)
  Enter      Recalculate
  Ctrl+R     Reset to the loaded values

RESULTS:
  t          Switch between chart and yearly table
  PgUp/PgDn  Page through the table

COMPARE:
  Space      Toggle a scenario
  a          Select all or none
  Enter      Run the comparison
  Backspace  Back to the selection

BREAK-EVEN SEARCH:
  ↑/↓        Choose what to search for
  Tab        Switch goal: savings never run out / reach target assets
  Enter      Search from the current parameters
  n          New search from the results
`
	return BorderStyle.Render(helpText)
}
