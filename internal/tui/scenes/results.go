package scenes

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/hfp/internal/calculation"
	"github.com/rgehrsitz/hfp/internal/domain"
	"github.com/rgehrsitz/hfp/internal/tui/components"
	"github.com/rgehrsitz/hfp/internal/tui/tuistyles"
	"github.com/rgehrsitz/hfp/pkg/money"
)

var (
	keyPageUp   = key.NewBinding(key.WithKeys("pgup", "b"))
	keyPageDown = key.NewBinding(key.WithKeys("pgdown", " ", "f"))
	keyToggle   = key.NewBinding(key.WithKeys("t"))
)

// ResultsModel shows one projection as metric cards, a chart and a paged
// yearly table.
type ResultsModel struct {
	summary   *domain.ScenarioSummary
	previous  *domain.ScenarioSummary
	showTable bool
	offset    int
	width     int
	height    int
}

// NewResultsModel creates a new results scene model
func NewResultsModel() *ResultsModel {
	return &ResultsModel{width: 100, height: 30}
}

// SetResults shows summary. The summary it replaces is kept as the
// reference for the change indicators.
func (m *ResultsModel) SetResults(summary *domain.ScenarioSummary) {
	if m.summary != nil {
		m.previous = m.summary
	}
	m.summary = summary
	m.offset = 0
}

// Summary returns the summary on display.
func (m *ResultsModel) Summary() *domain.ScenarioSummary {
	return m.summary
}

// SetSize updates the scene dimensions
func (m *ResultsModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *ResultsModel) pageSize() int {
	return max(m.height-12, 5)
}

// Update handles messages for the results scene
func (m *ResultsModel) Update(msg tea.Msg) (*ResultsModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || m.summary == nil {
		return m, nil
	}

	last := max(len(m.summary.Projection)-m.pageSize(), 0)
	switch {
	case key.Matches(keyMsg, keyToggle):
		m.showTable = !m.showTable
	case key.Matches(keyMsg, keyDown):
		m.offset = min(m.offset+1, last)
	case key.Matches(keyMsg, keyUp):
		m.offset = max(m.offset-1, 0)
	case key.Matches(keyMsg, keyPageDown):
		m.offset = min(m.offset+m.pageSize(), last)
	case key.Matches(keyMsg, keyPageUp):
		m.offset = max(m.offset-m.pageSize(), 0)
	case key.Matches(keyMsg, keyTop):
		m.offset = 0
	case key.Matches(keyMsg, keyBottom):
		m.offset = last
	}
	return m, nil
}

// View renders the results scene
func (m *ResultsModel) View() string {
	if m.summary == nil {
		return `No results yet.

Choose a preset (press 's') or edit parameters (press 'p') and press Enter.

Press ESC to return to home.`
	}

	header := tuistyles.TitleStyle.Render("Projection: "+m.summary.Name) + "  " +
		tuistyles.SubtitleStyle.Render(fmt.Sprintf("%d years", len(m.summary.Projection)))

	var body string
	if m.showTable {
		body = m.renderTable()
	} else {
		body = lipgloss.JoinVertical(lipgloss.Left, m.renderMetrics(), "", m.renderProgress(), "", m.renderChart())
	}

	help := "t toggle table/chart • ESC back • p edit parameters • c compare"
	if m.showTable {
		help = "↑/↓ scroll • PgUp/PgDn page • g/G first/last • t chart • ESC back"
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, "", body, "", tuistyles.HelpDescStyle.Render(help))
}

func (m *ResultsModel) renderMetrics() string {
	s := m.summary
	var cards []*components.MetricCard

	if s.HasRetirement() {
		cards = append(cards,
			components.NewMetricCard("Retirement", fmt.Sprintf("%d at age %d", s.RetirementYear, s.RetirementAge)),
			components.NewMoneyCard("Assets at retirement", s.TotalAssetsAtRetirement))
	} else {
		cards = append(cards, components.NewMetricCard("Retirement", "not within horizon"))
	}

	if s.HasPensionStart() {
		cards = append(cards, components.NewMetricCard("Pension starts",
			fmt.Sprintf("%d at age %d", s.PensionStartYear, s.PensionStartAge)).
			WithDescription(money.FormatWan(s.AnnualPensionAtStart)+" per year"))
	} else {
		cards = append(cards, components.NewMetricCard("Pension starts", "not within horizon"))
	}

	final := components.NewMoneyCard("Final total assets", s.FinalTotalAssets).
		WithDescription(fmt.Sprintf("in %d", s.FinalYear))
	if m.previous != nil {
		final.WithDelta(s.FinalTotalAssets.Sub(m.previous.FinalTotalAssets))
	}
	cards = append(cards, final,
		components.NewMoneyCard("Peak total assets", s.PeakTotalAssets).
			WithDescription(fmt.Sprintf("at age %d", s.PeakAge)))

	depleted := components.NewMetricCard("Savings depleted", "never")
	if s.SavingsDepletedAge != nil {
		depleted = components.NewMetricCard("Savings depleted", "at age "+strconv.Itoa(*s.SavingsDepletedAge))
		depleted.Value = tuistyles.MetricNegativeStyle.Render(depleted.Value)
	}
	cards = append(cards, depleted)

	columns := max(m.width/28, 1)
	return components.MetricGrid(cards, columns)
}

// renderProgress shows the contribution counters of the last year against
// the years required for the pension.
func (m *ResultsModel) renderProgress() string {
	if len(m.summary.Projection) == 0 {
		return ""
	}
	last := m.summary.Projection[len(m.summary.Projection)-1]
	lines := []string{
		components.NewProgressBar(last.PensionYears, calculation.MinPensionYears).WithLabel("Pension years").Render(),
		components.NewProgressBar(last.MedicalYears, calculation.MinMedicalYears).WithLabel("Medical years").Render(),
	}
	if m.summary.ExtraContributionYears > 0 {
		lines = append(lines, tuistyles.SubtitleStyle.Render(
			fmt.Sprintf("%d contribution years paid from savings after retiring", m.summary.ExtraContributionYears)))
	}
	return strings.Join(lines, "\n")
}

func (m *ResultsModel) renderChart() string {
	records := m.summary.Projection
	savings := make([]float64, len(records))
	total := make([]float64, len(records))
	labels := make([]string, len(records))
	for i, r := range records {
		savings[i] = r.Savings.InexactFloat64()
		total[i] = r.TotalAssets.InexactFloat64()
		labels[i] = strconv.Itoa(r.Year)
	}

	chart := components.NewASCIIChart("Savings and total assets").
		AddSeries("Savings", savings, tuistyles.ColorChartLine1).
		AddSeries("Total assets", total, tuistyles.ColorChartLine2).
		WithLabels(labels).
		WithSize(min(m.width-4, 100), max(m.height/3, 8))

	for i, r := range records {
		if r.IsRetirementYear {
			chart.AddMarker(i, fmt.Sprintf("retire %d", r.Year), '┊')
		}
		if r.IsPensionStartYear {
			chart.AddMarker(i, fmt.Sprintf("pension %d", r.Year), '┊')
		}
	}
	return chart.Render()
}

func (m *ResultsModel) renderTable() string {
	records := m.summary.Projection
	end := min(m.offset+m.pageSize(), len(records))

	const rowFormat = "%-6s %-4s %14s %14s %12s %12s %14s %14s %6s  %s"
	var content strings.Builder
	content.WriteString(tuistyles.TableHeaderStyle.Render(fmt.Sprintf(rowFormat,
		"Year", "Age", "Monthly", "Contribution", "Pension", "Expense", "Savings", "Total", "Yrs", "Status")))
	content.WriteString("\n")
	content.WriteString(strings.Repeat("─", 116))
	content.WriteString("\n")

	for _, r := range records[m.offset:end] {
		row := fmt.Sprintf(rowFormat,
			strconv.Itoa(r.Year), strconv.Itoa(r.Age),
			money.Grouped(r.MonthlySalary, 0),
			money.Grouped(r.PensionContribution, 0),
			money.Grouped(r.AnnualPensionReceived, 0),
			money.Grouped(r.LivingExpense, 0),
			money.Grouped(r.Savings, 0),
			money.Grouped(r.TotalAssets, 0),
			fmt.Sprintf("%d/%d", r.PensionYears, r.MedicalYears),
			yearStatus(r))

		switch {
		case r.IsRetirementYear || r.IsPensionStartYear:
			row = tuistyles.TableHighlightStyle.Render(row)
		case r.Savings.IsNegative():
			row = tuistyles.MetricNegativeStyle.Render(row)
		default:
			row = tuistyles.TableCellStyle.Render(row)
		}
		content.WriteString(row)
		content.WriteString("\n")
	}

	content.WriteString(tuistyles.SubtitleStyle.Render(
		fmt.Sprintf("rows %d-%d of %d", m.offset+1, end, len(records))))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(tuistyles.ColorBorder).
		Padding(0, 1).
		Render(content.String())
}

func yearStatus(r domain.YearlyRecord) string {
	var parts []string
	switch {
	case r.IsRetirementYear:
		parts = append(parts, "retires")
	case r.IsRetired:
		parts = append(parts, "retired")
	default:
		parts = append(parts, "working")
	}
	if r.IsPensionStartYear {
		parts = append(parts, "pension starts")
	}
	return strings.Join(parts, ", ")
}
