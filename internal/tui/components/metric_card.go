package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/hfp/internal/tui/tuistyles"
	"github.com/shopspring/decimal"
)

// MetricCard displays a single metric with label, value, and optional trend
type MetricCard struct {
	Label       string
	Value       string
	Trend       *Trend
	Description string
	Width       int
}

// Trend represents a metric's change direction and amount
type Trend struct {
	IsPositive bool
	Change     string
}

// NewMetricCard creates a new metric card
func NewMetricCard(label, value string) *MetricCard {
	return &MetricCard{
		Label: label,
		Value: value,
		Width: 26,
	}
}

// NewMoneyCard creates a card showing an amount in ten-thousand units.
// Negative amounts are shown in the warning color.
func NewMoneyCard(label string, amount decimal.Decimal) *MetricCard {
	card := NewMetricCard(label, tuistyles.FormatCurrency(amount))
	if amount.IsNegative() {
		card.Value = tuistyles.MetricNegativeStyle.Render(card.Value)
	}
	return card
}

// WithTrend adds a trend indicator to the metric card
func (m *MetricCard) WithTrend(isPositive bool, change string) *MetricCard {
	m.Trend = &Trend{IsPositive: isPositive, Change: change}
	return m
}

// WithDelta adds a trend built from the change against a reference amount.
func (m *MetricCard) WithDelta(delta decimal.Decimal) *MetricCard {
	if delta.IsZero() {
		return m
	}
	change := tuistyles.FormatCurrency(delta)
	if delta.IsPositive() {
		change = "+" + change
	}
	return m.WithTrend(delta.IsPositive(), change)
}

// WithDescription adds a description/subtitle
func (m *MetricCard) WithDescription(desc string) *MetricCard {
	m.Description = desc
	return m
}

// WithWidth sets the card width
func (m *MetricCard) WithWidth(width int) *MetricCard {
	m.Width = width
	return m
}

func (m *MetricCard) trend(sep string) string {
	if m.Trend == nil {
		return ""
	}
	arrow := tuistyles.TrendIndicator(m.Trend.IsPositive)
	return sep + tuistyles.MetricTrendStyle(m.Trend.IsPositive).Render(fmt.Sprintf("%s %s", arrow, m.Trend.Change))
}

// Render returns the styled metric card
func (m *MetricCard) Render() string {
	content := tuistyles.MetricLabelStyle.Render(m.Label) + "\n" +
		tuistyles.MetricValueStyle.Render(m.Value) +
		m.trend("\n")

	if m.Description != "" {
		content += "\n" + tuistyles.SubtitleStyle.Render(m.Description)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(tuistyles.ColorBorder).
		Padding(0, 1).
		Width(m.Width).
		Render(content)
}

// RenderCompact returns a compact inline version without border
func (m *MetricCard) RenderCompact() string {
	return tuistyles.MetricLabelStyle.Render(m.Label+":") + " " +
		tuistyles.MetricValueStyle.Render(m.Value) +
		m.trend(" ")
}

// MetricGrid renders metric cards in rows of the given number of columns.
func MetricGrid(cards []*MetricCard, columns int) string {
	if len(cards) == 0 {
		return ""
	}
	columns = max(columns, 1)

	var rows []string
	var currentRow []string

	for i, card := range cards {
		currentRow = append(currentRow, card.Render())
		if (i+1)%columns == 0 || i == len(cards)-1 {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, currentRow...))
			currentRow = nil
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
