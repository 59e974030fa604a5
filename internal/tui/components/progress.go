package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/hfp/internal/tui/tuistyles"
)

// ProgressBar shows a count toward a target, such as contribution years
// toward pension eligibility.
type ProgressBar struct {
	Current   int
	Total     int
	Width     int
	Label     string
	ShowCount bool
}

// NewProgressBar creates a new progress bar
func NewProgressBar(current, total int) *ProgressBar {
	return &ProgressBar{
		Current:   current,
		Total:     total,
		Width:     30,
		ShowCount: true,
	}
}

// WithLabel sets the progress label
func (p *ProgressBar) WithLabel(label string) *ProgressBar {
	p.Label = label
	return p
}

// WithWidth sets the bar width
func (p *ProgressBar) WithWidth(width int) *ProgressBar {
	p.Width = width
	return p
}

// Fraction returns the completed share, capped at 1.
func (p *ProgressBar) Fraction() float64 {
	if p.Total <= 0 {
		return 0
	}
	return min(float64(p.Current)/float64(p.Total), 1)
}

// IsComplete returns true once the target is reached
func (p *ProgressBar) IsComplete() bool {
	return p.Total > 0 && p.Current >= p.Total
}

// Render returns the label, bar and count on one line.
func (p *ProgressBar) Render() string {
	filled := int(p.Fraction() * float64(p.Width))

	fillColor := tuistyles.ColorPrimary
	if p.IsComplete() {
		fillColor = tuistyles.ColorSuccess
	}

	var b strings.Builder
	if p.Label != "" {
		b.WriteString(tuistyles.MetricLabelStyle.Width(22).Render(p.Label))
	}
	b.WriteString(lipgloss.NewStyle().Foreground(fillColor).Render(strings.Repeat("█", filled)))
	b.WriteString(lipgloss.NewStyle().Foreground(tuistyles.ColorBorder).Render(strings.Repeat("░", p.Width-filled)))
	if p.ShowCount {
		b.WriteString(fmt.Sprintf(" %d/%d", p.Current, p.Total))
	}
	return b.String()
}
