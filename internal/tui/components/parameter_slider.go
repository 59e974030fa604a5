package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/hfp/internal/domain"
	"github.com/rgehrsitz/hfp/internal/tui/tuistyles"
	"github.com/shopspring/decimal"
)

// ParameterSlider adjusts one parameter field within a range in fixed steps.
type ParameterSlider struct {
	Field     domain.ParamField
	Value     decimal.Decimal
	Min       decimal.Decimal
	Max       decimal.Decimal
	Step      decimal.Decimal
	Places    int32
	Width     int
	IsFocused bool
}

// SliderRange holds the bounds and step for one field.
type SliderRange struct {
	Min, Max, Step string
	Places         int32
}

// sliderRanges bounds each editable field. Fields missing here get a range
// around their current value.
var sliderRanges = map[string]SliderRange{
	"start_year":                {"2000", "2100", "1", 0},
	"start_work_year":           {"1960", "2100", "1", 0},
	"current_age":               {"16", "80", "1", 0},
	"retirement_age":            {"30", "75", "1", 0},
	"initial_monthly_salary":    {"0", "200000", "500", 0},
	"local_average_salary":      {"1000", "100000", "500", 0},
	"salary_growth_rate":        {"-5", "15", "0.5", 1},
	"pension_replacement_ratio": {"0", "1", "0.05", 2},
	"contribution_ratio":        {"0", "1", "0.05", 2},
	"living_expense_ratio":      {"0", "3", "0.05", 2},
	"inflation_rate":            {"-2", "10", "0.5", 1},
	"deposit_rate":              {"0", "10", "0.25", 2},
	"initial_savings":           {"0", "20000000", "50000", 0},
	"initial_housing_fund":      {"0", "5000000", "10000", 0},
	"housing_fund_rate":         {"0", "5", "0.25", 2},
	"initial_personal_pension":  {"0", "2000000", "10000", 0},
}

// NewParameterSlider creates a slider for field showing its value in p.
func NewParameterSlider(field domain.ParamField, p domain.Params) *ParameterSlider {
	s := &ParameterSlider{
		Field: field,
		Value: field.Get(p),
		Width: 24,
	}

	if r, ok := sliderRanges[field.Key]; ok {
		s.Min = decimal.RequireFromString(r.Min)
		s.Max = decimal.RequireFromString(r.Max)
		s.Step = decimal.RequireFromString(r.Step)
		s.Places = r.Places
	} else {
		s.Step = decimal.NewFromInt(1)
		s.Min = decimal.Zero
		s.Max = decimal.Max(s.Value.Mul(decimal.NewFromInt(2)), decimal.NewFromInt(100))
	}

	// Out-of-range values loaded from a preset widen the range instead of being clipped.
	s.Min = decimal.Min(s.Min, s.Value)
	s.Max = decimal.Max(s.Max, s.Value)
	return s
}

// WithWidth sets the slider width
func (p *ParameterSlider) WithWidth(width int) *ParameterSlider {
	p.Width = width
	return p
}

// SetFocused sets the focus state
func (p *ParameterSlider) SetFocused(focused bool) *ParameterSlider {
	p.IsFocused = focused
	return p
}

// Increment increases the value by one step, stopping at Max.
func (p *ParameterSlider) Increment() {
	p.Value = decimal.Min(p.Value.Add(p.Step), p.Max)
}

// Decrement decreases the value by one step, stopping at Min.
func (p *ParameterSlider) Decrement() {
	p.Value = decimal.Max(p.Value.Sub(p.Step), p.Min)
}

// Apply writes the slider value into params.
func (p *ParameterSlider) Apply(params *domain.Params) {
	p.Field.Set(params, p.Value)
}

// Percentage returns the value's position within the range, 0 to 1.
func (p *ParameterSlider) Percentage() float64 {
	span := p.Max.Sub(p.Min)
	if span.IsZero() {
		return 0
	}
	f, _ := p.Value.Sub(p.Min).Div(span).Float64()
	return f
}

// ValueString formats the value with the field's precision.
func (p *ParameterSlider) ValueString() string {
	return p.Value.StringFixed(p.Places)
}

// Render returns the label, value, bar and range on separate lines.
func (p *ParameterSlider) Render() string {
	labelStyle := tuistyles.ParameterLabelStyle
	valueStyle := tuistyles.ParameterValueStyle
	if p.IsFocused {
		labelStyle = labelStyle.Foreground(tuistyles.ColorPrimary)
		valueStyle = valueStyle.Foreground(tuistyles.ColorAccent)
	}

	var content strings.Builder
	content.WriteString(labelStyle.Render(p.Field.Label))
	content.WriteString("  ")
	content.WriteString(valueStyle.Render(p.ValueString()))
	content.WriteString("\n")
	content.WriteString(p.renderBar(p.Width))
	content.WriteString("\n")

	muted := lipgloss.NewStyle().Foreground(tuistyles.ColorMuted)
	content.WriteString(muted.Render(fmt.Sprintf("%s  ─  %s", p.Min.StringFixed(p.Places), p.Max.StringFixed(p.Places))))

	if p.IsFocused {
		content.WriteString("\n")
		content.WriteString(muted.Italic(true).Render(p.Field.Description))
		content.WriteString("\n")
		content.WriteString(tuistyles.InfoStyle.Render("← → to adjust • ↑↓ to navigate"))
	}

	return content.String()
}

// RenderCompact returns a single line with a short bar.
func (p *ParameterSlider) RenderCompact() string {
	labelStyle := tuistyles.ParameterLabelStyle
	valueStyle := tuistyles.ParameterValueStyle
	prefix := "  "
	if p.IsFocused {
		labelStyle = labelStyle.Foreground(tuistyles.ColorPrimary)
		valueStyle = valueStyle.Foreground(tuistyles.ColorAccent)
		prefix = "▸ "
	}

	label := labelStyle.Width(26).Render(p.Field.Label)
	value := valueStyle.Width(14).Align(lipgloss.Right).Render(p.ValueString())
	return prefix + label + value + " " + p.renderBar(12)
}

func (p *ParameterSlider) renderBar(width int) string {
	filled := int(math.Round(float64(width) * p.Percentage()))
	filled = min(max(filled, 0), width)

	thumbStyle := tuistyles.SliderThumbStyle
	if p.IsFocused {
		thumbStyle = thumbStyle.Foreground(tuistyles.ColorAccent)
	}

	var bar strings.Builder
	bar.WriteString("[")
	for i := 0; i < width; i++ {
		switch {
		case i == filled || (i == width-1 && filled == width):
			bar.WriteString(thumbStyle.Render("●"))
		case i < filled:
			bar.WriteString(thumbStyle.Render("━"))
		default:
			bar.WriteString(tuistyles.SliderTrackStyle.Render("─"))
		}
	}
	bar.WriteString("]")
	return bar.String()
}
