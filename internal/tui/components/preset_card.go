package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/hfp/internal/domain"
	"github.com/rgehrsitz/hfp/internal/tui/tuistyles"
	"github.com/rgehrsitz/hfp/pkg/money"
)

// PresetCard displays a preset with the parameters that set it apart.
type PresetCard struct {
	Preset     domain.Preset
	Highlights []string
	IsSelected bool
	Width      int
}

// NewPresetCard creates a card for p with its headline assumptions.
func NewPresetCard(p domain.Preset) *PresetCard {
	params := p.Params
	return &PresetCard{
		Preset: p,
		Highlights: []string{
			fmt.Sprintf("Retire at %d (now %d)", params.RetirementAge, params.CurrentAge),
			"Salary growth " + money.Percent(params.SalaryGrowthRate, 1),
			"Living expense ratio " + params.LivingExpenseRatio.StringFixed(2),
			"Deposit rate " + money.Percent(params.DepositRate, 2),
			"Savings " + money.FormatWan(params.InitialSavings),
		},
		Width: 44,
	}
}

// SetSelected marks the card as selected
func (s *PresetCard) SetSelected(selected bool) *PresetCard {
	s.IsSelected = selected
	return s
}

// WithWidth sets the card width
func (s *PresetCard) WithWidth(width int) *PresetCard {
	s.Width = width
	return s
}

func (s *PresetCard) kind() string {
	if s.Preset.BuiltIn {
		return "built-in"
	}
	return "saved"
}

// Render returns the styled preset card
func (s *PresetCard) Render() string {
	var content strings.Builder

	content.WriteString(tuistyles.TitleStyle.Render(s.Preset.Name))
	content.WriteString(" ")
	content.WriteString(tuistyles.SubtitleStyle.Render("(" + s.kind() + ")"))
	content.WriteString("\n")

	if s.Preset.Description != "" {
		content.WriteString("\n")
		content.WriteString(lipgloss.NewStyle().Foreground(tuistyles.ColorForeground).Render(s.Preset.Description))
		content.WriteString("\n")
	}

	if len(s.Highlights) > 0 {
		content.WriteString("\n")
		highlightStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorMuted)
		for _, h := range s.Highlights {
			content.WriteString(highlightStyle.Render("• " + h))
			content.WriteString("\n")
		}
	}

	border := tuistyles.ColorBorder
	if s.IsSelected {
		border = tuistyles.ColorPrimary
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(1, 2).
		Width(s.Width).
		Render(strings.TrimRight(content.String(), "\n"))
}

// RenderCompact returns the name and kind on one line.
func (s *PresetCard) RenderCompact() string {
	return s.Preset.Name + " " + tuistyles.SubtitleStyle.Render("· "+s.kind())
}

// PresetListCompact renders a selection list with the cursor on selectedIndex.
func PresetListCompact(cards []*PresetCard, selectedIndex int) string {
	if len(cards) == 0 {
		return tuistyles.InfoStyle.Render("No presets available")
	}

	rendered := make([]string, len(cards))
	for i, card := range cards {
		prefix := "  "
		style := tuistyles.UnselectedItemStyle
		if i == selectedIndex {
			prefix = "▸ "
			style = tuistyles.SelectedItemStyle
		}
		rendered[i] = style.Render(prefix + card.RenderCompact())
	}

	return strings.Join(rendered, "\n")
}
