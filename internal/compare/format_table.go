package compare

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/hfp/pkg/money"
	"github.com/shopspring/decimal"
)

// TableFormatter formats comparison results as a console table
type TableFormatter struct{}

// Format generates a formatted table comparing scenarios
func (tf *TableFormatter) Format(compSet *ComparisonSet) string {
	var sb strings.Builder

	// Header
	sb.WriteString("HOUSEHOLD SCENARIO COMPARISON\n")
	sb.WriteString(strings.Repeat("=", 96) + "\n")
	sb.WriteString(fmt.Sprintf("Base Scenario: %s\n", compSet.BaseScenarioName))
	if compSet.Source != "" {
		sb.WriteString(fmt.Sprintf("Source: %s\n", compSet.Source))
	}
	sb.WriteString(fmt.Sprintf("Horizon: %d years\n", compSet.Horizon))
	sb.WriteString("\n")

	nameWidth := 28
	numWidth := 16

	sb.WriteString(fmt.Sprintf("%-*s %*s %*s %*s %*s\n",
		nameWidth, "Scenario",
		numWidth, "At Retirement",
		numWidth, "Pension Starts",
		numWidth, "Extra Contrib.",
		numWidth, "Final Assets"))
	sb.WriteString(strings.Repeat("-", 96) + "\n")

	if base := compSet.BaseResult; base != nil {
		sb.WriteString(tf.formatRow(base, nameWidth, numWidth, true))
	}

	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString(strings.Repeat("-", 96) + "\n")
		for i := range compSet.AlternativeResults {
			sb.WriteString(tf.formatRow(&compSet.AlternativeResults[i], nameWidth, numWidth, false))
		}
	}

	sb.WriteString(strings.Repeat("=", 96) + "\n")

	// Deltas from base
	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString("\nCOMPARISON TO BASE\n")
		sb.WriteString(strings.Repeat("-", 96) + "\n")

		for _, alt := range compSet.AlternativeResults {
			sb.WriteString(fmt.Sprintf("\n%s:\n", alt.ScenarioName))
			if alt.Description != "" {
				sb.WriteString(fmt.Sprintf("  %s\n", alt.Description))
			}

			sb.WriteString(fmt.Sprintf("  Final Assets:       %s%s (%s%%)\n",
				tf.deltaSymbol(alt.FinalAssetsDiffFromBase),
				money.FormatWan(alt.FinalAssetsDiffFromBase),
				alt.FinalAssetsPctFromBase.StringFixed(1)))

			if !alt.RetirementAssetsDiffFromBase.IsZero() {
				sb.WriteString(fmt.Sprintf("  At Retirement:      %s%s\n",
					tf.deltaSymbol(alt.RetirementAssetsDiffFromBase),
					money.FormatWan(alt.RetirementAssetsDiffFromBase)))
			}

			if alt.ExtraContributionYearsDiff != 0 {
				sb.WriteString(fmt.Sprintf("  Extra Contribution: %+d years\n", alt.ExtraContributionYearsDiff))
			}
		}
		sb.WriteString("\n")
	}

	if len(compSet.Recommendations) > 0 {
		sb.WriteString("\nRECOMMENDATIONS\n")
		sb.WriteString(strings.Repeat("-", 96) + "\n")
		for _, rec := range compSet.Recommendations {
			sb.WriteString(fmt.Sprintf("• %s\n", rec))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// formatRow formats a single scenario row
func (tf *TableFormatter) formatRow(result *ComparisonResult, nameWidth, numWidth int, isBase bool) string {
	name := result.ScenarioName
	if isBase {
		name += " (base)"
	}

	retirement := "n/a"
	if result.RetirementYear != 0 {
		retirement = money.FormatWan(result.TotalAssetsAtRetirement)
	}

	pension := "never"
	if result.PensionStartAge != 0 {
		pension = fmt.Sprintf("age %d", result.PensionStartAge)
	}

	return fmt.Sprintf("%-*s %*s %*s %*s %*s\n",
		nameWidth, tf.truncate(name, nameWidth),
		numWidth, retirement,
		numWidth, pension,
		numWidth, fmt.Sprintf("%d years", result.ExtraContributionYears),
		numWidth, money.FormatWan(result.FinalTotalAssets))
}

// deltaSymbol returns a + for positive deltas; negative amounts carry their own sign
func (tf *TableFormatter) deltaSymbol(delta decimal.Decimal) string {
	if delta.IsPositive() {
		return "+"
	}
	return ""
}

// truncate truncates a string to maxLen runes
func (tf *TableFormatter) truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}

// FormatCompact creates a compact single-line summary for each scenario
func (tf *TableFormatter) FormatCompact(compSet *ComparisonSet) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Base: %s | ", compSet.BaseScenarioName))

	for i, alt := range compSet.AlternativeResults {
		if i > 0 {
			sb.WriteString(" | ")
		}
		change := "="
		if !alt.FinalAssetsDiffFromBase.IsZero() {
			change = tf.deltaSymbol(alt.FinalAssetsDiffFromBase) + money.FormatWan(alt.FinalAssetsDiffFromBase)
		}

		sb.WriteString(fmt.Sprintf("%s: %s", alt.ScenarioName, change))
	}

	return sb.String()
}
