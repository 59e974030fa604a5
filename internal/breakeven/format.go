package breakeven

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/rgehrsitz/hfp/internal/domain"
	"github.com/rgehrsitz/hfp/internal/output"
	"github.com/shopspring/decimal"
)

// TableFormatter formats optimization results as a console table
type TableFormatter struct{}

// Format generates a formatted table for optimization result
func (tf *TableFormatter) Format(result *OptimizationResult) string {
	var sb strings.Builder

	sb.WriteString("BREAK-EVEN OPTIMIZATION RESULTS\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")

	sb.WriteString(fmt.Sprintf("Scenario:            %s\n", result.Name))
	sb.WriteString(fmt.Sprintf("Optimization Target: %s\n", result.Target))
	sb.WriteString(fmt.Sprintf("Optimization Goal:   %s\n", result.Goal))
	sb.WriteString(fmt.Sprintf("Horizon:             %d years\n", result.Horizon))
	sb.WriteString(fmt.Sprintf("Status:              %s\n", tf.formatStatus(result.Success)))
	sb.WriteString(fmt.Sprintf("Iterations:          %d\n", result.Iterations))
	if result.ConvergenceInfo != "" {
		sb.WriteString(fmt.Sprintf("Convergence:         %s\n", result.ConvergenceInfo))
	}
	sb.WriteString("\n")

	if !result.Success {
		return sb.String()
	}

	sb.WriteString("OPTIMAL PARAMETERS\n")
	sb.WriteString(strings.Repeat("-", 80) + "\n")
	if result.OptimalRetirementAge != nil {
		sb.WriteString(fmt.Sprintf("Retirement Age:       %d\n", *result.OptimalRetirementAge))
	}
	if result.OptimalLivingExpenseRatio != nil {
		sb.WriteString(fmt.Sprintf("Living Expense Ratio: %s\n", result.OptimalLivingExpenseRatio.StringFixed(3)))
	}
	if result.OptimalInitialSavings != nil {
		sb.WriteString(fmt.Sprintf("Initial Savings:      %s\n", output.FormatWan(*result.OptimalInitialSavings)))
	}
	sb.WriteString("\n")

	if result.Summary != nil {
		sb.WriteString("PROJECTED RESULTS\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		tf.writeSummary(&sb, result.Summary)
		sb.WriteString("\n")
	}

	if result.BaseSummary != nil {
		sb.WriteString("COMPARISON TO BASE SCENARIO\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		sb.WriteString(fmt.Sprintf("Base Final Assets:   %s\n", output.FormatWan(result.BaseSummary.FinalTotalAssets)))
		sb.WriteString(fmt.Sprintf("Final Assets Change: %s%s\n",
			tf.deltaSymbol(result.FinalAssetsDiffFromBase), output.FormatWan(result.FinalAssetsDiffFromBase.Abs())))
		sb.WriteString("\n")
	}

	return sb.String()
}

func (tf *TableFormatter) writeSummary(sb *strings.Builder, s *domain.ScenarioSummary) {
	sb.WriteString(fmt.Sprintf("Retirement:          %d (age %d)\n", s.RetirementYear, s.RetirementAge))
	sb.WriteString(fmt.Sprintf("Savings at Retirement: %s\n", output.FormatWan(s.SavingsAtRetirement)))
	sb.WriteString(fmt.Sprintf("Final Total Assets:  %s\n", output.FormatWan(s.FinalTotalAssets)))
	sb.WriteString(fmt.Sprintf("Peak Total Assets:   %s (age %d)\n", output.FormatWan(s.PeakTotalAssets), s.PeakAge))
	if s.SavingsDepletedAge != nil {
		sb.WriteString(fmt.Sprintf("Savings Depleted:    age %d\n", *s.SavingsDepletedAge))
	} else {
		sb.WriteString("Savings Depleted:    never\n")
	}
}

// FormatMultiDimensional formats results from multiple optimizations
func (tf *TableFormatter) FormatMultiDimensional(result *MultiDimensionalResult) string {
	var sb strings.Builder

	sb.WriteString("MULTI-DIMENSIONAL OPTIMIZATION RESULTS\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")
	sb.WriteString(fmt.Sprintf("Scenario: %s    Goal: %s    Current plan: %s\n\n",
		result.Name, result.Goal, tf.formatStatus(result.BaseMeetsGoal)))

	sb.WriteString("SUMMARY OF ALL OPTIMIZATIONS\n")
	sb.WriteString(strings.Repeat("-", 80) + "\n")
	sb.WriteString(fmt.Sprintf("%-22s %-10s %14s %16s %12s\n",
		"Optimization", "Status", "Break-even", "Final Assets", "Iterations"))
	sb.WriteString(strings.Repeat("-", 80) + "\n")

	for _, res := range result.Results {
		finalAssets := "-"
		if res.Summary != nil {
			finalAssets = output.FormatWan(res.Summary.FinalTotalAssets)
		}
		sb.WriteString(fmt.Sprintf("%-22s %-10s %14s %16s %12d\n",
			tf.truncate(string(res.Target), 22),
			tf.formatStatus(res.Success),
			tf.breakEvenValue(res),
			finalAssets,
			res.Iterations))
	}
	sb.WriteString("\n")

	if len(result.Recommendations) > 0 {
		sb.WriteString("RECOMMENDATIONS\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for i, rec := range result.Recommendations {
			sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, rec))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func (tf *TableFormatter) breakEvenValue(res OptimizationResult) string {
	switch {
	case res.OptimalRetirementAge != nil:
		return fmt.Sprintf("age %d", *res.OptimalRetirementAge)
	case res.OptimalLivingExpenseRatio != nil:
		return res.OptimalLivingExpenseRatio.StringFixed(3)
	case res.OptimalInitialSavings != nil:
		return output.FormatWan(*res.OptimalInitialSavings)
	default:
		return "-"
	}
}

func (tf *TableFormatter) formatStatus(success bool) string {
	if success {
		return "OK"
	}
	return "NOT MET"
}

func (tf *TableFormatter) deltaSymbol(v decimal.Decimal) string {
	if v.IsNegative() {
		return "-"
	}
	return "+"
}

func (tf *TableFormatter) truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// JSONFormatter formats optimization results as JSON
type JSONFormatter struct {
	Pretty bool
}

// Format generates JSON for optimization result
func (jf *JSONFormatter) Format(result *OptimizationResult) (string, error) {
	return jf.marshal(result)
}

// FormatMultiDimensional generates JSON for multi-dimensional results
func (jf *JSONFormatter) FormatMultiDimensional(result *MultiDimensionalResult) (string, error) {
	return jf.marshal(result)
}

func (jf *JSONFormatter) marshal(v any) (string, error) {
	var (
		data []byte
		err  error
	)
	if jf.Pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}
