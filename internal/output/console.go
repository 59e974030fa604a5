package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/rgehrsitz/hfp/internal/domain"
)

// ConsoleFormatter prints the key metrics of each scenario.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console-lite" }

func (c ConsoleFormatter) Format(report *Report) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintln(&buf, "HOUSEHOLD PROJECTION SUMMARY")
	fmt.Fprintln(&buf, strings.Repeat("=", 60))
	fmt.Fprintf(&buf, "Horizon: %d years\n", report.Horizon)

	if len(report.Scenarios) == 0 {
		fmt.Fprintln(&buf, "No scenarios.")
		return buf.Bytes(), nil
	}

	for _, s := range report.Scenarios {
		fmt.Fprintln(&buf)
		fmt.Fprintf(&buf, "%s\n", s.Name)
		fmt.Fprintln(&buf, strings.Repeat("-", 60))
		writeKeyMetrics(&buf, s)
	}

	if len(report.Scenarios) > 1 {
		rec := AnalyzeScenarios(report)
		fmt.Fprintln(&buf)
		fmt.Fprintf(&buf, "Recommended: %s (%s)\n", rec.Name, rec.Reason)
	}
	return buf.Bytes(), nil
}

// ConsoleVerboseFormatter prints key metrics plus the full yearly table.
type ConsoleVerboseFormatter struct{}

func (c ConsoleVerboseFormatter) Name() string { return "console" }

func (c ConsoleVerboseFormatter) Format(report *Report) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintln(&buf, strings.Repeat("=", 150))
	fmt.Fprintln(&buf, "DETAILED HOUSEHOLD FINANCIAL PROJECTION")
	fmt.Fprintln(&buf, strings.Repeat("=", 150))
	fmt.Fprintln(&buf)
	fmt.Fprintln(&buf, "KEY ASSUMPTIONS:")
	assumptions := report.Assumptions
	if len(assumptions) == 0 {
		assumptions = DefaultAssumptions
	}
	for _, a := range assumptions {
		fmt.Fprintf(&buf, "• %s\n", a)
	}
	fmt.Fprintln(&buf)

	for i, s := range report.Scenarios {
		fmt.Fprintf(&buf, "SCENARIO %d: %s\n", i+1, s.Name)
		fmt.Fprintln(&buf, strings.Repeat("=", 50))
		writeKeyMetrics(&buf, s)
		fmt.Fprintln(&buf)
		writeYearlyTable(&buf, s.Projection)
		fmt.Fprintln(&buf)
	}

	if len(report.Scenarios) > 1 {
		rec := AnalyzeScenarios(report)
		fmt.Fprintf(&buf, "RECOMMENDATION: %s %s\n", rec.Name, rec.Reason)
	}
	return buf.Bytes(), nil
}

func writeKeyMetrics(buf *bytes.Buffer, s *domain.ScenarioSummary) {
	for _, m := range KeyMetrics(s) {
		fmt.Fprintf(buf, "  %-30s %s\n", m[0]+":", m[1])
	}
}

func writeYearlyTable(buf *bytes.Buffer, records []domain.YearlyRecord) {
	fmt.Fprintf(buf, "%-6s %-4s %14s %14s %12s %14s %14s %14s %16s %16s  %s\n",
		"Year", "Age", "Salary/Month", "Contribution", "Pension/Yr", "Living Exp.",
		"Housing Fund", "Personal Pen.", "Savings", "Total Assets", "Status")
	fmt.Fprintln(buf, strings.Repeat("-", 150))
	for _, r := range records {
		fmt.Fprintf(buf, "%-6d %-4d %14s %14s %12s %14s %14s %14s %16s %16s  %s\n",
			r.Year, r.Age,
			r.MonthlySalary.StringFixed(2),
			r.PensionContribution.StringFixed(2),
			r.AnnualPensionReceived.StringFixed(0),
			r.LivingExpense.StringFixed(2),
			r.HousingFundAccount.StringFixed(2),
			r.PersonalPensionAccount.StringFixed(2),
			r.Savings.StringFixed(2),
			r.TotalAssets.StringFixed(2),
			status(r))
	}
}

func status(r domain.YearlyRecord) string {
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
	if r.IsRetired && r.PayingContributions {
		parts = append(parts, "self-paid contributions")
	}
	return strings.Join(parts, ", ")
}
