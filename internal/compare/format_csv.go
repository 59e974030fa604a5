package compare

import (
	"encoding/csv"
	"strconv"
	"strings"
)

// CSVFormatter formats comparison results as CSV
type CSVFormatter struct{}

// Format generates CSV output for comparison results
func (cf *CSVFormatter) Format(compSet *ComparisonSet) (string, error) {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	header := []string{
		"Scenario",
		"Type",
		"Retirement Year",
		"Savings At Retirement",
		"Total Assets At Retirement",
		"Pension Start Age",
		"Annual Pension At Start",
		"Extra Contribution Years",
		"Peak Total Assets",
		"Final Total Assets",
		"Savings Depleted Age",
		"Final Assets Diff from Base",
		"Final Assets % Change",
		"Extra Contribution Years Diff",
	}
	if err := writer.Write(header); err != nil {
		return "", err
	}

	if compSet.BaseResult != nil {
		if err := writer.Write(cf.formatRow(compSet.BaseResult, "base")); err != nil {
			return "", err
		}
	}

	for i := range compSet.AlternativeResults {
		if err := writer.Write(cf.formatRow(&compSet.AlternativeResults[i], "alternative")); err != nil {
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}

	return sb.String(), nil
}

// formatRow formats a comparison result as a CSV row
func (cf *CSVFormatter) formatRow(result *ComparisonResult, scenarioType string) []string {
	depleted := ""
	if result.SavingsDepletedAge != nil {
		depleted = strconv.Itoa(*result.SavingsDepletedAge)
	}

	return []string{
		result.ScenarioName,
		scenarioType,
		strconv.Itoa(result.RetirementYear),
		result.SavingsAtRetirement.StringFixed(2),
		result.TotalAssetsAtRetirement.StringFixed(2),
		strconv.Itoa(result.PensionStartAge),
		result.AnnualPensionAtStart.StringFixed(2),
		strconv.Itoa(result.ExtraContributionYears),
		result.PeakTotalAssets.StringFixed(2),
		result.FinalTotalAssets.StringFixed(2),
		depleted,
		result.FinalAssetsDiffFromBase.StringFixed(2),
		result.FinalAssetsPctFromBase.StringFixed(2),
		strconv.Itoa(result.ExtraContributionYearsDiff),
	}
}
