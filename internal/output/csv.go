package output

import (
	"bytes"
	"encoding/csv"
	"strconv"
)

// CSVYearly writes one row per scenario year.
type CSVYearly struct{}

func (c CSVYearly) Name() string { return "csv" }

func (c CSVYearly) Format(report *Report) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{
		"Scenario", "Year", "Age", "AverageSalary", "MonthlySalary", "ContributionBase",
		"PensionContribution", "PersonalPensionAccount", "HousingFundAccount", "PensionYears",
		"MedicalYears", "CanReceivePension", "AnnualPensionReceived", "LivingExpense",
		"Savings", "TotalAssets", "IsRetired", "IsRetirementYear", "IsPensionStartYear",
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, s := range report.Scenarios {
		for _, r := range s.Projection {
			row := []string{
				s.Name,
				strconv.Itoa(r.Year),
				strconv.Itoa(r.Age),
				r.AverageSalary.StringFixed(2),
				r.MonthlySalary.StringFixed(2),
				r.ContributionBase.StringFixed(2),
				r.PensionContribution.StringFixed(2),
				r.PersonalPensionAccount.StringFixed(2),
				r.HousingFundAccount.StringFixed(2),
				strconv.Itoa(r.PensionYears),
				strconv.Itoa(r.MedicalYears),
				strconv.FormatBool(r.CanReceivePension),
				r.AnnualPensionReceived.StringFixed(2),
				r.LivingExpense.StringFixed(2),
				r.Savings.StringFixed(2),
				r.TotalAssets.StringFixed(2),
				strconv.FormatBool(r.IsRetired),
				strconv.FormatBool(r.IsRetirementYear),
				strconv.FormatBool(r.IsPensionStartYear),
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// CSVSummarizer writes one row per scenario.
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string { return "summary-csv" }

func (c CSVSummarizer) Format(report *Report) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{
		"Scenario", "RetirementYear", "SavingsAtRetirement", "TotalAssetsAtRetirement",
		"PensionStartYear", "AnnualPensionAtStart", "ExtraContributionYears",
		"PeakTotalAssets", "FinalSavings", "FinalTotalAssets", "SavingsDepletedAge",
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, s := range report.Scenarios {
		depleted := ""
		if s.SavingsDepletedAge != nil {
			depleted = strconv.Itoa(*s.SavingsDepletedAge)
		}
		row := []string{
			s.Name,
			strconv.Itoa(s.RetirementYear),
			s.SavingsAtRetirement.StringFixed(2),
			s.TotalAssetsAtRetirement.StringFixed(2),
			strconv.Itoa(s.PensionStartYear),
			s.AnnualPensionAtStart.StringFixed(2),
			strconv.Itoa(s.ExtraContributionYears),
			s.PeakTotalAssets.StringFixed(2),
			s.FinalSavings.StringFixed(2),
			s.FinalTotalAssets.StringFixed(2),
			depleted,
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
