package calculation

import (
	"fmt"

	"github.com/rgehrsitz/hfp/internal/domain"
	"github.com/shopspring/decimal"
)

// Summarize extracts the headline figures of a projection.
func Summarize(name string, records []domain.YearlyRecord) *domain.ScenarioSummary {
	summary := &domain.ScenarioSummary{
		Name:       name,
		KeyEvents:  KeyEvents(records),
		Projection: records,
	}
	if len(records) == 0 {
		return summary
	}

	total := decimal.Zero
	pensionSeen := false
	summary.PeakTotalAssets = records[0].TotalAssets
	summary.PeakAge = records[0].Age

	for _, rec := range records {
		total = total.Add(rec.PensionContribution)

		if rec.IsRetirementYear && !summary.HasRetirement() {
			summary.RetirementYear = rec.Year
			summary.RetirementAge = rec.Age
			summary.SavingsAtRetirement = rec.Savings
			summary.TotalAssetsAtRetirement = rec.TotalAssets
		}
		if rec.CanReceivePension && !pensionSeen {
			pensionSeen = true
			summary.PensionStartYear = rec.Year
			summary.PensionStartAge = rec.Age
			summary.AnnualPensionAtStart = rec.AnnualPensionReceived
		}
		if rec.IsRetired && rec.PayingContributions {
			summary.ExtraContributionYears++
		}
		if rec.TotalAssets.GreaterThan(summary.PeakTotalAssets) {
			summary.PeakTotalAssets = rec.TotalAssets
			summary.PeakAge = rec.Age
		}
		if rec.Savings.IsNegative() && summary.SavingsDepletedAge == nil {
			age := rec.Age
			summary.SavingsDepletedAge = &age
		}
	}

	last := records[len(records)-1]
	summary.TotalContributions = total
	summary.FinalYear = last.Year
	summary.FinalSavings = last.Savings
	summary.FinalTotalAssets = last.TotalAssets
	return summary
}

// KeyEvents lists the retirement year and the first year the pension is paid.
func KeyEvents(records []domain.YearlyRecord) []domain.KeyEvent {
	events := []domain.KeyEvent{}
	retirementFound, pensionFound := false, false

	for _, rec := range records {
		if rec.IsRetirementYear && !retirementFound {
			retirementFound = true
			events = append(events, domain.KeyEvent{
				Type:        domain.EventRetirement,
				Year:        rec.Year,
				Age:         rec.Age,
				Description: fmt.Sprintf("retire at %d", rec.Age),
				Savings:     rec.Savings,
				TotalAssets: rec.TotalAssets,
			})
		}
		if rec.CanReceivePension && !pensionFound {
			pensionFound = true
			events = append(events, domain.KeyEvent{
				Type:        domain.EventPensionStart,
				Year:        rec.Year,
				Age:         rec.Age,
				Description: fmt.Sprintf("pension of %s per year begins", rec.AnnualPensionReceived.StringFixed(2)),
				Savings:     rec.Savings,
				TotalAssets: rec.TotalAssets,
			})
		}
	}
	return events
}
