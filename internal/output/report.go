package output

import (
	"fmt"

	"github.com/rgehrsitz/hfp/internal/domain"
	"github.com/rgehrsitz/hfp/pkg/money"
	"github.com/shopspring/decimal"
)

// Recommendation names the scenario ending with the most assets.
type Recommendation struct {
	Name             string
	Reason           string
	FinalTotalAssets decimal.Decimal
	Delta            decimal.Decimal // over the runner-up
}

// AnalyzeScenarios picks the scenario with the highest final total assets.
func AnalyzeScenarios(report *Report) Recommendation {
	var best, second *domain.ScenarioSummary
	for _, s := range report.Scenarios {
		switch {
		case best == nil || s.FinalTotalAssets.GreaterThan(best.FinalTotalAssets):
			second, best = best, s
		case second == nil || s.FinalTotalAssets.GreaterThan(second.FinalTotalAssets):
			second = s
		}
	}
	if best == nil {
		return Recommendation{}
	}

	rec := Recommendation{Name: best.Name, FinalTotalAssets: best.FinalTotalAssets}
	if second != nil {
		rec.Delta = best.FinalTotalAssets.Sub(second.FinalTotalAssets)
		rec.Reason = fmt.Sprintf("ends %d with %s more than %s", best.FinalYear, FormatWan(rec.Delta), second.Name)
	} else {
		rec.Reason = fmt.Sprintf("ends %d with %s", best.FinalYear, FormatWan(best.FinalTotalAssets))
	}
	return rec
}

// KeyMetrics renders the headline figures of a scenario as label/value pairs.
func KeyMetrics(s *domain.ScenarioSummary) [][2]string {
	metrics := [][2]string{}
	if s.HasRetirement() {
		metrics = append(metrics,
			[2]string{"Retirement", fmt.Sprintf("%d (age %d)", s.RetirementYear, s.RetirementAge)},
			[2]string{"Savings at retirement", FormatWan(s.SavingsAtRetirement)},
			[2]string{"Total assets at retirement", FormatWan(s.TotalAssetsAtRetirement)},
		)
	} else {
		metrics = append(metrics, [2]string{"Retirement", "not within horizon"})
	}
	if s.HasPensionStart() {
		metrics = append(metrics,
			[2]string{"Pension starts", fmt.Sprintf("%d (age %d)", s.PensionStartYear, s.PensionStartAge)},
			[2]string{"Annual pension", FormatCurrency(s.AnnualPensionAtStart)},
		)
	} else {
		metrics = append(metrics, [2]string{"Pension starts", "not within horizon"})
	}
	metrics = append(metrics,
		[2]string{"Contributions after retiring", fmt.Sprintf("%d years", s.ExtraContributionYears)},
		[2]string{"Peak total assets", fmt.Sprintf("%s (age %d)", FormatWan(s.PeakTotalAssets), s.PeakAge)},
		[2]string{"Final total assets", FormatWan(s.FinalTotalAssets)},
	)
	if s.SavingsDepletedAge != nil {
		metrics = append(metrics, [2]string{"Savings depleted", fmt.Sprintf("age %d", *s.SavingsDepletedAge)})
	}
	return metrics
}

// FormatCurrency formats a decimal as a currency string.
func FormatCurrency(amount decimal.Decimal) string {
	return money.Format(amount)
}

// FormatWan formats a decimal in units of ten thousand.
func FormatWan(amount decimal.Decimal) string {
	return money.FormatWan(amount)
}

// FormatPercentage formats a fraction as a percentage string.
func FormatPercentage(amount decimal.Decimal) string {
	return money.Ratio(amount, 2)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
