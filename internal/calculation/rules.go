package calculation

import "github.com/shopspring/decimal"

const (
	// DefaultHorizon is the number of years projected after the start year.
	DefaultHorizon = 60

	// MinPensionYears is the contribution history required to draw a pension.
	MinPensionYears = 20
	// MinMedicalYears is the contribution history required for retiree medical cover.
	MinMedicalYears = 25
	// PensionAge is the earliest age at which the pension can be drawn.
	PensionAge = 60
)

var (
	// PensionContributionRate and MedicalContributionRate apply to the contribution base.
	PensionContributionRate = decimal.RequireFromString("0.20")
	MedicalContributionRate = decimal.RequireFromString("0.10")

	// PersonalPensionRate is the share of salary credited to the personal pension account.
	PersonalPensionRate = decimal.RequireFromString("0.08")

	contributionRate = PensionContributionRate.Add(MedicalContributionRate)
	monthsPerYear    = decimal.NewFromInt(12)
	hundred          = decimal.NewFromInt(100)
)

// growthFactor converts a percent rate into a multiplier: 4 -> 1.04.
func growthFactor(percent decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(1).Add(percent.Div(hundred))
}

func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
