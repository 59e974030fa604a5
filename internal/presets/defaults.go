package presets

import (
	"github.com/rgehrsitz/hfp/internal/domain"
	"github.com/shopspring/decimal"
)

// Built-in preset names.
const (
	Conservative = "conservative"
	Moderate     = "moderate"
	Optimistic   = "optimistic"
)

// Defaults returns the built-in presets. They differ only in salary growth,
// living expense ratio and deposit rate.
func Defaults() []domain.Preset {
	return []domain.Preset{
		builtIn(Conservative, "slow salary growth, high spending, low deposit rate", "2", "0.6", "1.5"),
		builtIn(Moderate, "middle-of-the-road assumptions", "4", "0.5", "2.0"),
		builtIn(Optimistic, "fast salary growth, frugal spending, high deposit rate", "6", "0.4", "3.0"),
	}
}

// IsDefault reports whether name belongs to a built-in preset.
func IsDefault(name string) bool {
	switch name {
	case Conservative, Moderate, Optimistic:
		return true
	}
	return false
}

// DefaultParams returns the parameters of the moderate preset.
func DefaultParams() domain.Params {
	return Defaults()[1].Params
}

func builtIn(name, description, growth, expenseRatio, depositRate string) domain.Preset {
	return domain.Preset{
		Name:        name,
		Description: description,
		BuiltIn:     true,
		Params: domain.Params{
			StartYear:               2025,
			StartWorkYear:           2015,
			CurrentAge:              34,
			RetirementAge:           45,
			InitialMonthlySalary:    decimal.NewFromInt(10000),
			LocalAverageSalary:      decimal.NewFromInt(12307),
			SalaryGrowthRate:        decimal.RequireFromString(growth),
			PensionReplacementRatio: decimal.RequireFromString("0.4"),
			ContributionRatio:       decimal.RequireFromString("0.6"),
			LivingExpenseRatio:      decimal.RequireFromString(expenseRatio),
			InflationRate:           decimal.Zero,
			DepositRate:             decimal.RequireFromString(depositRate),
			InitialSavings:          decimal.NewFromInt(1000000),
			InitialHousingFund:      decimal.NewFromInt(150000),
			HousingFundRate:         decimal.RequireFromString("1.5"),
			InitialPersonalPension:  decimal.Zero,
		},
	}
}
