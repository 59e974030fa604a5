package transform

import (
	"fmt"

	"github.com/rgehrsitz/hfp/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	minPercent = decimal.NewFromInt(-50)
	maxPercent = decimal.NewFromInt(50)
)

func validatePercent(name, field string, rate decimal.Decimal) error {
	if rate.LessThan(minPercent) || rate.GreaterThan(maxPercent) {
		return NewTransformError(name, "validate",
			fmt.Sprintf("%s must be between %s%% and %s%%, got %s%%", field, minPercent, maxPercent, rate), nil)
	}
	return nil
}

// ModifyInflation changes the inflation rate (percent).
type ModifyInflation struct {
	NewRate decimal.Decimal
}

func (mi *ModifyInflation) Name() string {
	return "modify_inflation"
}

func (mi *ModifyInflation) Description() string {
	return fmt.Sprintf("Change inflation rate to %s%%", mi.NewRate.StringFixed(1))
}

func (mi *ModifyInflation) Validate(base domain.Params) error {
	return validatePercent(mi.Name(), "inflation rate", mi.NewRate)
}

func (mi *ModifyInflation) Apply(base domain.Params) (domain.Params, error) {
	base.InflationRate = mi.NewRate
	return base, nil
}

// AdjustSalaryGrowth changes the salary growth rate (percent).
type AdjustSalaryGrowth struct {
	NewRate decimal.Decimal
}

func (as *AdjustSalaryGrowth) Name() string {
	return "adjust_salary_growth"
}

func (as *AdjustSalaryGrowth) Description() string {
	return fmt.Sprintf("Change salary growth to %s%%", as.NewRate.StringFixed(1))
}

func (as *AdjustSalaryGrowth) Validate(base domain.Params) error {
	return validatePercent(as.Name(), "salary growth rate", as.NewRate)
}

func (as *AdjustSalaryGrowth) Apply(base domain.Params) (domain.Params, error) {
	base.SalaryGrowthRate = as.NewRate
	return base, nil
}

// SetDepositRate changes the interest earned on savings (percent).
type SetDepositRate struct {
	NewRate decimal.Decimal
}

func (sd *SetDepositRate) Name() string {
	return "set_deposit_rate"
}

func (sd *SetDepositRate) Description() string {
	return fmt.Sprintf("Change deposit rate to %s%%", sd.NewRate.StringFixed(1))
}

func (sd *SetDepositRate) Validate(base domain.Params) error {
	return validatePercent(sd.Name(), "deposit rate", sd.NewRate)
}

func (sd *SetDepositRate) Apply(base domain.Params) (domain.Params, error) {
	base.DepositRate = sd.NewRate
	return base, nil
}

// ScaleLivingExpense multiplies the living expense ratio by Factor.
type ScaleLivingExpense struct {
	Factor decimal.Decimal
}

func (sl *ScaleLivingExpense) Name() string {
	return "scale_living_expense"
}

func (sl *ScaleLivingExpense) Description() string {
	change := sl.Factor.Sub(decimal.NewFromInt(1)).Mul(decimal.NewFromInt(100))
	if change.IsNegative() {
		return fmt.Sprintf("Spend %s%% less", change.Neg().StringFixed(0))
	}
	return fmt.Sprintf("Spend %s%% more", change.StringFixed(0))
}

func (sl *ScaleLivingExpense) Validate(base domain.Params) error {
	if !sl.Factor.IsPositive() || sl.Factor.GreaterThan(decimal.NewFromInt(5)) {
		return NewTransformError(sl.Name(), "validate", fmt.Sprintf("factor must be in (0, 5], got %s", sl.Factor), nil)
	}
	return nil
}

func (sl *ScaleLivingExpense) Apply(base domain.Params) (domain.Params, error) {
	base.LivingExpenseRatio = base.LivingExpenseRatio.Mul(sl.Factor)
	return base, nil
}

// SetContributionRatio changes the share of salary used as contribution base.
type SetContributionRatio struct {
	Ratio decimal.Decimal
}

func (sc *SetContributionRatio) Name() string {
	return "set_contribution_ratio"
}

func (sc *SetContributionRatio) Description() string {
	return fmt.Sprintf("Contribute on %s%% of salary", sc.Ratio.Mul(decimal.NewFromInt(100)).StringFixed(0))
}

func (sc *SetContributionRatio) Validate(base domain.Params) error {
	if sc.Ratio.IsNegative() || sc.Ratio.GreaterThan(decimal.NewFromInt(3)) {
		return NewTransformError(sc.Name(), "validate", fmt.Sprintf("ratio must be between 0 and 3, got %s", sc.Ratio), nil)
	}
	return nil
}

func (sc *SetContributionRatio) Apply(base domain.Params) (domain.Params, error) {
	base.ContributionRatio = sc.Ratio
	return base, nil
}

// AddSavings adds a lump sum (or withdrawal when negative) to initial savings.
type AddSavings struct {
	Amount decimal.Decimal
}

func (as *AddSavings) Name() string {
	return "add_savings"
}

func (as *AddSavings) Description() string {
	return fmt.Sprintf("Add %s to initial savings", as.Amount.StringFixed(0))
}

func (as *AddSavings) Validate(base domain.Params) error {
	if base.InitialSavings.Add(as.Amount).IsNegative() {
		return NewTransformError(as.Name(), "validate", "initial savings cannot become negative", nil)
	}
	return nil
}

func (as *AddSavings) Apply(base domain.Params) (domain.Params, error) {
	base.InitialSavings = base.InitialSavings.Add(as.Amount)
	return base, nil
}
