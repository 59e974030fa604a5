package config

import (
	"fmt"
	"math"
	"strings"

	"github.com/rgehrsitz/hfp/internal/domain"
	"github.com/shopspring/decimal"
)

// ParamsFromMap builds a parameter set from loosely typed values such as a
// decoded YAML or JSON object or a spreadsheet row. Every field is required;
// unknown keys are ignored.
func ParamsFromMap(values map[string]any) (domain.Params, error) {
	var p domain.Params
	for _, field := range domain.ParamFields {
		raw, ok := values[field.Key]
		if !ok || raw == nil {
			return domain.Params{}, domain.NewInvalidParameterError(field.Key, "required field is missing")
		}

		v, err := toDecimal(raw)
		if err != nil {
			return domain.Params{}, domain.NewInvalidParameterError(field.Key, "%v", err)
		}
		if field.Kind == domain.IntField && !v.Equal(v.Truncate(0)) {
			return domain.Params{}, domain.NewInvalidParameterError(field.Key, "must be a whole number, got %s", v)
		}
		field.Set(&p, v)
	}
	return p, nil
}

// ParamsToMap is the inverse of ParamsFromMap. Integer fields stay integers;
// decimal fields are written as exact decimal strings.
func ParamsToMap(p domain.Params) map[string]any {
	out := make(map[string]any, len(domain.ParamFields))
	for _, field := range domain.ParamFields {
		v := field.Get(p)
		if field.Kind == domain.IntField {
			out[field.Key] = int(v.IntPart())
			continue
		}
		out[field.Key] = v.String()
	}
	return out
}

func toDecimal(raw any) (decimal.Decimal, error) {
	switch v := raw.(type) {
	case decimal.Decimal:
		return v, nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int32:
		return decimal.NewFromInt32(v), nil
	case int64:
		return decimal.NewFromInt(v), nil
	case uint:
		return decimal.NewFromInt(int64(v)), nil
	case float32:
		return floatToDecimal(float64(v))
	case float64:
		return floatToDecimal(v)
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return decimal.Zero, fmt.Errorf("expected a number, got an empty string")
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero, fmt.Errorf("expected a number, got %q", v)
		}
		return d, nil
	case fmt.Stringer:
		// json.Number and friends
		d, err := decimal.NewFromString(v.String())
		if err != nil {
			return decimal.Zero, fmt.Errorf("expected a number, got %q", v.String())
		}
		return d, nil
	default:
		return decimal.Zero, fmt.Errorf("expected a number, got %T", raw)
	}
}

func floatToDecimal(f float64) (decimal.Decimal, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero, fmt.Errorf("expected a finite number, got %v", f)
	}
	return decimal.NewFromFloat(f), nil
}

// ValidateParams applies the range checks used before accepting user input.
// The engine itself accepts any well-typed parameter set.
func ValidateParams(p domain.Params) error {
	if p.CurrentAge < 0 || p.CurrentAge > 150 {
		return domain.NewInvalidParameterError("current_age", "must be between 0 and 150, got %d", p.CurrentAge)
	}
	if p.RetirementAge < 0 || p.RetirementAge > 150 {
		return domain.NewInvalidParameterError("retirement_age", "must be between 0 and 150, got %d", p.RetirementAge)
	}
	if p.StartWorkYear > p.StartYear {
		return domain.NewInvalidParameterError("start_work_year", "cannot be after start_year (%d > %d)", p.StartWorkYear, p.StartYear)
	}

	nonNegative := []struct {
		key   string
		value decimal.Decimal
	}{
		{"initial_monthly_salary", p.InitialMonthlySalary},
		{"local_average_salary", p.LocalAverageSalary},
		{"pension_replacement_ratio", p.PensionReplacementRatio},
		{"contribution_ratio", p.ContributionRatio},
		{"living_expense_ratio", p.LivingExpenseRatio},
		{"initial_savings", p.InitialSavings},
		{"initial_housing_fund", p.InitialHousingFund},
		{"initial_personal_pension", p.InitialPersonalPension},
	}
	for _, f := range nonNegative {
		if f.value.IsNegative() {
			return domain.NewInvalidParameterError(f.key, "cannot be negative, got %s", f.value)
		}
	}

	minRate := decimal.NewFromInt(-100)
	rates := []struct {
		key   string
		value decimal.Decimal
	}{
		{"salary_growth_rate", p.SalaryGrowthRate},
		{"inflation_rate", p.InflationRate},
		{"deposit_rate", p.DepositRate},
		{"housing_fund_rate", p.HousingFundRate},
	}
	for _, r := range rates {
		if r.value.LessThanOrEqual(minRate) {
			return domain.NewInvalidParameterError(r.key, "must be greater than -100%%, got %s", r.value)
		}
	}
	return nil
}

// ValidateHorizon checks a projection horizon against the configured ceiling.
func ValidateHorizon(horizon, maxHorizon int) error {
	if horizon < 1 || horizon > maxHorizon {
		return domain.NewInvalidParameterError("horizon", "must be between 1 and %d, got %d", maxHorizon, horizon)
	}
	return nil
}
