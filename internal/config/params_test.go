package config

import (
	"math"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rgehrsitz/hfp/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validValues() map[string]any {
	return map[string]any{
		"start_year":                2025,
		"start_work_year":           2015,
		"current_age":               34,
		"retirement_age":            45,
		"initial_monthly_salary":    10000,
		"local_average_salary":      12307.0,
		"salary_growth_rate":        "4",
		"pension_replacement_ratio": 0.4,
		"contribution_ratio":        0.6,
		"living_expense_ratio":      0.5,
		"inflation_rate":            0,
		"deposit_rate":              json.Number("2.0"),
		"initial_savings":           decimal.NewFromInt(1000000),
		"initial_housing_fund":      int64(150000),
		"housing_fund_rate":         1.5,
		"initial_personal_pension":  0,
	}
}

func TestParamsFromMap_Valid(t *testing.T) {
	p, err := ParamsFromMap(validValues())

	require.NoError(t, err)
	assert.Equal(t, 2025, p.StartYear)
	assert.Equal(t, 45, p.RetirementAge)
	assert.True(t, decimal.NewFromInt(12307).Equal(p.LocalAverageSalary))
	assert.True(t, decimal.NewFromInt(4).Equal(p.SalaryGrowthRate))
	assert.True(t, decimal.NewFromInt(2).Equal(p.DepositRate))
	assert.True(t, decimal.RequireFromString("1.5").Equal(p.HousingFundRate))
	assert.True(t, decimal.NewFromInt(150000).Equal(p.InitialHousingFund))
}

func TestParamsFromMap_IgnoresUnknownKeys(t *testing.T) {
	values := validValues()
	values["favourite_colour"] = "green"

	_, err := ParamsFromMap(values)
	assert.NoError(t, err)
}

func TestParamsFromMap_IntegralFloatForIntField(t *testing.T) {
	values := validValues()
	values["current_age"] = 34.0

	p, err := ParamsFromMap(values)
	require.NoError(t, err)
	assert.Equal(t, 34, p.CurrentAge)
}

func TestParamsFromMap_Errors(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value any
	}{
		{"missing", "deposit_rate", nil},
		{"non numeric string", "initial_savings", "lots"},
		{"empty string", "inflation_rate", "  "},
		{"boolean", "contribution_ratio", true},
		{"fractional year", "start_year", 2025.5},
		{"not a number", "deposit_rate", math.NaN()},
		{"infinite", "deposit_rate", math.Inf(1)},
		{"list", "living_expense_ratio", []any{1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := validValues()
			if tt.value == nil {
				delete(values, tt.key)
			} else {
				values[tt.key] = tt.value
			}

			_, err := ParamsFromMap(values)

			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidParameter)
			var invalid *domain.InvalidParameterError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, tt.key, invalid.Field)
		})
	}
}

func TestParamsToMap_RoundTrip(t *testing.T) {
	p, err := ParamsFromMap(validValues())
	require.NoError(t, err)

	values := ParamsToMap(p)
	assert.Equal(t, 2025, values["start_year"])
	assert.Equal(t, "0.4", values["pension_replacement_ratio"])

	again, err := ParamsFromMap(values)
	require.NoError(t, err)
	for _, field := range domain.ParamFields {
		assert.True(t, field.Get(p).Equal(field.Get(again)), field.Key)
	}
}

func TestParamsToMap_KeepsPrecision(t *testing.T) {
	p, err := ParamsFromMap(validValues())
	require.NoError(t, err)
	p.InitialSavings = decimal.RequireFromString("12345678901234567.89")
	p.DepositRate = decimal.RequireFromString("2.123456789012345678")

	again, err := ParamsFromMap(ParamsToMap(p))
	require.NoError(t, err)
	assert.True(t, p.InitialSavings.Equal(again.InitialSavings), again.InitialSavings.String())
	assert.True(t, p.DepositRate.Equal(again.DepositRate), again.DepositRate.String())

	out, err := Marshal(&domain.Configuration{Horizon: 10, Scenarios: []domain.Scenario{{Name: "precise", Params: p}}})
	require.NoError(t, err)
	cfg, err := NewInputParser().Parse(out)
	require.NoError(t, err)
	assert.True(t, p.InitialSavings.Equal(cfg.Scenarios[0].Params.InitialSavings))
}

func TestValidateParams(t *testing.T) {
	base, err := ParamsFromMap(validValues())
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(p *domain.Params)
		field  string
	}{
		{"valid", func(p *domain.Params) {}, ""},
		{"negative age", func(p *domain.Params) { p.CurrentAge = -1 }, "current_age"},
		{"absurd retirement age", func(p *domain.Params) { p.RetirementAge = 400 }, "retirement_age"},
		{"work after start", func(p *domain.Params) { p.StartWorkYear = 2026 }, "start_work_year"},
		{"negative salary", func(p *domain.Params) { p.InitialMonthlySalary = decimal.NewFromInt(-5) }, "initial_monthly_salary"},
		{"negative ratio", func(p *domain.Params) { p.LivingExpenseRatio = decimal.RequireFromString("-0.1") }, "living_expense_ratio"},
		{"rate wipes out balance", func(p *domain.Params) { p.DepositRate = decimal.NewFromInt(-100) }, "deposit_rate"},
		{"deflation allowed", func(p *domain.Params) { p.InflationRate = decimal.NewFromInt(-2) }, ""},
		{"retirement before current age allowed", func(p *domain.Params) { p.RetirementAge = 20 }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := base
			tt.mutate(&p)
			err := ValidateParams(p)
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var invalid *domain.InvalidParameterError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, tt.field, invalid.Field)
		})
	}
}

func TestValidateHorizon(t *testing.T) {
	assert.NoError(t, ValidateHorizon(60, 120))
	assert.NoError(t, ValidateHorizon(120, 120))
	assert.Error(t, ValidateHorizon(0, 120))
	assert.Error(t, ValidateHorizon(121, 120))
}
