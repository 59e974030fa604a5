package calculation

import (
	"context"
	"testing"

	"github.com/rgehrsitz/hfp/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sweepParam(name, lo, hi string, steps int) domain.SensitivityParameter {
	return domain.SensitivityParameter{Name: name, MinValue: dec(lo), MaxValue: dec(hi), Steps: steps}
}

func TestSensitivity_SingleParameter(t *testing.T) {
	analyzer := NewSensitivityAnalyzer(NewEngine())
	base := earlyRetirementParams()

	analysis, err := analyzer.AnalyzeSingleParameter(context.Background(), "base", base, 30, sweepParam("deposit_rate", "1", "3", 3))
	require.NoError(t, err)

	assert.Equal(t, domain.AnalysisSingle, analysis.AnalysisType)
	assert.Equal(t, 30, analysis.Horizon)
	assert.Equal(t, "deposit_rate", analysis.Summary.MostSensitiveParameter)
	require.Len(t, analysis.Parameters, 1)
	assertDecimal(t, "2", analysis.Parameters[0].BaseValue, "base value comes from the scenario")
	require.Len(t, analysis.Results, 3)

	baseSummary := Summarize("base", NewEngine().ProjectYears(base, 30))
	assertDecimal(t, baseSummary.FinalTotalAssets.String(), analysis.BaseMetrics.FinalTotalAssets)

	for i, want := range []string{"1", "2", "3"} {
		r := analysis.Results[i]
		assertDecimal(t, want, r.ParameterValues["deposit_rate"])
		assert.Equal(t, "base_deposit_rate_"+want, r.ScenarioName)

		p := base
		p.DepositRate = dec(want)
		direct := Summarize(r.ScenarioName, NewEngine().ProjectYears(p, 30))
		assertDecimal(t, direct.FinalTotalAssets.String(), r.KeyMetrics.FinalTotalAssets, "value %s", want)
		assertDecimal(t, direct.FinalTotalAssets.Sub(baseSummary.FinalTotalAssets).String(), r.KeyMetrics.FinalAssetsChange)
	}

	// The sweep point equal to the base value reproduces the base.
	assert.True(t, analysis.Results[1].KeyMetrics.FinalAssetsChange.IsZero())
	assert.True(t, analysis.Results[1].KeyMetrics.FinalAssetsChangePct.IsZero())
}

func TestSensitivity_ExpenseRatioLowersFinalAssets(t *testing.T) {
	analyzer := NewSensitivityAnalyzer(nil)

	analysis, err := analyzer.AnalyzeSingleParameter(context.Background(), "base", earlyRetirementParams(), 30,
		sweepParam("living_expense_ratio", "0.3", "0.7", 5))
	require.NoError(t, err)
	require.Len(t, analysis.Results, 5)

	for i := 1; i < len(analysis.Results); i++ {
		prev, cur := analysis.Results[i-1].KeyMetrics, analysis.Results[i].KeyMetrics
		assert.True(t, cur.FinalTotalAssets.LessThan(prev.FinalTotalAssets),
			"final assets should fall as the expense ratio rises: %s then %s", prev.FinalTotalAssets, cur.FinalTotalAssets)
	}
	assert.True(t, analysis.Summary.SensitivityScores["living_expense_ratio"].IsPositive())
}

func TestSensitivity_MultipleParameters(t *testing.T) {
	analyzer := NewSensitivityAnalyzer(NewEngine())
	params := []domain.SensitivityParameter{
		sweepParam("living_expense_ratio", "0.3", "0.7", 5),
		sweepParam("inflation_rate", "0", "3", 4),
	}

	analysis, err := analyzer.AnalyzeMultipleParameters(context.Background(), "base", earlyRetirementParams(), 30, params)
	require.NoError(t, err)

	assert.Equal(t, domain.AnalysisMulti, analysis.AnalysisType)
	assert.Len(t, analysis.Parameters, 2)
	assert.Len(t, analysis.Results, 9)
	require.Len(t, analysis.Summary.SensitivityScores, 2)

	most := analysis.Summary.MostSensitiveParameter
	for name, score := range analysis.Summary.SensitivityScores {
		assert.False(t, score.GreaterThan(analysis.Summary.SensitivityScores[most]), "%s scores above %s", name, most)
	}
	assert.Equal(t, analysis.Summary.DetermineRiskLevel(), analysis.Summary.RiskLevel)
	assert.NotEmpty(t, analysis.Summary.Recommendations)

	for _, r := range analysis.Results {
		assert.Len(t, r.ParameterValues, 1, "each sweep varies one parameter")
	}
}

func TestSensitivity_DepletedCases(t *testing.T) {
	analysis, err := NewSensitivityAnalyzer(nil).AnalyzeSingleParameter(context.Background(), "base", earlyRetirementParams(), 30,
		sweepParam("living_expense_ratio", "0.5", "0.7", 3))
	require.NoError(t, err)

	depleted := 0
	for _, r := range analysis.Results {
		if r.KeyMetrics.SavingsDepletedAge != nil {
			depleted++
		}
	}
	assert.Equal(t, depleted, analysis.Summary.DepletedCases["living_expense_ratio"])
}

func TestSensitivity_Errors(t *testing.T) {
	analyzer := NewSensitivityAnalyzer(nil)
	ctx := context.Background()
	base := earlyRetirementParams()

	_, err := analyzer.AnalyzeMultipleParameters(ctx, "base", base, 30, nil)
	assert.Error(t, err)

	_, err = analyzer.AnalyzeSingleParameter(ctx, "base", base, 30, sweepParam("pension_age", "50", "60", 3))
	assert.ErrorContains(t, err, "unknown sensitivity parameter")

	_, err = analyzer.AnalyzeSingleParameter(ctx, "base", base, 30, sweepParam("deposit_rate", "3", "1", 3))
	assert.Error(t, err)

	_, err = analyzer.AnalyzeSingleParameter(ctx, "base", base, 30, sweepParam("deposit_rate", "1", "3", 0))
	assert.Error(t, err)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = analyzer.AnalyzeSingleParameter(cancelled, "base", base, 30, sweepParam("deposit_rate", "1", "3", 3))
	assert.Error(t, err)
}

func TestSensitivity_IntegerSweepHasNoDuplicateRows(t *testing.T) {
	analysis, err := NewSensitivityAnalyzer(nil).AnalyzeSingleParameter(context.Background(), "base", earlyRetirementParams(), 30,
		sweepParam("retirement_age", "40", "42", 5))
	require.NoError(t, err)

	require.Len(t, analysis.Results, 3)
	seen := map[string]bool{}
	for _, r := range analysis.Results {
		assert.False(t, seen[r.ScenarioName], "duplicate row %s", r.ScenarioName)
		seen[r.ScenarioName] = true
	}

	depleted := 0
	for _, r := range analysis.Results {
		if r.KeyMetrics.SavingsDepletedAge != nil {
			depleted++
		}
	}
	assert.Equal(t, depleted, analysis.Summary.DepletedCases["retirement_age"])
}

func TestSensitivity_EngineHorizonDefault(t *testing.T) {
	engine := NewEngine()
	engine.Horizon = 10

	analysis, err := NewSensitivityAnalyzer(engine).AnalyzeSingleParameter(context.Background(), "base", earlyRetirementParams(), 0,
		sweepParam("deposit_rate", "1", "3", 2))
	require.NoError(t, err)
	assert.Equal(t, 10, analysis.Horizon)
}

func TestSensitivity_ParameterMatrix(t *testing.T) {
	analyzer := NewSensitivityAnalyzer(NewEngine())
	base := earlyRetirementParams()

	matrix, err := analyzer.AnalyzeParameterMatrix(context.Background(), "base", base, 30,
		sweepParam("retirement_age", "40", "50", 3),
		sweepParam("living_expense_ratio", "0.4", "0.5", 2))
	require.NoError(t, err)

	require.Len(t, matrix.MatrixResults, 3)
	for _, row := range matrix.MatrixResults {
		require.Len(t, row, 2)
	}
	assert.Equal(t, int64(45), matrix.Parameter1.BaseValue.IntPart())

	// retirement_age 45 with living_expense_ratio 0.5 is the base scenario.
	cell := matrix.MatrixResults[1][1]
	assertDecimal(t, "45", cell.ParameterValues["retirement_age"])
	assertDecimal(t, "0.5", cell.ParameterValues["living_expense_ratio"])
	assert.True(t, cell.KeyMetrics.FinalAssetsChange.IsZero())

	p := base
	p.RetirementAge = 40
	p.LivingExpenseRatio = dec("0.4")
	direct := Summarize("direct", NewEngine().ProjectYears(p, 30))
	assertDecimal(t, direct.FinalTotalAssets.String(), matrix.MatrixResults[0][0].KeyMetrics.FinalTotalAssets)

	assert.NotEmpty(t, matrix.Summary.MostSensitiveCombination)
	assert.NotEmpty(t, matrix.Summary.RiskLevel)
	assert.GreaterOrEqual(t, len(matrix.Summary.Recommendations), 2)
}

func TestSensitivity_MatrixSameParameter(t *testing.T) {
	_, err := NewSensitivityAnalyzer(nil).AnalyzeParameterMatrix(context.Background(), "base", earlyRetirementParams(), 30,
		sweepParam("deposit_rate", "1", "3", 3), sweepParam("deposit_rate", "1", "2", 2))
	assert.ErrorContains(t, err, "two different parameters")
}

func TestGenerateParameterValues(t *testing.T) {
	values := generateParameterValues(sweepParam("living_expense_ratio", "0.3", "0.7", 5), domain.DecimalField)
	require.Len(t, values, 5)
	for i, want := range []string{"0.3", "0.4", "0.5", "0.6", "0.7"} {
		assertDecimal(t, want, values[i])
	}

	values = generateParameterValues(sweepParam("retirement_age", "40", "50", 4), domain.IntField)
	require.Len(t, values, 4)
	for i, want := range []string{"40", "43", "47", "50"} {
		assertDecimal(t, want, values[i])
	}

	values = generateParameterValues(sweepParam("retirement_age", "40", "42", 5), domain.IntField)
	require.Len(t, values, 3, "rounded duplicates are dropped")
	for i, want := range []string{"40", "41", "42"} {
		assertDecimal(t, want, values[i])
	}

	single := sweepParam("deposit_rate", "1", "3", 1)
	single.BaseValue = dec("2.5")
	values = generateParameterValues(single, domain.DecimalField)
	require.Len(t, values, 1)
	assertDecimal(t, "2.5", values[0])
}

func TestSwingScore(t *testing.T) {
	tests := []struct {
		name   string
		base   string
		finals []string
		want   string
	}{
		{"relative to base", "100", []string{"100", "80", "130"}, "50"},
		{"negative base uses magnitude", "-200", []string{"-200", "-100"}, "50"},
		{"zero base falls back to largest", "0", []string{"0", "-50", "50"}, "200"},
		{"all zero", "0", []string{"0", "0"}, "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			finals := make([]decimal.Decimal, len(tt.finals))
			for i, f := range tt.finals {
				finals[i] = dec(f)
			}
			assertDecimal(t, tt.want, swingScore(dec(tt.base), finals))
		})
	}
}
