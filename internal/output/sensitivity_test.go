package output

import (
	"context"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rgehrsitz/hfp/internal/calculation"
	"github.com/rgehrsitz/hfp/internal/domain"
	"github.com/rgehrsitz/hfp/internal/presets"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildSensitivityAnalysis(t *testing.T) *domain.ParameterSensitivityAnalysis {
	t.Helper()
	analysis, err := calculation.NewSensitivityAnalyzer(nil).AnalyzeMultipleParameters(context.Background(),
		"moderate", presets.DefaultParams(), 30,
		[]domain.SensitivityParameter{domain.DepositRateParam, domain.RetirementAgeParam})
	require.NoError(t, err)
	return analysis
}

func buildSensitivityMatrix(t *testing.T) *domain.SensitivityMatrix {
	t.Helper()
	p1 := domain.RetirementAgeParam
	p1.Steps = 3
	p2 := domain.LivingExpenseParam
	p2.Steps = 2
	matrix, err := calculation.NewSensitivityAnalyzer(nil).AnalyzeParameterMatrix(context.Background(),
		"moderate", presets.DefaultParams(), 30, p1, p2)
	require.NoError(t, err)
	return matrix
}

func TestNewSensitivityFormatter(t *testing.T) {
	for format, name := range map[string]string{"table": "console", "console": "console", "CSV": "csv", "json": "json"} {
		f := NewSensitivityFormatter(format)
		require.NotNil(t, f, format)
		assert.Equal(t, name, f.Name())
	}
	assert.Nil(t, NewSensitivityFormatter("xml"))
}

func TestSensitivityConsoleFormatter_Analysis(t *testing.T) {
	analysis := buildSensitivityAnalysis(t)

	out, err := SensitivityConsoleFormatter{}.FormatSensitivityAnalysis(analysis)
	require.NoError(t, err)

	assert.Contains(t, out, "SENSITIVITY ANALYSIS: moderate (multi, 30-year horizon)")
	assert.Contains(t, out, "DEPOSIT RATE")
	assert.Contains(t, out, "RETIREMENT AGE")
	assert.Contains(t, out, "Range: 1.00% to 4.00% (7 steps)")
	assert.Contains(t, out, "MOST SENSITIVE PARAMETER: "+analysis.Summary.MostSensitiveParameter)
	assert.Contains(t, out, "RISK LEVEL: "+analysis.Summary.RiskLevel)
	for _, rec := range analysis.Summary.Recommendations {
		assert.Contains(t, out, rec)
	}
}

func TestSensitivityConsoleFormatter_Matrix(t *testing.T) {
	matrix := buildSensitivityMatrix(t)

	out, err := SensitivityConsoleFormatter{}.FormatSensitivityAnalysis(matrix)
	require.NoError(t, err)

	assert.Contains(t, out, "SENSITIVITY MATRIX ANALYSIS: moderate (30-year horizon)")
	assert.Contains(t, out, "Parameter 1: retirement_age (40 to 60)")
	assert.Contains(t, out, "MOST SENSITIVE COMBINATION: "+matrix.Summary.MostSensitiveCombination)
	assert.Contains(t, out, "INTERACTION EFFECT:")
}

func TestSensitivityConsoleFormatter_Errors(t *testing.T) {
	_, err := SensitivityConsoleFormatter{}.FormatSensitivityAnalysis(&domain.ParameterSensitivityAnalysis{})
	assert.Error(t, err)

	_, err = SensitivityConsoleFormatter{}.FormatSensitivityAnalysis(&domain.SensitivityMatrix{})
	assert.Error(t, err)

	_, err = SensitivityConsoleFormatter{}.FormatSensitivityAnalysis("not an analysis")
	assert.Error(t, err)
}

func TestSensitivityCSVFormatter(t *testing.T) {
	analysis := buildSensitivityAnalysis(t)

	out, err := SensitivityCSVFormatter{}.FormatSensitivityAnalysis(analysis)
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1+len(analysis.Results))
	assert.Equal(t, []string{"parameter_name", "parameter_value", "retirement_year"}, records[0][:3])
	assert.Equal(t, "deposit_rate", records[1][0])
	assert.Equal(t, "1", records[1][1])

	matrix := buildSensitivityMatrix(t)
	out, err = SensitivityCSVFormatter{}.FormatSensitivityAnalysis(matrix)
	require.NoError(t, err)

	records, err = csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1+3*2)
	assert.Equal(t, []string{"retirement_age", "40", "living_expense_ratio", "0.3"}, records[1][:4])
}

func TestSensitivityJSONFormatter(t *testing.T) {
	analysis := buildSensitivityAnalysis(t)

	out, err := SensitivityJSONFormatter{}.FormatSensitivityAnalysis(analysis)
	require.NoError(t, err)

	var decoded domain.ParameterSensitivityAnalysis
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "moderate", decoded.BaseScenarioName)
	assert.Len(t, decoded.Results, len(analysis.Results))
	assert.True(t, decoded.BaseMetrics.FinalTotalAssets.Equal(analysis.BaseMetrics.FinalTotalAssets))

	_, err = SensitivityJSONFormatter{}.FormatSensitivityAnalysis(42)
	assert.Error(t, err)
}

func TestFormatParamValue(t *testing.T) {
	v := decimal.RequireFromString("2.5")
	assert.Equal(t, "2.50%", formatParamValue(domain.SensitivityParameter{Unit: "percent"}, v))
	assert.Equal(t, "3", formatParamValue(domain.SensitivityParameter{Unit: "years"}, v))
	assert.Equal(t, "2.500", formatParamValue(domain.SensitivityParameter{Unit: "ratio"}, v))
	assert.Equal(t, "never", depletedLabel(nil))
	age := 61
	assert.Equal(t, "age 61", depletedLabel(&age))
}
