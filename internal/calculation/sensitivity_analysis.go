package calculation

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/hfp/internal/domain"
	"github.com/shopspring/decimal"
)

// SensitivityAnalyzer performs parameter sweep analysis
type SensitivityAnalyzer struct {
	engine *Engine
}

// NewSensitivityAnalyzer creates a new sensitivity analyzer. A nil engine gets
// the defaults.
func NewSensitivityAnalyzer(engine *Engine) *SensitivityAnalyzer {
	if engine == nil {
		engine = NewEngine()
	}
	return &SensitivityAnalyzer{engine: engine}
}

// sweep is one parameter with its field descriptor and grid.
type sweep struct {
	param  domain.SensitivityParameter
	field  domain.ParamField
	values []decimal.Decimal
}

// AnalyzeSingleParameter performs a single parameter sensitivity analysis
func (sa *SensitivityAnalyzer) AnalyzeSingleParameter(
	ctx context.Context,
	baseName string,
	base domain.Params,
	horizon int,
	parameter domain.SensitivityParameter,
) (*domain.ParameterSensitivityAnalysis, error) {
	analysis, err := sa.analyze(ctx, baseName, base, horizon, []domain.SensitivityParameter{parameter})
	if err != nil {
		return nil, err
	}
	analysis.AnalysisType = domain.AnalysisSingle
	return analysis, nil
}

// AnalyzeMultipleParameters sweeps each parameter on its own, all in one
// scenario run, and ranks them by the swing they cause in final assets.
func (sa *SensitivityAnalyzer) AnalyzeMultipleParameters(
	ctx context.Context,
	baseName string,
	base domain.Params,
	horizon int,
	parameters []domain.SensitivityParameter,
) (*domain.ParameterSensitivityAnalysis, error) {
	if len(parameters) == 0 {
		return nil, fmt.Errorf("no sensitivity parameters given")
	}
	analysis, err := sa.analyze(ctx, baseName, base, horizon, parameters)
	if err != nil {
		return nil, err
	}
	analysis.AnalysisType = domain.AnalysisMulti
	return analysis, nil
}

func (sa *SensitivityAnalyzer) analyze(
	ctx context.Context,
	baseName string,
	base domain.Params,
	horizon int,
	parameters []domain.SensitivityParameter,
) (*domain.ParameterSensitivityAnalysis, error) {
	if horizon == 0 {
		horizon = sa.engine.horizon()
	}

	sweeps := make([]sweep, 0, len(parameters))
	scenarios := map[string]domain.Params{baseName: base}
	for _, param := range parameters {
		sw, err := sa.newSweep(param, base)
		if err != nil {
			return nil, err
		}
		for _, v := range sw.values {
			scenarios[resultName(baseName, sw.param.Name, v)] = withValue(base, sw.field, v)
		}
		sweeps = append(sweeps, sw)
	}

	runs, err := sa.engine.RunScenariosContext(ctx, scenarios, horizon)
	if err != nil {
		return nil, fmt.Errorf("sensitivity analysis: %w", err)
	}
	baseMetrics := domain.MetricsFromSummary(Summarize(baseName, runs[baseName]))

	summary := domain.SensitivitySummary{
		SensitivityScores: make(map[string]decimal.Decimal, len(sweeps)),
		DepletedCases:     make(map[string]int, len(sweeps)),
	}
	analysis := &domain.ParameterSensitivityAnalysis{
		BaseScenarioName: baseName,
		Horizon:          horizon,
		BaseMetrics:      baseMetrics,
	}

	maxScore := decimal.NewFromInt(-1)
	for _, sw := range sweeps {
		finals := []decimal.Decimal{baseMetrics.FinalTotalAssets}
		for _, v := range sw.values {
			name := resultName(baseName, sw.param.Name, v)
			metrics := domain.MetricsFromSummary(Summarize(name, runs[name]))
			metrics.CompareTo(baseMetrics)
			if metrics.SavingsDepletedAge != nil {
				summary.DepletedCases[sw.param.Name]++
			}
			finals = append(finals, metrics.FinalTotalAssets)
			analysis.Results = append(analysis.Results, domain.SensitivityResult{
				ParameterValues: map[string]decimal.Decimal{sw.param.Name: v},
				ScenarioName:    name,
				KeyMetrics:      metrics,
			})
		}

		score := swingScore(baseMetrics.FinalTotalAssets, finals)
		summary.SensitivityScores[sw.param.Name] = score
		if score.GreaterThan(maxScore) {
			maxScore = score
			summary.MostSensitiveParameter = sw.param.Name
		}
		analysis.Parameters = append(analysis.Parameters, sw.param)
	}

	summary.RiskLevel = summary.DetermineRiskLevel()
	summary.Recommendations = summary.GenerateRecommendations()
	analysis.Summary = summary
	return analysis, nil
}

// AnalyzeParameterMatrix performs a 2D parameter matrix analysis
func (sa *SensitivityAnalyzer) AnalyzeParameterMatrix(
	ctx context.Context,
	baseName string,
	base domain.Params,
	horizon int,
	param1, param2 domain.SensitivityParameter,
) (*domain.SensitivityMatrix, error) {
	if param1.Name == param2.Name {
		return nil, fmt.Errorf("matrix analysis needs two different parameters, got %s twice", param1.Name)
	}
	if horizon == 0 {
		horizon = sa.engine.horizon()
	}
	sw1, err := sa.newSweep(param1, base)
	if err != nil {
		return nil, err
	}
	sw2, err := sa.newSweep(param2, base)
	if err != nil {
		return nil, err
	}

	// Single-parameter runs alongside the grid give the interaction effect.
	scenarios := map[string]domain.Params{baseName: base}
	for _, v1 := range sw1.values {
		scenarios[resultName(baseName, param1.Name, v1)] = withValue(base, sw1.field, v1)
		for _, v2 := range sw2.values {
			scenarios[matrixName(baseName, param1.Name, v1, param2.Name, v2)] = withValue(withValue(base, sw1.field, v1), sw2.field, v2)
		}
	}
	for _, v2 := range sw2.values {
		scenarios[resultName(baseName, param2.Name, v2)] = withValue(base, sw2.field, v2)
	}

	runs, err := sa.engine.RunScenariosContext(ctx, scenarios, horizon)
	if err != nil {
		return nil, fmt.Errorf("sensitivity matrix: %w", err)
	}
	final := func(name string) decimal.Decimal {
		return Summarize(name, runs[name]).FinalTotalAssets
	}
	baseMetrics := domain.MetricsFromSummary(Summarize(baseName, runs[baseName]))
	baseFinal := baseMetrics.FinalTotalAssets

	matrix := &domain.SensitivityMatrix{
		BaseScenarioName: baseName,
		Horizon:          horizon,
		BaseMetrics:      baseMetrics,
		Parameter1:       sw1.param,
		Parameter2:       sw2.param,
		MatrixResults:    make([][]domain.SensitivityResult, len(sw1.values)),
	}

	finals := []decimal.Decimal{baseFinal}
	var largest decimal.Decimal
	for i, v1 := range sw1.values {
		change1 := final(resultName(baseName, param1.Name, v1)).Sub(baseFinal)
		matrix.MatrixResults[i] = make([]domain.SensitivityResult, len(sw2.values))

		for j, v2 := range sw2.values {
			name := matrixName(baseName, param1.Name, v1, param2.Name, v2)
			metrics := domain.MetricsFromSummary(Summarize(name, runs[name]))
			metrics.CompareTo(baseMetrics)
			matrix.MatrixResults[i][j] = domain.SensitivityResult{
				ParameterValues: map[string]decimal.Decimal{param1.Name: v1, param2.Name: v2},
				ScenarioName:    name,
				KeyMetrics:      metrics,
			}
			finals = append(finals, metrics.FinalTotalAssets)

			change2 := final(resultName(baseName, param2.Name, v2)).Sub(baseFinal)
			interaction := metrics.FinalAssetsChange.Sub(change1).Sub(change2)
			if interaction.Abs().GreaterThan(matrix.Summary.InteractionEffect.Abs()) {
				matrix.Summary.InteractionEffect = interaction
			}
			if metrics.FinalAssetsChange.Abs().GreaterThan(largest) {
				largest = metrics.FinalAssetsChange.Abs()
				matrix.Summary.MostSensitiveCombination = name
			}
		}
	}

	matrix.Summary.RiskLevel = domain.RiskLevelForScore(swingScore(baseFinal, finals))
	matrix.Summary.Recommendations = matrixRecommendations(matrix, baseFinal)
	return matrix, nil
}

func (sa *SensitivityAnalyzer) newSweep(param domain.SensitivityParameter, base domain.Params) (sweep, error) {
	if err := param.Validate(); err != nil {
		return sweep{}, err
	}
	field, _ := domain.LookupParamField(param.Name)
	param.BaseValue = field.Get(base)
	return sweep{param: param, field: field, values: generateParameterValues(param, field.Kind)}, nil
}

// generateParameterValues spreads Steps values evenly over [MinValue, MaxValue].
// A single step sweeps only the base value; integer fields are rounded and
// values that round to the previous one are dropped.
func generateParameterValues(param domain.SensitivityParameter, kind domain.FieldKind) []decimal.Decimal {
	if param.Steps <= 1 {
		return []decimal.Decimal{param.BaseValue}
	}

	stepSize := param.MaxValue.Sub(param.MinValue).Div(decimal.NewFromInt(int64(param.Steps - 1)))
	values := make([]decimal.Decimal, 0, param.Steps)
	for i := range param.Steps {
		value := param.MinValue.Add(stepSize.Mul(decimal.NewFromInt(int64(i))))
		if kind == domain.IntField {
			value = value.Round(0)
		} else {
			value = value.Round(6)
		}
		if n := len(values); n > 0 && values[n-1].Equal(value) {
			continue
		}
		values = append(values, value)
	}
	return values
}

func withValue(p domain.Params, field domain.ParamField, v decimal.Decimal) domain.Params {
	field.Set(&p, v)
	return p
}

func resultName(base, param string, v decimal.Decimal) string {
	return fmt.Sprintf("%s_%s_%s", base, param, v.String())
}

func matrixName(base, p1 string, v1 decimal.Decimal, p2 string, v2 decimal.Decimal) string {
	return fmt.Sprintf("%s_%s_%s_%s_%s", base, p1, v1.String(), p2, v2.String())
}

// swingScore is the spread of final assets as a percentage of the base. A zero
// base falls back to the largest magnitude in the sweep.
func swingScore(base decimal.Decimal, finals []decimal.Decimal) decimal.Decimal {
	lo, hi := finals[0], finals[0]
	scale := base.Abs()
	for _, f := range finals {
		lo = decimal.Min(lo, f)
		hi = decimal.Max(hi, f)
		if base.IsZero() {
			scale = decimal.Max(scale, f.Abs())
		}
	}
	if scale.IsZero() {
		return decimal.Zero
	}
	return hi.Sub(lo).Div(scale).Mul(hundred).Round(2)
}

func matrixRecommendations(m *domain.SensitivityMatrix, baseFinal decimal.Decimal) []string {
	var recs []string
	switch m.Summary.RiskLevel {
	case domain.RiskLow:
		recs = append(recs, "Plan is robust to joint changes")
	case domain.RiskMedium:
		recs = append(recs, "Monitor both parameters regularly")
	default:
		recs = append(recs, fmt.Sprintf("Plan is sensitive to %s and %s together", m.Parameter1.Name, m.Parameter2.Name))
		recs = append(recs, "Stress test the worst combination before committing")
	}

	threshold := baseFinal.Abs().Div(decimal.NewFromInt(10))
	if m.Summary.InteractionEffect.Abs().GreaterThan(threshold) {
		recs = append(recs, fmt.Sprintf("%s and %s interact: their combined effect differs from the sum by %s",
			m.Parameter1.Name, m.Parameter2.Name, m.Summary.InteractionEffect.Round(0).String()))
	} else {
		recs = append(recs, fmt.Sprintf("%s and %s act mostly independently", m.Parameter1.Name, m.Parameter2.Name))
	}
	return recs
}
