package domain

import (
	"fmt"
	"maps"
	"slices"

	"github.com/shopspring/decimal"
)

// Analysis types
const (
	AnalysisSingle = "single"
	AnalysisMulti  = "multi"
	AnalysisMatrix = "matrix"
)

// Risk levels, by the widest swing in final total assets
const (
	RiskLow      = "LOW"
	RiskMedium   = "MEDIUM"
	RiskHigh     = "HIGH"
	RiskCritical = "CRITICAL"
)

// SensitivityParameter represents a parameter to sweep in sensitivity analysis.
// Name is a ParamFields key; BaseValue is taken from the base scenario.
type SensitivityParameter struct {
	Name        string          `yaml:"name" json:"name"`
	MinValue    decimal.Decimal `yaml:"min_value" json:"minValue"`
	MaxValue    decimal.Decimal `yaml:"max_value" json:"maxValue"`
	Steps       int             `yaml:"steps" json:"steps"`
	BaseValue   decimal.Decimal `yaml:"base_value" json:"baseValue"`
	Unit        string          `yaml:"unit" json:"unit"` // "percent", "ratio", "years", "amount"
	Description string          `yaml:"description" json:"description"`
}

// Validate checks the sweep range against the parameter field.
func (p SensitivityParameter) Validate() error {
	if _, ok := LookupParamField(p.Name); !ok {
		return fmt.Errorf("unknown sensitivity parameter %q", p.Name)
	}
	if p.Steps < 1 {
		return fmt.Errorf("%s: steps must be at least 1, got %d", p.Name, p.Steps)
	}
	if p.MinValue.GreaterThan(p.MaxValue) {
		return fmt.Errorf("%s: min %s is greater than max %s", p.Name, p.MinValue, p.MaxValue)
	}
	return nil
}

// ParameterSensitivityAnalysis represents a complete parameter sensitivity analysis
type ParameterSensitivityAnalysis struct {
	BaseScenarioName string                 `json:"baseScenarioName"`
	Horizon          int                    `json:"horizon"`
	BaseMetrics      SensitivityMetrics     `json:"baseMetrics"`
	Parameters       []SensitivityParameter `json:"parameters"`
	Results          []SensitivityResult    `json:"results"`
	Summary          SensitivitySummary     `json:"summary"`
	AnalysisType     string                 `json:"analysisType"` // "single", "multi"
}

// SensitivityResult is one point of a parameter sweep.
type SensitivityResult struct {
	ParameterValues map[string]decimal.Decimal `json:"parameterValues"`
	ScenarioName    string                     `json:"scenarioName"`
	KeyMetrics      SensitivityMetrics         `json:"keyMetrics"`
}

// SensitivityMetrics represents key metrics for sensitivity analysis
type SensitivityMetrics struct {
	RetirementYear       int             `json:"retirementYear"`
	SavingsAtRetirement  decimal.Decimal `json:"savingsAtRetirement"`
	FinalTotalAssets     decimal.Decimal `json:"finalTotalAssets"`
	PeakTotalAssets      decimal.Decimal `json:"peakTotalAssets"`
	SavingsDepletedAge   *int            `json:"savingsDepletedAge,omitempty"`
	FinalAssetsChange    decimal.Decimal `json:"finalAssetsChange"`
	FinalAssetsChangePct decimal.Decimal `json:"finalAssetsChangePct"`
}

// MetricsFromSummary extracts the sensitivity metrics of a scenario summary.
func MetricsFromSummary(s *ScenarioSummary) SensitivityMetrics {
	return SensitivityMetrics{
		RetirementYear:      s.RetirementYear,
		SavingsAtRetirement: s.SavingsAtRetirement,
		FinalTotalAssets:    s.FinalTotalAssets,
		PeakTotalAssets:     s.PeakTotalAssets,
		SavingsDepletedAge:  s.SavingsDepletedAge,
	}
}

// CompareTo fills the change fields relative to the base metrics. The
// percentage is relative to the magnitude of the base final assets and stays
// zero when the base is zero.
func (sm *SensitivityMetrics) CompareTo(base SensitivityMetrics) {
	sm.FinalAssetsChange = sm.FinalTotalAssets.Sub(base.FinalTotalAssets)
	sm.FinalAssetsChangePct = decimal.Zero
	if !base.FinalTotalAssets.IsZero() {
		sm.FinalAssetsChangePct = sm.FinalAssetsChange.Div(base.FinalTotalAssets.Abs()).Mul(decimal.NewFromInt(100)).Round(2)
	}
}

// SensitivitySummary provides overall analysis summary
type SensitivitySummary struct {
	MostSensitiveParameter string                     `json:"mostSensitiveParameter"`
	SensitivityScores      map[string]decimal.Decimal `json:"sensitivityScores"` // swing of final assets, percent of base
	DepletedCases          map[string]int             `json:"depletedCases,omitempty"`
	Recommendations        []string                   `json:"recommendations"`
	RiskLevel              string                     `json:"riskLevel"` // "LOW", "MEDIUM", "HIGH", "CRITICAL"
}

// SensitivityMatrix represents a 2D parameter sweep
type SensitivityMatrix struct {
	BaseScenarioName string                   `json:"baseScenarioName"`
	Horizon          int                      `json:"horizon"`
	BaseMetrics      SensitivityMetrics       `json:"baseMetrics"`
	Parameter1       SensitivityParameter     `json:"parameter1"`
	Parameter2       SensitivityParameter     `json:"parameter2"`
	MatrixResults    [][]SensitivityResult    `json:"matrixResults"`
	Summary          SensitivityMatrixSummary `json:"summary"`
}

// SensitivityMatrixSummary provides matrix analysis summary
type SensitivityMatrixSummary struct {
	MostSensitiveCombination string          `json:"mostSensitiveCombination"`
	InteractionEffect        decimal.Decimal `json:"interactionEffect"` // largest joint change beyond the two single changes
	Recommendations          []string        `json:"recommendations"`
	RiskLevel                string          `json:"riskLevel"`
}

// Common sensitivity parameters
var (
	SalaryGrowthParam = SensitivityParameter{
		Name:        "salary_growth_rate",
		MinValue:    decimal.NewFromInt(2),
		MaxValue:    decimal.NewFromInt(6),
		Steps:       5,
		Unit:        "percent",
		Description: "Annual salary and average-salary growth",
	}

	DepositRateParam = SensitivityParameter{
		Name:        "deposit_rate",
		MinValue:    decimal.NewFromInt(1),
		MaxValue:    decimal.NewFromInt(4),
		Steps:       7,
		Unit:        "percent",
		Description: "Annual interest on savings",
	}

	LivingExpenseParam = SensitivityParameter{
		Name:        "living_expense_ratio",
		MinValue:    decimal.RequireFromString("0.3"),
		MaxValue:    decimal.RequireFromString("0.7"),
		Steps:       5,
		Unit:        "ratio",
		Description: "Living expense as a fraction of the average salary",
	}

	InflationRateParam = SensitivityParameter{
		Name:        "inflation_rate",
		MinValue:    decimal.Zero,
		MaxValue:    decimal.NewFromInt(3),
		Steps:       4,
		Unit:        "percent",
		Description: "Price inflation applied to living expenses",
	}

	RetirementAgeParam = SensitivityParameter{
		Name:        "retirement_age",
		MinValue:    decimal.NewFromInt(40),
		MaxValue:    decimal.NewFromInt(60),
		Steps:       5,
		Unit:        "years",
		Description: "Age at which salary stops",
	}
)

// GetCommonParameters returns a list of common sensitivity parameters
func GetCommonParameters() []SensitivityParameter {
	return []SensitivityParameter{
		SalaryGrowthParam,
		DepositRateParam,
		LivingExpenseParam,
		InflationRateParam,
		RetirementAgeParam,
	}
}

// GetCriticalParameters returns the parameters a household controls most directly.
func GetCriticalParameters() []SensitivityParameter {
	return []SensitivityParameter{
		LivingExpenseParam,
		RetirementAgeParam,
		DepositRateParam,
	}
}

// FindCommonParameter looks up a predefined parameter by name.
func FindCommonParameter(name string) (SensitivityParameter, bool) {
	for _, p := range GetCommonParameters() {
		if p.Name == name {
			return p, true
		}
	}
	return SensitivityParameter{}, false
}

// RiskLevelForScore maps a final-assets swing (percent of base) to a risk level.
func RiskLevelForScore(score decimal.Decimal) string {
	switch {
	case score.LessThan(decimal.NewFromInt(25)):
		return RiskLow
	case score.LessThan(decimal.NewFromInt(50)):
		return RiskMedium
	case score.LessThan(decimal.NewFromInt(100)):
		return RiskHigh
	default:
		return RiskCritical
	}
}

// DetermineRiskLevel determines the risk level based on sensitivity scores
func (ss *SensitivitySummary) DetermineRiskLevel() string {
	maxScore := decimal.Zero
	for _, score := range ss.SensitivityScores {
		if score.GreaterThan(maxScore) {
			maxScore = score
		}
	}
	return RiskLevelForScore(maxScore)
}

// GenerateRecommendations generates recommendations based on sensitivity analysis
func (ss *SensitivitySummary) GenerateRecommendations() []string {
	var recommendations []string

	switch ss.DetermineRiskLevel() {
	case RiskLow:
		recommendations = append(recommendations, "Plan is robust to parameter changes")
	case RiskMedium:
		recommendations = append(recommendations, "Monitor key parameters regularly")
	case RiskHigh:
		recommendations = append(recommendations, "Plan is sensitive to parameter changes")
		recommendations = append(recommendations, "Review assumptions annually")
	case RiskCritical:
		recommendations = append(recommendations, "Plan is highly sensitive to parameter changes")
		recommendations = append(recommendations, "Consider more conservative assumptions")
	}

	switch ss.MostSensitiveParameter {
	case "salary_growth_rate":
		recommendations = append(recommendations, "Do not count on fast salary growth")
	case "deposit_rate":
		recommendations = append(recommendations, "Consider locking in longer-term deposit rates")
	case "living_expense_ratio":
		recommendations = append(recommendations, "Spending is the main lever: keep a budget buffer")
	case "inflation_rate":
		recommendations = append(recommendations, "Consider inflation-protected savings")
	case "retirement_age":
		recommendations = append(recommendations, "Keep the option of working a few more years")
	}

	for _, name := range slices.Sorted(maps.Keys(ss.DepletedCases)) {
		if n := ss.DepletedCases[name]; n > 0 {
			recommendations = append(recommendations, fmt.Sprintf("Savings run out in %d %s cases", n, name))
		}
	}

	return recommendations
}
