package compare

import (
	"fmt"

	"github.com/rgehrsitz/hfp/internal/domain"
	"github.com/rgehrsitz/hfp/pkg/money"
	"github.com/shopspring/decimal"
)

// ComparisonResult represents a single scenario comparison with calculated metrics
type ComparisonResult struct {
	ScenarioName string                  `json:"scenarioName"`
	Description  string                  `json:"description"`
	Summary      *domain.ScenarioSummary `json:"-"`

	// Key Metrics
	RetirementYear          int             `json:"retirementYear"`
	SavingsAtRetirement     decimal.Decimal `json:"savingsAtRetirement"`
	TotalAssetsAtRetirement decimal.Decimal `json:"totalAssetsAtRetirement"`
	PensionStartAge         int             `json:"pensionStartAge"`
	AnnualPensionAtStart    decimal.Decimal `json:"annualPensionAtStart"`
	ExtraContributionYears  int             `json:"extraContributionYears"`
	FinalTotalAssets        decimal.Decimal `json:"finalTotalAssets"`
	PeakTotalAssets         decimal.Decimal `json:"peakTotalAssets"`
	SavingsDepletedAge      *int            `json:"savingsDepletedAge,omitempty"`

	// Comparison to Base
	FinalAssetsDiffFromBase      decimal.Decimal `json:"finalAssetsDiffFromBase"`
	FinalAssetsPctFromBase       decimal.Decimal `json:"finalAssetsPctFromBase"`
	RetirementAssetsDiffFromBase decimal.Decimal `json:"retirementAssetsDiffFromBase"`
	ExtraContributionYearsDiff   int             `json:"extraContributionYearsDiff"`

	// Scenario Specifics (extracted from parameters for display)
	RetirementAge      int    `json:"retirementAge"`
	SalaryGrowthRate   string `json:"salaryGrowthRate,omitempty"`
	LivingExpenseRatio string `json:"livingExpenseRatio,omitempty"`
	DepositRate        string `json:"depositRate,omitempty"`
}

// ComparisonSet represents a collection of scenario comparisons
type ComparisonSet struct {
	BaseScenarioName   string             `json:"baseScenarioName"`
	BaseResult         *ComparisonResult  `json:"baseResult"`
	AlternativeResults []ComparisonResult `json:"alternativeResults"`
	Recommendations    []string           `json:"recommendations"`
	Source             string             `json:"source"`
	Horizon            int                `json:"horizon"`
}

// AllResults returns the base followed by the alternatives.
func (cs *ComparisonSet) AllResults() []ComparisonResult {
	out := make([]ComparisonResult, 0, len(cs.AlternativeResults)+1)
	if cs.BaseResult != nil {
		out = append(out, *cs.BaseResult)
	}
	return append(out, cs.AlternativeResults...)
}

// MetricsCalculator extracts key metrics from scenario summaries
type MetricsCalculator struct{}

// NewMetricsCalculator creates a new metrics calculator
func NewMetricsCalculator() *MetricsCalculator {
	return &MetricsCalculator{}
}

// CalculateMetrics computes all comparison metrics for a scenario summary
func (mc *MetricsCalculator) CalculateMetrics(summary *domain.ScenarioSummary, params domain.Params) ComparisonResult {
	return ComparisonResult{
		ScenarioName:            summary.Name,
		Summary:                 summary,
		RetirementYear:          summary.RetirementYear,
		SavingsAtRetirement:     summary.SavingsAtRetirement,
		TotalAssetsAtRetirement: summary.TotalAssetsAtRetirement,
		PensionStartAge:         summary.PensionStartAge,
		AnnualPensionAtStart:    summary.AnnualPensionAtStart,
		ExtraContributionYears:  summary.ExtraContributionYears,
		FinalTotalAssets:        summary.FinalTotalAssets,
		PeakTotalAssets:         summary.PeakTotalAssets,
		SavingsDepletedAge:      summary.SavingsDepletedAge,
		RetirementAge:           params.RetirementAge,
		SalaryGrowthRate:        money.Percent(params.SalaryGrowthRate, 1),
		LivingExpenseRatio:      params.LivingExpenseRatio.StringFixed(2),
		DepositRate:             money.Percent(params.DepositRate, 1),
	}
}

// CalculateComparison computes comparison metrics between a scenario and a base
func (mc *MetricsCalculator) CalculateComparison(scenario, base ComparisonResult) ComparisonResult {
	scenario.FinalAssetsDiffFromBase = scenario.FinalTotalAssets.Sub(base.FinalTotalAssets)

	if !base.FinalTotalAssets.IsZero() {
		scenario.FinalAssetsPctFromBase = scenario.FinalAssetsDiffFromBase.
			Div(base.FinalTotalAssets.Abs()).
			Mul(decimal.NewFromInt(100))
	}

	scenario.RetirementAssetsDiffFromBase = scenario.TotalAssetsAtRetirement.Sub(base.TotalAssetsAtRetirement)
	scenario.ExtraContributionYearsDiff = scenario.ExtraContributionYears - base.ExtraContributionYears

	return scenario
}

// GenerateRecommendations creates recommendations based on comparison results
func GenerateRecommendations(compSet *ComparisonSet) []string {
	recommendations := []string{}

	if compSet.BaseResult == nil {
		return recommendations
	}

	for _, r := range compSet.AllResults() {
		if r.SavingsDepletedAge != nil {
			recommendations = append(recommendations,
				fmt.Sprintf("Savings Warning: %s runs out of savings at age %d", r.ScenarioName, *r.SavingsDepletedAge))
		}
	}

	if len(compSet.AlternativeResults) == 0 {
		return recommendations
	}

	// Find best final assets
	best := compSet.BaseResult
	for i := range compSet.AlternativeResults {
		alt := &compSet.AlternativeResults[i]
		if alt.FinalTotalAssets.GreaterThan(best.FinalTotalAssets) {
			best = alt
		}
	}
	if best != compSet.BaseResult {
		diff := best.FinalTotalAssets.Sub(compSet.BaseResult.FinalTotalAssets)
		recommendations = append(recommendations,
			"Most Assets: "+best.ScenarioName+" ends with "+money.FormatWan(diff)+" more than the base scenario")
	}

	// Find highest assets at retirement
	bestAtRetirement := compSet.BaseResult
	for i := range compSet.AlternativeResults {
		alt := &compSet.AlternativeResults[i]
		if alt.TotalAssetsAtRetirement.GreaterThan(bestAtRetirement.TotalAssetsAtRetirement) {
			bestAtRetirement = alt
		}
	}
	if bestAtRetirement != compSet.BaseResult {
		recommendations = append(recommendations,
			"Strongest Start: "+bestAtRetirement.ScenarioName+" retires with "+
				money.FormatWan(bestAtRetirement.TotalAssetsAtRetirement))
	}

	// Fewest contribution years paid out of savings after retiring
	fewest := compSet.BaseResult
	for i := range compSet.AlternativeResults {
		alt := &compSet.AlternativeResults[i]
		if alt.ExtraContributionYears < fewest.ExtraContributionYears {
			fewest = alt
		}
	}
	if fewest != compSet.BaseResult {
		recommendations = append(recommendations,
			fmt.Sprintf("Fewest Extra Contributions: %s pays %d fewer years after retiring",
				fewest.ScenarioName, compSet.BaseResult.ExtraContributionYears-fewest.ExtraContributionYears))
	}

	return recommendations
}
