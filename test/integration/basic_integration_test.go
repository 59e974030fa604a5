package integration

import (
	"bytes"
	"context"
	"testing"

	"github.com/rgehrsitz/hfp/internal/calculation"
	"github.com/rgehrsitz/hfp/internal/compare"
	"github.com/rgehrsitz/hfp/internal/config"
	"github.com/rgehrsitz/hfp/internal/domain"
	"github.com/rgehrsitz/hfp/internal/output"
	"github.com/rgehrsitz/hfp/internal/presets"
	"github.com/rgehrsitz/hfp/internal/spreadsheet"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const householdConfig = "../testdata/household.yaml"

func loadHousehold(t *testing.T) *domain.Configuration {
	t.Helper()
	parser := config.NewInputParser()
	cfg, err := parser.LoadFromFile(householdConfig)
	require.NoError(t, err, "Should load configuration successfully")
	return cfg
}

// TestBasicIntegration tests basic end-to-end functionality
func TestBasicIntegration(t *testing.T) {
	t.Run("configuration_loading", func(t *testing.T) {
		cfg := loadHousehold(t)
		require.NotNil(t, cfg, "Configuration should not be nil")

		assert.Equal(t, 30, cfg.Horizon)
		assert.Len(t, cfg.Scenarios, 3, "Should have scenarios")
		for _, s := range cfg.Scenarios {
			assert.NotEmpty(t, s.Description, "Scenario %s should have a description", s.Name)
		}
	})

	t.Run("calculation_engine", func(t *testing.T) {
		cfg := loadHousehold(t)

		engine := calculation.NewEngine()
		require.NotNil(t, engine, "Calculation engine should not be nil")

		results := engine.RunScenarios(cfg.ScenarioParams(), cfg.Horizon)
		require.Len(t, results, len(cfg.Scenarios), "Should have same number of scenarios")

		for _, s := range cfg.Scenarios {
			records := results[s.Name]
			require.Len(t, records, cfg.Horizon+1, "Scenario %s should cover the horizon", s.Name)
			for i, r := range records {
				assert.Equal(t, s.Params.StartYear+i, r.Year)
				assert.Equal(t, s.Params.CurrentAge+i, r.Age)
			}
		}
	})

	t.Run("retirement_events", func(t *testing.T) {
		cfg := loadHousehold(t)
		results := calculation.NewEngine().RunScenarios(cfg.ScenarioParams(), cfg.Horizon)
		summaries := calculation.SummarizeAll(results)

		byName := map[string]*domain.ScenarioSummary{}
		for _, s := range summaries {
			byName[s.Name] = s
		}

		assert.Equal(t, 2036, byName["early"].RetirementYear)
		assert.Equal(t, 2041, byName["late"].RetirementYear)
		assert.Equal(t, 2051, byName["early"].PensionStartYear)
		assert.Equal(t, calculation.PensionAge, byName["early"].PensionStartAge)
		assert.True(t, byName["frugal"].FinalTotalAssets.GreaterThan(byName["early"].FinalTotalAssets),
			"Frugal spending should end with more assets")
	})

	t.Run("output_generation", func(t *testing.T) {
		cfg := loadHousehold(t)
		results := calculation.NewEngine().RunScenarios(cfg.ScenarioParams(), cfg.Horizon)
		report := output.NewReport(cfg.Horizon, results)

		for _, name := range output.AvailableFormatterNames() {
			t.Run(name, func(t *testing.T) {
				data, err := output.GetFormatterByName(name).Format(report)
				require.NoError(t, err, "Should generate %s output", name)
				assert.NotEmpty(t, data)
				assert.Contains(t, string(data), "frugal")
			})
		}
	})
}

// TestErrorHandling tests error handling scenarios
func TestErrorHandling(t *testing.T) {
	t.Run("invalid_file_path", func(t *testing.T) {
		parser := config.NewInputParser()
		_, err := parser.LoadFromFile("nonexistent_file.yaml")
		assert.Error(t, err, "Should error on nonexistent file")
	})

	t.Run("invalid_parameters", func(t *testing.T) {
		parser := config.NewInputParser()
		_, err := parser.LoadFromFile("../testdata/invalid_salary.yaml")
		require.Error(t, err, "Should reject a negative salary")
		assert.Contains(t, err.Error(), "initial_monthly_salary")
	})

	t.Run("horizon_limit", func(t *testing.T) {
		parser := config.NewInputParser()
		parser.MaxHorizon = 10
		_, err := parser.LoadFromFile(householdConfig)
		assert.Error(t, err, "Should reject a horizon over the limit")
	})

	t.Run("cancelled_run", func(t *testing.T) {
		cfg := loadHousehold(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := calculation.NewEngine().RunScenariosContext(ctx, cfg.ScenarioParams(), cfg.Horizon)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("unknown_preset", func(t *testing.T) {
		manager := presets.NewManager(nil)
		_, err := manager.Resolve(context.Background(), []string{"moderate", "nope"})
		assert.ErrorIs(t, err, presets.ErrPresetNotFound)
	})
}

// TestDataConsistency tests data consistency across operations
func TestDataConsistency(t *testing.T) {
	t.Run("runner_matches_single_projection", func(t *testing.T) {
		cfg := loadHousehold(t)
		engine := calculation.NewEngine()
		results := engine.RunScenarios(cfg.ScenarioParams(), cfg.Horizon)

		for _, s := range cfg.Scenarios {
			assert.Equal(t, engine.ProjectYears(s.Params, cfg.Horizon), results[s.Name],
				"Scenario %s should match a sequential projection", s.Name)
		}
	})

	t.Run("total_assets_identity", func(t *testing.T) {
		cfg := loadHousehold(t)
		results := calculation.NewEngine().RunScenarios(cfg.ScenarioParams(), cfg.Horizon)

		for name, records := range results {
			for _, r := range records {
				want := r.Savings.Add(r.PersonalPensionAccount).Add(r.HousingFundAccount)
				assert.True(t, want.Equal(r.TotalAssets), "%s %d: total assets %s != %s", name, r.Year, r.TotalAssets, want)
			}
		}
	})

	t.Run("config_round_trip", func(t *testing.T) {
		cfg := loadHousehold(t)

		data, err := config.Marshal(cfg)
		require.NoError(t, err)

		again, err := config.NewInputParser().Parse(data)
		require.NoError(t, err)
		assert.Equal(t, cfg.Horizon, again.Horizon)
		require.Len(t, again.Scenarios, len(cfg.Scenarios))
		for i := range cfg.Scenarios {
			assert.Equal(t, cfg.Scenarios[i].Name, again.Scenarios[i].Name)
			for _, f := range domain.ParamFields {
				assert.True(t, f.Get(cfg.Scenarios[i].Params).Equal(f.Get(again.Scenarios[i].Params)),
					"%s: %s changed", cfg.Scenarios[i].Name, f.Key)
			}
		}
	})

	t.Run("spreadsheet_round_trip", func(t *testing.T) {
		cfg := loadHousehold(t)
		params := cfg.Scenarios[1].Params

		var buf bytes.Buffer
		require.NoError(t, spreadsheet.ExportParamsAndPresets(&buf, params, presets.Defaults()))

		result, err := spreadsheet.Import(&buf)
		require.NoError(t, err)
		require.NotNil(t, result.Params)
		assert.Equal(t, params.RetirementAge, result.Params.RetirementAge)
		assert.True(t, params.SalaryGrowthRate.Equal(result.Params.SalaryGrowthRate))
		assert.Len(t, result.Presets, len(presets.Defaults()))
		assert.Empty(t, result.Warnings)
	})
}

// TestCompareIntegration runs templates and file scenarios through the comparison engine.
func TestCompareIntegration(t *testing.T) {
	cfg := loadHousehold(t)
	ce := compare.NewCompareEngine(calculation.NewEngine())

	t.Run("file_scenarios", func(t *testing.T) {
		compSet, err := ce.CompareScenarios(context.Background(), cfg, "early", nil)
		require.NoError(t, err)

		assert.Equal(t, "early", compSet.BaseScenarioName)
		assert.Len(t, compSet.AlternativeResults, 2)
		assert.Equal(t, 30, compSet.Horizon)

		best := compSet.AlternativeResults[0]
		for _, r := range compSet.AlternativeResults[1:] {
			if r.FinalTotalAssets.GreaterThan(best.FinalTotalAssets) {
				best = r
			}
		}
		require.True(t, best.FinalAssetsDiffFromBase.IsPositive(), "frugal should beat the base")
		assert.Contains(t, compSet.Recommendations, "Most Assets: "+best.ScenarioName+" ends with "+
			output.FormatWan(best.FinalAssetsDiffFromBase)+" more than the base scenario")
	})

	t.Run("templates", func(t *testing.T) {
		base, _ := cfg.FindScenario("early")
		compSet, err := ce.Compare(context.Background(), *base, compare.CompareOptions{
			Templates: []string{"retire_plus_3"},
			Horizon:   cfg.Horizon,
		})
		require.NoError(t, err)

		result := findResult(t, compSet, "early_retire_plus_3")
		assert.Equal(t, 48, result.RetirementAge)
		assert.Equal(t, 2039, result.RetirementYear)
		assert.True(t, result.SavingsAtRetirement.GreaterThan(decimal.Zero))
	})
}

func findResult(t *testing.T, compSet *compare.ComparisonSet, name string) compare.ComparisonResult {
	t.Helper()
	for _, r := range compSet.AllResults() {
		if r.ScenarioName == name {
			return r
		}
	}
	t.Fatalf("scenario %s not in comparison", name)
	return compare.ComparisonResult{}
}
