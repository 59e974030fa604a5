package compare

import (
	"context"
	"strings"
	"testing"

	"github.com/rgehrsitz/hfp/internal/calculation"
	"github.com/rgehrsitz/hfp/internal/domain"
	"github.com/rgehrsitz/hfp/internal/presets"
)

func presetParams(t *testing.T, name string) domain.Params {
	t.Helper()
	for _, p := range presets.Defaults() {
		if p.Name == name {
			return p.Params
		}
	}
	t.Fatalf("preset %s missing", name)
	return domain.Params{}
}

func TestCompareEngine_Compare(t *testing.T) {
	ce := NewCompareEngine(calculation.NewEngine())

	base := domain.Scenario{Name: "moderate", Params: presetParams(t, presets.Moderate)}
	compSet, err := ce.Compare(context.Background(), base, CompareOptions{
		Templates: []string{"retire_plus_3", "frugal"},
		Extra: map[string]domain.Params{
			presets.Optimistic:   presetParams(t, presets.Optimistic),
			presets.Conservative: presetParams(t, presets.Conservative),
		},
		Horizon: 30,
		Source:  "preset moderate",
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if compSet.Horizon != 30 || compSet.Source != "preset moderate" {
		t.Errorf("Unexpected horizon/source: %d %s", compSet.Horizon, compSet.Source)
	}
	if compSet.BaseResult.ScenarioName != "moderate" {
		t.Errorf("Unexpected base: %s", compSet.BaseResult.ScenarioName)
	}
	if len(compSet.BaseResult.Summary.Projection) != 31 {
		t.Errorf("Expected 31 projected years, got %d", len(compSet.BaseResult.Summary.Projection))
	}

	var names []string
	for _, alt := range compSet.AlternativeResults {
		names = append(names, alt.ScenarioName)
	}
	want := []string{"moderate_retire_plus_3", "moderate_frugal", "conservative", "optimistic"}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Fatalf("Expected alternatives %v, got %v", want, names)
	}

	postponed := compSet.AlternativeResults[0]
	if postponed.RetirementAge != 48 || postponed.RetirementYear != 2039 {
		t.Errorf("Expected retirement at 48 in 2039, got %d in %d", postponed.RetirementAge, postponed.RetirementYear)
	}
	if postponed.Description == "" {
		t.Error("Expected template description on alternative")
	}

	optimistic := compSet.AlternativeResults[3]
	conservative := compSet.AlternativeResults[2]
	if !optimistic.FinalAssetsDiffFromBase.IsPositive() {
		t.Errorf("Expected optimistic to beat base, diff %s", optimistic.FinalAssetsDiffFromBase)
	}
	if !conservative.FinalAssetsDiffFromBase.IsNegative() {
		t.Errorf("Expected conservative to trail base, diff %s", conservative.FinalAssetsDiffFromBase)
	}
	if len(compSet.Recommendations) == 0 {
		t.Error("Expected recommendations")
	}
}

func TestCompareEngine_Compare_Errors(t *testing.T) {
	ce := NewCompareEngine(calculation.NewEngine())
	base := domain.Scenario{Name: "moderate", Params: presetParams(t, presets.Moderate)}

	if _, err := ce.Compare(context.Background(), base, CompareOptions{Templates: []string{"nope"}}); err == nil {
		t.Error("Expected error for unknown template")
	}

	_, err := ce.Compare(context.Background(), base, CompareOptions{
		Extra: map[string]domain.Params{"moderate": base.Params},
	})
	if err == nil || !strings.Contains(err.Error(), "duplicate scenario name") {
		t.Errorf("Expected duplicate name error, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := ce.Compare(ctx, base, CompareOptions{Templates: []string{"frugal"}}); err == nil {
		t.Error("Expected error for cancelled context")
	}
}

func TestCompareEngine_CompareScenarios(t *testing.T) {
	ce := NewCompareEngine(calculation.NewEngine())
	config := &domain.Configuration{
		Horizon: 30,
		Scenarios: []domain.Scenario{
			{Name: "moderate", Description: "middle", Params: presetParams(t, presets.Moderate)},
			{Name: "optimistic", Params: presetParams(t, presets.Optimistic)},
			{Name: "conservative", Params: presetParams(t, presets.Conservative)},
		},
	}

	compSet, err := ce.CompareScenarios(context.Background(), config, "moderate", nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if compSet.BaseResult.Description != "middle" {
		t.Errorf("Expected base description, got %q", compSet.BaseResult.Description)
	}
	if len(compSet.AlternativeResults) != 2 || compSet.AlternativeResults[0].ScenarioName != "optimistic" {
		t.Errorf("Expected alternatives in file order, got %+v", compSet.AlternativeResults)
	}
	if !strings.Contains(strings.Join(compSet.Recommendations, "\n"), "Most Assets: optimistic") {
		t.Errorf("Expected optimistic to be recommended, got %v", compSet.Recommendations)
	}

	if _, err := ce.CompareScenarios(context.Background(), config, "missing", nil); err == nil {
		t.Error("Expected error for unknown base")
	}
	if _, err := ce.CompareScenarios(context.Background(), config, "moderate", []string{"missing"}); err == nil {
		t.Error("Expected error for unknown alternative")
	}
}
