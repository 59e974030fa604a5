package compare

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/rgehrsitz/hfp/internal/calculation"
	"github.com/rgehrsitz/hfp/internal/domain"
	"github.com/rgehrsitz/hfp/internal/transform"
)

// CompareEngine orchestrates scenario comparison
type CompareEngine struct {
	CalcEngine        *calculation.Engine
	MetricsCalculator *MetricsCalculator
	TemplateRegistry  *transform.TemplateRegistry
}

// NewCompareEngine creates a new comparison engine
func NewCompareEngine(calcEngine *calculation.Engine) *CompareEngine {
	return &CompareEngine{
		CalcEngine:        calcEngine,
		MetricsCalculator: NewMetricsCalculator(),
		TemplateRegistry:  transform.CreateBuiltInTemplates(),
	}
}

// CompareOptions configures comparison behavior
type CompareOptions struct {
	Templates []string                 // template names applied to the base
	Extra     map[string]domain.Params // additional named scenarios, e.g. presets
	Horizon   int                      // engine horizon when zero
	Source    string                   // where the base came from, for display
}

// Compare runs the base scenario against template variants and extra scenarios.
// All scenarios go through the scenario runner in one batch.
func (ce *CompareEngine) Compare(ctx context.Context, base domain.Scenario, options CompareOptions) (*ComparisonSet, error) {
	scenarios := map[string]domain.Params{base.Name: base.Params}
	descriptions := map[string]string{base.Name: base.Description}
	order := []string{}

	for _, templateName := range options.Templates {
		template, ok := ce.TemplateRegistry.Get(templateName)
		if !ok {
			return nil, fmt.Errorf("template %s not found", templateName)
		}

		modified, err := transform.ApplyTemplate(base.Params, template)
		if err != nil {
			return nil, fmt.Errorf("failed to apply template %s: %w", templateName, err)
		}

		name := base.Name + "_" + template.Name
		if err := addScenario(scenarios, name, modified); err != nil {
			return nil, err
		}
		descriptions[name] = template.Description
		order = append(order, name)
	}

	for _, name := range slices.Sorted(maps.Keys(options.Extra)) {
		if err := addScenario(scenarios, name, options.Extra[name]); err != nil {
			return nil, err
		}
		order = append(order, name)
	}

	return ce.run(ctx, base.Name, scenarios, descriptions, order, options)
}

// CompareScenarios compares named scenarios of a configuration against one of them.
// With no alternatives, every other scenario is compared.
func (ce *CompareEngine) CompareScenarios(
	ctx context.Context,
	config *domain.Configuration,
	baseScenarioName string,
	alternativeScenarioNames []string,
) (*ComparisonSet, error) {

	if _, ok := config.FindScenario(baseScenarioName); !ok {
		return nil, fmt.Errorf("base scenario %s not found", baseScenarioName)
	}

	if len(alternativeScenarioNames) == 0 {
		for _, s := range config.Scenarios {
			if s.Name != baseScenarioName {
				alternativeScenarioNames = append(alternativeScenarioNames, s.Name)
			}
		}
	}

	scenarios := map[string]domain.Params{}
	descriptions := map[string]string{}
	for _, name := range append([]string{baseScenarioName}, alternativeScenarioNames...) {
		s, ok := config.FindScenario(name)
		if !ok {
			return nil, fmt.Errorf("alternative scenario %s not found", name)
		}
		scenarios[name] = s.Params
		descriptions[name] = s.Description
	}

	return ce.run(ctx, baseScenarioName, scenarios, descriptions, alternativeScenarioNames,
		CompareOptions{Horizon: config.Horizon})
}

func (ce *CompareEngine) run(
	ctx context.Context,
	baseName string,
	scenarios map[string]domain.Params,
	descriptions map[string]string,
	order []string,
	options CompareOptions,
) (*ComparisonSet, error) {

	horizon := options.Horizon
	if horizon == 0 {
		horizon = ce.CalcEngine.Horizon
	}
	if horizon == 0 {
		horizon = calculation.DefaultHorizon
	}

	results, err := ce.CalcEngine.RunScenariosContext(ctx, scenarios, horizon)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate scenarios: %w", err)
	}

	result := func(name string) ComparisonResult {
		summary := calculation.Summarize(name, results[name])
		r := ce.MetricsCalculator.CalculateMetrics(summary, scenarios[name])
		r.Description = descriptions[name]
		return r
	}

	baseResult := result(baseName)
	alternatives := make([]ComparisonResult, 0, len(order))
	for _, name := range order {
		alternatives = append(alternatives, ce.MetricsCalculator.CalculateComparison(result(name), baseResult))
	}

	compSet := &ComparisonSet{
		BaseScenarioName:   baseName,
		BaseResult:         &baseResult,
		AlternativeResults: alternatives,
		Source:             options.Source,
		Horizon:            horizon,
	}
	compSet.Recommendations = GenerateRecommendations(compSet)

	return compSet, nil
}

func addScenario(scenarios map[string]domain.Params, name string, params domain.Params) error {
	if _, exists := scenarios[name]; exists {
		return fmt.Errorf("duplicate scenario name %q", name)
	}
	scenarios[name] = params
	return nil
}
