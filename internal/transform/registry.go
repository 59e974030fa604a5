package transform

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// TransformRegistry provides a central registry for all available transforms.
// It enables creation of transforms from string parameters, useful for CLI commands.
type TransformRegistry struct {
	factories map[string]TransformFactory
}

// TransformFactory is a function that creates a transform from parameters.
type TransformFactory func(params map[string]string) (ScenarioTransform, error)

// NewTransformRegistry creates a new registry with all built-in transforms registered.
func NewTransformRegistry() *TransformRegistry {
	registry := &TransformRegistry{
		factories: make(map[string]TransformFactory),
	}

	registry.Register("postpone_retirement", func(p map[string]string) (ScenarioTransform, error) {
		years, err := intParam(p, "postpone_retirement", "years")
		return &PostponeRetirement{Years: years}, err
	})
	registry.Register("retire_earlier", func(p map[string]string) (ScenarioTransform, error) {
		years, err := intParam(p, "retire_earlier", "years")
		return &RetireEarlier{Years: years}, err
	})
	registry.Register("set_retirement_age", func(p map[string]string) (ScenarioTransform, error) {
		age, err := intParam(p, "set_retirement_age", "age")
		return &SetRetirementAge{Age: age}, err
	})
	registry.Register("modify_inflation", func(p map[string]string) (ScenarioTransform, error) {
		rate, err := decimalParam(p, "modify_inflation", "rate")
		return &ModifyInflation{NewRate: rate}, err
	})
	registry.Register("adjust_salary_growth", func(p map[string]string) (ScenarioTransform, error) {
		rate, err := decimalParam(p, "adjust_salary_growth", "rate")
		return &AdjustSalaryGrowth{NewRate: rate}, err
	})
	registry.Register("set_deposit_rate", func(p map[string]string) (ScenarioTransform, error) {
		rate, err := decimalParam(p, "set_deposit_rate", "rate")
		return &SetDepositRate{NewRate: rate}, err
	})
	registry.Register("scale_living_expense", func(p map[string]string) (ScenarioTransform, error) {
		factor, err := decimalParam(p, "scale_living_expense", "factor")
		return &ScaleLivingExpense{Factor: factor}, err
	})
	registry.Register("set_contribution_ratio", func(p map[string]string) (ScenarioTransform, error) {
		ratio, err := decimalParam(p, "set_contribution_ratio", "ratio")
		return &SetContributionRatio{Ratio: ratio}, err
	})
	registry.Register("add_savings", func(p map[string]string) (ScenarioTransform, error) {
		amount, err := decimalParam(p, "add_savings", "amount")
		return &AddSavings{Amount: amount}, err
	})

	return registry
}

// Register adds a transform factory to the registry.
func (r *TransformRegistry) Register(name string, factory TransformFactory) {
	r.factories[name] = factory
}

// Create creates a transform by name with the given parameters.
func (r *TransformRegistry) Create(name string, params map[string]string) (ScenarioTransform, error) {
	factory, exists := r.factories[name]
	if !exists {
		return nil, fmt.Errorf("unknown transform: %s", name)
	}

	t, err := factory(params)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// List returns the names of all registered transforms, sorted.
func (r *TransformRegistry) List() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseTransformSpec parses a transform specification string.
// Format: "transform_name:param1=value1,param2=value2"
// Example: "postpone_retirement:years=2"
func (r *TransformRegistry) ParseTransformSpec(spec string) (ScenarioTransform, error) {
	parts := strings.SplitN(spec, ":", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid transform spec format, expected 'name:params', got: %s", spec)
	}

	name := strings.TrimSpace(parts[0])
	paramsStr := strings.TrimSpace(parts[1])

	params := make(map[string]string)
	if paramsStr != "" {
		for _, paramPair := range strings.Split(paramsStr, ",") {
			kv := strings.SplitN(paramPair, "=", 2)
			if len(kv) != 2 {
				return nil, fmt.Errorf("invalid parameter format, expected 'key=value', got: %s", paramPair)
			}
			params[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
		}
	}

	return r.Create(name, params)
}

func intParam(params map[string]string, transform, key string) (int, error) {
	raw, ok := params[key]
	if !ok {
		return 0, fmt.Errorf("%s requires '%s' parameter", transform, key)
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return v, nil
}

func decimalParam(params map[string]string, transform, key string) (decimal.Decimal, error) {
	raw, ok := params[key]
	if !ok {
		return decimal.Zero, fmt.Errorf("%s requires '%s' parameter", transform, key)
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return v, nil
}
