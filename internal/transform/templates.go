package transform

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rgehrsitz/hfp/internal/domain"
	"github.com/shopspring/decimal"
)

// TemplateRegistry manages built-in scenario templates
type TemplateRegistry struct {
	templates map[string]Template
}

// Template represents a named collection of transforms
type Template struct {
	Name        string
	Description string
	Transforms  []ScenarioTransform
}

// NewTemplateRegistry creates an empty template registry
func NewTemplateRegistry() *TemplateRegistry {
	return &TemplateRegistry{
		templates: make(map[string]Template),
	}
}

// Register adds a template to the registry
func (tr *TemplateRegistry) Register(t Template) {
	tr.templates[strings.ToLower(t.Name)] = t
}

// Get retrieves a template by name (case-insensitive)
func (tr *TemplateRegistry) Get(name string) (Template, bool) {
	t, ok := tr.templates[strings.ToLower(name)]
	return t, ok
}

// List returns all registered template names, sorted
func (tr *TemplateRegistry) List() []string {
	names := make([]string, 0, len(tr.templates))
	for name := range tr.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CreateBuiltInTemplates creates a template registry with common household scenarios
func CreateBuiltInTemplates() *TemplateRegistry {
	registry := NewTemplateRegistry()

	// Retirement timing
	for _, years := range []int{1, 3, 5} {
		registry.Register(Template{
			Name:        fmt.Sprintf("retire_plus_%d", years),
			Description: fmt.Sprintf("Work %d more years before retiring", years),
			Transforms:  []ScenarioTransform{&PostponeRetirement{Years: years}},
		})
	}
	registry.Register(Template{
		Name:        "retire_minus_2",
		Description: "Retire 2 years earlier",
		Transforms:  []ScenarioTransform{&RetireEarlier{Years: 2}},
	})
	registry.Register(Template{
		Name:        "retire_at_60",
		Description: "Retire at the pension age",
		Transforms:  []ScenarioTransform{&SetRetirementAge{Age: 60}},
	})

	// Spending
	registry.Register(Template{
		Name:        "frugal",
		Description: "Spend 20% less every year",
		Transforms:  []ScenarioTransform{&ScaleLivingExpense{Factor: decimal.RequireFromString("0.8")}},
	})
	registry.Register(Template{
		Name:        "lavish",
		Description: "Spend 20% more every year",
		Transforms:  []ScenarioTransform{&ScaleLivingExpense{Factor: decimal.RequireFromString("1.2")}},
	})

	// Economic assumptions
	registry.Register(Template{
		Name:        "high_inflation",
		Description: "Prices rise 3% a year",
		Transforms:  []ScenarioTransform{&ModifyInflation{NewRate: decimal.NewFromInt(3)}},
	})
	registry.Register(Template{
		Name:        "low_growth",
		Description: "Salaries grow 1% a year",
		Transforms:  []ScenarioTransform{&AdjustSalaryGrowth{NewRate: decimal.NewFromInt(1)}},
	})
	registry.Register(Template{
		Name:        "high_yield",
		Description: "Savings earn 3.5% a year",
		Transforms:  []ScenarioTransform{&SetDepositRate{NewRate: decimal.RequireFromString("3.5")}},
	})
	registry.Register(Template{
		Name:        "full_contribution",
		Description: "Contribute on the full salary",
		Transforms:  []ScenarioTransform{&SetContributionRatio{Ratio: decimal.NewFromInt(1)}},
	})

	// Combinations
	registry.Register(Template{
		Name:        "stress_test",
		Description: "Low salary growth with high inflation",
		Transforms: []ScenarioTransform{
			&AdjustSalaryGrowth{NewRate: decimal.NewFromInt(1)},
			&ModifyInflation{NewRate: decimal.NewFromInt(3)},
		},
	})
	registry.Register(Template{
		Name:        "work_longer_spend_less",
		Description: "Work 3 more years and spend 20% less",
		Transforms: []ScenarioTransform{
			&PostponeRetirement{Years: 3},
			&ScaleLivingExpense{Factor: decimal.RequireFromString("0.8")},
		},
	})

	return registry
}

// ApplyTemplate applies a template to a base parameter set
func ApplyTemplate(base domain.Params, template Template) (domain.Params, error) {
	return ApplyTransforms(base, template.Transforms)
}

// ParseTemplateList parses a comma-separated list of template names
func ParseTemplateList(templateList string) []string {
	if templateList == "" {
		return nil
	}

	parts := strings.Split(templateList, ",")
	templates := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			templates = append(templates, trimmed)
		}
	}
	return templates
}

// GetTemplateHelp returns formatted help text for all templates
func GetTemplateHelp(registry *TemplateRegistry) string {
	if len(registry.templates) == 0 {
		return "No templates registered"
	}

	var sb strings.Builder
	sb.WriteString("Available Templates:\n\n")

	categories := map[string][]Template{}
	for _, name := range registry.List() {
		template := registry.templates[name]
		switch {
		case strings.HasPrefix(name, "retire_"):
			categories["Retirement Timing"] = append(categories["Retirement Timing"], template)
		case name == "frugal" || name == "lavish":
			categories["Spending"] = append(categories["Spending"], template)
		case len(template.Transforms) > 1:
			categories["Combination Strategies"] = append(categories["Combination Strategies"], template)
		default:
			categories["Economic Assumptions"] = append(categories["Economic Assumptions"], template)
		}
	}

	for _, category := range []string{"Retirement Timing", "Spending", "Economic Assumptions", "Combination Strategies"} {
		templates := categories[category]
		if len(templates) == 0 {
			continue
		}

		sb.WriteString(fmt.Sprintf("%s:\n", category))
		for _, t := range templates {
			sb.WriteString(fmt.Sprintf("  %-26s %s\n", t.Name, t.Description))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("Usage:\n")
	sb.WriteString("  hfp compare --preset moderate --with retire_plus_3,frugal\n")
	sb.WriteString("  hfp compare scenarios.yaml --base base --with stress_test\n")

	return sb.String()
}
