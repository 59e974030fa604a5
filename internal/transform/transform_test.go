package transform

import (
	"errors"
	"testing"

	"github.com/rgehrsitz/hfp/internal/domain"
	"github.com/shopspring/decimal"
)

// Helper function to create a basic parameter set
func createTestParams() domain.Params {
	return domain.Params{
		StartYear:               2025,
		StartWorkYear:           2015,
		CurrentAge:              34,
		RetirementAge:           45,
		InitialMonthlySalary:    decimal.NewFromInt(10000),
		LocalAverageSalary:      decimal.NewFromInt(12307),
		SalaryGrowthRate:        decimal.NewFromInt(4),
		PensionReplacementRatio: decimal.RequireFromString("0.4"),
		ContributionRatio:       decimal.RequireFromString("0.6"),
		LivingExpenseRatio:      decimal.RequireFromString("0.5"),
		InflationRate:           decimal.Zero,
		DepositRate:             decimal.NewFromInt(2),
		InitialSavings:          decimal.NewFromInt(1000000),
		InitialHousingFund:      decimal.NewFromInt(150000),
		HousingFundRate:         decimal.RequireFromString("1.5"),
		InitialPersonalPension:  decimal.Zero,
	}
}

func TestApplyTransforms_EmptyTransforms(t *testing.T) {
	base := createTestParams()

	result, err := ApplyTransforms(base, nil)
	if err != nil {
		t.Fatalf("Expected no error for empty transforms, got: %v", err)
	}

	if result != base {
		t.Error("Expected unchanged parameters")
	}
}

func TestApplyTransforms_NilTransform(t *testing.T) {
	transforms := []ScenarioTransform{
		&PostponeRetirement{Years: 1},
		nil,
	}

	_, err := ApplyTransforms(createTestParams(), transforms)
	if err == nil {
		t.Error("Expected error for nil transform, got nil")
	}
}

func TestApplyTransforms_Chained(t *testing.T) {
	base := createTestParams()
	transforms := []ScenarioTransform{
		&PostponeRetirement{Years: 2},
		&PostponeRetirement{Years: 3},
		&ScaleLivingExpense{Factor: decimal.RequireFromString("0.8")},
	}

	result, err := ApplyTransforms(base, transforms)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if result.RetirementAge != 50 {
		t.Errorf("Expected retirement age 50, got %d", result.RetirementAge)
	}
	if !result.LivingExpenseRatio.Equal(decimal.RequireFromString("0.4")) {
		t.Errorf("Expected living expense ratio 0.4, got %s", result.LivingExpenseRatio)
	}

	// Base must be untouched
	if base.RetirementAge != 45 {
		t.Errorf("Base was modified: retirement age %d", base.RetirementAge)
	}
}

func TestApplyTransforms_ValidationFailure(t *testing.T) {
	_, err := ApplyTransforms(createTestParams(), []ScenarioTransform{&PostponeRetirement{Years: -1}})
	if err == nil {
		t.Fatal("Expected validation error")
	}

	var te *TransformError
	if !errors.As(err, &te) {
		t.Fatalf("Expected TransformError, got %T", err)
	}
	if te.TransformName != "postpone_retirement" || te.Operation != "validate" {
		t.Errorf("Unexpected error details: %+v", te)
	}
}

func TestRetireEarlier(t *testing.T) {
	base := createTestParams()

	result, err := ApplyTransforms(base, []ScenarioTransform{&RetireEarlier{Years: 5}})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.RetirementAge != 40 {
		t.Errorf("Expected retirement age 40, got %d", result.RetirementAge)
	}

	if _, err := ApplyTransforms(base, []ScenarioTransform{&RetireEarlier{Years: 20}}); err == nil {
		t.Error("Expected error when retiring before the current age")
	}
}

func TestSetRetirementAge(t *testing.T) {
	result, err := ApplyTransforms(createTestParams(), []ScenarioTransform{&SetRetirementAge{Age: 60}})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.RetirementAge != 60 {
		t.Errorf("Expected retirement age 60, got %d", result.RetirementAge)
	}

	if err := (&SetRetirementAge{Age: 200}).Validate(createTestParams()); err == nil {
		t.Error("Expected error for absurd age")
	}
}

func TestAssumptionTransforms(t *testing.T) {
	tests := []struct {
		name      string
		transform ScenarioTransform
		check     func(p domain.Params) bool
	}{
		{"inflation", &ModifyInflation{NewRate: decimal.NewFromInt(3)},
			func(p domain.Params) bool { return p.InflationRate.Equal(decimal.NewFromInt(3)) }},
		{"salary growth", &AdjustSalaryGrowth{NewRate: decimal.NewFromInt(1)},
			func(p domain.Params) bool { return p.SalaryGrowthRate.Equal(decimal.NewFromInt(1)) }},
		{"deposit rate", &SetDepositRate{NewRate: decimal.RequireFromString("3.5")},
			func(p domain.Params) bool { return p.DepositRate.Equal(decimal.RequireFromString("3.5")) }},
		{"contribution ratio", &SetContributionRatio{Ratio: decimal.NewFromInt(1)},
			func(p domain.Params) bool { return p.ContributionRatio.Equal(decimal.NewFromInt(1)) }},
		{"add savings", &AddSavings{Amount: decimal.NewFromInt(50000)},
			func(p domain.Params) bool { return p.InitialSavings.Equal(decimal.NewFromInt(1050000)) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ApplyTransforms(createTestParams(), []ScenarioTransform{tt.transform})
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if !tt.check(result) {
				t.Errorf("%s did not apply: %+v", tt.transform.Name(), result)
			}
			if tt.transform.Description() == "" {
				t.Error("Expected a description")
			}
		})
	}
}

func TestAssumptionTransforms_Validation(t *testing.T) {
	base := createTestParams()
	invalid := []ScenarioTransform{
		&ModifyInflation{NewRate: decimal.NewFromInt(80)},
		&AdjustSalaryGrowth{NewRate: decimal.NewFromInt(-60)},
		&ScaleLivingExpense{Factor: decimal.Zero},
		&SetContributionRatio{Ratio: decimal.NewFromInt(-1)},
		&AddSavings{Amount: decimal.NewFromInt(-2000000)},
	}

	for _, tr := range invalid {
		if err := tr.Validate(base); err == nil {
			t.Errorf("Expected %s to reject its parameters", tr.Name())
		}
	}
}

func TestScaleLivingExpense_Description(t *testing.T) {
	less := &ScaleLivingExpense{Factor: decimal.RequireFromString("0.8")}
	if less.Description() != "Spend 20% less" {
		t.Errorf("Unexpected description %q", less.Description())
	}
	more := &ScaleLivingExpense{Factor: decimal.RequireFromString("1.2")}
	if more.Description() != "Spend 20% more" {
		t.Errorf("Unexpected description %q", more.Description())
	}
}

func TestTransformRegistry_ParseTransformSpec(t *testing.T) {
	registry := NewTransformRegistry()

	tr, err := registry.ParseTransformSpec("postpone_retirement:years=2")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	result, err := tr.Apply(createTestParams())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.RetirementAge != 47 {
		t.Errorf("Expected 47, got %d", result.RetirementAge)
	}

	tr, err = registry.ParseTransformSpec("scale_living_expense: factor = 0.9")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if tr.Name() != "scale_living_expense" {
		t.Errorf("Unexpected transform %s", tr.Name())
	}

	badSpecs := []string{
		"postpone_retirement",
		"postpone_retirement:years",
		"postpone_retirement:years=two",
		"postpone_retirement:months=2",
		"unknown:x=1",
		"set_deposit_rate:rate=abc",
	}
	for _, spec := range badSpecs {
		if _, err := registry.ParseTransformSpec(spec); err == nil {
			t.Errorf("Expected error for spec %q", spec)
		}
	}
}

func TestTransformRegistry_List(t *testing.T) {
	names := NewTransformRegistry().List()
	if len(names) != 9 {
		t.Errorf("Expected 9 transforms, got %d", len(names))
	}
	if names[0] != "add_savings" {
		t.Errorf("Expected sorted names, got %v", names)
	}
}
