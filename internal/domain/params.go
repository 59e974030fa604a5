package domain

import (
	"github.com/shopspring/decimal"
)

// Params holds every input of a household projection. Rates are expressed in
// percent per year, ratios as plain fractions.
type Params struct {
	StartYear     int `yaml:"start_year" json:"start_year"`
	StartWorkYear int `yaml:"start_work_year" json:"start_work_year"`
	CurrentAge    int `yaml:"current_age" json:"current_age"`
	RetirementAge int `yaml:"retirement_age" json:"retirement_age"`

	InitialMonthlySalary decimal.Decimal `yaml:"initial_monthly_salary" json:"initial_monthly_salary"`
	LocalAverageSalary   decimal.Decimal `yaml:"local_average_salary" json:"local_average_salary"`
	SalaryGrowthRate     decimal.Decimal `yaml:"salary_growth_rate" json:"salary_growth_rate"` // percent

	PensionReplacementRatio decimal.Decimal `yaml:"pension_replacement_ratio" json:"pension_replacement_ratio"`
	ContributionRatio       decimal.Decimal `yaml:"contribution_ratio" json:"contribution_ratio"`
	LivingExpenseRatio      decimal.Decimal `yaml:"living_expense_ratio" json:"living_expense_ratio"`

	InflationRate decimal.Decimal `yaml:"inflation_rate" json:"inflation_rate"` // percent
	DepositRate   decimal.Decimal `yaml:"deposit_rate" json:"deposit_rate"`     // percent

	InitialSavings         decimal.Decimal `yaml:"initial_savings" json:"initial_savings"`
	InitialHousingFund     decimal.Decimal `yaml:"initial_housing_fund" json:"initial_housing_fund"`
	HousingFundRate        decimal.Decimal `yaml:"housing_fund_rate" json:"housing_fund_rate"` // percent
	InitialPersonalPension decimal.Decimal `yaml:"initial_personal_pension" json:"initial_personal_pension"`
}

// InitialContributionYears is the number of years already contributed when the
// projection starts. It seeds both the pension and the medical counters.
func (p Params) InitialContributionYears() int {
	if years := p.StartYear - p.StartWorkYear; years > 0 {
		return years
	}
	return 0
}

// FieldKind distinguishes integer fields from decimal ones.
type FieldKind int

const (
	IntField FieldKind = iota
	DecimalField
)

// ParamField describes one Params field for parsers, spreadsheets and editors.
type ParamField struct {
	Key         string
	Label       string
	Description string
	Kind        FieldKind
	Get         func(Params) decimal.Decimal
	Set         func(*Params, decimal.Decimal)
}

// ParamFields lists the Params fields in display order.
var ParamFields = []ParamField{
	intField("start_year", "Start Year", "first calendar year of the projection",
		func(p Params) int { return p.StartYear }, func(p *Params, v int) { p.StartYear = v }),
	intField("start_work_year", "Start Work Year", "calendar year contributions began",
		func(p Params) int { return p.StartWorkYear }, func(p *Params, v int) { p.StartWorkYear = v }),
	intField("current_age", "Current Age", "age in the start year",
		func(p Params) int { return p.CurrentAge }, func(p *Params, v int) { p.CurrentAge = v }),
	intField("retirement_age", "Retirement Age", "age at which employment income stops",
		func(p Params) int { return p.RetirementAge }, func(p *Params, v int) { p.RetirementAge = v }),
	decField("initial_monthly_salary", "Monthly Salary", "monthly salary in the start year",
		func(p Params) decimal.Decimal { return p.InitialMonthlySalary }, func(p *Params, v decimal.Decimal) { p.InitialMonthlySalary = v }),
	decField("local_average_salary", "Local Average Salary", "regional average monthly salary",
		func(p Params) decimal.Decimal { return p.LocalAverageSalary }, func(p *Params, v decimal.Decimal) { p.LocalAverageSalary = v }),
	decField("salary_growth_rate", "Salary Growth (%)", "annual growth of salary and average salary, percent",
		func(p Params) decimal.Decimal { return p.SalaryGrowthRate }, func(p *Params, v decimal.Decimal) { p.SalaryGrowthRate = v }),
	decField("pension_replacement_ratio", "Replacement Ratio", "pension as a fraction of the average salary",
		func(p Params) decimal.Decimal { return p.PensionReplacementRatio }, func(p *Params, v decimal.Decimal) { p.PensionReplacementRatio = v }),
	decField("contribution_ratio", "Contribution Ratio", "contribution base as a fraction of salary",
		func(p Params) decimal.Decimal { return p.ContributionRatio }, func(p *Params, v decimal.Decimal) { p.ContributionRatio = v }),
	decField("living_expense_ratio", "Living Expense Ratio", "living expense as a fraction of the average salary",
		func(p Params) decimal.Decimal { return p.LivingExpenseRatio }, func(p *Params, v decimal.Decimal) { p.LivingExpenseRatio = v }),
	decField("inflation_rate", "Inflation (%)", "annual price inflation, percent",
		func(p Params) decimal.Decimal { return p.InflationRate }, func(p *Params, v decimal.Decimal) { p.InflationRate = v }),
	decField("deposit_rate", "Deposit Rate (%)", "annual interest on savings, percent",
		func(p Params) decimal.Decimal { return p.DepositRate }, func(p *Params, v decimal.Decimal) { p.DepositRate = v }),
	decField("initial_savings", "Initial Savings", "savings balance at the start",
		func(p Params) decimal.Decimal { return p.InitialSavings }, func(p *Params, v decimal.Decimal) { p.InitialSavings = v }),
	decField("initial_housing_fund", "Initial Housing Fund", "housing fund balance at the start",
		func(p Params) decimal.Decimal { return p.InitialHousingFund }, func(p *Params, v decimal.Decimal) { p.InitialHousingFund = v }),
	decField("housing_fund_rate", "Housing Fund Rate (%)", "annual housing fund interest while working, percent",
		func(p Params) decimal.Decimal { return p.HousingFundRate }, func(p *Params, v decimal.Decimal) { p.HousingFundRate = v }),
	decField("initial_personal_pension", "Initial Personal Pension", "personal pension account balance at the start",
		func(p Params) decimal.Decimal { return p.InitialPersonalPension }, func(p *Params, v decimal.Decimal) { p.InitialPersonalPension = v }),
}

// LookupParamField finds a field descriptor by key.
func LookupParamField(key string) (ParamField, bool) {
	for _, f := range ParamFields {
		if f.Key == key {
			return f, true
		}
	}
	return ParamField{}, false
}

func intField(key, label, desc string, get func(Params) int, set func(*Params, int)) ParamField {
	return ParamField{
		Key:         key,
		Label:       label,
		Description: desc,
		Kind:        IntField,
		Get:         func(p Params) decimal.Decimal { return decimal.NewFromInt(int64(get(p))) },
		Set:         func(p *Params, v decimal.Decimal) { set(p, int(v.IntPart())) },
	}
}

func decField(key, label, desc string, get func(Params) decimal.Decimal, set func(*Params, decimal.Decimal)) ParamField {
	return ParamField{Key: key, Label: label, Description: desc, Kind: DecimalField, Get: get, Set: set}
}
