package domain

import (
	"github.com/shopspring/decimal"
)

// YearlyRecord is the household state emitted for one simulated year.
// Currency amounts are rounded to two decimal places.
type YearlyRecord struct {
	Year int `json:"year"`
	Age  int `json:"age"`

	AverageSalary    decimal.Decimal `json:"averageSalary"`
	MonthlySalary    decimal.Decimal `json:"monthlySalary"` // zero once retired
	ContributionBase decimal.Decimal `json:"contributionBase"`

	PensionContribution    decimal.Decimal `json:"pensionContribution"` // annual, pension and medical combined
	PersonalPensionAccount decimal.Decimal `json:"personalPensionAccount"`
	HousingFundAccount     decimal.Decimal `json:"housingFundAccount"`

	PensionYears int `json:"pensionYears"`
	MedicalYears int `json:"medicalYears"`

	// PayingContributions is set for every year the contribution counters
	// advance, including a zero amount from a zero contribution ratio.
	PayingContributions bool `json:"payingContributions"`

	CanReceivePension     bool            `json:"canReceivePension"`
	AnnualPensionReceived decimal.Decimal `json:"annualPensionReceived"`
	LivingExpense         decimal.Decimal `json:"livingExpense"` // annual
	Savings               decimal.Decimal `json:"savings"`
	TotalAssets           decimal.Decimal `json:"totalAssets"`

	IsRetired          bool `json:"isRetired"`
	IsRetirementYear   bool `json:"isRetirementYear"`
	IsPensionStartYear bool `json:"isPensionStartYear"`
}

// KeyEventType identifies a milestone in a projection.
type KeyEventType string

const (
	EventRetirement   KeyEventType = "retirement"
	EventPensionStart KeyEventType = "pension_start"
)

// KeyEvent marks a milestone year together with the balances at that point.
type KeyEvent struct {
	Type        KeyEventType    `json:"type"`
	Year        int             `json:"year"`
	Age         int             `json:"age"`
	Description string          `json:"description"`
	Savings     decimal.Decimal `json:"savings"`
	TotalAssets decimal.Decimal `json:"totalAssets"`
}

// ScenarioSummary condenses a projection into its headline figures.
type ScenarioSummary struct {
	Name string `json:"name"`

	RetirementYear          int             `json:"retirementYear,omitempty"`
	RetirementAge           int             `json:"retirementAge,omitempty"`
	SavingsAtRetirement     decimal.Decimal `json:"savingsAtRetirement"`
	TotalAssetsAtRetirement decimal.Decimal `json:"totalAssetsAtRetirement"`

	PensionStartYear     int             `json:"pensionStartYear,omitempty"`
	PensionStartAge      int             `json:"pensionStartAge,omitempty"`
	AnnualPensionAtStart decimal.Decimal `json:"annualPensionAtStart"`

	ExtraContributionYears int             `json:"extraContributionYears"` // years paid after retirement
	TotalContributions     decimal.Decimal `json:"totalContributions"`

	FinalYear        int             `json:"finalYear"`
	FinalSavings     decimal.Decimal `json:"finalSavings"`
	FinalTotalAssets decimal.Decimal `json:"finalTotalAssets"`
	PeakTotalAssets  decimal.Decimal `json:"peakTotalAssets"`
	PeakAge          int             `json:"peakAge"`

	// SavingsDepletedAge is the first age with negative savings, nil if never.
	SavingsDepletedAge *int `json:"savingsDepletedAge,omitempty"`

	KeyEvents  []KeyEvent     `json:"keyEvents"`
	Projection []YearlyRecord `json:"projection,omitempty"`
}

// HasRetirement reports whether the retirement year falls inside the projection.
func (s *ScenarioSummary) HasRetirement() bool {
	return s.RetirementYear != 0
}

// HasPensionStart reports whether pension receipt begins inside the projection.
func (s *ScenarioSummary) HasPensionStart() bool {
	return s.PensionStartYear != 0
}
