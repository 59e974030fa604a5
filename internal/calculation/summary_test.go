package calculation

import (
	"testing"

	"github.com/rgehrsitz/hfp/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize_ReferenceScenario(t *testing.T) {
	records := Project(referenceParams())

	summary := Summarize("reference", records)

	assert.Equal(t, "reference", summary.Name)
	assert.Equal(t, 2046, summary.RetirementYear)
	assert.Equal(t, 55, summary.RetirementAge)
	assert.True(t, summary.SavingsAtRetirement.Equal(recordAtAge(t, records, 55).Savings))
	assert.True(t, summary.TotalAssetsAtRetirement.Equal(recordAtAge(t, records, 55).TotalAssets))
	assert.Equal(t, 2051, summary.PensionStartYear)
	assert.Equal(t, 60, summary.PensionStartAge)
	assert.True(t, summary.AnnualPensionAtStart.IsPositive())
	assert.Equal(t, 0, summary.ExtraContributionYears)
	assert.Equal(t, 2085, summary.FinalYear)
	assert.True(t, summary.FinalTotalAssets.Equal(records[len(records)-1].TotalAssets))
	assert.True(t, summary.PeakTotalAssets.GreaterThanOrEqual(summary.FinalTotalAssets))
	assert.Len(t, summary.Projection, len(records))
}

func TestSummarize_ExtraContributionYears(t *testing.T) {
	summary := Summarize("early", Project(earlyRetirementParams()))

	assert.Equal(t, 4, summary.ExtraContributionYears)
	assert.Equal(t, 2036, summary.RetirementYear)
	assert.True(t, summary.TotalContributions.IsPositive())
}

func TestSummarize_ExtraContributionYearsWithZeroRatio(t *testing.T) {
	p := earlyRetirementParams()
	p.ContributionRatio = decimal.Zero

	summary := Summarize("no-base", Project(p))

	assert.Equal(t, 4, summary.ExtraContributionYears, "counted years are paid even when the amount is zero")
	assert.True(t, summary.TotalContributions.IsZero())
}

func TestSummarize_SavingsDepletion(t *testing.T) {
	p := earlyRetirementParams()
	p.InitialSavings = dec("0")
	p.LivingExpenseRatio = dec("2")

	summary := Summarize("broke", Project(p))

	require.NotNil(t, summary.SavingsDepletedAge)
	assert.Equal(t, 34, *summary.SavingsDepletedAge)
}

func TestSummarize_NoSavingsDepletion(t *testing.T) {
	// Savings stay positive through age 74; the full horizon runs out at 87.
	summary := Summarize("reference", NewEngine().ProjectYears(referenceParams(), 40))
	assert.Nil(t, summary.SavingsDepletedAge)

	full := Summarize("reference", Project(referenceParams()))
	require.NotNil(t, full.SavingsDepletedAge)
	assert.Equal(t, 87, *full.SavingsDepletedAge)
}

func TestSummarize_Empty(t *testing.T) {
	summary := Summarize("empty", nil)

	assert.Equal(t, "empty", summary.Name)
	assert.False(t, summary.HasRetirement())
	assert.False(t, summary.HasPensionStart())
	assert.Empty(t, summary.KeyEvents)
}

func TestKeyEvents(t *testing.T) {
	events := KeyEvents(Project(referenceParams()))

	require.Len(t, events, 2)
	assert.Equal(t, domain.EventRetirement, events[0].Type)
	assert.Equal(t, 2046, events[0].Year)
	assert.Equal(t, 55, events[0].Age)
	assert.Equal(t, domain.EventPensionStart, events[1].Type)
	assert.Equal(t, 2051, events[1].Year)
	assert.Equal(t, 60, events[1].Age)
}

func TestKeyEvents_RetirementOutsideProjection(t *testing.T) {
	p := referenceParams()
	p.RetirementAge = 20

	events := KeyEvents(Project(p))

	for _, e := range events {
		assert.NotEqual(t, domain.EventRetirement, e.Type)
	}
}
