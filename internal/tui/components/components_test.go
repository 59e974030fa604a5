package components

import (
	"strings"
	"testing"

	"github.com/rgehrsitz/hfp/internal/domain"
	"github.com/rgehrsitz/hfp/internal/presets"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func field(t *testing.T, key string) domain.ParamField {
	t.Helper()
	f, ok := domain.LookupParamField(key)
	require.True(t, ok, key)
	return f
}

func TestParameterSlider_StepsAndClamps(t *testing.T) {
	params := presets.DefaultParams()
	s := NewParameterSlider(field(t, "retirement_age"), params)

	assert.Equal(t, "45", s.ValueString())
	s.Increment()
	assert.Equal(t, "46", s.ValueString())

	s.Value = s.Max
	s.Increment()
	assert.True(t, s.Value.Equal(s.Max))

	s.Value = s.Min
	s.Decrement()
	assert.True(t, s.Value.Equal(s.Min))
}

func TestParameterSlider_ApplyWritesField(t *testing.T) {
	params := presets.DefaultParams()
	s := NewParameterSlider(field(t, "deposit_rate"), params)

	s.Increment()
	s.Apply(&params)

	assert.Equal(t, "2.25", params.DepositRate.StringFixed(2))
}

func TestParameterSlider_WidensRangeForOutlyingValue(t *testing.T) {
	params := presets.DefaultParams()
	params.InitialSavings = decimal.NewFromInt(50000000)

	s := NewParameterSlider(field(t, "initial_savings"), params)

	assert.True(t, s.Max.Equal(params.InitialSavings))
	assert.InDelta(t, 1.0, s.Percentage(), 1e-9)
}

func TestParameterSlider_Render(t *testing.T) {
	s := NewParameterSlider(field(t, "living_expense_ratio"), presets.DefaultParams())
	s.SetFocused(true)

	out := s.Render()
	assert.Contains(t, out, "Living Expense Ratio")
	assert.Contains(t, out, "0.50")
	assert.Contains(t, s.RenderCompact(), "▸ ")
}

func TestASCIIChart_Render(t *testing.T) {
	chart := NewASCIIChart("Assets").
		AddSeries("savings", []float64{100000, 200000, 150000}, "#fff").
		AddSeries("total", []float64{300000, 400000, 350000}, "#000").
		AddMarker(1, "retirement", '┊').
		WithLabels([]string{"2025", "2026", "2027"}).
		WithSize(50, 8)

	out := chart.Render()
	assert.Contains(t, out, "Assets")
	assert.Contains(t, out, "Legend:")
	assert.Contains(t, out, "retirement")
	assert.Contains(t, out, "2025")
	assert.Contains(t, out, "万")
}

func TestASCIIChart_FlatAndSinglePoint(t *testing.T) {
	out := NewASCIIChart("").AddSeries("flat", []float64{5, 5, 5}, "#fff").Render()
	assert.Contains(t, out, "●")
	assert.NotContains(t, out, "NaN")

	out = NewASCIIChart("").AddSeries("one", []float64{42}, "#fff").Render()
	assert.Contains(t, out, "●")

	assert.Contains(t, NewASCIIChart("empty").Render(), "No data")
}

func TestFormatChartValue(t *testing.T) {
	assert.Equal(t, "¥12.3万", formatChartValue(123000))
	assert.Equal(t, "¥352万", formatChartValue(3520358))
	assert.Equal(t, "¥1.5亿", formatChartValue(150000000))
	assert.Equal(t, "¥-56.3万", formatChartValue(-563216))
}

func TestMetricCard_Delta(t *testing.T) {
	card := NewMoneyCard("Final assets", decimal.NewFromInt(129487)).WithDelta(decimal.NewFromInt(692703))
	require.NotNil(t, card.Trend)
	assert.True(t, card.Trend.IsPositive)
	assert.Equal(t, "+¥69.27万", card.Trend.Change)

	assert.Nil(t, NewMetricCard("x", "y").WithDelta(decimal.Zero).Trend)
	assert.Contains(t, MetricGrid([]*MetricCard{card, NewMetricCard("a", "b")}, 0), "Final assets")
}

func TestPresetCard(t *testing.T) {
	cards := []*PresetCard{}
	for _, p := range presets.Defaults() {
		cards = append(cards, NewPresetCard(p))
	}

	list := PresetListCompact(cards, 1)
	assert.Contains(t, list, "▸ moderate")
	assert.Equal(t, 3, strings.Count(list, "built-in"))
	assert.Contains(t, cards[0].SetSelected(true).Render(), "Retire at 45 (now 34)")
	assert.Contains(t, PresetListCompact(nil, 0), "No presets")
}

func TestProgressBar(t *testing.T) {
	bar := NewProgressBar(25, 20).WithLabel("Pension years").WithWidth(10)
	assert.True(t, bar.IsComplete())
	assert.Equal(t, 1.0, bar.Fraction())
	assert.Contains(t, bar.Render(), "25/20")

	assert.False(t, NewProgressBar(0, 0).IsComplete())
}
