// Package tuimsg defines the messages scenes send to the root model.
package tuimsg

import (
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/hfp/internal/breakeven"
	"github.com/rgehrsitz/hfp/internal/domain"
)

// PresetsLoadedMsg carries the preset list after startup or a change.
type PresetsLoadedMsg struct {
	Presets []domain.Preset
	Err     error
}

// PresetSelectedMsg loads a preset's parameters and calculates them.
type PresetSelectedMsg struct {
	Preset domain.Preset
}

// CalculateRequestMsg asks for a projection of edited parameters.
type CalculateRequestMsg struct {
	Params domain.Params
}

// CalculationCompleteMsg signals a calculation has finished
type CalculationCompleteMsg struct {
	Name    string
	Summary *domain.ScenarioSummary
	Err     error
}

// CurrentName names the edited parameters in a comparison.
const CurrentName = "(current)"

// CompareRequestMsg asks for the named presets to be projected side by side.
// CurrentName in Names stands for the parameters being edited.
type CompareRequestMsg struct {
	Names []string
}

// ComparisonCompleteMsg signals a comparison has finished
type ComparisonCompleteMsg struct {
	Summaries []*domain.ScenarioSummary
	Err       error
}

// OptimizeRequestMsg asks the break-even solver to search the current
// parameters. TargetAssets is set for the target_assets goal only.
type OptimizeRequestMsg struct {
	Target       breakeven.OptimizationTarget
	Goal         breakeven.OptimizationGoal
	TargetAssets *decimal.Decimal
}

// OptimizationCompleteMsg carries a single-target result, or Multi for the
// all-targets search.
type OptimizationCompleteMsg struct {
	Result *breakeven.OptimizationResult
	Multi  *breakeven.MultiDimensionalResult
	Err    error
}

// SavePresetMsg stores the current parameters under Name.
type SavePresetMsg struct {
	Name string
}

// SaveCompleteMsg signals a save operation has finished
type SaveCompleteMsg struct {
	Name string
	Err  error
}

// DeletePresetMsg removes a saved preset.
type DeletePresetMsg struct {
	Name string
}

// DeleteCompleteMsg signals a delete operation has finished
type DeleteCompleteMsg struct {
	Name string
	Err  error
}

// ErrorMsg displays an error to the user
type ErrorMsg struct {
	Err error
}
