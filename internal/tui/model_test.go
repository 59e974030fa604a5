package tui

import (
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rgehrsitz/hfp/internal/breakeven"
	"github.com/rgehrsitz/hfp/internal/calculation"
	"github.com/rgehrsitz/hfp/internal/presets"
	"github.com/rgehrsitz/hfp/internal/tui/tuimsg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// step feeds msg to the model and returns the updated model with the
// message produced by the resulting command, if any.
func step(t *testing.T, m Model, msg tea.Msg) (Model, tea.Msg) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok)
	if cmd == nil {
		return model, nil
	}
	return model, cmd()
}

func newTestModel(t *testing.T, store presets.Store) Model {
	t.Helper()
	m := NewModel(calculation.NewEngine(), presets.NewManager(store), 30)
	m, _ = step(t, m, m.Init()())
	return m
}

func TestModel_InitLoadsPresets(t *testing.T) {
	m := NewModel(calculation.NewEngine(), presets.NewManager(nil), 0)
	assert.Equal(t, calculation.DefaultHorizon, m.horizon)
	assert.Contains(t, m.View(), "Loading presets")

	msg := m.Init()()
	loaded, ok := msg.(tuimsg.PresetsLoadedMsg)
	require.True(t, ok)
	require.NoError(t, loaded.Err)
	assert.Len(t, loaded.Presets, 3)

	m, _ = step(t, m, msg)
	assert.False(t, m.loading)
	assert.Contains(t, m.View(), "Quick Actions")
}

func TestModel_SelectPresetCalculatesAndShowsResults(t *testing.T) {
	m := newTestModel(t, nil)

	m, msg := step(t, m, tuimsg.PresetSelectedMsg{Preset: presets.Defaults()[1]})
	assert.True(t, m.loading)
	done, ok := msg.(tuimsg.CalculationCompleteMsg)
	require.True(t, ok)
	require.NoError(t, done.Err)
	assert.Equal(t, 2036, done.Summary.RetirementYear)
	assert.Len(t, done.Summary.Projection, 31)

	m, _ = step(t, m, done)
	assert.False(t, m.loading)
	assert.Equal(t, SceneResults, m.currentScene)
	assert.Contains(t, m.View(), "Projection: moderate")
}

func TestModel_EditedParamsRecalculate(t *testing.T) {
	m := newTestModel(t, nil)
	m, msg := step(t, m, tuimsg.PresetSelectedMsg{Preset: presets.Defaults()[1]})
	m, _ = step(t, m, msg)

	params := presets.DefaultParams()
	params.RetirementAge = 50
	m, msg = step(t, m, tuimsg.CalculateRequestMsg{Params: params})

	done := msg.(tuimsg.CalculationCompleteMsg)
	assert.Equal(t, "moderate (edited)", done.Name)
	assert.Equal(t, 2041, done.Summary.RetirementYear)

	m, _ = step(t, m, done)
	assert.Equal(t, 50, m.params.RetirementAge)
}

func TestModel_CalculationErrorIsShownAndDismissed(t *testing.T) {
	m := newTestModel(t, nil)
	m, msg := step(t, m, tuimsg.PresetSelectedMsg{Preset: presets.Defaults()[1]})
	m, _ = step(t, m, msg)

	params := presets.DefaultParams()
	params.InitialSavings = params.InitialSavings.Neg()
	m, msg = step(t, m, tuimsg.CalculateRequestMsg{Params: params})
	m, _ = step(t, m, msg)

	require.Error(t, m.err)
	assert.Contains(t, m.View(), "initial_savings")

	m, _ = step(t, m, runes("x"))
	assert.NoError(t, m.err)
}

func TestModel_GlobalNavigation(t *testing.T) {
	m := newTestModel(t, nil)

	for _, tc := range []struct {
		key   string
		scene Scene
	}{
		{"s", ScenePresets},
		{"p", SceneParameters},
		{"r", SceneResults},
		{"c", SceneCompare},
		{"o", SceneOptimize},
		{"?", SceneHelp},
		{"h", SceneHome},
	} {
		var msg tea.Msg
		m, msg = step(t, m, runes(tc.key))
		require.IsType(t, NavigateMsg{}, msg, tc.key)
		m, _ = step(t, m, msg)
		assert.Equal(t, tc.scene, m.currentScene, tc.key)
	}

	m, msg := step(t, m, runes("s"))
	m, _ = step(t, m, msg)
	m, msg = step(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	m, _ = step(t, m, msg)
	assert.Equal(t, SceneHome, m.currentScene)
}

func TestModel_QuitKeys(t *testing.T) {
	m := newTestModel(t, nil)

	_, msg := step(t, m, runes("q"))
	assert.IsType(t, tea.QuitMsg{}, msg)

	_, msg = step(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.IsType(t, tea.QuitMsg{}, msg)
}

func TestModel_NameInputCapturesGlobalKeys(t *testing.T) {
	m := newTestModel(t, nil)
	m, msg := step(t, m, runes("s"))
	m, _ = step(t, m, msg)

	next, _ := m.Update(runes("n"))
	m = next.(Model)
	require.True(t, m.presetsModel.Editing())

	next, _ = m.Update(runes("q"))
	m = next.(Model)
	assert.Equal(t, ScenePresets, m.currentScene)
	assert.True(t, m.presetsModel.Editing())
}

func TestModel_SaveAndDeletePreset(t *testing.T) {
	store := presets.NewFileStore(filepath.Join(t.TempDir(), "presets.yaml"))
	m := newTestModel(t, store)

	m, msg := step(t, m, tuimsg.PresetSelectedMsg{Preset: presets.Defaults()[2]})
	m, _ = step(t, m, msg)

	m, msg = step(t, m, tuimsg.SavePresetMsg{Name: "mine"})
	saved, ok := msg.(tuimsg.SaveCompleteMsg)
	require.True(t, ok)
	require.NoError(t, saved.Err)

	m, msg = step(t, m, saved)
	m, _ = step(t, m, msg)
	require.Len(t, m.presets, 4)
	assert.Equal(t, "mine", m.presets[3].Name)
	assert.Equal(t, "saved from optimistic", m.presets[3].Description)

	m, msg = step(t, m, tuimsg.DeletePresetMsg{Name: "mine"})
	deleted := msg.(tuimsg.DeleteCompleteMsg)
	require.NoError(t, deleted.Err)
	m, msg = step(t, m, deleted)
	m, _ = step(t, m, msg)
	assert.Len(t, m.presets, 3)
}

func TestModel_SaveWithoutParams(t *testing.T) {
	m := newTestModel(t, nil)
	m, msg := step(t, m, tuimsg.SavePresetMsg{Name: "mine"})
	assert.Nil(t, msg)
	assert.ErrorContains(t, m.err, "nothing to save")
}

func TestModel_SaveWithoutStore(t *testing.T) {
	m := newTestModel(t, nil)
	m, msg := step(t, m, tuimsg.PresetSelectedMsg{Preset: presets.Defaults()[0]})
	m, _ = step(t, m, msg)

	_, msg = step(t, m, tuimsg.SavePresetMsg{Name: "mine"})
	assert.ErrorContains(t, msg.(tuimsg.SaveCompleteMsg).Err, "no preset store configured")
}

func TestModel_Compare(t *testing.T) {
	m := newTestModel(t, nil)
	m, msg := step(t, m, tuimsg.PresetSelectedMsg{Preset: presets.Defaults()[1]})
	m, _ = step(t, m, msg)

	m, msg = step(t, m, tuimsg.CompareRequestMsg{Names: []string{tuimsg.CurrentName, presets.Conservative, presets.Optimistic}})
	done, ok := msg.(tuimsg.ComparisonCompleteMsg)
	require.True(t, ok)
	require.NoError(t, done.Err)
	require.Len(t, done.Summaries, 3)
	// SummarizeAll orders by name; "(" sorts before letters.
	assert.Equal(t, tuimsg.CurrentName, done.Summaries[0].Name)
	assert.True(t, done.Summaries[2].FinalTotalAssets.GreaterThan(done.Summaries[0].FinalTotalAssets))

	m, _ = step(t, m, done)
	m.currentScene = SceneCompare
	assert.Contains(t, m.View(), "Most assets: optimistic")
}

func TestModel_CompareUnknownPreset(t *testing.T) {
	m := newTestModel(t, nil)
	_, msg := step(t, m, tuimsg.CompareRequestMsg{Names: []string{"nope", presets.Moderate}})
	assert.ErrorIs(t, msg.(tuimsg.ComparisonCompleteMsg).Err, presets.ErrPresetNotFound)
}

func TestModel_WindowSize(t *testing.T) {
	m := newTestModel(t, nil)
	m, _ = step(t, m, tea.WindowSizeMsg{Width: 140, Height: 50})
	assert.Equal(t, 140, m.width)
	assert.Contains(t, m.View(), "30-year horizon")
}

func TestModel_Optimize(t *testing.T) {
	m := newTestModel(t, nil)
	m, msg := step(t, m, tuimsg.PresetSelectedMsg{Preset: presets.Defaults()[1]})
	m, _ = step(t, m, msg)

	m, msg = step(t, m, tuimsg.OptimizeRequestMsg{Target: breakeven.OptimizeRetirementAge, Goal: breakeven.GoalSustain})
	done, ok := msg.(tuimsg.OptimizationCompleteMsg)
	require.True(t, ok)
	require.NoError(t, done.Err)
	require.NotNil(t, done.Result)
	assert.True(t, done.Result.Success)
	assert.Equal(t, 30, done.Result.Horizon)

	m, _ = step(t, m, done)
	m.currentScene = SceneOptimize
	assert.Contains(t, m.View(), "BREAK-EVEN OPTIMIZATION RESULTS")
}

func TestModel_OptimizeWithoutParams(t *testing.T) {
	m := newTestModel(t, nil)
	m, msg := step(t, m, tuimsg.OptimizeRequestMsg{Target: breakeven.OptimizeAll, Goal: breakeven.GoalSustain})
	assert.Nil(t, msg)
	assert.ErrorContains(t, m.err, "nothing to optimize")
}

func TestModel_OptimizeInputCapturesGlobalKeys(t *testing.T) {
	m := newTestModel(t, nil)
	m, msg := step(t, m, tuimsg.PresetSelectedMsg{Preset: presets.Defaults()[0]})
	m, _ = step(t, m, msg)
	m, msg = step(t, m, runes("o"))
	m, _ = step(t, m, msg)
	require.Equal(t, SceneOptimize, m.currentScene)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(Model)
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	require.True(t, m.optimizeModel.Editing())

	next, _ = m.Update(runes("q"))
	m = next.(Model)
	assert.Equal(t, SceneOptimize, m.currentScene)
	assert.True(t, m.optimizeModel.Editing())
}
