// Package tui is the interactive terminal front end: pick a preset, adjust
// its parameters, inspect the projection, compare presets and search for
// break-even values.
package tui

import (
	"context"
	"errors"
	"fmt"
	"slices"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/hfp/internal/breakeven"
	"github.com/rgehrsitz/hfp/internal/calculation"
	"github.com/rgehrsitz/hfp/internal/config"
	"github.com/rgehrsitz/hfp/internal/domain"
	"github.com/rgehrsitz/hfp/internal/presets"
	"github.com/rgehrsitz/hfp/internal/tui/scenes"
	"github.com/rgehrsitz/hfp/internal/tui/tuimsg"
)

// Model represents the entire application state
type Model struct {
	currentScene  Scene
	previousScene Scene

	width  int
	height int

	engine  *calculation.Engine
	manager *presets.Manager
	horizon int

	presets []domain.Preset

	// The parameters being worked on and where they came from.
	source string
	params *domain.Params

	homeModel       *scenes.HomeModel
	presetsModel    *scenes.PresetsModel
	parametersModel *scenes.ParametersModel
	resultsModel    *scenes.ResultsModel
	compareModel    *scenes.CompareModel
	optimizeModel   *scenes.OptimizeModel

	err    error
	status string

	loading        bool
	loadingMessage string
}

// NewModel creates the application model. A horizon of zero uses the
// engine's horizon.
func NewModel(engine *calculation.Engine, manager *presets.Manager, horizon int) Model {
	if horizon <= 0 {
		horizon = engine.Horizon
	}
	if horizon <= 0 {
		horizon = calculation.DefaultHorizon
	}
	return Model{
		currentScene:    SceneHome,
		engine:          engine,
		manager:         manager,
		horizon:         horizon,
		homeModel:       scenes.NewHomeModel(horizon),
		presetsModel:    scenes.NewPresetsModel(),
		parametersModel: scenes.NewParametersModel(),
		resultsModel:    scenes.NewResultsModel(),
		compareModel:    scenes.NewCompareModel(),
		optimizeModel:   scenes.NewOptimizeModel(),
		width:           80,
		height:          24,
		loading:         true,
		loadingMessage:  "Loading presets...",
	}
}

// Init initializes the model (required by tea.Model interface)
func (m Model) Init() tea.Cmd {
	return loadPresetsCmd(m.manager)
}

func loadPresetsCmd(manager *presets.Manager) tea.Cmd {
	return func() tea.Msg {
		list, err := manager.List(context.Background())
		return tuimsg.PresetsLoadedMsg{Presets: list, Err: err}
	}
}

// calculateCmd validates and projects one parameter set.
func calculateCmd(engine *calculation.Engine, name string, params domain.Params, horizon int) tea.Cmd {
	return func() tea.Msg {
		if err := config.ValidateParams(params); err != nil {
			return tuimsg.CalculationCompleteMsg{Name: name, Err: err}
		}
		return tuimsg.CalculationCompleteMsg{Name: name, Summary: engine.RunScenario(name, params, horizon)}
	}
}

// compareCmd projects the named presets, plus current when requested,
// through the scenario runner.
func compareCmd(engine *calculation.Engine, manager *presets.Manager, names []string, current *domain.Params, horizon int) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		presetNames := slices.DeleteFunc(slices.Clone(names), func(n string) bool { return n == tuimsg.CurrentName })
		scenarios := map[string]domain.Params{}
		if len(presetNames) > 0 {
			resolved, err := manager.Resolve(ctx, presetNames)
			if err != nil {
				return tuimsg.ComparisonCompleteMsg{Err: err}
			}
			scenarios = resolved
		}
		if len(presetNames) < len(names) {
			if current == nil {
				return tuimsg.ComparisonCompleteMsg{Err: errors.New("no current parameters to compare")}
			}
			scenarios[tuimsg.CurrentName] = *current
		}

		results, err := engine.RunScenariosContext(ctx, scenarios, horizon)
		if err != nil {
			return tuimsg.ComparisonCompleteMsg{Err: err}
		}
		return tuimsg.ComparisonCompleteMsg{Summaries: calculation.SummarizeAll(results)}
	}
}

// optimizeCmd runs the break-even solver from params.
func optimizeCmd(engine *calculation.Engine, name string, params domain.Params, horizon int, msg tuimsg.OptimizeRequestMsg) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		solver := breakeven.NewDefaultSolver(engine)
		req := breakeven.OptimizationRequest{
			Name:    name,
			Base:    params,
			Horizon: horizon,
			Target:  msg.Target,
			Goal:    msg.Goal,
		}
		req.Constraints.TargetAssets = msg.TargetAssets

		if msg.Target == breakeven.OptimizeAll {
			multi, err := solver.OptimizeMultiDimensional(ctx, req)
			return tuimsg.OptimizationCompleteMsg{Multi: multi, Err: err}
		}
		result, err := solver.Optimize(ctx, req)
		return tuimsg.OptimizationCompleteMsg{Result: result, Err: err}
	}
}

func savePresetCmd(manager *presets.Manager, name, source string, params domain.Params) tea.Cmd {
	return func() tea.Msg {
		err := manager.Save(context.Background(), domain.Preset{
			Name:        name,
			Description: fmt.Sprintf("saved from %s", source),
			Params:      params,
		})
		return tuimsg.SaveCompleteMsg{Name: name, Err: err}
	}
}

func deletePresetCmd(manager *presets.Manager, name string) tea.Cmd {
	return func() tea.Msg {
		return tuimsg.DeleteCompleteMsg{Name: name, Err: manager.Delete(context.Background(), name)}
	}
}
