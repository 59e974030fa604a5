package tui

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/hfp/internal/tui/tuimsg"
)

// Update handles all messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		contentHeight := max(msg.Height-4, 0)
		m.homeModel.SetSize(msg.Width, contentHeight)
		m.presetsModel.SetSize(msg.Width, contentHeight)
		m.parametersModel.SetSize(msg.Width, contentHeight)
		m.resultsModel.SetSize(msg.Width, contentHeight)
		m.compareModel.SetSize(msg.Width, contentHeight)
		m.optimizeModel.SetSize(msg.Width, contentHeight)
		return m, nil

	case NavigateMsg:
		return m.navigate(msg.Scene), nil

	case tuimsg.ErrorMsg:
		m.err = msg.Err
		return m, nil

	case tuimsg.PresetsLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.presets = msg.Presets
		m.homeModel.SetPresets(msg.Presets)
		m.presetsModel.SetPresets(msg.Presets)
		m.compareModel.SetPresets(msg.Presets, m.params != nil)
		return m, nil

	case tuimsg.PresetSelectedMsg:
		params := msg.Preset.Params
		m.source = msg.Preset.Name
		m.params = &params
		m.parametersModel.SetParams(msg.Preset.Name, params)
		m.compareModel.SetPresets(m.presets, true)
		m.optimizeModel.SetSource(msg.Preset.Name)
		return m.startCalculation(msg.Preset.Name)

	case tuimsg.CalculateRequestMsg:
		params := msg.Params
		m.params = &params
		return m.startCalculation(m.source + " (edited)")

	case tuimsg.CalculationCompleteMsg:
		m.loading = false
		if msg.Err != nil {
			m.err = fmt.Errorf("calculate %s: %w", msg.Name, msg.Err)
			return m, nil
		}
		m.resultsModel.SetResults(msg.Summary)
		m.homeModel.SetCurrent(msg.Name, *m.params, msg.Summary)
		return m.navigate(SceneResults), nil

	case tuimsg.CompareRequestMsg:
		m.compareModel.SetComparing(true)
		return m, compareCmd(m.engine, m.manager, msg.Names, m.params, m.horizon)

	case tuimsg.ComparisonCompleteMsg:
		m.compareModel.SetComparing(false)
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.compareModel.SetResults(msg.Summaries)
		return m, nil

	case tuimsg.OptimizeRequestMsg:
		if m.params == nil {
			m.err = errors.New("nothing to optimize: choose a preset first")
			return m, nil
		}
		m.optimizeModel.SetOptimizing(true)
		return m, optimizeCmd(m.engine, m.source, *m.params, m.horizon, msg)

	case tuimsg.OptimizationCompleteMsg:
		m.optimizeModel.SetOptimizing(false)
		if msg.Err != nil {
			m.err = fmt.Errorf("optimize: %w", msg.Err)
			return m, nil
		}
		m.optimizeModel.SetResult(msg.Result, msg.Multi)
		return m, nil

	case tuimsg.SavePresetMsg:
		if m.params == nil {
			m.err = errors.New("nothing to save: choose a preset or edit parameters first")
			return m, nil
		}
		params := *m.params
		if m.parametersModel.Modified() {
			params = m.parametersModel.Params()
		}
		return m, savePresetCmd(m.manager, msg.Name, m.source, params)

	case tuimsg.SaveCompleteMsg:
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.presetsModel.SetStatus(fmt.Sprintf("Saved preset %s", msg.Name))
		return m, loadPresetsCmd(m.manager)

	case tuimsg.DeletePresetMsg:
		return m, deletePresetCmd(m.manager, msg.Name)

	case tuimsg.DeleteCompleteMsg:
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.presetsModel.SetStatus(fmt.Sprintf("Deleted preset %s", msg.Name))
		return m, loadPresetsCmd(m.manager)
	}

	return m.updateCurrentScene(msg)
}

func (m Model) startCalculation(name string) (tea.Model, tea.Cmd) {
	m.loading = true
	m.loadingMessage = fmt.Sprintf("Calculating %s...", name)
	return m, calculateCmd(m.engine, name, *m.params, m.horizon)
}

func (m Model) navigate(scene Scene) Model {
	if scene == m.currentScene {
		return m
	}
	m.previousScene = m.currentScene
	m.currentScene = scene
	return m
}

func navigateCmd(scene Scene) tea.Cmd {
	return func() tea.Msg { return NavigateMsg{Scene: scene} }
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	// Any key dismisses an error.
	if m.err != nil {
		m.err = nil
		return m, nil
	}

	// Text inputs get every key while they are focused.
	if m.currentScene == ScenePresets && m.presetsModel.Editing() ||
		m.currentScene == SceneOptimize && m.optimizeModel.Editing() {
		return m.updateCurrentScene(msg)
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "?":
		return m, navigateCmd(SceneHelp)

	case "esc":
		if m.currentScene != SceneHome {
			back := SceneHome
			if m.previousScene != m.currentScene {
				back = m.previousScene
			}
			return m, navigateCmd(back)
		}

	case "h":
		return m, navigateCmd(SceneHome)

	case "s":
		return m, navigateCmd(ScenePresets)

	case "p":
		return m, navigateCmd(SceneParameters)

	case "r":
		return m, navigateCmd(SceneResults)

	case "c":
		return m, navigateCmd(SceneCompare)

	case "o":
		return m, navigateCmd(SceneOptimize)
	}

	return m.updateCurrentScene(msg)
}

// updateCurrentScene delegates updates to the current scene's model
func (m Model) updateCurrentScene(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.currentScene {
	case SceneHome:
		m.homeModel, cmd = m.homeModel.Update(msg)
	case ScenePresets:
		m.presetsModel, cmd = m.presetsModel.Update(msg)
	case SceneParameters:
		m.parametersModel, cmd = m.parametersModel.Update(msg)
	case SceneResults:
		m.resultsModel, cmd = m.resultsModel.Update(msg)
	case SceneCompare:
		m.compareModel, cmd = m.compareModel.Update(msg)
	case SceneOptimize:
		m.optimizeModel, cmd = m.optimizeModel.Update(msg)
	}
	return m, cmd
}
