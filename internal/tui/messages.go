package tui

// Scene represents different screens in the TUI
type Scene int

const (
	SceneHome Scene = iota
	ScenePresets
	SceneParameters
	SceneResults
	SceneCompare
	SceneOptimize
	SceneHelp
)

// NavigateMsg switches to a different scene
type NavigateMsg struct {
	Scene Scene
}

// String returns a human-readable name for a scene
func (s Scene) String() string {
	switch s {
	case SceneHome:
		return "Home"
	case ScenePresets:
		return "Presets"
	case SceneParameters:
		return "Parameters"
	case SceneResults:
		return "Results"
	case SceneCompare:
		return "Compare"
	case SceneOptimize:
		return "Optimize"
	case SceneHelp:
		return "Help"
	default:
		return "Unknown"
	}
}
