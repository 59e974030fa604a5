package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/hfp/internal/calculation"
	"github.com/rgehrsitz/hfp/internal/config"
	"github.com/rgehrsitz/hfp/internal/presets"
	"github.com/rgehrsitz/hfp/internal/tui"
)

func main() {
	// Same environment settings as the hfp CLI
	settings, err := config.LoadSettings()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	store, err := presets.OpenStore(settings.PresetStore, settings.PresetsPath)
	if err != nil {
		fmt.Printf("Error: could not open preset store %s: %v\n", settings.PresetsPath, err)
		os.Exit(1)
	}
	manager := presets.NewManager(store)
	defer manager.Close()

	engine := calculation.NewEngine()
	engine.Horizon = settings.Horizon

	// Create the Bubble Tea program
	p := tea.NewProgram(
		tui.NewModel(engine, manager, settings.Horizon),
		tea.WithAltScreen(),       // Use alternate screen buffer
		tea.WithMouseCellMotion(), // Enable mouse support
	)

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running TUI: %v\n", err)
		manager.Close()
		os.Exit(1)
	}
}
