package main

import (
	"fmt"
	"log"
	"os"
	"runtime/debug"

	"github.com/rgehrsitz/hfp/internal/calculation"
	"github.com/rgehrsitz/hfp/internal/config"
	"github.com/rgehrsitz/hfp/internal/presets"
	"github.com/spf13/cobra"
)

// simpleCLILogger implements calculation.Logger using the standard log package
type simpleCLILogger struct{}

func (simpleCLILogger) Debugf(format string, args ...any) { log.Printf("DEBUG: "+format, args...) }
func (simpleCLILogger) Infof(format string, args ...any)  { log.Printf("INFO: "+format, args...) }
func (simpleCLILogger) Warnf(format string, args ...any)  { log.Printf("WARN: "+format, args...) }
func (simpleCLILogger) Errorf(format string, args ...any) { log.Printf("ERROR: "+format, args...) }

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// settings holds the environment settings after flag overrides.
var settings config.Settings

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "hfp %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(out, info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.Main.Path + " " + bi.Main.Version
	}
	return ""
}

var rootCmd = &cobra.Command{
	Use:   "hfp",
	Short: "Household financial projection CLI",
	Long: `Year-by-year projection of a household's salary, social insurance,
pension, savings and housing fund from retirement planning parameters.

Parameters come from a scenario file, a built-in preset (conservative,
moderate, optimistic) or a preset you saved earlier.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadSettings(cmd)
	},
}

// loadSettings reads the environment, then applies persistent flags the user set.
func loadSettings(cmd *cobra.Command) error {
	s, err := config.LoadSettings()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("horizon") {
		s.Horizon, _ = flags.GetInt("horizon")
	}
	if flags.Changed("debug") {
		s.Debug, _ = flags.GetBool("debug")
	}
	if flags.Changed("preset-store") {
		s.PresetStore, _ = flags.GetString("preset-store")
	}
	if flags.Changed("presets-path") {
		s.PresetsPath, _ = flags.GetString("presets-path")
	}
	if err := s.Validate(); err != nil {
		return err
	}

	settings = s
	return nil
}

// newEngine creates a calculation engine configured from the settings.
func newEngine() *calculation.Engine {
	engine := calculation.NewEngine()
	engine.Horizon = settings.Horizon
	if settings.Debug {
		engine.SetLogger(simpleCLILogger{})
	}
	return engine
}

// openManager opens the configured preset store. Callers must Close the manager.
func openManager() (*presets.Manager, error) {
	store, err := presets.OpenStore(settings.PresetStore, settings.PresetsPath)
	if err != nil {
		return nil, fmt.Errorf("open preset store: %w", err)
	}
	return presets.NewManager(store), nil
}

// fileExists checks if a file exists
func fileExists(filename string) bool {
	_, err := os.Stat(filename)
	return !os.IsNotExist(err)
}

func init() {
	rootCmd.PersistentFlags().Int("horizon", calculation.DefaultHorizon, "Projection horizon in years (HFP_HORIZON)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging (HFP_DEBUG)")
	rootCmd.PersistentFlags().String("preset-store", config.StoreYAML, "Preset store: yaml or sqlite (HFP_PRESET_STORE)")
	rootCmd.PersistentFlags().String("presets-path", "presets.yaml", "Preset file or database path (HFP_PRESETS_PATH)")

	rootCmd.AddCommand(versionCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
