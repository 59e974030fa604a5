package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/rgehrsitz/hfp/internal/config"
	"github.com/rgehrsitz/hfp/internal/domain"
	"github.com/rgehrsitz/hfp/internal/output"
	"github.com/spf13/cobra"
)

var projectCmd = &cobra.Command{
	Use:   "project [input-file]",
	Short: "Project one scenario year by year",
	Long: `Project a single parameter set over the horizon.

Parameters come from the input file (the scenario named by --scenario, or its
first scenario), from --preset, or from the moderate preset when neither is given.

Examples:
  hfp project
  hfp project --preset optimistic --format csv
  hfp project household.yaml --scenario early --format html --output`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		toFile, _ := cmd.Flags().GetBool("output")

		name, params, horizon, err := baseScenario(cmd, args)
		if err != nil {
			return err
		}

		results, err := newEngine().RunScenariosContext(cmd.Context(), map[string]domain.Params{name: params}, horizon)
		if err != nil {
			return err
		}
		return render(cmd, output.NewReport(horizon, results), format, toFile)
	},
}

// loadConfig parses a scenario file with the configured horizon limit.
func loadConfig(path string) (*domain.Configuration, error) {
	if !fileExists(path) {
		return nil, fmt.Errorf("input file %s not found", path)
	}
	parser := config.NewInputParser()
	parser.MaxHorizon = settings.MaxHorizon
	return parser.LoadFromFile(path)
}

// horizonFor prefers an explicit --horizon over the file's horizon.
func horizonFor(cmd *cobra.Command, configData *domain.Configuration) int {
	if cmd.Flags().Changed("horizon") {
		return settings.Horizon
	}
	return configData.Horizon
}

// baseScenario picks the scenario a single-scenario command works on: the
// named (or first) scenario of the input file, otherwise a preset.
func baseScenario(cmd *cobra.Command, args []string) (string, domain.Params, int, error) {
	presetName, _ := cmd.Flags().GetString("preset")
	scenarioName, _ := cmd.Flags().GetString("scenario")

	if len(args) == 1 {
		if presetName != "" {
			return "", domain.Params{}, 0, fmt.Errorf("use either an input file or --preset, not both")
		}
		configData, err := loadConfig(args[0])
		if err != nil {
			return "", domain.Params{}, 0, err
		}
		scenario := &configData.Scenarios[0]
		if scenarioName != "" {
			var ok bool
			if scenario, ok = configData.FindScenario(scenarioName); !ok {
				return "", domain.Params{}, 0, fmt.Errorf("scenario %s not found in %s", scenarioName, args[0])
			}
		}
		return scenario.Name, scenario.Params, horizonFor(cmd, configData), nil
	}

	if scenarioName != "" {
		return "", domain.Params{}, 0, fmt.Errorf("--scenario requires an input file")
	}
	if presetName == "" {
		presetName = "moderate"
	}
	preset, err := getPreset(cmd.Context(), presetName)
	if err != nil {
		return "", domain.Params{}, 0, err
	}
	return preset.Name, preset.Params, settings.Horizon, nil
}

func getPreset(ctx context.Context, name string) (domain.Preset, error) {
	manager, err := openManager()
	if err != nil {
		return domain.Preset{}, err
	}
	defer manager.Close()
	return manager.Get(ctx, name)
}

// render writes the report to stdout, or to a timestamped file when toFile is set.
func render(cmd *cobra.Command, report *output.Report, format string, toFile bool) error {
	f := output.GetFormatterByName(format)
	if f == nil {
		return fmt.Errorf("unknown output format: %s (valid: %s; aliases: %s)", format,
			strings.Join(output.AvailableFormatterNames(), ", "),
			strings.Join(output.AvailableFormatAliases(), ", "))
	}
	report.Assumptions = output.DefaultAssumptions

	if toFile {
		filename, err := output.WriteFormatted(f, report, extensionFor(f.Name()))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", filename)
		return nil
	}

	data, err := f.Format(report)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func extensionFor(formatter string) string {
	switch formatter {
	case "html", "json":
		return formatter
	case "csv", "summary-csv":
		return "csv"
	default:
		return "txt"
	}
}

var scenariosCmd = &cobra.Command{
	Use:   "scenarios [input-file]",
	Short: "Run every scenario and recommend one",
	Long: `Run all scenarios of the input file side by side. Without an input file,
every preset (built-in and saved) is run.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		toFile, _ := cmd.Flags().GetBool("output")
		ctx := cmd.Context()

		var (
			scenarios map[string]domain.Params
			horizon   = settings.Horizon
		)
		if len(args) == 1 {
			configData, err := loadConfig(args[0])
			if err != nil {
				return err
			}
			horizon = horizonFor(cmd, configData)
			scenarios = configData.ScenarioParams()
		} else {
			manager, err := openManager()
			if err != nil {
				return err
			}
			defer manager.Close()

			if scenarios, err = manager.Resolve(ctx, nil); err != nil {
				return err
			}
		}

		results, err := newEngine().RunScenariosContext(ctx, scenarios, horizon)
		if err != nil {
			return err
		}
		return render(cmd, output.NewReport(horizon, results), format, toFile)
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate [input-file]",
	Short: "Validate a scenario file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		configData, err := loadConfig(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Configuration file %s is valid (%d scenarios, %d-year horizon)\n",
			args[0], len(configData.Scenarios), configData.Horizon)
		return nil
	},
}

func init() {
	projectCmd.Flags().String("preset", "", "Preset to project instead of an input file")
	projectCmd.Flags().String("scenario", "", "Scenario of the input file to project (default: first)")
	projectCmd.Flags().StringP("format", "f", "console", "Output format (console, console-lite, csv, summary-csv, json, html)")
	projectCmd.Flags().BoolP("output", "o", false, "Write a timestamped report file instead of printing")

	scenariosCmd.Flags().StringP("format", "f", "console-lite", "Output format (console, console-lite, csv, summary-csv, json, html)")
	scenariosCmd.Flags().BoolP("output", "o", false, "Write a timestamped report file instead of printing")

	rootCmd.AddCommand(projectCmd)
	rootCmd.AddCommand(scenariosCmd)
	rootCmd.AddCommand(validateCmd)
}
