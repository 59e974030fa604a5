package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/rgehrsitz/hfp/internal/domain"
	"github.com/rgehrsitz/hfp/internal/presets"
	"github.com/rgehrsitz/hfp/internal/spreadsheet"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export <file.xlsx>",
	Short: "Export a projection or the preset library to a workbook",
	Long: `Write an xlsx workbook.

By default the workbook holds the parameters, the yearly projection and the key
events of one parameter set (--preset, or a scenario of --file). With
--params-only it holds the parameters and every preset instead, which import
reads back.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		presetName, _ := cmd.Flags().GetString("preset")
		file, _ := cmd.Flags().GetString("file")
		scenarioName, _ := cmd.Flags().GetString("scenario")
		paramsOnly, _ := cmd.Flags().GetBool("params-only")
		ctx := cmd.Context()

		manager, err := openManager()
		if err != nil {
			return err
		}
		defer manager.Close()

		var (
			params  domain.Params
			horizon = settings.Horizon
		)
		if file != "" {
			if presetName != "" {
				return fmt.Errorf("use either --preset or --file, not both")
			}
			configData, err := loadConfig(file)
			if err != nil {
				return err
			}
			horizon = horizonFor(cmd, configData)
			scenario := &configData.Scenarios[0]
			if scenarioName != "" {
				var ok bool
				if scenario, ok = configData.FindScenario(scenarioName); !ok {
					return fmt.Errorf("scenario %s not found in %s", scenarioName, file)
				}
			}
			params = scenario.Params
		} else {
			if presetName == "" {
				presetName = "moderate"
			}
			preset, err := manager.Get(ctx, presetName)
			if err != nil {
				return err
			}
			params = preset.Params
		}

		out, err := os.Create(args[0])
		if err != nil {
			return err
		}
		defer out.Close()

		if paramsOnly {
			var all []domain.Preset
			if all, err = manager.List(ctx); err != nil {
				return err
			}
			err = spreadsheet.ExportParamsAndPresets(out, params, all)
		} else {
			err = spreadsheet.ExportProjection(out, params, newEngine().ProjectYears(params, horizon))
		}
		if err != nil {
			return fmt.Errorf("export %s: %w", args[0], err)
		}
		if err := out.Close(); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Workbook written to %s\n", args[0])
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file.xlsx>",
	Short: "Read parameters and presets from a workbook",
	Long: `Read the parameters and presets of a workbook written by export.

With --save-presets the imported presets are saved to the preset store; built-in
names are skipped. With --save-current the workbook's parameters are saved as a
preset of that name.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		savePresets, _ := cmd.Flags().GetBool("save-presets")
		saveCurrent, _ := cmd.Flags().GetString("save-current")
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		in, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer in.Close()

		result, err := spreadsheet.Import(in)
		if err != nil {
			return fmt.Errorf("import %s: %w", args[0], err)
		}

		if result.Params != nil {
			p := result.Params
			fmt.Fprintf(out, "Parameters: age %d, retiring at %d, start year %d\n", p.CurrentAge, p.RetirementAge, p.StartYear)
		} else {
			fmt.Fprintln(out, "Parameters: none")
		}
		fmt.Fprintf(out, "Presets: %d\n", len(result.Presets))
		for _, p := range result.Presets {
			fmt.Fprintf(out, "  %s\n", p.Name)
		}
		for _, w := range result.Warnings {
			fmt.Fprintf(out, "Warning: %s\n", w)
		}

		if !savePresets && saveCurrent == "" {
			return nil
		}

		manager, err := openManager()
		if err != nil {
			return err
		}
		defer manager.Close()

		if savePresets {
			saved := 0
			for _, p := range result.Presets {
				err := manager.Save(ctx, p)
				switch {
				case errors.Is(err, presets.ErrReadOnlyPreset):
					fmt.Fprintf(out, "Skipped built-in preset %s\n", p.Name)
				case err != nil:
					return fmt.Errorf("save preset %s: %w", p.Name, err)
				default:
					saved++
				}
			}
			fmt.Fprintf(out, "Saved %d presets\n", saved)
		}

		if saveCurrent != "" {
			if result.Params == nil {
				return fmt.Errorf("workbook %s has no parameters to save", args[0])
			}
			preset := domain.Preset{Name: saveCurrent, Description: "imported from " + args[0], Params: *result.Params}
			if err := manager.Save(ctx, preset); err != nil {
				return err
			}
			fmt.Fprintf(out, "Saved preset %s\n", saveCurrent)
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().String("preset", "", "Preset to export (default moderate)")
	exportCmd.Flags().String("file", "", "Scenario file to export from")
	exportCmd.Flags().String("scenario", "", "Scenario of --file (default: first)")
	exportCmd.Flags().Bool("params-only", false, "Export parameters and all presets instead of a projection")

	importCmd.Flags().Bool("save-presets", false, "Save the imported presets")
	importCmd.Flags().String("save-current", "", "Save the imported parameters as a preset with this name")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}
