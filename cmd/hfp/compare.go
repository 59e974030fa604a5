package main

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/hfp/internal/compare"
	"github.com/rgehrsitz/hfp/internal/domain"
	"github.com/rgehrsitz/hfp/internal/transform"
	"github.com/spf13/cobra"
)

var compareCmd = &cobra.Command{
	Use:   "compare [input-file]",
	Short: "Compare a base scenario against templates and presets",
	Long: `Compare a base scenario against alternative strategies.

The base is a scenario of the input file (--base, default the first) or, without
an input file, a preset (--base, default moderate). Alternatives are built-in
templates applied to the base (--with) and presets run as-is (--presets). With an
input file and neither flag, every other scenario of the file is compared.

Examples:
  hfp compare --with retire_plus_3,frugal
  hfp compare --base conservative --presets optimistic --format csv
  hfp compare household.yaml --base current
  hfp compare --list-templates`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		listTemplates, _ := cmd.Flags().GetBool("list-templates")
		if listTemplates {
			fmt.Fprint(cmd.OutOrStdout(), transform.GetTemplateHelp(transform.CreateBuiltInTemplates()))
			return nil
		}

		baseName, _ := cmd.Flags().GetString("base")
		templatesStr, _ := cmd.Flags().GetString("with")
		presetsStr, _ := cmd.Flags().GetString("presets")
		outputFormat, _ := cmd.Flags().GetString("format")

		templateNames := transform.ParseTemplateList(templatesStr)
		presetNames := transform.ParseTemplateList(presetsStr)
		ctx := cmd.Context()
		compareEngine := compare.NewCompareEngine(newEngine())

		var compSet *compare.ComparisonSet

		if len(args) == 1 {
			configData, err := loadConfig(args[0])
			if err != nil {
				return err
			}
			if baseName == "" {
				baseName = configData.Scenarios[0].Name
			}
			base, ok := configData.FindScenario(baseName)
			if !ok {
				return fmt.Errorf("base scenario %s not found in %s", baseName, args[0])
			}
			horizon := horizonFor(cmd, configData)

			if len(templateNames) == 0 && len(presetNames) == 0 {
				configData.Horizon = horizon
				compSet, err = compareEngine.CompareScenarios(ctx, configData, baseName, nil)
			} else {
				compSet, err = runCompare(cmd, compareEngine, *base, templateNames, presetNames, horizon, args[0])
			}
			if err != nil {
				return fmt.Errorf("comparison failed: %w", err)
			}
		} else {
			if len(templateNames) == 0 && len(presetNames) == 0 {
				return fmt.Errorf("nothing to compare: use --with templates or --presets (see --list-templates)")
			}
			if baseName == "" {
				baseName = "moderate"
			}
			preset, err := getPreset(ctx, baseName)
			if err != nil {
				return err
			}
			base := domain.Scenario{Name: preset.Name, Description: preset.Description, Params: preset.Params}
			compSet, err = runCompare(cmd, compareEngine, base, templateNames, presetNames, settings.Horizon, "preset "+preset.Name)
			if err != nil {
				return fmt.Errorf("comparison failed: %w", err)
			}
		}

		out := cmd.OutOrStdout()
		switch strings.ToLower(outputFormat) {
		case "csv":
			formatter := &compare.CSVFormatter{}
			text, err := formatter.Format(compSet)
			if err != nil {
				return fmt.Errorf("failed to format CSV: %w", err)
			}
			fmt.Fprint(out, text)

		case "json":
			formatter := &compare.JSONFormatter{Pretty: true}
			text, err := formatter.Format(compSet)
			if err != nil {
				return fmt.Errorf("failed to format JSON: %w", err)
			}
			fmt.Fprintln(out, text)

		case "table", "console", "":
			formatter := &compare.TableFormatter{}
			fmt.Fprint(out, formatter.Format(compSet))

		default:
			return fmt.Errorf("unknown output format: %s (valid: table, csv, json)", outputFormat)
		}
		return nil
	},
}

// runCompare resolves the preset alternatives and compares them and the
// templates against base.
func runCompare(
	cmd *cobra.Command,
	compareEngine *compare.CompareEngine,
	base domain.Scenario,
	templateNames, presetNames []string,
	horizon int,
	source string,
) (*compare.ComparisonSet, error) {

	var extra map[string]domain.Params
	if len(presetNames) > 0 {
		manager, err := openManager()
		if err != nil {
			return nil, err
		}
		defer manager.Close()

		if extra, err = manager.Resolve(cmd.Context(), presetNames); err != nil {
			return nil, err
		}
		// The base is already part of the set.
		delete(extra, base.Name)
	}

	return compareEngine.Compare(cmd.Context(), base, compare.CompareOptions{
		Templates: templateNames,
		Extra:     extra,
		Horizon:   horizon,
		Source:    source,
	})
}

func init() {
	compareCmd.Flags().String("base", "", "Base scenario (input file) or preset name")
	compareCmd.Flags().String("with", "", "Comma-separated list of templates to apply to the base")
	compareCmd.Flags().String("presets", "", "Comma-separated list of presets to compare")
	compareCmd.Flags().StringP("format", "f", "table", "Output format (table, csv, json)")
	compareCmd.Flags().Bool("list-templates", false, "List all available scenario templates")

	rootCmd.AddCommand(compareCmd)
}
