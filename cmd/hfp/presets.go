package main

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/hfp/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "Manage named parameter presets",
	Long: `List, inspect, save and delete presets.

The built-in presets (conservative, moderate, optimistic) are read-only. Saved
presets live in the preset store chosen by --preset-store and --presets-path.`,
}

var presetsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List built-in and saved presets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, err := openManager()
		if err != nil {
			return err
		}
		defer manager.Close()

		all, err := manager.List(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-20s %-9s %s\n", "NAME", "KIND", "DESCRIPTION")
		for _, p := range all {
			kind := "saved"
			if p.BuiltIn {
				kind = "built-in"
			}
			fmt.Fprintf(out, "%-20s %-9s %s\n", p.Name, kind, p.Description)
		}
		return nil
	},
}

var presetsShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show the parameters of a preset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		preset, err := getPreset(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Preset: %s\n", preset.Name)
		if preset.Description != "" {
			fmt.Fprintf(out, "Description: %s\n", preset.Description)
		}
		if !preset.CreatedAt.IsZero() {
			fmt.Fprintf(out, "Saved: %s\n", preset.CreatedAt.Format("2006-01-02 15:04"))
		}
		fmt.Fprintln(out, strings.Repeat("-", 60))
		for _, f := range domain.ParamFields {
			fmt.Fprintf(out, "%-28s %-26s %s\n", f.Label, f.Key, f.Get(preset.Params).String())
		}
		return nil
	},
}

var presetsSaveCmd = &cobra.Command{
	Use:   "save <name>",
	Short: "Save a preset from another preset or a scenario file",
	Long: `Save a new preset, or replace a saved one with the same name.

The parameters start from --from (a preset, default moderate) or from a scenario
of --file, and are then changed by --set key=value.

Examples:
  hfp presets save late --from moderate --set retirement_age=55
  hfp presets save mine --file household.yaml --scenario current`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		from, _ := cmd.Flags().GetString("from")
		file, _ := cmd.Flags().GetString("file")
		scenarioName, _ := cmd.Flags().GetString("scenario")
		description, _ := cmd.Flags().GetString("description")
		sets, _ := cmd.Flags().GetStringArray("set")

		manager, err := openManager()
		if err != nil {
			return err
		}
		defer manager.Close()
		ctx := cmd.Context()

		var params domain.Params
		switch {
		case file != "":
			if from != "" {
				return fmt.Errorf("use either --from or --file, not both")
			}
			configData, err := loadConfig(file)
			if err != nil {
				return err
			}
			scenario := &configData.Scenarios[0]
			if scenarioName != "" {
				var ok bool
				if scenario, ok = configData.FindScenario(scenarioName); !ok {
					return fmt.Errorf("scenario %s not found in %s", scenarioName, file)
				}
			}
			params = scenario.Params
			if description == "" {
				description = fmt.Sprintf("saved from %s (%s)", file, scenario.Name)
			}
		default:
			if from == "" {
				from = "moderate"
			}
			source, err := manager.Get(ctx, from)
			if err != nil {
				return err
			}
			params = source.Params
			if description == "" {
				description = "saved from " + source.Name
			}
		}

		if err := applySets(&params, sets); err != nil {
			return err
		}

		if err := manager.Save(ctx, domain.Preset{Name: args[0], Description: description, Params: params}); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved preset %s\n", args[0])
		return nil
	},
}

var presetsDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a saved preset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, err := openManager()
		if err != nil {
			return err
		}
		defer manager.Close()

		if err := manager.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted preset %s\n", args[0])
		return nil
	},
}

// applySets applies key=value overrides to params.
func applySets(params *domain.Params, sets []string) error {
	for _, set := range sets {
		key, raw, ok := strings.Cut(set, "=")
		if !ok {
			return fmt.Errorf("invalid --set %q: expected key=value", set)
		}
		key = strings.TrimSpace(key)
		field, ok := domain.LookupParamField(key)
		if !ok {
			return fmt.Errorf("invalid --set %q: unknown parameter %s", set, key)
		}
		value, err := decimal.NewFromString(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("invalid --set %q: %w", set, err)
		}
		if field.Kind == domain.IntField && !value.IsInteger() {
			return fmt.Errorf("invalid --set %q: %s must be a whole number", set, key)
		}
		field.Set(params, value)
	}
	return nil
}

func init() {
	presetsSaveCmd.Flags().String("from", "", "Preset to start from (default moderate)")
	presetsSaveCmd.Flags().String("file", "", "Scenario file to start from")
	presetsSaveCmd.Flags().String("scenario", "", "Scenario of --file (default: first)")
	presetsSaveCmd.Flags().String("description", "", "Preset description")
	presetsSaveCmd.Flags().StringArray("set", nil, "Parameter override as key=value (repeatable)")

	presetsCmd.AddCommand(presetsListCmd)
	presetsCmd.AddCommand(presetsShowCmd)
	presetsCmd.AddCommand(presetsSaveCmd)
	presetsCmd.AddCommand(presetsDeleteCmd)
	rootCmd.AddCommand(presetsCmd)
}
