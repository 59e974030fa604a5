package main

import (
	"fmt"

	"github.com/rgehrsitz/hfp/internal/breakeven"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize [input-file]",
	Short: "Find break-even retirement age, expense ratio or starting savings",
	Long: `Search one parameter at a time for the value at which a plan just meets its goal.

Targets:
  retirement_age        earliest retirement age meeting the goal
  living_expense_ratio  highest living expense ratio meeting the goal
  initial_savings       lowest starting savings meeting the goal
  all                   every target, with recommendations

Goals:
  sustain               savings never go negative within the horizon (default)
  target_assets         final total assets reach --target-assets

Examples:
  hfp optimize --target retirement_age
  hfp optimize --preset conservative --target all
  hfp optimize household.yaml --scenario late --goal target_assets --target-assets 5000000`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target, _ := cmd.Flags().GetString("target")
		goal, _ := cmd.Flags().GetString("goal")
		targetAssets, _ := cmd.Flags().GetString("target-assets")
		format, _ := cmd.Flags().GetString("format")
		ctx := cmd.Context()

		req := breakeven.OptimizationRequest{
			Target: breakeven.OptimizationTarget(target),
			Goal:   breakeven.OptimizationGoal(goal),
		}
		if targetAssets != "" {
			amount, err := decimal.NewFromString(targetAssets)
			if err != nil {
				return fmt.Errorf("invalid --target-assets %q: %w", targetAssets, err)
			}
			req.Constraints.TargetAssets = &amount
		}

		name, base, horizon, err := baseScenario(cmd, args)
		if err != nil {
			return err
		}
		req.Name, req.Base, req.Horizon = name, base, horizon

		solver := breakeven.NewDefaultSolver(newEngine())
		if req.Target == breakeven.OptimizeAll {
			md, err := solver.OptimizeMultiDimensional(ctx, req)
			if err != nil {
				return fmt.Errorf("optimization failed: %w", err)
			}
			return writeOptimization(cmd, format, func(tf *breakeven.TableFormatter) string {
				return tf.FormatMultiDimensional(md)
			}, func(jf *breakeven.JSONFormatter) (string, error) {
				return jf.FormatMultiDimensional(md)
			})
		}

		result, err := solver.Optimize(ctx, req)
		if err != nil {
			return fmt.Errorf("optimization failed: %w", err)
		}
		return writeOptimization(cmd, format, func(tf *breakeven.TableFormatter) string {
			return tf.Format(result)
		}, func(jf *breakeven.JSONFormatter) (string, error) {
			return jf.Format(result)
		})
	},
}

func writeOptimization(cmd *cobra.Command, format string, table func(*breakeven.TableFormatter) string, asJSON func(*breakeven.JSONFormatter) (string, error)) error {
	out := cmd.OutOrStdout()
	switch format {
	case "table", "console":
		fmt.Fprint(out, table(&breakeven.TableFormatter{}))
	case "json":
		data, err := asJSON(&breakeven.JSONFormatter{Pretty: true})
		if err != nil {
			return err
		}
		fmt.Fprintln(out, data)
	default:
		return fmt.Errorf("unknown output format: %s (use table or json)", format)
	}
	return nil
}

func init() {
	optimizeCmd.Flags().String("preset", "", "Preset to optimize (default moderate)")
	optimizeCmd.Flags().String("scenario", "", "Scenario of the input file (default: first)")
	optimizeCmd.Flags().String("target", string(breakeven.OptimizeRetirementAge), "Parameter to optimize: retirement_age|living_expense_ratio|initial_savings|all")
	optimizeCmd.Flags().String("goal", string(breakeven.GoalSustain), "Goal: sustain|target_assets")
	optimizeCmd.Flags().String("target-assets", "", "Final total assets required by the target_assets goal")
	optimizeCmd.Flags().StringP("format", "f", "table", "Output format: table|json")

	rootCmd.AddCommand(optimizeCmd)
}
