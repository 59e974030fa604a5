package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rgehrsitz/hfp/internal/calculation"
	"github.com/rgehrsitz/hfp/internal/domain"
	"github.com/rgehrsitz/hfp/internal/output"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var sensitivityCmd = &cobra.Command{
	Use:   "sensitivity [input-file]",
	Short: "Sweep parameters to see how robust a plan is",
	Long: `Perform sensitivity analysis to test how robust a household plan is to parameter changes.

Each --parameter is name:min-max:steps, where name is a parameter key (see
"hfp presets show"). A predefined name keeps its description and unit when its
range is overridden.

Examples:
  # Single parameter sweep
  hfp sensitivity --parameter deposit_rate:1-4:7

  # Multiple parameter sweep
  hfp sensitivity household.yaml --parameter salary_growth_rate:2-6:5 --parameter living_expense_ratio:0.3-0.7:5

  # Matrix analysis
  hfp sensitivity --parameter retirement_age:40-60:5 --parameter living_expense_ratio:0.3-0.7:5 --analysis-type matrix

  # Use predefined parameter sets
  hfp sensitivity --parameter-set common --preset conservative`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		paramArgs, _ := cmd.Flags().GetStringSlice("parameter")
		setName, _ := cmd.Flags().GetString("parameter-set")
		analysisType, _ := cmd.Flags().GetString("analysis-type")
		format, _ := cmd.Flags().GetString("format")
		ctx := cmd.Context()

		formatter := output.NewSensitivityFormatter(format)
		if formatter == nil {
			return fmt.Errorf("unknown output format: %s (use table, csv or json)", format)
		}

		var parameters []domain.SensitivityParameter
		switch {
		case setName != "" && len(paramArgs) > 0:
			return fmt.Errorf("use either --parameter or --parameter-set, not both")
		case setName != "":
			set, err := getPredefinedParameterSet(setName)
			if err != nil {
				return err
			}
			parameters = set
		case len(paramArgs) > 0:
			for _, arg := range paramArgs {
				p, err := parseParameterString(arg)
				if err != nil {
					return err
				}
				parameters = append(parameters, p)
			}
		default:
			return fmt.Errorf("must specify either --parameter or --parameter-set")
		}

		name, base, horizon, err := baseScenario(cmd, args)
		if err != nil {
			return err
		}

		analyzer := calculation.NewSensitivityAnalyzer(newEngine())
		var analysis any
		switch {
		case analysisType == domain.AnalysisMatrix:
			if len(parameters) != 2 {
				return fmt.Errorf("matrix analysis needs exactly two parameters, got %d", len(parameters))
			}
			analysis, err = analyzer.AnalyzeParameterMatrix(ctx, name, base, horizon, parameters[0], parameters[1])
		case len(parameters) == 1:
			analysis, err = analyzer.AnalyzeSingleParameter(ctx, name, base, horizon, parameters[0])
		default:
			analysis, err = analyzer.AnalyzeMultipleParameters(ctx, name, base, horizon, parameters)
		}
		if err != nil {
			return fmt.Errorf("sensitivity analysis failed: %w", err)
		}

		text, err := formatter.FormatSensitivityAnalysis(analysis)
		if err != nil {
			return fmt.Errorf("format output: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), text)
		return nil
	},
}

func init() {
	sensitivityCmd.Flags().String("preset", "", "Preset to analyze (default moderate)")
	sensitivityCmd.Flags().String("scenario", "", "Scenario of the input file (default: first)")
	sensitivityCmd.Flags().StringSlice("parameter", []string{}, "Parameter to analyze (format: name:min-max:steps)")
	sensitivityCmd.Flags().String("parameter-set", "", "Use predefined parameter set (common, critical)")
	sensitivityCmd.Flags().String("analysis-type", "", "Analysis type for two parameters (matrix); otherwise single or multi")
	sensitivityCmd.Flags().StringP("format", "f", "table", "Output format (table, csv, json)")

	rootCmd.AddCommand(sensitivityCmd)
}

func getPredefinedParameterSet(setName string) ([]domain.SensitivityParameter, error) {
	switch setName {
	case "common":
		return domain.GetCommonParameters(), nil
	case "critical":
		return domain.GetCriticalParameters(), nil
	default:
		return nil, fmt.Errorf("unknown parameter set: %s (use common or critical)", setName)
	}
}

// parseParameterString parses name:min-max:steps. The range splits on the
// last dash so a negative minimum still parses.
func parseParameterString(paramStr string) (domain.SensitivityParameter, error) {
	parts := strings.Split(paramStr, ":")
	if len(parts) != 3 {
		return domain.SensitivityParameter{}, fmt.Errorf("invalid parameter format: %s (expected name:min-max:steps)", paramStr)
	}
	name, rangeStr, stepsStr := parts[0], parts[1], parts[2]

	field, ok := domain.LookupParamField(name)
	if !ok {
		return domain.SensitivityParameter{}, fmt.Errorf("unknown parameter %q", name)
	}

	i := strings.LastIndex(rangeStr, "-")
	if i <= 0 {
		return domain.SensitivityParameter{}, fmt.Errorf("invalid range format: %s (expected min-max)", rangeStr)
	}
	minValue, err := decimal.NewFromString(rangeStr[:i])
	if err != nil {
		return domain.SensitivityParameter{}, fmt.Errorf("invalid min value: %v", err)
	}
	maxValue, err := decimal.NewFromString(rangeStr[i+1:])
	if err != nil {
		return domain.SensitivityParameter{}, fmt.Errorf("invalid max value: %v", err)
	}
	steps, err := strconv.Atoi(stepsStr)
	if err != nil {
		return domain.SensitivityParameter{}, fmt.Errorf("invalid steps value: %v", err)
	}

	param, ok := domain.FindCommonParameter(name)
	if !ok {
		param = domain.SensitivityParameter{Name: name, Description: field.Description, Unit: "amount"}
		if field.Kind == domain.IntField {
			param.Unit = "years"
		}
	}
	param.MinValue = minValue
	param.MaxValue = maxValue
	param.Steps = steps

	return param, param.Validate()
}
