package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/rgehrsitz/hfp/internal/domain"
	"github.com/shopspring/decimal"
)

// SensitivityFormatter defines a formatter for sensitivity analysis. The
// analysis is a *domain.ParameterSensitivityAnalysis or a *domain.SensitivityMatrix.
type SensitivityFormatter interface {
	FormatSensitivityAnalysis(analysis any) (string, error)
	Name() string
}

// SensitivityConsoleFormatter formats sensitivity analysis output for console
type SensitivityConsoleFormatter struct{}

func (scf SensitivityConsoleFormatter) Name() string { return "console" }

func (scf SensitivityConsoleFormatter) FormatSensitivityAnalysis(analysis any) (string, error) {
	var buf bytes.Buffer

	switch a := analysis.(type) {
	case *domain.ParameterSensitivityAnalysis:
		return scf.formatAnalysis(&buf, a)
	case *domain.SensitivityMatrix:
		return scf.formatMatrixAnalysis(&buf, a)
	default:
		return "", fmt.Errorf("unsupported analysis type: %T", analysis)
	}
}

func (scf SensitivityConsoleFormatter) formatAnalysis(buf *bytes.Buffer, analysis *domain.ParameterSensitivityAnalysis) (string, error) {
	if len(analysis.Parameters) == 0 || len(analysis.Results) == 0 {
		return "", fmt.Errorf("no parameters or results in analysis")
	}

	fmt.Fprintf(buf, "SENSITIVITY ANALYSIS: %s (%s, %d-year horizon)\n", analysis.BaseScenarioName, analysis.AnalysisType, analysis.Horizon)
	fmt.Fprintln(buf, strings.Repeat("=", 65))
	fmt.Fprintf(buf, "Base final total assets: %s\n\n", FormatWan(analysis.BaseMetrics.FinalTotalAssets))

	for _, param := range analysis.Parameters {
		fmt.Fprintln(buf, strings.ToUpper(strings.ReplaceAll(param.Name, "_", " ")))
		fmt.Fprintf(buf, "Base: %s  Range: %s to %s (%d steps)\n",
			formatParamValue(param, param.BaseValue), formatParamValue(param, param.MinValue),
			formatParamValue(param, param.MaxValue), param.Steps)
		if param.Description != "" {
			fmt.Fprintf(buf, "Description: %s\n", param.Description)
		}
		fmt.Fprintf(buf, "%-12s %14s %14s %10s %10s\n", "Value", "Final Assets", "Change", "Change %", "Depleted")
		fmt.Fprintln(buf, strings.Repeat("-", 65))

		for _, r := range analysis.Results {
			v, ok := r.ParameterValues[param.Name]
			if !ok {
				continue
			}
			m := r.KeyMetrics
			fmt.Fprintf(buf, "%-12s %14s %14s %9s%% %10s\n",
				formatParamValue(param, v),
				FormatWan(m.FinalTotalAssets),
				FormatWan(m.FinalAssetsChange),
				m.FinalAssetsChangePct.StringFixed(1),
				depletedLabel(m.SavingsDepletedAge))
		}
		fmt.Fprintf(buf, "Sensitivity score: %s\n\n", analysis.Summary.SensitivityScores[param.Name].StringFixed(1))
	}

	fmt.Fprintf(buf, "MOST SENSITIVE PARAMETER: %s\n", analysis.Summary.MostSensitiveParameter)
	fmt.Fprintf(buf, "RISK LEVEL: %s\n\n", analysis.Summary.RiskLevel)
	fmt.Fprintln(buf, "RECOMMENDATIONS:")
	for _, rec := range analysis.Summary.Recommendations {
		fmt.Fprintf(buf, "  • %s\n", rec)
	}

	return buf.String(), nil
}

func (scf SensitivityConsoleFormatter) formatMatrixAnalysis(buf *bytes.Buffer, matrix *domain.SensitivityMatrix) (string, error) {
	if len(matrix.MatrixResults) == 0 || len(matrix.MatrixResults[0]) == 0 {
		return "", fmt.Errorf("empty sensitivity matrix")
	}
	p1, p2 := matrix.Parameter1, matrix.Parameter2

	fmt.Fprintf(buf, "SENSITIVITY MATRIX ANALYSIS: %s (%d-year horizon)\n", matrix.BaseScenarioName, matrix.Horizon)
	fmt.Fprintln(buf, strings.Repeat("=", 65))
	fmt.Fprintf(buf, "Parameter 1: %s (%s to %s)\n", p1.Name, formatParamValue(p1, p1.MinValue), formatParamValue(p1, p1.MaxValue))
	fmt.Fprintf(buf, "Parameter 2: %s (%s to %s)\n", p2.Name, formatParamValue(p2, p2.MinValue), formatParamValue(p2, p2.MaxValue))
	fmt.Fprintf(buf, "Final total assets; base %s\n\n", FormatWan(matrix.BaseMetrics.FinalTotalAssets))

	fmt.Fprintf(buf, "%-12s", "")
	for _, r := range matrix.MatrixResults[0] {
		fmt.Fprintf(buf, " %12s", formatParamValue(p2, r.ParameterValues[p2.Name]))
	}
	fmt.Fprintln(buf)
	fmt.Fprintln(buf, strings.Repeat("-", 12+13*len(matrix.MatrixResults[0])))

	for _, row := range matrix.MatrixResults {
		fmt.Fprintf(buf, "%-12s", formatParamValue(p1, row[0].ParameterValues[p1.Name]))
		for _, r := range row {
			fmt.Fprintf(buf, " %12s", FormatWan(r.KeyMetrics.FinalTotalAssets))
		}
		fmt.Fprintln(buf)
	}
	fmt.Fprintln(buf)

	fmt.Fprintf(buf, "MOST SENSITIVE COMBINATION: %s\n", matrix.Summary.MostSensitiveCombination)
	fmt.Fprintf(buf, "INTERACTION EFFECT: %s\n", FormatWan(matrix.Summary.InteractionEffect))
	fmt.Fprintf(buf, "RISK LEVEL: %s\n\n", matrix.Summary.RiskLevel)
	fmt.Fprintln(buf, "RECOMMENDATIONS:")
	for _, rec := range matrix.Summary.Recommendations {
		fmt.Fprintf(buf, "  • %s\n", rec)
	}

	return buf.String(), nil
}

// SensitivityCSVFormatter formats sensitivity analysis output as CSV
type SensitivityCSVFormatter struct{}

func (scf SensitivityCSVFormatter) Name() string { return "csv" }

func (scf SensitivityCSVFormatter) FormatSensitivityAnalysis(analysis any) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	var err error
	switch a := analysis.(type) {
	case *domain.ParameterSensitivityAnalysis:
		err = scf.writeAnalysis(w, a)
	case *domain.SensitivityMatrix:
		err = scf.writeMatrix(w, a)
	default:
		return "", fmt.Errorf("unsupported analysis type: %T", analysis)
	}
	if err != nil {
		return "", err
	}
	w.Flush()
	return buf.String(), w.Error()
}

var sensitivityMetricHeader = []string{
	"retirement_year", "savings_at_retirement", "final_total_assets", "peak_total_assets",
	"savings_depleted_age", "final_assets_change", "final_assets_change_pct",
}

func metricColumns(m domain.SensitivityMetrics) []string {
	depleted := ""
	if m.SavingsDepletedAge != nil {
		depleted = fmt.Sprint(*m.SavingsDepletedAge)
	}
	return []string{
		fmt.Sprint(m.RetirementYear),
		m.SavingsAtRetirement.StringFixed(2),
		m.FinalTotalAssets.StringFixed(2),
		m.PeakTotalAssets.StringFixed(2),
		depleted,
		m.FinalAssetsChange.StringFixed(2),
		m.FinalAssetsChangePct.StringFixed(2),
	}
}

func (scf SensitivityCSVFormatter) writeAnalysis(w *csv.Writer, analysis *domain.ParameterSensitivityAnalysis) error {
	if err := w.Write(append([]string{"parameter_name", "parameter_value"}, sensitivityMetricHeader...)); err != nil {
		return err
	}
	for _, r := range analysis.Results {
		for name, v := range r.ParameterValues {
			if err := w.Write(append([]string{name, v.String()}, metricColumns(r.KeyMetrics)...)); err != nil {
				return err
			}
		}
	}
	return nil
}

func (scf SensitivityCSVFormatter) writeMatrix(w *csv.Writer, matrix *domain.SensitivityMatrix) error {
	header := append([]string{"parameter_1_name", "parameter_1_value", "parameter_2_name", "parameter_2_value"}, sensitivityMetricHeader...)
	if err := w.Write(header); err != nil {
		return err
	}
	p1, p2 := matrix.Parameter1.Name, matrix.Parameter2.Name
	for _, row := range matrix.MatrixResults {
		for _, r := range row {
			rec := append([]string{p1, r.ParameterValues[p1].String(), p2, r.ParameterValues[p2].String()}, metricColumns(r.KeyMetrics)...)
			if err := w.Write(rec); err != nil {
				return err
			}
		}
	}
	return nil
}

// SensitivityJSONFormatter formats sensitivity analysis output as JSON
type SensitivityJSONFormatter struct{}

func (sjf SensitivityJSONFormatter) Name() string { return "json" }

func (sjf SensitivityJSONFormatter) FormatSensitivityAnalysis(analysis any) (string, error) {
	switch analysis.(type) {
	case *domain.ParameterSensitivityAnalysis, *domain.SensitivityMatrix:
	default:
		return "", fmt.Errorf("unsupported analysis type: %T", analysis)
	}
	data, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data) + "\n", nil
}

// NewSensitivityFormatter creates a sensitivity formatter based on the format
// name, or nil for an unknown one.
func NewSensitivityFormatter(format string) SensitivityFormatter {
	switch strings.ToLower(format) {
	case "console", "table":
		return SensitivityConsoleFormatter{}
	case "csv":
		return SensitivityCSVFormatter{}
	case "json":
		return SensitivityJSONFormatter{}
	default:
		return nil
	}
}

func formatParamValue(p domain.SensitivityParameter, v decimal.Decimal) string {
	switch p.Unit {
	case "percent":
		return v.StringFixed(2) + "%"
	case "years":
		return v.StringFixed(0)
	case "amount":
		return FormatWan(v)
	default:
		return v.StringFixed(3)
	}
}

func depletedLabel(age *int) string {
	if age == nil {
		return "never"
	}
	return fmt.Sprintf("age %d", *age)
}
