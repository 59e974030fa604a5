package output

import (
	"bytes"
	_ "embed"
	"html/template"
)

// HTMLFormatter produces a standalone HTML report.
type HTMLFormatter struct{}

func (h HTMLFormatter) Name() string { return "html" }

//go:embed templates/report.html.tmpl
var htmlTemplateSource string

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"curr":    FormatCurrency,
	"wan":     FormatWan,
	"metrics": KeyMetrics,
	"status":  status,
	"yesno":   yesNo,
}).Parse(htmlTemplateSource))

func (h HTMLFormatter) Format(report *Report) ([]byte, error) {
	var buf bytes.Buffer
	data := struct {
		*Report
		Recommendation Recommendation
		Assumptions    []string
	}{
		Report:         report,
		Recommendation: AnalyzeScenarios(report),
		Assumptions:    DefaultAssumptions,
	}
	if len(report.Assumptions) > 0 {
		data.Assumptions = report.Assumptions
	}
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
