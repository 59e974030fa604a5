package output

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/rgehrsitz/hfp/internal/calculation"
	"github.com/rgehrsitz/hfp/internal/domain"
)

// Report is the input of every formatter: one summary per scenario, sorted by name.
type Report struct {
	Horizon     int                       `json:"horizon"`
	Assumptions []string                  `json:"assumptions,omitempty"`
	Scenarios   []*domain.ScenarioSummary `json:"scenarios"`
}

// NewReport summarizes scenario runner output.
func NewReport(horizon int, results map[string][]domain.YearlyRecord) *Report {
	return &Report{
		Horizon:   horizon,
		Scenarios: calculation.SummarizeAll(results),
	}
}

// Formatter renders a report.
type Formatter interface {
	Name() string
	Format(report *Report) ([]byte, error)
}

// FormatterFunc adapts a function to the Formatter interface.
type FormatterFunc struct {
	ID string
	F  func(report *Report) ([]byte, error)
}

func (f FormatterFunc) Name() string { return f.ID }

func (f FormatterFunc) Format(report *Report) ([]byte, error) { return f.F(report) }

var formatters = map[string]Formatter{}

var formatAliases = map[string]string{
	"verbose":         "console",
	"console-verbose": "console",
	"table":           "console",
	"summary":         "console-lite",
	"yearly-csv":      "csv",
	"htm":             "html",
}

func register(f Formatter) {
	formatters[f.Name()] = f
}

func init() {
	register(ConsoleFormatter{})
	register(ConsoleVerboseFormatter{})
	register(CSVYearly{})
	register(CSVSummarizer{})
	register(JSONFormatter{})
	register(HTMLFormatter{})
}

// GetFormatterByName resolves a formatter by name or alias; nil when unknown.
func GetFormatterByName(name string) Formatter {
	name = strings.ToLower(strings.TrimSpace(name))
	if target, ok := formatAliases[name]; ok {
		name = target
	}
	return formatters[name]
}

// AvailableFormatterNames lists registered formatter names.
func AvailableFormatterNames() []string {
	names := make([]string, 0, len(formatters))
	for name := range formatters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AvailableFormatAliases lists accepted aliases.
func AvailableFormatAliases() []string {
	aliases := make([]string, 0, len(formatAliases))
	for alias := range formatAliases {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)
	return aliases
}

// WriteFormatted renders the report into a timestamped file in the working directory.
func WriteFormatted(f Formatter, report *Report, ext string) (string, error) {
	data, err := f.Format(report)
	if err != nil {
		return "", err
	}
	filename := fmt.Sprintf("household_projection_%s.%s", time.Now().Format("20060102_150405"), ext)
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return filename, nil
}
