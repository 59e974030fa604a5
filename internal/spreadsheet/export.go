// Package spreadsheet exports projections and parameter sets to xlsx
// workbooks and reads parameters back.
package spreadsheet

import (
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/rgehrsitz/hfp/internal/calculation"
	"github.com/rgehrsitz/hfp/internal/config"
	"github.com/rgehrsitz/hfp/internal/domain"
	"github.com/rgehrsitz/hfp/pkg/money"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Sheet names.
const (
	SheetParameters        = "Parameters"
	SheetYearly            = "Yearly"
	SheetKeyEvents         = "Key Events"
	SheetCurrentParameters = "Current Parameters"
	SheetPresets           = "Presets"
)

var (
	paramHeader  = []any{"Parameter", "Label", "Value", "Description"}
	presetHeader = []any{"Name", "Description", "Parameters"}
	yearlyHeader = []any{
		"Year", "Age", "Average Salary", "Monthly Salary", "Contribution Base",
		"Pension Contribution", "Personal Pension", "Housing Fund", "Pension Years",
		"Medical Years", "Can Receive Pension", "Annual Pension", "Living Expense",
		"Savings", "Total Assets",
	}
	eventHeader = []any{"Event", "Year", "Age", "Savings", "Total Assets", "Annual Pension"}
)

// ExportProjection writes parameters, the yearly table and the key events.
func ExportProjection(w io.Writer, params domain.Params, records []domain.YearlyRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetParameters); err != nil {
		return err
	}
	if err := writeParams(f, SheetParameters, params); err != nil {
		return err
	}

	if _, err := f.NewSheet(SheetYearly); err != nil {
		return err
	}
	rows := make([][]any, 0, len(records))
	for _, r := range records {
		rows = append(rows, []any{
			r.Year, r.Age,
			r.AverageSalary.InexactFloat64(),
			r.MonthlySalary.InexactFloat64(),
			r.ContributionBase.InexactFloat64(),
			r.PensionContribution.InexactFloat64(),
			r.PersonalPensionAccount.InexactFloat64(),
			r.HousingFundAccount.InexactFloat64(),
			r.PensionYears, r.MedicalYears,
			yesNo(r.CanReceivePension),
			r.AnnualPensionReceived.InexactFloat64(),
			r.LivingExpense.InexactFloat64(),
			r.Savings.InexactFloat64(),
			r.TotalAssets.InexactFloat64(),
		})
	}
	if err := writeTable(f, SheetYearly, yearlyHeader, rows); err != nil {
		return err
	}

	if _, err := f.NewSheet(SheetKeyEvents); err != nil {
		return err
	}
	events := calculation.KeyEvents(records)
	rows = make([][]any, 0, len(events))
	for _, e := range events {
		row := []any{string(e.Type), e.Year, e.Age, money.FormatWan(e.Savings), money.FormatWan(e.TotalAssets), ""}
		if e.Type == domain.EventPensionStart {
			row[5] = money.FormatWan(pensionAt(records, e.Year))
		}
		rows = append(rows, row)
	}
	if err := writeTable(f, SheetKeyEvents, eventHeader, rows); err != nil {
		return err
	}

	return f.Write(w)
}

// ExportParamsAndPresets writes the current parameters and saved presets so
// they can be imported again.
func ExportParamsAndPresets(w io.Writer, params domain.Params, presets []domain.Preset) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetCurrentParameters); err != nil {
		return err
	}
	if err := writeParams(f, SheetCurrentParameters, params); err != nil {
		return err
	}

	if _, err := f.NewSheet(SheetPresets); err != nil {
		return err
	}
	rows := make([][]any, 0, len(presets))
	for _, p := range presets {
		data, err := json.Marshal(config.ParamsToMap(p.Params))
		if err != nil {
			return fmt.Errorf("encode preset %s: %w", p.Name, err)
		}
		rows = append(rows, []any{p.Name, p.Description, string(data)})
	}
	if err := writeTable(f, SheetPresets, presetHeader, rows); err != nil {
		return err
	}

	return f.Write(w)
}

func writeParams(f *excelize.File, sheet string, params domain.Params) error {
	rows := make([][]any, 0, len(domain.ParamFields))
	for _, field := range domain.ParamFields {
		var value any = field.Get(params).String()
		if field.Kind == domain.IntField {
			value = field.Get(params).IntPart()
		}
		rows = append(rows, []any{field.Key, field.Label, value, field.Description})
	}
	return writeTable(f, sheet, paramHeader, rows)
}

func writeTable(f *excelize.File, sheet string, header []any, rows [][]any) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetRowStyle(sheet, 1, 1, bold); err != nil {
		return err
	}
	last, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", last, 16)
}

func pensionAt(records []domain.YearlyRecord, year int) decimal.Decimal {
	for _, r := range records {
		if r.Year == year {
			return r.AnnualPensionReceived
		}
	}
	return decimal.Zero
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
