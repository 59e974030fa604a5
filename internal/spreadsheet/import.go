package spreadsheet

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
	"github.com/rgehrsitz/hfp/internal/config"
	"github.com/rgehrsitz/hfp/internal/domain"
	"github.com/xuri/excelize/v2"
)

// ImportResult holds what a workbook contained. Params is nil when the
// workbook has no parameter sheet.
type ImportResult struct {
	Params   *domain.Params
	Presets  []domain.Preset
	Warnings []string
}

// Import reads current parameters and presets from a workbook written by
// ExportParamsAndPresets. A projection workbook's Parameters sheet is accepted
// in place of Current Parameters. Missing sheets are skipped; preset rows that
// fail to parse become warnings.
func Import(r io.Reader) (ImportResult, error) {
	var result ImportResult

	f, err := excelize.OpenReader(r)
	if err != nil {
		return result, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	for _, sheet := range []string{SheetCurrentParameters, SheetParameters} {
		if !hasSheet(f, sheet) {
			continue
		}
		params, err := readParams(f, sheet)
		if err != nil {
			return result, fmt.Errorf("sheet %s: %w", sheet, err)
		}
		result.Params = &params
		break
	}

	if hasSheet(f, SheetPresets) {
		presets, warnings, err := readPresets(f)
		if err != nil {
			return result, fmt.Errorf("sheet %s: %w", SheetPresets, err)
		}
		result.Presets = presets
		result.Warnings = warnings
	}

	return result, nil
}

func hasSheet(f *excelize.File, name string) bool {
	idx, err := f.GetSheetIndex(name)
	return err == nil && idx >= 0
}

func rows(f *excelize.File, sheet string) ([][]string, error) {
	all, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, nil
	}
	return all[1:], nil
}

func readParams(f *excelize.File, sheet string) (domain.Params, error) {
	data, err := rows(f, sheet)
	if err != nil {
		return domain.Params{}, err
	}

	values := make(map[string]any, len(data))
	for _, row := range data {
		if len(row) < 3 {
			continue
		}
		key := strings.TrimSpace(row[0])
		value := strings.TrimSpace(row[2])
		if key == "" || value == "" {
			continue
		}
		values[key] = value
	}

	params, err := config.ParamsFromMap(values)
	if err != nil {
		return domain.Params{}, err
	}
	if err := config.ValidateParams(params); err != nil {
		return domain.Params{}, err
	}
	return params, nil
}

func readPresets(f *excelize.File) ([]domain.Preset, []string, error) {
	data, err := rows(f, SheetPresets)
	if err != nil {
		return nil, nil, err
	}

	var presets []domain.Preset
	var warnings []string
	for i, row := range data {
		if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		name := strings.TrimSpace(row[0])
		if len(row) < 3 {
			warnings = append(warnings, fmt.Sprintf("row %d (%s): no parameters", i+2, name))
			continue
		}

		var values map[string]any
		dec := json.NewDecoder(bytes.NewReader([]byte(row[2])))
		dec.UseNumber()
		if err := dec.Decode(&values); err != nil {
			warnings = append(warnings, fmt.Sprintf("row %d (%s): %v", i+2, name, err))
			continue
		}
		params, err := config.ParamsFromMap(values)
		if err == nil {
			err = config.ValidateParams(params)
		}
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("row %d (%s): %v", i+2, name, err))
			continue
		}

		presets = append(presets, domain.Preset{Name: name, Description: row[1], Params: params})
	}
	return presets, warnings, nil
}
