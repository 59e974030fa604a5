package spreadsheet

import (
	"bytes"
	"testing"

	"github.com/rgehrsitz/hfp/internal/calculation"
	"github.com/rgehrsitz/hfp/internal/domain"
	"github.com/rgehrsitz/hfp/internal/presets"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func openWorkbook(t *testing.T, buf *bytes.Buffer) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func assertSameParams(t *testing.T, want, got domain.Params) {
	t.Helper()
	for _, field := range domain.ParamFields {
		assert.True(t, field.Get(want).Equal(field.Get(got)),
			"%s: want %s, got %s", field.Key, field.Get(want), field.Get(got))
	}
}

func TestExportProjection(t *testing.T) {
	params := presets.DefaultParams()
	records := calculation.NewEngine().ProjectYears(params, 30)

	var buf bytes.Buffer
	require.NoError(t, ExportProjection(&buf, params, records))

	f := openWorkbook(t, &buf)
	assert.Equal(t, []string{SheetParameters, SheetYearly, SheetKeyEvents}, f.GetSheetList())

	yearly, err := f.GetRows(SheetYearly)
	require.NoError(t, err)
	require.Len(t, yearly, 1+31, "header plus one row per year")
	assert.Equal(t, "Year", yearly[0][0])
	assert.Equal(t, "2025", yearly[1][0])
	assert.Equal(t, "34", yearly[1][1])

	events, err := f.GetRows(SheetKeyEvents)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, string(domain.EventRetirement), events[1][0])
	assert.Equal(t, "2036", events[1][1])
	assert.Equal(t, string(domain.EventPensionStart), events[2][0])
	assert.Equal(t, "60", events[2][2])
	assert.NotEmpty(t, events[2][5], "Should show the annual pension")
}

func TestExportProjection_ReimportsParameters(t *testing.T) {
	params := presets.DefaultParams()

	var buf bytes.Buffer
	require.NoError(t, ExportProjection(&buf, params, calculation.NewEngine().ProjectYears(params, 5)))

	result, err := Import(&buf)
	require.NoError(t, err)
	require.NotNil(t, result.Params)
	assertSameParams(t, params, *result.Params)
	assert.Empty(t, result.Presets)
}

func TestExportAndImportParamsAndPresets(t *testing.T) {
	current := presets.DefaultParams()
	current.RetirementAge = 50
	current.InitialSavings = decimal.RequireFromString("1234567.89")

	saved := []domain.Preset{
		{Name: "my plan", Description: "retire at 55", Params: presets.Defaults()[0].Params},
		{Name: "lean", Params: presets.Defaults()[2].Params},
	}
	saved[0].Params.RetirementAge = 55

	var buf bytes.Buffer
	require.NoError(t, ExportParamsAndPresets(&buf, current, saved))

	f := openWorkbook(t, &buf)
	assert.Equal(t, []string{SheetCurrentParameters, SheetPresets}, f.GetSheetList())

	result, err := Import(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.NotNil(t, result.Params)
	assertSameParams(t, current, *result.Params)

	require.Len(t, result.Presets, 2)
	assert.Equal(t, "my plan", result.Presets[0].Name)
	assert.Equal(t, "retire at 55", result.Presets[0].Description)
	assertSameParams(t, saved[0].Params, result.Presets[0].Params)
	assertSameParams(t, saved[1].Params, result.Presets[1].Params)
	assert.Empty(t, result.Warnings)
}

func TestImport_SkipsMissingSheets(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetName("Sheet1", "Notes"))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	result, err := Import(&buf)
	require.NoError(t, err)
	assert.Nil(t, result.Params)
	assert.Empty(t, result.Presets)
}

func TestImport_BadPresetRowsBecomeWarnings(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetName("Sheet1", SheetPresets))
	require.NoError(t, f.SetSheetRow(SheetPresets, "A1", &[]any{"Name", "Description", "Parameters"}))
	require.NoError(t, f.SetSheetRow(SheetPresets, "A2", &[]any{"broken", "", "{not json"}))
	require.NoError(t, f.SetSheetRow(SheetPresets, "A3", &[]any{"partial", "", `{"start_year": 2025}`}))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	result, err := Import(&buf)
	require.NoError(t, err)
	assert.Empty(t, result.Presets)
	require.Len(t, result.Warnings, 2)
	assert.Contains(t, result.Warnings[0], "row 2 (broken)")
	assert.Contains(t, result.Warnings[1], "row 3 (partial)")
}

func TestImport_InvalidCurrentParameters(t *testing.T) {
	params := presets.DefaultParams()
	params.CurrentAge = -1

	var buf bytes.Buffer
	require.NoError(t, ExportParamsAndPresets(&buf, params, nil))

	_, err := Import(&buf)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidParameter)
}

func TestImport_NotAWorkbook(t *testing.T) {
	_, err := Import(bytes.NewReader([]byte("plain text")))
	assert.Error(t, err)
}
