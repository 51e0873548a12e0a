package export

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportExcel(t *testing.T) {
	r := buildTestReport(t)
	path := filepath.Join(t.TempDir(), "result.xlsx")

	require.NoError(t, ExportExcel(path, r))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetPanels, SheetNesting, SheetIssues, SheetSummary}, f.GetSheetList())

	rows, err := f.GetRows(SheetPanels)
	require.NoError(t, err)
	require.Len(t, rows, len(r.Allocation.Panels)+1)
	assert.Equal(t, panelHeader, rows[0])
	assert.Equal(t, r.Allocation.Panels[0].Label, rows[1][0])
	assert.Equal(t, "W1", rows[1][1])

	nest, err := f.GetRows(SheetNesting)
	require.NoError(t, err)
	assert.Len(t, nest, len(r.Nesting.Placements)+1)

	summary, err := f.GetRows(SheetSummary)
	require.NoError(t, err)
	require.NotEmpty(t, summary)
	assert.Equal(t, []string{"Project", "Test Room"}, summary[1])
}

func TestExportExcel_Empty(t *testing.T) {
	err := ExportExcel(filepath.Join(t.TempDir(), "empty.xlsx"), Report{})
	assert.ErrorIs(t, err, ErrNothingToExport)
}
