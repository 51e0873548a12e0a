package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Sheet names used by ExportExcel.
const (
	SheetPanels  = "Panels"
	SheetNesting = "Nesting"
	SheetIssues  = "Issues"
	SheetSummary = "Summary"
)

// ExportExcel writes the run as a workbook with Panels, Nesting, Issues and
// Summary sheets. Column layouts match the CSV exports.
func ExportExcel(path string, r Report) error {
	if len(r.Allocation.Panels) == 0 {
		return fmt.Errorf("excel export: %w", ErrNothingToExport)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetPanels); err != nil {
		return err
	}
	for _, name := range []string{SheetNesting, SheetIssues, SheetSummary} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("failed to add sheet %s: %w", name, err)
		}
	}

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6E6E6"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	panelRows := make([][]interface{}, 0, len(r.Allocation.Panels))
	for _, p := range r.Allocation.Panels {
		panelRows = append(panelRows, []interface{}{
			p.Label, p.WallID, p.X, p.Y, p.Width, p.Height,
			p.RequiresCutout, p.IsCutPiece, p.Note, p.SheetNumber, p.PartNumber,
		})
	}
	if err := writeSheet(f, SheetPanels, header, panelHeader, panelRows); err != nil {
		return err
	}

	nestRows := make([][]interface{}, 0, len(r.Nesting.Placements))
	for _, p := range r.Nesting.Placements {
		nestRows = append(nestRows, []interface{}{
			p.SheetID, p.X, p.Y, p.Width, p.Height, p.Rotated, p.Forced, p.Panel.Label,
		})
	}
	if err := writeSheet(f, SheetNesting, header, placementHeader, nestRows); err != nil {
		return err
	}

	issues := r.Issues()
	issueRows := make([][]interface{}, 0, len(issues))
	for _, is := range issues {
		issueRows = append(issueRows, []interface{}{
			is.Code, string(is.Severity), is.Wall, is.Panel, is.Measured, is.Threshold,
			is.Phase, float64(is.Elapsed.Microseconds()) / 1000, is.Message,
		})
	}
	if err := writeSheet(f, SheetIssues, header, issueHeader, issueRows); err != nil {
		return err
	}

	if err := writeSheet(f, SheetSummary, header, []string{"item", "value"}, summaryRows(r)); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, style int, header []string, rows [][]interface{}) error {
	headerRow := make([]interface{}, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &headerRow); err != nil {
		return fmt.Errorf("failed to write %s header: %w", sheet, err)
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
		return err
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+2, err)
		}
	}
	return nil
}

func summaryRows(r Report) [][]interface{} {
	cut := 0
	for _, p := range r.Allocation.Panels {
		if p.IsCutPiece {
			cut++
		}
	}
	return [][]interface{}{
		{"Project", r.Project.Name},
		{"Board", r.Board.Name},
		{"Board size (mm)", fmt.Sprintf("%d x %d x %.1f", r.Board.Width, r.Board.Height, r.Board.Thickness)},
		{"Stud pitch (mm)", r.Allocation.StudPitch},
		{"Walls", len(r.Allocation.Walls)},
		{"Panels", len(r.Allocation.Panels)},
		{"Off-cuts", cut},
		{"Min piece violations", len(r.Allocation.Violations())},
		{"Sheets", r.Nesting.SheetCount},
		{"Utilization (%)", r.Nesting.Utilization * 100},
		{"Unplaced", len(r.Nesting.Unplaced)},
		{"Remnants", len(r.Remnants())},
	}
}
