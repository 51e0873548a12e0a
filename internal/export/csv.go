package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/piwi3910/PanelCut/internal/model"
)

// File names written by WriteCSVFiles.
const (
	PanelsCSV  = "panels.csv"
	NestingCSV = "nesting.csv"
	IssuesCSV  = "errors.csv"
)

// CSV files start with a UTF-8 byte order mark so spreadsheet tools pick the
// right encoding for board names.
const bom = "\ufeff"

var (
	panelHeader     = []string{"part_no", "wall", "x0", "y0", "w", "h", "requires_cutout", "is_cut_piece", "note", "sheet", "part"}
	placementHeader = []string{"board_id", "x", "y", "w", "h", "rotated", "forced", "panel_ref"}
	issueHeader     = []string{"code", "severity", "wall", "panel", "measured", "threshold", "phase", "elapsed_ms", "message"}
)

// WritePanelsCSV writes one row per panel in allocation order.
func WritePanelsCSV(w io.Writer, panels []model.Panel) error {
	rows := make([][]string, 0, len(panels))
	for _, p := range panels {
		rows = append(rows, []string{
			p.Label,
			p.WallID,
			strconv.Itoa(p.X),
			strconv.Itoa(p.Y),
			strconv.Itoa(p.Width),
			strconv.Itoa(p.Height),
			strconv.FormatBool(p.RequiresCutout),
			strconv.FormatBool(p.IsCutPiece),
			p.Note,
			optionalInt(p.SheetNumber),
			optionalInt(p.PartNumber),
		})
	}
	return writeCSV(w, panelHeader, rows)
}

// WritePlacementsCSV writes one row per placement in placement order.
func WritePlacementsCSV(w io.Writer, placements []model.NestPlacement) error {
	rows := make([][]string, 0, len(placements))
	for _, p := range placements {
		rows = append(rows, []string{
			strconv.Itoa(p.SheetID),
			strconv.Itoa(p.X),
			strconv.Itoa(p.Y),
			strconv.Itoa(p.Width),
			strconv.Itoa(p.Height),
			strconv.FormatBool(p.Rotated),
			strconv.FormatBool(p.Forced),
			p.Panel.Label,
		})
	}
	return writeCSV(w, placementHeader, rows)
}

// WriteIssuesCSV writes one row per issue.
func WriteIssuesCSV(w io.Writer, issues []model.Issue) error {
	rows := make([][]string, 0, len(issues))
	for _, is := range issues {
		elapsed := ""
		if is.Code == model.CodeTiming {
			elapsed = strconv.FormatFloat(float64(is.Elapsed.Microseconds())/1000, 'f', 3, 64)
		}
		rows = append(rows, []string{
			is.Code,
			string(is.Severity),
			is.Wall,
			is.Panel,
			optionalInt(is.Measured),
			optionalInt(is.Threshold),
			is.Phase,
			elapsed,
			is.Message,
		})
	}
	return writeCSV(w, issueHeader, rows)
}

// WriteCSVFiles writes panels.csv, nesting.csv and errors.csv into dir and
// returns their paths.
func WriteCSVFiles(dir string, r Report) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create export directory: %w", err)
	}

	outputs := []struct {
		name  string
		write func(io.Writer) error
	}{
		{PanelsCSV, func(w io.Writer) error { return WritePanelsCSV(w, r.Allocation.Panels) }},
		{NestingCSV, func(w io.Writer) error { return WritePlacementsCSV(w, r.Nesting.Placements) }},
		{IssuesCSV, func(w io.Writer) error { return WriteIssuesCSV(w, r.Issues()) }},
	}

	paths := make([]string, 0, len(outputs))
	for _, out := range outputs {
		path := filepath.Join(dir, out.name)
		if err := writeFile(path, out.write); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Base(path), err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}

func writeCSV(w io.Writer, header []string, rows [][]string) error {
	if _, err := io.WriteString(w, bom); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}

// optionalInt formats zero as an empty cell.
func optionalInt(v int) string {
	if v == 0 {
		return ""
	}
	return strconv.Itoa(v)
}
