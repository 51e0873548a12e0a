// Package importer reads rooms, openings and extra walls from the exchange
// formats used on site: CEDXM XML, opening schedules in CSV or Excel, and
// partition walls drawn in DXF. Tabular imports detect the delimiter and map
// columns by case-insensitive header aliases.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/piwi3910/PanelCut/internal/model"
	"github.com/xuri/excelize/v2"
)

// ImportResult holds the results of an opening import.
type ImportResult struct {
	Openings []model.Opening
	Errors   []string
	Warnings []string
}

// ColumnMapping maps semantic column roles to their indices in the data.
type ColumnMapping struct {
	ID         int
	Wall       int
	Type       int
	Width      int
	Height     int
	SillHeight int
	Offset     int
}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"id":     {"id", "opening", "opening id", "opening_id", "mark", "label", "name"},
	"wall":   {"wall", "wall id", "wall_id", "on wall"},
	"type":   {"type", "kind", "opening type", "opening_type"},
	"width":  {"width", "w"},
	"height": {"height", "h"},
	"sill":   {"sill", "sill height", "sill_height", "sill_mm"},
	"offset": {"offset", "position", "pos", "from start", "offset_from_wall_start"},
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DetectCSVDelimiter reads the file content and determines the most likely CSV delimiter.
// It tries comma, semicolon, tab, and pipe. The delimiter that produces the most
// consistent (non-one) column count across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// DetectColumns examines a header row and returns a ColumnMapping.
// Returns the mapping and true if a header was detected, or the positional
// mapping id, wall, type, width, height, sill, offset and false otherwise.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{ID: -1, Wall: -1, Type: -1, Width: -1, Height: -1, SillHeight: -1, Offset: -1}
	slots := map[string]*int{
		"id":     &mapping.ID,
		"wall":   &mapping.Wall,
		"type":   &mapping.Type,
		"width":  &mapping.Width,
		"height": &mapping.Height,
		"sill":   &mapping.SillHeight,
		"offset": &mapping.Offset,
	}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized != alias {
					continue
				}
				isHeader = true
				if slot := slots[role]; *slot == -1 {
					*slot = i
				}
			}
		}
	}

	if !isHeader {
		return ColumnMapping{ID: 0, Wall: 1, Type: 2, Width: 3, Height: 4, SillHeight: 5, Offset: 6}, false
	}
	return mapping, true
}

// getCell safely retrieves a cell value from a row by column index.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseMM parses a millimetre value, truncating any fraction.
func parseMM(s string) (int, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return int(v), nil
}

func parseOpeningType(s string) (model.OpeningType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "door", "d":
		return model.OpeningDoor, true
	case "window", "win", "w":
		return model.OpeningWindow, true
	default:
		return "", false
	}
}

// parseRow extracts an Opening from a row using the given column mapping.
// Returns the opening, any error message, and any warning messages.
func parseRow(row []string, mapping ColumnMapping, rowLabel string, count int) (model.Opening, string, []string) {
	var warnings []string

	id := getCell(row, mapping.ID)
	if id == "" {
		id = fmt.Sprintf("O-%d", count+1)
	}

	wall := strings.ToUpper(getCell(row, mapping.Wall))
	if wall == "" {
		return model.Opening{}, fmt.Sprintf("%s: Missing wall value", rowLabel), nil
	}

	widthStr := getCell(row, mapping.Width)
	if widthStr == "" {
		return model.Opening{}, fmt.Sprintf("%s: Missing width value", rowLabel), nil
	}
	width, err := parseMM(widthStr)
	if err != nil {
		return model.Opening{}, fmt.Sprintf("%s: Invalid width '%s'", rowLabel, widthStr), nil
	}

	heightStr := getCell(row, mapping.Height)
	if heightStr == "" {
		return model.Opening{}, fmt.Sprintf("%s: Missing height value", rowLabel), nil
	}
	height, err := parseMM(heightStr)
	if err != nil {
		return model.Opening{}, fmt.Sprintf("%s: Invalid height '%s'", rowLabel, heightStr), nil
	}

	if width <= 0 || height <= 0 {
		return model.Opening{}, fmt.Sprintf("%s: Width and height must be positive", rowLabel), nil
	}

	sill := 0
	if sillStr := getCell(row, mapping.SillHeight); sillStr != "" {
		sill, err = parseMM(sillStr)
		if err != nil || sill < 0 {
			return model.Opening{}, fmt.Sprintf("%s: Invalid sill height '%s'", rowLabel, sillStr), nil
		}
	}

	typeStr := getCell(row, mapping.Type)
	opType, ok := parseOpeningType(typeStr)
	if !ok {
		// Openings starting above the floor are windows.
		opType = model.OpeningDoor
		if sill > 0 {
			opType = model.OpeningWindow
		}
		if typeStr == "" {
			warnings = append(warnings, fmt.Sprintf("%s: Missing type, assuming %s", rowLabel, opType))
		} else {
			warnings = append(warnings, fmt.Sprintf("%s: Unknown type '%s', assuming %s", rowLabel, typeStr, opType))
		}
	}
	if opType == model.OpeningDoor && sill != 0 {
		warnings = append(warnings, fmt.Sprintf("%s: Door sill height %d ignored", rowLabel, sill))
		sill = 0
	}

	offset := model.CenterOffset()
	if offStr := getCell(row, mapping.Offset); offStr != "" {
		offset, err = model.ParseOffset(offStr)
		if err != nil {
			return model.Opening{}, fmt.Sprintf("%s: Invalid offset '%s'", rowLabel, offStr), nil
		}
	}

	return model.Opening{
		ID:         id,
		Wall:       wall,
		Type:       opType,
		Width:      width,
		Height:     height,
		SillHeight: sill,
		Offset:     offset,
	}, "", warnings
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ImportOpeningsCSV imports an opening schedule from a CSV file.
// It automatically detects the delimiter and maps columns by header names.
func ImportOpeningsCSV(path string) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	var warnings []string
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		warnings = append(warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	records, err := readCSV(bytes.NewReader(data), delimiter)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}
	return importFromRows(records, "Line", warnings)
}

// ImportOpeningsCSVFromReader imports openings from a CSV reader with a known delimiter.
func ImportOpeningsCSVFromReader(r io.Reader, delimiter rune) ImportResult {
	data, err := io.ReadAll(r)
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("Cannot read CSV: %v", err)}}
	}
	records, err := readCSV(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)), delimiter)
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("Cannot read CSV: %v", err)}}
	}
	return importFromRows(records, "Line", nil)
}

func readCSV(r io.Reader, delimiter rune) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	return reader.ReadAll()
}

// ImportOpeningsExcel imports openings from the first sheet of an Excel file.
func ImportOpeningsExcel(path string) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}

	return importFromRows(rows, "Row", nil)
}

// importFromRows is the shared import logic for both CSV and Excel data.
func importFromRows(rows [][]string, rowPrefix string, initialWarnings []string) ImportResult {
	result := ImportResult{Warnings: initialWarnings}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		var missing []string
		if mapping.Wall == -1 {
			missing = append(missing, "Wall")
		}
		if mapping.Width == -1 {
			missing = append(missing, "Width")
		}
		if mapping.Height == -1 {
			missing = append(missing, "Height")
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
	}

	seen := make(map[string]bool)
	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)
		op, errMsg, warnings := parseRow(row, mapping, rowLabel, len(result.Openings))
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		result.Warnings = append(result.Warnings, warnings...)

		if seen[op.ID] {
			result.Warnings = append(result.Warnings, fmt.Sprintf("%s: Duplicate opening id '%s'", rowLabel, op.ID))
		}
		seen[op.ID] = true
		result.Openings = append(result.Openings, op)
	}

	return result
}
