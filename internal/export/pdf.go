package export

import (
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/PanelCut/internal/model"
)

// wallColor represents an RGB fill for panels of one wall.
type wallColor struct {
	R, G, B int
}

// wallColors cycles by wall order so panels from the same wall share a color.
var wallColors = []wallColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	statsHeight  = 20.0
	drawAreaTop  = marginTop + headerHeight + 5.0
)

// sheetPage is the data drawn on one PDF page.
type sheetPage struct {
	id         int
	placements []model.NestPlacement
	remnants   []model.Remnant
}

func (s sheetPage) usedArea() int {
	used := 0
	for _, p := range s.placements {
		used += p.Width * p.Height
	}
	return used
}

// ExportPDF generates the nesting layout: one page per sheet with every
// placed panel and the reusable remnants, followed by a summary page.
func ExportPDF(path string, r Report) error {
	if r.Nesting.SheetCount == 0 {
		return fmt.Errorf("pdf export: %w", ErrNothingToExport)
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	colors := wallColorIndex(r.Allocation.Walls)
	remnants := r.Remnants()

	for id := 1; id <= r.Nesting.SheetCount; id++ {
		page := sheetPage{id: id, placements: r.Nesting.SheetPlacements(id)}
		for _, rem := range remnants {
			if rem.SheetID == id {
				page.remnants = append(page.remnants, rem)
			}
		}
		pdf.AddPage()
		renderSheetPage(pdf, tr, r.Board, page, colors)
	}

	pdf.AddPage()
	renderSummaryPage(pdf, tr, r)

	return pdf.OutputFileAndClose(path)
}

func wallColorIndex(walls model.WallTable) map[string]wallColor {
	out := make(map[string]wallColor, len(walls))
	for i, w := range walls {
		out[w.ID] = wallColors[i%len(wallColors)]
	}
	return out
}

// renderSheetPage draws a single nested sheet on the current PDF page.
func renderSheetPage(pdf *fpdf.Fpdf, tr func(string) string, board model.BoardMaster, page sheetPage, colors map[string]wallColor) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Sheet %d: %s (%d x %d mm)", page.id, board.Name, board.Width, board.Height)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, tr(title), "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	used := page.usedArea()
	stats := fmt.Sprintf("Panels: %d | Used area: %d mm² | Sheet area: %d mm² | Utilization: %.1f%%",
		len(page.placements), used, board.Area(), percent(used, board.Area()))
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, tr(stats), "", 0, "L", false, 0, "")

	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - statsHeight

	scale := math.Min(drawWidth/float64(board.Width), drawHeight/float64(board.Height))
	canvasW := float64(board.Width) * scale
	canvasH := float64(board.Height) * scale
	offsetX := marginLeft + (drawWidth-canvasW)/2
	offsetY := drawAreaTop

	// Board background (gypsum grey)
	pdf.SetFillColor(225, 225, 220)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "FD")

	drawRemnants(pdf, page.remnants, scale, offsetX, offsetY)

	for _, p := range page.placements {
		col := colors[p.Panel.WallID]
		pw := float64(p.Width) * scale
		ph := float64(p.Height) * scale
		px := offsetX + float64(p.X)*scale
		py := offsetY + float64(p.Y)*scale

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.3)
		pdf.Rect(px, py, pw, ph, "FD")

		if pw > 8 && ph > 8 {
			pdf.SetFont("Helvetica", "", labelFontSize(pw, ph))
			pdf.SetTextColor(0, 0, 0)

			label := fmt.Sprintf("%s #%d", p.Panel.Label, p.Panel.PartNumber)
			dims := fmt.Sprintf("%dx%d", p.Panel.Width, p.Panel.Height)
			labelW := pdf.GetStringWidth(label)
			dimsW := pdf.GetStringWidth(dims)

			if labelW < pw-2 {
				pdf.SetXY(px+(pw-labelW)/2, py+ph/2-4)
				pdf.CellFormat(labelW, 4, label, "", 0, "C", false, 0, "")
			}
			if ph > 14 && dimsW < pw-2 {
				pdf.SetXY(px+(pw-dimsW)/2, py+ph/2)
				pdf.CellFormat(dimsW, 4, dims, "", 0, "C", false, 0, "")
			}
		}
	}

	drawDimensionAnnotations(pdf, board, offsetX, offsetY, canvasW, canvasH)
	drawPanelsLegend(pdf, page.placements, colors, offsetY+canvasH+5)
}

// drawRemnants outlines the reusable strips of a sheet with a hatch pattern.
func drawRemnants(pdf *fpdf.Fpdf, remnants []model.Remnant, scale, offsetX, offsetY float64) {
	for _, rem := range remnants {
		zx := offsetX + float64(rem.X)*scale
		zy := offsetY + float64(rem.Y)*scale
		zw := float64(rem.Width) * scale
		zh := float64(rem.Height) * scale

		pdf.SetFillColor(235, 245, 235)
		pdf.SetDrawColor(0, 120, 0)
		pdf.SetLineWidth(0.3)
		pdf.Rect(zx, zy, zw, zh, "FD")
		drawHatchPattern(pdf, zx, zy, zw, zh)

		if zw > 20 && zh > 8 {
			pdf.SetFont("Helvetica", "B", 6)
			pdf.SetTextColor(0, 100, 0)
			text := fmt.Sprintf("REMNANT %dx%d", rem.Width, rem.Height)
			labelW := pdf.GetStringWidth(text)
			if labelW < zw-2 {
				pdf.SetXY(zx+(zw-labelW)/2, zy+zh/2-2)
				pdf.CellFormat(labelW, 4, text, "", 0, "C", false, 0, "")
			}
		}
	}
	pdf.SetTextColor(0, 0, 0)
}

// drawHatchPattern draws diagonal lines inside a rectangle.
func drawHatchPattern(pdf *fpdf.Fpdf, x, y, w, h float64) {
	pdf.SetLineWidth(0.15)

	spacing := 4.0
	maxDist := w + h

	for d := spacing; d < maxDist; d += spacing {
		x1 := x + math.Max(0, d-h)
		y1 := y + math.Min(h, d)
		x2 := x + math.Min(w, d)
		y2 := y + math.Max(0, d-w)

		pdf.Line(x1, y1, x2, y2)
	}
}

// drawDimensionAnnotations adds width and height labels outside the sheet rectangle.
func drawDimensionAnnotations(pdf *fpdf.Fpdf, board model.BoardMaster, offsetX, offsetY, canvasW, canvasH float64) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)

	widthLabel := fmt.Sprintf("%d mm", board.Width)
	wLabelW := pdf.GetStringWidth(widthLabel)
	pdf.SetXY(offsetX+(canvasW-wLabelW)/2, offsetY+canvasH+1)
	pdf.CellFormat(wLabelW, 4, widthLabel, "", 0, "C", false, 0, "")

	heightLabel := fmt.Sprintf("%d mm", board.Height)
	pdf.TransformBegin()
	pdf.TransformRotate(90, offsetX-3, offsetY+canvasH/2)
	hLabelW := pdf.GetStringWidth(heightLabel)
	pdf.SetXY(offsetX-3-hLabelW/2, offsetY+canvasH/2-2)
	pdf.CellFormat(hLabelW, 4, heightLabel, "", 0, "C", false, 0, "")
	pdf.TransformEnd()

	pdf.SetTextColor(0, 0, 0)
}

// drawPanelsLegend renders a compact legend of placed panels below the sheet.
func drawPanelsLegend(pdf *fpdf.Fpdf, placements []model.NestPlacement, colors map[string]wallColor, startY float64) {
	if len(placements) == 0 {
		return
	}

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, startY)
	pdf.CellFormat(30, 4, "Panels placed:", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	xPos := marginLeft + 32
	maxX := pageWidth - marginRight

	for _, p := range placements {
		col := colors[p.Panel.WallID]
		label := fmt.Sprintf("#%d %s %s (%dx%d)", p.Panel.PartNumber, p.Panel.Label, p.Panel.WallID, p.Panel.Width, p.Panel.Height)
		if p.Rotated {
			label += " R"
		}
		labelW := pdf.GetStringWidth(label) + 6

		if xPos+labelW > maxX {
			startY += 5
			xPos = marginLeft
		}
		if startY > pageHeight-marginBottom {
			return
		}

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.Rect(xPos, startY+0.5, 3, 3, "F")

		pdf.SetXY(xPos+4, startY)
		pdf.CellFormat(labelW-4, 4, label, "", 0, "L", false, 0, "")

		xPos += labelW + 2
	}
}

// renderSummaryPage draws the run summary: totals, per-sheet breakdown,
// wall table and the issues that need attention.
func renderSummaryPage(pdf *fpdf.Fpdf, tr func(string) string, r Report) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	title := "Panel Allocation Summary"
	if r.Project.Name != "" {
		title += ": " + r.Project.Name
	}
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, tr(title), "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18

	cut := 0
	for _, p := range r.Allocation.Panels {
		if p.IsCutPiece {
			cut++
		}
	}
	summaryItems := []struct {
		label string
		value string
	}{
		{"Board", fmt.Sprintf("%s (%d x %d x %.1f mm)", r.Board.Name, r.Board.Width, r.Board.Height, r.Board.Thickness)},
		{"Stud Pitch", fmt.Sprintf("%d mm", r.Allocation.StudPitch)},
		{"Panels", fmt.Sprintf("%d (%d off-cuts)", len(r.Allocation.Panels), cut)},
		{"Sheets Used", fmt.Sprintf("%d", r.Nesting.SheetCount)},
		{"Utilization", fmt.Sprintf("%.1f%%", r.Nesting.Utilization*100)},
		{"Unplaced Panels", fmt.Sprintf("%d", len(r.Nesting.Unplaced))},
		{"Kerf / Min Piece", fmt.Sprintf("%d mm / %d mm", r.Rules.Kerf, r.Rules.MinPiece)},
	}

	y = sectionTitle(pdf, "Overall Statistics", y)
	pdf.SetFont("Helvetica", "", 10)
	for _, item := range summaryItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(50, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(100, 6, tr(item.value), "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 6
	}
	y += 4

	// Wall table on the left, sheet breakdown on the right.
	tableTop := y
	y = sectionTitle(pdf, "Walls", y)
	wallWidths := []float64{15, 25, 25, 25}
	y = tableHeader(pdf, marginLeft, y, wallWidths, []string{"Wall", "Length", "Direction", "Panels"})
	pdf.SetFont("Helvetica", "", 8)
	for i, w := range r.Allocation.Walls {
		if y > pageHeight-marginBottom-10 {
			break
		}
		count := 0
		for _, p := range r.Allocation.Panels {
			if p.WallID == w.ID {
				count++
			}
		}
		y = tableRow(pdf, marginLeft, y, wallWidths, i, []string{
			w.ID, fmt.Sprintf("%d", w.Length), string(w.Direction), fmt.Sprintf("%d", count),
		})
	}

	sheetX := marginLeft + 110
	sy := sectionTitleAt(pdf, "Sheet Breakdown", sheetX, tableTop)
	sheetWidths := []float64{20, 25, 35, 30}
	sy = tableHeader(pdf, sheetX, sy, sheetWidths, []string{"Sheet", "Panels", "Used (mm²)", "Utilization"})
	pdf.SetFont("Helvetica", "", 8)
	for id := 1; id <= r.Nesting.SheetCount; id++ {
		if sy > pageHeight-marginBottom-10 {
			break
		}
		page := sheetPage{id: id, placements: r.Nesting.SheetPlacements(id)}
		used := page.usedArea()
		sy = tableRow(pdf, sheetX, sy, sheetWidths, id-1, []string{
			fmt.Sprintf("%d", id),
			fmt.Sprintf("%d", len(page.placements)),
			fmt.Sprintf("%d", used),
			fmt.Sprintf("%.1f%%", percent(used, r.Board.Area())),
		})
	}

	y = math.Max(y, sy) + 6
	warnings := attentionLines(r)
	if len(warnings) > 0 && y < pageHeight-marginBottom-10 {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetTextColor(200, 0, 0)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(200, 7, "WARNING: Issues", "", 0, "L", false, 0, "")
		y += 8

		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(0, 0, 0)
		for _, line := range warnings {
			if y > pageHeight-marginBottom-5 {
				break
			}
			pdf.SetXY(marginLeft+5, y)
			pdf.CellFormat(250, 5, tr("- "+line), "", 0, "L", false, 0, "")
			y += 5
		}
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by PanelCut - Wall Board Allocation and Nesting", "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

// attentionLines lists min-piece violations, forced rotations and oversize panels.
func attentionLines(r Report) []string {
	var lines []string
	for _, is := range r.Issues() {
		if is.Severity == model.SeverityInfo && is.Code != model.CodeForcedRotation {
			continue
		}
		prefix := is.Code
		if is.Wall != "" {
			prefix += " " + is.Wall
		}
		if is.Panel != "" {
			prefix += " " + is.Panel
		}
		lines = append(lines, prefix+": "+is.Message)
	}
	return lines
}

func sectionTitle(pdf *fpdf.Fpdf, title string, y float64) float64 {
	return sectionTitleAt(pdf, title, marginLeft, y)
}

func sectionTitleAt(pdf *fpdf.Fpdf, title string, x, y float64) float64 {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(x, y)
	pdf.CellFormat(100, 7, title, "", 0, "L", false, 0, "")
	return y + 8
}

func tableHeader(pdf *fpdf.Fpdf, x, y float64, widths []float64, headers []string) float64 {
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetFillColor(230, 230, 230)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	for i, h := range headers {
		pdf.SetXY(x, y)
		pdf.CellFormat(widths[i], 5, tr(h), "1", 0, "C", true, 0, "")
		x += widths[i]
	}
	return y + 5
}

func tableRow(pdf *fpdf.Fpdf, x, y float64, widths []float64, index int, cells []string) float64 {
	if index%2 == 0 {
		pdf.SetFillColor(245, 245, 245)
	} else {
		pdf.SetFillColor(255, 255, 255)
	}
	for i, c := range cells {
		pdf.SetXY(x, y)
		pdf.CellFormat(widths[i], 5, c, "1", 0, "C", true, 0, "")
		x += widths[i]
	}
	return y + 5
}

// labelFontSize returns an appropriate font size based on the rectangle dimensions.
func labelFontSize(w, h float64) float64 {
	minDim := math.Min(w, h)
	switch {
	case minDim > 40:
		return 8
	case minDim > 20:
		return 7
	default:
		return 6
	}
}

func percent(part, whole int) float64 {
	if whole <= 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}
