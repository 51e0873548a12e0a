package model

import "sort"

// Remnant is a usable rectangular strip left on a nested sheet.
type Remnant struct {
	SheetID int `json:"sheet_id"`
	X       int `json:"x"`
	Y       int `json:"y"`
	Width   int `json:"width"`
	Height  int `json:"height"`
}

// Area returns the remnant area in mm².
func (r Remnant) Area() int {
	return r.Width * r.Height
}

// MinRemnantDimension is the minimum width or height (mm) for a leftover strip
// to be worth keeping.
const MinRemnantDimension = 50

// MinRemnantArea is the minimum area (mm²) of a reusable remnant.
const MinRemnantArea = 10000 // 100mm x 100mm equivalent

// DetectRemnants returns the reusable strips of one sheet: the strip right of
// all placements and, below the placements, the strip up to their right edge.
// An empty sheet is one remnant covering the whole board.
func DetectRemnants(sheetID int, placements []NestPlacement, board BoardMaster, kerf int) []Remnant {
	var onSheet []NestPlacement
	for _, p := range placements {
		if p.SheetID == sheetID {
			onSheet = append(onSheet, p)
		}
	}

	if len(onSheet) == 0 {
		return []Remnant{{SheetID: sheetID, Width: board.Width, Height: board.Height}}
	}

	var maxRight, maxBottom int
	for _, p := range onSheet {
		maxRight = max(maxRight, p.X+p.Width+kerf)
		maxBottom = max(maxBottom, p.Y+p.Height+kerf)
	}

	usable := func(w, h int) bool {
		return w >= MinRemnantDimension && h >= MinRemnantDimension && w*h >= MinRemnantArea
	}

	var remnants []Remnant

	rightW := board.Width - maxRight
	if usable(rightW, board.Height) {
		remnants = append(remnants, Remnant{
			SheetID: sheetID,
			X:       maxRight,
			Y:       0,
			Width:   rightW,
			Height:  board.Height,
		})
	}

	bottomH := board.Height - maxBottom
	bottomW := min(maxRight, board.Width)
	if usable(bottomW, bottomH) {
		remnants = append(remnants, Remnant{
			SheetID: sheetID,
			X:       0,
			Y:       maxBottom,
			Width:   bottomW,
			Height:  bottomH,
		})
	}

	sort.SliceStable(remnants, func(i, j int) bool {
		return remnants[i].Area() > remnants[j].Area()
	})
	return remnants
}

// DetectAllRemnants runs DetectRemnants for sheets 1..sheetCount.
func DetectAllRemnants(placements []NestPlacement, sheetCount int, board BoardMaster, kerf int) []Remnant {
	var all []Remnant
	for id := 1; id <= sheetCount; id++ {
		all = append(all, DetectRemnants(id, placements, board, kerf)...)
	}
	return all
}
