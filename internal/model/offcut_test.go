package model

import (
	"testing"
)

func TestDetectRemnantsEmptySheet(t *testing.T) {
	board := DefaultBoard()
	remnants := DetectRemnants(1, nil, board, 3)
	if len(remnants) != 1 {
		t.Fatalf("expected 1 remnant for empty sheet, got %d", len(remnants))
	}
	if remnants[0].Width != 910 || remnants[0].Height != 2430 {
		t.Errorf("expected full sheet as remnant, got %dx%d", remnants[0].Width, remnants[0].Height)
	}
}

func TestDetectRemnantsRightAndBottom(t *testing.T) {
	board := DefaultBoard()
	placements := []NestPlacement{
		{SheetID: 1, X: 0, Y: 0, Width: 455, Height: 1200},
		{SheetID: 2, X: 0, Y: 0, Width: 910, Height: 2430},
	}
	remnants := DetectRemnants(1, placements, board, 3)
	if len(remnants) != 2 {
		t.Fatalf("expected right and bottom remnants, got %+v", remnants)
	}

	// Right strip 452 x 2430 is larger than bottom strip 458 x 1227.
	right := remnants[0]
	if right.X != 458 || right.Width != 452 || right.Height != 2430 {
		t.Errorf("unexpected right remnant %+v", right)
	}
	bottom := remnants[1]
	if bottom.Y != 1203 || bottom.Width != 458 || bottom.Height != 1227 {
		t.Errorf("unexpected bottom remnant %+v", bottom)
	}
}

func TestDetectRemnantsFullSheet(t *testing.T) {
	board := DefaultBoard()
	placements := []NestPlacement{{SheetID: 1, Width: 910, Height: 2430}}
	if got := DetectRemnants(1, placements, board, 0); len(got) != 0 {
		t.Errorf("expected no remnants on a full sheet, got %+v", got)
	}
}

func TestDetectAllRemnants(t *testing.T) {
	board := DefaultBoard()
	placements := []NestPlacement{
		{SheetID: 1, Width: 910, Height: 2430},
		{SheetID: 2, Width: 910, Height: 1000},
	}
	all := DetectAllRemnants(placements, 2, board, 0)
	if len(all) != 1 || all[0].SheetID != 2 || all[0].Height != 1430 {
		t.Errorf("expected one bottom remnant on sheet 2, got %+v", all)
	}
}
