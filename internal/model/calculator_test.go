package model

import (
	"math"
	"testing"
)

func TestEstimatePurchaseBasic(t *testing.T) {
	panels := []Panel{
		{Width: 910, Height: 2400},
		{Width: 910, Height: 2400},
		{Width: 455, Height: 2400},
	}
	board := DefaultBoard()
	est := EstimatePurchase(panels, board, 3, 15.0, 12.0)

	expected := 913*2403*2 + 458*2403
	if est.TotalPanelArea != expected {
		t.Errorf("expected total area %d, got %d", expected, est.TotalPanelArea)
	}
	if est.SheetArea != 910*2430 {
		t.Errorf("unexpected sheet area %d", est.SheetArea)
	}
	exact := float64(expected) / float64(910*2430)
	if math.Abs(est.SheetsNeededExact-exact) > 1e-9 {
		t.Errorf("expected %.4f sheets, got %.4f", exact, est.SheetsNeededExact)
	}
	if est.SheetsNeededMin != 3 {
		t.Errorf("expected 3 sheets minimum, got %d", est.SheetsNeededMin)
	}
	if est.SheetsWithWaste < est.SheetsNeededMin {
		t.Error("sheets with waste should be >= minimum sheets")
	}
	if est.EstimatedCost != float64(est.SheetsWithWaste)*12.0 {
		t.Errorf("unexpected cost %.2f", est.EstimatedCost)
	}
}

func TestEstimatePurchaseZeroSheetArea(t *testing.T) {
	est := EstimatePurchase([]Panel{{Width: 100, Height: 100}}, BoardMaster{}, 0, 10, 5)
	if est.SheetsNeededMin != 0 || est.EstimatedCost != 0 {
		t.Errorf("expected empty estimate for zero sheet area, got %+v", est)
	}
	if est.TotalPanelArea != 10000 {
		t.Errorf("expected area to be reported anyway, got %d", est.TotalPanelArea)
	}
}

func TestEstimatePurchaseNoPanels(t *testing.T) {
	est := EstimatePurchase(nil, DefaultBoard(), 3, 15, 10)
	if est.SheetsNeededMin != 0 || est.SheetsWithWaste != 0 {
		t.Errorf("expected zero sheets, got %+v", est)
	}
}
