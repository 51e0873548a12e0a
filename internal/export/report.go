// Package export writes allocation and nesting results to the formats used
// in the shop: CSV and Excel cut lists, sheet layout PDFs and QR-coded part
// labels.
package export

import (
	"errors"

	"github.com/piwi3910/PanelCut/internal/engine"
	"github.com/piwi3910/PanelCut/internal/model"
)

// ErrNothingToExport is returned when a report has no sheets or panels.
var ErrNothingToExport = errors.New("nothing to export")

// Report is one complete run: the input project and board, and the engine output.
type Report struct {
	Project    model.Project
	Board      model.BoardMaster
	Rules      model.Rules
	Allocation engine.Allocation
	Nesting    engine.NestResult
}

// Issues returns the allocation issues followed by the nesting issues.
func (r Report) Issues() []model.Issue {
	out := make([]model.Issue, 0, len(r.Allocation.Issues)+len(r.Nesting.Issues))
	out = append(out, r.Allocation.Issues...)
	return append(out, r.Nesting.Issues...)
}

// Remnants lists the reusable strips left on every nested sheet.
func (r Report) Remnants() []model.Remnant {
	return model.DetectAllRemnants(r.Nesting.Placements, r.Nesting.SheetCount, r.Board, r.Rules.Kerf)
}

// Purchase estimates the sheets to buy from panel area alone.
func (r Report) Purchase(wastePercent, pricePerSheet float64) model.PurchaseEstimate {
	return model.EstimatePurchase(r.Allocation.Panels, r.Board, r.Rules.Kerf, wastePercent, pricePerSheet)
}
