package model

import "math"

// PurchaseEstimate holds the results of a sheet purchasing calculation.
type PurchaseEstimate struct {
	TotalPanelArea    int     `json:"total_panel_area"`    // mm², kerf allowance included
	SheetArea         int     `json:"sheet_area"`          // mm² of one raw sheet
	SheetsNeededExact float64 `json:"sheets_needed_exact"` // fractional number of sheets
	SheetsNeededMin   int     `json:"sheets_needed_min"`   // ceiling of exact
	SheetsWithWaste   int     `json:"sheets_with_waste"`   // including the waste factor
	WastePercent      float64 `json:"waste_percent"`
	EstimatedCost     float64 `json:"estimated_cost"`
	PricePerSheet     float64 `json:"price_per_sheet"`
	Kerf              int     `json:"kerf"`
}

// EstimatePurchase computes how many sheets to buy for a panel list from area
// alone. It is a lower bound that ignores packing geometry; compare it with
// the nesting sheet count.
func EstimatePurchase(panels []Panel, board BoardMaster, kerf int, wastePercent, pricePerSheet float64) PurchaseEstimate {
	var total int
	for _, p := range panels {
		total += (p.Width + kerf) * (p.Height + kerf)
	}

	sheetArea := board.Area()
	if sheetArea <= 0 {
		return PurchaseEstimate{
			TotalPanelArea: total,
			WastePercent:   wastePercent,
			Kerf:           kerf,
		}
	}

	exact := float64(total) / float64(sheetArea)
	minSheets := int(math.Ceil(exact))

	withWaste := int(math.Ceil(exact * (1.0 + wastePercent/100.0)))
	if withWaste < minSheets {
		withWaste = minSheets
	}

	return PurchaseEstimate{
		TotalPanelArea:    total,
		SheetArea:         sheetArea,
		SheetsNeededExact: exact,
		SheetsNeededMin:   minSheets,
		SheetsWithWaste:   withWaste,
		WastePercent:      wastePercent,
		EstimatedCost:     float64(withWaste) * pricePerSheet,
		PricePerSheet:     pricePerSheet,
		Kerf:              kerf,
	}
}
