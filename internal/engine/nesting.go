package engine

import (
	"fmt"
	"sort"
	"time"

	"github.com/piwi3910/PanelCut/internal/model"
)

// NestResult holds the full nesting solution.
type NestResult struct {
	Placements  []model.NestPlacement `json:"placements"`
	Utilization float64               `json:"utilization"` // 0..1
	SheetCount  int                   `json:"sheet_count"`
	Unplaced    []model.Panel         `json:"unplaced"`
	Issues      []model.Issue         `json:"issues"`
}

// SheetPlacements returns the placements on one sheet in placement order.
func (r NestResult) SheetPlacements(sheetID int) []model.NestPlacement {
	var out []model.NestPlacement
	for _, p := range r.Placements {
		if p.SheetID == sheetID {
			out = append(out, p)
		}
	}
	return out
}

// Nester packs panels onto raw sheets with a shelf heuristic.
type Nester struct {
	Board model.BoardMaster
	Rules model.Rules
}

func NewNester(board model.BoardMaster, rules model.Rules) *Nester {
	return &Nester{Board: board, Rules: rules}
}

// Validate rejects input the shelf cursor cannot pack: a degenerate board, a
// negative kerf or a panel without positive size. Nest assumes it passed.
func (n *Nester) Validate(panels []model.Panel) error {
	if n.Board.Width <= 0 || n.Board.Height <= 0 {
		return model.Invalid("board", "dimensions must be positive, got %dx%d", n.Board.Width, n.Board.Height)
	}
	if n.Rules.Kerf < 0 {
		return model.Invalid("rules.kerf", "must not be negative, got %d", n.Rules.Kerf)
	}
	for i, p := range panels {
		if p.Width <= 0 || p.Height <= 0 {
			return model.Invalid(fmt.Sprintf("panels[%d]", i), "%s dimensions must be positive, got %dx%d", p.Label, p.Width, p.Height)
		}
	}
	return nil
}

// item is one panel waiting to be placed, in its primary orientation.
type item struct {
	index  int
	w, h   int
	forced bool
}

// orientation is a candidate footprint for an item.
type orientation struct {
	w, h    int
	rotated bool
}

// shelfState is the packer cursor.
type shelfState struct {
	sheet       int
	shelfY      int
	shelfHeight int
	cursorX     int
	part        int
}

// Nest places panels largest first, left to right in shelves, opening a new
// shelf when a row is full and a new sheet when no shelf fits. With
// preferYLong the rotated orientation is never tried, keeping the long grain
// vertical. Placed panels are stamped in place with their sheet and part
// numbers.
func (n *Nester) Nest(panels []model.Panel, preferYLong bool) NestResult {
	start := time.Now()
	W, H := n.Board.Width, n.Board.Height
	kerf := n.Rules.Kerf

	result := NestResult{}
	items := n.prepare(panels, &result)

	// Largest first; stable so equal areas keep input order.
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].w*items[i].h > items[j].w*items[j].h
	})

	st := shelfState{sheet: 1}
	place := func(it item, o orientation, x, y int) {
		st.part++
		panels[it.index].SheetNumber = st.sheet
		panels[it.index].PartNumber = st.part
		result.Placements = append(result.Placements, model.NestPlacement{
			SheetID:    st.sheet,
			X:          x,
			Y:          y,
			Width:      o.w,
			Height:     o.h,
			Rotated:    o.rotated,
			Forced:     it.forced,
			PanelIndex: it.index,
			Panel:      panels[it.index],
		})
		st.cursorX = x + o.w + kerf
		st.shelfHeight = max(st.shelfHeight, o.h+kerf)
	}

	for _, it := range items {
		candidates := n.orientations(it, preferYLong)
		placed := false

		// Current shelf
		for _, o := range candidates {
			if st.cursorX+o.w <= W && st.shelfY+o.h <= H {
				place(it, o, st.cursorX, st.shelfY)
				placed = true
				break
			}
		}

		// New shelf on the same sheet
		if !placed {
			nextY := st.shelfY + st.shelfHeight
			for _, o := range candidates {
				if o.w <= W && nextY+o.h <= H {
					st.shelfY = nextY
					st.shelfHeight = 0
					place(it, o, 0, nextY)
					placed = true
					break
				}
			}
		}

		// New sheet; the primary orientation always fits an empty sheet.
		if !placed {
			st = shelfState{sheet: st.sheet + 1}
			place(it, candidates[0], 0, 0)
		}
	}

	var used int
	for _, p := range result.Placements {
		used += p.Width * p.Height
		result.SheetCount = max(result.SheetCount, p.SheetID)
	}
	if result.SheetCount > 0 && n.Board.Area() > 0 {
		result.Utilization = float64(used) / float64(result.SheetCount*n.Board.Area())
	}

	result.Issues = append(result.Issues, model.TimingRecord("nesting", time.Since(start)))
	return result
}

// prepare builds the item list. Panels that only fit rotated are forced into
// the rotated orientation when the board allows rotation; panels that fit
// neither way are reported and skipped.
func (n *Nester) prepare(panels []model.Panel, result *NestResult) []item {
	W, H := n.Board.Width, n.Board.Height
	items := make([]item, 0, len(panels))

	for i, p := range panels {
		if p.Width <= W && p.Height <= H {
			items = append(items, item{index: i, w: p.Width, h: p.Height})
			continue
		}

		if n.Board.Rotatable && p.Height <= W && p.Width <= H {
			items = append(items, item{index: i, w: p.Height, h: p.Width, forced: true})
			result.Issues = append(result.Issues, model.Issue{
				Code:     model.CodeForcedRotation,
				Severity: model.SeverityInfo,
				Wall:     p.WallID,
				Panel:    p.Label,
				Message:  fmt.Sprintf("panel %dx%d only fits rotated on %dx%d sheet", p.Width, p.Height, W, H),
			})
			continue
		}

		result.Unplaced = append(result.Unplaced, p)
		result.Issues = append(result.Issues, model.Issue{
			Code:      model.CodeOversize,
			Severity:  model.SeverityWarning,
			Wall:      p.WallID,
			Panel:     p.Label,
			Measured:  max(p.Width, p.Height),
			Threshold: max(W, H),
			Message:   fmt.Sprintf("panel %dx%d exceeds %dx%d sheet in every permitted orientation", p.Width, p.Height, W, H),
		})
	}
	return items
}

// orientations lists the footprints to try for an item, primary first.
func (n *Nester) orientations(it item, preferYLong bool) []orientation {
	primary := orientation{w: it.w, h: it.h, rotated: it.forced}
	if it.forced || !n.Board.Rotatable || preferYLong {
		return []orientation{primary}
	}
	return []orientation{primary, {w: it.h, h: it.w, rotated: true}}
}
