package engine

import (
	"sort"

	"github.com/piwi3910/PanelCut/internal/model"
)

// MinSliver is the largest width or height (mm) of a clipped piece that is
// dropped as a sliver.
const MinSliver = 10

// ClipOpenings subtracts every opening from r and returns the remaining
// pieces. The pieces never overlap each other or any opening. Openings are
// applied in offset order so the result does not depend on input order.
func ClipOpenings(r model.Rect, openings []model.Opening, wallLength int) []model.Rect {
	holes := openingRects(openings, wallLength)

	pieces := []model.Rect{r}
	for _, hole := range holes {
		var next []model.Rect
		for _, piece := range pieces {
			next = append(next, subtractRect(piece, hole)...)
		}
		pieces = next
	}

	kept := pieces[:0]
	for _, p := range pieces {
		if p.W > MinSliver && p.H > MinSliver {
			kept = append(kept, p)
		}
	}
	return kept
}

// openingRects resolves the openings into elevation rectangles sorted by
// x, then y, then opening ID.
func openingRects(openings []model.Opening, wallLength int) []model.Rect {
	type hole struct {
		id   string
		rect model.Rect
	}
	holes := make([]hole, len(openings))
	for i, op := range openings {
		holes[i] = hole{id: op.ID, rect: op.Bounds(wallLength)}
	}
	sort.SliceStable(holes, func(i, j int) bool {
		a, b := holes[i].rect, holes[j].rect
		if a.X != b.X {
			return a.X < b.X
		}
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return holes[i].id < holes[j].id
	})

	rects := make([]model.Rect, len(holes))
	for i, h := range holes {
		rects[i] = h.rect
	}
	return rects
}

// subtractRect removes sub from base, returning up to 4 rectangles: the left
// and right strips at full height, and the bottom and top strips limited to
// the intersection's horizontal span.
func subtractRect(base, sub model.Rect) []model.Rect {
	in, ok := base.Intersect(sub)
	if !ok {
		return []model.Rect{base}
	}

	var result []model.Rect

	// Left portion
	if in.X > base.X {
		result = append(result, model.Rect{X: base.X, Y: base.Y, W: in.X - base.X, H: base.H})
	}

	// Right portion
	if in.Right() < base.Right() {
		result = append(result, model.Rect{X: in.Right(), Y: base.Y, W: base.Right() - in.Right(), H: base.H})
	}

	// Bottom portion (between left and right)
	if in.Y > base.Y {
		result = append(result, model.Rect{X: in.X, Y: base.Y, W: in.W, H: in.Y - base.Y})
	}

	// Top portion
	if in.Top() < base.Top() {
		result = append(result, model.Rect{X: in.X, Y: in.Top(), W: in.W, H: base.Top() - in.Top()})
	}

	return result
}
