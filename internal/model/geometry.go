package model

// Rect is an axis-aligned rectangle in mm. X/Y is the lower-left corner in
// wall elevations and the upper-left corner on sheets; the arithmetic is
// the same either way.
type Rect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

func (r Rect) Right() int { return r.X + r.W }
func (r Rect) Top() int   { return r.Y + r.H }
func (r Rect) Area() int  { return r.W * r.H }

// Overlaps reports whether two rectangles share interior area. Touching
// edges do not count.
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.Right() && o.X < r.Right() && r.Y < o.Top() && o.Y < r.Top()
}

// Intersect returns the overlapping region and whether it is non-empty.
func (r Rect) Intersect(o Rect) (Rect, bool) {
	x0 := max(r.X, o.X)
	y0 := max(r.Y, o.Y)
	x1 := min(r.Right(), o.Right())
	y1 := min(r.Top(), o.Top())
	if x1 <= x0 || y1 <= y0 {
		return Rect{}, false
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}, true
}

// OverlapsSpan reports whether the rectangle's horizontal extent overlaps the
// open interval (x0, x1).
func (r Rect) OverlapsSpan(x0, x1 int) bool {
	return r.Right() > x0 && r.X < x1
}
