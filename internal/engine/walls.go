// Package engine allocates wall-covering panels for a rectangular room and
// nests them onto raw sheet stock.
//
// A run resolves the wall table (ResolveWalls, MergeExtraWalls), segments
// each wall on its stud grid (Allocator.Allocate) and packs the resulting
// panels onto sheets (Nester.Nest). Everything is integer millimetres and
// every step is deterministic for identical input.
package engine

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/piwi3910/PanelCut/internal/model"
)

// DefaultExtraWallSuffix is the numeric suffix of the first extra wall (W5).
const DefaultExtraWallSuffix = 5

// MaxWallLength bounds wall lengths and room height (mm).
const MaxWallLength = 100_000

// corner describes how one room wall meets its neighbours. Precedence is
// clockwise: every wall beats its predecessor and loses to its successor,
// except W1 which wins at both ends.
type corner struct {
	id          string
	from, to    int
	direction   model.Direction
	loseAtStart bool
	loseAtEnd   bool
}

var roomCorners = [4]corner{
	{id: "W1", from: 0, to: 1, direction: model.DirectionHorizontal},
	{id: "W2", from: 1, to: 2, direction: model.DirectionVertical, loseAtStart: true},
	{id: "W3", from: 2, to: 3, direction: model.DirectionHorizontal, loseAtEnd: true},
	{id: "W4", from: 3, to: 0, direction: model.DirectionVertical, loseAtEnd: true},
}

// ResolveWalls computes the effective geometry of W1..W4 under the corner
// winning rule. A losing endpoint moves toward the other end of its wall by
// exactly the wall thickness, so every corner is counted once.
func ResolveWalls(polygon []model.Point, thickness int) (model.WallTable, error) {
	if len(polygon) != 4 {
		return nil, model.Invalid("room.polygon", "expected 4 vertices, got %d", len(polygon))
	}
	if thickness < 0 {
		return nil, model.Invalid("room.wall_thickness", "must not be negative, got %d", thickness)
	}

	table := make(model.WallTable, 0, len(roomCorners))
	for _, c := range roomCorners {
		start, end := polygon[c.from], polygon[c.to]

		var base int
		switch c.direction {
		case model.DirectionHorizontal:
			if start.Y != end.Y {
				return nil, model.Invalid("room.polygon", "%s must be horizontal, got %v -> %v", c.id, start, end)
			}
			base = abs(end.X - start.X)
		default:
			if start.X != end.X {
				return nil, model.Invalid("room.polygon", "%s must be vertical, got %v -> %v", c.id, start, end)
			}
			base = abs(end.Y - start.Y)
		}

		if base > MaxWallLength {
			return nil, model.Invalid("room.polygon", "%s length %d exceeds %d mm", c.id, base, MaxWallLength)
		}

		length := base
		if c.loseAtStart {
			start = moveToward(start, end, thickness)
			length -= thickness
		}
		if c.loseAtEnd {
			end = moveToward(end, start, thickness)
			length -= thickness
		}
		if length <= 0 {
			return nil, model.Invalid("room.polygon", "%s has non-positive effective length %d", c.id, length)
		}

		table = append(table, model.WallInfo{
			ID:         c.id,
			Start:      start,
			End:        end,
			Length:     length,
			Direction:  c.direction,
			BaseLength: base,
		})
	}
	return table, nil
}

// moveToward shifts p by d mm along the axis toward target.
func moveToward(p, target model.Point, d int) model.Point {
	switch {
	case target.X > p.X:
		p.X += d
	case target.X < p.X:
		p.X -= d
	case target.Y > p.Y:
		p.Y += d
	case target.Y < p.Y:
		p.Y -= d
	}
	return p
}

// ExtraWalls converts free-form wall segments into wall table entries keyed
// W<first>, W<first+1>, ... in input order. Extra walls are never shortened
// at corners and carry no openings.
func ExtraWalls(segments []model.WallSegment, first int) (model.WallTable, error) {
	if first <= 0 {
		first = DefaultExtraWallSuffix
	}
	table := make(model.WallTable, 0, len(segments))
	for i, seg := range segments {
		dx := seg.End.X - seg.Start.X
		dy := seg.End.Y - seg.Start.Y
		length := int(math.Round(math.Hypot(float64(dx), float64(dy))))
		if length <= 0 {
			return nil, model.Invalid(fmt.Sprintf("extra_walls[%d]", i), "segment %v -> %v has zero length", seg.Start, seg.End)
		}
		if length > MaxWallLength {
			return nil, model.Invalid(fmt.Sprintf("extra_walls[%d]", i), "length %d exceeds %d mm", length, MaxWallLength)
		}

		dir := model.DirectionVertical
		if abs(dx) > abs(dy) {
			dir = model.DirectionHorizontal
		}

		table = append(table, model.WallInfo{
			ID:         "W" + strconv.Itoa(first+i),
			Start:      seg.Start,
			End:        seg.End,
			Length:     length,
			Direction:  dir,
			BaseLength: length,
			Extra:      true,
		})
	}
	return table, nil
}

// MergeExtraWalls appends the segments to a copy of table. Numbering starts
// at W5, or after the highest numbered wall already present.
func MergeExtraWalls(table model.WallTable, segments []model.WallSegment) (model.WallTable, error) {
	next := DefaultExtraWallSuffix
	for _, w := range table {
		if n, ok := wallNumber(w.ID); ok && n >= next {
			next = n + 1
		}
	}

	extra, err := ExtraWalls(segments, next)
	if err != nil {
		return nil, err
	}

	merged := make(model.WallTable, 0, len(table)+len(extra))
	merged = append(merged, table...)
	return append(merged, extra...), nil
}

func wallNumber(id string) (int, bool) {
	if !strings.HasPrefix(id, "W") {
		return 0, false
	}
	n, err := strconv.Atoi(id[1:])
	return n, err == nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
