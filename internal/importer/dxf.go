package importer

import (
	"fmt"
	"math"

	"github.com/piwi3910/PanelCut/internal/model"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"
)

// WallImportResult holds the partition walls read from a drawing.
type WallImportResult struct {
	Segments []model.WallSegment
	Errors   []string
	Warnings []string
}

// ImportWallsDXF reads extra walls from a DXF plan. Every LINE becomes one
// segment and every LWPOLYLINE contributes one segment per edge, including
// the closing edge of closed polylines. Coordinates are rounded to whole mm.
func ImportWallsDXF(path string) WallImportResult {
	result := WallImportResult{}

	drawing, err := dxf.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open DXF file: %v", err))
		return result
	}

	entities := drawing.Entities()
	if len(entities) == 0 {
		result.Errors = append(result.Errors, "DXF file contains no entities")
		return result
	}

	skipped := 0
	for _, ent := range entities {
		switch e := ent.(type) {
		case *entity.Line:
			result.addSegment(toPoint(e.Start), toPoint(e.End))

		case *entity.LwPolyline:
			if len(e.Vertices) < 2 {
				result.Warnings = append(result.Warnings, "Skipped LWPOLYLINE with fewer than 2 vertices")
				continue
			}
			for i := 0; i+1 < len(e.Vertices); i++ {
				result.addSegment(toPoint(e.Vertices[i]), toPoint(e.Vertices[i+1]))
			}
			if e.Closed && len(e.Vertices) > 2 {
				result.addSegment(toPoint(e.Vertices[len(e.Vertices)-1]), toPoint(e.Vertices[0]))
			}

		default:
			skipped++
		}
	}

	if skipped > 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Skipped %d unsupported entities", skipped))
	}
	if len(result.Segments) == 0 {
		result.Errors = append(result.Errors, "No wall segments found in DXF file")
	}
	return result
}

func (r *WallImportResult) addSegment(start, end model.Point) {
	if start == end {
		r.Warnings = append(r.Warnings, fmt.Sprintf("Skipped zero-length segment at (%d, %d)", start.X, start.Y))
		return
	}
	r.Segments = append(r.Segments, model.WallSegment{Start: start, End: end})
}

func toPoint(v []float64) model.Point {
	var p model.Point
	if len(v) > 0 {
		p.X = int(math.Round(v[0]))
	}
	if len(v) > 1 {
		p.Y = int(math.Round(v[1]))
	}
	return p
}
