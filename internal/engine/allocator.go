package engine

import (
	"fmt"
	"time"

	"github.com/piwi3910/PanelCut/internal/model"
)

// AllocateOptions controls one allocation run.
type AllocateOptions struct {
	// StudPitch is in mm. Zero selects 455; unlike GenerateStudGrid, which
	// rejects a zero pitch, only negative values fail here.
	StudPitch  int
	OutputMode string              // advisory, carried through to reports only
	ExtraWalls []model.WallSegment // partition walls authored outside the room polygon
}

// Allocation is the result of one allocation run.
type Allocation struct {
	Walls      model.WallTable `json:"walls"`
	Panels     []model.Panel   `json:"panels"`
	Issues     []model.Issue   `json:"issues"`
	StudPitch  int             `json:"stud_pitch"`
	OutputMode string          `json:"output_mode,omitempty"`
}

// Violations returns the min-piece issues of the run.
func (a Allocation) Violations() []model.Issue {
	var out []model.Issue
	for _, is := range a.Issues {
		if is.Code == model.CodeMinPiece {
			out = append(out, is)
		}
	}
	return out
}

// Allocator segments walls into board panels.
type Allocator struct {
	Board model.BoardMaster
	Rules model.Rules
}

func NewAllocator(board model.BoardMaster, rules model.Rules) *Allocator {
	return &Allocator{Board: board, Rules: rules}
}

// Allocate covers every wall of the project, plus any extra walls, with
// panels. Each panel's right edge lands on a stud or on the wall end; rows
// are stacked from the floor; openings are clipped out. Segments narrower
// than the minimum piece are reported but still emitted, unless they are
// slivers ClipOpenings drops.
func (a *Allocator) Allocate(project model.Project, opts AllocateOptions) (Allocation, error) {
	start := time.Now()

	pitch := opts.StudPitch
	if pitch == 0 {
		pitch = model.StudPitch455
	}
	if err := a.validate(project, pitch); err != nil {
		return Allocation{}, err
	}

	walls, err := ResolveWalls(project.Room.Polygon, project.Room.WallThickness)
	if err != nil {
		return Allocation{}, err
	}
	if len(opts.ExtraWalls) > 0 {
		walls, err = MergeExtraWalls(walls, opts.ExtraWalls)
		if err != nil {
			return Allocation{}, err
		}
	}

	openings, err := openingsByWall(project.Openings, walls)
	if err != nil {
		return Allocation{}, err
	}

	result := Allocation{
		Walls:      walls,
		StudPitch:  pitch,
		OutputMode: opts.OutputMode,
	}

	wallHeight := project.Room.Height
	rowHeight := min(a.Board.Height, wallHeight)

	for _, wall := range walls {
		grid, err := GenerateStudGrid(wall.Length, pitch)
		if err != nil {
			return Allocation{}, fmt.Errorf("wall %s: %w", wall.ID, err)
		}
		wallOpenings := openings[wall.ID]

		for x := 0; x < wall.Length; {
			next := snapRight(grid, x, x+a.Board.Width, wall.Length)
			width := next - x

			if width < a.Rules.MinPiece {
				v := model.MinPieceViolation(wall.ID, width, a.Rules.MinPiece)
				if width <= MinSliver {
					v.Message += "; sliver dropped, no panel emitted"
				}
				result.Issues = append(result.Issues, v)
			}

			for y := 0; y < wallHeight; {
				height := min(rowHeight, wallHeight-y)
				cell := model.Rect{X: x, Y: y, W: width, H: height}

				for _, piece := range ClipOpenings(cell, wallOpenings, wall.Length) {
					result.Panels = append(result.Panels, a.newPanel(wall, piece, rowHeight, wallOpenings))
				}
				y += height
			}
			x = next
		}
	}

	for i := range result.Panels {
		result.Panels[i].Label = fmt.Sprintf("P%04d", i+1)
	}

	result.Issues = append(result.Issues, model.TimingRecord("allocation", time.Since(start)))
	return result, nil
}

func (a *Allocator) newPanel(wall model.WallInfo, r model.Rect, rowHeight int, openings []model.Opening) model.Panel {
	isCut := r.W < a.Board.Width || r.H < rowHeight

	requiresCutout := false
	for _, op := range openings {
		b := op.Bounds(wall.Length)
		if r.OverlapsSpan(b.X, b.Right()) {
			requiresCutout = true
			break
		}
	}

	note := ""
	switch {
	case isCut:
		note = model.NoteOffCut
	case requiresCutout:
		note = model.NoteNeedNotch
	}

	return model.Panel{
		WallID:         wall.ID,
		X:              r.X,
		Y:              r.Y,
		Width:          r.W,
		Height:         r.H,
		RequiresCutout: requiresCutout,
		Note:           note,
		IsCutPiece:     isCut,
		OriginalWidth:  a.Board.Width,
		OriginalHeight: rowHeight,
	}
}

func (a *Allocator) validate(project model.Project, pitch int) error {
	if a.Board.Width <= 0 || a.Board.Height <= 0 {
		return model.Invalid("board", "dimensions must be positive, got %dx%d", a.Board.Width, a.Board.Height)
	}
	if pitch < 0 {
		return model.Invalid("stud pitch", "must be positive, got %d", pitch)
	}
	if project.Room.Height <= 0 {
		return model.Invalid("room.height", "must be positive, got %d", project.Room.Height)
	}
	if project.Room.Height > MaxWallLength {
		return model.Invalid("room.height", "exceeds %d mm, got %d", MaxWallLength, project.Room.Height)
	}
	return nil
}

// openingsByWall groups openings by wall ID after checking each one.
func openingsByWall(openings []model.Opening, walls model.WallTable) (map[string][]model.Opening, error) {
	byWall := make(map[string][]model.Opening)
	for i, op := range openings {
		field := fmt.Sprintf("openings[%d]", i)
		wall, ok := walls.Lookup(op.Wall)
		if !ok {
			return nil, model.Invalid(field, "unknown wall %q", op.Wall)
		}
		if wall.Extra {
			return nil, model.Invalid(field, "extra wall %s cannot carry openings", op.Wall)
		}
		if op.Type != model.OpeningDoor && op.Type != model.OpeningWindow {
			return nil, model.Invalid(field, "unknown opening type %q", op.Type)
		}
		if op.Width <= 0 || op.Height <= 0 {
			return nil, model.Invalid(field, "dimensions must be positive, got %dx%d", op.Width, op.Height)
		}
		if op.Width > wall.Length {
			return nil, model.Invalid(field, "width %d exceeds %s length %d", op.Width, wall.ID, wall.Length)
		}
		if op.SillHeight < 0 {
			return nil, model.Invalid(field, "sill height must not be negative, got %d", op.SillHeight)
		}
		byWall[op.Wall] = append(byWall[op.Wall], op)
	}
	return byWall, nil
}
