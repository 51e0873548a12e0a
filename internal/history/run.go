package history

import (
	"github.com/piwi3910/PanelCut/internal/engine"
	"github.com/piwi3910/PanelCut/internal/model"
)

// NewRun summarizes one allocation and nesting result for recording.
func NewRun(project model.Project, board model.BoardMaster, alloc engine.Allocation, nest engine.NestResult, preferYLong bool) Run {
	cut := 0
	for _, p := range alloc.Panels {
		if p.IsCutPiece {
			cut++
		}
	}
	return Run{
		ProjectID:      project.ID,
		ProjectName:    project.Name,
		BoardName:      board.Name,
		StudPitch:      alloc.StudPitch,
		PreferYLong:    preferYLong,
		PanelCount:     len(alloc.Panels),
		CutPieceCount:  cut,
		ViolationCount: len(alloc.Violations()),
		SheetCount:     nest.SheetCount,
		UnplacedCount:  len(nest.Unplaced),
		Utilization:    nest.Utilization,
	}
}
