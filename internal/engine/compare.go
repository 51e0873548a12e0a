package engine

import (
	"fmt"

	"github.com/piwi3910/PanelCut/internal/model"
)

// ComparisonScenario defines a named set of run options to compare.
type ComparisonScenario struct {
	Name        string              `json:"name"`
	StudPitch   int                 `json:"stud_pitch"`
	PreferYLong bool                `json:"prefer_y_long"`
	ExtraWalls  []model.WallSegment `json:"extra_walls,omitempty"`
}

// ComparisonResult holds the outcome of one scenario.
type ComparisonResult struct {
	Scenario       ComparisonScenario `json:"scenario"`
	PanelCount     int                `json:"panel_count"`
	CutPieceCount  int                `json:"cut_piece_count"`
	ViolationCount int                `json:"violation_count"`
	SheetCount     int                `json:"sheet_count"`
	Utilization    float64            `json:"utilization"`
	UnplacedCount  int                `json:"unplaced_count"`
}

// CompareScenarios runs allocation and nesting once per scenario so stud
// pitch and rotation policy can be compared side by side. Results are in
// scenario order. The first invalid scenario aborts the comparison.
func CompareScenarios(project model.Project, board model.BoardMaster, rules model.Rules, scenarios []ComparisonScenario) ([]ComparisonResult, error) {
	alloc := NewAllocator(board, rules)
	nester := NewNester(board, rules)

	results := make([]ComparisonResult, 0, len(scenarios))
	for _, sc := range scenarios {
		a, err := alloc.Allocate(project, AllocateOptions{StudPitch: sc.StudPitch, ExtraWalls: sc.ExtraWalls})
		if err != nil {
			return nil, fmt.Errorf("scenario %q: %w", sc.Name, err)
		}
		if err := nester.Validate(a.Panels); err != nil {
			return nil, fmt.Errorf("scenario %q: %w", sc.Name, err)
		}
		nest := nester.Nest(a.Panels, sc.PreferYLong)

		cut := 0
		for _, p := range a.Panels {
			if p.IsCutPiece {
				cut++
			}
		}

		results = append(results, ComparisonResult{
			Scenario:       sc,
			PanelCount:     len(a.Panels),
			CutPieceCount:  cut,
			ViolationCount: len(a.Violations()),
			SheetCount:     nest.SheetCount,
			Utilization:    nest.Utilization,
			UnplacedCount:  len(nest.Unplaced),
		})
	}
	return results, nil
}

// DefaultScenarios returns the base pitch first, then the other standard
// pitch, each with yield-first and long-grain nesting.
func DefaultScenarios(basePitch int) []ComparisonScenario {
	if basePitch <= 0 {
		basePitch = model.StudPitch455
	}
	other := model.StudPitch303
	if basePitch == model.StudPitch303 {
		other = model.StudPitch455
	}

	var scenarios []ComparisonScenario
	for _, pitch := range []int{basePitch, other} {
		scenarios = append(scenarios,
			ComparisonScenario{Name: fmt.Sprintf("Pitch %dmm", pitch), StudPitch: pitch},
			ComparisonScenario{Name: fmt.Sprintf("Pitch %dmm, long grain", pitch), StudPitch: pitch, PreferYLong: true},
		)
	}
	return scenarios
}
