package export

import (
	"testing"

	"github.com/piwi3910/PanelCut/internal/engine"
	"github.com/piwi3910/PanelCut/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildTestReport runs the engine on a small room with one door and one window.
func buildTestReport(t *testing.T) Report {
	t.Helper()

	project := model.Project{
		ID:   "T1",
		Name: "Test Room",
		Room: model.Room{
			ID:            "R1",
			Polygon:       []model.Point{{X: 0, Y: 0}, {X: 3600, Y: 0}, {X: 3600, Y: 2700}, {X: 0, Y: 2700}},
			Height:        2400,
			WallThickness: 100,
		},
		Openings: []model.Opening{
			{ID: "D1", Wall: "W1", Type: model.OpeningDoor, Width: 800, Height: 2000, Offset: model.At(910)},
			{ID: "WN1", Wall: "W3", Type: model.OpeningWindow, Width: 1200, Height: 900, SillHeight: 900, Offset: model.CenterOffset()},
		},
	}
	board := model.DefaultBoard()
	rules := model.DefaultRules()

	alloc, err := engine.NewAllocator(board, rules).Allocate(project, engine.AllocateOptions{StudPitch: 455})
	require.NoError(t, err)
	nest := engine.NewNester(board, rules).Nest(alloc.Panels, false)
	require.NotZero(t, nest.SheetCount)

	return Report{Project: project, Board: board, Rules: rules, Allocation: alloc, Nesting: nest}
}

func TestReport_Issues(t *testing.T) {
	r := buildTestReport(t)
	issues := r.Issues()

	assert.Len(t, issues, len(r.Allocation.Issues)+len(r.Nesting.Issues))
	// One timing record per phase.
	assert.Equal(t, 2, model.CountCode(issues, model.CodeTiming))
}

func TestReport_RemnantsAndPurchase(t *testing.T) {
	r := buildTestReport(t)

	for _, rem := range r.Remnants() {
		assert.GreaterOrEqual(t, rem.SheetID, 1)
		assert.LessOrEqual(t, rem.SheetID, r.Nesting.SheetCount)
	}

	est := r.Purchase(10, 12)
	assert.Equal(t, r.Board.Area(), est.SheetArea)
	assert.Greater(t, est.TotalPanelArea, 0)
	assert.GreaterOrEqual(t, est.SheetsWithWaste, est.SheetsNeededMin)
}
