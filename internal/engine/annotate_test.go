package engine

import (
	"testing"

	"github.com/piwi3910/PanelCut/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestAnnotateMinPiece(t *testing.T) {
	panels := []model.Panel{
		{Label: "P0001", Width: 910},
		{Label: "P0002", Width: 90, Note: model.NoteOffCut},
		{Label: "P0003", Width: 149},
		{Label: "P0004", Width: 150},
	}
	rules := model.DefaultRules()

	assert.Equal(t, 2, AnnotateMinPiece(panels, rules))
	assert.Empty(t, panels[0].Note)
	assert.Equal(t, "off-cut / below min piece", panels[1].Note)
	assert.Equal(t, MinPieceNote, panels[2].Note)
	assert.Empty(t, panels[3].Note)

	// Repeated runs do not stack the mark.
	assert.Equal(t, 2, AnnotateMinPiece(panels, rules))
	assert.Equal(t, "off-cut / below min piece", panels[1].Note)
	assert.Equal(t, 90, panels[1].Width)
}
