package engine

import (
	"strings"

	"github.com/piwi3910/PanelCut/internal/model"
)

// MinPieceNote is appended to the note of panels narrower than the minimum piece.
const MinPieceNote = "below min piece"

// AnnotateMinPiece marks every panel narrower than rules.MinPiece in its
// note and returns how many panels carry the mark. Geometry is untouched and
// repeated calls do not append the mark twice.
func AnnotateMinPiece(panels []model.Panel, rules model.Rules) int {
	marked := 0
	for i := range panels {
		p := &panels[i]
		if p.Width >= rules.MinPiece {
			continue
		}
		marked++
		if strings.Contains(p.Note, MinPieceNote) {
			continue
		}
		if p.Note == "" {
			p.Note = MinPieceNote
		} else {
			p.Note += " / " + MinPieceNote
		}
	}
	return marked
}
