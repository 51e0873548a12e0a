package engine

import "github.com/piwi3910/PanelCut/internal/model"

// GenerateStudGrid returns the stud positions along a wall: 0, then every
// pitch while the next stud stays strictly inside the wall, then the wall
// end itself. The last interval may be shorter than pitch.
func GenerateStudGrid(length, pitch int) (model.StudGrid, error) {
	if length <= 0 {
		return model.StudGrid{}, model.Invalid("wall length", "must be positive, got %d", length)
	}
	if length > MaxWallLength {
		return model.StudGrid{}, model.Invalid("wall length", "exceeds %d mm, got %d", MaxWallLength, length)
	}
	if pitch <= 0 {
		return model.StudGrid{}, model.Invalid("stud pitch", "must be positive, got %d", pitch)
	}

	positions := make([]int, 0, length/pitch+2)
	positions = append(positions, 0)
	for cur := 0; cur+pitch < length; {
		cur += pitch
		positions = append(positions, cur)
	}
	if positions[len(positions)-1] != length {
		positions = append(positions, length)
	}
	return model.StudGrid{Positions: positions, Pitch: pitch}, nil
}

// snapRight returns the largest grid position p with x < p <= ideal, or the
// wall end when no stud lies in that range.
func snapRight(grid model.StudGrid, x, ideal, wallEnd int) int {
	next := x
	for _, p := range grid.Positions {
		if p > ideal {
			break
		}
		if p > x {
			next = p
		}
	}
	if next == x {
		return wallEnd
	}
	return next
}
