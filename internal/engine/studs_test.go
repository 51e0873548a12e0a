package engine

import (
	"testing"

	"github.com/piwi3910/PanelCut/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateStudGrid(t *testing.T) {
	tests := []struct {
		length, pitch int
		want          []int
	}{
		{2000, 455, []int{0, 455, 910, 1365, 1820, 2000}},
		{910, 455, []int{0, 455, 910}},
		{300, 455, []int{0, 300}},
		{455, 455, []int{0, 455}},
		{1000, 303, []int{0, 303, 606, 909, 1000}},
	}
	for _, tt := range tests {
		grid, err := GenerateStudGrid(tt.length, tt.pitch)
		require.NoError(t, err)
		assert.Equal(t, tt.want, grid.Positions, "length=%d pitch=%d", tt.length, tt.pitch)
		assert.Equal(t, tt.pitch, grid.Pitch)
	}
}

func TestGenerateStudGrid_Invariants(t *testing.T) {
	for _, pitch := range []int{455, 303} {
		for length := 1; length <= 5000; length += 97 {
			grid, err := GenerateStudGrid(length, pitch)
			require.NoError(t, err)

			pos := grid.Positions
			assert.Equal(t, 0, pos[0])
			assert.Equal(t, length, pos[len(pos)-1])
			for i := 1; i < len(pos); i++ {
				assert.Greater(t, pos[i], pos[i-1], "positions must be strictly increasing")
				assert.LessOrEqual(t, pos[i]-pos[i-1], pitch)
			}
		}
	}
}

func TestGenerateStudGrid_Validation(t *testing.T) {
	_, err := GenerateStudGrid(0, 455)
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	_, err = GenerateStudGrid(-10, 455)
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	_, err = GenerateStudGrid(2000, 0)
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	_, err = GenerateStudGrid(MaxWallLength+1, 1)
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	grid, err := GenerateStudGrid(MaxWallLength, 455)
	require.NoError(t, err)
	assert.Equal(t, MaxWallLength, grid.Positions[len(grid.Positions)-1])
}

func TestSnapRight(t *testing.T) {
	grid, err := GenerateStudGrid(2000, 455)
	require.NoError(t, err)

	assert.Equal(t, 910, snapRight(grid, 0, 910, 2000))
	assert.Equal(t, 910, snapRight(grid, 0, 1000, 2000), "snaps down to the last stud before the ideal edge")
	assert.Equal(t, 2000, snapRight(grid, 1820, 2730, 2000))

	// No stud between x and the ideal edge: fall back to the wall end.
	assert.Equal(t, 2000, snapRight(grid, 910, 1000, 2000))
}
