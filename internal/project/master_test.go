package project

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/PanelCut/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndLoadMaster(t *testing.T) {
	path := filepath.Join(t.TempDir(), "master.toml")

	m := DefaultMaster()
	m.StudPitch = 303
	m.PreferYLong = true
	m.Board = model.BoardForHeight(2700)
	m.Rules.Kerf = 4

	require.NoError(t, SaveMaster(path, m))

	loaded, err := LoadMaster(path)
	require.NoError(t, err)
	assert.Equal(t, m, loaded)
}

func TestLoadMasterPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "master.toml")
	doc := `
stud_pitch = 303

[board]
name = "custom"
thickness = 9.5
width = 910
height = 1820

[rules]
kerf = 0
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	m, err := LoadMaster(path)
	require.NoError(t, err)
	assert.Equal(t, 303, m.StudPitch)
	assert.Equal(t, "custom", m.Board.Name)
	assert.Equal(t, 9.5, m.Board.Thickness)
	assert.Equal(t, 1820, m.Board.Height)
	assert.Equal(t, 0, m.Rules.Kerf)
	assert.Equal(t, 150, m.Rules.MinPiece, "absent keys keep defaults")
}

func TestLoadMasterRejectsBadBoard(t *testing.T) {
	path := filepath.Join(t.TempDir(), "master.toml")
	require.NoError(t, os.WriteFile(path, []byte("[board]\nwidth = 0\n"), 0644))

	_, err := LoadMaster(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrInvalidInput))
}

func TestLoadMasterMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "master.toml")
	require.NoError(t, os.WriteFile(path, []byte("stud_pitch = = 3"), 0644))

	_, err := LoadMaster(path)
	assert.ErrorContains(t, err, "failed to parse master file")
}
