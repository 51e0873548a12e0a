package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/PanelCut/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleProject() model.Project {
	p := model.NewProject("Sample", model.Room{
		ID:            "R1",
		Floor:         1,
		UseType:       "living",
		Polygon:       []model.Point{{X: 0, Y: 0}, {X: 7200, Y: 0}, {X: 7200, Y: 5400}, {X: 0, Y: 5400}},
		Height:        2400,
		WallThickness: 100,
	})
	p.Openings = append(p.Openings,
		model.Opening{ID: "O-D1", Wall: "W1", Type: model.OpeningDoor, Width: 1500, Height: 2000, Offset: model.At(910)},
		model.Opening{ID: "O-W1", Wall: "W3", Type: model.OpeningWindow, Width: 1000, Height: 1000, SillHeight: 900, Offset: model.CenterOffset()},
	)
	return p
}

func TestSaveAndLoadProject(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs", "sample"+ProjectFileExt)
	p := sampleProject()

	require.NoError(t, SaveProject(path, p))

	loaded, err := LoadProject(path)
	require.NoError(t, err)
	assert.Equal(t, p, loaded)
	assert.True(t, loaded.Openings[1].Offset.Center)
}

func TestLoadProjectDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "p.json")
	data := `{"id":"X","name":"bare","room":{"polygon":[{"x":0,"y":0},{"x":1000,"y":0},{"x":1000,"y":1000},{"x":0,"y":1000}],"height":2400}}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	p, err := LoadProject(path)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultWallThickness, p.Room.WallThickness)
	assert.NotNil(t, p.Openings)
}

func TestLoadProjectErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadProject(filepath.Join(dir, "missing.json"))
	assert.ErrorContains(t, err, "failed to read project file")

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0644))
	_, err = LoadProject(bad)
	assert.ErrorContains(t, err, "failed to parse project file")
}
