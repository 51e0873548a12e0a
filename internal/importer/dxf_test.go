package importer

import (
	"path/filepath"
	"testing"

	"github.com/piwi3910/PanelCut/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yofu/dxf"
)

func TestImportWallsDXF_Lines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "walls.dxf")

	d := dxf.NewDrawing()
	_, err := d.Line(3600, 100, 0, 3600, 2000.4, 0)
	require.NoError(t, err)
	_, err = d.Line(100, 2700, 0, 3600, 2700, 0)
	require.NoError(t, err)
	_, err = d.Line(500, 500, 0, 500, 500, 0)
	require.NoError(t, err)
	require.NoError(t, d.SaveAs(path))

	result := ImportWallsDXF(path)
	require.Empty(t, result.Errors)
	require.Len(t, result.Segments, 2)

	assert.Equal(t, model.WallSegment{Start: model.Point{X: 3600, Y: 100}, End: model.Point{X: 3600, Y: 2000}}, result.Segments[0])
	assert.Equal(t, model.WallSegment{Start: model.Point{X: 100, Y: 2700}, End: model.Point{X: 3600, Y: 2700}}, result.Segments[1])
	assert.NotEmpty(t, result.Warnings, "zero-length line should be reported")
}

func TestImportWallsDXF_MissingFile(t *testing.T) {
	result := ImportWallsDXF(filepath.Join(t.TempDir(), "none.dxf"))
	assert.NotEmpty(t, result.Errors)
	assert.Empty(t, result.Segments)
}
