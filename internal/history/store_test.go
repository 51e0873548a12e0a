package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/piwi3910/PanelCut/internal/engine"
	"github.com/piwi3910/PanelCut/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAndGet(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	run, err := s.Record(ctx, Run{
		ProjectID: "P1", ProjectName: "Demo", BoardName: "GB-R 3×8",
		StudPitch: 455, PreferYLong: true, PanelCount: 32, CutPieceCount: 12,
		SheetCount: 20, Utilization: 0.81,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.False(t, run.CreatedAt.IsZero())

	got, err := s.Get(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, "Demo", got.ProjectName)
	assert.Equal(t, "GB-R 3×8", got.BoardName)
	assert.True(t, got.PreferYLong)
	assert.Equal(t, 32, got.PanelCount)
	assert.InDelta(t, 0.81, got.Utilization, 1e-9)
	assert.True(t, run.CreatedAt.Equal(got.CreatedAt))
}

func TestGet_NotFound(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestList_NewestFirst(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	base := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		_, err := s.Record(ctx, Run{ID: id, ProjectID: "P1", StudPitch: 455, CreatedAt: base.Add(time.Duration(i) * time.Hour)})
		require.NoError(t, err)
	}
	_, err := s.Record(ctx, Run{ID: "d", ProjectID: "P2", StudPitch: 303, CreatedAt: base.Add(-time.Hour)})
	require.NoError(t, err)

	all, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "c", all[0].ID)
	assert.Equal(t, "d", all[3].ID)

	limited, err := s.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, []string{"c", "b"}, []string{limited[0].ID, limited[1].ID})

	p2, err := s.ListProject(ctx, "P2")
	require.NoError(t, err)
	require.Len(t, p2, 1)
	assert.Equal(t, 303, p2[0].StudPitch)
}

func TestList_SubSecondOrder(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	whole := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	_, err := s.Record(ctx, Run{ID: "a", ProjectID: "P1", StudPitch: 455, CreatedAt: whole})
	require.NoError(t, err)
	_, err = s.Record(ctx, Run{ID: "b", ProjectID: "P1", StudPitch: 455, CreatedAt: whole.Add(500 * time.Millisecond)})
	require.NoError(t, err)

	// Local offsets are stored as UTC and still sort by instant.
	east := time.FixedZone("UTC+2", 2*60*60)
	_, err = s.Record(ctx, Run{ID: "c", ProjectID: "P1", StudPitch: 455, CreatedAt: whole.Add(time.Second).In(east)})
	require.NoError(t, err)

	all, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"c", "b", "a"}, []string{all[0].ID, all[1].ID, all[2].ID})
	assert.True(t, whole.Add(500*time.Millisecond).Equal(all[1].CreatedAt))
}

func TestRecord_DuplicateID(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	_, err := s.Record(ctx, Run{ID: "x", ProjectID: "P1", StudPitch: 455})
	require.NoError(t, err)
	_, err = s.Record(ctx, Run{ID: "x", ProjectID: "P1", StudPitch: 455})
	assert.Error(t, err)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	run, err := s.Record(ctx, Run{ProjectID: "P1", StudPitch: 455})
	require.NoError(t, err)
	require.NoError(t, s.Delete(ctx, run.ID))

	_, err = s.Get(ctx, run.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, run.ID), ErrNotFound)
}

func TestOpen_FileReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "history.db")

	s, err := Open(ctx, path)
	require.NoError(t, err)
	run, err := s.Record(ctx, Run{ProjectID: "P1", StudPitch: 303})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	// Migrations are idempotent.
	s, err = Open(ctx, path)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Get(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, 303, got.StudPitch)
}

func TestNewRun(t *testing.T) {
	project := model.Project{ID: "P1", Name: "Demo"}
	board := model.DefaultBoard()
	alloc := engine.Allocation{
		StudPitch: 455,
		Panels: []model.Panel{
			{Label: "P0001", Width: 910, Height: 2400},
			{Label: "P0002", Width: 90, Height: 2400, IsCutPiece: true},
		},
		Issues: []model.Issue{model.MinPieceViolation("W2", 90, 150)},
	}
	nest := engine.NestResult{SheetCount: 1, Utilization: 0.5}

	run := NewRun(project, board, alloc, nest, true)
	assert.Equal(t, "P1", run.ProjectID)
	assert.Equal(t, board.Name, run.BoardName)
	assert.Equal(t, 455, run.StudPitch)
	assert.Equal(t, 2, run.PanelCount)
	assert.Equal(t, 1, run.CutPieceCount)
	assert.Equal(t, 1, run.ViolationCount)
	assert.Equal(t, 1, run.SheetCount)
	assert.True(t, run.PreferYLong)
	assert.Empty(t, run.ID)
}
