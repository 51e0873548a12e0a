package model

import (
	"testing"
)

func TestDefaultCatalog(t *testing.T) {
	cat := DefaultCatalog()
	if len(cat.Boards) != 4 {
		t.Fatalf("expected 4 default boards, got %d", len(cat.Boards))
	}
	for _, b := range cat.Boards {
		if b.ID == "" {
			t.Error("expected generated preset ID")
		}
		if b.Board.Width != 910 {
			t.Errorf("expected 910mm wide board, got %d", b.Board.Width)
		}
	}
	names := cat.Names()
	if names[1] != "GB-R 3×8" {
		t.Errorf("unexpected catalog order %v", names)
	}
}

func TestCatalogFind(t *testing.T) {
	cat := DefaultCatalog()
	p := cat.FindByName("GB-R 3×9")
	if p == nil || p.Board.Height != 2730 {
		t.Fatalf("expected 3×9 preset, got %+v", p)
	}
	if cat.FindByID(p.ID) != p {
		t.Error("FindByID should return the same preset")
	}
	if cat.FindByName("Plywood") != nil {
		t.Error("expected nil for unknown board")
	}
	if cat.FindByID("missing") != nil {
		t.Error("expected nil for unknown ID")
	}
}

func TestBoardForHeight(t *testing.T) {
	tests := []struct {
		height int
		want   int
	}{
		{2400, 2430},
		{2420, 2430},
		{2421, 2730},
		{2730, 2730},
		{2731, 3030},
		{4000, 3030},
	}
	for _, tt := range tests {
		if got := BoardForHeight(tt.height); got.Height != tt.want {
			t.Errorf("BoardForHeight(%d) = %d, want %d", tt.height, got.Height, tt.want)
		}
	}
}
