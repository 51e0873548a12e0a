package model

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseOffsetCenter(t *testing.T) {
	for _, s := range []string{"center", " Center ", "CENTRE"} {
		o, err := ParseOffset(s)
		if err != nil {
			t.Fatalf("ParseOffset(%q) failed: %v", s, err)
		}
		if !o.Center {
			t.Errorf("ParseOffset(%q): expected center offset", s)
		}
	}
}

func TestParseOffsetNumeric(t *testing.T) {
	o, err := ParseOffset("910")
	if err != nil {
		t.Fatalf("ParseOffset failed: %v", err)
	}
	if o.Center || o.Value != 910 {
		t.Errorf("expected literal 910, got %+v", o)
	}

	o, err = ParseOffset("455.9")
	if err != nil {
		t.Fatalf("ParseOffset failed: %v", err)
	}
	if o.Value != 455 {
		t.Errorf("expected truncation to 455, got %d", o.Value)
	}

	if _, err := ParseOffset("left"); err == nil {
		t.Error("expected error for unknown token")
	}
}

func TestOffsetResolve(t *testing.T) {
	if got := CenterOffset().Resolve(7200, 1000); got != 3100 {
		t.Errorf("expected centered offset 3100, got %d", got)
	}
	if got := At(910).Resolve(7200, 1500); got != 910 {
		t.Errorf("expected literal offset 910, got %d", got)
	}
}

func TestOffsetJSON(t *testing.T) {
	data, err := json.Marshal([]Offset{CenterOffset(), At(2000)})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `["center",2000]` {
		t.Errorf("unexpected JSON %s", data)
	}

	var decoded []Offset
	if err := json.Unmarshal([]byte(`["center", 910, "4200"]`), &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if !decoded[0].Center || decoded[1].Value != 910 || decoded[2].Value != 4200 {
		t.Errorf("unexpected decoded offsets %+v", decoded)
	}

	var bad Offset
	if err := json.Unmarshal([]byte(`true`), &bad); err == nil {
		t.Error("expected error for boolean offset")
	}
}

func TestOpeningBounds(t *testing.T) {
	door := Opening{Wall: "W1", Type: OpeningDoor, Width: 1500, Height: 2000, SillHeight: 300, Offset: At(910)}
	if got := door.Bounds(7200); got != (Rect{X: 910, Y: 0, W: 1500, H: 2000}) {
		t.Errorf("door must start at the floor regardless of sill, got %+v", got)
	}

	window := Opening{Wall: "W3", Type: OpeningWindow, Width: 1000, Height: 1000, SillHeight: 900, Offset: CenterOffset()}
	if got := window.Bounds(7100); got != (Rect{X: 3050, Y: 900, W: 1000, H: 1000}) {
		t.Errorf("unexpected window bounds %+v", got)
	}
}

func TestProjectOpeningsOn(t *testing.T) {
	p := NewProject("Demo", Room{})
	if p.ID == "" {
		t.Error("expected generated project ID")
	}
	p.Openings = []Opening{{ID: "a", Wall: "W3"}, {ID: "b", Wall: "W1"}, {ID: "c", Wall: "W3"}}
	got := p.OpeningsOn("W3")
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "c" {
		t.Errorf("expected openings a,c on W3 in input order, got %+v", got)
	}
	if len(p.OpeningsOn("W2")) != 0 {
		t.Error("expected no openings on W2")
	}
}

func TestRectOverlapsIgnoresTouchingEdges(t *testing.T) {
	a := Rect{X: 0, Y: 0, W: 100, H: 100}
	b := Rect{X: 100, Y: 0, W: 100, H: 100}
	if a.Overlaps(b) {
		t.Error("touching rectangles must not overlap")
	}
	c := Rect{X: 99, Y: 99, W: 10, H: 10}
	if !a.Overlaps(c) {
		t.Error("expected overlap")
	}
	in, ok := a.Intersect(c)
	if !ok || in != (Rect{X: 99, Y: 99, W: 1, H: 1}) {
		t.Errorf("unexpected intersection %+v", in)
	}
	if _, ok := a.Intersect(b); ok {
		t.Error("touching rectangles have no intersection")
	}
}

func TestWallTableLookup(t *testing.T) {
	table := WallTable{{ID: "W1", Length: 7200}, {ID: "W5", Length: 1200, Extra: true}}
	w, ok := table.Lookup("W5")
	if !ok || w.Length != 1200 || !w.Extra {
		t.Errorf("unexpected lookup result %+v %v", w, ok)
	}
	if _, ok := table.Lookup("W9"); ok {
		t.Error("expected missing wall")
	}
	if ids := table.IDs(); len(ids) != 2 || ids[1] != "W5" {
		t.Errorf("unexpected IDs %v", ids)
	}
}

func TestValidationErrorIsInvalidInput(t *testing.T) {
	err := Invalid("room.polygon", "expected 4 vertices, got %d", 3)
	if !errors.Is(err, ErrInvalidInput) {
		t.Error("validation errors must wrap ErrInvalidInput")
	}
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Field != "room.polygon" {
		t.Errorf("expected ValidationError for room.polygon, got %v", err)
	}
	if err.Error() != "invalid room.polygon: expected 4 vertices, got 3" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestCountCode(t *testing.T) {
	issues := []Issue{
		MinPieceViolation("W2", 90, 150),
		TimingRecord("allocation", 0),
		MinPieceViolation("W4", 90, 150),
	}
	if n := CountCode(issues, CodeMinPiece); n != 2 {
		t.Errorf("expected 2 min piece issues, got %d", n)
	}
	if issues[0].Measured != 90 || issues[0].Threshold != 150 || issues[0].Wall != "W2" {
		t.Errorf("unexpected violation fields %+v", issues[0])
	}
}
