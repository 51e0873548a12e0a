package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Point is a 2D plan coordinate in mm.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Direction is the axis a wall runs along in plan view.
type Direction string

const (
	DirectionHorizontal Direction = "horizontal"
	DirectionVertical   Direction = "vertical"
)

// Room is a rectangular room. The polygon is ordered clockwise and defines
// W1=p0->p1, W2=p1->p2, W3=p2->p3 and W4=p3->p0.
type Room struct {
	ID            string  `json:"id"`
	Floor         int     `json:"floor"`
	UseType       string  `json:"use_type"`
	Polygon       []Point `json:"polygon"`
	Height        int     `json:"height"`         // wall height mm
	WallThickness int     `json:"wall_thickness"` // mm
}

// DefaultWallThickness is used when a room does not specify one.
const DefaultWallThickness = 100

// OpeningType distinguishes doors from windows.
type OpeningType string

const (
	OpeningDoor   OpeningType = "door"
	OpeningWindow OpeningType = "window"
)

// Offset is the horizontal position of an opening measured from the wall
// start. It is either a literal distance or the "center" token.
type Offset struct {
	Center bool
	Value  int
}

// CenterOffset centers the opening on its wall.
func CenterOffset() Offset { return Offset{Center: true} }

// At returns a literal offset in mm.
func At(mm int) Offset { return Offset{Value: mm} }

// Resolve returns the offset in mm for an opening of the given width on a
// wall of the given length.
func (o Offset) Resolve(wallLength, width int) int {
	if o.Center {
		return (wallLength - width) / 2
	}
	return o.Value
}

func (o Offset) String() string {
	if o.Center {
		return "center"
	}
	return strconv.Itoa(o.Value)
}

// ParseOffset parses "center" or a numeric mm value. Fractional values are
// truncated to whole mm.
func ParseOffset(s string) (Offset, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "center" || s == "centre" {
		return CenterOffset(), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Offset{}, fmt.Errorf("invalid offset %q", s)
	}
	return At(int(f)), nil
}

// MarshalJSON writes the offset as a number or the string "center".
func (o Offset) MarshalJSON() ([]byte, error) {
	if o.Center {
		return []byte(`"center"`), nil
	}
	return json.Marshal(o.Value)
}

// UnmarshalJSON accepts a number, a numeric string, or "center".
func (o *Offset) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*o = At(int(n))
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("offset must be a number or \"center\": %w", err)
	}
	parsed, err := ParseOffset(s)
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

// Opening is a door or window cut into one wall.
type Opening struct {
	ID         string      `json:"id"`
	Wall       string      `json:"wall"`
	Type       OpeningType `json:"type"`
	Width      int         `json:"width"`
	Height     int         `json:"height"`
	SillHeight int         `json:"sill_height"` // 0 for doors
	Offset     Offset      `json:"offset"`
}

// Bounds returns the opening rectangle in wall elevation coordinates
// (x along the wall, y up from the floor). Doors always start at the floor.
func (o Opening) Bounds(wallLength int) Rect {
	x := o.Offset.Resolve(wallLength, o.Width)
	if o.Type == OpeningDoor {
		return Rect{X: x, Y: 0, W: o.Width, H: o.Height}
	}
	return Rect{X: x, Y: o.SillHeight, W: o.Width, H: o.Height}
}

// Project ties a room to its openings.
type Project struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Room     Room      `json:"room"`
	Openings []Opening `json:"openings"`
}

func NewProject(name string, room Room) Project {
	return Project{
		ID:       uuid.New().String()[:8],
		Name:     name,
		Room:     room,
		Openings: []Opening{},
	}
}

// OpeningsOn returns the openings that belong to the given wall, in input order.
func (p Project) OpeningsOn(wallID string) []Opening {
	var out []Opening
	for _, op := range p.Openings {
		if op.Wall == wallID {
			out = append(out, op)
		}
	}
	return out
}

// BoardMaster describes the raw sheet stock panels are cut from.
type BoardMaster struct {
	Name      string  `json:"name" toml:"name"`
	Thickness float64 `json:"thickness" toml:"thickness"` // mm
	Width     int     `json:"width" toml:"width"`         // raw sheet width mm
	Height    int     `json:"height" toml:"height"`       // raw sheet height mm
	Rotatable bool    `json:"rotatable" toml:"rotatable"`
}

// Area returns the raw sheet area in mm².
func (b BoardMaster) Area() int {
	return b.Width * b.Height
}

// Rules are the advisory manufacturing tolerances. Only MinPiece and Kerf are
// consulted by the engine.
type Rules struct {
	MinPiece  int `json:"min_piece" toml:"min_piece"`
	Clearance int `json:"clearance" toml:"clearance"`
	Kerf      int `json:"kerf" toml:"kerf"`
	Joint     int `json:"joint" toml:"joint"`
}

// Supported stud pitches in mm.
const (
	StudPitch455 = 455
	StudPitch303 = 303
)

// DefaultBoard returns the GB-R 3×8 gypsum board.
func DefaultBoard() BoardMaster {
	return BoardMaster{
		Name:      "GB-R 3×8",
		Thickness: 12.5,
		Width:     910,
		Height:    2430,
		Rotatable: true,
	}
}

func DefaultRules() Rules {
	return Rules{
		MinPiece:  150,
		Clearance: 5,
		Kerf:      3,
		Joint:     3,
	}
}

// WallInfo is the resolved geometry of one wall. It is derived once per run
// and never modified afterwards.
type WallInfo struct {
	ID         string    `json:"id"`
	Start      Point     `json:"start"`
	End        Point     `json:"end"`
	Length     int       `json:"length"`      // effective length after corner deductions
	Direction  Direction `json:"direction"`
	BaseLength int       `json:"base_length"` // unadjusted length
	Extra      bool      `json:"extra"`       // authored outside the room polygon
}

// WallTable is the ordered set of walls processed by one allocation run.
type WallTable []WallInfo

// Lookup returns the wall with the given ID.
func (t WallTable) Lookup(id string) (WallInfo, bool) {
	for _, w := range t {
		if w.ID == id {
			return w, true
		}
	}
	return WallInfo{}, false
}

// IDs returns the wall IDs in table order.
func (t WallTable) IDs() []string {
	ids := make([]string, len(t))
	for i, w := range t {
		ids[i] = w.ID
	}
	return ids
}

// WallSegment is an externally authored wall, e.g. an interior partition.
type WallSegment struct {
	Start Point `json:"start"`
	End   Point `json:"end"`
}

// StudGrid is the ordered set of vertical support positions along one wall.
type StudGrid struct {
	Positions []int `json:"positions"`
	Pitch     int   `json:"pitch"`
}

// Panel is one rectangular board piece installed on a wall.
type Panel struct {
	Label          string `json:"label"`
	WallID         string `json:"wall_id"`
	X              int    `json:"x"` // along the wall from its start
	Y              int    `json:"y"` // up from the floor
	Width          int    `json:"width"`
	Height         int    `json:"height"`
	RequiresCutout bool   `json:"requires_cutout"`
	Note           string `json:"note"`
	IsCutPiece     bool   `json:"is_cut_piece"`
	OriginalWidth  int    `json:"original_width"`
	OriginalHeight int    `json:"original_height"`
	SheetNumber    int    `json:"sheet_number"` // 0 until nested
	PartNumber     int    `json:"part_number"`  // 1-based within its sheet, 0 until nested
}

// Rect returns the panel footprint in wall elevation coordinates.
func (p Panel) Rect() Rect {
	return Rect{X: p.X, Y: p.Y, W: p.Width, H: p.Height}
}

// Area returns the panel area in mm².
func (p Panel) Area() int {
	return p.Width * p.Height
}

// Panel notes.
const (
	NoteOffCut    = "off-cut"
	NoteNeedNotch = "needs notch"
)

// NestPlacement is one panel placed on a raw sheet. Width and Height are the
// placed dimensions, i.e. swapped when Rotated.
type NestPlacement struct {
	SheetID    int   `json:"sheet_id"`
	X          int   `json:"x"`
	Y          int   `json:"y"`
	Width      int   `json:"width"`
	Height     int   `json:"height"`
	Rotated    bool  `json:"rotated"`
	Forced     bool  `json:"forced"`      // rotated because it only fits that way
	PanelIndex int   `json:"panel_index"` // index into the nested panel slice
	Panel      Panel `json:"panel"`       // snapshot after stamping
}

// Rect returns the placement footprint on its sheet.
func (p NestPlacement) Rect() Rect {
	return Rect{X: p.X, Y: p.Y, W: p.Width, H: p.Height}
}
