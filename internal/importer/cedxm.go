package importer

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/piwi3910/PanelCut/internal/model"
)

// Defaults applied to attributes a CEDXM document leaves out.
const (
	DefaultCEDXMProjectID = "LOADED-01"
	DefaultCEDXMName      = "CEDXM import"
	DefaultRoomHeight     = 2400
)

// ErrNoRoom is returned when a CEDXM document has no Room element.
var ErrNoRoom = errors.New("cedxm: Room element not found")

type cedxmProject struct {
	ID   string     `xml:"id,attr"`
	Name string     `xml:"name,attr"`
	Room *cedxmRoom `xml:"Room"`
}

type cedxmRoom struct {
	ID            string         `xml:"id,attr"`
	Floor         string         `xml:"floor,attr"`
	UseType       string         `xml:"use_type,attr"`
	Height        string         `xml:"height,attr"`
	WallThickness string         `xml:"wall_thickness,attr"`
	Points        []cedxmPoint   `xml:"Polygon>Point"`
	Openings      []cedxmOpening `xml:"Openings>Opening"`
}

type cedxmPoint struct {
	X string `xml:"x,attr"`
	Y string `xml:"y,attr"`
}

type cedxmOpening struct {
	ID         string `xml:"id,attr"`
	Wall       string `xml:"wall,attr"`
	Type       string `xml:"type,attr"`
	Width      string `xml:"width,attr"`
	Height     string `xml:"height,attr"`
	SillHeight string `xml:"sill_height,attr"`
	Offset     string `xml:"offset,attr"`
}

// defaultPolygon is used when the document carries fewer than four points.
var defaultPolygon = []model.Point{{X: 0, Y: 0}, {X: 3600, Y: 0}, {X: 3600, Y: 2700}, {X: 0, Y: 2700}}

// LoadCEDXM reads a room and its openings from a CEDXM document. The Project
// element may be the root or nested in a wrapper; a bare Room is accepted too.
func LoadCEDXM(r io.Reader) (model.Project, error) {
	doc, err := findProject(xml.NewDecoder(r))
	if err != nil {
		return model.Project{}, err
	}
	if doc.Room == nil {
		return model.Project{}, ErrNoRoom
	}

	room, err := convertRoom(*doc.Room)
	if err != nil {
		return model.Project{}, err
	}
	openings, err := convertOpenings(doc.Room.Openings)
	if err != nil {
		return model.Project{}, err
	}

	return model.Project{
		ID:       orDefault(doc.ID, DefaultCEDXMProjectID),
		Name:     orDefault(doc.Name, DefaultCEDXMName),
		Room:     room,
		Openings: openings,
	}, nil
}

// LoadCEDXMFile opens path and reads it with LoadCEDXM.
func LoadCEDXMFile(path string) (model.Project, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.Project{}, fmt.Errorf("failed to open CEDXM file: %w", err)
	}
	defer f.Close()
	return LoadCEDXM(f)
}

// findProject scans for the first Project or Room element.
func findProject(dec *xml.Decoder) (cedxmProject, error) {
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return cedxmProject{}, ErrNoRoom
		}
		if err != nil {
			return cedxmProject{}, fmt.Errorf("failed to parse CEDXM: %w", err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch start.Name.Local {
		case "Project":
			var p cedxmProject
			if err := dec.DecodeElement(&p, &start); err != nil {
				return cedxmProject{}, fmt.Errorf("failed to parse CEDXM project: %w", err)
			}
			return p, nil
		case "Room":
			var room cedxmRoom
			if err := dec.DecodeElement(&room, &start); err != nil {
				return cedxmProject{}, fmt.Errorf("failed to parse CEDXM room: %w", err)
			}
			return cedxmProject{Room: &room}, nil
		}
	}
}

func convertRoom(r cedxmRoom) (model.Room, error) {
	floor, err := attrMM("Room.floor", r.Floor, 1)
	if err != nil {
		return model.Room{}, err
	}
	height, err := attrMM("Room.height", r.Height, DefaultRoomHeight)
	if err != nil {
		return model.Room{}, err
	}
	thickness, err := attrMM("Room.wall_thickness", r.WallThickness, model.DefaultWallThickness)
	if err != nil {
		return model.Room{}, err
	}

	polygon := make([]model.Point, 0, len(r.Points))
	for i, pt := range r.Points {
		field := fmt.Sprintf("Polygon.Point[%d]", i)
		x, err := attrMM(field+".x", pt.X, 0)
		if err != nil {
			return model.Room{}, err
		}
		y, err := attrMM(field+".y", pt.Y, 0)
		if err != nil {
			return model.Room{}, err
		}
		polygon = append(polygon, model.Point{X: x, Y: y})
	}
	if len(polygon) < 4 {
		polygon = append([]model.Point(nil), defaultPolygon...)
	}

	return model.Room{
		ID:            orDefault(r.ID, "R001"),
		Floor:         floor,
		UseType:       orDefault(r.UseType, "living"),
		Polygon:       polygon,
		Height:        height,
		WallThickness: thickness,
	}, nil
}

func convertOpenings(in []cedxmOpening) ([]model.Opening, error) {
	out := make([]model.Opening, 0, len(in))
	for i, op := range in {
		field := fmt.Sprintf("Opening[%d]", i)

		width, err := attrMM(field+".width", op.Width, 800)
		if err != nil {
			return nil, err
		}
		height, err := attrMM(field+".height", op.Height, 2000)
		if err != nil {
			return nil, err
		}
		sill, err := attrMM(field+".sill_height", op.SillHeight, 0)
		if err != nil {
			return nil, err
		}
		offset := model.CenterOffset()
		if op.Offset != "" {
			if offset, err = model.ParseOffset(op.Offset); err != nil {
				return nil, model.Invalid(field+".offset", "%v", err)
			}
		}

		out = append(out, model.Opening{
			ID:         orDefault(op.ID, fmt.Sprintf("O-%d", i+1)),
			Wall:       orDefault(op.Wall, "W1"),
			Type:       model.OpeningType(strings.ToLower(orDefault(op.Type, string(model.OpeningDoor)))),
			Width:      width,
			Height:     height,
			SillHeight: sill,
			Offset:     offset,
		})
	}
	return out, nil
}

// attrMM parses a numeric attribute, truncating fractions. Empty attributes
// take the default.
func attrMM(field, value string, def int) (int, error) {
	if strings.TrimSpace(value) == "" {
		return def, nil
	}
	v, err := parseMM(strings.TrimSpace(value))
	if err != nil {
		return 0, model.Invalid(field, "not a number: %q", value)
	}
	return v, nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
