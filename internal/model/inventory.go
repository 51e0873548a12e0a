package model

import "github.com/google/uuid"

// BoardPreset is a reusable raw sheet definition in the board catalog.
type BoardPreset struct {
	ID            string      `json:"id"`
	Board         BoardMaster `json:"board"`
	MaxWallHeight int         `json:"max_wall_height"` // tallest wall this board covers in one row, 0 = unlimited
	PricePerSheet float64     `json:"price_per_sheet"`
}

// NewBoardPreset creates a preset with a generated ID.
func NewBoardPreset(board BoardMaster, maxWallHeight int) BoardPreset {
	return BoardPreset{
		ID:            uuid.New().String()[:8],
		Board:         board,
		MaxWallHeight: maxWallHeight,
	}
}

// Catalog holds the boards available to a shop.
type Catalog struct {
	Boards []BoardPreset `json:"boards"`
}

func gypsum(size string, height int) BoardMaster {
	return BoardMaster{
		Name:      "GB-R " + size,
		Thickness: 12.5,
		Width:     910,
		Height:    height,
		Rotatable: true,
	}
}

// DefaultCatalog returns the standard 910mm-wide gypsum boards. Height
// presets are ordered shortest first; BoardForHeight relies on that order.
func DefaultCatalog() Catalog {
	return Catalog{
		Boards: []BoardPreset{
			NewBoardPreset(gypsum("3×6", 1820), 0),
			NewBoardPreset(gypsum("3×8", 2430), 2420),
			NewBoardPreset(gypsum("3×9", 2730), 2730),
			NewBoardPreset(gypsum("3×10", 3030), 0),
		},
	}
}

// FindByName returns a pointer to the preset whose board has the given name, or nil.
func (c *Catalog) FindByName(name string) *BoardPreset {
	for i := range c.Boards {
		if c.Boards[i].Board.Name == name {
			return &c.Boards[i]
		}
	}
	return nil
}

// FindByID returns a pointer to the preset with the given ID, or nil.
func (c *Catalog) FindByID(id string) *BoardPreset {
	for i := range c.Boards {
		if c.Boards[i].ID == id {
			return &c.Boards[i]
		}
	}
	return nil
}

// Names returns the board names in catalog order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.Boards))
	for i, b := range c.Boards {
		names[i] = b.Board.Name
	}
	return names
}

// BoardForHeight picks the recommended board for a wall height: up to 2420mm
// a 3×8, up to 2730mm a 3×9, otherwise a 3×10.
func BoardForHeight(wallHeight int) BoardMaster {
	switch {
	case wallHeight <= 2420:
		return gypsum("3×8", 2430)
	case wallHeight <= 2730:
		return gypsum("3×9", 2730)
	default:
		return gypsum("3×10", 3030)
	}
}
