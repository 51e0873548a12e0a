package project

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/piwi3910/PanelCut/internal/model"
)

// Master is the shop master data: the board in use, the manufacturing rules
// and the default run settings.
//
//	stud_pitch = 455
//	prefer_y_long = false
//
//	[board]
//	name = "GB-R 3×8"
//	thickness = 12.5
//	width = 910
//	height = 2430
//	rotatable = true
//
//	[rules]
//	min_piece = 150
//	clearance = 5
//	kerf = 3
//	joint = 3
type Master struct {
	StudPitch   int               `toml:"stud_pitch"`
	PreferYLong bool              `toml:"prefer_y_long"`
	Board       model.BoardMaster `toml:"board"`
	Rules       model.Rules       `toml:"rules"`
}

// DefaultMaster returns the GB-R 3×8 board with the default rules.
func DefaultMaster() Master {
	return Master{
		StudPitch: model.StudPitch455,
		Board:     model.DefaultBoard(),
		Rules:     model.DefaultRules(),
	}
}

// LoadMaster reads master data from a TOML file. Keys absent from the file
// keep the values of DefaultMaster.
func LoadMaster(path string) (Master, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Master{}, fmt.Errorf("failed to read master file: %w", err)
	}
	m := DefaultMaster()
	if err := toml.Unmarshal(data, &m); err != nil {
		return Master{}, fmt.Errorf("failed to parse master file: %w", err)
	}
	if m.Board.Width <= 0 || m.Board.Height <= 0 {
		return Master{}, model.Invalid("board", "dimensions must be positive, got %dx%d", m.Board.Width, m.Board.Height)
	}
	if m.StudPitch <= 0 {
		return Master{}, model.Invalid("stud_pitch", "must be positive, got %d", m.StudPitch)
	}
	return m, nil
}

// SaveMaster writes master data as TOML.
func SaveMaster(path string, m Master) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create master directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create master file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(m); err != nil {
		return fmt.Errorf("failed to encode master file: %w", err)
	}
	return nil
}
