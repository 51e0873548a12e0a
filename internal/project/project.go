package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/piwi3910/PanelCut/internal/model"
)

// ProjectFileExt is the extension used for saved projects.
const ProjectFileExt = ".panelcut.json"

// SaveProject writes a project to path as indented JSON.
func SaveProject(path string, p model.Project) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create project directory: %w", err)
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal project: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write project file: %w", err)
	}
	return nil
}

// LoadProject reads a project saved by SaveProject. Room defaults are filled
// in for fields the file leaves at zero.
func LoadProject(path string) (model.Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Project{}, fmt.Errorf("failed to read project file: %w", err)
	}
	var p model.Project
	if err := json.Unmarshal(data, &p); err != nil {
		return model.Project{}, fmt.Errorf("failed to parse project file: %w", err)
	}
	if p.Room.WallThickness == 0 {
		p.Room.WallThickness = model.DefaultWallThickness
	}
	if p.Openings == nil {
		p.Openings = []model.Opening{}
	}
	return p, nil
}
