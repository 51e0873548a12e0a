package project

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/piwi3910/PanelCut/internal/model"
)

// DefaultCatalogPath returns the default file path for the board catalog.
// This is located at ~/.panelcut/boards.json.
func DefaultCatalogPath() string {
	return filepath.Join(DefaultConfigDir(), "boards.json")
}

// SaveCatalog writes the board catalog to the specified JSON file.
// It creates parent directories if they do not exist.
func SaveCatalog(path string, c model.Catalog) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadCatalog reads the board catalog from the specified JSON file.
// If the file does not exist, it returns the default catalog and saves it.
func LoadCatalog(path string) (model.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			c := model.DefaultCatalog()
			if saveErr := SaveCatalog(path, c); saveErr != nil {
				return c, saveErr
			}
			return c, nil
		}
		return model.Catalog{}, err
	}
	var c model.Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return model.Catalog{}, err
	}
	return c, nil
}

// ImportCatalog merges the boards of the catalog file at path into existing.
// Presets whose ID or board name is already present are skipped.
func ImportCatalog(path string, existing model.Catalog) (model.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return existing, err
	}
	var imported model.Catalog
	if err := json.Unmarshal(data, &imported); err != nil {
		return existing, err
	}

	ids := make(map[string]bool, len(existing.Boards))
	names := make(map[string]bool, len(existing.Boards))
	for _, b := range existing.Boards {
		ids[b.ID] = true
		names[b.Board.Name] = true
	}

	for _, b := range imported.Boards {
		if ids[b.ID] || names[b.Board.Name] {
			continue
		}
		existing.Boards = append(existing.Boards, b)
		ids[b.ID] = true
		names[b.Board.Name] = true
	}
	return existing, nil
}
