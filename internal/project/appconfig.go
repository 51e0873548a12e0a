package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/piwi3910/PanelCut/internal/model"
)

// HomeEnv overrides the configuration directory when set.
const HomeEnv = "PANELCUT_HOME"

// DefaultConfigDir is $PANELCUT_HOME, or ~/.panelcut.
func DefaultConfigDir() string {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".panelcut")
}

// DefaultConfigPath is config.json inside DefaultConfigDir.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.json")
}

// HistoryPath returns the history database of config, or history.db next
// to the config file when none is set.
func HistoryPath(configPath string, config model.AppConfig) string {
	if config.HistoryPath != "" {
		return config.HistoryPath
	}
	return filepath.Join(filepath.Dir(configPath), "history.db")
}

// SaveAppConfig writes config as indented JSON. The file is replaced through
// a temporary sibling, so readers never see a partial config.
func SaveAppConfig(path string, config model.AppConfig) error {
	if err := validateAppConfig(config); err != nil {
		return err
	}
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replacing config %s: %w", path, err)
	}
	return nil
}

// LoadAppConfig reads the config at path over DefaultAppConfig, so keys the
// file leaves out keep their defaults. A missing file yields the defaults.
func LoadAppConfig(path string) (model.AppConfig, error) {
	config := model.DefaultAppConfig()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return config, nil
	}
	if err != nil {
		return model.AppConfig{}, fmt.Errorf("reading config: %w", err)
	}
	if err := json.Unmarshal(data, &config); err != nil {
		return model.AppConfig{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := validateAppConfig(config); err != nil {
		return model.AppConfig{}, fmt.Errorf("config %s: %w", path, err)
	}
	if config.RecentProjects == nil {
		config.RecentProjects = []string{}
	}
	return config, nil
}

func validateAppConfig(c model.AppConfig) error {
	if c.DefaultStudPitch < 0 {
		return model.Invalid("default_stud_pitch", "must not be negative, got %d", c.DefaultStudPitch)
	}
	if c.DefaultMinPiece < 0 {
		return model.Invalid("default_min_piece", "must not be negative, got %d", c.DefaultMinPiece)
	}
	return nil
}
