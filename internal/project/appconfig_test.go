package project

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/PanelCut/internal/model"
)

func TestSaveAndLoadAppConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	cfg := model.DefaultAppConfig()
	cfg.DefaultStudPitch = 303
	cfg.DefaultBoard = "GB-R 3×9"
	cfg.PreferYLong = true
	cfg.HistoryPath = filepath.Join(dir, "runs.db")
	cfg.RecentProjects = []string{"/tmp/a.panelcut.json", "/tmp/b.panelcut.json"}

	if err := SaveAppConfig(path, cfg); err != nil {
		t.Fatalf("SaveAppConfig failed: %v", err)
	}

	loaded, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}

	if loaded.DefaultStudPitch != 303 {
		t.Errorf("expected DefaultStudPitch=303, got %d", loaded.DefaultStudPitch)
	}
	if loaded.DefaultBoard != "GB-R 3×9" {
		t.Errorf("expected DefaultBoard=GB-R 3×9, got %s", loaded.DefaultBoard)
	}
	if !loaded.PreferYLong {
		t.Error("expected PreferYLong=true")
	}
	if loaded.HistoryPath != cfg.HistoryPath {
		t.Errorf("expected HistoryPath=%s, got %s", cfg.HistoryPath, loaded.HistoryPath)
	}
	if len(loaded.RecentProjects) != 2 {
		t.Errorf("expected 2 recent projects, got %d", len(loaded.RecentProjects))
	}
}

func TestLoadAppConfigMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nonexistent", "config.json")

	cfg, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}

	defaults := model.DefaultAppConfig()
	if cfg.DefaultStudPitch != defaults.DefaultStudPitch {
		t.Errorf("expected default stud pitch %d, got %d", defaults.DefaultStudPitch, cfg.DefaultStudPitch)
	}
	if cfg.ServerAddress != "127.0.0.1:8080" {
		t.Errorf("expected server address 127.0.0.1:8080, got %s", cfg.ServerAddress)
	}
}

func TestLoadAppConfigPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"prefer_y_long":true}`), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}
	if !cfg.PreferYLong {
		t.Error("expected PreferYLong from file")
	}
	if cfg.DefaultStudPitch != model.StudPitch455 {
		t.Errorf("expected default stud pitch 455, got %d", cfg.DefaultStudPitch)
	}
	if got := HistoryPath(path, cfg); got != filepath.Join(filepath.Dir(path), "history.db") {
		t.Errorf("expected history.db next to the config, got %s", got)
	}
}

func TestHistoryPath(t *testing.T) {
	cfg := model.AppConfig{HistoryPath: "/data/runs.db"}
	if got := HistoryPath("/etc/panelcut/config.json", cfg); got != "/data/runs.db" {
		t.Errorf("expected configured path, got %s", got)
	}
	if got := HistoryPath("/etc/panelcut/config.json", model.AppConfig{}); got != filepath.Join("/etc/panelcut", "history.db") {
		t.Errorf("unexpected default history path %s", got)
	}
}

func TestLoadAppConfigInvalidJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	if err := os.WriteFile(path, []byte("not valid json{{{"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadAppConfig(path)
	if err == nil {
		t.Fatal("expected error for invalid JSON, got nil")
	}
}

func TestSaveAppConfigCreatesDirectories(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "dir", "config.json")

	if err := SaveAppConfig(path, model.DefaultAppConfig()); err != nil {
		t.Fatalf("SaveAppConfig should create parent dirs: %v", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatal("config file was not created")
	}
}

func TestLoadAppConfigNilRecentProjects(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	data := []byte(`{"default_stud_pitch":455,"recent_projects":null}`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}
	if cfg.RecentProjects == nil {
		t.Error("RecentProjects should not be nil after loading")
	}
}

func TestDefaultConfigPaths(t *testing.T) {
	t.Setenv(HomeEnv, "")
	if filepath.Base(DefaultConfigDir()) != ".panelcut" {
		t.Errorf("expected config dir .panelcut, got %s", DefaultConfigDir())
	}
	if filepath.Base(DefaultConfigPath()) != "config.json" {
		t.Errorf("expected config.json, got %s", DefaultConfigPath())
	}
	if filepath.Base(DefaultCatalogPath()) != "boards.json" {
		t.Errorf("expected boards.json, got %s", DefaultCatalogPath())
	}
}

func TestDefaultConfigDirFromEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(HomeEnv, dir)

	if got := DefaultConfigPath(); got != filepath.Join(dir, "config.json") {
		t.Errorf("expected config under %s, got %s", dir, got)
	}
	if got := DefaultCatalogPath(); got != filepath.Join(dir, "boards.json") {
		t.Errorf("expected catalog under %s, got %s", dir, got)
	}
}

func TestSaveAppConfigReplacesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cfg := model.DefaultAppConfig()
	if err := SaveAppConfig(path, cfg); err != nil {
		t.Fatal(err)
	}
	cfg.DefaultBoard = "GB-R 3×10"
	if err := SaveAppConfig(path, cfg); err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file left behind")
	}
	loaded, err := LoadAppConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.DefaultBoard != "GB-R 3×10" {
		t.Errorf("expected second save to win, got %q", loaded.DefaultBoard)
	}
}

func TestAppConfigValidation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cfg := model.DefaultAppConfig()
	cfg.DefaultStudPitch = -455
	if err := SaveAppConfig(path, cfg); !errors.Is(err, model.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput on save, got %v", err)
	}

	if err := os.WriteFile(path, []byte(`{"default_min_piece":-1}`), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadAppConfig(path)
	var verr *model.ValidationError
	if !errors.As(err, &verr) || verr.Field != "default_min_piece" {
		t.Errorf("expected default_min_piece validation error, got %v", err)
	}
}
