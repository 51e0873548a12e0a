package model

import (
	"testing"
)

func TestDefaultAppConfig(t *testing.T) {
	cfg := DefaultAppConfig()
	rules := DefaultRules()

	if cfg.DefaultStudPitch != StudPitch455 {
		t.Errorf("expected stud pitch 455, got %d", cfg.DefaultStudPitch)
	}
	if cfg.DefaultMinPiece != rules.MinPiece {
		t.Errorf("expected min piece %d, got %d", rules.MinPiece, cfg.DefaultMinPiece)
	}
	if cfg.RecentProjects == nil {
		t.Error("RecentProjects should not be nil")
	}
}

func TestApplyToRules(t *testing.T) {
	cfg := DefaultAppConfig()
	cfg.DefaultMinPiece = 200
	cfg.DefaultKerf = 5

	r := DefaultRules()
	cfg.ApplyToRules(&r)

	if r.MinPiece != 200 {
		t.Errorf("expected MinPiece=200, got %d", r.MinPiece)
	}
	if r.Kerf != 5 {
		t.Errorf("expected Kerf=5, got %d", r.Kerf)
	}
	if r.Clearance != DefaultRules().Clearance {
		t.Error("Clearance should be untouched")
	}
}

func TestAddRecentProject(t *testing.T) {
	cfg := DefaultAppConfig()
	cfg.AddRecentProject("a.json", 2)
	cfg.AddRecentProject("b.json", 2)
	cfg.AddRecentProject("a.json", 2)
	cfg.AddRecentProject("c.json", 2)

	if len(cfg.RecentProjects) != 2 || cfg.RecentProjects[0] != "c.json" || cfg.RecentProjects[1] != "a.json" {
		t.Errorf("unexpected recent projects %v", cfg.RecentProjects)
	}
}
