package model

// AppConfig holds application-wide preferences and default run settings.
type AppConfig struct {
	// Defaults applied to new runs
	DefaultBoard     string `json:"default_board"`      // catalog board name, "" = pick by wall height
	DefaultStudPitch int    `json:"default_stud_pitch"` // mm, 455 or 303
	PreferYLong      bool   `json:"prefer_y_long"`      // restrict rotation during nesting
	DefaultMinPiece  int    `json:"default_min_piece"`
	DefaultKerf      int    `json:"default_kerf"`

	// Collaborators
	HistoryPath   string `json:"history_path"`   // SQLite file, "" = history.db next to the config file
	ServerAddress string `json:"server_address"` // listen address for `panelcut serve`

	RecentProjects []string `json:"recent_projects"`
}

// DefaultAppConfig returns an AppConfig populated with the defaults of
// DefaultRules().
func DefaultAppConfig() AppConfig {
	rules := DefaultRules()
	return AppConfig{
		DefaultBoard:     "",
		DefaultStudPitch: StudPitch455,
		PreferYLong:      false,
		DefaultMinPiece:  rules.MinPiece,
		DefaultKerf:      rules.Kerf,
		ServerAddress:    "127.0.0.1:8080",
		RecentProjects:   []string{},
	}
}

// ApplyToRules copies the configured defaults into r.
func (c AppConfig) ApplyToRules(r *Rules) {
	if c.DefaultMinPiece > 0 {
		r.MinPiece = c.DefaultMinPiece
	}
	if c.DefaultKerf >= 0 {
		r.Kerf = c.DefaultKerf
	}
}

// AddRecentProject moves path to the front of the recent list, keeping at most max entries.
func (c *AppConfig) AddRecentProject(path string, max int) {
	recent := []string{path}
	for _, p := range c.RecentProjects {
		if p != path {
			recent = append(recent, p)
		}
	}
	if max > 0 && len(recent) > max {
		recent = recent[:max]
	}
	c.RecentProjects = recent
}
