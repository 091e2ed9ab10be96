package settings

import (
	"bytes"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"

	"frame-bridge/pkg/layout"
)

// Settings holds the player preferences toggled at runtime that should
// survive a restart.
type Settings struct {
	Loop        bool   `toml:"loop"`
	Fit         string `toml:"fit"`
	MouseHidden bool   `toml:"mouse_hidden"`
	LastSource  string `toml:"last_source,omitempty"`
}

var defaultSettings = Settings{
	Fit: layout.FitContain.String(),
}

// Defaults returns the settings used when nothing was saved yet.
func Defaults() Settings {
	return defaultSettings
}

// ContentFit parses the stored fit, falling back to contain.
func (s Settings) ContentFit() layout.ContentFit {
	fit, err := layout.ParseContentFit(s.Fit)
	if err != nil {
		return layout.FitContain
	}
	return fit
}

// Load reads the settings file. A missing or malformed file yields the
// defaults so the player can still start.
func Load(fs afero.Fs, path string) Settings {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return defaultSettings
	}

	s := defaultSettings
	if err := toml.Unmarshal(data, &s); err != nil {
		return defaultSettings
	}

	if _, err := layout.ParseContentFit(s.Fit); err != nil {
		s.Fit = defaultSettings.Fit
	}
	return s
}

// Save writes the settings, replacing any previous file.
func Save(fs afero.Fs, path string, s Settings) error {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	if err := enc.Encode(s); err != nil {
		return err
	}
	return afero.WriteFile(fs, path, buf.Bytes(), 0o644)
}
