// Package config loads and stores the persistent wavecurve settings in
// ~/.wavecurve.toml.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/ha1tch/wavecurve/pkg/curve"
)

// FileName is the settings file name in the user's home directory.
const FileName = ".wavecurve.toml"

// Config is the settings document.
type Config struct {
	Mirror Mirror `toml:"mirror"`
	Editor Editor `toml:"editor"`
	Render Render `toml:"render"`
}

// Mirror holds the scale a new curve starts at.
type Mirror struct {
	RadiusMM   float64 `toml:"radius_mm"`
	WaveHeight float64 `toml:"wave_height"`
}

// Editor holds interactive editing preferences.
type Editor struct {
	Unit              string `toml:"unit"`
	Mode              string `toml:"mode"`
	DissuadeOverhangs bool   `toml:"dissuade_overhangs"`
	LastDir           string `toml:"last_dir,omitempty"`
}

// Render holds defaults for image export.
type Render struct {
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	Format string `toml:"format"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Mirror: Mirror{RadiusMM: 300, WaveHeight: 0.3},
		Editor: Editor{Unit: "in", Mode: "bezier", DissuadeOverhangs: true},
		Render: Render{Width: 1045, Height: 422, Format: "png"},
	}
}

// Path returns the settings file location.
func Path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, FileName), nil
}

// Load reads settings from path. A missing file yields the defaults.
// Fields that are absent or unusable keep their default values; each
// replaced value is logged at warn level.
func Load(path string) (*Config, error) {
	c := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return nil, err
	}
	if err := toml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	for _, problem := range c.Normalize() {
		slog.Warn("config value replaced by default", "file", path, "problem", problem)
	}
	return c, nil
}

// Save writes settings to path.
func (c *Config) Save(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Normalize replaces unusable values with defaults and reports each one.
func (c *Config) Normalize() []string {
	def := Default()
	var problems []string

	if !(c.Mirror.RadiusMM > 0) {
		problems = append(problems, fmt.Sprintf("mirror.radius_mm = %g", c.Mirror.RadiusMM))
		c.Mirror.RadiusMM = def.Mirror.RadiusMM
	}
	if !(c.Mirror.WaveHeight > 0) {
		problems = append(problems, fmt.Sprintf("mirror.wave_height = %g", c.Mirror.WaveHeight))
		c.Mirror.WaveHeight = def.Mirror.WaveHeight
	}
	if _, err := curve.ParseUnit(c.Editor.Unit); err != nil {
		problems = append(problems, fmt.Sprintf("editor.unit = %q", c.Editor.Unit))
		c.Editor.Unit = def.Editor.Unit
	}
	if _, err := curve.ParseMode(c.Editor.Mode); err != nil {
		problems = append(problems, fmt.Sprintf("editor.mode = %q", c.Editor.Mode))
		c.Editor.Mode = def.Editor.Mode
	}
	if c.Render.Width <= 0 {
		problems = append(problems, fmt.Sprintf("render.width = %d", c.Render.Width))
		c.Render.Width = def.Render.Width
	}
	if c.Render.Height <= 0 {
		problems = append(problems, fmt.Sprintf("render.height = %d", c.Render.Height))
		c.Render.Height = def.Render.Height
	}
	if c.Render.Format != "png" && c.Render.Format != "svg" {
		problems = append(problems, fmt.Sprintf("render.format = %q", c.Render.Format))
		c.Render.Format = def.Render.Format
	}
	return problems
}

// Unit returns the parsed display unit.
func (c *Config) Unit() curve.Unit {
	u, _ := curve.ParseUnit(c.Editor.Unit)
	return u
}

// Mode returns the parsed curve mode.
func (c *Config) Mode() curve.Mode {
	m, _ := curve.ParseMode(c.Editor.Mode)
	return m
}

// EditorOptions returns the editor options these settings select.
func (c *Config) EditorOptions() []curve.Option {
	return []curve.Option{
		curve.WithMode(c.Mode()),
		curve.WithUnit(c.Unit()),
		curve.WithOverhangLimit(c.Editor.DissuadeOverhangs),
	}
}

// Apply pushes the live-editable settings onto a running editor: mode,
// unit and the overhang toggle. The scale of an open curve is left alone.
func (c *Config) Apply(e *curve.Editor) {
	if m := c.Mode(); m != e.Mode() {
		e.SetMode(m)
	}
	if u := c.Unit(); u != e.Unit() {
		e.SetUnit(u)
	}
	if c.Editor.DissuadeOverhangs != e.OverhangLimit() {
		e.SetOverhangLimit(c.Editor.DissuadeOverhangs)
	}
}
