// Package config loads the editor's YAML configuration: window geometry,
// default entity dimensions, the texture palette and autosave settings.
// Every field is optional; an absent file yields the defaults.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/venuekit/floorplan/editor"
	"github.com/venuekit/floorplan/recon"
)

type Config struct {
	Window    Window   `yaml:"window"`
	Defaults  Defaults `yaml:"defaults"`
	Palette   []Swatch `yaml:"palette"`
	Autosave  Autosave `yaml:"autosave"`
	Templates string   `yaml:"templates"` // directory of .tengo starter plans
}

type Window struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

type Defaults struct {
	WallThickness float64 `yaml:"wall_thickness"`
	WallHeight    float64 `yaml:"wall_height"`
	WallTexture   string  `yaml:"wall_texture"`
	Door          Opening `yaml:"door"`
	Window        Opening `yaml:"window"`
	Stage         Stage   `yaml:"stage"`
}

type Opening struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Sill   float64 `yaml:"sill"`
}

type Stage struct {
	Width  float64 `yaml:"width"`
	Depth  float64 `yaml:"depth"`
	Height float64 `yaml:"height"`
	Color  string  `yaml:"color"`
}

type Swatch struct {
	Name  string `yaml:"name"`
	Color string `yaml:"color"` // "#rrggbb"
}

type Autosave struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Default is the configuration used when no file is given.
func Default() Config {
	return Config{
		Window: Window{Width: 1500, Height: 900, Title: "Floorplan Studio"},
		Defaults: Defaults{
			WallThickness: 0.2,
			WallHeight:    2.5,
			WallTexture:   "plaster",
			Door:          Opening{Width: 0.9, Height: 2.1},
			Window:        Opening{Width: 1.2, Height: 1.0, Sill: 0.9},
			Stage:         Stage{Width: 4, Depth: 3, Height: 0.4, Color: "#a0522d"},
		},
		Palette: []Swatch{
			{Name: "plaster", Color: "#e8e4da"},
			{Name: "brick", Color: "#993f33"},
			{Name: "wood", Color: "#8c6942"},
			{Name: "marble", Color: "#e0e0e6"},
		},
		Autosave: Autosave{Enabled: true, Path: "plans/autosave.json"},
	}
}

// Load reads a config file over the defaults. A missing file is not an
// error; malformed YAML is.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Default(), fmt.Errorf("config %s: %w", path, err)
	}
	cfg.fillZeroes()
	return cfg, nil
}

// fillZeroes restores defaults for fields the file zeroed or omitted;
// partial configs are the common case.
func (c *Config) fillZeroes() {
	def := Default()
	if c.Window.Width <= 0 {
		c.Window.Width = def.Window.Width
	}
	if c.Window.Height <= 0 {
		c.Window.Height = def.Window.Height
	}
	if c.Window.Title == "" {
		c.Window.Title = def.Window.Title
	}
	d := &c.Defaults
	dd := def.Defaults
	if d.WallThickness <= 0 {
		d.WallThickness = dd.WallThickness
	}
	if d.WallHeight <= 0 {
		d.WallHeight = dd.WallHeight
	}
	if d.WallTexture == "" {
		d.WallTexture = dd.WallTexture
	}
	if d.Door.Width <= 0 {
		d.Door.Width = dd.Door.Width
	}
	if d.Door.Height <= 0 {
		d.Door.Height = dd.Door.Height
	}
	if d.Window.Width <= 0 {
		d.Window.Width = dd.Window.Width
	}
	if d.Window.Height <= 0 {
		d.Window.Height = dd.Window.Height
	}
	if d.Window.Sill < 0 {
		d.Window.Sill = dd.Window.Sill
	}
	if d.Stage.Width <= 0 {
		d.Stage.Width = dd.Stage.Width
	}
	if d.Stage.Depth <= 0 {
		d.Stage.Depth = dd.Stage.Depth
	}
	if d.Stage.Height <= 0 {
		d.Stage.Height = dd.Stage.Height
	}
	if d.Stage.Color == "" {
		d.Stage.Color = dd.Stage.Color
	}
	if len(c.Palette) == 0 {
		c.Palette = def.Palette
	}
}

// EditorDefaults adapts the config to the session's placement defaults.
func (c Config) EditorDefaults() editor.Defaults {
	return editor.Defaults{
		WallThickness: c.Defaults.WallThickness,
		WallHeight:    c.Defaults.WallHeight,
		WallTexture:   c.Defaults.WallTexture,
		DoorWidth:     c.Defaults.Door.Width,
		DoorHeight:    c.Defaults.Door.Height,
		WindowWidth:   c.Defaults.Window.Width,
		WindowHeight:  c.Defaults.Window.Height,
		WindowSill:    c.Defaults.Window.Sill,
		StageWidth:    c.Defaults.Stage.Width,
		StageDepth:    c.Defaults.Stage.Depth,
		StageHeight:   c.Defaults.Stage.Height,
		StageColor:    c.Defaults.Stage.Color,
	}
}

// Materials builds the reconstruction palette.
func (c Config) Materials() *recon.Materials {
	palette := make(map[string]recon.Material, len(c.Palette))
	for _, s := range c.Palette {
		palette[s.Name] = recon.Material{Name: s.Name, Color: recon.HexColor(s.Color)}
	}
	return recon.NewMaterials(palette)
}
