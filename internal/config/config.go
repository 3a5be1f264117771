// Package config loads pelikan-config.json: global options plus named
// render presets.
package config

import (
	"encoding/json"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gambadio/icon-pelikan/internal/compose"
	"github.com/gambadio/icon-pelikan/internal/paths"
)

// Options holds global settings parsed from the "config" key.
type Options struct {
	Converter string `json:"converter,omitempty"` // icns converter command, default iconutil
	Packer    string `json:"packer,omitempty"`    // "tool" (external converter) or "icns" (in-process)
	History   string `json:"history,omitempty"`   // "file", "sqlite" or "off"
}

// Config holds the top-level configuration: global options and presets.
type Config struct {
	Options Options           `json:"config"`
	Presets map[string]Preset `json:"presets"`
}

// UnmarshalJSON sets defaults then decodes the JSON structure. Go's
// json.Unmarshal merges into existing struct fields, so only values
// present in JSON override the defaults.
func (c *Config) UnmarshalJSON(data []byte) error {
	c.Options.Packer = "tool"
	c.Options.History = "file"
	type Alias Config
	return json.Unmarshal(data, (*Alias)(c))
}

// Preset is a named, partially specified parameter set. Omitted fields
// fall back to the composer defaults; Radius is a pointer because 0 is
// a meaningful value.
type Preset struct {
	CanvasPx   int     `json:"canvas_px,omitempty"`
	Scale      float64 `json:"scale,omitempty"`
	Radius     *int    `json:"radius,omitempty"`
	Shape      string  `json:"shape,omitempty"`      // "rounded" or "circle"
	Background string  `json:"background,omitempty"` // hex color, "" = transparent
}

// Params resolves the preset into validated compose parameters.
func (p Preset) Params() (compose.Params, error) {
	out := compose.DefaultParams()
	if p.CanvasPx != 0 {
		out.CanvasPx = p.CanvasPx
	}
	if p.Scale != 0 {
		out.Scale = p.Scale
	}
	if p.Radius != nil {
		out.Radius = *p.Radius
	}
	if p.Shape != "" {
		shape, err := compose.ParseShape(p.Shape)
		if err != nil {
			return out, err
		}
		out.Shape = shape
	}
	if p.Background != "" {
		bg, err := ParseHexColor(p.Background)
		if err != nil {
			return out, err
		}
		out.Background = &bg
	}
	if err := out.Validate(); err != nil {
		return out, err
	}
	return out, nil
}

// Default returns the configuration used when no config file exists.
func Default() Config {
	return Config{
		Options: Options{Packer: "tool", History: "file"},
	}
}

// Load reads and parses a config file. It tries, in order:
//  1. explicitPath (if non-empty)
//  2. pelikan-config.json next to the running binary
//  3. the user config dir (paths.DataDir)
//
// A missing file is not an error — unlike a named but unreadable one —
// the defaults simply apply.
func Load(explicitPath string) (Config, error) {
	if explicitPath != "" {
		return readConfig(explicitPath)
	}

	// Next to binary
	exe, err := os.Executable()
	if err == nil {
		p := filepath.Join(filepath.Dir(exe), paths.ConfigFileName)
		if _, err := os.Stat(p); err == nil {
			return readConfig(p)
		}
	}

	// User config directory
	p := filepath.Join(paths.DataDir(), paths.ConfigFileName)
	if _, err := os.Stat(p); err == nil {
		return readConfig(p)
	}

	return Default(), nil
}

func readConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// Resolve looks up a preset by name and resolves it to parameters.
// An empty name means the "default" preset if one is configured,
// otherwise the composer defaults.
func Resolve(cfg Config, name string) (compose.Params, error) {
	if name == "" {
		if p, ok := cfg.Presets["default"]; ok {
			return p.Params()
		}
		return compose.DefaultParams(), nil
	}
	p, ok := cfg.Presets[name]
	if !ok {
		return compose.Params{}, fmt.Errorf("preset %q not found", name)
	}
	return p.Params()
}

// ParseHexColor parses #rgb or #rrggbb into an opaque color. The icon
// background is always fully opaque, so no alpha component is accepted.
func ParseHexColor(s string) (color.NRGBA, error) {
	if len(s) == 0 || s[0] != '#' {
		return color.NRGBA{}, fmt.Errorf("color %q must start with '#'", s)
	}
	hex := s[1:]
	var r, g, b uint64
	var err error
	switch len(hex) {
	case 3:
		r, g, b, err = parseHexTriplet(hex, 1)
		r, g, b = r*0x11, g*0x11, b*0x11
	case 6:
		r, g, b, err = parseHexTriplet(hex, 2)
	default:
		return color.NRGBA{}, fmt.Errorf("color %q must be #rgb or #rrggbb", s)
	}
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("color %q: %w", s, err)
	}
	return color.NRGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: 0xff}, nil
}

func parseHexTriplet(hex string, width int) (r, g, b uint64, err error) {
	if r, err = strconv.ParseUint(hex[:width], 16, 8); err != nil {
		return
	}
	if g, err = strconv.ParseUint(hex[width:2*width], 16, 8); err != nil {
		return
	}
	b, err = strconv.ParseUint(hex[2*width:], 16, 8)
	return
}
