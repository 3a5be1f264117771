package config

import (
	"encoding/json"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/gambadio/icon-pelikan/internal/compose"
)

func TestUnmarshalDefaults(t *testing.T) {
	var cfg Config
	if err := json.Unmarshal([]byte(`{}`), &cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.Options.Packer != "tool" {
		t.Errorf("Packer = %q, want tool", cfg.Options.Packer)
	}
	if cfg.Options.History != "file" {
		t.Errorf("History = %q, want file", cfg.Options.History)
	}
}

func TestUnmarshalOverrides(t *testing.T) {
	data := []byte(`{
		"config": {"converter": "/opt/iconutil", "packer": "icns", "history": "sqlite"},
		"presets": {
			"mac": {"canvas_px": 1024, "scale": 0.9, "radius": 180, "background": "#111111"},
			"round": {"shape": "circle", "radius": 0}
		}
	}`)
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.Options.Converter != "/opt/iconutil" || cfg.Options.Packer != "icns" || cfg.Options.History != "sqlite" {
		t.Errorf("options = %+v", cfg.Options)
	}
	if len(cfg.Presets) != 2 {
		t.Fatalf("presets = %d, want 2", len(cfg.Presets))
	}

	p, err := cfg.Presets["mac"].Params()
	if err != nil {
		t.Fatal(err)
	}
	if p.CanvasPx != 1024 || p.Scale != 0.9 || p.Radius != 180 {
		t.Errorf("mac params = %+v", p)
	}
	if p.Background == nil || *p.Background != (color.NRGBA{R: 0x11, G: 0x11, B: 0x11, A: 0xff}) {
		t.Errorf("mac background = %v", p.Background)
	}

	p, err = cfg.Presets["round"].Params()
	if err != nil {
		t.Fatal(err)
	}
	if p.Shape != compose.Circle {
		t.Errorf("round shape = %v, want Circle", p.Shape)
	}
	// Explicit zero radius must survive resolution (not fall back to 100).
	if p.Radius != 0 {
		t.Errorf("round radius = %d, want 0", p.Radius)
	}
	// Omitted fields fall back to composer defaults.
	if p.CanvasPx != compose.DefaultCanvasPx {
		t.Errorf("round canvas = %d, want default %d", p.CanvasPx, compose.DefaultCanvasPx)
	}
}

func TestPresetParamsValidation(t *testing.T) {
	bad := Preset{Scale: 1.5}
	if _, err := bad.Params(); err == nil {
		t.Error("scale 1.5 should fail validation")
	}
	badShape := Preset{Shape: "triangle"}
	if _, err := badShape.Params(); err == nil {
		t.Error("unknown shape should fail")
	}
	badColor := Preset{Background: "red"}
	if _, err := badColor.Params(); err == nil {
		t.Error("non-hex background should fail")
	}
}

func TestLoadExplicitPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.json")
	os.WriteFile(path, []byte(`{"presets": {"p": {"canvas_px": 256}}}`), 0644)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, ok := cfg.Presets["p"]; !ok {
		t.Error("preset p not loaded")
	}
}

func TestLoadExplicitPathMissing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("explicitly named missing config must be an error")
	}
}

func TestLoadBadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.json")
	os.WriteFile(path, []byte(`{not json`), 0644)
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestResolve(t *testing.T) {
	cfg := Config{Presets: map[string]Preset{
		"default": {CanvasPx: 333},
		"big":     {CanvasPx: 1024},
	}}

	p, err := Resolve(cfg, "")
	if err != nil || p.CanvasPx != 333 {
		t.Errorf("Resolve(\"\") = %+v, %v; want default preset (333)", p, err)
	}
	p, err = Resolve(cfg, "big")
	if err != nil || p.CanvasPx != 1024 {
		t.Errorf("Resolve(big) = %+v, %v", p, err)
	}
	if _, err := Resolve(cfg, "missing"); err == nil {
		t.Error("unknown preset should fail")
	}

	// No presets at all: empty name falls back to composer defaults.
	p, err = Resolve(Default(), "")
	if err != nil || p.CanvasPx != compose.DefaultCanvasPx {
		t.Errorf("Resolve on empty config = %+v, %v", p, err)
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.NRGBA
		wantErr bool
	}{
		{"#111111", color.NRGBA{R: 0x11, G: 0x11, B: 0x11, A: 0xff}, false},
		{"#ff8000", color.NRGBA{R: 0xff, G: 0x80, B: 0x00, A: 0xff}, false},
		{"#fff", color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, false},
		{"#a3c", color.NRGBA{R: 0xaa, G: 0x33, B: 0xcc, A: 0xff}, false},
		{"111111", color.NRGBA{}, true},
		{"#11", color.NRGBA{}, true},
		{"#gggggg", color.NRGBA{}, true},
		{"", color.NRGBA{}, true},
	}
	for _, tt := range tests {
		got, err := ParseHexColor(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseHexColor(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseHexColor(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}
