package main

import (
	"testing"

	"github.com/gambadio/icon-pelikan/internal/compose"
	"github.com/gambadio/icon-pelikan/internal/config"
	"github.com/gambadio/icon-pelikan/internal/iconset"
)

func TestParseRenderFlags(t *testing.T) {
	f := parseRenderFlags([]string{
		"--preset", "mac", "--size", "1024", "--scale", "0.9",
		"--radius", "0", "--shape", "circle", "--background", "#111",
		"--verbose", "in.png", "out.icns",
	})
	if f.preset != "mac" || f.size != 1024 || f.scale != 0.9 || f.radius != 0 {
		t.Errorf("numeric flags = %+v", f)
	}
	if f.shape != "circle" || f.background != "#111" || !f.verbose {
		t.Errorf("string flags = %+v", f)
	}
	if len(f.rest) != 2 || f.rest[0] != "in.png" || f.rest[1] != "out.icns" {
		t.Errorf("positionals = %v", f.rest)
	}
}

func TestParseRenderFlagsUnsetDefaults(t *testing.T) {
	f := parseRenderFlags([]string{"in.png", "out.png"})
	if f.size != -1 || f.scale != -1 || f.radius != -1 {
		t.Errorf("unset markers lost: %+v", f)
	}
}

func TestResolveParamsLayering(t *testing.T) {
	radius := 20
	cfg := config.Config{Presets: map[string]config.Preset{
		"p": {CanvasPx: 256, Radius: &radius, Shape: "circle"},
	}}

	// Flags win over the preset; untouched preset fields survive.
	f := renderFlags{preset: "p", size: 640, scale: -1, radius: -1}
	params := resolveParams(cfg, f)
	if params.CanvasPx != 640 {
		t.Errorf("CanvasPx = %d, want CLI override 640", params.CanvasPx)
	}
	if params.Radius != 20 {
		t.Errorf("Radius = %d, want preset 20", params.Radius)
	}
	if params.Shape != compose.Circle {
		t.Errorf("Shape = %v, want preset Circle", params.Shape)
	}
	// Explicit radius 0 overrides the preset.
	f = renderFlags{preset: "p", size: -1, scale: -1, radius: 0}
	if params := resolveParams(cfg, f); params.Radius != 0 {
		t.Errorf("Radius = %d, want explicit 0", params.Radius)
	}
}

func TestPickPacker(t *testing.T) {
	cfg := config.Default()
	if _, ok := pickPacker(cfg, "").(iconset.ToolPacker); !ok {
		t.Error("default packer should be ToolPacker")
	}
	if _, ok := pickPacker(cfg, "icns").(iconset.LibraryPacker); !ok {
		t.Error("--packer icns should select LibraryPacker")
	}

	cfg.Options.Converter = "/opt/homebrew/bin/iconutil"
	p, _ := pickPacker(cfg, "tool").(iconset.ToolPacker)
	if p.Tool != "/opt/homebrew/bin/iconutil" {
		t.Errorf("Tool = %q, want config converter path", p.Tool)
	}
}
