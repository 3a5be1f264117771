package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/gambadio/icon-pelikan/internal/compose"
	"github.com/gambadio/icon-pelikan/internal/config"
	"github.com/gambadio/icon-pelikan/internal/history"
	"github.com/gambadio/icon-pelikan/internal/iconset"
	"github.com/gambadio/icon-pelikan/internal/imgio"
	"github.com/gambadio/icon-pelikan/internal/workflow"
)

// renderFlags holds the options shared by compose and export, plus the
// export-only ones. Unset numeric fields stay negative so config and
// preset values shine through.
type renderFlags struct {
	preset     string
	size       int
	scale      float64
	radius     int
	shape      string
	background string

	iconsetDir string
	packer     string
	verbose    bool

	rest []string // positional args
}

func parseRenderFlags(args []string) renderFlags {
	f := renderFlags{size: -1, scale: -1, radius: -1}

	value := func(i *int, name string) string {
		if *i+1 >= len(args) {
			fatal("%s requires a value", name)
		}
		*i++
		return args[*i]
	}

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--preset":
			f.preset = value(&i, "--preset")
		case "--size":
			v, err := strconv.Atoi(value(&i, "--size"))
			if err != nil || v <= 0 {
				fatal("--size must be a positive integer")
			}
			f.size = v
		case "--scale":
			v, err := strconv.ParseFloat(value(&i, "--scale"), 64)
			if err != nil || v <= 0 || v > 1 {
				fatal("--scale must be a number in (0,1]")
			}
			f.scale = v
		case "--radius":
			v, err := strconv.Atoi(value(&i, "--radius"))
			if err != nil || v < 0 {
				fatal("--radius must be a non-negative integer")
			}
			f.radius = v
		case "--shape":
			f.shape = value(&i, "--shape")
		case "--background":
			f.background = value(&i, "--background")
		case "--iconset":
			f.iconsetDir = value(&i, "--iconset")
		case "--packer":
			f.packer = value(&i, "--packer")
		case "--verbose":
			f.verbose = true
		default:
			if strings.HasPrefix(args[i], "-") {
				fatal("unknown option %q\nRun 'icon-pelikan help' for usage.", args[i])
			}
			f.rest = append(f.rest, args[i])
		}
	}
	return f
}

// resolveParams layers CLI flags over the preset (or the defaults).
func resolveParams(cfg config.Config, f renderFlags) compose.Params {
	params, err := config.Resolve(cfg, f.preset)
	if err != nil {
		fatal("%v", err)
	}
	if f.size > 0 {
		params.CanvasPx = f.size
	}
	if f.scale > 0 {
		params.Scale = f.scale
	}
	if f.radius >= 0 {
		params.Radius = f.radius
	}
	if f.shape != "" {
		shape, err := compose.ParseShape(f.shape)
		if err != nil {
			fatal("%v", err)
		}
		params.Shape = shape
	}
	if f.background != "" {
		bg, err := config.ParseHexColor(f.background)
		if err != nil {
			fatal("%v", err)
		}
		params.Background = &bg
	}
	if err := params.Validate(); err != nil {
		fatal("%v", err)
	}
	return params
}

// record appends an export run to the configured history backend.
// Best-effort: failures go to stderr and never affect the exit status.
func record(cfg config.Config, e history.Entry) {
	s, err := history.Open(cfg.Options.History)
	if err != nil {
		fmt.Fprintf(os.Stderr, "history: %v\n", err)
		return
	}
	if s == nil {
		return
	}
	defer s.Close()
	if err := s.Record(e); err != nil {
		fmt.Fprintf(os.Stderr, "history: %v\n", err)
	}
}

func composeCmd(args []string, configPath string) {
	f := parseRenderFlags(args)
	if len(f.rest) != 2 {
		fatal("expected <input> <output.png>\nRun 'icon-pelikan help' for usage.")
	}
	input, output := f.rest[0], f.rest[1]

	cfg, err := config.Load(configPath)
	if err != nil {
		fatal("%v", err)
	}
	params := resolveParams(cfg, f)

	src, err := imgio.Decode(input)
	if err != nil {
		fatal("%v", err)
	}
	canvas := compose.Icon(src, params)

	entry := history.Entry{
		Kind: "png", Source: input, Dest: output,
		CanvasPx: params.CanvasPx, Shape: params.Shape.String(), Result: "ok",
	}
	if err := imgio.SavePNG(canvas, output); err != nil {
		entry.Result = err.Error()
		record(cfg, entry)
		fatal("%v", err)
	}
	record(cfg, entry)
	fmt.Printf("Saved %s\n", output)
}

func exportCmd(args []string, configPath string) {
	f := parseRenderFlags(args)
	if len(f.rest) != 2 && !(len(f.rest) == 1 && f.iconsetDir != "") {
		fatal("expected <input> <output.icns>\nRun 'icon-pelikan help' for usage.")
	}
	input := f.rest[0]

	cfg, err := config.Load(configPath)
	if err != nil {
		fatal("%v", err)
	}
	params := resolveParams(cfg, f)

	src, err := imgio.Decode(input)
	if err != nil {
		fatal("%v", err)
	}
	canvas := compose.Icon(src, params)

	// Manifest-only export: write the 14 PNGs and stop.
	if f.iconsetDir != "" {
		entry := history.Entry{
			Kind: "iconset", Source: input, Dest: f.iconsetDir,
			CanvasPx: params.CanvasPx, Shape: params.Shape.String(), Result: "ok",
		}
		if _, err := iconset.ExportManifest(canvas, f.iconsetDir); err != nil {
			entry.Result = err.Error()
			record(cfg, entry)
			fatal("%v", err)
		}
		record(cfg, entry)
		fmt.Printf("Wrote manifest to %s\n", f.iconsetDir)
		return
	}

	dest := f.rest[1]
	if !strings.HasSuffix(dest, ".icns") {
		dest += ".icns"
	}

	packer := pickPacker(cfg, f.packer)
	logf := func(format string, args ...any) {
		if f.verbose || strings.Contains(format, "cleanup") {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}
	}

	entry := history.Entry{
		Kind: "icns", Source: input, Dest: dest,
		CanvasPx: params.CanvasPx, Shape: params.Shape.String(), Result: "ok",
	}
	out, err := workflow.Export(canvas, dest, packer, logf)
	if err != nil {
		entry.Result = err.Error()
		record(cfg, entry)
		if errors.Is(err, iconset.ToolUnavailable) {
			fatal("%v\nInstall the Xcode Command Line Tools (xcode-select --install) or rerun with --packer icns.", err)
		}
		fatal("%v", err)
	}
	record(cfg, entry)
	fmt.Printf("Exported %s\n", out)
}

func pickPacker(cfg config.Config, override string) iconset.Packer {
	kind := cfg.Options.Packer
	if override != "" {
		kind = override
	}
	switch kind {
	case "", "tool":
		return iconset.ToolPacker{Tool: cfg.Options.Converter}
	case "icns":
		return iconset.LibraryPacker{}
	default:
		fatal("unknown packer %q (want tool or icns)", kind)
		return nil
	}
}

func presetsCmd(configPath string) {
	cfg, err := config.Load(configPath)
	if err != nil {
		fatal("%v", err)
	}
	if len(cfg.Presets) == 0 {
		d := compose.DefaultParams()
		fmt.Println("No presets configured.")
		fmt.Printf("Built-in defaults: %dpx  scale %.2f  radius %d  %s\n",
			d.CanvasPx, d.Scale, d.Radius, d.Shape)
		return
	}

	names := make([]string, 0, len(cfg.Presets))
	for name := range cfg.Presets {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		p, err := cfg.Presets[name].Params()
		if err != nil {
			fmt.Printf("  %-12s (invalid: %v)\n", name, err)
			continue
		}
		line := fmt.Sprintf("  %-12s %4dpx  scale %.2f  radius %d  %s",
			name, p.CanvasPx, p.Scale, p.Radius, p.Shape)
		if p.Background != nil {
			line += fmt.Sprintf("  bg #%02x%02x%02x", p.Background.R, p.Background.G, p.Background.B)
		}
		fmt.Println(line)
	}
}

func historyCmd(args []string, configPath string) {
	cfg, err := config.Load(configPath)
	if err != nil {
		fatal("%v", err)
	}
	store, err := history.Open(cfg.Options.History)
	if err != nil {
		fatal("%v", err)
	}
	if store == nil {
		fmt.Println("History is disabled (history=off in config).")
		return
	}
	defer store.Close()

	days := 0
	if len(args) > 0 {
		switch args[0] {
		case "clean":
			if len(args) < 2 {
				fatal("history clean requires a day count")
			}
			n, err := strconv.Atoi(args[1])
			if err != nil || n <= 0 {
				fatal("history clean requires a positive day count")
			}
			removed, err := store.Clean(n)
			if err != nil {
				fatal("%v", err)
			}
			fmt.Printf("Removed %d entries older than %d days\n", removed, n)
			return
		case "clear":
			if err := store.Clear(); err != nil {
				fatal("%v", err)
			}
			fmt.Println("History cleared")
			return
		case "path":
			fmt.Println(store.Path())
			return
		default:
			n, err := strconv.Atoi(args[0])
			if err != nil || n <= 0 {
				fatal("expected a day count, 'clean <days>', 'clear' or 'path'")
			}
			days = n
		}
	}

	entries, err := store.Entries(days)
	if err != nil {
		fatal("%v", err)
	}
	if len(entries) == 0 {
		fmt.Println("No exports recorded.")
		return
	}
	for _, e := range entries {
		status := "ok"
		if !e.OK() {
			status = "FAILED: " + e.Result
		}
		fmt.Printf("%s  %-7s  %4dpx %-7s  %s → %s  %s\n",
			e.Time.Format("2006-01-02 15:04"), e.Kind, e.CanvasPx, e.Shape,
			filepath.Base(e.Source), e.Dest, status)
	}
}
