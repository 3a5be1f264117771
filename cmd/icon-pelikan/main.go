// icon-pelikan turns a source raster image into a square app icon and
// exports it as a single PNG or a packed .icns container.
package main

import (
	"fmt"
	"os"
	"runtime"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	args := os.Args[1:]
	configPath := ""

	// Parse global flags
	filtered := args[:0]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--config", "-c":
			if i+1 < len(args) {
				configPath = args[i+1]
				i++
			} else {
				fatal("--config requires a file path")
			}
		default:
			filtered = append(filtered, args[i])
		}
	}

	if len(filtered) < 1 {
		printUsage()
		os.Exit(1)
	}

	switch filtered[0] {
	case "help", "-h", "--help":
		printUsage()
	case "version", "-V", "--version":
		printVersion()
	case "compose":
		composeCmd(filtered[1:], configPath)
	case "export":
		exportCmd(filtered[1:], configPath)
	case "presets":
		presetsCmd(configPath)
	case "history":
		historyCmd(filtered[1:], configPath)
	default:
		fatal("unknown command %q\nRun 'icon-pelikan help' for usage.", filtered[0])
	}
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

func printVersion() {
	fmt.Printf("icon-pelikan %s (%s) %s/%s\n", version, buildDate, runtime.GOOS, runtime.GOARCH)
}

func printUsage() {
	fmt.Printf("icon-pelikan %s - Generate app icons from raster images\n", version)
	fmt.Println(`
Usage:
  icon-pelikan compose [options] <input> <output.png>
  icon-pelikan export  [options] <input> <output.icns>

Render options (compose and export):
  --preset <name>        Start from a named preset in the config file
  --size <px>            Canvas size in pixels (default 512)
  --scale <0..1>         Inner image scale (default 0.86)
  --radius <px>          Corner radius for rounded shape (default 100)
  --shape <kind>         rounded or circle (default rounded)
  --background <#hex>    Solid background color (default transparent)

Export options:
  --iconset <dir>        Write the 14-file .iconset manifest to <dir> and stop
  --packer <kind>        tool (iconutil) or icns (in-process encoder)
  --verbose              Print workflow state transitions

Global options:
  --config, -c <path>    Path to pelikan-config.json

Commands:
  compose                Compose an icon and save it as a single PNG
  export                 Compose an icon and pack it into a .icns container
  presets                List presets from the config file
  history                Show past exports (history [days] | clean <days> | clear | path)
  version, -V            Show version and build date
  help, -h, --help       Show this help message

Config resolution:
  1. --config <path>                        (explicit)
  2. pelikan-config.json next to binary     (portable)
  3. ~/.config/icon-pelikan/pelikan-config.json (user default)

Examples:
  icon-pelikan compose photo.jpg icon.png
  icon-pelikan compose --shape circle --size 1024 logo.png icon.png
  icon-pelikan export --preset mac logo.png MyApp.icns
  icon-pelikan export --packer icns logo.png MyApp.icns`)
}
