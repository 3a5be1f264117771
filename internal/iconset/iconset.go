// Package iconset exports a composed icon canvas as the fixed set of
// PNG resolutions Apple expects in a .iconset directory, and packs such
// a directory into a single .icns container.
package iconset

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/gambadio/icon-pelikan/internal/paths"
)

// sizes are the nominal point sizes of the manifest, in manifest order.
// Each size yields a 1× and a @2x file, 14 files total.
var sizes = []int{16, 32, 64, 128, 256, 512, 1024}

// Entry is one file of the fixed export manifest.
type Entry struct {
	Size   int  // nominal size in points
	Retina bool // @2x variant, rendered at twice the nominal size
}

// Filename returns the deterministic file name for the entry.
func (e Entry) Filename() string {
	if e.Retina {
		return fmt.Sprintf("icon_%dx%d@2x.png", e.Size, e.Size)
	}
	return fmt.Sprintf("icon_%dx%d.png", e.Size, e.Size)
}

// Pixels returns the rendered side length in pixels.
func (e Entry) Pixels() int {
	if e.Retina {
		return e.Size * 2
	}
	return e.Size
}

// Manifest returns the fixed export manifest in its fixed order: for
// each nominal size the 1× entry followed by its @2x sibling.
func Manifest() []Entry {
	m := make([]Entry, 0, 2*len(sizes))
	for _, s := range sizes {
		m = append(m, Entry{Size: s}, Entry{Size: s, Retina: true})
	}
	return m
}

// ExportManifest writes every manifest entry into dir, creating dir
// (and parents) if missing, and returns dir. Each file is a Lanczos
// resize of canvas to the entry's pixel size. On failure the error has
// kind IO; files already written are left in place — staging into a
// temporary directory and cleaning up is the workflow layer's job.
func ExportManifest(canvas image.Image, dir string) (string, error) {
	if err := os.MkdirAll(dir, paths.DirPerm); err != nil {
		return "", &Error{Kind: IO, Op: "create manifest dir", Err: err}
	}
	for _, e := range Manifest() {
		px := e.Pixels()
		img := imaging.Resize(canvas, px, px, imaging.Lanczos)
		path := filepath.Join(dir, e.Filename())
		if err := imaging.Save(img, path); err != nil {
			return "", &Error{Kind: IO, Op: "write " + e.Filename(), Err: err}
		}
	}
	return dir, nil
}

// ContainerPath returns the container file path for a manifest
// directory: the directory's extension (normally .iconset) replaced
// with .icns.
func ContainerPath(manifestDir string) string {
	return strings.TrimSuffix(manifestDir, filepath.Ext(manifestDir)) + paths.ContainerExt
}
