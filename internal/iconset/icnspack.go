package iconset

import (
	"image"
	"os"
	"path/filepath"

	_ "image/png"

	"github.com/jackmordaunt/icns/v3"
)

// LibraryPacker encodes the .icns container in-process instead of
// shelling out, for hosts without iconutil. It reads the largest
// manifest entry and lets the encoder derive the remaining sizes.
type LibraryPacker struct{}

// Pack encodes manifestDir's largest PNG into the container at
// ContainerPath(manifestDir). Read failures are IO errors; encoding
// failures are reported as ConversionFailed (without an exit code,
// since no process ran).
func (LibraryPacker) Pack(manifestDir string) (string, error) {
	largest := Manifest()[len(Manifest())-1] // icon_1024x1024@2x.png
	src := filepath.Join(manifestDir, largest.Filename())

	f, err := os.Open(src)
	if err != nil {
		return "", &Error{Kind: IO, Op: "read " + largest.Filename(), Err: err}
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return "", &Error{Kind: IO, Op: "decode " + largest.Filename(), Err: err}
	}

	out := ContainerPath(manifestDir)
	dst, err := os.Create(out)
	if err != nil {
		return "", &Error{Kind: IO, Op: "create " + out, Err: err}
	}
	if err := icns.Encode(dst, img); err != nil {
		dst.Close()
		os.Remove(out)
		return "", &Error{Kind: ConversionFailed, Op: "encode " + out, Err: err}
	}
	if err := dst.Close(); err != nil {
		return "", &Error{Kind: IO, Op: "close " + out, Err: err}
	}
	return out, nil
}
