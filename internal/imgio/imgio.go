// Package imgio decodes source raster files into the NRGBA form the
// composer works on, and saves composed canvases as single PNG files.
package imgio

import (
	"bytes"
	"fmt"
	"image"
	"os"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/disintegration/imaging"
	ico "github.com/sergeymakinen/go-ico"

	"github.com/gambadio/icon-pelikan/internal/paths"
)

// DecodeError marks an unreadable or unsupported source image. Fatal to
// the request it belongs to; the caller recovers by retrying with
// another file.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("cannot decode %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Decode reads and decodes the image at path and normalizes it to
// NRGBA. PNG, JPEG, GIF, BMP, TIFF and WebP go through the registered
// stdlib/x-image decoders; ICO is retried with a dedicated decoder
// because format sniffing misreads some ICO files.
func Decode(path string) (*image.NRGBA, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		icoImg, icoErr := ico.Decode(bytes.NewReader(data))
		if icoErr != nil {
			return nil, &DecodeError{Path: path, Err: err}
		}
		img = icoImg
	}
	return imaging.Clone(img), nil
}

// SavePNG writes img to path as a PNG, atomically (temp file + rename)
// so an interrupted save never leaves a truncated file at the final
// path.
func SavePNG(img image.Image, path string) error {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := paths.AtomicWrite(path, buf.Bytes()); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
