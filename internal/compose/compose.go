// Package compose turns an arbitrary source image into a square icon
// canvas: the source is force-scaled into the center of the canvas and
// clipped to a rounded-rectangle or circular shape, optionally over a
// solid background. Composition is pure — it allocates a fresh canvas
// on every call and never touches the source pixels.
package compose

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
)

// Shape selects the clipping mask applied to the inner image.
type Shape int

const (
	Rounded Shape = iota // rounded rectangle, corner radius from Params.Radius
	Circle               // ellipse inscribed in the inner square
)

// String returns the config/CLI spelling of the shape.
func (s Shape) String() string {
	if s == Circle {
		return "circle"
	}
	return "rounded"
}

// ParseShape parses the config/CLI spelling of a shape.
func ParseShape(s string) (Shape, error) {
	switch s {
	case "rounded":
		return Rounded, nil
	case "circle":
		return Circle, nil
	default:
		return Rounded, fmt.Errorf("unknown shape %q (want rounded or circle)", s)
	}
}

// Defaults match the original app's slider positions.
const (
	DefaultCanvasPx = 512
	DefaultScale    = 0.86
	DefaultRadius   = 100
)

// Params describes a single composition. A fresh value is built per
// render request; the zero value is not valid — use DefaultParams.
type Params struct {
	CanvasPx   int          // final square canvas side in pixels
	Scale      float64      // inner image side = floor(CanvasPx * Scale), in (0,1]
	Radius     int          // corner radius for Rounded, in pixels
	Shape      Shape        // Rounded or Circle
	Background *color.NRGBA // nil = transparent canvas; alpha is forced opaque
}

// DefaultParams returns the parameters the original app starts with:
// 512 px canvas, 86% inner scale, 100 px corner radius, rounded, no
// background.
func DefaultParams() Params {
	return Params{
		CanvasPx: DefaultCanvasPx,
		Scale:    DefaultScale,
		Radius:   DefaultRadius,
		Shape:    Rounded,
	}
}

// Validate reports the first invalid field, if any. Radius has no upper
// bound here: values beyond half the inner side are clamped during
// composition rather than rejected.
func (p Params) Validate() error {
	if p.CanvasPx <= 0 {
		return fmt.Errorf("canvas size must be positive, got %d", p.CanvasPx)
	}
	if p.Scale <= 0 || p.Scale > 1 {
		return fmt.Errorf("scale must be in (0,1], got %g", p.Scale)
	}
	if p.Radius < 0 {
		return fmt.Errorf("corner radius must be non-negative, got %d", p.Radius)
	}
	return nil
}

// Icon composes src onto a fresh CanvasPx×CanvasPx canvas per p.
// The source is Lanczos-resampled to the inner square (aspect ratio is
// not preserved), clipped to the requested shape by replacing its alpha
// channel with the mask, and centered on the canvas. Deterministic and
// safe for concurrent use; never fails for parameters accepted by
// Validate. An inner side that rounds down to zero yields the
// background-only canvas.
func Icon(src image.Image, p Params) *image.NRGBA {
	canvas := image.NewNRGBA(image.Rect(0, 0, p.CanvasPx, p.CanvasPx))
	if p.Background != nil {
		bg := *p.Background
		bg.A = 0xff
		draw.Draw(canvas, canvas.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	}

	innerPx := int(float64(p.CanvasPx) * p.Scale)
	if innerPx <= 0 {
		return canvas
	}

	inner := imaging.Resize(src, innerPx, innerPx, imaging.Lanczos)
	clip(inner, shapeMask(innerPx, p.Shape, p.Radius))

	off := (p.CanvasPx - innerPx) / 2
	r := image.Rect(off, off, off+innerPx, off+innerPx)
	draw.Draw(canvas, r, inner, image.Point{}, draw.Over)
	return canvas
}

// shapeMask rasterizes the clipping shape into an alpha mask: opaque
// inside, transparent outside. The corner radius is clamped to half the
// mask side, so oversized radii degrade to a capsule/circle instead of
// failing.
func shapeMask(side int, shape Shape, radius int) *image.Alpha {
	dc := gg.NewContext(side, side)
	s := float64(side)
	switch shape {
	case Circle:
		dc.DrawEllipse(s/2, s/2, s/2, s/2)
	default:
		r := float64(radius)
		if r > s/2 {
			r = s / 2
		}
		if r <= 0 {
			dc.DrawRectangle(0, 0, s, s)
		} else {
			dc.DrawRoundedRectangle(0, 0, s, s, r)
		}
	}
	dc.SetRGB(1, 1, 1)
	dc.Fill()
	return dc.AsMask()
}

// clip replaces img's alpha channel with the mask. The mask is not
// multiplied with any existing alpha: pixels inside the shape become
// fully opaque, pixels outside fully transparent.
func clip(img *image.NRGBA, mask *image.Alpha) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			img.Pix[img.PixOffset(x, y)+3] = mask.AlphaAt(x, y).A
		}
	}
}
