package imgio

import (
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func writeImage(t *testing.T, name string, encode func(f *os.File) error) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := encode(f); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDecodePNG(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 8, 6))
	src.SetNRGBA(3, 2, color.NRGBA{R: 9, G: 8, B: 7, A: 200})
	path := writeImage(t, "in.png", func(f *os.File) error { return png.Encode(f, src) })

	got, err := Decode(path)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if b := got.Bounds(); b.Dx() != 8 || b.Dy() != 6 {
		t.Errorf("bounds = %v, want 8x6", b)
	}
	// Alpha survives the round trip.
	if c := got.NRGBAAt(3, 2); c.A != 200 {
		t.Errorf("pixel = %+v, want alpha 200", c)
	}
}

func TestDecodeJPEGNormalizesToNRGBA(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 10, 10))
	path := writeImage(t, "in.jpg", func(f *os.File) error {
		return jpeg.Encode(f, src, nil)
	})

	got, err := Decode(path)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	// JPEG has no alpha: the normalized image must be fully opaque.
	if a := got.NRGBAAt(5, 5).A; a != 255 {
		t.Errorf("alpha = %d, want 255", a)
	}
}

func TestDecodeCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.png")
	if err := os.WriteFile(path, []byte("not an image"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := Decode(path)
	if err == nil {
		t.Fatal("expected error for corrupt file")
	}
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Errorf("error = %T, want *DecodeError", err)
	}
	if de.Path != path {
		t.Errorf("DecodeError.Path = %q, want %q", de.Path, path)
	}
}

func TestDecodeMissingFile(t *testing.T) {
	_, err := Decode(filepath.Join(t.TempDir(), "nope.png"))
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Errorf("error = %T, want *DecodeError", err)
	}
}

func TestSavePNGRoundTrip(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	img.SetNRGBA(1, 1, color.NRGBA{R: 255, A: 255})
	path := filepath.Join(t.TempDir(), "sub", "out.png")

	if err := SavePNG(img, path); err != nil {
		t.Fatalf("SavePNG: %v", err)
	}

	got, err := Decode(path)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if c := got.NRGBAAt(1, 1); c.R != 255 || c.A != 255 {
		t.Errorf("pixel = %+v, want opaque red", c)
	}
}
