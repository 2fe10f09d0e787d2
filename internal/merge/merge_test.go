package merge

import (
	"errors"
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/disintegration/imaging"

	"github.com/kiesman99/photokit/internal/photo"
)

var (
	red  = color.NRGBA{R: 255, A: 255}
	blue = color.NRGBA{B: 255, A: 255}
)

func solid(w, h int, c color.NRGBA) image.Image {
	return imaging.New(w, h, c)
}

func TestHorizontal(t *testing.T) {
	out, err := Merge(solid(10, 20, red), solid(30, 5, blue), Options{Mode: ModeHorizontal})
	if err != nil {
		t.Fatalf("Merge failed: %v", err)
	}
	if b := out.Bounds(); b.Dx() != 40 || b.Dy() != 20 {
		t.Fatalf("Expected 40x20, got %dx%d", b.Dx(), b.Dy())
	}
	if got := out.NRGBAAt(5, 10); got != red {
		t.Errorf("Expected red at (5,10), got %v", got)
	}
	if got := out.NRGBAAt(20, 2); got != blue {
		t.Errorf("Expected blue at (20,2), got %v", got)
	}
	if got := out.NRGBAAt(20, 10); got.A != 0 {
		t.Errorf("Expected transparent uncovered area, got %v", got)
	}
}

func TestVertical(t *testing.T) {
	out, err := Merge(solid(10, 20, red), solid(30, 5, blue), Options{Mode: ModeVertical})
	if err != nil {
		t.Fatalf("Merge failed: %v", err)
	}
	if b := out.Bounds(); b.Dx() != 30 || b.Dy() != 25 {
		t.Fatalf("Expected 30x25, got %dx%d", b.Dx(), b.Dy())
	}
	if got := out.NRGBAAt(2, 22); got != blue {
		t.Errorf("Expected blue at (2,22), got %v", got)
	}
	if got := out.NRGBAAt(20, 5); got.A != 0 {
		t.Errorf("Expected transparent uncovered area, got %v", got)
	}
}

func TestOverlay(t *testing.T) {
	out, err := Merge(solid(10, 10, red), solid(20, 8, blue), Options{Mode: ModeOverlay, Opacity: 0.5})
	if err != nil {
		t.Fatalf("Merge failed: %v", err)
	}
	if b := out.Bounds(); b.Dx() != 20 || b.Dy() != 10 {
		t.Fatalf("Expected 20x10, got %dx%d", b.Dx(), b.Dy())
	}
	got := out.NRGBAAt(10, 5)
	if math.Abs(float64(got.R)-127.5) > 2 || math.Abs(float64(got.B)-127.5) > 2 || got.A != 255 {
		t.Errorf("Expected an even red/blue blend, got %v", got)
	}
}

func TestOverlayOpacityBounds(t *testing.T) {
	fg, bg := solid(4, 4, red), solid(4, 4, blue)

	out, err := Overlay(fg, bg, 0)
	if err != nil {
		t.Fatalf("Overlay failed: %v", err)
	}
	if got := out.NRGBAAt(1, 1); got != blue {
		t.Errorf("Expected background only at opacity 0, got %v", got)
	}

	out, err = Overlay(fg, bg, 1)
	if err != nil {
		t.Fatalf("Overlay failed: %v", err)
	}
	if got := out.NRGBAAt(1, 1); got != red {
		t.Errorf("Expected foreground only at opacity 1, got %v", got)
	}

	for _, op := range []float64{-0.1, 1.01, math.NaN()} {
		if _, err := Overlay(fg, bg, op); !errors.Is(err, ErrInvalidOpacity) {
			t.Errorf("opacity %v: expected ErrInvalidOpacity, got %v", op, err)
		}
	}
}

func TestParseMode(t *testing.T) {
	tests := map[string]Mode{
		"horizontal": ModeHorizontal,
		"Vertical":   ModeVertical,
		"parallel":   ModeOverlay,
		"overlay":    ModeOverlay,
	}
	for in, want := range tests {
		got, err := ParseMode(in)
		if err != nil || got != want {
			t.Errorf("ParseMode(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseMode("diagonal"); !errors.Is(err, ErrInvalidMode) || !photo.IsValidation(err) {
		t.Errorf("Expected validation ErrInvalidMode, got %v", err)
	}
}

func TestMergeMissingImage(t *testing.T) {
	if _, err := Merge(nil, solid(2, 2, red), Options{}); !errors.Is(err, photo.ErrNoImage) {
		t.Errorf("Expected ErrNoImage, got %v", err)
	}
}
