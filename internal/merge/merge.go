// Package merge combines two photos side by side, stacked, or overlaid.
package merge

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/kiesman99/photokit/internal/photo"
)

// MaxPixels caps the size of the merged canvas.
const MaxPixels = photo.MaxPixels

// DefaultOpacity is the foreground opacity used when none is given.
const DefaultOpacity = 0.5

// Mode selects how the two photos are combined
type Mode int

const (
	ModeHorizontal Mode = iota
	ModeVertical
	ModeOverlay
)

var (
	ErrInvalidMode    = errors.New("mode must be horizontal, vertical, parallel or overlay")
	ErrInvalidOpacity = errors.New("opacity must be between 0 and 1")
	ErrTooLarge       = photo.ErrTooLarge
)

func (m Mode) String() string {
	switch m {
	case ModeHorizontal:
		return "horizontal"
	case ModeVertical:
		return "vertical"
	case ModeOverlay:
		return "overlay"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode parses a mode name. "parallel" is accepted as a synonym for overlay.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "horizontal", "h":
		return ModeHorizontal, nil
	case "vertical", "v":
		return ModeVertical, nil
	case "parallel", "overlay":
		return ModeOverlay, nil
	}
	return 0, photo.Invalid("mode", fmt.Errorf("%w: %q", ErrInvalidMode, s))
}

// Options contains all merge parameters
type Options struct {
	Mode Mode
	// Opacity of the first photo in overlay mode, in [0, 1].
	Opacity float64
}

// Merge combines first and second according to opts.Mode.
// In overlay mode first is the foreground and second the background.
func Merge(first, second image.Image, opts Options) (*image.NRGBA, error) {
	if first == nil || second == nil {
		return nil, photo.Invalid("image", photo.ErrNoImage)
	}
	switch opts.Mode {
	case ModeHorizontal:
		return Horizontal(first, second)
	case ModeVertical:
		return Vertical(first, second)
	case ModeOverlay:
		return Overlay(first, second, opts.Opacity)
	}
	return nil, photo.Invalid("mode", fmt.Errorf("%w: %s", ErrInvalidMode, opts.Mode))
}

// Horizontal places b to the right of a, top-aligned.
func Horizontal(a, b image.Image) (*image.NRGBA, error) {
	ab, bb := a.Bounds(), b.Bounds()
	canvas, err := newCanvas(ab.Dx()+bb.Dx(), max(ab.Dy(), bb.Dy()))
	if err != nil {
		return nil, err
	}
	canvas = imaging.Paste(canvas, a, image.Pt(0, 0))
	canvas = imaging.Paste(canvas, b, image.Pt(ab.Dx(), 0))
	return canvas, nil
}

// Vertical places b below a, left-aligned.
func Vertical(a, b image.Image) (*image.NRGBA, error) {
	ab, bb := a.Bounds(), b.Bounds()
	canvas, err := newCanvas(max(ab.Dx(), bb.Dx()), ab.Dy()+bb.Dy())
	if err != nil {
		return nil, err
	}
	canvas = imaging.Paste(canvas, a, image.Pt(0, 0))
	canvas = imaging.Paste(canvas, b, image.Pt(0, ab.Dy()))
	return canvas, nil
}

// Overlay stretches both images to the larger of their dimensions and draws
// fg over bg with the given opacity.
func Overlay(fg, bg image.Image, opacity float64) (*image.NRGBA, error) {
	if opacity < 0 || opacity > 1 || math.IsNaN(opacity) {
		return nil, photo.Invalid("opacity", fmt.Errorf("%w: %v", ErrInvalidOpacity, opacity))
	}
	fb, bb := fg.Bounds(), bg.Bounds()
	w, h := max(fb.Dx(), bb.Dx()), max(fb.Dy(), bb.Dy())
	canvas, err := newCanvas(w, h)
	if err != nil {
		return nil, err
	}
	canvas = imaging.Paste(canvas, imaging.Resize(bg, w, h, imaging.Lanczos), image.Pt(0, 0))
	return imaging.Overlay(canvas, imaging.Resize(fg, w, h, imaging.Lanczos), image.Pt(0, 0), opacity), nil
}

func newCanvas(w, h int) (*image.NRGBA, error) {
	if w <= 0 || h <= 0 {
		return nil, photo.Invalid("image", photo.ErrNoImage)
	}
	if err := photo.CheckSize(w, h); err != nil {
		return nil, photo.Invalid("image", err)
	}
	return imaging.New(w, h, color.Transparent), nil
}
