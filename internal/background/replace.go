package background

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/kiesman99/photokit/internal/photo"
)

var ErrInvalidColor = errors.New("color must be #rgb or #rrggbb")

// Fill describes the new background. Image takes precedence over Color;
// a zero Fill paints white.
type Fill struct {
	Color color.Color
	Image image.Image
}

// ParseColor parses a "#rgb" or "#rrggbb" hex colour. The leading '#' is optional.
func ParseColor(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color.NRGBA{}, photo.Invalid("color", fmt.Errorf("%w: %q", ErrInvalidColor, s))
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, photo.Invalid("color", fmt.Errorf("%w: %q", ErrInvalidColor, s))
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}

// Replace draws fill behind fg. The output has fg's dimensions.
func Replace(fg image.Image, fill Fill) (*image.NRGBA, error) {
	if fg == nil {
		return nil, photo.Invalid("image", photo.ErrNoImage)
	}
	b := fg.Bounds()
	if b.Empty() {
		return nil, photo.Invalid("image", photo.ErrNoImage)
	}

	var canvas *image.NRGBA
	if fill.Image != nil {
		canvas = imaging.Resize(fill.Image, b.Dx(), b.Dy(), imaging.Lanczos)
	} else {
		c := fill.Color
		if c == nil {
			c = color.White
		}
		canvas = imaging.New(b.Dx(), b.Dy(), c)
	}
	return imaging.Overlay(canvas, fg, image.Pt(0, 0), 1), nil
}
