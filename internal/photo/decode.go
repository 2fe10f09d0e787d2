package photo

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// Decode decodes data into an image, applying any EXIF orientation.
func Decode(data []byte) (image.Image, Format, error) {
	if len(data) == 0 {
		return nil, FormatUnknown, Invalid("image", ErrNoImage)
	}

	format := DetectFormat(data)
	if format == FormatUnknown {
		return nil, FormatUnknown, Invalid("image", ErrUnsupportedFormat)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, format, fmt.Errorf("decode %s: %w", format, err)
	}
	return img, format, nil
}
