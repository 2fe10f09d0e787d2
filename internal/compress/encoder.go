package compress

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"math"

	"github.com/HugoSmits86/nativewebp"
	"github.com/gen2brain/jpegli"

	"github.com/kiesman99/photokit/internal/photo"
)

// Encoder writes img in a single format at a quality in (0, 1].
type Encoder interface {
	Format() photo.Format
	Encode(w io.Writer, img image.Image, quality float64) error
}

// lossless is implemented by encoders that ignore quality.
type lossless interface {
	Lossless() bool
}

// IsLossless reports whether enc ignores the quality argument.
func IsLossless(enc Encoder) bool {
	l, ok := enc.(lossless)
	return ok && l.Lossless()
}

// Level maps a quality in (0, 1] to the integer 1..100 scale used by JPEG encoders.
func Level(quality float64) int {
	q := int(math.Round(quality * 100))
	if q < 1 {
		return 1
	}
	if q > 100 {
		return 100
	}
	return q
}

// NewEncoder returns the encoder for format. useJpegli selects the jpegli
// encoder for JPEG output.
func NewEncoder(format photo.Format, useJpegli bool) (Encoder, error) {
	switch format {
	case photo.FormatJPEG:
		if useJpegli {
			return JpegliEncoder{}, nil
		}
		return JPEGEncoder{}, nil
	case photo.FormatPNG:
		return PNGEncoder{}, nil
	case photo.FormatWebP:
		return WebPEncoder{}, nil
	}
	return nil, photo.Invalid("format", fmt.Errorf("%w: cannot encode %s", photo.ErrUnsupportedFormat, format))
}

type JPEGEncoder struct{}

func (JPEGEncoder) Format() photo.Format { return photo.FormatJPEG }

func (JPEGEncoder) Encode(w io.Writer, img image.Image, quality float64) error {
	return jpeg.Encode(w, img, &jpeg.Options{Quality: Level(quality)})
}

// JpegliEncoder encodes JPEG with 4:2:0 chroma subsampling using jpegli.
type JpegliEncoder struct{}

func (JpegliEncoder) Format() photo.Format { return photo.FormatJPEG }

func (JpegliEncoder) Encode(w io.Writer, img image.Image, quality float64) error {
	return jpegli.Encode(w, img, &jpegli.EncodingOptions{
		Quality:           Level(quality),
		ChromaSubsampling: image.YCbCrSubsampleRatio420,
	})
}

// PNGEncoder writes PNG at best compression. Quality is ignored.
type PNGEncoder struct{}

func (PNGEncoder) Format() photo.Format { return photo.FormatPNG }
func (PNGEncoder) Lossless() bool       { return true }

func (PNGEncoder) Encode(w io.Writer, img image.Image, _ float64) error {
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	return enc.Encode(w, img)
}

// WebPEncoder writes lossless WebP. Quality is ignored.
type WebPEncoder struct{}

func (WebPEncoder) Format() photo.Format { return photo.FormatWebP }
func (WebPEncoder) Lossless() bool       { return true }

func (WebPEncoder) Encode(w io.Writer, img image.Image, _ float64) error {
	return nativewebp.Encode(w, img, &nativewebp.Options{})
}
