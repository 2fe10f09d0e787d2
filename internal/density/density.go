// Package density implements the "change DPI" feature: optional resampling
// followed by writing density metadata into the encoded file.
package density

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"

	"github.com/disintegration/imaging"

	"github.com/kiesman99/photokit/internal/compress"
	"github.com/kiesman99/photokit/internal/jpegmeta"
	"github.com/kiesman99/photokit/internal/photo"
	"github.com/kiesman99/photokit/internal/pngmeta"
)

// ReferenceDPI is the density assumed for images without metadata.
const ReferenceDPI = 96

// Quality used when encoding lossy output.
const Quality = 0.95

// MaxDPI is the largest density both PNG and JFIF metadata can carry.
const MaxDPI = 0xFFFF

var ErrInvalidDPI = errors.New("dpi must be between 1 and 65535")

type Options struct {
	DPI    int
	Format photo.Format
	// Rescale resamples the image by DPI/96 before encoding.
	Rescale bool
	Encoder compress.Encoder
}

type Result struct {
	Data   []byte
	Format photo.Format
	Width  int
	Height int
	PPM    uint32
}

// Apply encodes img with density metadata for opts.DPI.
// WebP output is encoded without metadata.
func Apply(ctx context.Context, img image.Image, opts Options) (*Result, error) {
	if img == nil {
		return nil, photo.Invalid("image", photo.ErrNoImage)
	}
	if opts.DPI < 1 || opts.DPI > MaxDPI {
		return nil, photo.Invalid("dpi", fmt.Errorf("%w: %d", ErrInvalidDPI, opts.DPI))
	}
	if opts.Format == photo.FormatUnknown {
		opts.Format = photo.FormatPNG
	}
	enc := opts.Encoder
	if enc == nil {
		var err error
		if enc, err = compress.NewEncoder(opts.Format, false); err != nil {
			return nil, err
		}
	}
	if enc.Format() != opts.Format {
		return nil, fmt.Errorf("encoder writes %s, want %s", enc.Format(), opts.Format)
	}

	if opts.Rescale && opts.DPI != ReferenceDPI {
		b := img.Bounds()
		factor := float64(opts.DPI) / ReferenceDPI
		w := max(1, int(float64(b.Dx())*factor))
		h := max(1, int(float64(b.Dy())*factor))
		if err := photo.CheckSize(w, h); err != nil {
			return nil, photo.Invalid("dpi", err)
		}
		img = imaging.Resize(img, w, h, imaging.Lanczos)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := enc.Encode(&buf, img, Quality); err != nil {
		return nil, fmt.Errorf("encode %s: %w", opts.Format, err)
	}

	data := buf.Bytes()
	var err error
	switch opts.Format {
	case photo.FormatPNG:
		data, err = pngmeta.InjectDensity(data, opts.DPI)
	case photo.FormatJPEG:
		data, err = jpegmeta.InjectDensity(data, opts.DPI)
	default:
		slog.Debug("format carries no density metadata", "format", opts.Format)
	}
	if err != nil {
		return nil, fmt.Errorf("write density: %w", err)
	}

	b := img.Bounds()
	return &Result{
		Data:   data,
		Format: opts.Format,
		Width:  b.Dx(),
		Height: b.Dy(),
		PPM:    pngmeta.DPIToPPM(opts.DPI),
	}, nil
}
