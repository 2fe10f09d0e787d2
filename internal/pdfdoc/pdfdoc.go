// Package pdfdoc lays photos out one per A4 page and writes them as a PDF
// whose total size approximates a target.
package pdfdoc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"math"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/kiesman99/photokit/internal/compress"
	"github.com/kiesman99/photokit/internal/photo"
)

// Orientation of every page in the document.
type Orientation int

const (
	Portrait Orientation = iota
	Landscape
)

var ErrNoImages = errors.New("no images supplied")

func (o Orientation) String() string {
	if o == Landscape {
		return "landscape"
	}
	return "portrait"
}

// ParseOrientation parses "portrait" or "landscape". An empty string is portrait.
func ParseOrientation(s string) (Orientation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "portrait", "p":
		return Portrait, nil
	case "landscape", "l":
		return Landscape, nil
	}
	return 0, photo.Invalid("orientation", fmt.Errorf("unknown orientation %q", s))
}

func (o Orientation) fpdf() string {
	if o == Landscape {
		return "L"
	}
	return "P"
}

type Options struct {
	// TargetKB is the size budget for all images together.
	TargetKB    float64
	Orientation Orientation
	// Encoder must write JPEG. Nil uses the standard library encoder.
	Encoder compress.Encoder
}

// Page describes where one photo was placed, in points.
type Page struct {
	X, Y, Width, Height float64
	ImageWidth          int
	ImageHeight         int
	ImageBytes          int
	Quality             float64
}

type Result struct {
	Data       []byte
	Pages      []Page
	ImageBytes int
}

// Build compresses each image to an equal share of opts.TargetKB and places
// it centred on its own page, scaled to fit.
func Build(ctx context.Context, images []image.Image, opts Options) (*Result, error) {
	if len(images) == 0 {
		return nil, photo.Invalid("images", ErrNoImages)
	}
	if opts.TargetKB < 1 || math.IsNaN(opts.TargetKB) || math.IsInf(opts.TargetKB, 0) {
		return nil, photo.Invalid("target_kb", fmt.Errorf("%w: %v", compress.ErrInvalidTarget, opts.TargetKB))
	}
	enc := opts.Encoder
	if enc == nil {
		enc = compress.JPEGEncoder{}
	}
	if enc.Format() != photo.FormatJPEG {
		return nil, fmt.Errorf("pdf pages require a JPEG encoder, got %s", enc.Format())
	}

	doc := fpdf.New(opts.Orientation.fpdf(), "pt", "A4", "")
	doc.SetMargins(0, 0, 0)
	doc.SetAutoPageBreak(false, 0)
	doc.SetCreator("photokit", true)
	pageW, pageH := doc.GetPageSize()

	perImage := opts.TargetKB / float64(len(images))
	res := &Result{Pages: make([]Page, 0, len(images))}

	for i, img := range images {
		if img == nil {
			return nil, photo.Invalid(fmt.Sprintf("images[%d]", i), photo.ErrNoImage)
		}
		c, err := compress.Compress(ctx, img, compress.Options{
			TargetKB: perImage,
			Encoder:  enc,
			Profile:  compress.Embedded,
		})
		if err != nil {
			return nil, fmt.Errorf("image %d: %w", i+1, err)
		}

		name := fmt.Sprintf("photo%d", i)
		imgOpts := fpdf.ImageOptions{ImageType: "JPG"}
		doc.RegisterImageOptionsReader(name, imgOpts, bytes.NewReader(c.Data))

		ratio := math.Min(pageW/float64(c.Width), pageH/float64(c.Height))
		w := float64(c.Width) * ratio
		h := float64(c.Height) * ratio
		x := (pageW - w) / 2
		y := (pageH - h) / 2

		doc.AddPage()
		doc.ImageOptions(name, x, y, w, h, false, imgOpts, 0, "")
		if doc.Err() {
			return nil, fmt.Errorf("place image %d: %w", i+1, doc.Error())
		}

		res.Pages = append(res.Pages, Page{
			X: x, Y: y, Width: w, Height: h,
			ImageWidth:  c.Width,
			ImageHeight: c.Height,
			ImageBytes:  c.Size,
			Quality:     c.Quality,
		})
		res.ImageBytes += c.Size
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	res.Data = buf.Bytes()

	slog.Debug("built pdf",
		"pages", len(res.Pages),
		"target_kb", opts.TargetKB,
		"image_kb", float64(res.ImageBytes)/1024,
		"size_kb", float64(len(res.Data))/1024)

	return res, nil
}
