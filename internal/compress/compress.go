// Package compress searches for the encoding quality, and if needed the
// downscale factor, that brings an image close to a target file size.
package compress

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"math"

	"github.com/disintegration/imaging"
	"github.com/lmittmann/tint"

	"github.com/kiesman99/photokit/internal/photo"
)

const (
	minQuality = 0.01
	maxQuality = 1.0

	// Results up to this multiple of the target are accepted without downscaling.
	overshootFactor = 1.1
)

var ErrInvalidTarget = errors.New("target size must be a positive number of kilobytes")

// Profile bounds the quality search.
type Profile struct {
	Name          string
	MaxIterations int
	ToleranceKB   float64
	Downscale     bool
}

var (
	// Direct is used when the encoded image is the final deliverable.
	Direct = Profile{Name: "direct", MaxIterations: 30, ToleranceKB: 0.5, Downscale: true}
	// Embedded is used for images placed inside a larger document.
	Embedded = Profile{Name: "embedded", MaxIterations: 20, ToleranceKB: 2}
)

type Options struct {
	TargetKB float64
	Encoder  Encoder
	Profile  Profile

	// AllowDownscale enables the downscale step for profiles that disable it.
	AllowDownscale bool
	MeasurePSNR    bool
}

type Result struct {
	Data       []byte
	Size       int
	Quality    float64
	Scale      float64
	Width      int
	Height     int
	Iterations int
	Converged  bool
	Downscaled bool
	TargetKB   float64
	Format     photo.Format
	PSNR       float64
}

// SizeKB returns the encoded size in kilobytes.
func (r *Result) SizeKB() float64 {
	return float64(r.Size) / 1024
}

// Acceptable reports whether the result is within the accepted overshoot of the target.
func (r *Result) Acceptable() bool {
	return r.SizeKB() <= r.TargetKB*overshootFactor
}

type searcher struct {
	ctx   context.Context
	enc   Encoder
	img   image.Image
	memo  map[int][]byte
	loss  bool
	count int
}

func (s *searcher) encode(quality float64) ([]byte, error) {
	if err := s.ctx.Err(); err != nil {
		return nil, err
	}
	key := Level(quality)
	if s.loss {
		key = 0
	}
	if data, ok := s.memo[key]; ok {
		return data, nil
	}
	var buf bytes.Buffer
	if err := s.enc.Encode(&buf, s.img, quality); err != nil {
		return nil, fmt.Errorf("encode %s at quality %.2f: %w", s.enc.Format(), quality, err)
	}
	s.count++
	s.memo[key] = buf.Bytes()
	return buf.Bytes(), nil
}

// Compress encodes img as close to opts.TargetKB as the profile allows.
//
// Quality is binary searched over [0.01, 1.0]. If the result still exceeds
// the target by more than 10% and the profile permits it, the source is
// downscaled in 5% steps from 90% down to 5% at the last quality until it fits.
// Failing to reach the target is not an error; Converged reports it.
func Compress(ctx context.Context, img image.Image, opts Options) (*Result, error) {
	if img == nil {
		return nil, photo.Invalid("image", photo.ErrNoImage)
	}
	if opts.TargetKB <= 0 || math.IsNaN(opts.TargetKB) || math.IsInf(opts.TargetKB, 0) {
		return nil, photo.Invalid("target_kb", fmt.Errorf("%w: %v", ErrInvalidTarget, opts.TargetKB))
	}
	if opts.Encoder == nil {
		opts.Encoder = JPEGEncoder{}
	}
	profile := opts.Profile
	if profile.MaxIterations <= 0 {
		profile = Direct
	}

	s := &searcher{ctx: ctx, enc: opts.Encoder, img: img, memo: make(map[int][]byte), loss: IsLossless(opts.Encoder)}

	low, high := minQuality, maxQuality
	var (
		quality   float64
		data      []byte
		converged bool
		steps     int
	)
	for steps < profile.MaxIterations {
		quality = (low + high) / 2
		var err error
		if data, err = s.encode(quality); err != nil {
			return nil, err
		}
		steps++
		kb := float64(len(data)) / 1024
		if math.Abs(kb-opts.TargetKB) < profile.ToleranceKB {
			converged = true
			break
		}
		if kb > opts.TargetKB {
			high = quality
		} else {
			low = quality
		}
	}

	bounds := img.Bounds()
	res := &Result{
		Data:       data,
		Quality:    quality,
		Scale:      1,
		Width:      bounds.Dx(),
		Height:     bounds.Dy(),
		Iterations: steps,
		Converged:  converged,
		TargetKB:   opts.TargetKB,
		Format:     opts.Encoder.Format(),
	}
	final := img

	if (profile.Downscale || opts.AllowDownscale) && float64(len(data))/1024 > opts.TargetKB*overshootFactor {
		slog.Debug("quality search overshot, downscaling",
			"target_kb", opts.TargetKB, "size_kb", float64(len(data))/1024, "quality", quality)

		for pct := 90; float64(len(res.Data))/1024 > opts.TargetKB && pct >= 5; pct -= 5 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			w := max(1, bounds.Dx()*pct/100)
			h := max(1, bounds.Dy()*pct/100)
			scaled := imaging.Resize(img, w, h, imaging.Linear)

			var buf bytes.Buffer
			if err := opts.Encoder.Encode(&buf, scaled, quality); err != nil {
				return nil, fmt.Errorf("encode %s at scale %d%%: %w", opts.Encoder.Format(), pct, err)
			}
			s.count++
			res.Data = buf.Bytes()
			res.Scale = float64(pct) / 100
			res.Width, res.Height = w, h
			res.Iterations++
			res.Downscaled = true
			final = scaled
		}
		res.Converged = float64(len(res.Data))/1024 <= opts.TargetKB
	}
	res.Size = len(res.Data)

	if opts.MeasurePSNR {
		psnr, err := measurePSNR(final, res.Data)
		if err != nil {
			slog.Warn("could not measure PSNR", tint.Err(err))
		} else {
			res.PSNR = psnr
		}
	}

	slog.Debug("compressed image",
		"profile", profile.Name,
		"format", res.Format,
		"target_kb", opts.TargetKB,
		"size_kb", res.SizeKB(),
		"quality", res.Quality,
		"scale", res.Scale,
		"iterations", res.Iterations,
		"encodes", s.count,
		"converged", res.Converged)

	return res, nil
}
