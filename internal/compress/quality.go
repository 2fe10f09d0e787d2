package compress

import (
	"image"
	"math"

	"github.com/kiesman99/photokit/internal/photo"
)

// maxPSNR is reported for identical images.
const maxPSNR = 100.0

// sampleStep picks a pixel stride so large images are compared in bounded time.
func sampleStep(b image.Rectangle) int {
	pixels := b.Dx() * b.Dy()
	switch {
	case pixels <= 1_000_000:
		return 1
	case pixels <= 4_000_000:
		return 2
	case pixels <= 16_000_000:
		return 4
	case pixels <= 64_000_000:
		return 8
	default:
		return 16
	}
}

// PSNR returns the peak signal-to-noise ratio of b against a in dB over
// their shared area, sampling every step pixels. A step <= 0 is chosen from the image size.
func PSNR(a, b image.Image, step int) float64 {
	ab, bb := a.Bounds(), b.Bounds()
	w, h := min(ab.Dx(), bb.Dx()), min(ab.Dy(), bb.Dy())
	if w == 0 || h == 0 {
		return 0
	}
	if step <= 0 {
		step = sampleStep(image.Rect(0, 0, w, h))
	}

	var sum, count float64
	for y := 0; y < h; y += step {
		for x := 0; x < w; x += step {
			r1, g1, b1, _ := a.At(ab.Min.X+x, ab.Min.Y+y).RGBA()
			r2, g2, b2, _ := b.At(bb.Min.X+x, bb.Min.Y+y).RGBA()
			dr := float64(r1>>8) - float64(r2>>8)
			dg := float64(g1>>8) - float64(g2>>8)
			db := float64(b1>>8) - float64(b2>>8)
			sum += (dr*dr + dg*dg + db*db) / 3
			count++
		}
	}
	mse := sum / count
	if mse == 0 {
		return maxPSNR
	}
	return 20*math.Log10(255) - 10*math.Log10(mse)
}

func measurePSNR(src image.Image, encoded []byte) (float64, error) {
	decoded, _, err := photo.Decode(encoded)
	if err != nil {
		return 0, err
	}
	return PSNR(src, decoded, 0), nil
}
