package jpegmeta

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"testing"
)

func testJPEG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 8), G: uint8(y * 8), B: 64, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 80}); err != nil {
		t.Fatalf("Failed to encode fixture: %v", err)
	}
	return buf.Bytes()
}

func TestInjectDensityInsertsAPP0(t *testing.T) {
	// The stdlib encoder writes no JFIF segment.
	src := testJPEG(t)
	if _, _, _, ok := ReadDensity(src); ok {
		t.Fatal("Fixture unexpectedly carries JFIF")
	}

	out, err := InjectDensity(src, 300)
	if err != nil {
		t.Fatalf("InjectDensity failed: %v", err)
	}
	if len(out) != len(src)+18 {
		t.Errorf("Expected length %d, got %d", len(src)+18, len(out))
	}

	unit, x, y, ok := ReadDensity(out)
	if !ok {
		t.Fatal("Expected JFIF segment")
	}
	if unit != UnitDPI || x != 300 || y != 300 {
		t.Errorf("Expected unit 1 300x300, got unit %d %dx%d", unit, x, y)
	}

	if _, err := jpeg.Decode(bytes.NewReader(out)); err != nil {
		t.Errorf("Output no longer decodes: %v", err)
	}
}

func TestInjectDensityPatchesExisting(t *testing.T) {
	first, err := InjectDensity(testJPEG(t), 72)
	if err != nil {
		t.Fatalf("InjectDensity failed: %v", err)
	}
	second, err := InjectDensity(first, 150)
	if err != nil {
		t.Fatalf("InjectDensity failed: %v", err)
	}
	if len(second) != len(first) {
		t.Errorf("Expected patch in place, length %d became %d", len(first), len(second))
	}
	if _, x, y, _ := ReadDensity(second); x != 150 || y != 150 {
		t.Errorf("Expected 150x150, got %dx%d", x, y)
	}
	if _, x, _, _ := ReadDensity(first); x != 72 {
		t.Errorf("Expected input left untouched, got density %d", x)
	}
}

func TestInjectDensityErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		dpi  int
		want error
	}{
		{"zero dpi", testJPEG(t), 0, ErrInvalidDPI},
		{"too large", testJPEG(t), 70000, ErrInvalidDPI},
		{"png input", []byte("\x89PNG\r\n\x1a\n"), 300, ErrNotJPEG},
		{"empty", nil, 300, ErrNotJPEG},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := InjectDensity(tt.data, tt.dpi); !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}
}
