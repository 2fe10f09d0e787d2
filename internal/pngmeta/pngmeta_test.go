package pngmeta

import (
	"bytes"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"math"
	"testing"
)

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 16, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 16; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x * 16), G: uint8(y * 32), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("Failed to encode fixture: %v", err)
	}
	return buf.Bytes()
}

func chunkTypes(t *testing.T, data []byte) []string {
	t.Helper()
	chunks, err := ParseChunks(data)
	if err != nil {
		t.Fatalf("ParseChunks failed: %v", err)
	}
	types := make([]string, len(chunks))
	for i, c := range chunks {
		types[i] = c.Type
	}
	return types
}

func TestDPIToPPM(t *testing.T) {
	tests := []struct {
		dpi  int
		want uint32
	}{
		{72, 2835},
		{96, 3780},
		{150, 5906},
		{300, 11811},
		{600, 23622},
	}
	for _, tt := range tests {
		if got := DPIToPPM(tt.dpi); got != tt.want {
			t.Errorf("DPIToPPM(%d) = %d, want %d", tt.dpi, got, tt.want)
		}
	}
}

func TestDPIToPPMLimits(t *testing.T) {
	if got := DPIToPPM(MaxDPI); got != 4294967280 {
		t.Errorf("DPIToPPM(MaxDPI) = %d, want 4294967280", got)
	}
	if got := DPIToPPM(MaxDPI + 1000); got != math.MaxUint32 {
		t.Errorf("Expected clamp to %d, got %d", uint32(math.MaxUint32), got)
	}
	if got := DPIToPPM(-5); got != 0 {
		t.Errorf("Expected 0 for negative dpi, got %d", got)
	}

	out, err := InjectDensity(testPNG(t), MaxDPI)
	if err != nil {
		t.Fatalf("InjectDensity(MaxDPI) failed: %v", err)
	}
	d, err := ReadDensity(out)
	if err != nil || len(d) != 1 || d[0].PPMX != 4294967280 {
		t.Errorf("Expected one pHYs with 4294967280 ppm, got %+v (%v)", d, err)
	}
}

func TestCRC32MatchesIEEE(t *testing.T) {
	inputs := [][]byte{
		[]byte("IEND"),
		[]byte("pHYs\x00\x00\x2e\x23\x00\x00\x2e\x23\x01"),
		bytes.Repeat([]byte{0xAB}, 1000),
		{},
	}
	for _, in := range inputs {
		if got, want := CRC32(in), crc32.ChecksumIEEE(in); got != want {
			t.Errorf("CRC32(%x) = %08x, want %08x", in, got, want)
		}
	}
}

func TestInjectDensity(t *testing.T) {
	src := testPNG(t)

	out, err := InjectDensity(src, 300)
	if err != nil {
		t.Fatalf("InjectDensity failed: %v", err)
	}

	if len(out) != len(src)+21 {
		t.Errorf("Expected length %d, got %d", len(src)+21, len(out))
	}
	if err := Validate(out); err != nil {
		t.Errorf("Output does not validate: %v", err)
	}

	densities, err := ReadDensity(out)
	if err != nil {
		t.Fatalf("ReadDensity failed: %v", err)
	}
	if len(densities) != 1 {
		t.Fatalf("Expected 1 pHYs chunk, got %d", len(densities))
	}
	want := Density{PPMX: 11811, PPMY: 11811, Unit: UnitMeter}
	if densities[0] != want {
		t.Errorf("Expected density %+v, got %+v", want, densities[0])
	}
	if dpi := densities[0].DPI(); dpi != 300 {
		t.Errorf("Expected DPI 300, got %d", dpi)
	}

	// pHYs sits immediately before the first IDAT and nothing else moves.
	types := chunkTypes(t, out)
	idx := -1
	for i, typ := range types {
		if typ == "IDAT" {
			idx = i
			break
		}
	}
	if idx < 1 || types[idx-1] != "pHYs" {
		t.Errorf("Expected pHYs before IDAT, got %v", types)
	}

	srcTypes := chunkTypes(t, src)
	var stripped []string
	for _, typ := range types {
		if typ != "pHYs" {
			stripped = append(stripped, typ)
		}
	}
	if len(stripped) != len(srcTypes) {
		t.Fatalf("Expected chunk order %v, got %v", srcTypes, stripped)
	}
	for i := range srcTypes {
		if stripped[i] != srcTypes[i] {
			t.Errorf("Chunk %d: expected %s, got %s", i, srcTypes[i], stripped[i])
		}
	}

	if _, err := png.Decode(bytes.NewReader(out)); err != nil {
		t.Errorf("Output no longer decodes: %v", err)
	}
}

func TestInjectDensityChunkBytes(t *testing.T) {
	out, err := InjectDensity(testPNG(t), 96)
	if err != nil {
		t.Fatalf("InjectDensity failed: %v", err)
	}
	chunks, err := ParseChunks(out)
	if err != nil {
		t.Fatalf("ParseChunks failed: %v", err)
	}
	for _, c := range chunks {
		if c.Type != "pHYs" {
			continue
		}
		raw := out[c.Offset : c.Offset+21]
		if n := binary.BigEndian.Uint32(raw[0:4]); n != 9 {
			t.Errorf("Expected length 9, got %d", n)
		}
		if sum := crc32.ChecksumIEEE(raw[4:17]); sum != c.CRC {
			t.Errorf("Expected CRC %08x, got %08x", sum, c.CRC)
		}
		return
	}
	t.Fatal("pHYs chunk not found")
}

func TestInjectDensityTwice(t *testing.T) {
	once, err := InjectDensity(testPNG(t), 72)
	if err != nil {
		t.Fatalf("First injection failed: %v", err)
	}
	twice, err := InjectDensity(once, 300)
	if err != nil {
		t.Fatalf("Second injection failed: %v", err)
	}

	densities, err := ReadDensity(twice)
	if err != nil {
		t.Fatalf("ReadDensity failed: %v", err)
	}
	if len(densities) != 2 {
		t.Fatalf("Expected 2 pHYs chunks, got %d", len(densities))
	}
	if densities[0].DPI() != 72 || densities[1].DPI() != 300 {
		t.Errorf("Expected DPIs 72 then 300, got %d then %d", densities[0].DPI(), densities[1].DPI())
	}
	if err := Validate(twice); err != nil {
		t.Errorf("Output does not validate: %v", err)
	}
}

func TestInjectDensityWithoutIDAT(t *testing.T) {
	// Signature + IHDR only.
	src := testPNG(t)
	chunks, err := ParseChunks(src)
	if err != nil {
		t.Fatalf("ParseChunks failed: %v", err)
	}
	ihdrEnd := chunks[0].Offset + 12 + int(chunks[0].Length)
	trimmed := append([]byte(nil), src[:ihdrEnd]...)

	out, err := InjectDensity(trimmed, 300)
	if err != nil {
		t.Fatalf("InjectDensity failed: %v", err)
	}
	if !bytes.Equal(out[:len(trimmed)], trimmed) {
		t.Error("Expected input to be preserved as prefix")
	}
	if len(out) != len(trimmed)+21 {
		t.Errorf("Expected length %d, got %d", len(trimmed)+21, len(out))
	}
	if got := chunkTypes(t, out); len(got) != 2 || got[1] != "pHYs" {
		t.Errorf("Expected [IHDR pHYs], got %v", got)
	}
}

func TestInjectDensityTruncatedLength(t *testing.T) {
	src := append([]byte(nil), Signature...)
	// A chunk declaring far more data than exists.
	src = append(src, 0x7F, 0xFF, 0xFF, 0xFF, 't', 'E', 'X', 't', 'a', 'b')

	out, err := InjectDensity(src, 150)
	if err != nil {
		t.Fatalf("InjectDensity failed: %v", err)
	}
	if len(out) != len(src)+21 {
		t.Errorf("Expected length %d, got %d", len(src)+21, len(out))
	}
	if !bytes.Equal(out[:len(src)], src) {
		t.Error("Expected chunk appended at end of buffer")
	}
	if string(out[len(src)+4:len(src)+8]) != "pHYs" {
		t.Errorf("Expected pHYs at end, got %q", out[len(src)+4:len(src)+8])
	}
}

func TestInjectDensityErrors(t *testing.T) {
	valid := testPNG(t)

	tests := []struct {
		name string
		data []byte
		dpi  int
		want error
	}{
		{"zero dpi", valid, 0, ErrInvalidDPI},
		{"negative dpi", valid, -72, ErrInvalidDPI},
		{"dpi overflows pHYs", valid, MaxDPI + 1, ErrInvalidDPI},
		{"empty input", nil, 300, ErrNotPNG},
		{"short input", Signature[:4], 300, ErrNotPNG},
		{"jpeg input", []byte{0xFF, 0xD8, 0xFF, 0xE0, 0, 0, 0, 0, 0, 0}, 300, ErrNotPNG},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := InjectDensity(tt.data, tt.dpi)
			if !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestValidateDetectsCorruption(t *testing.T) {
	out, err := InjectDensity(testPNG(t), 300)
	if err != nil {
		t.Fatalf("InjectDensity failed: %v", err)
	}
	chunks, err := ParseChunks(out)
	if err != nil {
		t.Fatalf("ParseChunks failed: %v", err)
	}
	for _, c := range chunks {
		if c.Type == "pHYs" {
			out[c.Offset+8] ^= 0xFF
		}
	}
	if err := Validate(out); !errors.Is(err, ErrChecksum) {
		t.Errorf("Expected ErrChecksum, got %v", err)
	}
}

func TestParseChunksTruncated(t *testing.T) {
	src := testPNG(t)
	if _, err := ParseChunks(src[:len(src)-3]); !errors.Is(err, ErrTruncated) {
		t.Errorf("Expected ErrTruncated, got %v", err)
	}
}
