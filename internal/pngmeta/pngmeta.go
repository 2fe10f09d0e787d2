// Package pngmeta reads and writes PNG ancillary chunks without re-encoding pixel data.
package pngmeta

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// InchesPerMeter converts dots per inch to pixels per meter.
const InchesPerMeter = 39.3701

// UnitMeter is the pHYs unit specifier for pixels per meter.
const UnitMeter = 1

// MaxDPI is the largest density whose pixels per meter fit in a pHYs field.
const MaxDPI = 109092110

const (
	chunkHeaderSize  = 8 // length + type
	chunkOverhead    = 12
	densityDataSize  = 9
	densityChunkSize = chunkOverhead + densityDataSize
)

// Signature is the 8-byte header of every PNG stream.
var Signature = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}

var (
	ErrNotPNG     = errors.New("not a PNG stream")
	ErrInvalidDPI = errors.New("dpi must be a positive number")
	ErrTruncated  = errors.New("chunk runs past end of stream")
	ErrChecksum   = errors.New("chunk checksum mismatch")
)

// DPIToPPM converts dots per inch to pixels per meter, rounding to the nearest integer.
// Results are clamped to the range of a pHYs field.
func DPIToPPM(dpi int) uint32 {
	ppm := math.Round(float64(dpi) * InchesPerMeter)
	switch {
	case ppm <= 0:
		return 0
	case ppm >= math.MaxUint32:
		return math.MaxUint32
	}
	return uint32(ppm)
}

// InjectDensity returns a copy of data with a pHYs chunk recording dpi
// inserted before the first IDAT chunk. Existing pHYs chunks are left alone.
//
// If no IDAT chunk is found, or a chunk declares a length that runs past
// the end of data, the new chunk is appended at the end.
func InjectDensity(data []byte, dpi int) ([]byte, error) {
	if dpi <= 0 || dpi > MaxDPI {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDPI, dpi)
	}
	if len(data) < len(Signature) || !bytes.Equal(data[:len(Signature)], Signature) {
		return nil, ErrNotPNG
	}

	chunk := densityChunk(makeCRCTable(), DPIToPPM(dpi))
	pos := insertionPoint(data)

	out := make([]byte, 0, len(data)+len(chunk))
	out = append(out, data[:pos]...)
	out = append(out, chunk...)
	out = append(out, data[pos:]...)
	return out, nil
}

// insertionPoint returns the offset of the first IDAT chunk, or len(data).
func insertionPoint(data []byte) int {
	pos := len(Signature)
	for {
		if pos+chunkHeaderSize > len(data) {
			return len(data)
		}
		length := int(binary.BigEndian.Uint32(data[pos : pos+4]))
		if string(data[pos+4:pos+8]) == "IDAT" {
			return pos
		}
		next := pos + chunkOverhead + length
		if next > len(data) || next <= pos {
			return len(data)
		}
		pos = next
	}
}

func densityChunk(table *[256]uint32, ppm uint32) []byte {
	chunk := make([]byte, densityChunkSize)
	binary.BigEndian.PutUint32(chunk[0:4], densityDataSize)
	copy(chunk[4:8], "pHYs")
	binary.BigEndian.PutUint32(chunk[8:12], ppm)
	binary.BigEndian.PutUint32(chunk[12:16], ppm)
	chunk[16] = UnitMeter
	binary.BigEndian.PutUint32(chunk[17:21], checksum(table, chunk[4:17]))
	return chunk
}
