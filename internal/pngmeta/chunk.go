package pngmeta

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

// Chunk is one PNG chunk as found in a stream.
type Chunk struct {
	Offset int
	Length uint32
	Type   string
	Data   []byte
	CRC    uint32
}

// Density is the decoded payload of a pHYs chunk.
type Density struct {
	PPMX uint32
	PPMY uint32
	Unit byte
}

// DPI returns the horizontal density in dots per inch, or 0 when the unit is unknown.
func (d Density) DPI() int {
	if d.Unit != UnitMeter {
		return 0
	}
	return int(math.Round(float64(d.PPMX) / InchesPerMeter))
}

// ParseChunks splits data into chunks. Data slices alias data.
func ParseChunks(data []byte) ([]Chunk, error) {
	if len(data) < len(Signature) || !bytes.Equal(data[:len(Signature)], Signature) {
		return nil, ErrNotPNG
	}

	var chunks []Chunk
	pos := len(Signature)
	for pos < len(data) {
		if pos+chunkHeaderSize > len(data) {
			return chunks, fmt.Errorf("%w at offset %d", ErrTruncated, pos)
		}
		length := binary.BigEndian.Uint32(data[pos : pos+4])
		end := pos + chunkOverhead + int(length)
		if end > len(data) {
			return chunks, fmt.Errorf("%w at offset %d", ErrTruncated, pos)
		}
		chunks = append(chunks, Chunk{
			Offset: pos,
			Length: length,
			Type:   string(data[pos+4 : pos+8]),
			Data:   data[pos+8 : end-4],
			CRC:    binary.BigEndian.Uint32(data[end-4 : end]),
		})
		pos = end
	}
	return chunks, nil
}

// Validate parses data and checks every chunk's CRC.
func Validate(data []byte) error {
	chunks, err := ParseChunks(data)
	if err != nil {
		return err
	}
	table := makeCRCTable()
	buf := make([]byte, 0, 4096)
	for _, c := range chunks {
		buf = append(buf[:0], c.Type...)
		buf = append(buf, c.Data...)
		if sum := checksum(table, buf); sum != c.CRC {
			return fmt.Errorf("%w: %s at offset %d (have %08x, want %08x)", ErrChecksum, c.Type, c.Offset, c.CRC, sum)
		}
	}
	return nil
}

// ReadDensity returns every pHYs chunk payload in stream order.
func ReadDensity(data []byte) ([]Density, error) {
	chunks, err := ParseChunks(data)
	if err != nil {
		return nil, err
	}
	var out []Density
	for _, c := range chunks {
		if c.Type != "pHYs" || len(c.Data) != densityDataSize {
			continue
		}
		out = append(out, Density{
			PPMX: binary.BigEndian.Uint32(c.Data[0:4]),
			PPMY: binary.BigEndian.Uint32(c.Data[4:8]),
			Unit: c.Data[8],
		})
	}
	return out, nil
}
