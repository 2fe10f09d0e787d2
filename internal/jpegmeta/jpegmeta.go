// Package jpegmeta records pixel density in JPEG streams via the JFIF APP0 segment.
package jpegmeta

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

// UnitDPI is the JFIF density unit for dots per inch.
const UnitDPI = 1

var (
	ErrNotJPEG    = errors.New("not a JPEG stream")
	ErrInvalidDPI = errors.New("dpi must be between 1 and 65535")
)

var jfifIdent = []byte("JFIF\x00")

// InjectDensity sets the JFIF density of data to dpi on both axes.
// An existing JFIF APP0 segment is patched in place on a copy; otherwise
// a new one is inserted immediately after SOI.
func InjectDensity(data []byte, dpi int) ([]byte, error) {
	if dpi <= 0 || dpi > 0xFFFF {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDPI, dpi)
	}
	if len(data) < 4 || data[0] != 0xFF || data[1] != 0xD8 {
		return nil, ErrNotJPEG
	}

	if hasJFIF(data) {
		out := append([]byte(nil), data...)
		out[13] = UnitDPI
		binary.BigEndian.PutUint16(out[14:16], uint16(dpi))
		binary.BigEndian.PutUint16(out[16:18], uint16(dpi))
		return out, nil
	}

	seg := buildAPP0Segment(uint16(dpi))
	out := make([]byte, 0, len(data)+len(seg))
	out = append(out, data[:2]...) // SOI
	out = append(out, seg...)
	out = append(out, data[2:]...)
	return out, nil
}

// ReadDensity returns the density unit and x/y density of the JFIF APP0
// segment. ok is false when the stream carries none.
func ReadDensity(data []byte) (unit byte, x, y uint16, ok bool) {
	if !hasJFIF(data) {
		return 0, 0, 0, false
	}
	return data[13], binary.BigEndian.Uint16(data[14:16]), binary.BigEndian.Uint16(data[16:18]), true
}

func hasJFIF(data []byte) bool {
	return len(data) >= 18 &&
		data[0] == 0xFF && data[1] == 0xD8 &&
		data[2] == 0xFF && data[3] == 0xE0 &&
		bytes.Equal(data[6:11], jfifIdent)
}

// buildAPP0Segment constructs a JFIF 1.01 APP0 segment without a thumbnail.
func buildAPP0Segment(dpi uint16) []byte {
	seg := []byte{
		0xFF, 0xE0,
		0x00, 0x10, // length, including these two bytes
		'J', 'F', 'I', 'F', 0x00,
		0x01, 0x01, // version 1.01
		UnitDPI,
		0, 0, // x density
		0, 0, // y density
		0, 0, // no thumbnail
	}
	binary.BigEndian.PutUint16(seg[12:14], dpi)
	binary.BigEndian.PutUint16(seg[14:16], dpi)
	return seg
}
