package photo

import (
	"bytes"
	"fmt"
	"strings"
)

// Format identifies an image container format.
type Format int

// Supported formats. Only PNG, JPEG and WebP can be written.
const (
	FormatUnknown Format = iota
	FormatPNG
	FormatJPEG
	FormatWebP
	FormatGIF
	FormatBMP
)

var (
	pngMagic  = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
	jpegMagic = []byte{0xFF, 0xD8}
)

func (f Format) String() string {
	switch f {
	case FormatPNG:
		return "png"
	case FormatJPEG:
		return "jpeg"
	case FormatWebP:
		return "webp"
	case FormatGIF:
		return "gif"
	case FormatBMP:
		return "bmp"
	}
	return "unknown"
}

// MIMEType returns the media type used when serving the format.
func (f Format) MIMEType() string {
	if f == FormatUnknown {
		return "application/octet-stream"
	}
	return "image/" + f.String()
}

// Extension returns the conventional file extension, including the dot.
func (f Format) Extension() string {
	switch f {
	case FormatJPEG:
		return ".jpg"
	case FormatUnknown:
		return ""
	}
	return "." + f.String()
}

// Writable reports whether photokit can encode to f.
func (f Format) Writable() bool {
	return f == FormatPNG || f == FormatJPEG || f == FormatWebP
}

// ParseFormat parses an output format name or MIME type.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "png", "image/png":
		return FormatPNG, nil
	case "jpeg", "jpg", "image/jpeg", "image/jpg":
		return FormatJPEG, nil
	case "webp", "image/webp":
		return FormatWebP, nil
	}
	return FormatUnknown, fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// DetectFormat sniffs the container format from magic bytes.
func DetectFormat(data []byte) Format {
	switch {
	case bytes.HasPrefix(data, pngMagic):
		return FormatPNG
	case bytes.HasPrefix(data, jpegMagic):
		return FormatJPEG
	case bytes.HasPrefix(data, []byte("GIF87a")), bytes.HasPrefix(data, []byte("GIF89a")):
		return FormatGIF
	case len(data) >= 12 && string(data[:4]) == "RIFF" && string(data[8:12]) == "WEBP":
		return FormatWebP
	case bytes.HasPrefix(data, []byte("BM")):
		return FormatBMP
	}
	return FormatUnknown
}
