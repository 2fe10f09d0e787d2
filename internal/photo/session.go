package photo

import (
	"context"
	"image"
	"io"
	"os"
)

// Session holds the input and output of a single feature invocation.
// Each command or request owns its own Session; nothing is shared between them.
type Session struct {
	Source []byte
	Image  image.Image
	Format Format

	output       []byte
	outputFormat Format
}

func NewSession() *Session {
	return &Session{}
}

// Load decodes data and makes it the session's input image.
func (s *Session) Load(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	img, format, err := Decode(data)
	if err != nil {
		return err
	}
	s.Source = data
	s.Image = img
	s.Format = format
	s.output = nil
	s.outputFormat = FormatUnknown
	return nil
}

// LoadFile reads path and loads it. A path of "-" reads standard input.
func (s *Session) LoadFile(ctx context.Context, path string) error {
	data, err := ReadFile(path)
	if err != nil {
		return err
	}
	return s.Load(ctx, data)
}

// Loaded reports whether an input image has been decoded.
func (s *Session) Loaded() bool {
	return s.Image != nil
}

func (s *Session) SetOutput(data []byte, format Format) {
	s.output = data
	s.outputFormat = format
}

// Output returns the last produced blob, or nil if nothing has been produced.
func (s *Session) Output() ([]byte, Format) {
	return s.output, s.outputFormat
}

// ReadFile reads path, or standard input when path is "-".
func ReadFile(path string) ([]byte, error) {
	if path == "" {
		return nil, Invalid("input", ErrNoImage)
	}
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}
