package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/kiesman99/photokit/internal/photo"
)

var errTerminal = errors.New("refusing to write binary data to a terminal, use --output")

// loadImage decodes path, or stdin when path is "-".
func loadImage(ctx context.Context, path string) (*photo.Session, error) {
	session := photo.NewSession()
	if err := session.LoadFile(ctx, path); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return session, nil
}

// writeOutput writes data to path, or to stdout when path is empty or "-".
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" || path == "-" {
		out := cmd.OutOrStdout()
		if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			return errTerminal
		}
		_, err := out.Write(data)
		return err
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s (%s)\n", path, humanize.Bytes(uint64(len(data))))
	return nil
}

// formatFor picks the output format from --format, falling back to the
// extension of the output path and then to def.
func formatFor(name, output string, def photo.Format) (photo.Format, error) {
	if name != "" {
		f, err := photo.ParseFormat(name)
		if err != nil {
			return photo.FormatUnknown, photo.Invalid("format", err)
		}
		return f, nil
	}
	if ext := strings.TrimPrefix(filepath.Ext(output), "."); ext != "" {
		if f, err := photo.ParseFormat(ext); err == nil {
			return f, nil
		}
	}
	return def, nil
}
