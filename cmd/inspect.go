package cmd

import (
	"bytes"
	"fmt"
	"image"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/kiesman99/photokit/internal/jpegmeta"
	"github.com/kiesman99/photokit/internal/pdfdoc"
	"github.com/kiesman99/photokit/internal/photo"
	"github.com/kiesman99/photokit/internal/pngmeta"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Print size, dimensions and density of an image or PDF",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	data, err := photo.ReadFile(args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "size:   %s (%d bytes)\n", humanize.Bytes(uint64(len(data))), len(data))

	if bytes.HasPrefix(data, []byte("%PDF-")) {
		info, err := pdfdoc.Inspect(data)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "format: pdf\npages:  %d\nimages: %d\n", len(info.Pages), info.Images)
		for i, p := range info.Pages {
			fmt.Fprintf(out, "  page %d: %.2fx%.2f pt\n", i+1, p.Width, p.Height)
		}
		return nil
	}

	format := photo.DetectFormat(data)
	if format == photo.FormatUnknown {
		return photo.Invalid("input", photo.ErrUnsupportedFormat)
	}
	fmt.Fprintf(out, "format: %s\n", format)
	if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		fmt.Fprintf(out, "pixels: %dx%d\n", cfg.Width, cfg.Height)
	}

	switch format {
	case photo.FormatPNG:
		if err := pngmeta.Validate(data); err != nil {
			fmt.Fprintf(out, "warning: %v\n", err)
		}
		densities, err := pngmeta.ReadDensity(data)
		if err != nil {
			return err
		}
		if len(densities) == 0 {
			fmt.Fprintln(out, "dpi:    not set")
		}
		for _, d := range densities {
			fmt.Fprintf(out, "dpi:    %d (%d pixels per metre)\n", d.DPI(), d.PPMX)
		}
	case photo.FormatJPEG:
		unit, x, _, ok := jpegmeta.ReadDensity(data)
		switch {
		case !ok:
			fmt.Fprintln(out, "dpi:    not set")
		case unit == jpegmeta.UnitDPI:
			fmt.Fprintf(out, "dpi:    %d\n", x)
		default:
			fmt.Fprintf(out, "density: %d (unit %d)\n", x, unit)
		}
	}
	return nil
}
