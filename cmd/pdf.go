package cmd

import (
	"fmt"
	"image"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kiesman99/photokit/internal/compress"
	"github.com/kiesman99/photokit/internal/pdfdoc"
	"github.com/kiesman99/photokit/internal/photo"
)

var pdfCmd = &cobra.Command{
	Use:   "pdf <image>...",
	Short: "Lay out images on A4 pages within a size budget",
	Long: `Build a PDF with one image per A4 page. Each image is scaled to fit its
page, centred, and JPEG compressed to an equal share of --target-kb.

Examples:
  photokit pdf id-front.jpg id-back.jpg --target-kb 500 -o id.pdf
  photokit pdf *.png --target-kb 2000 --orientation landscape -o album.pdf`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPDF,
}

func init() {
	rootCmd.AddCommand(pdfCmd)

	pdfCmd.Flags().Float64("target-kb", 0, "size budget for all images in kilobytes (required)")
	pdfCmd.Flags().String("orientation", "portrait", "page orientation (portrait|landscape)")
	pdfCmd.Flags().StringP("output", "o", "", "output file (default: stdout)")
	pdfCmd.MarkFlagRequired("target-kb")

	viper.BindPFlag("pdf.target_kb", pdfCmd.Flags().Lookup("target-kb"))
	viper.BindPFlag("pdf.orientation", pdfCmd.Flags().Lookup("orientation"))
	viper.BindPFlag("pdf.output", pdfCmd.Flags().Lookup("output"))
}

func runPDF(cmd *cobra.Command, args []string) error {
	orientation, err := pdfdoc.ParseOrientation(viper.GetString("pdf.orientation"))
	if err != nil {
		return err
	}

	images := make([]image.Image, 0, len(args))
	for _, path := range args {
		session, err := loadImage(cmd.Context(), path)
		if err != nil {
			return err
		}
		images = append(images, session.Image)
	}

	enc, err := compress.NewEncoder(photo.FormatJPEG, viper.GetBool("compress.jpegli"))
	if err != nil {
		return err
	}
	res, err := pdfdoc.Build(cmd.Context(), images, pdfdoc.Options{
		TargetKB:    viper.GetFloat64("pdf.target_kb"),
		Orientation: orientation,
		Encoder:     enc,
	})
	if err != nil {
		return err
	}

	stderr := cmd.ErrOrStderr()
	for i, p := range res.Pages {
		fmt.Fprintf(stderr, "page %d: %dx%d at quality %.2f, %s\n",
			i+1, p.ImageWidth, p.ImageHeight, p.Quality, humanize.Bytes(uint64(p.ImageBytes)))
	}
	return writeOutput(cmd, viper.GetString("pdf.output"), res.Data)
}
