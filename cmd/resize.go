package cmd

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kiesman99/photokit/internal/compress"
	"github.com/kiesman99/photokit/internal/photo"
)

var resizeCmd = &cobra.Command{
	Use:   "resize <input>",
	Short: "Compress an image to a target file size",
	Long: `Compress an image until it is close to --target-kb.

The encoder quality is binary searched first. If the smallest quality is
still more than 10% over the target, the image is scaled down in 5% steps
until it fits.

Examples:
  photokit resize photo.jpg --target-kb 100 -o photo-100k.jpg
  cat photo.png | photokit resize - --target-kb 50 --format webp > out.webp`,
	Args: cobra.ExactArgs(1),
	RunE: runResize,
}

func init() {
	rootCmd.AddCommand(resizeCmd)

	resizeCmd.Flags().Float64("target-kb", 0, "target size in kilobytes (required)")
	resizeCmd.Flags().StringP("format", "f", "", "output format (jpeg|png|webp), default from --output or jpeg")
	resizeCmd.Flags().StringP("output", "o", "", "output file (default: stdout)")
	resizeCmd.Flags().Bool("psnr", false, "report PSNR of the result against the source")
	resizeCmd.MarkFlagRequired("target-kb")

	viper.BindPFlag("resize.target_kb", resizeCmd.Flags().Lookup("target-kb"))
	viper.BindPFlag("resize.format", resizeCmd.Flags().Lookup("format"))
	viper.BindPFlag("resize.output", resizeCmd.Flags().Lookup("output"))
	viper.BindPFlag("resize.psnr", resizeCmd.Flags().Lookup("psnr"))
}

func runResize(cmd *cobra.Command, args []string) error {
	output := viper.GetString("resize.output")
	format, err := formatFor(viper.GetString("resize.format"), output, photo.FormatJPEG)
	if err != nil {
		return err
	}
	enc, err := compress.NewEncoder(format, viper.GetBool("compress.jpegli"))
	if err != nil {
		return err
	}

	session, err := loadImage(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	res, err := compress.Compress(cmd.Context(), session.Image, compress.Options{
		TargetKB:    viper.GetFloat64("resize.target_kb"),
		Encoder:     enc,
		Profile:     compress.Direct,
		MeasurePSNR: viper.GetBool("resize.psnr"),
	})
	if err != nil {
		return err
	}
	session.SetOutput(res.Data, res.Format)

	stderr := cmd.ErrOrStderr()
	fmt.Fprintf(stderr, "%s -> %s at quality %.2f, %dx%d (scale %.0f%%)\n",
		humanize.Bytes(uint64(len(session.Source))), humanize.Bytes(uint64(res.Size)),
		res.Quality, res.Width, res.Height, res.Scale*100)
	if res.PSNR > 0 {
		fmt.Fprintf(stderr, "PSNR %.2f dB\n", res.PSNR)
	}
	if !res.Acceptable() {
		fmt.Fprintf(stderr, "Warning: could not reach %.1f KB, result is %.1f KB\n", res.TargetKB, res.SizeKB())
	}

	data, _ := session.Output()
	return writeOutput(cmd, output, data)
}
