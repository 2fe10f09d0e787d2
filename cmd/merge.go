package cmd

import (
	"bytes"
	"image"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kiesman99/photokit/internal/compress"
	"github.com/kiesman99/photokit/internal/merge"
	"github.com/kiesman99/photokit/internal/photo"
)

var mergeCmd = &cobra.Command{
	Use:   "merge <first> <second>",
	Short: "Combine two images into one PNG",
	Long: `Combine two images side by side, stacked, or blended.

horizontal  first on the left, second on the right
vertical    first on top, second below
overlay     both stretched to the larger size, first drawn over second at --opacity

Examples:
  photokit merge front.jpg back.jpg -o card.png
  photokit merge a.png b.png --mode overlay --opacity 0.3 -o blend.png`,
	Args: cobra.ExactArgs(2),
	RunE: runMerge,
}

func init() {
	rootCmd.AddCommand(mergeCmd)

	mergeCmd.Flags().StringP("mode", "m", "horizontal", "merge mode (horizontal|vertical|overlay)")
	mergeCmd.Flags().Float64("opacity", merge.DefaultOpacity, "opacity of the first image in overlay mode")
	mergeCmd.Flags().StringP("output", "o", "", "output file (default: stdout)")

	viper.BindPFlag("merge.mode", mergeCmd.Flags().Lookup("mode"))
	viper.BindPFlag("merge.opacity", mergeCmd.Flags().Lookup("opacity"))
	viper.BindPFlag("merge.output", mergeCmd.Flags().Lookup("output"))
}

func runMerge(cmd *cobra.Command, args []string) error {
	mode, err := merge.ParseMode(viper.GetString("merge.mode"))
	if err != nil {
		return err
	}

	first, err := loadImage(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	second, err := loadImage(cmd.Context(), args[1])
	if err != nil {
		return err
	}

	out, err := merge.Merge(first.Image, second.Image, merge.Options{
		Mode:    mode,
		Opacity: viper.GetFloat64("merge.opacity"),
	})
	if err != nil {
		return err
	}

	data, err := encodePNG(out)
	if err != nil {
		return err
	}
	first.SetOutput(data, photo.FormatPNG)
	return writeOutput(cmd, viper.GetString("merge.output"), data)
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := (compress.PNGEncoder{}).Encode(&buf, img, 1); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
