package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kiesman99/photokit/internal/config"
	"github.com/kiesman99/photokit/internal/logging"
)

// Version is reported by the health endpoint and --version.
var Version = "1.0.0"

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:     "photokit",
	Short:   "Resize, annotate and combine photos",
	Version: Version,
	Long: `photokit prepares photos for upload forms and print.

It compresses images to a target file size, writes print density metadata,
merges two photos, removes or replaces backgrounds and lays photos out on
A4 PDF pages. Every command reads a file path or "-" for stdin and writes
to --output or stdout.

Examples:
  # Compress a photo to roughly 200 KB
  photokit resize photo.jpg --target-kb 200 -o small.jpg

  # Mark a scan as 300 DPI without resampling
  photokit dpi scan.png --dpi 300 --no-rescale -o scan-300.png

  # Put two photos side by side
  photokit merge left.jpg right.jpg -o pair.png

  # Build a PDF of at most 1 MB
  photokit pdf page1.jpg page2.jpg --target-kb 1000 -o pages.pdf

  # Start HTTP server
  photokit serve --port 8080`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.Setup(viper.GetBool("debug"))
		if used := viper.ConfigFileUsed(); used != "" {
			slog.Debug("using config file", "path", used)
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		stop()
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.photokit.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().Bool("jpegli", false, "encode JPEG output with jpegli")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("compress.jpegli", rootCmd.PersistentFlags().Lookup("jpegli"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	config.Setup(viper.GetViper())

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".photokit" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".photokit")
	}

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			fmt.Fprintln(os.Stderr, "Error reading config file:", err)
		}
	}
}
