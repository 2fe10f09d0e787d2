package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kiesman99/photokit/internal/background"
	"github.com/kiesman99/photokit/internal/cache"
	"github.com/kiesman99/photokit/internal/config"
	"github.com/kiesman99/photokit/internal/server"
)

// pruneInterval is how often the result cache is trimmed while serving.
const pruneInterval = time.Hour

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start HTTP server for the photo API",
	Long: `Start an HTTP server that exposes every photokit command as a REST endpoint
under /api/v1.

Examples:
  # Start server on default port 8080
  photokit serve

  # Start server on custom port
  photokit serve --port 3000

  # Start server with custom bind address and a result cache
  photokit serve --bind 0.0.0.0 --port 8080 --cache`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	// Server configuration
	serveCmd.Flags().StringP("bind", "b", "localhost", "bind address")
	serveCmd.Flags().IntP("port", "p", 8080, "port to listen on")
	serveCmd.Flags().Duration("timeout", 60*time.Second, "request timeout")
	serveCmd.Flags().String("max-upload", "32MB", "maximum request body size")
	serveCmd.Flags().Bool("cache", false, "cache resize and dpi results on disk")
	serveCmd.Flags().String("cache-dir", "", "cache directory (default: user cache dir)")

	// Bind flags to viper
	viper.BindPFlag("server.bind", serveCmd.Flags().Lookup("bind"))
	viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
	viper.BindPFlag("server.timeout", serveCmd.Flags().Lookup("timeout"))
	viper.BindPFlag("server.max_upload", serveCmd.Flags().Lookup("max-upload"))
	viper.BindPFlag("cache.enabled", serveCmd.Flags().Lookup("cache"))
}

func runServe(cmd *cobra.Command, args []string) error {
	if dir, _ := cmd.Flags().GetString("cache-dir"); dir != "" {
		viper.Set("cache.dir", dir)
	}
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}

	opts := []server.Option{
		server.WithJpegli(cfg.Compress.Jpegli),
		server.WithMaxUpload(cfg.Server.MaxUploadBytes),
	}
	if cfg.Background.Enabled() {
		opts = append(opts, server.WithRemover(
			background.NewHTTPRemover(cfg.Background.URL, cfg.Background.APIKey, cfg.Background.Timeout)))
	}

	ctx := cmd.Context()
	if cfg.Cache.Enabled {
		dc := cache.NewDiskCache(cfg.Cache.Dir,
			cache.WithTTL(cfg.Cache.TTL),
			cache.WithMaxSize(cfg.Cache.MaxSizeBytes))
		opts = append(opts, server.WithCache(dc))
		go pruneLoop(ctx, dc)
		slog.Info("result cache enabled", "dir", cfg.Cache.Dir, "ttl", cfg.Cache.TTL)
	}

	apiServer := server.NewServer(Version, opts...)

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      server.NewRouter(apiServer, cfg.Server.Timeout),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout + 5*time.Second,
	}

	// Graceful shutdown
	go func() {
		<-ctx.Done()

		slog.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", tint.Err(err))
		}
	}()

	slog.Info("starting photokit server",
		"addr", cfg.Server.Addr(),
		"health", "http://"+cfg.Server.Addr()+"/api/v1/health",
		"background_removal", cfg.Background.Enabled(),
		"jpegli", cfg.Compress.Jpegli)

	if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func pruneLoop(ctx context.Context, dc *cache.DiskCache) {
	ticker := time.NewTicker(pruneInterval)
	defer ticker.Stop()

	for {
		if err := dc.Prune(); err != nil {
			slog.Warn("cache prune failed", tint.Err(err))
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
