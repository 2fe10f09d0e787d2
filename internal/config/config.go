// Package config maps viper settings onto typed configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g. PHOTOKIT_SERVER_PORT.
const EnvPrefix = "PHOTOKIT"

type Config struct {
	Debug      bool             `mapstructure:"debug"`
	Server     ServerConfig     `mapstructure:"server"`
	Compress   CompressConfig   `mapstructure:"compress"`
	Background BackgroundConfig `mapstructure:"background"`
	Cache      CacheConfig      `mapstructure:"cache"`
}

type ServerConfig struct {
	Bind      string        `mapstructure:"bind"`
	Port      int           `mapstructure:"port"`
	Timeout   time.Duration `mapstructure:"timeout"`
	MaxUpload string        `mapstructure:"max_upload"`

	// MaxUploadBytes is MaxUpload parsed by Load.
	MaxUploadBytes int64 `mapstructure:"-"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Bind, s.Port)
}

type CompressConfig struct {
	Jpegli bool `mapstructure:"jpegli"`
}

type BackgroundConfig struct {
	URL     string        `mapstructure:"url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// Enabled reports whether a removal service is configured.
func (b BackgroundConfig) Enabled() bool {
	return b.URL != ""
}

type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Dir     string        `mapstructure:"dir"`
	TTL     time.Duration `mapstructure:"ttl"`
	MaxSize string        `mapstructure:"max_size"`

	MaxSizeBytes int64 `mapstructure:"-"`
}

// Setup registers defaults and environment lookup on v.
func Setup(v *viper.Viper) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault("debug", false)

	v.SetDefault("server.bind", "localhost")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.timeout", 60*time.Second)
	v.SetDefault("server.max_upload", "32MB")

	v.SetDefault("compress.jpegli", false)

	v.SetDefault("background.url", "")
	v.SetDefault("background.api_key", "")
	v.SetDefault("background.timeout", 60*time.Second)

	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.dir", defaultCacheDir())
	v.SetDefault("cache.ttl", 24*time.Hour)
	v.SetDefault("cache.max_size", "1GB")
}

func defaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "photokit")
}

// Load decodes v into a Config and validates it.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	var errs []error
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port: %d out of range", cfg.Server.Port))
	}
	if cfg.Server.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("server.timeout: must be positive"))
	}
	if n, err := humanize.ParseBytes(cfg.Server.MaxUpload); err != nil {
		errs = append(errs, fmt.Errorf("server.max_upload: %w", err))
	} else {
		cfg.Server.MaxUploadBytes = int64(n)
	}
	if n, err := humanize.ParseBytes(cfg.Cache.MaxSize); err != nil {
		errs = append(errs, fmt.Errorf("cache.max_size: %w", err))
	} else {
		cfg.Cache.MaxSizeBytes = int64(n)
	}
	if cfg.Cache.Enabled && cfg.Cache.Dir == "" {
		errs = append(errs, errors.New("cache.dir: required when cache is enabled"))
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return &cfg, nil
}
