// Package config handles configuration loading using viper.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Config is the top-level configuration for a conversion run.
type Config struct {
	Batch   BatchConfig   `mapstructure:"batch"`
	FFmpeg  FFmpegConfig  `mapstructure:"ffmpeg"`
	Log     LogConfig     `mapstructure:"log"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// BatchConfig controls source traversal and batch execution.
type BatchConfig struct {
	Workers   int    `mapstructure:"workers"`   // 0 = GOMAXPROCS
	Extension string `mapstructure:"extension"` // input file extension
	Report    bool   `mapstructure:"report"`    // write report.yml to the output dir
}

// FFmpegConfig configures the external encoder.
type FFmpegConfig struct {
	Binary string `mapstructure:"binary"`
	// Formats holds optional per-codec input option blocks, keyed by ffmpeg
	// demuxer name (g729, alaw, ...). Values are decoded on demand with
	// mapstructure, unknown keys are rejected.
	Formats map[string]map[string]any `mapstructure:"formats"`
}

// FormatOptions are extra ffmpeg input flags for one codec.
type FormatOptions struct {
	SampleRate int      `mapstructure:"sample_rate"` // -ar, 0 = ffmpeg default
	Channels   int      `mapstructure:"channels"`    // -ac, 0 = ffmpeg default
	Extra      []string `mapstructure:"extra"`       // appended verbatim before -i
}

// Options decodes the option block for one codec format. Absent blocks yield
// zero options, not an error.
func (c FFmpegConfig) Options(format string) (FormatOptions, error) {
	raw, ok := c.Formats[format]
	if !ok {
		return FormatOptions{}, nil
	}

	var opts FormatOptions
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &opts,
		ErrorUnused: true,
	})
	if err != nil {
		return FormatOptions{}, err
	}
	if err := dec.Decode(raw); err != nil {
		return FormatOptions{}, fmt.Errorf("invalid ffmpeg options for %s: %w", format, err)
	}
	return opts, nil
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level   string           `mapstructure:"level"`  // debug / info / warn / error
	Format  string           `mapstructure:"format"` // json / text
	Outputs LogOutputsConfig `mapstructure:"outputs"`
}

// LogOutputsConfig contains structured log output destinations. Stdout is
// always included.
type LogOutputsConfig struct {
	File FileOutputConfig `mapstructure:"file"`
}

// FileOutputConfig configures file log output. An empty path means
// conversion.log inside the run's output directory.
type FileOutputConfig struct {
	Enabled  bool           `mapstructure:"enabled"`
	Path     string         `mapstructure:"path"`
	Rotation RotationConfig `mapstructure:"rotation"`
}

// RotationConfig configures log file rotation.
type RotationConfig struct {
	MaxSizeMB  int  `mapstructure:"max_size_mb"`
	MaxAgeDays int  `mapstructure:"max_age_days"`
	MaxBackups int  `mapstructure:"max_backups"`
	Compress   bool `mapstructure:"compress"`
}

// MetricsConfig contains Prometheus metrics settings.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Listen  string `mapstructure:"listen"`
	Path    string `mapstructure:"path"`
}

// Load reads the config file at path and applies defaults. A missing file is
// not an error — the converter runs fine on defaults alone — but an
// unreadable or unparsable one is.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides: nmfconv.log.level → NMFCONV_LOG_LEVEL.
	v.SetEnvPrefix("nmfconv")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// A missing file falls through to defaults; anything else is fatal.
		if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// Batch defaults
	v.SetDefault("batch.workers", 0)
	v.SetDefault("batch.extension", ".nmf")
	v.SetDefault("batch.report", true)

	// FFmpeg defaults
	v.SetDefault("ffmpeg.binary", "ffmpeg")

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.outputs.file.enabled", true)
	v.SetDefault("log.outputs.file.path", "")
	v.SetDefault("log.outputs.file.rotation.max_size_mb", 100)
	v.SetDefault("log.outputs.file.rotation.max_age_days", 30)
	v.SetDefault("log.outputs.file.rotation.max_backups", 5)
	v.SetDefault("log.outputs.file.rotation.compress", false)

	// Metrics defaults
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.listen", ":9091")
	v.SetDefault("metrics.path", "/metrics")
}

// Validate checks configuration invariants not expressible as defaults.
func (c *Config) Validate() error {
	if c.Batch.Workers < 0 {
		return fmt.Errorf("batch.workers must be >= 0, got %d", c.Batch.Workers)
	}
	if c.Batch.Extension == "" || !strings.HasPrefix(c.Batch.Extension, ".") {
		return fmt.Errorf("batch.extension must start with a dot, got %q", c.Batch.Extension)
	}
	if c.FFmpeg.Binary == "" {
		return fmt.Errorf("ffmpeg.binary must not be empty")
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("log.format must be json or text, got %q", c.Log.Format)
	}
	if c.Metrics.Enabled && c.Metrics.Listen == "" {
		return fmt.Errorf("metrics.listen is required when metrics are enabled")
	}
	return nil
}
