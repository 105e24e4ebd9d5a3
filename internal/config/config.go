// Package config handles facestyle configuration loading and management.
package config

import (
	"fmt"

	"github.com/Faultbox/facestyle/internal/logger"
	"github.com/Faultbox/facestyle/internal/theme"
)

// Config holds all facestyle settings.
type Config struct {
	Pipeline PipelineConfig `yaml:"pipeline"`
	Output   OutputConfig   `yaml:"output"`
	Workers  WorkersConfig  `yaml:"workers"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// PipelineConfig holds the default per-request processing settings. A
// landmark file may override any of them.
type PipelineConfig struct {
	Theme            string        `yaml:"theme" validate:"oneof=rugged classical ethereal"`
	Quality          theme.Quality `yaml:"quality" validate:"oneof=fast balanced high"`
	StyleIntensity   float64       `yaml:"style_intensity" validate:"unit"`
	PreserveIdentity float64       `yaml:"preserve_identity" validate:"unit"`
	Seed             uint64        `yaml:"seed"`
	// TextureSize overrides the theme's texture size when non-zero.
	TextureSize  int  `yaml:"texture_size" validate:"omitempty,gte=16,lte=4096"`
	RequireValid bool `yaml:"require_valid"`
}

// OutputConfig controls what the CLI writes.
type OutputConfig struct {
	Dir          string `yaml:"dir" validate:"required"`
	Format       string `yaml:"format" validate:"oneof=png jpeg tga"`
	Width        int    `yaml:"width" validate:"gte=0,lte=8192"`
	Height       int    `yaml:"height" validate:"gte=0,lte=8192"`
	JPEGQuality  int    `yaml:"jpeg_quality" validate:"gte=1,lte=100"`
	WriteResults bool   `yaml:"write_results"`
}

// WorkersConfig caps concurrent pipeline runs.
type WorkersConfig struct {
	Count int `yaml:"count" validate:"gte=1,lte=256"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level" validate:"oneof=debug info warn error"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	opts := theme.DefaultOptions()
	return &Config{
		Pipeline: PipelineConfig{
			Theme:            string(theme.Rugged),
			Quality:          opts.Quality,
			StyleIntensity:   opts.StyleIntensity,
			PreserveIdentity: opts.PreserveIdentity,
			Seed:             1,
		},
		Output: OutputConfig{
			Dir:          "out",
			Format:       theme.FormatPNG,
			JPEGQuality:  90,
			WriteResults: true,
		},
		Workers: WorkersConfig{
			Count: 4,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Options converts the pipeline and output sections into theme options.
func (c *Config) Options() theme.Options {
	return theme.Options{
		Quality:          c.Pipeline.Quality,
		StyleIntensity:   c.Pipeline.StyleIntensity,
		PreserveIdentity: c.Pipeline.PreserveIdentity,
		OutputFormat:     c.Output.Format,
		TargetWidth:      c.Output.Width,
		TargetHeight:     c.Output.Height,
	}
}

// LogFileConfig returns the rotation settings for the configured log file.
func (c *Config) LogFileConfig() logger.FileConfig {
	if c.Logging.LogFile == "" {
		return logger.FileConfig{}
	}
	return logger.DefaultFileConfig(c.Logging.LogFile)
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := theme.Validator().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
