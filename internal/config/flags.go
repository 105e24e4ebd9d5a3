package config

import (
	"flag"
	"fmt"
	"strings"

	"github.com/Faultbox/facestyle/internal/theme"
)

// Flags are the command-line overrides. Zero values leave the loaded
// configuration untouched.
type Flags struct {
	Config       string
	Theme        string
	Quality      string
	Intensity    float64
	Identity     float64
	Seed         uint64
	TextureSize  int
	RequireValid bool
	OutDir       string
	Format       string
	Width        int
	Height       int
	Workers      int
	Debug        bool
	LogFile      string

	set map[string]bool
}

// RegisterFlags defines the flags on fs and returns the struct they fill.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{}
	fs.StringVar(&f.Config, "config", "", "Path to config file")
	fs.StringVar(&f.Theme, "theme", "", "Theme: rugged, classical or ethereal")
	fs.StringVar(&f.Quality, "quality", "", "Quality: fast, balanced or high")
	fs.Float64Var(&f.Intensity, "intensity", 0, "Style intensity in [0,1]")
	fs.Float64Var(&f.Identity, "identity", 0, "Identity preservation in [0,1]")
	fs.Uint64Var(&f.Seed, "seed", 0, "Random seed for texture features")
	fs.IntVar(&f.TextureSize, "texture-size", 0, "Texture side in pixels (0 = theme default)")
	fs.BoolVar(&f.RequireValid, "require-valid", false, "Fail when the mesh does not validate")
	fs.StringVar(&f.OutDir, "out", "", "Output directory")
	fs.StringVar(&f.Format, "format", "", "Image format: png, jpeg or tga")
	fs.IntVar(&f.Width, "width", 0, "Resize textures to this width")
	fs.IntVar(&f.Height, "height", 0, "Resize textures to this height")
	fs.IntVar(&f.Workers, "workers", 0, "Concurrent pipelines")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging")
	fs.StringVar(&f.LogFile, "log-file", "", "Also log to this file, with rotation")
	return f
}

// Parse parses args and records which flags were given explicitly.
func (f *Flags) Parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return err
	}
	f.set = make(map[string]bool)
	fs.Visit(func(fl *flag.Flag) { f.set[fl.Name] = true })
	return nil
}

// isSet reports whether name was given on the command line. Before Parse it
// falls back to a non-zero check so tests can fill Flags directly.
func (f *Flags) isSet(name string, nonZero bool) bool {
	if f.set == nil {
		return nonZero
	}
	return f.set[name]
}

// apply applies CLI flag overrides to the config.
func (f *Flags) apply(cfg *Config) error {
	if f == nil {
		return nil
	}
	if f.isSet("theme", f.Theme != "") {
		cfg.Pipeline.Theme = strings.ToLower(f.Theme)
	}
	if f.isSet("quality", f.Quality != "") {
		cfg.Pipeline.Quality = theme.Quality(strings.ToLower(f.Quality))
	}
	if f.isSet("intensity", f.Intensity != 0) {
		cfg.Pipeline.StyleIntensity = f.Intensity
	}
	if f.isSet("identity", f.Identity != 0) {
		cfg.Pipeline.PreserveIdentity = f.Identity
	}
	if f.isSet("seed", f.Seed != 0) {
		cfg.Pipeline.Seed = f.Seed
	}
	if f.isSet("texture-size", f.TextureSize != 0) {
		cfg.Pipeline.TextureSize = f.TextureSize
	}
	if f.isSet("require-valid", f.RequireValid) {
		cfg.Pipeline.RequireValid = f.RequireValid
	}
	if f.isSet("out", f.OutDir != "") {
		cfg.Output.Dir = f.OutDir
	}
	if f.isSet("format", f.Format != "") {
		cfg.Output.Format = strings.ToLower(f.Format)
		if cfg.Output.Format == "jpg" {
			cfg.Output.Format = "jpeg"
		}
	}
	if f.isSet("width", f.Width != 0) {
		cfg.Output.Width = f.Width
	}
	if f.isSet("height", f.Height != 0) {
		cfg.Output.Height = f.Height
	}
	if f.isSet("workers", f.Workers != 0) {
		if f.Workers < 1 {
			return fmt.Errorf("-workers must be at least 1, got %d", f.Workers)
		}
		cfg.Workers.Count = f.Workers
	}
	if f.isSet("debug", f.Debug) {
		switch {
		case f.Debug:
			cfg.Logging.Level = "debug"
		case cfg.Logging.Level == "debug":
			cfg.Logging.Level = "info"
		}
	}
	if f.isSet("log-file", f.LogFile != "") {
		cfg.Logging.LogFile = f.LogFile
	}
	return nil
}
