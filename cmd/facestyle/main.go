// Package main is the facestyle command: it stylizes faces described by
// landmark files and writes the textures, mesh and a result summary.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"go.uber.org/zap"

	"github.com/Faultbox/facestyle/internal/config"
	"github.com/Faultbox/facestyle/internal/export"
	"github.com/Faultbox/facestyle/internal/inference"
	"github.com/Faultbox/facestyle/internal/logger"
	"github.com/Faultbox/facestyle/internal/pipeline"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stderr)
	stop()
	os.Exit(code)
}

func printUsage(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintln(w, `facestyle - themed 3D face stylization

Usage:
  facestyle [flags] <face.yaml>...

Each input writes base, normal, specular and flow maps, mesh.obj and
result.yaml to <out>/<id>/.

Flags:`)
	fs.SetOutput(w)
	fs.PrintDefaults()
}

func run(ctx context.Context, args []string, stderr io.Writer) int {
	fs := flag.NewFlagSet("facestyle", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	flags := config.RegisterFlags(fs)
	saveConfig := fs.Bool("save-config", false, "Write the effective config to the user config dir and exit")

	if err := flags.Parse(fs, args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printUsage(stderr, fs)
			return 0
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		printUsage(stderr, fs)
		return 2
	}

	cfg, err := config.Load(flags)
	if err != nil {
		fmt.Fprintf(stderr, "Config error: %v\n", err)
		return 1
	}

	if *saveConfig {
		if err := cfg.Save(); err != nil {
			fmt.Fprintf(stderr, "Saving config: %v\n", err)
			return 1
		}
		fmt.Fprintf(stderr, "Config written to %s\n", filepath.Join(config.ConfigDir(), config.FileName))
		return 0
	}

	inputs := fs.Args()
	if len(inputs) == 0 {
		printUsage(stderr, fs)
		return 2
	}

	if err := logger.InitWithFileConfig(cfg.Logging.Level, cfg.LogFileConfig(), true); err != nil {
		fmt.Fprintf(stderr, "Logger error: %v\n", err)
		return 1
	}
	defer logger.Sync()
	logger.Sugar.Debugf("Config: %+v", cfg)

	reqs, err := loadRequests(inputs, cfg)
	if err != nil {
		logger.Error("reading inputs", zap.Error(err))
		return 1
	}

	p := pipeline.New(inference.NewTint(), logger.Named("pipeline"))
	p.RequireValid = cfg.Pipeline.RequireValid

	results, err := p.RunBatch(ctx, reqs, cfg.Workers.Count)
	if err != nil {
		logger.Error("stylization failed", zap.Error(err))
		return 1
	}

	opts := export.Options{
		Image: export.ImageOptions{
			Format:      cfg.Output.Format,
			Width:       cfg.Output.Width,
			Height:      cfg.Output.Height,
			JPEGQuality: cfg.Output.JPEGQuality,
		},
		NoSummary: !cfg.Output.WriteResults,
	}
	for _, res := range results {
		dir := filepath.Join(cfg.Output.Dir, res.ID)
		written, err := export.Write(dir, res, opts)
		if err != nil {
			logger.Error("writing output", zap.String("request_id", res.ID), zap.Error(err))
			return 1
		}
		logger.Info("face written",
			zap.String("request_id", res.ID),
			zap.String("dir", dir),
			zap.Int("files", len(written)),
			zap.Float64("quality", res.Report.Metrics.OverallQuality),
		)
	}
	return 0
}
