// Package pipeline runs one face through every stage: build, optimize,
// validate, stylize, deform, texture and light.
package pipeline

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Faultbox/facestyle/internal/faceerr"
	"github.com/Faultbox/facestyle/internal/facemesh"
	"github.com/Faultbox/facestyle/internal/inference"
	"github.com/Faultbox/facestyle/internal/lighting"
	"github.com/Faultbox/facestyle/internal/meshopt"
	"github.com/Faultbox/facestyle/internal/meshquality"
	"github.com/Faultbox/facestyle/internal/texture"
	"github.com/Faultbox/facestyle/internal/theme"
	"github.com/Faultbox/facestyle/pkg/landmark"
	"github.com/Faultbox/facestyle/pkg/math"
)

// seedMix decorrelates the two PCG state words.
const seedMix = 0x9e3779b97f4a7c15

// NewRand returns the request random source for seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^seedMix))
}

// Request is one face to stylize.
type Request struct {
	// ID identifies the request in logs; a UUID is assigned when empty.
	ID        string
	Landmarks []landmark.Landmark
	Theme     theme.ID
	Options   theme.Options
	Seed      uint64
	// Lighting is the source photo analysis; nil means
	// lighting.DefaultAnalysis.
	Lighting *lighting.Analysis
	// TextureSize overrides the theme's texture size when non-zero.
	TextureSize int
}

// Result is everything one run produces.
type Result struct {
	ID         string
	Theme      theme.ID
	Mesh       *facemesh.Mesh
	Optimized  *meshopt.Result
	Report     meshquality.Report
	Features   theme.StyleFeatures
	Transform  math.Mat4
	Textures   *texture.Set
	Lighting   lighting.Data
	Atmosphere lighting.Atmosphere
	Elapsed    time.Duration
}

// Pipeline holds the collaborators shared by every run. It keeps no
// per-request state and is safe for concurrent use when Engine is.
type Pipeline struct {
	Engine inference.Engine
	Logger *zap.Logger
	// RequireValid fails a run whose optimized mesh does not validate.
	RequireValid bool
}

// New returns a pipeline. A nil engine falls back to the Tint stand-in and
// a nil logger to a no-op one.
func New(engine inference.Engine, log *zap.Logger) *Pipeline {
	if engine == nil {
		engine = inference.NewTint()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{Engine: engine, Logger: log}
}

func (p *Pipeline) logger() *zap.Logger {
	if p.Logger == nil {
		return zap.NewNop()
	}
	return p.Logger
}

// Run executes every stage for req. Any stage failure aborts the run; there
// is no partial result.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Result, error) {
	const op = "pipeline.Run"
	start := time.Now()

	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	log := p.logger().With(zap.String("request_id", req.ID), zap.String("theme", string(req.Theme)))

	if err := req.Options.Validate(); err != nil {
		return nil, err
	}
	opts := req.Options
	strategy, err := theme.New(req.Theme)
	if err != nil {
		return nil, err
	}

	res := &Result{ID: req.ID, Theme: req.Theme}
	quality := string(opts.Quality)

	stages := []struct {
		name string
		run  func() error
	}{
		{"build", func() (err error) {
			res.Mesh, err = facemesh.Build(req.Landmarks, facemesh.OptionsForQuality(quality))
			return err
		}},
		{"optimize", func() (err error) {
			res.Optimized, err = meshopt.OptimizeChecked(res.Mesh, meshopt.LevelForQuality(quality))
			return err
		}},
		{"validate", func() error {
			res.Report = meshquality.Validate(res.Optimized.Mesh)
			if !res.Report.IsValid {
				if p.RequireValid {
					return faceerr.New(faceerr.KindValidationFailed, op, "%s", strings.Join(res.Report.Errors, "; "))
				}
				log.Warn("mesh failed validation", zap.Strings("errors", res.Report.Errors))
			}
			for _, w := range res.Report.Warnings {
				log.Debug("mesh quality warning", zap.String("warning", w))
			}
			return nil
		}},
		{"stylize", func() (err error) {
			res.Features, err = theme.Stylize(ctx, p.Engine, strategy, res.Optimized.Mesh, opts)
			return err
		}},
		{"deform", func() error {
			res.Mesh = strategy.DeformMesh(res.Optimized.Mesh, res.Features, opts)
			res.Transform = strategy.TransformMatrix(res.Features, opts)
			return nil
		}},
		{"texture", func() (err error) {
			recipe := strategy.TextureRecipe(res.Features, opts)
			if req.TextureSize > 0 {
				recipe.Size = req.TextureSize
			}
			res.Textures, err = texture.Synthesize(recipe, NewRand(req.Seed))
			return err
		}},
		{"lighting", func() error {
			analysis := lighting.DefaultAnalysis()
			if req.Lighting != nil {
				analysis = *req.Lighting
			}
			res.Lighting, res.Atmosphere = lighting.Compose(strategy.LightingProfile(opts), analysis, opts.StyleIntensity)
			return nil
		}},
	}

	for _, s := range stages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		t0 := time.Now()
		if err := s.run(); err != nil {
			log.Error("stage failed", zap.String("stage", s.name), zap.Error(err))
			return nil, err
		}
		log.Debug("stage done", zap.String("stage", s.name), zap.Duration("took", time.Since(t0)))
	}

	res.Elapsed = time.Since(start)
	log.Info("face stylized",
		zap.Int("vertices", res.Optimized.VertexCount),
		zap.Int("triangles", res.Optimized.TriangleCount),
		zap.Float64("quality", res.Report.Metrics.OverallQuality),
		zap.Duration("took", res.Elapsed),
	)
	return res, nil
}

// describe returns a short label for error messages.
func (r Request) describe() string {
	return fmt.Sprintf("request %s (%s)", r.ID, r.Theme)
}
