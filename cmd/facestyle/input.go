package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/facestyle/internal/config"
	"github.com/Faultbox/facestyle/internal/lighting"
	"github.com/Faultbox/facestyle/internal/pipeline"
	"github.com/Faultbox/facestyle/internal/theme"
	"github.com/Faultbox/facestyle/pkg/landmark"
)

// faceFile is one input document. Everything except the landmarks is
// optional and falls back to the loaded config.
type faceFile struct {
	ID        string              `yaml:"id"`
	Theme     string              `yaml:"theme"`
	Seed      *uint64             `yaml:"seed"`
	Options   optionOverrides     `yaml:"options"`
	Lighting  *lighting.Analysis  `yaml:"lighting"`
	Landmarks []landmark.Landmark `yaml:"landmarks"`
}

type optionOverrides struct {
	Quality          *theme.Quality `yaml:"quality"`
	StyleIntensity   *float64       `yaml:"style_intensity"`
	PreserveIdentity *float64       `yaml:"preserve_identity"`
}

// readFaceFile parses path. Unknown keys are rejected so typos do not
// silently fall back to defaults. The ID defaults to the file name.
func readFaceFile(path string) (*faceFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var f faceFile
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if len(f.Landmarks) == 0 {
		return nil, fmt.Errorf("%s: no landmarks", path)
	}
	if f.ID == "" {
		f.ID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return &f, nil
}

// request merges the file over cfg.
func (f *faceFile) request(cfg *config.Config) (pipeline.Request, error) {
	name := f.Theme
	if name == "" {
		name = cfg.Pipeline.Theme
	}
	id, err := theme.ParseID(name)
	if err != nil {
		return pipeline.Request{}, err
	}

	opts := cfg.Options()
	if o := f.Options.Quality; o != nil {
		opts.Quality = *o
	}
	if o := f.Options.StyleIntensity; o != nil {
		opts.StyleIntensity = *o
	}
	if o := f.Options.PreserveIdentity; o != nil {
		opts.PreserveIdentity = *o
	}

	seed := cfg.Pipeline.Seed
	if f.Seed != nil {
		seed = *f.Seed
	}

	return pipeline.Request{
		ID:          f.ID,
		Landmarks:   f.Landmarks,
		Theme:       id,
		Options:     opts,
		Seed:        seed,
		Lighting:    f.Lighting,
		TextureSize: cfg.Pipeline.TextureSize,
	}, nil
}

// loadRequests reads every input. IDs name the output directories, so they
// must be unique.
func loadRequests(paths []string, cfg *config.Config) ([]pipeline.Request, error) {
	reqs := make([]pipeline.Request, 0, len(paths))
	seen := make(map[string]string, len(paths))
	for _, path := range paths {
		f, err := readFaceFile(path)
		if err != nil {
			return nil, err
		}
		if prev, ok := seen[f.ID]; ok {
			return nil, fmt.Errorf("%s: id %q already used by %s", path, f.ID, prev)
		}
		seen[f.ID] = path

		req, err := f.request(cfg)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		reqs = append(reqs, req)
	}
	return reqs, nil
}
