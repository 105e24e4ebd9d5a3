package export

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/facestyle/internal/lighting"
	"github.com/Faultbox/facestyle/internal/meshquality"
	"github.com/Faultbox/facestyle/internal/pipeline"
	"github.com/Faultbox/facestyle/internal/texture"
	"github.com/Faultbox/facestyle/internal/theme"
)

// ResultFile is the name of the YAML summary written next to the maps.
const ResultFile = "result.yaml"

// MeshFile is the name of the deformed mesh.
const MeshFile = "mesh.obj"

// MeshSummary describes the optimized mesh.
type MeshSummary struct {
	Vertices     int     `yaml:"vertices"`
	Triangles    int     `yaml:"triangles"`
	Level        string  `yaml:"optimization_level"`
	QualityScore float64 `yaml:"quality_score"`
}

// Document is the serialized form of a pipeline result.
type Document struct {
	ID         string              `yaml:"id"`
	Theme      string              `yaml:"theme"`
	ElapsedMS  int64               `yaml:"elapsed_ms"`
	Mesh       MeshSummary         `yaml:"mesh"`
	Validation meshquality.Report  `yaml:"validation"`
	Features   theme.StyleFeatures `yaml:"features"`
	Transform  [][]float64         `yaml:"transform,flow"`
	Lighting   lighting.Data       `yaml:"lighting"`
	Atmosphere lighting.Atmosphere `yaml:"atmosphere"`
	Files      []string            `yaml:"files,omitempty"`
}

// NewDocument summarizes res.
func NewDocument(res *pipeline.Result) Document {
	doc := Document{
		ID:         res.ID,
		Theme:      string(res.Theme),
		ElapsedMS:  res.Elapsed.Milliseconds(),
		Validation: res.Report,
		Features:   res.Features,
		Transform:  res.Transform.Rows(),
		Lighting:   res.Lighting,
		Atmosphere: res.Atmosphere,
	}
	if opt := res.Optimized; opt != nil {
		doc.Mesh = MeshSummary{
			Vertices:     opt.VertexCount,
			Triangles:    opt.TriangleCount,
			Level:        opt.Level.String(),
			QualityScore: opt.QualityScore,
		}
	}
	return doc
}

// Options controls Write.
type Options struct {
	Image ImageOptions
	// NoSummary skips result.yaml.
	NoSummary bool
}

// Write stores every artifact of res under dir: the texture maps, the
// deformed mesh and result.yaml. It returns the paths written.
func Write(dir string, res *pipeline.Result, opts Options) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output dir: %w", err)
	}

	var written []string
	if res.Textures != nil {
		for _, m := range textureMaps(res.Textures) {
			path, err := WriteImage(dir, m.name, m.data.Image(), opts.Image)
			if err != nil {
				return written, fmt.Errorf("writing %s map: %w", m.name, err)
			}
			written = append(written, path)
		}
	}

	if res.Mesh != nil {
		path := filepath.Join(dir, MeshFile)
		if err := writeFile(path, func(f *os.File) error { return WriteOBJ(f, res.Mesh) }); err != nil {
			return written, err
		}
		written = append(written, path)
	}

	if opts.NoSummary {
		return written, nil
	}
	doc := NewDocument(res)
	for _, p := range written {
		doc.Files = append(doc.Files, filepath.Base(p))
	}
	data, err := yaml.Marshal(&doc)
	if err != nil {
		return written, fmt.Errorf("marshaling result: %w", err)
	}
	path := filepath.Join(dir, ResultFile)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return written, fmt.Errorf("writing result: %w", err)
	}
	return append(written, path), nil
}

type namedMap struct {
	name string
	data *texture.Data
}

func textureMaps(set *texture.Set) []namedMap {
	maps := []namedMap{
		{"base", set.Base},
		{"normal", set.Normal},
		{"specular", set.Specular},
		{"flow", set.Flow},
	}
	out := maps[:0]
	for _, m := range maps {
		if m.data != nil {
			out = append(out, m)
		}
	}
	return out
}

func writeFile(path string, fill func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	if err := fill(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
