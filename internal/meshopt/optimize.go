// Package meshopt removes duplicate vertices and poor triangles from a face
// mesh.
package meshopt

import (
	"fmt"
	gomath "math"

	"github.com/Faultbox/facestyle/internal/faceerr"
	"github.com/Faultbox/facestyle/internal/facemesh"
	"github.com/Faultbox/facestyle/internal/meshquality"
	"github.com/Faultbox/facestyle/pkg/math"
)

// Level selects which optimization steps run.
type Level uint8

// Optimization levels.
const (
	// LevelFast merges duplicate vertices only.
	LevelFast Level = iota
	// LevelBalanced also drops degenerate triangles.
	LevelBalanced
	// LevelHigh also drops triangles with a poor aspect ratio.
	LevelHigh
)

// String returns the level name.
func (l Level) String() string {
	switch l {
	case LevelFast:
		return "fast"
	case LevelBalanced:
		return "balanced"
	case LevelHigh:
		return "high"
	default:
		return fmt.Sprintf("Level(%d)", l)
	}
}

// LevelForQuality maps a processing quality name to a level.
func LevelForQuality(quality string) Level {
	switch quality {
	case "fast":
		return LevelFast
	case "balanced":
		return LevelBalanced
	default:
		return LevelHigh
	}
}

// Result is an optimized mesh with recomputed counts and quality.
type Result struct {
	Mesh          *facemesh.Mesh
	Level         Level
	VertexCount   int
	TriangleCount int
	QualityScore  float64
}

// Optimize runs the steps enabled by level and returns a new mesh; the input
// is not modified. An empty result is valid output.
func Optimize(m *facemesh.Mesh, level Level) *Result {
	out := MergeVertices(m)
	if level >= LevelBalanced {
		out = DropDegenerate(out)
	}
	if level >= LevelHigh {
		out = DropPoorAspect(out)
	}
	out.Bounds = facemesh.ComputeBounds(out.Vertices)

	return &Result{
		Mesh:          out,
		Level:         level,
		VertexCount:   len(out.Vertices),
		TriangleCount: len(out.Triangles),
		QualityScore:  meshquality.Compute(out).OverallQuality,
	}
}

// OptimizeChecked is Optimize with malformed input reported as
// MeshOptimizationFailed instead of a panic.
func OptimizeChecked(m *facemesh.Mesh, level Level) (res *Result, err error) {
	const op = "meshopt.Optimize"
	if m == nil {
		return nil, faceerr.New(faceerr.KindMeshOptimizationFailed, op, "mesh is nil")
	}
	if err := m.CheckIndices(); err != nil {
		return nil, faceerr.Wrap(faceerr.KindMeshOptimizationFailed, op, err)
	}
	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = faceerr.New(faceerr.KindMeshOptimizationFailed, op, "%v", r)
		}
	}()
	return Optimize(m, level), nil
}

// MergeVertices collapses vertices whose coordinates agree to 6 decimal
// places. The first occurrence survives along with its UV and normal, and
// triangles are remapped to the surviving indices.
func MergeVertices(m *facemesh.Mesh) *facemesh.Mesh {
	hasUVs := m.HasUVs()
	hasNormals := m.HasNormals()

	out := &facemesh.Mesh{
		Vertices: make([]math.Vec3, 0, len(m.Vertices)),
	}
	if hasUVs {
		out.UVs = make([]facemesh.UV, 0, len(m.Vertices))
	}
	if hasNormals {
		out.Normals = make([]math.Vec3, 0, len(m.Vertices))
	}

	remap := make([]int, len(m.Vertices))
	seen := make(map[[3]int64]int, len(m.Vertices))
	for i, v := range m.Vertices {
		key := quantize(v)
		if idx, ok := seen[key]; ok {
			remap[i] = idx
			continue
		}
		idx := len(out.Vertices)
		seen[key] = idx
		remap[i] = idx
		out.Vertices = append(out.Vertices, v)
		if hasUVs {
			out.UVs = append(out.UVs, m.UVs[i])
		}
		if hasNormals {
			out.Normals = append(out.Normals, m.Normals[i])
		}
	}

	out.Triangles = make([]facemesh.Triangle, len(m.Triangles))
	for i, tri := range m.Triangles {
		out.Triangles[i] = facemesh.Triangle{remap[tri[0]], remap[tri[1]], remap[tri[2]]}
	}
	out.Bounds = facemesh.ComputeBounds(out.Vertices)
	return out
}

// DropDegenerate removes triangles that repeat a vertex or whose area is
// below facemesh.MinTriangleArea.
func DropDegenerate(m *facemesh.Mesh) *facemesh.Mesh {
	return filterTriangles(m, func(a, b, c math.Vec3, tri facemesh.Triangle) bool {
		if tri[0] == tri[1] || tri[1] == tri[2] || tri[0] == tri[2] {
			return false
		}
		return !facemesh.IsDegenerate(a, b, c)
	})
}

// DropPoorAspect removes triangles whose facemesh.NormalizedAspect is below
// facemesh.MinAspectRatio.
func DropPoorAspect(m *facemesh.Mesh) *facemesh.Mesh {
	return filterTriangles(m, func(a, b, c math.Vec3, _ facemesh.Triangle) bool {
		r := facemesh.NormalizedAspect(a, b, c)
		return !gomath.IsNaN(r) && r >= facemesh.MinAspectRatio
	})
}

func filterTriangles(m *facemesh.Mesh, keep func(a, b, c math.Vec3, tri facemesh.Triangle) bool) *facemesh.Mesh {
	out := m.Clone()
	out.Triangles = out.Triangles[:0]
	for _, tri := range m.Triangles {
		if keep(m.Vertices[tri[0]], m.Vertices[tri[1]], m.Vertices[tri[2]], tri) {
			out.Triangles = append(out.Triangles, tri)
		}
	}
	return out
}

// quantize rounds each coordinate to 6 decimal places.
func quantize(v math.Vec3) [3]int64 {
	return [3]int64{
		int64(gomath.Round(v.X * 1e6)),
		int64(gomath.Round(v.Y * 1e6)),
		int64(gomath.Round(v.Z * 1e6)),
	}
}
