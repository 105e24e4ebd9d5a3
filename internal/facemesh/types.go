// Package facemesh builds a triangulated 3D face surface from 2D landmarks.
package facemesh

import (
	"fmt"

	"github.com/Faultbox/facestyle/pkg/math"
)

// Triangle holds three vertex indices into a mesh's vertex list.
type Triangle [3]int

// UV is a per-vertex texture coordinate in [0,1]².
type UV struct {
	U float64 `yaml:"u"`
	V float64 `yaml:"v"`
}

// Bounds holds the axis-aligned bounding box of a mesh.
type Bounds struct {
	Min math.Vec3
	Max math.Vec3
}

// Center returns the center point of the box.
func (b Bounds) Center() math.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Size returns the extent of the box along each axis.
func (b Bounds) Size() math.Vec3 {
	return b.Max.Sub(b.Min)
}

// Mesh is a face surface. UVs and Normals are either empty or hold one entry
// per vertex, in vertex order.
type Mesh struct {
	Vertices  []math.Vec3
	Triangles []Triangle
	UVs       []UV
	Normals   []math.Vec3
	Bounds    Bounds
}

// HasNormals reports whether the normal layer is populated.
func (m *Mesh) HasNormals() bool {
	return len(m.Normals) > 0 && len(m.Normals) == len(m.Vertices)
}

// HasUVs reports whether the UV layer is populated.
func (m *Mesh) HasUVs() bool {
	return len(m.UVs) > 0 && len(m.UVs) == len(m.Vertices)
}

// Clone returns a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	if m == nil {
		return nil
	}
	out := &Mesh{Bounds: m.Bounds}
	out.Vertices = append([]math.Vec3(nil), m.Vertices...)
	out.Triangles = append([]Triangle(nil), m.Triangles...)
	if m.UVs != nil {
		out.UVs = append([]UV(nil), m.UVs...)
	}
	if m.Normals != nil {
		out.Normals = append([]math.Vec3(nil), m.Normals...)
	}
	return out
}

// CheckIndices returns an error for the first triangle that references a
// vertex outside the mesh.
func (m *Mesh) CheckIndices() error {
	n := len(m.Vertices)
	for i, tri := range m.Triangles {
		for _, idx := range tri {
			if idx < 0 || idx >= n {
				return fmt.Errorf("triangle %d references vertex %d of %d", i, idx, n)
			}
		}
	}
	return nil
}

// Resolution selects how many interpolated vertices the builder synthesizes.
type Resolution uint8

// Resolution constants.
const (
	ResolutionLow Resolution = iota
	ResolutionMedium
	ResolutionHigh
)

// String returns the resolution name.
func (r Resolution) String() string {
	switch r {
	case ResolutionLow:
		return "low"
	case ResolutionMedium:
		return "medium"
	case ResolutionHigh:
		return "high"
	default:
		return fmt.Sprintf("Resolution(%d)", r)
	}
}

// ResolutionVertexCount returns the number of interpolated vertices added on
// top of the landmark vertices.
func ResolutionVertexCount(r Resolution) int {
	switch r {
	case ResolutionLow:
		return 20
	case ResolutionHigh:
		return 100
	default:
		return 50
	}
}

// BuildOptions contains options for mesh building.
type BuildOptions struct {
	Resolution Resolution
	// GenerateUVs fills Mesh.UVs.
	GenerateUVs bool
	// GenerateNormals fills Mesh.Normals.
	GenerateNormals bool
	// SmoothingIterations is the number of Laplacian smoothing passes.
	SmoothingIterations int
}

// DefaultBuildOptions returns medium resolution with every layer enabled.
func DefaultBuildOptions() BuildOptions {
	return BuildOptions{
		Resolution:          ResolutionMedium,
		GenerateUVs:         true,
		GenerateNormals:     true,
		SmoothingIterations: 2,
	}
}

// OptionsForQuality maps a processing quality name to build options.
// Unknown names fall back to the balanced defaults.
func OptionsForQuality(quality string) BuildOptions {
	opts := DefaultBuildOptions()
	switch quality {
	case "fast":
		opts.Resolution = ResolutionLow
		opts.SmoothingIterations = 0
	case "high":
		opts.Resolution = ResolutionHigh
		opts.SmoothingIterations = 3
	}
	return opts
}
