// Package meshquality scores the geometric quality of a face mesh.
package meshquality

import (
	"fmt"
	gomath "math"

	"gonum.org/v1/gonum/stat"

	"github.com/Faultbox/facestyle/internal/facemesh"
	"github.com/Faultbox/facestyle/pkg/math"
)

// Score weights for OverallQuality.
const (
	WeightAspect     = 0.30
	WeightSymmetry   = 0.25
	WeightSmoothness = 0.25
	WeightTopology   = 0.20
)

// Warning thresholds.
const (
	WarnAspectRatio = 0.3
	WarnSymmetry    = 0.7
	WarnSmoothness  = 0.6
)

const (
	// symmetryTolerance is both the off-center margin and the mirror match
	// distance per axis.
	symmetryTolerance = 0.05
	// neutralScore is used when a metric has nothing to measure or is NaN.
	neutralScore = 0.5
	// idealVertexTriangleRatio corresponds to two triangles per vertex.
	idealVertexTriangleRatio = 0.5
)

// Metrics holds the quality scores of a mesh. Every score lies in [0,1].
type Metrics struct {
	VertexCount     int     `yaml:"vertex_count"`
	TriangleCount   int     `yaml:"triangle_count"`
	AspectRatio     float64 `yaml:"aspect_ratio"`
	SymmetryScore   float64 `yaml:"symmetry_score"`
	SmoothnessScore float64 `yaml:"smoothness_score"`
	TopologyScore   float64 `yaml:"topology_score"`
	OverallQuality  float64 `yaml:"overall_quality"`
}

// Report is the outcome of Validate.
type Report struct {
	IsValid  bool     `yaml:"is_valid"`
	Errors   []string `yaml:"errors,omitempty"`
	Warnings []string `yaml:"warnings,omitempty"`
	Metrics  Metrics  `yaml:"metrics"`
}

// Validate scores a mesh and reports structural faults. Only zero vertices,
// zero triangles or out-of-bounds indices make a mesh invalid; low scores
// produce warnings. Validate never panics: an internal failure yields an
// invalid report with zeroed metrics.
func Validate(m *facemesh.Mesh) (report Report) {
	defer func() {
		if r := recover(); r != nil {
			report = Report{
				IsValid: false,
				Errors:  []string{fmt.Sprintf("validation failed: %v", r)},
			}
		}
	}()

	if m == nil {
		return Report{IsValid: false, Errors: []string{"mesh is nil"}}
	}

	report.IsValid = true
	if len(m.Vertices) == 0 {
		report.IsValid = false
		report.Errors = append(report.Errors, "mesh has no vertices")
	}
	if len(m.Triangles) == 0 {
		report.IsValid = false
		report.Errors = append(report.Errors, "mesh has no triangles")
	}
	if err := m.CheckIndices(); err != nil {
		report.IsValid = false
		report.Errors = append(report.Errors, err.Error())
	}

	report.Metrics = Compute(m)

	if report.Metrics.AspectRatio < WarnAspectRatio {
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("low aspect ratio %.3f (< %.1f)", report.Metrics.AspectRatio, WarnAspectRatio))
	}
	if report.Metrics.SymmetryScore < WarnSymmetry {
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("low symmetry %.3f (< %.1f)", report.Metrics.SymmetryScore, WarnSymmetry))
	}
	if report.Metrics.SmoothnessScore < WarnSmoothness {
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("low smoothness %.3f (< %.1f)", report.Metrics.SmoothnessScore, WarnSmoothness))
	}
	return report
}

// Compute returns the quality metrics of a mesh. Triangles with
// out-of-bounds indices are ignored by every score.
func Compute(m *facemesh.Mesh) Metrics {
	valid := inBounds(m)

	metrics := Metrics{
		VertexCount:     len(m.Vertices),
		TriangleCount:   len(m.Triangles),
		AspectRatio:     guard(AspectScore(m.Vertices, valid)),
		SymmetryScore:   guard(SymmetryScore(m.Vertices, facemesh.ComputeBounds(m.Vertices))),
		SmoothnessScore: guard(SmoothnessScore(m, valid)),
		TopologyScore:   guard(TopologyScore(m.Vertices, valid)),
	}
	metrics.OverallQuality = clamp01(
		WeightAspect*metrics.AspectRatio +
			WeightSymmetry*metrics.SymmetryScore +
			WeightSmoothness*metrics.SmoothnessScore +
			WeightTopology*metrics.TopologyScore)
	return metrics
}

// AspectScore returns the mean normalized aspect ratio over triangles with
// a finite ratio, or 0.5 when there are none.
func AspectScore(vertices []math.Vec3, triangles []facemesh.Triangle) float64 {
	ratios := make([]float64, 0, len(triangles))
	for _, tri := range triangles {
		r := facemesh.AspectRatio(vertices[tri[0]], vertices[tri[1]], vertices[tri[2]])
		if gomath.IsNaN(r) || gomath.IsInf(r, 0) {
			continue
		}
		ratios = append(ratios, r)
	}
	if len(ratios) == 0 {
		return neutralScore
	}
	return stat.Mean(ratios, nil)
}

// SymmetryScore returns the fraction of off-center vertices that have a
// mirror counterpart across the vertical center line of bounds. A mesh with
// no off-center vertices is perfectly symmetric.
func SymmetryScore(vertices []math.Vec3, bounds facemesh.Bounds) float64 {
	cx := bounds.Center().X
	offCenter, mirrored := 0, 0
	for _, v := range vertices {
		if gomath.Abs(v.X-cx) <= symmetryTolerance {
			continue
		}
		offCenter++
		target := math.Vec3{X: 2*cx - v.X, Y: v.Y, Z: v.Z}
		for _, w := range vertices {
			if gomath.Abs(w.X-target.X) < symmetryTolerance &&
				gomath.Abs(w.Y-target.Y) < symmetryTolerance &&
				gomath.Abs(w.Z-target.Z) < symmetryTolerance {
				mirrored++
				break
			}
		}
	}
	if offCenter == 0 {
		return 1
	}
	return float64(mirrored) / float64(offCenter)
}

// SmoothnessScore averages, over vertices with neighbors, one minus the mean
// angle between the vertex normal and its neighbors' normals divided by π.
// Returns 0.5 when the mesh has no normals or no connected vertex.
func SmoothnessScore(m *facemesh.Mesh, triangles []facemesh.Triangle) float64 {
	if !m.HasNormals() {
		return neutralScore
	}
	adj := facemesh.Adjacency(len(m.Vertices), triangles)
	scores := make([]float64, 0, len(m.Vertices))
	for i, neighbors := range adj {
		if len(neighbors) == 0 {
			continue
		}
		angles := make([]float64, len(neighbors))
		for j, n := range neighbors {
			angles[j] = angleBetween(m.Normals[i], m.Normals[n])
		}
		scores = append(scores, 1-stat.Mean(angles, nil)/gomath.Pi)
	}
	if len(scores) == 0 {
		return neutralScore
	}
	return stat.Mean(scores, nil)
}

// TopologyScore penalizes degenerate triangles and vertex/triangle ratios
// away from one vertex per two triangles.
func TopologyScore(vertices []math.Vec3, triangles []facemesh.Triangle) float64 {
	if len(triangles) == 0 {
		return 0
	}
	degenerate := 0
	for _, tri := range triangles {
		if tri[0] == tri[1] || tri[1] == tri[2] || tri[0] == tri[2] ||
			facemesh.IsDegenerate(vertices[tri[0]], vertices[tri[1]], vertices[tri[2]]) {
			degenerate++
		}
	}
	score := 1 - 0.5*float64(degenerate)/float64(len(triangles))

	ratio := float64(len(vertices)) / float64(len(triangles))
	score *= gomath.Max(0, 1-gomath.Abs(ratio-idealVertexTriangleRatio)/idealVertexTriangleRatio)
	return clamp01(score)
}

// inBounds returns the triangles whose indices all reference vertices.
func inBounds(m *facemesh.Mesh) []facemesh.Triangle {
	n := len(m.Vertices)
	out := make([]facemesh.Triangle, 0, len(m.Triangles))
	for _, tri := range m.Triangles {
		if tri[0] >= 0 && tri[0] < n && tri[1] >= 0 && tri[1] < n && tri[2] >= 0 && tri[2] < n {
			out = append(out, tri)
		}
	}
	return out
}

func angleBetween(a, b math.Vec3) float64 {
	d := a.Normalize().Dot(b.Normalize())
	if d > 1 {
		d = 1
	}
	if d < -1 {
		d = -1
	}
	return gomath.Acos(d)
}

// guard substitutes the neutral score for NaN and clamps to [0,1].
func guard(v float64) float64 {
	if gomath.IsNaN(v) {
		return neutralScore
	}
	return clamp01(v)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
