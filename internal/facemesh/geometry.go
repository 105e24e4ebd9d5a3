package facemesh

import (
	gomath "math"
	"slices"

	"github.com/Faultbox/facestyle/pkg/math"
)

// Geometry thresholds shared by the builder and the optimizer.
const (
	// MinTriangleArea is the area below which a triangle is degenerate.
	MinTriangleArea = 1e-6
	// LocalityThreshold bounds the longest xy edge of a candidate triangle.
	LocalityThreshold = 0.25
	// FaceLocalDistance bounds every 3D edge of a kept triangle.
	FaceLocalDistance = 0.22
	// MinAspectRatio is the normalized aspect ratio below which the
	// optimizer drops a triangle.
	MinAspectRatio = 0.2
)

// TriangleArea returns the area of the triangle abc.
func TriangleArea(a, b, c math.Vec3) float64 {
	return b.Sub(a).Cross(c.Sub(a)).Length() / 2
}

// IsDegenerate reports whether abc is colinear, coincident or not finite.
func IsDegenerate(a, b, c math.Vec3) bool {
	area := TriangleArea(a, b, c)
	return gomath.IsNaN(area) || area < MinTriangleArea
}

// LongestEdge returns the length of the longest edge of abc.
func LongestEdge(a, b, c math.Vec3) float64 {
	return gomath.Max(a.Distance(b), gomath.Max(b.Distance(c), c.Distance(a)))
}

// AspectRatio returns the quality score shape of abc: 4√3·A / (3·L²)
// where A is the Heron area and L the longest edge. It is 1 for an
// equilateral triangle and tends to 0 as the triangle flattens. The result
// is NaN when every edge has zero length.
func AspectRatio(a, b, c math.Vec3) float64 {
	area, longest := heron(a, b, c)
	ratio := 4 * gomath.Sqrt(3) * area / (3 * longest * longest)
	if ratio > 1 {
		ratio = 1
	}
	return ratio
}

// NormalizedAspect returns 4√3·A / L², the optimizer's shape measure, with
// A the Heron area and L the longest edge. It is not clamped: an
// equilateral triangle scores 3. The result is NaN when every edge has zero
// length.
func NormalizedAspect(a, b, c math.Vec3) float64 {
	area, longest := heron(a, b, c)
	return 4 * gomath.Sqrt(3) * area / (longest * longest)
}

func heron(a, b, c math.Vec3) (area, longest float64) {
	la := b.Distance(c)
	lb := c.Distance(a)
	lc := a.Distance(b)
	s := (la + lb + lc) / 2
	// Clamp tiny negative products from rounding.
	area = gomath.Sqrt(gomath.Max(0, s*(s-la)*(s-lb)*(s-lc)))
	return area, gomath.Max(la, gomath.Max(lb, lc))
}

// FaceNormal returns the unit normal of abc, or UnitZ when degenerate.
func FaceNormal(a, b, c math.Vec3) math.Vec3 {
	return b.Sub(a).Cross(c.Sub(a)).NormalizeOr(math.UnitZ, 1e-12)
}

// ComputeNormals returns one unit normal per vertex: the renormalized sum of
// the face normals of every triangle touching it. Vertices touching no
// triangle, or whose face normals cancel, get UnitZ.
func ComputeNormals(vertices []math.Vec3, triangles []Triangle) []math.Vec3 {
	sums := make([]math.Vec3, len(vertices))
	for _, tri := range triangles {
		if !validTriangle(tri, len(vertices)) {
			continue
		}
		n := FaceNormal(vertices[tri[0]], vertices[tri[1]], vertices[tri[2]])
		for _, idx := range tri {
			sums[idx] = sums[idx].Add(n)
		}
	}

	normals := make([]math.Vec3, len(vertices))
	for i, s := range sums {
		normals[i] = s.NormalizeOr(math.UnitZ, 1e-9)
	}
	return normals
}

// ComputeBounds returns the componentwise min/max over vertices, or a zero
// box when there are none.
func ComputeBounds(vertices []math.Vec3) Bounds {
	if len(vertices) == 0 {
		return Bounds{}
	}
	b := Bounds{Min: vertices[0], Max: vertices[0]}
	for _, v := range vertices[1:] {
		b.Min = b.Min.Min(v)
		b.Max = b.Max.Max(v)
	}
	return b
}

// ComputeUVs projects each vertex's xy into [0,1]² using the xy extent of
// bounds. Axes with no extent map to 0.5.
func ComputeUVs(vertices []math.Vec3, bounds Bounds) []UV {
	size := bounds.Size()
	uvs := make([]UV, len(vertices))
	for i, v := range vertices {
		uvs[i] = UV{
			U: project(v.X, bounds.Min.X, size.X),
			V: project(v.Y, bounds.Min.Y, size.Y),
		}
	}
	return uvs
}

func project(value, min, extent float64) float64 {
	if extent <= 0 {
		return 0.5
	}
	p := (value - min) / extent
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// Adjacency returns, per vertex, the sorted de-duplicated indices of the
// vertices sharing a triangle with it.
func Adjacency(vertexCount int, triangles []Triangle) [][]int {
	sets := make([]map[int]struct{}, vertexCount)
	for _, tri := range triangles {
		if !validTriangle(tri, vertexCount) {
			continue
		}
		for i, a := range tri {
			for j, b := range tri {
				if i == j || a == b {
					continue
				}
				if sets[a] == nil {
					sets[a] = make(map[int]struct{})
				}
				sets[a][b] = struct{}{}
			}
		}
	}

	adj := make([][]int, vertexCount)
	for i, set := range sets {
		if len(set) == 0 {
			continue
		}
		list := make([]int, 0, len(set))
		for n := range set {
			list = append(list, n)
		}
		slices.Sort(list)
		adj[i] = list
	}
	return adj
}

func validTriangle(tri Triangle, vertexCount int) bool {
	for _, idx := range tri {
		if idx < 0 || idx >= vertexCount {
			return false
		}
	}
	return true
}
