package facemesh

import (
	"github.com/Faultbox/facestyle/pkg/math"
)

// Triangulate connects vertices into triangles.
//
// Every triple i<j<k is a candidate; it is accepted when it is not degenerate
// and its longest xy edge is under LocalityThreshold. Accepted triangles are
// wound counter-clockwise in xy so their normals face +z. At most
// 3×len(vertices) triangles are produced. When no triple qualifies the
// vertices are fanned from vertex 0 instead.
//
// The returned flag reports whether the fan fallback was used.
func Triangulate(vertices []math.Vec3) ([]Triangle, bool) {
	n := len(vertices)
	if n < 3 {
		return nil, false
	}

	limit := 3 * n
	triangles := make([]Triangle, 0, limit)

outer:
	for i := 0; i < n-2; i++ {
		for j := i + 1; j < n-1; j++ {
			if vertices[i].XY().Distance(vertices[j].XY()) >= LocalityThreshold {
				continue
			}
			for k := j + 1; k < n; k++ {
				a, b, c := vertices[i], vertices[j], vertices[k]
				if IsDegenerate(a, b, c) {
					continue
				}
				if longestXY(a, b, c) >= LocalityThreshold {
					continue
				}
				triangles = append(triangles, orient(vertices, Triangle{i, j, k}))
				if len(triangles) >= limit {
					break outer
				}
			}
		}
	}

	if len(triangles) > 0 {
		return triangles, false
	}
	return fan(vertices), true
}

// FilterFaceLocal drops triangles with any 3D edge of FaceLocalDistance or
// more. Such triangles bridge unrelated facial regions.
func FilterFaceLocal(vertices []math.Vec3, triangles []Triangle) []Triangle {
	kept := triangles[:0:0]
	for _, tri := range triangles {
		a, b, c := vertices[tri[0]], vertices[tri[1]], vertices[tri[2]]
		if a.Distance(b) < FaceLocalDistance &&
			b.Distance(c) < FaceLocalDistance &&
			c.Distance(a) < FaceLocalDistance {
			kept = append(kept, tri)
		}
	}
	return kept
}

// fan triangulates around vertex 0, skipping degenerate wedges.
func fan(vertices []math.Vec3) []Triangle {
	var triangles []Triangle
	for i := 1; i+1 < len(vertices); i++ {
		if IsDegenerate(vertices[0], vertices[i], vertices[i+1]) {
			continue
		}
		triangles = append(triangles, orient(vertices, Triangle{0, i, i + 1}))
	}
	return triangles
}

// orient swaps the last two indices when the triangle is clockwise in xy.
func orient(vertices []math.Vec3, tri Triangle) Triangle {
	a := vertices[tri[0]].XY()
	b := vertices[tri[1]].XY()
	c := vertices[tri[2]].XY()
	if b.Sub(a).Cross(c.Sub(a)) < 0 {
		tri[1], tri[2] = tri[2], tri[1]
	}
	return tri
}

func longestXY(a, b, c math.Vec3) float64 {
	ab := a.XY().Distance(b.XY())
	bc := b.XY().Distance(c.XY())
	ca := c.XY().Distance(a.XY())
	longest := ab
	if bc > longest {
		longest = bc
	}
	if ca > longest {
		longest = ca
	}
	return longest
}
