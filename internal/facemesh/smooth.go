package facemesh

import "github.com/Faultbox/facestyle/pkg/math"

// Smooth applies Laplacian smoothing and returns a new mesh; the input is not
// modified. Each pass moves every vertex halfway toward the mean of its
// triangle neighbors. Vertices without neighbors stay put. Bounds are
// recomputed, and normals too when the input carries them.
func Smooth(m *Mesh, iterations int) *Mesh {
	out := m.Clone()
	if iterations <= 0 || len(out.Triangles) == 0 {
		return out
	}

	adj := Adjacency(len(out.Vertices), out.Triangles)
	current := out.Vertices
	next := make([]math.Vec3, len(current))

	for range iterations {
		for i, v := range current {
			neighbors := adj[i]
			if len(neighbors) == 0 {
				next[i] = v
				continue
			}
			var sum math.Vec3
			for _, n := range neighbors {
				sum = sum.Add(current[n])
			}
			avg := sum.Scale(1 / float64(len(neighbors)))
			next[i] = v.Lerp(avg, 0.5)
		}
		current, next = next, current
	}

	out.Vertices = current
	out.Bounds = ComputeBounds(out.Vertices)
	if m.HasNormals() {
		out.Normals = ComputeNormals(out.Vertices, out.Triangles)
	}
	return out
}
