package facemesh

import (
	"fmt"

	"github.com/Faultbox/facestyle/internal/faceerr"
	"github.com/Faultbox/facestyle/pkg/landmark"
	"github.com/Faultbox/facestyle/pkg/math"
)

// MinLandmarks is the smallest landmark set the builder accepts.
const MinLandmarks = 27

// keyPath is the ordered landmark chain the interpolated vertices follow.
var keyPath = []landmark.Type{
	landmark.EyeLeft,
	landmark.EyeRight,
	landmark.Nose,
	landmark.MouthRight,
	landmark.MouthLeft,
	landmark.ChinBottom,
}

// Build creates a face mesh from landmarks.
//
// Returns an InsufficientLandmarks error for fewer than MinLandmarks points
// or a missing required type, and LandmarkOutOfRange for a coordinate
// outside [0,1]. Internal faults surface as MeshGenerationFailed.
func Build(landmarks []landmark.Landmark, opts BuildOptions) (mesh *Mesh, err error) {
	const op = "facemesh.Build"

	if err := ValidateLandmarks(landmarks); err != nil {
		return nil, err
	}

	defer func() {
		if r := recover(); r != nil {
			mesh = nil
			err = faceerr.New(faceerr.KindMeshGenerationFailed, op, "%v", r)
		}
	}()

	vertices := SynthesizeVertices(landmarks, opts.Resolution)

	triangles, usedFan := Triangulate(vertices)
	if !usedFan {
		triangles = FilterFaceLocal(vertices, triangles)
	}

	mesh = &Mesh{
		Vertices:  vertices,
		Triangles: triangles,
		Bounds:    ComputeBounds(vertices),
	}
	if opts.GenerateUVs {
		mesh.UVs = ComputeUVs(vertices, mesh.Bounds)
	}
	if opts.GenerateNormals {
		mesh.Normals = ComputeNormals(vertices, triangles)
	}

	if opts.SmoothingIterations > 0 && len(triangles) > 0 {
		mesh = Smooth(mesh, opts.SmoothingIterations)
	}

	for i, v := range mesh.Vertices {
		if !v.IsFinite() {
			return nil, faceerr.New(faceerr.KindMeshGenerationFailed, op, "vertex %d is not finite", i)
		}
	}
	return mesh, nil
}

// ValidateLandmarks checks count, required types and coordinate range.
func ValidateLandmarks(landmarks []landmark.Landmark) error {
	const op = "facemesh.Build"

	if len(landmarks) < MinLandmarks {
		return faceerr.New(faceerr.KindInsufficientLandmarks, op,
			"got %d landmarks, need at least %d", len(landmarks), MinLandmarks)
	}
	if missing := landmark.Missing(landmarks); len(missing) > 0 {
		return faceerr.New(faceerr.KindInsufficientLandmarks, op, "missing required landmarks %v", missing)
	}
	for i, l := range landmarks {
		if !l.InRange() {
			return faceerr.New(faceerr.KindLandmarkOutOfRange, op,
				"landmark %d (%s) at (%g, %g) is outside [0,1]", i, l.Type, l.X, l.Y)
		}
	}
	return nil
}

// SynthesizeVertices returns one vertex per landmark, with depth from the
// anatomical table, followed by ResolutionVertexCount(res) vertices
// interpolated along the key landmark path.
func SynthesizeVertices(landmarks []landmark.Landmark, res Resolution) []math.Vec3 {
	extra := ResolutionVertexCount(res)
	vertices := make([]math.Vec3, 0, len(landmarks)+extra)
	for _, l := range landmarks {
		vertices = append(vertices, math.Vec3{X: l.X, Y: l.Y, Z: landmark.Depth(l.Type)})
	}

	var keys []math.Vec3
	for _, t := range keyPath {
		if l, ok := landmark.Find(landmarks, t); ok {
			keys = append(keys, math.Vec3{X: l.X, Y: l.Y, Z: landmark.Depth(t)})
		}
	}

	for i := range extra {
		t := float64(i) / float64(extra)
		vertices = append(vertices, interpolatePath(keys, t))
	}
	return vertices
}

// interpolatePath returns the point at parameter t ∈ [0,1) along the
// piecewise-linear path through keys.
func interpolatePath(keys []math.Vec3, t float64) math.Vec3 {
	switch len(keys) {
	case 0:
		panic(fmt.Sprintf("interpolatePath: no key landmarks at t=%g", t))
	case 1:
		return keys[0]
	}
	segments := float64(len(keys) - 1)
	pos := t * segments
	seg := int(pos)
	if seg >= len(keys)-1 {
		seg = len(keys) - 2
	}
	return keys[seg].Lerp(keys[seg+1], pos-float64(seg))
}
