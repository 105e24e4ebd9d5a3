package theme

import (
	gomath "math"

	"github.com/Faultbox/facestyle/internal/facemesh"
	"github.com/Faultbox/facestyle/pkg/math"
)

// Phi is the golden ratio.
const Phi = 1.618033988749895

// Displacement per unit of structural adjustment, in landmark units.
const (
	jawShift   = 0.05
	cheekShift = 0.04
	eyeStretch = 0.3
	noseShift  = 0.04
	lipShift   = 0.03
)

// region is a predicate on a vertex position normalized to the mesh bounds:
// nx, ny in [0,1] with y growing toward the chin, cx = nx-0.5.
type region func(nx, ny, cx float64) bool

var (
	jawRegion = func(_, ny, cx float64) bool {
		return ny > 0.7 && gomath.Abs(cx) > 0.15
	}
	cheekRegion = func(_, ny, cx float64) bool {
		return ny > 0.45 && ny < 0.65 && gomath.Abs(cx) > 0.2
	}
	eyeRegion = func(_, ny, cx float64) bool {
		ax := gomath.Abs(cx)
		return ny > 0.22 && ny < 0.36 && ax > 0.08 && ax < 0.3
	}
	noseRegion = func(_, ny, cx float64) bool {
		return ny > 0.45 && ny < 0.7 && gomath.Abs(cx) < 0.1
	}
	lipRegion = func(_, ny, cx float64) bool {
		return ny > 0.65 && ny < 0.82 && gomath.Abs(cx) < 0.15
	}
)

// frame maps vertices into bounds-normalized coordinates.
type frame struct {
	min, ext math.Vec3
}

func newFrame(vertices []math.Vec3) frame {
	b := facemesh.ComputeBounds(vertices)
	return frame{min: b.Min, ext: b.Size()}
}

func (f frame) normalize(v math.Vec3) (nx, ny, cx float64) {
	nx = normalizeAxis(v.X, f.min.X, f.ext.X)
	ny = normalizeAxis(v.Y, f.min.Y, f.ext.Y)
	return nx, ny, nx - 0.5
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}

// deformRegions returns a copy of m with region-gated displacement
// proportional to (adjustment - 1). Region membership is decided on the
// undeformed positions.
func deformRegions(m *facemesh.Mesh, s Structure) *facemesh.Mesh {
	out := m.Clone()
	if len(out.Vertices) == 0 {
		return out
	}
	f := newFrame(m.Vertices)
	eyeLine := f.min.Y + 0.29*f.ext.Y

	for i, v := range m.Vertices {
		if !v.IsFinite() {
			continue
		}
		nx, ny, cx := f.normalize(v)
		d := math.Vec3{}

		if jawRegion(nx, ny, cx) {
			d.X += sign(cx) * (s.JawStrength - 1) * jawShift
		}
		if cheekRegion(nx, ny, cx) {
			d.X += sign(cx) * (s.CheekboneProminence - 1) * cheekShift * 0.5
			d.Z += (s.CheekboneProminence - 1) * cheekShift
		}
		if eyeRegion(nx, ny, cx) {
			d.Y += (v.Y - eyeLine) * (s.EyeSize - 1) * eyeStretch
		}
		if noseRegion(nx, ny, cx) {
			d.Z += (s.NoseShape - 1) * noseShift
		}
		if lipRegion(nx, ny, cx) {
			d.Z += (s.LipFullness - 1) * lipShift
		}
		out.Vertices[i] = v.Add(d)
	}
	return out
}

// goldenRatioPass nudges the eye line, eye spacing, nose tip and lip line of
// m toward ideal positions derived from the golden ratio and the face
// height. m is modified in place; callers pass an owned copy.
func goldenRatioPass(m *facemesh.Mesh, strength float64) {
	if len(m.Vertices) == 0 || strength <= 0 {
		return
	}
	f := newFrame(m.Vertices)
	h := f.ext.Y
	if h <= 0 {
		return
	}
	k := strength * 0.05
	top := f.min.Y
	centerX := f.min.X + 0.5*f.ext.X

	idealEye := top + h*(1-1/Phi)
	idealNose := top + h/Phi
	idealLip := top + h*(1/Phi+1/gomath.Pow(Phi, 4))
	idealHalfSpacing := h / (2 * Phi * Phi)

	eyes := f.members(m.Vertices, eyeRegion)
	nose := f.members(m.Vertices, noseRegion)
	lips := f.members(m.Vertices, lipRegion)

	if len(eyes) > 0 {
		var lineSum, spacingSum float64
		for _, i := range eyes {
			lineSum += m.Vertices[i].Y
			spacingSum += gomath.Abs(m.Vertices[i].X - centerX)
		}
		dy := (idealEye - lineSum/float64(len(eyes))) * k
		dx := (idealHalfSpacing - spacingSum/float64(len(eyes))) * k
		for _, i := range eyes {
			v := m.Vertices[i]
			v.Y += dy
			v.X += sign(v.X-centerX) * dx
			m.Vertices[i] = v
		}
	}
	nudgeY(m.Vertices, nose, idealNose, k)
	nudgeY(m.Vertices, lips, idealLip, k)
}

// members returns the indices of finite vertices inside r.
func (f frame) members(vertices []math.Vec3, r region) []int {
	var idx []int
	for i, v := range vertices {
		if !v.IsFinite() {
			continue
		}
		if r(f.normalize(v)) {
			idx = append(idx, i)
		}
	}
	return idx
}

// nudgeY moves the group's mean Y a fraction k of the way to ideal.
func nudgeY(vertices []math.Vec3, idx []int, ideal, k float64) {
	if len(idx) == 0 {
		return
	}
	var sum float64
	for _, i := range idx {
		sum += vertices[i].Y
	}
	dy := (ideal - sum/float64(len(idx))) * k
	for _, i := range idx {
		vertices[i].Y += dy
	}
}

// finishDeform recomputes the derived layers after displacement.
func finishDeform(src, out *facemesh.Mesh) *facemesh.Mesh {
	out.Bounds = facemesh.ComputeBounds(out.Vertices)
	if src.HasNormals() {
		out.Normals = facemesh.ComputeNormals(out.Vertices, out.Triangles)
	}
	return out
}
