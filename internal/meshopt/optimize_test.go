package meshopt

import (
	"errors"
	gomath "math"
	"testing"

	"github.com/Faultbox/facestyle/internal/faceerr"
	"github.com/Faultbox/facestyle/internal/facemesh"
	"github.com/Faultbox/facestyle/pkg/landmark"
	"github.com/Faultbox/facestyle/pkg/math"
)

func sampleMesh(t *testing.T) *facemesh.Mesh {
	t.Helper()
	m, err := facemesh.Build(landmark.Sample(), facemesh.DefaultBuildOptions())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return m
}

func TestMergeVertices(t *testing.T) {
	m := &facemesh.Mesh{
		Vertices: []math.Vec3{
			{X: 0, Y: 0, Z: 0},
			{X: 1, Y: 0, Z: 0},
			{X: 0, Y: 1, Z: 0},
			{X: 1.0000001, Y: 0, Z: 0}, // rounds onto vertex 1
			{X: 1, Y: 1, Z: 0},
		},
		Triangles: []facemesh.Triangle{{0, 1, 2}, {3, 4, 2}},
		UVs:       []facemesh.UV{{U: 0}, {U: 0.1}, {U: 0.2}, {U: 0.3}, {U: 0.4}},
	}

	out := MergeVertices(m)

	if len(out.Vertices) != 4 {
		t.Fatalf("vertices = %d, want 4", len(out.Vertices))
	}
	if out.Triangles[1] != (facemesh.Triangle{1, 3, 2}) {
		t.Errorf("remapped triangle = %v, want [1 3 2]", out.Triangles[1])
	}
	if out.UVs[1].U != 0.1 {
		t.Errorf("merged vertex UV = %v, want first occurrence 0.1", out.UVs[1].U)
	}
	if len(m.Vertices) != 5 {
		t.Error("input mesh was modified")
	}
}

func TestDropDegenerate(t *testing.T) {
	m := &facemesh.Mesh{
		Vertices: []math.Vec3{
			{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: 2, Y: 0},
		},
		Triangles: []facemesh.Triangle{
			{0, 1, 2}, // fine
			{0, 0, 1}, // repeated index
			{0, 1, 3}, // collinear
		},
	}

	out := DropDegenerate(m)

	if len(out.Triangles) != 1 || out.Triangles[0] != (facemesh.Triangle{0, 1, 2}) {
		t.Errorf("triangles = %v, want [[0 1 2]]", out.Triangles)
	}
}

func TestDropPoorAspect(t *testing.T) {
	m := &facemesh.Mesh{
		Vertices: []math.Vec3{
			{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0.5, Y: gomath.Sqrt(3) / 2},
			{X: 10, Y: 0}, {X: 5, Y: 0.1},
			{X: 0.5, Y: 0.15},
		},
		// The flat-but-acceptable triangle scores 0.52; the sliver 0.035.
		Triangles: []facemesh.Triangle{{0, 1, 2}, {0, 3, 4}, {0, 1, 5}},
	}

	out := DropPoorAspect(m)

	want := []facemesh.Triangle{{0, 1, 2}, {0, 1, 5}}
	if len(out.Triangles) != len(want) {
		t.Fatalf("triangles = %v, want %v", out.Triangles, want)
	}
	for i := range want {
		if out.Triangles[i] != want[i] {
			t.Errorf("triangles = %v, want %v", out.Triangles, want)
		}
	}
}

func TestOptimizeLevels(t *testing.T) {
	m := sampleMesh(t)

	tests := []struct {
		level Level
	}{
		{LevelFast},
		{LevelBalanced},
		{LevelHigh},
	}

	prev := len(m.Triangles) + 1
	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			res := Optimize(m, tt.level)
			if res.Level != tt.level {
				t.Errorf("Level = %v", res.Level)
			}
			if res.VertexCount != len(res.Mesh.Vertices) || res.TriangleCount != len(res.Mesh.Triangles) {
				t.Errorf("counts %d/%d do not match mesh %d/%d",
					res.VertexCount, res.TriangleCount, len(res.Mesh.Vertices), len(res.Mesh.Triangles))
			}
			if res.TriangleCount > prev {
				t.Errorf("level %v kept %d triangles, more than a lower level (%d)", tt.level, res.TriangleCount, prev)
			}
			prev = res.TriangleCount
			if res.QualityScore < 0 || res.QualityScore > 1 {
				t.Errorf("QualityScore = %v", res.QualityScore)
			}
			if err := res.Mesh.CheckIndices(); err != nil {
				t.Error(err)
			}
		})
	}
}

func TestOptimizeHighRemovesPoorTriangles(t *testing.T) {
	res := Optimize(sampleMesh(t), LevelHigh)
	v := res.Mesh.Vertices
	for _, tri := range res.Mesh.Triangles {
		a, b, c := v[tri[0]], v[tri[1]], v[tri[2]]
		if facemesh.IsDegenerate(a, b, c) {
			t.Errorf("degenerate triangle %v survived", tri)
		}
		if r := facemesh.NormalizedAspect(a, b, c); r < facemesh.MinAspectRatio {
			t.Errorf("triangle %v aspect %v survived", tri, r)
		}
	}
}

func TestOptimizeIdempotent(t *testing.T) {
	for _, level := range []Level{LevelFast, LevelBalanced, LevelHigh} {
		once := Optimize(sampleMesh(t), level)
		twice := Optimize(once.Mesh, level)
		if once.VertexCount != twice.VertexCount || once.TriangleCount != twice.TriangleCount {
			t.Errorf("%v: second pass changed counts %d/%d -> %d/%d", level,
				once.VertexCount, once.TriangleCount, twice.VertexCount, twice.TriangleCount)
		}
	}
}

func TestOptimizeEmptyMesh(t *testing.T) {
	res := Optimize(&facemesh.Mesh{}, LevelHigh)
	if res.VertexCount != 0 || res.TriangleCount != 0 {
		t.Errorf("counts = %d/%d, want 0/0", res.VertexCount, res.TriangleCount)
	}
}

func TestOptimizeChecked(t *testing.T) {
	tests := []struct {
		name string
		mesh *facemesh.Mesh
	}{
		{"nil", nil},
		{"bad index", &facemesh.Mesh{
			Vertices:  []math.Vec3{{}, {X: 1}},
			Triangles: []facemesh.Triangle{{0, 1, 7}},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := OptimizeChecked(tt.mesh, LevelHigh)
			if !errors.Is(err, faceerr.ErrMeshOptimizationFailed) {
				t.Errorf("err = %v, want MeshOptimizationFailed", err)
			}
		})
	}

	if _, err := OptimizeChecked(sampleMesh(t), LevelBalanced); err != nil {
		t.Errorf("valid mesh: %v", err)
	}
}

func TestLevelForQuality(t *testing.T) {
	tests := map[string]Level{
		"fast":     LevelFast,
		"balanced": LevelBalanced,
		"high":     LevelHigh,
	}
	for in, want := range tests {
		if got := LevelForQuality(in); got != want {
			t.Errorf("LevelForQuality(%q) = %v, want %v", in, got, want)
		}
	}
}
