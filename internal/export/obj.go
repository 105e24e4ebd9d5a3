package export

import (
	"bufio"
	"fmt"
	"io"

	"github.com/Faultbox/facestyle/internal/facemesh"
)

// WriteOBJ writes m as a Wavefront OBJ. UV and normal indices are emitted
// only when the mesh carries those layers.
func WriteOBJ(w io.Writer, m *facemesh.Mesh) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "# facestyle mesh: %d vertices, %d triangles\n", len(m.Vertices), len(m.Triangles))
	for _, v := range m.Vertices {
		fmt.Fprintf(bw, "v %g %g %g\n", v.X, v.Y, v.Z)
	}
	hasUV, hasNormal := m.HasUVs(), m.HasNormals()
	if hasUV {
		for _, uv := range m.UVs {
			// OBJ texture space has V pointing up.
			fmt.Fprintf(bw, "vt %g %g\n", uv.U, 1-uv.V)
		}
	}
	if hasNormal {
		for _, n := range m.Normals {
			fmt.Fprintf(bw, "vn %g %g %g\n", n.X, n.Y, n.Z)
		}
	}

	for _, tri := range m.Triangles {
		bw.WriteString("f")
		for _, idx := range tri {
			i := idx + 1
			switch {
			case hasUV && hasNormal:
				fmt.Fprintf(bw, " %d/%d/%d", i, i, i)
			case hasUV:
				fmt.Fprintf(bw, " %d/%d", i, i)
			case hasNormal:
				fmt.Fprintf(bw, " %d//%d", i, i)
			default:
				fmt.Fprintf(bw, " %d", i)
			}
		}
		bw.WriteString("\n")
	}
	return bw.Flush()
}
