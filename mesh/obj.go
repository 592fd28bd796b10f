package mesh

import (
	"bufio"
	"fmt"
	"io"
)

// WriteOBJ writes m as a Wavefront OBJ object. Faces are written exactly as
// stored, so a mesh that fails Validate produces faces referencing missing
// vertices.
func WriteOBJ(w io.Writer, name string, m *Mesh) error {
	bw := bufio.NewWriter(w)
	if name != "" {
		fmt.Fprintf(bw, "o %s\n", name)
	}
	for _, v := range m.Vertices {
		fmt.Fprintf(bw, "v %g %g %g\n", v.X, v.Y, v.Z)
	}
	for _, t := range m.Triangles {
		fmt.Fprintf(bw, "f %d %d %d\n", int(t[0])+1, int(t[1])+1, int(t[2])+1)
	}
	return bw.Flush()
}
