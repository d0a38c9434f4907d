package geometry

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// IBAMR fiber-file writers. The external FSI solver consumes three parallel
// records per geometry: a .vertex file (count, then x<TAB>y per line), a
// .spring file (count, then endpoint indices, stiffness, damping), and a
// .beam file (count, then three indices and rigidity). Field order, padding,
// and the %e float format are part of the solver contract and must not
// change. Rest lengths stay internal; the damping column is always zero.

// WriteVertices writes the vertex record.
func WriteVertices(w io.Writer, g *ValveGeometry) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d\n", len(g.Vertices))
	for _, v := range g.Vertices {
		fmt.Fprintf(bw, "%e\t%e\n", v.X, v.Y)
	}
	return bw.Flush()
}

// WriteSprings writes the spring record.
func WriteSprings(w io.Writer, g *ValveGeometry) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d\n", len(g.Springs))
	for _, s := range g.Springs {
		fmt.Fprintf(bw, "%6d %6d %e %e\n", s.A, s.B, s.Stiffness, 0.0)
	}
	return bw.Flush()
}

// WriteBeams writes the beam record.
func WriteBeams(w io.Writer, g *ValveGeometry) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d\n", len(g.Beams))
	for _, b := range g.Beams {
		fmt.Fprintf(bw, "%6d %6d %6d %e\n", b.A, b.B, b.C, b.Rigidity)
	}
	return bw.Flush()
}

// FilePrefix is the conventional output naming: <prefix>_<severity>_<resolution>.
func FilePrefix(prefix string, g *ValveGeometry) string {
	return fmt.Sprintf("%s_%s_%d", prefix, g.Severity, g.Resolution)
}

// ExportFiles writes the three records under the FilePrefix naming:
// <prefix>_<severity>_<resolution>.{vertex,spring,beam}. The writes are
// all-or-nothing only per file; callers treat any error as a failed export.
func ExportFiles(prefix string, g *ValveGeometry) error {
	base := FilePrefix(prefix, g)
	write := func(ext string, fn func(io.Writer, *ValveGeometry) error) error {
		f, err := os.Create(base + ext)
		if err != nil {
			return err
		}
		defer f.Close()
		return fn(f, g)
	}
	if err := write(".vertex", WriteVertices); err != nil {
		return err
	}
	if err := write(".spring", WriteSprings); err != nil {
		return err
	}
	return write(".beam", WriteBeams)
}
