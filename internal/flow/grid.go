// Package flow computes the analytic blood-flow field around the valve: a
// region-wise velocity field plus a Bernoulli pressure map, evaluated on a
// fixed spatial grid per frame.
//
// This is deliberately not a PDE solve. The field encodes the qualitative
// hemodynamics (upstream acceleration, a mass-conserving jet through the
// orifice, downstream decay with severity-dependent dissipation) as cheap
// closed-form expressions, so every frame is deterministic and O(grid).
package flow

import (
	"fmt"

	"github.com/san-kum/valveflow/internal/hemo"
)

// Default grid: 80×80 samples over [-4, 4]² cm, the x axis streamwise with
// the valve plane at x=0.
const (
	DefaultGridSize   = 80
	DefaultGridExtent = 4.0
)

// Grid holds the fixed sample coordinates shared read-only by all frames.
type Grid struct {
	NX, NY   int
	Min, Max float64   // square extent in cm
	X, Y     []float64 // sample coordinates, length NX and NY
}

// NewGrid builds an n×n grid spanning [min, max] on both axes.
func NewGrid(n int, min, max float64) (*Grid, error) {
	if n < 2 {
		return nil, &hemo.ConfigError{Field: "grid_size", Reason: fmt.Sprintf("must be at least 2, got %d", n)}
	}
	if min >= max {
		return nil, &hemo.ConfigError{Field: "grid_extent", Reason: fmt.Sprintf("min %g must be below max %g", min, max)}
	}
	g := &Grid{NX: n, NY: n, Min: min, Max: max, X: make([]float64, n), Y: make([]float64, n)}
	step := (max - min) / float64(n-1)
	for i := 0; i < n; i++ {
		g.X[i] = min + float64(i)*step
		g.Y[i] = min + float64(i)*step
	}
	return g, nil
}

// DefaultGrid returns the process-wide standard grid.
func DefaultGrid() *Grid {
	g, _ := NewGrid(DefaultGridSize, -DefaultGridExtent, DefaultGridExtent)
	return g
}

// Index maps (ix, iy) to the flat row-major offset used by field arrays.
func (g *Grid) Index(ix, iy int) int { return iy*g.NX + ix }

// Contains reports whether a point lies inside the grid domain.
func (g *Grid) Contains(x, y float64) bool {
	return x >= g.Min && x <= g.Max && y >= g.Min && y <= g.Max
}

// Cell locates the lower-left sample of the cell containing (x, y) and the
// fractional position within it, for bilinear interpolation. ok is false
// outside the domain.
func (g *Grid) Cell(x, y float64) (ix, iy int, fx, fy float64, ok bool) {
	if !g.Contains(x, y) {
		return 0, 0, 0, 0, false
	}
	sx := (x - g.Min) / (g.Max - g.Min) * float64(g.NX-1)
	sy := (y - g.Min) / (g.Max - g.Min) * float64(g.NY-1)
	ix, iy = int(sx), int(sy)
	if ix >= g.NX-1 {
		ix = g.NX - 2
	}
	if iy >= g.NY-1 {
		iy = g.NY - 2
	}
	return ix, iy, sx - float64(ix), sy - float64(iy), true
}
