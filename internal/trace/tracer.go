// Package trace integrates the velocity field into streamline polylines for
// visualization. Integration is classical fixed-step RK4 over the bilinear
// velocity interpolant; leaving the grid domain is the normal termination
// condition for a line, and the step budget hard-bounds every trace.
package trace

import (
	"fmt"
	"math"

	"github.com/san-kum/valveflow/internal/flow"
	"github.com/san-kum/valveflow/internal/hemo"
)

const (
	// DefaultStep is the pseudo-time step per RK4 stage set, in seconds:
	// roughly 0.4 cm of travel at peak healthy jet speed.
	DefaultStep = 0.004

	// DefaultBudget bounds the samples per streamline.
	DefaultBudget = 400
)

// Point is one streamline sample: position plus the interpolated local
// speed, which downstream rendering maps to line width or color.
type Point struct {
	X, Y  float64
	Speed float64
}

// Polyline is one traced streamline. Length is at most budget+1 samples.
type Polyline struct {
	Points []Point
}

// Seed is a streamline starting position.
type Seed struct {
	X, Y float64
}

// DefaultSeeds spreads seeds along an upstream vertical line at x = −3 cm,
// covering the approach flow.
func DefaultSeeds(count int) []Seed {
	if count < 1 {
		count = 1
	}
	seeds := make([]Seed, count)
	for i := range seeds {
		frac := 0.5
		if count > 1 {
			frac = float64(i) / float64(count-1)
		}
		seeds[i] = Seed{X: -3.0, Y: -2.0 + 4.0*frac}
	}
	return seeds
}

// Trace integrates one streamline per seed for up to budget steps each.
// An empty seed set is a configuration error; a seed starting outside the
// domain yields an empty polyline, not an error.
func Trace(f *flow.Field, seeds []Seed, budget int, step float64) ([]Polyline, error) {
	if len(seeds) == 0 {
		return nil, fmt.Errorf("%w: at least one seed point required", hemo.ErrNoSeeds)
	}
	if budget <= 0 {
		return nil, &hemo.ConfigError{Field: "step_budget", Reason: fmt.Sprintf("must be positive, got %d", budget)}
	}
	if step <= 0 {
		step = DefaultStep
	}

	lines := make([]Polyline, len(seeds))
	for i, s := range seeds {
		lines[i] = traceOne(f, s, budget, step)
	}
	return lines, nil
}

func traceOne(f *flow.Field, s Seed, budget int, h float64) Polyline {
	var line Polyline
	x, y := s.X, s.Y

	u, v, ok := f.Sample(x, y)
	if !ok {
		return line
	}
	line.Points = append(line.Points, Point{X: x, Y: y, Speed: math.Hypot(u, v)})

	for step := 0; step < budget; step++ {
		nx, ny, ok := rk4Step(f, x, y, h)
		if !ok {
			break // left the grid: normal termination
		}
		u, v, ok = f.Sample(nx, ny)
		if !ok {
			break
		}
		x, y = nx, ny
		line.Points = append(line.Points, Point{X: x, Y: y, Speed: math.Hypot(u, v)})
	}
	return line
}

// rk4Step advances (x, y) by one 4th-order Runge–Kutta step through the
// interpolated velocity field. ok is false when any stage samples outside
// the domain.
func rk4Step(f *flow.Field, x, y, h float64) (float64, float64, bool) {
	k1x, k1y, ok := f.Sample(x, y)
	if !ok {
		return 0, 0, false
	}
	k2x, k2y, ok := f.Sample(x+0.5*h*k1x, y+0.5*h*k1y)
	if !ok {
		return 0, 0, false
	}
	k3x, k3y, ok := f.Sample(x+0.5*h*k2x, y+0.5*h*k2y)
	if !ok {
		return 0, 0, false
	}
	k4x, k4y, ok := f.Sample(x+h*k3x, y+h*k3y)
	if !ok {
		return 0, 0, false
	}
	h6 := h / 6.0
	return x + h6*(k1x+2*k2x+2*k3x+k4x), y + h6*(k1y+2*k2y+2*k3y+k4y), true
}
