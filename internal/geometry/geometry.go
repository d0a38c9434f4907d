// Package geometry builds the fixed-topology tricuspid valve structure:
// three leaflets of spring-linked points laid out at 120° offsets around a
// fixed annulus, with beam elements for bending resistance.
//
// Generation is a pure function of (resolution, severity): identical inputs
// always regenerate bit-identical geometry, so exported files are diffable
// and visualizations reproducible. Connectivity depends only on resolution;
// severity scales stiffness, rigidity, and leaflet length.
package geometry

import (
	"fmt"
	"math"

	"github.com/san-kum/valveflow/internal/hemo"
	"github.com/san-kum/valveflow/internal/severity"
)

const (
	// Leaflets is fixed by the tricuspid layout.
	Leaflets = 3

	// AnnulusRadius is the attachment ring radius in cm.
	AnnulusRadius = 1.0

	// LeafletLength is the healthy leaflet length from annulus to free edge
	// in cm, before severity scaling.
	LeafletLength = 1.2

	// BaseStiffness is the healthy longitudinal spring constant in dyne/cm.
	BaseStiffness = 500.0

	// BaseRigidity is the healthy beam bending rigidity in dyne·cm².
	BaseRigidity = 0.01

	// crossStride divides points-per-leaflet to give the cross-spring skip.
	crossStride = 8

	// curvatureScale controls how far a mobile leaflet bows sideways.
	curvatureScale = 0.3
)

// Vertex is a structural point, exclusively owned by the ValveGeometry that
// created it. Coordinates are in cm.
type Vertex struct {
	ID   int
	X, Y float64
}

// Radius is the distance from the valve center.
func (v Vertex) Radius() float64 { return math.Hypot(v.X, v.Y) }

// Spring is a distance-preserving link between two vertices.
type Spring struct {
	A, B       int
	Stiffness  float64 // dyne/cm
	RestLength float64 // cm, the generated inter-vertex distance
}

// Beam is a curvature-preserving element over three consecutive vertices.
type Beam struct {
	A, B, C  int
	Rigidity float64 // dyne·cm²
}

// ValveGeometry is the immutable base structure for one (resolution,
// severity) pair. Kinematics never mutates it; deformation produces a new
// vertex slice derived from Vertices.
type ValveGeometry struct {
	Resolution int // points per leaflet
	Severity   string
	Vertices   []Vertex
	Springs    []Spring
	Beams      []Beam
}

// Generate lays out the three-leaflet valve for a severity profile.
// resolution is points per leaflet; it must be a positive multiple of 8 so
// the cross-spring stride divides each leaflet evenly.
func Generate(resolution int, p severity.Profile) (*ValveGeometry, error) {
	if resolution <= 0 {
		return nil, &hemo.ConfigError{Field: "resolution", Reason: fmt.Sprintf("must be positive, got %d", resolution)}
	}
	if resolution%crossStride != 0 {
		return nil, &hemo.ConfigError{Field: "resolution", Reason: fmt.Sprintf("must be a multiple of %d for leaflet symmetry, got %d", crossStride, resolution)}
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	n := resolution
	length := LeafletLength * p.LeafletLengthFrac

	g := &ValveGeometry{
		Resolution: n,
		Severity:   p.Name,
		Vertices:   make([]Vertex, 0, Leaflets*n),
	}

	// Leaflet curves: from the annulus (t=0) to the free edge (t=1), bowing
	// sideways by a mobility-scaled curvature term.
	for leaf := 0; leaf < Leaflets; leaf++ {
		thetaCenter := float64(leaf) * 2 * math.Pi / Leaflets
		for i := 0; i < n; i++ {
			t := float64(i) / float64(n-1)
			r := AnnulusRadius + length*t
			curvature := curvatureScale * (1 - t*t) * p.MobilityFrac
			theta := thetaCenter + curvature*math.Sin(math.Pi*t)
			g.Vertices = append(g.Vertices, Vertex{
				ID: leaf*n + i,
				X:  r * math.Cos(theta),
				Y:  r * math.Sin(theta),
			})
		}
	}

	stiffness := BaseStiffness * p.StiffnessMult
	rigidity := BaseRigidity * p.RigidityMult

	// Longitudinal springs along each leaflet.
	for leaf := 0; leaf < Leaflets; leaf++ {
		base := leaf * n
		for i := 0; i < n-1; i++ {
			g.Springs = append(g.Springs, g.spring(base+i, base+i+1, stiffness))
		}
	}

	// Beams over each run of three consecutive points resist bending.
	for leaf := 0; leaf < Leaflets; leaf++ {
		base := leaf * n
		for i := 0; i < n-2; i++ {
			g.Beams = append(g.Beams, Beam{A: base + i, B: base + i + 1, C: base + i + 2, Rigidity: rigidity})
		}
	}

	// Cross springs every few points stabilize each leaflet near the annulus
	// at half stiffness.
	skip := n / crossStride
	if skip < 1 {
		skip = 1
	}
	for leaf := 0; leaf < Leaflets; leaf++ {
		base := leaf * n
		for i := 0; i < n-skip-1; i += skip {
			g.Springs = append(g.Springs, g.spring(base+i, base+i+skip, stiffness*0.5))
		}
	}

	return g, nil
}

func (g *ValveGeometry) spring(a, b int, stiffness float64) Spring {
	va, vb := g.Vertices[a], g.Vertices[b]
	return Spring{
		A: a, B: b,
		Stiffness:  stiffness,
		RestLength: math.Hypot(vb.X-va.X, vb.Y-va.Y),
	}
}

// MaxRadius is the largest vertex distance from the valve center.
func (g *ValveGeometry) MaxRadius() float64 {
	max := 0.0
	for _, v := range g.Vertices {
		if r := v.Radius(); r > max {
			max = r
		}
	}
	return max
}
