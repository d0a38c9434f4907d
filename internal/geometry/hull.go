package geometry

import "sort"

// HullArea returns the area in cm² of the convex hull of the base vertices.
// This is the geometric stand-in for the valve's maximal orifice footprint
// used by the effective-orifice-area metric.
func (g *ValveGeometry) HullArea() float64 {
	return hullArea(g.Vertices)
}

// hullArea computes the convex hull by monotone chain and returns its area
// via the shoelace formula.
func hullArea(verts []Vertex) float64 {
	if len(verts) < 3 {
		return 0
	}

	pts := make([][2]float64, len(verts))
	for i, v := range verts {
		pts[i] = [2]float64{v.X, v.Y}
	}
	sort.Slice(pts, func(i, j int) bool {
		if pts[i][0] != pts[j][0] {
			return pts[i][0] < pts[j][0]
		}
		return pts[i][1] < pts[j][1]
	})

	cross := func(o, a, b [2]float64) float64 {
		return (a[0]-o[0])*(b[1]-o[1]) - (a[1]-o[1])*(b[0]-o[0])
	}

	var lower, upper [][2]float64
	for _, p := range pts {
		for len(lower) >= 2 && cross(lower[len(lower)-2], lower[len(lower)-1], p) <= 0 {
			lower = lower[:len(lower)-1]
		}
		lower = append(lower, p)
	}
	for i := len(pts) - 1; i >= 0; i-- {
		p := pts[i]
		for len(upper) >= 2 && cross(upper[len(upper)-2], upper[len(upper)-1], p) <= 0 {
			upper = upper[:len(upper)-1]
		}
		upper = append(upper, p)
	}

	hull := append(lower[:len(lower)-1], upper[:len(upper)-1]...)
	if len(hull) < 3 {
		return 0
	}

	area := 0.0
	for i := range hull {
		j := (i + 1) % len(hull)
		area += hull[i][0]*hull[j][1] - hull[j][0]*hull[i][1]
	}
	if area < 0 {
		area = -area
	}
	return area / 2
}
