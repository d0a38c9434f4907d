package viz

import (
	"strings"

	"github.com/san-kum/valveflow/internal/flow"
	"github.com/san-kum/valveflow/internal/geometry"
	"github.com/san-kum/valveflow/internal/trace"
)

// Braille patterns pack 2x4 dots per character cell, Unicode offset 0x2800.
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// Canvas is a braille dot raster. Sub-pixel resolution is (Width*2) x
// (Height*4); world coordinates map the flow grid extent onto the full
// raster.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		for j := range c.Grid[i] {
			c.Grid[i][j] = 0x2800
		}
	}
	return c
}

// Set lights the sub-pixel at (x, y). Out-of-range coordinates are ignored.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = 0x2800
		}
	}
}

// DrawLine rasterizes a segment in sub-pixel coordinates (Bresenham).
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// project maps a world point inside the flow domain to sub-pixel raster
// coordinates, with y flipped so world up is screen up.
func (c *Canvas) project(x, y float64) (int, int) {
	e := flow.DefaultGridExtent
	px := int((x + e) / (2 * e) * float64(c.Width*2))
	py := int((e - y) / (2 * e) * float64(c.Height*4))
	return px, py
}

// DrawLeaflets rasterizes the deformed leaflet chains, one polyline per
// leaflet.
func (c *Canvas) DrawLeaflets(g *geometry.ValveGeometry, verts []geometry.Vertex) {
	for leaf := 0; leaf < geometry.Leaflets; leaf++ {
		start := leaf * g.Resolution
		for i := 1; i < g.Resolution; i++ {
			x0, y0 := c.project(verts[start+i-1].X, verts[start+i-1].Y)
			x1, y1 := c.project(verts[start+i].X, verts[start+i].Y)
			c.DrawLine(x0, y0, x1, y1)
		}
	}
}

// DrawStreamlines rasterizes traced streamline polylines.
func (c *Canvas) DrawStreamlines(lines []trace.Polyline) {
	for _, line := range lines {
		for i := 1; i < len(line.Points); i++ {
			x0, y0 := c.project(line.Points[i-1].X, line.Points[i-1].Y)
			x1, y1 := c.project(line.Points[i].X, line.Points[i].Y)
			c.DrawLine(x0, y0, x1, y1)
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
