// Package export renders frames to standalone SVG documents: the deformed
// leaflet outlines over the traced streamlines, with streamline color
// mapped from local speed.
package export

import (
	"fmt"
	"os"
	"strings"

	"github.com/san-kum/valveflow/internal/flow"
	"github.com/san-kum/valveflow/internal/geometry"
	"github.com/san-kum/valveflow/internal/trace"
)

// colorSpeedScale is the speed in cm/s mapped to the hot end of the
// streamline color ramp.
const colorSpeedScale = 150.0

// FrameToSVG renders one severity's frame. verts are the deformed leaflet
// vertices in generation order; g supplies the per-leaflet vertex count.
// The world window is the flow grid extent, so streamlines and leaflets
// share one coordinate frame.
func FrameToSVG(g *geometry.ValveGeometry, verts []geometry.Vertex, lines []trace.Polyline, width, height int) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	px := func(x float64) float64 {
		return (x + flow.DefaultGridExtent) / (2 * flow.DefaultGridExtent) * float64(width)
	}
	py := func(y float64) float64 {
		return float64(height) - (y+flow.DefaultGridExtent)/(2*flow.DefaultGridExtent)*float64(height)
	}

	for _, line := range lines {
		if len(line.Points) < 2 {
			continue
		}
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.2" stroke-opacity="0.8" d="M`,
			speedColor(meanSpeed(line))))
		for i, p := range line.Points {
			if i == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", px(p.X), py(p.Y)))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", px(p.X), py(p.Y)))
			}
		}
		sb.WriteString("\"/>\n")
	}

	// Leaflets on top of the flow, one polyline per leaflet.
	for leaf := 0; leaf < geometry.Leaflets; leaf++ {
		start := leaf * g.Resolution
		sb.WriteString(`<path fill="none" stroke="#e8e8e8" stroke-width="2.5" d="M`)
		for i := 0; i < g.Resolution; i++ {
			v := verts[start+i]
			if i == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", px(v.X), py(v.Y)))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", px(v.X), py(v.Y)))
			}
		}
		sb.WriteString("\"/>\n")
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}

// WriteFrameSVG renders and writes a frame document to path.
func WriteFrameSVG(path string, g *geometry.ValveGeometry, verts []geometry.Vertex, lines []trace.Polyline, width, height int) error {
	return os.WriteFile(path, []byte(FrameToSVG(g, verts, lines, width, height)), 0644)
}

func meanSpeed(line trace.Polyline) float64 {
	if len(line.Points) == 0 {
		return 0
	}
	sum := 0.0
	for _, p := range line.Points {
		sum += p.Speed
	}
	return sum / float64(len(line.Points))
}

// speedColor ramps from cool blue at rest to red at colorSpeedScale cm/s.
func speedColor(speed float64) string {
	frac := speed / colorSpeedScale
	if frac > 1 {
		frac = 1
	}
	if frac < 0 {
		frac = 0
	}
	r := int(0x22 + frac*(0xcc-0x22))
	b := int(0xcc - frac*(0xcc-0x22))
	return fmt.Sprintf("#%02x44%02x", r, b)
}
