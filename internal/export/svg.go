package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/galmag/internal/viz"
)

// CanvasToSVG converts a Braille canvas to SVG format
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.Width) * scale * 2   // 2 sub-pixels per char
	height := float64(canvas.Height) * scale * 4 // 4 sub-pixels per char

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="#00ff00">
`, width, height, width, height)

	pixelMap := [4][2]int{
		{0x01, 0x08},
		{0x02, 0x10},
		{0x04, 0x20},
		{0x40, 0x80},
	}
	dotRadius := scale * 0.4

	for row := 0; row < canvas.Height; row++ {
		for col := 0; col < canvas.Width; col++ {
			r := canvas.Grid[row][col]
			if r < 0x2800 {
				continue
			}
			pattern := int(r - 0x2800)
			baseX := float64(col) * scale * 2
			baseY := float64(row) * scale * 4

			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&pixelMap[dy][dx] != 0 {
						cx := baseX + float64(dx)*scale + scale/2
						cy := baseY + float64(dy)*scale + scale/2
						fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n", cx, cy, dotRadius)
					}
				}
			}
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// Point is a projected position in kpc.
type Point struct {
	X, Y float64
}

// Bounds is the plotted region in kpc.
type Bounds struct {
	MinX, MaxX, MinY, MaxY float64
}

// Fit returns the bounding box of all paths with 10% padding on each side.
func Fit(paths [][]Point) Bounds {
	b := Bounds{math.Inf(1), math.Inf(-1), math.Inf(1), math.Inf(-1)}
	for _, path := range paths {
		for _, p := range path {
			b.MinX = math.Min(b.MinX, p.X)
			b.MaxX = math.Max(b.MaxX, p.X)
			b.MinY = math.Min(b.MinY, p.Y)
			b.MaxY = math.Max(b.MaxY, p.Y)
		}
	}
	if math.IsInf(b.MinX, 1) {
		return Bounds{-1, 1, -1, 1}
	}
	rangeX := b.MaxX - b.MinX
	rangeY := b.MaxY - b.MinY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	return Bounds{
		MinX: b.MinX - rangeX*0.1,
		MaxX: b.MaxX + rangeX*0.1,
		MinY: b.MinY - rangeY*0.1,
		MaxY: b.MaxY + rangeY*0.1,
	}
}

var palette = []string{"#00ff9f", "#ff6ac1", "#57c7ff", "#f3f99d", "#ff5c57"}

// PathsToSVG draws field-line projections as polylines. Paths with fewer than
// two points are skipped. A marker is drawn at each path's first point.
func PathsToSVG(paths [][]Point, bounds Bounds, width, height int) string {
	rangeX := bounds.MaxX - bounds.MinX
	rangeY := bounds.MaxY - bounds.MinY
	if rangeX <= 0 || rangeY <= 0 {
		return ""
	}
	project := func(p Point) (float64, float64) {
		x := (p.X - bounds.MinX) / rangeX * float64(width)
		y := float64(height) - (p.Y-bounds.MinY)/rangeY*float64(height)
		return x, y
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)

	for i, path := range paths {
		if len(path) < 2 {
			continue
		}
		color := palette[i%len(palette)]
		fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="M`, color)
		for j, p := range path {
			x, y := project(p)
			if j == 0 {
				fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
			} else {
				fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
			}
		}
		sb.WriteString("\"/>\n")
		x, y := project(path[0])
		fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"3\" fill=\"%s\"/>\n", x, y, color)
	}

	sb.WriteString("</svg>")
	return sb.String()
}
